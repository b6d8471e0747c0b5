// plugins/stats/stats.go
package stats

import (
	"fmt"
	"sort"
	"strings"

	"github.com/bethropolis/easel/internal/canvas"
	"github.com/bethropolis/easel/internal/plugin"
)

// Ensure Stats implements plugin.Plugin
var _ plugin.Plugin = (*Stats)(nil)

// Stats reports what the document contains and where history stands.
type Stats struct {
	api plugin.EditorAPI
}

// New creates a new instance of the Stats plugin.
func New() plugin.Plugin {
	return &Stats{}
}

// Name returns the unique name of the plugin.
func (p *Stats) Name() string {
	return "stats"
}

// Initialize registers the :stats command.
func (p *Stats) Initialize(api plugin.EditorAPI) error {
	p.api = api
	if err := api.RegisterCommand("stats", p.executeStats); err != nil {
		return fmt.Errorf("failed to register 'stats' command: %w", err)
	}
	return nil
}

// Shutdown performs cleanup (nothing needed for this simple plugin).
func (p *Stats) Shutdown() error {
	return nil
}

func (p *Stats) executeStats(args []string) error {
	if p.api == nil {
		return fmt.Errorf("stats plugin not initialized with API")
	}
	st := p.api.GetHistoryState()
	p.api.SetStatusMessage("%s", Summary(p.api.GetObjects(), p.api.GetSelectionCount(), st.Cursor, st.Length))
	return nil
}

// Summary formats per-kind counts, e.g. "3 objects (2 rect, 1 text), 1 selected, history 2/4".
func Summary(objs []*canvas.Object, selected, cursor, length int) string {
	counts := make(map[canvas.Kind]int)
	for _, o := range objs {
		counts[o.Kind]++
	}
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, string(k))
	}
	sort.Strings(kinds)

	parts := make([]string, 0, len(kinds))
	for _, k := range kinds {
		parts = append(parts, fmt.Sprintf("%d %s", counts[canvas.Kind(k)], k))
	}
	detail := ""
	if len(parts) > 0 {
		detail = " (" + strings.Join(parts, ", ") + ")"
	}
	return fmt.Sprintf("%d objects%s, %d selected, history %d/%d", len(objs), detail, selected, cursor+1, length)
}
