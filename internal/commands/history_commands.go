package commands

import (
	"fmt"
	"strings"

	"github.com/bethropolis/easel/internal/history"
	"github.com/bethropolis/easel/internal/plugin"
	"github.com/tidwall/gjson"
)

func registerHistoryCommands(api plugin.EditorAPI, deps Deps) {
	register(api, "undo", func(args []string) error {
		out, err := deps.History.Undo(deps.Context)
		return reportNavigation(api, "Undo", out, err, deps.History.State())
	})
	register(api, "redo", func(args []string) error {
		out, err := deps.History.Redo(deps.Context)
		return reportNavigation(api, "Redo", out, err, deps.History.State())
	})
	register(api, "history", func(args []string) error {
		api.SetStatusMessage("%s", Summary(deps.History.Snapshots(), deps.History.State()))
		return nil
	})
}

func reportNavigation(api plugin.EditorAPI, name string, out history.Outcome, err error, st history.State) error {
	switch out {
	case history.Failed:
		return err
	case history.Busy:
		api.SetStatusMessage("%s ignored: restore in progress", name)
	case history.NothingToUndo, history.NothingToRedo:
		api.SetStatusMessage("Nothing to %s", strings.ToLower(name))
	default:
		api.SetStatusMessage("%s (%d/%d)", name, st.Cursor+1, st.Length)
	}
	return nil
}

// Summary describes the log as "History 2/3: 0 1* 4", listing the object
// count of every snapshot and marking the current one.
func Summary(snaps []history.Snapshot, st history.State) string {
	if len(snaps) == 0 {
		return "History empty"
	}
	counts := make([]string, len(snaps))
	for i, s := range snaps {
		c := fmt.Sprint(gjson.Get(string(s), "objects.#").Int())
		if i == st.Cursor {
			c += "*"
		}
		counts[i] = c
	}
	return fmt.Sprintf("History %d/%d: %s", st.Cursor+1, len(snaps), strings.Join(counts, " "))
}
