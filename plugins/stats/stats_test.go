package stats

import (
	"testing"

	"github.com/bethropolis/easel/internal/canvas"
	"github.com/bethropolis/easel/internal/history"
	"github.com/bethropolis/easel/internal/plugin/plugintest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummary(t *testing.T) {
	tests := []struct {
		name     string
		objs     []*canvas.Object
		selected int
		cursor   int
		length   int
		want     string
	}{
		{"empty", nil, 0, -1, 0, "0 objects, 0 selected, history 0/0"},
		{
			"mixed",
			[]*canvas.Object{
				canvas.NewObject(canvas.KindRect, 0, 0, 1, 1),
				canvas.NewText(0, 0, "a"),
				canvas.NewObject(canvas.KindRect, 0, 0, 1, 1),
			},
			1, 2, 4,
			"3 objects (2 rect, 1 text), 1 selected, history 3/4",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Summary(tt.objs, tt.selected, tt.cursor, tt.length))
		})
	}
}

func TestStatsCommand(t *testing.T) {
	api := plugintest.New()
	api.History = history.State{Cursor: 0, Length: 1}
	require.NoError(t, api.Doc.Add(canvas.NewObject(canvas.KindEllipse, 0, 0, 5, 5)))

	p := New()
	require.NoError(t, p.Initialize(api))
	require.NoError(t, api.Run("stats"))
	assert.Equal(t, "1 objects (1 ellipse), 0 selected, history 1/1", api.LastMessage())

	assert.Error(t, p.Initialize(api), "command is already registered")
}
