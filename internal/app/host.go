package app

import (
	"context"

	"github.com/bethropolis/easel/internal/canvas"
	"github.com/bethropolis/easel/internal/history"
)

// historyHost lets the history engine snapshot and restore the document.
type historyHost struct {
	doc     *canvas.Document
	include []string // Custom properties kept in snapshots
	redraw  func()
}

var _ history.Host = (*historyHost)(nil)

func newHistoryHost(doc *canvas.Document, include []string, redraw func()) *historyHost {
	if redraw == nil {
		redraw = func() {}
	}
	return &historyHost{doc: doc, include: include, redraw: redraw}
}

func (h *historyHost) Serialize() (history.Snapshot, error) {
	data, err := h.doc.Serialize(h.include)
	if err != nil {
		return "", err
	}
	return history.Snapshot(data), nil
}

func (h *historyHost) Deserialize(ctx context.Context, s history.Snapshot) error {
	return h.doc.Deserialize(ctx, []byte(s))
}

// Render asks the main loop for a redraw; it never draws on the caller's goroutine.
func (h *historyHost) Render() {
	h.redraw()
}
