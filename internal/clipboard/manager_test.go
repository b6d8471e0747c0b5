package clipboard

import (
	"errors"
	"testing"

	"github.com/bethropolis/easel/internal/canvas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSystem struct {
	text    string
	readErr error
	writes  int
}

func (f *fakeSystem) ReadAll() (string, error) { return f.text, f.readErr }

func (f *fakeSystem) WriteAll(text string) error {
	f.writes++
	f.text = text
	return nil
}

func setup(t *testing.T, opts ...Option) (*canvas.Document, *Manager, *canvas.Object) {
	t.Helper()
	doc := canvas.New(200, 100)
	r := canvas.NewObject(canvas.KindRect, 20, 30, 10, 10)
	require.NoError(t, doc.Add(r))
	return doc, NewManager(doc, opts...), r
}

func TestCopyRequiresSelection(t *testing.T) {
	_, m, _ := setup(t)
	_, err := m.Copy()
	assert.ErrorIs(t, err, canvas.ErrNoSelection)

	_, err = m.Paste()
	assert.ErrorIs(t, err, ErrEmpty)
}

func TestCopyPasteOffsetsAndSelects(t *testing.T) {
	doc, m, r := setup(t)
	require.NoError(t, doc.Select(r.ID))
	n, err := m.Copy()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	ids, err := m.Paste()
	require.NoError(t, err)
	require.Len(t, ids, 1)
	assert.NotEqual(t, r.ID, ids[0])
	assert.Equal(t, ids, doc.Selection())

	pasted, ok := doc.Get(ids[0])
	require.True(t, ok)
	assert.Equal(t, 30.0, pasted.Left)
	assert.Equal(t, 40.0, pasted.Top)

	// The store is not shifted by pasting
	ids2, err := m.Paste()
	require.NoError(t, err)
	again, _ := doc.Get(ids2[0])
	assert.Equal(t, 30.0, again.Left)
	assert.Equal(t, 3, doc.Len())
}

func TestPasteUsesCanvasCentreForZeroCoordinates(t *testing.T) {
	doc, m, _ := setup(t, WithOffset(5))
	o := canvas.NewObject(canvas.KindEllipse, 0, 0, 4, 4)
	require.NoError(t, doc.Add(o))
	require.NoError(t, doc.Select(o.ID))
	_, err := m.Copy()
	require.NoError(t, err)

	ids, err := m.Paste()
	require.NoError(t, err)
	got, _ := doc.Get(ids[0])
	assert.Equal(t, 105.0, got.Left)
	assert.Equal(t, 55.0, got.Top)
}

func TestCutRemovesSelection(t *testing.T) {
	doc, m, r := setup(t)
	require.NoError(t, doc.Select(r.ID))
	n, err := m.Cut()
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Zero(t, doc.Len())
	assert.True(t, m.HasContent())

	_, err = m.Paste()
	require.NoError(t, err)
	assert.Equal(t, 1, doc.Len())
}

func TestSystemClipboard(t *testing.T) {
	sys := &fakeSystem{}
	doc, m, r := setup(t, WithSystem(sys))
	require.NoError(t, doc.Select(r.ID))
	_, err := m.Copy()
	require.NoError(t, err)
	assert.Equal(t, 1, sys.writes)
	assert.Contains(t, sys.text, payloadKind)

	// A second editor instance reads the payload
	other := canvas.New(200, 100)
	m2 := NewManager(other, WithSystem(sys))
	ids, err := m2.Paste()
	require.NoError(t, err)
	require.Len(t, ids, 1)
	got, _ := other.Get(ids[0])
	assert.Equal(t, canvas.KindRect, got.Kind)
	assert.Equal(t, 30.0, got.Left)
}

func TestSystemClipboardFallbacks(t *testing.T) {
	tests := []struct {
		name     string
		sys      *fakeSystem
		wantKind canvas.Kind
		wantErr  error
	}{
		{name: "plain text becomes text object", sys: &fakeSystem{text: "hello"}, wantKind: canvas.KindText},
		{name: "foreign json is plain text", sys: &fakeSystem{text: `{"kind":"other","objects":[]}`}, wantKind: canvas.KindText},
		{name: "read error", sys: &fakeSystem{readErr: errors.New("no display")}, wantErr: ErrEmpty},
		{name: "blank", sys: &fakeSystem{text: "   "}, wantErr: ErrEmpty},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := canvas.New(0, 0)
			m := NewManager(doc, WithSystem(tt.sys))
			ids, err := m.Paste()
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			got, _ := doc.Get(ids[0])
			assert.Equal(t, tt.wantKind, got.Kind)
		})
	}
}

func TestInternalStoreWinsOverPlainText(t *testing.T) {
	sys := &fakeSystem{}
	doc, m, r := setup(t, WithSystem(sys))
	require.NoError(t, doc.Select(r.ID))
	_, err := m.Copy()
	require.NoError(t, err)
	sys.text = "copied elsewhere"

	ids, err := m.Paste()
	require.NoError(t, err)
	got, _ := doc.Get(ids[0])
	assert.Equal(t, canvas.KindRect, got.Kind)
}
