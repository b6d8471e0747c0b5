// Package clipboard copies, cuts and pastes canvas objects, optionally
// mirroring them to the system clipboard as JSON.
package clipboard

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/atotto/clipboard"
	"github.com/bethropolis/easel/internal/canvas"
	"github.com/bethropolis/easel/internal/logger"
	"github.com/bethropolis/easel/internal/types"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// DefaultPasteOffset shifts pasted objects so they do not hide the originals.
const DefaultPasteOffset = 10

const payloadKind = "easel/objects"

var (
	ErrEmpty       = errors.New("clipboard: nothing to paste")
	ErrUnsupported = errors.New("clipboard: system clipboard unavailable")
)

// Document is the part of the canvas the clipboard works on.
type Document interface {
	Selected() []*canvas.Object
	RemoveSelected() (int, error)
	AddAll(objs []*canvas.Object) error
	Select(ids ...string) error
	Center() types.Point
}

// System is the OS clipboard.
type System interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type osClipboard struct{}

func (osClipboard) ReadAll() (string, error) {
	if clipboard.Unsupported {
		return "", ErrUnsupported
	}
	return clipboard.ReadAll()
}

func (osClipboard) WriteAll(text string) error {
	if clipboard.Unsupported {
		return ErrUnsupported
	}
	return clipboard.WriteAll(text)
}

// payload is what goes on the system clipboard.
type payload struct {
	Kind    string           `json:"kind"`
	Objects []*canvas.Object `json:"objects"`
}

// Manager handles clipboard operations.
type Manager struct {
	mu     sync.Mutex
	doc    Document
	store  []*canvas.Object
	offset float64
	system System // nil when system clipboard mode is off
}

// Option configures a Manager.
type Option func(*Manager)

// WithSystemClipboard mirrors copies to the OS clipboard and reads it on paste.
func WithSystemClipboard(on bool) Option {
	return func(m *Manager) {
		if on {
			m.system = osClipboard{}
		} else {
			m.system = nil
		}
	}
}

// WithSystem uses s as the system clipboard.
func WithSystem(s System) Option {
	return func(m *Manager) { m.system = s }
}

// WithOffset sets the paste offset in canvas units.
func WithOffset(off float64) Option {
	return func(m *Manager) { m.offset = off }
}

// NewManager creates a new clipboard manager.
func NewManager(doc Document, opts ...Option) *Manager {
	m := &Manager{doc: doc, offset: DefaultPasteOffset}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// HasContent reports whether the internal store holds objects.
func (m *Manager) HasContent() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.store) > 0
}

// Copy stores deep copies of the selection. It returns how many objects were copied.
func (m *Manager) Copy() (int, error) {
	sel := m.doc.Selected()
	if len(sel) == 0 {
		return 0, canvas.ErrNoSelection
	}

	m.mu.Lock()
	m.store = sel // Selected already returns clones
	system := m.system
	m.mu.Unlock()

	if system != nil {
		data, err := json.Marshal(payload{Kind: payloadKind, Objects: sel})
		if err != nil {
			return len(sel), fmt.Errorf("encode clipboard payload: %w", err)
		}
		if err := system.WriteAll(string(data)); err != nil {
			// The internal copy still worked
			logger.Warnf("Clipboard: System clipboard write failed: %v", err)
		}
	}
	logger.Debugf("Clipboard: Copied %d object(s)", len(sel))
	return len(sel), nil
}

// Cut copies the selection, then removes it from the document.
func (m *Manager) Cut() (int, error) {
	n, err := m.Copy()
	if err != nil {
		return 0, err
	}
	if _, err := m.doc.RemoveSelected(); err != nil {
		return 0, fmt.Errorf("remove after cut: %w", err)
	}
	logger.Debugf("Clipboard: Cut %d object(s)", n)
	return n, nil
}

// Paste adds clones of the clipboard contents, offset from the originals, and
// selects them. Objects at 0 are placed relative to the canvas centre.
func (m *Manager) Paste() ([]string, error) {
	src := m.source()
	if len(src) == 0 {
		return nil, ErrEmpty
	}

	center := m.doc.Center()
	clones := make([]*canvas.Object, len(src))
	ids := make([]string, len(src))
	for i, o := range src {
		c := o.Clone()
		c.ID = uuid.NewString()
		c.Selectable = true
		c.Left = orDefault(c.Left, center.X) + m.offset
		c.Top = orDefault(c.Top, center.Y) + m.offset
		clones[i] = c
		ids[i] = c.ID
	}

	if err := m.doc.AddAll(clones); err != nil {
		return nil, fmt.Errorf("paste: %w", err)
	}
	if err := m.doc.Select(ids...); err != nil {
		return ids, fmt.Errorf("select pasted objects: %w", err)
	}
	logger.Debugf("Clipboard: Pasted %d object(s)", len(ids))
	return ids, nil
}

// source picks what to paste: a system clipboard payload, then the internal
// store, then plain system text as a new text object.
func (m *Manager) source() []*canvas.Object {
	m.mu.Lock()
	store := m.store
	system := m.system
	m.mu.Unlock()

	var text string
	if system != nil {
		var err error
		text, err = system.ReadAll()
		if err != nil {
			logger.Debugf("Clipboard: System clipboard read failed: %v", err)
			text = ""
		}
		if objs, ok := decodePayload(text); ok {
			return objs
		}
	}

	if len(store) > 0 {
		return store
	}

	if text = strings.TrimSpace(text); text != "" {
		return []*canvas.Object{canvas.NewText(0, 0, text)}
	}
	return nil
}

func decodePayload(text string) ([]*canvas.Object, bool) {
	if text == "" || !gjson.Valid(text) {
		return nil, false
	}
	if gjson.Get(text, "kind").String() != payloadKind || !gjson.Get(text, "objects").IsArray() {
		return nil, false
	}
	var p payload
	if err := json.Unmarshal([]byte(text), &p); err != nil {
		logger.Warnf("Clipboard: Ignoring malformed payload: %v", err)
		return nil, false
	}
	objs := make([]*canvas.Object, 0, len(p.Objects))
	for _, o := range p.Objects {
		if o != nil && o.Kind.Valid() {
			objs = append(objs, o)
		}
	}
	return objs, len(objs) > 0
}

func orDefault(v, def float64) float64 {
	if v == 0 {
		return def
	}
	return v
}
