package canvas

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bethropolis/easel/internal/event"
	"github.com/bethropolis/easel/internal/logger"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
	"gopkg.in/yaml.v3"
)

// CustomProps are the per-object properties that only survive serialization
// when explicitly included.
var CustomProps = []string{"id", "selectable", "lockUniScaling"}

// file is the on-disk and snapshot layout.
type file struct {
	Version    string    `json:"version" yaml:"version"`
	Width      float64   `json:"width" yaml:"width"`
	Height     float64   `json:"height" yaml:"height"`
	Background string    `json:"background" yaml:"background"`
	Objects    []*Object `json:"objects" yaml:"objects"`
}

func (d *Document) fileLocked() file {
	objs := d.objects
	if objs == nil {
		objs = []*Object{}
	}
	return file{
		Version:    documentVersion,
		Width:      d.width,
		Height:     d.height,
		Background: d.background,
		Objects:    objs,
	}
}

// Serialize encodes the document as compact JSON. Custom properties not named
// in include are stripped. The selection is not part of the output.
func (d *Document) Serialize(include []string) ([]byte, error) {
	d.mu.RLock()
	data, err := json.Marshal(d.fileLocked())
	n := len(d.objects)
	d.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}

	for _, prop := range CustomProps {
		if slices.Contains(include, prop) {
			continue
		}
		for i := 0; i < n; i++ {
			data, err = sjson.DeleteBytes(data, fmt.Sprintf("objects.%d.%s", i, prop))
			if err != nil {
				return nil, fmt.Errorf("strip %s: %w", prop, err)
			}
		}
	}
	return data, nil
}

// decode parses JSON document data, filling defaults for absent properties.
func decode(data []byte) (file, error) {
	var f file
	if !gjson.ValidBytes(data) {
		return f, fmt.Errorf("%w: malformed JSON", ErrInvalidSnapshot)
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() || !root.Get("objects").IsArray() {
		return f, fmt.Errorf("%w: missing objects array", ErrInvalidSnapshot)
	}
	if err := json.Unmarshal(data, &f); err != nil {
		return f, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}

	items := root.Get("objects").Array()
	for i, o := range f.Objects {
		if o == nil {
			return f, fmt.Errorf("%w: object %d is null", ErrInvalidSnapshot, i)
		}
		raw := items[i]
		if !raw.Get("selectable").Exists() {
			o.Selectable = true
		}
		// Zero scale is treated as unscaled
		if o.ScaleX == 0 {
			o.ScaleX = 1
		}
		if o.ScaleY == 0 {
			o.ScaleY = 1
		}
		if !raw.Get("opacity").Exists() {
			o.Opacity = 1
		}
		if o.ID == "" {
			o.ID = uuid.NewString()
		}
		if err := o.validate(); err != nil {
			return f, err
		}
	}
	if f.Width <= 0 {
		f.Width = DefaultWidth
	}
	if f.Height <= 0 {
		f.Height = DefaultHeight
	}
	if f.Background == "" {
		f.Background = DefaultBackground
	}
	return f, nil
}

// Deserialize replaces the whole document with data. The selection is cleared.
// It emits ObjectAdded for every object, then DocumentLoaded.
func (d *Document) Deserialize(ctx context.Context, data []byte) error {
	f, err := decode(data)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return d.replace(f)
}

// replace swaps in f wholesale. It leaves the document marked modified.
func (d *Document) replace(f file) error {
	return d.mutate(func() ([]emission, error) {
		d.objects = f.Objects
		d.selection = nil
		d.width, d.height = f.Width, f.Height
		d.background = f.Background
		clear(d.lastFill)

		evs := make([]emission, 0, len(f.Objects)+1)
		for _, o := range f.Objects {
			evs = append(evs, emission{event.TypeObjectAdded, event.ObjectData{ID: o.ID, Kind: string(o.Kind)}})
		}
		evs = append(evs, emission{event.TypeDocumentLoaded, event.DocumentData{FilePath: d.filePath, ObjectCount: len(f.Objects)}})
		return evs, nil
	})
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// Load reads a .json or .yaml document. A missing file yields an empty
// document bound to path.
func (d *Document) Load(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			logger.Infof("Canvas: %s does not exist, starting empty", path)
			w, h := d.Size()
			d.SetFilePath(path)
			err := d.replace(file{Width: w, Height: h, Background: d.Background()})
			d.markSaved()
			return err
		}
		return fmt.Errorf("failed to open file '%s': %w", path, err)
	}

	if isYAML(path) {
		var generic interface{}
		if err := yaml.Unmarshal(data, &generic); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
		}
		if data, err = json.Marshal(generic); err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
		}
	}

	f, err := decode(data)
	if err != nil {
		return fmt.Errorf("load '%s': %w", path, err)
	}

	d.SetFilePath(path)
	if err := d.replace(f); err != nil {
		return err
	}
	d.markSaved()
	logger.Infof("Canvas: Loaded %d object(s) from %s", len(f.Objects), path)
	return nil
}

// Save writes the document with all custom properties. An empty path uses the
// current file path.
func (d *Document) Save(path string) error {
	if path == "" {
		path = d.FilePath()
	}
	if path == "" {
		return ErrNoFilePath
	}

	var data []byte
	var err error
	if isYAML(path) {
		d.mu.RLock()
		data, err = yaml.Marshal(d.fileLocked())
		d.mu.RUnlock()
	} else {
		data, err = d.Serialize(CustomProps)
		if err == nil {
			data = pretty.Pretty(data)
		}
	}
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file '%s': %w", path, err)
	}

	d.mu.Lock()
	d.filePath = path
	d.modified = false
	count := len(d.objects)
	d.mu.Unlock()

	d.emit([]emission{{event.TypeDocumentSaved, event.DocumentData{FilePath: path, ObjectCount: count}}})
	logger.Infof("Canvas: Saved %d object(s) to %s", count, path)
	return nil
}

func (d *Document) markSaved() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.modified = false
}
