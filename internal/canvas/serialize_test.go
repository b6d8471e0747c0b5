package canvas

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/bethropolis/easel/internal/event"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"
)

func TestSerializeStripsCustomProps(t *testing.T) {
	d := New(0, 0)
	r := NewObject(KindRect, 1, 2, 3, 4)
	r.LockUniScaling = true
	require.NoError(t, d.Add(r))
	require.NoError(t, d.Select(r.ID))

	tests := []struct {
		name    string
		include []string
		present []string
		absent  []string
	}{
		{name: "none", include: nil, absent: []string{"id", "selectable", "lockUniScaling"}},
		{name: "defaults", include: []string{"id", "selectable"}, present: []string{"id", "selectable"}, absent: []string{"lockUniScaling"}},
		{name: "all", include: CustomProps, present: []string{"id", "selectable", "lockUniScaling"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := d.Serialize(tt.include)
			require.NoError(t, err)
			for _, p := range tt.present {
				assert.True(t, gjson.GetBytes(data, "objects.0."+p).Exists(), p)
			}
			for _, p := range tt.absent {
				assert.False(t, gjson.GetBytes(data, "objects.0."+p).Exists(), p)
			}
			assert.Equal(t, "1.0", gjson.GetBytes(data, "version").String())
			assert.False(t, gjson.GetBytes(data, "selection").Exists())
		})
	}
}

func TestSerializeIsDeterministic(t *testing.T) {
	d := New(0, 0)
	require.NoError(t, d.Add(NewObject(KindEllipse, 0, 0, 5, 5)))
	a, err := d.Serialize(CustomProps)
	require.NoError(t, err)
	b, err := d.Serialize(CustomProps)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestDeserializeRoundTrip(t *testing.T) {
	src := New(320, 240)
	txt := NewText(10, 10, "hi")
	txt.Shadow = DefaultShadow()
	require.NoError(t, src.Add(txt))
	_, err := src.AddPath([]PathCommand{
		{Op: "M", Args: []float64{0, 0}},
		{Op: "C", Args: []float64{10, 0, 20, 10, 30, 30}},
		{Op: "Z"},
	})
	require.NoError(t, err)

	data, err := src.Serialize(CustomProps)
	require.NoError(t, err)

	dst := New(0, 0)
	require.NoError(t, dst.Deserialize(context.Background(), data))
	again, err := dst.Serialize(CustomProps)
	require.NoError(t, err)
	assert.JSONEq(t, string(data), string(again))

	w, h := dst.Size()
	assert.Equal(t, 320.0, w)
	assert.Equal(t, 240.0, h)
}

func TestDeserializeDefaults(t *testing.T) {
	d := New(0, 0)
	data := []byte(`{"version":"1.0","objects":[{"type":"rect","left":1,"top":2,"width":3,"height":4}]}`)
	require.NoError(t, d.Deserialize(context.Background(), data))

	objs := d.Objects()
	require.Len(t, objs, 1)
	o := objs[0]
	assert.True(t, o.Selectable)
	assert.NotEmpty(t, o.ID)
	assert.Equal(t, 1.0, o.ScaleX)
	assert.Equal(t, 1.0, o.Opacity)
	assert.Equal(t, DefaultBackground, d.Background())

	data = []byte(`{"objects":[{"type":"rect","selectable":false}]}`)
	require.NoError(t, d.Deserialize(context.Background(), data))
	assert.False(t, d.Objects()[0].Selectable)
}

func TestDeserializeRejectsBadData(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{name: "malformed", data: `{"objects":[`, want: ErrInvalidSnapshot},
		{name: "no objects", data: `{"version":"1.0"}`, want: ErrInvalidSnapshot},
		{name: "null object", data: `{"objects":[null]}`, want: ErrInvalidSnapshot},
		{name: "bad path", data: `{"objects":[{"type":"path","path":[[1,2]]}]}`, want: ErrInvalidSnapshot},
		{name: "unknown kind", data: `{"objects":[{"type":"star"}]}`, want: ErrUnknownKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := New(0, 0)
			require.NoError(t, d.Add(NewObject(KindRect, 0, 0, 1, 1)))
			err := d.Deserialize(context.Background(), []byte(tt.data))
			assert.ErrorIs(t, err, tt.want)
			assert.Equal(t, 1, d.Len(), "failed restore leaves document untouched")
		})
	}
}

func TestDeserializeHonoursCancellation(t *testing.T) {
	d := New(0, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := d.Deserialize(ctx, []byte(`{"objects":[{"type":"rect"}]}`))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, d.Len())
}

func TestDeserializeEmitsAddedThenLoaded(t *testing.T) {
	d, rec, _ := newTestDoc(t)
	r := addRect(t, d, 0, 0, 1, 1)
	require.NoError(t, d.Select(r.ID))
	rec.types = nil

	data := []byte(`{"objects":[{"type":"rect"},{"type":"ellipse"}]}`)
	require.NoError(t, d.Deserialize(context.Background(), data))
	assert.Equal(t, []event.Type{
		event.TypeObjectAdded,
		event.TypeObjectAdded,
		event.TypeDocumentLoaded,
	}, rec.types)
	assert.Empty(t, d.Selection())
}

func TestSaveAndLoad(t *testing.T) {
	for _, name := range []string{"drawing.json", "drawing.yaml"} {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), name)
			src, rec, _ := newTestDoc(t)
			r := NewObject(KindRect, 5, 6, 7, 8)
			r.Selectable = false
			require.NoError(t, src.Add(r))
			_, err := src.AddPath([]PathCommand{{Op: "M", Args: []float64{0, 0}}, {Op: "Q", Args: []float64{5, 5, 10, 0}}})
			require.NoError(t, err)

			require.NoError(t, src.Save(path))
			assert.False(t, src.IsModified())
			assert.Equal(t, event.TypeDocumentSaved, rec.types[len(rec.types)-1])

			dst := New(0, 0)
			require.NoError(t, dst.Load(path))
			assert.False(t, dst.IsModified())
			assert.Equal(t, path, dst.FilePath())

			want, err := src.Serialize(CustomProps)
			require.NoError(t, err)
			got, err := dst.Serialize(CustomProps)
			require.NoError(t, err)
			assert.JSONEq(t, string(want), string(got))
		})
	}
}

func TestLoadMissingFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "new.json")
	d := New(0, 0)
	require.NoError(t, d.Add(NewObject(KindRect, 0, 0, 1, 1)))
	require.NoError(t, d.Load(path))
	assert.Zero(t, d.Len())
	assert.Equal(t, path, d.FilePath())
	_, err := os.Stat(path)
	assert.True(t, os.IsNotExist(err))
}

func TestSaveWithoutPath(t *testing.T) {
	assert.ErrorIs(t, New(0, 0).Save(""), ErrNoFilePath)
}

func TestDeserializeFixesZeroScale(t *testing.T) {
	d := New(0, 0)
	data := []byte(`{"objects":[{"id":"a","type":"rect","width":100,"height":50,"scaleX":0,"scaleY":0}]}`)
	require.NoError(t, d.Deserialize(context.Background(), data))

	o, ok := d.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1.0, o.ScaleX)
	assert.Equal(t, 1.0, o.ScaleY)

	require.NoError(t, d.Select("a"))
	require.NoError(t, d.Resize(200, 80))
	o, _ = d.Get("a")
	assert.Equal(t, 200.0, o.Width)
	assert.Equal(t, 80.0, o.Height)

	_, err := d.Serialize(nil)
	assert.NoError(t, err)
}
