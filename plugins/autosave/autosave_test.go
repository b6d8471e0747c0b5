package autosave

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/bethropolis/easel/internal/canvas"
	"github.com/bethropolis/easel/internal/plugin/plugintest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDisabledByDefault(t *testing.T) {
	api := plugintest.New()
	p := New().(*AutoSave)
	require.NoError(t, p.Initialize(api))
	defer p.Shutdown()

	assert.False(t, p.saveIfModified())
	assert.Error(t, api.Run("autosave", "now"))
	require.NoError(t, api.Run("autosave"))
	assert.Equal(t, "Autosave: enabled=false interval=1m0s", api.LastMessage())
}

func TestInvalidConfigKeepsDefaults(t *testing.T) {
	api := plugintest.New()
	api.Config["autosave"] = map[string]interface{}{"enabled": "yes", "interval": "-5s"}
	p := New().(*AutoSave)
	require.NoError(t, p.Initialize(api))
	defer p.Shutdown()

	assert.False(t, p.enabled)
	assert.Equal(t, defaultInterval, p.interval)
}

func TestSavesOnlyModifiedDocumentsWithAPath(t *testing.T) {
	api := plugintest.New()
	api.Config["autosave"] = map[string]interface{}{"enabled": true, "interval": "1h"}
	p := New().(*AutoSave)
	require.NoError(t, p.Initialize(api))
	defer p.Shutdown()

	// Unmodified
	assert.False(t, p.saveIfModified())

	// Modified but unnamed
	require.NoError(t, api.Doc.Add(canvas.NewObject(canvas.KindRect, 0, 0, 1, 1)))
	assert.False(t, p.saveIfModified())

	api.Doc.SetFilePath(filepath.Join(t.TempDir(), "auto.json"))
	assert.True(t, p.saveIfModified())
	assert.Equal(t, 1, api.SaveCount())
	assert.False(t, api.Doc.IsModified())
}

func TestTickerSaves(t *testing.T) {
	api := plugintest.New()
	api.Config["autosave"] = map[string]interface{}{"enabled": true, "interval": "10ms"}
	api.Doc.SetFilePath(filepath.Join(t.TempDir(), "tick.json"))
	require.NoError(t, api.Doc.Add(canvas.NewObject(canvas.KindRect, 0, 0, 1, 1)))

	p := New()
	require.NoError(t, p.Initialize(api))

	require.Eventually(t, func() bool { return api.SaveCount() > 0 }, time.Second, 5*time.Millisecond)
	require.NoError(t, p.Shutdown())
}
