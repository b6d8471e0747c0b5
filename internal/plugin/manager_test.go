package plugin

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlugin struct {
	name     string
	initErr  error
	inits    *[]string
	shutdown bool
}

func (p *fakePlugin) Name() string { return p.name }

func (p *fakePlugin) Initialize(api EditorAPI) error {
	*p.inits = append(*p.inits, p.name)
	return p.initErr
}

func (p *fakePlugin) Shutdown() error {
	p.shutdown = true
	return nil
}

func TestRegisterRejectsDuplicatesAndEmptyNames(t *testing.T) {
	var inits []string
	m := NewManager()

	require.NoError(t, m.Register(&fakePlugin{name: "stats", inits: &inits}))
	assert.Error(t, m.Register(&fakePlugin{name: "stats", inits: &inits}))
	assert.Error(t, m.Register(&fakePlugin{name: "", inits: &inits}))

	p, ok := m.GetPlugin("stats")
	require.True(t, ok)
	assert.Equal(t, "stats", p.Name())
}

func TestLifecycleRunsInNameOrder(t *testing.T) {
	var inits []string
	m := NewManager()
	b := &fakePlugin{name: "b", inits: &inits, initErr: errors.New("boom")}
	a := &fakePlugin{name: "a", inits: &inits}
	require.NoError(t, m.Register(b))
	require.NoError(t, m.Register(a))

	m.InitializePlugins(nil)
	assert.Equal(t, []string{"a", "b"}, inits, "a failing plugin does not stop the others")

	m.ShutdownPlugins()
	assert.True(t, a.shutdown)
	assert.True(t, b.shutdown)
}
