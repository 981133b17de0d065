package corelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerIsEnabledFor(t *testing.T) {
	registry := NewRegistry()
	logger := registry.Register("app.worker", Info)

	assert.True(t, logger.IsEnabledFor(Error))
	assert.True(t, logger.IsEnabledFor(Info))
	assert.False(t, logger.IsEnabledFor(Debug))

	logger.SetLevel(Debug)
	assert.True(t, logger.IsEnabledFor(Debug))
}

func TestRegistryUnregisterRemoves(t *testing.T) {
	registry := NewRegistry()
	a := registry.Register("a", Info)
	b := registry.Register("b", Info)

	registry.Unregister(a)

	snapshot := registry.Snapshot()
	assert.Len(t, snapshot, 1)
	assert.Same(t, b, snapshot[0])
}

func TestRegistryConfigureLastMatchWins(t *testing.T) {
	registry := NewRegistry()
	logger := registry.Register("app.worker.fetch", Info)

	registry.Configure([]Rule{
		{Prefix: "", Level: Warning},
		{Prefix: "app.worker", Level: Debug},
	})

	assert.Equal(t, Debug, logger.Level())
}

func TestRegistrySnapshotIsStable(t *testing.T) {
	registry := NewRegistry()
	registry.Register("a", Info)

	snapshot := registry.Snapshot()
	registry.Register("b", Info)

	assert.Len(t, snapshot, 1)
}
