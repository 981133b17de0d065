//go:build linux

package corelog

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestChildPostForkReachesFinalized exercises the FORKED->FINALIZED
// transition directly rather than through Fork(): calling fork(2) itself
// from a test would duplicate the entire test binary process.
func TestChildPostForkReachesFinalized(t *testing.T) {
	proc.setState(StateInitialized)

	childPostFork()

	assert.Equal(t, StateFinalized, proc.getState())
	assert.Nil(t, proc.dataCh)
	assert.Nil(t, proc.h)
	assert.Nil(t, proc.writer)

	// FINALIZED is one of the states Init legally starts from.
	cfg := DefaultConfig()
	cfg.Sink = filepath.Join(t.TempDir(), "out.log")

	require.NoError(t, Init(cfg))
	require.NoError(t, Finalize())
}
