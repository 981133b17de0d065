package sink

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenStdout(t *testing.T) {
	w, err := Open("-")
	require.NoError(t, err)
	require.NoError(t, w.Sync())
	require.NoError(t, w.Close())
}

func TestOpenStderr(t *testing.T) {
	w, err := Open("+")
	require.NoError(t, err)
	require.NoError(t, w.Sync())
	require.NoError(t, w.Close())
}

func TestOpenEmptyPathFails(t *testing.T) {
	_, err := Open("")
	require.Error(t, err)
}

func TestOpenFileAppendsAndSyncs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")

	w, err := Open(path)
	require.NoError(t, err)

	n, err := w.Write([]byte("line one\n"))
	require.NoError(t, err)
	assert.Equal(t, 9, n)
	require.NoError(t, w.Sync())
	require.NoError(t, w.Close())

	w2, err := Open(path)
	require.NoError(t, err)

	_, err = w2.Write([]byte("line two\n"))
	require.NoError(t, err)
	require.NoError(t, w2.Close())

	contents, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two\n", string(contents))
}
