package corelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLevelOrdering(t *testing.T) {
	assert.True(t, Panic < Alert)
	assert.True(t, Lowest > Trace)
	assert.Equal(t, Level(0), Panic)
	assert.Equal(t, Level(11), Lowest)
}

func TestLevelEnabled(t *testing.T) {
	assert.True(t, Error.Enabled(Info))
	assert.True(t, Info.Enabled(Info))
	assert.False(t, Debug.Enabled(Info))
}

func TestLevelCharAndString(t *testing.T) {
	tests := []struct {
		level Level
		char  byte
		name  string
	}{
		{Panic, 'P', "panic"},
		{Alert, 'A', "alert"},
		{Critical, 'C', "critical"},
		{Error, 'E', "error"},
		{Warning, 'W', "warning"},
		{Notice, 'N', "notice"},
		{Output, 'O', "output"},
		{Info, 'I', "info"},
		{Debug, 'D', "debug"},
		{Fine, 'F', "fine"},
		{Trace, 'T', "trace"},
		{Lowest, 'L', "lowest"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.char, tt.level.Char())
		assert.Equal(t, tt.name, tt.level.String())
	}
}

func TestParseLevelAliases(t *testing.T) {
	tests := map[string]Level{
		"emergency": Panic,
		"crit":      Critical,
		"err":       Error,
		"warn":      Warning,
		"out":       Output,
		"INFO":      Info,
		"  trace  ": Trace,
	}

	for input, want := range tests {
		got, err := ParseLevel(input)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestParseLevelUnknown(t *testing.T) {
	_, err := ParseLevel("bogus")
	require.Error(t, err)

	var coreErr *Error
	require.ErrorAs(t, err, &coreErr)
	assert.Equal(t, KindConfig, coreErr.Kind())
}
