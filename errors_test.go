package corelog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorKind(t *testing.T) {
	err := NewError(KindConfig, "bad config")
	assert.Equal(t, KindConfig, err.Kind())
	assert.Contains(t, err.Error(), "bad config")
}

func TestWrapErrorNilCauseDegrades(t *testing.T) {
	err := WrapError(KindIllegalState, nil, "no cause")
	assert.Equal(t, KindIllegalState, err.Kind())
	require.Nil(t, err.Unwrap())
}

func TestDepthAndExceedsMaxDepth(t *testing.T) {
	var err error = NewError(KindConfig, "root")

	for i := 0; i < MaxChainDepth; i++ {
		err = WrapError(KindConfig, err, "wrap")
	}

	assert.Equal(t, MaxChainDepth+1, Depth(err))
	assert.True(t, ExceedsMaxDepth(err))
}

func TestDepthOfNil(t *testing.T) {
	assert.Equal(t, 0, Depth(nil))
}

func TestErrorGroupAccumulates(t *testing.T) {
	group := NewErrorGroup()
	group.Add(NewError(KindConfig, "one"))
	group.Add(NewError(KindPlatformCallFailed, "two"))

	assert.True(t, group.HasErrors())
}
