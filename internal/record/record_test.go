package record

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	now := time.Unix(1700000000, 123456789)

	frame, err := Encode(7, now, 42, true, 3, "main.go", 10, "doStuff", "app.worker", "hello\nworld")
	require.NoError(t, err)

	header, file, fn, loggerName, message, err := Decode(frame.Data)
	require.NoError(t, err)

	assert.Equal(t, uint8(7), header.Level)
	assert.True(t, header.Timestamp.Equal(now))
	assert.Equal(t, uint32(42), header.Tid)
	assert.True(t, header.HasTid)
	assert.Equal(t, uint16(3), header.Rank)
	assert.Equal(t, int32(10), header.Line)
	assert.Equal(t, "main.go", file)
	assert.Equal(t, "doStuff", fn)
	assert.Equal(t, "app.worker", loggerName)
	assert.Equal(t, "hello\nworld", message)
}

func TestEncodeRejectsNegativeLine(t *testing.T) {
	_, err := Encode(0, time.Now(), 0, false, 0, "f.go", -1, "fn", "logger", "msg")
	require.Error(t, err)
}

func TestDecodeRejectsShortFrame(t *testing.T) {
	_, _, _, _, _, err := Decode([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestDecodeRejectsTruncatedTail(t *testing.T) {
	frame, err := Encode(0, time.Now(), 0, true, 0, "f.go", 1, "fn", "logger", "msg")
	require.NoError(t, err)

	_, _, _, _, _, err = Decode(frame.Data[:len(frame.Data)-1])
	require.Error(t, err)
}

func TestSplitMessage(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, SplitMessage("a\nb\nc"))
	assert.Equal(t, []string{"single"}, SplitMessage("single"))
}

func TestRenderLineWithTid(t *testing.T) {
	header := Header{Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 6000, time.UTC), Tid: 99, HasTid: true, Rank: 1, Line: 42}

	line := RenderLine(header, 'I', 1234, "prog", "/path/to/file.go", "fn", "logger", "hello")

	assert.Equal(t, "I|20260102T030405.000006000|01234.00099=00001:prog|file.go:42@fn|logger|hello\n", string(line))
}

func TestRenderLineWithoutTid(t *testing.T) {
	header := Header{Timestamp: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC), HasTid: false, Rank: 2, Line: 1}

	line := RenderLine(header, 'W', 55, "prog", "file.go", "fn", "logger", "msg")

	assert.Equal(t, "W|20260102T030405.000000000|00055:00002:prog|file.go:1@fn|logger|msg\n", string(line))
}

func TestEncodeIntoReusesCapacity(t *testing.T) {
	pool := NewPool()
	frame := pool.Get(128)

	err := EncodeInto(frame, 0, time.Now(), 1, true, 0, "f.go", 1, "fn", "logger", "hello")
	require.NoError(t, err)

	capBefore := cap(frame.Data)
	pool.Put(frame)

	reused := pool.Get(16)
	assert.GreaterOrEqual(t, cap(reused.Data), capBefore)
}
