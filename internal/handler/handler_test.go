package handler

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ihandler/corelog/internal/record"
)

type memoryWriter struct {
	lines   []string
	syncErr error
}

func (w *memoryWriter) Write(p []byte) (int, error) {
	w.lines = append(w.lines, string(p))

	return len(p), nil
}

func (w *memoryWriter) Sync() error {
	return w.syncErr
}

func (*memoryWriter) Close() error {
	return nil
}

func testConfig(writer *memoryWriter) Config {
	return Config{
		Writer:      writer,
		Program:     "prog",
		Pid:         1,
		PollTimeout: 50 * time.Millisecond,
		LevelChar:   func(level uint8) byte { return byte('A' + level) },
	}
}

func TestHandlerProcessesFrameAndExitsOnExitQuery(t *testing.T) {
	writer := &memoryWriter{}
	h := New(testConfig(writer))

	dataCh := make(chan *record.Frame, 1)
	controlCh := make(chan string)
	replyCh := make(chan string)

	frame, err := record.Encode(0, time.Now(), 1, true, 0, "f.go", 10, "fn", "logger", "hello")
	require.NoError(t, err)

	dataCh <- frame

	done := make(chan error, 1)

	go func() {
		done <- h.Run(context.Background(), dataCh, controlCh, replyCh)
	}()

	time.Sleep(10 * time.Millisecond)

	controlCh <- TagExitQuery

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("handler did not exit")
	}

	require.Len(t, writer.lines, 1)
	assert.True(t, strings.Contains(writer.lines[0], "hello"))
	assert.Equal(t, uint64(1), h.Metrics().Processed.Load())
}

func TestHandlerAnswersReadyAndFlush(t *testing.T) {
	writer := &memoryWriter{}
	h := New(testConfig(writer))

	dataCh := make(chan *record.Frame)
	controlCh := make(chan string)
	replyCh := make(chan string)

	go func() {
		_ = h.Run(context.Background(), dataCh, controlCh, replyCh)
	}()

	controlCh <- TagReadyQuery
	assert.Equal(t, TagReadyReply, <-replyCh)

	controlCh <- TagFlushQuery
	assert.Equal(t, TagFlushedReply, <-replyCh)

	controlCh <- TagExitQuery
}

func TestHandlerFlushDrainsPendingFramesBeforeReplying(t *testing.T) {
	writer := &memoryWriter{}
	h := New(testConfig(writer))

	dataCh := make(chan *record.Frame, 4)
	controlCh := make(chan string)
	replyCh := make(chan string)

	for i := 0; i < 3; i++ {
		frame, err := record.Encode(0, time.Now(), 1, true, 0, "f.go", i, "fn", "logger", "queued")
		require.NoError(t, err)
		dataCh <- frame
	}

	go func() {
		_ = h.Run(context.Background(), dataCh, controlCh, replyCh)
	}()

	controlCh <- TagFlushQuery
	assert.Equal(t, TagFlushedReply, <-replyCh)

	require.Len(t, writer.lines, 3)
	assert.Equal(t, uint64(3), h.Metrics().Processed.Load())

	controlCh <- TagExitQuery
}

func TestHandlerExitDrainsPendingFrameBeforeReturning(t *testing.T) {
	writer := &memoryWriter{}
	h := New(testConfig(writer))

	dataCh := make(chan *record.Frame, 1)
	controlCh := make(chan string)
	replyCh := make(chan string)

	frame, err := record.Encode(0, time.Now(), 1, true, 0, "f.go", 1, "fn", "logger", "last one")
	require.NoError(t, err)
	dataCh <- frame

	done := make(chan error, 1)

	go func() {
		done <- h.Run(context.Background(), dataCh, controlCh, replyCh)
	}()

	controlCh <- TagExitQuery

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("handler did not exit")
	}

	require.Len(t, writer.lines, 1)
	assert.Contains(t, writer.lines[0], "last one")
}

func TestHandlerAbortsOnErrorChainExceedingMaxDepth(t *testing.T) {
	writer := &memoryWriter{syncErr: assertErr("sync always fails")}
	h := New(testConfig(writer))

	dataCh := make(chan *record.Frame)
	controlCh := make(chan string)
	replyCh := make(chan string)

	done := make(chan error, 1)

	go func() {
		done <- h.Run(context.Background(), dataCh, controlCh, replyCh)
	}()

	// Six pacing ticks, each a failed Sync, exceed MaxChainDepth of 5.
	select {
	case err := <-done:
		require.Error(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("handler did not abort on runaway error chain")
	}
}

type assertErrType string

func assertErr(msg string) error {
	return assertErrType(msg)
}

func (e assertErrType) Error() string {
	return string(e)
}

func TestHandlerContextCancelStopsLoop(t *testing.T) {
	writer := &memoryWriter{}
	h := New(testConfig(writer))

	dataCh := make(chan *record.Frame)
	controlCh := make(chan string)
	replyCh := make(chan string)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)

	go func() {
		done <- h.Run(ctx, dataCh, controlCh, replyCh)
	}()

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("handler did not exit on context cancellation")
	}
}
