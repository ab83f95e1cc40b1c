package concurrency

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoop_RunsOnDrivingGoroutine(t *testing.T) {
	l := NewLoop()
	results := make(chan int, 3)
	for i := 0; i < 3; i++ {
		v := i
		go func() { _ = l.Post(func() { results <- v }) }()
	}

	require.Eventually(t, func() bool { return l.Pending() == 3 }, time.Second, time.Millisecond)
	assert.Empty(t, results, "Post must not run callbacks")
	assert.Equal(t, 3, l.RunOnce())
	assert.Len(t, results, 3)
	assert.Equal(t, int64(3), l.Dispatched())
}

func TestLoop_PreservesOrder(t *testing.T) {
	l := NewLoop()
	var got []int
	for i := 0; i < 10; i++ {
		v := i
		require.NoError(t, l.Post(func() { got = append(got, v) }))
	}
	l.RunOnce()
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, got)
}

func TestLoop_RunUntilStop(t *testing.T) {
	l := NewLoop()
	done := make(chan error, 1)
	go func() { done <- l.Run(context.Background()) }()

	fired := make(chan struct{})
	require.NoError(t, l.Post(func() { close(fired) }))
	select {
	case <-fired:
	case <-time.After(time.Second):
		t.Fatal("callback not dispatched")
	}

	l.Stop()
	require.NoError(t, <-done)
	assert.ErrorIs(t, l.Post(func() {}), ErrLoopClosed)
}

func TestLoop_RunHonoursContext(t *testing.T) {
	l := NewLoop()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Run(ctx) }()

	require.Eventually(t, func() bool { return l.running.Load() }, time.Second, time.Millisecond)
	assert.ErrorIs(t, l.Run(context.Background()), ErrLoopRunning)
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestLoop_NotifyWakesExternalSelect(t *testing.T) {
	l := NewLoop()
	ran := 0
	require.NoError(t, l.Post(func() { ran++ }))
	require.NoError(t, l.Post(func() { ran++ }))

	select {
	case <-l.Notify():
	case <-time.After(time.Second):
		t.Fatal("no wake-up after Post")
	}
	assert.Equal(t, 2, l.RunOnce())
	assert.Equal(t, 2, ran)

	// wake-ups coalesce: both posts produced a single signal
	select {
	case <-l.Notify():
		t.Fatal("unexpected second wake-up")
	default:
	}
}
