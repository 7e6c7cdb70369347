package runtime

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoop_RunsTransitionsInPostOrder(t *testing.T) {
	req := require.New(t)
	loop := NewLoop(slog.Default(), 16)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = loop.Run(ctx) }()

	executed := make(chan int, 3)
	loop.Post(func() { executed <- 1 })
	loop.Post(func() { executed <- 2 })
	loop.Post(func() { executed <- 3 })

	for want := 1; want <= 3; want++ {
		select {
		case got := <-executed:
			req.Equal(want, got)
		case <-time.After(2 * time.Second):
			t.Fatal("transition not executed in time")
		}
	}
}

func TestLoop_AfterTransitionHookFiresPerTransition(t *testing.T) {
	req := require.New(t)
	loop := NewLoop(slog.Default(), 16)
	fired := make(chan struct{}, 2)
	loop.SetAfterTransition(func() { fired <- struct{}{} })
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = loop.Run(ctx) }()

	loop.Post(func() {})
	loop.Post(func() {})

	for i := 0; i < 2; i++ {
		select {
		case <-fired:
		case <-time.After(2 * time.Second):
			t.Fatal("after-transition hook did not fire")
		}
	}
	req.Empty(fired)
}

func TestLoop_PostNeverBlocksWhenFull(t *testing.T) {
	loop := NewLoop(slog.Default(), 1)

	// The loop is not running, so the second post must be dropped, not
	// block the caller.
	done := make(chan struct{})
	go func() {
		loop.Post(func() {})
		loop.Post(func() {})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Post blocked on a full queue")
	}
}
