package runtime

import (
	"context"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// crashingWorker panics a fixed number of times before finishing cleanly.
type crashingWorker struct {
	runs    atomic.Int32
	crashes int32
}

func (w *crashingWorker) Run(context.Context) error {
	run := w.runs.Add(1)
	if run <= w.crashes {
		panic("boom")
	}
	return nil
}

func TestSupervisor_RestartsPanickedWorker(t *testing.T) {
	req := require.New(t)
	worker := &crashingWorker{crashes: 2}
	supervisor := NewSupervisor(slog.Default())
	supervisor.Add(worker)

	done := make(chan struct{})
	go func() {
		supervisor.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("supervisor did not finish")
	}
	// Two crashes, two restarts, one clean finish
	req.Equal(int32(3), worker.runs.Load())
}

func TestSupervisor_CleanWorkerIsNotRestarted(t *testing.T) {
	req := require.New(t)
	worker := &crashingWorker{crashes: 0}
	supervisor := NewSupervisor(slog.Default())
	supervisor.Add(worker)

	done := make(chan struct{})
	go func() {
		supervisor.Run(context.Background())
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("supervisor did not finish")
	}
	req.Equal(int32(1), worker.runs.Load())
}

func TestSupervisor_StopCancelsRunningWorkers(t *testing.T) {
	supervisor := NewSupervisor(slog.Default())
	supervisor.Add(blockingWorker{})

	done := make(chan struct{})
	go func() {
		supervisor.Run(context.Background())
		close(done)
	}()

	// Give Run time to install the cancel trigger before stopping.
	time.Sleep(50 * time.Millisecond)
	supervisor.Stop()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("Stop did not terminate the supervisor")
	}
}

type blockingWorker struct{}

func (blockingWorker) Run(ctx context.Context) error {
	<-ctx.Done()
	return nil
}
