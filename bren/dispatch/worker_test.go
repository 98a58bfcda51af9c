package dispatch

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func Test_Worker_runsTasks(t *testing.T) {
	w := NewWorker(time.Second)
	defer w.Shutdown(time.Second)

	var ran atomic.Int32
	done := make(chan struct{})
	w.Submit("test-task", func(ctx context.Context) {
		ran.Add(1)
		close(done)
	})

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("task did not run")
	}
	if ran.Load() != 1 {
		t.Errorf("task ran %d times, want 1", ran.Load())
	}
}

func Test_Worker_recoversPanics(t *testing.T) {
	w := NewWorker(time.Second)

	w.Submit("panicking-task", func(ctx context.Context) {
		panic("boom")
	})

	if err := w.Shutdown(time.Second); err != nil {
		t.Fatalf("Shutdown() error = %v", err)
	}
	if n := w.ActiveCount(); n != 0 {
		t.Errorf("ActiveCount() = %d, want 0", n)
	}
}

func Test_Worker_taskTimeout(t *testing.T) {
	w := NewWorker(20 * time.Millisecond)
	defer w.Shutdown(time.Second)

	expired := make(chan error, 1)
	w.Submit("slow-task", func(ctx context.Context) {
		<-ctx.Done()
		expired <- ctx.Err()
	})

	select {
	case err := <-expired:
		if !errors.Is(err, context.DeadlineExceeded) {
			t.Errorf("ctx.Err() = %v, want DeadlineExceeded", err)
		}
	case <-time.After(time.Second):
		t.Fatal("task context never expired")
	}
}

func Test_Worker_shutdownTimeout(t *testing.T) {
	w := NewWorker(time.Minute)

	blocked := make(chan struct{})
	w.Submit("stuck-task", func(ctx context.Context) {
		<-blocked
	})

	if err := w.Shutdown(20 * time.Millisecond); !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Shutdown() = %v, want DeadlineExceeded", err)
	}
	close(blocked)
}
