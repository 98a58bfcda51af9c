package dispatch

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Worker runs detached side effects (acknowledgements, deferred webhook
// processing) outside the request path. Failures are logged and never
// propagate back to the webhook response, so the upstream platform does not
// retry and double-process.
type Worker struct {
	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	timeout time.Duration

	mu     sync.Mutex
	active int
}

func NewWorker(taskTimeout time.Duration) *Worker {
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		ctx:     ctx,
		cancel:  cancel,
		timeout: taskTimeout,
	}
}

// Submit schedules fn to run in the background. Each task gets its own
// timeout context derived from the worker's lifetime.
func (w *Worker) Submit(name string, fn func(ctx context.Context)) {
	w.mu.Lock()
	w.active++
	w.mu.Unlock()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		defer func() {
			w.mu.Lock()
			w.active--
			w.mu.Unlock()
			if r := recover(); r != nil {
				slog.Error("Background task panic",
					slog.String("type", "error"),
					slog.String("task", name),
					slog.Any("panic", r))
			}
		}()

		ctx, cancel := context.WithTimeout(w.ctx, w.timeout)
		defer cancel()

		start := time.Now()
		fn(ctx)

		slog.Debug("Background task finished",
			slog.String("task", name),
			slog.Duration("took", time.Since(start)))
	}()
}

// ActiveCount returns the number of currently running tasks.
func (w *Worker) ActiveCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.active
}

// Shutdown cancels outstanding tasks and waits for them up to timeout.
func (w *Worker) Shutdown(timeout time.Duration) error {
	w.cancel()

	done := make(chan struct{})
	go func() {
		w.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("All background tasks stopped")
		return nil
	case <-time.After(timeout):
		slog.Warn("Timeout waiting for background tasks",
			slog.Duration("timeout", timeout))
		return context.DeadlineExceeded
	}
}
