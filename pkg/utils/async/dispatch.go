package async

import (
	"context"
	"runtime/debug"

	"github.com/m-mizutani/ctxlog"
)

// Dispatch runs task in a background goroutine named name. The task gets a
// fresh context that keeps the caller's logger but not its cancellation, so
// a warm-up started during a request or command outlives it. Errors and
// panics are logged, never propagated. The returned channel is closed when
// the task has finished.
func Dispatch(ctx context.Context, name string, task func(ctx context.Context) error) <-chan struct{} {
	newCtx := newBackgroundContext(ctx, name)
	done := make(chan struct{})

	go func() {
		defer close(done)
		defer func() {
			if r := recover(); r != nil {
				ctxlog.From(newCtx).Error("Panic in background task",
					"recover", r,
					"stack", string(debug.Stack()),
				)
			}
		}()

		if err := task(newCtx); err != nil {
			ctxlog.From(newCtx).Warn("Background task failed", "error", err)
			return
		}
		ctxlog.From(newCtx).Debug("Background task finished")
	}()

	return done
}

func newBackgroundContext(ctx context.Context, name string) context.Context {
	logger := ctxlog.From(ctx).With("task", name)
	return ctxlog.With(context.Background(), logger)
}
