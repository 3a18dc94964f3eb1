// Package bounded runs calls into external collaborators (template engine,
// rasterizer) under an optional deadline.
package bounded

import (
	"context"
	"fmt"
	"time"
)

// Call runs fn and returns its result. With a positive timeout the caller
// stops waiting once the deadline passes; fn keeps running in the
// background because neither collaborator can be interrupted mid-call.
func Call[T any](ctx context.Context, timeout time.Duration, fn func() (T, error)) (T, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, err
	}
	if timeout <= 0 {
		return fn()
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type result struct {
		v   T
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn()
		done <- result{v: v, err: err}
	}()

	select {
	case r := <-done:
		return r.v, r.err
	case <-ctx.Done():
		return zero, fmt.Errorf("gave up after %s: %w", timeout, ctx.Err())
	}
}
