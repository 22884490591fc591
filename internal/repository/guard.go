package repository

import (
	"context"

	"github.com/jt828/go-graphql-tracing/pkg/circuitbreaker"
	"github.com/jt828/go-graphql-tracing/pkg/retry"
)

type guard struct {
	cb    circuitbreaker.CircuitBreaker
	retry retry.Retry
}

// run executes fn with retries inside the circuit breaker, so a call that
// exhausts its retries counts as a single breaker failure.
func run[T any](ctx context.Context, g guard, fn func() (T, error)) (T, error) {
	var zero T
	result, err := g.cb.Execute(func() (any, error) {
		var out T
		err := g.retry.Execute(ctx, func() error {
			v, err := fn()
			if err != nil {
				return err
			}
			out = v
			return nil
		})
		return out, err
	})
	if err != nil {
		return zero, err
	}
	return result.(T), nil
}
