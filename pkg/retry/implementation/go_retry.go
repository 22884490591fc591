package implementation

import (
	"context"

	"github.com/jt828/go-graphql-tracing/pkg/retry"
	goretry "github.com/sethvargo/go-retry"
)

type goRetry struct {
	maxRetries uint64
	cfg        *retry.Config
}

func NewRetry(maxRetries uint64, opts ...retry.Option) retry.Retry {
	return &goRetry{
		maxRetries: maxRetries,
		cfg:        retry.ApplyOptions(opts...),
	}
}

// backoff is built per call; go-retry backoffs are stateful.
func (r *goRetry) backoff() goretry.Backoff {
	b := goretry.NewExponential(r.cfg.Interval)
	if r.cfg.MaxInterval > 0 {
		b = goretry.WithCappedDuration(r.cfg.MaxInterval, b)
	}
	return goretry.WithMaxRetries(r.maxRetries, b)
}

func (r *goRetry) Execute(ctx context.Context, fn func() error) error {
	var attempt uint64
	return goretry.Do(ctx, r.backoff(), func(ctx context.Context) error {
		err := fn()
		if err == nil {
			return nil
		}

		if r.cfg.RetryableFn != nil && !r.cfg.RetryableFn(err) {
			return err
		}

		attempt++
		if attempt <= r.maxRetries && r.cfg.OnRetry != nil {
			r.cfg.OnRetry(attempt, err)
		}
		return goretry.RetryableError(err)
	})
}
