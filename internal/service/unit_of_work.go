package service

import (
	"context"

	"github.com/jt828/go-graphql-tracing/internal/repository"
)

// read runs fn in a fresh unit of work, aborting it when fn fails.
func read[T any](ctx context.Context, factory repository.UnitOfWorkFactory, fn func(uow repository.UnitOfWork) (T, error)) (T, error) {
	var zero T

	uow, err := factory.New(ctx)
	if err != nil {
		return zero, err
	}

	result, err := fn(uow)
	if err != nil {
		_ = uow.Abort(ctx)
		return zero, err
	}

	if err := uow.Commit(ctx); err != nil {
		return zero, err
	}

	return result, nil
}
