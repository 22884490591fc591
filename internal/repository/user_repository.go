package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jt828/go-graphql-tracing/pkg/apperror"
	"github.com/jt828/go-graphql-tracing/pkg/circuitbreaker"
	"github.com/jt828/go-graphql-tracing/pkg/model"
	"github.com/jt828/go-graphql-tracing/pkg/retry"
	"gorm.io/gorm"
)

type UserRepository interface {
	// Get returns nil without error for a missing user unless the
	// repository was built with notFoundAsError.
	Get(ctx context.Context, id int64) (*model.User, error)
	List(ctx context.Context, query ListQuery) ([]*model.User, error)
}

// ListQuery pages users by id; AfterId is exclusive.
type ListQuery struct {
	AfterId int64
	Limit   int
}

type UserRepositoryImpl struct {
	db              *gorm.DB
	guard           guard
	notFoundAsError bool
}

func NewUserRepository(db *gorm.DB, cb circuitbreaker.CircuitBreaker, retry retry.Retry, notFoundAsError bool) UserRepository {
	return &UserRepositoryImpl{db: db, guard: guard{cb: cb, retry: retry}, notFoundAsError: notFoundAsError}
}

func (r *UserRepositoryImpl) Get(ctx context.Context, id int64) (*model.User, error) {
	return run(ctx, r.guard, func() (*model.User, error) {
		var entity model.UserDataEntity
		err := r.db.WithContext(ctx).First(&entity, id).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound) && r.notFoundAsError:
			return nil, fmt.Errorf("user %d: %w", id, apperror.ErrNotFound)
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, nil
		case err != nil:
			return nil, err
		}
		return entity.ToDomain(), nil
	})
}

func (r *UserRepositoryImpl) List(ctx context.Context, query ListQuery) ([]*model.User, error) {
	return run(ctx, r.guard, func() ([]*model.User, error) {
		db := r.db.WithContext(ctx)
		if query.AfterId != 0 {
			db = db.Where("id > ?", query.AfterId)
		}
		if query.Limit > 0 {
			db = db.Limit(query.Limit)
		}

		var entities []model.UserDataEntity
		if err := db.Order("id").Find(&entities).Error; err != nil {
			return nil, err
		}

		users := make([]*model.User, len(entities))
		for i := range entities {
			users[i] = entities[i].ToDomain()
		}
		return users, nil
	})
}
