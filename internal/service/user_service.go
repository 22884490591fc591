package service

import (
	"context"

	"github.com/jt828/go-graphql-tracing/internal/repository"
	"github.com/jt828/go-graphql-tracing/pkg/model"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

type UserService interface {
	GetUser(ctx context.Context, id int64) (*model.User, error)
	ListUsers(ctx context.Context, afterId int64, limit int) ([]*model.User, error)
}

type userService struct {
	uowFactory repository.UnitOfWorkFactory
}

func NewUserService(uowFactory repository.UnitOfWorkFactory) UserService {
	return &userService{uowFactory: uowFactory}
}

func (s *userService) GetUser(ctx context.Context, id int64) (*model.User, error) {
	return read(ctx, s.uowFactory, func(uow repository.UnitOfWork) (*model.User, error) {
		return uow.UserRepository().Get(ctx, id)
	})
}

func (s *userService) ListUsers(ctx context.Context, afterId int64, limit int) ([]*model.User, error) {
	return read(ctx, s.uowFactory, func(uow repository.UnitOfWork) ([]*model.User, error) {
		return uow.UserRepository().List(ctx, repository.ListQuery{
			AfterId: afterId,
			Limit:   clampPageSize(limit),
		})
	})
}

func clampPageSize(limit int) int {
	switch {
	case limit <= 0:
		return DefaultPageSize
	case limit > MaxPageSize:
		return MaxPageSize
	default:
		return limit
	}
}
