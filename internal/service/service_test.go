package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/jt828/go-graphql-tracing/internal/repository"
	"github.com/jt828/go-graphql-tracing/internal/service"
	"github.com/jt828/go-graphql-tracing/pkg/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockUserRepository struct {
	getFunc  func(ctx context.Context, id int64) (*model.User, error)
	listFunc func(ctx context.Context, query repository.ListQuery) ([]*model.User, error)
}

func (m *mockUserRepository) Get(ctx context.Context, id int64) (*model.User, error) {
	return m.getFunc(ctx, id)
}

func (m *mockUserRepository) List(ctx context.Context, query repository.ListQuery) ([]*model.User, error) {
	return m.listFunc(ctx, query)
}

type mockLedgerRepository struct {
	getFunc func(ctx context.Context, query repository.GetQuery) ([]*model.Ledger, error)
}

func (m *mockLedgerRepository) Get(ctx context.Context, query repository.GetQuery) ([]*model.Ledger, error) {
	return m.getFunc(ctx, query)
}

type mockUnitOfWork struct {
	userRepo   repository.UserRepository
	ledgerRepo repository.LedgerRepository
	commits    int
	aborts     int
	commitErr  error
}

func (m *mockUnitOfWork) UserRepository() repository.UserRepository     { return m.userRepo }
func (m *mockUnitOfWork) LedgerRepository() repository.LedgerRepository { return m.ledgerRepo }
func (m *mockUnitOfWork) Commit(ctx context.Context) error {
	m.commits++
	return m.commitErr
}
func (m *mockUnitOfWork) Abort(ctx context.Context) error {
	m.aborts++
	return nil
}

type mockUnitOfWorkFactory struct {
	uow *mockUnitOfWork
	err error
}

func (m *mockUnitOfWorkFactory) New(ctx context.Context) (repository.UnitOfWork, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.uow, nil
}

// --- tests ---

func TestUserService_GetUser(t *testing.T) {
	ctx := context.Background()

	t.Run("returns user and commits", func(t *testing.T) {
		uow := &mockUnitOfWork{userRepo: &mockUserRepository{
			getFunc: func(ctx context.Context, id int64) (*model.User, error) {
				return &model.User{Id: id, Username: "han"}, nil
			},
		}}
		svc := service.NewUserService(&mockUnitOfWorkFactory{uow: uow})

		user, err := svc.GetUser(ctx, 7)
		require.NoError(t, err)
		assert.Equal(t, int64(7), user.Id)
		assert.Equal(t, 1, uow.commits)
		assert.Equal(t, 0, uow.aborts)
	})

	t.Run("repository error aborts", func(t *testing.T) {
		repoErr := errors.New("db down")
		uow := &mockUnitOfWork{userRepo: &mockUserRepository{
			getFunc: func(ctx context.Context, id int64) (*model.User, error) {
				return nil, repoErr
			},
		}}
		svc := service.NewUserService(&mockUnitOfWorkFactory{uow: uow})

		user, err := svc.GetUser(ctx, 7)
		assert.ErrorIs(t, err, repoErr)
		assert.Nil(t, user)
		assert.Equal(t, 0, uow.commits)
		assert.Equal(t, 1, uow.aborts)
	})

	t.Run("factory error", func(t *testing.T) {
		factoryErr := errors.New("begin failed")
		svc := service.NewUserService(&mockUnitOfWorkFactory{err: factoryErr})

		_, err := svc.GetUser(ctx, 7)
		assert.ErrorIs(t, err, factoryErr)
	})

	t.Run("commit error", func(t *testing.T) {
		commitErr := errors.New("commit failed")
		uow := &mockUnitOfWork{
			commitErr: commitErr,
			userRepo: &mockUserRepository{
				getFunc: func(ctx context.Context, id int64) (*model.User, error) {
					return &model.User{Id: id}, nil
				},
			},
		}
		svc := service.NewUserService(&mockUnitOfWorkFactory{uow: uow})

		user, err := svc.GetUser(ctx, 7)
		assert.ErrorIs(t, err, commitErr)
		assert.Nil(t, user)
	})
}

func TestUserService_ListUsers(t *testing.T) {
	for _, tc := range []struct {
		name     string
		limit    int
		expected int
	}{
		{"default page size", 0, service.DefaultPageSize},
		{"explicit page size", 5, 5},
		{"capped page size", 1000, service.MaxPageSize},
	} {
		t.Run(tc.name, func(t *testing.T) {
			var got repository.ListQuery
			uow := &mockUnitOfWork{userRepo: &mockUserRepository{
				listFunc: func(ctx context.Context, query repository.ListQuery) ([]*model.User, error) {
					got = query
					return nil, nil
				},
			}}
			svc := service.NewUserService(&mockUnitOfWorkFactory{uow: uow})

			_, err := svc.ListUsers(context.Background(), 3, tc.limit)
			require.NoError(t, err)
			assert.Equal(t, repository.ListQuery{AfterId: 3, Limit: tc.expected}, got)
		})
	}
}

func TestLedgerService_GetLedgers(t *testing.T) {
	var got repository.GetQuery
	uow := &mockUnitOfWork{ledgerRepo: &mockLedgerRepository{
		getFunc: func(ctx context.Context, query repository.GetQuery) ([]*model.Ledger, error) {
			got = query
			return []*model.Ledger{{Id: 1}}, nil
		},
	}}
	svc := service.NewLedgerService(&mockUnitOfWorkFactory{uow: uow})

	ledgers, err := svc.GetLedgers(context.Background(), service.GetParams{
		UserIdEq:          10,
		TransactionTypeEq: model.TransactionTypeDeposit,
		TokenEq:           "ETH",
	})
	require.NoError(t, err)
	assert.Len(t, ledgers, 1)
	assert.Equal(t, repository.GetQuery{
		UserIdEq:          10,
		TransactionTypeEq: "deposit",
		TokenEq:           "ETH",
		Limit:             service.DefaultPageSize,
	}, got)
	assert.Equal(t, 1, uow.commits)
}
