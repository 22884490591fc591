package repository

import (
	"context"

	"github.com/jt828/go-graphql-tracing/pkg/circuitbreaker"
	"github.com/jt828/go-graphql-tracing/pkg/model"
	"github.com/jt828/go-graphql-tracing/pkg/retry"
	"gorm.io/gorm"
)

type LedgerRepository interface {
	Get(ctx context.Context, query GetQuery) ([]*model.Ledger, error)
}

// GetQuery filters ledgers; zero-valued fields are not applied.
type GetQuery struct {
	IdEq              int64
	UserIdEq          int64
	TransactionTypeEq string
	TokenEq           string
	Limit             int
}

func (q GetQuery) scope(db *gorm.DB) *gorm.DB {
	if q.IdEq != 0 {
		db = db.Where("id = ?", q.IdEq)
	}
	if q.UserIdEq != 0 {
		db = db.Where("user_id = ?", q.UserIdEq)
	}
	if q.TransactionTypeEq != "" {
		db = db.Where("transaction_type = ?", q.TransactionTypeEq)
	}
	if q.TokenEq != "" {
		db = db.Where("token = ?", q.TokenEq)
	}
	if q.Limit > 0 {
		db = db.Limit(q.Limit)
	}
	return db.Order("id")
}

type LedgerRepositoryImpl struct {
	db    *gorm.DB
	guard guard
}

func NewLedgerRepository(db *gorm.DB, cb circuitbreaker.CircuitBreaker, retry retry.Retry) LedgerRepository {
	return &LedgerRepositoryImpl{db: db, guard: guard{cb: cb, retry: retry}}
}

func (r *LedgerRepositoryImpl) Get(ctx context.Context, query GetQuery) ([]*model.Ledger, error) {
	return run(ctx, r.guard, func() ([]*model.Ledger, error) {
		var entities []model.LedgerDataEntity
		if err := r.db.WithContext(ctx).Scopes(query.scope).Find(&entities).Error; err != nil {
			return nil, err
		}

		ledgers := make([]*model.Ledger, len(entities))
		for i := range entities {
			ledgers[i] = entities[i].ToDomain()
		}
		return ledgers, nil
	})
}
