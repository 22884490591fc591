package repository

import (
	"context"
	"database/sql"

	"github.com/jt828/go-graphql-tracing/pkg/circuitbreaker"
	"github.com/jt828/go-graphql-tracing/pkg/retry"
	"gorm.io/gorm"
)

type UnitOfWorkFactory interface {
	// New begins a read-only transaction.
	New(ctx context.Context) (UnitOfWork, error)
}

type transactionDbUnitOfWorkFactory struct {
	db    *gorm.DB
	guard guard
}

func NewTransactionDbUnitOfWorkFactory(db *gorm.DB, cb circuitbreaker.CircuitBreaker, retry retry.Retry) UnitOfWorkFactory {
	return &transactionDbUnitOfWorkFactory{db: db, guard: guard{cb: cb, retry: retry}}
}

func (f *transactionDbUnitOfWorkFactory) New(ctx context.Context) (UnitOfWork, error) {
	tx := f.db.WithContext(ctx).Begin(&sql.TxOptions{ReadOnly: true})
	if tx.Error != nil {
		return nil, tx.Error
	}
	return newTransactionDbUnitOfWork(tx, f.guard), nil
}
