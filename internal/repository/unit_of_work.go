package repository

import (
	"context"

	"gorm.io/gorm"
)

// UnitOfWork scopes repositories to one transaction. Exactly one of Commit
// or Abort ends it.
type UnitOfWork interface {
	Commit(ctx context.Context) error
	Abort(ctx context.Context) error
	UserRepository() UserRepository
	LedgerRepository() LedgerRepository
}

type transactionDbUnitOfWork struct {
	tx      *gorm.DB
	users   UserRepository
	ledgers LedgerRepository
}

func newTransactionDbUnitOfWork(tx *gorm.DB, g guard) *transactionDbUnitOfWork {
	return &transactionDbUnitOfWork{
		tx:      tx,
		users:   NewUserRepository(tx, g.cb, g.retry, false),
		ledgers: NewLedgerRepository(tx, g.cb, g.retry),
	}
}

func (u *transactionDbUnitOfWork) UserRepository() UserRepository     { return u.users }
func (u *transactionDbUnitOfWork) LedgerRepository() LedgerRepository { return u.ledgers }

func (u *transactionDbUnitOfWork) Commit(ctx context.Context) error {
	return u.tx.WithContext(ctx).Commit().Error
}

func (u *transactionDbUnitOfWork) Abort(ctx context.Context) error {
	return u.tx.WithContext(ctx).Rollback().Error
}
