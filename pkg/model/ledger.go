package model

import (
	"time"

	"github.com/shopspring/decimal"
)

const ledgersTable = "main.ledgers"

type TransactionType string

const (
	TransactionTypeDeposit  TransactionType = "deposit"
	TransactionTypeWithdraw TransactionType = "withdraw"
)

func (t TransactionType) Valid() bool {
	return t == TransactionTypeDeposit || t == TransactionTypeWithdraw
}

type LedgerDataEntity struct {
	Id              int64           `gorm:"column:id"`
	UserId          int64           `gorm:"column:user_id"`
	TransactionType string          `gorm:"column:transaction_type"`
	Token           string          `gorm:"column:token"`
	Amount          decimal.Decimal `gorm:"column:amount"`
	CreatedAt       time.Time       `gorm:"column:created_at"`
}

func (dataEntity *LedgerDataEntity) TableName() string {
	return ledgersTable
}

func (dataEntity *LedgerDataEntity) ToDomain() *Ledger {
	return &Ledger{
		Id:              dataEntity.Id,
		UserId:          dataEntity.UserId,
		TransactionType: TransactionType(dataEntity.TransactionType),
		Token:           dataEntity.Token,
		Amount:          dataEntity.Amount,
		CreatedAt:       dataEntity.CreatedAt,
	}
}

type Ledger struct {
	Id              int64
	UserId          int64
	TransactionType TransactionType
	Token           string
	Amount          decimal.Decimal
	CreatedAt       time.Time
}

// Balance sums deposits minus withdrawals.
func Balance(ledgers []*Ledger) decimal.Decimal {
	total := decimal.Zero
	for _, l := range ledgers {
		switch l.TransactionType {
		case TransactionTypeDeposit:
			total = total.Add(l.Amount)
		case TransactionTypeWithdraw:
			total = total.Sub(l.Amount)
		}
	}
	return total
}
