package service

import (
	"context"

	"github.com/jt828/go-graphql-tracing/internal/repository"
	"github.com/jt828/go-graphql-tracing/pkg/model"
)

type GetParams struct {
	IdEq              int64
	UserIdEq          int64
	TransactionTypeEq model.TransactionType
	TokenEq           string
	Limit             int
}

type LedgerService interface {
	GetLedgers(ctx context.Context, params GetParams) ([]*model.Ledger, error)
}

type ledgerService struct {
	uowFactory repository.UnitOfWorkFactory
}

func NewLedgerService(uowFactory repository.UnitOfWorkFactory) LedgerService {
	return &ledgerService{uowFactory: uowFactory}
}

func (s *ledgerService) GetLedgers(ctx context.Context, params GetParams) ([]*model.Ledger, error) {
	return read(ctx, s.uowFactory, func(uow repository.UnitOfWork) ([]*model.Ledger, error) {
		return uow.LedgerRepository().Get(ctx, repository.GetQuery{
			IdEq:              params.IdEq,
			UserIdEq:          params.UserIdEq,
			TransactionTypeEq: string(params.TransactionTypeEq),
			TokenEq:           params.TokenEq,
			Limit:             clampPageSize(params.Limit),
		})
	})
}
