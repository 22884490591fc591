package resolver

import (
	"strings"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/jt828/go-graphql-tracing/pkg/model"
)

type LedgerResolver struct {
	ledger *model.Ledger
}

func toLedgerResolvers(ledgers []*model.Ledger) []*LedgerResolver {
	out := make([]*LedgerResolver, len(ledgers))
	for i, l := range ledgers {
		out[i] = &LedgerResolver{ledger: l}
	}
	return out
}

func (l *LedgerResolver) ID() graphql.ID {
	return formatID(l.ledger.Id)
}

func (l *LedgerResolver) UserId() graphql.ID {
	return formatID(l.ledger.UserId)
}

func (l *LedgerResolver) TransactionType() string {
	return strings.ToUpper(string(l.ledger.TransactionType))
}

func (l *LedgerResolver) Token() string {
	return l.ledger.Token
}

func (l *LedgerResolver) Amount() string {
	return l.ledger.Amount.String()
}

func (l *LedgerResolver) CreatedAt() string {
	return formatTime(l.ledger.CreatedAt)
}
