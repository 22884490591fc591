package resolver

import (
	"context"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/jt828/go-graphql-tracing/internal/service"
	"github.com/jt828/go-graphql-tracing/pkg/model"
)

type UserResolver struct {
	user          *model.User
	ledgerService service.LedgerService
}

func (u *UserResolver) ID() graphql.ID {
	return formatID(u.user.Id)
}

func (u *UserResolver) Email() string {
	return u.user.Email
}

func (u *UserResolver) Username() string {
	return u.user.Username
}

func (u *UserResolver) CreatedAt() string {
	return formatTime(u.user.CreatedAt)
}

func (u *UserResolver) Ledgers(ctx context.Context, args struct {
	Token *string
	First *int32
}) ([]*LedgerResolver, error) {
	ledgers, err := u.ledgerService.GetLedgers(ctx, service.GetParams{
		UserIdEq: u.user.Id,
		TokenEq:  stringOrEmpty(args.Token),
		Limit:    intOrZero(args.First),
	})
	if err != nil {
		return nil, err
	}
	return toLedgerResolvers(ledgers), nil
}

func (u *UserResolver) Balance(ctx context.Context, args struct{ Token string }) (string, error) {
	ledgers, err := u.ledgerService.GetLedgers(ctx, service.GetParams{
		UserIdEq: u.user.Id,
		TokenEq:  args.Token,
		Limit:    service.MaxPageSize,
	})
	if err != nil {
		return "", err
	}
	return model.Balance(ledgers).String(), nil
}
