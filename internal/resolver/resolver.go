package resolver

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/jt828/go-graphql-tracing/internal/service"
	"github.com/jt828/go-graphql-tracing/pkg/apperror"
	"github.com/jt828/go-graphql-tracing/pkg/model"
)

type Resolver struct {
	userService   service.UserService
	ledgerService service.LedgerService
}

func NewResolver(userService service.UserService, ledgerService service.LedgerService) *Resolver {
	return &Resolver{userService: userService, ledgerService: ledgerService}
}

func (r *Resolver) User(ctx context.Context, args struct{ ID graphql.ID }) (*UserResolver, error) {
	id, err := parseID(args.ID)
	if err != nil {
		return nil, err
	}

	user, err := r.userService.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, fmt.Errorf("user %d: %w", id, apperror.ErrNotFound)
	}

	return &UserResolver{user: user, ledgerService: r.ledgerService}, nil
}

func (r *Resolver) Users(ctx context.Context, args struct {
	First *int32
	After *graphql.ID
}) ([]*UserResolver, error) {
	var afterId int64
	if args.After != nil {
		id, err := parseID(*args.After)
		if err != nil {
			return nil, err
		}
		afterId = id
	}

	users, err := r.userService.ListUsers(ctx, afterId, intOrZero(args.First))
	if err != nil {
		return nil, err
	}

	out := make([]*UserResolver, len(users))
	for i, u := range users {
		out[i] = &UserResolver{user: u, ledgerService: r.ledgerService}
	}
	return out, nil
}

func (r *Resolver) Ledgers(ctx context.Context, args struct {
	UserId          graphql.ID
	Token           *string
	TransactionType *string
	First           *int32
}) ([]*LedgerResolver, error) {
	userId, err := parseID(args.UserId)
	if err != nil {
		return nil, err
	}

	params := service.GetParams{
		UserIdEq: userId,
		TokenEq:  stringOrEmpty(args.Token),
		Limit:    intOrZero(args.First),
	}
	if args.TransactionType != nil {
		params.TransactionTypeEq = model.TransactionType(strings.ToLower(*args.TransactionType))
		if !params.TransactionTypeEq.Valid() {
			return nil, fmt.Errorf("transaction type %q: %w", *args.TransactionType, apperror.ErrInvalidArgument)
		}
	}

	ledgers, err := r.ledgerService.GetLedgers(ctx, params)
	if err != nil {
		return nil, err
	}
	return toLedgerResolvers(ledgers), nil
}

func parseID(id graphql.ID) (int64, error) {
	v, err := strconv.ParseInt(string(id), 10, 64)
	if err != nil || v <= 0 {
		return 0, fmt.Errorf("id %q must be a positive integer: %w", id, apperror.ErrInvalidArgument)
	}
	return v, nil
}

func formatID(id int64) graphql.ID {
	return graphql.ID(strconv.FormatInt(id, 10))
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func intOrZero(v *int32) int {
	if v == nil {
		return 0
	}
	return int(*v)
}

func stringOrEmpty(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
