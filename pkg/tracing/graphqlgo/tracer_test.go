package graphqlgo_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/jt828/go-graphql-tracing/pkg/apperror"
	"github.com/jt828/go-graphql-tracing/pkg/observability"
	"github.com/jt828/go-graphql-tracing/pkg/tracing"
	"github.com/jt828/go-graphql-tracing/pkg/tracing/graphqlgo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSchema = `
	schema {
		query: Query
	}

	type Query {
		hero(id: ID!): Hero
		failing: String
	}

	type Hero {
		name: String!
		nickname: String!
		friends: [Hero!]!
	}
`

type rootResolver struct{}

func (r *rootResolver) Hero(ctx context.Context, args struct{ ID graphql.ID }) *heroResolver {
	return &heroResolver{name: string(args.ID), friends: []string{"luke", "leia"}}
}

func (r *rootResolver) Failing(ctx context.Context) (*string, error) {
	return nil, errors.New("boom")
}

type heroResolver struct {
	name    string
	friends []string
}

func (h *heroResolver) Name(ctx context.Context) string {
	return h.name
}

func (h *heroResolver) Nickname() string {
	return "captain " + h.name
}

func (h *heroResolver) Friends(ctx context.Context) []*heroResolver {
	out := make([]*heroResolver, len(h.friends))
	for i, f := range h.friends {
		out[i] = &heroResolver{name: f}
	}
	return out
}

type span struct {
	mu     sync.Mutex
	name   string
	parent *span
	logs   []observability.Field
	ends   int
}

func (s *span) End() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ends++
}

func (s *span) Log(fields ...observability.Field) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.logs = append(s.logs, fields...)
}

type tracer struct {
	mu    sync.Mutex
	spans []*span
}

func (t *tracer) Start(ctx context.Context, name string, opts ...observability.SpanOption) (context.Context, observability.Span) {
	cfg := observability.ApplySpanOptions(opts...)
	s := &span{name: name}
	if cfg.Parent != nil {
		s.parent = cfg.Parent.(*span)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	t.spans = append(t.spans, s)
	return ctx, s
}

func (t *tracer) byName(name string) []*span {
	t.mu.Lock()
	defer t.mu.Unlock()
	var out []*span
	for _, s := range t.spans {
		if s.name == name {
			out = append(out, s)
		}
	}
	return out
}

func setup(t *testing.T, opts ...graphqlgo.Option) (*graphql.Schema, *tracer, *tracer) {
	t.Helper()
	requestTracer, fieldTracer := &tracer{}, &tracer{}
	i, err := tracing.NewTracingInterceptor(requestTracer, fieldTracer)
	require.NoError(t, err)
	gqlTracer, err := graphqlgo.NewTracer(i, opts...)
	require.NoError(t, err)
	return graphql.MustParseSchema(testSchema, &rootResolver{}, graphql.Tracer(gqlTracer)), requestTracer, fieldTracer
}

func TestNewTracer(t *testing.T) {
	gqlTracer, err := graphqlgo.NewTracer(nil)
	assert.Nil(t, gqlTracer)
	assert.ErrorIs(t, err, apperror.ErrMissingTracer)
}

func TestTracer_Query(t *testing.T) {
	schema, requestTracer, fieldTracer := setup(t)
	query := `query Heroes { hero(id: "han") { name friends { name } } }`

	resp := schema.Exec(context.Background(), query, "Heroes", nil)
	require.Empty(t, resp.Errors)
	assert.JSONEq(t, `{"hero":{"name":"han","friends":[{"name":"luke"},{"name":"leia"}]}}`, string(resp.Data))

	requests := requestTracer.byName(tracing.RequestSpanName)
	require.Len(t, requests, 1)
	request := requests[0]
	assert.Equal(t, 1, request.ends)
	assert.Contains(t, request.logs, observability.String(tracing.QueryStringKey, query))
	assert.Contains(t, request.logs, observability.String(tracing.OperationNameKey, "Heroes"))

	heroes := fieldTracer.byName("hero")
	require.Len(t, heroes, 1)
	hero := heroes[0]
	assert.Same(t, request, hero.parent)

	friends := fieldTracer.byName("friends")
	require.Len(t, friends, 1)
	assert.Same(t, hero, friends[0].parent)

	names := fieldTracer.byName("name")
	require.Len(t, names, 3)
	var underHero, underFriends int
	for _, n := range names {
		switch n.parent {
		case hero:
			underHero++
		case friends[0]:
			underFriends++
		}
		assert.Equal(t, 1, n.ends)
	}
	assert.Equal(t, 1, underHero)
	assert.Equal(t, 2, underFriends)
}

func TestTracer_FieldError(t *testing.T) {
	schema, requestTracer, fieldTracer := setup(t)

	resp := schema.Exec(context.Background(), `{ failing }`, "", nil)
	require.Len(t, resp.Errors, 1)

	failing := fieldTracer.byName("failing")
	require.Len(t, failing, 1)
	require.Len(t, failing[0].logs, 1)
	assert.Equal(t, "error", failing[0].logs[0].Key)
	assert.ErrorContains(t, failing[0].logs[0].Value.(error), "boom")
	assert.Equal(t, 1, failing[0].ends)

	request := requestTracer.byName(tracing.RequestSpanName)[0]
	var requestErrors int
	for _, f := range request.logs {
		if f.Key == "error" {
			requestErrors++
		}
	}
	assert.Equal(t, 1, requestErrors)
	assert.Equal(t, 1, request.ends)
}

func TestTracer_TrivialFields(t *testing.T) {
	query := `{ hero(id: "han") { nickname } }`

	t.Run("traced by default", func(t *testing.T) {
		schema, _, fieldTracer := setup(t)

		resp := schema.Exec(context.Background(), query, "", nil)
		require.Empty(t, resp.Errors)

		hero := fieldTracer.byName("hero")
		require.Len(t, hero, 1)
		nickname := fieldTracer.byName("nickname")
		require.Len(t, nickname, 1)
		assert.Same(t, hero[0], nickname[0].parent)
		assert.Equal(t, 1, nickname[0].ends)
	})

	t.Run("skipped when disabled", func(t *testing.T) {
		schema, _, fieldTracer := setup(t, graphqlgo.WithTrivialFields(false))

		resp := schema.Exec(context.Background(), query, "", nil)
		require.Empty(t, resp.Errors)
		assert.JSONEq(t, `{"hero":{"nickname":"captain han"}}`, string(resp.Data))

		assert.Len(t, fieldTracer.byName("hero"), 1)
		assert.Empty(t, fieldTracer.byName("nickname"))
	})
}
