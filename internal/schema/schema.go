package schema

import (
	_ "embed"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/jt828/go-graphql-tracing/internal/resolver"
	"github.com/jt828/go-graphql-tracing/pkg/tracing/graphqlgo"
)

//go:embed schema.graphql
var sdl string

type Config struct {
	MaxParallelism int
}

func New(r *resolver.Resolver, tracer *graphqlgo.Tracer, cfg Config) (*graphql.Schema, error) {
	opts := []graphql.SchemaOpt{graphql.Tracer(tracer)}
	if cfg.MaxParallelism > 0 {
		opts = append(opts, graphql.MaxParallelism(cfg.MaxParallelism))
	}
	return graphql.ParseSchema(sdl, r, opts...)
}
