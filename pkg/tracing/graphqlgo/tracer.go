// Package graphqlgo drives a TracingInterceptor from the tracer hooks of
// github.com/graph-gophers/graphql-go.
package graphqlgo

import (
	"context"
	"fmt"

	gqlerrors "github.com/graph-gophers/graphql-go/errors"
	"github.com/graph-gophers/graphql-go/introspection"
	"github.com/graph-gophers/graphql-go/trace/tracer"
	"github.com/jt828/go-graphql-tracing/pkg/apperror"
	"github.com/jt828/go-graphql-tracing/pkg/observability"
	"github.com/jt828/go-graphql-tracing/pkg/tracing"
)

var _ tracer.Tracer = (*Tracer)(nil)

type Option func(*Tracer)

// WithTrivialFields controls whether fields graphql-go marks as trivial
// (plain getters without context, arguments or error) get a span. They do
// by default.
func WithTrivialFields(enabled bool) Option {
	return func(t *Tracer) {
		t.traceTrivial = enabled
	}
}

type Tracer struct {
	interceptor  *tracing.TracingInterceptor
	traceTrivial bool
}

func NewTracer(interceptor *tracing.TracingInterceptor, opts ...Option) (*Tracer, error) {
	if interceptor == nil {
		return nil, fmt.Errorf("tracing interceptor is nil: %w", apperror.ErrMissingTracer)
	}

	t := &Tracer{interceptor: interceptor, traceTrivial: true}
	for _, opt := range opts {
		opt(t)
	}
	return t, nil
}

func (t *Tracer) TraceQuery(
	ctx context.Context,
	queryString string,
	operationName string,
	_ map[string]interface{},
	_ map[string]*introspection.Type,
) (context.Context, tracer.QueryFinishFunc) {
	ctx, finish := t.interceptor.OnRequestStart(ctx, tracing.RequestInfo{
		QueryString:   queryString,
		OperationName: operationName,
	})

	return ctx, func(errs []*gqlerrors.QueryError) {
		if span, ok := tracing.RequestSpanFromContext(ctx); ok {
			for _, err := range errs {
				if err != nil {
					span.Log(observability.Err(err))
				}
			}
		}
		finish()
	}
}

func (t *Tracer) TraceField(
	ctx context.Context,
	_ string,
	typeName string,
	fieldName string,
	trivial bool,
	args map[string]interface{},
) (context.Context, tracer.FieldFinishFunc) {
	if trivial && !t.traceTrivial {
		return ctx, func(*gqlerrors.QueryError) {}
	}

	ctx, finish := t.interceptor.OnFieldResolve(ctx, nil, args, tracing.FieldInfo{
		FieldName: fieldName,
		TypeName:  typeName,
	})

	return ctx, func(qErr *gqlerrors.QueryError) {
		// a nil *QueryError must not become a non-nil error
		var err error
		if qErr != nil {
			err = qErr
		}
		finish(err, nil)
	}
}
