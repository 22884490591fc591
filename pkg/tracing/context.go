package tracing

import (
	"context"

	"github.com/jt828/go-graphql-tracing/pkg/observability"
)

type fieldSpanKey struct{}

type requestSpanKey struct{}

// ContextWithSpan returns a copy of ctx in which span is the nearest ancestor
// for field resolutions that run with the returned context.
func ContextWithSpan(ctx context.Context, span observability.Span) context.Context {
	return context.WithValue(ctx, fieldSpanKey{}, span)
}

// SpanFromContext returns the span of the nearest enclosing field resolution.
func SpanFromContext(ctx context.Context) (observability.Span, bool) {
	span, ok := ctx.Value(fieldSpanKey{}).(observability.Span)
	return span, ok && span != nil
}

// RequestSpanFromContext returns the request span stored by OnRequestStart.
func RequestSpanFromContext(ctx context.Context) (observability.Span, bool) {
	span, ok := ctx.Value(requestSpanKey{}).(observability.Span)
	return span, ok && span != nil
}

func contextWithRequestSpan(ctx context.Context, span observability.Span) context.Context {
	ctx = context.WithValue(ctx, requestSpanKey{}, span)
	// field spans of an enclosing request must not leak into this one
	if _, ok := SpanFromContext(ctx); ok {
		ctx = context.WithValue(ctx, fieldSpanKey{}, nil)
	}
	return ctx
}

func parentSpan(ctx context.Context) observability.Span {
	if span, ok := SpanFromContext(ctx); ok {
		return span
	}
	if span, ok := RequestSpanFromContext(ctx); ok {
		return span
	}
	return nil
}
