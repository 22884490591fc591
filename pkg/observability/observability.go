package observability

import "context"

type Observability interface {
	Close(ctx context.Context) error
	Logger() Logger
	Meter() Meter
	Start(ctx context.Context) error
	// RequestTracer and FieldTracer may be backed by providers with
	// different sampling policies.
	RequestTracer() Tracer
	FieldTracer() Tracer
}
