package tracing

import (
	"context"
	"fmt"
	"reflect"
	"sync/atomic"

	"github.com/jt828/go-graphql-tracing/pkg/apperror"
	"github.com/jt828/go-graphql-tracing/pkg/observability"
)

const (
	RequestSpanName      = "request"
	DefaultFieldSpanName = "field"

	QueryStringKey            = "queryString"
	OperationNameKey          = "operationName"
	PersistedQueryHitKey      = "persistedQueryHit"
	PersistedQueryRegisterKey = "persistedQueryRegister"
	ResultKey                 = "result"
)

type RequestInfo struct {
	QueryString            string
	OperationName          string
	PersistedQueryHit      bool
	PersistedQueryRegister bool
}

type FieldInfo struct {
	FieldName string
	// TypeName is the parent type declaring the field. It labels the field
	// metrics and is empty when the engine does not report it.
	TypeName string
}

// RequestFinishFunc ends the request span. Only the first call has an effect.
type RequestFinishFunc func()

// FieldFinishFunc records err and result on the field span and ends it. Only
// the first call has an effect.
type FieldFinishFunc func(err error, result any)

type Option func(*TracingInterceptor)

func WithLogger(log observability.Logger) Option {
	return func(i *TracingInterceptor) {
		i.log = log
	}
}

func WithMeter(meter observability.Meter) Option {
	return func(i *TracingInterceptor) {
		i.meter = meter
	}
}

// TracingInterceptor turns request and field lifecycle events of a query
// engine into spans. Per-request state travels in the context.Context handed
// to and returned from each hook, so one interceptor serves any number of
// concurrent requests.
type TracingInterceptor struct {
	requestTracer observability.Tracer
	fieldTracer   observability.Tracer

	log     observability.Logger
	meter   observability.Meter
	metrics *interceptorMetrics
}

func NewTracingInterceptor(requestTracer, fieldTracer observability.Tracer, opts ...Option) (*TracingInterceptor, error) {
	if requestTracer == nil {
		return nil, fmt.Errorf("request tracer is nil: %w", apperror.ErrMissingTracer)
	}
	if fieldTracer == nil {
		return nil, fmt.Errorf("field tracer is nil: %w", apperror.ErrMissingTracer)
	}

	i := &TracingInterceptor{
		requestTracer: requestTracer,
		fieldTracer:   fieldTracer,
	}
	for _, opt := range opts {
		opt(i)
	}
	i.metrics = newInterceptorMetrics(i.meter)

	return i, nil
}

// OnRequestStart starts the "request" span. Field resolutions must use the
// returned context, or one derived from it, to be parented to that span.
// A request started inside another request's context is the root of a new
// trace; otherwise the span joins whatever trace the transport put in ctx.
func (i *TracingInterceptor) OnRequestStart(ctx context.Context, info RequestInfo) (context.Context, RequestFinishFunc) {
	var opts []observability.SpanOption
	if parentSpan(ctx) != nil {
		opts = append(opts, observability.Root())
	}

	ctx, span := i.requestTracer.Start(ctx, RequestSpanName, opts...)

	if info.QueryString != "" {
		span.Log(observability.String(QueryStringKey, info.QueryString))
	}
	if info.OperationName != "" {
		span.Log(observability.String(OperationNameKey, info.OperationName))
	}
	if info.PersistedQueryHit {
		span.Log(observability.Bool(PersistedQueryHitKey, true))
	}
	if info.PersistedQueryRegister {
		span.Log(observability.Bool(PersistedQueryRegisterKey, true))
	}

	i.metrics.requestStarted()
	i.debug("request span started", observability.String(OperationNameKey, info.OperationName))

	var finished atomic.Bool
	return contextWithRequestSpan(ctx, span), func() {
		if !finished.CompareAndSwap(false, true) {
			i.warn("request span already finished", observability.String(OperationNameKey, info.OperationName))
			return
		}
		span.End()
	}
}

// OnFieldResolve starts a span named after the field, parented to the nearest
// field span in ctx, else to the request span, else to nothing. The returned
// context carries the new span for the field's own descendants.
func (i *TracingInterceptor) OnFieldResolve(ctx context.Context, _ any, _ map[string]any, info FieldInfo) (context.Context, FieldFinishFunc) {
	name := info.FieldName
	if name == "" {
		name = DefaultFieldSpanName
	}

	opt := observability.Root()
	if parent := parentSpan(ctx); parent != nil {
		opt = observability.ChildOf(parent)
	}

	ctx, span := i.fieldTracer.Start(ctx, name, opt)
	stop := i.metrics.fieldStarted(name, info.TypeName)

	var finished atomic.Bool
	return ContextWithSpan(ctx, span), func(err error, result any) {
		if !finished.CompareAndSwap(false, true) {
			i.warn("field span already finished", observability.String("field", name))
			return
		}

		if err != nil {
			span.Log(observability.Err(err))
		}
		if present(result) {
			span.Log(observability.Any(ResultKey, result))
		}

		stop(err)
		span.End()
	}
}

// present reports whether v carries a value. Zero values count; nil and
// typed nils do not.
func present(v any) bool {
	if v == nil {
		return false
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return !rv.IsNil()
	default:
		return true
	}
}

func (i *TracingInterceptor) debug(msg string, fields ...observability.Field) {
	if i.log != nil {
		i.log.Debug(msg, fields...)
	}
}

func (i *TracingInterceptor) warn(msg string, fields ...observability.Field) {
	if i.log != nil {
		i.log.Warn(msg, fields...)
	}
}
