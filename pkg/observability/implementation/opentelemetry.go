package implementation

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/jt828/go-graphql-tracing/pkg/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.17.0"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const logEventName = "log"

type TracingConfig struct {
	Endpoint           string
	Insecure           bool
	RequestSampleRatio float64
	FieldSampleRatio   float64
}

type otelTracer struct {
	tracer trace.Tracer
}

type otelSpan struct {
	span trace.Span
}

func (s otelSpan) End() { s.span.End() }

func (s otelSpan) recordError(err error) {
	if err == nil {
		return
	}
	s.span.RecordError(err)
	s.span.SetStatus(codes.Error, err.Error())
}

func (s otelSpan) Log(fields ...observability.Field) {
	if len(fields) == 0 {
		return
	}

	attrs := make([]attribute.KeyValue, 0, len(fields))
	for _, f := range fields {
		if err, ok := f.Value.(error); ok && err != nil {
			s.recordError(err)
		}
		attrs = append(attrs, toAttribute(f))
	}

	s.span.AddEvent(logEventName, trace.WithAttributes(attrs...))
}

func (t otelTracer) Start(
	ctx context.Context,
	name string,
	opts ...observability.SpanOption,
) (context.Context, observability.Span) {
	cfg := observability.ApplySpanOptions(opts...)

	var startOpts []trace.SpanStartOption
	if cfg.Root {
		startOpts = append(startOpts, trace.WithNewRoot())
	}
	// parents from other tracer implementations cannot be linked
	if parent, ok := cfg.Parent.(otelSpan); ok {
		ctx = trace.ContextWithSpan(ctx, parent.span)
	}

	ctx, span := t.tracer.Start(ctx, name, startOpts...)
	return ctx, otelSpan{span}
}

func NewOtelTracerFromProvider(tp trace.TracerProvider, name string) observability.Tracer {
	return otelTracer{tracer: tp.Tracer(name)}
}

func NewNoopTracer() observability.Tracer {
	return otelTracer{tracer: noop.NewTracerProvider().Tracer("noop")}
}

// NewOtelTracers builds one provider per tracer so request and field spans can
// be sampled independently. The field sampler is applied to the trace id, so
// a sampled trace keeps all or none of its field spans.
func NewOtelTracers(
	ctx context.Context,
	serviceName string,
	cfg TracingConfig,
) (request observability.Tracer, field observability.Tracer, shutdown func(ctx context.Context) error, err error) {
	res, err := resource.New(
		ctx,
		resource.WithAttributes(
			semconv.ServiceName(serviceName),
			attribute.String("service.version", "0.0.1"),
		),
	)
	if err != nil {
		return nil, nil, nil, err
	}

	requestTP, err := newTracerProvider(ctx, cfg, res,
		sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.RequestSampleRatio)))
	if err != nil {
		return nil, nil, nil, err
	}

	fieldTP, err := newTracerProvider(ctx, cfg, res, sdktrace.TraceIDRatioBased(cfg.FieldSampleRatio))
	if err != nil {
		_ = requestTP.Shutdown(ctx)
		return nil, nil, nil, err
	}

	// transport instrumentation picks up the global provider
	otel.SetTracerProvider(requestTP)

	return NewOtelTracerFromProvider(requestTP, serviceName+"/request"),
		NewOtelTracerFromProvider(fieldTP, serviceName+"/field"),
		func(ctx context.Context) error {
			ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
			defer cancel()
			shutdownErr := fieldTP.Shutdown(ctx)
			if e := requestTP.Shutdown(ctx); shutdownErr == nil {
				shutdownErr = e
			}
			return shutdownErr
		},
		nil
}

func newTracerProvider(
	ctx context.Context,
	cfg TracingConfig,
	res *resource.Resource,
	sampler sdktrace.Sampler,
) (*sdktrace.TracerProvider, error) {
	opts := []otlptracegrpc.Option{otlptracegrpc.WithEndpoint(cfg.Endpoint)}
	if cfg.Insecure {
		opts = append(opts, otlptracegrpc.WithInsecure())
	}

	exp, err := otlptracegrpc.New(ctx, opts...)
	if err != nil {
		return nil, err
	}

	return sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exp),
		sdktrace.WithResource(res),
		sdktrace.WithSampler(sampler),
	), nil
}

func toAttribute(f observability.Field) attribute.KeyValue {
	switch v := f.Value.(type) {
	case nil:
		return attribute.String(f.Key, "")
	case string:
		return attribute.String(f.Key, v)
	case bool:
		return attribute.Bool(f.Key, v)
	case int:
		return attribute.Int(f.Key, v)
	case int32:
		return attribute.Int64(f.Key, int64(v))
	case int64:
		return attribute.Int64(f.Key, v)
	case float32:
		return attribute.Float64(f.Key, float64(v))
	case float64:
		return attribute.Float64(f.Key, v)
	case []string:
		return attribute.StringSlice(f.Key, v)
	case error:
		return attribute.String(f.Key, v.Error())
	case fmt.Stringer:
		return attribute.String(f.Key, v.String())
	default:
		b, err := sonic.Marshal(v)
		if err != nil {
			return attribute.String(f.Key, fmt.Sprintf("%v", v))
		}
		return attribute.String(f.Key, string(b))
	}
}
