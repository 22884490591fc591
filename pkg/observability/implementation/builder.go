package implementation

import (
	"context"

	"github.com/jt828/go-graphql-tracing/pkg/observability"
)

type Config struct {
	ServiceName string
	MetricsAddr string
	Log         LogConfig
	Tracing     TracingConfig
}

func NewObservability(ctx context.Context, cfg Config) (observability.Observability, error) {
	log, err := NewZapLogger(cfg.Log)
	if err != nil {
		return nil, err
	}

	meter := NewPrometheusMeter()

	requestTracer, fieldTracer, shutdown, err := NewOtelTracers(ctx, cfg.ServiceName, cfg.Tracing)
	if err != nil {
		return nil, err
	}

	return &observabilityImplementation{
		log:           log,
		meter:         meter,
		requestTracer: requestTracer,
		fieldTracer:   fieldTracer,
		metricsAddr:   cfg.MetricsAddr,
		traceClose:    shutdown,
	}, nil
}
