package implementation

import (
	"context"
	"net/http"

	"github.com/jt828/go-graphql-tracing/pkg/observability"
)

type observabilityImplementation struct {
	log           observability.Logger
	meter         observability.Meter
	requestTracer observability.Tracer
	fieldTracer   observability.Tracer

	metricsAddr   string
	metricsServer *http.Server
	traceClose    func(context.Context) error
}

func (o *observabilityImplementation) Close(ctx context.Context) error {
	var err error
	if o.metricsServer != nil {
		err = o.metricsServer.Shutdown(ctx)
	}
	if o.traceClose != nil {
		if e := o.traceClose(ctx); err == nil {
			err = e
		}
	}
	if s, ok := o.log.(interface{ Sync() error }); ok {
		_ = s.Sync()
	}
	return err
}
func (o *observabilityImplementation) Logger() observability.Logger { return o.log }
func (o *observabilityImplementation) Meter() observability.Meter   { return o.meter }
func (o *observabilityImplementation) Start(ctx context.Context) error {
	if o.metricsAddr == "" {
		return nil
	}
	if pm, ok := o.meter.(*prometheusMeter); ok {
		o.metricsServer = StartMetricsServer(o.metricsAddr, pm.Registry(), o.log)
	}
	return nil
}
func (o *observabilityImplementation) RequestTracer() observability.Tracer { return o.requestTracer }
func (o *observabilityImplementation) FieldTracer() observability.Tracer   { return o.fieldTracer }
