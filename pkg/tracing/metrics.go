package tracing

import "github.com/jt828/go-graphql-tracing/pkg/observability"

type interceptorMetrics struct {
	requests      observability.Counter
	fields        observability.Counter
	fieldErrors   observability.Counter
	fieldDuration observability.Timer
}

func newInterceptorMetrics(meter observability.Meter) *interceptorMetrics {
	if meter == nil {
		return nil
	}

	return &interceptorMetrics{
		requests: meter.Counter("graphql_requests_total", observability.MetricOpt{
			Help: "Total number of traced GraphQL requests",
		}),
		fields: meter.Counter("graphql_fields_total", observability.MetricOpt{
			Help:      "Total number of traced field resolutions",
			LabelKeys: []string{"type", "field"},
		}),
		fieldErrors: meter.Counter("graphql_field_errors_total", observability.MetricOpt{
			Help:      "Total number of field resolutions that finished with an error",
			LabelKeys: []string{"type", "field"},
		}),
		fieldDuration: meter.Timer("graphql_field_duration_seconds", observability.MetricOpt{
			Help:      "Duration of field resolutions in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
			LabelKeys: []string{"type", "field"},
		}),
	}
}

func (m *interceptorMetrics) requestStarted() {
	if m == nil {
		return
	}
	m.requests.Inc(1)
}

// fieldStarted returns the func to call when the field finishes.
func (m *interceptorMetrics) fieldStarted(field, typeName string) func(err error) {
	if m == nil {
		return func(error) {}
	}

	labels := []observability.Label{
		{Key: "type", Value: typeName},
		{Key: "field", Value: field},
	}
	m.fields.Inc(1, labels...)
	stop := m.fieldDuration.Start(labels...)

	return func(err error) {
		stop()
		if err != nil {
			m.fieldErrors.Inc(1, labels...)
		}
	}
}
