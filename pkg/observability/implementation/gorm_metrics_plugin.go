package implementation

import (
	"context"
	"errors"
	"time"

	"github.com/jt828/go-graphql-tracing/pkg/observability"
	"gorm.io/gorm"
)

type gormStartTimeKey struct{}

type GormMetricsPlugin struct {
	queryLatency observability.Histogram
	queryTotal   observability.Counter
	queryErrors  observability.Counter
}

func NewGormMetricsPlugin(meter observability.Meter) *GormMetricsPlugin {
	return &GormMetricsPlugin{
		queryLatency: meter.Histogram("gorm_query_duration_seconds", observability.MetricOpt{
			Help:      "Duration of GORM queries in seconds",
			Buckets:   []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
			LabelKeys: []string{"operation", "table"},
		}),
		queryTotal: meter.Counter("gorm_query_total", observability.MetricOpt{
			Help:      "Total number of GORM queries",
			LabelKeys: []string{"operation", "table"},
		}),
		queryErrors: meter.Counter("gorm_query_errors_total", observability.MetricOpt{
			Help:      "Total number of GORM query errors, excluding record-not-found",
			LabelKeys: []string{"operation", "table"},
		}),
	}
}

func (p *GormMetricsPlugin) Name() string {
	return "metrics"
}

func (p *GormMetricsPlugin) Initialize(db *gorm.DB) error {
	cbs := db.Callback()
	registrations := []struct {
		operation string
		before    func(string, func(*gorm.DB)) error
		after     func(string, func(*gorm.DB)) error
	}{
		{"query", cbs.Query().Before("gorm:query").Register, cbs.Query().After("gorm:query").Register},
		{"row", cbs.Row().Before("gorm:row").Register, cbs.Row().After("gorm:row").Register},
		{"raw", cbs.Raw().Before("gorm:raw").Register, cbs.Raw().After("gorm:raw").Register},
		{"create", cbs.Create().Before("gorm:create").Register, cbs.Create().After("gorm:create").Register},
		{"update", cbs.Update().Before("gorm:update").Register, cbs.Update().After("gorm:update").Register},
		{"delete", cbs.Delete().Before("gorm:delete").Register, cbs.Delete().After("gorm:delete").Register},
	}

	for _, r := range registrations {
		if err := r.before("metrics:before_"+r.operation, p.before); err != nil {
			return err
		}
		if err := r.after("metrics:after_"+r.operation, p.after(r.operation)); err != nil {
			return err
		}
	}

	return nil
}

func (p *GormMetricsPlugin) before(db *gorm.DB) {
	db.Statement.Context = context.WithValue(db.Statement.Context, gormStartTimeKey{}, time.Now())
}

func (p *GormMetricsPlugin) after(operation string) func(*gorm.DB) {
	return func(db *gorm.DB) {
		labels := []observability.Label{
			{Key: "operation", Value: operation},
			{Key: "table", Value: db.Statement.Table},
		}

		p.queryTotal.Inc(1, labels...)

		if db.Error != nil && !errors.Is(db.Error, gorm.ErrRecordNotFound) {
			p.queryErrors.Inc(1, labels...)
		}

		if startTime, ok := db.Statement.Context.Value(gormStartTimeKey{}).(time.Time); ok {
			p.queryLatency.Observe(time.Since(startTime).Seconds(), labels...)
		}
	}
}
