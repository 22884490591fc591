package bootstrap

import (
	"errors"
	"net"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jt828/go-graphql-tracing/internal/config"
	"github.com/jt828/go-graphql-tracing/internal/repository"
	"github.com/jt828/go-graphql-tracing/pkg/apperror"
	"github.com/jt828/go-graphql-tracing/pkg/circuitbreaker"
	cbImpl "github.com/jt828/go-graphql-tracing/pkg/circuitbreaker/implementation"
	"github.com/jt828/go-graphql-tracing/pkg/observability"
	obsImpl "github.com/jt828/go-graphql-tracing/pkg/observability/implementation"
	"github.com/jt828/go-graphql-tracing/pkg/retry"
	retryImpl "github.com/jt828/go-graphql-tracing/pkg/retry/implementation"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type Database struct {
	DB                *gorm.DB
	CircuitBreaker    circuitbreaker.CircuitBreaker
	UnitOfWorkFactory repository.UnitOfWorkFactory
}

func InitializeDatabase(cfg config.DatabaseConfig, obs observability.Observability) (*Database, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	if err != nil {
		return nil, err
	}

	if err := db.Use(obsImpl.NewGormMetricsPlugin(obs.Meter())); err != nil {
		return nil, err
	}

	log := obs.Logger().With(observability.String("component", "database"))
	breakerState := obs.Meter().Gauge("circuit_breaker_state", observability.MetricOpt{
		Help:      "Circuit breaker state: 0 closed, 1 half-open, 2 open",
		LabelKeys: []string{"name"},
	})

	cb := cbImpl.NewCircuitBreaker(circuitbreaker.Settings{
		Name:                   "postgresql",
		MaxConsecutiveFailures: cfg.BreakerMaxFailures,
		OpenTimeout:            cfg.BreakerOpenDuration,
		IsSuccessful:           IsBreakerSuccess,
		OnStateChange: func(name string, _, to circuitbreaker.State) {
			breakerState.Set(float64(to), observability.Label{Key: "name", Value: name})
		},
	}, log)

	r := retryImpl.NewRetry(cfg.MaxRetries,
		retry.WithInterval(cfg.RetryInterval),
		retry.WithRetryable(IsRetryable),
		retry.WithOnRetry(func(attempt uint64, err error) {
			log.Warn("retrying database call", observability.Int64("attempt", int64(attempt)), observability.Err(err))
		}),
	)

	return &Database{
		DB:                db,
		CircuitBreaker:    cb,
		UnitOfWorkFactory: repository.NewTransactionDbUnitOfWorkFactory(db, cb, r),
	}, nil
}

// IsBreakerSuccess keeps lookups that legitimately find nothing from
// tripping the breaker.
func IsBreakerSuccess(err error) bool {
	return err == nil || errors.Is(err, apperror.ErrNotFound) || errors.Is(err, gorm.ErrRecordNotFound)
}

func IsRetryable(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "40001": // serialization_failure
			return true
		case "40P01": // deadlock_detected
			return true
		case "08006": // connection_failure
			return true
		case "08001": // sqlclient_unable_to_establish_sqlconnection
			return true
		case "08004": // sqlserver_rejected_establishment_of_sqlconnection
			return true
		}
		return false
	}

	var netErr *net.OpError
	return errors.As(err, &netErr)
}
