package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	ServiceName string `envconfig:"SERVICE_NAME" default:"go-graphql-tracing"`
	Server      ServerConfig
	Log         LogConfig
	Tracing     TracingConfig
	Database    DatabaseConfig
}

type ServerConfig struct {
	HTTPAddr        string        `envconfig:"HTTP_ADDR" default:":8080"`
	GRPCAddr        string        `envconfig:"GRPC_ADDR" default:":50051"`
	MetricsAddr     string        `envconfig:"METRICS_ADDR" default:":9090"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`
	MaxParallelism  int           `envconfig:"GRAPHQL_MAX_PARALLELISM" default:"10"`
}

type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

type TracingConfig struct {
	Endpoint           string  `envconfig:"OTLP_ENDPOINT" default:"localhost:4317"`
	Insecure           bool    `envconfig:"OTLP_INSECURE" default:"true"`
	RequestSampleRatio float64 `envconfig:"TRACE_REQUEST_SAMPLE_RATIO" default:"1"`
	FieldSampleRatio   float64 `envconfig:"TRACE_FIELD_SAMPLE_RATIO" default:"1"`
	TrivialFields      bool    `envconfig:"TRACE_TRIVIAL_FIELDS" default:"true"`
}

type DatabaseConfig struct {
	DSN                 string        `envconfig:"DATABASE_DSN"`
	MaxRetries          uint64        `envconfig:"DATABASE_MAX_RETRIES" default:"3"`
	RetryInterval       time.Duration `envconfig:"DATABASE_RETRY_INTERVAL" default:"100ms"`
	BreakerMaxFailures  uint32        `envconfig:"DATABASE_BREAKER_MAX_FAILURES" default:"5"`
	BreakerOpenDuration time.Duration `envconfig:"DATABASE_BREAKER_OPEN_DURATION" default:"30s"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	if c.Database.DSN == "" {
		return fmt.Errorf("DATABASE_DSN is required")
	}
	for name, ratio := range map[string]float64{
		"TRACE_REQUEST_SAMPLE_RATIO": c.Tracing.RequestSampleRatio,
		"TRACE_FIELD_SAMPLE_RATIO":   c.Tracing.FieldSampleRatio,
	} {
		if ratio < 0 || ratio > 1 {
			return fmt.Errorf("%s must be within [0, 1], got %v", name, ratio)
		}
	}
	return nil
}
