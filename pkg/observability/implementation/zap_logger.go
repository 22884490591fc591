package implementation

import (
	"github.com/jt828/go-graphql-tracing/pkg/observability"
	"go.uber.org/zap"
)

type LogConfig struct {
	Level       string
	Development bool
}

type zapLogger struct {
	l *zap.Logger
}

func NewZapLogger(cfg LogConfig) (observability.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}

	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, err
		}
		zc.Level = level
	}

	l, err := zc.Build()
	if err != nil {
		return nil, err
	}
	return &zapLogger{l: l}, nil
}

// WrapZap adapts an existing zap logger, e.g. one built on zaptest/observer.
func WrapZap(l *zap.Logger) observability.Logger {
	return &zapLogger{l: l}
}

func toZap(fields []observability.Field) []zap.Field {
	if len(fields) == 0 {
		return nil
	}

	out := make([]zap.Field, 0, len(fields))

	for _, f := range fields {
		if err, ok := f.Value.(error); ok {
			out = append(out, zap.NamedError(f.Key, err))
			continue
		}
		out = append(out, zap.Any(f.Key, f.Value))
	}

	return out
}

func (z *zapLogger) Debug(msg string, fields ...observability.Field) {
	z.l.Debug(msg, toZap(fields)...)
}

func (z *zapLogger) Error(msg string, fields ...observability.Field) {
	z.l.Error(msg, toZap(fields)...)
}

func (z *zapLogger) Fatal(msg string, fields ...observability.Field) {
	z.l.Fatal(msg, toZap(fields)...)
}

func (z *zapLogger) Info(msg string, fields ...observability.Field) {
	z.l.Info(msg, toZap(fields)...)
}

func (z *zapLogger) Warn(msg string, fields ...observability.Field) {
	z.l.Warn(msg, toZap(fields)...)
}

func (z *zapLogger) With(fields ...observability.Field) observability.Logger {
	return &zapLogger{
		l: z.l.With(toZap(fields)...),
	}
}

func (z *zapLogger) Sync() error {
	return z.l.Sync()
}
