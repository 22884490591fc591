package implementation

import (
	"github.com/jt828/go-graphql-tracing/pkg/circuitbreaker"
	"github.com/jt828/go-graphql-tracing/pkg/observability"
	"github.com/sony/gobreaker/v2"
)

type gobreakerCircuitBreaker struct {
	cb *gobreaker.CircuitBreaker[any]
}

func NewCircuitBreaker(settings circuitbreaker.Settings, log observability.Logger) circuitbreaker.CircuitBreaker {
	gs := gobreaker.Settings{
		Name:         settings.Name,
		Timeout:      settings.OpenTimeout,
		IsSuccessful: settings.IsSuccessful,
	}

	if settings.MaxConsecutiveFailures > 0 {
		limit := settings.MaxConsecutiveFailures
		gs.ReadyToTrip = func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= limit
		}
	}

	gs.OnStateChange = func(name string, from, to gobreaker.State) {
		if log != nil {
			log.Warn("circuit breaker state changed",
				observability.String("name", name),
				observability.String("from", toState(from).String()),
				observability.String("to", toState(to).String()),
			)
		}
		if settings.OnStateChange != nil {
			settings.OnStateChange(name, toState(from), toState(to))
		}
	}

	return &gobreakerCircuitBreaker{
		cb: gobreaker.NewCircuitBreaker[any](gs),
	}
}

func (g *gobreakerCircuitBreaker) Execute(fn func() (any, error)) (any, error) {
	return g.cb.Execute(fn)
}

func (g *gobreakerCircuitBreaker) State() circuitbreaker.State {
	return toState(g.cb.State())
}

func toState(s gobreaker.State) circuitbreaker.State {
	switch s {
	case gobreaker.StateHalfOpen:
		return circuitbreaker.HalfOpen
	case gobreaker.StateOpen:
		return circuitbreaker.Open
	default:
		return circuitbreaker.Closed
	}
}
