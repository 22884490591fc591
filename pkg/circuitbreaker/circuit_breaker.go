package circuitbreaker

import "time"

type State int

const (
	Closed State = iota
	HalfOpen
	Open
)

func (s State) String() string {
	switch s {
	case HalfOpen:
		return "half-open"
	case Open:
		return "open"
	default:
		return "closed"
	}
}

type CircuitBreaker interface {
	Execute(fn func() (any, error)) (any, error)
	State() State
}

type Settings struct {
	Name string
	// MaxConsecutiveFailures trips the breaker; zero keeps gobreaker's default.
	MaxConsecutiveFailures uint32
	OpenTimeout            time.Duration
	// IsSuccessful classifies errors that must not count as failures.
	IsSuccessful  func(err error) bool
	OnStateChange func(name string, from, to State)
}
