package breaker

import (
	"errors"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

// ErrServiceUnavailable is returned for every call rejected by an open or
// saturated breaker, and for calls that failed underneath it. Callers get a
// uniform "dependency down" signal instead of transport errors.
var ErrServiceUnavailable = errors.New("dependency unavailable")

// Config tunes a single breaker. Zero values fall back to defaults that
// match the docker compose setup.
type Config struct {
	// MaxRequests allowed through while half-open.
	MaxRequests uint32
	// Interval over which the closed-state counters are accumulated.
	Interval time.Duration
	// Timeout is the cool-down before an open breaker goes half-open.
	Timeout time.Duration
	// ConsecutiveFailures that trip the breaker outright.
	ConsecutiveFailures uint32
	// MinRequests before FailureRatio is considered.
	MinRequests uint32
	// FailureRatio over the interval that trips the breaker.
	FailureRatio float64
}

func DefaultConfig() Config {
	return Config{
		MaxRequests:         1,
		Interval:            60 * time.Second,
		Timeout:             30 * time.Second,
		ConsecutiveFailures: 5,
		MinRequests:         10,
		FailureRatio:        0.5,
	}
}

// Breaker wraps a gobreaker circuit breaker around one named dependency.
type Breaker struct {
	cb     *gobreaker.CircuitBreaker
	logger *logrus.Logger
}

func New(name string, config Config, logger *logrus.Logger) *Breaker {
	if config.MaxRequests == 0 {
		config.MaxRequests = 1
	}
	if config.ConsecutiveFailures == 0 {
		config.ConsecutiveFailures = 5
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: config.MaxRequests,
		Interval:    config.Interval,
		Timeout:     config.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)

			return counts.ConsecutiveFailures >= config.ConsecutiveFailures ||
				(counts.Requests >= config.MinRequests && failureRatio >= config.FailureRatio)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Breaker.StateChange")
		},
	}

	return &Breaker{
		cb:     gobreaker.NewCircuitBreaker(settings),
		logger: logger,
	}
}

// Execute runs fn under the breaker. A short-circuited call never reaches
// fn and returns ErrServiceUnavailable immediately.
func (b *Breaker) Execute(fn func() (any, error)) (any, error) {
	result, err := b.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			b.logger.WithField("breaker", b.cb.Name()).Warn("Breaker.Execute.rejected")
			return nil, ErrServiceUnavailable
		}
		return nil, err
	}
	return result, nil
}

// State reports the underlying breaker state, mostly for logging and tests.
func (b *Breaker) State() gobreaker.State {
	return b.cb.State()
}
