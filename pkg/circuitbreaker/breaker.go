package circuitbreaker

import (
	"errors"
	"time"

	"github.com/sony/gobreaker/v2"
)

type (
	// Config holds the configuration for a circuit breaker.
	Config struct {
		// Name identifies the breaker in logs.
		Name string
		// Enabled determines whether the breaker is active. When false,
		// New returns nil and Do runs the operation directly.
		Enabled bool
		// MaxRequests is the number of probes allowed while half-open.
		MaxRequests uint
		// Interval clears the failure counts while closed. Zero keeps them.
		Interval time.Duration
		// Timeout is how long the breaker stays open before probing again.
		Timeout time.Duration
		// FailureThreshold is the number of consecutive failures that opens the breaker.
		FailureThreshold uint
		// Ignore reports errors that are outcomes of the operation rather
		// than failures of the dependency, such as a missing row.
		Ignore func(err error) bool
		// OnStateChange is invoked on every transition.
		OnStateChange func(name string, from, to string)
	}

	// Breaker guards calls to a dependency that returns no value.
	Breaker struct {
		cb *gobreaker.CircuitBreaker[struct{}]
	}
)

func New(cfg Config) *Breaker {
	if !cfg.Enabled {
		return nil
	}

	settings := gobreaker.Settings{
		Name:        cfg.Name,
		MaxRequests: uint32(cfg.MaxRequests),
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= uint32(cfg.FailureThreshold)
		},
	}

	if cfg.Ignore != nil {
		settings.IsSuccessful = func(err error) bool {
			return err == nil || cfg.Ignore(err)
		}
	}

	if cfg.OnStateChange != nil {
		settings.OnStateChange = func(name string, from, to gobreaker.State) {
			cfg.OnStateChange(name, from.String(), to.String())
		}
	}

	return &Breaker{cb: gobreaker.NewCircuitBreaker[struct{}](settings)}
}

func (b *Breaker) Name() string {
	return b.cb.Name()
}

func (b *Breaker) State() string {
	return b.cb.State().String()
}

// Do runs fn through the breaker. A nil Breaker runs fn directly.
// Errors from fn are returned as-is; rejections map to ErrCircuitOpen
// and ErrTooManyRequests.
func (b *Breaker) Do(fn func() error) error {
	if b == nil {
		return fn()
	}

	_, err := b.cb.Execute(func() (struct{}, error) {
		return struct{}{}, fn()
	})

	switch {
	case errors.Is(err, gobreaker.ErrOpenState):
		return ErrCircuitOpen
	case errors.Is(err, gobreaker.ErrTooManyRequests):
		return ErrTooManyRequests
	default:
		return err
	}
}
