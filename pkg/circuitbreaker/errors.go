package circuitbreaker

import "errors"

var (
	// ErrCircuitOpen is returned while the breaker rejects calls so the dependency can recover.
	ErrCircuitOpen = errors.New("circuit breaker is open")

	// ErrTooManyRequests is returned when the half-open probe budget is spent.
	ErrTooManyRequests = errors.New("too many requests in half-open state")
)
