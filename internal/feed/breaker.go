package feed

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/sony/gobreaker"
)

// CircuitBreakerProvider wraps a Provider with circuit breaker
// functionality so a flapping upstream stops being hammered.
type CircuitBreakerProvider struct {
	provider Provider
	breaker  *gobreaker.CircuitBreaker
}

var _ Provider = (*CircuitBreakerProvider)(nil)

// CircuitBreakerSettings configures circuit breaker behavior.
type CircuitBreakerSettings struct {
	MaxRequests  uint32        // Max requests when half-open
	Interval     time.Duration // Reset counts interval
	Timeout      time.Duration // Open circuit duration
	MinRequests  uint32        // Min requests before tripping
	FailureRatio float64       // Failure ratio threshold
}

// NewCircuitBreakerProvider wraps provider with sensible defaults.
func NewCircuitBreakerProvider(provider Provider) *CircuitBreakerProvider {
	return NewCircuitBreakerProviderWithSettings(provider, CircuitBreakerSettings{
		MaxRequests:  3,                // Allow 3 requests when half-open
		Interval:     60 * time.Second, // Reset counts every minute
		Timeout:      30 * time.Second, // Open circuit for 30 seconds
		MinRequests:  5,                // Minimum requests before tripping
		FailureRatio: 0.6,              // Trip if 60% failure rate
	})
}

// NewCircuitBreakerProviderWithSettings wraps provider with custom settings.
func NewCircuitBreakerProviderWithSettings(provider Provider, settings CircuitBreakerSettings) *CircuitBreakerProvider {
	gbSettings := gobreaker.Settings{
		Name:        "FeedCircuitBreaker",
		MaxRequests: settings.MaxRequests,
		Interval:    settings.Interval,
		Timeout:     settings.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests == 0 || counts.Requests < settings.MinRequests {
				return false
			}
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return failureRatio >= settings.FailureRatio
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			log.Printf("Circuit breaker %s state changed from %s to %s", name, from, to)
		},
	}

	return &CircuitBreakerProvider{
		provider: provider,
		breaker:  gobreaker.NewCircuitBreaker(gbSettings),
	}
}

// Fetch delegates to the wrapped provider through the breaker.
func (c *CircuitBreakerProvider) Fetch(ctx context.Context) (*Snapshot, error) {
	res, err := c.breaker.Execute(func() (interface{}, error) {
		return c.provider.Fetch(ctx)
	})
	if err != nil {
		return nil, err
	}
	snap, ok := res.(*Snapshot)
	if !ok {
		return nil, errors.New("circuit breaker: type assertion failed")
	}
	return snap, nil
}
