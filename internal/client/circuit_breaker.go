package client

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/sony/gobreaker"

	"github.com/eddiefleurent/option_screener/internal/models"
)

// CircuitBreakerClient wraps an Interface with circuit breaker functionality
type CircuitBreakerClient struct {
	client  Interface
	breaker *gobreaker.CircuitBreaker
}

// Ensure CircuitBreakerClient implements Interface at compile time.
var _ Interface = (*CircuitBreakerClient)(nil)

// exec is a generic helper for circuit breaker wrapper methods
func execCircuitBreaker[T any](
	breaker *gobreaker.CircuitBreaker,
	client Interface,
	fn func(Interface) (T, error),
) (T, error) {
	var zero T
	res, err := breaker.Execute(func() (interface{}, error) { return fn(client) })
	if err != nil {
		return zero, err
	}
	if res == nil {
		return zero, nil
	}
	v, ok := res.(T)
	if !ok {
		return zero, errors.New("circuit breaker: type assertion failed")
	}
	return v, nil
}

// NewCircuitBreakerClient creates a new CircuitBreakerClient with sensible defaults
func NewCircuitBreakerClient(client Interface) *CircuitBreakerClient {
	return NewCircuitBreakerClientWithSettings(client, CircuitBreakerSettings{
		MaxRequests:  3,                // Allow 3 requests when half-open
		Interval:     60 * time.Second, // Reset counts every minute
		Timeout:      30 * time.Second, // Open circuit for 30 seconds
		MinRequests:  5,                // Minimum requests before tripping
		FailureRatio: 0.6,              // Trip if 60% failure rate
	})
}

// CircuitBreakerSettings configures circuit breaker behavior
type CircuitBreakerSettings struct {
	MaxRequests  uint32        // Max requests when half-open
	Interval     time.Duration // Reset counts interval
	Timeout      time.Duration // Open circuit duration
	MinRequests  uint32        // Min requests before tripping
	FailureRatio float64       // Failure ratio threshold
}

// NewCircuitBreakerClientWithSettings creates a CircuitBreakerClient with custom settings
func NewCircuitBreakerClientWithSettings(client Interface, settings CircuitBreakerSettings) *CircuitBreakerClient {
	gbSettings := gobreaker.Settings{
		Name:        "ScreenerCircuitBreaker",
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

	return &CircuitBreakerClient{
		client:  client,
		breaker: gobreaker.NewCircuitBreaker(gbSettings),
	}
}

// Screen wraps the underlying client call with circuit breaker
func (c *CircuitBreakerClient) Screen(ctx context.Context, portfolio *models.Portfolio) ([]models.ScreenResult, error) {
	return execCircuitBreaker(c.breaker, c.client, func(cl Interface) ([]models.ScreenResult, error) {
		return cl.Screen(ctx, portfolio)
	})
}

// ScreenBatch wraps the underlying client call with circuit breaker
func (c *CircuitBreakerClient) ScreenBatch(ctx context.Context, portfolios []*models.Portfolio) ([]BatchResult, error) {
	return execCircuitBreaker(c.breaker, c.client, func(cl Interface) ([]BatchResult, error) {
		return cl.ScreenBatch(ctx, portfolios)
	})
}

// Health wraps the underlying client call with circuit breaker
func (c *CircuitBreakerClient) Health(ctx context.Context) error {
	_, err := execCircuitBreaker(c.breaker, c.client, func(cl Interface) (struct{}, error) {
		return struct{}{}, cl.Health(ctx)
	})
	return err
}
