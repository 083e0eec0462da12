// Package retry wraps the screening client with bounded retries and
// exponential backoff for transient failures.
package retry

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log"
	"math/big"
	"os"
	"strings"
	"time"

	"github.com/eddiefleurent/option_screener/internal/client"
	"github.com/eddiefleurent/option_screener/internal/models"
)

type Config struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Timeout        time.Duration
}

var DefaultConfig = Config{
	MaxRetries:     3,
	InitialBackoff: 1 * time.Second,
	MaxBackoff:     30 * time.Second,
	Timeout:        2 * time.Minute,
}

type Client struct {
	client client.Interface
	logger *log.Logger
	config Config
}

// NewClient wraps an existing client. A nil logger defaults to stderr;
// non-positive config values fall back to DefaultConfig.
func NewClient(c client.Interface, logger *log.Logger, config ...Config) *Client {
	cfg := DefaultConfig
	if len(config) > 0 {
		cfg = sanitizeConfig(config[0])
	}
	if logger == nil {
		logger = log.New(os.Stderr, "retry: ", log.LstdFlags)
	}

	return &Client{
		client: c,
		logger: logger,
		config: cfg,
	}
}

func sanitizeConfig(cfg Config) Config {
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = DefaultConfig.MaxRetries
	}
	if cfg.InitialBackoff <= 0 {
		cfg.InitialBackoff = DefaultConfig.InitialBackoff
	}
	if cfg.MaxBackoff <= 0 {
		cfg.MaxBackoff = DefaultConfig.MaxBackoff
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultConfig.Timeout
	}
	return cfg
}

// ScreenWithRetry screens one portfolio, retrying transient failures.
func (c *Client) ScreenWithRetry(ctx context.Context, portfolio *models.Portfolio) ([]models.ScreenResult, error) {
	if portfolio == nil {
		c.logger.Printf("Screen called with nil portfolio")
		return nil, errors.New("portfolio is nil")
	}

	op := fmt.Sprintf("screen of portfolio %s", portfolio.PortfolioID)
	return doWithRetry(ctx, c, op, func(ctx context.Context) ([]models.ScreenResult, error) {
		return c.client.Screen(ctx, portfolio)
	})
}

// ScreenBatchWithRetry screens a batch of portfolios, retrying transient
// failures. The whole batch is resubmitted on retry.
func (c *Client) ScreenBatchWithRetry(ctx context.Context, portfolios []*models.Portfolio) ([]client.BatchResult, error) {
	op := fmt.Sprintf("batch screen of %d portfolios", len(portfolios))
	return doWithRetry(ctx, c, op, func(ctx context.Context) ([]client.BatchResult, error) {
		return c.client.ScreenBatch(ctx, portfolios)
	})
}

// HealthWithRetry polls the health endpoint until it answers or retries
// are exhausted.
func (c *Client) HealthWithRetry(ctx context.Context) error {
	_, err := doWithRetry(ctx, c, "health check", func(ctx context.Context) (struct{}, error) {
		return struct{}{}, c.client.Health(ctx)
	})
	return err
}

// doWithRetry runs fn up to MaxRetries+1 times under the configured overall
// timeout, backing off between attempts on transient errors.
func doWithRetry[T any](ctx context.Context, c *Client, op string, fn func(context.Context) (T, error)) (T, error) {
	var zero T

	opCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	var lastErr error
	backoff := c.config.InitialBackoff

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		select {
		case <-opCtx.Done():
			return zero, fmt.Errorf("%s timed out after %v: %w", op, c.config.Timeout, opCtx.Err())
		default:
		}

		if ctx.Err() != nil {
			return zero, fmt.Errorf("operation canceled: %w", ctx.Err())
		}

		c.logger.Printf("Attempt %d/%d: %s", attempt+1, c.config.MaxRetries+1, op)

		result, err := fn(opCtx)
		if err == nil {
			if attempt > 0 {
				c.logger.Printf("Succeeded on attempt %d: %s", attempt+1, op)
			}
			return result, nil
		}

		lastErr = err
		c.logger.Printf("Attempt %d failed: %v", attempt+1, err)

		if c.isTransientError(err) && attempt < c.config.MaxRetries {
			c.logger.Printf("Transient error detected, retrying in %v", backoff)
			select {
			case <-time.After(backoff):
				backoff = c.calculateNextBackoff(backoff)
			case <-opCtx.Done():
				return zero, fmt.Errorf("%s timed out during backoff: %w", op, opCtx.Err())
			case <-ctx.Done():
				return zero, fmt.Errorf("operation canceled during backoff: %w", ctx.Err())
			}
		} else {
			break
		}
	}

	return zero, fmt.Errorf("%s failed after %d attempts: %w", op, c.config.MaxRetries+1, lastErr)
}

func (c *Client) calculateNextBackoff(currentBackoff time.Duration) time.Duration {
	backoff := time.Duration(float64(currentBackoff) * 1.5)
	if backoff > c.config.MaxBackoff {
		backoff = c.config.MaxBackoff
	}

	maxJitter := int64(backoff / 4)
	if maxJitter > 0 {
		jitterVal, err := rand.Int(rand.Reader, big.NewInt(maxJitter))
		if err != nil {
			log.Printf("Failed to generate jitter: %v", err)
		} else {
			jitter := time.Duration(jitterVal.Int64())
			backoff += jitter
		}
	}

	return backoff
}

func (c *Client) isTransientError(err error) bool {
	if err == nil {
		return false
	}

	var apiErr *client.APIError
	if errors.As(err, &apiErr) {
		// 4xx responses are permanent (except 429 Too Many Requests which is retryable)
		if apiErr.Status >= 400 && apiErr.Status < 500 {
			return apiErr.Status == 429
		}
		return apiErr.Status >= 500
	}

	errStr := strings.ToLower(err.Error())

	transientPatterns := []string{
		"timeout",
		"connection refused",
		"connection reset",
		"temporary failure",
		"server error",
		"rate limit",
		"429", // HTTP 429 Too Many Requests
		"502", // HTTP 502 Bad Gateway
		"503", // HTTP 503 Service Unavailable
		"504", // HTTP 504 Gateway Timeout
		"network",
		"dns",
		"tcp",
	}

	for _, pattern := range transientPatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}

	return false
}
