// Package retry provides an HTTP fetch helper with bounded retries and
// jittered exponential backoff for transient failures.
package retry

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/big"
	"net/http"
	"strings"
	"time"
)

// Config controls the retry loop.
type Config struct {
	MaxRetries     int
	InitialBackoff time.Duration
	MaxBackoff     time.Duration
	Timeout        time.Duration
}

// DefaultConfig is a sane default for interactive fetches.
var DefaultConfig = Config{
	MaxRetries:     3,
	InitialBackoff: 1 * time.Second,
	MaxBackoff:     30 * time.Second,
	Timeout:        2 * time.Minute,
}

// Client wraps an http.Client with retry-on-transient-error semantics.
type Client struct {
	httpClient *http.Client
	logger     *log.Logger
	config     Config
}

// NewClient creates a retrying client. A nil httpClient uses
// http.DefaultClient; a nil logger uses the stdlib default logger.
func NewClient(httpClient *http.Client, logger *log.Logger, config ...Config) *Client {
	cfg := DefaultConfig
	if len(config) > 0 {
		cfg = config[0]
	}
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
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = log.Default()
	}

	return &Client{
		httpClient: httpClient,
		logger:     logger,
		config:     cfg,
	}
}

// GetJSON fetches url and decodes the response body into out, retrying
// transient failures with jittered backoff.
func (c *Client) GetJSON(ctx context.Context, url string, out any) error {
	fetchCtx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	var lastErr error
	backoff := c.config.InitialBackoff

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		select {
		case <-fetchCtx.Done():
			return fmt.Errorf("fetch timed out after %v: %w", c.config.Timeout, fetchCtx.Err())
		default:
		}

		err := c.fetchOnce(fetchCtx, url, out)
		if err == nil {
			return nil
		}

		lastErr = err
		c.logger.Printf("Fetch attempt %d/%d for %s failed: %v", attempt+1, c.config.MaxRetries+1, url, err)

		if c.isTransientError(err) && attempt < c.config.MaxRetries {
			c.logger.Printf("Transient error detected, retrying in %v", backoff)
			select {
			case <-time.After(backoff):
				backoff = c.calculateNextBackoff(backoff)
			case <-fetchCtx.Done():
				return fmt.Errorf("fetch timed out during backoff: %w", fetchCtx.Err())
			}
		} else {
			break
		}
	}

	return fmt.Errorf("fetch failed after %d attempts: %w", c.config.MaxRetries+1, lastErr)
}

func (c *Client) fetchOnce(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
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
			backoff += time.Duration(jitterVal.Int64())
		}
	}

	return backoff
}

func (c *Client) isTransientError(err error) bool {
	if err == nil {
		return false
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
