package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/mediator-go/internal/domain/orders"
	"github.com/andrescamacho/mediator-go/internal/domain/shared"
	"github.com/andrescamacho/mediator-go/internal/infrastructure/config"
)

const (
	defaultTimeout     = 30 * time.Second
	defaultMaxRetries  = 3
	defaultBackoffBase = time.Second
)

// PaymentsClient implements orders.PaymentGateway against an HTTP payment
// provider. Charges are rate limited and retried on transient failures
type PaymentsClient struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	baseURL     string
	maxRetries  int
	backoffBase time.Duration
	clock       shared.Clock
}

// NewPaymentsClient creates a payments client from configuration.
// If clock is nil, uses RealClock for production
func NewPaymentsClient(cfg *config.PaymentsConfig, clock shared.Clock) *PaymentsClient {
	if clock == nil {
		clock = shared.NewRealClock()
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = defaultTimeout
	}
	maxRetries := cfg.Retry.MaxAttempts
	if maxRetries == 0 {
		maxRetries = defaultMaxRetries
	}
	backoffBase := cfg.Retry.BackoffBase
	if backoffBase == 0 {
		backoffBase = defaultBackoffBase
	}

	return &PaymentsClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RateLimit.Requests), cfg.RateLimit.Burst),
		baseURL:     cfg.BaseURL,
		maxRetries:  maxRetries,
		backoffBase: backoffBase,
		clock:       clock,
	}
}

type chargeRequest struct {
	OrderID       string `json:"order_id"`
	CustomerEmail string `json:"customer_email"`
	AmountCents   int    `json:"amount_cents"`
}

type chargeResponse struct {
	Reference string `json:"reference"`
	Status    string `json:"status"`
	Reason    string `json:"reason,omitempty"`
}

// Charge submits a charge for the order total and returns the provider's
// payment reference. Declined charges return *orders.ErrPaymentDeclined
func (c *PaymentsClient) Charge(ctx context.Context, order *orders.Order) (string, error) {
	body := chargeRequest{
		OrderID:       order.ID().String(),
		CustomerEmail: order.CustomerEmail(),
		AmountCents:   order.TotalCents(),
	}

	var response chargeResponse
	if err := c.request(ctx, http.MethodPost, "/charges", body, &response); err != nil {
		return "", err
	}

	if response.Status != "approved" {
		reason := response.Reason
		if reason == "" {
			reason = response.Status
		}
		return "", &orders.ErrPaymentDeclined{OrderID: order.ID().String(), Reason: reason}
	}

	return response.Reference, nil
}

// addJitter adds random jitter to a duration to avoid thundering herd.
// Returns a duration between 50% and 150% of the original value
func addJitter(d time.Duration) time.Duration {
	jitter := 0.5 + rand.Float64() // 0.5 to 1.5
	return time.Duration(float64(d) * jitter)
}

// request makes an HTTP request with rate limiting and exponential backoff retries
func (c *PaymentsClient) request(ctx context.Context, method, path string, body interface{}, result interface{}) error {
	url := c.baseURL + path

	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		// Wait for rate limiter
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}

		var reqBody io.Reader
		if body != nil {
			jsonData, err := json.Marshal(body)
			if err != nil {
				return fmt.Errorf("failed to marshal request body: %w", err)
			}
			reqBody = bytes.NewBuffer(jsonData)
		}

		req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			// Network error - retryable
			lastErr = fmt.Errorf("network error: %w", err)

			if attempt >= c.maxRetries {
				break
			}
			if ctx.Err() != nil {
				return fmt.Errorf("context cancelled: %w", ctx.Err())
			}

			c.clock.Sleep(addJitter(c.backoffBase * time.Duration(1<<attempt)))
			continue
		}

		respBody, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}

		// 429 and 5xx are retryable
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
			lastErr = fmt.Errorf("provider error (status %d)", resp.StatusCode)

			if attempt >= c.maxRetries {
				break
			}
			if ctx.Err() != nil {
				return fmt.Errorf("context cancelled: %w", ctx.Err())
			}

			c.clock.Sleep(addJitter(c.backoffBase * time.Duration(1<<attempt)))
			continue
		}

		// 402 carries a decline payload; let the caller map it
		if resp.StatusCode == http.StatusPaymentRequired {
			if result != nil {
				if err := json.Unmarshal(respBody, result); err != nil {
					return fmt.Errorf("failed to unmarshal decline response: %w", err)
				}
			}
			return nil
		}

		// Remaining 4xx client errors are NOT retryable
		if resp.StatusCode >= 400 {
			return fmt.Errorf("provider error (status %d): %s", resp.StatusCode, string(respBody))
		}

		if result != nil {
			if err := json.Unmarshal(respBody, result); err != nil {
				return fmt.Errorf("failed to unmarshal response: %w", err)
			}
		}

		return nil
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}
