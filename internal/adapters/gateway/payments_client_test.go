package gateway_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/mediator-go/internal/adapters/gateway"
	"github.com/andrescamacho/mediator-go/internal/domain/orders"
	"github.com/andrescamacho/mediator-go/internal/domain/shared"
	"github.com/andrescamacho/mediator-go/internal/infrastructure/config"
)

func testConfig(baseURL string) *config.PaymentsConfig {
	return &config.PaymentsConfig{
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
		RateLimit: config.RateLimitConfig{
			Requests: 100,
			Burst:    100,
		},
		Retry: config.RetryConfig{
			MaxAttempts: 3,
			BackoffBase: 10 * time.Millisecond,
		},
	}
}

func testOrder(t *testing.T) *orders.Order {
	t.Helper()

	order, err := orders.NewOrder("ada@example.com", "SKU-100", 2, 1500, time.Now().UTC())
	require.NoError(t, err)
	return order
}

func TestPaymentsClient_ChargeApproved(t *testing.T) {
	// Arrange
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/charges", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"reference": "pay_abc123",
			"status":    "approved",
		})
	}))
	defer server.Close()

	client := gateway.NewPaymentsClient(testConfig(server.URL), shared.NewFixedClock(time.Now()))
	order := testOrder(t)

	// Act
	ref, err := client.Charge(context.Background(), order)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "pay_abc123", ref)
	assert.Equal(t, order.ID().String(), gotBody["order_id"])
	assert.Equal(t, float64(3000), gotBody["amount_cents"])
}

func TestPaymentsClient_ChargeDeclined(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		json.NewEncoder(w).Encode(map[string]string{
			"status": "declined",
			"reason": "insufficient funds",
		})
	}))
	defer server.Close()

	client := gateway.NewPaymentsClient(testConfig(server.URL), shared.NewFixedClock(time.Now()))
	order := testOrder(t)

	// Act
	_, err := client.Charge(context.Background(), order)

	// Assert
	require.Error(t, err)
	var declined *orders.ErrPaymentDeclined
	require.ErrorAs(t, err, &declined)
	assert.Equal(t, "insufficient funds", declined.Reason)
	assert.Equal(t, order.ID().String(), declined.OrderID)
}

func TestPaymentsClient_RetriesServerErrors(t *testing.T) {
	// Arrange
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]string{
			"reference": "pay_retry",
			"status":    "approved",
		})
	}))
	defer server.Close()

	client := gateway.NewPaymentsClient(testConfig(server.URL), shared.NewFixedClock(time.Now()))

	// Act
	ref, err := client.Charge(context.Background(), testOrder(t))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "pay_retry", ref)
	assert.Equal(t, int32(3), calls.Load())
}

func TestPaymentsClient_ExhaustsRetries(t *testing.T) {
	// Arrange
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	client := gateway.NewPaymentsClient(testConfig(server.URL), shared.NewFixedClock(time.Now()))

	// Act
	_, err := client.Charge(context.Background(), testOrder(t))

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max retries exceeded")
}

func TestPaymentsClient_ClientErrorNotRetried(t *testing.T) {
	// Arrange
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer server.Close()

	client := gateway.NewPaymentsClient(testConfig(server.URL), shared.NewFixedClock(time.Now()))

	// Act
	_, err := client.Charge(context.Background(), testOrder(t))

	// Assert
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
}
