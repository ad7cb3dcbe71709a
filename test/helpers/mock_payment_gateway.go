package helpers

import (
	"context"
	"fmt"
	"sync"

	"github.com/andrescamacho/mediator-go/internal/domain/orders"
)

// MockPaymentGateway is a test double for the orders.PaymentGateway interface
type MockPaymentGateway struct {
	mu sync.Mutex

	// Call tracking
	chargedOrders []string // Track which order IDs were charged

	// Behavior configuration
	nextRef     string
	declineWith string // decline reason; charge succeeds when empty

	// Custom function handler (takes precedence when set)
	chargeFunc func(ctx context.Context, order *orders.Order) (string, error)
}

// NewMockPaymentGateway creates a mock gateway that approves every charge
func NewMockPaymentGateway() *MockPaymentGateway {
	return &MockPaymentGateway{
		nextRef:       "pay_test_ref",
		chargedOrders: []string{},
	}
}

// WithRef sets the payment reference returned by successful charges
func (m *MockPaymentGateway) WithRef(ref string) *MockPaymentGateway {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextRef = ref
	return m
}

// DeclineWith makes subsequent charges fail with the given reason
func (m *MockPaymentGateway) DeclineWith(reason string) *MockPaymentGateway {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.declineWith = reason
	return m
}

// SetChargeFunc installs a custom charge handler
func (m *MockPaymentGateway) SetChargeFunc(fn func(ctx context.Context, order *orders.Order) (string, error)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.chargeFunc = fn
}

// Charge implements orders.PaymentGateway
func (m *MockPaymentGateway) Charge(ctx context.Context, order *orders.Order) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.chargedOrders = append(m.chargedOrders, order.ID().String())

	if m.chargeFunc != nil {
		return m.chargeFunc(ctx, order)
	}

	if m.declineWith != "" {
		return "", &orders.ErrPaymentDeclined{OrderID: order.ID().String(), Reason: m.declineWith}
	}

	return fmt.Sprintf("%s_%d", m.nextRef, len(m.chargedOrders)), nil
}

// ChargedOrders returns the IDs of all orders charged so far
func (m *MockPaymentGateway) ChargedOrders() []string {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]string, len(m.chargedOrders))
	copy(out, m.chargedOrders)
	return out
}
