package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/mediator-go/internal/application/logging"
	"github.com/andrescamacho/mediator-go/internal/domain/orders"
	"github.com/andrescamacho/mediator-go/internal/domain/shared"
	"github.com/andrescamacho/mediator-go/internal/infrastructure/config"
)

// PlaceOrderCommand represents a request to place and pay for a new order
type PlaceOrderCommand struct {
	CustomerEmail  string `validate:"required,email"`
	SKU            string `validate:"required"`
	Quantity       int    `validate:"min=1"`
	UnitPriceCents int    `validate:"min=1"`
}

// PlaceOrderResult represents the outcome of placing an order
type PlaceOrderResult struct {
	OrderID    string
	Status     string
	PaymentRef string
	TotalCents int
	CreatedAt  time.Time
}

// PlaceOrderHandler handles the PlaceOrder command
type PlaceOrderHandler struct {
	orderRepo orders.Repository
	payments  orders.PaymentGateway
	clock     shared.Clock
	validator *config.Validator
}

// NewPlaceOrderHandler creates a new PlaceOrderHandler
func NewPlaceOrderHandler(
	orderRepo orders.Repository,
	payments orders.PaymentGateway,
	clock shared.Clock,
) *PlaceOrderHandler {
	// Default to real clock if not provided
	if clock == nil {
		clock = shared.NewRealClock()
	}

	return &PlaceOrderHandler{
		orderRepo: orderRepo,
		payments:  payments,
		clock:     clock,
		validator: config.NewValidator(),
	}
}

// Handle executes the PlaceOrder command
func (h *PlaceOrderHandler) Handle(ctx context.Context, cmd *PlaceOrderCommand) (*PlaceOrderResult, error) {
	logger := logging.FromContext(ctx)

	// Validate command fields
	if err := h.validator.Validate(cmd); err != nil {
		return nil, fmt.Errorf("invalid place order command: %w", err)
	}

	// Create order entity
	order, err := orders.NewOrder(cmd.CustomerEmail, cmd.SKU, cmd.Quantity, cmd.UnitPriceCents, h.clock.Now())
	if err != nil {
		return nil, err
	}

	// Persist the pending order before charging so a failed charge
	// leaves a record that can be retried or cancelled
	if err := h.orderRepo.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save order: %w", err)
	}

	logger.Log("info", "order placed", map[string]interface{}{
		"order_id":    order.ID().String(),
		"sku":         order.SKU(),
		"total_cents": order.TotalCents(),
	})

	// Charge the payment gateway
	paymentRef, err := h.payments.Charge(ctx, order)
	if err != nil {
		logger.Log("warn", "payment failed", map[string]interface{}{
			"order_id": order.ID().String(),
			"error":    err.Error(),
		})
		return nil, err
	}

	// Record the captured payment
	if err := order.MarkPaid(paymentRef, h.clock.Now()); err != nil {
		return nil, err
	}
	if err := h.orderRepo.Save(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to save paid order: %w", err)
	}

	logger.Log("info", "order paid", map[string]interface{}{
		"order_id":    order.ID().String(),
		"payment_ref": paymentRef,
	})

	return &PlaceOrderResult{
		OrderID:    order.ID().String(),
		Status:     order.Status().String(),
		PaymentRef: order.PaymentRef(),
		TotalCents: order.TotalCents(),
		CreatedAt:  order.CreatedAt(),
	}, nil
}
