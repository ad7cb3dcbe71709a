package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/mediator-go/internal/application/logging"
	"github.com/andrescamacho/mediator-go/internal/domain/orders"
	"github.com/andrescamacho/mediator-go/internal/domain/shared"
	"github.com/andrescamacho/mediator-go/pkg/mediator"
)

// CancelOrderCommand represents a request to cancel an existing order
type CancelOrderCommand struct {
	OrderID string
}

// CancelOrderHandler handles the CancelOrder command
type CancelOrderHandler struct {
	orderRepo orders.Repository
	clock     shared.Clock
}

// NewCancelOrderHandler creates a new CancelOrderHandler
func NewCancelOrderHandler(orderRepo orders.Repository, clock shared.Clock) *CancelOrderHandler {
	if clock == nil {
		clock = shared.NewRealClock()
	}

	return &CancelOrderHandler{
		orderRepo: orderRepo,
		clock:     clock,
	}
}

// Handle executes the CancelOrder command
func (h *CancelOrderHandler) Handle(ctx context.Context, cmd *CancelOrderCommand) (mediator.Unit, error) {
	id, err := orders.ParseOrderID(cmd.OrderID)
	if err != nil {
		return mediator.Unit{}, fmt.Errorf("invalid order ID: %w", err)
	}

	order, err := h.orderRepo.FindByID(ctx, id)
	if err != nil {
		return mediator.Unit{}, err
	}

	if err := order.Cancel(h.clock.Now()); err != nil {
		return mediator.Unit{}, err
	}

	if err := h.orderRepo.Save(ctx, order); err != nil {
		return mediator.Unit{}, fmt.Errorf("failed to save cancelled order: %w", err)
	}

	logging.FromContext(ctx).Log("info", "order cancelled", map[string]interface{}{
		"order_id": order.ID().String(),
	})

	return mediator.Unit{}, nil
}
