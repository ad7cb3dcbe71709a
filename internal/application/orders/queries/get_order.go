package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/mediator-go/internal/domain/orders"
)

// GetOrderQuery represents a query to retrieve a single order
type GetOrderQuery struct {
	OrderID string
}

// OrderDetails represents the full view of one order
type OrderDetails struct {
	ID             string
	CustomerEmail  string
	SKU            string
	Quantity       int
	UnitPriceCents int
	TotalCents     int
	Status         string
	PaymentRef     string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// GetOrderHandler handles the GetOrder query
type GetOrderHandler struct {
	orderRepo orders.Repository
}

// NewGetOrderHandler creates a new GetOrderHandler
func NewGetOrderHandler(orderRepo orders.Repository) *GetOrderHandler {
	return &GetOrderHandler{orderRepo: orderRepo}
}

// Handle executes the GetOrder query
func (h *GetOrderHandler) Handle(ctx context.Context, query *GetOrderQuery) (*OrderDetails, error) {
	id, err := orders.ParseOrderID(query.OrderID)
	if err != nil {
		return nil, fmt.Errorf("invalid order ID: %w", err)
	}

	order, err := h.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return toDetails(order), nil
}

func toDetails(order *orders.Order) *OrderDetails {
	return &OrderDetails{
		ID:             order.ID().String(),
		CustomerEmail:  order.CustomerEmail(),
		SKU:            order.SKU(),
		Quantity:       order.Quantity(),
		UnitPriceCents: order.UnitPriceCents(),
		TotalCents:     order.TotalCents(),
		Status:         order.Status().String(),
		PaymentRef:     order.PaymentRef(),
		CreatedAt:      order.CreatedAt(),
		UpdatedAt:      order.UpdatedAt(),
	}
}
