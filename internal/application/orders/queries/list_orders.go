package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/mediator-go/internal/domain/orders"
)

// ListOrdersQuery represents a query to list orders with optional filtering
type ListOrdersQuery struct {
	Status *string
	Limit  int
	Offset int
}

// ListOrdersResponse represents the result of the query
type ListOrdersResponse struct {
	Orders []*OrderSummary
	Total  int
}

// OrderSummary represents one row of an order listing
type OrderSummary struct {
	ID         string
	SKU        string
	Quantity   int
	TotalCents int
	Status     string
	CreatedAt  time.Time
}

// ListOrdersHandler handles the ListOrders query
type ListOrdersHandler struct {
	orderRepo orders.Repository
}

// NewListOrdersHandler creates a new ListOrdersHandler
func NewListOrdersHandler(orderRepo orders.Repository) *ListOrdersHandler {
	return &ListOrdersHandler{orderRepo: orderRepo}
}

// Handle executes the ListOrders query
func (h *ListOrdersHandler) Handle(ctx context.Context, query *ListOrdersQuery) (*ListOrdersResponse, error) {
	opts, err := h.buildListOptions(query)
	if err != nil {
		return nil, err
	}

	list, err := h.orderRepo.List(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	summaries := make([]*OrderSummary, len(list))
	for i, order := range list {
		summaries[i] = toSummary(order)
	}

	return &ListOrdersResponse{
		Orders: summaries,
		Total:  len(summaries),
	}, nil
}

func (h *ListOrdersHandler) buildListOptions(query *ListOrdersQuery) (orders.ListOptions, error) {
	opts := orders.DefaultListOptions()

	if query.Status != nil {
		status, err := orders.ParseOrderStatus(*query.Status)
		if err != nil {
			return opts, fmt.Errorf("invalid status filter: %w", err)
		}
		opts.Status = &status
	}

	if query.Limit > 0 {
		opts.Limit = query.Limit
	}
	opts.Offset = query.Offset

	return opts, nil
}

func toSummary(order *orders.Order) *OrderSummary {
	return &OrderSummary{
		ID:         order.ID().String(),
		SKU:        order.SKU(),
		Quantity:   order.Quantity(),
		TotalCents: order.TotalCents(),
		Status:     order.Status().String(),
		CreatedAt:  order.CreatedAt(),
	}
}
