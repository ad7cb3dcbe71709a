package setup

import (
	"reflect"

	"github.com/andrescamacho/mediator-go/internal/application/orders/commands"
	"github.com/andrescamacho/mediator-go/internal/application/orders/queries"
	"github.com/andrescamacho/mediator-go/internal/domain/orders"
	"github.com/andrescamacho/mediator-go/internal/domain/shared"
	"github.com/andrescamacho/mediator-go/pkg/container"
	"github.com/andrescamacho/mediator-go/pkg/mediator"
)

// HandlerRegistry holds all application dependencies for handler creation
type HandlerRegistry struct {
	orderRepo orders.Repository
	payments  orders.PaymentGateway
	clock     shared.Clock
}

// NewHandlerRegistry creates a new handler registry with required dependencies
func NewHandlerRegistry(
	orderRepo orders.Repository,
	payments orders.PaymentGateway,
	clock shared.Clock,
) *HandlerRegistry {
	// Default to real clock if not provided
	if clock == nil {
		clock = shared.NewRealClock()
	}

	return &HandlerRegistry{
		orderRepo: orderRepo,
		payments:  payments,
		clock:     clock,
	}
}

// Module returns the order handlers as registration candidates.
//
// Candidates are constructors so every dispatch resolves a fresh handler:
//   - PlaceOrderCommand → PlaceOrderHandler
//   - CancelOrderCommand → CancelOrderHandler
//   - GetOrderQuery → GetOrderHandler
//   - ListOrdersQuery → ListOrdersHandler
func (r *HandlerRegistry) Module() mediator.Module {
	return mediator.NewModule("orders",
		func() *commands.PlaceOrderHandler {
			return commands.NewPlaceOrderHandler(r.orderRepo, r.payments, r.clock)
		},
		func() *commands.CancelOrderHandler {
			return commands.NewCancelOrderHandler(r.orderRepo, r.clock)
		},
		func() *queries.GetOrderHandler {
			return queries.NewGetOrderHandler(r.orderRepo)
		},
		func() *queries.ListOrdersHandler {
			return queries.NewListOrdersHandler(r.orderRepo)
		},
	)
}

// RegisterAll scans the order handlers and registers them, together with
// the dispatcher and the shared infrastructure, in the given container
func (r *HandlerRegistry) RegisterAll(c *container.Container) error {
	if err := c.RegisterInstance(reflect.TypeFor[orders.Repository](), r.orderRepo); err != nil {
		return err
	}
	if err := c.RegisterInstance(reflect.TypeFor[orders.PaymentGateway](), r.payments); err != nil {
		return err
	}
	if err := c.RegisterInstance(reflect.TypeFor[shared.Clock](), r.clock); err != nil {
		return err
	}
	return mediator.AddMediator(c, r.Module())
}
