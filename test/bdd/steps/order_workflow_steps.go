package steps

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"time"

	"github.com/cucumber/godog"
	"github.com/cucumber/messages/go/v21"
	"gorm.io/gorm"

	"github.com/andrescamacho/mediator-go/internal/adapters/persistence"
	"github.com/andrescamacho/mediator-go/internal/application/orders/commands"
	"github.com/andrescamacho/mediator-go/internal/application/orders/queries"
	"github.com/andrescamacho/mediator-go/internal/application/setup"
	"github.com/andrescamacho/mediator-go/internal/domain/orders"
	"github.com/andrescamacho/mediator-go/internal/domain/shared"
	"github.com/andrescamacho/mediator-go/internal/infrastructure/database"
	"github.com/andrescamacho/mediator-go/pkg/container"
	"github.com/andrescamacho/mediator-go/pkg/mediator"
	"github.com/andrescamacho/mediator-go/test/helpers"
)

type orderWorkflowContext struct {
	db           *gorm.DB
	repo         orders.Repository
	gateway      *helpers.MockPaymentGateway
	mediator     *mediator.Mediator
	clock        *shared.FixedClock
	orderID      string
	placeResult  *commands.PlaceOrderResult
	placeErr     error
	cancelErr    error
	fetchErr     error
	listResponse *queries.ListOrdersResponse
	listErr      error
}

func (c *orderWorkflowContext) reset() {
	if c.db != nil {
		database.Close(c.db)
	}
	c.db = nil
	c.repo = nil
	c.gateway = nil
	c.mediator = nil
	c.clock = nil
	c.orderID = ""
	c.placeResult = nil
	c.placeErr = nil
	c.cancelErr = nil
	c.fetchErr = nil
	c.listResponse = nil
	c.listErr = nil
}

func InitializeOrderWorkflowScenario(ctx *godog.ScenarioContext) {
	c := &orderWorkflowContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		c.reset()
		return ctx, nil
	})

	ctx.Step(`^the orders application is wired with an approving gateway$`, c.wireApplication)
	ctx.Step(`^the gateway declines charges with reason "([^"]*)"$`, c.gatewayDeclines)
	ctx.Step(`^a stored pending order$`, c.storedPendingOrder)
	ctx.Step(`^a stored paid order$`, c.storedPaidOrder)
	ctx.Step(`^I place an order:$`, c.placeOrder)
	ctx.Step(`^I cancel that order$`, c.cancelOrder)
	ctx.Step(`^I fetch an order that does not exist$`, c.fetchUnknownOrder)
	ctx.Step(`^I list orders with status "([^"]*)"$`, c.listOrdersWithStatus)
	ctx.Step(`^the order should be stored with status "([^"]*)"$`, c.orderShouldHaveStatus)
	ctx.Step(`^the order total should be (\d+) cents$`, c.orderTotalShouldBe)
	ctx.Step(`^the gateway should have charged the order once$`, c.gatewayShouldHaveChargedOnce)
	ctx.Step(`^the placement should fail with a payment declined error$`, c.placementShouldFailDeclined)
	ctx.Step(`^the decline reason should be "([^"]*)"$`, c.declineReasonShouldBe)
	ctx.Step(`^the cancellation should fail with an invalid transition error$`, c.cancellationShouldFailTransition)
	ctx.Step(`^the fetch should fail with an order not found error$`, c.fetchShouldFailNotFound)
	ctx.Step(`^the listing should contain (\d+) orders?$`, c.listingShouldContain)
	ctx.Step(`^every listed order should have status "([^"]*)"$`, c.listedOrdersShouldHaveStatus)
}

func (c *orderWorkflowContext) wireApplication() error {
	db, err := database.NewTestConnection()
	if err != nil {
		return fmt.Errorf("failed to create test database: %w", err)
	}

	c.db = db
	c.gateway = helpers.NewMockPaymentGateway()
	c.clock = shared.NewFixedClock(time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC))

	registry := setup.NewHandlerRegistry(persistence.NewGormOrderRepository(db), c.gateway, c.clock)
	cont := container.New()
	if err := registry.RegisterAll(cont); err != nil {
		return fmt.Errorf("failed to register handlers: %w", err)
	}

	// The repository handle comes back out of the container so the scenarios
	// observe the same instance the handlers use.
	repo, err := container.ResolveAs[orders.Repository](cont, reflect.TypeFor[orders.Repository]())
	if err != nil {
		return err
	}
	c.repo = repo

	m, err := mediator.FromContainer(cont)
	if err != nil {
		return err
	}
	c.mediator = m
	return nil
}

func (c *orderWorkflowContext) gatewayDeclines(reason string) error {
	c.gateway.DeclineWith(reason)
	return nil
}

func (c *orderWorkflowContext) storedPendingOrder() error {
	order, err := orders.NewOrder("ada@example.com", "SKU-100", 1, 2500, c.clock.Now())
	if err != nil {
		return err
	}
	if err := c.repo.Save(context.Background(), order); err != nil {
		return err
	}
	c.orderID = order.ID().String()
	return nil
}

func (c *orderWorkflowContext) storedPaidOrder() error {
	order, err := orders.NewOrder("grace@example.com", "SKU-200", 3, 800, c.clock.Now())
	if err != nil {
		return err
	}
	if err := order.MarkPaid("pay_seed", c.clock.Now()); err != nil {
		return err
	}
	return c.repo.Save(context.Background(), order)
}

func (c *orderWorkflowContext) placeOrder(table *godog.Table) error {
	if len(table.Rows) < 2 {
		return fmt.Errorf("expected a header row and one data row")
	}
	row := table.Rows[1]

	quantity, err := strconv.Atoi(getCellValue(table, row, "quantity"))
	if err != nil {
		return fmt.Errorf("invalid quantity: %w", err)
	}
	unitPrice, err := strconv.Atoi(getCellValue(table, row, "unit_price_cents"))
	if err != nil {
		return fmt.Errorf("invalid unit price: %w", err)
	}

	cmd := &commands.PlaceOrderCommand{
		CustomerEmail:  getCellValue(table, row, "email"),
		SKU:            getCellValue(table, row, "sku"),
		Quantity:       quantity,
		UnitPriceCents: unitPrice,
	}

	c.placeResult, c.placeErr = mediator.Send[*commands.PlaceOrderResult](context.Background(), c.mediator, cmd)

	// Track the stored order even when the charge was declined
	if c.placeResult != nil {
		c.orderID = c.placeResult.OrderID
	} else if charged := c.gateway.ChargedOrders(); len(charged) > 0 {
		c.orderID = charged[len(charged)-1]
	}
	return nil
}

func (c *orderWorkflowContext) cancelOrder() error {
	_, c.cancelErr = mediator.Send[mediator.Unit](context.Background(), c.mediator, &commands.CancelOrderCommand{
		OrderID: c.orderID,
	})
	return nil
}

func (c *orderWorkflowContext) fetchUnknownOrder() error {
	_, c.fetchErr = mediator.Send[*queries.OrderDetails](context.Background(), c.mediator, &queries.GetOrderQuery{
		OrderID: orders.NewOrderID().String(),
	})
	return nil
}

func (c *orderWorkflowContext) listOrdersWithStatus(status string) error {
	c.listResponse, c.listErr = mediator.Send[*queries.ListOrdersResponse](context.Background(), c.mediator, &queries.ListOrdersQuery{
		Status: &status,
	})
	return nil
}

func (c *orderWorkflowContext) orderShouldHaveStatus(expected string) error {
	id, err := orders.ParseOrderID(c.orderID)
	if err != nil {
		return fmt.Errorf("no stored order to check: %w", err)
	}

	order, err := c.repo.FindByID(context.Background(), id)
	if err != nil {
		return err
	}
	if order.Status().String() != expected {
		return fmt.Errorf("order has status %s, want %s", order.Status(), expected)
	}
	return nil
}

func (c *orderWorkflowContext) orderTotalShouldBe(expected int) error {
	if c.placeErr != nil {
		return fmt.Errorf("placement failed: %v", c.placeErr)
	}
	if c.placeResult.TotalCents != expected {
		return fmt.Errorf("order total is %d cents, want %d", c.placeResult.TotalCents, expected)
	}
	return nil
}

func (c *orderWorkflowContext) gatewayShouldHaveChargedOnce() error {
	charged := c.gateway.ChargedOrders()
	if len(charged) != 1 {
		return fmt.Errorf("gateway charged %d times, want 1", len(charged))
	}
	if charged[0] != c.orderID {
		return fmt.Errorf("gateway charged order %s, want %s", charged[0], c.orderID)
	}
	return nil
}

func (c *orderWorkflowContext) placementShouldFailDeclined() error {
	var declined *orders.ErrPaymentDeclined
	if !errors.As(c.placeErr, &declined) {
		return fmt.Errorf("expected payment declined error, got %v", c.placeErr)
	}
	return nil
}

func (c *orderWorkflowContext) declineReasonShouldBe(expected string) error {
	var declined *orders.ErrPaymentDeclined
	if !errors.As(c.placeErr, &declined) {
		return fmt.Errorf("expected payment declined error, got %v", c.placeErr)
	}
	if declined.Reason != expected {
		return fmt.Errorf("decline reason is %q, want %q", declined.Reason, expected)
	}
	return nil
}

func (c *orderWorkflowContext) cancellationShouldFailTransition() error {
	var transition *orders.ErrInvalidStatusTransition
	if !errors.As(c.cancelErr, &transition) {
		return fmt.Errorf("expected invalid transition error, got %v", c.cancelErr)
	}
	return nil
}

func (c *orderWorkflowContext) fetchShouldFailNotFound() error {
	var notFound *orders.ErrOrderNotFound
	if !errors.As(c.fetchErr, &notFound) {
		return fmt.Errorf("expected order not found error, got %v", c.fetchErr)
	}
	return nil
}

func (c *orderWorkflowContext) listingShouldContain(expected int) error {
	if c.listErr != nil {
		return fmt.Errorf("listing failed: %v", c.listErr)
	}
	if len(c.listResponse.Orders) != expected {
		return fmt.Errorf("listing contains %d orders, want %d", len(c.listResponse.Orders), expected)
	}
	return nil
}

func (c *orderWorkflowContext) listedOrdersShouldHaveStatus(expected string) error {
	for _, order := range c.listResponse.Orders {
		if order.Status != expected {
			return fmt.Errorf("order %s has status %s, want %s", order.ID, order.Status, expected)
		}
	}
	return nil
}

// getCellValue extracts a cell value from a table row by column name
func getCellValue(table *godog.Table, row *messages.PickleTableRow, columnName string) string {
	for i, cell := range table.Rows[0].Cells {
		if cell.Value == columnName {
			if i < len(row.Cells) {
				return row.Cells[i].Value
			}
		}
	}
	return ""
}
