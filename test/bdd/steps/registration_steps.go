package steps

import (
	"context"
	"errors"
	"fmt"
	"reflect"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/mediator-go/pkg/container"
	"github.com/andrescamacho/mediator-go/pkg/mediator"
)

// Fixture candidates for registration scenarios

type addItemCommand struct {
	SKU string
}

type countItemsQuery struct{}

// inventoryHandler serves two request types through one candidate
type inventoryHandler struct {
	items []string
}

func (h *inventoryHandler) HandleAdd(ctx context.Context, cmd *addItemCommand) (mediator.Unit, error) {
	h.items = append(h.items, cmd.SKU)
	return mediator.Unit{}, nil
}

func (h *inventoryHandler) HandleCount(ctx context.Context, q *countItemsQuery) (int, error) {
	return len(h.items), nil
}

// duplicateAddHandler competes with inventoryHandler for addItemCommand
type duplicateAddHandler struct{}

func (h *duplicateAddHandler) Handle(ctx context.Context, cmd *addItemCommand) (mediator.Unit, error) {
	return mediator.Unit{}, nil
}

// notAHandler exposes methods, none with the capability shape
type notAHandler struct{}

func (n *notAHandler) Describe() string { return "not a handler" }

func (n *notAHandler) Process(a, b int) int { return a + b }

// stockKeeper is an abstract candidate
type stockKeeper interface {
	Keep(ctx context.Context, cmd *addItemCommand) (mediator.Unit, error)
}

type registrationContext struct {
	container *container.Container
	err       error
}

func (c *registrationContext) reset() {
	c.container = nil
	c.err = nil
}

func InitializeRegistrationScenario(ctx *godog.ScenarioContext) {
	c := &registrationContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		c.reset()
		return ctx, nil
	})

	ctx.Step(`^an empty container$`, c.emptyContainer)
	ctx.Step(`^I register a module with a greeting handler candidate$`, c.registerGreetingModule)
	ctx.Step(`^I register a module with an inventory handler candidate$`, c.registerInventoryModule)
	ctx.Step(`^I register a module containing only an interface candidate$`, c.registerInterfaceModule)
	ctx.Step(`^I register a module with a candidate that handles nothing$`, c.registerNonHandlerModule)
	ctx.Step(`^I register with no modules at all$`, c.registerNoModules)
	ctx.Step(`^I register a module with two handlers for the same request$`, c.registerDuplicateModule)
	ctx.Step(`^the container should hold a handler for greetings$`, c.containerShouldHoldGreetingHandler)
	ctx.Step(`^the container should hold handlers for the following requests:$`, c.containerShouldHoldRequests)
	ctx.Step(`^both requests should resolve the inventory handler type$`, c.bothRequestsShouldResolveInventoryHandler)
	ctx.Step(`^the container should hold no handler registrations$`, c.containerShouldBeEmpty)
	ctx.Step(`^the registration should fail with the no-candidates error$`, c.registrationShouldFailNoCandidates)
	ctx.Step(`^the registration should fail with the duplicate handler error$`, c.registrationShouldFailDuplicate)
	ctx.Step(`^resolving the greeting handler twice should yield distinct instances$`, c.greetingHandlerShouldBeTransient)
}

func (c *registrationContext) emptyContainer() error {
	c.container = container.New()
	return nil
}

func (c *registrationContext) registerGreetingModule() error {
	c.err = mediator.RegisterHandlers(c.container, mediator.NewModule("greetings", &greetHandler{}))
	return nil
}

func (c *registrationContext) registerInventoryModule() error {
	c.err = mediator.RegisterHandlers(c.container, mediator.NewModule("inventory", &inventoryHandler{}))
	return nil
}

func (c *registrationContext) registerInterfaceModule() error {
	c.err = mediator.RegisterHandlers(c.container, mediator.NewModule("abstract", reflect.TypeFor[stockKeeper]()))
	return nil
}

func (c *registrationContext) registerNonHandlerModule() error {
	c.err = mediator.RegisterHandlers(c.container, mediator.NewModule("misc", &notAHandler{}))
	return nil
}

func (c *registrationContext) registerNoModules() error {
	c.err = mediator.RegisterHandlers(c.container)
	return nil
}

func (c *registrationContext) registerDuplicateModule() error {
	c.err = mediator.RegisterHandlers(c.container,
		mediator.NewModule("inventory", &inventoryHandler{}, &duplicateAddHandler{}))
	return nil
}

func (c *registrationContext) containerShouldHoldGreetingHandler() error {
	if c.err != nil {
		return fmt.Errorf("registration failed: %v", c.err)
	}

	key := mediator.KeyFor[*greetRequest, *greetResult]()
	if _, ok := c.container.Resolve(key); !ok {
		return fmt.Errorf("no registration for %s", key)
	}
	return nil
}

func (c *registrationContext) containerShouldHoldRequests(table *godog.Table) error {
	if c.err != nil {
		return fmt.Errorf("registration failed: %v", c.err)
	}

	keys := map[string]mediator.HandlerKey{
		"addItemCommand":  mediator.KeyFor[*addItemCommand, mediator.Unit](),
		"countItemsQuery": mediator.KeyFor[*countItemsQuery, int](),
	}

	// Skip header row
	for i := 1; i < len(table.Rows); i++ {
		name := table.Rows[i].Cells[0].Value
		key, ok := keys[name]
		if !ok {
			return fmt.Errorf("unknown request name %q in table", name)
		}
		if _, ok := c.container.Resolve(key); !ok {
			return fmt.Errorf("no registration for %s", key)
		}
	}
	return nil
}

func (c *registrationContext) bothRequestsShouldResolveInventoryHandler() error {
	for _, key := range []mediator.HandlerKey{
		mediator.KeyFor[*addItemCommand, mediator.Unit](),
		mediator.KeyFor[*countItemsQuery, int](),
	} {
		instance, ok := c.container.Resolve(key)
		if !ok {
			return fmt.Errorf("no registration for %s", key)
		}
		if _, ok := instance.(*inventoryHandler); !ok {
			return fmt.Errorf("%s resolved %T, want *inventoryHandler", key, instance)
		}
	}
	return nil
}

func (c *registrationContext) containerShouldBeEmpty() error {
	if c.err != nil {
		return fmt.Errorf("registration failed: %v", c.err)
	}
	if n := c.container.Len(); n != 0 {
		return fmt.Errorf("expected empty container, found %d registrations", n)
	}
	return nil
}

func (c *registrationContext) registrationShouldFailNoCandidates() error {
	if !errors.Is(c.err, mediator.ErrNoCandidates) {
		return fmt.Errorf("expected no-candidates error, got %v", c.err)
	}
	return nil
}

func (c *registrationContext) registrationShouldFailDuplicate() error {
	if !errors.Is(c.err, mediator.ErrDuplicateHandler) {
		return fmt.Errorf("expected duplicate handler error, got %v", c.err)
	}
	return nil
}

func (c *registrationContext) greetingHandlerShouldBeTransient() error {
	if c.err != nil {
		return fmt.Errorf("registration failed: %v", c.err)
	}

	key := mediator.KeyFor[*greetRequest, *greetResult]()
	first, ok := c.container.Resolve(key)
	if !ok {
		return fmt.Errorf("no registration for %s", key)
	}
	second, ok := c.container.Resolve(key)
	if !ok {
		return fmt.Errorf("no registration for %s", key)
	}
	if first == second {
		return fmt.Errorf("expected distinct instances per resolution, got the same one")
	}
	return nil
}
