package steps

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/mediator-go/pkg/container"
	"github.com/andrescamacho/mediator-go/pkg/mediator"
)

// Fixture requests and handlers for dispatch scenarios

type greetRequest struct {
	Name string
}

type greetResult struct {
	Message string
}

type greetHandler struct {
	ran *bool
}

func (h *greetHandler) Handle(ctx context.Context, req *greetRequest) (*greetResult, error) {
	if h.ran != nil {
		*h.ran = true
	}
	return &greetResult{Message: "Hello, " + req.Name}, nil
}

type farewellRequest struct {
	Name string
}

var errRejected = errors.New("request rejected")

type rejectCommand struct{}

type rejectingHandler struct{}

func (h *rejectingHandler) Handle(ctx context.Context, cmd *rejectCommand) (mediator.Unit, error) {
	return mediator.Unit{}, errRejected
}

type shoutRequest struct {
	Name string
}

type shoutResult struct {
	Message string
}

// shoutHandler dispatches a nested greeting and uppercases it
type shoutHandler struct {
	dispatch *dispatchContext
}

func (h *shoutHandler) Handle(ctx context.Context, req *shoutRequest) (*shoutResult, error) {
	inner, err := mediator.Send[*greetResult](ctx, h.dispatch.mediator, &greetRequest{Name: req.Name})
	if err != nil {
		return nil, err
	}
	return &shoutResult{Message: strings.ToUpper(inner.Message)}, nil
}

type ackCommand struct{}

type ackHandler struct{}

func (h *ackHandler) Handle(ctx context.Context, cmd *ackCommand) (mediator.Unit, error) {
	return mediator.Unit{}, nil
}

type dispatchContext struct {
	container  *container.Container
	mediator   *mediator.Mediator
	response   any
	err        error
	handlerRan bool
	cancelled  bool
	units      []mediator.Unit
	concErrs   []error
}

func (c *dispatchContext) reset() {
	c.container = nil
	c.mediator = nil
	c.response = nil
	c.err = nil
	c.handlerRan = false
	c.cancelled = false
	c.units = nil
	c.concErrs = nil
}

func (c *dispatchContext) wire(candidates ...any) error {
	c.container = container.New()
	if err := mediator.AddMediatorFromCandidates(c.container, candidates...); err != nil {
		return err
	}

	m, err := mediator.FromContainer(c.container)
	if err != nil {
		return err
	}
	c.mediator = m
	return nil
}

func (c *dispatchContext) sendCtx() context.Context {
	ctx := context.Background()
	if c.cancelled {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()
		return cancelled
	}
	return ctx
}

func InitializeDispatchScenario(ctx *godog.ScenarioContext) {
	c := &dispatchContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		c.reset()
		return ctx, nil
	})

	ctx.Step(`^a dispatcher with a greeting handler$`, c.dispatcherWithGreetingHandler)
	ctx.Step(`^a dispatcher with no handlers for farewells$`, c.dispatcherWithGreetingHandler)
	ctx.Step(`^a dispatcher with a failing handler$`, c.dispatcherWithFailingHandler)
	ctx.Step(`^a dispatcher with a greeting handler and a shouting handler$`, c.dispatcherWithGreetingAndShouting)
	ctx.Step(`^a context that is already cancelled$`, c.contextAlreadyCancelled)
	ctx.Step(`^I send a greeting request for "([^"]*)"$`, c.sendGreeting)
	ctx.Step(`^I send a farewell request$`, c.sendFarewell)
	ctx.Step(`^I send a nil request$`, c.sendNilRequest)
	ctx.Step(`^I send a request that the handler rejects$`, c.sendRejectedRequest)
	ctx.Step(`^I send a shouting request for "([^"]*)"$`, c.sendShout)
	ctx.Step(`^I send (\d+) greeting requests concurrently$`, c.sendGreetingsConcurrently)
	ctx.Step(`^two unit values from separate dispatches$`, c.twoUnitValues)
	ctx.Step(`^the response should be "([^"]*)"$`, c.responseShouldBe)
	ctx.Step(`^the dispatch should fail$`, c.dispatchShouldFail)
	ctx.Step(`^the failure should name the request type "([^"]*)"$`, c.failureShouldNameType)
	ctx.Step(`^the dispatch should fail with the nil request error$`, c.failureShouldBeNilRequest)
	ctx.Step(`^the failure should be exactly the handler's error$`, c.failureShouldBeHandlersError)
	ctx.Step(`^the dispatch should fail with the cancellation error$`, c.failureShouldBeCancellation)
	ctx.Step(`^the handler should not have run$`, c.handlerShouldNotHaveRun)
	ctx.Step(`^every concurrent dispatch should succeed$`, c.everyConcurrentDispatchShouldSucceed)
	ctx.Step(`^the unit values should be equal$`, c.unitValuesShouldBeEqual)
	ctx.Step(`^each unit value should render as "([^"]*)"$`, c.unitValuesShouldRenderAs)
}

func (c *dispatchContext) dispatcherWithGreetingHandler() error {
	return c.wire(&greetHandler{ran: &c.handlerRan})
}

func (c *dispatchContext) dispatcherWithFailingHandler() error {
	return c.wire(&rejectingHandler{})
}

func (c *dispatchContext) dispatcherWithGreetingAndShouting() error {
	return c.wire(&greetHandler{ran: &c.handlerRan}, &shoutHandler{dispatch: c})
}

func (c *dispatchContext) contextAlreadyCancelled() error {
	c.cancelled = true
	return nil
}

func (c *dispatchContext) sendGreeting(name string) error {
	c.response, c.err = mediator.Send[*greetResult](c.sendCtx(), c.mediator, &greetRequest{Name: name})
	return nil
}

func (c *dispatchContext) sendFarewell() error {
	c.response, c.err = mediator.Send[*greetResult](c.sendCtx(), c.mediator, &farewellRequest{Name: "Ada"})
	return nil
}

func (c *dispatchContext) sendNilRequest() error {
	var req *greetRequest
	c.response, c.err = mediator.Send[*greetResult](c.sendCtx(), c.mediator, req)
	return nil
}

func (c *dispatchContext) sendRejectedRequest() error {
	c.response, c.err = mediator.Send[mediator.Unit](c.sendCtx(), c.mediator, &rejectCommand{})
	return nil
}

func (c *dispatchContext) sendShout(name string) error {
	c.response, c.err = mediator.Send[*shoutResult](c.sendCtx(), c.mediator, &shoutRequest{Name: name})
	return nil
}

func (c *dispatchContext) sendGreetingsConcurrently(count int) error {
	errs := make([]error, count)
	var wg sync.WaitGroup
	for i := 0; i < count; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := mediator.Send[*greetResult](context.Background(), c.mediator, &greetRequest{Name: fmt.Sprintf("user-%d", i)})
			if err == nil && res.Message != fmt.Sprintf("Hello, user-%d", i) {
				err = fmt.Errorf("unexpected message %q", res.Message)
			}
			errs[i] = err
		}(i)
	}
	wg.Wait()
	c.concErrs = errs
	return nil
}

func (c *dispatchContext) twoUnitValues() error {
	if err := c.wire(&ackHandler{}); err != nil {
		return err
	}

	for i := 0; i < 2; i++ {
		unit, err := mediator.Send[mediator.Unit](context.Background(), c.mediator, &ackCommand{})
		if err != nil {
			return err
		}
		c.units = append(c.units, unit)
	}
	return nil
}

func (c *dispatchContext) responseShouldBe(expected string) error {
	if c.err != nil {
		return fmt.Errorf("dispatch failed: %v", c.err)
	}

	var got string
	switch res := c.response.(type) {
	case *greetResult:
		got = res.Message
	case *shoutResult:
		got = res.Message
	default:
		return fmt.Errorf("unexpected response type %T", c.response)
	}

	if got != expected {
		return fmt.Errorf("expected response %q, got %q", expected, got)
	}
	return nil
}

func (c *dispatchContext) dispatchShouldFail() error {
	if c.err == nil {
		return fmt.Errorf("expected dispatch to fail, got response %v", c.response)
	}
	return nil
}

func (c *dispatchContext) failureShouldNameType(typeName string) error {
	if c.err == nil {
		return fmt.Errorf("expected an error naming %q", typeName)
	}
	if !errors.Is(c.err, mediator.ErrHandlerNotFound) {
		return fmt.Errorf("expected handler-not-found, got %v", c.err)
	}
	if !strings.Contains(c.err.Error(), typeName) {
		return fmt.Errorf("error %q does not name request type %q", c.err.Error(), typeName)
	}
	return nil
}

func (c *dispatchContext) failureShouldBeNilRequest() error {
	if !errors.Is(c.err, mediator.ErrNilRequest) {
		return fmt.Errorf("expected nil request error, got %v", c.err)
	}
	return nil
}

func (c *dispatchContext) failureShouldBeHandlersError() error {
	if c.err != errRejected {
		return fmt.Errorf("expected the handler's error verbatim, got %v", c.err)
	}
	return nil
}

func (c *dispatchContext) failureShouldBeCancellation() error {
	if !errors.Is(c.err, context.Canceled) {
		return fmt.Errorf("expected context cancellation, got %v", c.err)
	}
	return nil
}

func (c *dispatchContext) handlerShouldNotHaveRun() error {
	if c.handlerRan {
		return fmt.Errorf("handler ran despite cancelled context")
	}
	return nil
}

func (c *dispatchContext) everyConcurrentDispatchShouldSucceed() error {
	for i, err := range c.concErrs {
		if err != nil {
			return fmt.Errorf("concurrent dispatch %d failed: %v", i, err)
		}
	}
	return nil
}

func (c *dispatchContext) unitValuesShouldBeEqual() error {
	if len(c.units) != 2 {
		return fmt.Errorf("expected 2 unit values, got %d", len(c.units))
	}
	if c.units[0] != c.units[1] {
		return fmt.Errorf("unit values differ")
	}
	return nil
}

func (c *dispatchContext) unitValuesShouldRenderAs(expected string) error {
	for i, unit := range c.units {
		if rendered := fmt.Sprintf("%v", unit); rendered != expected {
			return fmt.Errorf("unit %d rendered as %q, want %q", i, rendered, expected)
		}
	}
	return nil
}
