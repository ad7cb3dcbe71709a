// Package mediator implements in-process request/handler dispatch: callers
// submit a typed request value and receive a typed response without knowing
// which handler serviced it. Handlers are resolved from a service container
// by the exact (request type, response type) pair, invoked exactly once per
// Send, and their errors propagate to the caller unwrapped.
package mediator

import (
	"context"
	"fmt"
	"reflect"
	"sync"
)

// mediatorKey is the container key RegisterMediatorCore registers the
// dispatcher under.
var mediatorKey = reflect.TypeFor[*Mediator]()

// Mediator routes requests to their registered handlers through a service
// container. Instances are cheap and stateless aside from the invoker cache;
// dispatchers resolved from a container all share one cache.
type Mediator struct {
	resolver Resolver
	cache    *sync.Map // HandlerKey -> invoker
}

// New creates a dispatcher over the given container with a fresh cache.
func New(resolver Resolver) *Mediator {
	return &Mediator{resolver: resolver, cache: &sync.Map{}}
}

// FromContainer resolves the dispatcher registered by RegisterMediatorCore.
func FromContainer(resolver Resolver) (*Mediator, error) {
	instance, ok := resolver.Resolve(mediatorKey)
	if !ok {
		return nil, ErrNotRegistered
	}
	m, ok := instance.(*Mediator)
	if !ok {
		return nil, fmt.Errorf("dispatcher registration resolved %T: %w", instance, ErrInvalidHandler)
	}
	return m, nil
}

// invoker is the type-erased entry point for one handler capability. It is
// computed once per capability key and reused for every dispatch of that key.
type invoker func(ctx context.Context, handler any, request Request) (Response, error)

// Send dispatches a request to the single handler registered for the pair
// (concrete type of request, TRes) and returns the handler's result. The
// response type is supplied by the caller:
//
//	result, err := mediator.Send[*PlaceOrderResult](ctx, m, cmd)
//
// Handler errors cross the dispatch boundary exactly as the handler returned
// them, so errors.Is and errors.As keep working; a cancelled ctx surfaces as
// the context's own error, before the handler runs if cancellation already
// happened.
func Send[TRes Response, TReq Request](ctx context.Context, m *Mediator, request TReq) (TRes, error) {
	var zero TRes

	key, handler, err := m.resolveHandler(request, reflect.TypeFor[TRes]())
	if err != nil {
		return zero, err
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	// Fast path: the handler satisfies the typed capability directly, so no
	// reflection is involved in the call.
	if h, ok := handler.(RequestHandler[TReq, TRes]); ok {
		return h.Handle(ctx, request)
	}

	res, err := m.invoke(ctx, key, handler, request)
	if err != nil {
		return zero, err
	}
	typed, ok := res.(TRes)
	if !ok {
		return zero, fmt.Errorf("handler for %s returned %T: %w", key.Request, res, ErrInvalidHandler)
	}
	return typed, nil
}

// Send dispatches a request whose response type is not statically known,
// using the pair recorded for the request's concrete type at registration
// time. Callers that know the response type should prefer the Send function.
func (m *Mediator) Send(ctx context.Context, request Request) (Response, error) {
	if isNilRequest(request) {
		return nil, ErrNilRequest
	}

	requestType := reflect.TypeOf(request)
	entry, ok := m.resolver.Resolve(requestKey{Request: requestType})
	if !ok {
		return nil, fmt.Errorf("no handler registered for request type %s: %w", requestType, ErrHandlerNotFound)
	}
	key, ok := entry.(HandlerKey)
	if !ok {
		return nil, fmt.Errorf("index for %s resolved %T: %w", requestType, entry, ErrInvalidHandler)
	}

	handler, ok := m.resolver.Resolve(key)
	if !ok {
		return nil, fmt.Errorf("no handler registered for request type %s: %w", requestType, ErrHandlerNotFound)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return m.invoke(ctx, key, handler, request)
}

// resolveHandler computes the capability key for the request and fetches one
// handler instance from the container.
func (m *Mediator) resolveHandler(request Request, resType reflect.Type) (HandlerKey, any, error) {
	if isNilRequest(request) {
		return HandlerKey{}, nil, ErrNilRequest
	}

	key := HandlerKey{Request: reflect.TypeOf(request), Response: resType}
	handler, ok := m.resolver.Resolve(key)
	if !ok {
		return HandlerKey{}, nil, m.lookupFailure(key)
	}
	return key, handler, nil
}

// lookupFailure distinguishes "nothing handles this request type" from "the
// request type is registered with a different response type". The latter is
// a programming error at the call site and names the declared pair.
func (m *Mediator) lookupFailure(key HandlerKey) error {
	if entry, ok := m.resolver.Resolve(requestKey{Request: key.Request}); ok {
		if declared, ok := entry.(HandlerKey); ok && declared.Response != key.Response {
			return fmt.Errorf("request %s is registered with response %s, not %s: %w",
				key.Request, declared.Response, key.Response, ErrResponseTypeMismatch)
		}
	}
	return fmt.Errorf("no handler registered for request type %s: %w", key.Request, ErrHandlerNotFound)
}

// invoke runs the cached entry point for the capability key against one
// handler instance. No lock is held across the call, so handlers are free to
// dispatch nested requests through the same mediator.
func (m *Mediator) invoke(ctx context.Context, key HandlerKey, handler any, request Request) (Response, error) {
	inv, err := m.invokerFor(key, handler)
	if err != nil {
		return nil, err
	}
	return inv(ctx, handler, request)
}

// invokerFor returns the entry point for the capability key, building and
// caching it on first use. Concurrent builders for the same key are safe:
// the first stored value wins and every computed value is equivalent.
func (m *Mediator) invokerFor(key HandlerKey, handler any) (invoker, error) {
	if cached, ok := m.cache.Load(key); ok {
		return cached.(invoker), nil
	}

	inv, err := buildInvoker(key, reflect.TypeOf(handler))
	if err != nil {
		return nil, err
	}
	actual, _ := m.cache.LoadOrStore(key, inv)
	return actual.(invoker), nil
}

// buildInvoker locates the capability method on the handler's concrete type
// and binds its index into a type-erased entry point. All instances resolved
// for one key share a concrete type, so the index is stable per key.
func buildInvoker(key HandlerKey, handlerType reflect.Type) (invoker, error) {
	index, ok := capabilityMethod(handlerType, key)
	if !ok {
		return nil, fmt.Errorf("%s does not implement %s: %w", handlerType, key, ErrInvalidHandler)
	}

	return func(ctx context.Context, handler any, request Request) (Response, error) {
		out := reflect.ValueOf(handler).Method(index).Call([]reflect.Value{
			reflect.ValueOf(ctx),
			reflect.ValueOf(request),
		})
		if errValue := out[1].Interface(); errValue != nil {
			return nil, errValue.(error)
		}
		return out[0].Interface(), nil
	}, nil
}

// isNilRequest reports whether the request value is absent: a nil interface
// or a typed nil pointer both count.
func isNilRequest(request Request) bool {
	if request == nil {
		return true
	}
	v := reflect.ValueOf(request)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}
