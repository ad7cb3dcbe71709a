package mediator

import (
	"context"
	"fmt"
	"reflect"
)

// Request represents a command or query dispatched through the mediator.
type Request interface{}

// Response represents the result of handling a request.
type Response interface{}

// RequestHandler handles requests of type TReq and produces responses of
// type TRes. Concrete handlers implement it directly; types that serve
// several request types instead expose one exported method per pair with
// the same shape, and the registry discovers each of them.
type RequestHandler[TReq Request, TRes Response] interface {
	Handle(ctx context.Context, request TReq) (TRes, error)
}

// RequestHandlerFunc adapts a function to the RequestHandler interface.
type RequestHandlerFunc[TReq Request, TRes Response] func(ctx context.Context, request TReq) (TRes, error)

// Handle calls f(ctx, request).
func (f RequestHandlerFunc[TReq, TRes]) Handle(ctx context.Context, request TReq) (TRes, error) {
	return f(ctx, request)
}

// HandlerKey identifies the handler capability for one (request, response)
// type pair. Registrations and the resolution cache are keyed by it.
type HandlerKey struct {
	Request  reflect.Type
	Response reflect.Type
}

// KeyFor computes the capability key for a (request, response) pair.
func KeyFor[TReq Request, TRes Response]() HandlerKey {
	return HandlerKey{
		Request:  reflect.TypeFor[TReq](),
		Response: reflect.TypeFor[TRes](),
	}
}

func (k HandlerKey) String() string {
	return fmt.Sprintf("RequestHandler[%s, %s]", k.Request, k.Response)
}

// requestKey indexes the capability pair registered for a request type.
// Registration writes one entry per request type; dispatch reads it for
// mismatch diagnostics and untyped sends.
type requestKey struct {
	Request reflect.Type
}

// Resolver is the view of the service container the dispatcher needs at call
// time. Implementations must be safe for concurrent calls.
type Resolver interface {
	Resolve(key any) (any, bool)
}

// Registrar is the view of the service container used at composition time.
// Handler registrations are always transient: the container constructs a new
// handler instance for every resolution.
type Registrar interface {
	Resolver
	RegisterTransient(key any, provider func() any) error
}
