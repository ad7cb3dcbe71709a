package mediator

import "errors"

// Failure kinds surfaced by dispatch and registration. Callers distinguish
// them with errors.Is; messages carry the concrete type names involved.
// Errors raised by handler code itself are never wrapped in any of these and
// reach the caller exactly as the handler returned them.
var (
	// ErrNilRequest reports a nil request value passed to Send.
	ErrNilRequest = errors.New("mediator: request cannot be nil")

	// ErrHandlerNotFound reports that no handler is registered for the
	// request type being dispatched.
	ErrHandlerNotFound = errors.New("mediator: no handler registered")

	// ErrResponseTypeMismatch reports a dispatch whose expected response type
	// differs from the one the request type was registered with.
	ErrResponseTypeMismatch = errors.New("mediator: response type mismatch")

	// ErrInvalidHandler reports a resolved instance that cannot serve the
	// capability it was registered under.
	ErrInvalidHandler = errors.New("mediator: invalid handler registration")

	// ErrNoCandidates reports a registration call with nothing to scan.
	ErrNoCandidates = errors.New("mediator: no handler candidates to scan")

	// ErrDuplicateHandler reports a second registration for a request type
	// that already has a handler.
	ErrDuplicateHandler = errors.New("mediator: handler already registered")

	// ErrNotRegistered reports a container that has no dispatcher
	// registration; RegisterMediatorCore adds one.
	ErrNotRegistered = errors.New("mediator: dispatcher not registered in container")
)
