package mediator

import (
	"context"
	"fmt"
	"reflect"
	"sync"
)

// Module is a named, ordered collection of candidate handler implementations
// to scan for capabilities.
type Module struct {
	Name       string
	Candidates []any
}

// NewModule groups candidates under a module name for registration.
func NewModule(name string, candidates ...any) Module {
	return Module{Name: name, Candidates: candidates}
}

// RegisterHandlers scans every candidate in the given modules and registers
// each discovered capability into the container with transient lifetime.
//
// A candidate may be a prototype instance (every resolution yields a fresh
// copy), a zero-argument constructor (called per resolution), or a
// reflect.Type (instantiated per resolution). Interface types are abstract
// and skipped, as are candidates exposing no capability method. A capability
// method is any exported method with the shape
//
//	func (h H) Name(ctx context.Context, request R) (T, error)
//
// and one candidate may carry several, each registered under its own
// (request, response) pair.
func RegisterHandlers(reg Registrar, modules ...Module) error {
	if err := validateModules(modules); err != nil {
		return err
	}
	for _, module := range modules {
		for _, candidate := range module.Candidates {
			if err := registerCandidate(reg, module.Name, candidate); err != nil {
				return err
			}
		}
	}
	return nil
}

// RegisterMediatorCore registers the dispatcher itself with transient
// lifetime: every resolution yields a fresh Mediator wired back to the
// container it was registered in. All of them share one invoker cache.
func RegisterMediatorCore(reg Registrar) error {
	cache := &sync.Map{}
	return reg.RegisterTransient(mediatorKey, func() any {
		return &Mediator{resolver: reg, cache: cache}
	})
}

// AddMediator registers the dispatcher plus every handler discoverable in
// the given modules. Registering nothing is always a caller mistake, so an
// empty module list fails before any scanning occurs.
func AddMediator(reg Registrar, modules ...Module) error {
	if err := validateModules(modules); err != nil {
		return err
	}
	if err := RegisterMediatorCore(reg); err != nil {
		return err
	}
	return RegisterHandlers(reg, modules...)
}

// AddMediatorFromCandidates is the single-module convenience form of
// AddMediator.
func AddMediatorFromCandidates(reg Registrar, candidates ...any) error {
	return AddMediator(reg, NewModule("default", candidates...))
}

func validateModules(modules []Module) error {
	if len(modules) == 0 {
		return fmt.Errorf("no modules given: %w", ErrNoCandidates)
	}
	total := 0
	for _, module := range modules {
		total += len(module.Candidates)
	}
	if total == 0 {
		return fmt.Errorf("modules contain no candidates: %w", ErrNoCandidates)
	}
	return nil
}

func registerCandidate(reg Registrar, moduleName string, candidate any) error {
	target, provider, ok := candidateTarget(candidate)
	if !ok {
		return nil
	}

	for i := 0; i < target.NumMethod(); i++ {
		key, ok := methodCapability(target.Method(i).Type)
		if !ok {
			continue
		}
		if err := registerCapability(reg, key, provider); err != nil {
			return fmt.Errorf("module %s: %w", moduleName, err)
		}
	}
	return nil
}

// registerCapability writes one capability registration plus the request-type
// index entry consulted for mismatch diagnostics and untyped sends. Each
// request type gets exactly one handler; a second registration is an error
// rather than a silent override.
func registerCapability(reg Registrar, key HandlerKey, provider func() any) error {
	index := requestKey{Request: key.Request}
	if existing, ok := reg.Resolve(index); ok {
		declared, _ := existing.(HandlerKey)
		return fmt.Errorf("request type %s is already handled by %s: %w",
			key.Request, declared, ErrDuplicateHandler)
	}
	if err := reg.RegisterTransient(key, provider); err != nil {
		return fmt.Errorf("register %s: %w", key, err)
	}
	if err := reg.RegisterTransient(index, func() any { return key }); err != nil {
		return fmt.Errorf("register index for %s: %w", key.Request, err)
	}
	return nil
}

// candidateTarget normalizes a candidate into the concrete type to scan and
// the transient provider for its instances. Nil candidates, abstract types,
// and shapes that cannot yield a concrete instance report ok=false.
func candidateTarget(candidate any) (reflect.Type, func() any, bool) {
	switch c := candidate.(type) {
	case nil:
		return nil, nil, false
	case reflect.Type:
		return typeTarget(c)
	default:
		v := reflect.ValueOf(candidate)
		if v.Kind() == reflect.Func && v.Type().NumMethod() == 0 {
			return constructorTarget(v)
		}
		return prototypeTarget(v)
	}
}

// typeTarget instantiates reflect.Type candidates per resolution. Struct
// types are addressed through a pointer so pointer-receiver methods count.
func typeTarget(t reflect.Type) (reflect.Type, func() any, bool) {
	if t.Kind() == reflect.Interface {
		return nil, nil, false
	}
	target := t
	if target.Kind() != reflect.Pointer {
		target = reflect.PointerTo(t)
	}
	elem := target.Elem()
	if elem.Kind() == reflect.Interface {
		return nil, nil, false
	}
	return target, func() any { return reflect.New(elem).Interface() }, true
}

// constructorTarget accepts zero-argument constructors returning a concrete
// type. Constructors returning an interface hide the concrete type until
// called, so they are treated as abstract and skipped.
func constructorTarget(v reflect.Value) (reflect.Type, func() any, bool) {
	t := v.Type()
	if t.IsVariadic() || t.NumIn() != 0 || t.NumOut() != 1 {
		return nil, nil, false
	}
	out := t.Out(0)
	if out.Kind() == reflect.Interface {
		return nil, nil, false
	}
	return out, func() any { return v.Call(nil)[0].Interface() }, true
}

// prototypeTarget registers the candidate instance's own type. Pointer
// prototypes are copied per resolution so transient instances never share
// mutable state; value prototypes are already copied on every method call.
func prototypeTarget(v reflect.Value) (reflect.Type, func() any, bool) {
	if !v.IsValid() {
		return nil, nil, false
	}
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, nil, false
		}
		elem := v.Elem()
		return v.Type(), func() any {
			fresh := reflect.New(elem.Type())
			fresh.Elem().Set(elem)
			return fresh.Interface()
		}, true
	}
	prototype := v.Interface()
	return v.Type(), func() any { return prototype }, true
}

var (
	contextType = reflect.TypeFor[context.Context]()
	errorType   = reflect.TypeFor[error]()
)

// capabilityMethod finds the exported method on t serving the given key and
// returns its method index.
func capabilityMethod(t reflect.Type, key HandlerKey) (int, bool) {
	for i := 0; i < t.NumMethod(); i++ {
		if k, ok := methodCapability(t.Method(i).Type); ok && k == key {
			return i, true
		}
	}
	return 0, false
}

// methodCapability reports the (request, response) pair handled by a method
// with signature func(receiver, context.Context, R) (T, error).
func methodCapability(mt reflect.Type) (HandlerKey, bool) {
	if mt.IsVariadic() || mt.NumIn() != 3 || mt.NumOut() != 2 {
		return HandlerKey{}, false
	}
	if mt.In(1) != contextType || mt.Out(1) != errorType {
		return HandlerKey{}, false
	}
	return HandlerKey{Request: mt.In(2), Response: mt.Out(0)}, true
}
