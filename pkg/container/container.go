// Package container provides a small keyed service registry with transient
// and singleton lifetimes. It is the composition root the mediator resolves
// handlers from, but it holds any service under any comparable key.
package container

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
)

// Lifetime controls how often a registration's provider runs.
type Lifetime int

const (
	// Transient runs the provider on every Resolve, yielding a new instance
	// each time.
	Transient Lifetime = iota
	// Singleton runs the provider at most once and memoizes the instance.
	Singleton
)

// Provider constructs one service instance.
type Provider func() any

var (
	// ErrAlreadyRegistered reports a second registration under one key.
	ErrAlreadyRegistered = errors.New("container: key already registered")

	// ErrNotRegistered reports resolution of an unknown key.
	ErrNotRegistered = errors.New("container: key not registered")

	// ErrWrongType reports a resolved instance that does not have the type
	// the caller asked for.
	ErrWrongType = errors.New("container: resolved instance has wrong type")
)

// Resolver is the read side of a Container.
type Resolver interface {
	Resolve(key any) (any, bool)
}

// Container is a service registry safe for concurrent use. Resolution takes
// a read lock only, so concurrent resolves never serialize each other.
// Keys must be comparable.
type Container struct {
	mu       sync.RWMutex
	services map[any]*registration
}

type registration struct {
	lifetime Lifetime
	provider Provider
	once     sync.Once
	instance any
}

// New creates an empty container.
func New() *Container {
	return &Container{services: make(map[any]*registration)}
}

// Register records a provider under key with the given lifetime. Registering
// a key twice is an error, never a silent override.
func (c *Container) Register(key any, lifetime Lifetime, provider Provider) error {
	if key == nil {
		return fmt.Errorf("container: key cannot be nil")
	}
	if provider == nil {
		return fmt.Errorf("container: provider cannot be nil")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, exists := c.services[key]; exists {
		return fmt.Errorf("%v: %w", key, ErrAlreadyRegistered)
	}
	c.services[key] = &registration{lifetime: lifetime, provider: provider}
	return nil
}

// RegisterTransient records a provider resolved fresh on every use.
func (c *Container) RegisterTransient(key any, provider func() any) error {
	return c.Register(key, Transient, provider)
}

// RegisterSingleton records a provider resolved at most once.
func (c *Container) RegisterSingleton(key any, provider func() any) error {
	return c.Register(key, Singleton, provider)
}

// RegisterInstance records an existing instance under key.
func (c *Container) RegisterInstance(key any, instance any) error {
	return c.Register(key, Singleton, func() any { return instance })
}

// Resolve returns an instance for key, reporting false when the key is not
// registered. Transient registrations run their provider per call.
func (c *Container) Resolve(key any) (any, bool) {
	c.mu.RLock()
	reg, ok := c.services[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return reg.resolve(), true
}

// MustResolve returns the instance for key or panics. Composition wiring
// uses it where a missing registration is a programming error that should
// fail at startup.
func (c *Container) MustResolve(key any) any {
	instance, ok := c.Resolve(key)
	if !ok {
		panic(fmt.Sprintf("container: %v is not registered", key))
	}
	return instance
}

// Len returns the number of registrations.
func (c *Container) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.services)
}

func (r *registration) resolve() any {
	if r.lifetime == Singleton {
		r.once.Do(func() {
			r.instance = r.provider()
		})
		return r.instance
	}
	return r.provider()
}

// ResolveAs resolves key from r and returns the instance as T, reporting a
// typed failure when the key is missing or holds something else.
func ResolveAs[T any](r Resolver, key any) (T, error) {
	var zero T
	instance, ok := r.Resolve(key)
	if !ok {
		return zero, fmt.Errorf("%v: %w", key, ErrNotRegistered)
	}
	typed, ok := instance.(T)
	if !ok {
		return zero, fmt.Errorf("%v resolved %T, want %s: %w",
			key, instance, reflect.TypeFor[T](), ErrWrongType)
	}
	return typed, nil
}
