package container_test

import (
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/mediator-go/pkg/container"
)

type service struct {
	name string
}

func TestContainer_RegisterAndResolve(t *testing.T) {
	// Arrange
	c := container.New()
	require.NoError(t, c.RegisterTransient("svc", func() any { return &service{name: "a"} }))

	// Act
	instance, ok := c.Resolve("svc")

	// Assert
	require.True(t, ok)
	assert.Equal(t, "a", instance.(*service).name)
}

func TestContainer_ResolveUnknownKey(t *testing.T) {
	// Arrange
	c := container.New()

	// Act
	instance, ok := c.Resolve("missing")

	// Assert
	assert.False(t, ok)
	assert.Nil(t, instance)
}

func TestContainer_DuplicateKey(t *testing.T) {
	// Arrange
	c := container.New()
	require.NoError(t, c.RegisterTransient("svc", func() any { return &service{} }))

	// Act
	err := c.RegisterTransient("svc", func() any { return &service{} })

	// Assert
	assert.ErrorIs(t, err, container.ErrAlreadyRegistered)
}

func TestContainer_NilKeyAndProvider(t *testing.T) {
	c := container.New()

	assert.Error(t, c.RegisterTransient(nil, func() any { return nil }))
	assert.Error(t, c.RegisterTransient("svc", nil))
}

func TestContainer_TransientYieldsFreshInstances(t *testing.T) {
	// Arrange
	c := container.New()
	require.NoError(t, c.RegisterTransient("svc", func() any { return &service{} }))

	// Act
	first, _ := c.Resolve("svc")
	second, _ := c.Resolve("svc")

	// Assert
	assert.NotSame(t, first, second)
}

func TestContainer_SingletonMemoizes(t *testing.T) {
	// Arrange
	c := container.New()
	var built atomic.Int32
	require.NoError(t, c.RegisterSingleton("svc", func() any {
		built.Add(1)
		return &service{}
	}))

	// Act
	first, _ := c.Resolve("svc")
	second, _ := c.Resolve("svc")

	// Assert
	assert.Same(t, first, second)
	assert.Equal(t, int32(1), built.Load())
}

func TestContainer_RegisterInstance(t *testing.T) {
	// Arrange
	c := container.New()
	original := &service{name: "shared"}
	require.NoError(t, c.RegisterInstance("svc", original))

	// Act
	resolved, ok := c.Resolve("svc")

	// Assert
	require.True(t, ok)
	assert.Same(t, original, resolved)
}

func TestContainer_MustResolvePanicsOnMissingKey(t *testing.T) {
	c := container.New()

	assert.Panics(t, func() { c.MustResolve("missing") })
}

func TestResolveAs_TypedResolution(t *testing.T) {
	// Arrange
	c := container.New()
	require.NoError(t, c.RegisterInstance("svc", &service{name: "typed"}))

	// Act
	svc, err := container.ResolveAs[*service](c, "svc")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "typed", svc.name)
}

func TestResolveAs_MissingKey(t *testing.T) {
	c := container.New()

	_, err := container.ResolveAs[*service](c, "missing")

	assert.ErrorIs(t, err, container.ErrNotRegistered)
}

func TestResolveAs_WrongType(t *testing.T) {
	// Arrange
	c := container.New()
	require.NoError(t, c.RegisterInstance("svc", "just a string"))

	// Act
	_, err := container.ResolveAs[*service](c, "svc")

	// Assert
	assert.ErrorIs(t, err, container.ErrWrongType)
}

func TestContainer_ConcurrentResolve(t *testing.T) {
	// Arrange
	c := container.New()
	var built atomic.Int32
	require.NoError(t, c.RegisterSingleton("singleton", func() any {
		built.Add(1)
		return &service{name: "one"}
	}))
	require.NoError(t, c.RegisterTransient("transient", func() any { return &service{} }))

	// Act - hammer both registrations from many goroutines
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s, ok := c.Resolve("singleton")
			assert.True(t, ok)
			assert.Equal(t, "one", s.(*service).name)

			_, ok = c.Resolve("transient")
			assert.True(t, ok)
		}()
	}
	wg.Wait()

	// Assert - the singleton provider ran exactly once
	assert.Equal(t, int32(1), built.Load())
}

func TestContainer_Len(t *testing.T) {
	c := container.New()
	assert.Equal(t, 0, c.Len())

	require.NoError(t, c.RegisterInstance("a", 1))
	require.NoError(t, c.RegisterInstance("b", 2))

	assert.Equal(t, 2, c.Len())
}
