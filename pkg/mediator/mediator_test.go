package mediator_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/mediator-go/pkg/container"
	"github.com/andrescamacho/mediator-go/pkg/mediator"
)

// Test fixtures

type echoQuery struct {
	Message string
}

type echoResult struct {
	Echoed string
}

type echoHandler struct{}

func (echoHandler) Handle(ctx context.Context, q echoQuery) (echoResult, error) {
	return echoResult{Echoed: "ECHO: " + q.Message}, nil
}

type wrapCommand struct {
	Value string
}

// wrapHandler dispatches a nested request through the same mediator.
type wrapHandler struct {
	m *mediator.Mediator
}

func (h *wrapHandler) Handle(ctx context.Context, cmd wrapCommand) (string, error) {
	inner, err := mediator.Send[echoResult](ctx, h.m, echoQuery{Message: cmd.Value})
	if err != nil {
		return "", err
	}
	return "NESTED: " + strings.TrimPrefix(inner.Echoed, "ECHO: "), nil
}

type failCommand struct{}

var errHandlerFailed = errors.New("handler failed on purpose")

type failingHandler struct{}

func (failingHandler) Handle(ctx context.Context, cmd failCommand) (mediator.Unit, error) {
	return mediator.Unit{}, errHandlerFailed
}

type declinedError struct {
	Code string
}

func (e *declinedError) Error() string {
	return "declined: " + e.Code
}

type declineCommand struct{}

type decliningHandler struct{}

func (decliningHandler) Handle(ctx context.Context, cmd declineCommand) (mediator.Unit, error) {
	return mediator.Unit{}, &declinedError{Code: "C-042"}
}

type blockCommand struct{}

// blockingHandler waits for cancellation and reports it cooperatively.
type blockingHandler struct{}

func (blockingHandler) Handle(ctx context.Context, cmd blockCommand) (mediator.Unit, error) {
	<-ctx.Done()
	return mediator.Unit{}, ctx.Err()
}

type trackedCommand struct{}

// trackingHandler records whether it ran at all.
type trackingHandler struct {
	ran *bool
}

func (h *trackingHandler) Handle(ctx context.Context, cmd trackedCommand) (mediator.Unit, error) {
	*h.ran = true
	return mediator.Unit{}, nil
}

// newDispatcher wires a container with the given candidates and resolves a
// dispatcher from it.
func newDispatcher(t *testing.T, candidates ...any) (*container.Container, *mediator.Mediator) {
	t.Helper()

	c := container.New()
	require.NoError(t, mediator.AddMediatorFromCandidates(c, candidates...))

	m, err := mediator.FromContainer(c)
	require.NoError(t, err)
	return c, m
}

func TestSend_ReturnsHandlerResult(t *testing.T) {
	// Arrange
	_, m := newDispatcher(t, echoHandler{})

	// Act
	res, err := mediator.Send[echoResult](context.Background(), m, echoQuery{Message: "hello"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "ECHO: hello", res.Echoed)
}

func TestSend_NoHandlerRegistered(t *testing.T) {
	// Arrange
	_, m := newDispatcher(t, echoHandler{})

	// Act
	_, err := mediator.Send[string](context.Background(), m, wrapCommand{Value: "x"})

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, mediator.ErrHandlerNotFound)
	assert.Contains(t, err.Error(), "wrapCommand")
}

func TestSend_NilRequest(t *testing.T) {
	// Arrange
	_, m := newDispatcher(t, echoHandler{})

	// Act
	var cmd *wrapCommand
	_, err := mediator.Send[string](context.Background(), m, cmd)

	// Assert
	assert.ErrorIs(t, err, mediator.ErrNilRequest)
}

func TestSend_UntypedNilRequest(t *testing.T) {
	// Arrange
	_, m := newDispatcher(t, echoHandler{})

	// Act
	_, err := m.Send(context.Background(), nil)

	// Assert
	assert.ErrorIs(t, err, mediator.ErrNilRequest)
}

func TestSend_ResponseTypeMismatch(t *testing.T) {
	// Arrange
	_, m := newDispatcher(t, echoHandler{})

	// Act - echoQuery is registered with echoResult, not string
	_, err := mediator.Send[string](context.Background(), m, echoQuery{Message: "hello"})

	// Assert
	require.Error(t, err)
	assert.ErrorIs(t, err, mediator.ErrResponseTypeMismatch)
	assert.Contains(t, err.Error(), "echoResult")
}

func TestSend_HandlerErrorPropagatesVerbatim(t *testing.T) {
	// Arrange
	_, m := newDispatcher(t, failingHandler{})

	// Act
	_, err := mediator.Send[mediator.Unit](context.Background(), m, failCommand{})

	// Assert - the exact error value, not a wrapped copy
	require.Error(t, err)
	assert.Equal(t, errHandlerFailed, err)
	assert.ErrorIs(t, err, errHandlerFailed)
}

func TestSend_HandlerErrorKeepsConcreteType(t *testing.T) {
	// Arrange
	_, m := newDispatcher(t, decliningHandler{})

	// Act
	_, err := mediator.Send[mediator.Unit](context.Background(), m, declineCommand{})

	// Assert - a plain type assertion works because nothing wrapped the error
	require.Error(t, err)
	declined, ok := err.(*declinedError)
	require.True(t, ok)
	assert.Equal(t, "C-042", declined.Code)
}

func TestSend_AlreadyCancelledContext(t *testing.T) {
	// Arrange
	ran := false
	_, m := newDispatcher(t, &trackingHandler{ran: &ran})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Act
	_, err := mediator.Send[mediator.Unit](ctx, m, trackedCommand{})

	// Assert - cancellation outcome, handler never ran
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, ran)
}

func TestSend_CancellationDuringHandler(t *testing.T) {
	// Arrange
	_, m := newDispatcher(t, blockingHandler{})

	ctx, cancel := context.WithCancel(context.Background())
	timer := time.AfterFunc(10*time.Millisecond, cancel)
	defer timer.Stop()

	// Act
	_, err := mediator.Send[mediator.Unit](ctx, m, blockCommand{})

	// Assert - the cancellation is distinguishable, not a generic failure
	assert.ErrorIs(t, err, context.Canceled)
	assert.NotErrorIs(t, err, mediator.ErrHandlerNotFound)
}

func TestSend_NestedDispatch(t *testing.T) {
	// Arrange
	c := container.New()
	require.NoError(t, mediator.RegisterMediatorCore(c))

	m, err := mediator.FromContainer(c)
	require.NoError(t, err)
	require.NoError(t, mediator.RegisterHandlers(c,
		mediator.NewModule("nested", echoHandler{}, &wrapHandler{m: m}),
	))

	// Act
	res, err := mediator.Send[string](context.Background(), m, wrapCommand{Value: "x"})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "NESTED: x", res)
}

func TestSend_CacheReuseKeepsResultsPerInstance(t *testing.T) {
	// Arrange
	_, m := newDispatcher(t, echoHandler{})

	// Act
	first, err := mediator.Send[echoResult](context.Background(), m, echoQuery{Message: "a"})
	require.NoError(t, err)
	second, err := mediator.Send[echoResult](context.Background(), m, echoQuery{Message: "b"})
	require.NoError(t, err)

	// Assert - repeated dispatch of one request type stays per-instance
	assert.Equal(t, "ECHO: a", first.Echoed)
	assert.Equal(t, "ECHO: b", second.Echoed)
}

func TestSend_UntypedDispatch(t *testing.T) {
	// Arrange
	_, m := newDispatcher(t, echoHandler{})

	// Act
	res, err := m.Send(context.Background(), echoQuery{Message: "hi"})

	// Assert
	require.NoError(t, err)
	typed, ok := res.(echoResult)
	require.True(t, ok)
	assert.Equal(t, "ECHO: hi", typed.Echoed)
}

func TestSend_UntypedDispatchUnknownRequest(t *testing.T) {
	// Arrange
	_, m := newDispatcher(t, echoHandler{})

	// Act
	_, err := m.Send(context.Background(), wrapCommand{Value: "x"})

	// Assert
	assert.ErrorIs(t, err, mediator.ErrHandlerNotFound)
	assert.Contains(t, err.Error(), "wrapCommand")
}

func TestSend_HandlerFuncCandidate(t *testing.T) {
	// Arrange
	double := mediator.RequestHandlerFunc[int, int](func(ctx context.Context, n int) (int, error) {
		return n * 2, nil
	})
	_, m := newDispatcher(t, double)

	// Act
	res, err := mediator.Send[int](context.Background(), m, 21)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 42, res)
}

func TestSend_InvalidHandlerRegistration(t *testing.T) {
	// Arrange - a raw container registration whose instance lacks the capability
	c := container.New()
	require.NoError(t, c.RegisterTransient(mediator.KeyFor[echoQuery, echoResult](), func() any {
		return struct{}{}
	}))
	m := mediator.New(c)

	// Act
	_, err := mediator.Send[echoResult](context.Background(), m, echoQuery{Message: "x"})

	// Assert
	assert.ErrorIs(t, err, mediator.ErrInvalidHandler)
}

func TestSend_ConcurrentDispatch(t *testing.T) {
	// Arrange
	_, m := newDispatcher(t, echoHandler{})

	const calls = 100
	results := make([]string, calls)
	errs := make([]error, calls)

	// Act
	var wg sync.WaitGroup
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			res, err := mediator.Send[echoResult](context.Background(), m, echoQuery{
				Message: fmt.Sprintf("msg-%d", i),
			})
			results[i] = res.Echoed
			errs[i] = err
		}(i)
	}
	wg.Wait()

	// Assert - every call got the response for its own input
	for i := 0; i < calls; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, fmt.Sprintf("ECHO: msg-%d", i), results[i])
	}
}

func TestFromContainer_NotRegistered(t *testing.T) {
	// Arrange
	c := container.New()

	// Act
	_, err := mediator.FromContainer(c)

	// Assert
	assert.ErrorIs(t, err, mediator.ErrNotRegistered)
}

func TestFromContainer_TransientDispatchers(t *testing.T) {
	// Arrange
	c, _ := newDispatcher(t, echoHandler{})

	// Act
	first, err := mediator.FromContainer(c)
	require.NoError(t, err)
	second, err := mediator.FromContainer(c)
	require.NoError(t, err)

	// Assert - new dispatcher per resolution, both fully functional
	assert.NotSame(t, first, second)

	res, err := mediator.Send[echoResult](context.Background(), second, echoQuery{Message: "again"})
	require.NoError(t, err)
	assert.Equal(t, "ECHO: again", res.Echoed)
}
