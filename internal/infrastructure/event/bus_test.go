package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trycco/storefront/internal/domain/shared"
	"go.uber.org/zap"
)

type testEvent struct {
	shared.BaseDomainEvent
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Article", uuid.New())}
}

type testHandler struct {
	eventTypes []string
	err        error
	panicWith  any
	entered    chan struct{}
	block      chan struct{}

	mu      sync.Mutex
	handled []shared.DomainEvent
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{eventTypes: eventTypes}
}

func (h *testHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	if h.entered != nil {
		close(h.entered)
	}
	if h.block != nil {
		<-h.block
	}
	if h.panicWith != nil {
		panic(h.panicWith)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	return h.err
}

func (h *testHandler) EventTypes() []string { return h.eventTypes }

func (h *testHandler) count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.handled)
}

func TestInMemoryEventBus_PublishRoutesByType(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	placed := newTestHandler("OrderPlaced")
	updated := newTestHandler("ArticleUpdated")
	all := newTestHandler()
	bus.Subscribe(placed)
	bus.Subscribe(updated)
	bus.Subscribe(all)

	require.NoError(t, bus.Publish(context.Background(),
		newTestEvent("OrderPlaced"),
		newTestEvent("OrderPlaced"),
		newTestEvent("Unrelated"),
	))

	assert.Equal(t, 2, placed.count())
	assert.Equal(t, 0, updated.count())
	assert.Equal(t, 3, all.count())
}

func TestInMemoryEventBus_HandlerFailuresAreIsolated(t *testing.T) {
	var observed []error
	bus := NewInMemoryEventBus(zap.NewNop(), WithDispatchObserver(
		func(_ context.Context, eventType string, _ time.Duration, err error) {
			assert.Equal(t, "OrderPlaced", eventType)
			observed = append(observed, err)
		}))

	failing := newTestHandler("OrderPlaced")
	failing.err = errors.New("smtp down")
	panicking := newTestHandler("OrderPlaced")
	panicking.panicWith = "boom"
	healthy := newTestHandler("OrderPlaced")
	bus.Subscribe(failing)
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	err := bus.Publish(context.Background(), newTestEvent("OrderPlaced"))

	require.NoError(t, err)
	assert.Equal(t, 1, healthy.count())
	require.Len(t, observed, 3)
	assert.EqualError(t, observed[0], "smtp down")
	assert.ErrorContains(t, observed[1], "panicked")
	assert.NoError(t, observed[2])
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := newTestHandler("A")
	bus.Subscribe(h)
	bus.Unsubscribe(h)

	require.NoError(t, bus.Publish(context.Background(), newTestEvent("A")))
	assert.Equal(t, 0, h.count())
}

func TestInMemoryEventBus_StopDropsLaterEvents(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := newTestHandler("A")
	bus.Subscribe(h)
	ctx := context.Background()

	require.NoError(t, bus.Start(ctx))
	require.NoError(t, bus.Publish(ctx, newTestEvent("A")))
	require.NoError(t, bus.Stop(ctx))
	require.NoError(t, bus.Publish(ctx, newTestEvent("A")))

	assert.Equal(t, 1, h.count())
}

func TestInMemoryEventBus_StopWaitsForInflight(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())
	h := newTestHandler("A")
	h.entered = make(chan struct{})
	h.block = make(chan struct{})
	bus.Subscribe(h)

	published := make(chan struct{})
	go func() {
		_ = bus.Publish(context.Background(), newTestEvent("A"))
		close(published)
	}()
	<-h.entered

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, bus.Stop(ctx), context.DeadlineExceeded)

	close(h.block)
	<-published
	require.NoError(t, bus.Stop(context.Background()))
	assert.Equal(t, 1, h.count())
}
