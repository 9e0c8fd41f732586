package event

import (
	"context"
	"errors"
	"testing"

	"github.com/comercium/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubEvent struct {
	shared.BaseDomainEvent
}

func publishedEvent(eventType string) *stubEvent {
	return &stubEvent{BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Order", uuid.New())}
}

type recordingHandler struct {
	types []string
	seen  []shared.DomainEvent
	err   error
	boom  bool
}

func (h *recordingHandler) Handle(ctx context.Context, evt shared.DomainEvent) error {
	if h.boom {
		panic("handler exploded")
	}
	h.seen = append(h.seen, evt)
	return h.err
}

func (h *recordingHandler) EventTypes() []string { return h.types }

func TestBusDeliversToSubscribedTypes(t *testing.T) {
	bus := NewBus(zap.NewNop())
	paid := &recordingHandler{types: []string{"order.paid"}}
	created := &recordingHandler{types: []string{"product.created"}}
	bus.Subscribe(paid)
	bus.Subscribe(created)

	evt := publishedEvent("order.paid")
	require.NoError(t, bus.Publish(context.Background(), evt))

	require.Len(t, paid.seen, 1)
	assert.Equal(t, evt, paid.seen[0])
	assert.Empty(t, created.seen)
}

func TestBusDeliversBatchInOrder(t *testing.T) {
	bus := NewBus(zap.NewNop())
	h := &recordingHandler{types: []string{"order.paid"}}
	bus.Subscribe(h)

	first := publishedEvent("order.paid")
	second := publishedEvent("order.paid")
	require.NoError(t, bus.Publish(context.Background(), first, second))

	require.Len(t, h.seen, 2)
	assert.Equal(t, first, h.seen[0])
	assert.Equal(t, second, h.seen[1])
}

func TestBusCatchAllReceivesEverything(t *testing.T) {
	bus := NewBus(zap.NewNop())
	all := &recordingHandler{}
	bus.Subscribe(all)

	require.NoError(t, bus.Publish(context.Background(), publishedEvent("order.paid")))
	require.NoError(t, bus.Publish(context.Background(), publishedEvent("product.created")))

	assert.Len(t, all.seen, 2)
}

func TestBusHandlerErrorDoesNotStopOthers(t *testing.T) {
	bus := NewBus(zap.NewNop())
	failing := &recordingHandler{types: []string{"order.paid"}, err: errors.New("smtp down")}
	healthy := &recordingHandler{types: []string{"order.paid"}}
	bus.Subscribe(failing)
	bus.Subscribe(healthy)

	require.NoError(t, bus.Publish(context.Background(), publishedEvent("order.paid")))

	assert.Len(t, failing.seen, 1)
	assert.Len(t, healthy.seen, 1)
}

func TestBusHandlerPanicIsContained(t *testing.T) {
	bus := NewBus(zap.NewNop())
	panicking := &recordingHandler{types: []string{"order.paid"}, boom: true}
	healthy := &recordingHandler{types: []string{"order.paid"}}
	bus.Subscribe(panicking)
	bus.Subscribe(healthy)

	require.NotPanics(t, func() {
		_ = bus.Publish(context.Background(), publishedEvent("order.paid"))
	})
	assert.Len(t, healthy.seen, 1)
}

func TestBusUnsubscribeStopsDelivery(t *testing.T) {
	bus := NewBus(zap.NewNop())
	h := &recordingHandler{types: []string{"order.paid"}}
	bus.Subscribe(h)

	_ = bus.Publish(context.Background(), publishedEvent("order.paid"))
	bus.Unsubscribe(h)
	_ = bus.Publish(context.Background(), publishedEvent("order.paid"))

	assert.Len(t, h.seen, 1)
}

func TestBusUnsubscribeCatchAll(t *testing.T) {
	bus := NewBus(zap.NewNop())
	all := &recordingHandler{}
	bus.Subscribe(all)
	bus.Unsubscribe(all)

	_ = bus.Publish(context.Background(), publishedEvent("order.paid"))
	assert.Empty(t, all.seen)
}
