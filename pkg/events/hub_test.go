package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHubPublishSubscribe(t *testing.T) {
	h := NewEventHub()
	a := h.Subscribe()
	b := h.Subscribe()
	assert.Equal(t, 2, h.Subscribers())

	h.Publish(CalibrationInvalidated, CalibrationInvalidatedEvent{Reason: "reset", Ts: 42})

	for _, ch := range []chan Event{a, b} {
		ev := <-ch
		assert.Equal(t, CalibrationInvalidated, ev.Name)
		payload, err := DecodeAs[CalibrationInvalidatedEvent](ev)
		require.NoError(t, err)
		assert.Equal(t, CalibrationInvalidatedEvent{Reason: "reset", Ts: 42}, payload)
	}

	h.Unsubscribe(a)
	_, ok := <-a
	assert.False(t, ok, "unsubscribed channel should be closed")
	assert.Equal(t, 1, h.Subscribers())

	// Unsubscribing twice is a no-op.
	h.Unsubscribe(a)
	h.Unsubscribe(b)
	assert.Equal(t, 0, h.Subscribers())
}

func TestHubDropsWhenFull(t *testing.T) {
	h := NewEventHub()
	ch := h.Subscribe()
	defer h.Unsubscribe(ch)

	for i := 0; i < cap(ch)+5; i++ {
		h.Publish(ObservationsChanged, ObservationsChangedEvent{Count: i})
	}
	assert.Len(t, ch, cap(ch))

	first, err := DecodeAs[ObservationsChangedEvent](<-ch)
	require.NoError(t, err)
	assert.Equal(t, 0, first.Count)
}

func TestNilHubPublish(t *testing.T) {
	var h *EventHub
	assert.NotPanics(t, func() { h.Publish(CalibrationUpdated, CalibrationUpdatedEvent{}) })
}

func TestDecodeAs(t *testing.T) {
	v, err := DecodeAs[CalibrationUpdatedEvent](Event{Name: CalibrationUpdated})
	require.NoError(t, err)
	assert.Equal(t, CalibrationUpdatedEvent{}, v)

	_, err = DecodeAs[CalibrationUpdatedEvent](Event{Data: []byte("{")})
	assert.Error(t, err)
}
