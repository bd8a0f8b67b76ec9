package ecs

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDispatcherEmitFansOutToAllSubscribers(t *testing.T) {
	d := NewDispatcher(zerolog.Nop())

	var calls []string
	d.Subscribe("topic", func(payload ...any) { calls = append(calls, "a") })
	d.Subscribe("topic", func(payload ...any) { calls = append(calls, "b") })

	d.Emit("topic")
	assert.ElementsMatch(t, []string{"a", "b"}, calls)
}

func TestDispatcherDuplicateSubscriptionIgnored(t *testing.T) {
	d := NewDispatcher(zerolog.Nop())

	calls := 0
	handler := func(payload ...any) { calls++ }

	d.Subscribe("topic", handler)
	d.Subscribe("topic", handler)
	d.Emit("topic")

	assert.Equal(t, 1, calls)
}

func TestDispatcherUnsubscribe(t *testing.T) {
	d := NewDispatcher(zerolog.Nop())

	calls := 0
	handler := func(payload ...any) { calls++ }

	d.Subscribe("topic", handler)
	require.True(t, d.Has("topic", handler))

	d.Unsubscribe("topic", handler)
	assert.False(t, d.Has("topic", handler))

	d.Emit("topic")
	assert.Equal(t, 0, calls)
}

func TestDispatcherHandlerPanicIsContainedAndLogged(t *testing.T) {
	d := NewDispatcher(zerolog.Nop())

	secondRan := false
	d.Subscribe("topic", func(payload ...any) { panic("boom") })
	d.Subscribe("topic", func(payload ...any) { secondRan = true })

	assert.NotPanics(t, func() { d.Emit("topic") })
	assert.True(t, secondRan, "a panicking handler must not block later handlers")

	fired, handled := d.Counts()
	assert.Equal(t, int64(1), fired)
	assert.Equal(t, int64(2), handled, "handled increments even for the panicking call")
}

func TestDispatcherSubscribeDuringEmitDoesNotCorruptIteration(t *testing.T) {
	d := NewDispatcher(zerolog.Nop())

	firstRuns, lateRuns := 0, 0
	late := func(payload ...any) { lateRuns++ }
	d.Subscribe("topic", func(payload ...any) {
		firstRuns++
		d.Subscribe("topic", late)
	})

	d.Emit("topic")
	assert.Equal(t, 1, firstRuns)
	assert.Equal(t, 0, lateRuns, "a handler subscribed mid-dispatch must not run in the same Emit")

	d.Emit("topic")
	assert.Equal(t, 2, firstRuns)
	assert.Equal(t, 1, lateRuns)
}
