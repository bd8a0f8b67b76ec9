package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingletonComponentRoundTrip(t *testing.T) {
	w := NewWorld()
	type clock struct{ Elapsed float64 }

	ct := RegisterSingletonComponent(w, "Clock", clock{Elapsed: 0})
	c, ok := Singleton(w, ct)
	require.True(t, ok)
	c.Elapsed = 5

	again, ok := Singleton(w, ct)
	require.True(t, ok)
	assert.Equal(t, 5.0, again.Elapsed, "Singleton must return the same World-owned instance")
}

func TestSingletonNameDerivation(t *testing.T) {
	assert.Equal(t, "clock", SingletonName("Clock"))
	assert.Equal(t, "", SingletonName(""))
}

func TestWorldStopGatesTick(t *testing.T) {
	w := NewWorld()
	var ticks int
	w.RegisterSystem(&tickCountingSystem{SystemBase: NewSystemBase(), ticks: &ticks}, SystemOptions{})

	w.Stop()
	w.Tick(1.0/60.0, 0)
	assert.Equal(t, 0, ticks)
	assert.False(t, w.Running())

	w.Play()
	w.Tick(1.0/60.0, 0)
	assert.Equal(t, 1, ticks)
}

type tickCountingSystem struct {
	SystemBase
	ticks *int
}

func (s *tickCountingSystem) Init(w *World) *Config         { return nil }
func (s *tickCountingSystem) Execute(delta, simTime float64) { *s.ticks++ }

func TestWorldEmitEventReachesListener(t *testing.T) {
	w := NewWorld()
	var payload []any
	w.AddEventListener("custom", func(p ...any) { payload = p })

	w.EmitEvent("custom", 1, "two")
	require.Len(t, payload, 2)
	assert.Equal(t, 1, payload[0])
	assert.Equal(t, "two", payload[1])
}

func TestWorldRemoveEventListener(t *testing.T) {
	w := NewWorld()
	calls := 0
	handler := func(p ...any) { calls++ }

	w.AddEventListener("custom", handler)
	w.RemoveEventListener("custom", handler)
	w.EmitEvent("custom")

	assert.Equal(t, 0, calls)
}

func TestWorldStatsReflectsComponentsQueriesSystems(t *testing.T) {
	w := NewWorld()
	posType := RegisterComponent(w, "Position", position{})

	sys := &queryBoundSystem{SystemBase: NewSystemBase(), posType: posType}
	w.RegisterSystem(sys, SystemOptions{})

	e := w.CreateEntity()
	AddComponent(e, posType, nil)
	w.Tick(1.0/60.0, 0)

	stats := w.Stats()
	require.Len(t, stats.Components, 1)
	assert.Equal(t, "Position", stats.Components[0].Name)
	assert.Equal(t, int64(1), stats.Components[0].Live)

	require.Len(t, stats.Queries, 1)
	assert.Equal(t, 1, stats.Queries[0].EntityCount)

	require.Len(t, stats.Systems, 1)
}
