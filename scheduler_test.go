package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type orderRecordingSystem struct {
	SystemBase
	name  string
	order *[]string
}

func (s *orderRecordingSystem) Init(w *World) *Config { return nil }
func (s *orderRecordingSystem) Execute(delta, simTime float64) {
	*s.order = append(*s.order, s.name)
}

func TestSchedulerRunsSystemsInPriorityOrder(t *testing.T) {
	w := NewWorld()
	var order []string

	w.RegisterSystem(&orderRecordingSystem{SystemBase: NewSystemBase(), name: "late", order: &order}, SystemOptions{Priority: 10})
	w.RegisterSystem(&orderRecordingSystem{SystemBase: NewSystemBase(), name: "early", order: &order}, SystemOptions{Priority: 0})

	w.Tick(1.0/60.0, 0)
	assert.Equal(t, []string{"early", "late"}, order)
}

func TestSchedulerTieBreaksByRegistrationOrder(t *testing.T) {
	w := NewWorld()
	var order []string

	w.RegisterSystem(&orderRecordingSystem{SystemBase: NewSystemBase(), name: "first", order: &order}, SystemOptions{Priority: 5})
	w.RegisterSystem(&orderRecordingSystem{SystemBase: NewSystemBase(), name: "second", order: &order}, SystemOptions{Priority: 5})

	w.Tick(1.0/60.0, 0)
	assert.Equal(t, []string{"first", "second"}, order)
}

type queryBoundSystem struct {
	SystemBase
	posType     *ComponentType[position]
	seenPerTick [][]EntityID
}

func (s *queryBoundSystem) Init(w *World) *Config {
	cfg := NewConfig()
	cfg.Query("positioned", Require(s.posType))
	return cfg
}

func (s *queryBoundSystem) Execute(delta, simTime float64) {
	var ids []EntityID
	for _, e := range s.Queries("positioned") {
		ids = append(ids, e.ID())
	}
	s.seenPerTick = append(s.seenPerTick, ids)
}

func TestSchedulerBindsLiveQuerySlices(t *testing.T) {
	w := NewWorld()
	posType := RegisterComponent(w, "Position", position{})

	sys := &queryBoundSystem{SystemBase: NewSystemBase(), posType: posType}
	w.RegisterSystem(sys, SystemOptions{})

	e := w.CreateEntity()
	AddComponent(e, posType, nil)

	w.Tick(1.0/60.0, 0)
	require.Len(t, sys.seenPerTick, 1)
	assert.Len(t, sys.seenPerTick[0], 1)
}

func TestSchedulerRemoveSystemByIdentity(t *testing.T) {
	w := NewWorld()
	var order []string

	sys := &orderRecordingSystem{SystemBase: NewSystemBase(), name: "once", order: &order}
	w.RegisterSystem(sys, SystemOptions{})
	w.RemoveSystem(sys)

	w.Tick(1.0/60.0, 0)
	assert.Empty(t, order)
}

type addedTrackingSystem struct {
	SystemBase
	posType *ComponentType[position]
}

func (s *addedTrackingSystem) Init(w *World) *Config {
	cfg := NewConfig()
	cfg.Query("positioned", Require(s.posType)).On("added", EventEntityAdded)
	return cfg
}
func (s *addedTrackingSystem) Execute(delta, simTime float64) {}

func TestSchedulerClearsEventBuffersBetweenTicks(t *testing.T) {
	w := NewWorld()
	posType := RegisterComponent(w, "Position", position{})

	sys := &addedTrackingSystem{SystemBase: NewSystemBase(), posType: posType}
	w.RegisterSystem(sys, SystemOptions{})

	e := w.CreateEntity()
	AddComponent(e, posType, nil)
	require.Len(t, sys.QueryEvents("positioned", "added"), 1, "EntityAdded fires synchronously on AddComponent")

	w.Tick(1.0/60.0, 0)
	assert.Empty(t, sys.QueryEvents("positioned", "added"), "clearEvents must reset buffers after the tick that observed them")
}

type worldEventTrackingSystem struct {
	SystemBase
}

func (s *worldEventTrackingSystem) Init(w *World) *Config {
	return NewConfig().WorldEvent("scoreChanged")
}
func (s *worldEventTrackingSystem) Execute(delta, simTime float64) {}

func TestSchedulerBindsWorldLevelEventSubscriptions(t *testing.T) {
	w := NewWorld()
	sys := &worldEventTrackingSystem{SystemBase: NewSystemBase()}
	w.RegisterSystem(sys, SystemOptions{})

	w.EmitEvent("scoreChanged", 10)
	require.Len(t, sys.WorldEvents("scoreChanged"), 1)

	w.Tick(1.0/60.0, 0)
	assert.Empty(t, sys.WorldEvents("scoreChanged"), "clearEvents must also reset world-level buffers")
}
