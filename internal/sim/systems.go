package sim

import "github.com/edsilv/ecsy"

// MovementSystem advances Position by Velocity every tick, for every entity
// owning both.
type MovementSystem struct {
	ecs.SystemBase
}

func (s *MovementSystem) Init(w *ecs.World) *ecs.Config {
	cfg := ecs.NewConfig()
	cfg.Query("moving", ecs.Require(PositionType), ecs.Require(VelocityType))
	return cfg
}

func (s *MovementSystem) Execute(delta, simTime float64) {
	for _, e := range s.Queries("moving") {
		pos, ok := ecs.GetMutableComponent(e, PositionType)
		if !ok {
			continue
		}
		vel, ok := ecs.GetComponent(e, VelocityType)
		if !ok {
			continue
		}
		v := vel.Get()
		pos.X += v.DX * delta
		pos.Y += v.DY * delta
	}
}

// ClockSystem advances the world's singleton Clock by delta every tick.
type ClockSystem struct {
	ecs.SystemBase

	world *ecs.World
}

func (s *ClockSystem) Init(w *ecs.World) *ecs.Config {
	s.world = w
	return nil
}

func (s *ClockSystem) Execute(delta, simTime float64) {
	clock, ok := ecs.Singleton(s.world, ClockType)
	if !ok {
		return
	}
	clock.Elapsed += delta
}

// HealthSystem decays Health over time and force-removes entities once
// their Health reaches zero, demonstrating a reactive EntityRemoved
// subscription on the "expiring" query.
type HealthSystem struct {
	ecs.SystemBase

	ticks int
}

func (s *HealthSystem) Init(w *ecs.World) *ecs.Config {
	cfg := ecs.NewConfig()
	cfg.Query("expiring", ecs.Require(HealthType)).
		On("removed", ecs.EventEntityRemoved)
	return cfg
}

func (s *HealthSystem) Execute(delta, simTime float64) {
	s.ticks++
	if s.ticks%60 != 0 {
		return
	}
	// e.Remove(true) swap-mutates the query's live slice mid-range, so iterate
	// a snapshot copy rather than the slice Queries returns.
	expiring := append([]*ecs.Entity(nil), s.Queries("expiring")...)
	for _, e := range expiring {
		hp, ok := ecs.GetMutableComponent(e, HealthType)
		if !ok {
			continue
		}
		hp.Current--
		if hp.Current <= 0 {
			e.Remove(true)
		}
	}
	for range s.QueryEvents("expiring", "removed") {
		// The entries are not used here; the scheduler clears the buffer
		// after Execute returns. A real host would log or react to each
		// removal here.
	}
}
