// Package sim builds a small demonstration world on top of ecs: a handful
// of components, a movement system, a clock system, and a health system
// that decays health, removes expired entities and subscribes to their
// EntityRemoved events. It exists to give ecsy-demo
// something concrete to tick and report on.
package sim

import (
	"github.com/rs/zerolog"

	"github.com/edsilv/ecsy"
)

// Position is a 2D location, mutated every tick by MovementSystem.
type Position struct {
	X, Y float64
}

// Velocity is a constant rate of displacement; MovementSystem adds it to
// Position scaled by each tick's delta.
type Velocity struct {
	DX, DY float64
}

// Health decreases over time; entities reaching zero are removed.
type Health struct {
	Current, Max int
}

// Clock is a singleton component tracking the world's elapsed sim time,
// demonstrating RegisterSingletonComponent/Singleton.
type Clock struct {
	Elapsed float64
}

var (
	PositionType *ecs.ComponentType[Position]
	VelocityType *ecs.ComponentType[Velocity]
	HealthType   *ecs.ComponentType[Health]
	ClockType    *ecs.ComponentType[Clock]
)

// NewWorld constructs a world with every demo component and system
// registered, logging through log.
func NewWorld(log zerolog.Logger) *ecs.World {
	w := ecs.NewWorld(ecs.WithLogger(log))

	PositionType = ecs.RegisterComponent(w, "Position", Position{})
	VelocityType = ecs.RegisterComponent(w, "Velocity", Velocity{})
	HealthType = ecs.RegisterComponent(w, "Health", Health{})
	ClockType = ecs.RegisterSingletonComponent(w, "Clock", Clock{})

	w.RegisterSystem(&MovementSystem{SystemBase: ecs.NewSystemBase()}, ecs.SystemOptions{Priority: 0})
	w.RegisterSystem(&ClockSystem{SystemBase: ecs.NewSystemBase()}, ecs.SystemOptions{Priority: 0})
	w.RegisterSystem(&HealthSystem{SystemBase: ecs.NewSystemBase()}, ecs.SystemOptions{Priority: 1})

	return w
}

// Seed populates w with a small, varied set of moving, decaying entities.
func Seed(w *ecs.World) {
	type spawn struct {
		x, y, dx, dy float64
		hp           int
		tag          string
	}
	spawns := []spawn{
		{x: 0, y: 0, dx: 1, dy: 0.5, hp: 3, tag: "drifter"},
		{x: 10, y: 10, dx: -0.5, dy: 0.2, hp: 1, tag: "drifter"},
		{x: -5, y: 3, dx: 0, dy: -1, hp: 5, tag: "sentry"},
		{x: 2, y: -2, dx: 2, dy: 2, hp: 2, tag: "drifter"},
	}

	for _, s := range spawns {
		e := w.CreateEntity()
		ecs.AddComponent(e, PositionType, &Position{X: s.x, Y: s.y})
		ecs.AddComponent(e, VelocityType, &Velocity{DX: s.dx, DY: s.dy})
		ecs.AddComponent(e, HealthType, &Health{Current: s.hp, Max: s.hp})
		e.AddTag(s.tag)
	}
}
