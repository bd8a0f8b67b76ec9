package ecs

import (
	"strings"

	"github.com/rs/zerolog"
)

// World is the composition root owning the Component Registry, Entity
// Store, and Scheduler, and exposing tick, registration, and a world-level
// event bus. Kept as three collaborators rather than one monolithic type
// so each concern (component pools, entity lifecycle, system ordering) can
// be tested and reasoned about independently.
type World struct {
	registry  *Registry
	store     *Store
	scheduler *Scheduler

	dispatcher *Dispatcher // world-level bus: EmitEvent/AddEventListener
	log        zerolog.Logger

	singletons map[TypeID]any
	running    bool
}

// WorldOption configures NewWorld.
type WorldOption func(*World)

// WithLogger wires a zerolog.Logger into the World for HandlerException
// logging and scheduler diagnostics (SPEC_FULL.md §10 "Logging"). Defaults
// to a no-op logger when omitted.
func WithLogger(log zerolog.Logger) WorldOption {
	return func(w *World) { w.log = log }
}

// NewWorld constructs a World ready for component/system registration. The
// world starts in the playing state.
func NewWorld(opts ...WorldOption) *World {
	w := &World{
		registry:   NewRegistry(),
		singletons: make(map[TypeID]any),
		log:        zerolog.Nop(),
		running:    true,
	}
	for _, opt := range opts {
		opt(w)
	}
	w.store = newStore(w.registry, w.log)
	w.dispatcher = NewDispatcher(w.log)
	w.scheduler = newScheduler(w)
	return w
}

// RegisterComponent interns a component type, owning a pool seeded by
// prototype.
func RegisterComponent[T any](w *World, name string, prototype T) *ComponentType[T] {
	return registerComponent(w.registry, name, prototype)
}

// RegisterSingletonComponent interns a singleton component type and stores
// instance as the World's one instance, keyed by the type's TypeID and
// retrieved through Singleton. It is not bound under a name; SingletonName
// computes the derived lookup name separately.
func RegisterSingletonComponent[T any](w *World, name string, instance T) *ComponentType[T] {
	ct := registerSingletonComponent[T](w.registry, name)
	w.singletons[ct.id] = &instance
	return ct
}

// Singleton returns the World-owned instance of a singleton component type
// registered via RegisterSingletonComponent.
func Singleton[T any](w *World, ct *ComponentType[T]) (*T, bool) {
	raw, ok := w.singletons[ct.id]
	if !ok {
		return nil, false
	}
	return raw.(*T), true
}

// SingletonName derives the stable lookup name for a singleton: the type
// name with its first letter lowercased.
func SingletonName(name string) string {
	if name == "" {
		return name
	}
	return strings.ToLower(name[:1]) + name[1:]
}

// RegisterSystem instantiates sys's bookkeeping, runs its Init, applies
// priority from opts, and schedules it.
func (w *World) RegisterSystem(sys System, opts SystemOptions) {
	w.scheduler.RegisterSystem(sys, opts)
}

// RemoveSystem unregisters sys by identity.
func (w *World) RemoveSystem(sys System) {
	w.scheduler.RemoveSystem(sys)
}

// CreateEntity mints a new Entity.
func (w *World) CreateEntity() *Entity {
	return w.store.CreateEntity()
}

// EntityByID looks up a live entity.
func (w *World) EntityByID(id EntityID) (*Entity, bool) {
	return w.store.EntityByID(id)
}

// ByTag returns every entity currently carrying tag.
func (w *World) ByTag(tag string) []*Entity {
	return w.store.ByTag(tag)
}

// Tick drives one scheduler pass if the world is playing; a no-op while
// stopped.
func (w *World) Tick(delta, simTime float64) {
	if !w.running {
		return
	}
	w.scheduler.Tick(delta, simTime)
}

// Stop gates future Tick calls until Play is called.
func (w *World) Stop() { w.running = false }

// Play re-enables Tick.
func (w *World) Play() { w.running = true }

// Running reports the current play/stop state.
func (w *World) Running() bool { return w.running }

// EmitEvent fires name on the world-level event bus, for cross-system
// signals distinct from the Store's internal EntityCreated/ComponentAdded
// topics.
func (w *World) EmitEvent(name string, payload ...any) {
	w.dispatcher.Emit(name, payload...)
}

// AddEventListener subscribes handler to a world-level event topic.
func (w *World) AddEventListener(name string, handler Handler) {
	w.dispatcher.Subscribe(name, handler)
}

// RemoveEventListener unsubscribes handler from a world-level event topic.
func (w *World) RemoveEventListener(name string, handler Handler) {
	w.dispatcher.Unsubscribe(name, handler)
}

// Logger returns the World's configured logger, for collaborators (e.g.
// the demo CLI) that want to share it.
func (w *World) Logger() zerolog.Logger { return w.log }
