package ecs

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// TypeID is the dense, stable numeric identifier assigned to a component
// type at registration. The string name is kept alongside it purely for
// diagnostics and stats; hot-path lookups never compare names.
type TypeID uint32

// ComponentTypeRef is the type-erased handle the query/config DSL operates
// on, implemented by *ComponentType[T] for every T.
type ComponentTypeRef interface {
	ID() TypeID
	Name() string
}

// ComponentType is the registered identity of a component, owning exactly
// one Pool[T]. Generic over T so GetComponent/GetMutableComponent stay
// compile-time typed, keeping the immutable/mutable split a type distinction
// rather than a runtime check.
type ComponentType[T any] struct {
	id        TypeID
	name      string
	pool      *Pool[T]
	singleton bool
}

func (ct *ComponentType[T]) ID() TypeID    { return ct.id }
func (ct *ComponentType[T]) Name() string  { return ct.name }
func (ct *ComponentType[T]) isSingleton() bool { return ct.singleton }

// componentRecord is the type-erased bookkeeping the Registry keeps per
// registered type: live-instance counter and a stats thunk closing over the
// concrete *Pool[T].
type componentRecord struct {
	id        TypeID
	name      string
	singleton bool
	live      int64 // atomic
	statsFunc func() (total, free, used int)
}

// Registry interns component types, owning one pool per type and tracking
// live-instance counts. TypeIDs are handed out from an unbounded counter
// rather than a fixed-width flag allocator, with bitset.go picking up the
// membership-testing role a 64-bit flag word would otherwise play.
type Registry struct {
	mu       sync.Mutex
	byName   map[string]*componentRecord
	byID     []*componentRecord
	nextID   TypeID
}

// NewRegistry constructs an empty Registry.
func NewRegistry() *Registry {
	return &Registry{byName: make(map[string]*componentRecord)}
}

// registerComponent interns a new component type under name, owning a pool
// seeded by prototype, which the pool retains for its copy-construct
// fallback. Registration is a one-time, programmer-controlled step: because
// Go generics require the caller to already hold a *ComponentType[T] to call
// AddComponent/GetComponent, there is no call shape that attaches an
// unregistered type — a handle can only come from registering first (see
// DESIGN.md). Exposed to callers via the World-level ecs.RegisterComponent
// (world.go).
func registerComponent[T any](r *Registry, name string, prototype T) *ComponentType[T] {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[name]; exists {
		panic(fmt.Sprintf("ecs: component %q already registered", name))
	}

	pool := NewPool(prototype)
	id := r.nextID
	r.nextID++

	rec := &componentRecord{
		id:        id,
		name:      name,
		statsFunc: func() (int, int, int) { return pool.Stats() },
	}
	r.byName[name] = rec
	r.byID = append(r.byID, rec)

	return &ComponentType[T]{id: id, name: name, pool: pool}
}

// registerSingletonComponent interns a World-owned singleton. Its instance
// is held by the World (see world.go), not by any Pool, so live count is
// fixed at 1 once set. Exposed to callers via the World-level
// ecs.RegisterSingletonComponent (world.go).
func registerSingletonComponent[T any](r *Registry, name string) *ComponentType[T] {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byName[name]; exists {
		panic(fmt.Sprintf("ecs: component %q already registered", name))
	}

	id := r.nextID
	r.nextID++

	rec := &componentRecord{
		id:        id,
		name:      name,
		singleton: true,
		live:      1,
		statsFunc: func() (int, int, int) { return 1, 0, 1 },
	}
	r.byName[name] = rec
	r.byID = append(r.byID, rec)

	return &ComponentType[T]{id: id, name: name, singleton: true}
}

func (r *Registry) record(id TypeID) *componentRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, rec := range r.byID {
		if rec.id == id {
			return rec
		}
	}
	return nil
}

func (r *Registry) onAttached(id TypeID) {
	if rec := r.record(id); rec != nil {
		atomic.AddInt64(&rec.live, 1)
	}
}

func (r *Registry) onDetached(id TypeID) {
	if rec := r.record(id); rec != nil {
		atomic.AddInt64(&rec.live, -1)
	}
}

// ComponentStats is one row of World.Stats()'s per-component-type section:
// pool size and usage alongside the live-instance count.
type ComponentStats struct {
	Name  string
	Live  int64
	Total int
	Free  int
	Used  int
}

func (r *Registry) stats() []ComponentStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]ComponentStats, 0, len(r.byID))
	for _, rec := range r.byID {
		total, free, used := rec.statsFunc()
		out = append(out, ComponentStats{
			Name:  rec.name,
			Live:  atomic.LoadInt64(&rec.live),
			Total: total,
			Free:  free,
			Used:  used,
		})
	}
	return out
}

// nameOf resolves a TypeID back to its registered name, or "" for an
// unknown id. Query key canonicalization (query.go) reads names from the
// ComponentTypeRef directly and does not go through nameOf.
func (r *Registry) nameOf(id TypeID) string {
	if rec := r.record(id); rec != nil {
		return rec.name
	}
	return ""
}
