package ecs

import "fmt"

// EntityID is a monotonically increasing identifier, unique within the
// World that minted it. The counter lives on Store rather than
// process-wide, so multiple Worlds never collide.
type EntityID uint64

// Entity is an opaque handle carrying: the set of component TypeIDs it
// owns (components), a TypeID -> component-pointer map (byType), a tag set,
// a back-reference to every Query it currently belongs to (for O(1)
// removal, swap-remove style — see queries map below), and a pending
// removal list used by deferred destruction.
type Entity struct {
	id    EntityID
	store *Store

	components bitset
	byType     map[TypeID]attachedComponent
	tags       map[string]struct{}

	// queries maps a Query this entity belongs to onto its index within
	// that query's entities slice, enabling O(1) swap-remove from the
	// query's membership list.
	queries map[*Query]int

	pendingComponents []TypeID
	pendingRemoval    bool
	alive             bool
}

// attachedComponent type-erases a pool-owned instance so operations that
// must work across arbitrary component types at runtime (RemoveAllComponents,
// the deferred-component flush in ProcessDeferred) don't need a compile-time
// T. instance is the *T pointer boxed as any; release returns it to its pool.
type attachedComponent struct {
	instance any
	release  func()
}

// Reset restores the entity to its pre-acquire state, implementing
// Resettable so the Store's entity Pool can recycle *Entity instances
// instead of allocating a fresh one per CreateEntity call. Called by
// Pool.Acquire, never directly.
func (e *Entity) Reset() {
	e.id = 0
	e.store = nil
	e.components = nil
	if e.byType == nil {
		e.byType = make(map[TypeID]attachedComponent)
	} else {
		for k := range e.byType {
			delete(e.byType, k)
		}
	}
	if e.tags == nil {
		e.tags = make(map[string]struct{})
	} else {
		for k := range e.tags {
			delete(e.tags, k)
		}
	}
	if e.queries == nil {
		e.queries = make(map[*Query]int)
	} else {
		for k := range e.queries {
			delete(e.queries, k)
		}
	}
	e.pendingComponents = e.pendingComponents[:0]
	e.pendingRemoval = false
	e.alive = false
}

// ID returns the entity's stable numeric identifier.
func (e *Entity) ID() EntityID { return e.id }

// HasComponentID reports whether the entity currently owns the component
// type identified by id.
func (e *Entity) HasComponentID(id TypeID) bool {
	return e.components.test(id)
}

// HasAllComponents reports whether the entity owns every listed type.
func (e *Entity) HasAllComponents(ids ...TypeID) bool {
	for _, id := range ids {
		if !e.components.test(id) {
			return false
		}
	}
	return true
}

// AddTag attaches a free-form string label, keeping the store's reverse
// tag index in sync.
func (e *Entity) AddTag(tag string) {
	if _, exists := e.tags[tag]; exists {
		return
	}
	e.tags[tag] = struct{}{}
	e.store.indexTag(e, tag)
}

// RemoveTag detaches tag, if present.
func (e *Entity) RemoveTag(tag string) {
	if _, exists := e.tags[tag]; !exists {
		return
	}
	delete(e.tags, tag)
	e.store.unindexTag(e, tag)
}

// HasTag reports whether the entity carries tag.
func (e *Entity) HasTag(tag string) bool {
	_, ok := e.tags[tag]
	return ok
}

// Tags returns a snapshot of the entity's current tags.
func (e *Entity) Tags() []string {
	out := make([]string, 0, len(e.tags))
	for t := range e.tags {
		out = append(out, t)
	}
	return out
}

// Remove destroys the entity, synchronously if force is true, otherwise at
// the end of the current tick.
func (e *Entity) Remove(force bool) error {
	return e.store.removeEntity(e, force)
}

// Alive reports whether the entity is still live (not yet released to the
// pool by a deferred-removal flush).
func (e *Entity) Alive() bool {
	return e.alive
}

// ComponentTypeIDs returns the TypeIDs the entity currently owns, for
// diagnostics (e.g. stats, logging); order is unspecified.
func (e *Entity) ComponentTypeIDs() []TypeID {
	out := make([]TypeID, 0, len(e.byType))
	for id := range e.byType {
		out = append(out, id)
	}
	return out
}

// RemoveAllComponents detaches every component the entity owns, force or
// deferred per the same rule as RemoveComponent.
func (e *Entity) RemoveAllComponents(force bool) {
	ids := e.ComponentTypeIDs()
	for _, id := range ids {
		e.store.dispatcher.Emit(TopicComponentRemove, e, id)
		e.store.queryIndex.onRemove(e, id)
		if force {
			e.detachByID(id)
		} else {
			e.enqueuePendingComponent(id)
		}
	}
}

// detachByID removes the type-erased attachment for id, releasing its
// instance back to its pool and updating registry live counts. Used by the
// force path and by the deferred-component flush (store.go
// ProcessDeferred), both of which operate without a compile-time T.
func (e *Entity) detachByID(id TypeID) {
	att, ok := e.byType[id]
	if !ok {
		return
	}
	delete(e.byType, id)
	e.components.clear(id)
	e.store.registry.onDetached(id)
	att.release()
}

// ComponentView is the read-only view returned by GetComponent. Get
// returns a value copy; Set always fails with ImmutableWriteError,
// carrying the component type and field name — the compile-time stand-in
// for a write-throwing proxy (see DESIGN.md Open Question 1).
type ComponentView[T any] struct {
	ptr       *T
	component string
}

// Get returns a copy of the underlying component value. Mutating the
// returned copy never affects stored state.
func (v ComponentView[T]) Get() T {
	return *v.ptr
}

// Set always fails: writes through an immutable view are rejected. field
// is carried through for diagnostics.
func (v ComponentView[T]) Set(field string, _ any) error {
	return newImmutableWriteError(v.component, field)
}

// AddComponent attaches an instance of T to e, acquiring it from T's pool
// (idempotent: a no-op if e already owns T). When init is non-nil its
// value seeds the acquired instance (via a Copy(T) method if the instance
// implements one, else a field-wise assignment).
func AddComponent[T any](e *Entity, ct *ComponentType[T], init *T) *Entity {
	if ct.isSingleton() {
		panic(fmt.Sprintf("ecs: %q is a singleton component, owned by the World — use Singleton(world, ct) instead of AddComponent", ct.name))
	}
	if e.HasComponentID(ct.id) {
		return e // DoubleAdd: silent no-op
	}

	instance := ct.pool.Acquire()
	if init != nil {
		if copier, ok := any(instance).(interface{ Copy(T) }); ok {
			copier.Copy(*init)
		} else {
			*instance = *init
		}
	}

	e.components.set(ct.id)
	e.byType[ct.id] = attachedComponent{
		instance: instance,
		release:  func() { ct.pool.Release(instance) },
	}
	e.store.registry.onAttached(ct.id)
	e.store.queryIndex.onAdd(e, ct.id)
	e.store.dispatcher.Emit(TopicComponentAdded, e, ct.id)

	return e
}

// RemoveComponent detaches T from e (no-op if e does not own T). When
// force is true the component is detached and released immediately;
// otherwise it is queued for the end-of-tick deferred flush.
func RemoveComponent[T any](e *Entity, ct *ComponentType[T], force bool) {
	if !e.HasComponentID(ct.id) {
		return
	}

	e.store.dispatcher.Emit(TopicComponentRemove, e, ct.id)
	// QueryIndex.onRemove must observe the component as still attached, so
	// this call happens before detachment below.
	e.store.queryIndex.onRemove(e, ct.id)

	if force {
		e.detachByID(ct.id)
		return
	}

	e.enqueuePendingComponent(ct.id)
}

func (e *Entity) enqueuePendingComponent(id TypeID) {
	wasEmpty := len(e.pendingComponents) == 0
	e.pendingComponents = append(e.pendingComponents, id)
	if wasEmpty {
		e.store.enqueuePendingComponentRemoval(e)
	}
}

// HasComponent reports whether e owns an instance of the type ct
// identifies.
func HasComponent[T any](e *Entity, ct *ComponentType[T]) bool {
	return e.HasComponentID(ct.id)
}

// GetComponent returns a read-only view of e's T instance. The bool is
// false if e does not own T.
func GetComponent[T any](e *Entity, ct *ComponentType[T]) (ComponentView[T], bool) {
	att, ok := e.byType[ct.id]
	if !ok {
		var zero ComponentView[T]
		return zero, false
	}
	return ComponentView[T]{ptr: att.instance.(*T), component: ct.name}, true
}

// GetMutableComponent returns a mutable pointer to e's T instance and
// fires ComponentChanged on every reactive query currently containing e.
func GetMutableComponent[T any](e *Entity, ct *ComponentType[T]) (*T, bool) {
	att, ok := e.byType[ct.id]
	if !ok {
		return nil, false
	}
	ptr := att.instance.(*T)
	e.store.queryIndex.onComponentChanged(e, ct.id, ptr)
	return ptr, true
}
