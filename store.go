package ecs

import (
	"github.com/rs/zerolog"
)

// Global Entity Store event topics. TopicEntityRemoved is shared with
// query.go's per-query topic of the same name — it is just a string label,
// used on two distinct Dispatcher instances (the Store's global bus here,
// each Query's local bus there).
const (
	TopicEntityCreated   = "EntityCreated"
	TopicComponentAdded  = "ComponentAdded"
	TopicComponentRemove = "ComponentRemove"
)

// Store is the authoritative entity vector, tag reverse index, deferred
// removal queues, and global event dispatcher. Supports both synchronous
// (force) and deferred removal, the latter flushed by ProcessDeferred at
// the end of a tick.
type Store struct {
	registry   *Registry
	queryIndex *QueryIndex
	dispatcher *Dispatcher
	log        zerolog.Logger

	nextID   EntityID
	entities []*Entity
	byID     map[EntityID]*Entity

	tagIndex map[string]map[EntityID]*Entity

	entityPool *Pool[Entity]

	pendingRemoval          []*Entity
	pendingComponentRemoval []*Entity
}

func newStore(registry *Registry, log zerolog.Logger) *Store {
	s := &Store{
		registry: registry,
		log:      log,
		byID:     make(map[EntityID]*Entity),
		tagIndex: make(map[string]map[EntityID]*Entity),
	}
	s.dispatcher = NewDispatcher(log)
	s.queryIndex = newQueryIndex(s, log)
	s.entityPool = NewPool(Entity{})
	return s
}

// CreateEntity mints a new Entity and emits EntityCreated. The Entity
// itself is drawn from the Store's entity Pool, so repeated create/destroy
// cycles reuse the same backing allocations.
func (s *Store) CreateEntity() *Entity {
	e := s.entityPool.Acquire()
	e.id = s.nextID
	s.nextID++
	e.store = s
	e.alive = true

	s.entities = append(s.entities, e)
	s.byID[e.id] = e

	s.dispatcher.Emit(TopicEntityCreated, e)
	return e
}

// EntityByID looks up a live entity by id.
func (s *Store) EntityByID(id EntityID) (*Entity, bool) {
	e, ok := s.byID[id]
	return e, ok
}

func (s *Store) indexTag(e *Entity, tag string) {
	set, ok := s.tagIndex[tag]
	if !ok {
		set = make(map[EntityID]*Entity)
		s.tagIndex[tag] = set
	}
	set[e.id] = e
}

func (s *Store) unindexTag(e *Entity, tag string) {
	if set, ok := s.tagIndex[tag]; ok {
		delete(set, e.id)
		if len(set) == 0 {
			delete(s.tagIndex, tag)
		}
	}
}

// ByTag returns every entity currently carrying tag.
func (s *Store) ByTag(tag string) []*Entity {
	set := s.tagIndex[tag]
	out := make([]*Entity, 0, len(set))
	for _, e := range set {
		out = append(out, e)
	}
	return out
}

func (s *Store) enqueuePendingComponentRemoval(e *Entity) {
	s.pendingComponentRemoval = append(s.pendingComponentRemoval, e)
}

// removeEntity errors on an unknown entity. It emits EntityRemoved and
// pulls the entity out of every query *before* components are detached
// (see DESIGN.md), then either destroys the entity now (force) or queues
// it for the end-of-tick flush.
func (s *Store) removeEntity(e *Entity, force bool) error {
	if _, ok := s.byID[e.id]; !ok || !e.alive {
		return newUnknownEntityError(e.id)
	}

	s.dispatcher.Emit(TopicEntityRemoved, e)
	s.queryIndex.onEntityRemoved(e)

	if force {
		s.destroyEntity(e)
		return nil
	}

	if !e.pendingRemoval {
		e.pendingRemoval = true
		s.pendingRemoval = append(s.pendingRemoval, e)
	}
	return nil
}

// destroyEntity synchronously detaches every component, clears tags from
// the reverse index, removes the entity from the authoritative vector, and
// releases it to the entity pool.
func (s *Store) destroyEntity(e *Entity) {
	for _, id := range e.ComponentTypeIDs() {
		e.detachByID(id)
	}
	for tag := range e.tags {
		s.unindexTag(e, tag)
	}

	delete(s.byID, e.id)
	for i, candidate := range s.entities {
		if candidate == e {
			last := len(s.entities) - 1
			s.entities[i] = s.entities[last]
			s.entities = s.entities[:last]
			break
		}
	}

	e.alive = false
	e.pendingRemoval = false
	s.entityPool.Release(e)
}

// ProcessDeferred drains pendingRemoval (synchronous destroy each) then
// pendingComponentRemoval (detach queued components). The two queues are
// drained in this fixed order and are not coalesced with intra-tick events.
func (s *Store) ProcessDeferred() {
	pending := s.pendingRemoval
	s.pendingRemoval = nil
	for _, e := range pending {
		if e.alive {
			s.destroyEntity(e)
		}
	}

	pendingComponents := s.pendingComponentRemoval
	s.pendingComponentRemoval = nil
	for _, e := range pendingComponents {
		if !e.alive {
			continue
		}
		ids := e.pendingComponents
		e.pendingComponents = nil
		for _, id := range ids {
			e.detachByID(id)
		}
	}
}

// Len reports the number of entities currently tracked (alive or pending
// removal, but not yet released).
func (s *Store) Len() int {
	return len(s.entities)
}
