package ecs

import (
	"sort"
	"strings"

	"github.com/rs/zerolog"
)

// Query topic names, used both as the Query-local Dispatcher's topics and
// as the evName mapping in system Config.
const (
	TopicEntityAdded     = "EntityAdded"
	TopicEntityRemoved   = "EntityRemoved"
	TopicComponentChanged = "ComponentChanged"
)

// Spec is one token of a query's canonical signature: a required or negated
// component type.
type Spec struct {
	Type    ComponentTypeRef
	Negate  bool
}

// Require builds a required-component Spec.
func Require(t ComponentTypeRef) Spec { return Spec{Type: t} }

// Not builds the negation marker recognized by query construction and
// system Config.
func Not(t ComponentTypeRef) Spec { return Spec{Type: t, Negate: true} }

// queryKey canonicalizes specs into a stable key: map each entry to
// "!"+TypeName if negated else TypeName, lowercase, sort, join with "-".
// Permutation-invariant by construction.
func queryKey(specs []Spec) string {
	tokens := make([]string, len(specs))
	for i, s := range specs {
		name := strings.ToLower(s.Type.Name())
		if s.Negate {
			name = "!" + name
		}
		tokens[i] = name
	}
	sort.Strings(tokens)
	return strings.Join(tokens, "-")
}

// Query is a compiled predicate (required ∧ ¬forbidden) plus its live
// matching entity list and a local event dispatcher
// with topics EntityAdded/EntityRemoved/ComponentChanged. Membership is
// continuously maintained by the QueryIndex below rather than recomputed
// from a cached snapshot.
type Query struct {
	key       string
	required  bitset
	forbidden bitset

	entities    []*Entity
	dispatcher  *Dispatcher
	reactive    bool
}

// Entities returns the query's current live matching entity list. New
// members are appended at the end; a removal moves the last member into the
// removed member's slot, so insertion order is not kept across removals.
// Callers must not mutate the returned slice.
func (q *Query) Entities() []*Entity { return q.entities }

// Key returns the query's canonical signature.
func (q *Query) Key() string { return q.key }

func (q *Query) matches(e *Entity) bool {
	return e.components.supersetOf(q.required) && e.components.disjoint(q.forbidden)
}

func (q *Query) add(e *Entity) {
	idx := len(q.entities)
	q.entities = append(q.entities, e)
	e.queries[q] = idx
	q.dispatcher.Emit(TopicEntityAdded, e)
}

// remove swap-removes e from the query's entity list in O(1).
func (q *Query) remove(e *Entity) {
	idx, ok := e.queries[q]
	if !ok {
		return
	}
	last := len(q.entities) - 1
	moved := q.entities[last]
	q.entities[idx] = moved
	q.entities = q.entities[:last]
	if moved != e {
		moved.queries[q] = idx
	}
	delete(e.queries, q)
	q.dispatcher.Emit(TopicEntityRemoved, e)
}

// QueryIndex is the collection of queries keyed by canonical signature,
// maintaining memberships on every mutation. One Query object is shared by
// every caller requesting the same signature.
type QueryIndex struct {
	store   *Store
	log     zerolog.Logger
	queries map[string]*Query
}

func newQueryIndex(store *Store, log zerolog.Logger) *QueryIndex {
	return &QueryIndex{store: store, log: log, queries: make(map[string]*Query)}
}

// Get returns the shared Query for specs, building it if this is the first
// request for that signature. Construction scans the entire current entity
// list once and fires no events.
func (qi *QueryIndex) Get(specs ...Spec) (*Query, error) {
	key := queryKey(specs)
	if q, ok := qi.queries[key]; ok {
		return q, nil
	}

	var required, forbidden bitset
	hasRequired := false
	for _, s := range specs {
		if s.Negate {
			forbidden.set(s.Type.ID())
		} else {
			required.set(s.Type.ID())
			hasRequired = true
		}
	}
	if !hasRequired {
		return nil, newEmptyQueryError(key)
	}

	q := &Query{
		key:       key,
		required:  required,
		forbidden: forbidden,
		dispatcher: NewDispatcher(qi.log),
	}

	for _, e := range qi.store.entities {
		if q.matches(e) {
			idx := len(q.entities)
			q.entities = append(q.entities, e)
			e.queries[q] = idx
		}
	}

	qi.queries[key] = q
	return q, nil
}

// markReactive flips a query into reactive mode the first time a system
// subscribes to its ComponentChanged topic.
func (qi *QueryIndex) markReactive(q *Query) {
	q.reactive = true
}

// onAdd runs the membership maintenance rule for a component add: for
// every query, if the added type is forbidden and the entity was a member,
// remove it; else if it's required and the entity now satisfies the
// query, add it.
func (qi *QueryIndex) onAdd(e *Entity, added TypeID) {
	for _, q := range qi.queries {
		_, isMember := e.queries[q]
		switch {
		case q.forbidden.test(added) && isMember:
			q.remove(e)
		case q.required.test(added) && !isMember && q.matches(e):
			q.add(e)
		}
	}
}

// onRemove runs the membership maintenance rule for a component remove,
// called before the component is actually detached so q.matches(e) still
// observes it as attached.
func (qi *QueryIndex) onRemove(e *Entity, removed TypeID) {
	for _, q := range qi.queries {
		_, isMember := e.queries[q]
		switch {
		case q.forbidden.test(removed) && !isMember && wouldMatchWithout(q, e, removed):
			q.add(e)
		case q.required.test(removed) && isMember:
			q.remove(e)
		}
	}
}

// wouldMatchWithout reports whether e would satisfy q if typeID were
// already detached — used by onRemove's forbidden-type branch, since
// q.matches(e) alone would still see the (not-yet-detached) forbidden type.
func wouldMatchWithout(q *Query, e *Entity, typeID TypeID) bool {
	if !e.components.test(typeID) {
		return q.matches(e)
	}
	clone := e.components.clone()
	clone.clear(typeID)
	return clone.supersetOf(q.required) && clone.disjoint(q.forbidden)
}

// onEntityRemoved drops e from every query that currently contains it.
// The query set is snapshotted first since q.remove mutates e.queries.
func (qi *QueryIndex) onEntityRemoved(e *Entity) {
	for _, q := range qi.queriesOf(e) {
		q.remove(e)
	}
}

func (qi *QueryIndex) queriesOf(e *Entity) []*Query {
	out := make([]*Query, 0, len(e.queries))
	for q := range e.queries {
		out = append(out, q)
	}
	return out
}

// onComponentChanged fires ComponentChanged for every reactive query
// currently containing e. componentID lets subscribers filter buffers by
// component (system.go).
func (qi *QueryIndex) onComponentChanged(e *Entity, componentID TypeID, component any) {
	for q := range e.queries {
		if q.reactive {
			q.dispatcher.Emit(TopicComponentChanged, e, componentID, component)
		}
	}
}

// QueryStats is one row of World.Stats()'s per-query section: required
// component count and current entity count.
type QueryStats struct {
	Key           string
	RequiredCount int
	EntityCount   int
}

func (qi *QueryIndex) stats() []QueryStats {
	out := make([]QueryStats, 0, len(qi.queries))
	for _, q := range qi.queries {
		required := 0
		for _, w := range q.required {
			for w != 0 {
				required += int(w & 1)
				w >>= 1
			}
		}
		out = append(out, QueryStats{Key: q.key, RequiredCount: required, EntityCount: len(q.entities)})
	}
	return out
}
