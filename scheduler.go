package ecs

import (
	"fmt"
	"sort"
	"time"
)

// registeredSystem pairs a System with its scheduling metadata: priority,
// registration order (tiebreak), and the last measured execute duration
// (surfaced via stats).
type registeredSystem struct {
	system   System
	name     string
	runtime  *Runtime
	order    int
	unsub    []func()
	lastExec time.Duration
}

func (r *registeredSystem) priority() int {
	if r.runtime != nil {
		return r.runtime.Priority
	}
	return 0
}

func (r *registeredSystem) enabled() bool {
	if en, ok := r.system.(Enabler); ok {
		return en.Enabled()
	}
	return true
}

// Scheduler holds registered systems in priority order (ascending, ties
// broken by registration order) and drives one tick: execute each enabled
// system in order, clear its event buffers, then flush the Store's
// deferred removals.
type Scheduler struct {
	world     *World
	systems   []*registeredSystem
	nextOrder int
}

func newScheduler(world *World) *Scheduler {
	return &Scheduler{world: world}
}

// SystemOptions configures registration-time attributes.
type SystemOptions struct {
	Priority int
}

// RegisterSystem instantiates bookkeeping for sys, runs its Init, binds
// queries/events from the returned Config (if sys embeds SystemBase),
// applies priority, and re-sorts.
func (s *Scheduler) RegisterSystem(sys System, opts SystemOptions) *registeredSystem {
	rs := &registeredSystem{
		system: sys,
		name:   fmt.Sprintf("%T", sys),
		order:  s.nextOrder,
	}
	s.nextOrder++

	if host, ok := sys.(runtimeHost); ok {
		rt := host.runtimeRef()
		if rt.queries == nil {
			rt.queries = make(map[string]*Query)
			rt.queryBuffers = make(map[string]map[string]*eventBuffer)
			rt.worldBuffers = make(map[string]*eventBuffer)
			rt.Enabled = true
		}
		rt.Priority = opts.Priority
		rs.runtime = rt
	}

	cfg := sys.Init(s.world)
	if cfg != nil && rs.runtime != nil {
		s.bindConfig(rs, cfg)
	}

	s.systems = append(s.systems, rs)
	s.resort()
	return rs
}

func (s *Scheduler) bindConfig(rs *registeredSystem, cfg *Config) {
	rt := rs.runtime

	for _, qc := range cfg.queries {
		q, err := s.world.store.queryIndex.Get(qc.specs...)
		if err != nil {
			s.world.log.Error().Err(err).Str("system", rs.name).Str("query", qc.name).Msg("ecs: failed to bind query")
			continue
		}
		rt.queries[qc.name] = q
		rt.queryBuffers[qc.name] = make(map[string]*eventBuffer)

		for _, ec := range qc.events {
			ec := ec
			if ec.topic == EventEntityChanged || ec.topic == EventComponentChanged {
				s.world.store.queryIndex.markReactive(q)
			}
			// ComponentChanged dedupes per tick like any entity-keyed topic
			// unless an explicit component filter is given, in which case a
			// repeated mutation must appear once per mutation, unlike
			// EntityChanged.
			dedupe := ec.topic.entityKeyed() || (ec.topic == EventComponentChanged && len(ec.components) == 0)
			buf := newEventBuffer(dedupe)
			rt.queryBuffers[qc.name][ec.name] = buf
			rs.unsub = append(rs.unsub, s.subscribeQueryEvent(q, ec, buf))
		}
	}

	for _, name := range cfg.worldEvents {
		name := name
		// World-level payloads aren't entity-keyed, so there is no sensible
		// dedup key; every emit is buffered.
		buf := newEventBuffer(false)
		rt.worldBuffers[name] = buf
		handler := func(payload ...any) {
			buf.append(Event{Component: payload})
		}
		s.world.dispatcher.Subscribe(name, handler)
		rs.unsub = append(rs.unsub, func() { s.world.dispatcher.Unsubscribe(name, handler) })
	}
}

func (s *Scheduler) subscribeQueryEvent(q *Query, ec queryEventConfig, buf *eventBuffer) func() {
	switch ec.topic {
	case EventEntityAdded:
		handler := func(payload ...any) {
			buf.append(Event{Entity: payload[0].(*Entity)})
		}
		q.dispatcher.Subscribe(TopicEntityAdded, handler)
		return func() { q.dispatcher.Unsubscribe(TopicEntityAdded, handler) }

	case EventEntityRemoved:
		handler := func(payload ...any) {
			buf.append(Event{Entity: payload[0].(*Entity)})
		}
		q.dispatcher.Subscribe(TopicEntityRemoved, handler)
		return func() { q.dispatcher.Unsubscribe(TopicEntityRemoved, handler) }

	case EventEntityChanged:
		handler := func(payload ...any) {
			buf.append(Event{Entity: payload[0].(*Entity)})
		}
		q.dispatcher.Subscribe(TopicComponentChanged, handler)
		return func() { q.dispatcher.Unsubscribe(TopicComponentChanged, handler) }

	case EventComponentChanged:
		filter := make(map[TypeID]struct{}, len(ec.components))
		for _, c := range ec.components {
			filter[c.ID()] = struct{}{}
		}
		handler := func(payload ...any) {
			entity := payload[0].(*Entity)
			componentID := payload[1].(TypeID)
			if len(filter) > 0 {
				if _, ok := filter[componentID]; !ok {
					return
				}
				// Filtered ComponentChanged never dedupes: appended
				// directly, bypassing buf.append's seen-set check, since
				// buf was constructed with dedupe=false whenever a filter
				// is present (see bindConfig).
				buf.events = append(buf.events, Event{Entity: entity, Component: payload[2]})
				return
			}
			buf.append(Event{Entity: entity, Component: payload[2]})
		}
		q.dispatcher.Subscribe(TopicComponentChanged, handler)
		return func() { q.dispatcher.Unsubscribe(TopicComponentChanged, handler) }
	}
	return func() {}
}

// RemoveSystem unregisters sys by identity, tearing down its event
// subscriptions.
func (s *Scheduler) RemoveSystem(sys System) {
	for i, rs := range s.systems {
		if rs.system == sys {
			for _, unsub := range rs.unsub {
				unsub()
			}
			s.systems = append(s.systems[:i], s.systems[i+1:]...)
			return
		}
	}
}

func (s *Scheduler) resort() {
	sort.SliceStable(s.systems, func(i, j int) bool {
		pi, pj := s.systems[i].priority(), s.systems[j].priority()
		if pi != pj {
			return pi < pj
		}
		return s.systems[i].order < s.systems[j].order
	})
}

// Tick runs one scheduler pass: execute every enabled, initialized system
// in priority order, clear its event buffers, then flush the Store's
// deferred removals.
func (s *Scheduler) Tick(delta, simTime float64) {
	for _, rs := range s.systems {
		if !rs.enabled() {
			continue
		}
		start := nowFunc()
		rs.system.Execute(delta, simTime)
		rs.lastExec = nowFunc().Sub(start)

		if rs.runtime != nil {
			rs.runtime.clearEvents()
		}
	}

	s.world.store.ProcessDeferred()
}

// SystemStats is one row of World.Stats()'s per-system section: execute
// time and bound query keys.
type SystemStats struct {
	Name        string
	Priority    int
	ExecuteTime time.Duration
	Queries     []string
}

func (s *Scheduler) stats() []SystemStats {
	out := make([]SystemStats, 0, len(s.systems))
	for _, rs := range s.systems {
		var queryNames []string
		if rs.runtime != nil {
			for name := range rs.runtime.queries {
				queryNames = append(queryNames, name)
			}
		}
		out = append(out, SystemStats{
			Name:        rs.name,
			Priority:    rs.priority(),
			ExecuteTime: rs.lastExec,
			Queries:     queryNames,
		})
	}
	return out
}
