package ecs

// EventTopic names one of the four per-query subscription kinds recognized
// by system Config.
type EventTopic string

const (
	EventEntityAdded     EventTopic = TopicEntityAdded
	EventEntityRemoved   EventTopic = TopicEntityRemoved
	EventEntityChanged   EventTopic = "EntityChanged"
	EventComponentChanged EventTopic = TopicComponentChanged
)

// entityKeyed topics deduplicate within a single tick; ComponentChanged
// with a component filter does not.
func (t EventTopic) entityKeyed() bool {
	switch t {
	case EventEntityAdded, EventEntityRemoved, EventEntityChanged:
		return true
	default:
		return false
	}
}

// Event is one entry appended to a system's per-query or world-level event
// buffer. Component is nil for entity-keyed topics.
type Event struct {
	Entity    *Entity
	Component any
}

// queryEventConfig is one `queries.<name>.events.<evName>` entry.
type queryEventConfig struct {
	name       string
	topic      EventTopic
	components []ComponentTypeRef // ComponentChanged filter, optional
}

// queryConfig is one `queries.<name>` entry.
type queryConfig struct {
	name   string
	specs  []Spec
	events []queryEventConfig
}

// QueryBuilder is returned by Config.Query so callers can chain `.On(...)`
// subscriptions onto the query they just declared.
type QueryBuilder struct {
	cfg *Config
	qc  *queryConfig
}

// On subscribes the system to topic for this query under evName (the key
// the system later reads via events[queryName][evName]). components
// filters a ComponentChanged subscription to specific types; EntityAdded,
// EntityRemoved, and EntityChanged ignore it.
func (qb *QueryBuilder) On(evName string, topic EventTopic, components ...ComponentTypeRef) *QueryBuilder {
	qb.qc.events = append(qb.qc.events, queryEventConfig{name: evName, topic: topic, components: components})
	return qb
}

// Config describes the queries and world-event subscriptions a System
// consumes; returned once by System.Init.
type Config struct {
	queries     []*queryConfig
	worldEvents []string
}

// NewConfig builds an empty Config.
func NewConfig() *Config {
	return &Config{}
}

// Query declares `queries.<name>`, resolving to the QueryIndex's shared
// Query object for the given specs; System.Queries()[name] is bound to its
// live entity list.
func (c *Config) Query(name string, specs ...Spec) *QueryBuilder {
	qc := &queryConfig{name: name, specs: specs}
	c.queries = append(c.queries, qc)
	return &QueryBuilder{cfg: c, qc: qc}
}

// WorldEvent subscribes the system to a world-level event bus topic.
func (c *Config) WorldEvent(name string) *Config {
	c.worldEvents = append(c.worldEvents, name)
	return c
}

// System is the lifecycle interface a host implements. Init runs once,
// may return a Config; Execute runs once per enabled tick.
type System interface {
	Init(w *World) *Config
	Execute(delta, time float64)
}

// Enabler lets a System opt out of ticks without being unregistered.
// Systems that don't implement it are always enabled.
type Enabler interface {
	Enabled() bool
}

// eventBuffer is a reused, length-reset-on-clear buffer for one
// query+evName or world-event subscription; clearEvents sets logical
// length to 0 rather than deallocating.
type eventBuffer struct {
	events []Event
	seen   map[EntityID]struct{} // nil when the topic doesn't dedupe
}

func newEventBuffer(dedupe bool) *eventBuffer {
	b := &eventBuffer{}
	if dedupe {
		b.seen = make(map[EntityID]struct{})
	}
	return b
}

func (b *eventBuffer) append(ev Event) {
	if b.seen != nil {
		if _, exists := b.seen[ev.Entity.id]; exists {
			return
		}
		b.seen[ev.Entity.id] = struct{}{}
	}
	b.events = append(b.events, ev)
}

func (b *eventBuffer) clear() {
	b.events = b.events[:0]
	for k := range b.seen {
		delete(b.seen, k)
	}
}

// Runtime is the scheduler-populated state a System reads each tick: live
// query slices, per-query-per-event and world-level event buffers. Embed
// Runtime (via SystemBase) to get readable queries, events, enabled, and
// priority without hand-writing the bookkeeping in every System.
type Runtime struct {
	queries      map[string]*Query
	queryBuffers map[string]map[string]*eventBuffer
	worldBuffers map[string]*eventBuffer

	Enabled  bool
	Priority int
}

// Queries returns the live entity slice bound to a `queries.<name>` Config
// entry. Fetched fresh from the shared Query object each call so it
// reflects membership changes committed by earlier systems within the same
// tick.
func (r *Runtime) Queries(name string) []*Entity {
	if q, ok := r.queries[name]; ok {
		return q.Entities()
	}
	return nil
}

// QueryEvents returns the buffered events for `queries.<name>.events.<evName>`.
func (r *Runtime) QueryEvents(queryName, evName string) []Event {
	if byName, ok := r.queryBuffers[queryName]; ok {
		if buf, ok := byName[evName]; ok {
			return buf.events
		}
	}
	return nil
}

// WorldEvents returns the buffered payloads for a world-level `events.<name>`
// subscription.
func (r *Runtime) WorldEvents(name string) []Event {
	if buf, ok := r.worldBuffers[name]; ok {
		return buf.events
	}
	return nil
}

func (r *Runtime) clearEvents() {
	for _, byName := range r.queryBuffers {
		for _, buf := range byName {
			buf.clear()
		}
	}
	for _, buf := range r.worldBuffers {
		buf.clear()
	}
}

// SystemBase is an embeddable convenience implementing Enabler and
// exposing Runtime's read accessors. Systems embed it and only implement
// Init/Execute.
type SystemBase struct {
	Runtime
}

// NewSystemBase builds a SystemBase enabled by default.
func NewSystemBase() SystemBase {
	return SystemBase{Runtime: Runtime{Enabled: true}}
}

func (s *SystemBase) Enabled() bool { return s.Runtime.Enabled }

// runtimeRef exposes the embedded Runtime so the Scheduler can populate
// queries/events without reflection. Systems must embed SystemBase to
// receive query/event bindings (see scheduler.go RegisterSystem); a System
// that doesn't embed it still ticks, but Init's Config is ignored.
func (s *SystemBase) runtimeRef() *Runtime { return &s.Runtime }

// runtimeHost is implemented by any System embedding SystemBase.
type runtimeHost interface {
	runtimeRef() *Runtime
}
