package ecs

import (
	"reflect"
	"sync"

	"github.com/rs/zerolog"
)

// Handler is a topic subscriber. Payload shape is topic-defined (entity,
// optional component, etc. — see query.go and store.go emit sites).
type Handler func(payload ...any)

// Dispatcher is a multi-listener, unordered-topic fan-out, used both as the
// Entity Store's global bus and as each Query's local
// EntityAdded/EntityRemoved/ComponentChanged bus.
type Dispatcher struct {
	mu      sync.Mutex
	topics  map[string][]Handler
	fired   int64
	handled int64
	log     zerolog.Logger
}

// NewDispatcher builds a Dispatcher. A zero-value logger discards output.
func NewDispatcher(log zerolog.Logger) *Dispatcher {
	return &Dispatcher{topics: make(map[string][]Handler), log: log}
}

func handlerPtr(h Handler) uintptr {
	return reflect.ValueOf(h).Pointer()
}

// Subscribe registers handler for topic. Duplicate subscriptions (same
// handler, compared by function pointer) are ignored.
func (d *Dispatcher) Subscribe(topic string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	target := handlerPtr(handler)
	for _, existing := range d.topics[topic] {
		if handlerPtr(existing) == target {
			return
		}
	}
	d.topics[topic] = append(d.topics[topic], handler)
}

// Unsubscribe removes handler from topic, if present.
func (d *Dispatcher) Unsubscribe(topic string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()

	target := handlerPtr(handler)
	handlers := d.topics[topic]
	for i, existing := range handlers {
		if handlerPtr(existing) == target {
			last := len(handlers) - 1
			handlers[i], handlers[last] = handlers[last], handlers[i]
			d.topics[topic] = handlers[:last]
			return
		}
	}
}

// Has reports whether handler is currently subscribed to topic.
func (d *Dispatcher) Has(topic string, handler Handler) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	target := handlerPtr(handler)
	for _, existing := range d.topics[topic] {
		if handlerPtr(existing) == target {
			return true
		}
	}
	return false
}

// Emit fans payload out to every handler subscribed to topic at the moment
// Emit was called (a snapshot), so a handler may unsubscribe itself or
// subscribe new handlers mid-dispatch without corrupting iteration. A
// panicking handler is caught and logged rather than propagated; remaining
// handlers still run and stats.handled is still incremented for the failing
// call.
func (d *Dispatcher) Emit(topic string, payload ...any) {
	d.mu.Lock()
	snapshot := make([]Handler, len(d.topics[topic]))
	copy(snapshot, d.topics[topic])
	d.fired++
	d.mu.Unlock()

	for _, handler := range snapshot {
		d.invoke(topic, handler, payload)
	}
}

func (d *Dispatcher) invoke(topic string, handler Handler, payload []any) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error().
				Str("topic", topic).
				Interface("panic", r).
				Msg("ecs: event handler panicked")
		}
		d.mu.Lock()
		d.handled++
		d.mu.Unlock()
	}()
	handler(payload...)
}

// Counts returns the fired/handled counters exposed via World.Stats().
func (d *Dispatcher) Counts() (fired, handled int64) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fired, d.handled
}
