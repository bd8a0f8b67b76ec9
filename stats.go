package ecs

// Stats is the nested-counter snapshot the runtime exposes: per-system
// execute time and query keys, per-query entity count, per-component-type
// pool size and used count, and event dispatcher fired/handled counts. See
// DESIGN.md for the concrete shape decision.
type Stats struct {
	Systems    []SystemStats
	Queries    []QueryStats
	Components []ComponentStats
	Events     EventStats
}

// EventStats reports the World-level event bus's fired/handled counters.
type EventStats struct {
	Fired   int64
	Handled int64
}

// Stats snapshots the World's current counters.
func (w *World) Stats() Stats {
	fired, handled := w.dispatcher.Counts()
	return Stats{
		Systems:    w.scheduler.stats(),
		Queries:    w.store.queryIndex.stats(),
		Components: w.registry.stats(),
		Events:     EventStats{Fired: fired, Handled: handled},
	}
}
