package modhook

import (
	"sync"

	"go.opentelemetry.io/otel/trace/noop"
)

// SinkRegistry holds exactly one sink per event kind. Sinks are built on
// first access; the pointer returned is the sink's identity with the host,
// so repeated calls always return the same value.
type SinkRegistry struct {
	mu    sync.Mutex
	deps  SinkDeps
	sinks map[EventKind]any
}

// NewSinkRegistry creates a registry whose sinks share deps.
func NewSinkRegistry(deps SinkDeps) *SinkRegistry {
	if deps.Logger == nil {
		deps.Logger = nopLogger{}
	}
	if deps.Resolver == nil {
		deps.Resolver = NewResolver(nil, deps.Logger)
	}
	if deps.Tracer == nil {
		deps.Tracer = noop.NewTracerProvider().Tracer(tracerName)
	}
	if deps.Deferrer == nil {
		deps.Deferrer = noDeferrer{}
	}
	return &SinkRegistry{deps: deps, sinks: make(map[EventKind]any)}
}

// Hit returns the hit sink singleton.
func (r *SinkRegistry) Hit() *HitSink {
	return sinkFor(r, EventKindHit, newHitSink)
}

// Equip returns the equip sink singleton.
func (r *SinkRegistry) Equip() *EquipSink {
	return sinkFor(r, EventKindEquip, newEquipSink)
}

// Kinds returns the kinds whose sinks have been built.
func (r *SinkRegistry) Kinds() []EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]EventKind, 0, len(r.sinks))
	for k := range r.sinks {
		kinds = append(kinds, k)
	}
	return kinds
}

func sinkFor[S any](r *SinkRegistry, kind EventKind, build func(SinkDeps) *S) *S {
	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.sinks[kind]; ok {
		return existing.(*S)
	}
	sink := build(r.deps)
	r.sinks[kind] = sink
	return sink
}
