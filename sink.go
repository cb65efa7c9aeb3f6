package modhook

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/trace"
)

// NotifyControl tells the host whether later sinks for the same event should
// still be notified.
type NotifyControl uint8

const (
	// Continue lets the host notify the remaining sinks.
	Continue NotifyControl = iota
	// Stop prevents sinks registered after this one from seeing the event.
	Stop
)

func (c NotifyControl) String() string {
	if c == Stop {
		return "stop"
	}
	return "continue"
}

// EventSink observes one event type. The event pointer is borrowed from the
// host and must not be retained after ProcessEvent returns. Implementations
// must tolerate concurrent invocation.
type EventSink[E Event] interface {
	ProcessEvent(event *E, source EventSource[E]) NotifyControl
}

// Deferrer queues work that is too slow to run on a host call-in.
type Deferrer interface {
	Defer(name string, fn func(ctx context.Context) error) error
}

type noDeferrer struct{}

func (noDeferrer) Defer(string, func(context.Context) error) error { return ErrTasksDisabled }

// ReactionContext is what a reaction may use while handling one event.
type ReactionContext struct {
	Context  context.Context
	Resolver *Resolver
	Logger   Logger
	Deferrer Deferrer
}

// SinkDeps are shared by every sink built by a SinkRegistry.
type SinkDeps struct {
	Resolver      *Resolver
	Logger        Logger
	Tracer        trace.Tracer
	Deferrer      Deferrer
	HitReaction   HitReaction
	EquipReaction EquipReaction
}

// noCopy may be embedded into structs which must not be copied after first
// use. go vet's copylocks check reports copies.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// AddSink registers sink with the holder's source for E.
func AddSink[E Event](holder EventSourceHolder, sink EventSink[E]) error {
	source, ok := SourceOf[E](holder)
	if !ok {
		var zero E
		return fmt.Errorf("%w: %s", ErrEventSourceMissing, zero.Kind())
	}
	source.AddEventSink(sink)
	return nil
}

// RemoveSink unregisters sink from the holder's source for E.
func RemoveSink[E Event](holder EventSourceHolder, sink EventSink[E]) error {
	source, ok := SourceOf[E](holder)
	if !ok {
		var zero E
		return fmt.Errorf("%w: %s", ErrEventSourceMissing, zero.Kind())
	}
	source.RemoveEventSink(sink)
	return nil
}

// recoverSink turns a panic inside a sink into a log entry. It must be
// deferred directly by ProcessEvent.
func recoverSink(logger Logger, kind EventKind, span trace.Span) {
	if r := recover(); r != nil {
		err := fmt.Errorf("%w: sink %s: %v", ErrCallInPanic, kind, r)
		logger.Error("Event sink panicked", "sink", string(kind), "error", err)
		recordSpanError(span, err)
	}
}
