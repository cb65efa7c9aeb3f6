package modhook

import (
	"context"
	"fmt"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Hook runs when a lifecycle message of the kind it was registered for
// arrives. Hooks run on the host's thread and must not block.
type Hook func(ctx context.Context, msg *Message) error

// Dispatcher is the plugin's single lifecycle listener. Its only state is
// which sinks have been registered; once every enabled sink is registered
// the dispatcher is initialized and further DataLoaded messages are no-ops.
type Dispatcher struct {
	host      LoadInterface
	registry  *SinkRegistry
	enabled   SinkConfig
	logger    Logger
	tracer    trace.Tracer
	observers *observers

	hooksMu sync.RWMutex
	hooks   map[MessageKind][]Hook

	mu          sync.Mutex
	registering bool
	initialized bool
	closed      bool
	registered  map[EventKind]bool
}

func newDispatcher(host LoadInterface, registry *SinkRegistry, enabled SinkConfig, logger Logger, tracer trace.Tracer, obs *observers) *Dispatcher {
	return &Dispatcher{
		host:       host,
		registry:   registry,
		enabled:    enabled,
		logger:     logger,
		tracer:     tracer,
		observers:  obs,
		hooks:      make(map[MessageKind][]Hook),
		registered: make(map[EventKind]bool),
	}
}

// OnMessage adds a hook for kind. Hooks for DataLoaded run only once every
// enabled sink is registered; a DataLoaded that leaves sinks pending skips
// them.
func (d *Dispatcher) OnMessage(kind MessageKind, hook Hook) {
	if hook == nil {
		return
	}
	d.hooksMu.Lock()
	defer d.hooksMu.Unlock()
	d.hooks[kind] = append(d.hooks[kind], hook)
}

// Initialized reports whether every enabled sink has been registered.
func (d *Dispatcher) Initialized() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.initialized
}

// Handle is the MessageListener given to the host. Nothing it does can
// panic back into the host.
func (d *Dispatcher) Handle(msg *Message) {
	var span trace.Span
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: lifecycle: %v", ErrCallInPanic, r)
			d.logger.Error("Lifecycle handler panicked", "error", err)
			recordSpanError(span, err)
		}
	}()

	if msg == nil || !msg.Kind.Known() || d.isClosed() {
		return
	}

	var ctx context.Context
	ctx, span = d.tracer.Start(context.Background(), spanLifecycle,
		trace.WithAttributes(attribute.String("kind", msg.Kind.String())))
	defer span.End()

	d.logger.Info("Lifecycle message received", "kind", msg.Kind.String(), "sender", msg.Sender)

	if msg.Kind != MessageDataLoaded || d.initialize(ctx) {
		d.runHooks(ctx, msg)
	}
	d.observers.emit(ctx, LifecycleEventType(msg.Kind), map[string]any{
		"kind":   msg.Kind.String(),
		"sender": msg.Sender,
	})
}

// initialize registers every enabled sink that is not registered yet and
// reports whether the dispatcher is initialized afterwards. The lock is
// released while calling into the host.
func (d *Dispatcher) initialize(ctx context.Context) (ok bool) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return false
	}
	if d.initialized {
		d.mu.Unlock()
		d.logger.Debug("Event sinks already registered")
		return true
	}
	if d.registering {
		d.mu.Unlock()
		d.logger.Debug("Event sink registration already in progress")
		return false
	}
	d.registering = true
	pending := d.pendingLocked()
	d.mu.Unlock()

	var done []EventKind
	// Runs even if the host panics mid-registration.
	defer func() {
		d.mu.Lock()
		d.registering = false
		if d.closed {
			d.mu.Unlock()
			// Shut down while registering; these sinks were never recorded.
			d.removeSinks(nil, done)
			return
		}
		for _, kind := range done {
			d.registered[kind] = true
		}
		d.initialized = len(d.pendingLocked()) == 0
		ok = d.initialized
		d.mu.Unlock()
	}()

	d.registerSinks(ctx, pending, &done)
	return false
}

func (d *Dispatcher) isClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

func (d *Dispatcher) pendingLocked() []EventKind {
	var pending []EventKind
	if d.enabled.Hit && !d.registered[EventKindHit] {
		pending = append(pending, EventKindHit)
	}
	if d.enabled.Equip && !d.registered[EventKindEquip] {
		pending = append(pending, EventKindEquip)
	}
	return pending
}

// registerSinks records each kind in done as soon as the host accepts it.
func (d *Dispatcher) registerSinks(ctx context.Context, pending []EventKind, done *[]EventKind) {
	if len(pending) == 0 {
		return
	}
	holder := d.host.EventSources()
	if isNil(holder) {
		d.logger.Error("Failed to get event source holder", "error", ErrEventSourceUnavailable)
		return
	}

	for _, kind := range pending {
		if d.isClosed() {
			break
		}
		var err error
		switch kind {
		case EventKindHit:
			err = AddSink[HitEvent](holder, d.registry.Hit())
		case EventKindEquip:
			err = AddSink[EquipEvent](holder, d.registry.Equip())
		}
		if err != nil {
			d.logger.Error("Failed to register event sink", "sink", string(kind), "error", err)
			continue
		}
		d.logger.Info("Registered event handler", "sink", string(kind))
		d.observers.emit(ctx, EventTypeSinkRegistered, map[string]any{"sink": string(kind)})
		*done = append(*done, kind)
	}
}

// shutdown retires the dispatcher and removes its sinks from holder, or from
// the host's holder when holder is nil. The host keeps the listener, since
// messaging has no way to remove one, so every later message is dropped.
// No lock is held while the host removes the sinks.
func (d *Dispatcher) shutdown(holder EventSourceHolder) {
	d.mu.Lock()
	if d.closed {
		d.mu.Unlock()
		return
	}
	d.closed = true
	d.initialized = false
	kinds := make([]EventKind, 0, len(d.registered))
	for kind := range d.registered {
		kinds = append(kinds, kind)
	}
	clear(d.registered)
	d.mu.Unlock()

	d.removeSinks(holder, kinds)
}

func (d *Dispatcher) removeSinks(holder EventSourceHolder, kinds []EventKind) {
	if len(kinds) == 0 {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Removing event sinks panicked", "error", fmt.Errorf("%w: unregister: %v", ErrCallInPanic, r))
		}
	}()
	if isNil(holder) && !isNil(d.host) {
		holder = d.host.EventSources()
	}
	if isNil(holder) {
		d.logger.Warn("Cannot remove event sinks", "error", ErrEventSourceUnavailable)
		return
	}
	for _, kind := range kinds {
		var err error
		switch kind {
		case EventKindHit:
			err = RemoveSink[HitEvent](holder, d.registry.Hit())
		case EventKindEquip:
			err = RemoveSink[EquipEvent](holder, d.registry.Equip())
		}
		if err != nil {
			d.logger.Warn("Failed to remove event sink", "sink", string(kind), "error", err)
			continue
		}
		d.logger.Debug("Removed event handler", "sink", string(kind))
	}
}

func (d *Dispatcher) runHooks(ctx context.Context, msg *Message) {
	d.hooksMu.RLock()
	hooks := append([]Hook(nil), d.hooks[msg.Kind]...)
	d.hooksMu.RUnlock()

	for i, hook := range hooks {
		d.runHook(ctx, i, hook, msg)
	}
}

func (d *Dispatcher) runHook(ctx context.Context, index int, hook Hook, msg *Message) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("Lifecycle hook panicked", "kind", msg.Kind.String(), "hook", index, "panic", r)
		}
	}()
	if err := hook(ctx, msg); err != nil {
		d.logger.Error("Lifecycle hook failed", "kind", msg.Kind.String(), "hook", index, "error", err)
	}
}
