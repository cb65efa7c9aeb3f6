// Package modhook provides the event subscription and lifecycle dispatch
// layer of a game host extension.
//
// The host loads the extension in two calls: Plugin.Query returns the
// capability descriptor and Plugin.Load receives the host's service
// locator. Load registers a single lifecycle listener; when the host
// reports that its data has loaded, the listener registers one event sink
// per event kind with the host's event sources. Sinks resolve the opaque
// handles carried by each event through a Resolver before handing them to
// a pluggable reaction.
//
// Basic usage:
//
//	cfg, err := modhook.LoadConfig(feeders.NewYamlFeeder("plugin.yaml"), feeders.NewEnvFeeder())
//	plugin, err := modhook.NewPlugin(cfg, modhook.WithHitReaction(myReaction))
//	descriptor := plugin.Query()
//	ok := plugin.Load(host)
//
// Lifecycle messages and sink registrations are also published as
// CloudEvents to any registered Observer.
package modhook

import (
	"context"
	"sync"
	"time"

	cloudevents "github.com/cloudevents/sdk-go/v2"
)

// Observer is notified of plugin events. Observers are called on the host's
// call-in thread and must return quickly; slow work belongs in a Deferrer.
type Observer interface {
	// OnEvent is called for every event the observer subscribed to.
	OnEvent(ctx context.Context, event cloudevents.Event) error

	// ObserverID returns a unique identifier for this observer.
	ObserverID() string
}

// Subject defines the interface for objects that can be observed.
type Subject interface {
	// RegisterObserver adds an observer. With no eventTypes the observer
	// receives every event.
	RegisterObserver(observer Observer, eventTypes ...string) error

	// UnregisterObserver removes an observer. It is idempotent.
	UnregisterObserver(observer Observer) error

	// NotifyObservers sends an event to all interested observers.
	NotifyObservers(ctx context.Context, event cloudevents.Event) error

	// GetObservers returns information about registered observers.
	GetObservers() []ObserverInfo
}

// ObserverInfo describes a registered observer.
type ObserverInfo struct {
	ID           string    `json:"id"`
	EventTypes   []string  `json:"eventTypes"`
	RegisteredAt time.Time `json:"registeredAt"`
}

// CloudEvent types emitted by the plugin.
const (
	EventTypePluginLoaded     = "com.modhook.plugin.loaded"
	EventTypePluginLoadFailed = "com.modhook.plugin.load_failed"
	EventTypeSinkRegistered   = "com.modhook.sink.registered"
	// EventTypeLifecyclePrefix is followed by the message kind name, for
	// example com.modhook.lifecycle.data_loaded.
	EventTypeLifecyclePrefix = "com.modhook.lifecycle."
)

// LifecycleEventType returns the CloudEvent type used for a message kind.
func LifecycleEventType(kind MessageKind) string {
	return EventTypeLifecyclePrefix + kind.String()
}

type observerRegistration struct {
	observer     Observer
	eventTypes   map[string]bool
	registeredAt time.Time
}

// observers is the Subject implementation shared by Plugin and Dispatcher.
type observers struct {
	mu     sync.RWMutex
	byID   map[string]*observerRegistration
	logger Logger
}

func newObservers(logger Logger) *observers {
	return &observers{byID: make(map[string]*observerRegistration), logger: logger}
}

func (o *observers) setLogger(logger Logger) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.logger = logger
}

func (o *observers) log() Logger {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.logger
}

func (o *observers) RegisterObserver(observer Observer, eventTypes ...string) error {
	if observer == nil {
		return ErrObserverNil
	}
	o.mu.Lock()
	defer o.mu.Unlock()

	eventTypeMap := make(map[string]bool, len(eventTypes))
	for _, eventType := range eventTypes {
		eventTypeMap[eventType] = true
	}
	o.byID[observer.ObserverID()] = &observerRegistration{
		observer:     observer,
		eventTypes:   eventTypeMap,
		registeredAt: time.Now(),
	}
	o.logger.Debug("Observer registered", "observerID", observer.ObserverID(), "eventTypes", eventTypes)
	return nil
}

func (o *observers) UnregisterObserver(observer Observer) error {
	if observer == nil {
		return nil
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.byID, observer.ObserverID())
	return nil
}

// NotifyObservers delivers synchronously, in no particular order. A failing
// or panicking observer is logged and does not stop the others.
func (o *observers) NotifyObservers(ctx context.Context, event cloudevents.Event) error {
	if event.Time().IsZero() {
		event.SetTime(time.Now())
	}
	if err := ValidateCloudEvent(event); err != nil {
		o.log().Error("Invalid CloudEvent", "eventType", event.Type(), "error", err)
		return err
	}

	o.mu.RLock()
	targets := make([]*observerRegistration, 0, len(o.byID))
	for _, reg := range o.byID {
		if len(reg.eventTypes) > 0 && !reg.eventTypes[event.Type()] {
			continue
		}
		targets = append(targets, reg)
	}
	o.mu.RUnlock()

	for _, reg := range targets {
		o.deliver(ctx, reg.observer, event)
	}
	return nil
}

func (o *observers) deliver(ctx context.Context, observer Observer, event cloudevents.Event) {
	defer func() {
		if r := recover(); r != nil {
			o.log().Error("Observer panicked", "observerID", observer.ObserverID(), "event", event.Type(), "panic", r)
		}
	}()
	if err := observer.OnEvent(ctx, event); err != nil {
		o.log().Error("Observer error", "observerID", observer.ObserverID(), "event", event.Type(), "error", err)
	}
}

func (o *observers) GetObservers() []ObserverInfo {
	o.mu.RLock()
	defer o.mu.RUnlock()
	info := make([]ObserverInfo, 0, len(o.byID))
	for _, reg := range o.byID {
		eventTypes := make([]string, 0, len(reg.eventTypes))
		for eventType := range reg.eventTypes {
			eventTypes = append(eventTypes, eventType)
		}
		info = append(info, ObserverInfo{
			ID:           reg.observer.ObserverID(),
			EventTypes:   eventTypes,
			RegisteredAt: reg.registeredAt,
		})
	}
	return info
}

func (o *observers) emit(ctx context.Context, eventType string, data any) {
	o.mu.RLock()
	empty := len(o.byID) == 0
	o.mu.RUnlock()
	if empty {
		return
	}
	if err := o.NotifyObservers(ctx, NewCloudEvent(eventType, eventSource, data, nil)); err != nil {
		o.log().Debug("Failed to notify observers", "event", eventType, "error", err)
	}
}

// FunctionalObserver adapts a function to the Observer interface.
type FunctionalObserver struct {
	id      string
	handler func(ctx context.Context, event cloudevents.Event) error
}

// NewFunctionalObserver creates an observer backed by handler.
func NewFunctionalObserver(id string, handler func(ctx context.Context, event cloudevents.Event) error) Observer {
	return &FunctionalObserver{id: id, handler: handler}
}

func (f *FunctionalObserver) OnEvent(ctx context.Context, event cloudevents.Event) error {
	return f.handler(ctx, event)
}

func (f *FunctionalObserver) ObserverID() string {
	return f.id
}
