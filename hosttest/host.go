// Package hosttest provides an in-memory host for exercising a plugin
// without a game process. It implements every host interface, records what
// the plugin registers and lets tests deliver lifecycle messages and fire
// events in any order.
package hosttest

import (
	"sync"

	"github.com/GoCodeAlone/modhook"
)

// DefaultRuntime is the build reported by a Host unless overridden.
var DefaultRuntime = modhook.Version{Major: 1, Minor: 6, Patch: 1170}

// Messaging records registered listeners and delivers messages to them.
type Messaging struct {
	mu        sync.Mutex
	listeners []modhook.MessageListener
	reject    bool
	calls     int
}

func (m *Messaging) RegisterListener(listener modhook.MessageListener) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.reject || listener == nil {
		return false
	}
	m.listeners = append(m.listeners, listener)
	return true
}

// Deliver sends msg to every listener, in registration order.
func (m *Messaging) Deliver(msg *modhook.Message) {
	m.mu.Lock()
	listeners := append([]modhook.MessageListener(nil), m.listeners...)
	m.mu.Unlock()
	for _, listener := range listeners {
		listener(msg)
	}
}

// ListenerCount returns how many listeners were accepted.
func (m *Messaging) ListenerCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.listeners)
}

// RegisterCalls returns how many times RegisterListener was called.
func (m *Messaging) RegisterCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

// Host is an in-memory modhook.LoadInterface.
type Host struct {
	Msgs     *Messaging
	Events   *Sources
	Table    *Forms
	Runtime  modhook.Version
	noMsgs   bool
	noEvents bool
}

// Option configures a Host.
type Option func(*Host)

// WithoutMessaging makes Messaging return nil.
func WithoutMessaging() Option {
	return func(h *Host) { h.noMsgs = true }
}

// RejectListener makes RegisterListener return false.
func RejectListener() Option {
	return func(h *Host) { h.Msgs.reject = true }
}

// WithoutEventSources makes EventSources return nil until
// EnableEventSources is called.
func WithoutEventSources() Option {
	return func(h *Host) { h.noEvents = true }
}

// WithRuntime sets the build reported by RuntimeVersion.
func WithRuntime(v modhook.Version) Option {
	return func(h *Host) { h.Runtime = v }
}

// New creates a host with empty forms and one source per event kind.
func New(opts ...Option) *Host {
	h := &Host{
		Msgs:    &Messaging{},
		Events:  NewSources(),
		Table:   NewForms(),
		Runtime: DefaultRuntime,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *Host) Messaging() modhook.MessagingInterface {
	if h.noMsgs {
		return nil
	}
	return h.Msgs
}

func (h *Host) EventSources() modhook.EventSourceHolder {
	if h.noEvents {
		return nil
	}
	return h.Events
}

func (h *Host) Forms() modhook.FormTable { return h.Table }

func (h *Host) RuntimeVersion() modhook.Version { return h.Runtime }

// EnableEventSources undoes WithoutEventSources.
func (h *Host) EnableEventSources() { h.noEvents = false }

// Send delivers a lifecycle message of kind from the host itself.
func (h *Host) Send(kind modhook.MessageKind) {
	h.Msgs.Deliver(&modhook.Message{Sender: "host", Kind: kind})
}

// FireHit delivers a hit event to the registered hit sinks.
func (h *Host) FireHit(event modhook.HitEvent) modhook.NotifyControl {
	return h.Events.Hit.Fire(&event)
}

// FireEquip delivers an equip event to the registered equip sinks.
func (h *Host) FireEquip(event modhook.EquipEvent) modhook.NotifyControl {
	return h.Events.Equip.Fire(&event)
}
