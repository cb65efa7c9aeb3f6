//go:generate mockgen -destination=internal/mocks/mock_host.go -package=mocks github.com/GoCodeAlone/modhook LoadInterface,MessagingInterface,EventSourceHolder,FormTable

package modhook

import "reflect"

// LoadInterface is the service locator the host hands to Plugin.Load. Any
// accessor may return nil when the host does not provide that service.
type LoadInterface interface {
	// Messaging returns the host's lifecycle messaging interface.
	Messaging() MessagingInterface

	// EventSources returns the holder of the host's typed event sources.
	EventSources() EventSourceHolder

	// Forms returns the host's form table used to resolve handles.
	Forms() FormTable

	// RuntimeVersion reports the host build the module is loaded into.
	RuntimeVersion() Version
}

// MessageListener receives lifecycle messages. The message is only valid for
// the duration of the call.
type MessageListener func(msg *Message)

// MessagingInterface lets the module subscribe to lifecycle messages.
type MessagingInterface interface {
	// RegisterListener registers the module's single lifecycle listener and
	// reports whether the host accepted it.
	RegisterListener(listener MessageListener) bool
}

// EventSourceHolder exposes the host's typed event sources by kind. Use
// SourceOf to obtain a typed source.
type EventSourceHolder interface {
	Source(kind EventKind) any
}

// EventSource is a host-owned stream of events of type E.
type EventSource[E Event] interface {
	AddEventSink(sink EventSink[E])
	RemoveEventSink(sink EventSink[E])
}

// FormTable resolves opaque handles into host objects. Lookups return nil
// on a miss.
type FormTable interface {
	LookupByID(id FormID) Form
	LookupByEditorID(editorID string) Form
	Player() Actor
}

// SourceOf returns the holder's event source for E.
func SourceOf[E Event](holder EventSourceHolder) (EventSource[E], bool) {
	if isNil(holder) {
		return nil, false
	}
	var zero E
	source, ok := holder.Source(zero.Kind()).(EventSource[E])
	if !ok || isNil(source) {
		return nil, false
	}
	return source, true
}

// isNil reports whether v is nil or an interface wrapping a nil pointer.
// Hosts backed by pointers frequently hand back typed nils.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
		return rv.IsNil()
	default:
		return false
	}
}
