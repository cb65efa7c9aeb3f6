package hosttest

import (
	"sync"

	"github.com/GoCodeAlone/modhook"
)

// Source is an in-memory event source. Like the real host it ignores a sink
// that is already registered, but every AddEventSink call is counted.
type Source[E modhook.Event] struct {
	mu      sync.Mutex
	sinks   []modhook.EventSink[E]
	adds    int
	removes int
}

func (s *Source[E]) AddEventSink(sink modhook.EventSink[E]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.adds++
	for _, existing := range s.sinks {
		if existing == sink {
			return
		}
	}
	s.sinks = append(s.sinks, sink)
}

func (s *Source[E]) RemoveEventSink(sink modhook.EventSink[E]) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removes++
	for i, existing := range s.sinks {
		if existing == sink {
			s.sinks = append(s.sinks[:i], s.sinks[i+1:]...)
			return
		}
	}
}

// Fire delivers event to the registered sinks in registration order and
// stops at the first sink that returns Stop.
func (s *Source[E]) Fire(event *E) modhook.NotifyControl {
	s.mu.Lock()
	sinks := append([]modhook.EventSink[E](nil), s.sinks...)
	s.mu.Unlock()

	for _, sink := range sinks {
		if sink.ProcessEvent(event, s) == modhook.Stop {
			return modhook.Stop
		}
	}
	return modhook.Continue
}

// AddCalls returns how many times AddEventSink was called.
func (s *Source[E]) AddCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.adds
}

// RemoveCalls returns how many times RemoveEventSink was called.
func (s *Source[E]) RemoveCalls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removes
}

// SinkCount returns the number of registered sinks.
func (s *Source[E]) SinkCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sinks)
}

// Sources is the host's event source holder.
type Sources struct {
	Hit   *Source[modhook.HitEvent]
	Equip *Source[modhook.EquipEvent]
}

// NewSources creates a holder with one source per event kind.
func NewSources() *Sources {
	return &Sources{
		Hit:   &Source[modhook.HitEvent]{},
		Equip: &Source[modhook.EquipEvent]{},
	}
}

func (s *Sources) Source(kind modhook.EventKind) any {
	switch kind {
	case modhook.EventKindHit:
		if s.Hit == nil {
			return nil
		}
		return s.Hit
	case modhook.EventKindEquip:
		if s.Equip == nil {
			return nil
		}
		return s.Equip
	default:
		return nil
	}
}
