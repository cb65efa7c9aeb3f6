package modhook

import (
	"sync"
)

type fakeActor struct {
	id    FormID
	name  string
	dead  bool
	items map[FormID]uint32
}

func (a *fakeActor) FormID() FormID     { return a.id }
func (a *fakeActor) FormType() FormType { return FormTypeActor }
func (a *fakeActor) Name() string       { return a.name }
func (a *fakeActor) IsDead() bool       { return a.dead }
func (a *fakeActor) AddObjectToContainer(item BoundObject, count uint32) {
	if a.items == nil {
		a.items = make(map[FormID]uint32)
	}
	a.items[item.FormID()] += count
}

type fakeItem struct {
	id   FormID
	name string
}

func (i *fakeItem) FormID() FormID     { return i.id }
func (i *fakeItem) FormType() FormType { return FormTypeWeapon }
func (i *fakeItem) Name() string       { return i.name }
func (i *fakeItem) IsBound() bool      { return true }

type fakeSpell struct {
	id FormID
}

func (s *fakeSpell) FormID() FormID     { return s.id }
func (s *fakeSpell) FormType() FormType { return FormTypeSpell }
func (s *fakeSpell) Name() string       { return "Spell" }

type fakeForms struct {
	mu       sync.Mutex
	byID     map[FormID]Form
	byEditor map[string]Form
	player   Actor
	lookups  int
}

func newFakeForms(forms ...Form) *fakeForms {
	f := &fakeForms{byID: make(map[FormID]Form), byEditor: make(map[string]Form)}
	for _, form := range forms {
		f.byID[form.FormID()] = form
		f.byEditor[form.Name()] = form
	}
	return f
}

func (f *fakeForms) LookupByID(id FormID) Form {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if form, ok := f.byID[id]; ok {
		return form
	}
	return nil
}

func (f *fakeForms) LookupByEditorID(editorID string) Form {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	if form, ok := f.byEditor[editorID]; ok {
		return form
	}
	return nil
}

func (f *fakeForms) Player() Actor { return f.player }

func (f *fakeForms) lookupCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lookups
}

type fakeSource[E Event] struct {
	mu      sync.Mutex
	sinks   []EventSink[E]
	adds    int
	removes int

	// Called after the sink list changes, without the source lock held.
	onAdd    func()
	onRemove func()
}

func (s *fakeSource[E]) AddEventSink(sink EventSink[E]) {
	s.mu.Lock()
	s.adds++
	s.sinks = append(s.sinks, sink)
	s.mu.Unlock()
	if s.onAdd != nil {
		s.onAdd()
	}
}

func (s *fakeSource[E]) RemoveEventSink(sink EventSink[E]) {
	s.mu.Lock()
	s.removes++
	for i, existing := range s.sinks {
		if existing == sink {
			s.sinks = append(s.sinks[:i], s.sinks[i+1:]...)
			break
		}
	}
	s.mu.Unlock()
	if s.onRemove != nil {
		s.onRemove()
	}
}

func (s *fakeSource[E]) sinkCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sinks)
}

func (s *fakeSource[E]) addCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.adds
}

type fakeHolder struct {
	hit   *fakeSource[HitEvent]
	equip *fakeSource[EquipEvent]
}

func newFakeHolder() *fakeHolder {
	return &fakeHolder{hit: &fakeSource[HitEvent]{}, equip: &fakeSource[EquipEvent]{}}
}

func (h *fakeHolder) Source(kind EventKind) any {
	switch kind {
	case EventKindHit:
		return h.hit
	case EventKindEquip:
		return h.equip
	}
	return nil
}

type fakeMessaging struct {
	listeners []MessageListener
	reject    bool
}

func (m *fakeMessaging) RegisterListener(listener MessageListener) bool {
	if m.reject {
		return false
	}
	m.listeners = append(m.listeners, listener)
	return true
}

func (m *fakeMessaging) send(kind MessageKind) {
	for _, l := range m.listeners {
		l(&Message{Sender: "test", Kind: kind})
	}
}

type fakeHost struct {
	messaging *fakeMessaging
	holder    EventSourceHolder
	forms     *fakeForms
	runtime   Version
	holderHit int
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		messaging: &fakeMessaging{},
		holder:    newFakeHolder(),
		forms:     newFakeForms(),
		runtime:   Version{Major: 1, Minor: 6, Patch: 1170},
	}
}

func (h *fakeHost) Messaging() MessagingInterface {
	if h.messaging == nil {
		return nil
	}
	return h.messaging
}

func (h *fakeHost) EventSources() EventSourceHolder {
	h.holderHit++
	return h.holder
}

func (h *fakeHost) Forms() FormTable       { return h.forms }
func (h *fakeHost) RuntimeVersion() Version { return h.runtime }

func (h *fakeHost) sources() *fakeHolder {
	holder, _ := h.holder.(*fakeHolder)
	return holder
}
