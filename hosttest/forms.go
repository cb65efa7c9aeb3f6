package hosttest

import (
	"sync"

	"github.com/GoCodeAlone/modhook"
)

// Actor is an in-memory actor.
type Actor struct {
	ID     modhook.FormID
	Editor string
	Label  string

	mu        sync.Mutex
	dead      bool
	inventory map[modhook.FormID]uint32
}

func (a *Actor) FormID() modhook.FormID     { return a.ID }
func (a *Actor) FormType() modhook.FormType { return modhook.FormTypeActor }
func (a *Actor) Name() string               { return a.Label }

func (a *Actor) IsDead() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.dead
}

// Kill marks the actor dead.
func (a *Actor) Kill() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.dead = true
}

func (a *Actor) AddObjectToContainer(item modhook.BoundObject, count uint32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.inventory == nil {
		a.inventory = make(map[modhook.FormID]uint32)
	}
	a.inventory[item.FormID()] += count
}

// ItemCount returns how many of item the actor carries.
func (a *Actor) ItemCount(item modhook.FormID) uint32 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inventory[item]
}

// Item is an in-memory inventory object such as a weapon or armor piece.
type Item struct {
	ID     modhook.FormID
	Editor string
	Label  string
	Type   modhook.FormType
}

func (i *Item) FormID() modhook.FormID     { return i.ID }
func (i *Item) FormType() modhook.FormType { return i.Type }
func (i *Item) Name() string               { return i.Label }
func (i *Item) IsBound() bool              { return true }

// Spell is a form that is neither an actor nor an inventory object.
type Spell struct {
	ID     modhook.FormID
	Editor string
	Label  string
}

func (s *Spell) FormID() modhook.FormID     { return s.ID }
func (s *Spell) FormType() modhook.FormType { return modhook.FormTypeSpell }
func (s *Spell) Name() string               { return s.Label }

// Forms is an in-memory FormTable. Lookups are counted so tests can assert
// that no resolution was attempted.
type Forms struct {
	mu       sync.RWMutex
	byID     map[modhook.FormID]modhook.Form
	byEditor map[string]modhook.Form
	player   *Actor
	lookups  int
}

// NewForms creates an empty form table.
func NewForms() *Forms {
	return &Forms{
		byID:     make(map[modhook.FormID]modhook.Form),
		byEditor: make(map[string]modhook.Form),
	}
}

// Add registers form under its ID and, when non-empty, its editor ID.
func (f *Forms) Add(form modhook.Form, editorID string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[form.FormID()] = form
	if editorID != "" {
		f.byEditor[editorID] = form
	}
}

// AddActor creates and registers an actor.
func (f *Forms) AddActor(id modhook.FormID, editorID, name string) *Actor {
	a := &Actor{ID: id, Editor: editorID, Label: name}
	f.Add(a, editorID)
	return a
}

// AddItem creates and registers an inventory item.
func (f *Forms) AddItem(id modhook.FormID, editorID, name string, typ modhook.FormType) *Item {
	i := &Item{ID: id, Editor: editorID, Label: name, Type: typ}
	f.Add(i, editorID)
	return i
}

// SetPlayer registers a as the player character.
func (f *Forms) SetPlayer(a *Actor) {
	f.Add(a, a.Editor)
	f.mu.Lock()
	defer f.mu.Unlock()
	f.player = a
}

// Remove deletes a form, simulating an object that was unloaded.
func (f *Forms) Remove(id modhook.FormID) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if form, ok := f.byID[id]; ok {
		for editorID, other := range f.byEditor {
			if other == form {
				delete(f.byEditor, editorID)
			}
		}
	}
	delete(f.byID, id)
}

func (f *Forms) LookupByID(id modhook.FormID) modhook.Form {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	form, ok := f.byID[id]
	if !ok {
		return nil
	}
	return form
}

func (f *Forms) LookupByEditorID(editorID string) modhook.Form {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.lookups++
	form, ok := f.byEditor[editorID]
	if !ok {
		return nil
	}
	return form
}

func (f *Forms) Player() modhook.Actor {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.player == nil {
		return nil
	}
	return f.player
}

// Lookups returns how many ID and editor ID lookups were made.
func (f *Forms) Lookups() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.lookups
}
