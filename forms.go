package modhook

import "fmt"

// FormID is the host-assigned identifier of a form. It is stable for the
// session but may not resolve to a live object at any given moment.
type FormID uint32

// String formats the identifier the way the host prints it.
func (id FormID) String() string {
	return fmt.Sprintf("%08X", uint32(id))
}

// FormType classifies a resolved form.
type FormType uint8

const (
	FormTypeNone FormType = iota
	FormTypeActor
	FormTypeWeapon
	FormTypeArmor
	FormTypeMisc
	FormTypeSpell
	FormTypeReference
)

func (t FormType) String() string {
	switch t {
	case FormTypeActor:
		return "actor"
	case FormTypeWeapon:
		return "weapon"
	case FormTypeArmor:
		return "armor"
	case FormTypeMisc:
		return "misc"
	case FormTypeSpell:
		return "spell"
	case FormTypeReference:
		return "reference"
	default:
		return "none"
	}
}

// Form is a host-owned object reached through the FormTable. Implementations
// belong to the host; the module only reads them during a call-in.
type Form interface {
	FormID() FormID
	FormType() FormType
	Name() string
}

// BoundObject is a form that can exist in an inventory.
type BoundObject interface {
	Form
	IsBound() bool
}

// Actor is a living (or dead) character in the world.
type Actor interface {
	Form
	IsDead() bool
	// AddObjectToContainer places count copies of item in the actor's inventory.
	AddObjectToContainer(item BoundObject, count uint32)
}

// As casts a resolved form to a more specific kind. A nil form or a form of
// the wrong kind yields the zero value and false.
func As[T Form](form Form) (T, bool) {
	var zero T
	if form == nil {
		return zero, false
	}
	typed, ok := form.(T)
	if !ok {
		return zero, false
	}
	return typed, true
}
