package modhook

// EventKind identifies a typed event stream exposed by the host.
type EventKind string

const (
	EventKindHit   EventKind = "hit"
	EventKindEquip EventKind = "equip"
)

// Event is implemented by every event record type. Kind must work on the
// zero value so the kind can be derived from a type parameter.
type Event interface {
	Kind() EventKind
}

// HitFlag is a bit set describing how a hit landed.
type HitFlag uint32

const (
	HitFlagPowerAttack HitFlag = 1 << iota
	HitFlagSneakAttack
	HitFlagBashAttack
	HitFlagHitBlocked
)

// Has reports whether all bits of flag are set.
func (f HitFlag) Has(flag HitFlag) bool {
	return f&flag == flag
}

// HitEvent describes one entity striking another. The record is owned by the
// host and is only valid for the duration of ProcessEvent.
type HitEvent struct {
	Target     FormID
	Cause      FormID
	Source     FormID
	Projectile FormID
	Damage     float32
	Flags      HitFlag
}

func (HitEvent) Kind() EventKind { return EventKindHit }

// EquipEvent describes an actor equipping or unequipping an item. The record
// is owned by the host and is only valid for the duration of ProcessEvent.
type EquipEvent struct {
	Actor        FormID
	BaseObject   FormID
	OriginalRefr FormID
	UniqueID     uint16
	Equipped     bool
}

func (EquipEvent) Kind() EventKind { return EventKindEquip }
