package modhook

import "fmt"

// MessageKind is the kind of a lifecycle message. The host may add kinds
// over time, so any value outside the known set must be tolerated.
type MessageKind uint32

// Known lifecycle message kinds, using the host's ordinal values.
const (
	MessagePostLoad MessageKind = iota
	MessagePostPostLoad
	MessagePreLoadGame
	MessagePostLoadGame
	MessageSaveGame
	MessageDeleteGame
	MessageInputLoaded
	MessageNewGame
	MessageDataLoaded
)

var messageKindNames = map[MessageKind]string{
	MessagePostLoad:     "post_load",
	MessagePostPostLoad: "post_post_load",
	MessagePreLoadGame:  "pre_load_game",
	MessagePostLoadGame: "post_load_game",
	MessageSaveGame:     "save_game",
	MessageDeleteGame:   "delete_game",
	MessageInputLoaded:  "input_loaded",
	MessageNewGame:      "new_game",
	MessageDataLoaded:   "data_loaded",
}

// Known reports whether k is part of the enumeration this module was built
// against.
func (k MessageKind) Known() bool {
	_, ok := messageKindNames[k]
	return ok
}

func (k MessageKind) String() string {
	if name, ok := messageKindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", uint32(k))
}

// ParseMessageKind maps a snake_case name back to its kind.
func ParseMessageKind(name string) (MessageKind, bool) {
	for kind, n := range messageKindNames {
		if n == name {
			return kind, true
		}
	}
	return 0, false
}

// Message is a lifecycle notification delivered by the host.
type Message struct {
	Sender string
	Kind   MessageKind
	Data   any
}
