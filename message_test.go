package modhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMessageKind(t *testing.T) {
	assert.Equal(t, MessageKind(8), MessageDataLoaded)
	assert.Equal(t, "data_loaded", MessageDataLoaded.String())
	assert.True(t, MessageNewGame.Known())

	unknown := MessageKind(42)
	assert.False(t, unknown.Known())
	assert.Equal(t, "unknown(42)", unknown.String())
}

func TestParseMessageKind(t *testing.T) {
	for kind := MessagePostLoad; kind <= MessageDataLoaded; kind++ {
		got, ok := ParseMessageKind(kind.String())
		assert.True(t, ok, kind.String())
		assert.Equal(t, kind, got)
	}

	_, ok := ParseMessageKind("reticulate_splines")
	assert.False(t, ok)
}

func TestLifecycleEventType(t *testing.T) {
	assert.Equal(t, "com.modhook.lifecycle.post_load_game", LifecycleEventType(MessagePostLoadGame))
}
