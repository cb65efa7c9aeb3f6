package modhook

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestResolver_ByIDMissLogsOneWarning(t *testing.T) {
	logger := new(MockLogger)
	logger.On("Warn", "Form not found", []interface{}{"formID", "DEADBEEF"}).Return().Once()

	res := NewResolver(newFakeForms(), logger)
	form, ok := res.ByID(0xDEADBEEF)

	assert.False(t, ok)
	assert.Nil(t, form)
	logger.AssertExpectations(t)
	logger.AssertNumberOfCalls(t, "Warn", 1)
	logger.AssertNotCalled(t, "Error", mock.Anything, mock.Anything)
}

func TestResolver_ByIDHit(t *testing.T) {
	logger := &recordingLogger{}
	sword := &fakeItem{id: 0x12EB7, name: "IronSword"}
	res := NewResolver(newFakeForms(sword), logger)

	form, ok := res.ByID(0x12EB7)
	require.True(t, ok)
	assert.Same(t, sword, form)
	assert.Empty(t, logger.all())
}

func TestResolver_ByEditorID(t *testing.T) {
	logger := &recordingLogger{}
	sword := &fakeItem{id: 0x12EB7, name: "IronSword"}
	res := NewResolver(newFakeForms(sword), logger)

	form, ok := res.ByEditorID("IronSword")
	require.True(t, ok)
	assert.Equal(t, FormID(0x12EB7), form.FormID())

	_, ok = res.ByEditorID("DaedricSword")
	assert.False(t, ok)
	warns := logger.at("WARN")
	require.Len(t, warns, 1)
	assert.Equal(t, []any{"editorID", "DaedricSword"}, warns[0].args)
}

func TestResolver_Player(t *testing.T) {
	logger := &recordingLogger{}
	forms := newFakeForms()
	res := NewResolver(forms, logger)

	_, ok := res.Player()
	assert.False(t, ok)
	require.Len(t, logger.at("ERROR"), 1)
	assert.Equal(t, "Failed to get player character", logger.at("ERROR")[0].msg)

	player := &fakeActor{id: 0x14, name: "Prisoner"}
	forms.player = player
	got, ok := res.Player()
	require.True(t, ok)
	assert.Same(t, player, got)
}

func TestResolver_TypedNilPlayerIsMiss(t *testing.T) {
	var player *fakeActor
	forms := newFakeForms()
	forms.player = player

	_, ok := NewResolver(forms, nil).Player()
	assert.False(t, ok)
}

func TestResolver_ActorByID(t *testing.T) {
	logger := &recordingLogger{}
	bandit := &fakeActor{id: 0xA2C94, name: "Bandit"}
	spell := &fakeSpell{id: 0x7E8E5}
	res := NewResolver(newFakeForms(bandit, spell), logger)

	actor, ok := res.ActorByID(0xA2C94)
	require.True(t, ok)
	assert.Equal(t, "Bandit", actor.Name())

	_, ok = res.ActorByID(0x7E8E5)
	assert.False(t, ok, "a spell is not an actor")
	assert.Empty(t, logger.at("WARN"), "wrong kind is not a lookup miss")

	_, ok = res.ActorByID(0x1)
	assert.False(t, ok)
	assert.Len(t, logger.at("WARN"), 1)
}

func TestResolver_NilFormTable(t *testing.T) {
	logger := &recordingLogger{}
	res := NewResolver(nil, logger)

	_, ok := res.ByID(0x14)
	assert.False(t, ok)
	_, ok = res.ByEditorID("Player")
	assert.False(t, ok)
	assert.Len(t, logger.at("WARN"), 2)
}

func TestAs(t *testing.T) {
	var form Form = &fakeActor{id: 1, name: "A"}
	actor, ok := As[Actor](form)
	assert.True(t, ok)
	assert.Equal(t, "A", actor.Name())

	_, ok = As[BoundObject](form)
	assert.False(t, ok)

	_, ok = As[Actor](nil)
	assert.False(t, ok)
}

func TestFormID_String(t *testing.T) {
	assert.Equal(t, "DEADBEEF", FormID(0xDEADBEEF).String())
	assert.Equal(t, "00000014", FormID(0x14).String())
}
