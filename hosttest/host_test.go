package hosttest

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GoCodeAlone/modhook"
)

type countingSink struct {
	events int
	ctl    modhook.NotifyControl
}

func (s *countingSink) ProcessEvent(*modhook.HitEvent, modhook.EventSource[modhook.HitEvent]) modhook.NotifyControl {
	s.events++
	return s.ctl
}

func TestSource_DedupesAndStops(t *testing.T) {
	src := &Source[modhook.HitEvent]{}
	first := &countingSink{ctl: modhook.Stop}
	second := &countingSink{}

	src.AddEventSink(first)
	src.AddEventSink(first)
	src.AddEventSink(second)
	assert.Equal(t, 3, src.AddCalls())
	assert.Equal(t, 2, src.SinkCount())

	assert.Equal(t, modhook.Stop, src.Fire(&modhook.HitEvent{}))
	assert.Equal(t, 1, first.events)
	assert.Zero(t, second.events)

	src.RemoveEventSink(first)
	assert.Equal(t, modhook.Continue, src.Fire(&modhook.HitEvent{}))
	assert.Equal(t, 1, second.events)
	assert.Equal(t, 1, src.RemoveCalls())
}

func TestHost_Options(t *testing.T) {
	h := New(WithoutMessaging(), WithoutEventSources(), WithRuntime(modhook.Version{Major: 1, Minor: 5, Patch: 97}))
	assert.Nil(t, h.Messaging())
	assert.Nil(t, h.EventSources())
	assert.Equal(t, "1.5.97", h.RuntimeVersion().String())

	h.EnableEventSources()
	source, ok := modhook.SourceOf[modhook.EquipEvent](h.EventSources())
	require.True(t, ok)
	assert.Same(t, h.Events.Equip, source)

	h = New(RejectListener())
	assert.False(t, h.Messaging().RegisterListener(func(*modhook.Message) {}))
	assert.Equal(t, 1, h.Msgs.RegisterCalls())
	assert.Zero(t, h.Msgs.ListenerCount())
}

func TestHost_SendAndForms(t *testing.T) {
	h := New()
	var got []modhook.MessageKind
	require.True(t, h.Messaging().RegisterListener(func(msg *modhook.Message) {
		assert.Equal(t, "host", msg.Sender)
		got = append(got, msg.Kind)
	}))
	h.Send(modhook.MessagePostLoad)
	h.Send(modhook.MessageDataLoaded)
	assert.Equal(t, []modhook.MessageKind{modhook.MessagePostLoad, modhook.MessageDataLoaded}, got)

	bandit := h.Table.AddActor(0xA2C94, "EncBandit01", "Bandit")
	assert.Same(t, bandit, h.Forms().LookupByEditorID("EncBandit01"))
	h.Table.Remove(0xA2C94)
	assert.Nil(t, h.Forms().LookupByID(0xA2C94))
	assert.Nil(t, h.Forms().LookupByEditorID("EncBandit01"))
	assert.Nil(t, h.Forms().Player())
	assert.Equal(t, 3, h.Table.Lookups())
}
