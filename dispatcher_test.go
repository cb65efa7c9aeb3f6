package modhook

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
)

func newTestDispatcher(host LoadInterface, enabled SinkConfig, logger Logger) *Dispatcher {
	registry := NewSinkRegistry(SinkDeps{Logger: logger})
	tracer := noop.NewTracerProvider().Tracer(tracerName)
	return newDispatcher(host, registry, enabled, logger, tracer, newObservers(logger))
}

var allSinks = SinkConfig{Hit: true, Equip: true}

func TestDispatcher_DataLoadedRegistersOnce(t *testing.T) {
	host := newFakeHost()
	logger := &recordingLogger{}
	d := newTestDispatcher(host, allSinks, logger)

	d.Handle(&Message{Kind: MessageDataLoaded})
	d.Handle(&Message{Kind: MessageDataLoaded})

	assert.True(t, d.Initialized())
	assert.Equal(t, 1, host.sources().hit.addCount())
	assert.Equal(t, 1, host.sources().equip.addCount())
	assert.Equal(t, 1, host.holderHit, "the holder is only fetched while registering")
	assert.Len(t, logger.containing("Registered event handler"), 2)
}

func TestDispatcher_RegistersRegistrySingletons(t *testing.T) {
	host := newFakeHost()
	d := newTestDispatcher(host, allSinks, nopLogger{})
	d.Handle(&Message{Kind: MessageDataLoaded})

	require.Len(t, host.sources().hit.sinks, 1)
	assert.Same(t, d.registry.Hit(), host.sources().hit.sinks[0])
	require.Len(t, host.sources().equip.sinks, 1)
	assert.Same(t, d.registry.Equip(), host.sources().equip.sinks[0])
}

func TestDispatcher_ConcurrentDataLoaded(t *testing.T) {
	host := newFakeHost()
	d := newTestDispatcher(host, allSinks, nopLogger{})

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			d.Handle(&Message{Kind: MessageDataLoaded})
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, host.sources().hit.addCount())
	assert.Equal(t, 1, host.sources().equip.addCount())
}

func TestDispatcher_UnknownKindIsIgnored(t *testing.T) {
	host := newFakeHost()
	logger := &recordingLogger{}
	d := newTestDispatcher(host, allSinks, logger)
	hookCalled := false
	d.OnMessage(MessageKind(99), func(context.Context, *Message) error {
		hookCalled = true
		return nil
	})

	assert.NotPanics(t, func() {
		d.Handle(&Message{Kind: MessageKind(99)})
		d.Handle(&Message{Kind: MessageKind(0xFFFFFFFF)})
		d.Handle(nil)
	})

	assert.False(t, d.Initialized())
	assert.Zero(t, host.sources().hit.addCount())
	assert.Zero(t, host.holderHit)
	assert.False(t, hookCalled)
	assert.Empty(t, logger.all(), "unknown kinds are not logged")
}

func TestDispatcher_OtherKindsLogOnly(t *testing.T) {
	host := newFakeHost()
	logger := &recordingLogger{}
	d := newTestDispatcher(host, allSinks, logger)

	for _, kind := range []MessageKind{MessagePostLoad, MessagePostPostLoad, MessagePreLoadGame, MessagePostLoadGame, MessageNewGame} {
		d.Handle(&Message{Sender: "host", Kind: kind})
	}

	assert.False(t, d.Initialized())
	assert.Zero(t, host.holderHit)
	infos := logger.at("INFO")
	require.Len(t, infos, 5)
	assert.Equal(t, []any{"kind", "post_load", "sender", "host"}, infos[0].args)
	assert.Equal(t, []any{"kind", "new_game", "sender", "host"}, infos[4].args)
}

func TestDispatcher_MissingHolderRetries(t *testing.T) {
	host := newFakeHost()
	holder := host.holder
	host.holder = nil
	logger := &recordingLogger{}
	d := newTestDispatcher(host, allSinks, logger)

	d.Handle(&Message{Kind: MessageDataLoaded})
	assert.False(t, d.Initialized())
	errs := logger.at("ERROR")
	require.Len(t, errs, 1)
	assert.Equal(t, "Failed to get event source holder", errs[0].msg)

	host.holder = holder
	d.Handle(&Message{Kind: MessageDataLoaded})
	assert.True(t, d.Initialized())
	assert.Equal(t, 1, host.sources().hit.addCount())
}

func TestDispatcher_PartialRegistrationRetriesOnlyMissing(t *testing.T) {
	host := newFakeHost()
	holder := host.sources()
	equip := holder.equip
	holder.equip = nil
	d := newTestDispatcher(host, allSinks, &recordingLogger{})

	d.Handle(&Message{Kind: MessageDataLoaded})
	assert.False(t, d.Initialized())
	assert.Equal(t, 1, holder.hit.addCount())

	holder.equip = equip
	d.Handle(&Message{Kind: MessageDataLoaded})
	assert.True(t, d.Initialized())
	assert.Equal(t, 1, holder.hit.addCount(), "hit is not registered twice")
	assert.Equal(t, 1, equip.addCount())
}

func TestDispatcher_DisabledSinks(t *testing.T) {
	host := newFakeHost()
	d := newTestDispatcher(host, SinkConfig{Hit: true}, nopLogger{})

	d.Handle(&Message{Kind: MessageDataLoaded})

	assert.True(t, d.Initialized())
	assert.Equal(t, 1, host.sources().hit.addCount())
	assert.Zero(t, host.sources().equip.addCount())
}

func TestDispatcher_Hooks(t *testing.T) {
	host := newFakeHost()
	logger := &recordingLogger{}
	d := newTestDispatcher(host, allSinks, logger)

	var order []string
	d.OnMessage(MessageDataLoaded, func(_ context.Context, msg *Message) error {
		order = append(order, "first")
		assert.True(t, d.Initialized(), "DataLoaded hooks run after registration")
		return nil
	})
	d.OnMessage(MessageDataLoaded, func(context.Context, *Message) error {
		panic("hook exploded")
	})
	d.OnMessage(MessageDataLoaded, func(context.Context, *Message) error {
		order = append(order, "third")
		return errors.New("hook failed")
	})
	d.OnMessage(MessageDataLoaded, nil)

	assert.NotPanics(t, func() { d.Handle(&Message{Kind: MessageDataLoaded}) })
	assert.Equal(t, []string{"first", "third"}, order)
	assert.Len(t, logger.containing("Lifecycle hook panicked"), 1)
	assert.Len(t, logger.containing("Lifecycle hook failed"), 1)
}

func TestDispatcher_PanickingHostIsContained(t *testing.T) {
	host := newFakeHost()
	holder := host.holder
	host.holder = panickingHolder{}
	logger := &recordingLogger{}
	d := newTestDispatcher(host, allSinks, logger)

	assert.NotPanics(t, func() { d.Handle(&Message{Kind: MessageDataLoaded}) })
	assert.Len(t, logger.containing("Lifecycle handler panicked"), 1)
	assert.False(t, d.Initialized())

	host.holder = holder
	d.Handle(&Message{Kind: MessageDataLoaded})
	assert.True(t, d.Initialized(), "a panic does not wedge registration")
}

type panickingHolder struct{}

func (panickingHolder) Source(EventKind) any { panic("host fault") }

func TestDispatcher_DataLoadedHooksWaitForRegistration(t *testing.T) {
	host := newFakeHost()
	holder := host.holder
	host.holder = nil
	d := newTestDispatcher(host, allSinks, nopLogger{})

	var calls int
	d.OnMessage(MessageDataLoaded, func(context.Context, *Message) error {
		calls++
		return nil
	})

	d.Handle(&Message{Kind: MessageDataLoaded})
	assert.Zero(t, calls, "hooks are skipped while sinks are pending")

	host.holder = holder
	d.Handle(&Message{Kind: MessageDataLoaded})
	assert.Equal(t, 1, calls)
	d.Handle(&Message{Kind: MessageDataLoaded})
	assert.Equal(t, 2, calls)
}

func TestDispatcher_ShutdownRetiresListener(t *testing.T) {
	host := newFakeHost()
	logger := &recordingLogger{}
	d := newTestDispatcher(host, allSinks, logger)
	var hooks int
	d.OnMessage(MessageDataLoaded, func(context.Context, *Message) error {
		hooks++
		return nil
	})
	d.Handle(&Message{Kind: MessageDataLoaded})
	require.True(t, d.Initialized())
	require.Equal(t, 1, hooks)

	d.shutdown(host.holder)
	assert.False(t, d.Initialized())
	assert.Zero(t, host.sources().hit.sinkCount())
	assert.Zero(t, host.sources().equip.sinkCount())

	d.Handle(&Message{Kind: MessageDataLoaded})
	d.Handle(&Message{Kind: MessagePostLoad})
	assert.False(t, d.Initialized())
	assert.Equal(t, 1, host.sources().hit.addCount(), "a retired listener registers nothing")
	assert.Equal(t, 1, hooks)
	assert.Len(t, logger.containing("Lifecycle message received"), 1)

	d.shutdown(host.holder)
	assert.Equal(t, 1, host.sources().hit.removes)
}

func TestDispatcher_ShutdownDoesNotHoldLockAcrossHost(t *testing.T) {
	host := newFakeHost()
	d := newTestDispatcher(host, allSinks, nopLogger{})
	require.True(t, host.messaging.RegisterListener(d.Handle))
	host.messaging.send(MessageDataLoaded)
	require.True(t, d.Initialized())

	// The host delivers a lifecycle message while removing a sink.
	host.sources().hit.onRemove = func() { host.messaging.send(MessageDataLoaded) }

	done := make(chan struct{})
	go func() {
		defer close(done)
		d.shutdown(host.holder)
	}()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown blocked on a message delivered from RemoveEventSink")
	}

	assert.Zero(t, host.sources().hit.sinkCount())
	assert.Equal(t, 1, host.sources().hit.addCount())
	assert.False(t, d.Initialized())
}

func TestDispatcher_ShutdownDuringRegistration(t *testing.T) {
	host := newFakeHost()
	d := newTestDispatcher(host, allSinks, nopLogger{})
	host.sources().hit.onAdd = func() { d.shutdown(nil) }

	assert.NotPanics(t, func() { d.Handle(&Message{Kind: MessageDataLoaded}) })

	assert.False(t, d.Initialized())
	assert.Equal(t, 1, host.sources().hit.addCount())
	assert.Zero(t, host.sources().hit.sinkCount(), "the in-flight sink is removed again")
	assert.Zero(t, host.sources().equip.addCount(), "registration stops once retired")

	d.Handle(&Message{Kind: MessageDataLoaded})
	assert.Equal(t, 1, host.sources().hit.addCount())
}

func TestDispatcher_PublishesLifecycleEvents(t *testing.T) {
	host := newFakeHost()
	d := newTestDispatcher(host, allSinks, nopLogger{})

	var types []string
	require.NoError(t, d.observers.RegisterObserver(NewFunctionalObserver("rec", func(_ context.Context, e CloudEvent) error {
		types = append(types, e.Type())
		return nil
	})))

	d.Handle(&Message{Kind: MessageDataLoaded})
	d.Handle(&Message{Kind: MessageKind(77)})

	assert.Equal(t, []string{
		EventTypeSinkRegistered,
		EventTypeSinkRegistered,
		"com.modhook.lifecycle.data_loaded",
	}, types)
}
