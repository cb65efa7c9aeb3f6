package modhook

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ResolvedEquip is an equip event whose handles have been resolved.
type ResolvedEquip struct {
	Event EquipEvent
	Actor Actor
	Item  Form
}

// EquipReaction is the gameplay payload run for every resolved equip event.
type EquipReaction func(rc ReactionContext, equip ResolvedEquip) error

// LogEquip is the default equip reaction.
func LogEquip(rc ReactionContext, equip ResolvedEquip) error {
	action := "unequipped"
	if equip.Event.Equipped {
		action = "equipped"
	}
	rc.Logger.Info("OnEquip",
		"actor", equip.Actor.Name(),
		"action", action,
		"item", equip.Item.Name(),
	)
	return nil
}

// EquipSink observes equip and unequip events. Obtain it from
// SinkRegistry.Equip.
type EquipSink struct {
	_        noCopy
	deps     SinkDeps
	reaction EquipReaction
}

func newEquipSink(deps SinkDeps) *EquipSink {
	reaction := deps.EquipReaction
	if reaction == nil {
		reaction = LogEquip
	}
	return &EquipSink{deps: deps, reaction: reaction}
}

// ProcessEvent resolves the actor and item, then runs the reaction. It
// always returns Continue.
func (s *EquipSink) ProcessEvent(event *EquipEvent, _ EventSource[EquipEvent]) (ctl NotifyControl) {
	if event == nil || event.Actor == 0 || event.BaseObject == 0 {
		return Continue
	}

	ctx, span := s.deps.Tracer.Start(context.Background(), spanSinkPrefix+string(EventKindEquip),
		trace.WithAttributes(
			attribute.String("actor", event.Actor.String()),
			attribute.String("item", event.BaseObject.String()),
			attribute.Bool("equipped", event.Equipped),
		))
	defer span.End()
	defer recoverSink(s.deps.Logger, EventKindEquip, span)

	actor, ok := s.deps.Resolver.ActorByID(event.Actor)
	if !ok {
		return Continue
	}
	item, ok := s.deps.Resolver.ByID(event.BaseObject)
	if !ok {
		return Continue
	}

	rc := ReactionContext{
		Context:  ctx,
		Resolver: s.deps.Resolver,
		Logger:   s.deps.Logger,
		Deferrer: s.deps.Deferrer,
	}
	if err := s.reaction(rc, ResolvedEquip{Event: *event, Actor: actor, Item: item}); err != nil {
		s.deps.Logger.Warn("Equip reaction failed", "actor", actor.Name(), "error", err)
		recordSpanError(span, err)
	}
	return Continue
}
