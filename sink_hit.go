package modhook

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// ResolvedHit is a hit whose handles have been resolved. Event is a copy of
// the host record, so reactions may keep it.
type ResolvedHit struct {
	Event  HitEvent
	Target Actor
	Cause  Actor
	// Weapon is nil for unarmed hits or when the source no longer resolves.
	Weapon Form
}

// HitReaction is the gameplay payload run for every resolved hit.
type HitReaction func(rc ReactionContext, hit ResolvedHit) error

// LogHit is the default hit reaction: it logs who hit whom and whether the
// target died.
func LogHit(rc ReactionContext, hit ResolvedHit) error {
	rc.Logger.Info("OnHit",
		"cause", hit.Cause.Name(),
		"target", hit.Target.Name(),
		"damage", hit.Event.Damage,
	)
	if hit.Target.IsDead() {
		rc.Logger.Info("Actor is dead", "actor", hit.Target.Name())
	}
	return nil
}

// HitSink observes hit events. Obtain it from SinkRegistry.Hit.
type HitSink struct {
	_        noCopy
	deps     SinkDeps
	reaction HitReaction
}

func newHitSink(deps SinkDeps) *HitSink {
	reaction := deps.HitReaction
	if reaction == nil {
		reaction = LogHit
	}
	return &HitSink{deps: deps, reaction: reaction}
}

// ProcessEvent resolves target, cause and weapon, then runs the reaction.
// It always returns Continue.
func (s *HitSink) ProcessEvent(event *HitEvent, _ EventSource[HitEvent]) (ctl NotifyControl) {
	if event == nil || event.Target == 0 || event.Cause == 0 {
		return Continue
	}

	ctx, span := s.deps.Tracer.Start(context.Background(), spanSinkPrefix+string(EventKindHit),
		trace.WithAttributes(
			attribute.String("target", event.Target.String()),
			attribute.String("cause", event.Cause.String()),
		))
	defer span.End()
	defer recoverSink(s.deps.Logger, EventKindHit, span)

	target, ok := s.deps.Resolver.ActorByID(event.Target)
	if !ok {
		return Continue
	}
	cause, ok := s.deps.Resolver.ActorByID(event.Cause)
	if !ok {
		return Continue
	}

	hit := ResolvedHit{Event: *event, Target: target, Cause: cause}
	if event.Source != 0 {
		if weapon, found := s.deps.Resolver.ByID(event.Source); found {
			hit.Weapon = weapon
		}
	}

	rc := ReactionContext{
		Context:  ctx,
		Resolver: s.deps.Resolver,
		Logger:   s.deps.Logger,
		Deferrer: s.deps.Deferrer,
	}
	if err := s.reaction(rc, hit); err != nil {
		s.deps.Logger.Warn("Hit reaction failed", "target", target.Name(), "error", err)
		recordSpanError(span, err)
	}
	return Continue
}
