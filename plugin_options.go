package modhook

import (
	"context"

	"go.opentelemetry.io/otel/trace"
)

// Service is a supporting component started after a successful Load and
// stopped on Unload. Start must return promptly; long-lived work runs in
// the service's own goroutines.
type Service interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

type scheduledJob struct {
	spec string
	name string
	fn   func(ctx context.Context) error
}

type observerOption struct {
	observer   Observer
	eventTypes []string
}

type hookOption struct {
	kind MessageKind
	hook Hook
}

type pluginOptions struct {
	logger         Logger
	tracerProvider trace.TracerProvider
	hitReaction    HitReaction
	equipReaction  EquipReaction
	observers      []observerOption
	hooks          []hookOption
	services       []Service
	jobs           []scheduledJob
}

// Option configures a Plugin.
type Option func(*pluginOptions)

// WithLogger routes diagnostics to logger instead of the configured log
// file.
func WithLogger(logger Logger) Option {
	return func(o *pluginOptions) {
		o.logger = logger
	}
}

// WithTracerProvider sets the provider used for call-in spans. The global
// provider is used otherwise.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *pluginOptions) {
		o.tracerProvider = tp
	}
}

// WithHitReaction replaces the default hit reaction.
func WithHitReaction(reaction HitReaction) Option {
	return func(o *pluginOptions) {
		o.hitReaction = reaction
	}
}

// WithEquipReaction replaces the default equip reaction.
func WithEquipReaction(reaction EquipReaction) Option {
	return func(o *pluginOptions) {
		o.equipReaction = reaction
	}
}

// WithObserver registers an observer before load, so it also sees load
// events.
func WithObserver(observer Observer, eventTypes ...string) Option {
	return func(o *pluginOptions) {
		o.observers = append(o.observers, observerOption{observer: observer, eventTypes: eventTypes})
	}
}

// WithHook adds a lifecycle hook for kind.
func WithHook(kind MessageKind, hook Hook) Option {
	return func(o *pluginOptions) {
		o.hooks = append(o.hooks, hookOption{kind: kind, hook: hook})
	}
}

// WithService adds a supporting service.
func WithService(service Service) Option {
	return func(o *pluginOptions) {
		o.services = append(o.services, service)
	}
}

// WithScheduledJob schedules fn on a cron spec. It requires tasks.enabled.
func WithScheduledJob(spec, name string, fn func(ctx context.Context) error) Option {
	return func(o *pluginOptions) {
		o.jobs = append(o.jobs, scheduledJob{spec: spec, name: name, fn: fn})
	}
}
