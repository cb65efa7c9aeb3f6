package modhook

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/GoCodeAlone/modhook/internal/tasks"
)

const unloadTimeout = 5 * time.Second

// Plugin is the module's entry surface. The host calls Query, then Load
// once; everything else is driven by lifecycle messages.
type Plugin struct {
	*observers

	cfg           *Config
	descriptor    CapabilityDescriptor
	descriptorErr error
	opts          pluginOptions
	tracer        trace.Tracer

	mu         sync.Mutex
	loaded     bool
	host       LoadInterface
	diag       *Diagnostics
	dispatcher *Dispatcher
	registry   *SinkRegistry
	resolver   *Resolver
	runner     *tasks.Runner
	started    []Service
	cancel     context.CancelFunc
}

// NewPlugin builds a plugin from cfg. An invalid descriptor does not fail
// construction; it is reported by Version and makes Load fail, matching a
// host that refuses the module.
func NewPlugin(cfg *Config, opts ...Option) (*Plugin, error) {
	if cfg == nil {
		return nil, ErrConfigNil
	}
	descriptor, err := NewDescriptor(cfg)
	if err != nil {
		return nil, fmt.Errorf("build descriptor: %w", err)
	}

	var o pluginOptions
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		logger = nopLogger{}
	}
	p := &Plugin{
		observers:     newObservers(logger),
		cfg:           cfg,
		descriptor:    descriptor,
		descriptorErr: descriptor.Validate(),
		opts:          o,
		tracer:        newTracer(o.tracerProvider),
	}
	for _, obs := range o.observers {
		if err := p.RegisterObserver(obs.observer, obs.eventTypes...); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Query returns the capability descriptor. It has no side effects and
// returns an identical value on every call.
func (p *Plugin) Query() CapabilityDescriptor {
	return p.descriptor.clone()
}

// Version returns the descriptor together with its validation result.
func (p *Plugin) Version() (CapabilityDescriptor, error) {
	return p.descriptor.clone(), p.descriptorErr
}

// Load activates the plugin inside host. It initialises diagnostics, then
// registers the lifecycle listener; failing to obtain the messaging
// interface or to register the listener makes Load return false. Load never
// panics into the host.
func (p *Plugin) Load(host LoadInterface) (ok bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	logger := p.initDiagnostics()

	ctx, span := p.tracer.Start(context.Background(), spanLoad,
		trace.WithAttributes(attribute.String("plugin", p.descriptor.Name)))
	defer span.End()
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("%w: load: %v", ErrCallInPanic, r)
			logger.Error("Plugin load panicked", "error", err)
			recordSpanError(span, err)
			p.teardownLocked()
			p.loaded = false
			p.host = nil
			ok = false
		}
	}()

	if err := p.loadLocked(ctx, host, logger); err != nil {
		logger.Error("Plugin failed to load", "error", err)
		recordSpanError(span, err)
		p.emit(ctx, EventTypePluginLoadFailed, map[string]any{"error": err.Error()})
		return false
	}

	logger.Info("Plugin loaded successfully")
	p.emit(ctx, EventTypePluginLoaded, map[string]any{
		"name":    p.descriptor.Name,
		"version": p.descriptor.Version.String(),
	})
	return true
}

func (p *Plugin) initDiagnostics() Logger {
	if p.diag == nil {
		if p.opts.logger != nil {
			p.diag = DiagnosticsFromLogger(p.opts.logger)
		} else {
			diag, err := NewDiagnostics(p.descriptor.Name, p.cfg.Log)
			if err != nil {
				fallback := slog.New(slog.NewTextHandler(os.Stderr, nil))
				fallback.Error("Failed to initialise diagnostics, logging to stderr", "error", err)
				diag = DiagnosticsFromLogger(fallback)
			}
			p.diag = diag
		}
	}
	logger := p.diag.Logger()
	p.observers.setLogger(logger)
	return logger
}

func (p *Plugin) loadLocked(ctx context.Context, host LoadInterface, logger Logger) error {
	if p.loaded {
		return ErrAlreadyLoaded
	}
	if isNil(host) {
		return ErrHostNil
	}

	logger.Info("Plugin loading",
		"name", p.descriptor.Name,
		"version", p.descriptor.Version.String(),
		"author", p.descriptor.Author,
	)
	if p.descriptorErr != nil {
		return fmt.Errorf("invalid descriptor: %w", p.descriptorErr)
	}
	if build := host.RuntimeVersion(); !p.descriptor.Supports(build) {
		return fmt.Errorf("%w: host build %s not supported", ErrDescriptorCompatibility, build)
	}

	messaging := host.Messaging()
	if isNil(messaging) {
		logger.Error("Failed to register message listener", "error", ErrMessagingUnavailable)
		return ErrMessagingUnavailable
	}

	deferrer, err := p.startTasks(ctx, logger)
	if err != nil {
		return err
	}

	p.resolver = NewResolver(host.Forms(), logger)
	p.registry = NewSinkRegistry(SinkDeps{
		Resolver:      p.resolver,
		Logger:        logger,
		Tracer:        p.tracer,
		Deferrer:      deferrer,
		HitReaction:   p.opts.hitReaction,
		EquipReaction: p.opts.equipReaction,
	})
	p.dispatcher = newDispatcher(host, p.registry, p.cfg.Sinks, logger, p.tracer, p.observers)
	for _, h := range p.opts.hooks {
		p.dispatcher.OnMessage(h.kind, h.hook)
	}

	if !messaging.RegisterListener(p.dispatcher.Handle) {
		logger.Error("Failed to register message listener", "error", ErrListenerRejected)
		p.teardownLocked()
		return ErrListenerRejected
	}

	p.host = host
	p.loaded = true
	p.startServices(logger)
	return nil
}

func (p *Plugin) startTasks(ctx context.Context, logger Logger) (Deferrer, error) {
	if !p.cfg.Tasks.Enabled {
		if len(p.opts.jobs) > 0 {
			logger.Warn("Scheduled jobs ignored because tasks are disabled", "jobs", len(p.opts.jobs))
		}
		return noDeferrer{}, nil
	}
	runner, err := tasks.New(tasks.Config{Workers: p.cfg.Tasks.Workers, QueueSize: p.cfg.Tasks.QueueSize}, logger)
	if err != nil {
		return nil, err
	}
	for _, job := range p.opts.jobs {
		if err := runner.Schedule(job.spec, job.name, job.fn); err != nil {
			return nil, err
		}
	}
	// The runner outlives this call-in, so it gets its own context.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	if err := runner.Start(runCtx); err != nil {
		cancel()
		return nil, err
	}
	p.runner = runner
	p.cancel = cancel
	return runner, nil
}

func (p *Plugin) startServices(logger Logger) {
	ctx := context.Background()
	for _, svc := range p.opts.services {
		if err := svc.Start(ctx); err != nil {
			logger.Warn("Service failed to start", "service", svc.Name(), "error", err)
			continue
		}
		logger.Debug("Service started", "service", svc.Name())
		p.started = append(p.started, svc)
	}
}

// Unload stops services and deferred work and removes registered sinks from
// the host, so the plugin can be loaded again. It is a no-op when the
// plugin is not loaded.
func (p *Plugin) Unload() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.loaded {
		return
	}
	logger := p.diag.Logger()
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Plugin unload panicked", "panic", r)
		}
	}()

	p.teardownLocked()
	p.loaded = false
	p.host = nil
	logger.Info("Plugin unloaded")
}

// teardownLocked stops everything Load may have started. The dispatcher is
// retired first so the listener the host still holds goes quiet.
func (p *Plugin) teardownLocked() {
	if p.dispatcher != nil {
		p.dispatcher.shutdown(nil)
	}

	ctx, cancel := context.WithTimeout(context.Background(), unloadTimeout)
	defer cancel()

	logger := p.diag.Logger()
	for i := len(p.started) - 1; i >= 0; i-- {
		if err := p.started[i].Stop(ctx); err != nil {
			logger.Warn("Service failed to stop", "service", p.started[i].Name(), "error", err)
		}
	}
	p.started = nil

	if p.runner != nil {
		if err := p.runner.Stop(ctx); err != nil {
			logger.Warn("Task runner did not stop cleanly", "error", err)
		}
		p.runner = nil
	}
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	p.dispatcher = nil
	p.registry = nil
	p.resolver = nil
}

// Close unloads the plugin and releases the log file.
func (p *Plugin) Close() error {
	p.Unload()
	p.mu.Lock()
	defer p.mu.Unlock()
	err := p.diag.Close()
	p.diag = nil
	return err
}

// Loaded reports whether Load succeeded and Unload has not been called.
func (p *Plugin) Loaded() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.loaded
}

// Dispatcher returns the active lifecycle dispatcher, or nil before Load.
func (p *Plugin) Dispatcher() *Dispatcher {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.dispatcher
}

// Resolver returns the active handle resolver, or nil before Load.
func (p *Plugin) Resolver() *Resolver {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.resolver
}

// Sinks returns the active sink registry, or nil before Load.
func (p *Plugin) Sinks() *SinkRegistry {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.registry
}
