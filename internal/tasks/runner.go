// Package tasks runs work that is too slow for a host call-in. Call-ins
// enqueue without blocking; a fixed pool of workers drains the queue.
package tasks

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"
)

var (
	ErrQueueFull     = errors.New("task queue is full")
	ErrRunnerStopped = errors.New("task runner is not running")
	ErrRunnerStarted = errors.New("task runner already started")
	ErrInvalidConfig = errors.New("task runner config is invalid")
	ErrInvalidSpec   = errors.New("invalid schedule spec")
	ErrTaskPanicked  = errors.New("task panicked")
	ErrNilTaskFunc   = errors.New("task function is nil")
)

// Func is a unit of deferred work.
type Func func(ctx context.Context) error

// Logger is the subset of the plugin logger the runner needs.
type Logger interface {
	Info(msg string, args ...any)
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
	Debug(msg string, args ...any)
}

// Config sizes the runner.
type Config struct {
	Workers   int
	QueueSize int
}

type task struct {
	id   string
	name string
	fn   Func
}

// Runner owns the queue, the workers and the cron scheduler.
type Runner struct {
	cfg    Config
	logger Logger
	cron   *cron.Cron

	mu      sync.RWMutex
	queue   chan task
	running bool
	group   *errgroup.Group
	cancel  context.CancelFunc

	processed atomic.Int64
	failed    atomic.Int64
}

// New creates a runner. Jobs may be scheduled before Start.
func New(cfg Config, logger Logger) (*Runner, error) {
	if cfg.Workers < 1 || cfg.QueueSize < 1 {
		return nil, fmt.Errorf("%w: workers=%d queueSize=%d", ErrInvalidConfig, cfg.Workers, cfg.QueueSize)
	}
	return &Runner{
		cfg:    cfg,
		logger: logger,
		cron:   cron.New(),
	}, nil
}

// Name identifies the runner as a plugin service.
func (r *Runner) Name() string { return "tasks" }

// Start launches the workers and the scheduler. It does not block.
func (r *Runner) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.running {
		return ErrRunnerStarted
	}

	ctx, cancel := context.WithCancel(ctx)
	group, ctx := errgroup.WithContext(ctx)
	queue := make(chan task, r.cfg.QueueSize)
	for i := 0; i < r.cfg.Workers; i++ {
		group.Go(func() error {
			r.work(ctx, queue)
			return nil
		})
	}

	r.queue = queue
	r.group = group
	r.cancel = cancel
	r.running = true
	r.cron.Start()
	r.logger.Debug("Task runner started", "workers", r.cfg.Workers, "queueSize", r.cfg.QueueSize)
	return nil
}

// Enqueue adds fn to the queue and returns its task ID. It never blocks.
func (r *Runner) Enqueue(name string, fn Func) (string, error) {
	if fn == nil {
		return "", ErrNilTaskFunc
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if !r.running {
		return "", ErrRunnerStopped
	}

	t := task{id: uuid.NewString(), name: name, fn: fn}
	select {
	case r.queue <- t:
		return t.id, nil
	default:
		r.logger.Warn("Task queue full, dropping task", "task", name)
		return "", fmt.Errorf("%w: %s", ErrQueueFull, name)
	}
}

// Defer satisfies the plugin's Deferrer interface.
func (r *Runner) Defer(name string, fn func(ctx context.Context) error) error {
	_, err := r.Enqueue(name, fn)
	return err
}

// Schedule runs fn on a standard five-field cron spec. Each firing goes
// through the queue, so a slow job delays other deferred work rather than
// piling up goroutines.
func (r *Runner) Schedule(spec, name string, fn Func) error {
	if fn == nil {
		return ErrNilTaskFunc
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidSpec, spec, err)
	}
	_, err := r.cron.AddFunc(spec, func() {
		if _, err := r.Enqueue(name, fn); err != nil {
			r.logger.Warn("Scheduled task not queued", "task", name, "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("%w %q: %w", ErrInvalidSpec, spec, err)
	}
	return nil
}

// Stop halts the scheduler, closes the queue and waits for queued tasks to
// finish or ctx to expire.
func (r *Runner) Stop(ctx context.Context) error {
	<-r.cron.Stop().Done()

	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return nil
	}
	r.running = false
	close(r.queue)
	group, cancel := r.group, r.cancel
	r.mu.Unlock()

	done := make(chan error, 1)
	go func() { done <- group.Wait() }()

	select {
	case err := <-done:
		cancel()
		return err
	case <-ctx.Done():
		cancel()
		return ctx.Err()
	}
}

// Processed returns how many tasks ran successfully.
func (r *Runner) Processed() int64 { return r.processed.Load() }

// Failed returns how many tasks returned an error or panicked.
func (r *Runner) Failed() int64 { return r.failed.Load() }

func (r *Runner) work(ctx context.Context, queue <-chan task) {
	for t := range queue {
		if err := r.run(ctx, t); err != nil {
			r.failed.Add(1)
			r.logger.Error("Task failed", "task", t.name, "id", t.id, "error", err)
			continue
		}
		r.processed.Add(1)
	}
}

func (r *Runner) run(ctx context.Context, t task) (err error) {
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("%w: %v", ErrTaskPanicked, p)
		}
	}()
	return t.fn(ctx)
}
