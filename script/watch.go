package script

import (
	"github.com/GoCodeAlone/modhook"
	"github.com/GoCodeAlone/modhook/internal/watch"
)

// NewWatcher returns a service that reloads e whenever its file changes.
// Register it with modhook.WithService so it starts after Load and stops on
// Unload.
func NewWatcher(e *Engine, logger modhook.Logger, opts ...watch.Option) (modhook.Service, error) {
	if logger == nil {
		logger = e.logger
	}
	w, err := watch.New(e.path, e.Reload, logger, opts...)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// Options returns the plugin options that bind the engine's reactions to
// the sinks and, when watch is set, the reload watcher.
func Options(e *Engine, watchFile bool, logger modhook.Logger) ([]modhook.Option, error) {
	opts := []modhook.Option{
		modhook.WithHitReaction(e.HitReaction()),
		modhook.WithEquipReaction(e.EquipReaction()),
	}
	if watchFile {
		w, err := NewWatcher(e, logger)
		if err != nil {
			return nil, err
		}
		opts = append(opts, modhook.WithService(w))
	}
	return opts, nil
}
