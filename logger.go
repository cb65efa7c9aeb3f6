package modhook

// Logger defines the interface for plugin diagnostics.
// Every call-in logs through this interface using structured key-value
// pairs, so a host integration controls where plugin diagnostics end up.
//
// The Logger interface uses variadic arguments in key-value pairs:
//
//	logger.Info("Registered OnHit event handler", "sink", "hit")
//
// *slog.Logger satisfies it directly.
type Logger interface {
	// Info logs normal plugin activity such as lifecycle messages and
	// sink registration.
	Info(msg string, args ...any)

	// Error logs failures that disable part of the plugin, for example a
	// missing messaging interface during load.
	Error(msg string, args ...any)

	// Warn logs recoverable misses such as a form that no longer resolves.
	//
	// Example:
	//   logger.Warn("Form not found", "formID", "DEADBEEF")
	Warn(msg string, args ...any)

	// Debug logs detailed diagnostic information.
	Debug(msg string, args ...any)
}

// nopLogger discards everything. It is used until diagnostics exist.
type nopLogger struct{}

func (nopLogger) Info(string, ...any)  {}
func (nopLogger) Error(string, ...any) {}
func (nopLogger) Warn(string, ...any)  {}
func (nopLogger) Debug(string, ...any) {}
