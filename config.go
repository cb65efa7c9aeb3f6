package modhook

import (
	"fmt"
	"log/slog"
	"strings"
)

// Feeder populates a configuration struct from one source. The feeders
// package provides file and environment implementations.
type Feeder interface {
	Feed(target any) error
}

// Config is the plugin configuration. Project identity (name, author,
// version) replaces the build-time substitutions of a native template.
type Config struct {
	Name        string       `json:"name" yaml:"name" toml:"name" env:"NAME" required:"true" desc:"Plugin name shown to the host"`
	Author      string       `json:"author" yaml:"author" toml:"author" env:"AUTHOR" required:"true" desc:"Plugin author"`
	Description string       `json:"description" yaml:"description" toml:"description" env:"DESCRIPTION" desc:"Short description"`
	Version     string       `json:"version" yaml:"version" toml:"version" env:"VERSION" default:"1.0.0" desc:"Semantic version major.minor.patch"`
	Compat      CompatConfig `json:"compat" yaml:"compat" toml:"compat" envPrefix:"COMPAT_"`
	Log         LogConfig    `json:"log" yaml:"log" toml:"log" envPrefix:"LOG_"`
	Sinks       SinkConfig   `json:"sinks" yaml:"sinks" toml:"sinks" envPrefix:"SINKS_"`
	Scripts     ScriptConfig `json:"scripts" yaml:"scripts" toml:"scripts" envPrefix:"SCRIPTS_"`
	Tasks       TaskConfig   `json:"tasks" yaml:"tasks" toml:"tasks" envPrefix:"TASKS_"`
}

// CompatConfig holds the compatibility declarations of the descriptor.
type CompatConfig struct {
	Mode            string   `json:"mode" yaml:"mode" toml:"mode" env:"MODE" default:"independent" desc:"independent or build"`
	Builds          []string `json:"builds" yaml:"builds" toml:"builds" env:"BUILDS" envSeparator:"," desc:"Host builds supported in build mode"`
	AddressLibrary  bool     `json:"addressLibrary" yaml:"addressLibrary" toml:"addressLibrary" env:"ADDRESS_LIBRARY" default:"true"`
	SigScanning     bool     `json:"sigScanning" yaml:"sigScanning" toml:"sigScanning" env:"SIG_SCANNING"`
	LayoutDependent bool     `json:"layoutDependent" yaml:"layoutDependent" toml:"layoutDependent" env:"LAYOUT_DEPENDENT"`
	HasNoStructUse  bool     `json:"hasNoStructUse" yaml:"hasNoStructUse" toml:"hasNoStructUse" env:"HAS_NO_STRUCT_USE"`
}

// LogConfig configures the diagnostics sink.
type LogConfig struct {
	Dir    string `json:"dir" yaml:"dir" toml:"dir" env:"DIR" desc:"Directory for <name>.log; stderr when empty"`
	Level  string `json:"level" yaml:"level" toml:"level" env:"LEVEL" default:"info" desc:"debug, info, warn or error"`
	Format string `json:"format" yaml:"format" toml:"format" env:"FORMAT" default:"text" desc:"text or json"`
}

// SinkConfig selects which event sinks are registered on DataLoaded.
type SinkConfig struct {
	Hit   bool `json:"hit" yaml:"hit" toml:"hit" env:"HIT" default:"true"`
	Equip bool `json:"equip" yaml:"equip" toml:"equip" env:"EQUIP" default:"true"`
}

// ScriptConfig points at an optional Lua reaction script.
type ScriptConfig struct {
	Path  string `json:"path" yaml:"path" toml:"path" env:"PATH" desc:"Lua file defining on_hit/on_equip"`
	Watch bool   `json:"watch" yaml:"watch" toml:"watch" env:"WATCH" desc:"Reload the script when it changes"`
}

// TaskConfig configures deferred work processing.
type TaskConfig struct {
	Enabled   bool `json:"enabled" yaml:"enabled" toml:"enabled" env:"ENABLED"`
	Workers   int  `json:"workers" yaml:"workers" toml:"workers" env:"WORKERS" default:"1"`
	QueueSize int  `json:"queueSize" yaml:"queueSize" toml:"queueSize" env:"QUEUE_SIZE" default:"64"`
}

// Validate implements the custom checks that struct tags cannot express.
func (c *Config) Validate() error {
	if _, err := ParseVersion(c.Version); err != nil {
		return err
	}
	if _, err := ParseLogLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, c.Log.Format)
	}
	if c.Tasks.Enabled && (c.Tasks.Workers < 1 || c.Tasks.QueueSize < 1) {
		return fmt.Errorf("%w: tasks.workers and tasks.queueSize must be positive", ErrConfigRequiredFieldMissing)
	}
	return nil
}

// ParseLogLevel maps a config level name to a slog level.
func ParseLogLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, level)
	}
}

// LoadConfig applies defaults, then every feeder in order, then validates.
// Later feeders override earlier ones.
func LoadConfig(feeders ...Feeder) (*Config, error) {
	cfg := &Config{}
	if err := ProcessConfigDefaults(cfg); err != nil {
		return nil, fmt.Errorf("apply defaults: %w", err)
	}
	for _, f := range feeders {
		if err := f.Feed(cfg); err != nil {
			return nil, fmt.Errorf("feed config: %w", err)
		}
	}
	if err := ValidateConfigRequired(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}
