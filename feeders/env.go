package feeders

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// DefaultEnvPrefix is prepended to every variable name read by EnvFeeder.
const DefaultEnvPrefix = "MODHOOK_"

// EnvFeeder reads configuration from environment variables using the
// `env` and `envPrefix` struct tags. Unset variables leave fields alone.
type EnvFeeder struct {
	Prefix      string
	Environment map[string]string
}

// NewEnvFeeder creates an EnvFeeder over the process environment with the
// default prefix.
func NewEnvFeeder() EnvFeeder {
	return EnvFeeder{Prefix: DefaultEnvPrefix}
}

// NewAffixedEnvFeeder creates an EnvFeeder with a custom prefix.
func NewAffixedEnvFeeder(prefix string) EnvFeeder {
	return EnvFeeder{Prefix: prefix}
}

// Feed parses the environment into target.
func (f EnvFeeder) Feed(target any) error {
	opts := env.Options{Prefix: f.Prefix}
	if f.Environment != nil {
		opts.Environment = f.Environment
	}
	if err := env.ParseWithOptions(target, opts); err != nil {
		return fmt.Errorf("%w: %w", ErrEnvParseFailure, err)
	}
	return nil
}
