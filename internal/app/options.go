package app

import (
	"fmt"
	"io"

	"github.com/caarlos0/env/v11"

	"github.com/dshills/texcore/internal/i18n"
)

// Options configures a Runtime. Fields with an env tag can be read from the
// environment through LoadOptions.
type Options struct {
	// ConfigPath is the TOML or YAML configuration file. Empty means an
	// empty configuration.
	ConfigPath string `env:"TEXCORE_CONFIG"`

	// LogLevel is the minimum level of the runtime logger.
	LogLevel string `env:"TEXCORE_LOG_LEVEL" envDefault:"info"`

	// MaxErrors stops a run after that many recovered errors.
	MaxErrors int `env:"TEXCORE_MAX_ERRORS" envDefault:"100"`

	// Locale selects the language of error messages.
	Locale string `env:"TEXCORE_LOCALE" envDefault:"en-US"`

	// Metrics enables per-primitive dispatch metrics.
	Metrics bool `env:"TEXCORE_METRICS"`

	// Watch reloads the configuration file when it changes.
	Watch bool `env:"TEXCORE_WATCH"`

	// Deny lists primitives that may not be executed.
	Deny []string `env:"TEXCORE_DENY" envSeparator:","`

	// Out receives terminal output of primitives. Defaults to os.Stdout.
	Out io.Writer

	// Log receives log lines. Defaults to os.Stderr.
	Log io.Writer
}

// DefaultOptions returns the options used when the environment sets none.
func DefaultOptions() Options {
	return Options{
		LogLevel:  "info",
		MaxErrors: 100,
		Locale:    i18n.BaseLocale,
	}
}

// LoadOptions reads options from the environment.
func LoadOptions() (Options, error) {
	var opts Options
	if err := env.Parse(&opts); err != nil {
		return Options{}, fmt.Errorf("parse env: %w", err)
	}
	return opts, nil
}

// Validate checks the option values.
func (o Options) Validate() error {
	if o.MaxErrors < 1 {
		return fmt.Errorf("%w: max errors must be positive, got %d", ErrInvalidOptions, o.MaxErrors)
	}
	if o.Watch && o.ConfigPath == "" {
		return fmt.Errorf("%w: watch requires a configuration file", ErrInvalidOptions)
	}
	return nil
}
