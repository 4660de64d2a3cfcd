package dispatcher

// Config holds dispatcher configuration options.
type Config struct {
	// MaxErrors is the number of recoverable errors tolerated in one run.
	// The next one ends the run with an error-limit panic. Zero means no
	// limit.
	MaxErrors int

	// EnableMetrics enables per-primitive timing and statistics.
	EnableMetrics bool

	// RecoverFromPanic turns a panicking primitive into a fatal error
	// instead of crashing the process.
	RecoverFromPanic bool
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxErrors:        100,
		EnableMetrics:    false,
		RecoverFromPanic: true,
	}
}

// WithMaxErrors returns a copy of the config with the error limit set.
func (c Config) WithMaxErrors(n int) Config {
	c.MaxErrors = n
	return c
}

// WithMetrics returns a copy of the config with metrics enabled.
func (c Config) WithMetrics() Config {
	c.EnableMetrics = true
	return c
}

// WithPanicRecovery returns a copy of the config with panic recovery set.
func (c Config) WithPanicRecovery(recover bool) Config {
	c.RecoverFromPanic = recover
	return c
}
