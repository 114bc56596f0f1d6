package logger

// Option defines a function to modify logger configuration
type Option func(*Config)

// WithLevel sets the log level
func WithLevel(level string) Option {
	return func(c *Config) {
		c.Level = level
	}
}

// WithFormat sets the log format (json or console)
func WithFormat(format string) Option {
	return func(c *Config) {
		c.Format = format
	}
}

// WithOutput sets the log output (console, file, or both)
func WithOutput(output string) Option {
	return func(c *Config) {
		c.Output = output
	}
}

// WithFile sets the rotating file target
func WithFile(file FileConfig) Option {
	return func(c *Config) {
		c.File = file
	}
}

// WithCaller enables or disables caller information
func WithCaller(enabled bool) Option {
	return func(c *Config) {
		c.EnableCaller = enabled
	}
}

// WithStacktrace enables or disables stacktrace for error level
func WithStacktrace(enabled bool) Option {
	return func(c *Config) {
		c.EnableStacktrace = enabled
	}
}

// NewWithOptions creates a new logger with options
func NewWithOptions(opts ...Option) (*Logger, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return New(cfg)
}

// Development returns a colored console logger at debug level
func Development() (*Logger, error) {
	return NewWithOptions(
		WithLevel("debug"),
		WithFormat("console"),
		WithOutput("console"),
		WithCaller(true),
		WithStacktrace(true),
	)
}

// CLI returns a console logger for command line tools, quiet unless verbose
func CLI(verbose bool) (*Logger, error) {
	level := "warn"
	if verbose {
		level = "debug"
	}
	return NewWithOptions(
		WithLevel(level),
		WithFormat("console"),
		WithOutput("console"),
		WithCaller(false),
		WithStacktrace(false),
	)
}
