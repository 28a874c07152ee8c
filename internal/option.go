package internal

// Option configures an entry point (export, publish, or serve) before
// it runs.
type Option func(*application)

type application struct {
	config *Config
}

// WithConfig supplies the loaded configuration. Every entry point
// requires one.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}
