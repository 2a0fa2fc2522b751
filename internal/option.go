package internal

import "github.com/starford/vigil/internal/report"

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config *Config
	writer report.PointWriter
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithPointWriter overrides the InfluxDB write API, so tests and embedders
// can capture reported points.
func WithPointWriter(w report.PointWriter) Option {
	return func(a *application) {
		a.writer = w
	}
}
