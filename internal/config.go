package internal

import (
	"fmt"
	"log/slog"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Auth modes.
const (
	AuthModeDisabled = "disabled"
	AuthModeToken    = "token"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Notebook NotebookConfig    `yaml:"notebook"`
	Influx   InfluxConfig      `yaml:"influx"`
	Report   ReportConfig      `yaml:"report"`
	Journal  JournalConfig     `yaml:"journal"`
	Auth     AuthConfig        `yaml:"auth"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.App.Validate(); err != nil {
		return err
	}
	if err := c.Notebook.Validate(); err != nil {
		return err
	}
	if err := c.Influx.Validate(); err != nil {
		return err
	}
	if err := c.Report.Validate(); err != nil {
		return err
	}
	if err := c.Journal.Validate(); err != nil {
		return err
	}
	return c.Auth.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
	HTTP     HTTPConfig `yaml:"http"`
}

// Validate validates the application configuration.
func (c *ApplicationConfig) Validate() error {
	return c.HTTP.Validate()
}

// HTTPConfig holds HTTP server configuration.
type HTTPConfig struct {
	Port int `yaml:"port"`
}

// Address returns HTTP server address.
func (c *HTTPConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}

// Validate validates the HTTP configuration.
func (c *HTTPConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Port, validation.Required, validation.Min(1), validation.Max(65535)),
	)
}

// NotebookConfig describes the notebook server being watched and the
// optional filesystem watch over its notebooks directory.
type NotebookConfig struct {
	// URL is the notebook server base address. Empty disables the
	// sessions poller, leaving the hook endpoint and watcher as the only
	// activity sources.
	URL                 string      `yaml:"url"`
	Token               string      `yaml:"token"`
	PollIntervalSeconds int         `yaml:"poll_interval_seconds"`
	Watch               WatchConfig `yaml:"watch"`
}

// PollInterval returns the sessions poll interval.
func (c *NotebookConfig) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalSeconds) * time.Second
}

// PollEnabled reports whether the sessions poller should run.
func (c *NotebookConfig) PollEnabled() bool {
	return c.URL != ""
}

// Validate validates the notebook configuration.
func (c *NotebookConfig) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.PollIntervalSeconds, validation.Min(1)),
	); err != nil {
		return err
	}
	return c.Watch.Validate()
}

// WatchConfig holds the filesystem activity source configuration.
type WatchConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// Validate validates the watch configuration.
func (c *WatchConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// InfluxConfig holds the InfluxDB v2 write target: the address, token, and
// organization the reporter authenticates with, plus where the point lands.
type InfluxConfig struct {
	URL         string `yaml:"url"`
	Token       string `yaml:"token"`
	Org         string `yaml:"org"`
	Bucket      string `yaml:"bucket"`
	Measurement string `yaml:"measurement"`
	// Machine is the tag identifying this host in the series. Empty means
	// "use os.Hostname at startup".
	Machine string `yaml:"machine"`
}

// Validate validates the InfluxDB configuration.
func (c *InfluxConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.URL, validation.Required),
		validation.Field(&c.Token, validation.Required),
		validation.Field(&c.Org, validation.Required),
		validation.Field(&c.Bucket, validation.Required),
		validation.Field(&c.Measurement, validation.Required),
	)
}

// ReportConfig controls the reporting loop cadence and presence decay.
type ReportConfig struct {
	IntervalSeconds int `yaml:"interval_seconds"`
	// ActiveWindowSeconds is how long after the last observed activity the
	// notebook still counts as present.
	ActiveWindowSeconds int `yaml:"active_window_seconds"`
}

// Interval returns the reporting tick interval.
func (c *ReportConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// ActiveWindow returns the presence decay window.
func (c *ReportConfig) ActiveWindow() time.Duration {
	return time.Duration(c.ActiveWindowSeconds) * time.Second
}

// Validate validates the report configuration.
func (c *ReportConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.IntervalSeconds, validation.Required, validation.Min(1)),
		validation.Field(&c.ActiveWindowSeconds, validation.Required, validation.Min(1)),
	)
}

// JournalConfig holds the SQLite activity journal configuration.
type JournalConfig struct {
	Path string `yaml:"path"`
	// RetentionDays prunes events older than this at startup and hourly.
	// Zero disables pruning.
	RetentionDays int `yaml:"retention_days"`
}

// Retention returns the journal retention period; zero means keep forever.
func (c *JournalConfig) Retention() time.Duration {
	return time.Duration(c.RetentionDays) * 24 * time.Hour
}

// Validate validates the journal configuration.
func (c *JournalConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
		validation.Field(&c.RetentionDays, validation.Min(0)),
	)
}

// AuthConfig holds authentication configuration.
//
// Mode controls how authentication is enforced:
//   - "disabled" (default): no authentication required, suitable for local dev.
//   - "token": Bearer token authentication; Token must be non-empty.
type AuthConfig struct {
	Mode  string `yaml:"mode"`
	Token string `yaml:"token"`
}

// Validate validates the auth configuration.
func (c *AuthConfig) Validate() error {
	// Normalise empty mode to "disabled" for backward compatibility.
	if c.Mode == "" {
		c.Mode = AuthModeDisabled
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Mode, validation.Required, validation.In(AuthModeDisabled, AuthModeToken)),
	); err != nil {
		return err
	}
	if c.Mode == AuthModeToken && c.Token == "" {
		return fmt.Errorf("auth: mode is %q but token is empty", AuthModeToken)
	}
	return nil
}

// AuthEnabled returns true when authentication is active.
func (c *AuthConfig) AuthEnabled() bool {
	return c.Mode == AuthModeToken
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
			HTTP: HTTPConfig{
				Port: 8787,
			},
		},
		Notebook: NotebookConfig{
			URL:                 "http://localhost:8888",
			PollIntervalSeconds: 10,
		},
		Influx: InfluxConfig{
			URL:         "http://localhost:8086",
			Bucket:      "vigil",
			Measurement: "kernel_status",
		},
		Report: ReportConfig{
			IntervalSeconds:     10,
			ActiveWindowSeconds: 15,
		},
		Journal: JournalConfig{
			Path:          "./vigil.db",
			RetentionDays: 14,
		},
		Auth: AuthConfig{
			Mode: AuthModeDisabled,
		},
	}
}
