package internal

import (
	"strings"
	"testing"
	"time"
)

func validConfig() *Config {
	cfg := NewDefaultConfig()
	cfg.Influx.Token = "secret"
	cfg.Influx.Org = "starford"
	return cfg
}

func TestDefaultConfig_ValidWithCredentials(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config with credentials should pass: %v", err)
	}
}

func TestInfluxConfig_RequiresTokenAndOrg(t *testing.T) {
	cfg := NewDefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Fatal("empty influx token/org should fail validation")
	}
}

func TestHTTPConfig_Address(t *testing.T) {
	cfg := HTTPConfig{Port: 8787}
	if got := cfg.Address(); got != ":8787" {
		t.Errorf("Address() = %q, want :8787", got)
	}
}

func TestHTTPConfig_PortRange(t *testing.T) {
	for _, port := range []int{0, -1, 70000} {
		cfg := HTTPConfig{Port: port}
		if err := cfg.Validate(); err == nil {
			t.Errorf("port %d should fail validation", port)
		}
	}
}

func TestNotebookConfig_EmptyURLDisablesPoller(t *testing.T) {
	cfg := validConfig()
	cfg.Notebook.URL = ""
	if cfg.Notebook.PollEnabled() {
		t.Error("empty URL should disable the poller")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("empty notebook URL should still validate: %v", err)
	}
}

func TestNotebookConfig_PollInterval(t *testing.T) {
	cfg := NotebookConfig{PollIntervalSeconds: 30}
	if got := cfg.PollInterval(); got != 30*time.Second {
		t.Errorf("PollInterval() = %v, want 30s", got)
	}
}

func TestWatchConfig_PathRequiredWhenEnabled(t *testing.T) {
	cfg := WatchConfig{Enabled: true}
	if err := cfg.Validate(); err == nil {
		t.Fatal("enabled watch without path should fail")
	}
	cfg.Path = "/srv/notebooks"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("enabled watch with path should pass: %v", err)
	}
}

func TestWatchConfig_DisabledIgnoresPath(t *testing.T) {
	cfg := WatchConfig{Enabled: false}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled watch should not require a path: %v", err)
	}
}

func TestReportConfig_Durations(t *testing.T) {
	cfg := ReportConfig{IntervalSeconds: 10, ActiveWindowSeconds: 15}
	if got := cfg.Interval(); got != 10*time.Second {
		t.Errorf("Interval() = %v, want 10s", got)
	}
	if got := cfg.ActiveWindow(); got != 15*time.Second {
		t.Errorf("ActiveWindow() = %v, want 15s", got)
	}
}

func TestReportConfig_RejectsZeroInterval(t *testing.T) {
	cfg := ReportConfig{IntervalSeconds: 0, ActiveWindowSeconds: 15}
	if err := cfg.Validate(); err == nil {
		t.Fatal("zero interval should fail validation")
	}
}

func TestJournalConfig_ZeroRetentionKeepsForever(t *testing.T) {
	cfg := JournalConfig{Path: "./vigil.db", RetentionDays: 0}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("zero retention should validate: %v", err)
	}
	if cfg.Retention() != 0 {
		t.Errorf("Retention() = %v, want 0", cfg.Retention())
	}
}

func TestJournalConfig_Retention(t *testing.T) {
	cfg := JournalConfig{Path: "./vigil.db", RetentionDays: 14}
	if got := cfg.Retention(); got != 14*24*time.Hour {
		t.Errorf("Retention() = %v, want 336h", got)
	}
}

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	if err := cfg.Validate(); err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}
