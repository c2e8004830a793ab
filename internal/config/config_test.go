package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// TestNewConfig verifies that NewConfig returns a Config with all expected default values.
// Tests fail if defaults change unexpectedly.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	t.Run("default Pause is 1.5 seconds", func(t *testing.T) {
		t.Parallel()
		if cfg.Pause != 1500*time.Millisecond {
			t.Errorf("expected Pause to be 1.5s, got %v", cfg.Pause)
		}
	})

	t.Run("default timeouts", func(t *testing.T) {
		t.Parallel()
		if cfg.PasswordTimeout != 10*time.Second {
			t.Errorf("expected PasswordTimeout to be 10s, got %v", cfg.PasswordTimeout)
		}
		if cfg.ProviderTimeout != 15*time.Second {
			t.Errorf("expected ProviderTimeout to be 15s, got %v", cfg.ProviderTimeout)
		}
	})

	t.Run("default SourceCap is 5", func(t *testing.T) {
		t.Parallel()
		if cfg.SourceCap != 5 {
			t.Errorf("expected SourceCap to be 5, got %d", cfg.SourceCap)
		}
	})

	t.Run("providers are intelx then leakcheck", func(t *testing.T) {
		t.Parallel()
		if len(cfg.Providers) != 2 {
			t.Fatalf("expected 2 providers, got %d", len(cfg.Providers))
		}
		if cfg.Providers[0].Name != ProviderIntelX || cfg.Providers[1].Name != ProviderLeakCheck {
			t.Errorf("unexpected provider order: %+v", cfg.Providers)
		}
	})

	t.Run("padding is on and routing is direct", func(t *testing.T) {
		t.Parallel()
		if !cfg.PasswordPadding {
			t.Error("expected PasswordPadding to be true")
		}
		if cfg.UseTor || cfg.ProxyAddress != "" {
			t.Error("expected direct connections by default")
		}
	})

	t.Run("server listens on loopback", func(t *testing.T) {
		t.Parallel()
		if cfg.ListenAddress != "127.0.0.1:5000" {
			t.Errorf("expected ListenAddress 127.0.0.1:5000, got %q", cfg.ListenAddress)
		}
	})

	t.Run("default config is valid", func(t *testing.T) {
		t.Parallel()
		if err := cfg.Validate(); err != nil {
			t.Errorf("expected no error, got %v", err)
		}
	})
}

func TestNewServeConfig(t *testing.T) {
	t.Parallel()

	cfg := NewServeConfig()
	if cfg.Pause != 500*time.Millisecond {
		t.Errorf("expected Pause 500ms, got %v", cfg.Pause)
	}
	if cfg.SourceCap != 10 {
		t.Errorf("expected SourceCap 10, got %d", cfg.SourceCap)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected no error, got %v", err)
	}
}

// TestConfigValidate tests the Validate method with various configurations.
// Each test case is designed to test one specific validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	disabled := false

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{"defaults", func(*Config) {}, nil},
		{"zero password timeout", func(c *Config) { c.PasswordTimeout = 0 }, ErrInvalidTimeout},
		{"negative provider timeout", func(c *Config) { c.ProviderTimeout = -time.Second }, ErrInvalidTimeout},
		{"pause below minimum", func(c *Config) { c.Pause = 499 * time.Millisecond }, ErrInvalidPause},
		{"pause above maximum", func(c *Config) { c.Pause = 2 * time.Second }, ErrInvalidPause},
		{"pause at minimum", func(c *Config) { c.Pause = MinPause }, nil},
		{"pause at maximum", func(c *Config) { c.Pause = MaxPause }, nil},
		{"negative source cap", func(c *Config) { c.SourceCap = -1 }, ErrInvalidSourceCap},
		{"zero source cap keeps all", func(c *Config) { c.SourceCap = 0 }, nil},
		{"zero body size", func(c *Config) { c.MaxBodySize = 0 }, ErrInvalidMaxBodySize},
		{"json and markdown", func(c *Config) { c.JSONReport = true; c.MarkdownReport = true }, ErrConflictingReportFormats},
		{"tor and proxy", func(c *Config) { c.UseTor = true; c.ProxyAddress = "127.0.0.1:9050" }, ErrConflictingRouting},
		{"zero max inflight", func(c *Config) { c.MaxInflight = 0 }, ErrInvalidMaxInflight},
		{"unknown provider", func(c *Config) { c.Providers = []ProviderConfig{{Name: "hibp"}} }, ErrUnknownProvider},
		{"duplicate provider", func(c *Config) {
			c.Providers = []ProviderConfig{{Name: ProviderIntelX}, {Name: ProviderIntelX}}
		}, ErrDuplicateProvider},
		{"all providers disabled", func(c *Config) {
			c.Providers = []ProviderConfig{{Name: ProviderIntelX, Enabled: &disabled}}
		}, ErrNoProviders},
		{"empty provider list", func(c *Config) { c.Providers = nil }, ErrNoProviders},
		{"single provider", func(c *Config) { c.Providers = []ProviderConfig{{Name: ProviderLeakCheck}} }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := NewConfig()
			tt.modify(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestEnabledProviders(t *testing.T) {
	t.Parallel()

	disabled := false
	enabled := true
	cfg := NewConfig()
	cfg.Providers = []ProviderConfig{
		{Name: ProviderLeakCheck, Enabled: &enabled},
		{Name: ProviderIntelX, Enabled: &disabled},
	}

	got := cfg.EnabledProviders()
	if len(got) != 1 || got[0].Name != ProviderLeakCheck {
		t.Errorf("expected only leakcheck, got %+v", got)
	}
}

// TestLoadConfigFile tests the LoadConfigFile function.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns ErrConfigNotFound for non-existent file", func(t *testing.T) {
		t.Parallel()

		cf, err := LoadConfigFile("/nonexistent/path/.breachscan")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Fatalf("expected ErrConfigNotFound, got: %v", err)
		}
		if cf != nil {
			t.Error("expected nil file when not found")
		}
	})

	t.Run("loads valid YAML config", func(t *testing.T) {
		t.Parallel()
		configPath := filepath.Join(t.TempDir(), ".breachscan")

		content := `timeouts:
  password: 5s
  provider: 20s
pause: 1s
sourceCap: 0
passwordApi:
  url: http://localhost:8080
  padding: false
providers:
  - name: leakcheck
  - name: intelx
    enabled: false
proxy: 127.0.0.1:9050
history:
  enabled: true
  dir: /tmp/breachscan
server:
  listen: 127.0.0.1:6000
  maxInflight: 2
`
		if err := os.WriteFile(configPath, []byte(content), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cf, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		cfg := NewConfig()
		cf.Apply(cfg)

		if cfg.PasswordTimeout != 5*time.Second || cfg.ProviderTimeout != 20*time.Second {
			t.Errorf("unexpected timeouts: %v %v", cfg.PasswordTimeout, cfg.ProviderTimeout)
		}
		if cfg.Pause != time.Second {
			t.Errorf("expected pause 1s, got %v", cfg.Pause)
		}
		if cfg.SourceCap != 0 {
			t.Errorf("expected explicit source cap 0, got %d", cfg.SourceCap)
		}
		if cfg.PasswordAPIURL != "http://localhost:8080" || cfg.PasswordPadding {
			t.Errorf("unexpected password api settings: %q %v", cfg.PasswordAPIURL, cfg.PasswordPadding)
		}
		if len(cfg.Providers) != 2 || cfg.Providers[0].Name != ProviderLeakCheck || cfg.Providers[1].IsEnabled() {
			t.Errorf("unexpected providers: %+v", cfg.Providers)
		}
		if cfg.ProxyAddress != "127.0.0.1:9050" {
			t.Errorf("unexpected proxy %q", cfg.ProxyAddress)
		}
		if !cfg.SaveHistory || cfg.DBDir != "/tmp/breachscan" {
			t.Errorf("unexpected history settings: %v %q", cfg.SaveHistory, cfg.DBDir)
		}
		if cfg.ListenAddress != "127.0.0.1:6000" || cfg.MaxInflight != 2 {
			t.Errorf("unexpected server settings: %q %d", cfg.ListenAddress, cfg.MaxInflight)
		}
	})

	t.Run("unset fields keep defaults", func(t *testing.T) {
		t.Parallel()
		configPath := filepath.Join(t.TempDir(), ".breachscan")
		if err := os.WriteFile(configPath, []byte("userAgent: test-agent\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cf, err := LoadConfigFile(configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		cfg := NewConfig()
		cf.Apply(cfg)

		if cfg.UserAgent != "test-agent" {
			t.Errorf("expected user agent override, got %q", cfg.UserAgent)
		}
		if cfg.Pause != DefaultCheckPause || cfg.SourceCap != DefaultSourceCap {
			t.Error("expected defaults to survive")
		}
		if len(cfg.Providers) != 2 {
			t.Errorf("expected default providers, got %+v", cfg.Providers)
		}
	})

	t.Run("returns error for invalid YAML", func(t *testing.T) {
		t.Parallel()
		configPath := filepath.Join(t.TempDir(), ".breachscan")

		if err := os.WriteFile(configPath, []byte(`invalid: yaml: content: [}`), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if _, err := LoadConfigFile(configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})

	t.Run("nil file applies nothing", func(t *testing.T) {
		t.Parallel()
		var cf *File
		cfg := NewConfig()
		cf.Apply(cfg)
		if cfg.Pause != DefaultCheckPause {
			t.Error("expected config unchanged")
		}
	})
}

func TestLoad(t *testing.T) {
	t.Parallel()

	t.Run("explicit missing path is an error", func(t *testing.T) {
		t.Parallel()
		_, err := Load(NewConfig(), "/nonexistent/path/.breachscan")
		if !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("explicit path is applied and recorded", func(t *testing.T) {
		t.Parallel()
		configPath := filepath.Join(t.TempDir(), "custom.yaml")
		if err := os.WriteFile(configPath, []byte("pause: 750ms\n"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		cfg, err := Load(NewConfig(), configPath)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cfg.Pause != 750*time.Millisecond {
			t.Errorf("expected pause 750ms, got %v", cfg.Pause)
		}
		if cfg.ConfigFilePath != configPath {
			t.Errorf("expected ConfigFilePath %q, got %q", configPath, cfg.ConfigFilePath)
		}
	})

	t.Run("broken file is an error", func(t *testing.T) {
		t.Parallel()
		configPath := filepath.Join(t.TempDir(), "broken.yaml")
		if err := os.WriteFile(configPath, []byte("pause: [}"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}
		if _, err := Load(NewConfig(), configPath); err == nil {
			t.Error("expected error for invalid YAML")
		}
	})
}

// TestFindConfigFile tests the FindConfigFile function.
func TestFindConfigFile(t *testing.T) {
	t.Parallel()

	t.Run("returns explicit path if exists", func(t *testing.T) {
		t.Parallel()
		configPath := filepath.Join(t.TempDir(), "custom.yaml")

		if err := os.WriteFile(configPath, []byte("pause: 1s"), 0600); err != nil {
			t.Fatalf("failed to write test config: %v", err)
		}

		if result := FindConfigFile(configPath); result != configPath {
			t.Errorf("expected %q, got %q", configPath, result)
		}
	})

	t.Run("returns empty for non-existent explicit path", func(t *testing.T) {
		t.Parallel()
		if result := FindConfigFile("/nonexistent/path/config.yaml"); result != "" {
			t.Errorf("expected empty string, got %q", result)
		}
	})
}

// TestXDGDirs tests XDG directory functions.
func TestXDGDirs(t *testing.T) {
	t.Parallel()

	if dir := XDGDataDir(); filepath.Base(dir) != AppName {
		t.Errorf("expected data dir to end with %q, got %q", AppName, dir)
	}
	if dir := XDGConfigDir(); filepath.Base(dir) != AppName {
		t.Errorf("expected config dir to end with %q, got %q", AppName, dir)
	}
}
