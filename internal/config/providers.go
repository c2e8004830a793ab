package config

import (
	"slices"
	"time"
)

// Breach provider names. They match the names the providers report.
const (
	ProviderIntelX    = "intelx"
	ProviderLeakCheck = "leakcheck"
)

// knownProviders lists implemented providers in default priority order.
var knownProviders = []string{ProviderIntelX, ProviderLeakCheck}

// IsKnownProvider reports whether name is an implemented provider.
func IsKnownProvider(name string) bool {
	return slices.Contains(knownProviders, name)
}

// ProviderConfig configures one breach provider.
type ProviderConfig struct {
	// Name is the provider identifier (intelx, leakcheck).
	Name string `yaml:"name"`

	// URL overrides the provider endpoint. Empty uses the public endpoint.
	URL string `yaml:"url,omitempty"`

	// Enabled turns the provider off when false. Unset means enabled.
	Enabled *bool `yaml:"enabled,omitempty"`
}

// IsEnabled reports whether the provider should be queried.
func (p ProviderConfig) IsEnabled() bool {
	return p.Enabled == nil || *p.Enabled
}

// DefaultProviders returns every known provider, enabled, in priority order.
func DefaultProviders() []ProviderConfig {
	providers := make([]ProviderConfig, len(knownProviders))
	for i, name := range knownProviders {
		providers[i] = ProviderConfig{Name: name}
	}
	return providers
}

// File represents the structure of the .breachscan configuration file.
// Every field is optional; unset fields keep the built-in defaults.
type File struct {
	// Timeouts overrides lookup timeouts.
	Timeouts TimeoutsConfig `yaml:"timeouts,omitempty"`

	// Pause overrides the courtesy pause between lookups.
	Pause time.Duration `yaml:"pause,omitempty"`

	// UserAgent overrides the User-Agent header.
	UserAgent string `yaml:"userAgent,omitempty"`

	// SourceCap overrides how many breach sources are kept.
	SourceCap *int `yaml:"sourceCap,omitempty"`

	// PasswordAPI configures the range API.
	PasswordAPI PasswordAPIConfig `yaml:"passwordApi,omitempty"`

	// Providers replaces the provider list. Order is priority order.
	Providers []ProviderConfig `yaml:"providers,omitempty"`

	// Proxy routes lookups through a SOCKS5 proxy.
	Proxy string `yaml:"proxy,omitempty"`

	// Tor starts an embedded Tor daemon.
	Tor *bool `yaml:"tor,omitempty"`

	// History configures the verdict history database.
	History HistoryConfig `yaml:"history,omitempty"`

	// Server configures the serve command.
	Server ServerConfig `yaml:"server,omitempty"`
}

// TimeoutsConfig holds lookup timeouts, written as Go durations ("10s").
type TimeoutsConfig struct {
	Password time.Duration `yaml:"password,omitempty"`
	Provider time.Duration `yaml:"provider,omitempty"`
}

// PasswordAPIConfig configures the Pwned Passwords range API.
type PasswordAPIConfig struct {
	URL     string `yaml:"url,omitempty"`
	Padding *bool  `yaml:"padding,omitempty"`
}

// HistoryConfig configures the verdict history.
type HistoryConfig struct {
	Enabled *bool  `yaml:"enabled,omitempty"`
	Dir     string `yaml:"dir,omitempty"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Listen      string `yaml:"listen,omitempty"`
	MaxInflight int    `yaml:"maxInflight,omitempty"`
}

// Apply copies every set value of the file onto cfg.
func (cf *File) Apply(cfg *Config) {
	if cf == nil {
		return
	}
	if cf.Timeouts.Password != 0 {
		cfg.PasswordTimeout = cf.Timeouts.Password
	}
	if cf.Timeouts.Provider != 0 {
		cfg.ProviderTimeout = cf.Timeouts.Provider
	}
	if cf.Pause != 0 {
		cfg.Pause = cf.Pause
	}
	if cf.UserAgent != "" {
		cfg.UserAgent = cf.UserAgent
	}
	if cf.SourceCap != nil {
		cfg.SourceCap = *cf.SourceCap
	}
	if cf.PasswordAPI.URL != "" {
		cfg.PasswordAPIURL = cf.PasswordAPI.URL
	}
	if cf.PasswordAPI.Padding != nil {
		cfg.PasswordPadding = *cf.PasswordAPI.Padding
	}
	if len(cf.Providers) > 0 {
		cfg.Providers = slices.Clone(cf.Providers)
	}
	if cf.Proxy != "" {
		cfg.ProxyAddress = cf.Proxy
	}
	if cf.Tor != nil {
		cfg.UseTor = *cf.Tor
	}
	if cf.History.Enabled != nil {
		cfg.SaveHistory = *cf.History.Enabled
	}
	if cf.History.Dir != "" {
		cfg.DBDir = cf.History.Dir
	}
	if cf.Server.Listen != "" {
		cfg.ListenAddress = cf.Server.Listen
	}
	if cf.Server.MaxInflight != 0 {
		cfg.MaxInflight = cf.Server.MaxInflight
	}
}
