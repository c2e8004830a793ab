package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "breachscan"

	// DefaultPasswordTimeout bounds one Pwned Passwords range request.
	DefaultPasswordTimeout = 10 * time.Second

	// DefaultProviderTimeout bounds one breach provider request.
	// Provider APIs are slower than the range API and often sit behind
	// bot protection that delays the first response.
	DefaultProviderTimeout = 15 * time.Second

	// DefaultCheckPause is the pause between the email and password lookups
	// for the interactive check command.
	DefaultCheckPause = 1500 * time.Millisecond

	// DefaultServePause is the same pause for the HTTP server, shorter so
	// that the web form stays responsive.
	DefaultServePause = 500 * time.Millisecond

	// MinPause and MaxPause bound the configurable pause.
	MinPause = 500 * time.Millisecond
	MaxPause = 1500 * time.Millisecond

	// DefaultSourceCap is how many breach names the CLI report lists.
	DefaultSourceCap = 5

	// DefaultServeSourceCap is how many breach names the API returns.
	DefaultServeSourceCap = 10

	// DefaultUserAgent is sent with every outbound request.
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

	// DefaultPasswordAPIURL is the Pwned Passwords API base URL.
	DefaultPasswordAPIURL = "https://api.pwnedpasswords.com"

	// DefaultMaxBodySize limits the response body size read from any service.
	DefaultMaxBodySize = 2 * 1024 * 1024 // 2MB

	// DefaultListenAddress is where the server listens. Loopback only,
	// because the server accepts plaintext passwords.
	DefaultListenAddress = "127.0.0.1:5000"

	// DefaultMaxInflight is the number of checks the server runs at once.
	DefaultMaxInflight = 8

	// DefaultTorStartupTimeout is the maximum time to wait for the embedded
	// Tor daemon to bootstrap.
	DefaultTorStartupTimeout = 3 * time.Minute
)

// Config holds all configuration options for breachscan.
// It is built from defaults, then the config file, then command-line flags,
// and passed down explicitly.
type Config struct {
	// PasswordTimeout bounds the password range request.
	PasswordTimeout time.Duration

	// ProviderTimeout bounds each breach provider request.
	ProviderTimeout time.Duration

	// Pause is the courtesy wait between the email and password lookups.
	// Must be within [MinPause, MaxPause].
	Pause time.Duration

	// UserAgent is the User-Agent header sent with every request.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	MaxBodySize int64

	// SourceCap is how many breach sources are kept. 0 keeps all of them.
	SourceCap int

	// PasswordAPIURL is the base URL of the range API.
	PasswordAPIURL string

	// PasswordPadding asks the range API to pad responses so that their
	// size does not reveal how many hashes share the prefix.
	PasswordPadding bool

	// Providers lists breach providers in priority order.
	Providers []ProviderConfig

	// ProxyAddress routes all lookups through this SOCKS5 proxy ("host:port").
	// Empty means direct connections.
	ProxyAddress string

	// UseTor starts an embedded Tor daemon and routes lookups through it.
	// Mutually exclusive with ProxyAddress.
	UseTor bool

	// TorStartupTimeout is the maximum time to wait for the embedded Tor daemon.
	TorStartupTimeout time.Duration

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the explicit configuration file path, if any.
	ConfigFilePath string

	// JSONReport selects JSON output. Mutually exclusive with MarkdownReport.
	JSONReport bool

	// MarkdownReport selects Markdown output. Mutually exclusive with JSONReport.
	MarkdownReport bool

	// ReportFile writes the report to this path instead of stdout.
	ReportFile string

	// SaveHistory records the verdict (never the credential) in the history database.
	SaveHistory bool

	// DBDir is the directory of the history database.
	DBDir string

	// ListenAddress is the server listen address.
	ListenAddress string

	// MaxInflight is the number of checks the server runs concurrently.
	MaxInflight int
}

// NewConfig creates a Config with the defaults used by the check command.
func NewConfig() *Config {
	return &Config{
		PasswordTimeout:   DefaultPasswordTimeout,
		ProviderTimeout:   DefaultProviderTimeout,
		Pause:             DefaultCheckPause,
		UserAgent:         DefaultUserAgent,
		MaxBodySize:       DefaultMaxBodySize,
		SourceCap:         DefaultSourceCap,
		PasswordAPIURL:    DefaultPasswordAPIURL,
		PasswordPadding:   true,
		Providers:         DefaultProviders(),
		TorStartupTimeout: DefaultTorStartupTimeout,
		DBDir:             XDGDataDir(),
		ListenAddress:     DefaultListenAddress,
		MaxInflight:       DefaultMaxInflight,
	}
}

// NewServeConfig creates a Config with the defaults used by the serve command.
func NewServeConfig() *Config {
	cfg := NewConfig()
	cfg.Pause = DefaultServePause
	cfg.SourceCap = DefaultServeSourceCap
	return cfg
}

// EnabledProviders returns the enabled providers in priority order.
func (c *Config) EnabledProviders() []ProviderConfig {
	enabled := make([]ProviderConfig, 0, len(c.Providers))
	for _, p := range c.Providers {
		if p.IsEnabled() {
			enabled = append(enabled, p)
		}
	}
	return enabled
}

// XDGDataDir returns the XDG data directory for breachscan.
// On Linux: ~/.local/share/breachscan
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for breachscan.
// On Linux: ~/.config/breachscan
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found as one of the sentinel errors.
func (c *Config) Validate() error {
	if c.PasswordTimeout <= 0 || c.ProviderTimeout <= 0 {
		return ErrInvalidTimeout
	}

	if c.Pause < MinPause || c.Pause > MaxPause {
		return ErrInvalidPause
	}

	if c.SourceCap < 0 {
		return ErrInvalidSourceCap
	}

	if c.MaxBodySize <= 0 {
		return ErrInvalidMaxBodySize
	}

	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}

	if c.UseTor && c.ProxyAddress != "" {
		return ErrConflictingRouting
	}

	if c.MaxInflight <= 0 {
		return ErrInvalidMaxInflight
	}

	seen := make(map[string]bool, len(c.Providers))
	for _, p := range c.Providers {
		if !IsKnownProvider(p.Name) {
			return ErrUnknownProvider
		}
		if seen[p.Name] {
			return ErrDuplicateProvider
		}
		seen[p.Name] = true
	}
	if len(c.EnabledProviders()) == 0 {
		return ErrNoProviders
	}

	return nil
}
