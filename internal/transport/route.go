package transport

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"
)

// Route modes reported by Route.Mode.
const (
	ModeDirect = "direct"
	ModeProxy  = "socks5"
	ModeTor    = "tor"
)

// Options selects how lookups leave the machine.
type Options struct {
	// ProxyAddress routes through an existing SOCKS5 proxy.
	ProxyAddress string

	// UseTor starts an embedded Tor daemon and routes through it.
	UseTor bool

	// TorStartupTimeout bounds the Tor bootstrap.
	TorStartupTimeout time.Duration

	// Timeout is the overall HTTP client timeout.
	Timeout time.Duration

	// Logger receives routing progress. Nil discards it.
	Logger *slog.Logger
}

// Route is the outbound path chosen for one run.
type Route struct {
	client *http.Client
	mode   string
	tor    *EmbeddedTor
}

// Open builds the route described by opts. Proxies are probed before use so
// that a dead proxy fails the run instead of every lookup degrading to
// "unknown". The caller must Close the route.
func Open(ctx context.Context, opts Options) (*Route, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	switch {
	case opts.UseTor:
		embedded := NewEmbeddedTor(WithStartupTimeout(opts.TorStartupTimeout))
		logger.Info("starting embedded Tor daemon", "startup_timeout", opts.TorStartupTimeout)
		if err := embedded.Start(ctx); err != nil {
			return nil, err
		}
		client, err := embedded.NewClient(opts.Timeout)
		if err != nil {
			_ = embedded.Stop() //nolint:errcheck // best effort cleanup
			return nil, err
		}
		logger.Info("embedded Tor daemon ready", "socks_addr", embedded.SocksAddr())
		return &Route{client: client.HTTPClient(), mode: ModeTor, tor: embedded}, nil

	case opts.ProxyAddress != "":
		client, err := NewClient(opts.ProxyAddress, opts.Timeout)
		if err != nil {
			return nil, err
		}
		if status := client.CheckConnection(ctx); status != ProxyStatusOK {
			return nil, fmt.Errorf("%s: %w", opts.ProxyAddress, status.Error())
		}
		logger.Debug("using SOCKS5 proxy", "proxy", opts.ProxyAddress)
		return &Route{client: client.HTTPClient(), mode: ModeProxy}, nil

	default:
		return &Route{client: NewDirectHTTPClient(opts.Timeout), mode: ModeDirect}, nil
	}
}

// HTTPClient returns the client every lookup should use.
func (r *Route) HTTPClient() *http.Client {
	return r.client
}

// Mode returns ModeDirect, ModeProxy or ModeTor.
func (r *Route) Mode() string {
	return r.mode
}

// Close releases the route. For Tor routes this stops the daemon.
func (r *Route) Close() error {
	if r.tor != nil {
		return r.tor.Stop()
	}
	return nil
}
