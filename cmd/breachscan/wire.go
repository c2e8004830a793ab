package main

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"github.com/nao1215/breachscan/internal/breach"
	"github.com/nao1215/breachscan/internal/config"
	"github.com/nao1215/breachscan/internal/lookup"
	"github.com/nao1215/breachscan/internal/pipeline"
	"github.com/nao1215/breachscan/internal/pwned"
	"github.com/nao1215/breachscan/internal/transport"
	"github.com/spf13/cobra"
)

// paddingHeader asks the range API to pad its response with fake entries.
const paddingHeader = "Add-Padding"

// addLookupFlags registers the flags shared by check and serve.
// Defaults differ per command, so they are passed in.
func addLookupFlags(cmd *cobra.Command, pause time.Duration, sourceCap int) {
	cmd.Flags().String("proxy", "",
		"Route lookups through a SOCKS5 proxy (e.g., 127.0.0.1:9050)")
	cmd.Flags().Bool("tor", false,
		"Start an embedded Tor daemon and route lookups through it")
	cmd.Flags().Duration("tor-timeout", config.DefaultTorStartupTimeout,
		"Timeout for embedded Tor startup")
	cmd.Flags().Int("max-sources", sourceCap,
		"Maximum number of breach sources to list (0 lists all)")
	cmd.Flags().Duration("pause", pause,
		"Pause between the email and password lookups (500ms-1.5s)")
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .breachscan in current, XDG config or home directory)")
}

// loadConfig layers the config file over base, then applies the flags the
// user actually set.
func loadConfig(cmd *cobra.Command, base *config.Config) (*config.Config, error) {
	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(base, configPath)
	if err != nil {
		return nil, err
	}

	if err := applyLookupFlags(cmd, cfg); err != nil {
		return nil, err
	}
	cfg.Verbose = getVerboseFlag(cmd)
	return cfg, nil
}

// applyLookupFlags copies changed lookup flags onto cfg.
func applyLookupFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	var err error

	if flags.Changed("proxy") {
		if cfg.ProxyAddress, err = flags.GetString("proxy"); err != nil {
			return err
		}
	}
	if flags.Changed("tor") {
		if cfg.UseTor, err = flags.GetBool("tor"); err != nil {
			return err
		}
	}
	if flags.Changed("tor-timeout") {
		if cfg.TorStartupTimeout, err = flags.GetDuration("tor-timeout"); err != nil {
			return err
		}
	}
	if flags.Changed("max-sources") {
		if cfg.SourceCap, err = flags.GetInt("max-sources"); err != nil {
			return err
		}
	}
	if flags.Changed("pause") {
		if cfg.Pause, err = flags.GetDuration("pause"); err != nil {
			return err
		}
	}
	return nil
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// routeOptions maps cfg onto transport options. The HTTP client timeout is
// the longest lookup timeout; each lookup applies its own shorter deadline.
func routeOptions(cfg *config.Config, logger *slog.Logger) transport.Options {
	return transport.Options{
		ProxyAddress:      cfg.ProxyAddress,
		UseTor:            cfg.UseTor,
		TorStartupTimeout: cfg.TorStartupTimeout,
		Timeout:           max(cfg.PasswordTimeout, cfg.ProviderTimeout),
		Logger:            logger,
	}
}

// newCheckPipeline builds the email probe, the password checker and the
// pipeline that runs them, all sending requests through httpClient.
func newCheckPipeline(cfg *config.Config, httpClient *http.Client, logger *slog.Logger) *pipeline.Pipeline {
	common := []lookup.Option{
		lookup.WithUserAgent(cfg.UserAgent),
		lookup.WithMaxBodySize(cfg.MaxBodySize),
	}

	passwordOpts := append(slices.Clone(common), lookup.WithTimeout(cfg.PasswordTimeout))
	if cfg.PasswordPadding {
		passwordOpts = append(passwordOpts, lookup.WithHeader(paddingHeader, "true"))
	}
	passwords := pwned.New(
		lookup.NewClient(httpClient, passwordOpts...),
		pwned.WithBaseURL(cfg.PasswordAPIURL),
		pwned.WithLogger(logger),
	)

	providerClient := lookup.NewClient(httpClient, append(common, lookup.WithTimeout(cfg.ProviderTimeout))...)
	probe := breach.NewProbe(
		newProviders(cfg.EnabledProviders(), providerClient),
		breach.WithSourceCap(cfg.SourceCap),
		breach.WithLogger(logger),
	)

	return pipeline.NewCheck(probe, passwords, cfg.Pause, pipeline.WithLogger(logger))
}

// newProviders instantiates the configured providers in priority order.
// Names are checked by Config.Validate, so unknown names cannot reach here.
func newProviders(configs []config.ProviderConfig, client *lookup.Client) []breach.Provider {
	providers := make([]breach.Provider, 0, len(configs))
	for _, p := range configs {
		switch p.Name {
		case config.ProviderIntelX:
			providers = append(providers, breach.NewIntelX(client, p.URL))
		case config.ProviderLeakCheck:
			providers = append(providers, breach.NewLeakCheck(client, p.URL))
		}
	}
	return providers
}
