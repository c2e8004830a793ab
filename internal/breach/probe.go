package breach

import (
	"context"
	"log/slog"

	"github.com/nao1215/breachscan/internal/lookup"
	"github.com/nao1215/breachscan/internal/model"
)

// DefaultSourceCap is the number of breach sources kept for display.
const DefaultSourceCap = 5

// ManualCheckURLs are offered when no provider could answer.
var ManualCheckURLs = []string{
	"https://haveibeenpwned.com/",
	"https://leakcheck.io/",
}

// UnknownMessage is the message of an unknown result.
const UnknownMessage = "Unable to check automatically. Please check manually at https://haveibeenpwned.com/ or https://leakcheck.io/"

// Probe asks providers in order until one answers conclusively.
type Probe struct {
	providers []Provider
	sourceCap int
	logger    *slog.Logger
}

// ProbeOption configures a Probe.
type ProbeOption func(*Probe)

// WithSourceCap sets how many sources are kept. Zero or less keeps all.
func WithSourceCap(n int) ProbeOption {
	return func(p *Probe) {
		p.sourceCap = n
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) ProbeOption {
	return func(p *Probe) {
		p.logger = logger
	}
}

// NewProbe creates a Probe over providers, which are tried in slice order.
func NewProbe(providers []Provider, opts ...ProbeOption) *Probe {
	p := &Probe{
		providers: providers,
		sourceCap: DefaultSourceCap,
		logger:    slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// ProviderNames returns provider names in priority order.
func (p *Probe) ProviderNames() []string {
	names := make([]string, len(p.providers))
	for i, provider := range p.providers {
		names[i] = provider.Name()
	}
	return names
}

// Check returns the first conclusive answer for email together with every
// attempt made. With no conclusive answer the result is BreachUnknown.
func (p *Probe) Check(ctx context.Context, email string) (model.EmailExposure, []model.ProviderAttempt) {
	attempts := make([]model.ProviderAttempt, 0, len(p.providers))

	for _, provider := range p.providers {
		p.logger.Debug("querying breach provider", "provider", provider.Name())

		outcome := provider.Lookup(ctx, email)
		if !outcome.IsConclusive() {
			reason := lookup.Reason(outcome.Err())
			p.logger.Warn("breach provider skipped",
				"provider", provider.Name(),
				"reason", reason,
			)
			attempts = append(attempts, model.ProviderAttempt{
				Provider: provider.Name(),
				Outcome:  model.AttemptSkipped,
				Reason:   reason,
			})
			continue
		}

		attempts = append(attempts, model.ProviderAttempt{
			Provider: provider.Name(),
			Outcome:  model.AttemptConclusive,
		})
		exposure := outcome.Exposure()
		exposure.TruncateSources(p.sourceCap)
		p.logger.Debug("breach provider answered",
			"provider", provider.Name(),
			"status", exposure.Status.String(),
		)
		return exposure, attempts
	}

	return model.EmailExposure{
		Status:  model.BreachUnknown,
		Message: UnknownMessage,
		Sources: []string{},
	}, attempts
}
