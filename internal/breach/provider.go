package breach

import (
	"context"

	"github.com/nao1215/breachscan/internal/model"
)

// Provider is one breach search service.
type Provider interface {
	// Name returns a short identifier used in logs, reports and metrics.
	Name() string

	// Lookup searches for email. It must not panic or block past ctx.
	Lookup(ctx context.Context, email string) Outcome
}

// Outcome is the result of asking one provider: either a conclusive
// EmailExposure or a skip reason, never both.
type Outcome struct {
	exposure model.EmailExposure
	skip     error
}

// Conclusive wraps a definite found/not-found answer.
func Conclusive(exposure model.EmailExposure) Outcome {
	return Outcome{exposure: exposure}
}

// Skipped records why a provider could not answer. A nil err is replaced
// so the outcome still reads as skipped.
func Skipped(err error) Outcome {
	if err == nil {
		err = ErrNoAnswer
	}
	return Outcome{skip: err}
}

// IsConclusive reports whether the provider answered.
func (o Outcome) IsConclusive() bool {
	return o.skip == nil
}

// Exposure returns the conclusive answer. It is only meaningful when
// IsConclusive is true.
func (o Outcome) Exposure() model.EmailExposure {
	return o.exposure
}

// Err returns the skip reason, or nil for a conclusive outcome.
func (o Outcome) Err() error {
	return o.skip
}
