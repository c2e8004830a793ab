package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/nao1215/breachscan/internal/model"
	"github.com/nao1215/breachscan/internal/risk"
)

// EmailChecker resolves the breach status of an email address.
// *breach.Probe implements it.
type EmailChecker interface {
	Check(ctx context.Context, email string) (model.EmailExposure, []model.ProviderAttempt)
}

// PasswordChecker resolves the leak count of a password.
// *pwned.Client implements it.
type PasswordChecker interface {
	Check(ctx context.Context, password string) model.PasswordExposure
}

// EmailStep asks the breach providers about the credential's email.
type EmailStep struct {
	checker EmailChecker
}

// NewEmailStep creates a new email breach step.
func NewEmailStep(checker EmailChecker) *EmailStep {
	return &EmailStep{checker: checker}
}

// Name returns the step name.
func (s *EmailStep) Name() string {
	return "email_breach"
}

// Do executes the email breach step.
func (s *EmailStep) Do(ctx context.Context, cred model.Credential, report *model.CheckReport) error {
	exposure, attempts := s.checker.Check(ctx, cred.Email)
	report.Email = exposure
	for _, a := range attempts {
		report.AddAttempt(a)
	}
	return nil
}

// PauseStep waits between the two lookups as a courtesy to the remote services.
type PauseStep struct {
	pause  time.Duration
	logger *slog.Logger
}

// NewPauseStep creates a pause of the given length. Zero disables it.
func NewPauseStep(pause time.Duration, logger *slog.Logger) *PauseStep {
	if logger == nil {
		logger = slog.Default()
	}
	return &PauseStep{pause: pause, logger: logger}
}

// Name returns the step name.
func (s *PauseStep) Name() string {
	return "courtesy_pause"
}

// Do waits for the pause or until ctx is done.
func (s *PauseStep) Do(ctx context.Context, _ model.Credential, _ *model.CheckReport) error {
	if s.pause <= 0 {
		return nil
	}
	s.logger.Debug("pausing before next lookup", "duration", s.pause)

	timer := time.NewTimer(s.pause)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// PasswordStep looks up the credential's password by hash prefix.
type PasswordStep struct {
	checker PasswordChecker
}

// NewPasswordStep creates a new password exposure step.
func NewPasswordStep(checker PasswordChecker) *PasswordStep {
	return &PasswordStep{checker: checker}
}

// Name returns the step name.
func (s *PasswordStep) Name() string {
	return "password_exposure"
}

// Do executes the password exposure step.
func (s *PasswordStep) Do(ctx context.Context, cred model.Credential, report *model.CheckReport) error {
	report.Password = s.checker.Check(ctx, cred.Password)
	return nil
}

// RiskStep classifies the report from the two exposure results.
type RiskStep struct{}

// NewRiskStep creates a new risk evaluation step.
func NewRiskStep() *RiskStep {
	return &RiskStep{}
}

// Name returns the step name.
func (s *RiskStep) Name() string {
	return "risk_evaluation"
}

// Do executes the risk evaluation step.
func (s *RiskStep) Do(_ context.Context, _ model.Credential, report *model.CheckReport) error {
	report.Risk = risk.Evaluate(report.Email, report.Password)
	return nil
}

// NewCheck builds the standard check: email probe, courtesy pause,
// password lookup, risk evaluation.
func NewCheck(email EmailChecker, password PasswordChecker, pause time.Duration, opts ...Option) *Pipeline {
	p := New(opts...)
	p.AddSteps(
		NewEmailStep(email),
		NewPauseStep(pause, p.logger),
		NewPasswordStep(password),
		NewRiskStep(),
	)
	return p
}
