package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/breachscan/internal/model"
)

// Step defines the interface that all pipeline steps must implement.
// Steps are executed in sequence, with each step receiving the report
// filled in by the previous ones.
type Step interface {
	// Do executes the step. Lookup failures are recorded in the report as
	// unknown results; an error is returned only when the check cannot go on,
	// which in practice means the context was cancelled.
	Do(ctx context.Context, cred model.Credential, report *model.CheckReport) error

	// Name returns the step's name for logging purposes.
	Name() string
}

// Runner performs a complete check for one credential.
type Runner interface {
	Run(ctx context.Context, cred model.Credential) (*model.CheckReport, error)
}

// Pipeline orchestrates the execution of multiple steps.
// A Pipeline holds no per-check state and may be shared between goroutines
// once all steps have been added.
type Pipeline struct {
	// steps contains the ordered list of steps to execute.
	steps []Step

	// logger is used for structured logging during execution.
	logger *slog.Logger
}

// Option is a function that configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets a custom logger for the pipeline.
// If not set, slog.Default is used.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// New creates a new Pipeline with the given options.
// Steps should be added using AddStep after creation.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{
		steps: make([]Step, 0),
	}

	for _, opt := range opts {
		opt(p)
	}

	if p.logger == nil {
		p.logger = slog.Default()
	}

	return p
}

// AddStep appends a step to the pipeline.
// Steps are executed in the order they are added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends multiple steps to the pipeline.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Run validates cred, then executes every step against a fresh report.
// Invalid input is rejected before any step runs, so nothing is sent over
// the network. On cancellation the partial report is returned with the error.
func (p *Pipeline) Run(ctx context.Context, cred model.Credential) (*model.CheckReport, error) {
	if err := cred.Validate(); err != nil {
		return nil, err
	}

	report := model.NewCheckReport(cred.Email)
	err := p.Execute(ctx, cred, report)
	report.Finish()
	return report, err
}

// Execute runs all pipeline steps in sequence.
// Cancellation is checked before each step; steps handle their own timeouts.
func (p *Pipeline) Execute(ctx context.Context, cred model.Credential, report *model.CheckReport) error {
	for _, step := range p.steps {
		select {
		case <-ctx.Done():
			p.logger.Warn("pipeline cancelled",
				"step", step.Name(),
				"check_id", report.ID,
				"reason", ctx.Err(),
			)
			return ctx.Err()
		default:
		}

		p.logger.Info("executing step",
			"step", step.Name(),
			"check_id", report.ID,
		)

		if err := step.Do(ctx, cred, report); err != nil {
			p.logger.Error("step failed",
				"step", step.Name(),
				"check_id", report.ID,
				"error", err,
			)
			return err
		}

		p.logger.Debug("step completed",
			"step", step.Name(),
			"check_id", report.ID,
		)
	}

	return nil
}

// StepCount returns the number of steps in the pipeline.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the names of all steps in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, len(p.steps))
	for i, step := range p.steps {
		names[i] = step.Name()
	}
	return names
}
