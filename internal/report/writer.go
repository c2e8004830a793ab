package report

import (
	"io"

	"github.com/nao1215/breachscan/internal/model"
)

// Writer renders a finished check report.
type Writer interface {
	// Write outputs the report and returns the number of bytes written.
	Write(report *model.CheckReport) (int, error)
}

// Response is the JSON document returned by the HTTP API and by --json.
// It carries exactly the two exposure results and the verdict.
type Response struct {
	Email    EmailResponse          `json:"email"`
	Password model.PasswordExposure `json:"password"`
	Risk     RiskResponse           `json:"risk"`
}

// EmailResponse is the email part of Response.
// Found is true, false or null (no provider could answer). Omitted counts
// the sources left out of Sources by the source cap.
type EmailResponse struct {
	Found   model.BreachStatus `json:"found"`
	Message string             `json:"message"`
	Sources []string           `json:"sources"`
	Omitted int                `json:"omitted,omitempty"`
}

// RiskResponse is the verdict part of Response.
type RiskResponse struct {
	Level          model.RiskLevel `json:"level"`
	Message        string          `json:"message"`
	Recommendation string          `json:"recommendation"`
}

// NewResponse projects a report onto the response document.
func NewResponse(report *model.CheckReport) Response {
	sources := report.Email.Sources
	if sources == nil {
		sources = []string{}
	}
	return Response{
		Email: EmailResponse{
			Found:   report.Email.Status,
			Message: report.Email.Message,
			Sources: sources,
			Omitted: report.Email.Omitted,
		},
		Password: report.Password,
		Risk: RiskResponse{
			Level:          report.Risk.Level,
			Message:        report.Risk.Message,
			Recommendation: report.Risk.Recommendation,
		},
	}
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}
