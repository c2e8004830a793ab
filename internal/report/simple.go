package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/nao1215/breachscan/internal/breach"
	"github.com/nao1215/breachscan/internal/model"
)

const ruleWidth = 70

// printer formats counts with thousands separators ("1,234").
var printer = message.NewPrinter(language.English)

// SimpleWriter outputs the plain-text terminal report.
type SimpleWriter struct {
	baseWriter

	// verbose adds the provider attempt trail.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the report in human-readable format.
func (w *SimpleWriter) Write(report *model.CheckReport) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, report)
	w.writeEmail(&sb, report.Email)
	w.writePassword(&sb, report.Password)
	w.writeRisk(&sb, report.Risk)
	if w.verbose {
		w.writeAttempts(&sb, report)
	}
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")

	return io.WriteString(w.output, sb.String())
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, report *model.CheckReport) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("                       BREACH ANALYSIS REPORT\n")
	sb.WriteString(strings.Repeat("=", ruleWidth))
	sb.WriteString("\n\n")
	fmt.Fprintf(sb, "Email: %s\n", report.Target)
	if w.verbose {
		fmt.Fprintf(sb, "Check: %s\n", report.ID)
		fmt.Fprintf(sb, "Date:  %s\n", report.StartedAt.Format("2006-01-02 15:04:05 MST"))
	}
	sb.WriteString("\n")
}

func (w *SimpleWriter) writeEmail(sb *strings.Builder, email model.EmailExposure) {
	switch email.Status {
	case model.BreachFound:
		fmt.Fprintf(sb, "[!] %s\n", email.Message)
		if len(email.Sources) > 0 {
			sb.WriteString("    Sources:\n")
			for _, s := range email.Sources {
				fmt.Fprintf(sb, "      - %s\n", s)
			}
			if email.Omitted > 0 {
				fmt.Fprintf(sb, "      ... and %s more\n", FormatCount(int64(email.Omitted)))
			}
		}
	case model.BreachNotFound:
		sb.WriteString("[OK] Good news! This email has NOT been found in any known breaches.\n")
	default:
		sb.WriteString("[?] Could not check email breaches\n")
		fmt.Fprintf(sb, "    %s\n", email.Message)
		for _, u := range breach.ManualCheckURLs {
			fmt.Fprintf(sb, "    - %s\n", u)
		}
	}
}

func (w *SimpleWriter) writePassword(sb *strings.Builder, password model.PasswordExposure) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")

	count, known := password.Value()
	switch {
	case !known:
		sb.WriteString("[?] Could not check password exposure\n")
	case count == 0:
		sb.WriteString("[OK] Password has NOT been found in known breaches\n")
	default:
		sb.WriteString(printer.Sprintf("[!] Password has been seen %d times in breaches!\n", count))
	}
}

func (w *SimpleWriter) writeRisk(sb *strings.Builder, verdict model.RiskVerdict) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("RISK ASSESSMENT:\n")
	fmt.Fprintf(sb, "  %s %s RISK - %s\n", levelIndicator(verdict.Level), strings.ToUpper(verdict.Level.String()), verdict.Message)
	fmt.Fprintf(sb, "  %s: %s\n", recommendationLabel(verdict.Level), verdict.Recommendation)
}

func (w *SimpleWriter) writeAttempts(sb *strings.Builder, report *model.CheckReport) {
	if len(report.Attempts) == 0 {
		return
	}
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", ruleWidth))
	sb.WriteString("\n")
	sb.WriteString("PROVIDERS:\n")
	for _, a := range report.Attempts {
		if a.Reason != "" {
			fmt.Fprintf(sb, "  %-10s %s (%s)\n", a.Provider, a.Outcome, a.Reason)
			continue
		}
		fmt.Fprintf(sb, "  %-10s %s\n", a.Provider, a.Outcome)
	}
	fmt.Fprintf(sb, "\nCompleted in %s\n", report.Duration().Round(10*time.Millisecond))
}

// levelIndicator returns the ASCII marker used for a risk level.
func levelIndicator(level model.RiskLevel) string {
	switch level {
	case model.RiskHigh:
		return "[!!!]"
	case model.RiskMedium:
		return "[!]"
	default:
		return "[-]"
	}
}

func recommendationLabel(level model.RiskLevel) string {
	if level == model.RiskHigh {
		return "ACTION REQUIRED"
	}
	return "RECOMMENDATION"
}

// FormatCount formats n with thousands separators.
func FormatCount(n int64) string {
	return printer.Sprintf("%d", n)
}
