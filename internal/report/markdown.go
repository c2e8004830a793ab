package report

import (
	"io"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/nao1215/breachscan/internal/breach"
	"github.com/nao1215/breachscan/internal/model"
)

// MarkdownWriter outputs reports in GitHub-flavored Markdown, for pasting
// into tickets or incident notes.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.CheckReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, report)
	w.writeRisk(md, report.Risk)
	w.writeEmail(md, report.Email)
	w.writePassword(md, report.Password)
	w.writeAttempts(md, report.Attempts)
	writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, report *model.CheckReport) {
	md.H1("Breach Analysis Report")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Email", "`" + report.Target + "`"},
			{"Check ID", "`" + report.ID + "`"},
			{"Date", report.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Risk", strings.ToUpper(report.Risk.Level.String())},
		},
	})
	md.PlainText("")
}

// writeRisk writes the verdict as an alert whose kind follows the level.
func (w *MarkdownWriter) writeRisk(md *markdown.Markdown, verdict model.RiskVerdict) {
	md.H2("Risk Assessment")
	md.PlainText("")
	switch verdict.Level {
	case model.RiskHigh:
		md.Cautionf("%s. %s", verdict.Message, verdict.Recommendation)
	case model.RiskMedium:
		md.Warningf("%s. %s", verdict.Message, verdict.Recommendation)
	default:
		md.Tip(verdict.Message + ". " + verdict.Recommendation)
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeEmail(md *markdown.Markdown, email model.EmailExposure) {
	md.H2("Email")
	md.PlainText("")

	switch email.Status {
	case model.BreachFound:
		md.PlainTextf("**%s**", email.Message)
		if email.Provider != "" {
			md.PlainTextf("Reported by `%s`.", email.Provider)
		}
		md.PlainText("")
		if len(email.Sources) > 0 {
			items := append([]string{}, email.Sources...)
			if email.Omitted > 0 {
				items = append(items, "... and "+FormatCount(int64(email.Omitted))+" more")
			}
			md.BulletList(items...)
			md.PlainText("")
		}
	case model.BreachNotFound:
		md.PlainText("This email has not been found in any known breaches.")
		md.PlainText("")
	default:
		md.Note("Could not check email breaches automatically.")
		md.PlainText("")
		md.PlainText("Check manually at:")
		md.PlainText("")
		md.BulletList(breach.ManualCheckURLs...)
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writePassword(md *markdown.Markdown, password model.PasswordExposure) {
	md.H2("Password")
	md.PlainText("")

	count, known := password.Value()
	switch {
	case !known:
		md.PlainText("Could not check password exposure.")
	case count == 0:
		md.PlainText("This password has not been found in known breaches.")
	default:
		md.PlainTextf("This password has been seen **%s** times in breaches.", FormatCount(count))
	}
	md.PlainText("")
}

func (w *MarkdownWriter) writeAttempts(md *markdown.Markdown, attempts []model.ProviderAttempt) {
	if len(attempts) == 0 {
		return
	}
	rows := make([][]string, len(attempts))
	for i, a := range attempts {
		reason := a.Reason
		if reason == "" {
			reason = "-"
		}
		rows[i] = []string{a.Provider, string(a.Outcome), reason}
	}
	table := markdown.NewMarkdown(io.Discard)
	table.Table(markdown.TableSet{
		Header: []string{"Provider", "Outcome", "Reason"},
		Rows:   rows,
	})
	md.Details("Provider attempts", table.String())
	md.PlainText("")
}

// writeFooter writes the report footer.
func writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by [breachscan](https://github.com/nao1215/breachscan)*")
}
