package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/breachscan/internal/history"
	"github.com/nao1215/breachscan/internal/model"
)

// levels lists risk levels from most to least severe.
var levels = []model.RiskLevel{model.RiskHigh, model.RiskMedium, model.RiskLow}

// WriteHistory writes stored verdicts as an aligned text table.
func WriteHistory(w io.Writer, records []history.Record) error {
	if len(records) == 0 {
		_, err := fmt.Fprintln(w, "No checks recorded. Run 'breachscan check --save' to record verdicts.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "DATE\tCHECK\tEMAIL\tPROVIDER\tSOURCES\tPASSWORD\tRISK")
	for _, r := range records {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%s\t%s\n",
			r.StartedAt.Local().Format("2006-01-02 15:04:05"),
			shortID(r.CheckID),
			r.EmailStatus,
			dash(r.EmailProvider),
			r.SourceCount,
			passwordCell(r.PasswordCount),
			r.RiskLevel,
		)
	}
	return tw.Flush()
}

// WriteHistoryStats writes the aggregate counts as text.
func WriteHistoryStats(w io.Writer, stats *history.Stats) error {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Checks recorded: %d\n\n", stats.Total)
	for _, l := range levels {
		fmt.Fprintf(&sb, "  %-7s %d\n", strings.ToUpper(l.String()), stats.ByLevel[l])
	}
	fmt.Fprintf(&sb, "\nEmail lookups unanswered:    %d\n", stats.EmailUnknown)
	fmt.Fprintf(&sb, "Password lookups unanswered: %d\n", stats.PasswordUnknown)
	_, err := io.WriteString(w, sb.String())
	return err
}

// WriteHistoryMarkdown writes stored verdicts, and the aggregate counts with
// a mermaid pie chart when stats is non-nil, as Markdown.
func WriteHistoryMarkdown(w io.Writer, records []history.Record, stats *history.Stats) error {
	md := markdown.NewMarkdown(w)
	md.H1("breachscan History")
	md.PlainText("")

	if stats != nil {
		writeStatsMarkdown(md, stats)
	}

	md.H2("Recent Checks")
	md.PlainText("")
	if len(records) == 0 {
		md.PlainText("No checks recorded.")
		md.PlainText("")
	} else {
		rows := make([][]string, len(records))
		for i, r := range records {
			rows[i] = []string{
				r.StartedAt.Local().Format("2006-01-02 15:04:05"),
				"`" + shortID(r.CheckID) + "`",
				r.EmailStatus.String(),
				dash(r.EmailProvider),
				strconv.Itoa(r.SourceCount),
				passwordCell(r.PasswordCount),
				strings.ToUpper(r.RiskLevel.String()),
			}
		}
		md.Table(markdown.TableSet{
			Header: []string{"Date", "Check", "Email", "Provider", "Sources", "Password", "Risk"},
			Rows:   rows,
		})
		md.PlainText("")
	}

	writeFooter(md)
	return md.Build()
}

func writeStatsMarkdown(md *markdown.Markdown, stats *history.Stats) {
	md.H2("Summary")
	md.PlainText("")

	rows := make([][]string, 0, len(levels)+1)
	for _, l := range levels {
		rows = append(rows, []string{strings.ToUpper(l.String()), strconv.Itoa(stats.ByLevel[l])})
	}
	rows = append(rows, []string{"**Total**", "**" + strconv.Itoa(stats.Total) + "**"})
	md.Table(markdown.TableSet{Header: []string{"Risk", "Checks"}, Rows: rows})
	md.PlainText("")

	if stats.Total > 0 {
		chart := piechart.NewPieChart(
			io.Discard,
			piechart.WithTitle("Risk Distribution"),
			piechart.WithShowData(true),
		)
		for _, l := range levels {
			if n := stats.ByLevel[l]; n > 0 {
				chart.LabelAndIntValue(strings.ToUpper(l.String()), uint64(n))
			}
		}
		md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
		md.PlainText("")
	}

	if stats.EmailUnknown > 0 || stats.PasswordUnknown > 0 {
		md.Note(fmt.Sprintf("%d email and %d password lookups could not be answered.", stats.EmailUnknown, stats.PasswordUnknown))
		md.PlainText("")
	}
}

// shortID returns the first UUID group, enough to tell checks apart.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func passwordCell(count *int64) string {
	if count == nil {
		return "unknown"
	}
	return FormatCount(*count)
}
