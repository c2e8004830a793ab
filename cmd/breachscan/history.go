package main

import (
	"errors"
	"fmt"

	"github.com/nao1215/breachscan/internal/config"
	"github.com/nao1215/breachscan/internal/history"
	"github.com/nao1215/breachscan/internal/report"
	"github.com/spf13/cobra"
)

// defaultHistoryLimit is how many checks history lists by default.
const defaultHistoryLimit = 20

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded check verdicts",
		Long: `History lists verdicts recorded with "check --save" or "serve --save",
newest first. Only the verdict is stored: the answering provider, the number
of breach sources, the password exposure count and the risk level. Emails,
passwords and password hashes are never recorded.

Examples:
  # Show the 20 most recent checks
  breachscan history

  # Show counts per risk level
  breachscan history --stats

  # Markdown summary with a risk distribution chart
  breachscan history --markdown --limit 100`,
		Args: cobra.NoArgs,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", defaultHistoryLimit,
		"Maximum number of checks to list")
	cmd.Flags().Bool("stats", false,
		"Show counts per risk level instead of individual checks")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output a Markdown summary")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the history database")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	if limit <= 0 {
		return fmt.Errorf("--limit must be positive, got %d", limit)
	}
	statsOnly, err := cmd.Flags().GetBool("stats")
	if err != nil {
		return err
	}
	asMarkdown, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()

	store, err := history.Open(dbDir, history.Options{CreateIfNotExists: false, EnableWAL: true})
	if errors.Is(err, history.ErrNoDatabase) {
		return report.WriteHistory(out, nil)
	}
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()

	stats, err := store.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to read history stats: %w", err)
	}
	if statsOnly {
		return report.WriteHistoryStats(out, stats)
	}

	records, err := store.List(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	if asMarkdown {
		return report.WriteHistoryMarkdown(out, records, stats)
	}
	return report.WriteHistory(out, records)
}
