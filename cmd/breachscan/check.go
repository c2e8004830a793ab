package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/nao1215/breachscan/internal/config"
	"github.com/nao1215/breachscan/internal/history"
	"github.com/nao1215/breachscan/internal/log"
	"github.com/nao1215/breachscan/internal/model"
	"github.com/nao1215/breachscan/internal/report"
	"github.com/nao1215/breachscan/internal/transport"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// historyOriginCLI marks history rows written by the check command.
const historyOriginCLI = "cli"

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check [email]",
		Short: "Check an email and password against known breaches",
		Long: `Check searches known data breaches for an email address, looks up how
often a password has been exposed, and prints a low, medium or high risk verdict.

The email is prompted for when not given as an argument. The password is
always read from the terminal without echo, or from standard input with
--password-stdin. It is hashed locally; only the first five characters of
its SHA-1 digest leave the machine.

Examples:
  # Prompt for the email and password
  breachscan check

  # Read the password from a pipe
  printf '%s\n' "$PASSWORD" | breachscan check --password-stdin alice@example.com

  # JSON report written to a file
  breachscan check --json -o report.json alice@example.com

  # Route every lookup through Tor and keep the verdict in the history
  breachscan check --tor --save alice@example.com`,
		Args: cobra.MaximumNArgs(1),
		RunE: runCheckCmd,
	}

	addLookupFlags(cmd, config.DefaultCheckPause, config.DefaultSourceCap)

	cmd.Flags().Bool("password-stdin", false,
		"Read the password from standard input instead of prompting")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	// History flags
	cmd.Flags().Bool("save", false,
		"Record the verdict in the local history (never the email or password)")

	return cmd
}

// runCheckCmd executes the check command.
func runCheckCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildCheckConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	passwordStdin, err := cmd.Flags().GetBool("password-stdin")
	if err != nil {
		return err
	}

	stderr := cmd.ErrOrStderr()
	if !passwordStdin {
		printBanner(stderr)
	}

	cred, err := readCredential(newPrompter(cmd.InOrStdin(), stderr), args, passwordStdin)
	if err != nil {
		return err
	}
	if err := cred.Validate(); err != nil {
		return err
	}

	logger := log.NewSecureLogger(stderr, cfg.Verbose)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runCheck(ctx, cfg, cred, cmd.OutOrStdout(), stderr, logger)
}

// buildCheckConfig creates a Config from defaults, the config file and flags.
func buildCheckConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := loadConfig(cmd, config.NewConfig())
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}
	if flags.Changed("save") {
		if cfg.SaveHistory, err = flags.GetBool("save"); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// runCheck performs one check and writes the report.
func runCheck(ctx context.Context, cfg *config.Config, cred model.Credential, stdout, stderr io.Writer, logger *slog.Logger) error {
	route, err := transport.Open(ctx, routeOptions(cfg, logger))
	if err != nil {
		return fmt.Errorf("failed to set up outbound route: %w", err)
	}
	defer func() {
		if err := route.Close(); err != nil {
			logger.Error("failed to close outbound route", "error", err)
		}
	}()

	logger.Info("starting check", "route", route.Mode(), "providers", len(cfg.EnabledProviders()))
	fmt.Fprintln(stderr, "Checking email breaches and password exposure...")

	runner := newCheckPipeline(cfg, route.HTTPClient(), logger)
	checkReport, err := runner.Run(ctx, cred)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return errors.New("operation cancelled by user")
		}
		return fmt.Errorf("check failed: %w", err)
	}

	if err := outputReport(cfg, checkReport, stdout); err != nil {
		return err
	}

	if cfg.SaveHistory {
		if err := saveHistory(ctx, cfg.DBDir, checkReport); err != nil {
			// The report is already out; losing the history row is not fatal.
			logger.Error("failed to save check history", "error", err)
			fmt.Fprintf(stderr, "Warning: could not save history: %v\n", err)
		}
	}
	return nil
}

// outputReport writes the report in the configured format to stdout or
// cfg.ReportFile.
func outputReport(cfg *config.Config, checkReport *model.CheckReport, stdout io.Writer) error {
	output := stdout
	if cfg.ReportFile != "" {
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// The report names the email address, so only the owner may read it.
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	}

	var writer report.Writer
	switch {
	case cfg.JSONReport:
		writer = report.NewJSONWriter(output, report.WithPrettyPrint())
	case cfg.MarkdownReport:
		writer = report.NewMarkdownWriter(output)
	default:
		writer = report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	}

	if _, err := writer.Write(checkReport); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// saveHistory records the verdict of checkReport in the history database.
func saveHistory(ctx context.Context, dbDir string, checkReport *model.CheckReport) error {
	store, err := history.Open(dbDir, history.DefaultOptions())
	if err != nil {
		return err
	}
	defer store.Close()

	return store.Save(context.WithoutCancel(ctx), historyOriginCLI, checkReport)
}

// printBanner explains what leaves the machine before anything is typed.
func printBanner(w io.Writer) {
	fmt.Fprintln(w, strings.Repeat("=", 70))
	fmt.Fprintln(w, "  breachscan: email and password breach checker")
	fmt.Fprintln(w, strings.Repeat("=", 70))
	fmt.Fprintln(w, "This tool uses free APIs (no API key required)")
	fmt.Fprintln(w, "  - Email breach check via IntelX/LeakCheck")
	fmt.Fprintln(w, "  - Password check via Pwned Passwords API")
	fmt.Fprintln(w, "  Note: If automatic check fails, manual verification links are provided")
	fmt.Fprintln(w)
}

// readCredential collects the email and password. The email comes from args
// or a prompt; the password from a hidden prompt or a plain stdin line.
func readCredential(p *prompter, args []string, passwordStdin bool) (model.Credential, error) {
	var (
		email string
		err   error
	)
	if len(args) > 0 {
		email = args[0]
	} else {
		email, err = p.readLine("Enter email address to check: ")
		if err != nil {
			return model.Credential{}, fmt.Errorf("failed to read email: %w", err)
		}
	}

	// Reject a bad email before asking for the password.
	if err := model.NewCredential(email, "-").Validate(); err != nil {
		return model.Credential{}, err
	}

	var password string
	if passwordStdin {
		password, err = p.readLine("")
	} else {
		fmt.Fprintln(p.out, "\nEnter the password you want to check for this email:")
		fmt.Fprintln(p.out, "  (Your password is hashed locally and never sent in full)")
		password, err = p.readSecret("  Password: ")
	}
	if err != nil {
		return model.Credential{}, fmt.Errorf("failed to read password: %w", err)
	}

	return model.NewCredential(email, password), nil
}

// prompter reads answers from in and writes prompts to out.
type prompter struct {
	in  *bufio.Reader
	out io.Writer

	// fd is the terminal descriptor behind in, or -1 when in is not a
	// terminal and secrets are read as plain lines.
	fd int
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	fd := -1
	if f, ok := in.(*os.File); ok && term.IsTerminal(int(f.Fd())) { //nolint:gosec // fd fits in int
		fd = int(f.Fd()) //nolint:gosec // fd fits in int
	}
	return &prompter{in: bufio.NewReader(in), out: out, fd: fd}
}

// readLine prints prompt and returns one line without its line ending.
// A final line without a newline is accepted.
func (p *prompter) readLine(prompt string) (string, error) {
	if prompt != "" {
		fmt.Fprint(p.out, prompt)
	}
	line, err := p.in.ReadString('\n')
	if err != nil && (!errors.Is(err, io.EOF) || line == "") {
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// readSecret reads a line without echo when attached to a terminal.
func (p *prompter) readSecret(prompt string) (string, error) {
	if p.fd < 0 {
		return p.readLine(prompt)
	}
	fmt.Fprint(p.out, prompt)
	secret, err := term.ReadPassword(p.fd)
	fmt.Fprintln(p.out)
	if err != nil {
		return "", err
	}
	return string(secret), nil
}
