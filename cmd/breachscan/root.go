package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for breachscan.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "breachscan",
		Short: "Check an email and password against known data breaches",
		Long: `breachscan checks whether an email address appears in known data breaches
and whether a password has been exposed, then prints a risk verdict.

The email is searched at IntelX and, if IntelX cannot answer, at LeakCheck.
The password is hashed locally; only the first five characters of its SHA-1
digest are sent to the Pwned Passwords range API.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewCheckCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
