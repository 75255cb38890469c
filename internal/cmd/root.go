package cmd

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/harrison/important/internal/status"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	logLevel   string
	noColor    bool
}

// NewRootCommand creates and returns the root cobra command for important
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "important",
		Short: "Mark files as important and find them later",
		Long: `important tags files as IMPORTANT and later lists the tagged files
under a directory tree.

Marks are stored in the file's extended attributes. When the filesystem does
not support them, the absolute path is recorded in a .important catalog file
in the current directory instead; find consults both.

Exit codes:
  0   OK
  -1  invalid syntax
  2   permission error (bit), check stderr
  4   file not found (bit), check stderr
  8   system I/O error (bit), check stderr
  16  uncertain (bit), could be OK, double check manually

Bits combine: 10 means a permission error and an I/O error happened.`,
		Version: Version,
		// Diagnostics are printed where they happen; Execute maps the rest.
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "configuration file (default: ./.important.yaml or $IMPORTANT_CONFIG)")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "diagnostic verbosity: trace, debug, info, warn, error")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	cmd.AddCommand(NewMarkCommand(opts))
	cmd.AddCommand(NewUnmarkCommand(opts))
	cmd.AddCommand(NewFindCommand(opts))

	return cmd
}

// Execute runs root and returns the process exit code. Errors that carry a
// status were already reported; anything else is a usage error.
func Execute(root *cobra.Command, stderr io.Writer) int {
	err := root.Execute()
	if err == nil {
		return 0
	}

	var exitErr *status.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code.ExitCode()
	}

	fmt.Fprintf(stderr, "important: error: Invalid syntax. %v\nSee 'important --help'.\n", err)
	return status.InvalidSyntax.ExitCode()
}
