package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harrison/important/internal/query"
	"github.com/harrison/important/internal/status"
)

// findOptionNames are the spellings a find option value may not take. The
// flag parser would otherwise swallow "--dir --ext" as a directory named
// "--ext".
var findOptionNames = map[string]bool{
	"--dir":           true,
	"--ext":           true,
	"--name-contains": true,
	"--verbose":       true,
	"-v":              true,
	"--use-regexp":    true,
}

// NewFindCommand creates and returns the find subcommand
func NewFindCommand(opts *rootOptions) *cobra.Command {
	var q query.FindQuery

	cmd := &cobra.Command{
		Use:   "find [--dir D] [--ext E] [--name-contains S] [-v|--verbose] [--use-regexp]",
		Short: "Print the absolute paths of marked files",
		Long: `Walk a directory tree and print the absolute path of every marked file,
one per line, in traversal order.

By default --name-contains matches a substring of the file name and --ext
matches the last extension literally. With --use-regexp both values are
regular expressions (RE2 syntax): the name pattern must match at the start
of the file name, the extension pattern must match the whole extension.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			for _, name := range []string{"dir", "ext", "name-contains"} {
				if !flags.Changed(name) {
					continue
				}
				value, _ := flags.GetString(name)
				if findOptionNames[value] {
					return fmt.Errorf("no value present for --%s", name)
				}
			}
			q.HasName = flags.Changed("name-contains")
			q.HasExt = flags.Changed("ext")

			return runFind(cmd, opts, q)
		},
	}

	cmd.Flags().StringVar(&q.Dir, "dir", "", "directory to search (default: current directory)")
	cmd.Flags().StringVar(&q.Ext, "ext", "", "only files with this extension")
	cmd.Flags().StringVar(&q.NameContains, "name-contains", "", "only files whose name contains this string")
	cmd.Flags().BoolVarP(&q.Verbose, "verbose", "v", false, "print the search directory and patterns to stderr")
	cmd.Flags().BoolVar(&q.UseRegexp, "use-regexp", false, "treat --name-contains and --ext as regular expressions")

	return cmd
}

func runFind(cmd *cobra.Command, opts *rootOptions, q query.FindQuery) error {
	e, err := newEnv(cmd, opts)
	if err != nil {
		return err
	}
	if q.Verbose && e.logger.Level() != "trace" {
		e.logger.SetLevel("debug")
	}

	engine := query.NewEngine(e.cfg.WorkDir, e.meta, e.catalog, e.logger)
	out := cmd.OutOrStdout()
	code, err := engine.Find(cmd.Context(), q, func(path string) error {
		_, err := fmt.Fprintln(out, path)
		return err
	})
	if err != nil {
		switch code {
		case status.InvalidSyntax:
			e.logger.LogError(fmt.Sprintf("Invalid syntax. %v", err))
		case status.PermissionError:
			e.logger.LogError(fmt.Sprintf("find: permission denied: %v", err))
		default:
			e.logger.LogError(fmt.Sprintf("find: I/O error: %v", err))
		}
	}
	return status.Exit(code)
}
