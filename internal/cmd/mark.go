package cmd

import (
	"github.com/spf13/cobra"

	"github.com/harrison/important/internal/display"
	"github.com/harrison/important/internal/marker"
	"github.com/harrison/important/internal/status"
)

// NewMarkCommand creates and returns the mark subcommand
func NewMarkCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mark FILE...",
		Short: "Mark files as important",
		Long: `Mark each FILE as important.

Directories are skipped with a warning. Files on filesystems without extended
attribute support are recorded in the catalog file instead; such marks do not
follow the file when it is copied or moved.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newMarker(cmd, opts)
			if err != nil {
				return err
			}
			return status.Exit(m.Mark(args))
		},
	}
}

// NewUnmarkCommand creates and returns the unmark subcommand
func NewUnmarkCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "unmark FILE...",
		Short: "Remove the important mark from files",
		Long: `Remove the mark from each FILE, both from its extended attributes and
from the catalog file. Unmarking a file that is not marked succeeds.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := newMarker(cmd, opts)
			if err != nil {
				return err
			}
			return status.Exit(m.Unmark(args))
		},
	}
}

func newMarker(cmd *cobra.Command, opts *rootOptions) (*marker.Marker, error) {
	e, err := newEnv(cmd, opts)
	if err != nil {
		return nil, err
	}
	progress := display.NewProgress(cmd.OutOrStdout(), e.colorStdout(cmd))
	return marker.New(e.cfg.WorkDir, e.meta, e.catalog, e.logger, progress), nil
}
