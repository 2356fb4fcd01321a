package main

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/shapestone/scene-filter/pkg/filter"
)

func newCleanCmd() *cobra.Command {
	var (
		version  int
		sortDocs bool
		file     string
	)
	cmd := &cobra.Command{
		Use:   "clean",
		Short: "Canonicalize a scene file (stdin to stdout)",
		Long: `Reads one scene file on stdin, strips the fields the selected
rule version marks as machine-generated, and writes the canonical bytes to
stdout. Invoked by git through the filter.scene.clean driver.

Any failure exits non-zero. With filter.scene.required set, git then aborts
the add/checkout instead of committing an uncleaned file.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
			slog.Debug("clean", "file", file, "bytes", len(input), "version", version, "sort", sortDocs)

			out, err := filter.Clean(input, filter.Config{Version: version, Sort: sortDocs})
			if err != nil {
				if file != "" {
					return fmt.Errorf("%s: %w", file, err)
				}
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().IntVar(&version, "filter-version", filter.DefaultVersion, "rule table version to apply")
	cmd.Flags().BoolVar(&sortDocs, "sort", false, "sort documents by fileID before emitting")
	cmd.Flags().StringVar(&file, "file", "", "path of the file being filtered (git's %f), for diagnostics only")
	return cmd
}
