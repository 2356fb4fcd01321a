package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shapestone/scene-filter/pkg/filter"
)

func newSmudgeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "smudge",
		Short: "Restore a committed scene file (stdin to stdout)",
		Long: `Copies stdin to stdout. The engine regenerates every field the
clean direction strips, so no restore rewriting is needed; the command exists
so the filter driver is wired symmetrically.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input, err := io.ReadAll(cmd.InOrStdin())
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(filter.Smudge(input))
			return err
		},
	}
}
