package main

import (
	"github.com/spf13/cobra"
	"github.com/walteh/artifactrc/pkg/collect"
	"github.com/walteh/artifactrc/pkg/config"
)

// newClearCmd creates the standalone clear command
func newClearCmd() *cobra.Command {
	var clearOutput string

	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove the output directory and everything in it",
		Long: `Clear removes the whole output directory tree, copied artifacts and
metadata.json included. Removing an absent or empty directory is not an
error; zero removed files are reported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, ctx := setupLogging(cmd.Context(), verbose)

			dir := clearOutput
			if dir == "" {
				dir = config.DefaultOutputDir
			}

			removed, err := collect.Clear(ctx, dir)
			if err != nil {
				return err
			}

			logger.LogCleared(removed)
			return nil
		},
	}

	cmd.Flags().StringVarP(&clearOutput, "output", "o", "", "output directory (default \"artifacts\")")

	return cmd
}
