package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/finance-tracker/internal/cli"
)

func statsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show row counts for every table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			stats, err := store.Stats(ctx)
			if err != nil {
				return fmt.Errorf("failed to read stats: %w", err)
			}

			writeLine(cmd.OutOrStdout(), cli.RenderStats(stats))
			return nil
		},
	}
}
