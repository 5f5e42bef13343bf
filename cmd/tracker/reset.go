package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/finance-tracker/internal/cli"
	"github.com/Veraticus/finance-tracker/internal/common"
	"github.com/Veraticus/finance-tracker/internal/service"
)

func resetCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Delete all users, transactions and budgets",
		Long: `Reset empties the users, transactions and budgets tables and restarts
their id sequences, so the next user created gets id 1.

This is a destructive operation and cannot be undone.`,
		RunE: runReset,
	}

	cmd.Flags().BoolP("force", "f", false, "Skip confirmation prompt")

	return cmd
}

func runReset(cmd *cobra.Command, _ []string) error {
	force, _ := cmd.Flags().GetBool("force")
	ctx := cmd.Context()

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	return resetStore(ctx, store, cmd.InOrStdin(), cmd.OutOrStdout(), force)
}

// resetStore asks for confirmation unless force is set, then resets store.
func resetStore(ctx context.Context, store service.Storage, in io.Reader, out io.Writer, force bool) error {
	stats, err := store.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to count rows: %w", err)
	}

	if !force {
		writeLine(out, cli.FormatWarning(fmt.Sprintf(
			"This will delete %d users, %d transactions and %d budgets.",
			stats.Users, stats.Transactions, stats.Budgets)))
		if _, err := fmt.Fprint(out, cli.FormatPrompt("Are you sure you want to continue?")); err != nil {
			slog.Error("failed to write output", "error", err)
		}

		if !confirmed(in) {
			writeLine(out, "Reset canceled.")
			return nil
		}
	}

	if err := store.Reset(ctx); err != nil {
		return common.NewUserError("Could not reset the database", err)
	}

	slog.Info("All tables truncated",
		"users", stats.Users,
		"transactions", stats.Transactions,
		"budgets", stats.Budgets)
	writeLine(out, cli.FormatSuccess("Database reset. Run 'tracker seed' to load demo data."))
	return nil
}

func confirmed(in io.Reader) bool {
	response, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && response == "" {
		return false
	}
	response = strings.ToLower(strings.TrimSpace(response))
	return response == "y" || response == "yes"
}

func writeLine(out io.Writer, line string) {
	if _, err := fmt.Fprintln(out, line); err != nil {
		slog.Error("failed to write output", "error", err)
	}
}
