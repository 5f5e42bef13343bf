package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/finance-tracker/internal/cli"
	"github.com/Veraticus/finance-tracker/internal/common"
	"github.com/Veraticus/finance-tracker/internal/config"
	"github.com/Veraticus/finance-tracker/internal/seed"
	"github.com/Veraticus/finance-tracker/internal/service"
)

// errPartialSeed is returned with --strict when some workers stopped early.
var errPartialSeed = errors.New("demo data was only partially seeded")

func seedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace all data with generated demo data",
		Long: `Seed wipes the database and regenerates demo data: a fixed number of demo
users created one at a time, then transactions for every (user, category)
pair and daily, weekly, monthly and yearly budgets for every user, generated
concurrently.

Existing users, transactions and budgets are deleted first.`,
		RunE: runSeed,
	}

	cmd.Flags().Int("users", config.DefaultDemoUsers, "Number of demo users to create")
	cmd.Flags().Int("transactions", config.DefaultTransactionsPerCategory, "Transactions per user and category")
	cmd.Flags().Int("workers", 0, "Maximum concurrently running generators (0 = unbounded)")
	cmd.Flags().Uint64("seed", 0, "Random seed for generated amounts and dates (0 = random)")
	cmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address while seeding")
	cmd.Flags().BoolP("force", "f", false, "Skip confirmation prompt")
	cmd.Flags().Bool("strict", false, "Exit with an error if any generator stopped early")
	cmd.Flags().Bool("no-progress", false, "Disable the progress bar")

	_ = viper.BindPFlag("seed.users", cmd.Flags().Lookup("users"))
	_ = viper.BindPFlag("seed.transactions_per_category", cmd.Flags().Lookup("transactions"))
	_ = viper.BindPFlag("seed.max_concurrent_workers", cmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag("seed.random_seed", cmd.Flags().Lookup("seed"))
	_ = viper.BindPFlag("metrics.addr", cmd.Flags().Lookup("metrics-addr"))

	return cmd
}

func runSeed(cmd *cobra.Command, _ []string) error {
	force, _ := cmd.Flags().GetBool("force")
	strict, _ := cmd.Flags().GetBool("strict")
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	seedCfg, err := config.LoadSeedConfig(viper.GetViper())
	if err != nil {
		return err
	}

	store, err := openStore(cmd.Context())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if !force {
		out := cmd.OutOrStdout()
		writeLine(out, cli.FormatWarning("Seeding deletes every user, transaction and budget."))
		if _, err := fmt.Fprint(out, cli.FormatPrompt("Continue?")); err != nil {
			slog.Error("failed to write output", "error", err)
		}
		if !confirmed(cmd.InOrStdin()) {
			writeLine(out, "Seed canceled.")
			return nil
		}
	}

	interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx := interrupts.HandleInterrupts(cmd.Context(), true)
	defer interrupts.Stop()

	reg := newMetricsRegistry()
	stopMetrics, err := serveMetrics(viper.GetString("metrics.addr"), reg)
	if err != nil {
		return fmt.Errorf("failed to serve metrics: %w", err)
	}
	defer stopMetrics()

	summary, err := seedStore(ctx, store, seedOptions{
		cfg:      seedCfg,
		metrics:  seed.NewMetrics(reg),
		progress: cmd.ErrOrStderr(),
		visible:  !noProgress && isTerminal(cmd.ErrOrStderr()),
	})
	if summary.Workers > 0 {
		writeLine(cmd.OutOrStdout(), cli.RenderSeedSummary(summary))
	}
	if err != nil {
		if interrupts.WasInterrupted() {
			return common.NewUserError("Seeding interrupted", err)
		}
		return err
	}

	if strict && (summary.Failed > 0 || summary.Cancelled > 0) {
		return errPartialSeed
	}
	return nil
}

type seedOptions struct {
	progress io.Writer
	metrics  *seed.Metrics
	clock    func() time.Time
	hasher   seed.PasswordHasher
	cfg      config.SeedConfig
	visible  bool
}

// seedStore runs one reseed against store and summarizes it.
func seedStore(ctx context.Context, store service.Storage, opts seedOptions) (cli.SeedSummary, error) {
	var progress *cli.WorkerProgress

	pipeline, err := seed.NewPipeline(seed.RepositoriesFrom(store), seed.Options{
		Config:  opts.cfg,
		Metrics: opts.metrics,
		Clock:   opts.clock,
		Hasher:  opts.hasher,
		OnWorkerDone: func(h *seed.WorkerHandle) {
			progress.Step(h.Err() == nil)
		},
	})
	if err != nil {
		return cli.SeedSummary{}, err
	}
	progress = cli.NewWorkerProgress(opts.progress, pipeline.WorkerCount(), opts.visible)

	started := time.Now()
	report, err := pipeline.ReseedDemoData(ctx)
	progress.Finish()

	if workerErr := report.Err(); workerErr != nil {
		slog.Warn("Some generators failed", "failed", report.Failed, "error", workerErr)
	}

	return cli.SeedSummary{
		Duration:     time.Since(started),
		Seed:         report.Seed,
		Users:        report.Users,
		Transactions: report.TransactionsInserted,
		Budgets:      report.BudgetsInserted,
		Workers:      report.Workers,
		Completed:    report.Completed,
		Failed:       report.Failed,
		Cancelled:    report.Cancelled,
	}, err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}
