package seed

import (
	"context"
	"errors"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/Veraticus/finance-tracker/internal/common"
)

// Report summarizes one pipeline run.
type Report struct {
	errs                 *multierror.Error
	Seed                 uint64
	Users                int
	Workers              int
	Completed            int
	Failed               int
	Cancelled            int
	TransactionsInserted int
	BudgetsInserted      int
}

// Err aggregates every worker failure, or returns nil when none failed.
// Cancelled workers are not failures.
func (r Report) Err() error {
	return r.errs.ErrorOrNil()
}

// Partial reports whether some workers stopped before finishing.
func (r Report) Partial() bool {
	return r.Failed > 0 || r.Cancelled > 0
}

// IsCancellation reports whether err means the worker was told to stop.
func IsCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// AwaitAll blocks until every handle has terminated, whatever the others did
// and whether or not ctx is done. Cancelled and failed workers are logged with
// their name. Once all handles are done, ctx.Err() is returned so the caller's
// own cancellation stays visible.
func AwaitAll(ctx context.Context, handles []*WorkerHandle) (Report, error) {
	report := Report{Workers: len(handles)}

	for _, h := range handles {
		<-h.Done()

		switch err := h.Err(); {
		case err == nil:
			report.Completed++
		case IsCancellation(err):
			report.Cancelled++
			common.LogWarn(ctx, "Worker cancelled", common.Fields{
				"worker": h.Name(),
				"rows":   h.Rows(),
				"error":  err.Error(),
			})
		default:
			report.Failed++
			report.errs = multierror.Append(report.errs, fmt.Errorf("%s: %w", h.Name(), err))
			common.LogError(ctx, err, "Worker failed", common.Fields{
				"worker": h.Name(),
				"rows":   h.Rows(),
			})
		}

		switch h.Kind() {
		case WorkerTransactions:
			report.TransactionsInserted += h.Rows()
		case WorkerBudgets:
			report.BudgetsInserted += h.Rows()
		}
	}

	common.LogInfo(ctx, "All workers completed", common.Fields{
		"workers":   report.Workers,
		"completed": report.Completed,
		"failed":    report.Failed,
		"cancelled": report.Cancelled,
	})

	return report, ctx.Err()
}
