package seed

import (
	"context"
	"fmt"
	"math/rand/v2"

	"golang.org/x/sync/semaphore"

	"github.com/Veraticus/finance-tracker/internal/model"
)

// WorkerKind tells transaction workers from budget workers.
type WorkerKind string

// Worker kinds.
const (
	WorkerTransactions WorkerKind = "transactions"
	WorkerBudgets      WorkerKind = "budgets"
)

// WorkerHandle tracks one running generator. Err and Rows are only meaningful
// once Done is closed.
type WorkerHandle struct {
	err      error
	done     chan struct{}
	cancel   context.CancelFunc
	name     string
	kind     WorkerKind
	category string
	rows     int
	userID   model.UserID
}

// Name is the worker's diagnostic name, e.g. "Tx-User3-Food" or "Budget-User3".
func (h *WorkerHandle) Name() string { return h.name }

// Kind reports what the worker generates.
func (h *WorkerHandle) Kind() WorkerKind { return h.kind }

// UserID is the user the worker generates rows for.
func (h *WorkerHandle) UserID() model.UserID { return h.userID }

// Category is the transaction category, empty for budget workers.
func (h *WorkerHandle) Category() string { return h.category }

// Done is closed when the worker has terminated.
func (h *WorkerHandle) Done() <-chan struct{} { return h.done }

// Err is the reason the worker stopped early, or nil.
func (h *WorkerHandle) Err() error { return h.err }

// Rows is the number of rows the worker inserted.
func (h *WorkerHandle) Rows() int { return h.rows }

// Cancel asks this worker alone to stop. Rows already inserted stay.
func (h *WorkerHandle) Cancel() { h.cancel() }

// workFunc is the body of one worker.
type workFunc func(ctx context.Context, rng *rand.Rand) (int, error)

// Dispatcher spawns generator workers for a snapshot of user ids.
type Dispatcher struct {
	transactions *TransactionGenerator
	budgets      *BudgetGenerator
	limit        *semaphore.Weighted
	onDone       func(*WorkerHandle)
	categories   []string
	seed         uint64
}

// DispatcherOptions configures a Dispatcher.
type DispatcherOptions struct {
	// OnWorkerDone runs on the worker's goroutine right before Done closes.
	// It must be safe for concurrent use.
	OnWorkerDone func(*WorkerHandle)
	Categories   []string
	// MaxConcurrent bounds running workers. Zero means unbounded.
	MaxConcurrent int
	// Seed derives an independent random stream per worker.
	Seed uint64
}

// NewDispatcher creates a dispatcher over the two generators.
func NewDispatcher(transactions *TransactionGenerator, budgets *BudgetGenerator, opts DispatcherOptions) *Dispatcher {
	d := &Dispatcher{
		transactions: transactions,
		budgets:      budgets,
		categories:   opts.Categories,
		seed:         opts.Seed,
		onDone:       opts.OnWorkerDone,
	}
	if opts.MaxConcurrent > 0 {
		d.limit = semaphore.NewWeighted(int64(opts.MaxConcurrent))
	}
	return d
}

// WorkerCount is the number of handles Dispatch returns for n users.
func (d *Dispatcher) WorkerCount(n int) int {
	return n * (len(d.categories) + 1)
}

// Dispatch starts one transaction worker per (user, category) and one budget
// worker per user. It never waits on the workers it starts.
func (d *Dispatcher) Dispatch(ctx context.Context, userIDs []model.UserID) []*WorkerHandle {
	handles := make([]*WorkerHandle, 0, d.WorkerCount(len(userIDs)))

	for _, userID := range userIDs {
		for _, category := range d.categories {
			handles = append(handles, d.spawn(ctx, len(handles), &WorkerHandle{
				name:     fmt.Sprintf("Tx-User%d-%s", userID, category),
				kind:     WorkerTransactions,
				userID:   userID,
				category: category,
			}, func(ctx context.Context, rng *rand.Rand) (int, error) {
				return d.transactions.Generate(ctx, rng, userID, category)
			}))
		}

		handles = append(handles, d.spawn(ctx, len(handles), &WorkerHandle{
			name:   fmt.Sprintf("Budget-User%d", userID),
			kind:   WorkerBudgets,
			userID: userID,
		}, func(ctx context.Context, _ *rand.Rand) (int, error) {
			return d.budgets.Generate(ctx, userID)
		}))
	}

	return handles
}

func (d *Dispatcher) spawn(ctx context.Context, index int, h *WorkerHandle, work workFunc) *WorkerHandle {
	workerCtx, cancel := context.WithCancel(ctx)
	h.done = make(chan struct{})
	h.cancel = cancel
	rng := rand.New(rand.NewPCG(d.seed, uint64(index)))

	go func() {
		defer close(h.done)
		defer cancel()
		defer func() {
			if r := recover(); r != nil {
				h.err = fmt.Errorf("worker %s panicked: %v", h.name, r)
			}
			if d.onDone != nil {
				d.onDone(h)
			}
		}()

		if d.limit != nil {
			if err := d.limit.Acquire(workerCtx, 1); err != nil {
				h.err = err
				return
			}
			defer d.limit.Release(1)
		}

		h.rows, h.err = work(workerCtx, rng)
	}()

	return h
}
