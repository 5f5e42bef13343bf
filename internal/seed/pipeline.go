package seed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/finance-tracker/internal/common"
	"github.com/Veraticus/finance-tracker/internal/config"
	"github.com/Veraticus/finance-tracker/internal/model"
	"github.com/Veraticus/finance-tracker/internal/service"
)

// Repositories groups the store collaborators a pipeline writes through.
type Repositories struct {
	Users        service.UserRepository
	Transactions service.TransactionRepository
	Budgets      service.BudgetRepository
	Resetter     service.Resetter
}

// RepositoriesFrom uses one storage for every collaborator.
func RepositoriesFrom(store service.Storage) Repositories {
	return Repositories{
		Users:        store,
		Transactions: store,
		Budgets:      store,
		Resetter:     store,
	}
}

// Options configures a Pipeline. Zero values fall back to defaults.
type Options struct {
	Hasher PasswordHasher
	Clock  func() time.Time
	// Metrics may be nil.
	Metrics *Metrics
	// OnWorkerDone is called from worker goroutines; it must be safe for
	// concurrent use.
	OnWorkerDone func(*WorkerHandle)
	Categories   []string
	Config       config.SeedConfig
}

// Pipeline reseeds the store with demo data.
type Pipeline struct {
	repos        Repositories
	hasher       PasswordHasher
	clock        func() time.Time
	metrics      *Metrics
	onWorkerDone func(*WorkerHandle)
	categories   []string
	cfg          config.SeedConfig
	userInsertMu sync.Mutex
}

// NewPipeline validates the configuration and wires the pipeline.
func NewPipeline(repos Repositories, opts Options) (*Pipeline, error) {
	if repos.Users == nil || repos.Transactions == nil || repos.Budgets == nil || repos.Resetter == nil {
		return nil, fmt.Errorf("%w: every repository is required", common.ErrMissingConfig)
	}
	if err := opts.Config.Validate(); err != nil {
		return nil, err
	}

	p := &Pipeline{
		repos:        repos,
		hasher:       opts.Hasher,
		clock:        opts.Clock,
		metrics:      opts.Metrics,
		onWorkerDone: opts.OnWorkerDone,
		categories:   opts.Categories,
		cfg:          opts.Config,
	}
	if p.hasher == nil {
		p.hasher = BcryptHasher{Cost: opts.Config.PasswordCost}
	}
	if p.clock == nil {
		p.clock = time.Now
	}
	if len(p.categories) == 0 {
		p.categories = model.DemoCategories
	}
	return p, nil
}

// WorkerCount is the number of workers a full run dispatches.
func (p *Pipeline) WorkerCount() int {
	return p.cfg.Users * (len(p.categories) + 1)
}

// ReseedDemoData wipes the store, creates the demo users one by one, then
// generates their transactions and budgets concurrently and waits for every
// worker.
//
// Reset and user creation failures abort the run. Worker failures do not: they
// are counted in the report, which may therefore describe a partial seed. If
// ctx is cancelled the run still waits for all workers and returns ctx's error.
func (p *Pipeline) ReseedDemoData(ctx context.Context) (Report, error) {
	started := time.Now()
	runSeed := p.cfg.RandomSeed
	if runSeed == 0 {
		runSeed = rand.Uint64()
	}

	logger := common.LoggerFrom(ctx).With("run_id", uuid.NewString())
	ctx = common.WithLogger(ctx, logger)

	logger.Info("Starting demo data reseed",
		"users", p.cfg.Users,
		"transactions_per_category", p.cfg.TransactionsPerCategory,
		"categories", len(p.categories),
		"seed", runSeed)

	if err := p.repos.Resetter.Reset(ctx); err != nil {
		return Report{Seed: runSeed}, fmt.Errorf("failed to reset store: %w", err)
	}
	logger.Info("All tables truncated")

	registry := NewRegistry()
	if err := p.createDemoUsers(ctx, registry); err != nil {
		return Report{Seed: runSeed, Users: registry.Len()}, err
	}

	userIDs := registry.Snapshot()
	handles := p.dispatcher(runSeed).Dispatch(ctx, userIDs)
	logger.Info("Dispatched generator workers", "workers", len(handles))

	report, err := AwaitAll(ctx, handles)
	report.Seed = runSeed
	report.Users = len(userIDs)

	p.metrics.observeRun(time.Since(started).Seconds())
	logger.Info("Finished demo data reseed",
		"users", report.Users,
		"transactions", report.TransactionsInserted,
		"budgets", report.BudgetsInserted,
		"partial", report.Partial(),
		"duration", time.Since(started).Round(time.Millisecond))

	return report, err
}

// createDemoUsers creates every demo user in order, holding userInsertMu for the
// whole phase. Each id is appended to registry only after the store returned it.
func (p *Pipeline) createDemoUsers(ctx context.Context, registry *Registry) error {
	p.userInsertMu.Lock()
	defer p.userInsertMu.Unlock()

	common.LogInfo(ctx, "Creating demo users", common.Fields{"count": p.cfg.Users})

	for i := 1; i <= p.cfg.Users; i++ {
		user := NewDemoUser(i)

		hashed, err := p.hasher.Hash(user.Password)
		if err != nil {
			return fmt.Errorf("failed to hash password for %s: %w", user.Email, err)
		}

		id, err := p.repos.Users.CreateUser(ctx, user.FirstName, user.LastName, user.Email, hashed)
		if err != nil {
			return fmt.Errorf("failed to create demo user %s: %w", user.Email, err)
		}

		registry.Append(id)
		p.metrics.userCreated()
		common.LogDebug(ctx, "Created demo user", common.Fields{"user_id": id, "email": user.Email})
	}

	return nil
}

func (p *Pipeline) dispatcher(runSeed uint64) *Dispatcher {
	return NewDispatcher(
		NewTransactionGenerator(p.repos.Transactions, p.cfg.TransactionsPerCategory, p.clock),
		NewBudgetGenerator(p.repos.Budgets, p.categories, p.clock),
		DispatcherOptions{
			Categories:    p.categories,
			MaxConcurrent: p.cfg.MaxConcurrentWorkers,
			Seed:          runSeed,
			OnWorkerDone: func(h *WorkerHandle) {
				p.metrics.workerDone(h)
				if p.onWorkerDone != nil {
					p.onWorkerDone(h)
				}
			},
		},
	)
}
