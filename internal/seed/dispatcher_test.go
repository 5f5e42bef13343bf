package seed

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/finance-tracker/internal/model"
	"github.com/Veraticus/finance-tracker/internal/testutil"
)

// blockingTransactions parks inserts for one category until ctx is done.
type blockingTransactions struct {
	*testutil.MemoryStore
	category string
}

func (b *blockingTransactions) InsertTransaction(ctx context.Context, txn *model.Transaction) error {
	if txn.Category == b.category {
		<-ctx.Done()
		return ctx.Err()
	}
	return b.MemoryStore.InsertTransaction(ctx, txn)
}

func newTestDispatcher(store *testutil.MemoryStore, categories []string, opts DispatcherOptions) *Dispatcher {
	opts.Categories = categories
	return NewDispatcher(
		NewTransactionGenerator(store, 5, fixedClock),
		NewBudgetGenerator(store, categories, fixedClock),
		opts,
	)
}

func TestDispatcher_SpawnsOneWorkerPerPair(t *testing.T) {
	store := testutil.NewMemoryStore()
	categories := []string{"Food", "Travel", "Bills"}
	d := newTestDispatcher(store, categories, DispatcherOptions{Seed: 1})

	handles := d.Dispatch(context.Background(), []model.UserID{1, 2})
	require.Len(t, handles, d.WorkerCount(2))
	require.Len(t, handles, 8)

	report, err := AwaitAll(context.Background(), handles)
	require.NoError(t, err)

	names := make(map[string]bool)
	for _, h := range handles {
		names[h.Name()] = true
	}
	for _, want := range []string{
		"Tx-User1-Food", "Tx-User1-Travel", "Tx-User1-Bills", "Budget-User1",
		"Tx-User2-Food", "Tx-User2-Travel", "Tx-User2-Bills", "Budget-User2",
	} {
		assert.True(t, names[want], "missing worker %s", want)
	}

	assert.Equal(t, 8, report.Completed)
	assert.Equal(t, 2*3*5, report.TransactionsInserted)
	assert.Equal(t, 2*3*4, report.BudgetsInserted)

	for _, h := range handles {
		switch h.Kind() {
		case WorkerTransactions:
			assert.NotEmpty(t, h.Category())
			assert.Equal(t, 5, h.Rows())
		case WorkerBudgets:
			assert.Empty(t, h.Category())
			assert.Equal(t, 12, h.Rows())
		}
	}
}

func TestDispatcher_NoUsersNoWorkers(t *testing.T) {
	d := newTestDispatcher(testutil.NewMemoryStore(), model.DemoCategories, DispatcherOptions{})

	handles := d.Dispatch(context.Background(), nil)
	assert.Empty(t, handles)

	report, err := AwaitAll(context.Background(), handles)
	require.NoError(t, err)
	assert.Equal(t, 0, report.Workers)
}

func TestDispatcher_ReturnsBeforeWorkersFinish(t *testing.T) {
	store := testutil.NewMemoryStore()
	store.Delay = time.Hour
	d := newTestDispatcher(store, []string{"Food"}, DispatcherOptions{})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handles := d.Dispatch(ctx, []model.UserID{1, 2, 3})
	require.Len(t, handles, 6)

	for _, h := range handles {
		select {
		case <-h.Done():
			t.Fatalf("worker %s finished before its insert delay elapsed", h.Name())
		default:
		}
	}

	cancel()
	report, err := AwaitAll(ctx, handles)
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 6, report.Cancelled)
}

func TestDispatcher_CancelSingleWorker(t *testing.T) {
	store := testutil.NewMemoryStore()
	txns := &blockingTransactions{MemoryStore: store, category: "Travel"}
	d := NewDispatcher(
		NewTransactionGenerator(txns, 5, fixedClock),
		NewBudgetGenerator(store, []string{"Food", "Travel"}, fixedClock),
		DispatcherOptions{Categories: []string{"Food", "Travel"}},
	)

	handles := d.Dispatch(context.Background(), []model.UserID{1})
	require.Len(t, handles, 3)

	var blocked *WorkerHandle
	for _, h := range handles {
		if h.Name() == "Tx-User1-Travel" {
			blocked = h
		}
	}
	require.NotNil(t, blocked)
	blocked.Cancel()

	report, err := AwaitAll(context.Background(), handles)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Completed)
	assert.Equal(t, 1, report.Cancelled)
	assert.Equal(t, 0, report.Failed)
	assert.NoError(t, report.Err())
	assert.True(t, report.Partial())
	assert.ErrorIs(t, blocked.Err(), context.Canceled)
	assert.Equal(t, 5, report.TransactionsInserted)
	assert.Equal(t, 8, report.BudgetsInserted)
}

// concurrencyProbe records the highest number of inserts in flight at once.
type concurrencyProbe struct {
	*testutil.MemoryStore
	inFlight atomic.Int64
	peak     atomic.Int64
}

func (p *concurrencyProbe) InsertTransaction(ctx context.Context, txn *model.Transaction) error {
	current := p.inFlight.Add(1)
	defer p.inFlight.Add(-1)
	for {
		peak := p.peak.Load()
		if current <= peak || p.peak.CompareAndSwap(peak, current) {
			break
		}
	}
	time.Sleep(time.Millisecond)
	return p.MemoryStore.InsertTransaction(ctx, txn)
}

func TestDispatcher_MaxConcurrent(t *testing.T) {
	store := testutil.NewMemoryStore()
	probe := &concurrencyProbe{MemoryStore: store}
	d := NewDispatcher(
		NewTransactionGenerator(probe, 3, fixedClock),
		NewBudgetGenerator(store, model.DemoCategories, fixedClock),
		DispatcherOptions{Categories: model.DemoCategories, MaxConcurrent: 2},
	)

	handles := d.Dispatch(context.Background(), []model.UserID{1, 2, 3, 4})
	report, err := AwaitAll(context.Background(), handles)
	require.NoError(t, err)

	assert.Equal(t, len(handles), report.Completed)
	assert.LessOrEqual(t, probe.peak.Load(), int64(2))
	assert.Equal(t, 4*len(model.DemoCategories)*3, report.TransactionsInserted)
}

func TestDispatcher_OnWorkerDoneSeesFinalState(t *testing.T) {
	store := testutil.NewMemoryStore()

	var (
		mu   sync.Mutex
		seen = make(map[string]int)
	)
	d := newTestDispatcher(store, []string{"Food", "Bills"}, DispatcherOptions{
		OnWorkerDone: func(h *WorkerHandle) {
			mu.Lock()
			defer mu.Unlock()
			seen[h.Name()] = h.Rows()
		},
	})

	handles := d.Dispatch(context.Background(), []model.UserID{5})
	_, err := AwaitAll(context.Background(), handles)
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, map[string]int{
		"Tx-User5-Food":  5,
		"Tx-User5-Bills": 5,
		"Budget-User5":   8,
	}, seen)
}

func TestDispatcher_SameSeedSameAmounts(t *testing.T) {
	run := func() []string {
		store := testutil.NewMemoryStore()
		d := newTestDispatcher(store, []string{"Food"}, DispatcherOptions{Seed: 99})
		_, err := AwaitAll(context.Background(), d.Dispatch(context.Background(), []model.UserID{1}))
		require.NoError(t, err)

		txns, err := store.ListTransactionsByUser(context.Background(), 1)
		require.NoError(t, err)

		amounts := make([]string, 0, len(txns))
		for _, txn := range txns {
			amounts = append(amounts, txn.Title+"="+txn.Amount.String())
		}
		return amounts
	}

	assert.Equal(t, run(), run())
}
