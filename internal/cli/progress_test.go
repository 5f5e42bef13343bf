package cli

import (
	"bytes"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/finance-tracker/internal/model"
)

func TestWorkerProgress_ConcurrentSteps(t *testing.T) {
	output := &syncBuffer{}
	progress := NewWorkerProgress(output, 90, true)

	var wg sync.WaitGroup
	for i := 0; i < 90; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			progress.Step(i%10 != 0)
		}(i)
	}
	wg.Wait()
	progress.Finish()

	assert.Equal(t, 90, progress.Done())
	assert.Equal(t, 9, progress.Unsuccessful())
	assert.NotEmpty(t, output.String())
}

func TestWorkerProgress_Hidden(t *testing.T) {
	var output bytes.Buffer
	progress := NewWorkerProgress(&output, 3, false)

	progress.Step(true)
	progress.Step(false)
	progress.Finish()

	assert.Equal(t, 2, progress.Done())
	assert.Equal(t, 1, progress.Unsuccessful())
	assert.Empty(t, output.String())
}

func TestRenderSeedSummary(t *testing.T) {
	complete := RenderSeedSummary(SeedSummary{
		Users: 10, Transactions: 400, Budgets: 320,
		Workers: 90, Completed: 90, Seed: 7,
	})
	assert.Contains(t, complete, "Demo Data Ready")
	assert.Contains(t, complete, "Transactions: 400")
	assert.Contains(t, complete, "Random seed: 7")
	assert.NotContains(t, complete, "failed")

	partial := RenderSeedSummary(SeedSummary{
		Users: 10, Transactions: 395, Budgets: 320,
		Workers: 90, Completed: 88, Failed: 1, Cancelled: 1,
	})
	assert.Contains(t, partial, "Partially Seeded")
	assert.Contains(t, partial, "1 failed")
	assert.Contains(t, partial, "1 cancelled")
}

func TestRenderStats(t *testing.T) {
	out := RenderStats(model.StoreStats{Users: 10, Transactions: 400, Budgets: 320})

	assert.Contains(t, out, "Users")
	assert.Contains(t, out, "400")
	assert.Contains(t, out, "320")
}
