package seed

import (
	"context"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/finance-tracker/internal/common"
	"github.com/Veraticus/finance-tracker/internal/model"
	"github.com/Veraticus/finance-tracker/internal/service"
)

// Transaction generation ranges, inclusive.
const (
	minExpenseAmount = 10
	maxExpenseAmount = 100
	minIncomeAmount  = 100
	maxIncomeAmount  = 500
	maxDaysAgo       = 60

	demoLocation = "Demo Location"
)

// DemoUser holds the synthesized identity of the i-th demo user.
type DemoUser struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// NewDemoUser returns the identity of demo user i, counting from 1.
func NewDemoUser(i int) DemoUser {
	return DemoUser{
		FirstName: fmt.Sprintf("User%d", i),
		LastName:  "Demo",
		Email:     fmt.Sprintf("user%d@example.com", i),
		Password:  fmt.Sprintf("password%d", i),
	}
}

// IsIncomeIndex reports whether the i-th generated transaction (1-based) is income.
func IsIncomeIndex(i int) bool {
	return i%3 == 0
}

// NewTransaction builds the i-th (1-based) demo transaction for a user and category.
// Amounts are whole currency units; dates fall in the 60 days before now.
func NewTransaction(rng *rand.Rand, now time.Time, userID model.UserID, category string, i int) model.Transaction {
	txnType := model.TransactionTypeExpense
	amount := minExpenseAmount + rng.IntN(maxExpenseAmount-minExpenseAmount+1)
	if IsIncomeIndex(i) {
		txnType = model.TransactionTypeIncome
		amount = minIncomeAmount + rng.IntN(maxIncomeAmount-minIncomeAmount+1)
	}

	daysAgo := rng.IntN(maxDaysAgo + 1)

	return model.Transaction{
		UserID:      userID,
		Title:       fmt.Sprintf("%s transaction %d", category, i),
		Category:    category,
		SubCategory: model.DefaultSubCategory,
		Type:        txnType,
		Amount:      decimal.NewFromInt(int64(amount)),
		Date:        now.UTC().AddDate(0, 0, -daysAgo),
		Description: fmt.Sprintf("Sample %s transaction for user %d", category, userID),
		Location:    demoLocation,
	}
}

// NewBudgets builds the daily, weekly, monthly and yearly budget for a user and
// category, relative to today.
func NewBudgets(today time.Time, userID model.UserID, category string) []model.Budget {
	budgets := make([]model.Budget, 0, len(budgetPolicy))
	for _, policy := range budgetPolicy {
		start, end := PeriodBounds(policy.period, today)
		budgets = append(budgets, model.Budget{
			UserID:      userID,
			Category:    category,
			SubCategory: model.DefaultSubCategory,
			Limit:       policy.limit,
			Period:      policy.period,
			StartDate:   start,
			EndDate:     end,
			Description: fmt.Sprintf("%s %s budget", policy.label, category),
		})
	}
	return budgets
}

// TransactionGenerator writes the demo transactions of one (user, category) pair.
type TransactionGenerator struct {
	repo  service.TransactionRepository
	clock func() time.Time
	count int
}

// NewTransactionGenerator creates a generator producing count rows per call.
func NewTransactionGenerator(repo service.TransactionRepository, count int, clock func() time.Time) *TransactionGenerator {
	if clock == nil {
		clock = time.Now
	}
	return &TransactionGenerator{repo: repo, count: count, clock: clock}
}

// Generate inserts the transactions one after another and stops at the first
// failure. It returns how many rows were inserted.
func (g *TransactionGenerator) Generate(ctx context.Context, rng *rand.Rand, userID model.UserID, category string) (int, error) {
	now := g.clock()

	inserted := 0
	for i := 1; i <= g.count; i++ {
		txn := NewTransaction(rng, now, userID, category, i)
		if err := g.repo.InsertTransaction(ctx, &txn); err != nil {
			return inserted, fmt.Errorf("transaction %d of %d: %w", i, g.count, err)
		}
		inserted++
	}

	common.LogDebug(ctx, "Completed transactions", common.Fields{
		"user_id":  userID,
		"category": category,
		"count":    inserted,
	})
	return inserted, nil
}

// BudgetGenerator writes the demo budgets of one user across all categories.
type BudgetGenerator struct {
	repo       service.BudgetRepository
	clock      func() time.Time
	categories []string
}

// NewBudgetGenerator creates a generator covering the given categories.
func NewBudgetGenerator(repo service.BudgetRepository, categories []string, clock func() time.Time) *BudgetGenerator {
	if clock == nil {
		clock = time.Now
	}
	return &BudgetGenerator{repo: repo, categories: categories, clock: clock}
}

// Generate inserts four budgets per category, serially, stopping at the first
// failure. It returns how many rows were inserted.
func (g *BudgetGenerator) Generate(ctx context.Context, userID model.UserID) (int, error) {
	today := Today(g.clock())

	inserted := 0
	for _, category := range g.categories {
		for _, budget := range NewBudgets(today, userID, category) {
			if err := g.repo.InsertBudget(ctx, &budget); err != nil {
				return inserted, fmt.Errorf("%s %s budget: %w", budget.Period, category, err)
			}
			inserted++
		}
	}

	common.LogDebug(ctx, "Completed budgets", common.Fields{
		"user_id": userID,
		"count":   inserted,
	})
	return inserted, nil
}
