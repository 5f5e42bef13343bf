package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// PeriodType is the recurrence granularity of a budget.
type PeriodType string

const (
	// PeriodDaily covers a single day.
	PeriodDaily PeriodType = "daily"
	// PeriodWeekly covers Monday through Sunday.
	PeriodWeekly PeriodType = "weekly"
	// PeriodMonthly covers a calendar month.
	PeriodMonthly PeriodType = "monthly"
	// PeriodYearly covers a calendar year.
	PeriodYearly PeriodType = "yearly"
)

// Periods lists every period type in ascending length.
var Periods = []PeriodType{PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly}

// IsValid reports whether p is one of the known period types.
func (p PeriodType) IsValid() bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	default:
		return false
	}
}

// Budget is a spending limit for one category over one period.
// StartDate and EndDate are calendar dates; their time of day is midnight UTC.
type Budget struct {
	StartDate   time.Time       `db:"start_date"`
	EndDate     time.Time       `db:"end_date"`
	CreatedAt   time.Time       `db:"created_at"`
	Limit       decimal.Decimal `db:"budget_limit"`
	Category    string          `db:"category"`
	SubCategory string          `db:"sub_category"`
	Period      PeriodType      `db:"period_type"`
	Description string          `db:"description"`
	ID          int64           `db:"budget_id"`
	UserID      UserID          `db:"user_id"`
}

// Covers reports whether day falls inside the budget's date range, inclusive.
func (b *Budget) Covers(day time.Time) bool {
	d := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return !d.Before(b.StartDate) && !d.After(b.EndDate)
}
