package seed

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/finance-tracker/internal/model"
)

// budgetPolicy is the fixed limit per period. Limits are not randomized.
var budgetPolicy = []struct {
	limit  decimal.Decimal
	period model.PeriodType
	label  string
}{
	{period: model.PeriodDaily, limit: decimal.RequireFromString("50.00"), label: "Daily"},
	{period: model.PeriodWeekly, limit: decimal.RequireFromString("200.00"), label: "Weekly"},
	{period: model.PeriodMonthly, limit: decimal.RequireFromString("800.00"), label: "Monthly"},
	{period: model.PeriodYearly, limit: decimal.RequireFromString("9600.00"), label: "Yearly"},
}

// LimitFor returns the fixed budget limit for a period.
func LimitFor(period model.PeriodType) (decimal.Decimal, bool) {
	for _, p := range budgetPolicy {
		if p.period == period {
			return p.limit, true
		}
	}
	return decimal.Zero, false
}

// Today returns the calendar date of t as midnight UTC.
func Today(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// PeriodBounds returns the first and last day of the period containing day.
// Weeks run Monday through Sunday.
func PeriodBounds(period model.PeriodType, day time.Time) (start, end time.Time) {
	day = Today(day)

	switch period {
	case model.PeriodWeekly:
		offset := (int(day.Weekday()) + 6) % 7
		start = day.AddDate(0, 0, -offset)
		return start, start.AddDate(0, 0, 6)
	case model.PeriodMonthly:
		start = time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, time.UTC)
		return start, start.AddDate(0, 1, -1)
	case model.PeriodYearly:
		start = time.Date(day.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		return start, time.Date(day.Year(), time.December, 31, 0, 0, 0, 0, time.UTC)
	default:
		return day, day
	}
}
