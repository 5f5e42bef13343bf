package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/finance-tracker/internal/model"
)

// SeedSummary is what the seed command reports once a run is over.
type SeedSummary struct {
	Duration     time.Duration
	Seed         uint64
	Users        int
	Transactions int
	Budgets      int
	Workers      int
	Completed    int
	Failed       int
	Cancelled    int
}

// RenderSeedSummary renders a run summary in a box.
func RenderSeedSummary(s SeedSummary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "  • Users created: %d\n", s.Users)
	fmt.Fprintf(&b, "  • Transactions: %d\n", s.Transactions)
	fmt.Fprintf(&b, "  • Budgets: %d\n", s.Budgets)
	fmt.Fprintf(&b, "  • Workers: %d completed of %d\n", s.Completed, s.Workers)
	if s.Failed > 0 {
		b.WriteString("  • " + StyleCount(ErrorStyle, "failed", s.Failed) + "\n")
	}
	if s.Cancelled > 0 {
		b.WriteString("  • " + StyleCount(WarningStyle, "cancelled", s.Cancelled) + "\n")
	}
	fmt.Fprintf(&b, "  • Random seed: %d\n", s.Seed)
	fmt.Fprintf(&b, "  • Time taken: %s", s.Duration.Round(time.Millisecond))

	title := SeedIcon + " Demo Data Ready"
	if s.Failed > 0 || s.Cancelled > 0 {
		title = WarningIcon + " Demo Data Partially Seeded"
	}
	return RenderBox(title, b.String())
}

// StyleCount renders "n label" in the given style.
func StyleCount(style lipgloss.Style, label string, n int) string {
	return style.Render(fmt.Sprintf("%d %s", n, label))
}

// RenderStats renders row counts as a two column table.
func RenderStats(stats model.StoreStats) string {
	rows := []struct {
		name  string
		count int
	}{
		{"Users", stats.Users},
		{"Transactions", stats.Transactions},
		{"Budgets", stats.Budgets},
	}

	lines := []string{
		TableHeaderStyle.Render(TableCellStyle.Width(14).Render("Table") + "Rows"),
	}
	for _, row := range rows {
		lines = append(lines, lipgloss.JoinHorizontal(lipgloss.Top,
			TableCellStyle.Width(14).Render(row.name),
			fmt.Sprintf("%d", row.count)))
	}

	return FormatTitle(ChartIcon, "Store contents") + "\n" + lipgloss.JoinVertical(lipgloss.Left, lines...)
}
