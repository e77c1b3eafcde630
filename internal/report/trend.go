package report

import (
	"sort"

	"github.com/paystats/reporter/internal/domain"
	"github.com/paystats/reporter/internal/money"
)

// BuildDailyShifts orders daily totals by day and compares each day with
// the previous present day. The first day, and any day following a zero
// total, has no percent change.
func BuildDailyShifts(totals []domain.DailyTotal) []domain.DailyShift {
	sorted := make([]domain.DailyTotal, len(totals))
	copy(sorted, totals)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Day.Before(sorted[j].Day) })

	shifts := make([]domain.DailyShift, 0, len(sorted))
	for i, day := range sorted {
		shift := domain.DailyShift{
			Date:        day.Day,
			TotalAmount: day.Total,
			Count:       day.Count,
		}
		if i > 0 {
			shift.PercentChange = money.PercentChange(sorted[i-1].Total, day.Total)
		}
		shifts = append(shifts, shift)
	}
	return shifts
}
