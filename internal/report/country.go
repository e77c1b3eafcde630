package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/paystats/reporter/internal/domain"
	"github.com/paystats/reporter/internal/money"
)

// JoinCountryStats inner-joins transactions to country groups by user id
// and aggregates per country. Every (user, country) row of a group joins
// with all of that user's transactions, so a user listed twice for one
// country counts twice. Countries without matching transactions are
// omitted.
func JoinCountryStats(groups []domain.CountryGroup, txns []domain.Transaction, order domain.CountrySort) []domain.CountryStat {
	byUser := make(map[int64][]decimal.Decimal)
	for _, tx := range txns {
		byUser[tx.UserID] = append(byUser[tx.UserID], tx.Amount)
	}

	type acc struct {
		count int64
		total decimal.Decimal
	}
	var countries []string
	sums := make(map[string]*acc)

	for _, g := range groups {
		for _, uid := range g.UserIDs {
			amounts, ok := byUser[uid]
			if !ok {
				continue
			}
			a, seen := sums[g.Country]
			if !seen {
				a = &acc{}
				sums[g.Country] = a
				countries = append(countries, g.Country)
			}
			for _, amt := range amounts {
				a.count++
				a.total = a.total.Add(amt)
			}
		}
	}

	stats := make([]domain.CountryStat, 0, len(countries))
	for _, c := range countries {
		a := sums[c]
		stats = append(stats, domain.CountryStat{
			Country:          c,
			TransactionCount: a.count,
			TotalAmount:      a.total,
			AverageAmount:    *money.Average(a.total, a.count),
		})
	}

	SortCountryStats(stats, order)
	return stats
}

// SortCountryStats orders stats by the chosen metric; equal values are
// ordered by country label ascending regardless of direction.
func SortCountryStats(stats []domain.CountryStat, order domain.CountrySort) {
	key := func(s domain.CountryStat) decimal.Decimal {
		switch order.Metric {
		case domain.SortByTotal:
			return s.TotalAmount
		case domain.SortByAvg:
			return s.AverageAmount
		default:
			return decimal.NewFromInt(s.TransactionCount)
		}
	}

	sort.SliceStable(stats, func(i, j int) bool {
		c := key(stats[i]).Cmp(key(stats[j]))
		if c == 0 {
			return stats[i].Country < stats[j].Country
		}
		if order.Direction == domain.SortDesc {
			return c > 0
		}
		return c < 0
	})
}
