package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CountryRow is one typed line of an uploaded user-to-country mapping.
type CountryRow struct {
	Line    int
	UserID  int64
	Country string
}

type CountryGroup struct {
	Country string
	UserIDs []int64
}

type CountryStat struct {
	Country          string          `json:"country"`
	TransactionCount int64           `json:"transaction_count"`
	TotalAmount      decimal.Decimal `json:"total_amount"`
	AverageAmount    decimal.Decimal `json:"average_amount"`
}

type SortMetric string

const (
	SortByCount SortMetric = "count"
	SortByTotal SortMetric = "total"
	SortByAvg   SortMetric = "avg"
)

type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// CountrySort is the resolved ordering for country statistics.
type CountrySort struct {
	Metric    SortMetric
	Direction SortDirection
}

var DefaultCountrySort = CountrySort{Metric: SortByCount, Direction: SortAsc}

// ParseCountrySort resolves the caller's sort options. Empty values fall
// back to DefaultCountrySort.
func ParseCountrySort(sortBy, order string) (CountrySort, error) {
	verr := &ValidationError{}
	s := DefaultCountrySort

	switch m := SortMetric(strings.ToLower(strings.TrimSpace(sortBy))); m {
	case "":
	case SortByCount, SortByTotal, SortByAvg:
		s.Metric = m
	default:
		verr.add("sort_by", "must be one of count, total, avg; got %q", sortBy)
	}

	switch d := SortDirection(strings.ToLower(strings.TrimSpace(order))); d {
	case "":
	case SortAsc, SortDesc:
		s.Direction = d
	default:
		verr.add("order", "must be asc or desc; got %q", order)
	}

	if err := verr.orNil(); err != nil {
		return CountrySort{}, err
	}
	return s, nil
}

// CountryStatsOptions are the caller-supplied knobs of a country report.
type CountryStatsOptions struct {
	Sort CountrySort
	// TopN limits the number of country groups; 0 means no limit.
	TopN int
}
