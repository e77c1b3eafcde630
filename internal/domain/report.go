package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AggregateReport holds the optional summary metrics of a filtered
// population. A nil field was not requested (or is undefined) and is
// rendered as null.
type AggregateReport struct {
	TotalAmount      *decimal.Decimal
	TransactionCount *int64
	AvgAmount        *decimal.Decimal
	MinAmount        *decimal.Decimal
	MaxAmount        *decimal.Decimal
}

// DailyTotal is one calendar day of a filtered population as returned by the store.
type DailyTotal struct {
	Day   time.Time
	Total decimal.Decimal
	Count int64
}

// DailyShift is a DailyTotal compared with the previous present day.
type DailyShift struct {
	Date          time.Time
	TotalAmount   decimal.Decimal
	Count         int64
	PercentChange *decimal.Decimal
}

type Report struct {
	AggregateReport
	// DailyShifts is nil when the daily trend was not requested.
	DailyShifts []DailyShift
}
