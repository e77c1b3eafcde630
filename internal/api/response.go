package api

import (
	"github.com/paystats/reporter/internal/domain"
	"github.com/paystats/reporter/internal/money"
)

// reportResponse renders absent metrics as null. daily_shifts is null when
// the trend was not requested and [] when it was but nothing matched.
type reportResponse struct {
	TotalAmount      *float64             `json:"total_amount"`
	TransactionCount *int64               `json:"transaction_count"`
	AvgAmount        *float64             `json:"avg_amount"`
	MinAmount        *float64             `json:"min_amount"`
	MaxAmount        *float64             `json:"max_amount"`
	DailyShifts      []dailyShiftResponse `json:"daily_shifts"`
}

type dailyShiftResponse struct {
	Date          string   `json:"date"`
	TotalAmount   float64  `json:"total_amount"`
	Count         int64    `json:"count"`
	PercentChange *float64 `json:"percent_change"`
}

type countryStatResponse struct {
	Country          string  `json:"country"`
	TransactionCount int64   `json:"transaction_count"`
	TotalAmount      float64 `json:"total_amount"`
	AverageAmount    float64 `json:"average_amount"`
}

func newReportResponse(rep *domain.Report) reportResponse {
	resp := reportResponse{
		TotalAmount:      money.FloatPtr(rep.TotalAmount),
		TransactionCount: rep.TransactionCount,
		AvgAmount:        money.FloatPtr(rep.AvgAmount),
		MinAmount:        money.FloatPtr(rep.MinAmount),
		MaxAmount:        money.FloatPtr(rep.MaxAmount),
	}
	if rep.DailyShifts != nil {
		resp.DailyShifts = make([]dailyShiftResponse, 0, len(rep.DailyShifts))
		for _, s := range rep.DailyShifts {
			resp.DailyShifts = append(resp.DailyShifts, dailyShiftResponse{
				Date:          s.Date.Format(domain.DateLayout),
				TotalAmount:   money.Float(s.TotalAmount),
				Count:         s.Count,
				PercentChange: money.FloatPtr(s.PercentChange),
			})
		}
	}
	return resp
}

func newCountryStatsResponse(stats []domain.CountryStat) []countryStatResponse {
	out := make([]countryStatResponse, 0, len(stats))
	for _, s := range stats {
		out = append(out, countryStatResponse{
			Country:          s.Country,
			TransactionCount: s.TransactionCount,
			TotalAmount:      money.Float(s.TotalAmount),
			AverageAmount:    money.Float(s.AverageAmount),
		})
	}
	return out
}
