package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2026, 10, 15, 13, 45, 0, 0, time.UTC)

func TestNewReportFilterDefaults(t *testing.T) {
	f, err := NewReportFilter(ReportFilterParams{}, today)
	require.NoError(t, err)

	assert.Equal(t, "2026-09-15", f.StartDate.Format(DateLayout))
	assert.Equal(t, "2026-10-15", f.EndDate.Format(DateLayout))
	assert.Equal(t, StatusAll, f.Status)
	assert.Equal(t, TypeAll, f.Type)
	assert.True(t, f.Metrics.Empty())
	assert.False(t, f.IncludeDailyShift)
}

func TestNewReportFilterWindowIncludesWholeEndDay(t *testing.T) {
	f, err := NewReportFilter(ReportFilterParams{StartDate: "2024-01-01", EndDate: "2024-01-01"}, today)
	require.NoError(t, err)

	from, to := f.Window()
	assert.Equal(t, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), to)
}

func TestNewReportFilterRejectsStartAfterEnd(t *testing.T) {
	_, err := NewReportFilter(ReportFilterParams{StartDate: "2024-02-02", EndDate: "2024-02-01"}, today)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Violations, 1)
	assert.Equal(t, "start_date", verr.Violations[0].Field)
}

func TestNewReportFilterRejectsMalformedDates(t *testing.T) {
	_, err := NewReportFilter(ReportFilterParams{StartDate: "01/02/2024", EndDate: "2024-13-01"}, today)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Violations, 2)
	assert.Equal(t, "start_date", verr.Violations[0].Field)
	assert.Equal(t, "end_date", verr.Violations[1].Field)
}

func TestNewReportFilterAggregationRequiresSuccessful(t *testing.T) {
	for _, status := range []string{"", "all", "failed"} {
		for _, p := range []ReportFilterParams{
			{IncludeTotal: true},
			{IncludeAvg: true},
			{IncludeMin: true},
			{IncludeMax: true},
		} {
			p.Status = status
			_, err := NewReportFilter(p, today)

			var verr *ValidationError
			require.True(t, errors.As(err, &verr), "status=%q", status)
			assert.Equal(t, "status", verr.Violations[0].Field)
		}
	}

	f, err := NewReportFilter(ReportFilterParams{
		Status:       "successful",
		IncludeTotal: true,
		IncludeAvg:   true,
	}, today)
	require.NoError(t, err)
	assert.True(t, f.Metrics.Has(MetricTotal))
	assert.True(t, f.Metrics.Has(MetricAvg))
	assert.False(t, f.Metrics.Has(MetricMin))
	assert.False(t, f.Metrics.Has(MetricMax))
}

func TestNewReportFilterCollectsAllViolations(t *testing.T) {
	_, err := NewReportFilter(ReportFilterParams{
		StartDate:  "2024-03-01",
		EndDate:    "2024-01-01",
		Status:     "pending",
		Type:       "refund",
		IncludeMax: true,
	}, today)

	var verr *ValidationError
	require.True(t, errors.As(err, &verr))

	fields := make([]string, 0, len(verr.Violations))
	for _, v := range verr.Violations {
		fields = append(fields, v.Field)
	}
	assert.Equal(t, []string{"start_date", "status", "type", "status"}, fields)
	assert.Contains(t, verr.Error(), "include_max")
}

func TestNewReportFilterSelectors(t *testing.T) {
	f, err := NewReportFilter(ReportFilterParams{Status: "FAILED", Type: "invoice"}, today)
	require.NoError(t, err)
	assert.Equal(t, StatusFailedOnly, f.Status)
	assert.Equal(t, TypeInvoiceOnly, f.Type)
}

func TestParseCountrySort(t *testing.T) {
	s, err := ParseCountrySort("", "")
	require.NoError(t, err)
	assert.Equal(t, DefaultCountrySort, s)

	s, err = ParseCountrySort("total", "desc")
	require.NoError(t, err)
	assert.Equal(t, CountrySort{Metric: SortByTotal, Direction: SortDesc}, s)

	_, err = ParseCountrySort("median", "up")
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Len(t, verr.Violations, 2)
}
