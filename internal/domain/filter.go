package domain

import (
	"fmt"
	"strings"
	"time"
)

const (
	DateLayout        = "2006-01-02"
	DefaultReportDays = 30
)

type StatusSelector string

const (
	StatusAll         StatusSelector = "all"
	StatusSuccessOnly StatusSelector = StatusSelector(StatusSuccessful)
	StatusFailedOnly  StatusSelector = StatusSelector(StatusFailed)
)

type TypeSelector string

const (
	TypeAll         TypeSelector = "all"
	TypePaymentOnly TypeSelector = TypeSelector(PayTypePayment)
	TypeInvoiceOnly TypeSelector = TypeSelector(PayTypeInvoice)
)

// Metric is an optional aggregate a caller can ask for.
type Metric string

const (
	MetricTotal Metric = "total"
	MetricAvg   Metric = "avg"
	MetricMin   Metric = "min"
	MetricMax   Metric = "max"
)

// AllMetrics lists metrics in the order their toggles are reported.
var AllMetrics = []Metric{MetricTotal, MetricAvg, MetricMin, MetricMax}

// MetricSet is the explicit set of requested aggregates.
type MetricSet map[Metric]bool

func NewMetricSet(metrics ...Metric) MetricSet {
	s := make(MetricSet, len(metrics))
	for _, m := range metrics {
		s[m] = true
	}
	return s
}

func (s MetricSet) Has(m Metric) bool { return s[m] }

func (s MetricSet) Empty() bool {
	for _, on := range s {
		if on {
			return false
		}
	}
	return true
}

// ReportFilterParams is the raw, unvalidated report request.
type ReportFilterParams struct {
	StartDate         string
	EndDate           string
	Status            string
	Type              string
	IncludeTotal      bool
	IncludeAvg        bool
	IncludeMin        bool
	IncludeMax        bool
	IncludeDailyShift bool
}

func (p ReportFilterParams) toggles() map[Metric]bool {
	return map[Metric]bool{
		MetricTotal: p.IncludeTotal,
		MetricAvg:   p.IncludeAvg,
		MetricMin:   p.IncludeMin,
		MetricMax:   p.IncludeMax,
	}
}

// ReportFilter selects a transaction population and the metrics to derive
// from it. The zero value is not valid; use NewReportFilter.
type ReportFilter struct {
	StartDate         time.Time
	EndDate           time.Time
	Status            StatusSelector
	Type              TypeSelector
	Metrics           MetricSet
	IncludeDailyShift bool
}

// NewReportFilter validates p and fills in defaults relative to today.
// All violations are collected into a single *ValidationError.
func NewReportFilter(p ReportFilterParams, today time.Time) (ReportFilter, error) {
	verr := &ValidationError{}
	today = truncateDay(today)

	f := ReportFilter{
		StartDate:         today.AddDate(0, 0, -DefaultReportDays),
		EndDate:           today,
		Status:            StatusAll,
		Type:              TypeAll,
		Metrics:           MetricSet{},
		IncludeDailyShift: p.IncludeDailyShift,
	}

	startOK, endOK := true, true
	if s := strings.TrimSpace(p.StartDate); s != "" {
		d, err := time.Parse(DateLayout, s)
		if err != nil {
			verr.add("start_date", "must be a date in YYYY-MM-DD format, got %q", p.StartDate)
			startOK = false
		} else {
			f.StartDate = d
		}
	}
	if s := strings.TrimSpace(p.EndDate); s != "" {
		d, err := time.Parse(DateLayout, s)
		if err != nil {
			verr.add("end_date", "must be a date in YYYY-MM-DD format, got %q", p.EndDate)
			endOK = false
		} else {
			f.EndDate = d
		}
	}
	if startOK && endOK && f.StartDate.After(f.EndDate) {
		verr.add("start_date", "must not be later than end_date (%s > %s)",
			f.StartDate.Format(DateLayout), f.EndDate.Format(DateLayout))
	}

	switch s := StatusSelector(strings.ToLower(strings.TrimSpace(p.Status))); s {
	case "":
	case StatusAll, StatusSuccessOnly, StatusFailedOnly:
		f.Status = s
	default:
		verr.add("status", "must be one of successful, failed, all; got %q", p.Status)
	}

	switch t := TypeSelector(strings.ToLower(strings.TrimSpace(p.Type))); t {
	case "":
	case TypeAll, TypePaymentOnly, TypeInvoiceOnly:
		f.Type = t
	default:
		verr.add("type", "must be one of payment, invoice, all; got %q", p.Type)
	}

	toggles := p.toggles()
	var enabled []string
	for _, m := range AllMetrics {
		if toggles[m] {
			f.Metrics[m] = true
			enabled = append(enabled, "include_"+string(m))
		}
	}
	if len(enabled) > 0 && f.Status != StatusSuccessOnly {
		verr.add("status", "aggregation fields %s may only be enabled with status=%s",
			strings.Join(enabled, ", "), StatusSuccessful)
	}

	if err := verr.orNil(); err != nil {
		return ReportFilter{}, err
	}
	return f, nil
}

// Window returns the half-open time range [start 00:00, day after end 00:00).
func (f ReportFilter) Window() (from, to time.Time) {
	return f.StartDate, f.EndDate.AddDate(0, 0, 1)
}

func (f ReportFilter) String() string {
	return fmt.Sprintf("%s..%s status=%s type=%s",
		f.StartDate.Format(DateLayout), f.EndDate.Format(DateLayout), f.Status, f.Type)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
