package report

import (
	"context"

	"github.com/paystats/reporter/internal/domain"
)

// CalculateAggregates computes the filter's optional metrics. Populations
// that are not restricted to successful transactions never receive them,
// whatever the filter requests, and an empty request costs no query.
func CalculateAggregates(ctx context.Context, store Store, f domain.ReportFilter) (domain.AggregateReport, error) {
	if f.Status != domain.StatusSuccessOnly || f.Metrics.Empty() {
		return domain.AggregateReport{}, nil
	}
	return store.Aggregate(ctx, f, f.Metrics)
}
