// Package report computes transaction reports and per-country statistics.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/paystats/reporter/internal/domain"
	"github.com/paystats/reporter/internal/ingestion"
)

// DefaultMaxPayloadBytes bounds country uploads when no limit is configured.
const DefaultMaxPayloadBytes = 5 << 20

// Store is the read side of the transaction store the reports need.
type Store interface {
	Aggregate(ctx context.Context, f domain.ReportFilter, metrics domain.MetricSet) (domain.AggregateReport, error)
	DailyTotals(ctx context.Context, f domain.ReportFilter) ([]domain.DailyTotal, error)
	ListByUserIDs(ctx context.Context, ids []int64) ([]domain.Transaction, error)
}

// Service builds reports from a Store. It keeps no per-request state.
type Service struct {
	store           Store
	log             zerolog.Logger
	maxPayloadBytes int
	now             func() time.Time
}

// NewService creates a report service. maxPayloadBytes <= 0 selects
// DefaultMaxPayloadBytes.
func NewService(store Store, maxPayloadBytes int, log zerolog.Logger) *Service {
	if maxPayloadBytes <= 0 {
		maxPayloadBytes = DefaultMaxPayloadBytes
	}
	return &Service{
		store:           store,
		log:             log.With().Str("component", "report").Logger(),
		maxPayloadBytes: maxPayloadBytes,
		now:             time.Now,
	}
}

// Today is the reference day for default report windows.
func (s *Service) Today() time.Time {
	return s.now().UTC()
}

func (s *Service) MaxPayloadBytes() int {
	return s.maxPayloadBytes
}

// GetReport computes the aggregate metrics and, when requested, the daily
// trend of the filter's population. Both see the same predicate.
func (s *Service) GetReport(ctx context.Context, f domain.ReportFilter) (*domain.Report, error) {
	start := time.Now()
	var rep domain.Report

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		agg, err := CalculateAggregates(gctx, s.store, f)
		if err != nil {
			return fmt.Errorf("aggregate metrics: %w", err)
		}
		rep.AggregateReport = agg
		return nil
	})
	if f.IncludeDailyShift {
		g.Go(func() error {
			totals, err := s.store.DailyTotals(gctx, f)
			if err != nil {
				return fmt.Errorf("daily trend: %w", err)
			}
			rep.DailyShifts = BuildDailyShifts(totals)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	s.log.Debug().
		Str("filter", f.String()).
		Int("metrics", len(f.Metrics)).
		Int("days", len(rep.DailyShifts)).
		Dur("took", time.Since(start)).
		Msg("report computed")
	return &rep, nil
}

// CountryStats joins an uploaded user-to-country mapping against all
// stored transactions of the listed users.
func (s *Service) CountryStats(ctx context.Context, filename string, payload []byte, opts domain.CountryStatsOptions) ([]domain.CountryStat, error) {
	if err := ingestion.CheckFilename(filename); err != nil {
		return nil, err
	}
	if opts.TopN < 0 {
		return nil, domain.NewValidationError("top_n", "must be a positive integer, got %d", opts.TopN)
	}
	if len(payload) > s.maxPayloadBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds limit of %d", domain.ErrPayloadTooLarge, len(payload), s.maxPayloadBytes)
	}

	rows, err := ingestion.Parse(payload)
	if err != nil {
		return nil, err
	}
	grouped := ingestion.Group(rows, opts.TopN)

	stats := []domain.CountryStat{}
	if len(grouped.UserIDs) > 0 {
		txns, err := s.store.ListByUserIDs(ctx, grouped.UserIDs)
		if err != nil {
			return nil, fmt.Errorf("fetch transactions: %w", err)
		}
		stats = JoinCountryStats(grouped.Groups, txns, opts.Sort)
	}

	s.log.Info().
		Str("file", filename).
		Int("rows", len(rows)).
		Int("countries", len(grouped.Groups)).
		Int("matched_countries", len(stats)).
		Msg("country stats computed")
	return stats, nil
}
