package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/paystats/reporter/internal/domain"
	"github.com/paystats/reporter/internal/money"
)

// maxIDsPerQuery keeps IN lists under sqlite's bound variable limit.
const maxIDsPerQuery = 500

type TransactionRepo struct {
	db *DB
}

func NewTransactionRepo(db *DB) *TransactionRepo {
	return &TransactionRepo{db: db}
}

func (r *TransactionRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM transactions").Scan(&count)
	return count, err
}

// Aggregate computes the requested metrics over the filter's population in
// a single query. Metrics that are not requested stay nil; with no metrics
// requested no query is issued.
func (r *TransactionRepo) Aggregate(ctx context.Context, f domain.ReportFilter, metrics domain.MetricSet) (domain.AggregateReport, error) {
	var report domain.AggregateReport
	if metrics.Empty() {
		return report, nil
	}

	var (
		cols               []string
		dest               []any
		count, sum         sql.NullInt64
		minMinor, maxMinor sql.NullInt64
	)
	needSum := metrics.Has(domain.MetricTotal) || metrics.Has(domain.MetricAvg)
	if needSum {
		cols = append(cols, "COUNT(*)", "COALESCE(CAST(SUM(amount_minor) AS BIGINT), 0)")
		dest = append(dest, &count, &sum)
	}
	if metrics.Has(domain.MetricMin) {
		cols = append(cols, "MIN(amount_minor)")
		dest = append(dest, &minMinor)
	}
	if metrics.Has(domain.MetricMax) {
		cols = append(cols, "MAX(amount_minor)")
		dest = append(dest, &maxMinor)
	}

	pred := ReportPredicate(r.db.Dialect, f)
	query := r.db.Dialect.Rebind("SELECT " + strings.Join(cols, ", ") + " FROM transactions" + pred.Where())
	if err := r.db.QueryRowContext(ctx, query, pred.Args()...).Scan(dest...); err != nil {
		return report, fmt.Errorf("aggregate: %w", err)
	}

	if metrics.Has(domain.MetricTotal) {
		total := money.FromMinor(sum.Int64)
		n := count.Int64
		report.TotalAmount = &total
		report.TransactionCount = &n
	}
	if metrics.Has(domain.MetricAvg) {
		report.AvgAmount = money.Average(money.FromMinor(sum.Int64), count.Int64)
	}
	if minMinor.Valid {
		v := money.FromMinor(minMinor.Int64)
		report.MinAmount = &v
	}
	if maxMinor.Valid {
		v := money.FromMinor(maxMinor.Int64)
		report.MaxAmount = &v
	}
	return report, nil
}

// DailyTotals groups the filter's population by calendar day, ascending.
// Days without transactions are absent.
func (r *TransactionRepo) DailyTotals(ctx context.Context, f domain.ReportFilter) ([]domain.DailyTotal, error) {
	pred := ReportPredicate(r.db.Dialect, f)
	query := r.db.Dialect.Rebind(
		"SELECT " + r.db.Dialect.DayExpr("paid_at") + " AS day_date," +
			" CAST(SUM(amount_minor) AS BIGINT), COUNT(*)" +
			" FROM transactions" + pred.Where() +
			" GROUP BY 1 ORDER BY 1",
	)

	rows, err := r.db.QueryContext(ctx, query, pred.Args()...)
	if err != nil {
		return nil, fmt.Errorf("daily totals: %w", err)
	}
	defer rows.Close()

	var totals []domain.DailyTotal
	for rows.Next() {
		var day string
		var sum, count int64
		if err := rows.Scan(&day, &sum, &count); err != nil {
			return nil, fmt.Errorf("scan daily total: %w", err)
		}
		d, err := parseDay(day)
		if err != nil {
			return nil, err
		}
		totals = append(totals, domain.DailyTotal{Day: d, Total: money.FromMinor(sum), Count: count})
	}
	return totals, rows.Err()
}

// ListByUserIDs returns every transaction owned by any of ids, regardless
// of date, status or type. Order is unspecified.
func (r *TransactionRepo) ListByUserIDs(ctx context.Context, ids []int64) ([]domain.Transaction, error) {
	unique := dedupeIDs(ids)

	var txns []domain.Transaction
	for start := 0; start < len(unique); start += maxIDsPerQuery {
		end := min(start+maxIDsPerQuery, len(unique))
		chunk := unique[start:end]

		args := make([]any, len(chunk))
		for i, id := range chunk {
			args[i] = id
		}
		query := r.db.Dialect.Rebind(
			"SELECT " + transactionColumns + " FROM transactions WHERE user_id IN (" +
				placeholders(len(chunk)) + ")",
		)

		rows, err := r.db.QueryContext(ctx, query, args...)
		if err != nil {
			return nil, fmt.Errorf("list by user ids: %w", err)
		}
		txns, err = appendTransactions(txns, rows)
		if err != nil {
			return nil, err
		}
	}
	return txns, nil
}

// --- helpers ---

const transactionColumns = "id, paid_at, amount_minor, status, type, user_id, created_at, updated_at"

func appendTransactions(txns []domain.Transaction, rows *sql.Rows) ([]domain.Transaction, error) {
	defer rows.Close()
	for rows.Next() {
		tx, err := scanTransactionRows(rows)
		if err != nil {
			return nil, fmt.Errorf("scan: %w", err)
		}
		txns = append(txns, *tx)
	}
	return txns, rows.Err()
}

func scanTransactionRows(rows *sql.Rows) (*domain.Transaction, error) {
	var tx domain.Transaction
	var status, typ string
	var minor int64
	var paidAt, createdAt, updatedAt any

	err := rows.Scan(&tx.ID, &paidAt, &minor, &status, &typ, &tx.UserID, &createdAt, &updatedAt)
	if err != nil {
		return nil, err
	}

	tx.Amount = money.FromMinor(minor)
	tx.Status = domain.Status(status)
	tx.Type = domain.PayType(typ)
	if tx.PaidAt, err = scanTime(paidAt); err != nil {
		return nil, err
	}
	if tx.CreatedAt, err = scanTime(createdAt); err != nil {
		return nil, err
	}
	if tx.UpdatedAt, err = scanTime(updatedAt); err != nil {
		return nil, err
	}
	return &tx, nil
}

func parseDay(s string) (t time.Time, err error) {
	t, err = time.Parse(domain.DateLayout, s)
	if err != nil {
		return t, fmt.Errorf("parse day %q: %w", s, err)
	}
	return t, nil
}

func placeholders(n int) string {
	if n <= 0 {
		return ""
	}
	return strings.Repeat("?,", n-1) + "?"
}

func dedupeIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
