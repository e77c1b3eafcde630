package repository

import (
	"strings"

	"github.com/paystats/reporter/internal/domain"
)

// Predicate is a composable set of AND-ed conditions with their arguments.
type Predicate struct {
	clauses []string
	args    []any
}

// And appends a condition using '?' placeholders.
func (p Predicate) And(clause string, args ...any) Predicate {
	p.clauses = append(append([]string(nil), p.clauses...), clause)
	p.args = append(append([]any(nil), p.args...), args...)
	return p
}

// Where renders " WHERE ..." or "" for an empty predicate.
func (p Predicate) Where() string {
	if len(p.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(p.clauses, " AND ")
}

func (p Predicate) Args() []any { return p.args }

// ReportPredicate selects the population of a report filter:
// paid_at within [start day, end day] inclusive, plus status and type
// unless they select all.
func ReportPredicate(d Dialect, f domain.ReportFilter) Predicate {
	from, to := f.Window()
	p := Predicate{}.
		And("paid_at >= ?", d.BindTime(from)).
		And("paid_at < ?", d.BindTime(to))

	if f.Status != domain.StatusAll {
		p = p.And("status = ?", string(f.Status))
	}
	if f.Type != domain.TypeAll {
		p = p.And("type = ?", string(f.Type))
	}
	return p
}
