package repository

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// timestampLayout is how sqlite stores wall-clock timestamps. It sorts
// lexically in time order.
const timestampLayout = "2006-01-02 15:04:05"

// Dialect hides the SQL differences between the supported drivers.
// Queries are written with '?' placeholders and rebound per dialect.
type Dialect interface {
	Name() string
	DriverName() string
	// Rebind rewrites '?' placeholders into the dialect's style.
	Rebind(query string) string
	// BindTime converts a timestamp into a query argument.
	BindTime(t time.Time) any
	// DayExpr renders col truncated to its calendar day as YYYY-MM-DD text.
	DayExpr(col string) string
	// Schema returns the DDL statements creating all tables.
	Schema() []string
}

func DialectFor(driver string) (Dialect, error) {
	switch driver {
	case "sqlite", "":
		return sqliteDialect{}, nil
	case "postgres", "pgx":
		return postgresDialect{}, nil
	}
	return nil, fmt.Errorf("unsupported database driver %q", driver)
}

type sqliteDialect struct{}

func (sqliteDialect) Name() string               { return "sqlite" }
func (sqliteDialect) DriverName() string         { return "sqlite" }
func (sqliteDialect) Rebind(query string) string { return query }

func (sqliteDialect) BindTime(t time.Time) any {
	return t.UTC().Format(timestampLayout)
}

func (sqliteDialect) DayExpr(col string) string {
	return "substr(" + col + ", 1, 10)"
}

func (sqliteDialect) Schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			email TEXT NOT NULL UNIQUE,
			name TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			paid_at TEXT NOT NULL,
			amount_minor INTEGER NOT NULL CHECK (amount_minor >= 0),
			status TEXT NOT NULL CHECK (status IN ('successful','failed')),
			type TEXT NOT NULL CHECK (type IN ('payment','invoice')),
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TEXT NOT NULL DEFAULT (datetime('now')),
			updated_at TEXT NOT NULL DEFAULT (datetime('now'))
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_paid_at ON transactions(paid_at)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_status ON transactions(status)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_type ON transactions(type)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_user_id ON transactions(user_id)`,
	}
}

type postgresDialect struct{}

func (postgresDialect) Name() string       { return "postgres" }
func (postgresDialect) DriverName() string { return "pgx" }

func (postgresDialect) Rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for i := 0; i < len(query); i++ {
		if query[i] == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteByte(query[i])
	}
	return b.String()
}

func (postgresDialect) BindTime(t time.Time) any {
	return t.UTC()
}

func (postgresDialect) DayExpr(col string) string {
	return "to_char(date_trunc('day', " + col + "), 'YYYY-MM-DD')"
}

func (postgresDialect) Schema() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			email VARCHAR(255) NOT NULL UNIQUE,
			name VARCHAR(255) NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			created_at TIMESTAMP NOT NULL DEFAULT now(),
			updated_at TIMESTAMP NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS transactions (
			id BIGSERIAL PRIMARY KEY,
			paid_at TIMESTAMP NOT NULL,
			amount_minor BIGINT NOT NULL CHECK (amount_minor >= 0),
			status VARCHAR(16) NOT NULL CHECK (status IN ('successful','failed')),
			type VARCHAR(16) NOT NULL CHECK (type IN ('payment','invoice')),
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			created_at TIMESTAMP NOT NULL DEFAULT now(),
			updated_at TIMESTAMP NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_paid_at ON transactions(paid_at)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_status ON transactions(status)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_type ON transactions(type)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_user_id ON transactions(user_id)`,
	}
}
