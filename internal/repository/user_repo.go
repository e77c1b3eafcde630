package repository

import (
	"context"
	"fmt"

	"github.com/paystats/reporter/internal/domain"
	"github.com/paystats/reporter/internal/money"
)

type UserRepo struct {
	db *DB
}

func NewUserRepo(db *DB) *UserRepo {
	return &UserRepo{db: db}
}

func (r *UserRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&count)
	return count, err
}

// UserBatch is a user together with the transactions it owns. The
// transactions' UserID is assigned on insert.
type UserBatch struct {
	User         domain.User
	Transactions []domain.Transaction
}

// InsertBatches stores users and their transactions in one database
// transaction. On any error nothing is written.
func (r *UserRepo) InsertBatches(ctx context.Context, batches []UserBatch) (users, txns int, err error) {
	sqlTx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, 0, fmt.Errorf("begin tx: %w", err)
	}
	defer sqlTx.Rollback()

	userStmt, err := sqlTx.PrepareContext(ctx, r.db.Dialect.Rebind(
		`INSERT INTO users (email, name, password_hash) VALUES (?,?,?) RETURNING id`,
	))
	if err != nil {
		return 0, 0, fmt.Errorf("prepare user insert: %w", err)
	}
	defer userStmt.Close()

	txStmt, err := sqlTx.PrepareContext(ctx, r.db.Dialect.Rebind(
		`INSERT INTO transactions (paid_at, amount_minor, status, type, user_id) VALUES (?,?,?,?,?)`,
	))
	if err != nil {
		return 0, 0, fmt.Errorf("prepare transaction insert: %w", err)
	}
	defer txStmt.Close()

	for i := range batches {
		b := &batches[i]
		var userID int64
		if err := userStmt.QueryRowContext(ctx, b.User.Email, b.User.Name, b.User.PasswordHash).Scan(&userID); err != nil {
			return 0, 0, fmt.Errorf("insert user %d: %w", i, err)
		}
		b.User.ID = userID
		users++

		for j := range b.Transactions {
			tx := &b.Transactions[j]
			minor, err := money.ToMinor(tx.Amount)
			if err != nil {
				return 0, 0, fmt.Errorf("user %d transaction %d: %w", i, j, err)
			}
			tx.UserID = userID
			if _, err := txStmt.ExecContext(ctx,
				r.db.Dialect.BindTime(tx.PaidAt), minor, string(tx.Status), string(tx.Type), userID,
			); err != nil {
				return 0, 0, fmt.Errorf("insert user %d transaction %d: %w", i, j, err)
			}
			txns++
		}
	}

	if err := sqlTx.Commit(); err != nil {
		return 0, 0, fmt.Errorf("commit: %w", err)
	}
	return users, txns, nil
}

// Delete removes a user; its transactions go with it.
func (r *UserRepo) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, r.db.Dialect.Rebind("DELETE FROM users WHERE id = ?"), id)
	if err != nil {
		return fmt.Errorf("delete user %d: %w", id, err)
	}
	return nil
}
