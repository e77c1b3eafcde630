package seed

import (
	"context"
	"errors"
	"math/rand"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paystats/reporter/internal/repository"
)

var now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestGenerate(t *testing.T) {
	batches := Generate(rand.New(rand.NewSource(1)), now, 3, 8)

	require.Len(t, batches, 3)
	assert.Equal(t, "user1@example.com", batches[0].User.Email)
	assert.Equal(t, "User 3", batches[2].User.Name)

	combos := map[string]int{}
	from := now.AddDate(0, 0, -HistoryDays)
	for _, b := range batches {
		require.Len(t, b.Transactions, 8)
		for _, tx := range b.Transactions {
			assert.False(t, tx.PaidAt.Before(from), "paid_at %s before window", tx.PaidAt)
			assert.False(t, tx.PaidAt.After(now), "paid_at %s after now", tx.PaidAt)
			assert.True(t, tx.Amount.GreaterThanOrEqual(dec(t, "1.00")))
			assert.True(t, tx.Amount.LessThanOrEqual(dec(t, "1000.00")))
			assert.LessOrEqual(t, -tx.Amount.Exponent(), int32(2))
			combos[string(tx.Status)+"/"+string(tx.Type)]++
		}
	}
	assert.Len(t, combos, 4)
	assert.Equal(t, 6, combos["successful/payment"])
}

func TestGenerate_Deterministic(t *testing.T) {
	a := Generate(rand.New(rand.NewSource(42)), now, 2, 5)
	b := Generate(rand.New(rand.NewSource(42)), now, 2, 5)
	assert.Equal(t, a, b)
}

func TestRun_SeedsOnceIntoSQLite(t *testing.T) {
	ctx := context.Background()
	db, err := repository.InitDB(ctx, "sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	users := repository.NewUserRepo(db)
	opts := Options{Users: 4, TxPerUser: 10, Seed: 7, Now: now}

	seeded, err := Run(ctx, users, opts, zerolog.Nop())
	require.NoError(t, err)
	assert.True(t, seeded)

	n, err := repository.NewTransactionRepo(db).Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 40, n)

	seeded, err = Run(ctx, users, opts, zerolog.Nop())
	require.NoError(t, err)
	assert.False(t, seeded, "second run finds users and skips")

	n, err = users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 4, n)
}

type failingStore struct{ inserted bool }

func (s *failingStore) Count(context.Context) (int, error) { return 0, nil }

func (s *failingStore) InsertBatches(context.Context, []repository.UserBatch) (int, int, error) {
	s.inserted = true
	return 0, 0, errors.New("constraint violated")
}

func TestRun_PropagatesInsertError(t *testing.T) {
	store := &failingStore{}
	seeded, err := Run(context.Background(), store, Options{Users: 1, TxPerUser: 1, Now: now}, zerolog.Nop())
	require.Error(t, err)
	assert.False(t, seeded)
	assert.True(t, store.inserted)
	assert.Contains(t, err.Error(), "constraint violated")
}

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	return decimal.RequireFromString(s)
}
