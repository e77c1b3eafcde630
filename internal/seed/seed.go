// Package seed fills an empty store with sample users and transactions.
package seed

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"github.com/rs/zerolog"

	"github.com/paystats/reporter/internal/domain"
	"github.com/paystats/reporter/internal/money"
	"github.com/paystats/reporter/internal/repository"
)

const (
	// HistoryDays is how far back sample transactions reach.
	HistoryDays = 730

	minAmountMinor = 100    // 1.00
	maxAmountMinor = 100000 // 1000.00
)

// Store is what seeding needs from the user repository.
type Store interface {
	Count(ctx context.Context) (int, error)
	InsertBatches(ctx context.Context, batches []repository.UserBatch) (users, txns int, err error)
}

// Options controls the size and randomness of generated data.
type Options struct {
	Users     int
	TxPerUser int
	Seed      int64
	Now       time.Time
}

// Generate builds users user1..userN, each with perUser transactions
// spread over the last HistoryDays days. Status alternates per
// transaction and type alternates every second one, so every
// status/type combination is present.
func Generate(rng *rand.Rand, now time.Time, users, perUser int) []repository.UserBatch {
	now = now.UTC().Truncate(time.Second)
	from := now.AddDate(0, 0, -HistoryDays)
	span := int64(now.Sub(from) / time.Second)

	statuses := [2]domain.Status{domain.StatusSuccessful, domain.StatusFailed}
	types := [2]domain.PayType{domain.PayTypePayment, domain.PayTypeInvoice}

	batches := make([]repository.UserBatch, 0, users)
	for i := 1; i <= users; i++ {
		b := repository.UserBatch{
			User: domain.User{
				Email:        fmt.Sprintf("user%d@example.com", i),
				Name:         fmt.Sprintf("User %d", i),
				PasswordHash: fmt.Sprintf("hashed_password_%d", i),
			},
			Transactions: make([]domain.Transaction, 0, perUser),
		}
		for j := 0; j < perUser; j++ {
			b.Transactions = append(b.Transactions, domain.Transaction{
				PaidAt: from.Add(time.Duration(rng.Int63n(span+1)) * time.Second),
				Amount: money.FromMinor(minAmountMinor + rng.Int63n(maxAmountMinor-minAmountMinor+1)),
				Status: statuses[j%2],
				Type:   types[(j/2)%2],
			})
		}
		batches = append(batches, b)
	}
	return batches
}

// Run seeds the store unless it already has users. It reports whether
// data was inserted. Inserts are all-or-nothing.
func Run(ctx context.Context, store Store, opts Options, log zerolog.Logger) (bool, error) {
	log = log.With().Str("component", "seed").Logger()

	count, err := store.Count(ctx)
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	if count > 0 {
		log.Info().Int("users", count).Msg("sample data already present, skipping")
		return false, nil
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}
	seed := opts.Seed
	if seed == 0 {
		seed = now.UnixNano()
	}

	batches := Generate(rand.New(rand.NewSource(seed)), now, opts.Users, opts.TxPerUser)
	users, txns, err := store.InsertBatches(ctx, batches)
	if err != nil {
		return false, fmt.Errorf("insert sample data: %w", err)
	}

	log.Info().Int("users", users).Int("transactions", txns).Msg("sample data created")
	return true, nil
}
