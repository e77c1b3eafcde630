package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusSuccessful Status = "successful"
	StatusFailed     Status = "failed"
)

type PayType string

const (
	PayTypePayment PayType = "payment"
	PayTypeInvoice PayType = "invoice"
)

type Transaction struct {
	ID        int64           `json:"id"`
	PaidAt    time.Time       `json:"paid_at"`
	Amount    decimal.Decimal `json:"amount"`
	Status    Status          `json:"status"`
	Type      PayType         `json:"type"`
	UserID    int64           `json:"user_id"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type User struct {
	ID           int64     `json:"id"`
	Email        string    `json:"email"`
	Name         string    `json:"name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
