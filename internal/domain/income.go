package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DefaultCurrency is used when an income record carries no currency code
const DefaultCurrency = "INR"

// IncomeRecord is the salary for one owner and period
type IncomeRecord struct {
	ID        int32           `json:"id"`
	OwnerID   uuid.UUID       `json:"ownerId"`
	Period    Period          `json:"period"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

type IncomeRepository interface {
	// GetByPeriod returns ErrIncomeNotFound when no income was recorded
	GetByPeriod(ctx context.Context, ownerID uuid.UUID, period Period) (*IncomeRecord, error)
	// ListByOwner returns all income records, newest period first
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*IncomeRecord, error)
}
