package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ExpenseRecord struct {
	ID         int32           `json:"id"`
	OwnerID    uuid.UUID       `json:"ownerId"`
	Name       string          `json:"name"`
	Amount     decimal.Decimal `json:"amount"`
	CategoryID *int32          `json:"categoryId,omitempty"`
	Category   *Category       `json:"category,omitempty"`
	Date       time.Time       `json:"date"`
	Note       string          `json:"note,omitempty"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// CategoryName returns the category display name, or UncategorizedLabel
func (e *ExpenseRecord) CategoryName() string {
	if e.Category == nil || e.Category.Name == "" {
		return UncategorizedLabel
	}
	return e.Category.Name
}

// InCategory reports whether the expense references the given category
func (e *ExpenseRecord) InCategory(categoryID int32) bool {
	if e.CategoryID != nil {
		return *e.CategoryID == categoryID
	}
	return e.Category != nil && e.Category.ID == categoryID
}

type ExpenseRepository interface {
	// ListByPeriod returns expenses dated inside the period, newest first
	ListByPeriod(ctx context.Context, ownerID uuid.UUID, period Period) ([]*ExpenseRecord, error)
	ListByCategory(ctx context.Context, ownerID uuid.UUID, categoryID int32, period Period) ([]*ExpenseRecord, error)
}

// OwnerRepository lists owners that have ledger activity
type OwnerRepository interface {
	ListActive(ctx context.Context, period Period) ([]uuid.UUID, error)
}
