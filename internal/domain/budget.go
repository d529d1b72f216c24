package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BudgetLimit caps spending for one category in one period
type BudgetLimit struct {
	ID         int32           `json:"id"`
	OwnerID    uuid.UUID       `json:"ownerId"`
	CategoryID int32           `json:"categoryId"`
	Category   *Category       `json:"category,omitempty"`
	Period     Period          `json:"period"`
	Limit      decimal.Decimal `json:"limit"`
	CreatedAt  time.Time       `json:"createdAt"`
}

// CategoryName returns the joined category name, or UncategorizedLabel
func (b *BudgetLimit) CategoryName() string {
	if b.Category == nil || b.Category.Name == "" {
		return UncategorizedLabel
	}
	return b.Category.Name
}

type BudgetRepository interface {
	ListByPeriod(ctx context.Context, ownerID uuid.UUID, period Period) ([]*BudgetLimit, error)
}
