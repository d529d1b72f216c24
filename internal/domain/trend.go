package domain

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TrendPoint is one month of a trend series
type TrendPoint struct {
	Period   Period          `json:"period"`
	Label    string          `json:"label"`
	Income   decimal.Decimal `json:"income"`
	Expenses decimal.Decimal `json:"expenses"`
	Savings  decimal.Decimal `json:"savings"`
	// SavingsPercent is nil when there was no income, which differs from 0%
	SavingsPercent *decimal.Decimal `json:"savingsPercent"`
}

// TrendSeries is a window of consecutive months ending at Anchor, oldest first
type TrendSeries struct {
	Anchor         Period          `json:"anchor"`
	Window         int             `json:"window"`
	Points         []TrendPoint    `json:"points"`
	TotalIncome    decimal.Decimal `json:"totalIncome"`
	TotalExpenses  decimal.Decimal `json:"totalExpenses"`
	SavingsRate    decimal.Decimal `json:"savingsRate"`
	AverageExpense decimal.Decimal `json:"averageExpense"`
}

// TrendCache holds computed trend series for a limited time
type TrendCache interface {
	Get(ctx context.Context, key string) (*TrendSeries, bool)
	Set(ctx context.Context, key string, series *TrendSeries, ttl time.Duration)
}

// TrendCacheKey builds the cache key for an owner's trend window
func TrendCacheKey(ownerID uuid.UUID, anchor Period, window int) string {
	return fmt.Sprintf("trend:%s:%s:%d", ownerID, anchor, window)
}
