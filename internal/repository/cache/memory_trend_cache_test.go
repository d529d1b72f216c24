package cache

import (
	"context"
	"testing"
	"time"

	"github.com/dafibh/salarytrack/salarytrack-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSeries() *domain.TrendSeries {
	anchor := domain.Period{Year: 2025, Month: 3}
	return &domain.TrendSeries{
		Anchor: anchor,
		Window: 1,
		Points: []domain.TrendPoint{{
			Period:   anchor,
			Label:    anchor.Label(),
			Income:   decimal.NewFromInt(1000),
			Expenses: decimal.NewFromInt(400),
			Savings:  decimal.NewFromInt(600),
		}},
		TotalIncome:   decimal.NewFromInt(1000),
		TotalExpenses: decimal.NewFromInt(400),
		SavingsRate:   decimal.NewFromInt(60),
	}
}

func TestMemoryTrendCache_SetGet(t *testing.T) {
	c, err := NewMemoryTrendCache(100)
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	key := domain.TrendCacheKey(uuid.New(), domain.Period{Year: 2025, Month: 3}, 1)

	_, ok := c.Get(ctx, key)
	assert.False(t, ok)

	c.Set(ctx, key, testSeries(), time.Minute)
	c.Wait()

	got, ok := c.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, 1, got.Window)
	require.Len(t, got.Points, 1)
	assert.True(t, got.Points[0].Savings.Equal(decimal.NewFromInt(600)))
}

func TestMemoryTrendCache_ReturnsCopies(t *testing.T) {
	c, err := NewMemoryTrendCache(100)
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	series := testSeries()
	c.Set(ctx, "k", series, time.Minute)
	c.Wait()

	series.Points[0].Label = "changed by caller"

	got, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "Mar 2025", got.Points[0].Label)

	got.Points[0].Label = "changed by reader"
	again, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "Mar 2025", again.Points[0].Label)
}

func TestMemoryTrendCache_Expires(t *testing.T) {
	c, err := NewMemoryTrendCache(100)
	require.NoError(t, err)
	defer c.Close()

	ctx := context.Background()
	c.Set(ctx, "k", testSeries(), 10*time.Millisecond)
	c.Wait()

	assert.Eventually(t, func() bool {
		_, ok := c.Get(ctx, "k")
		return !ok
	}, 2*time.Second, 20*time.Millisecond)
}

func TestMemoryTrendCache_NilSeriesIgnored(t *testing.T) {
	c, err := NewMemoryTrendCache(0)
	require.NoError(t, err)
	defer c.Close()

	c.Set(context.Background(), "k", nil, time.Minute)
	c.Wait()

	_, ok := c.Get(context.Background(), "k")
	assert.False(t, ok)
}
