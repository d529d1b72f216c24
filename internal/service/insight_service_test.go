package service

import (
	"context"
	"errors"
	"testing"

	"github.com/dafibh/salarytrack/salarytrack-backend/internal/domain"
	"github.com/dafibh/salarytrack/salarytrack-backend/internal/metrics"
	"github.com/dafibh/salarytrack/salarytrack-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type insightFixture struct {
	incomes   *testutil.MockIncomeRepository
	expenses  *testutil.MockExpenseRepository
	advice    *testutil.MockAdviceRepository
	publisher *testutil.MockEventPublisher
	service   *InsightService
}

func setupInsightService(healthFloor int) *insightFixture {
	f := &insightFixture{
		incomes:   testutil.NewMockIncomeRepository(),
		expenses:  testutil.NewMockExpenseRepository(),
		advice:    testutil.NewMockAdviceRepository(),
		publisher: &testutil.MockEventPublisher{},
	}
	f.service = NewInsightService(f.incomes, f.expenses, f.advice, fallbackProvider(), healthFloor)
	f.service.SetEventPublisher(f.publisher)
	return f
}

func TestInsightService_GenerateInsights(t *testing.T) {
	f := setupInsightService(metrics.RecordHealthFloor)
	f.incomes.AddIncome(&domain.IncomeRecord{OwnerID: testOwner, Period: jan2025, Amount: decimal.NewFromInt(50000)})
	f.expenses.AddExpense(&domain.ExpenseRecord{OwnerID: testOwner, Amount: decimal.NewFromInt(35000), Category: rentCategory, Date: date(2025, 1, 2)})

	insight, err := f.service.GenerateInsights(context.Background(), testOwner, jan2025, domain.RiskAggressive)
	require.NoError(t, err)

	assert.Equal(t, "15000.00", insight.RemainingBalance.StringFixed(2))
	assert.Equal(t, domain.RiskAggressive, insight.RiskProfile)
	assert.Contains(t, insight.Investment, "Risk profile: Aggressive")
	assert.Equal(t, domain.AdviceSourceFallback, insight.InvestmentSource)
	assert.Contains(t, insight.Health, "Financial health score: 100/100 (Excellent)")
	assert.Equal(t, 100, insight.HealthScore)

	require.NotNil(t, insight.Record)
	assert.NotZero(t, insight.Record.ID)
	assert.Equal(t, insight.Investment, insight.Record.Suggestions)
	assert.Equal(t, 100, insight.Record.HealthScore)

	events := f.publisher.Published()
	require.Len(t, events, 1)
	assert.Equal(t, "advice.created", events[0].Event.Type)
}

func TestInsightService_GenerateInsights_DefaultsToModerate(t *testing.T) {
	f := setupInsightService(metrics.RecordHealthFloor)

	insight, err := f.service.GenerateInsights(context.Background(), testOwner, jan2025, "")
	require.NoError(t, err)

	assert.Equal(t, domain.RiskModerate, insight.RiskProfile)
	assert.Equal(t, domain.RiskModerate, insight.Record.RiskProfile)
}

func TestInsightService_GenerateInsights_HealthFloor(t *testing.T) {
	tests := []struct {
		name      string
		floor     int
		wantScore int
	}{
		{"record floor", metrics.RecordHealthFloor, 0},
		{"configured floor", 25, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setupInsightService(tt.floor)
			f.incomes.AddIncome(&domain.IncomeRecord{OwnerID: testOwner, Period: jan2025, Amount: decimal.NewFromInt(1000)})
			f.expenses.AddExpense(&domain.ExpenseRecord{OwnerID: testOwner, Amount: decimal.NewFromInt(2000), Date: date(2025, 1, 5)})

			insight, err := f.service.GenerateInsights(context.Background(), testOwner, jan2025, domain.RiskConservative)
			require.NoError(t, err)

			assert.Equal(t, tt.wantScore, insight.Record.HealthScore)
			// The narrative always uses the fallback floor of 30
			assert.Contains(t, insight.Health, "Financial health score: 30/100")
			assert.Equal(t, "-1000.00", insight.Record.RemainingBalance.StringFixed(2))
			assert.Contains(t, insight.Investment, "Investment plan for ₹0.00")
		})
	}
}

func TestInsightService_GenerateInsights_InvalidInput(t *testing.T) {
	f := setupInsightService(metrics.RecordHealthFloor)

	_, err := f.service.GenerateInsights(context.Background(), testOwner, jan2025, "Reckless")
	assert.ErrorIs(t, err, domain.ErrInvalidRiskProfile)

	_, err = f.service.GenerateInsights(context.Background(), testOwner, domain.Period{Year: 2025}, domain.RiskModerate)
	assert.ErrorIs(t, err, domain.ErrInvalidPeriod)

	assert.Empty(t, f.advice.Records)
	assert.Empty(t, f.publisher.Published())
}

func TestInsightService_GenerateInsights_StorageError(t *testing.T) {
	f := setupInsightService(metrics.RecordHealthFloor)
	dbErr := errors.New("insert failed")
	f.advice.CreateFn = func(*domain.AdviceRecord) (*domain.AdviceRecord, error) {
		return nil, dbErr
	}

	_, err := f.service.GenerateInsights(context.Background(), testOwner, jan2025, domain.RiskModerate)
	assert.ErrorIs(t, err, dbErr)
	assert.Empty(t, f.publisher.Published())
}

func TestInsightService_ListRecent(t *testing.T) {
	f := setupInsightService(metrics.RecordHealthFloor)
	other := uuid.New()

	for i := 0; i < 5; i++ {
		_, err := f.advice.Create(context.Background(), &domain.AdviceRecord{
			OwnerID:          testOwner,
			RemainingBalance: decimal.NewFromInt(int64(i)),
			RiskProfile:      domain.RiskModerate,
		})
		require.NoError(t, err)
	}
	_, err := f.advice.Create(context.Background(), &domain.AdviceRecord{OwnerID: other, RiskProfile: domain.RiskModerate})
	require.NoError(t, err)

	records, err := f.service.ListRecent(context.Background(), testOwner)
	require.NoError(t, err)

	require.Len(t, records, domain.RecentAdviceMax)
	assert.Equal(t, "4", records[0].RemainingBalance.String(), "newest first")
	for _, r := range records {
		assert.Equal(t, testOwner, r.OwnerID)
	}
}
