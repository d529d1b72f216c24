package service

import (
	"context"
	"testing"

	"github.com/dafibh/salarytrack/salarytrack-backend/internal/domain"
	"github.com/dafibh/salarytrack/salarytrack-backend/internal/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupDashboardService() (*DashboardService, *testutil.MockIncomeRepository, *testutil.MockExpenseRepository, *testutil.MockBudgetRepository) {
	incomeRepo := testutil.NewMockIncomeRepository()
	expenseRepo := testutil.NewMockExpenseRepository()
	budgetRepo := testutil.NewMockBudgetRepository()
	categoryRepo := testutil.NewMockCategoryRepository()

	return NewDashboardService(incomeRepo, expenseRepo, budgetRepo, categoryRepo), incomeRepo, expenseRepo, budgetRepo
}

func TestDashboardService_GetMetrics(t *testing.T) {
	service, incomeRepo, expenseRepo, budgetRepo := setupDashboardService()

	incomeRepo.AddIncome(&domain.IncomeRecord{OwnerID: testOwner, Period: mar2025, Amount: decimal.NewFromInt(60000)})

	// February: 28 days, 2000 spent
	expenseRepo.AddExpense(&domain.ExpenseRecord{OwnerID: testOwner, Amount: decimal.NewFromInt(2000), Category: foodCategory, Date: date(2025, 2, 14)})

	// March: 31 days, 3100 spent over six expenses
	for day := 1; day <= 6; day++ {
		amount := decimal.NewFromInt(500)
		if day == 6 {
			amount = decimal.NewFromInt(600)
		}
		expenseRepo.AddExpense(&domain.ExpenseRecord{OwnerID: testOwner, Amount: amount, Category: foodCategory, Date: date(2025, 3, day)})
	}

	budgetRepo.AddBudget(&domain.BudgetLimit{OwnerID: testOwner, Category: foodCategory, Period: mar2025, Limit: decimal.NewFromInt(3400)})
	budgetRepo.AddBudget(&domain.BudgetLimit{OwnerID: testOwner, Category: rentCategory, Period: mar2025, Limit: decimal.NewFromInt(10000)})

	metrics, err := service.GetMetrics(context.Background(), testOwner, mar2025)
	require.NoError(t, err)

	assert.Equal(t, "60000.00", metrics.Income.StringFixed(2))
	assert.Equal(t, "3100.00", metrics.CurrentExpenses.StringFixed(2))
	assert.Equal(t, "2000.00", metrics.PreviousExpenses.StringFixed(2))
	assert.Equal(t, "55.00", metrics.ExpenseChange.StringFixed(2))
	assert.Equal(t, "100.00", metrics.AvgDailySpending.StringFixed(2))
	assert.Equal(t, "13400.00", metrics.TotalBudget.StringFixed(2))
	assert.Equal(t, "76.87", metrics.BudgetAdherence.StringFixed(2))
	assert.Equal(t, "56900.00", metrics.Remaining.StringFixed(2))

	require.Len(t, metrics.BudgetAlerts, 2)
	assert.Equal(t, domain.AlertDanger, metrics.BudgetAlerts[0].Alert)
	assert.Equal(t, "91.18", metrics.BudgetAlerts[0].Percentage.StringFixed(2))
	assert.Equal(t, domain.AlertSuccess, metrics.BudgetAlerts[1].Alert)

	require.Len(t, metrics.RecentExpenses, domain.RecentExpenseLimit)
	assert.Equal(t, date(2025, 3, 6), metrics.RecentExpenses[0].Date)
}

func TestDashboardService_GetMetrics_PreviousMonthAcrossYear(t *testing.T) {
	service, _, expenseRepo, _ := setupDashboardService()

	expenseRepo.AddExpense(&domain.ExpenseRecord{OwnerID: testOwner, Amount: decimal.NewFromInt(1000), Date: date(2024, 12, 31)})
	expenseRepo.AddExpense(&domain.ExpenseRecord{OwnerID: testOwner, Amount: decimal.NewFromInt(500), Date: date(2025, 1, 1)})

	metrics, err := service.GetMetrics(context.Background(), testOwner, jan2025)
	require.NoError(t, err)

	assert.Equal(t, "1000.00", metrics.PreviousExpenses.StringFixed(2))
	assert.Equal(t, "-50.00", metrics.ExpenseChange.StringFixed(2))
	assert.True(t, metrics.Income.IsZero())
	assert.Equal(t, "-500.00", metrics.Remaining.StringFixed(2))
	assert.True(t, metrics.BudgetAdherence.IsZero(), "no budget means zero adherence")
	assert.NotNil(t, metrics.BudgetAlerts)
}

func TestDashboardService_GetMetrics_InvalidPeriod(t *testing.T) {
	service, _, _, _ := setupDashboardService()

	_, err := service.GetMetrics(context.Background(), testOwner, domain.Period{Year: 2025, Month: 14})
	assert.ErrorIs(t, err, domain.ErrInvalidPeriod)
}

func TestDashboardService_GetIncomeStats(t *testing.T) {
	service, incomeRepo, _, _ := setupDashboardService()

	// Eight months: 40000 in Jan 2024 rising by 1000 per month
	start := domain.Period{Year: 2024, Month: 1}
	for i := 0; i < 8; i++ {
		incomeRepo.AddIncome(&domain.IncomeRecord{
			OwnerID: testOwner,
			Period:  start.AddMonths(i),
			Amount:  decimal.NewFromInt(int64(40000 + i*1000)),
		})
	}
	incomeRepo.AddIncome(&domain.IncomeRecord{OwnerID: uuid.New(), Period: start, Amount: decimal.NewFromInt(1)})

	stats, err := service.GetIncomeStats(context.Background(), testOwner)
	require.NoError(t, err)

	assert.Equal(t, 8, stats.TotalRecords)
	require.NotNil(t, stats.Current)
	require.NotNil(t, stats.First)
	assert.Equal(t, domain.Period{Year: 2024, Month: 8}, stats.Current.Period)
	assert.Equal(t, start, stats.First.Period)
	// Latest six: 47000 down to 42000
	assert.Equal(t, "44500.00", stats.AverageIncome.StringFixed(2))
	assert.Equal(t, "17.50", stats.GrowthPercentage.StringFixed(2))
}

func TestDashboardService_GetIncomeStats_Empty(t *testing.T) {
	service, _, _, _ := setupDashboardService()

	stats, err := service.GetIncomeStats(context.Background(), testOwner)
	require.NoError(t, err)

	assert.Zero(t, stats.TotalRecords)
	assert.Nil(t, stats.Current)
	assert.True(t, stats.AverageIncome.IsZero())
	assert.True(t, stats.GrowthPercentage.IsZero())
}

func TestDashboardService_GetCategoryExpenses(t *testing.T) {
	service, _, expenseRepo, _ := setupDashboardService()

	expenseRepo.AddExpense(&domain.ExpenseRecord{OwnerID: testOwner, Amount: decimal.NewFromInt(120), Category: foodCategory, Date: date(2025, 1, 3)})
	expenseRepo.AddExpense(&domain.ExpenseRecord{OwnerID: testOwner, Amount: decimal.NewFromInt(80), Category: foodCategory, Date: date(2025, 1, 20)})
	expenseRepo.AddExpense(&domain.ExpenseRecord{OwnerID: testOwner, Amount: decimal.NewFromInt(999), Category: rentCategory, Date: date(2025, 1, 1)})
	expenseRepo.AddExpense(&domain.ExpenseRecord{OwnerID: testOwner, Amount: decimal.NewFromInt(50), Category: foodCategory, Date: date(2025, 2, 1)})

	result, err := service.GetCategoryExpenses(context.Background(), testOwner, jan2025, foodCategory.ID)
	require.NoError(t, err)

	assert.Equal(t, domain.CategoryFoodDining, result.Category.Name)
	assert.Equal(t, "200.00", result.Total.StringFixed(2))
	require.Len(t, result.Expenses, 2)
	assert.Equal(t, date(2025, 1, 20), result.Expenses[0].Date)
}

func TestDashboardService_GetCategoryExpenses_UnknownCategory(t *testing.T) {
	service, _, _, _ := setupDashboardService()

	_, err := service.GetCategoryExpenses(context.Background(), testOwner, jan2025, 999)
	assert.ErrorIs(t, err, domain.ErrUnknownCategory)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
