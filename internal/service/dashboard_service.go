package service

import (
	"context"
	"errors"

	"github.com/dafibh/salarytrack/salarytrack-backend/internal/domain"
	"github.com/dafibh/salarytrack/salarytrack-backend/internal/metrics"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DashboardService handles dashboard-related business logic
type DashboardService struct {
	incomeRepo   domain.IncomeRepository
	expenseRepo  domain.ExpenseRepository
	budgetRepo   domain.BudgetRepository
	categoryRepo domain.CategoryRepository
}

// NewDashboardService creates a new DashboardService
func NewDashboardService(
	incomeRepo domain.IncomeRepository,
	expenseRepo domain.ExpenseRepository,
	budgetRepo domain.BudgetRepository,
	categoryRepo domain.CategoryRepository,
) *DashboardService {
	return &DashboardService{
		incomeRepo:   incomeRepo,
		expenseRepo:  expenseRepo,
		budgetRepo:   budgetRepo,
		categoryRepo: categoryRepo,
	}
}

// GetMetrics returns the dashboard numbers for a period
func (s *DashboardService) GetMetrics(ctx context.Context, ownerID uuid.UUID, period domain.Period) (*domain.DashboardMetrics, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}

	// 1. Income of the period, zero when not recorded
	income := decimal.Zero
	record, err := s.incomeRepo.GetByPeriod(ctx, ownerID, period)
	switch {
	case err == nil:
		income = record.Amount
	case !errors.Is(err, domain.ErrIncomeNotFound):
		return nil, err
	}

	// 2. Expenses of this and the previous calendar month
	current, err := s.expenseRepo.ListByPeriod(ctx, ownerID, period)
	if err != nil {
		return nil, err
	}
	previousPeriod := period.Previous()
	previous, err := s.expenseRepo.ListByPeriod(ctx, ownerID, previousPeriod)
	if err != nil {
		return nil, err
	}

	currentTotal := metrics.PeriodExpenseTotal(current, period)
	previousTotal := metrics.PeriodExpenseTotal(previous, previousPeriod)

	// 3. Budgets and their alert levels
	budgets, err := s.budgetRepo.ListByPeriod(ctx, ownerID, period)
	if err != nil {
		return nil, err
	}
	totalBudget := metrics.TotalBudget(budgets)

	alerts := make([]domain.BudgetAlert, 0, len(budgets))
	for _, status := range metrics.BudgetStatus(budgets, current) {
		status.Percentage = status.Percentage.Round(2)
		alerts = append(alerts, domain.BudgetAlert{
			BudgetStatus: status,
			Alert:        metrics.AlertLevel(status.Percentage),
		})
	}

	recent := current
	if len(recent) > domain.RecentExpenseLimit {
		recent = recent[:domain.RecentExpenseLimit]
	}

	return &domain.DashboardMetrics{
		Period:           period,
		Income:           income,
		CurrentExpenses:  currentTotal,
		PreviousExpenses: previousTotal,
		ExpenseChange:    metrics.PercentChange(currentTotal, previousTotal).Round(2),
		AvgDailySpending: metrics.AverageDailySpend(currentTotal, period.Days()).Round(2),
		TotalBudget:      totalBudget,
		BudgetAdherence:  metrics.BudgetAdherence(totalBudget, currentTotal).Round(2),
		Remaining:        metrics.Remaining(income, currentTotal),
		BudgetAlerts:     alerts,
		RecentExpenses:   recent,
	}, nil
}

// GetIncomeStats summarizes the owner's income history
func (s *DashboardService) GetIncomeStats(ctx context.Context, ownerID uuid.UUID) (*domain.IncomeStats, error) {
	incomes, err := s.incomeRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	stats := &domain.IncomeStats{
		AverageIncome:    decimal.Zero,
		GrowthPercentage: decimal.Zero,
		TotalRecords:     len(incomes),
	}
	if len(incomes) == 0 {
		return stats, nil
	}

	// Records are ordered newest first
	stats.Current = incomes[0]
	stats.First = incomes[len(incomes)-1]

	latest := incomes
	if len(latest) > domain.IncomeStatsWindow {
		latest = latest[:domain.IncomeStatsWindow]
	}
	total := decimal.Zero
	for _, income := range latest {
		total = total.Add(income.Amount)
	}
	stats.AverageIncome = total.Div(decimal.NewFromInt(int64(len(latest)))).Round(2)
	stats.GrowthPercentage = metrics.PercentChange(stats.Current.Amount, stats.First.Amount).Round(2)

	return stats, nil
}

// GetCategoryExpenses lists one category's expenses for a period
func (s *DashboardService) GetCategoryExpenses(ctx context.Context, ownerID uuid.UUID, period domain.Period, categoryID int32) (*domain.CategoryExpenses, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.GetByID(ctx, categoryID)
	if err != nil {
		if errors.Is(err, domain.ErrCategoryNotFound) {
			return nil, domain.ErrUnknownCategory
		}
		return nil, err
	}

	expenses, err := s.expenseRepo.ListByCategory(ctx, ownerID, categoryID, period)
	if err != nil {
		return nil, err
	}

	return &domain.CategoryExpenses{
		Category: category,
		Period:   period,
		Total:    metrics.SumExpenses(expenses),
		Expenses: expenses,
	}, nil
}
