// Package metrics turns ledger snapshots into derived numbers.
//
// Every function is pure and total over non-negative amounts: divisions by a
// zero income, budget or day count yield zero instead of failing. Negative
// amounts are rejected before data reaches this package.
package metrics

import (
	"github.com/dafibh/salarytrack/salarytrack-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// Health score floors used by the two kinds of callers
const (
	FallbackHealthFloor = 30
	RecordHealthFloor   = 0
	maxHealthScore      = 100
)

var (
	hundred = decimal.NewFromInt(100)
	two     = decimal.NewFromInt(2)
	forty   = decimal.NewFromInt(40)

	dangerThreshold  = decimal.NewFromInt(90)
	warningThreshold = decimal.NewFromInt(70)
)

// SumExpenses adds up all expense amounts
func SumExpenses(expenses []*domain.ExpenseRecord) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		total = total.Add(e.Amount)
	}
	return total
}

// PeriodExpenseTotal sums the expenses dated inside period
func PeriodExpenseTotal(expenses []*domain.ExpenseRecord, period domain.Period) decimal.Decimal {
	total := decimal.Zero
	for _, e := range expenses {
		if period.Contains(e.Date) {
			total = total.Add(e.Amount)
		}
	}
	return total
}

// Remaining returns income minus expenses; negative means overspent
func Remaining(income, expenses decimal.Decimal) decimal.Decimal {
	return income.Sub(expenses)
}

// SavingsRate returns remaining/income*100, or 0 without income
func SavingsRate(income, expenses decimal.Decimal) decimal.Decimal {
	if !income.IsPositive() {
		return decimal.Zero
	}
	return Remaining(income, expenses).Mul(hundred).Div(income)
}

// PercentChange returns (current-previous)/previous*100, or 0 without a baseline
func PercentChange(current, previous decimal.Decimal) decimal.Decimal {
	if !previous.IsPositive() {
		return decimal.Zero
	}
	return current.Sub(previous).Mul(hundred).Div(previous)
}

// AverageDailySpend divides a period total by the period's day count
func AverageDailySpend(periodTotal decimal.Decimal, daysInPeriod int) decimal.Decimal {
	if daysInPeriod <= 0 {
		return decimal.Zero
	}
	return periodTotal.Div(decimal.NewFromInt(int64(daysInPeriod)))
}

// BudgetAdherence returns the share of the budget not yet spent, in percent
func BudgetAdherence(totalBudget, totalSpent decimal.Decimal) decimal.Decimal {
	if !totalBudget.IsPositive() {
		return decimal.Zero
	}
	return totalBudget.Sub(totalSpent).Mul(hundred).Div(totalBudget)
}

// TotalBudget adds up all budget limits
func TotalBudget(budgets []*domain.BudgetLimit) decimal.Decimal {
	total := decimal.Zero
	for _, b := range budgets {
		total = total.Add(b.Limit)
	}
	return total
}

// CategoryBreakdown groups expenses by category name in first-occurrence order.
// Expenses without a category are summed under domain.UncategorizedLabel.
func CategoryBreakdown(expenses []*domain.ExpenseRecord) []domain.CategoryAmount {
	breakdown := make([]domain.CategoryAmount, 0)
	index := make(map[string]int)
	for _, e := range expenses {
		name := e.CategoryName()
		i, ok := index[name]
		if !ok {
			i = len(breakdown)
			index[name] = i
			breakdown = append(breakdown, domain.CategoryAmount{Name: name, Amount: decimal.Zero})
		}
		breakdown[i].Amount = breakdown[i].Amount.Add(e.Amount)
	}
	return breakdown
}

// BudgetStatus computes spent, remaining and usage percentage for each budget
func BudgetStatus(budgets []*domain.BudgetLimit, expenses []*domain.ExpenseRecord) []domain.BudgetStatus {
	result := make([]domain.BudgetStatus, 0, len(budgets))
	for _, b := range budgets {
		spent := decimal.Zero
		for _, e := range expenses {
			if e.InCategory(b.CategoryID) && b.Period.Contains(e.Date) {
				spent = spent.Add(e.Amount)
			}
		}

		percentage := decimal.Zero
		if b.Limit.IsPositive() {
			percentage = spent.Mul(hundred).Div(b.Limit)
		}

		result = append(result, domain.BudgetStatus{
			CategoryID: b.CategoryID,
			Category:   b.CategoryName(),
			Allocated:  b.Limit,
			Spent:      spent,
			Remaining:  b.Limit.Sub(spent),
			Percentage: percentage,
		})
	}
	return result
}

// HealthScore maps a savings rate to clamp(int(rate*2+40), floor, 100).
// The fractional part is truncated toward zero before clamping.
func HealthScore(savingsRate decimal.Decimal, floor int) int {
	if floor < 0 {
		floor = 0
	}
	if floor > maxHealthScore {
		floor = maxHealthScore
	}

	raw := savingsRate.Mul(two).Add(forty).Truncate(0)
	if raw.LessThan(decimal.NewFromInt(int64(floor))) {
		return floor
	}
	if raw.GreaterThan(decimal.NewFromInt(maxHealthScore)) {
		return maxHealthScore
	}
	return int(raw.IntPart())
}

// AlertLevel classifies a budget usage percentage
func AlertLevel(percentage decimal.Decimal) string {
	switch {
	case percentage.GreaterThanOrEqual(dangerThreshold):
		return domain.AlertDanger
	case percentage.GreaterThanOrEqual(warningThreshold):
		return domain.AlertWarning
	default:
		return domain.AlertSuccess
	}
}
