package domain

import "github.com/shopspring/decimal"

// Budget alert levels
const (
	AlertDanger  = "danger"
	AlertWarning = "warning"
	AlertSuccess = "success"
)

// BudgetAlert is a budget status with its alert level
type BudgetAlert struct {
	BudgetStatus
	Alert string `json:"alert"`
}

// DashboardMetrics contains the main dashboard numbers for one period
type DashboardMetrics struct {
	Period           Period           `json:"period"`
	Income           decimal.Decimal  `json:"income"`
	CurrentExpenses  decimal.Decimal  `json:"currentExpenses"`
	PreviousExpenses decimal.Decimal  `json:"previousExpenses"`
	ExpenseChange    decimal.Decimal  `json:"expenseChange"`
	AvgDailySpending decimal.Decimal  `json:"avgDailySpending"`
	TotalBudget      decimal.Decimal  `json:"totalBudget"`
	BudgetAdherence  decimal.Decimal  `json:"budgetAdherence"`
	Remaining        decimal.Decimal  `json:"remaining"`
	BudgetAlerts     []BudgetAlert    `json:"budgetAlerts"`
	RecentExpenses   []*ExpenseRecord `json:"recentExpenses"`
}

// RecentExpenseLimit is the number of recent expenses shown on the dashboard
const RecentExpenseLimit = 5

// IncomeStatsWindow is the number of latest records averaged in IncomeStats
const IncomeStatsWindow = 6

// IncomeStats summarizes an owner's income history
type IncomeStats struct {
	Current          *IncomeRecord   `json:"current"`
	First            *IncomeRecord   `json:"first"`
	AverageIncome    decimal.Decimal `json:"averageIncome"`
	GrowthPercentage decimal.Decimal `json:"growthPercentage"`
	TotalRecords     int             `json:"totalRecords"`
}

// CategoryExpenses lists one category's expenses for a period
type CategoryExpenses struct {
	Category *Category        `json:"category"`
	Period   Period           `json:"period"`
	Total    decimal.Decimal  `json:"total"`
	Expenses []*ExpenseRecord `json:"expenses"`
}
