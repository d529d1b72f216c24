package domain

import "github.com/shopspring/decimal"

// CategoryAmount is the summed spending under one category label
type CategoryAmount struct {
	Name   string          `json:"name"`
	Amount decimal.Decimal `json:"amount"`
}

// BudgetStatus compares one budget limit with what was spent against it
type BudgetStatus struct {
	CategoryID int32           `json:"categoryId"`
	Category   string          `json:"category"`
	Allocated  decimal.Decimal `json:"allocated"`
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"` // negative when overspent
	Percentage decimal.Decimal `json:"percentage"`
}

// PeriodSummary is derived from the ledger and never stored by itself
type PeriodSummary struct {
	Period            Period           `json:"period"`
	TotalIncome       decimal.Decimal  `json:"totalIncome"`
	TotalExpenses     decimal.Decimal  `json:"totalExpenses"`
	Remaining         decimal.Decimal  `json:"remaining"`
	SavingsRate       decimal.Decimal  `json:"savingsRate"`
	CategoryBreakdown []CategoryAmount `json:"categoryBreakdown"`
	BudgetStatus      []BudgetStatus   `json:"budgetStatus"`
}
