package advice

import (
	"fmt"
	"strings"

	"github.com/dafibh/salarytrack/salarytrack-backend/internal/domain"
	"github.com/dafibh/salarytrack/salarytrack-backend/internal/util"
	"github.com/shopspring/decimal"
)

func investmentPrompt(balance decimal.Decimal, risk domain.RiskProfile, patterns []domain.CategoryAmount) string {
	var b strings.Builder
	fmt.Fprintf(&b, "User Balance: %s\n", util.FormatCurrency(balance))
	fmt.Fprintf(&b, "Risk Profile: %s\n", risk)
	b.WriteString("Expense Pattern:\n")
	if len(patterns) == 0 {
		b.WriteString("- no expenses recorded\n")
	}
	for _, p := range patterns {
		fmt.Fprintf(&b, "- %s: %s\n", p.Name, util.FormatCurrency(p.Amount))
	}
	b.WriteString("\nGive India-specific, beginner-friendly investment advice.")
	return b.String()
}

func healthPrompt(income, expenses, savingsRate decimal.Decimal) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Monthly Salary: %s\n", util.FormatCurrency(income))
	fmt.Fprintf(&b, "Monthly Expenses: %s\n", util.FormatCurrency(expenses))
	fmt.Fprintf(&b, "Savings Rate: %s%%\n", savingsRate.StringFixed(1))
	b.WriteString("\nGive a financial health score and improvement tips.")
	return b.String()
}
