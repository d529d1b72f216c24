package advice

import (
	"fmt"
	"strings"

	"github.com/dafibh/salarytrack/salarytrack-backend/internal/domain"
	"github.com/dafibh/salarytrack/salarytrack-backend/internal/metrics"
	"github.com/dafibh/salarytrack/salarytrack-backend/internal/util"
	"github.com/shopspring/decimal"
)

// Health status labels
const (
	StatusExcellent        = "Excellent"
	StatusGood             = "Good"
	StatusNeedsImprovement = "Needs Improvement"
)

var (
	lowRiskShare      = decimal.RequireFromString("0.40")
	moderateRiskShare = decimal.RequireFromString("0.35")
	highRiskShare     = decimal.RequireFromString("0.25")
	longHorizonShare  = decimal.RequireFromString("0.50")
)

// InvestmentPlan splits a balance into risk bands, each in whole currency units.
// The bands need not add up to Balance exactly.
type InvestmentPlan struct {
	Balance     decimal.Decimal `json:"balance"`
	Low         decimal.Decimal `json:"low"`
	Moderate    decimal.Decimal `json:"moderate"`
	High        decimal.Decimal `json:"high"`
	LongHorizon decimal.Decimal `json:"longHorizon"`
}

// roundHalfUp rounds a non-negative amount to whole units
func roundHalfUp(d decimal.Decimal) decimal.Decimal {
	return d.Round(0)
}

// PlanInvestment partitions balance 40/35/25 and earmarks half of the low band for PPF
func PlanInvestment(balance decimal.Decimal) InvestmentPlan {
	low := roundHalfUp(balance.Mul(lowRiskShare))
	return InvestmentPlan{
		Balance:     balance,
		Low:         low,
		Moderate:    roundHalfUp(balance.Mul(moderateRiskShare)),
		High:        roundHalfUp(balance.Mul(highRiskShare)),
		LongHorizon: roundHalfUp(low.Mul(longHorizonShare)),
	}
}

type instrumentClass struct {
	title       string
	instruments string
	rationale   string
	returns     string
	horizon     string
}

var (
	lowRiskClass = instrumentClass{
		title:       "Low risk",
		instruments: "PPF, bank fixed deposits, liquid and short-duration debt funds",
		rationale:   "protects capital and keeps an emergency cushion within reach",
		returns:     "6-8% per year",
		horizon:     "1-3 years",
	}
	moderateRiskClass = instrumentClass{
		title:       "Moderate risk",
		instruments: "Nifty 50 index funds, balanced advantage funds",
		rationale:   "tracks the market at low cost with limited single-stock risk",
		returns:     "10-12% per year",
		horizon:     "3-5 years",
	}
	highRiskClass = instrumentClass{
		title:       "High risk",
		instruments: "Equity mutual fund SIPs (mid and small cap), direct equity",
		rationale:   "highest growth potential for money you will not need soon",
		returns:     "12-15% per year",
		horizon:     "5+ years",
	}
)

var investmentTips = []string{
	"Keep six months of expenses as an emergency fund before investing",
	"Automate a monthly SIP on salary day",
	"Use Section 80C instruments (PPF, ELSS) to reduce taxable income",
	"Review and rebalance the allocation once a year",
}

const disclaimer = "Disclaimer: this is generic educational guidance, not personalised financial advice. " +
	"Consult a SEBI-registered investment adviser before investing."

// FallbackInvestment renders the deterministic investment narrative
func FallbackInvestment(balance decimal.Decimal, risk domain.RiskProfile) string {
	plan := PlanInvestment(balance)

	var b strings.Builder
	fmt.Fprintf(&b, "Investment plan for %s\n", util.FormatCurrency(plan.Balance))
	fmt.Fprintf(&b, "Risk profile: %s\n\n", risk)

	writeClass := func(n int, c instrumentClass, amount decimal.Decimal, extra string) {
		fmt.Fprintf(&b, "%d. %s: %s\n", n, c.title, util.FormatCurrency(amount))
		fmt.Fprintf(&b, "   Instruments: %s\n", c.instruments)
		fmt.Fprintf(&b, "   Rationale: %s\n", c.rationale)
		fmt.Fprintf(&b, "   Expected return: %s\n", c.returns)
		fmt.Fprintf(&b, "   Horizon: %s\n", c.horizon)
		if extra != "" {
			fmt.Fprintf(&b, "   %s\n", extra)
		}
	}

	writeClass(1, lowRiskClass, plan.Low,
		fmt.Sprintf("Long-horizon earmark: %s in PPF (15 year lock-in, tax-free returns)", util.FormatCurrency(plan.LongHorizon)))
	writeClass(2, moderateRiskClass, plan.Moderate, "")
	writeClass(3, highRiskClass, plan.High, "")

	b.WriteString("\nGeneral tips:\n")
	for _, tip := range investmentTips {
		fmt.Fprintf(&b, "- %s\n", tip)
	}
	b.WriteString("\n")
	b.WriteString(disclaimer)
	return b.String()
}

// HealthAssessment is the deterministic health verdict for one month
type HealthAssessment struct {
	Income      decimal.Decimal `json:"income"`
	Expenses    decimal.Decimal `json:"expenses"`
	SavingsRate decimal.Decimal `json:"savingsRate"`
	Score       int             `json:"score"`
	Status      string          `json:"status"`
}

// HealthStatus labels a health score
func HealthStatus(score int) string {
	switch {
	case score >= 80:
		return StatusExcellent
	case score >= 60:
		return StatusGood
	default:
		return StatusNeedsImprovement
	}
}

// AssessHealth scores a month using the fallback floor
func AssessHealth(income, expenses decimal.Decimal) HealthAssessment {
	rate := metrics.SavingsRate(income, expenses)
	score := metrics.HealthScore(rate, metrics.FallbackHealthFloor)
	return HealthAssessment{
		Income:      income,
		Expenses:    expenses,
		SavingsRate: rate,
		Score:       score,
		Status:      HealthStatus(score),
	}
}

var healthChecklist = []string{
	"Save at least 20% of income every month",
	"Cut discretionary spending before a category reaches its budget",
	"Build an emergency fund covering six months of expenses",
	"Review subscriptions and recurring bills",
	"Pay off high-interest debt before investing in risky assets",
}

// FallbackHealth renders the deterministic health narrative
func FallbackHealth(income, expenses decimal.Decimal) string {
	h := AssessHealth(income, expenses)

	var b strings.Builder
	fmt.Fprintf(&b, "Financial health score: %d/100 (%s)\n\n", h.Score, h.Status)
	fmt.Fprintf(&b, "Monthly income: %s\n", util.FormatCurrency(h.Income))
	fmt.Fprintf(&b, "Monthly expenses: %s\n", util.FormatCurrency(h.Expenses))
	fmt.Fprintf(&b, "Savings rate: %s%%\n", h.SavingsRate.Round(0).String())
	b.WriteString("\nImprovement checklist:\n")
	for _, item := range healthChecklist {
		fmt.Fprintf(&b, "- %s\n", item)
	}
	return strings.TrimRight(b.String(), "\n")
}
