package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dafibh/salarytrack/salarytrack-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReportRepository implements domain.ReportRepository using PostgreSQL
type ReportRepository struct {
	pool *pgxpool.Pool
}

// NewReportRepository creates a new ReportRepository
func NewReportRepository(pool *pgxpool.Pool) *ReportRepository {
	return &ReportRepository{pool: pool}
}

// GetByPeriod retrieves the stored report for a period
func (r *ReportRepository) GetByPeriod(ctx context.Context, ownerID uuid.UUID, period domain.Period) (*domain.MonthlyReport, error) {
	query := `
		SELECT id, owner_id, year, month, total_income, total_expenses, remaining, savings_rate,
			category_breakdown, budget_status, advice_text, advice_source, generated_at
		FROM monthly_reports
		WHERE owner_id = $1 AND year = $2 AND month = $3`

	var report domain.MonthlyReport
	var income, expenses, remaining, savingsRate pgtype.Numeric
	var breakdownJSON, budgetJSON []byte
	err := r.pool.QueryRow(ctx, query, ownerID, period.Year, period.Month).Scan(
		&report.ID,
		&report.OwnerID,
		&report.Period.Year,
		&report.Period.Month,
		&income,
		&expenses,
		&remaining,
		&savingsRate,
		&breakdownJSON,
		&budgetJSON,
		&report.AdviceText,
		&report.AdviceSource,
		&report.GeneratedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrReportNotFound
		}
		return nil, err
	}

	report.TotalIncome = pgNumericToDecimal(income)
	report.TotalExpenses = pgNumericToDecimal(expenses)
	report.Remaining = pgNumericToDecimal(remaining)
	report.SavingsRate = pgNumericToDecimal(savingsRate)

	if err := json.Unmarshal(breakdownJSON, &report.CategoryBreakdown); err != nil {
		return nil, fmt.Errorf("decode category breakdown: %w", err)
	}
	if err := json.Unmarshal(budgetJSON, &report.BudgetStatus); err != nil {
		return nil, fmt.Errorf("decode budget status: %w", err)
	}
	return &report, nil
}

// Create inserts a report. A second report for the same owner and period
// fails with domain.ErrReportAlreadyExists.
func (r *ReportRepository) Create(ctx context.Context, report *domain.MonthlyReport) (*domain.MonthlyReport, error) {
	income, err := decimalToPgNumeric(report.TotalIncome)
	if err != nil {
		return nil, err
	}
	expenses, err := decimalToPgNumeric(report.TotalExpenses)
	if err != nil {
		return nil, err
	}
	remaining, err := decimalToPgNumeric(report.Remaining)
	if err != nil {
		return nil, err
	}
	savingsRate, err := decimalToPgNumeric(report.SavingsRate)
	if err != nil {
		return nil, err
	}

	breakdown := report.CategoryBreakdown
	if breakdown == nil {
		breakdown = []domain.CategoryAmount{}
	}
	breakdownJSON, err := json.Marshal(breakdown)
	if err != nil {
		return nil, fmt.Errorf("encode category breakdown: %w", err)
	}
	status := report.BudgetStatus
	if status == nil {
		status = []domain.BudgetStatus{}
	}
	budgetJSON, err := json.Marshal(status)
	if err != nil {
		return nil, fmt.Errorf("encode budget status: %w", err)
	}

	query := `
		INSERT INTO monthly_reports (owner_id, year, month, total_income, total_expenses, remaining,
			savings_rate, category_breakdown, budget_status, advice_text, advice_source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, generated_at`

	created := *report
	created.CategoryBreakdown = breakdown
	created.BudgetStatus = status
	err = r.pool.QueryRow(ctx, query,
		report.OwnerID,
		report.Period.Year,
		report.Period.Month,
		income,
		expenses,
		remaining,
		savingsRate,
		breakdownJSON,
		budgetJSON,
		report.AdviceText,
		report.AdviceSource,
	).Scan(&created.ID, &created.GeneratedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domain.ErrReportAlreadyExists
		}
		return nil, err
	}
	return &created, nil
}
