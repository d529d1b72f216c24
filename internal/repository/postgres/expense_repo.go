package postgres

import (
	"context"

	"github.com/dafibh/salarytrack/salarytrack-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ExpenseRepository implements domain.ExpenseRepository using PostgreSQL
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

const expenseSelect = `
	SELECT e.id, e.owner_id, e.name, e.amount, e.category_id, e.expense_date, e.note, e.created_at,
		` + categoryColumns + `
	FROM expenses e
	LEFT JOIN categories c ON c.id = e.category_id`

// ListByPeriod retrieves expenses dated inside a period, newest first
func (r *ExpenseRepository) ListByPeriod(ctx context.Context, ownerID uuid.UUID, period domain.Period) ([]*domain.ExpenseRecord, error) {
	query := expenseSelect + `
	WHERE e.owner_id = $1 AND e.expense_date BETWEEN $2 AND $3
	ORDER BY e.expense_date DESC, e.id DESC`

	return r.list(ctx, query, ownerID, timeToPgDate(period.Start()), timeToPgDate(period.End()))
}

// ListByCategory retrieves expenses of one category inside a period, newest first
func (r *ExpenseRepository) ListByCategory(ctx context.Context, ownerID uuid.UUID, categoryID int32, period domain.Period) ([]*domain.ExpenseRecord, error) {
	query := expenseSelect + `
	WHERE e.owner_id = $1 AND e.category_id = $2 AND e.expense_date BETWEEN $3 AND $4
	ORDER BY e.expense_date DESC, e.id DESC`

	return r.list(ctx, query, ownerID, categoryID, timeToPgDate(period.Start()), timeToPgDate(period.End()))
}

func (r *ExpenseRepository) list(ctx context.Context, query string, args ...any) ([]*domain.ExpenseRecord, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.ExpenseRecord, 0)
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, expense)
	}
	return result, rows.Err()
}

func scanExpense(row pgx.Row) (*domain.ExpenseRecord, error) {
	var (
		expense  domain.ExpenseRecord
		amount   pgtype.Numeric
		date     pgtype.Date
		category joinedCategory
	)
	dest := []any{
		&expense.ID,
		&expense.OwnerID,
		&expense.Name,
		&amount,
		&expense.CategoryID,
		&date,
		&expense.Note,
		&expense.CreatedAt,
	}
	if err := row.Scan(append(dest, category.dest()...)...); err != nil {
		return nil, err
	}

	expense.Amount = pgNumericToDecimal(amount)
	expense.Date = pgDateToTime(date)
	expense.Category = category.toDomain()
	return &expense, nil
}
