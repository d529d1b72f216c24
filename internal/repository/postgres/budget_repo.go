package postgres

import (
	"context"

	"github.com/dafibh/salarytrack/salarytrack-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BudgetRepository implements domain.BudgetRepository using PostgreSQL
type BudgetRepository struct {
	pool *pgxpool.Pool
}

// NewBudgetRepository creates a new BudgetRepository
func NewBudgetRepository(pool *pgxpool.Pool) *BudgetRepository {
	return &BudgetRepository{pool: pool}
}

// ListByPeriod retrieves all budget limits set for a period, ordered by category
func (r *BudgetRepository) ListByPeriod(ctx context.Context, ownerID uuid.UUID, period domain.Period) ([]*domain.BudgetLimit, error) {
	query := `
		SELECT b.id, b.owner_id, b.category_id, b.year, b.month, b.limit_amount, b.created_at,
			` + categoryColumns + `
		FROM budgets b
		LEFT JOIN categories c ON c.id = b.category_id
		WHERE b.owner_id = $1 AND b.year = $2 AND b.month = $3
		ORDER BY c.name, b.id`

	rows, err := r.pool.Query(ctx, query, ownerID, period.Year, period.Month)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.BudgetLimit, 0)
	for rows.Next() {
		var (
			budget   domain.BudgetLimit
			limit    pgtype.Numeric
			category joinedCategory
		)
		dest := []any{
			&budget.ID,
			&budget.OwnerID,
			&budget.CategoryID,
			&budget.Period.Year,
			&budget.Period.Month,
			&limit,
			&budget.CreatedAt,
		}
		if err := rows.Scan(append(dest, category.dest()...)...); err != nil {
			return nil, err
		}

		budget.Limit = pgNumericToDecimal(limit)
		budget.Category = category.toDomain()
		result = append(result, &budget)
	}
	return result, rows.Err()
}
