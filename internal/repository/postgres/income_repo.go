package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/dafibh/salarytrack/salarytrack-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// IncomeRepository implements domain.IncomeRepository using PostgreSQL
type IncomeRepository struct {
	pool *pgxpool.Pool
}

// NewIncomeRepository creates a new IncomeRepository
func NewIncomeRepository(pool *pgxpool.Pool) *IncomeRepository {
	return &IncomeRepository{pool: pool}
}

const incomeColumns = `id, owner_id, year, month, amount, currency, created_at, updated_at`

// GetByPeriod retrieves the income recorded for a period
func (r *IncomeRepository) GetByPeriod(ctx context.Context, ownerID uuid.UUID, period domain.Period) (*domain.IncomeRecord, error) {
	query := `SELECT ` + incomeColumns + ` FROM incomes WHERE owner_id = $1 AND year = $2 AND month = $3`

	income, err := scanIncome(r.pool.QueryRow(ctx, query, ownerID, period.Year, period.Month))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrIncomeNotFound
		}
		return nil, err
	}
	return income, nil
}

// ListByOwner retrieves all incomes of an owner, newest period first
func (r *IncomeRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.IncomeRecord, error) {
	query := `SELECT ` + incomeColumns + ` FROM incomes WHERE owner_id = $1 ORDER BY year DESC, month DESC`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.IncomeRecord, 0)
	for rows.Next() {
		income, err := scanIncome(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, income)
	}
	return result, rows.Err()
}

func scanIncome(row pgx.Row) (*domain.IncomeRecord, error) {
	var (
		income    domain.IncomeRecord
		amount    pgtype.Numeric
		createdAt time.Time
		updatedAt time.Time
	)
	err := row.Scan(
		&income.ID,
		&income.OwnerID,
		&income.Period.Year,
		&income.Period.Month,
		&amount,
		&income.Currency,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	income.Amount = pgNumericToDecimal(amount)
	income.CreatedAt = createdAt
	income.UpdatedAt = updatedAt
	if income.Currency == "" {
		income.Currency = domain.DefaultCurrency
	}
	return &income, nil
}
