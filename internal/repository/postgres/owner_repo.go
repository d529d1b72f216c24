package postgres

import (
	"context"

	"github.com/dafibh/salarytrack/salarytrack-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// OwnerRepository implements domain.OwnerRepository using PostgreSQL
type OwnerRepository struct {
	pool *pgxpool.Pool
}

// NewOwnerRepository creates a new OwnerRepository
func NewOwnerRepository(pool *pgxpool.Pool) *OwnerRepository {
	return &OwnerRepository{pool: pool}
}

// ListActive returns owners with an income or an expense in the period
func (r *OwnerRepository) ListActive(ctx context.Context, period domain.Period) ([]uuid.UUID, error) {
	query := `
		SELECT owner_id FROM incomes WHERE year = $1 AND month = $2
		UNION
		SELECT owner_id FROM expenses WHERE expense_date BETWEEN $3 AND $4
		ORDER BY owner_id`

	rows, err := r.pool.Query(ctx, query, period.Year, period.Month, timeToPgDate(period.Start()), timeToPgDate(period.End()))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	owners := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		owners = append(owners, id)
	}
	return owners, rows.Err()
}
