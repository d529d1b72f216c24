package postgres

import (
	"context"

	"github.com/dafibh/salarytrack/salarytrack-backend/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
)

// AdviceRepository implements domain.AdviceRepository using PostgreSQL
type AdviceRepository struct {
	pool *pgxpool.Pool
}

// NewAdviceRepository creates a new AdviceRepository
func NewAdviceRepository(pool *pgxpool.Pool) *AdviceRepository {
	return &AdviceRepository{pool: pool}
}

// Create appends an advice record
func (r *AdviceRepository) Create(ctx context.Context, record *domain.AdviceRecord) (*domain.AdviceRecord, error) {
	balance, err := decimalToPgNumeric(record.RemainingBalance)
	if err != nil {
		return nil, err
	}

	query := `
		INSERT INTO advice_records (owner_id, remaining_balance, risk_profile, suggestions, health_score, source)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, generated_at`

	created := *record
	err = r.pool.QueryRow(ctx, query,
		record.OwnerID,
		balance,
		string(record.RiskProfile),
		record.Suggestions,
		record.HealthScore,
		record.Source,
	).Scan(&created.ID, &created.GeneratedAt)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// ListRecent retrieves the newest advice records of an owner
func (r *AdviceRepository) ListRecent(ctx context.Context, ownerID uuid.UUID, limit int) ([]*domain.AdviceRecord, error) {
	query := `
		SELECT id, owner_id, remaining_balance, risk_profile, suggestions, health_score, source, generated_at
		FROM advice_records
		WHERE owner_id = $1
		ORDER BY generated_at DESC, id DESC
		LIMIT $2`

	rows, err := r.pool.Query(ctx, query, ownerID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.AdviceRecord, 0)
	for rows.Next() {
		var (
			record  domain.AdviceRecord
			balance pgtype.Numeric
			risk    string
		)
		err := rows.Scan(
			&record.ID,
			&record.OwnerID,
			&balance,
			&risk,
			&record.Suggestions,
			&record.HealthScore,
			&record.Source,
			&record.GeneratedAt,
		)
		if err != nil {
			return nil, err
		}
		record.RemainingBalance = pgNumericToDecimal(balance)
		record.RiskProfile = domain.RiskProfile(risk)
		result = append(result, &record)
	}
	return result, rows.Err()
}
