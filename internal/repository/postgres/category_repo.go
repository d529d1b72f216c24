package postgres

import (
	"context"
	"errors"

	"github.com/dafibh/salarytrack/salarytrack-backend/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// CategoryRepository implements domain.CategoryRepository using PostgreSQL
type CategoryRepository struct {
	pool *pgxpool.Pool
}

// NewCategoryRepository creates a new CategoryRepository
func NewCategoryRepository(pool *pgxpool.Pool) *CategoryRepository {
	return &CategoryRepository{pool: pool}
}

// GetAll retrieves every category ordered by name
func (r *CategoryRepository) GetAll(ctx context.Context) ([]*domain.Category, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, color, icon FROM categories ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]*domain.Category, 0)
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Color, &c.Icon); err != nil {
			return nil, err
		}
		result = append(result, &c)
	}
	return result, rows.Err()
}

// GetByID retrieves a category by its ID
func (r *CategoryRepository) GetByID(ctx context.Context, id int32) (*domain.Category, error) {
	var c domain.Category
	err := r.pool.QueryRow(ctx, `SELECT id, name, color, icon FROM categories WHERE id = $1`, id).
		Scan(&c.ID, &c.Name, &c.Color, &c.Icon)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCategoryNotFound
		}
		return nil, err
	}
	return &c, nil
}

func (j joinedCategory) toDomain() *domain.Category {
	if j.ID == nil {
		return nil
	}
	c := &domain.Category{ID: *j.ID}
	if j.Name != nil {
		c.Name = *j.Name
	}
	if j.Color != nil {
		c.Color = *j.Color
	}
	if j.Icon != nil {
		c.Icon = *j.Icon
	}
	return c
}
