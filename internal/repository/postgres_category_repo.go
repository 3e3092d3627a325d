package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/ishan/vaahaka/internal/model"
)

// PostgresCategoryRepo is the PostgreSQL category repository.
type PostgresCategoryRepo struct {
	db *sql.DB
}

// NewPostgresCategoryRepo creates a PostgresCategoryRepo.
func NewPostgresCategoryRepo(db *sql.DB) *PostgresCategoryRepo {
	return &PostgresCategoryRepo{db: db}
}

// ListActive returns active categories ordered by name.
func (r *PostgresCategoryRepo) ListActive(ctx context.Context) ([]*model.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, name, description, color, icon, is_active, created_at
		 FROM categories WHERE is_active ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []*model.Category
	for rows.Next() {
		category := &model.Category{}
		if err := rows.Scan(
			&category.ID, &category.Name, &category.Description,
			&category.Color, &category.Icon, &category.IsActive,
			&category.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, category)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	return categories, nil
}

// compile-time interface check
var _ CategoryRepository = (*PostgresCategoryRepo)(nil)
