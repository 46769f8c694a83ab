package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arianbazaar/storefront-api/internal/domain"
	"github.com/arianbazaar/storefront-api/pkg/errors"
)

type categoryRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *sql.DB, logger *zap.Logger) *categoryRepository {
	return &categoryRepository{
		db:     db,
		logger: logger,
	}
}

func (r *categoryRepository) Create(ctx context.Context, category *domain.Category) error {
	query := `
		INSERT INTO categories (id, name, name_fa, name_ps, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	if category.ID == uuid.Nil {
		category.ID = uuid.New()
	}
	if category.CreatedAt.IsZero() {
		category.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		category.ID,
		category.Name.Base,
		category.Name.Dari,
		category.Name.Pashto,
		category.CreatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create category", zap.Error(err))
		return err
	}

	return nil
}

func (r *categoryRepository) Update(ctx context.Context, category *domain.Category) error {
	query := `
		UPDATE categories
		SET name = $2, name_fa = $3, name_ps = $4
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query,
		category.ID,
		category.Name.Base,
		category.Name.Dari,
		category.Name.Pashto,
	)

	if err != nil {
		r.logger.Error("Failed to update category", zap.Error(err))
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return &errors.ErrNotFound{Resource: "category", ID: category.ID.String()}
	}

	return nil
}

func (r *categoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete category", zap.Error(err))
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return &errors.ErrNotFound{Resource: "category", ID: id.String()}
	}

	return nil
}

func (r *categoryRepository) List(ctx context.Context) ([]*domain.Category, error) {
	query := `SELECT id, name, name_fa, name_ps, created_at FROM categories ORDER BY name ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list categories", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var categories []*domain.Category
	for rows.Next() {
		var category domain.Category
		err := rows.Scan(
			&category.ID,
			&category.Name.Base,
			&category.Name.Dari,
			&category.Name.Pashto,
			&category.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		categories = append(categories, &category)
	}

	return categories, rows.Err()
}

func (r *categoryRepository) CreateSubcategory(ctx context.Context, sub *domain.Subcategory) error {
	query := `
		INSERT INTO subcategories (id, category_id, name, name_fa, name_ps, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if sub.ID == uuid.Nil {
		sub.ID = uuid.New()
	}
	if sub.CreatedAt.IsZero() {
		sub.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		sub.ID,
		sub.CategoryID,
		sub.Name.Base,
		sub.Name.Dari,
		sub.Name.Pashto,
		sub.CreatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create subcategory", zap.Error(err))
		return err
	}

	return nil
}

func (r *categoryRepository) DeleteSubcategory(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM subcategories WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete subcategory", zap.Error(err))
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return &errors.ErrNotFound{Resource: "subcategory", ID: id.String()}
	}

	return nil
}

func (r *categoryRepository) ListSubcategories(ctx context.Context, categoryID uuid.UUID) ([]*domain.Subcategory, error) {
	query := `
		SELECT id, category_id, name, name_fa, name_ps, created_at
		FROM subcategories
		WHERE category_id = $1
		ORDER BY name ASC
	`

	rows, err := r.db.QueryContext(ctx, query, categoryID)
	if err != nil {
		r.logger.Error("Failed to list subcategories", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var subs []*domain.Subcategory
	for rows.Next() {
		var sub domain.Subcategory
		err := rows.Scan(
			&sub.ID,
			&sub.CategoryID,
			&sub.Name.Base,
			&sub.Name.Dari,
			&sub.Name.Pashto,
			&sub.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		subs = append(subs, &sub)
	}

	return subs, rows.Err()
}
