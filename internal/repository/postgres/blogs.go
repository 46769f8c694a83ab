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

type blogRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewBlogRepository creates a new blog repository
func NewBlogRepository(db *sql.DB, logger *zap.Logger) *blogRepository {
	return &blogRepository{
		db:     db,
		logger: logger,
	}
}

const blogColumns = `
	id, title, title_fa, title_ps, body, body_fa, body_ps,
	published, created_at, updated_at
`

func scanBlog(row interface{ Scan(...any) error }) (*domain.Blog, error) {
	var blog domain.Blog
	err := row.Scan(
		&blog.ID,
		&blog.Title.Base,
		&blog.Title.Dari,
		&blog.Title.Pashto,
		&blog.Body.Base,
		&blog.Body.Dari,
		&blog.Body.Pashto,
		&blog.Published,
		&blog.CreatedAt,
		&blog.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &blog, nil
}

func (r *blogRepository) Create(ctx context.Context, blog *domain.Blog) error {
	query := `
		INSERT INTO blogs (id, title, title_fa, title_ps, body, body_fa, body_ps,
			published, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	now := time.Now()
	if blog.ID == uuid.Nil {
		blog.ID = uuid.New()
	}
	if blog.CreatedAt.IsZero() {
		blog.CreatedAt = now
	}
	if blog.UpdatedAt.IsZero() {
		blog.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx, query,
		blog.ID,
		blog.Title.Base,
		blog.Title.Dari,
		blog.Title.Pashto,
		blog.Body.Base,
		blog.Body.Dari,
		blog.Body.Pashto,
		blog.Published,
		blog.CreatedAt,
		blog.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create blog", zap.Error(err))
		return err
	}

	return nil
}

func (r *blogRepository) Update(ctx context.Context, blog *domain.Blog) error {
	query := `
		UPDATE blogs
		SET title = $2, title_fa = $3, title_ps = $4,
			body = $5, body_fa = $6, body_ps = $7,
			published = $8, updated_at = $9
		WHERE id = $1
	`

	blog.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		blog.ID,
		blog.Title.Base,
		blog.Title.Dari,
		blog.Title.Pashto,
		blog.Body.Base,
		blog.Body.Dari,
		blog.Body.Pashto,
		blog.Published,
		blog.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to update blog", zap.Error(err))
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return &errors.ErrNotFound{Resource: "blog", ID: blog.ID.String()}
	}

	return nil
}

func (r *blogRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM blogs WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete blog", zap.Error(err))
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return &errors.ErrNotFound{Resource: "blog", ID: id.String()}
	}

	return nil
}

func (r *blogRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Blog, error) {
	query := `SELECT ` + blogColumns + ` FROM blogs WHERE id = $1`

	blog, err := scanBlog(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "blog", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get blog", zap.Error(err))
		return nil, err
	}

	return blog, nil
}

func (r *blogRepository) List(ctx context.Context, publishedOnly bool, limit, offset int) ([]*domain.Blog, error) {
	query := `SELECT ` + blogColumns + ` FROM blogs`
	if publishedOnly {
		query += ` WHERE published = true`
	}
	query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list blogs", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var blogs []*domain.Blog
	for rows.Next() {
		blog, err := scanBlog(rows)
		if err != nil {
			return nil, err
		}
		blogs = append(blogs, blog)
	}

	return blogs, rows.Err()
}
