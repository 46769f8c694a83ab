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

type contactMessageRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewContactMessageRepository creates a new contact message repository
func NewContactMessageRepository(db *sql.DB, logger *zap.Logger) *contactMessageRepository {
	return &contactMessageRepository{
		db:     db,
		logger: logger,
	}
}

func (r *contactMessageRepository) Create(ctx context.Context, msg *domain.ContactMessage) error {
	query := `
		INSERT INTO contact_messages (id, name, email, message, resolved, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	if msg.ID == uuid.Nil {
		msg.ID = uuid.New()
	}
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		msg.ID,
		msg.Name,
		msg.Email,
		msg.Message,
		msg.Resolved,
		msg.CreatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create contact message", zap.Error(err))
		return err
	}

	return nil
}

func (r *contactMessageRepository) List(ctx context.Context, unresolvedOnly bool, limit, offset int) ([]*domain.ContactMessage, error) {
	query := `
		SELECT id, name, email, message, resolved, created_at
		FROM contact_messages
	`
	if unresolvedOnly {
		query += ` WHERE resolved = false`
	}
	query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list contact messages", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var messages []*domain.ContactMessage
	for rows.Next() {
		var msg domain.ContactMessage
		err := rows.Scan(
			&msg.ID,
			&msg.Name,
			&msg.Email,
			&msg.Message,
			&msg.Resolved,
			&msg.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		messages = append(messages, &msg)
	}

	return messages, rows.Err()
}

func (r *contactMessageRepository) MarkResolved(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE contact_messages SET resolved = true WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to resolve contact message", zap.Error(err))
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return &errors.ErrNotFound{Resource: "contact message", ID: id.String()}
	}

	return nil
}
