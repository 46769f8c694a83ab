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

type cartRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCartRepository creates a new cart repository
func NewCartRepository(db *sql.DB, logger *zap.Logger) *cartRepository {
	return &cartRepository{
		db:     db,
		logger: logger,
	}
}

const cartColumns = `
	id, user_id, product_id, quantity,
	selected_color, selected_size, selected_delivery_option_id,
	created_at, updated_at
`

func scanCartItem(row interface{ Scan(...any) error }) (*domain.CartItem, error) {
	var item domain.CartItem
	var color, size string
	var deliveryOptionID uuid.NullUUID

	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.ProductID,
		&item.Quantity,
		&color,
		&size,
		&deliveryOptionID,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	item.SelectedColor = variantFromColumn(color)
	item.SelectedSize = variantFromColumn(size)
	if deliveryOptionID.Valid {
		item.SelectedDeliveryOptionID = &deliveryOptionID.UUID
	}

	return &item, nil
}

// Upsert adds a product to the buyer's cart; a line for the same product
// and variant accumulates quantity instead of duplicating. Variants are
// stored as '' not NULL: with nullable arbiter columns Postgres would
// treat every no-variant row as distinct and the conflict would never
// fire.
func (r *cartRepository) Upsert(ctx context.Context, item *domain.CartItem) error {
	query := `
		INSERT INTO cart (id, user_id, product_id, quantity,
			selected_color, selected_size, selected_delivery_option_id,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (user_id, product_id, selected_color, selected_size)
		DO UPDATE SET
			quantity = cart.quantity + EXCLUDED.quantity,
			selected_delivery_option_id = EXCLUDED.selected_delivery_option_id,
			updated_at = EXCLUDED.updated_at
	`

	now := time.Now()
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.UserID,
		item.ProductID,
		item.Quantity,
		variantColumn(item.SelectedColor),
		variantColumn(item.SelectedSize),
		uuidPtr(item.SelectedDeliveryOptionID),
		item.CreatedAt,
		item.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to upsert cart item", zap.Error(err))
		return err
	}

	return nil
}

func (r *cartRepository) UpdateItem(ctx context.Context, item *domain.CartItem) error {
	query := `
		UPDATE cart
		SET quantity = $3, selected_color = $4, selected_size = $5,
			selected_delivery_option_id = $6, updated_at = $7
		WHERE id = $1 AND user_id = $2
	`

	item.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.UserID,
		item.Quantity,
		variantColumn(item.SelectedColor),
		variantColumn(item.SelectedSize),
		uuidPtr(item.SelectedDeliveryOptionID),
		item.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to update cart item", zap.Error(err))
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return &errors.ErrNotFound{Resource: "cart item", ID: item.ID.String()}
	}

	return nil
}

func (r *cartRepository) Remove(ctx context.Context, userID, itemID uuid.UUID) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM cart WHERE id = $1 AND user_id = $2`, itemID, userID)
	if err != nil {
		r.logger.Error("Failed to remove cart item", zap.Error(err))
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return &errors.ErrNotFound{Resource: "cart item", ID: itemID.String()}
	}

	return nil
}

func (r *cartRepository) Clear(ctx context.Context, userID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM cart WHERE user_id = $1`, userID)
	if err != nil {
		r.logger.Error("Failed to clear cart", zap.Error(err))
		return err
	}

	return nil
}

func (r *cartRepository) GetItem(ctx context.Context, userID, itemID uuid.UUID) (*domain.CartItem, error) {
	query := `SELECT ` + cartColumns + ` FROM cart WHERE id = $1 AND user_id = $2`

	item, err := scanCartItem(r.db.QueryRowContext(ctx, query, itemID, userID))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "cart item", ID: itemID.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get cart item", zap.Error(err))
		return nil, err
	}

	return item, nil
}

func (r *cartRepository) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.CartItem, error) {
	query := `SELECT ` + cartColumns + ` FROM cart WHERE user_id = $1 ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to list cart items", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var items []*domain.CartItem
	for rows.Next() {
		item, err := scanCartItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}
