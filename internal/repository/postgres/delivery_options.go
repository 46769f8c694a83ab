package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/arianbazaar/storefront-api/internal/domain"
	"github.com/arianbazaar/storefront-api/pkg/errors"
)

type deliveryOptionRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewDeliveryOptionRepository creates a new delivery option repository
func NewDeliveryOptionRepository(db *sql.DB, logger *zap.Logger) *deliveryOptionRepository {
	return &deliveryOptionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *deliveryOptionRepository) Create(ctx context.Context, option *domain.DeliveryOption) error {
	query := `
		INSERT INTO delivery_options (id, product_id, label, label_fa, label_ps, price, delivery_hours, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	if option.ID == uuid.Nil {
		option.ID = uuid.New()
	}
	if option.CreatedAt.IsZero() {
		option.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		option.ID,
		option.ProductID,
		option.Label.Base,
		option.Label.Dari,
		option.Label.Pashto,
		option.Price,
		option.DeliveryHours,
		option.CreatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create delivery option", zap.Error(err))
		return err
	}

	return nil
}

func (r *deliveryOptionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM delivery_options WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete delivery option", zap.Error(err))
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return &errors.ErrNotFound{Resource: "delivery option", ID: id.String()}
	}

	return nil
}

func (r *deliveryOptionRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.DeliveryOption, error) {
	query := `
		SELECT id, product_id, label, label_fa, label_ps, price, delivery_hours, created_at
		FROM delivery_options
		WHERE id = $1
	`

	var option domain.DeliveryOption
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&option.ID,
		&option.ProductID,
		&option.Label.Base,
		&option.Label.Dari,
		&option.Label.Pashto,
		&option.Price,
		&option.DeliveryHours,
		&option.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "delivery option", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get delivery option", zap.Error(err))
		return nil, err
	}

	return &option, nil
}

func (r *deliveryOptionRepository) ListByProductID(ctx context.Context, productID uuid.UUID) ([]*domain.DeliveryOption, error) {
	query := `
		SELECT id, product_id, label, label_fa, label_ps, price, delivery_hours, created_at
		FROM delivery_options
		WHERE product_id = $1
		ORDER BY delivery_hours ASC
	`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		r.logger.Error("Failed to list delivery options", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var options []*domain.DeliveryOption
	for rows.Next() {
		var option domain.DeliveryOption
		err := rows.Scan(
			&option.ID,
			&option.ProductID,
			&option.Label.Base,
			&option.Label.Dari,
			&option.Label.Pashto,
			&option.Price,
			&option.DeliveryHours,
			&option.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		options = append(options, &option)
	}

	return options, rows.Err()
}

func (r *deliveryOptionRepository) CountByProductIDs(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]int, error) {
	counts := make(map[uuid.UUID]int, len(productIDs))
	if len(productIDs) == 0 {
		return counts, nil
	}

	query := `
		SELECT product_id, COUNT(*)
		FROM delivery_options
		WHERE product_id = ANY($1)
		GROUP BY product_id
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(productIDs))
	if err != nil {
		r.logger.Error("Failed to count delivery options", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var productID uuid.UUID
		var count int
		if err := rows.Scan(&productID, &count); err != nil {
			return nil, err
		}
		counts[productID] = count
	}

	return counts, rows.Err()
}
