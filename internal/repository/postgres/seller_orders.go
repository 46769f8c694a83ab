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

type sellerOrderRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSellerOrderRepository creates a new seller order repository
func NewSellerOrderRepository(db *sql.DB, logger *zap.Logger) *sellerOrderRepository {
	return &sellerOrderRepository{
		db:     db,
		logger: logger,
	}
}

const sellerOrderColumns = `
	id, order_id, seller_id, status, subtotal, currency,
	delivery_charge, rejection_reason, created_at, updated_at
`

func scanSellerOrder(row interface{ Scan(...any) error }) (*domain.SellerOrder, error) {
	var so domain.SellerOrder
	var reason sql.NullString

	err := row.Scan(
		&so.ID,
		&so.OrderID,
		&so.SellerID,
		&so.Status,
		&so.Subtotal,
		&so.Currency,
		&so.DeliveryCharge,
		&reason,
		&so.CreatedAt,
		&so.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	so.RejectionReason = fromNullString(reason)
	return &so, nil
}

func (r *sellerOrderRepository) CreateBatch(ctx context.Context, sellerOrders []*domain.SellerOrder) error {
	if len(sellerOrders) == 0 {
		return nil
	}

	query := `
		INSERT INTO seller_orders (id, order_id, seller_id, status, subtotal, currency,
			delivery_charge, rejection_reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	now := time.Now()
	for _, so := range sellerOrders {
		if so.ID == uuid.Nil {
			so.ID = uuid.New()
		}
		if so.Status == "" {
			so.Status = domain.OrderStatusPending
		}
		if so.CreatedAt.IsZero() {
			so.CreatedAt = now
		}
		if so.UpdatedAt.IsZero() {
			so.UpdatedAt = now
		}

		_, err := r.db.ExecContext(ctx, query,
			so.ID,
			so.OrderID,
			so.SellerID,
			so.Status,
			so.Subtotal,
			so.Currency,
			so.DeliveryCharge,
			strPtr(so.RejectionReason),
			so.CreatedAt,
			so.UpdatedAt,
		)
		if err != nil {
			r.logger.Error("Failed to create seller order", zap.Error(err))
			return err
		}
	}

	return nil
}

func (r *sellerOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SellerOrder, error) {
	query := `SELECT ` + sellerOrderColumns + ` FROM seller_orders WHERE id = $1`

	so, err := scanSellerOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "seller order", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get seller order", zap.Error(err))
		return nil, err
	}

	return so, nil
}

func (r *sellerOrderRepository) ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]*domain.SellerOrder, error) {
	query := `SELECT ` + sellerOrderColumns + ` FROM seller_orders
		WHERE order_id = $1
		ORDER BY created_at ASC`

	return r.list(ctx, query, orderID)
}

func (r *sellerOrderRepository) ListBySellerID(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]*domain.SellerOrder, error) {
	query := `SELECT ` + sellerOrderColumns + ` FROM seller_orders
		WHERE seller_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	return r.list(ctx, query, sellerID, limit, offset)
}

// UpdateStatus transitions a seller order only when its current status
// still matches the expected one; a stale caller loses the race and gets
// ErrInvalidStateTransition instead of clobbering a newer state.
func (r *sellerOrderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.OrderStatus, rejectionReason *string) error {
	query := `
		UPDATE seller_orders
		SET status = $3, rejection_reason = $4, updated_at = $5
		WHERE id = $1 AND status = $2
	`

	result, err := r.db.ExecContext(ctx, query, id, from, to, strPtr(rejectionReason), time.Now())
	if err != nil {
		r.logger.Error("Failed to update seller order status", zap.Error(err))
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return &errors.ErrInvalidStateTransition{From: from, To: to}
	}

	return nil
}

func (r *sellerOrderRepository) list(ctx context.Context, query string, args ...any) ([]*domain.SellerOrder, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list seller orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var sellerOrders []*domain.SellerOrder
	for rows.Next() {
		so, err := scanSellerOrder(rows)
		if err != nil {
			return nil, err
		}
		sellerOrders = append(sellerOrders, so)
	}

	return sellerOrders, rows.Err()
}
