package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/arianbazaar/storefront-api/internal/domain"
	"github.com/arianbazaar/storefront-api/internal/repository"
	"github.com/arianbazaar/storefront-api/pkg/errors"
)

type productRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *sql.DB, logger *zap.Logger) *productRepository {
	return &productRepository{
		db:     db,
		logger: logger,
	}
}

const productColumns = `
	id, seller_id, category_id, subcategory_id,
	name, name_fa, name_ps,
	description, description_fa, description_ps,
	price, compare_at_price, currency, delivery_fee,
	stock, status, created_at, updated_at
`

func scanProduct(row interface{ Scan(...any) error }) (*domain.Product, error) {
	var p domain.Product
	var categoryID, subcategoryID uuid.NullUUID
	var compareAt decimal.NullDecimal

	err := row.Scan(
		&p.ID,
		&p.SellerID,
		&categoryID,
		&subcategoryID,
		&p.Name.Base,
		&p.Name.Dari,
		&p.Name.Pashto,
		&p.Description.Base,
		&p.Description.Dari,
		&p.Description.Pashto,
		&p.Price,
		&compareAt,
		&p.Currency,
		&p.DeliveryFee,
		&p.Stock,
		&p.Status,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if categoryID.Valid {
		p.CategoryID = &categoryID.UUID
	}
	if subcategoryID.Valid {
		p.SubcategoryID = &subcategoryID.UUID
	}
	if compareAt.Valid {
		p.CompareAtPrice = &compareAt.Decimal
	}

	return &p, nil
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (
			id, seller_id, category_id, subcategory_id,
			name, name_fa, name_ps,
			description, description_fa, description_ps,
			price, compare_at_price, currency, delivery_fee,
			stock, status, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	now := time.Now()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	if product.UpdatedAt.IsZero() {
		product.UpdatedAt = now
	}
	if product.Status == "" {
		product.Status = domain.ProductStatusActive
	}

	_, err := r.db.ExecContext(ctx, query,
		product.ID,
		product.SellerID,
		uuidPtr(product.CategoryID),
		uuidPtr(product.SubcategoryID),
		product.Name.Base,
		product.Name.Dari,
		product.Name.Pashto,
		product.Description.Base,
		product.Description.Dari,
		product.Description.Pashto,
		product.Price,
		decimalPtr(product.CompareAtPrice),
		product.Currency,
		product.DeliveryFee,
		product.Stock,
		product.Status,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create product", zap.Error(err))
		return err
	}

	return nil
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET category_id = $2, subcategory_id = $3,
			name = $4, name_fa = $5, name_ps = $6,
			description = $7, description_fa = $8, description_ps = $9,
			price = $10, compare_at_price = $11, currency = $12, delivery_fee = $13,
			stock = $14, status = $15, updated_at = $16
		WHERE id = $1
	`

	product.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		product.ID,
		uuidPtr(product.CategoryID),
		uuidPtr(product.SubcategoryID),
		product.Name.Base,
		product.Name.Dari,
		product.Name.Pashto,
		product.Description.Base,
		product.Description.Dari,
		product.Description.Pashto,
		product.Price,
		decimalPtr(product.CompareAtPrice),
		product.Currency,
		product.DeliveryFee,
		product.Stock,
		product.Status,
		product.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to update product", zap.Error(err))
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return &errors.ErrNotFound{Resource: "product", ID: product.ID.String()}
	}

	return nil
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete product", zap.Error(err))
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return &errors.ErrNotFound{Resource: "product", ID: id.String()}
	}

	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "product", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get product by ID", zap.Error(err))
		return nil, err
	}

	return product, nil
}

func (r *productRepository) List(ctx context.Context, filter repository.ProductFilter) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1`
	args := []any{}

	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		query += ` AND category_id = $` + itoa(len(args))
	}
	if filter.SubcategoryID != nil {
		args = append(args, *filter.SubcategoryID)
		query += ` AND subcategory_id = $` + itoa(len(args))
	}
	if filter.SellerID != nil {
		args = append(args, *filter.SellerID)
		query += ` AND seller_id = $` + itoa(len(args))
	}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		query += ` AND status = $` + itoa(len(args))
	}

	query += ` ORDER BY created_at DESC`

	limit := filter.Limit
	if limit < 1 || limit > 100 {
		limit = 50
	}
	args = append(args, limit)
	query += ` LIMIT $` + itoa(len(args))
	args = append(args, filter.Offset)
	query += ` OFFSET $` + itoa(len(args))

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list products", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			r.logger.Error("Failed to scan product", zap.Error(err))
			return nil, err
		}
		products = append(products, product)
	}

	return products, rows.Err()
}

func (r *productRepository) AdjustStock(ctx context.Context, id uuid.UUID, delta int) error {
	query := `
		UPDATE products
		SET stock = stock + $2, updated_at = $3
		WHERE id = $1 AND stock + $2 >= 0
	`

	result, err := r.db.ExecContext(ctx, query, id, delta, time.Now())
	if err != nil {
		r.logger.Error("Failed to adjust stock", zap.Error(err))
		return err
	}

	rows, _ := result.RowsAffected()
	if rows == 0 {
		return &errors.ErrValidation{Field: "stock", Message: "insufficient stock"}
	}

	return nil
}

// ListByIDs fetches products for a set of IDs, keyed by ID
func (r *productRepository) ListByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Product, error) {
	if len(ids) == 0 {
		return map[uuid.UUID]*domain.Product{}, nil
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1)`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		r.logger.Error("Failed to list products by IDs", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	products := make(map[uuid.UUID]*domain.Product, len(ids))
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products[product.ID] = product
	}

	return products, rows.Err()
}
