package postgres

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/arianbazaar/storefront-api/internal/config"
	"github.com/arianbazaar/storefront-api/internal/repository"
)

// NewConnection opens a Postgres connection pool
func NewConnection(cfg config.DatabaseConfig) (*sql.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}

// NewRepositories wires all Postgres-backed repositories
func NewRepositories(db *sql.DB, logger *zap.Logger) *repository.Repositories {
	return &repository.Repositories{
		Users:           NewUserRepository(db, logger),
		Products:        NewProductRepository(db, logger),
		DeliveryOptions: NewDeliveryOptionRepository(db, logger),
		Cart:            NewCartRepository(db, logger),
		Orders:          NewOrderRepository(db, logger),
		OrderItems:      NewOrderItemRepository(db, logger),
		SellerOrders:    NewSellerOrderRepository(db, logger),
		OrderEvents:     NewOrderEventRepository(db, logger),
		Categories:      NewCategoryRepository(db, logger),
		Blogs:           NewBlogRepository(db, logger),
		Reviews:         NewReviewRepository(db, logger),
		ContactMessages: NewContactMessageRepository(db, logger),
	}
}
