package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/arianbazaar/storefront-api/internal/domain"
)

// UserRepository persists storefront accounts
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

// ProductRepository persists product listings
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	ListByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]*domain.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*domain.Product, error)
	AdjustStock(ctx context.Context, id uuid.UUID, delta int) error
}

// ProductFilter narrows product listings
type ProductFilter struct {
	CategoryID    *uuid.UUID
	SubcategoryID *uuid.UUID
	SellerID      *uuid.UUID
	Status        *domain.ProductStatus
	Limit         int
	Offset        int
}

// DeliveryOptionRepository persists per-product delivery options
type DeliveryOptionRepository interface {
	Create(ctx context.Context, option *domain.DeliveryOption) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DeliveryOption, error)
	ListByProductID(ctx context.Context, productID uuid.UUID) ([]*domain.DeliveryOption, error)
	CountByProductIDs(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]int, error)
}

// CartRepository persists buyer cart items
type CartRepository interface {
	Upsert(ctx context.Context, item *domain.CartItem) error
	UpdateItem(ctx context.Context, item *domain.CartItem) error
	Remove(ctx context.Context, userID, itemID uuid.UUID) error
	Clear(ctx context.Context, userID uuid.UUID) error
	GetItem(ctx context.Context, userID, itemID uuid.UUID) (*domain.CartItem, error)
	ListByUserID(ctx context.Context, userID uuid.UUID) ([]*domain.CartItem, error)
}

// OrderRepository persists orders
type OrderRepository interface {
	Create(ctx context.Context, order *domain.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus) error
	ListByUserID(ctx context.Context, userID uuid.UUID, limit, offset int) ([]*domain.Order, error)
	ListByStatus(ctx context.Context, status domain.OrderStatus, limit, offset int) ([]*domain.Order, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Order, error)
}

// OrderItemRepository persists immutable order line snapshots
type OrderItemRepository interface {
	CreateBatch(ctx context.Context, items []*domain.OrderItem) error
	ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]*domain.OrderItem, error)
}

// SellerOrderRepository persists per-seller order slices. UpdateStatus is
// conditional on the expected current status so two racing transitions
// cannot both win.
type SellerOrderRepository interface {
	CreateBatch(ctx context.Context, sellerOrders []*domain.SellerOrder) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.SellerOrder, error)
	ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]*domain.SellerOrder, error)
	ListBySellerID(ctx context.Context, sellerID uuid.UUID, limit, offset int) ([]*domain.SellerOrder, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.OrderStatus, rejectionReason *string) error
}

// OrderEventRepository records audit events
type OrderEventRepository interface {
	Create(ctx context.Context, event *domain.OrderEvent) error
	ListByOrderID(ctx context.Context, orderID uuid.UUID) ([]*domain.OrderEvent, error)
}

// CategoryRepository persists categories and subcategories
type CategoryRepository interface {
	Create(ctx context.Context, category *domain.Category) error
	Update(ctx context.Context, category *domain.Category) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]*domain.Category, error)
	CreateSubcategory(ctx context.Context, sub *domain.Subcategory) error
	DeleteSubcategory(ctx context.Context, id uuid.UUID) error
	ListSubcategories(ctx context.Context, categoryID uuid.UUID) ([]*domain.Subcategory, error)
}

// BlogRepository persists storefront articles
type BlogRepository interface {
	Create(ctx context.Context, blog *domain.Blog) error
	Update(ctx context.Context, blog *domain.Blog) error
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Blog, error)
	List(ctx context.Context, publishedOnly bool, limit, offset int) ([]*domain.Blog, error)
}

// ReviewRepository persists product reviews
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	Delete(ctx context.Context, id uuid.UUID) error
	ListByProductID(ctx context.Context, productID uuid.UUID) ([]*domain.Review, error)
}

// ContactMessageRepository persists contact form submissions
type ContactMessageRepository interface {
	Create(ctx context.Context, msg *domain.ContactMessage) error
	List(ctx context.Context, unresolvedOnly bool, limit, offset int) ([]*domain.ContactMessage, error)
	MarkResolved(ctx context.Context, id uuid.UUID) error
}

// Repositories aggregates all repositories
type Repositories struct {
	Users           UserRepository
	Products        ProductRepository
	DeliveryOptions DeliveryOptionRepository
	Cart            CartRepository
	Orders          OrderRepository
	OrderItems      OrderItemRepository
	SellerOrders    SellerOrderRepository
	OrderEvents     OrderEventRepository
	Categories      CategoryRepository
	Blogs           BlogRepository
	Reviews         ReviewRepository
	ContactMessages ContactMessageRepository
}
