package service

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/arianbazaar/storefront-api/internal/domain"
	"github.com/arianbazaar/storefront-api/internal/pricing"
)

// AddToCartRequest adds a product to the buyer's cart
type AddToCartRequest struct {
	ProductID                uuid.UUID  `json:"product_id" binding:"required"`
	Quantity                 int        `json:"quantity" binding:"required,min=1"`
	SelectedColor            *string    `json:"selected_color,omitempty"`
	SelectedSize             *string    `json:"selected_size,omitempty"`
	SelectedDeliveryOptionID *uuid.UUID `json:"selected_delivery_option_id,omitempty"`
}

// UpdateCartItemRequest changes quantity or variant on an existing line
type UpdateCartItemRequest struct {
	Quantity                 int        `json:"quantity" binding:"required,min=1"`
	SelectedColor            *string    `json:"selected_color,omitempty"`
	SelectedSize             *string    `json:"selected_size,omitempty"`
	SelectedDeliveryOptionID *uuid.UUID `json:"selected_delivery_option_id,omitempty"`
}

// CheckoutRequest creates an order from the current cart
type CheckoutRequest struct {
	CustomerName    string `json:"customer_name" binding:"required"`
	CustomerPhone   string `json:"customer_phone"`
	ShippingAddress string `json:"shipping_address" binding:"required"`
}

// CartView is the joined cart plus its aggregation
type CartView struct {
	Lines       []*domain.CartLine
	Aggregation pricing.Result
}

// OrderView is an order joined with its items and seller sub-orders
type OrderView struct {
	Order        *domain.Order
	Items        []*domain.OrderItem
	SellerOrders []*domain.SellerOrder
}

// ProductView is a localized product projection for the storefront
type ProductView struct {
	ID              uuid.UUID        `json:"id"`
	SellerID        uuid.UUID        `json:"seller_id"`
	Name            string           `json:"name"`
	Description     string           `json:"description"`
	EffectivePrice  decimal.Decimal  `json:"effective_price"`
	OriginalPrice   *decimal.Decimal `json:"original_price,omitempty"`
	DiscountPercent int              `json:"discount_percent,omitempty"`
	Currency        string           `json:"currency"`
	Stock           int              `json:"stock"`
	DeliveryOptions []DeliveryOptionView `json:"delivery_options,omitempty"`
}

// DeliveryOptionView is a localized delivery option projection
type DeliveryOptionView struct {
	ID            uuid.UUID       `json:"id"`
	Label         string          `json:"label"`
	Price         decimal.Decimal `json:"price"`
	DeliveryHours int             `json:"delivery_hours"`
}

// CategoryView is a localized category projection
type CategoryView struct {
	ID            uuid.UUID         `json:"id"`
	Name          string            `json:"name"`
	Subcategories []SubcategoryView `json:"subcategories,omitempty"`
}

// SubcategoryView is a localized subcategory projection
type SubcategoryView struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// BlogView is a localized blog projection
type BlogView struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Published bool      `json:"published"`
}
