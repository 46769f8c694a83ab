package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/arianbazaar/storefront-api/internal/i18n"
)

// User represents a storefront account
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	FullName     string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Product represents a seller's listing. Price is denominated in the
// product's own Currency; DeliveryFee is the legacy flat fee in the
// settlement currency, used only when the product has no delivery options.
type Product struct {
	ID             uuid.UUID
	SellerID       uuid.UUID
	CategoryID     *uuid.UUID
	SubcategoryID  *uuid.UUID
	Name           i18n.Text
	Description    i18n.Text
	Price          decimal.Decimal
	CompareAtPrice *decimal.Decimal
	Currency       string
	DeliveryFee    decimal.Decimal
	Stock          int
	Status         ProductStatus
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DeliveryOption belongs to a product. Price is always in the settlement
// currency regardless of the product's own currency.
type DeliveryOption struct {
	ID            uuid.UUID
	ProductID     uuid.UUID
	Label         i18n.Text
	Price         decimal.Decimal
	DeliveryHours int
	CreatedAt     time.Time
}

// CartItem is one buyer-owned line in the cart
type CartItem struct {
	ID                       uuid.UUID
	UserID                   uuid.UUID
	ProductID                uuid.UUID
	Quantity                 int
	SelectedColor            *string
	SelectedSize             *string
	SelectedDeliveryOptionID *uuid.UUID
	CreatedAt                time.Time
	UpdatedAt                time.Time
}

// CartLine is a cart item joined with its product snapshot and, when a
// delivery option was selected, that option
type CartLine struct {
	Item           CartItem
	Product        Product
	DeliveryOption *DeliveryOption
	OptionCount    int
}

// Order is created at checkout; its line items are immutable thereafter.
// Status is derived from the seller sub-orders.
type Order struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	Status          OrderStatus
	DeliveryTotal   decimal.Decimal
	ShippingAddress string
	CustomerName    string
	CustomerPhone   string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderItem is an immutable snapshot of a cart line at checkout time
type OrderItem struct {
	ID             uuid.UUID
	OrderID        uuid.UUID
	SellerOrderID  uuid.UUID
	ProductID      uuid.UUID
	ProductName    string
	UnitPrice      decimal.Decimal
	OriginalPrice  *decimal.Decimal
	Currency       string
	Quantity       int
	SelectedColor  *string
	SelectedSize   *string
	DeliveryCharge *decimal.Decimal
	CreatedAt      time.Time
}

// SellerOrder is the portion of a multi-seller order belonging to one
// seller. Each seller advances or rejects their portion independently.
type SellerOrder struct {
	ID              uuid.UUID
	OrderID         uuid.UUID
	SellerID        uuid.UUID
	Status          OrderStatus
	Subtotal        decimal.Decimal
	Currency        string
	DeliveryCharge  decimal.Decimal
	RejectionReason *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderEvent represents an audit event for an order
type OrderEvent struct {
	ID            uuid.UUID
	OrderID       uuid.UUID
	SellerOrderID *uuid.UUID
	EventType     string
	EventData     map[string]interface{} // JSONB
	CreatedAt     time.Time
}

// Category groups products; Subcategories belong to exactly one category
type Category struct {
	ID        uuid.UUID
	Name      i18n.Text
	CreatedAt time.Time
}

// Subcategory belongs to a category
type Subcategory struct {
	ID         uuid.UUID
	CategoryID uuid.UUID
	Name       i18n.Text
	CreatedAt  time.Time
}

// Review is a buyer's rating of a product
type Review struct {
	ID        uuid.UUID
	ProductID uuid.UUID
	UserID    uuid.UUID
	Rating    int
	Comment   string
	CreatedAt time.Time
}

// Blog is a trilingual article published on the storefront
type Blog struct {
	ID        uuid.UUID
	Title     i18n.Text
	Body      i18n.Text
	Published bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ContactMessage is a message submitted through the public contact form
type ContactMessage struct {
	ID        uuid.UUID
	Name      string
	Email     string
	Message   string
	Resolved  bool
	CreatedAt time.Time
}

// EffectivePrice returns the price the buyer pays: the lower of price and
// compare-at price. The data entry convention in the source catalog put
// the discounted value in either column, so the lower one always wins.
func (p *Product) EffectivePrice() decimal.Decimal {
	if p.CompareAtPrice != nil && p.CompareAtPrice.LessThan(p.Price) {
		return *p.CompareAtPrice
	}
	return p.Price
}

// OriginalPrice returns the struck-through price and true when the
// product is discounted, i.e. compare-at is set and differs from price.
func (p *Product) OriginalPrice() (decimal.Decimal, bool) {
	if p.CompareAtPrice == nil || p.CompareAtPrice.Equal(p.Price) {
		return decimal.Decimal{}, false
	}
	if p.CompareAtPrice.GreaterThan(p.Price) {
		return *p.CompareAtPrice, true
	}
	return p.Price, true
}
