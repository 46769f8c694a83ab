package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/arianbazaar/storefront-api/internal/domain"
	"github.com/arianbazaar/storefront-api/internal/pricing"
	"github.com/arianbazaar/storefront-api/internal/repository"
	"github.com/arianbazaar/storefront-api/pkg/errors"
)

// RateProvider supplies the settlement-currency-per-USD display rate.
// A nil provider, or an error from it, disables the USD display; the
// aggregation itself never depends on the rate.
type RateProvider interface {
	Rate(ctx context.Context) (decimal.Decimal, error)
}

type cartService struct {
	repos              *repository.Repositories
	rates              RateProvider
	settlementCurrency string
	logger             *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(repos *repository.Repositories, rates RateProvider, settlementCurrency string, logger *zap.Logger) *cartService {
	if settlementCurrency == "" {
		settlementCurrency = pricing.DefaultSettlementCurrency
	}
	return &cartService{
		repos:              repos,
		rates:              rates,
		settlementCurrency: settlementCurrency,
		logger:             logger,
	}
}

// AddItem adds a product to the buyer's cart, accumulating quantity when
// the same product and variant is already there
func (s *cartService) AddItem(ctx context.Context, userID uuid.UUID, req AddToCartRequest) error {
	product, err := s.repos.Products.GetByID(ctx, req.ProductID)
	if err != nil {
		return err
	}
	if product.Status != domain.ProductStatusActive {
		return &errors.ErrValidation{Field: "product_id", Message: "product is not active"}
	}
	if product.Stock < req.Quantity {
		return &errors.ErrValidation{Field: "quantity", Message: "insufficient stock"}
	}

	if req.SelectedDeliveryOptionID != nil {
		option, err := s.repos.DeliveryOptions.GetByID(ctx, *req.SelectedDeliveryOptionID)
		if err != nil {
			return err
		}
		if option.ProductID != product.ID {
			return &errors.ErrValidation{Field: "selected_delivery_option_id", Message: "delivery option does not belong to product"}
		}
	}

	item := &domain.CartItem{
		UserID:                   userID,
		ProductID:                req.ProductID,
		Quantity:                 req.Quantity,
		SelectedColor:            req.SelectedColor,
		SelectedSize:             req.SelectedSize,
		SelectedDeliveryOptionID: req.SelectedDeliveryOptionID,
	}

	return s.repos.Cart.Upsert(ctx, item)
}

// UpdateItem changes quantity or variant on an existing cart line
func (s *cartService) UpdateItem(ctx context.Context, userID, itemID uuid.UUID, req UpdateCartItemRequest) error {
	item, err := s.repos.Cart.GetItem(ctx, userID, itemID)
	if err != nil {
		return err
	}

	if req.SelectedDeliveryOptionID != nil {
		option, err := s.repos.DeliveryOptions.GetByID(ctx, *req.SelectedDeliveryOptionID)
		if err != nil {
			return err
		}
		if option.ProductID != item.ProductID {
			return &errors.ErrValidation{Field: "selected_delivery_option_id", Message: "delivery option does not belong to product"}
		}
	}

	item.Quantity = req.Quantity
	item.SelectedColor = req.SelectedColor
	item.SelectedSize = req.SelectedSize
	item.SelectedDeliveryOptionID = req.SelectedDeliveryOptionID

	return s.repos.Cart.UpdateItem(ctx, item)
}

// RemoveItem deletes one cart line
func (s *cartService) RemoveItem(ctx context.Context, userID, itemID uuid.UUID) error {
	return s.repos.Cart.Remove(ctx, userID, itemID)
}

// Clear empties the buyer's cart
func (s *cartService) Clear(ctx context.Context, userID uuid.UUID) error {
	return s.repos.Cart.Clear(ctx, userID)
}

// GetCart loads the joined cart and aggregates it
func (s *cartService) GetCart(ctx context.Context, userID uuid.UUID) (*CartView, error) {
	lines, err := s.loadLines(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &CartView{
		Lines:       lines,
		Aggregation: s.aggregate(ctx, lines),
	}, nil
}

// Checkout turns the cart into an order with per-seller sub-orders and
// clears the cart. Every line must have its delivery resolved first.
func (s *cartService) Checkout(ctx context.Context, userID uuid.UUID, req CheckoutRequest) (*OrderView, error) {
	lines, err := s.loadLines(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, &errors.ErrValidation{Field: "cart", Message: "cart is empty"}
	}

	agg := s.aggregate(ctx, lines)
	if agg.DeliveryPending {
		return nil, &errors.ErrValidation{Field: "delivery", Message: "delivery option not selected for all items"}
	}

	order := &domain.Order{
		UserID:          userID,
		Status:          domain.OrderStatusPending,
		DeliveryTotal:   agg.DeliveryTotal,
		ShippingAddress: req.ShippingAddress,
		CustomerName:    req.CustomerName,
		CustomerPhone:   req.CustomerPhone,
	}
	if err := s.repos.Orders.Create(ctx, order); err != nil {
		return nil, err
	}

	// One sub-order per seller per currency, mirroring the aggregation
	// groups the seller settles in.
	type sellerKey struct {
		seller   uuid.UUID
		currency string
	}
	sellerOrders := make(map[sellerKey]*domain.SellerOrder)
	for _, group := range agg.Currencies {
		for _, sg := range group.Sellers {
			key := sellerKey{seller: sg.SellerID, currency: group.Currency}
			sellerOrders[key] = &domain.SellerOrder{
				ID:             uuid.New(),
				OrderID:        order.ID,
				SellerID:       sg.SellerID,
				Status:         domain.OrderStatusPending,
				Subtotal:       sg.ProductSubtotal,
				Currency:       group.Currency,
				DeliveryCharge: sg.DeliveryCharge,
			}
		}
	}

	batch := make([]*domain.SellerOrder, 0, len(sellerOrders))
	for _, so := range sellerOrders {
		batch = append(batch, so)
	}
	if err := s.repos.SellerOrders.CreateBatch(ctx, batch); err != nil {
		return nil, err
	}

	items := make([]*domain.OrderItem, 0, len(lines))
	for i, line := range lines {
		bd := agg.Lines[i]
		key := sellerKey{seller: line.Product.SellerID, currency: line.Product.Currency}
		so := sellerOrders[key]

		item := &domain.OrderItem{
			OrderID:        order.ID,
			SellerOrderID:  so.ID,
			ProductID:      line.Product.ID,
			ProductName:    line.Product.Name.Base,
			UnitPrice:      bd.EffectivePrice,
			OriginalPrice:  bd.OriginalPrice,
			Currency:       line.Product.Currency,
			Quantity:       line.Item.Quantity,
			SelectedColor:  line.Item.SelectedColor,
			SelectedSize:   line.Item.SelectedSize,
			DeliveryCharge: bd.DeliveryCharge,
		}
		items = append(items, item)
	}
	if err := s.repos.OrderItems.CreateBatch(ctx, items); err != nil {
		return nil, err
	}

	for _, line := range lines {
		if err := s.repos.Products.AdjustStock(ctx, line.Product.ID, -line.Item.Quantity); err != nil {
			s.logger.Warn("Failed to adjust stock at checkout",
				zap.String("product_id", line.Product.ID.String()),
				zap.Error(err))
		}
	}

	if err := s.repos.Cart.Clear(ctx, userID); err != nil {
		s.logger.Warn("Failed to clear cart after checkout", zap.Error(err))
	}

	event := &domain.OrderEvent{
		OrderID:   order.ID,
		EventType: "order_created",
		EventData: map[string]interface{}{
			"user_id":      userID.String(),
			"status":       order.Status,
			"seller_count": len(batch),
		},
	}
	if err := s.repos.OrderEvents.Create(ctx, event); err != nil {
		s.logger.Warn("Failed to record order event", zap.Error(err))
	}

	return &OrderView{
		Order:        order,
		Items:        items,
		SellerOrders: batch,
	}, nil
}

func (s *cartService) loadLines(ctx context.Context, userID uuid.UUID) ([]*domain.CartLine, error) {
	items, err := s.repos.Cart.ListByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	productIDs := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		productIDs = append(productIDs, item.ProductID)
	}

	products, err := s.repos.Products.ListByIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	optionCounts, err := s.repos.DeliveryOptions.CountByProductIDs(ctx, productIDs)
	if err != nil {
		return nil, err
	}

	lines := make([]*domain.CartLine, 0, len(items))
	for _, item := range items {
		product, ok := products[item.ProductID]
		if !ok {
			// product was removed while sitting in the cart
			s.logger.Warn("Cart references missing product",
				zap.String("product_id", item.ProductID.String()))
			continue
		}

		line := &domain.CartLine{
			Item:        *item,
			Product:     *product,
			OptionCount: optionCounts[item.ProductID],
		}

		if item.SelectedDeliveryOptionID != nil {
			option, err := s.repos.DeliveryOptions.GetByID(ctx, *item.SelectedDeliveryOptionID)
			if err == nil {
				line.DeliveryOption = option
			} else if _, ok := err.(*errors.ErrNotFound); !ok {
				return nil, err
			}
		}

		lines = append(lines, line)
	}

	return lines, nil
}

func (s *cartService) aggregate(ctx context.Context, lines []*domain.CartLine) pricing.Result {
	priced := make([]pricing.Line, 0, len(lines))
	for _, line := range lines {
		pl := pricing.Line{
			ProductID:          line.Product.ID,
			SellerID:           line.Product.SellerID,
			Quantity:           line.Item.Quantity,
			UnitPrice:          line.Product.Price,
			CompareAtPrice:     line.Product.CompareAtPrice,
			Currency:           line.Product.Currency,
			LegacyDeliveryFee:  line.Product.DeliveryFee,
			HasDeliveryOptions: line.OptionCount > 0,
		}
		if line.DeliveryOption != nil {
			price := line.DeliveryOption.Price
			pl.SelectedDeliveryPrice = &price
		}
		priced = append(priced, pl)
	}

	opts := pricing.Options{SettlementCurrency: s.settlementCurrency}
	if s.rates != nil {
		if rate, err := s.rates.Rate(ctx); err != nil {
			s.logger.Warn("Failed to fetch conversion rate", zap.Error(err))
		} else if rate.IsPositive() {
			opts.USDRate = &rate
		}
	}

	return pricing.Aggregate(priced, opts)
}
