package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/arianbazaar/storefront-api/internal/api/middleware"
	"github.com/arianbazaar/storefront-api/internal/config"
	"github.com/arianbazaar/storefront-api/internal/domain"
	"github.com/arianbazaar/storefront-api/internal/repository"
	"github.com/arianbazaar/storefront-api/internal/service"
)

// CartLineResponse is one line in the cart response
type CartLineResponse struct {
	ID                       string           `json:"id"`
	ProductID                string           `json:"product_id"`
	ProductName              string           `json:"product_name"`
	Quantity                 int              `json:"quantity"`
	SelectedColor            *string          `json:"selected_color,omitempty"`
	SelectedSize             *string          `json:"selected_size,omitempty"`
	SelectedDeliveryOptionID *string          `json:"selected_delivery_option_id,omitempty"`
	EffectivePrice           decimal.Decimal  `json:"effective_price"`
	OriginalPrice            *decimal.Decimal `json:"original_price,omitempty"`
	DiscountPercent          int              `json:"discount_percent,omitempty"`
	Currency                 string           `json:"currency"`
	ItemTotal                decimal.Decimal  `json:"item_total"`
	DeliveryCharge           *decimal.Decimal `json:"delivery_charge,omitempty"`
	DeliveryPending          bool             `json:"delivery_pending,omitempty"`
}

// CartTotalsResponse mirrors a pricing currency group
type CartTotalsResponse struct {
	Currency        string           `json:"currency"`
	ProductSubtotal decimal.Decimal  `json:"product_subtotal"`
	GrandTotal      decimal.Decimal  `json:"grand_total"`
	USDEquivalent   *decimal.Decimal `json:"usd_equivalent,omitempty"`
}

// CartResponse is the full cart with aggregation
type CartResponse struct {
	Lines           []CartLineResponse   `json:"lines"`
	Totals          []CartTotalsResponse `json:"totals"`
	DeliveryTotal   decimal.Decimal      `json:"delivery_total"`
	DeliveryPending bool                 `json:"delivery_pending"`
}

func buildCartResponse(view *service.CartView, lang func(p *domain.Product) string) CartResponse {
	resp := CartResponse{
		Lines:           make([]CartLineResponse, 0, len(view.Lines)),
		Totals:          make([]CartTotalsResponse, 0, len(view.Aggregation.Currencies)),
		DeliveryTotal:   view.Aggregation.DeliveryTotal,
		DeliveryPending: view.Aggregation.DeliveryPending,
	}

	for i, line := range view.Lines {
		bd := view.Aggregation.Lines[i]
		lr := CartLineResponse{
			ID:              line.Item.ID.String(),
			ProductID:       line.Product.ID.String(),
			ProductName:     lang(&line.Product),
			Quantity:        line.Item.Quantity,
			SelectedColor:   line.Item.SelectedColor,
			SelectedSize:    line.Item.SelectedSize,
			EffectivePrice:  bd.EffectivePrice,
			OriginalPrice:   bd.OriginalPrice,
			DiscountPercent: bd.DiscountPercent,
			Currency:        bd.Currency,
			ItemTotal:       bd.ItemTotal,
			DeliveryCharge:  bd.DeliveryCharge,
			DeliveryPending: bd.DeliveryPending,
		}
		if line.Item.SelectedDeliveryOptionID != nil {
			s := line.Item.SelectedDeliveryOptionID.String()
			lr.SelectedDeliveryOptionID = &s
		}
		resp.Lines = append(resp.Lines, lr)
	}

	for _, group := range view.Aggregation.Currencies {
		resp.Totals = append(resp.Totals, CartTotalsResponse{
			Currency:        group.Currency,
			ProductSubtotal: group.ProductSubtotal,
			GrandTotal:      group.GrandTotal,
			USDEquivalent:   group.USDEquivalent,
		})
	}

	return resp
}

// HandleGetCart handles GET /v1/cart
func HandleGetCart(cfg *config.Config, repos *repository.Repositories, rates service.RateProvider, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		carts := service.NewCartService(repos, rates, cfg.Pricing.SettlementCurrency, logger)
		view, err := carts.GetCart(c.Request.Context(), userID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		lang := requestLanguage(c)
		c.JSON(http.StatusOK, buildCartResponse(view, func(p *domain.Product) string {
			return p.Name.In(lang)
		}))
	}
}

// HandleAddToCart handles POST /v1/cart/items
func HandleAddToCart(cfg *config.Config, repos *repository.Repositories, rates service.RateProvider, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req service.AddToCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		carts := service.NewCartService(repos, rates, cfg.Pricing.SettlementCurrency, logger)
		if err := carts.AddItem(c.Request.Context(), userID, req); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{"message": "item added to cart"})
	}
}

// HandleUpdateCartItem handles PUT /v1/cart/items/:id
func HandleUpdateCartItem(cfg *config.Config, repos *repository.Repositories, rates service.RateProvider, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		itemID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cart item ID"})
			return
		}

		var req service.UpdateCartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		carts := service.NewCartService(repos, rates, cfg.Pricing.SettlementCurrency, logger)
		if err := carts.UpdateItem(c.Request.Context(), userID, itemID, req); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "cart item updated"})
	}
}

// HandleRemoveCartItem handles DELETE /v1/cart/items/:id
func HandleRemoveCartItem(cfg *config.Config, repos *repository.Repositories, rates service.RateProvider, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		itemID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid cart item ID"})
			return
		}

		carts := service.NewCartService(repos, rates, cfg.Pricing.SettlementCurrency, logger)
		if err := carts.RemoveItem(c.Request.Context(), userID, itemID); err != nil {
			respondError(c, logger, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

// HandleClearCart handles DELETE /v1/cart
func HandleClearCart(cfg *config.Config, repos *repository.Repositories, rates service.RateProvider, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		carts := service.NewCartService(repos, rates, cfg.Pricing.SettlementCurrency, logger)
		if err := carts.Clear(c.Request.Context(), userID); err != nil {
			respondError(c, logger, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

// HandleCheckout handles POST /v1/checkout
func HandleCheckout(cfg *config.Config, repos *repository.Repositories, rates service.RateProvider, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req service.CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		carts := service.NewCartService(repos, rates, cfg.Pricing.SettlementCurrency, logger)
		view, err := carts.Checkout(c.Request.Context(), userID, req)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusCreated, gin.H{
			"order_id":       view.Order.ID.String(),
			"status":         view.Order.Status,
			"delivery_total": view.Order.DeliveryTotal,
			"seller_orders":  len(view.SellerOrders),
		})
	}
}
