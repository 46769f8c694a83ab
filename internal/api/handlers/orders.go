package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/arianbazaar/storefront-api/internal/api/middleware"
	"github.com/arianbazaar/storefront-api/internal/domain"
	"github.com/arianbazaar/storefront-api/internal/repository"
	"github.com/arianbazaar/storefront-api/internal/service"
)

// OrderResponse is the full order response for buyers and admins
type OrderResponse struct {
	ID              string                `json:"id"`
	Status          domain.OrderStatus    `json:"status"`
	DeliveryTotal   decimal.Decimal       `json:"delivery_total"`
	ShippingAddress string                `json:"shipping_address"`
	CustomerName    string                `json:"customer_name"`
	CustomerPhone   string                `json:"customer_phone,omitempty"`
	Items           []OrderItemResponse   `json:"items"`
	SellerOrders    []SellerOrderResponse `json:"seller_orders"`
	CreatedAt       string                `json:"created_at"`
	UpdatedAt       string                `json:"updated_at"`
}

type OrderItemResponse struct {
	ProductID      string           `json:"product_id"`
	ProductName    string           `json:"product_name"`
	UnitPrice      decimal.Decimal  `json:"unit_price"`
	OriginalPrice  *decimal.Decimal `json:"original_price,omitempty"`
	Currency       string           `json:"currency"`
	Quantity       int              `json:"quantity"`
	SelectedColor  *string          `json:"selected_color,omitempty"`
	SelectedSize   *string          `json:"selected_size,omitempty"`
	DeliveryCharge *decimal.Decimal `json:"delivery_charge,omitempty"`
}

type SellerOrderResponse struct {
	ID              string             `json:"id"`
	SellerID        string             `json:"seller_id"`
	Status          domain.OrderStatus `json:"status"`
	Subtotal        decimal.Decimal    `json:"subtotal"`
	Currency        string             `json:"currency"`
	DeliveryCharge  decimal.Decimal    `json:"delivery_charge"`
	RejectionReason *string            `json:"rejection_reason,omitempty"`
}

func buildOrderResponse(view *service.OrderView) OrderResponse {
	resp := OrderResponse{
		ID:              view.Order.ID.String(),
		Status:          view.Order.Status,
		DeliveryTotal:   view.Order.DeliveryTotal,
		ShippingAddress: view.Order.ShippingAddress,
		CustomerName:    view.Order.CustomerName,
		CustomerPhone:   view.Order.CustomerPhone,
		Items:           make([]OrderItemResponse, 0, len(view.Items)),
		SellerOrders:    make([]SellerOrderResponse, 0, len(view.SellerOrders)),
		CreatedAt:       view.Order.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:       view.Order.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}

	for _, item := range view.Items {
		resp.Items = append(resp.Items, OrderItemResponse{
			ProductID:      item.ProductID.String(),
			ProductName:    item.ProductName,
			UnitPrice:      item.UnitPrice,
			OriginalPrice:  item.OriginalPrice,
			Currency:       item.Currency,
			Quantity:       item.Quantity,
			SelectedColor:  item.SelectedColor,
			SelectedSize:   item.SelectedSize,
			DeliveryCharge: item.DeliveryCharge,
		})
	}

	for _, so := range view.SellerOrders {
		resp.SellerOrders = append(resp.SellerOrders, SellerOrderResponse{
			ID:              so.ID.String(),
			SellerID:        so.SellerID.String(),
			Status:          so.Status,
			Subtotal:        so.Subtotal,
			Currency:        so.Currency,
			DeliveryCharge:  so.DeliveryCharge,
			RejectionReason: so.RejectionReason,
		})
	}

	return resp
}

// HandleListMyOrders handles GET /v1/orders
func HandleListMyOrders(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		limit, offset := parsePaging(c)
		orders, err := repos.Orders.ListByUserID(c.Request.Context(), userID, limit, offset)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		orderResponses := make([]gin.H, len(orders))
		for i, order := range orders {
			orderResponses[i] = gin.H{
				"id":             order.ID.String(),
				"status":         order.Status,
				"delivery_total": order.DeliveryTotal,
				"created_at":     order.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
				"updated_at":     order.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"orders": orderResponses,
			"limit":  limit,
			"offset": offset,
		})
	}
}

// HandleGetOrder handles GET /v1/orders/:id
func HandleGetOrder(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
			return
		}

		orders := service.NewOrderService(repos, logger)

		// admins see any order; buyers only their own
		requester := &userID
		if role, _ := middleware.GetRole(c); role == domain.RoleAdmin || role == domain.RoleModerator {
			requester = nil
		}

		view, err := orders.GetOrder(c.Request.Context(), orderID, requester)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, buildOrderResponse(view))
	}
}
