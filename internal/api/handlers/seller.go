package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arianbazaar/storefront-api/internal/api/middleware"
	"github.com/arianbazaar/storefront-api/internal/repository"
	"github.com/arianbazaar/storefront-api/internal/service"
)

// RejectSellerOrderRequest carries the mandatory rejection reason
type RejectSellerOrderRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// HandleListSellerOrders handles GET /v1/seller/orders
func HandleListSellerOrders(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID, ok := middleware.GetUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		limit, offset := parsePaging(c)

		orders := service.NewOrderService(repos, logger)
		sellerOrders, err := orders.ListSellerOrders(c.Request.Context(), sellerID, limit, offset)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		responses := make([]SellerOrderResponse, 0, len(sellerOrders))
		for _, so := range sellerOrders {
			responses = append(responses, SellerOrderResponse{
				ID:              so.ID.String(),
				SellerID:        so.SellerID.String(),
				Status:          so.Status,
				Subtotal:        so.Subtotal,
				Currency:        so.Currency,
				DeliveryCharge:  so.DeliveryCharge,
				RejectionReason: so.RejectionReason,
			})
		}

		c.JSON(http.StatusOK, gin.H{
			"seller_orders": responses,
			"limit":         limit,
			"offset":        offset,
		})
	}
}

// HandleAdvanceSellerOrder handles POST /v1/seller/orders/:id/advance
func HandleAdvanceSellerOrder(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID, ok := middleware.GetUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		sellerOrderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid seller order ID"})
			return
		}

		orders := service.NewOrderService(repos, logger)
		so, err := orders.AdvanceSellerOrder(c.Request.Context(), sellerOrderID, sellerID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"id":     so.ID.String(),
			"status": so.Status,
		})
	}
}

// HandleRejectSellerOrder handles POST /v1/seller/orders/:id/reject
func HandleRejectSellerOrder(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID, ok := middleware.GetUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		sellerOrderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid seller order ID"})
			return
		}

		var req RejectSellerOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		orders := service.NewOrderService(repos, logger)
		so, err := orders.RejectSellerOrder(c.Request.Context(), sellerOrderID, sellerID, req.Reason)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"id":               so.ID.String(),
			"status":           so.Status,
			"rejection_reason": so.RejectionReason,
		})
	}
}
