package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arianbazaar/storefront-api/internal/api/middleware"
	"github.com/arianbazaar/storefront-api/internal/domain"
	"github.com/arianbazaar/storefront-api/internal/repository"
)

type CreateReviewRequest struct {
	Rating  int    `json:"rating" binding:"required,min=1,max=5"`
	Comment string `json:"comment"`
}

// HandleListReviews handles GET /v1/products/:id/reviews
func HandleListReviews(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
			return
		}

		reviews, err := repos.Reviews.ListByProductID(c.Request.Context(), productID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		responses := make([]gin.H, len(reviews))
		for i, review := range reviews {
			responses[i] = gin.H{
				"id":         review.ID.String(),
				"user_id":    review.UserID.String(),
				"rating":     review.Rating,
				"comment":    review.Comment,
				"created_at": review.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			}
		}

		c.JSON(http.StatusOK, gin.H{"reviews": responses})
	}
}

// HandleCreateReview handles POST /v1/products/:id/reviews
func HandleCreateReview(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := middleware.GetUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		productID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
			return
		}

		var req CreateReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		// confirm the product exists before accepting the review
		if _, err := repos.Products.GetByID(c.Request.Context(), productID); err != nil {
			respondError(c, logger, err)
			return
		}

		review := &domain.Review{
			ID:        uuid.New(),
			ProductID: productID,
			UserID:    userID,
			Rating:    req.Rating,
			Comment:   req.Comment,
		}
		if err := repos.Reviews.Create(c.Request.Context(), review); err != nil {
			logger.Error("failed to create review",
				zap.String("product_id", productID.String()),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create review"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"id": review.ID.String()})
	}
}
