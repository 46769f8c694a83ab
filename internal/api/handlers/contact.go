package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arianbazaar/storefront-api/internal/domain"
	"github.com/arianbazaar/storefront-api/internal/repository"
)

type ContactRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email" binding:"required,email"`
	Message string `json:"message" binding:"required"`
}

// HandleSubmitContact handles POST /v1/contact
func HandleSubmitContact(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ContactRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		msg := &domain.ContactMessage{
			ID:      uuid.New(),
			Name:    req.Name,
			Email:   req.Email,
			Message: req.Message,
		}
		if err := repos.ContactMessages.Create(c.Request.Context(), msg); err != nil {
			logger.Error("failed to store contact message", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to submit message"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"id": msg.ID.String()})
	}
}
