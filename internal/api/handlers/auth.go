package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/arianbazaar/storefront-api/internal/auth"
	"github.com/arianbazaar/storefront-api/internal/domain"
	"github.com/arianbazaar/storefront-api/internal/repository"
	"github.com/arianbazaar/storefront-api/pkg/errors"
)

// RegisterRequest creates a new account. Only buyer and seller accounts
// can self-register; admins are created out of band.
type RegisterRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	FullName string `json:"full_name" binding:"required"`
	Role     string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	Token string      `json:"token"`
	Role  domain.Role `json:"role"`
}

// HandleRegister handles POST /v1/auth/register
func HandleRegister(repos *repository.Repositories, tokens *auth.TokenManager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		role := domain.RoleBuyer
		if req.Role != "" {
			role = domain.Role(req.Role)
			if role != domain.RoleBuyer && role != domain.RoleSeller {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid role"})
				return
			}
		}

		if _, err := repos.Users.GetByEmail(c.Request.Context(), req.Email); err == nil {
			c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 10)
		if err != nil {
			logger.Error("Failed to hash password", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		user := &domain.User{
			Email:        req.Email,
			PasswordHash: string(hash),
			FullName:     req.FullName,
			Role:         role,
			IsActive:     true,
		}
		if err := repos.Users.Create(c.Request.Context(), user); err != nil {
			logger.Error("Failed to create user", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create account"})
			return
		}

		token, err := tokens.Generate(user.ID, user.Role)
		if err != nil {
			logger.Error("Failed to generate token", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusCreated, TokenResponse{Token: token, Role: user.Role})
	}
}

// HandleLogin handles POST /v1/auth/login
func HandleLogin(repos *repository.Repositories, tokens *auth.TokenManager, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		user, err := repos.Users.GetByEmail(c.Request.Context(), req.Email)
		if err != nil {
			if _, ok := err.(*errors.ErrNotFound); ok {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
				return
			}
			respondError(c, logger, err)
			return
		}

		if !user.IsActive {
			c.JSON(http.StatusForbidden, gin.H{"error": "account disabled"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}

		token, err := tokens.Generate(user.ID, user.Role)
		if err != nil {
			logger.Error("Failed to generate token", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, TokenResponse{Token: token, Role: user.Role})
	}
}
