package api

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arianbazaar/storefront-api/internal/api/handlers"
	"github.com/arianbazaar/storefront-api/internal/api/middleware"
	"github.com/arianbazaar/storefront-api/internal/auth"
	"github.com/arianbazaar/storefront-api/internal/config"
	"github.com/arianbazaar/storefront-api/internal/domain"
	"github.com/arianbazaar/storefront-api/internal/repository"
	"github.com/arianbazaar/storefront-api/internal/service"
	"github.com/arianbazaar/storefront-api/pkg/metrics"
)

// NewRouter creates and configures the Gin router
func NewRouter(
	cfg *config.Config,
	repos *repository.Repositories,
	tokens *auth.TokenManager,
	rates service.RateProvider,
	m *metrics.ServerMetrics,
	logger *zap.Logger,
) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(logger))
	router.Use(middleware.MetricsMiddleware(m))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// API v1 routes
	v1 := router.Group("/v1")
	{
		// Public routes
		v1.POST("/auth/register", handlers.HandleRegister(repos, tokens, logger))
		v1.POST("/auth/login", handlers.HandleLogin(repos, tokens, logger))
		v1.GET("/products", handlers.HandleListProducts(repos, logger))
		v1.GET("/products/:id", handlers.HandleGetProduct(repos, logger))
		v1.GET("/products/:id/reviews", handlers.HandleListReviews(repos, logger))
		v1.GET("/categories", handlers.HandleListCategories(repos, logger))
		v1.GET("/blogs", handlers.HandleListBlogs(repos, logger))
		v1.POST("/contact", handlers.HandleSubmitContact(repos, logger))

		// Buyer routes (require authentication)
		buyerRoutes := v1.Group("")
		buyerRoutes.Use(middleware.AuthMiddleware(tokens, logger))
		{
			buyerRoutes.GET("/cart", handlers.HandleGetCart(cfg, repos, rates, logger))
			buyerRoutes.POST("/cart/items", handlers.HandleAddToCart(cfg, repos, rates, logger))
			buyerRoutes.PUT("/cart/items/:id", handlers.HandleUpdateCartItem(cfg, repos, rates, logger))
			buyerRoutes.DELETE("/cart/items/:id", handlers.HandleRemoveCartItem(cfg, repos, rates, logger))
			buyerRoutes.DELETE("/cart", handlers.HandleClearCart(cfg, repos, rates, logger))
			buyerRoutes.POST("/checkout", handlers.HandleCheckout(cfg, repos, rates, logger))
			buyerRoutes.GET("/orders", handlers.HandleListMyOrders(repos, logger))
			buyerRoutes.GET("/orders/:id", handlers.HandleGetOrder(repos, logger))
			buyerRoutes.POST("/products/:id/reviews", handlers.HandleCreateReview(repos, logger))
		}

		// Seller routes
		sellerRoutes := v1.Group("/seller")
		sellerRoutes.Use(middleware.AuthMiddleware(tokens, logger))
		sellerRoutes.Use(middleware.RequireRole(domain.RoleSeller, domain.RoleAdmin))
		{
			sellerRoutes.POST("/products", handlers.HandleCreateProduct(repos, logger))
			sellerRoutes.PUT("/products/:id", handlers.HandleUpdateProduct(repos, logger))
			sellerRoutes.DELETE("/products/:id", handlers.HandleDeleteProduct(repos, logger))
			sellerRoutes.POST("/products/:id/delivery-options", handlers.HandleCreateDeliveryOption(repos, logger))
			sellerRoutes.DELETE("/delivery-options/:id", handlers.HandleDeleteDeliveryOption(repos, logger))
			sellerRoutes.GET("/orders", handlers.HandleListSellerOrders(repos, logger))
			sellerRoutes.POST("/orders/:id/advance", handlers.HandleAdvanceSellerOrder(repos, logger))
			sellerRoutes.POST("/orders/:id/reject", handlers.HandleRejectSellerOrder(repos, logger))
		}

		// Admin routes
		adminRoutes := v1.Group("/admin")
		adminRoutes.Use(middleware.AuthMiddleware(tokens, logger))
		adminRoutes.Use(middleware.RequireRole(domain.RoleAdmin, domain.RoleModerator))
		{
			adminRoutes.GET("/orders", handlers.HandleAdminListOrders(repos, logger))
			adminRoutes.GET("/orders/:id", handlers.HandleAdminGetOrder(repos, logger))
			adminRoutes.POST("/categories", handlers.HandleCreateCategory(repos, logger))
			adminRoutes.PUT("/categories/:id", handlers.HandleUpdateCategory(repos, logger))
			adminRoutes.DELETE("/categories/:id", handlers.HandleDeleteCategory(repos, logger))
			adminRoutes.POST("/categories/:id/subcategories", handlers.HandleCreateSubcategory(repos, logger))
			adminRoutes.DELETE("/subcategories/:id", handlers.HandleDeleteSubcategory(repos, logger))
			adminRoutes.POST("/blogs", handlers.HandleCreateBlog(repos, logger))
			adminRoutes.PUT("/blogs/:id", handlers.HandleUpdateBlog(repos, logger))
			adminRoutes.DELETE("/blogs/:id", handlers.HandleDeleteBlog(repos, logger))
			adminRoutes.GET("/contact-messages", handlers.HandleListContactMessages(repos, logger))
			adminRoutes.POST("/contact-messages/:id/resolve", handlers.HandleResolveContactMessage(repos, logger))
			adminRoutes.DELETE("/reviews/:id", handlers.HandleDeleteReview(repos, logger))
		}
	}

	return router
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", time.Since(start)),
		)
	}
}
