package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/arianbazaar/storefront-api/internal/api/middleware"
	"github.com/arianbazaar/storefront-api/internal/domain"
	"github.com/arianbazaar/storefront-api/internal/i18n"
	"github.com/arianbazaar/storefront-api/internal/repository"
	"github.com/arianbazaar/storefront-api/internal/service"
)

// ProductRequest is the create/update payload for product listings.
// Name is the English value; name_fa and name_ps are optional translations.
type ProductRequest struct {
	Name           string           `json:"name" binding:"required"`
	NameDari       string           `json:"name_fa"`
	NamePashto     string           `json:"name_ps"`
	Description    string           `json:"description"`
	DescDari       string           `json:"description_fa"`
	DescPashto     string           `json:"description_ps"`
	Price          decimal.Decimal  `json:"price" binding:"required"`
	CompareAtPrice *decimal.Decimal `json:"compare_at_price"`
	Currency       string           `json:"currency" binding:"required"`
	DeliveryFee    decimal.Decimal  `json:"delivery_fee"`
	Stock          int              `json:"stock"`
	Status         string           `json:"status"`
	CategoryID     *string          `json:"category_id"`
	SubcategoryID  *string          `json:"subcategory_id"`
}

type DeliveryOptionRequest struct {
	Label         string          `json:"label" binding:"required"`
	LabelDari     string          `json:"label_fa"`
	LabelPashto   string          `json:"label_ps"`
	Price         decimal.Decimal `json:"price"`
	DeliveryHours int             `json:"delivery_hours" binding:"required"`
}

type CategoryRequest struct {
	Name       string `json:"name" binding:"required"`
	NameDari   string `json:"name_fa"`
	NamePashto string `json:"name_ps"`
}

type BlogRequest struct {
	Title       string `json:"title" binding:"required"`
	TitleDari   string `json:"title_fa"`
	TitlePashto string `json:"title_ps"`
	Body        string `json:"body" binding:"required"`
	BodyDari    string `json:"body_fa"`
	BodyPashto  string `json:"body_ps"`
	Published   bool   `json:"published"`
}

func (r *ProductRequest) apply(product *domain.Product) error {
	product.Name = i18n.Text{Base: r.Name, Dari: r.NameDari, Pashto: r.NamePashto}
	product.Description = i18n.Text{Base: r.Description, Dari: r.DescDari, Pashto: r.DescPashto}
	product.Price = r.Price
	product.CompareAtPrice = r.CompareAtPrice
	product.Currency = r.Currency
	product.DeliveryFee = r.DeliveryFee
	product.Stock = r.Stock

	if r.Price.IsNegative() || (r.CompareAtPrice != nil && r.CompareAtPrice.IsNegative()) {
		return errNegativePrice
	}
	if r.Stock < 0 {
		return errNegativeStock
	}

	if r.Status != "" {
		status := domain.ProductStatus(r.Status)
		if !status.IsValid() {
			return errBadProductStatus
		}
		product.Status = status
	} else if product.Status == "" {
		product.Status = domain.ProductStatusActive
	}

	if r.CategoryID != nil {
		id, err := uuid.Parse(*r.CategoryID)
		if err != nil {
			return errBadCategoryID
		}
		product.CategoryID = &id
	} else {
		product.CategoryID = nil
	}
	if r.SubcategoryID != nil {
		id, err := uuid.Parse(*r.SubcategoryID)
		if err != nil {
			return errBadCategoryID
		}
		product.SubcategoryID = &id
	} else {
		product.SubcategoryID = nil
	}
	return nil
}

var (
	errNegativePrice    = &badRequestError{"price must not be negative"}
	errNegativeStock    = &badRequestError{"stock must not be negative"}
	errBadProductStatus = &badRequestError{"status must be active or inactive"}
	errBadCategoryID    = &badRequestError{"invalid category ID"}
)

type badRequestError struct{ msg string }

func (e *badRequestError) Error() string { return e.msg }

// canManageProduct reports whether the caller may modify the given
// product: admins always, sellers only their own listings.
func canManageProduct(c *gin.Context, product *domain.Product) bool {
	role, _ := middleware.GetRole(c)
	if role == domain.RoleAdmin {
		return true
	}
	userID, ok := middleware.GetUserID(c)
	return ok && product.SellerID == userID
}

// HandleCreateProduct handles POST /v1/seller/products
func HandleCreateProduct(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sellerID, ok := middleware.GetUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		var req ProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		product := &domain.Product{
			ID:       uuid.New(),
			SellerID: sellerID,
		}
		if err := req.apply(product); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := repos.Products.Create(c.Request.Context(), product); err != nil {
			logger.Error("failed to create product", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create product"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"id": product.ID.String()})
	}
}

// HandleUpdateProduct handles PUT /v1/seller/products/:id
func HandleUpdateProduct(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
			return
		}

		var req ProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		product, err := repos.Products.GetByID(c.Request.Context(), productID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		if !canManageProduct(c, product) {
			c.JSON(http.StatusForbidden, gin.H{"error": "not your product"})
			return
		}

		if err := req.apply(product); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if err := repos.Products.Update(c.Request.Context(), product); err != nil {
			logger.Error("failed to update product",
				zap.String("product_id", productID.String()),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update product"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"id": product.ID.String()})
	}
}

// HandleDeleteProduct handles DELETE /v1/seller/products/:id
func HandleDeleteProduct(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
			return
		}

		product, err := repos.Products.GetByID(c.Request.Context(), productID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		if !canManageProduct(c, product) {
			c.JSON(http.StatusForbidden, gin.H{"error": "not your product"})
			return
		}

		if err := repos.Products.Delete(c.Request.Context(), productID); err != nil {
			respondError(c, logger, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

// HandleCreateDeliveryOption handles POST /v1/seller/products/:id/delivery-options
func HandleCreateDeliveryOption(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
			return
		}

		var req DeliveryOptionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}
		if req.Price.IsNegative() {
			c.JSON(http.StatusBadRequest, gin.H{"error": "price must not be negative"})
			return
		}
		if req.DeliveryHours <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "delivery_hours must be positive"})
			return
		}

		product, err := repos.Products.GetByID(c.Request.Context(), productID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		if !canManageProduct(c, product) {
			c.JSON(http.StatusForbidden, gin.H{"error": "not your product"})
			return
		}

		option := &domain.DeliveryOption{
			ID:            uuid.New(),
			ProductID:     productID,
			Label:         i18n.Text{Base: req.Label, Dari: req.LabelDari, Pashto: req.LabelPashto},
			Price:         req.Price,
			DeliveryHours: req.DeliveryHours,
		}
		if err := repos.DeliveryOptions.Create(c.Request.Context(), option); err != nil {
			logger.Error("failed to create delivery option",
				zap.String("product_id", productID.String()),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create delivery option"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"id": option.ID.String()})
	}
}

// HandleDeleteDeliveryOption handles DELETE /v1/seller/delivery-options/:id
func HandleDeleteDeliveryOption(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		optionID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid delivery option ID"})
			return
		}

		option, err := repos.DeliveryOptions.GetByID(c.Request.Context(), optionID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		product, err := repos.Products.GetByID(c.Request.Context(), option.ProductID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		if !canManageProduct(c, product) {
			c.JSON(http.StatusForbidden, gin.H{"error": "not your product"})
			return
		}

		if err := repos.DeliveryOptions.Delete(c.Request.Context(), optionID); err != nil {
			respondError(c, logger, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

// HandleCreateCategory handles POST /v1/admin/categories
func HandleCreateCategory(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		category := &domain.Category{
			ID:   uuid.New(),
			Name: i18n.Text{Base: req.Name, Dari: req.NameDari, Pashto: req.NamePashto},
		}
		if err := repos.Categories.Create(c.Request.Context(), category); err != nil {
			logger.Error("failed to create category", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create category"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"id": category.ID.String()})
	}
}

// HandleUpdateCategory handles PUT /v1/admin/categories/:id
func HandleUpdateCategory(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		categoryID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category ID"})
			return
		}

		var req CategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		category := &domain.Category{
			ID:   categoryID,
			Name: i18n.Text{Base: req.Name, Dari: req.NameDari, Pashto: req.NamePashto},
		}
		if err := repos.Categories.Update(c.Request.Context(), category); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"id": categoryID.String()})
	}
}

// HandleDeleteCategory handles DELETE /v1/admin/categories/:id
func HandleDeleteCategory(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		categoryID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category ID"})
			return
		}

		if err := repos.Categories.Delete(c.Request.Context(), categoryID); err != nil {
			respondError(c, logger, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

// HandleCreateSubcategory handles POST /v1/admin/categories/:id/subcategories
func HandleCreateSubcategory(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		categoryID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category ID"})
			return
		}

		var req CategoryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		sub := &domain.Subcategory{
			ID:         uuid.New(),
			CategoryID: categoryID,
			Name:       i18n.Text{Base: req.Name, Dari: req.NameDari, Pashto: req.NamePashto},
		}
		if err := repos.Categories.CreateSubcategory(c.Request.Context(), sub); err != nil {
			logger.Error("failed to create subcategory",
				zap.String("category_id", categoryID.String()),
				zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create subcategory"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"id": sub.ID.String()})
	}
}

// HandleDeleteSubcategory handles DELETE /v1/admin/subcategories/:id
func HandleDeleteSubcategory(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		subID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subcategory ID"})
			return
		}

		if err := repos.Categories.DeleteSubcategory(c.Request.Context(), subID); err != nil {
			respondError(c, logger, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

// HandleCreateBlog handles POST /v1/admin/blogs
func HandleCreateBlog(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req BlogRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		blog := &domain.Blog{
			ID:        uuid.New(),
			Title:     i18n.Text{Base: req.Title, Dari: req.TitleDari, Pashto: req.TitlePashto},
			Body:      i18n.Text{Base: req.Body, Dari: req.BodyDari, Pashto: req.BodyPashto},
			Published: req.Published,
		}
		if err := repos.Blogs.Create(c.Request.Context(), blog); err != nil {
			logger.Error("failed to create blog", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create blog"})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"id": blog.ID.String()})
	}
}

// HandleUpdateBlog handles PUT /v1/admin/blogs/:id
func HandleUpdateBlog(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		blogID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid blog ID"})
			return
		}

		var req BlogRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"error":   "validation failed",
				"details": err.Error(),
			})
			return
		}

		blog, err := repos.Blogs.GetByID(c.Request.Context(), blogID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		blog.Title = i18n.Text{Base: req.Title, Dari: req.TitleDari, Pashto: req.TitlePashto}
		blog.Body = i18n.Text{Base: req.Body, Dari: req.BodyDari, Pashto: req.BodyPashto}
		blog.Published = req.Published

		if err := repos.Blogs.Update(c.Request.Context(), blog); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"id": blogID.String()})
	}
}

// HandleDeleteBlog handles DELETE /v1/admin/blogs/:id
func HandleDeleteBlog(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		blogID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid blog ID"})
			return
		}

		if err := repos.Blogs.Delete(c.Request.Context(), blogID); err != nil {
			respondError(c, logger, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}

// HandleAdminListOrders handles GET /v1/admin/orders with an optional
// status filter
func HandleAdminListOrders(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := parsePaging(c)

		var (
			orders []*domain.Order
			err    error
		)
		if raw := c.Query("status"); raw != "" {
			status := domain.OrderStatus(raw)
			if !status.IsValid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter"})
				return
			}
			orders, err = repos.Orders.ListByStatus(c.Request.Context(), status, limit, offset)
		} else {
			orders, err = repos.Orders.List(c.Request.Context(), limit, offset)
		}
		if err != nil {
			respondError(c, logger, err)
			return
		}

		orderResponses := make([]gin.H, len(orders))
		for i, order := range orders {
			orderResponses[i] = gin.H{
				"id":             order.ID.String(),
				"user_id":        order.UserID.String(),
				"status":         order.Status,
				"delivery_total": order.DeliveryTotal,
				"customer_name":  order.CustomerName,
				"created_at":     order.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"orders": orderResponses,
			"limit":  limit,
			"offset": offset,
		})
	}
}

// HandleAdminGetOrder handles GET /v1/admin/orders/:id
func HandleAdminGetOrder(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
			return
		}

		orders := service.NewOrderService(repos, logger)
		view, err := orders.GetOrder(c.Request.Context(), orderID, nil)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, buildOrderResponse(view))
	}
}

// HandleListContactMessages handles GET /v1/admin/contact-messages
func HandleListContactMessages(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := parsePaging(c)
		unresolvedOnly := c.Query("unresolved") == "true"

		messages, err := repos.ContactMessages.List(c.Request.Context(), unresolvedOnly, limit, offset)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		responses := make([]gin.H, len(messages))
		for i, msg := range messages {
			responses[i] = gin.H{
				"id":         msg.ID.String(),
				"name":       msg.Name,
				"email":      msg.Email,
				"message":    msg.Message,
				"resolved":   msg.Resolved,
				"created_at": msg.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"messages": responses,
			"limit":    limit,
			"offset":   offset,
		})
	}
}

// HandleResolveContactMessage handles POST /v1/admin/contact-messages/:id/resolve
func HandleResolveContactMessage(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		msgID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message ID"})
			return
		}

		if err := repos.ContactMessages.MarkResolved(c.Request.Context(), msgID); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"id": msgID.String(), "resolved": true})
	}
}

// HandleDeleteReview handles DELETE /v1/admin/reviews/:id
func HandleDeleteReview(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviewID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review ID"})
			return
		}

		if err := repos.Reviews.Delete(c.Request.Context(), reviewID); err != nil {
			respondError(c, logger, err)
			return
		}

		c.Status(http.StatusNoContent)
	}
}
