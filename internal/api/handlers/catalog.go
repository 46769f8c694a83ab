package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/arianbazaar/storefront-api/internal/repository"
	"github.com/arianbazaar/storefront-api/internal/service"
)

// HandleListProducts handles GET /v1/products
func HandleListProducts(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		lang := requestLanguage(c)
		limit, offset := parsePaging(c)

		filter := repository.ProductFilter{Limit: limit, Offset: offset}
		if v := c.Query("category_id"); v != "" {
			id, err := uuid.Parse(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category ID"})
				return
			}
			filter.CategoryID = &id
		}
		if v := c.Query("subcategory_id"); v != "" {
			id, err := uuid.Parse(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid subcategory ID"})
				return
			}
			filter.SubcategoryID = &id
		}
		if v := c.Query("seller_id"); v != "" {
			id, err := uuid.Parse(v)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid seller ID"})
				return
			}
			filter.SellerID = &id
		}

		catalog := service.NewCatalogService(repos, logger)
		products, err := catalog.ListProducts(c.Request.Context(), filter, lang)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"products": products,
			"limit":    limit,
			"offset":   offset,
		})
	}
}

// HandleGetProduct handles GET /v1/products/:id
func HandleGetProduct(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
			return
		}

		catalog := service.NewCatalogService(repos, logger)
		product, err := catalog.GetProduct(c.Request.Context(), productID, requestLanguage(c))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, product)
	}
}

// HandleListCategories handles GET /v1/categories
func HandleListCategories(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		catalog := service.NewCatalogService(repos, logger)
		categories, err := catalog.ListCategories(c.Request.Context(), requestLanguage(c))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"categories": categories})
	}
}

// HandleListBlogs handles GET /v1/blogs
func HandleListBlogs(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := parsePaging(c)

		catalog := service.NewCatalogService(repos, logger)
		blogs, err := catalog.ListBlogs(c.Request.Context(), true, requestLanguage(c), limit, offset)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"blogs":  blogs,
			"limit":  limit,
			"offset": offset,
		})
	}
}
