package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/arianbazaar/storefront-api/internal/i18n"
	"github.com/arianbazaar/storefront-api/pkg/errors"
)

// respondError maps typed errors onto HTTP statuses. Unknown errors are
// logged and surfaced as 500 without detail.
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	switch e := err.(type) {
	case *errors.ErrNotFound:
		c.JSON(http.StatusNotFound, gin.H{"error": e.Error()})
	case *errors.ErrUnauthorized:
		c.JSON(http.StatusUnauthorized, gin.H{"error": e.Error()})
	case *errors.ErrForbidden:
		c.JSON(http.StatusForbidden, gin.H{"error": e.Error()})
	case *errors.ErrInvalidStateTransition:
		c.JSON(http.StatusBadRequest, gin.H{"error": e.Error()})
	case *errors.ErrValidation:
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": e.Error()})
	default:
		logger.Error("Unhandled error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

// requestLanguage reads the lang query parameter, defaulting to English
func requestLanguage(c *gin.Context) i18n.Language {
	lang := i18n.Language(c.DefaultQuery("lang", string(i18n.LanguageEnglish)))
	if !lang.IsValid() {
		return i18n.LanguageEnglish
	}
	return lang
}

func parsePaging(c *gin.Context) (limit, offset int) {
	limit = queryInt(c, "limit", 50)
	if limit < 1 || limit > 100 {
		limit = 50
	}
	offset = queryInt(c, "offset", 0)
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}

func queryInt(c *gin.Context, key string, fallback int) int {
	v := c.Query(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
