// internal/interfaces/http/handlers/category.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/domain/product"
)

const (
	categoriesCacheKey = "catalog:categories"
	sizesCacheKey      = "catalog:sizes"
	catalogCacheTTL    = 10 * time.Minute
)

// CategoryHandler handles category and size endpoints. Listings are served
// from the cache when one is configured.
type CategoryHandler struct {
	categoryService *product.CategoryService
	cache           Cache
	logger          *logrus.Logger
}

// NewCategoryHandler creates a new category handler
func NewCategoryHandler(services *Services, cache Cache, logger *logrus.Logger) *CategoryHandler {
	return &CategoryHandler{
		categoryService: services.Categories,
		cache:           cache,
		logger:          logger,
	}
}

// GetCategories godoc
// @Summary List categories
// @Tags Products
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /categories [get]
func (h *CategoryHandler) GetCategories(c *gin.Context) {
	categories, err := cached(c.Request.Context(), h.cache, h.logger, categoriesCacheKey, catalogCacheTTL, h.categoryService.GetCategories)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Categories retrieved successfully",
		"data":    categories,
	})
}

// GetSizes handles GET /sizes
func (h *CategoryHandler) GetSizes(c *gin.Context) {
	sizes, err := cached(c.Request.Context(), h.cache, h.logger, sizesCacheKey, catalogCacheTTL, h.categoryService.GetSizes)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Sizes retrieved successfully",
		"data":    sizes,
	})
}

// CreateCategory handles POST /admin/categories
func (h *CategoryHandler) CreateCategory(c *gin.Context) {
	var req product.CategoryCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	category, err := h.categoryService.CreateCategory(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.invalidate(c.Request.Context(), categoriesCacheKey)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Category created successfully",
		"data":    category,
	})
}

// CreateSize handles POST /admin/sizes
func (h *CategoryHandler) CreateSize(c *gin.Context) {
	var req product.SizeCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	size, err := h.categoryService.CreateSize(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	h.invalidate(c.Request.Context(), sizesCacheKey)

	c.JSON(http.StatusCreated, gin.H{
		"message": "Size created successfully",
		"data":    size,
	})
}

func (h *CategoryHandler) invalidate(ctx context.Context, keys ...string) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Del(ctx, keys...); err != nil {
		h.logger.WithError(err).Warn("Cache invalidation failed")
	}
}
