// internal/interfaces/http/handlers/recommendation.go
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/domain/cart"
	"github.com/your-org/marketplace-backend/internal/domain/product"
	"github.com/your-org/marketplace-backend/internal/domain/recommendation"
	"github.com/your-org/marketplace-backend/internal/interfaces/http/middleware"
)

const recommendationCacheTTL = 5 * time.Minute

// RecommendationHandler serves product recommendation lists. Store-wide
// lists are cached; per-product and per-buyer lists are not.
type RecommendationHandler struct {
	recommendService *recommendation.Service
	cartService      *cart.Service
	cache            Cache
	logger           *logrus.Logger
}

// NewRecommendationHandler creates a new recommendation handler
func NewRecommendationHandler(services *Services, cache Cache, logger *logrus.Logger) *RecommendationHandler {
	return &RecommendationHandler{
		recommendService: services.Recommend,
		cartService:      services.Carts,
		cache:            cache,
		logger:           logger,
	}
}

// GetBestsellers godoc
// @Summary Best selling products
// @Tags Recommendations
// @Produce json
// @Param limit query int false "List size, at most 50"
// @Success 200 {object} map[string]interface{}
// @Router /products/bestsellers [get]
func (h *RecommendationHandler) GetBestsellers(c *gin.Context) {
	h.storeWide(c, "bestsellers", func(ctx context.Context, q recommendation.Query) ([]product.Product, error) {
		return h.recommendService.Bestsellers(ctx, q.Limit)
	})
}

// GetPopular godoc
// @Summary Most viewed products
// @Tags Recommendations
// @Produce json
// @Param limit query int false "List size, at most 50"
// @Success 200 {object} map[string]interface{}
// @Router /products/popular [get]
func (h *RecommendationHandler) GetPopular(c *gin.Context) {
	h.storeWide(c, "popular", func(ctx context.Context, q recommendation.Query) ([]product.Product, error) {
		return h.recommendService.Popular(ctx, q.Limit)
	})
}

// GetNew handles GET /products/new
func (h *RecommendationHandler) GetNew(c *gin.Context) {
	h.storeWide(c, "new", func(ctx context.Context, q recommendation.Query) ([]product.Product, error) {
		return h.recommendService.New(ctx, q.Limit)
	})
}

// GetSale handles GET /products/sale
func (h *RecommendationHandler) GetSale(c *gin.Context) {
	h.storeWide(c, "sale", func(ctx context.Context, q recommendation.Query) ([]product.Product, error) {
		return h.recommendService.Sale(ctx, q.Limit)
	})
}

// GetTrending godoc
// @Summary Trending products
// @Description Recent sales weigh three times as much as views
// @Tags Recommendations
// @Produce json
// @Param days query int false "Sales window in days"
// @Param limit query int false "List size, at most 50"
// @Success 200 {object} map[string]interface{}
// @Router /products/trending [get]
func (h *RecommendationHandler) GetTrending(c *gin.Context) {
	h.storeWide(c, "trending", func(ctx context.Context, q recommendation.Query) ([]product.Product, error) {
		return h.recommendService.Trending(ctx, q.Days, q.Limit)
	})
}

// GetTopRated handles GET /products/top-rated
func (h *RecommendationHandler) GetTopRated(c *gin.Context) {
	h.storeWide(c, "top_rated", func(ctx context.Context, q recommendation.Query) ([]product.Product, error) {
		return h.recommendService.TopRated(ctx, q.MinReviews, q.Limit)
	})
}

// GetRelated godoc
// @Summary Similar products
// @Description Same category; same colour first, then a close price
// @Tags Recommendations
// @Produce json
// @Param id path int true "Product ID"
// @Param limit query int false "List size, at most 50"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /products/{id}/related [get]
func (h *RecommendationHandler) GetRelated(c *gin.Context) {
	h.forProduct(c, "similar", h.recommendService.Similar)
}

// GetAlsoBought handles GET /products/:id/also-bought
func (h *RecommendationHandler) GetAlsoBought(c *gin.Context) {
	h.forProduct(c, "also_bought", h.recommendService.AlsoBought)
}

// GetUpsell handles GET /products/:id/upsell
func (h *RecommendationHandler) GetUpsell(c *gin.Context) {
	h.forProduct(c, "upsell", h.recommendService.Upsell)
}

// GetForUser godoc
// @Summary Recommendations for the caller
// @Description Based on past purchases when signed in, trending otherwise
// @Tags Recommendations
// @Produce json
// @Param limit query int false "List size, at most 50"
// @Success 200 {object} map[string]interface{}
// @Router /recommendations/for-you [get]
func (h *RecommendationHandler) GetForUser(c *gin.Context) {
	q, ok := bindRecommendationQuery(c)
	if !ok {
		return
	}

	var userID *uint
	if id, signedIn := middleware.GetUserIDFromContext(c); signedIn {
		userID = &id
	}

	products, err := h.recommendService.ForUser(c.Request.Context(), userID, q.Limit)
	respondRecommendations(c, h.logger, "for_user", products, err)
}

// GetCrossSell godoc
// @Summary Products that go with the cart
// @Tags Recommendations
// @Produce json
// @Param limit query int false "List size, at most 50"
// @Success 200 {object} map[string]interface{}
// @Router /cart/recommendations [get]
func (h *RecommendationHandler) GetCrossSell(c *gin.Context) {
	q, ok := bindRecommendationQuery(c)
	if !ok {
		return
	}

	snapshot, err := h.cartService.Snapshot(c.Request.Context(), middleware.GetSessionKey(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	inCart := make([]product.Product, 0, len(snapshot.Items))
	for _, line := range snapshot.Items {
		inCart = append(inCart, line.Product)
	}

	products, err := h.recommendService.CrossSell(c.Request.Context(), inCart, q.Limit)
	respondRecommendations(c, h.logger, "cross_sell", products, err)
}

func (h *RecommendationHandler) storeWide(c *gin.Context, kind string, load func(context.Context, recommendation.Query) ([]product.Product, error)) {
	q, ok := bindRecommendationQuery(c)
	if !ok {
		return
	}

	key := fmt.Sprintf("recommendations:%s:%d:%d:%d", kind, q.Limit, q.Days, q.MinReviews)
	products, err := cached(c.Request.Context(), h.cache, h.logger, key, recommendationCacheTTL,
		func(ctx context.Context) ([]product.Product, error) {
			return load(ctx, q)
		})
	respondRecommendations(c, h.logger, kind, products, err)
}

func (h *RecommendationHandler) forProduct(c *gin.Context, kind string, load func(context.Context, uint, int) ([]product.Product, error)) {
	id, ok := parseID(c, "id", "product ID")
	if !ok {
		return
	}
	q, ok := bindRecommendationQuery(c)
	if !ok {
		return
	}

	products, err := load(c.Request.Context(), id, q.Limit)
	respondRecommendations(c, h.logger, kind, products, err)
}

func bindRecommendationQuery(c *gin.Context) (recommendation.Query, bool) {
	var q recommendation.Query
	if err := c.ShouldBindQuery(&q); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return q, false
	}
	return q, true
}

func respondRecommendations(c *gin.Context, logger *logrus.Logger, kind string, products []product.Product, err error) {
	if err != nil {
		respondError(c, logger, err)
		return
	}
	if products == nil {
		products = []product.Product{}
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Recommendations retrieved successfully",
		"data": gin.H{
			"type":     kind,
			"count":    len(products),
			"products": products,
		},
	})
}
