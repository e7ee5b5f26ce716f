// internal/interfaces/http/handlers/review.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/domain/audit"
	"github.com/your-org/marketplace-backend/internal/domain/product"
)

// ReviewHandler handles product review endpoints
type ReviewHandler struct {
	reviewService *product.ReviewService
	auditService  *audit.Service
	logger        *logrus.Logger
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(services *Services, logger *logrus.Logger) *ReviewHandler {
	return &ReviewHandler{
		reviewService: services.Reviews,
		auditService:  services.Audit,
		logger:        logger,
	}
}

// GetProductReviews handles GET /products/:id/reviews
func (h *ReviewHandler) GetProductReviews(c *gin.Context) {
	productID, ok := parseID(c, "id", "product ID")
	if !ok {
		return
	}

	var req product.ReviewListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	reviews, err := h.reviewService.GetReviews(c.Request.Context(), productID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reviews retrieved successfully",
		"data":    reviews,
	})
}

// CreateReview godoc
// @Summary Review a product
// @Description One review per product and user. Marked verified when the user has a delivered order with the product.
// @Tags Reviews
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param request body product.CreateReviewRequest true "Review"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /products/{id}/reviews [post]
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	productID, ok := parseID(c, "id", "product ID")
	if !ok {
		return
	}

	var req product.CreateReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := h.reviewService.CreateReview(c.Request.Context(), productID, userID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	record(c, h.auditService, audit.Entry{
		Action:      audit.ActionReviewCreate,
		Description: "Reviewed product",
		ObjectType:  "product",
		ObjectID:    &productID,
		Extra:       map[string]interface{}{"rating": req.Rating, "verified": review.IsVerifiedPurchase},
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Review created successfully",
		"data":    review,
	})
}

// UpdateReview handles PUT /reviews/:id
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	reviewID, ok := parseID(c, "id", "review ID")
	if !ok {
		return
	}

	var req product.UpdateReviewRequest
	if !bindJSON(c, &req) {
		return
	}

	review, err := h.reviewService.UpdateReview(c.Request.Context(), reviewID, userID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	record(c, h.auditService, audit.Entry{
		Action:      audit.ActionReviewUpdate,
		Description: "Updated review",
		ObjectType:  "review",
		ObjectID:    &reviewID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Review updated successfully",
		"data":    review,
	})
}

// DeleteReview handles DELETE /reviews/:id
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	reviewID, ok := parseID(c, "id", "review ID")
	if !ok {
		return
	}

	if err := h.reviewService.DeleteReview(c.Request.Context(), reviewID, userID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	record(c, h.auditService, audit.Entry{
		Action:      audit.ActionReviewDelete,
		Description: "Deleted review",
		ObjectType:  "review",
		ObjectID:    &reviewID,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Review deleted successfully",
	})
}
