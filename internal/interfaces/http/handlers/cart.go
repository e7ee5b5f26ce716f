// internal/interfaces/http/handlers/cart.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/domain/audit"
	"github.com/your-org/marketplace-backend/internal/domain/cart"
	"github.com/your-org/marketplace-backend/internal/interfaces/http/middleware"
)

// CartHandler handles cart endpoints. Carts belong to the session key, not
// to the user.
type CartHandler struct {
	cartService  *cart.Service
	auditService *audit.Service
	logger       *logrus.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(services *Services, logger *logrus.Logger) *CartHandler {
	return &CartHandler{
		cartService:  services.Carts,
		auditService: services.Audit,
		logger:       logger,
	}
}

// GetCart godoc
// @Summary Get cart
// @Description Cart lines with live prices, item count and subtotal
// @Tags Cart
// @Produce json
// @Success 200 {object} cart.Snapshot
// @Router /cart [get]
func (h *CartHandler) GetCart(c *gin.Context) {
	h.respondSnapshot(c, http.StatusOK)
}

// AddToCart godoc
// @Summary Add product to cart
// @Description Adds quantity to the matching line or creates one. A size is picked automatically when omitted.
// @Tags Cart
// @Accept json
// @Produce json
// @Param request body cart.AddLineRequest true "Product, size and quantity"
// @Success 201 {object} cart.Snapshot
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /cart/add [post]
func (h *CartHandler) AddToCart(c *gin.Context) {
	sessionKey := middleware.GetSessionKey(c)

	var req cart.AddLineRequest
	if !bindJSON(c, &req) {
		return
	}

	line, err := h.cartService.AddLine(c.Request.Context(), sessionKey, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if userID, ok := middleware.GetUserIDFromContext(c); ok {
		if err := h.cartService.AttachUser(c.Request.Context(), sessionKey, userID); err != nil {
			h.logger.WithError(err).Warn("Failed to attach user to cart")
		}
	}

	record(c, h.auditService, audit.Entry{
		Action:      audit.ActionCartAdd,
		Description: "Added product to cart",
		ObjectType:  "product",
		ObjectID:    &line.ProductID,
		Extra:       map[string]interface{}{"quantity": req.Quantity, "line_id": line.ID},
	})

	h.respondSnapshot(c, http.StatusCreated)
}

// UpdateCartItem godoc
// @Summary Change line quantity
// @Description A quantity of zero or less removes the line. An omitted quantity sets it to 1.
// @Tags Cart
// @Accept json
// @Produce json
// @Param line_id path int true "Cart line ID"
// @Param request body cart.UpdateLineRequest true "New quantity"
// @Success 200 {object} cart.Snapshot
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /cart/update/{line_id} [patch]
func (h *CartHandler) UpdateCartItem(c *gin.Context) {
	lineID, ok := parseID(c, "line_id", "cart line ID")
	if !ok {
		return
	}

	var req cart.UpdateLineRequest
	if !bindJSON(c, &req) {
		return
	}

	quantity := req.QuantityOrDefault()
	if _, err := h.cartService.UpdateQuantity(c.Request.Context(), middleware.GetSessionKey(c), lineID, quantity); err != nil {
		respondError(c, h.logger, err)
		return
	}

	record(c, h.auditService, audit.Entry{
		Action:      audit.ActionCartUpdate,
		Description: "Changed cart line quantity",
		ObjectType:  "cart_line",
		ObjectID:    &lineID,
		Extra:       map[string]interface{}{"quantity": quantity},
	})

	h.respondSnapshot(c, http.StatusOK)
}

// RemoveFromCart godoc
// @Summary Remove line from cart
// @Description Removing a line that is not in the cart succeeds
// @Tags Cart
// @Produce json
// @Param line_id path int true "Cart line ID"
// @Success 200 {object} cart.Snapshot
// @Failure 400 {object} map[string]interface{}
// @Router /cart/remove/{line_id} [delete]
func (h *CartHandler) RemoveFromCart(c *gin.Context) {
	lineID, ok := parseID(c, "line_id", "cart line ID")
	if !ok {
		return
	}

	if err := h.cartService.RemoveLine(c.Request.Context(), middleware.GetSessionKey(c), lineID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	record(c, h.auditService, audit.Entry{
		Action:      audit.ActionCartRemove,
		Description: "Removed cart line",
		ObjectType:  "cart_line",
		ObjectID:    &lineID,
	})

	h.respondSnapshot(c, http.StatusOK)
}

// ClearCart godoc
// @Summary Clear cart
// @Tags Cart
// @Produce json
// @Success 200 {object} cart.Snapshot
// @Router /cart/clear [delete]
func (h *CartHandler) ClearCart(c *gin.Context) {
	if err := h.cartService.Clear(c.Request.Context(), middleware.GetSessionKey(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}

	record(c, h.auditService, audit.Entry{
		Action:      audit.ActionCartClear,
		Description: "Cleared cart",
	})

	h.respondSnapshot(c, http.StatusOK)
}

// GetCartCount godoc
// @Summary Cart item count
// @Description Total units in the cart and their subtotal
// @Tags Cart
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /cart/count [get]
func (h *CartHandler) GetCartCount(c *gin.Context) {
	snapshot, err := h.cartService.Snapshot(c.Request.Context(), middleware.GetSessionKey(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_items": snapshot.TotalItems,
		"subtotal":    snapshot.Subtotal,
	})
}

func (h *CartHandler) respondSnapshot(c *gin.Context, status int) {
	snapshot, err := h.cartService.Snapshot(c.Request.Context(), middleware.GetSessionKey(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(status, snapshot)
}
