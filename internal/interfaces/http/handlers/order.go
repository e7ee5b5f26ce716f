// internal/interfaces/http/handlers/order.go
package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/domain/audit"
	"github.com/your-org/marketplace-backend/internal/domain/checkout"
	"github.com/your-org/marketplace-backend/internal/domain/order"
	"github.com/your-org/marketplace-backend/internal/domain/user"
	"github.com/your-org/marketplace-backend/internal/interfaces/http/middleware"
	"github.com/your-org/marketplace-backend/internal/pkg/pdf"
)

// OrderHandler handles checkout and order endpoints
type OrderHandler struct {
	checkout     *checkout.Coordinator
	orderService *order.Service
	userService  *user.Service
	pdfService   *pdf.Service
	auditService *audit.Service
	logger       *logrus.Logger
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(services *Services, logger *logrus.Logger) *OrderHandler {
	return &OrderHandler{
		checkout:     services.Checkout,
		orderService: services.Orders,
		userService:  services.Users,
		pdfService:   services.PDF,
		auditService: services.Audit,
		logger:       logger,
	}
}

// Checkout godoc
// @Summary Place an order from the session cart
// @Description Freezes cart prices into a pending order, takes the units out of stock and empties the cart in one transaction
// @Tags Orders
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body checkout.CheckoutRequest true "Shipping details and payment provider"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /orders/checkout [post]
func (h *OrderHandler) Checkout(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req checkout.CheckoutRequest
	if !bindJSON(c, &req) {
		return
	}

	buyer, err := h.userService.GetBuyer(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	created, err := h.checkout.Checkout(c.Request.Context(), checkout.Request{
		SessionKey:      middleware.GetSessionKey(c),
		Buyer:           buyer,
		Shipping:        req.ShippingInfo,
		PaymentProvider: req.PaymentProvider,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	record(c, h.auditService, audit.Entry{
		Action:      audit.ActionOrderCreate,
		Description: "Placed order " + created.Number(),
		ObjectType:  "order",
		ObjectID:    &created.ID,
		Extra: map[string]interface{}{
			"total": created.TotalPrice.StringFixed(2),
			"lines": len(created.Lines),
		},
	})

	c.JSON(http.StatusCreated, gin.H{"order_id": created.ID})
}

// GetOrders handles GET /orders
func (h *OrderHandler) GetOrders(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	orders, err := h.orderService.ListForUser(c.Request.Context(), userID, page, limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data":    orders,
	})
}

// GetOrder handles GET /orders/:id
func (h *OrderHandler) GetOrder(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	orderID, ok := parseID(c, "id", "order ID")
	if !ok {
		return
	}

	o, err := h.orderService.Get(c.Request.Context(), orderID, userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order retrieved successfully",
		"data":    o,
	})
}

// CancelOrder godoc
// @Summary Cancel own order
// @Description Allowed while the order is pending or processing. Stock is not restored.
// @Tags Orders
// @Security BearerAuth
// @Produce json
// @Param id path int true "Order ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /orders/{id}/cancel [post]
func (h *OrderHandler) CancelOrder(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	orderID, ok := parseID(c, "id", "order ID")
	if !ok {
		return
	}

	o, err := h.orderService.Cancel(c.Request.Context(), orderID, userID)
	record(c, h.auditService, audit.Entry{
		Action:      audit.ActionOrderCancel,
		Description: "Cancelled order",
		ObjectType:  "order",
		ObjectID:    &orderID,
		Err:         err,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order cancelled successfully",
		"data":    o,
	})
}

// GetInvoice handles GET /orders/:id/invoice. ?format=html returns the
// invoice page without PDF conversion.
func (h *OrderHandler) GetInvoice(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	orderID, ok := parseID(c, "id", "order ID")
	if !ok {
		return
	}

	var (
		o   *order.Order
		err error
	)
	if middleware.IsAdminFromContext(c) {
		o, err = h.orderService.GetAny(c.Request.Context(), orderID)
	} else {
		o, err = h.orderService.Get(c.Request.Context(), orderID, userID)
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if c.Query("format") == "html" {
		page, err := h.pdfService.RenderHTML(o)
		if err != nil {
			respondError(c, h.logger, err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", page)
		return
	}

	buf, err := h.pdfService.GenerateInvoice(o)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	filename := fmt.Sprintf("invoice_%s.pdf", o.Number())
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	c.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// AdminGetOrders handles GET /admin/orders
func (h *OrderHandler) AdminGetOrders(c *gin.Context) {
	var req order.OrderListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	orders, err := h.orderService.List(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Orders retrieved successfully",
		"data":    orders,
	})
}

// AdminUpdateOrderStatus godoc
// @Summary Move an order to a new status
// @Description pending -> processing -> shipped -> delivered, cancelled from pending or processing
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Order ID"
// @Param request body order.UpdateStatusRequest true "Target status"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /admin/orders/{id}/status [patch]
func (h *OrderHandler) AdminUpdateOrderStatus(c *gin.Context) {
	orderID, ok := parseID(c, "id", "order ID")
	if !ok {
		return
	}

	var req order.UpdateStatusRequest
	if !bindJSON(c, &req) {
		return
	}

	o, err := h.orderService.UpdateStatus(c.Request.Context(), orderID, req.Status, req.Comment, actor(c))
	record(c, h.auditService, audit.Entry{
		Action:      audit.ActionOrderUpdate,
		Description: "Changed order status",
		ObjectType:  "order",
		ObjectID:    &orderID,
		Extra:       map[string]interface{}{"status": req.Status},
		Err:         err,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Order status updated successfully",
		"data":    o,
	})
}
