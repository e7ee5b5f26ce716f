// internal/interfaces/http/handlers/inventory.go
package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/domain/audit"
	"github.com/your-org/marketplace-backend/internal/domain/inventory"
	"github.com/your-org/marketplace-backend/internal/domain/product"
	"github.com/your-org/marketplace-backend/internal/interfaces/http/middleware"
	"github.com/your-org/marketplace-backend/internal/pkg/validation"
)

// InventoryHandler exposes the inventory ledger to sellers
type InventoryHandler struct {
	ledger         *inventory.Ledger
	productService *product.Service
	auditService   *audit.Service
	logger         *logrus.Logger
}

// NewInventoryHandler creates a new inventory handler
func NewInventoryHandler(services *Services, logger *logrus.Logger) *InventoryHandler {
	return &InventoryHandler{
		ledger:         services.Ledger,
		productService: services.Products,
		auditService:   services.Audit,
		logger:         logger,
	}
}

// CreateVariantRequest adds a size to a product
type CreateVariantRequest struct {
	SizeID uint `json:"size_id" validate:"required"`
	Stock  int  `json:"stock" validate:"min=0"`
}

// VariantStockRequest sets the stock of one size
type VariantStockRequest struct {
	Stock *int `json:"stock" validate:"required,min=0"`
}

// FlatStockRequest sets the stock of a product without sizes. A null stock
// stops tracking.
type FlatStockRequest struct {
	Stock *int `json:"stock" validate:"omitempty,min=0"`
}

// CreateVariant godoc
// @Summary Add a size to a product
// @Tags Seller
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Product ID"
// @Param request body CreateVariantRequest true "Size and initial stock"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /seller/products/{id}/sizes [post]
func (h *InventoryHandler) CreateVariant(c *gin.Context) {
	productID, ok := h.ownedProduct(c)
	if !ok {
		return
	}

	var req CreateVariantRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := validation.Struct(&req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	variant, err := h.ledger.CreateVariant(c.Request.Context(), productID, req.SizeID, req.Stock, actor(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.recordStock(c, productID, map[string]interface{}{"size_variant_id": variant.ID, "stock": req.Stock, "op": "create"})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Size added successfully",
		"data":    variant,
	})
}

// UpdateVariantStock handles PATCH /seller/products/:id/sizes/:variant_id
func (h *InventoryHandler) UpdateVariantStock(c *gin.Context) {
	productID, ok := h.ownedProduct(c)
	if !ok {
		return
	}
	variantID, ok := parseID(c, "variant_id", "size variant ID")
	if !ok {
		return
	}

	var req VariantStockRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := validation.Struct(&req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	variant, err := h.ledger.SetVariantStock(c.Request.Context(), productID, variantID, *req.Stock, actor(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.recordStock(c, productID, map[string]interface{}{"size_variant_id": variantID, "stock": *req.Stock, "op": "set"})

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock updated successfully",
		"data":    variant,
	})
}

// DeleteVariant handles DELETE /seller/products/:id/sizes/:variant_id
func (h *InventoryHandler) DeleteVariant(c *gin.Context) {
	productID, ok := h.ownedProduct(c)
	if !ok {
		return
	}
	variantID, ok := parseID(c, "variant_id", "size variant ID")
	if !ok {
		return
	}

	if err := h.ledger.DeleteVariant(c.Request.Context(), productID, variantID, actor(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.recordStock(c, productID, map[string]interface{}{"size_variant_id": variantID, "op": "delete"})

	c.JSON(http.StatusOK, gin.H{
		"message": "Size removed successfully",
	})
}

// SetFlatStock handles PUT /seller/products/:id/stock
func (h *InventoryHandler) SetFlatStock(c *gin.Context) {
	productID, ok := h.ownedProduct(c)
	if !ok {
		return
	}

	var req FlatStockRequest
	if !bindJSON(c, &req) {
		return
	}
	if err := validation.Struct(&req); err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := h.ledger.SetFlatStock(c.Request.Context(), productID, req.Stock, actor(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.recordStock(c, productID, map[string]interface{}{"stock": req.Stock, "op": "flat"})

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock updated successfully",
	})
}

// GetMovements handles GET /seller/products/:id/movements
func (h *InventoryHandler) GetMovements(c *gin.Context) {
	productID, ok := h.ownedProduct(c)
	if !ok {
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	movements, err := h.ledger.Movements(c.Request.Context(), productID, limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Stock movements retrieved successfully",
		"data":    movements,
	})
}

// ownedProduct parses the product id and checks the caller may manage it.
// Admins manage every product.
func (h *InventoryHandler) ownedProduct(c *gin.Context) (uint, bool) {
	sellerID, ok := requireUser(c)
	if !ok {
		return 0, false
	}
	productID, ok := parseID(c, "id", "product ID")
	if !ok {
		return 0, false
	}
	if middleware.IsAdminFromContext(c) {
		return productID, true
	}
	if err := h.productService.RequireOwner(c.Request.Context(), productID, sellerID); err != nil {
		respondError(c, h.logger, err)
		return 0, false
	}
	return productID, true
}

func (h *InventoryHandler) recordStock(c *gin.Context, productID uint, extra map[string]interface{}) {
	record(c, h.auditService, audit.Entry{
		Action:      audit.ActionStockUpdate,
		Description: "Changed product stock",
		ObjectType:  "product",
		ObjectID:    &productID,
		Extra:       extra,
	})
}
