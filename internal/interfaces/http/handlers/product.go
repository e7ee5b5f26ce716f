// internal/interfaces/http/handlers/product.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/domain/audit"
	"github.com/your-org/marketplace-backend/internal/domain/product"
)

// ProductHandler handles catalog product endpoints
type ProductHandler struct {
	productService *product.Service
	auditService   *audit.Service
	logger         *logrus.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(services *Services, logger *logrus.Logger) *ProductHandler {
	return &ProductHandler{
		productService: services.Products,
		auditService:   services.Audit,
		logger:         logger,
	}
}

// GetProducts godoc
// @Summary List products
// @Tags Products
// @Produce json
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Param category query string false "Category slug"
// @Param search query string false "Name search"
// @Param in_stock query bool false "Only products in stock"
// @Param sort_by query string false "name, price, rating, views_count or created_at"
// @Param sort_order query string false "asc or desc"
// @Success 200 {object} map[string]interface{}
// @Router /products [get]
func (h *ProductHandler) GetProducts(c *gin.Context) {
	var req product.ProductListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	products, err := h.productService.GetProducts(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Products retrieved successfully",
		"data":    products,
	})
}

// GetProduct handles GET /products/:id
func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := parseID(c, "id", "product ID")
	if !ok {
		return
	}

	p, err := h.productService.ViewProduct(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Product retrieved successfully",
		"data":    p,
	})
}

// CreateProduct godoc
// @Summary Create product
// @Description Sized categories take initial stock per size, others a flat stock count (omit for untracked)
// @Tags Seller
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body product.ProductCreateRequest true "Product"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /seller/products [post]
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	sellerID, ok := requireUser(c)
	if !ok {
		return
	}

	var req product.ProductCreateRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.productService.CreateProduct(c.Request.Context(), sellerID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	record(c, h.auditService, audit.Entry{
		Action:      audit.ActionProductCreate,
		Description: "Created product " + p.Name,
		ObjectType:  "product",
		ObjectID:    &p.ID,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Product created successfully",
		"data":    p,
	})
}

// UpdateProduct handles PUT /seller/products/:id
func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	sellerID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "product ID")
	if !ok {
		return
	}

	var req product.ProductUpdateRequest
	if !bindJSON(c, &req) {
		return
	}

	p, err := h.productService.UpdateProduct(c.Request.Context(), id, sellerID, &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	record(c, h.auditService, audit.Entry{
		Action:      audit.ActionProductUpdate,
		Description: "Updated product",
		ObjectType:  "product",
		ObjectID:    &id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Product updated successfully",
		"data":    p,
	})
}

// DeleteProduct handles DELETE /seller/products/:id
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	sellerID, ok := requireUser(c)
	if !ok {
		return
	}
	id, ok := parseID(c, "id", "product ID")
	if !ok {
		return
	}

	if err := h.productService.DeleteProduct(c.Request.Context(), id, sellerID); err != nil {
		respondError(c, h.logger, err)
		return
	}

	record(c, h.auditService, audit.Entry{
		Action:      audit.ActionProductDelete,
		Description: "Deleted product",
		ObjectType:  "product",
		ObjectID:    &id,
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Product deleted successfully",
	})
}
