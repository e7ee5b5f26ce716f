// internal/interfaces/http/handlers/admin.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/domain/audit"
)

// AdminHandler handles staff-only endpoints that are not tied to one resource
type AdminHandler struct {
	auditService *audit.Service
	logger       *logrus.Logger
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(services *Services, logger *logrus.Logger) *AdminHandler {
	return &AdminHandler{
		auditService: services.Audit,
		logger:       logger,
	}
}

// GetActionLogs godoc
// @Summary List recorded user actions
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param user_id query int false "User ID"
// @Param action_type query string false "Action type"
// @Param object_type query string false "Object type"
// @Param page query int false "Page"
// @Param limit query int false "Page size"
// @Success 200 {object} map[string]interface{}
// @Router /admin/logs [get]
func (h *AdminHandler) GetActionLogs(c *gin.Context) {
	var filter audit.Filter
	if err := c.ShouldBindQuery(&filter); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "Invalid query parameters",
			"details": err.Error(),
		})
		return
	}

	logs, err := h.auditService.List(c.Request.Context(), &filter)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Action logs retrieved successfully",
		"data":    logs,
	})
}
