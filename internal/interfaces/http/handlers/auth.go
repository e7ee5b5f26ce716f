// internal/interfaces/http/handlers/auth.go
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/your-org/marketplace-backend/internal/domain/audit"
	"github.com/your-org/marketplace-backend/internal/domain/cart"
	"github.com/your-org/marketplace-backend/internal/domain/user"
	"github.com/your-org/marketplace-backend/internal/interfaces/http/middleware"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	userService  *user.Service
	cartService  *cart.Service
	auditService *audit.Service
	logger       *logrus.Logger
}

// NewAuthHandler creates a new authentication handler
func NewAuthHandler(services *Services, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		userService:  services.Users,
		cartService:  services.Carts,
		auditService: services.Audit,
		logger:       logger,
	}
}

// RefreshTokenRequest represents refresh token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// Register godoc
// @Summary Register new user
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body user.RegisterRequest true "Register Request"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req user.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.userService.Register(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	h.attachCart(c, resp.User.ID)
	record(c, h.auditService, audit.Entry{
		UserID:      &resp.User.ID,
		Action:      audit.ActionRegister,
		Description: "Registered account",
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "User registered successfully",
		"data":    resp,
	})
}

// Login godoc
// @Summary User login
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body user.LoginRequest true "Login Request"
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req user.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.userService.Login(c.Request.Context(), &req)
	if err != nil {
		record(c, h.auditService, audit.Entry{
			Action:      audit.ActionLogin,
			Description: "Failed login",
			Extra:       map[string]interface{}{"email": req.Email},
			Err:         err,
		})
		respondError(c, h.logger, err)
		return
	}

	h.attachCart(c, resp.User.ID)
	record(c, h.auditService, audit.Entry{
		UserID:      &resp.User.ID,
		Action:      audit.ActionLogin,
		Description: "Logged in",
	})

	c.JSON(http.StatusOK, gin.H{
		"message": "Login successful",
		"data":    resp,
	})
}

// RefreshToken handles POST /auth/refresh
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.userService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Token refreshed successfully",
		"data":    resp,
	})
}

// GetProfile handles GET /auth/profile
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	profile, err := h.userService.GetProfile(c.Request.Context(), userID)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Profile retrieved successfully",
		"data":    profile,
	})
}

// attachCart links an existing session cart to the user who just signed in
func (h *AuthHandler) attachCart(c *gin.Context, userID uint) {
	sessionKey := middleware.GetSessionKey(c)
	if sessionKey == "" {
		return
	}
	if err := h.cartService.AttachUser(c.Request.Context(), sessionKey, userID); err != nil {
		h.logger.WithError(err).WithField("user_id", userID).Warn("Failed to attach user to cart")
	}
}
