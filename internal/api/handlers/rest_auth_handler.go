package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/api/middleware"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/metrics"
	"github.com/thebilalkhokhar/Real-Estate-FYP/internal/services"
)

// RestAuthHandler handles registration, login and the current identity.
type RestAuthHandler struct {
	authService services.IAuthService
	metrics     *metrics.Metrics
}

func NewRestAuthHandler(authService services.IAuthService, m *metrics.Metrics) *RestAuthHandler {
	return &RestAuthHandler{authService: authService, metrics: m}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *RestAuthHandler) observe(operation string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	h.metrics.AuthAttemptsTotal.WithLabelValues(operation, result).Inc()
}

// Register handles POST /api/auth/register
func (h *RestAuthHandler) Register(c *gin.Context) {
	var req services.RegisterInput
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.authService.Register(c.Request.Context(), req)
	h.observe("register", err)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, res)
}

// Login handles POST /api/auth/login
func (h *RestAuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	res, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	h.observe("login", err)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Me handles GET /api/auth/me
func (h *RestAuthHandler) Me(c *gin.Context) {
	token, _ := middleware.BearerToken(c.GetHeader("Authorization"))
	user, err := h.authService.CurrentUser(c.Request.Context(), token)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
