package auth

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"maquidash/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/login", h.Login)
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/auth/logout", h.Logout)
	rg.GET("/auth/tenants", h.Tenants)
}

func (h *Handler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Email and password are required")
		return
	}

	result, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		cat := Categorize(err)
		status := http.StatusUnauthorized
		if cat == CategoryTooManyRequests {
			status = http.StatusTooManyRequests
		}
		response.Error(c, status, string(cat), "Authentication failed")
		return
	}

	response.Success(c, http.StatusOK, LoginResponse{
		Token: result.Token,
		UID:   result.UID,
		Email: result.Email,
		Admin: result.Admin,
	})
}

func (h *Handler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context(), c.GetString("uid")); err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to end session")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"loggedOut": true})
}

func (h *Handler) Tenants(c *gin.Context) {
	tenants := h.service.ResolveTenants(c.Request.Context(), c.GetString("email"), c.GetString("uid"))
	response.Success(c, http.StatusOK, gin.H{"tenants": tenants})
}
