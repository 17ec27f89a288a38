package tenant

import (
	"errors"
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

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/tenants/:tenantId", h.Get)
	rg.PUT("/tenants/:tenantId/settings", h.UpdateSettings)
	rg.PUT("/tenants/:tenantId/nomenclature", h.UpdateNomenclature)
}

func (h *Handler) Get(c *gin.Context) {
	t, err := h.service.Get(c.Request.Context(), c.Param("tenantId"))
	if err != nil {
		if errors.Is(err, ErrTenantNotFound) {
			response.Error(c, http.StatusNotFound, "TENANT_NOT_FOUND", "Tenant not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load tenant")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"tenant": t})
}

func (h *Handler) UpdateSettings(c *gin.Context) {
	var settings map[string]any
	if err := c.ShouldBindJSON(&settings); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	err := h.service.UpdateSettings(c.Request.Context(), c.Param("tenantId"), settings)
	if err != nil {
		if errors.Is(err, ErrTenantNotFound) {
			response.Error(c, http.StatusNotFound, "TENANT_NOT_FOUND", "Tenant not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update settings")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": true})
}

func (h *Handler) UpdateNomenclature(c *gin.Context) {
	var nomenclature map[string]any
	if err := c.ShouldBindJSON(&nomenclature); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	err := h.service.UpdateNomenclature(c.Request.Context(), c.Param("tenantId"), nomenclature)
	if err != nil {
		if errors.Is(err, ErrTenantNotFound) {
			response.Error(c, http.StatusNotFound, "TENANT_NOT_FOUND", "Tenant not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update nomenclature")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": true})
}
