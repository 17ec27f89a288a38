package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"maquidash/internal/pkg/response"
)

type Handler struct {
	service  *Service
	migrator *Migrator
}

func NewHandler(service *Service, migrator *Migrator) *Handler {
	return &Handler{service: service, migrator: migrator}
}

// RegisterRoutes expects rg to already carry the admin-only middleware.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/admin/tenants", h.CreateTenant)
	rg.POST("/admin/tenants/:tenantId/migrate", h.Migrate)
}

func (h *Handler) CreateTenant(c *gin.Context) {
	var req struct {
		ID           string `json:"id" binding:"required"`
		BusinessName string `json:"businessName" binding:"required"`
		BusinessType string `json:"businessType"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "id and businessName are required")
		return
	}

	err := h.service.CreateTenant(c.Request.Context(), req.ID, req.BusinessName, req.BusinessType)
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid tenant id or name")
		case errors.Is(err, ErrTenantExists):
			response.Error(c, http.StatusConflict, "TENANT_EXISTS", "Tenant already exists")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create tenant")
		}
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"created": true})
}

func (h *Handler) Migrate(c *gin.Context) {
	var req struct {
		Collections []string `json:"collections"`
		BackupPath  string   `json:"backupPath"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
			return
		}
	}

	report, err := h.migrator.Run(c.Request.Context(), c.Param("tenantId"), req.Collections, req.BackupPath)
	if err != nil {
		// A partial report still tells the operator how far the copy got.
		response.ErrorWithDetails(c, http.StatusInternalServerError, "MIGRATION_FAILED", "Migration did not complete", err.Error())
		return
	}
	response.Success(c, http.StatusOK, gin.H{"report": report})
}
