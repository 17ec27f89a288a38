package reservations

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"maquidash/internal/docstore"
	"maquidash/internal/domain"
	"maquidash/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/tenants/:tenantId/reservas", h.List)
	rg.GET("/tenants/:tenantId/reservas/:id", h.Get)
	rg.PATCH("/tenants/:tenantId/reservas/:id/estado", h.UpdateStatus)
}

func (h *Handler) List(c *gin.Context) {
	items, err := h.service.Search(c.Request.Context(), c.Param("tenantId"), c.Query("q"))
	if err != nil {
		if errors.Is(err, docstore.ErrEmptyTenant) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Tenant is required")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list reservations")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reservas": items})
}

func (h *Handler) Get(c *gin.Context) {
	r, err := h.service.Get(c.Request.Context(), c.Param("tenantId"), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Reservation not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load reservation")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"reserva": r})
}

func (h *Handler) UpdateStatus(c *gin.Context) {
	var req struct {
		Status string `json:"estado" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Status is required")
		return
	}

	err := h.service.UpdateStatus(c.Request.Context(), c.Param("tenantId"), c.Param("id"), domain.ReservationStatus(req.Status))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Reservation not found")
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid reservation status")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update status")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": true})
}
