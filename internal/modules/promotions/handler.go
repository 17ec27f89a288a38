package promotions

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

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
	rg.GET("/tenants/:tenantId/promociones", h.List)
	rg.POST("/tenants/:tenantId/promociones", h.Create)
	rg.GET("/tenants/:tenantId/promociones/:id", h.Get)
	rg.PATCH("/tenants/:tenantId/promociones/:id", h.Update)
	rg.DELETE("/tenants/:tenantId/promociones/:id", h.Delete)
	rg.POST("/tenants/:tenantId/promociones/:id/envios", h.RecordSend)
}

func (h *Handler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), c.Param("tenantId"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list promotions")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"promociones": items})
}

func (h *Handler) Get(c *gin.Context) {
	p, err := h.service.Get(c.Request.Context(), c.Param("tenantId"), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Promotion not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load promotion")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"promocion": p})
}

func (h *Handler) Create(c *gin.Context) {
	var p domain.Promotion
	if err := c.ShouldBindJSON(&p); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	created, err := h.service.Create(c.Request.Context(), c.Param("tenantId"), p)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Title is required")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create promotion")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"promocion": created})
}

func (h *Handler) Update(c *gin.Context) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	err := h.service.Update(c.Request.Context(), c.Param("tenantId"), c.Param("id"), fields)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Promotion not found")
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "No fields to update")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update promotion")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": true})
}

func (h *Handler) Delete(c *gin.Context) {
	err := h.service.Delete(c.Request.Context(), c.Param("tenantId"), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Promotion not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete promotion")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) RecordSend(c *gin.Context) {
	var req struct {
		Recipients int `json:"destinatarios"`
		Sent       int `json:"enviados"`
		Failed     int `json:"fallidos"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	err := h.service.RecordSend(c.Request.Context(), c.Param("tenantId"), c.Param("id"), req.Recipients, req.Sent, req.Failed)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Promotion not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to record send")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"recorded": true})
}
