package catalog

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
	rg.GET("/maquinarias", h.List)
	rg.POST("/maquinarias", h.Create)
	rg.GET("/maquinarias/:id", h.Get)
	rg.PATCH("/maquinarias/:id", h.Update)
	rg.PATCH("/maquinarias/:id/activa", h.SetActive)
	rg.DELETE("/maquinarias/:id", h.Delete)
}

func (h *Handler) List(c *gin.Context) {
	activeOnly := c.Query("activas") == "true"
	items, err := h.service.Search(c.Request.Context(), c.Query("q"), activeOnly)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list machinery")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"maquinarias": items})
}

func (h *Handler) Get(c *gin.Context) {
	m, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Machinery not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load machinery")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"maquinaria": m})
}

func (h *Handler) Create(c *gin.Context) {
	var m domain.Machinery
	if err := c.ShouldBindJSON(&m); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	created, err := h.service.Create(c.Request.Context(), m)
	if err != nil {
		if errors.Is(err, ErrValidation) {
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Name and category are required")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create machinery")
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"maquinaria": created})
}

func (h *Handler) Update(c *gin.Context) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	err := h.service.Update(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Machinery not found")
		case errors.Is(err, ErrValidation):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid fields")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update machinery")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": true})
}

func (h *Handler) SetActive(c *gin.Context) {
	var req struct {
		Active *bool `json:"activa" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Active == nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "activa is required")
		return
	}

	err := h.service.SetActive(c.Request.Context(), c.Param("id"), *req.Active)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Machinery not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update machinery")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"activa": *req.Active})
}

func (h *Handler) Delete(c *gin.Context) {
	if c.Query("confirm") != "true" {
		response.Error(c, http.StatusBadRequest, "CONFIRMATION_REQUIRED", "Deletion must be confirmed")
		return
	}

	err := h.service.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Machinery not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete machinery")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}
