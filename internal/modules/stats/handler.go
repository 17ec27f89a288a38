package stats

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

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/stats/resumen", h.Summary)
}

func (h *Handler) Summary(c *gin.Context) {
	sum, err := h.service.Summarize(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to compute stats")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"resumen": sum})
}
