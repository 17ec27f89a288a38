package conversations

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
	rg.GET("/tenants/:tenantId/conversaciones", h.List)
	rg.GET("/tenants/:tenantId/conversaciones/:phone", h.Get)
	rg.PATCH("/tenants/:tenantId/conversaciones/:phone/agente", h.SetAgentPaused)
	rg.POST("/tenants/:tenantId/conversaciones/:phone/mensajes", h.SendMessage)
	rg.POST("/tenants/:tenantId/conversaciones/:phone/leido", h.MarkRead)
}

func (h *Handler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), c.Param("tenantId"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list conversations")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"conversaciones": items})
}

func (h *Handler) Get(c *gin.Context) {
	conv, err := h.service.Get(c.Request.Context(), c.Param("tenantId"), c.Param("phone"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Conversation not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load conversation")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"conversacion": conv})
}

func (h *Handler) SetAgentPaused(c *gin.Context) {
	var req struct {
		Paused *bool `json:"agentePausado" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Paused == nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "agentePausado is required")
		return
	}

	err := h.service.SetAgentPaused(c.Request.Context(), c.Param("tenantId"), c.Param("phone"), *req.Paused)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Conversation not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update agent state")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"agentePausado": *req.Paused})
}

func (h *Handler) SendMessage(c *gin.Context) {
	var req struct {
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Message is required")
		return
	}

	err := h.service.SendMessage(c.Request.Context(), c.Param("tenantId"), c.Param("phone"), req.Message)
	if err != nil {
		response.ErrorWithDetails(c, http.StatusBadGateway, "SEND_FAILED", "Failed to send message", err.Error())
		return
	}
	response.Success(c, http.StatusOK, gin.H{"sent": true})
}

func (h *Handler) MarkRead(c *gin.Context) {
	err := h.service.MarkRead(c.Request.Context(), c.Param("tenantId"), c.Param("phone"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Conversation not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to mark read")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"read": true})
}
