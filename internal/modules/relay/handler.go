package relay

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"maquidash/internal/pkg/response"
)

// Handler proxies the dashboard's calls to the WhatsApp agent backend.
// Upstream is an external collaborator: its status codes and error bodies
// are surfaced, never remapped.
type Handler struct {
	client *Client
}

func NewHandler(client *Client) *Handler {
	return &Handler{client: client}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/api/generate-promotion", h.GeneratePromotion)
	rg.POST("/api/send-message", h.SendMessage)
	rg.POST("/api/send-promotion", h.SendPromotion)
	rg.POST("/api/upload-image", h.UploadImage)
}

func (h *Handler) GeneratePromotion(c *gin.Context) {
	var req struct {
		Prompt string `json:"prompt"`
		Tenant string `json:"tenantId,omitempty"`
	}
	if err := c.ShouldBindJSON(&req); err != nil || req.Prompt == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Prompt is required")
		return
	}

	if !h.client.Configured() {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"promotion": gin.H{
				"titulo":      "Promoción generada",
				"descripcion": req.Prompt,
				"imagenUrl":   "",
			},
		})
		return
	}

	status, raw, err := h.client.PostJSON(c.Request.Context(), "/api/generate-promotion", req)
	if err != nil {
		response.ErrorWithDetails(c, http.StatusInternalServerError, "UPSTREAM_ERROR", "Backend unreachable", err.Error())
		return
	}
	c.Data(status, "application/json", raw)
}

func (h *Handler) SendMessage(c *gin.Context) {
	var req struct {
		Phone   string `json:"phone" binding:"required"`
		Message string `json:"message" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Phone and message are required")
		return
	}

	if !h.client.Configured() {
		response.Error(c, http.StatusServiceUnavailable, "BACKEND_UNCONFIGURED", "Message backend is not configured")
		return
	}

	status, raw, err := h.client.PostJSON(c.Request.Context(), "/api/send-whatsapp-message", req)
	if err != nil {
		response.ErrorWithDetails(c, http.StatusInternalServerError, "UPSTREAM_ERROR", "Backend unreachable", err.Error())
		return
	}
	if status < 200 || status >= 300 {
		c.JSON(status, gin.H{"error": "Failed to send message", "details": string(raw)})
		return
	}
	c.Data(status, "application/json", raw)
}

func (h *Handler) SendPromotion(c *gin.Context) {
	var req map[string]any
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}
	phones := stringSlice(req["phones"])
	if len(phones) == 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "At least one phone is required")
		return
	}

	if !h.client.Configured() {
		results := make([]gin.H, 0, len(phones))
		for _, p := range phones {
			results = append(results, gin.H{"phone": p, "status": "error", "error": "backend not configured"})
		}
		c.JSON(http.StatusOK, gin.H{
			"success": false,
			"results": results,
			"summary": gin.H{"total": len(phones), "sent": 0, "failed": len(phones)},
		})
		return
	}

	status, raw, err := h.client.PostJSON(c.Request.Context(), "/api/send-promotion", req)
	if err != nil {
		response.ErrorWithDetails(c, http.StatusInternalServerError, "UPSTREAM_ERROR", "Backend unreachable", err.Error())
		return
	}
	c.Data(status, "application/json", raw)
}

func (h *Handler) UploadImage(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "File is required")
		return
	}
	defer file.Close()

	folder := c.PostForm("folder")
	if folder == "" {
		folder = "uploads"
	}

	if !h.client.Configured() {
		response.Error(c, http.StatusServiceUnavailable, "BACKEND_UNCONFIGURED", "Upload backend is not configured")
		return
	}

	status, raw, err := h.client.PostMultipart(c.Request.Context(), "/api/upload-image", "file", header.Filename, folder, file)
	if err != nil {
		response.ErrorWithDetails(c, http.StatusInternalServerError, "UPSTREAM_ERROR", "Backend unreachable", err.Error())
		return
	}
	if status < 200 || status >= 300 {
		c.JSON(status, gin.H{"success": false, "error": string(raw)})
		return
	}

	var parsed map[string]any
	if err := json.Unmarshal(raw, &parsed); err != nil {
		c.JSON(http.StatusOK, gin.H{"success": true, "url": string(raw)})
		return
	}
	c.Data(status, "application/json", raw)
}

func stringSlice(v any) []string {
	raw, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, item := range raw {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}
