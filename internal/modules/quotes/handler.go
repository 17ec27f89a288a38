package quotes

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"maquidash/internal/domain"
	"maquidash/internal/pkg/dates"
	"maquidash/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/cotizaciones", h.List)
	rg.POST("/cotizaciones", h.Create)
	rg.GET("/cotizaciones/:id", h.Get)
	rg.PATCH("/cotizaciones/:id", h.Update)
	rg.DELETE("/cotizaciones/:id", h.Delete)
	rg.GET("/pipeline/board", h.Board)
	rg.POST("/pipeline/move/:id", h.Move)
}

func (h *Handler) List(c *gin.Context) {
	items, err := h.service.Search(c.Request.Context(), c.Query("q"))
	if err != nil {
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list quotes")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"cotizaciones": items})
}

func (h *Handler) Create(c *gin.Context) {
	var req CreateQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Machinery and client name are required")
		return
	}

	q, err := h.service.Create(c.Request.Context(), domain.Quote{
		Code:          req.Code,
		Machinery:     req.Machinery,
		MachineryID:   req.MachineryID,
		ClientName:    req.ClientName,
		ClientCompany: req.ClientCompany,
		ClientEmail:   req.ClientEmail,
		ClientPhone:   req.ClientPhone,
		Status:        domain.QuoteStatus(req.Status),
		Origin:        req.Origin,
		FollowUpAt:    dates.Parse(req.FollowUpAt),
		ClientBudget:  req.ClientBudget,
		QuotedPrice:   req.QuotedPrice,
		Notes:         req.Notes,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidStatus):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid quote")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to create quote")
		}
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"cotizacion": q})
}

func (h *Handler) Get(c *gin.Context) {
	q, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Quote not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load quote")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"cotizacion": q})
}

func (h *Handler) Update(c *gin.Context) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil || len(fields) == 0 {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	err := h.service.Update(c.Request.Context(), c.Param("id"), fields)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Quote not found")
		case errors.Is(err, ErrInvalidStatus):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid quote status")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update quote")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"updated": true})
}

// Delete requires the caller to confirm explicitly; the modal on the client
// side posts ?confirm=true. Deletion is irreversible.
func (h *Handler) Delete(c *gin.Context) {
	if c.Query("confirm") != "true" {
		response.Error(c, http.StatusBadRequest, "CONFIRMATION_REQUIRED", "Deletion must be confirmed")
		return
	}

	err := h.service.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Quote not found")
			return
		}
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to delete quote")
		return
	}
	response.Success(c, http.StatusOK, gin.H{"deleted": true})
}

func (h *Handler) Board(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"columns": boardColumns(h.service.Board())})
}

func (h *Handler) Move(c *gin.Context) {
	var req MoveQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid request body")
		return
	}

	err := h.service.MoveQuote(
		c.Request.Context(),
		c.Param("id"),
		domain.QuoteStatus(req.From),
		domain.QuoteStatus(req.To),
		req.Index,
	)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Quote not on board")
		case errors.Is(err, ErrInvalidStatus):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid pipeline state")
		default:
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to move quote")
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"columns": boardColumns(h.service.Board())})
}
