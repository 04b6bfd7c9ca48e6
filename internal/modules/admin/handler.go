package admin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pipequote/internal/domain"
	"pipequote/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/quotes", h.ListQuotes)
	rg.POST("/quote-action", h.QuoteAction)
}

func (h *Handler) ListQuotes(c *gin.Context) {
	var q ListQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid query parameters")
		return
	}

	res, err := h.service.List(c.Request.Context(), q)
	if err != nil {
		_ = c.Error(err)
		response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to list quotes")
		return
	}

	response.Success(c, http.StatusOK, res)
}

func (h *Handler) QuoteAction(c *gin.Context) {
	var req ActionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing required fields",
			gin.H{"needs": []string{"public_id", "action"}})
		return
	}

	res, err := h.service.Apply(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAction):
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid action",
				gin.H{"allowed": Actions})
		case errors.Is(err, ErrInvalidStatus):
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid status",
				gin.H{"allowed": domain.AllowedStatuses})
		case errors.Is(err, ErrQuoteDeleted):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Quote is deleted; links cannot be regenerated")
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Quote not found")
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to update quote")
		}
		return
	}

	response.Success(c, http.StatusOK, res)
}
