package relay

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pipequote/internal/pkg/response"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/quotes/:public_id/send", h.Send)
}

func (h *Handler) Send(c *gin.Context) {
	publicID := c.Param("public_id")

	if err := h.service.Send(c.Request.Context(), publicID); err != nil {
		switch {
		case errors.Is(err, ErrQuoteNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Quote not found")
		case errors.Is(err, ErrNotConfigured):
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Webhook is not configured")
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusBadGateway, "UPSTREAM_ERROR", "Failed to send quote")
		}
		return
	}

	response.Success(c, http.StatusOK, gin.H{"sent": true})
}
