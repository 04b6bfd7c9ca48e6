package viewer

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
	rg.GET("/q/:public_id", h.GetQuote)
}

func (h *Handler) GetQuote(c *gin.Context) {
	publicID := c.Param("public_id")
	token := c.Query("t")

	view, err := h.service.Get(c.Request.Context(), publicID, token)
	if err != nil {
		switch {
		case errors.Is(err, ErrDeleted):
			response.Error(c, http.StatusGone, "DELETED", "This quote is no longer available")
		case errors.Is(err, ErrExpired):
			response.Error(c, http.StatusGone, "EXPIRED", "This quote link has expired")
		case errors.Is(err, ErrNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Quote not found")
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to load quote")
		}
		return
	}

	response.Success(c, http.StatusOK, view)
}
