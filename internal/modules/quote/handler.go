package quote

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"pipequote/internal/pkg/response"
)

// maxBodyBytes caps quote submissions; payload snapshots are stored verbatim.
const maxBodyBytes = 1 << 20

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/quotes", h.Generate)
}

func (h *Handler) Generate(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, maxBodyBytes))
	if err != nil || !json.Valid(raw) {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body")
		return
	}

	res, err := h.service.Generate(c.Request.Context(), raw)
	if err != nil {
		var verr *ValidationError
		switch {
		case errors.As(err, &verr):
			response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing required fields", verr.Fields)
		case errors.Is(err, ErrInvalidBody):
			response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid JSON body")
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Failed to save quote")
		}
		return
	}

	response.Success(c, http.StatusOK, res)
}
