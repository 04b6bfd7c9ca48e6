package video

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
	rg.POST("/video/create-upload", h.CreateUpload)
}

type createUploadRequest struct {
	PublicID    string `json:"public_id" binding:"required"`
	PublicToken string `json:"public_token" binding:"required"`
	CreatedBy   string `json:"created_by"`
}

func (h *Handler) CreateUpload(c *gin.Context) {
	var req createUploadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.ErrorWithDetails(c, http.StatusBadRequest, "VALIDATION_ERROR", "Missing required fields",
			gin.H{"needs": []string{"public_id", "public_token"}})
		return
	}

	res, err := h.service.CreateUpload(c.Request.Context(), req.PublicID, req.PublicToken, req.CreatedBy)
	if err != nil {
		switch {
		case errors.Is(err, ErrQuoteNotFound):
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Quote not found")
		case errors.Is(err, ErrNotConfigured):
			_ = c.Error(err)
			response.Error(c, http.StatusInternalServerError, "INTERNAL_ERROR", "Video uploads are not configured")
		default:
			_ = c.Error(err)
			response.Error(c, http.StatusBadGateway, "UPSTREAM_ERROR", "Failed to create upload")
		}
		return
	}

	response.Success(c, http.StatusOK, res)
}
