package servicem8

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"pipequote/internal/pkg/response"
)

type Handler struct {
	client *Client
}

func NewHandler(client *Client) *Handler {
	return &Handler{client: client}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/servicem8/job", h.GetJobData)
}

func (h *Handler) GetJobData(c *gin.Context) {
	jobNumber := c.Query("jobNumber")
	if jobNumber == "" {
		response.Error(c, http.StatusBadRequest, "VALIDATION_ERROR", "jobNumber is required")
		return
	}

	data, err := h.client.JobData(c.Request.Context(), jobNumber)
	if err != nil {
		if errors.Is(err, ErrJobNotFound) {
			response.Error(c, http.StatusNotFound, "NOT_FOUND", "Job not found")
			return
		}
		// upstream detail stays in the server log, never in the response
		_ = c.Error(err)
		response.Error(c, http.StatusBadGateway, "UPSTREAM_ERROR", "Failed to fetch job data")
		return
	}

	response.Success(c, http.StatusOK, data)
}
