package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-complaint-api/internal/service"
	"github.com/noah-isme/campus-complaint-api/pkg/response"
)

// StatisticsHandler exposes complaint aggregates.
type StatisticsHandler struct {
	service *service.StatisticsService
}

// NewStatisticsHandler creates a new handler.
func NewStatisticsHandler(svc *service.StatisticsService) *StatisticsHandler {
	return &StatisticsHandler{service: svc}
}

// Get godoc
// @Summary Complaint statistics
// @Description Returns complaint counts grouped by status, category, priority and department
// @Tags Statistics
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /statistics [get]
func (h *StatisticsHandler) Get(c *gin.Context) {
	stats, err := h.service.Get(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, stats)
}
