package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bmc-class/bmc-api/internal/service"
	"github.com/bmc-class/bmc-api/pkg/response"
)

// ExportHandler wires HTTP endpoints to the export service.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler creates a new handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// Leaderboard godoc
// @Summary Export leaderboard
// @Description Download the individual leaderboard as CSV or PDF
// @Tags Exports
// @Produce text/csv
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /exports/leaderboard [get]
func (h *ExportHandler) Leaderboard(c *gin.Context) {
	format := service.ExportFormat(c.DefaultQuery("format", "csv"))

	file, err := h.service.Leaderboard(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+file.Filename)
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// PointHistory godoc
// @Summary Export point history
// @Description Download a student's ledger as CSV or PDF
// @Tags Exports
// @Produce text/csv
// @Param id path string true "Student ID"
// @Param format query string false "csv or pdf" default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Router /exports/students/{id}/points [get]
func (h *ExportHandler) PointHistory(c *gin.Context) {
	format := service.ExportFormat(c.DefaultQuery("format", "csv"))

	file, err := h.service.PointHistory(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", "attachment; filename="+file.Filename)
	c.Data(http.StatusOK, file.ContentType, file.Data)
}
