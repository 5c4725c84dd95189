package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/bmc-class/bmc-api/internal/models"
	"github.com/bmc-class/bmc-api/internal/service"
	appErrors "github.com/bmc-class/bmc-api/pkg/errors"
	"github.com/bmc-class/bmc-api/pkg/response"
)

// PointHandler wires HTTP endpoints to the point service.
type PointHandler struct {
	service *service.PointService
}

// NewPointHandler creates a new handler.
func NewPointHandler(svc *service.PointService) *PointHandler {
	return &PointHandler{service: svc}
}

// History godoc
// @Summary Point history
// @Description List a student's ledger entries, newest first
// @Tags Points
// @Produce json
// @Param id path string true "Student ID"
// @Param type query string false "Event type filter"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/points [get]
func (h *PointHandler) History(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	filter := models.PointLogFilter{
		StudentID: c.Param("id"),
		Page:      page,
		PageSize:  pageSize,
	}
	if t := c.Query("type"); t != "" {
		filter.Types = []models.PointEventType{models.PointEventType(t)}
	}

	entries, pagination, err := h.service.History(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, pagination)
}

// Adjust godoc
// @Summary Adjust points
// @Description Apply an admin point correction, positive or negative
// @Tags Points
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Param payload body service.AdjustPointsRequest true "Adjustment payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/points/adjust [post]
func (h *PointHandler) Adjust(c *gin.Context) {
	var req service.AdjustPointsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid adjustment payload"))
		return
	}

	result, err := h.service.Adjust(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}

// Reset godoc
// @Summary Reset points
// @Description Zero a student's balance with a balancing ledger entry
// @Tags Points
// @Accept json
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /students/{id}/points/reset [post]
func (h *PointHandler) Reset(c *gin.Context) {
	var payload struct {
		Reason string `json:"reason"`
	}
	_ = c.ShouldBindJSON(&payload)
	if payload.Reason == "" {
		payload.Reason = "관리자 초기화"
	}

	total, err := h.service.Reset(c.Request.Context(), c.Param("id"), payload.Reason)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"total_points": total}, nil)
}

// Audit godoc
// @Summary Audit ledger
// @Description Compare a student's cached total with the ledger sum
// @Tags Points
// @Produce json
// @Param id path string true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/points/audit [get]
func (h *PointHandler) Audit(c *gin.Context) {
	audit, err := h.service.Audit(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, audit, nil)
}
