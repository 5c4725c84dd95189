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

// MissionHandler wires HTTP endpoints to the mission service.
type MissionHandler struct {
	service *service.MissionService
}

// NewMissionHandler creates a new handler.
func NewMissionHandler(svc *service.MissionService) *MissionHandler {
	return &MissionHandler{service: svc}
}

// List godoc
// @Summary List missions
// @Tags Missions
// @Produce json
// @Param week query int false "Week filter"
// @Param active query bool false "Active only"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /missions [get]
func (h *MissionHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	filter := models.MissionFilter{
		ActiveOnly: c.Query("active") == "true",
		Page:       page,
		PageSize:   pageSize,
	}
	if w := c.Query("week"); w != "" {
		if week, err := strconv.Atoi(w); err == nil {
			filter.Week = &week
		}
	}

	missions, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, missions, &models.Pagination{Page: page, PageSize: pageSize, TotalCount: total})
}

// Get godoc
// @Summary Get mission
// @Tags Missions
// @Produce json
// @Param id path string true "Mission ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /missions/{id} [get]
func (h *MissionHandler) Get(c *gin.Context) {
	mission, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mission, nil)
}

// Create godoc
// @Summary Create mission
// @Tags Missions
// @Accept json
// @Produce json
// @Param payload body service.CreateMissionRequest true "Mission payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /missions [post]
func (h *MissionHandler) Create(c *gin.Context) {
	var req service.CreateMissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid mission payload"))
		return
	}

	mission, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, mission)
}

// Update godoc
// @Summary Update mission
// @Tags Missions
// @Accept json
// @Produce json
// @Param id path string true "Mission ID"
// @Param payload body service.UpdateMissionRequest true "Mission payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /missions/{id} [put]
func (h *MissionHandler) Update(c *gin.Context) {
	var req service.UpdateMissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid mission payload"))
		return
	}

	mission, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, mission, nil)
}

// Delete godoc
// @Summary Delete mission
// @Tags Missions
// @Param id path string true "Mission ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /missions/{id} [delete]
func (h *MissionHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Complete godoc
// @Summary Complete mission
// @Description Record the authenticated student's completion and award points
// @Tags Missions
// @Produce json
// @Param id path string true "Mission ID"
// @Success 201 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /missions/{id}/complete [post]
func (h *MissionHandler) Complete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	result, err := h.service.Complete(c.Request.Context(), claims.StudentID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, result, nil)
}

// MyCompletions godoc
// @Summary My mission completions
// @Tags Missions
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /missions/me [get]
func (h *MissionHandler) MyCompletions(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	logs, err := h.service.Completions(c.Request.Context(), claims.StudentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logs, nil)
}
