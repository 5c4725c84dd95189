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

// QnAHandler wires HTTP endpoints to the QnA service.
type QnAHandler struct {
	service *service.QnAService
}

// NewQnAHandler creates a new handler.
func NewQnAHandler(svc *service.QnAService) *QnAHandler {
	return &QnAHandler{service: svc}
}

// List godoc
// @Summary List questions
// @Description Questions newest first; private ones are redacted for others
// @Tags QnA
// @Produce json
// @Param status query string false "OPEN or ANSWERED"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /qna [get]
func (h *QnAHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	filter := models.QnAFilter{
		Status:   models.QnAStatus(c.Query("status")),
		Page:     page,
		PageSize: pageSize,
	}

	questions, total, err := h.service.List(c.Request.Context(), filter, claims.StudentID, claims.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, questions, paginationOf(page, pageSize, total))
}

// Get godoc
// @Summary Get question
// @Tags QnA
// @Produce json
// @Param id path string true "Question ID"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /qna/{id} [get]
func (h *QnAHandler) Get(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	q, err := h.service.Get(c.Request.Context(), c.Param("id"), claims.StudentID, claims.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, q, nil)
}

// Ask godoc
// @Summary Ask question
// @Tags QnA
// @Accept json
// @Produce json
// @Param payload body service.AskRequest true "Question payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /qna [post]
func (h *QnAHandler) Ask(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.AskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid question payload"))
		return
	}

	q, err := h.service.Ask(c.Request.Context(), claims.StudentID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, q)
}

// Answer godoc
// @Summary Answer question
// @Tags QnA
// @Accept json
// @Produce json
// @Param id path string true "Question ID"
// @Param payload body service.AnswerRequest true "Answer payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /qna/{id}/answer [post]
func (h *QnAHandler) Answer(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.AnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid answer payload"))
		return
	}

	q, err := h.service.Answer(c.Request.Context(), c.Param("id"), claims.StudentID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, q, nil)
}

// Delete godoc
// @Summary Delete question
// @Tags QnA
// @Param id path string true "Question ID"
// @Success 204
// @Failure 403 {object} response.Envelope
// @Router /qna/{id} [delete]
func (h *QnAHandler) Delete(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Delete(c.Request.Context(), c.Param("id"), claims.StudentID, claims.Role); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
