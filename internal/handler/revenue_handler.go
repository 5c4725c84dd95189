package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bmc-class/bmc-api/internal/models"
	"github.com/bmc-class/bmc-api/internal/service"
	appErrors "github.com/bmc-class/bmc-api/pkg/errors"
	"github.com/bmc-class/bmc-api/pkg/response"
)

// RevenueHandler wires HTTP endpoints to the revenue service.
type RevenueHandler struct {
	service *service.RevenueService
}

// NewRevenueHandler creates a new handler.
func NewRevenueHandler(svc *service.RevenueService) *RevenueHandler {
	return &RevenueHandler{service: svc}
}

// List godoc
// @Summary List revenue proofs
// @Description Admins see all proofs, students their own
// @Tags Revenue
// @Produce json
// @Param status query string false "PENDING, APPROVED or REJECTED"
// @Success 200 {object} response.Envelope
// @Router /revenue-proofs [get]
func (h *RevenueHandler) List(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	studentID := claims.StudentID
	if claims.Role == models.RoleAdmin {
		studentID = c.Query("student_id")
	}

	proofs, err := h.service.List(c.Request.Context(), studentID, models.RevenueProofStatus(c.Query("status")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, proofs, nil)
}

// Submit godoc
// @Summary Submit revenue proof
// @Tags Revenue
// @Accept json
// @Produce json
// @Param payload body service.SubmitProofRequest true "Proof payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /revenue-proofs [post]
func (h *RevenueHandler) Submit(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.SubmitProofRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid proof payload"))
		return
	}

	proof, err := h.service.Submit(c.Request.Context(), claims.StudentID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, proof)
}

// Review godoc
// @Summary Review revenue proof
// @Description Approve or reject a pending proof; approval awards points once
// @Tags Revenue
// @Accept json
// @Produce json
// @Param id path string true "Proof ID"
// @Param payload body service.ReviewProofRequest true "Review payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /revenue-proofs/{id}/review [post]
func (h *RevenueHandler) Review(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.ReviewProofRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid review payload"))
		return
	}

	proof, err := h.service.Review(c.Request.Context(), c.Param("id"), claims.StudentID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, proof, nil)
}
