package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bmc-class/bmc-api/internal/models"
	"github.com/bmc-class/bmc-api/internal/service"
	appErrors "github.com/bmc-class/bmc-api/pkg/errors"
	"github.com/bmc-class/bmc-api/pkg/response"
)

// ConsultationHandler wires HTTP endpoints to the consultation service.
type ConsultationHandler struct {
	service *service.ConsultationService
}

// NewConsultationHandler creates a new handler.
func NewConsultationHandler(svc *service.ConsultationService) *ConsultationHandler {
	return &ConsultationHandler{service: svc}
}

// Slots godoc
// @Summary List consultation slots
// @Tags Consultations
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /consultations/slots [get]
func (h *ConsultationHandler) Slots(c *gin.Context) {
	slots, err := h.service.Slots(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// CreateSlot godoc
// @Summary Publish consultation slot
// @Tags Consultations
// @Accept json
// @Produce json
// @Param payload body service.CreateSlotRequest true "Slot payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /consultations/slots [post]
func (h *ConsultationHandler) CreateSlot(c *gin.Context) {
	var req service.CreateSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid slot payload"))
		return
	}

	slot, err := h.service.CreateSlot(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, slot)
}

// DeleteSlot godoc
// @Summary Delete consultation slot
// @Tags Consultations
// @Param id path string true "Slot ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /consultations/slots/{id} [delete]
func (h *ConsultationHandler) DeleteSlot(c *gin.Context) {
	if err := h.service.DeleteSlot(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Book godoc
// @Summary Book consultation slot
// @Description Reserve a slot; each slot holds one active booking
// @Tags Consultations
// @Accept json
// @Produce json
// @Param id path string true "Slot ID"
// @Param payload body service.BookSlotRequest true "Booking payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /consultations/slots/{id}/book [post]
func (h *ConsultationHandler) Book(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req service.BookSlotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid booking payload"))
		return
	}

	booking, err := h.service.Book(c.Request.Context(), claims.StudentID, c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, booking)
}

// Bookings godoc
// @Summary List bookings
// @Description Admins see all bookings, students their own
// @Tags Consultations
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /consultations [get]
func (h *ConsultationHandler) Bookings(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	studentID := claims.StudentID
	if claims.Role == models.RoleAdmin {
		studentID = c.Query("student_id")
	}

	bookings, err := h.service.Bookings(c.Request.Context(), studentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, bookings, nil)
}

// Cancel godoc
// @Summary Cancel booking
// @Tags Consultations
// @Param id path string true "Booking ID"
// @Success 204
// @Failure 403 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /consultations/{id} [delete]
func (h *ConsultationHandler) Cancel(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	if err := h.service.Cancel(c.Request.Context(), c.Param("id"), claims.StudentID, claims.Role); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Complete godoc
// @Summary Mark booking done
// @Tags Consultations
// @Param id path string true "Booking ID"
// @Success 204
// @Failure 409 {object} response.Envelope
// @Router /consultations/{id}/complete [post]
func (h *ConsultationHandler) Complete(c *gin.Context) {
	if err := h.service.Complete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
