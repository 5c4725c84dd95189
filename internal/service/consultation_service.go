package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/bmc-class/bmc-api/internal/models"
	"github.com/bmc-class/bmc-api/internal/repository"
	appErrors "github.com/bmc-class/bmc-api/pkg/errors"
)

type consultationRepository interface {
	ListSlots(ctx context.Context, from time.Time) ([]models.ConsultationSlot, error)
	FindSlot(ctx context.Context, id string) (*models.ConsultationSlot, error)
	CreateSlot(ctx context.Context, slot *models.ConsultationSlot) error
	DeleteSlot(ctx context.Context, id string) error
	CreateBooking(ctx context.Context, booking *models.Consultation) error
	FindBooking(ctx context.Context, id string) (*models.Consultation, error)
	ListBookings(ctx context.Context, studentID string) ([]models.Consultation, error)
	UpdateBookingStatus(ctx context.Context, id string, status models.ConsultationStatus) error
}

// CreateSlotRequest publishes a consultation time slot.
type CreateSlotRequest struct {
	StartsAt time.Time `json:"starts_at" validate:"required"`
	EndsAt   time.Time `json:"ends_at" validate:"required,gtfield=StartsAt"`
	IsOpen   bool      `json:"is_open"`
}

// BookSlotRequest is a student's booking payload.
type BookSlotRequest struct {
	Topic string `json:"topic" validate:"required,max=500"`
}

// ConsultationService manages one-on-one consultation slots and bookings.
type ConsultationService struct {
	repo     consultationRepository
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
}

// NewConsultationService constructs the consultation service.
func NewConsultationService(repo consultationRepository, validate *validator.Validate, logger *zap.Logger) *ConsultationService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConsultationService{repo: repo, validate: validate, logger: logger, now: time.Now}
}

// Slots returns upcoming slots.
func (s *ConsultationService) Slots(ctx context.Context) ([]models.ConsultationSlot, error) {
	slots, err := s.repo.ListSlots(ctx, s.now().UTC())
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list slots")
	}
	return slots, nil
}

// CreateSlot publishes a new slot.
func (s *ConsultationService) CreateSlot(ctx context.Context, req CreateSlotRequest) (*models.ConsultationSlot, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot payload")
	}
	slot := &models.ConsultationSlot{
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
		IsOpen:   req.IsOpen,
	}
	if err := s.repo.CreateSlot(ctx, slot); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create slot")
	}
	return slot, nil
}

// DeleteSlot removes a slot.
func (s *ConsultationService) DeleteSlot(ctx context.Context, id string) error {
	if _, err := s.repo.FindSlot(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "slot not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch slot")
	}
	if err := s.repo.DeleteSlot(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete slot")
	}
	return nil
}

// Book reserves a slot for a student. Capacity is one: a second active
// booking hits the partial unique index and maps to SlotTaken.
func (s *ConsultationService) Book(ctx context.Context, studentID, slotID string, req BookSlotRequest) (*models.Consultation, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking payload")
	}
	slot, err := s.repo.FindSlot(ctx, slotID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "slot not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch slot")
	}
	if !slot.IsOpen {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "slot is closed")
	}
	if slot.StartsAt.Before(s.now().UTC()) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "slot has already started")
	}

	booking := &models.Consultation{
		StudentID: studentID,
		SlotID:    slotID,
		Topic:     req.Topic,
		Status:    models.ConsultationBooked,
	}
	if err := s.repo.CreateBooking(ctx, booking); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrSlotTaken, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create booking")
	}
	return booking, nil
}

// Bookings lists bookings, optionally filtered by student.
func (s *ConsultationService) Bookings(ctx context.Context, studentID string) ([]models.Consultation, error) {
	bookings, err := s.repo.ListBookings(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list bookings")
	}
	return bookings, nil
}

// Cancel releases a booking. Students may cancel only their own; a
// cancelled booking frees the slot for rebooking.
func (s *ConsultationService) Cancel(ctx context.Context, id, viewerID string, viewerRole models.UserRole) error {
	booking, err := s.repo.FindBooking(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "booking not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch booking")
	}
	if viewerRole != models.RoleAdmin && booking.StudentID != viewerID {
		return appErrors.Clone(appErrors.ErrForbidden, "cannot cancel another student's booking")
	}
	if booking.Status != models.ConsultationBooked {
		return appErrors.Clone(appErrors.ErrConflict, "booking is not active")
	}
	if err := s.repo.UpdateBookingStatus(ctx, id, models.ConsultationCancelled); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to cancel booking")
	}
	return nil
}

// Complete marks a booking done.
func (s *ConsultationService) Complete(ctx context.Context, id string) error {
	booking, err := s.repo.FindBooking(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "booking not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch booking")
	}
	if booking.Status != models.ConsultationBooked {
		return appErrors.Clone(appErrors.ErrConflict, "booking is not active")
	}
	if err := s.repo.UpdateBookingStatus(ctx, id, models.ConsultationDone); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to complete booking")
	}
	return nil
}
