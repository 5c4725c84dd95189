package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/bmc-class/bmc-api/internal/models"
)

// ConsultationRepository manages consultation slots and bookings.
type ConsultationRepository struct {
	db *sqlx.DB
}

// NewConsultationRepository constructs a ConsultationRepository.
func NewConsultationRepository(db *sqlx.DB) *ConsultationRepository {
	return &ConsultationRepository{db: db}
}

// ListSlots returns slots from a given time onward, ascending.
func (r *ConsultationRepository) ListSlots(ctx context.Context, from time.Time) ([]models.ConsultationSlot, error) {
	const query = `SELECT id, starts_at, ends_at, is_open, created_at FROM consultation_slots WHERE starts_at >= $1 ORDER BY starts_at ASC`
	var slots []models.ConsultationSlot
	if err := r.db.SelectContext(ctx, &slots, query, from); err != nil {
		return nil, fmt.Errorf("list slots: %w", err)
	}
	return slots, nil
}

// FindSlot fetches a slot.
func (r *ConsultationRepository) FindSlot(ctx context.Context, id string) (*models.ConsultationSlot, error) {
	const query = `SELECT id, starts_at, ends_at, is_open, created_at FROM consultation_slots WHERE id = $1`
	var slot models.ConsultationSlot
	if err := r.db.GetContext(ctx, &slot, query, id); err != nil {
		return nil, err
	}
	return &slot, nil
}

// CreateSlot inserts a slot.
func (r *ConsultationRepository) CreateSlot(ctx context.Context, slot *models.ConsultationSlot) error {
	if slot.ID == "" {
		slot.ID = uuid.NewString()
	}
	if slot.CreatedAt.IsZero() {
		slot.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO consultation_slots (id, starts_at, ends_at, is_open, created_at)
        VALUES (:id, :starts_at, :ends_at, :is_open, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, slot); err != nil {
		return fmt.Errorf("create slot: %w", err)
	}
	return nil
}

// DeleteSlot removes a slot.
func (r *ConsultationRepository) DeleteSlot(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM consultation_slots WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete slot: %w", err)
	}
	return nil
}

// CreateBooking inserts a booking. A partial unique index over active
// bookings caps each slot at one student.
func (r *ConsultationRepository) CreateBooking(ctx context.Context, booking *models.Consultation) error {
	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = now
	}
	booking.UpdatedAt = now
	if booking.Status == "" {
		booking.Status = models.ConsultationBooked
	}
	const query = `INSERT INTO consultations (id, student_id, slot_id, topic, status, created_at, updated_at)
        VALUES (:id, :student_id, :slot_id, :topic, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, booking); err != nil {
		return fmt.Errorf("create booking: %w", err)
	}
	return nil
}

// FindBooking fetches a booking.
func (r *ConsultationRepository) FindBooking(ctx context.Context, id string) (*models.Consultation, error) {
	const query = `SELECT id, student_id, slot_id, topic, status, created_at, updated_at FROM consultations WHERE id = $1`
	var booking models.Consultation
	if err := r.db.GetContext(ctx, &booking, query, id); err != nil {
		return nil, err
	}
	return &booking, nil
}

// ListBookings returns bookings, optionally filtered by student.
func (r *ConsultationRepository) ListBookings(ctx context.Context, studentID string) ([]models.Consultation, error) {
	query := `SELECT id, student_id, slot_id, topic, status, created_at, updated_at FROM consultations`
	args := []interface{}{}
	if studentID != "" {
		query += " WHERE student_id = $1"
		args = append(args, studentID)
	}
	query += " ORDER BY created_at DESC"

	var bookings []models.Consultation
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

// UpdateBookingStatus transitions a booking.
func (r *ConsultationRepository) UpdateBookingStatus(ctx context.Context, id string, status models.ConsultationStatus) error {
	const query = `UPDATE consultations SET status = $2, updated_at = $3 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, time.Now().UTC()); err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}
	return nil
}
