package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/bmc-class/bmc-api/internal/models"
)

// AttendanceRepository manages check-in records.
type AttendanceRepository struct {
	db *sqlx.DB
}

// NewAttendanceRepository constructs an AttendanceRepository.
func NewAttendanceRepository(db *sqlx.DB) *AttendanceRepository {
	return &AttendanceRepository{db: db}
}

// Create inserts a check-in for a calendar day. The unique index on
// (student_id, date) rejects a second check-in on the same day.
func (r *AttendanceRepository) Create(ctx context.Context, record *models.Attendance) error {
	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.CreatedAt.IsZero() {
		record.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO attendance (id, student_id, date, created_at)
        VALUES (:id, :student_id, :date, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, record); err != nil {
		return fmt.Errorf("create attendance: %w", err)
	}
	return nil
}

// ListDates returns every check-in date for a student, ascending.
func (r *AttendanceRepository) ListDates(ctx context.Context, studentID string) ([]time.Time, error) {
	const query = `SELECT date FROM attendance WHERE student_id = $1 ORDER BY date ASC`
	var dates []time.Time
	if err := r.db.SelectContext(ctx, &dates, query, studentID); err != nil {
		return nil, fmt.Errorf("list attendance dates: %w", err)
	}
	return dates, nil
}

// CountByStudent returns the total number of check-ins for a student.
func (r *AttendanceRepository) CountByStudent(ctx context.Context, studentID string) (int, error) {
	var count int
	const query = `SELECT COUNT(*) FROM attendance WHERE student_id = $1`
	if err := r.db.GetContext(ctx, &count, query, studentID); err != nil {
		return 0, fmt.Errorf("count attendance: %w", err)
	}
	return count, nil
}

// CountOnDate returns how many students checked in on a given day.
func (r *AttendanceRepository) CountOnDate(ctx context.Context, date time.Time) (int, error) {
	var count int
	const query = `SELECT COUNT(*) FROM attendance WHERE date = $1`
	if err := r.db.GetContext(ctx, &count, query, date); err != nil {
		return 0, fmt.Errorf("count attendance on date: %w", err)
	}
	return count, nil
}
