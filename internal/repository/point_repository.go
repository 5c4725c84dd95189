package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/bmc-class/bmc-api/internal/models"
)

// PointRepository manages the append-only point ledger and the cached
// running total on students.
type PointRepository struct {
	db *sqlx.DB
}

// NewPointRepository constructs a PointRepository.
func NewPointRepository(db *sqlx.DB) *PointRepository {
	return &PointRepository{db: db}
}

// Award applies a signed point amount atomically and appends the ledger
// entry in the same transaction. The increment is a single SQL add so
// concurrent awards to one student cannot lose updates.
func (r *PointRepository) Award(ctx context.Context, entry *models.PointLog) (int, error) {
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now().UTC()
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin award: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var newTotal int
	const updateQuery = `UPDATE students SET total_points = total_points + $2, updated_at = $3 WHERE id = $1 RETURNING total_points`
	if err := tx.GetContext(ctx, &newTotal, updateQuery, entry.StudentID, entry.Points, time.Now().UTC()); err != nil {
		return 0, fmt.Errorf("increment total points: %w", err)
	}

	const insertQuery = `INSERT INTO point_logs (id, student_id, points, reason, type, created_at)
        VALUES (:id, :student_id, :points, :reason, :type, :created_at)`
	if _, err := tx.NamedExecContext(ctx, insertQuery, entry); err != nil {
		return 0, fmt.Errorf("append point log: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit award: %w", err)
	}
	return newTotal, nil
}

// Reset zeroes a student's total while appending a balancing negative entry,
// keeping the ledger sum equal to the stored total.
func (r *PointRepository) Reset(ctx context.Context, studentID, reason string) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin reset: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var current int
	if err := tx.GetContext(ctx, &current, `SELECT total_points FROM students WHERE id = $1 FOR UPDATE`, studentID); err != nil {
		return 0, fmt.Errorf("lock student total: %w", err)
	}

	if current != 0 {
		entry := &models.PointLog{
			ID:        uuid.NewString(),
			StudentID: studentID,
			Points:    -current,
			Reason:    reason,
			Type:      models.PointEventReset,
			CreatedAt: time.Now().UTC(),
		}
		const insertQuery = `INSERT INTO point_logs (id, student_id, points, reason, type, created_at)
            VALUES (:id, :student_id, :points, :reason, :type, :created_at)`
		if _, err := tx.NamedExecContext(ctx, insertQuery, entry); err != nil {
			return 0, fmt.Errorf("append balancing entry: %w", err)
		}
		if _, err := tx.ExecContext(ctx, `UPDATE students SET total_points = 0, updated_at = $2 WHERE id = $1`, studentID, time.Now().UTC()); err != nil {
			return 0, fmt.Errorf("zero total points: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit reset: %w", err)
	}
	return current, nil
}

// List returns ledger entries matching the filter, newest first.
func (r *PointRepository) List(ctx context.Context, filter models.PointLogFilter) ([]models.PointLog, int, error) {
	base := "FROM point_logs"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if len(filter.Types) > 0 {
		placeholders := make([]string, 0, len(filter.Types))
		for _, t := range filter.Types {
			placeholders = append(placeholders, fmt.Sprintf("$%d", len(args)+1))
			args = append(args, t)
		}
		conditions = append(conditions, fmt.Sprintf("type IN (%s)", strings.Join(placeholders, ", ")))
	}

	base = fmt.Sprintf("%s WHERE %s", base, strings.Join(conditions, " AND "))

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 100 {
		size = 20
	}
	offset := (page - 1) * size

	query := fmt.Sprintf("SELECT id, student_id, points, reason, type, created_at %s ORDER BY created_at DESC LIMIT %d OFFSET %d", base, size, offset)
	var entries []models.PointLog
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list point logs: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count point logs: %w", err)
	}
	return entries, total, nil
}

// SumForStudent returns the ledger sum for a student. Used to audit the
// cached total against the append-only log.
func (r *PointRepository) SumForStudent(ctx context.Context, studentID string) (int, error) {
	var sum int
	const query = `SELECT COALESCE(SUM(points), 0) FROM point_logs WHERE student_id = $1`
	if err := r.db.GetContext(ctx, &sum, query, studentID); err != nil {
		return 0, fmt.Errorf("sum point logs: %w", err)
	}
	return sum, nil
}
