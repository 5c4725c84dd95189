package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/bmc-class/bmc-api/internal/models"
)

// VODRepository manages lecture assignments and homework submissions.
type VODRepository struct {
	db *sqlx.DB
}

// NewVODRepository constructs a VODRepository.
func NewVODRepository(db *sqlx.DB) *VODRepository {
	return &VODRepository{db: db}
}

// ListAssignments returns assignments ordered by week.
func (r *VODRepository) ListAssignments(ctx context.Context) ([]models.VODAssignment, error) {
	const query = `SELECT id, week, title, video_url, due_date, created_at, updated_at FROM vod_assignments ORDER BY week ASC`
	var assignments []models.VODAssignment
	if err := r.db.SelectContext(ctx, &assignments, query); err != nil {
		return nil, fmt.Errorf("list vod assignments: %w", err)
	}
	return assignments, nil
}

// FindAssignment fetches an assignment.
func (r *VODRepository) FindAssignment(ctx context.Context, id string) (*models.VODAssignment, error) {
	const query = `SELECT id, week, title, video_url, due_date, created_at, updated_at FROM vod_assignments WHERE id = $1`
	var assignment models.VODAssignment
	if err := r.db.GetContext(ctx, &assignment, query, id); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// CreateAssignment inserts an assignment.
func (r *VODRepository) CreateAssignment(ctx context.Context, assignment *models.VODAssignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = now
	}
	assignment.UpdatedAt = now
	const query = `INSERT INTO vod_assignments (id, week, title, video_url, due_date, created_at, updated_at)
        VALUES (:id, :week, :title, :video_url, :due_date, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create vod assignment: %w", err)
	}
	return nil
}

// UpdateAssignment modifies an assignment.
func (r *VODRepository) UpdateAssignment(ctx context.Context, assignment *models.VODAssignment) error {
	assignment.UpdatedAt = time.Now().UTC()
	const query = `UPDATE vod_assignments SET week = :week, title = :title, video_url = :video_url, due_date = :due_date, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("update vod assignment: %w", err)
	}
	return nil
}

// DeleteAssignment removes an assignment.
func (r *VODRepository) DeleteAssignment(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM vod_assignments WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete vod assignment: %w", err)
	}
	return nil
}

const submissionColumns = "id, student_id, assignment_id, content, post_url, feedback, feedback_at, points_awarded, created_at, updated_at"

// CreateSubmission records a homework submission. The unique index on
// (student_id, assignment_id) rejects duplicates.
func (r *VODRepository) CreateSubmission(ctx context.Context, submission *models.VODSubmission) error {
	if submission.ID == "" {
		submission.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if submission.CreatedAt.IsZero() {
		submission.CreatedAt = now
	}
	submission.UpdatedAt = now
	const query = `INSERT INTO vod_submissions (id, student_id, assignment_id, content, post_url, points_awarded, created_at, updated_at)
        VALUES (:id, :student_id, :assignment_id, :content, :post_url, :points_awarded, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, submission); err != nil {
		return fmt.Errorf("create vod submission: %w", err)
	}
	return nil
}

// FindSubmission fetches a submission.
func (r *VODRepository) FindSubmission(ctx context.Context, id string) (*models.VODSubmission, error) {
	query := fmt.Sprintf("SELECT %s FROM vod_submissions WHERE id = $1", submissionColumns)
	var submission models.VODSubmission
	if err := r.db.GetContext(ctx, &submission, query, id); err != nil {
		return nil, err
	}
	return &submission, nil
}

// ListSubmissions returns submissions for an assignment, or for a student
// when assignmentID is empty.
func (r *VODRepository) ListSubmissions(ctx context.Context, assignmentID, studentID string) ([]models.VODSubmission, error) {
	query := fmt.Sprintf("SELECT %s FROM vod_submissions WHERE 1=1", submissionColumns)
	args := []interface{}{}
	if assignmentID != "" {
		query += fmt.Sprintf(" AND assignment_id = $%d", len(args)+1)
		args = append(args, assignmentID)
	}
	if studentID != "" {
		query += fmt.Sprintf(" AND student_id = $%d", len(args)+1)
		args = append(args, studentID)
	}
	query += " ORDER BY created_at DESC"

	var submissions []models.VODSubmission
	if err := r.db.SelectContext(ctx, &submissions, query, args...); err != nil {
		return nil, fmt.Errorf("list vod submissions: %w", err)
	}
	return submissions, nil
}

// CountPendingFeedback returns submissions still awaiting feedback.
func (r *VODRepository) CountPendingFeedback(ctx context.Context) (int, error) {
	var count int
	const query = `SELECT COUNT(*) FROM vod_submissions WHERE feedback_at IS NULL`
	if err := r.db.GetContext(ctx, &count, query); err != nil {
		return 0, fmt.Errorf("count pending feedback: %w", err)
	}
	return count, nil
}

// SetFeedback stores instructor feedback and the awarded amount. Only rows
// without existing feedback match, making the award single-shot.
func (r *VODRepository) SetFeedback(ctx context.Context, id, feedback string, points int, at time.Time) (bool, error) {
	const query = `UPDATE vod_submissions SET feedback = $2, feedback_at = $3, points_awarded = $4, updated_at = $3 WHERE id = $1 AND feedback_at IS NULL`
	res, err := r.db.ExecContext(ctx, query, id, feedback, at, points)
	if err != nil {
		return false, fmt.Errorf("set feedback: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("set feedback rows: %w", err)
	}
	return affected > 0, nil
}
