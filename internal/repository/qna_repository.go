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

// QnARepository manages student questions and admin answers.
type QnARepository struct {
	db *sqlx.DB
}

// NewQnARepository constructs a QnARepository.
func NewQnARepository(db *sqlx.DB) *QnARepository {
	return &QnARepository{db: db}
}

const qnaColumns = "id, student_id, title, question, answer, answered_by, answered_at, status, is_private, created_at, updated_at"

// List returns questions matching the filter, newest first.
func (r *QnARepository) List(ctx context.Context, filter models.QnAFilter) ([]models.QnA, int, error) {
	base := "FROM qna"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.StudentID != "" {
		conditions = append(conditions, fmt.Sprintf("student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.Status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, filter.Status)
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY created_at DESC LIMIT %d OFFSET %d", qnaColumns, base, size, offset)
	var questions []models.QnA
	if err := r.db.SelectContext(ctx, &questions, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list qna: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count qna: %w", err)
	}
	return questions, total, nil
}

// FindByID fetches a question.
func (r *QnARepository) FindByID(ctx context.Context, id string) (*models.QnA, error) {
	query := fmt.Sprintf("SELECT %s FROM qna WHERE id = $1", qnaColumns)
	var q models.QnA
	if err := r.db.GetContext(ctx, &q, query, id); err != nil {
		return nil, err
	}
	return &q, nil
}

// Create inserts a question.
func (r *QnARepository) Create(ctx context.Context, q *models.QnA) error {
	if q.ID == "" {
		q.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if q.CreatedAt.IsZero() {
		q.CreatedAt = now
	}
	q.UpdatedAt = now
	if q.Status == "" {
		q.Status = models.QnAStatusOpen
	}
	const query = `INSERT INTO qna (id, student_id, title, question, status, is_private, created_at, updated_at)
        VALUES (:id, :student_id, :title, :question, :status, :is_private, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, q); err != nil {
		return fmt.Errorf("create qna: %w", err)
	}
	return nil
}

// Answer stores the admin reply and flips status.
func (r *QnARepository) Answer(ctx context.Context, id, answer, answeredBy string, at time.Time) error {
	const query = `UPDATE qna SET answer = $2, answered_by = $3, answered_at = $4, status = $5, updated_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, answer, answeredBy, at, models.QnAStatusAnswered); err != nil {
		return fmt.Errorf("answer qna: %w", err)
	}
	return nil
}

// Delete removes a question.
func (r *QnARepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM qna WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete qna: %w", err)
	}
	return nil
}

// CountOpen returns the number of unanswered questions.
func (r *QnARepository) CountOpen(ctx context.Context) (int, error) {
	var count int
	const query = `SELECT COUNT(*) FROM qna WHERE status = $1`
	if err := r.db.GetContext(ctx, &count, query, models.QnAStatusOpen); err != nil {
		return 0, fmt.Errorf("count open qna: %w", err)
	}
	return count, nil
}
