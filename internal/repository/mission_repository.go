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

// MissionRepository manages missions and their completion logs.
type MissionRepository struct {
	db *sqlx.DB
}

// NewMissionRepository constructs a MissionRepository.
func NewMissionRepository(db *sqlx.DB) *MissionRepository {
	return &MissionRepository{db: db}
}

const missionColumns = "id, week, type, title, content, points, is_active, starts_at, ends_at, created_at, updated_at"

// List returns missions matching the filter, ordered by week then start date.
func (r *MissionRepository) List(ctx context.Context, filter models.MissionFilter) ([]models.Mission, int, error) {
	base := "FROM missions"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if filter.Week != nil {
		conditions = append(conditions, fmt.Sprintf("week = $%d", len(args)+1))
		args = append(args, *filter.Week)
	}
	if filter.ActiveOnly {
		conditions = append(conditions, "is_active = true")
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

	query := fmt.Sprintf("SELECT %s %s ORDER BY week ASC, starts_at ASC LIMIT %d OFFSET %d", missionColumns, base, size, offset)
	var missions []models.Mission
	if err := r.db.SelectContext(ctx, &missions, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list missions: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", base)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count missions: %w", err)
	}
	return missions, total, nil
}

// FindByID fetches a mission.
func (r *MissionRepository) FindByID(ctx context.Context, id string) (*models.Mission, error) {
	query := fmt.Sprintf("SELECT %s FROM missions WHERE id = $1", missionColumns)
	var mission models.Mission
	if err := r.db.GetContext(ctx, &mission, query, id); err != nil {
		return nil, err
	}
	return &mission, nil
}

// Create inserts a mission.
func (r *MissionRepository) Create(ctx context.Context, mission *models.Mission) error {
	if mission.ID == "" {
		mission.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if mission.CreatedAt.IsZero() {
		mission.CreatedAt = now
	}
	mission.UpdatedAt = now
	const query = `INSERT INTO missions (id, week, type, title, content, points, is_active, starts_at, ends_at, created_at, updated_at)
        VALUES (:id, :week, :type, :title, :content, :points, :is_active, :starts_at, :ends_at, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, mission); err != nil {
		return fmt.Errorf("create mission: %w", err)
	}
	return nil
}

// Update modifies a mission.
func (r *MissionRepository) Update(ctx context.Context, mission *models.Mission) error {
	mission.UpdatedAt = time.Now().UTC()
	const query = `UPDATE missions SET week = :week, type = :type, title = :title, content = :content, points = :points, is_active = :is_active, starts_at = :starts_at, ends_at = :ends_at, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, mission); err != nil {
		return fmt.Errorf("update mission: %w", err)
	}
	return nil
}

// Delete removes a mission.
func (r *MissionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM missions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete mission: %w", err)
	}
	return nil
}

// CreateLog records a completion. The unique index on
// (student_id, mission_id) guarantees at most one per pair.
func (r *MissionRepository) CreateLog(ctx context.Context, log *models.MissionLog) error {
	if log.ID == "" {
		log.ID = uuid.NewString()
	}
	if log.CompletedAt.IsZero() {
		log.CompletedAt = time.Now().UTC()
	}
	const query = `INSERT INTO mission_logs (id, student_id, mission_id, completed_at)
        VALUES (:id, :student_id, :mission_id, :completed_at)`
	if _, err := r.db.NamedExecContext(ctx, query, log); err != nil {
		return fmt.Errorf("create mission log: %w", err)
	}
	return nil
}

// ListLogsByStudent returns a student's completions, newest first.
func (r *MissionRepository) ListLogsByStudent(ctx context.Context, studentID string) ([]models.MissionLog, error) {
	const query = `SELECT id, student_id, mission_id, completed_at FROM mission_logs WHERE student_id = $1 ORDER BY completed_at DESC`
	var logs []models.MissionLog
	if err := r.db.SelectContext(ctx, &logs, query, studentID); err != nil {
		return nil, fmt.Errorf("list mission logs: %w", err)
	}
	return logs, nil
}
