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
	"github.com/bmc-class/bmc-api/internal/rules"
	appErrors "github.com/bmc-class/bmc-api/pkg/errors"
)

type missionRepository interface {
	List(ctx context.Context, filter models.MissionFilter) ([]models.Mission, int, error)
	FindByID(ctx context.Context, id string) (*models.Mission, error)
	Create(ctx context.Context, mission *models.Mission) error
	Update(ctx context.Context, mission *models.Mission) error
	Delete(ctx context.Context, id string) error
	CreateLog(ctx context.Context, log *models.MissionLog) error
	ListLogsByStudent(ctx context.Context, studentID string) ([]models.MissionLog, error)
}

type missionPointAwarder interface {
	AwardAmount(ctx context.Context, studentID string, points int, event models.PointEventType, reason string) (*AwardResult, error)
}

// CreateMissionRequest carries the admin payload for a new mission.
type CreateMissionRequest struct {
	Week     int                `json:"week" validate:"required,min=1"`
	Type     models.MissionType `json:"type" validate:"required,oneof=POST COMMENT SPECIAL"`
	Title    string             `json:"title" validate:"required,max=200"`
	Content  string             `json:"content"`
	Points   int                `json:"points" validate:"min=0"`
	IsActive bool               `json:"is_active"`
	StartsAt time.Time          `json:"starts_at" validate:"required"`
	EndsAt   time.Time          `json:"ends_at" validate:"required,gtfield=StartsAt"`
}

// UpdateMissionRequest carries partial mission edits.
type UpdateMissionRequest struct {
	Week     *int                `json:"week" validate:"omitempty,min=1"`
	Type     *models.MissionType `json:"type" validate:"omitempty,oneof=POST COMMENT SPECIAL"`
	Title    *string             `json:"title" validate:"omitempty,max=200"`
	Content  *string             `json:"content"`
	Points   *int                `json:"points" validate:"omitempty,min=0"`
	IsActive *bool               `json:"is_active"`
	StartsAt *time.Time          `json:"starts_at"`
	EndsAt   *time.Time          `json:"ends_at"`
}

// CompleteMissionResult pairs the log with the points it earned.
type CompleteMissionResult struct {
	Log      models.MissionLog `json:"log"`
	Points   int               `json:"points"`
	NewTotal int               `json:"new_total"`
}

// MissionService covers mission CRUD and completion.
type MissionService struct {
	repo     missionRepository
	points   missionPointAwarder
	rankings *RankingService
	table    rules.AwardTable
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
}

// NewMissionService constructs the mission service.
func NewMissionService(repo missionRepository, points missionPointAwarder, rankings *RankingService, table rules.AwardTable, validate *validator.Validate, logger *zap.Logger) *MissionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MissionService{repo: repo, points: points, rankings: rankings, table: table, validate: validate, logger: logger, now: time.Now}
}

// List returns missions matching the filter.
func (s *MissionService) List(ctx context.Context, filter models.MissionFilter) ([]models.Mission, int, error) {
	missions, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list missions")
	}
	return missions, total, nil
}

// Get fetches a mission by id.
func (s *MissionService) Get(ctx context.Context, id string) (*models.Mission, error) {
	mission, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "mission not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch mission")
	}
	return mission, nil
}

// Create registers a new mission.
func (s *MissionService) Create(ctx context.Context, req CreateMissionRequest) (*models.Mission, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid mission payload")
	}

	points := req.Points
	if points == 0 {
		points = s.table.MissionAmount(req.Week)
	}
	mission := &models.Mission{
		Week:     req.Week,
		Type:     req.Type,
		Title:    req.Title,
		Content:  req.Content,
		Points:   points,
		IsActive: req.IsActive,
		StartsAt: req.StartsAt,
		EndsAt:   req.EndsAt,
	}
	if err := s.repo.Create(ctx, mission); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create mission")
	}
	return mission, nil
}

// Update applies partial edits to a mission.
func (s *MissionService) Update(ctx context.Context, id string, req UpdateMissionRequest) (*models.Mission, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid mission payload")
	}
	mission, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Week != nil {
		mission.Week = *req.Week
	}
	if req.Type != nil {
		mission.Type = *req.Type
	}
	if req.Title != nil {
		mission.Title = *req.Title
	}
	if req.Content != nil {
		mission.Content = *req.Content
	}
	if req.Points != nil {
		mission.Points = *req.Points
	}
	if req.IsActive != nil {
		mission.IsActive = *req.IsActive
	}
	if req.StartsAt != nil {
		mission.StartsAt = *req.StartsAt
	}
	if req.EndsAt != nil {
		mission.EndsAt = *req.EndsAt
	}
	if !mission.EndsAt.After(mission.StartsAt) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "mission must end after it starts")
	}

	if err := s.repo.Update(ctx, mission); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update mission")
	}
	return mission, nil
}

// Delete removes a mission.
func (s *MissionService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete mission")
	}
	return nil
}

// Complete records a student's completion and awards the mission's points.
// Completing the same mission twice is a Conflict from the unique
// (student, mission) index; the mission must be active and inside its window.
func (s *MissionService) Complete(ctx context.Context, studentID, missionID string) (*CompleteMissionResult, error) {
	mission, err := s.Get(ctx, missionID)
	if err != nil {
		return nil, err
	}
	now := s.now()
	if !mission.IsActive {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "mission is not active")
	}
	if now.Before(mission.StartsAt) || now.After(mission.EndsAt) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "mission is outside its completion window")
	}

	log := &models.MissionLog{StudentID: studentID, MissionID: missionID}
	if err := s.repo.CreateLog(ctx, log); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrAlreadyAwarded, "mission already completed")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record completion")
	}

	award, err := s.points.AwardAmount(ctx, studentID, mission.Points, models.PointEventMission, mission.Title)
	if err != nil {
		s.logger.Error("mission award failed", zap.String("student_id", studentID), zap.String("mission_id", missionID), zap.Error(err))
		award = &AwardResult{}
	}
	if s.rankings != nil {
		s.rankings.Invalidate(ctx)
	}

	return &CompleteMissionResult{Log: *log, Points: award.Entry.Points, NewTotal: award.NewTotal}, nil
}

// Completions lists a student's mission logs, newest first.
func (s *MissionService) Completions(ctx context.Context, studentID string) ([]models.MissionLog, error) {
	logs, err := s.repo.ListLogsByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list completions")
	}
	return logs, nil
}
