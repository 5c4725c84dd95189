package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/bmc-class/bmc-api/internal/models"
	"github.com/bmc-class/bmc-api/internal/rules"
	appErrors "github.com/bmc-class/bmc-api/pkg/errors"
)

type scheduleRepository interface {
	List(ctx context.Context) ([]models.ScheduleEntry, error)
	FindByID(ctx context.Context, id string) (*models.ScheduleEntry, error)
	Create(ctx context.Context, entry *models.ScheduleEntry) error
	Update(ctx context.Context, entry *models.ScheduleEntry) error
	Delete(ctx context.Context, id string) error
}

// CreateScheduleRequest is the admin payload for a schedule entry.
type CreateScheduleRequest struct {
	Week  int       `json:"week" validate:"required,min=1"`
	Title string    `json:"title" validate:"required,max=200"`
	Date  time.Time `json:"date" validate:"required"`
}

// UpdateScheduleRequest carries partial schedule edits.
type UpdateScheduleRequest struct {
	Week  *int       `json:"week" validate:"omitempty,min=1"`
	Title *string    `json:"title" validate:"omitempty,max=200"`
	Date  *time.Time `json:"date"`
}

// ScheduleOverview is the student-facing view of the curriculum: the
// entries, which week is running, and the countdown to the next class.
type ScheduleOverview struct {
	Entries     []models.ScheduleEntry `json:"entries"`
	CurrentWeek int                    `json:"current_week"`
	NextClass   *models.ScheduleEntry  `json:"next_class,omitempty"`
	DDay        string                 `json:"d_day,omitempty"`
}

// ScheduleService exposes the curriculum calendar.
type ScheduleService struct {
	repo     scheduleRepository
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
}

// NewScheduleService constructs the schedule service.
func NewScheduleService(repo scheduleRepository, validate *validator.Validate, logger *zap.Logger) *ScheduleService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScheduleService{repo: repo, validate: validate, logger: logger, now: time.Now}
}

// List returns all entries in date order.
func (s *ScheduleService) List(ctx context.Context) ([]models.ScheduleEntry, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list schedule")
	}
	return entries, nil
}

// Overview derives the current week and next-class countdown from the
// schedule, evaluated against today's KST date.
func (s *ScheduleService) Overview(ctx context.Context) (*ScheduleOverview, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	today := rules.DateOnly(s.now())

	overview := &ScheduleOverview{
		Entries:     entries,
		CurrentWeek: rules.CurrentWeek(entries, today),
	}
	for i := range entries {
		if !rules.DateOnly(entries[i].Date).Before(today) {
			overview.NextClass = &entries[i]
			overview.DDay = rules.DDay(entries[i].Date, today)
			break
		}
	}
	return overview, nil
}

// CurrentWeek returns the running week, or rules.WeekNotStarted before
// the first class.
func (s *ScheduleService) CurrentWeek(ctx context.Context) (int, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return rules.WeekNotStarted, err
	}
	return rules.CurrentWeek(entries, rules.DateOnly(s.now())), nil
}

// Create registers a schedule entry.
func (s *ScheduleService) Create(ctx context.Context, req CreateScheduleRequest) (*models.ScheduleEntry, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	entry := &models.ScheduleEntry{Week: req.Week, Title: req.Title, Date: req.Date}
	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create schedule entry")
	}
	return entry, nil
}

// Update applies partial edits to an entry.
func (s *ScheduleService) Update(ctx context.Context, id string, req UpdateScheduleRequest) (*models.ScheduleEntry, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid schedule payload")
	}
	entry, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch schedule entry")
	}
	if req.Week != nil {
		entry.Week = *req.Week
	}
	if req.Title != nil {
		entry.Title = *req.Title
	}
	if req.Date != nil {
		entry.Date = *req.Date
	}
	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update schedule entry")
	}
	return entry, nil
}

// Delete removes an entry.
func (s *ScheduleService) Delete(ctx context.Context, id string) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "schedule entry not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch schedule entry")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete schedule entry")
	}
	return nil
}
