package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/bmc-class/bmc-api/internal/models"
	"github.com/bmc-class/bmc-api/internal/rules"
	appErrors "github.com/bmc-class/bmc-api/pkg/errors"
)

type studentRepository interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, int, error)
	FindByID(ctx context.Context, id string) (*models.Student, error)
	ExistsByPhone(ctx context.Context, phone string, excludeID string) (bool, error)
	Update(ctx context.Context, student *models.Student) error
	UpdatePostCount(ctx context.Context, id string, postCount, treeLevel int) error
	ClearTeamLeader(ctx context.Context, team string) error
	Delete(ctx context.Context, id string) error
}

// UpdateStudentRequest holds the admin-editable student fields.
type UpdateStudentRequest struct {
	Name      string           `json:"name" validate:"required"`
	Phone     string           `json:"phone" validate:"required,min=10"`
	ClassType models.ClassType `json:"class_type" validate:"required,oneof=ONLINE OFFLINE"`
	Team      *string          `json:"team"`
	IsLeader  bool             `json:"is_leader"`
	Active    bool             `json:"active"`
}

// UpdatePostCountRequest sets a student's cumulative qualifying post count.
type UpdatePostCountRequest struct {
	PostCount int `json:"post_count" validate:"min=0"`
}

// StudentService handles student management use-cases.
type StudentService struct {
	repo      studentRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs the student service.
func NewStudentService(repo studentRepository, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, validator: validate, logger: logger}
}

// List returns students and pagination metadata.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, *models.Pagination, error) {
	students, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	pagination := &models.Pagination{Page: page, PageSize: size, TotalCount: total}
	return students, pagination, nil
}

// Get returns a student.
func (s *StudentService) Get(ctx context.Context, id string) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// Update applies admin edits. Promoting a leader demotes the team's current
// leader first, keeping at most one leader per team.
func (s *StudentService) Update(ctx context.Context, id string, req UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}

	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	exists, err := s.repo.ExistsByPhone(ctx, req.Phone, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to validate phone")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "phone already registered")
	}

	if req.IsLeader && req.Team != nil && *req.Team != "" {
		if err := s.repo.ClearTeamLeader(ctx, *req.Team); err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to clear team leader")
		}
	}

	student.Name = req.Name
	student.Phone = req.Phone
	student.ClassType = req.ClassType
	student.Team = req.Team
	student.IsLeader = req.IsLeader && req.Team != nil && *req.Team != ""
	student.Active = req.Active
	if err := s.repo.Update(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	return student, nil
}

// SetPostCount stores a new post count and the growth level derived from it.
func (s *StudentService) SetPostCount(ctx context.Context, id string, req UpdatePostCountRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid post count payload")
	}

	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	level, err := rules.ResolveTreeLevel(req.PostCount)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdatePostCount(ctx, id, req.PostCount, level.Level); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update post count")
	}
	student.PostCount = req.PostCount
	student.TreeLevel = level.Level
	return student, nil
}

// TreeLevel resolves the growth level for a student's current post count.
func (s *StudentService) TreeLevel(ctx context.Context, id string) (*rules.TreeLevel, error) {
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	level, err := rules.ResolveTreeLevel(student.PostCount)
	if err != nil {
		return nil, err
	}
	return &level, nil
}

// Delete removes a student permanently.
func (s *StudentService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	return nil
}
