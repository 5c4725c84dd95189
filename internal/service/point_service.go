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

type pointRepository interface {
	Award(ctx context.Context, entry *models.PointLog) (int, error)
	Reset(ctx context.Context, studentID, reason string) (int, error)
	List(ctx context.Context, filter models.PointLogFilter) ([]models.PointLog, int, error)
	SumForStudent(ctx context.Context, studentID string) (int, error)
}

type pointStudentRepository interface {
	FindByID(ctx context.Context, id string) (*models.Student, error)
}

// AdjustPointsRequest is an admin point correction.
type AdjustPointsRequest struct {
	Points int    `json:"points" validate:"required"`
	Reason string `json:"reason" validate:"required"`
}

// AwardResult reports the appended entry and the new running total.
type AwardResult struct {
	Entry    models.PointLog `json:"entry"`
	NewTotal int             `json:"new_total"`
}

// LedgerAudit compares the cached total with the ledger sum.
type LedgerAudit struct {
	StudentID   string `json:"student_id"`
	TotalPoints int    `json:"total_points"`
	LedgerSum   int    `json:"ledger_sum"`
	Consistent  bool   `json:"consistent"`
}

// PointService owns the point ledger use-cases.
type PointService struct {
	repo      pointRepository
	students  pointStudentRepository
	table     rules.AwardTable
	validator *validator.Validate
	logger    *zap.Logger
}

// NewPointService constructs the point service.
func NewPointService(repo pointRepository, students pointStudentRepository, table rules.AwardTable, validate *validator.Validate, logger *zap.Logger) *PointService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PointService{repo: repo, students: students, table: table, validator: validate, logger: logger}
}

// Table exposes the configured award amounts.
func (s *PointService) Table() rules.AwardTable {
	return s.table
}

// Award appends a typed ledger entry using the configured amount and
// returns the new running total.
func (s *PointService) Award(ctx context.Context, studentID string, event models.PointEventType, reason string) (*AwardResult, error) {
	return s.AwardAmount(ctx, studentID, s.table.Amount(event), event, reason)
}

// AwardAmount appends a ledger entry with an explicit signed amount.
func (s *PointService) AwardAmount(ctx context.Context, studentID string, points int, event models.PointEventType, reason string) (*AwardResult, error) {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}

	entry := &models.PointLog{
		StudentID: studentID,
		Points:    points,
		Reason:    reason,
		Type:      event,
	}
	newTotal, err := s.repo.Award(ctx, entry)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to award points")
	}
	return &AwardResult{Entry: *entry, NewTotal: newTotal}, nil
}

// Adjust applies an admin correction, positive or negative.
func (s *PointService) Adjust(ctx context.Context, studentID string, req AdjustPointsRequest) (*AwardResult, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid adjustment payload")
	}
	return s.AwardAmount(ctx, studentID, req.Points, models.PointEventAdminAdjust, req.Reason)
}

// Reset zeroes a student's total. The repository appends a balancing
// negative entry so the ledger keeps summing to the stored total.
func (s *PointService) Reset(ctx context.Context, studentID, reason string) (int, error) {
	if _, err := s.students.FindByID(ctx, studentID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	if reason == "" {
		reason = "points reset"
	}
	previous, err := s.repo.Reset(ctx, studentID, reason)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reset points")
	}
	return previous, nil
}

// History lists ledger entries.
func (s *PointService) History(ctx context.Context, filter models.PointLogFilter) ([]models.PointLog, *models.Pagination, error) {
	entries, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list point history")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 20
	}
	return entries, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Audit verifies that a student's stored total equals their ledger sum.
func (s *PointService) Audit(ctx context.Context, studentID string) (*LedgerAudit, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "student not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	sum, err := s.repo.SumForStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sum ledger")
	}
	return &LedgerAudit{
		StudentID:   studentID,
		TotalPoints: student.TotalPoints,
		LedgerSum:   sum,
		Consistent:  student.TotalPoints == sum,
	}, nil
}
