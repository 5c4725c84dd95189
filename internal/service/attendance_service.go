package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/bmc-class/bmc-api/internal/models"
	"github.com/bmc-class/bmc-api/internal/repository"
	"github.com/bmc-class/bmc-api/internal/rules"
	appErrors "github.com/bmc-class/bmc-api/pkg/errors"
)

type attendanceRepository interface {
	Create(ctx context.Context, record *models.Attendance) error
	ListDates(ctx context.Context, studentID string) ([]time.Time, error)
	CountByStudent(ctx context.Context, studentID string) (int, error)
}

type attendancePointAwarder interface {
	Award(ctx context.Context, studentID string, event models.PointEventType, reason string) (*AwardResult, error)
}

// CheckInResult reports the recorded day, streak and any points awarded.
type CheckInResult struct {
	Date      time.Time `json:"date"`
	Streak    int       `json:"streak"`
	Points    int       `json:"points"`
	NewTotal  int       `json:"new_total"`
	StudentID string    `json:"student_id"`
}

// AttendanceService owns daily check-in use-cases.
type AttendanceService struct {
	repo     attendanceRepository
	points   attendancePointAwarder
	rankings *RankingService
	logger   *zap.Logger
	now      func() time.Time
}

// NewAttendanceService constructs the attendance service.
func NewAttendanceService(repo attendanceRepository, points attendancePointAwarder, rankings *RankingService, logger *zap.Logger) *AttendanceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AttendanceService{repo: repo, points: points, rankings: rankings, logger: logger, now: time.Now}
}

// CheckIn records today's attendance in KST and awards attendance points.
// A second check-in on the same day is a Conflict raised by the store's
// unique index, not an application-level existence check.
func (s *AttendanceService) CheckIn(ctx context.Context, studentID string) (*CheckInResult, error) {
	today := rules.DateOnly(s.now())

	record := &models.Attendance{StudentID: studentID, Date: today}
	if err := s.repo.Create(ctx, record); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "already checked in today")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record attendance")
	}

	award, err := s.points.Award(ctx, studentID, models.PointEventAttendance, "출석 체크")
	if err != nil {
		// Check-in stands even when the award fails; surface in logs only.
		s.logger.Error("attendance award failed", zap.String("student_id", studentID), zap.Error(err))
		award = &AwardResult{}
	}
	if s.rankings != nil {
		s.rankings.Invalidate(ctx)
	}

	dates, err := s.repo.ListDates(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance dates")
	}

	return &CheckInResult{
		StudentID: studentID,
		Date:      today,
		Streak:    rules.Streak(dates, today),
		Points:    award.Entry.Points,
		NewTotal:  award.NewTotal,
	}, nil
}

// Summary reports today's check-in state, streak and lifetime count.
func (s *AttendanceService) Summary(ctx context.Context, studentID string) (*models.AttendanceSummary, error) {
	today := rules.DateOnly(s.now())

	dates, err := s.repo.ListDates(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load attendance dates")
	}
	total, err := s.repo.CountByStudent(ctx, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count attendance")
	}

	checkedToday := false
	for _, d := range dates {
		if rules.DateKey(d) == rules.DateKey(today) {
			checkedToday = true
			break
		}
	}

	return &models.AttendanceSummary{
		StudentID:     studentID,
		CheckedToday:  checkedToday,
		Streak:        rules.Streak(dates, today),
		TotalCheckins: total,
	}, nil
}
