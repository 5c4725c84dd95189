package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/bmc-class/bmc-api/internal/models"
	"github.com/bmc-class/bmc-api/internal/rules"
	appErrors "github.com/bmc-class/bmc-api/pkg/errors"
)

type dashboardStudentRepository interface {
	Snapshot(ctx context.Context) ([]models.Student, error)
}

type dashboardAttendanceRepository interface {
	CountOnDate(ctx context.Context, date time.Time) (int, error)
}

type dashboardQnARepository interface {
	CountOpen(ctx context.Context) (int, error)
}

type dashboardVODRepository interface {
	CountPendingFeedback(ctx context.Context) (int, error)
}

type dashboardRevenueRepository interface {
	List(ctx context.Context, studentID string, status models.RevenueProofStatus) ([]models.RevenueProof, error)
}

// DashboardSummary is the admin home view: headline counts plus the
// current top teams.
type DashboardSummary struct {
	TotalStudents   int                  `json:"total_students"`
	CheckinsToday   int                  `json:"checkins_today"`
	OpenQuestions   int                  `json:"open_questions"`
	PendingFeedback int                  `json:"pending_feedback"`
	PendingProofs   int                  `json:"pending_proofs"`
	CurrentWeek     int                  `json:"current_week"`
	TopTeams        []rules.TeamStanding `json:"top_teams"`
}

// DashboardService aggregates cross-module counts for the admin surface.
type DashboardService struct {
	students   dashboardStudentRepository
	attendance dashboardAttendanceRepository
	qna        dashboardQnARepository
	vod        dashboardVODRepository
	revenue    dashboardRevenueRepository
	schedule   *ScheduleService
	logger     *zap.Logger
	now        func() time.Time
}

// NewDashboardService constructs the dashboard service.
func NewDashboardService(
	students dashboardStudentRepository,
	attendance dashboardAttendanceRepository,
	qna dashboardQnARepository,
	vod dashboardVODRepository,
	revenue dashboardRevenueRepository,
	schedule *ScheduleService,
	logger *zap.Logger,
) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		students:   students,
		attendance: attendance,
		qna:        qna,
		vod:        vod,
		revenue:    revenue,
		schedule:   schedule,
		logger:     logger,
		now:        time.Now,
	}
}

// Summary assembles the admin dashboard counts.
func (s *DashboardService) Summary(ctx context.Context) (*DashboardSummary, error) {
	students, err := s.students.Snapshot(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load students")
	}

	today := rules.DateOnly(s.now())
	checkins, err := s.attendance.CountOnDate(ctx, today)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count check-ins")
	}
	openQuestions, err := s.qna.CountOpen(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count open questions")
	}
	pendingFeedback, err := s.vod.CountPendingFeedback(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count pending feedback")
	}
	pendingProofs, err := s.revenue.List(ctx, "", models.RevenueProofPending)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count pending proofs")
	}

	week := rules.WeekNotStarted
	if s.schedule != nil {
		if week, err = s.schedule.CurrentWeek(ctx); err != nil {
			s.logger.Warn("dashboard week lookup failed", zap.Error(err))
			week = rules.WeekNotStarted
		}
	}

	teams := rules.TeamRanking(students)
	if len(teams) > 3 {
		teams = teams[:3]
	}

	return &DashboardSummary{
		TotalStudents:   len(students),
		CheckinsToday:   checkins,
		OpenQuestions:   openQuestions,
		PendingFeedback: pendingFeedback,
		PendingProofs:   len(pendingProofs),
		CurrentWeek:     week,
		TopTeams:        teams,
	}, nil
}
