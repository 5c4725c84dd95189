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

type vodRepository interface {
	ListAssignments(ctx context.Context) ([]models.VODAssignment, error)
	FindAssignment(ctx context.Context, id string) (*models.VODAssignment, error)
	CreateAssignment(ctx context.Context, assignment *models.VODAssignment) error
	UpdateAssignment(ctx context.Context, assignment *models.VODAssignment) error
	DeleteAssignment(ctx context.Context, id string) error
	CreateSubmission(ctx context.Context, submission *models.VODSubmission) error
	FindSubmission(ctx context.Context, id string) (*models.VODSubmission, error)
	ListSubmissions(ctx context.Context, assignmentID, studentID string) ([]models.VODSubmission, error)
	CountPendingFeedback(ctx context.Context) (int, error)
	SetFeedback(ctx context.Context, id, feedback string, points int, at time.Time) (bool, error)
}

// CreateAssignmentRequest is the admin payload for a new VOD assignment.
type CreateAssignmentRequest struct {
	Week     int       `json:"week" validate:"required,min=1"`
	Title    string    `json:"title" validate:"required,max=200"`
	VideoURL string    `json:"video_url" validate:"required,url"`
	DueDate  time.Time `json:"due_date" validate:"required"`
}

// UpdateAssignmentRequest carries partial assignment edits.
type UpdateAssignmentRequest struct {
	Week     *int       `json:"week" validate:"omitempty,min=1"`
	Title    *string    `json:"title" validate:"omitempty,max=200"`
	VideoURL *string    `json:"video_url" validate:"omitempty,url"`
	DueDate  *time.Time `json:"due_date"`
}

// SubmitHomeworkRequest is a student's homework submission payload.
type SubmitHomeworkRequest struct {
	Content string `json:"content" validate:"required"`
	PostURL string `json:"post_url" validate:"omitempty,url"`
}

// FeedbackRequest is the instructor's written feedback.
type FeedbackRequest struct {
	Feedback string `json:"feedback" validate:"required"`
}

// VODService handles recorded-lecture assignments, submissions and
// instructor feedback.
type VODService struct {
	repo     vodRepository
	points   missionPointAwarder
	rankings *RankingService
	table    rules.AwardTable
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
}

// NewVODService constructs the VOD service.
func NewVODService(repo vodRepository, points missionPointAwarder, rankings *RankingService, table rules.AwardTable, validate *validator.Validate, logger *zap.Logger) *VODService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &VODService{repo: repo, points: points, rankings: rankings, table: table, validate: validate, logger: logger, now: time.Now}
}

// ListAssignments returns all assignments ordered by week.
func (s *VODService) ListAssignments(ctx context.Context) ([]models.VODAssignment, error) {
	assignments, err := s.repo.ListAssignments(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list assignments")
	}
	return assignments, nil
}

// GetAssignment fetches an assignment by id.
func (s *VODService) GetAssignment(ctx context.Context, id string) (*models.VODAssignment, error) {
	assignment, err := s.repo.FindAssignment(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "assignment not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch assignment")
	}
	return assignment, nil
}

// CreateAssignment registers a new assignment.
func (s *VODService) CreateAssignment(ctx context.Context, req CreateAssignmentRequest) (*models.VODAssignment, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	assignment := &models.VODAssignment{
		Week:     req.Week,
		Title:    req.Title,
		VideoURL: req.VideoURL,
		DueDate:  req.DueDate,
	}
	if err := s.repo.CreateAssignment(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create assignment")
	}
	return assignment, nil
}

// UpdateAssignment applies partial edits to an assignment.
func (s *VODService) UpdateAssignment(ctx context.Context, id string, req UpdateAssignmentRequest) (*models.VODAssignment, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	assignment, err := s.GetAssignment(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Week != nil {
		assignment.Week = *req.Week
	}
	if req.Title != nil {
		assignment.Title = *req.Title
	}
	if req.VideoURL != nil {
		assignment.VideoURL = *req.VideoURL
	}
	if req.DueDate != nil {
		assignment.DueDate = *req.DueDate
	}
	if err := s.repo.UpdateAssignment(ctx, assignment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update assignment")
	}
	return assignment, nil
}

// DeleteAssignment removes an assignment.
func (s *VODService) DeleteAssignment(ctx context.Context, id string) error {
	if _, err := s.GetAssignment(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteAssignment(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete assignment")
	}
	return nil
}

// Submit records a student's homework for an assignment. Duplicate
// submissions for the same assignment are a Conflict.
func (s *VODService) Submit(ctx context.Context, studentID, assignmentID string, req SubmitHomeworkRequest) (*models.VODSubmission, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid submission payload")
	}
	if _, err := s.GetAssignment(ctx, assignmentID); err != nil {
		return nil, err
	}

	submission := &models.VODSubmission{
		StudentID:    studentID,
		AssignmentID: assignmentID,
		Content:      req.Content,
		PostURL:      req.PostURL,
	}
	if err := s.repo.CreateSubmission(ctx, submission); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "homework already submitted for this assignment")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create submission")
	}
	return submission, nil
}

// Submissions lists submissions, filtered by assignment and/or student.
func (s *VODService) Submissions(ctx context.Context, assignmentID, studentID string) ([]models.VODSubmission, error) {
	submissions, err := s.repo.ListSubmissions(ctx, assignmentID, studentID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list submissions")
	}
	return submissions, nil
}

// GiveFeedback stores instructor feedback and awards the feedback points
// once. A submission that already has feedback yields AlreadyAwarded.
func (s *VODService) GiveFeedback(ctx context.Context, submissionID string, req FeedbackRequest) (*models.VODSubmission, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid feedback payload")
	}
	submission, err := s.repo.FindSubmission(ctx, submissionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "submission not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch submission")
	}

	points := s.table.VODFeedback
	at := s.now().UTC()
	updated, err := s.repo.SetFeedback(ctx, submissionID, req.Feedback, points, at)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store feedback")
	}
	if !updated {
		return nil, appErrors.Clone(appErrors.ErrAlreadyAwarded, "feedback already given")
	}

	if _, err := s.points.AwardAmount(ctx, submission.StudentID, points, models.PointEventVODFeedback, "VOD 피드백"); err != nil {
		s.logger.Error("vod feedback award failed", zap.String("submission_id", submissionID), zap.Error(err))
	}
	if s.rankings != nil {
		s.rankings.Invalidate(ctx)
	}

	submission.Feedback = &req.Feedback
	submission.FeedbackAt = &at
	submission.PointsAwarded = points
	return submission, nil
}

// PendingFeedback counts submissions still awaiting feedback.
func (s *VODService) PendingFeedback(ctx context.Context) (int, error) {
	count, err := s.repo.CountPendingFeedback(ctx)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count pending feedback")
	}
	return count, nil
}
