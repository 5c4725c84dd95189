package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/bmc-class/bmc-api/internal/models"
	appErrors "github.com/bmc-class/bmc-api/pkg/errors"
)

type qnaRepository interface {
	List(ctx context.Context, filter models.QnAFilter) ([]models.QnA, int, error)
	FindByID(ctx context.Context, id string) (*models.QnA, error)
	Create(ctx context.Context, q *models.QnA) error
	Answer(ctx context.Context, id, answer, answeredBy string, at time.Time) error
	Delete(ctx context.Context, id string) error
	CountOpen(ctx context.Context) (int, error)
}

// AskRequest is a student's question payload.
type AskRequest struct {
	Title     string `json:"title" validate:"required,max=200"`
	Question  string `json:"question" validate:"required"`
	IsPrivate bool   `json:"is_private"`
}

// AnswerRequest is the admin reply payload.
type AnswerRequest struct {
	Answer string `json:"answer" validate:"required"`
}

// QnAService manages student questions and admin answers. Private
// questions are visible only to their author and admins.
type QnAService struct {
	repo     qnaRepository
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
}

// NewQnAService constructs the QnA service.
func NewQnAService(repo qnaRepository, validate *validator.Validate, logger *zap.Logger) *QnAService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &QnAService{repo: repo, validate: validate, logger: logger, now: time.Now}
}

// List returns questions visible to the viewer. Non-admin viewers get
// private questions redacted unless they authored them.
func (s *QnAService) List(ctx context.Context, filter models.QnAFilter, viewerID string, viewerRole models.UserRole) ([]models.QnA, int, error) {
	questions, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list questions")
	}
	if viewerRole != models.RoleAdmin {
		for i := range questions {
			if questions[i].IsPrivate && questions[i].StudentID != viewerID {
				questions[i].Question = ""
				questions[i].Answer = nil
			}
		}
	}
	return questions, total, nil
}

// Get fetches a question, enforcing private-question visibility.
func (s *QnAService) Get(ctx context.Context, id, viewerID string, viewerRole models.UserRole) (*models.QnA, error) {
	q, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "question not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch question")
	}
	if q.IsPrivate && viewerRole != models.RoleAdmin && q.StudentID != viewerID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "question is private")
	}
	return q, nil
}

// Ask posts a new question.
func (s *QnAService) Ask(ctx context.Context, studentID string, req AskRequest) (*models.QnA, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid question payload")
	}
	q := &models.QnA{
		StudentID: studentID,
		Title:     req.Title,
		Question:  req.Question,
		IsPrivate: req.IsPrivate,
		Status:    models.QnAStatusOpen,
	}
	if err := s.repo.Create(ctx, q); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create question")
	}
	return q, nil
}

// Answer stores the admin reply and marks the question answered.
func (s *QnAService) Answer(ctx context.Context, id, adminID string, req AnswerRequest) (*models.QnA, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid answer payload")
	}
	q, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "question not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch question")
	}

	at := s.now().UTC()
	if err := s.repo.Answer(ctx, id, req.Answer, adminID, at); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store answer")
	}

	q.Answer = &req.Answer
	q.AnsweredBy = &adminID
	q.AnsweredAt = &at
	q.Status = models.QnAStatusAnswered
	return q, nil
}

// Delete removes a question. Students may delete only their own.
func (s *QnAService) Delete(ctx context.Context, id, viewerID string, viewerRole models.UserRole) error {
	q, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "question not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch question")
	}
	if viewerRole != models.RoleAdmin && q.StudentID != viewerID {
		return appErrors.Clone(appErrors.ErrForbidden, "cannot delete another student's question")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete question")
	}
	return nil
}

// OpenCount returns the number of unanswered questions.
func (s *QnAService) OpenCount(ctx context.Context) (int, error) {
	count, err := s.repo.CountOpen(ctx)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count open questions")
	}
	return count, nil
}
