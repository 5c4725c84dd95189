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

type revenueRepository interface {
	List(ctx context.Context, studentID string, status models.RevenueProofStatus) ([]models.RevenueProof, error)
	FindByID(ctx context.Context, id string) (*models.RevenueProof, error)
	Create(ctx context.Context, proof *models.RevenueProof) error
	Review(ctx context.Context, id string, status models.RevenueProofStatus, reviewedBy string, at time.Time) (bool, error)
}

// SubmitProofRequest is a student's revenue proof payload.
type SubmitProofRequest struct {
	Title    string `json:"title" validate:"required,max=200"`
	Amount   int    `json:"amount" validate:"required,min=1"`
	ProofURL string `json:"proof_url" validate:"required,url"`
}

// ReviewProofRequest is the admin verdict on a proof.
type ReviewProofRequest struct {
	Approve bool `json:"approve"`
}

// RevenueService handles revenue proof submission and review. An approved
// proof awards points exactly once.
type RevenueService struct {
	repo     revenueRepository
	points   missionPointAwarder
	rankings *RankingService
	table    rules.AwardTable
	validate *validator.Validate
	logger   *zap.Logger
	now      func() time.Time
}

// NewRevenueService constructs the revenue service.
func NewRevenueService(repo revenueRepository, points missionPointAwarder, rankings *RankingService, table rules.AwardTable, validate *validator.Validate, logger *zap.Logger) *RevenueService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RevenueService{repo: repo, points: points, rankings: rankings, table: table, validate: validate, logger: logger, now: time.Now}
}

// List returns proofs, optionally filtered by student and status.
func (s *RevenueService) List(ctx context.Context, studentID string, status models.RevenueProofStatus) ([]models.RevenueProof, error) {
	proofs, err := s.repo.List(ctx, studentID, status)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list revenue proofs")
	}
	return proofs, nil
}

// Get fetches a proof by id.
func (s *RevenueService) Get(ctx context.Context, id string) (*models.RevenueProof, error) {
	proof, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "revenue proof not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch revenue proof")
	}
	return proof, nil
}

// Submit files a new proof in pending state.
func (s *RevenueService) Submit(ctx context.Context, studentID string, req SubmitProofRequest) (*models.RevenueProof, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid proof payload")
	}
	proof := &models.RevenueProof{
		StudentID: studentID,
		Title:     req.Title,
		Amount:    req.Amount,
		ProofURL:  req.ProofURL,
		Status:    models.RevenueProofPending,
	}
	if err := s.repo.Create(ctx, proof); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create revenue proof")
	}
	return proof, nil
}

// Review approves or rejects a pending proof. A proof that has already
// been reviewed yields Conflict; approval awards the revenue points.
func (s *RevenueService) Review(ctx context.Context, id, adminID string, req ReviewProofRequest) (*models.RevenueProof, error) {
	proof, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	status := models.RevenueProofRejected
	if req.Approve {
		status = models.RevenueProofApproved
	}
	at := s.now().UTC()
	updated, err := s.repo.Review(ctx, id, status, adminID, at)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to review revenue proof")
	}
	if !updated {
		return nil, appErrors.Clone(appErrors.ErrConflict, "revenue proof already reviewed")
	}

	if req.Approve {
		if _, err := s.points.AwardAmount(ctx, proof.StudentID, s.table.RevenueProof, models.PointEventRevenueProof, proof.Title); err != nil {
			s.logger.Error("revenue proof award failed", zap.String("proof_id", id), zap.Error(err))
		}
		if s.rankings != nil {
			s.rankings.Invalidate(ctx)
		}
	}

	proof.Status = status
	proof.ReviewedBy = &adminID
	proof.ReviewedAt = &at
	return proof, nil
}
