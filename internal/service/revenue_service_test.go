package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bmc-class/bmc-api/internal/models"
	"github.com/bmc-class/bmc-api/internal/rules"
	appErrors "github.com/bmc-class/bmc-api/pkg/errors"
)

type mockRevenueRepo struct {
	proofs map[string]*models.RevenueProof
}

func newMockRevenueRepo() *mockRevenueRepo {
	return &mockRevenueRepo{proofs: make(map[string]*models.RevenueProof)}
}

func (m *mockRevenueRepo) List(ctx context.Context, studentID string, status models.RevenueProofStatus) ([]models.RevenueProof, error) {
	out := make([]models.RevenueProof, 0)
	for _, p := range m.proofs {
		if studentID != "" && p.StudentID != studentID {
			continue
		}
		if status != "" && p.Status != status {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (m *mockRevenueRepo) FindByID(ctx context.Context, id string) (*models.RevenueProof, error) {
	if p, ok := m.proofs[id]; ok {
		cp := *p
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockRevenueRepo) Create(ctx context.Context, proof *models.RevenueProof) error {
	if proof.ID == "" {
		proof.ID = "generated"
	}
	cp := *proof
	m.proofs[proof.ID] = &cp
	return nil
}

func (m *mockRevenueRepo) Review(ctx context.Context, id string, status models.RevenueProofStatus, reviewedBy string, at time.Time) (bool, error) {
	p, ok := m.proofs[id]
	if !ok || p.Status != models.RevenueProofPending {
		return false, nil
	}
	p.Status = status
	p.ReviewedBy = &reviewedBy
	p.ReviewedAt = &at
	return true, nil
}

func TestRevenueServiceSubmit(t *testing.T) {
	repo := newMockRevenueRepo()
	svc := NewRevenueService(repo, &mockAmountAwarder{}, nil, rules.DefaultAwardTable(), nil, zap.NewNop())

	proof, err := svc.Submit(context.Background(), "s1", SubmitProofRequest{
		Title:    "3월 애드포스트 수익",
		Amount:   52000,
		ProofURL: "https://blog.example.com/proof.png",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RevenueProofPending, proof.Status)
	assert.Nil(t, proof.ReviewedBy)
}

func TestRevenueServiceSubmitRequiresPositiveAmount(t *testing.T) {
	svc := NewRevenueService(newMockRevenueRepo(), &mockAmountAwarder{}, nil, rules.DefaultAwardTable(), nil, zap.NewNop())

	_, err := svc.Submit(context.Background(), "s1", SubmitProofRequest{
		Title:    "수익 인증",
		Amount:   0,
		ProofURL: "https://blog.example.com/proof.png",
	})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestRevenueServiceReviewApproveAwardsPoints(t *testing.T) {
	repo := newMockRevenueRepo()
	repo.proofs["p1"] = &models.RevenueProof{ID: "p1", StudentID: "s1", Title: "첫 수익", Status: models.RevenueProofPending}
	awarder := &mockAmountAwarder{result: &AwardResult{
		Entry:    models.PointLog{Points: 30, Type: models.PointEventRevenueProof},
		NewTotal: 80,
	}}

	svc := NewRevenueService(repo, awarder, nil, rules.AwardTable{RevenueProof: 30}, nil, zap.NewNop())

	proof, err := svc.Review(context.Background(), "p1", "admin", ReviewProofRequest{Approve: true})
	require.NoError(t, err)
	assert.Equal(t, models.RevenueProofApproved, proof.Status)
	assert.Equal(t, []int{30}, awarder.amounts)
	assert.Equal(t, []string{"첫 수익"}, awarder.reasons)
}

func TestRevenueServiceReviewRejectSkipsAward(t *testing.T) {
	repo := newMockRevenueRepo()
	repo.proofs["p1"] = &models.RevenueProof{ID: "p1", StudentID: "s1", Status: models.RevenueProofPending}
	awarder := &mockAmountAwarder{}

	svc := NewRevenueService(repo, awarder, nil, rules.DefaultAwardTable(), nil, zap.NewNop())

	proof, err := svc.Review(context.Background(), "p1", "admin", ReviewProofRequest{Approve: false})
	require.NoError(t, err)
	assert.Equal(t, models.RevenueProofRejected, proof.Status)
	assert.Empty(t, awarder.amounts)
}

func TestRevenueServiceReviewTwice(t *testing.T) {
	repo := newMockRevenueRepo()
	repo.proofs["p1"] = &models.RevenueProof{ID: "p1", StudentID: "s1", Status: models.RevenueProofApproved}
	awarder := &mockAmountAwarder{}

	svc := NewRevenueService(repo, awarder, nil, rules.DefaultAwardTable(), nil, zap.NewNop())

	_, err := svc.Review(context.Background(), "p1", "admin", ReviewProofRequest{Approve: true})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
	assert.Empty(t, awarder.amounts)
}
