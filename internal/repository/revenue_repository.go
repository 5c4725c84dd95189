package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/bmc-class/bmc-api/internal/models"
)

// RevenueRepository manages revenue proof submissions.
type RevenueRepository struct {
	db *sqlx.DB
}

// NewRevenueRepository constructs a RevenueRepository.
func NewRevenueRepository(db *sqlx.DB) *RevenueRepository {
	return &RevenueRepository{db: db}
}

const revenueColumns = "id, student_id, title, amount, proof_url, status, reviewed_by, reviewed_at, created_at, updated_at"

// List returns proofs, newest first, optionally filtered by student/status.
func (r *RevenueRepository) List(ctx context.Context, studentID string, status models.RevenueProofStatus) ([]models.RevenueProof, error) {
	base := "FROM revenue_proofs"
	args := []interface{}{}
	conditions := []string{"1=1"}

	if studentID != "" {
		conditions = append(conditions, fmt.Sprintf("student_id = $%d", len(args)+1))
		args = append(args, studentID)
	}
	if status != "" {
		conditions = append(conditions, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, status)
	}

	query := fmt.Sprintf("SELECT %s %s WHERE %s ORDER BY created_at DESC", revenueColumns, base, strings.Join(conditions, " AND "))
	var proofs []models.RevenueProof
	if err := r.db.SelectContext(ctx, &proofs, query, args...); err != nil {
		return nil, fmt.Errorf("list revenue proofs: %w", err)
	}
	return proofs, nil
}

// FindByID fetches a proof.
func (r *RevenueRepository) FindByID(ctx context.Context, id string) (*models.RevenueProof, error) {
	query := fmt.Sprintf("SELECT %s FROM revenue_proofs WHERE id = $1", revenueColumns)
	var proof models.RevenueProof
	if err := r.db.GetContext(ctx, &proof, query, id); err != nil {
		return nil, err
	}
	return &proof, nil
}

// Create inserts a proof in pending state.
func (r *RevenueRepository) Create(ctx context.Context, proof *models.RevenueProof) error {
	if proof.ID == "" {
		proof.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if proof.CreatedAt.IsZero() {
		proof.CreatedAt = now
	}
	proof.UpdatedAt = now
	if proof.Status == "" {
		proof.Status = models.RevenueProofPending
	}
	const query = `INSERT INTO revenue_proofs (id, student_id, title, amount, proof_url, status, created_at, updated_at)
        VALUES (:id, :student_id, :title, :amount, :proof_url, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, proof); err != nil {
		return fmt.Errorf("create revenue proof: %w", err)
	}
	return nil
}

// Review transitions a pending proof. Only pending rows match, so a proof
// is approved or rejected at most once.
func (r *RevenueRepository) Review(ctx context.Context, id string, status models.RevenueProofStatus, reviewedBy string, at time.Time) (bool, error) {
	const query = `UPDATE revenue_proofs SET status = $2, reviewed_by = $3, reviewed_at = $4, updated_at = $4 WHERE id = $1 AND status = $5`
	res, err := r.db.ExecContext(ctx, query, id, status, reviewedBy, at, models.RevenueProofPending)
	if err != nil {
		return false, fmt.Errorf("review revenue proof: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("review revenue proof rows: %w", err)
	}
	return affected > 0, nil
}
