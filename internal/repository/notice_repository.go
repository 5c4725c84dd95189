package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/bmc-class/bmc-api/internal/models"
)

// NoticeRepository manages announcements and shared resource links.
type NoticeRepository struct {
	db *sqlx.DB
}

// NewNoticeRepository constructs a NoticeRepository.
func NewNoticeRepository(db *sqlx.DB) *NoticeRepository {
	return &NoticeRepository{db: db}
}

// List returns notices, pinned first, newest first within each group.
func (r *NoticeRepository) List(ctx context.Context, page, pageSize int) ([]models.Notice, int, error) {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	query := fmt.Sprintf(`SELECT id, title, content, category, pinned, created_by, created_at, updated_at
        FROM notices ORDER BY pinned DESC, created_at DESC LIMIT %d OFFSET %d`, pageSize, offset)
	var notices []models.Notice
	if err := r.db.SelectContext(ctx, &notices, query); err != nil {
		return nil, 0, fmt.Errorf("list notices: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM notices`); err != nil {
		return nil, 0, fmt.Errorf("count notices: %w", err)
	}
	return notices, total, nil
}

// FindByID fetches a notice.
func (r *NoticeRepository) FindByID(ctx context.Context, id string) (*models.Notice, error) {
	const query = `SELECT id, title, content, category, pinned, created_by, created_at, updated_at FROM notices WHERE id = $1`
	var notice models.Notice
	if err := r.db.GetContext(ctx, &notice, query, id); err != nil {
		return nil, err
	}
	return &notice, nil
}

// Create inserts a notice.
func (r *NoticeRepository) Create(ctx context.Context, notice *models.Notice) error {
	if notice.ID == "" {
		notice.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if notice.CreatedAt.IsZero() {
		notice.CreatedAt = now
	}
	notice.UpdatedAt = now
	const query = `INSERT INTO notices (id, title, content, category, pinned, created_by, created_at, updated_at)
        VALUES (:id, :title, :content, :category, :pinned, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, notice); err != nil {
		return fmt.Errorf("create notice: %w", err)
	}
	return nil
}

// Update modifies a notice.
func (r *NoticeRepository) Update(ctx context.Context, notice *models.Notice) error {
	notice.UpdatedAt = time.Now().UTC()
	const query = `UPDATE notices SET title = :title, content = :content, category = :category, pinned = :pinned, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, notice); err != nil {
		return fmt.Errorf("update notice: %w", err)
	}
	return nil
}

// Delete removes a notice.
func (r *NoticeRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM notices WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete notice: %w", err)
	}
	return nil
}

// ListLinks returns shared resource links in display order.
func (r *NoticeRepository) ListLinks(ctx context.Context) ([]models.Link, error) {
	const query = `SELECT id, title, url, category, sort_order, created_at FROM links ORDER BY sort_order ASC, created_at ASC`
	var links []models.Link
	if err := r.db.SelectContext(ctx, &links, query); err != nil {
		return nil, fmt.Errorf("list links: %w", err)
	}
	return links, nil
}

// CreateLink inserts a shared resource link.
func (r *NoticeRepository) CreateLink(ctx context.Context, link *models.Link) error {
	if link.ID == "" {
		link.ID = uuid.NewString()
	}
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO links (id, title, url, category, sort_order, created_at)
        VALUES (:id, :title, :url, :category, :sort_order, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, link); err != nil {
		return fmt.Errorf("create link: %w", err)
	}
	return nil
}

// DeleteLink removes a link.
func (r *NoticeRepository) DeleteLink(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM links WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete link: %w", err)
	}
	return nil
}
