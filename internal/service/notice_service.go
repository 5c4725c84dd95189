package service

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/bmc-class/bmc-api/internal/models"
	appErrors "github.com/bmc-class/bmc-api/pkg/errors"
)

type noticeRepository interface {
	List(ctx context.Context, page, pageSize int) ([]models.Notice, int, error)
	FindByID(ctx context.Context, id string) (*models.Notice, error)
	Create(ctx context.Context, notice *models.Notice) error
	Update(ctx context.Context, notice *models.Notice) error
	Delete(ctx context.Context, id string) error
	ListLinks(ctx context.Context) ([]models.Link, error)
	CreateLink(ctx context.Context, link *models.Link) error
	DeleteLink(ctx context.Context, id string) error
}

// CreateNoticeRequest is the admin payload for an announcement.
type CreateNoticeRequest struct {
	Title    string `json:"title" validate:"required,max=200"`
	Content  string `json:"content" validate:"required"`
	Category string `json:"category" validate:"max=50"`
	Pinned   bool   `json:"pinned"`
}

// UpdateNoticeRequest carries partial notice edits.
type UpdateNoticeRequest struct {
	Title    *string `json:"title" validate:"omitempty,max=200"`
	Content  *string `json:"content"`
	Category *string `json:"category" validate:"omitempty,max=50"`
	Pinned   *bool   `json:"pinned"`
}

// CreateLinkRequest registers a shared resource link.
type CreateLinkRequest struct {
	Title     string `json:"title" validate:"required,max=200"`
	URL       string `json:"url" validate:"required,url"`
	Category  string `json:"category" validate:"max=50"`
	SortOrder int    `json:"sort_order" validate:"min=0"`
}

// NoticeService manages announcements and shared links.
type NoticeService struct {
	repo     noticeRepository
	validate *validator.Validate
	logger   *zap.Logger
}

// NewNoticeService constructs the notice service.
func NewNoticeService(repo noticeRepository, validate *validator.Validate, logger *zap.Logger) *NoticeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NoticeService{repo: repo, validate: validate, logger: logger}
}

// List returns notices, pinned first.
func (s *NoticeService) List(ctx context.Context, page, pageSize int) ([]models.Notice, int, error) {
	notices, total, err := s.repo.List(ctx, page, pageSize)
	if err != nil {
		return nil, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list notices")
	}
	return notices, total, nil
}

// Get fetches a notice by id.
func (s *NoticeService) Get(ctx context.Context, id string) (*models.Notice, error) {
	notice, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "notice not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch notice")
	}
	return notice, nil
}

// Create posts a new announcement authored by adminID.
func (s *NoticeService) Create(ctx context.Context, adminID string, req CreateNoticeRequest) (*models.Notice, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid notice payload")
	}
	notice := &models.Notice{
		Title:     req.Title,
		Content:   req.Content,
		Category:  req.Category,
		Pinned:    req.Pinned,
		CreatedBy: adminID,
	}
	if err := s.repo.Create(ctx, notice); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create notice")
	}
	return notice, nil
}

// Update applies partial edits to a notice.
func (s *NoticeService) Update(ctx context.Context, id string, req UpdateNoticeRequest) (*models.Notice, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid notice payload")
	}
	notice, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Title != nil {
		notice.Title = *req.Title
	}
	if req.Content != nil {
		notice.Content = *req.Content
	}
	if req.Category != nil {
		notice.Category = *req.Category
	}
	if req.Pinned != nil {
		notice.Pinned = *req.Pinned
	}
	if err := s.repo.Update(ctx, notice); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update notice")
	}
	return notice, nil
}

// Delete removes a notice.
func (s *NoticeService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete notice")
	}
	return nil
}

// Links returns shared resource links in display order.
func (s *NoticeService) Links(ctx context.Context) ([]models.Link, error) {
	links, err := s.repo.ListLinks(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list links")
	}
	return links, nil
}

// CreateLink registers a shared resource link.
func (s *NoticeService) CreateLink(ctx context.Context, req CreateLinkRequest) (*models.Link, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid link payload")
	}
	link := &models.Link{
		Title:     req.Title,
		URL:       req.URL,
		Category:  req.Category,
		SortOrder: req.SortOrder,
	}
	if err := s.repo.CreateLink(ctx, link); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create link")
	}
	return link, nil
}

// DeleteLink removes a link.
func (s *NoticeService) DeleteLink(ctx context.Context, id string) error {
	if err := s.repo.DeleteLink(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete link")
	}
	return nil
}
