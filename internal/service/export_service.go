package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/bmc-class/bmc-api/internal/models"
	appErrors "github.com/bmc-class/bmc-api/pkg/errors"
	"github.com/bmc-class/bmc-api/pkg/export"
	"github.com/bmc-class/bmc-api/pkg/jobs"
)

// ExportFormat selects the rendered document type.
type ExportFormat string

const (
	FormatCSV ExportFormat = "csv"
	FormatPDF ExportFormat = "pdf"
)

const snapshotJobKind = "ranking_snapshot"

// snapshotRetention bounds how long on-disk leaderboard snapshots are kept.
const snapshotRetention = 30 * 24 * time.Hour

type exportPointRepository interface {
	List(ctx context.Context, filter models.PointLogFilter) ([]models.PointLog, int, error)
}

type exportStorage interface {
	Save(filename string, data []byte) (string, error)
	Path(filename string) string
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ExportFile is a rendered export ready for download.
type ExportFile struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Data        []byte `json:"-"`
}

// ExportService renders leaderboards and point histories as CSV or PDF,
// and snapshots the leaderboard to disk on a fixed interval.
type ExportService struct {
	rankings *RankingService
	points   exportPointRepository
	storage  exportStorage
	csv      *export.CSVExporter
	pdf      *export.PDFExporter
	queue    *jobs.Queue
	logger   *zap.Logger
	now      func() time.Time
}

// NewExportService constructs the export service. storage may be nil when
// snapshots are disabled.
func NewExportService(rankings *RankingService, points exportPointRepository, storage exportStorage, retries int, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ExportService{
		rankings: rankings,
		points:   points,
		storage:  storage,
		csv:      export.NewCSVExporter(),
		pdf:      export.NewPDFExporter(),
		logger:   logger,
		now:      time.Now,
	}
	s.queue = jobs.NewQueue("exports", s.handleJob, jobs.QueueConfig{
		Workers:    1,
		MaxRetries: retries,
		Logger:     logger,
	})
	return s
}

// StartSnapshots begins the worker and enqueues a snapshot every interval
// until ctx is cancelled.
func (s *ExportService) StartSnapshots(ctx context.Context, interval time.Duration) {
	if s.storage == nil || interval <= 0 {
		return
	}
	s.queue.Start(ctx)
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				job := jobs.Job{ID: uuid.NewString(), Kind: snapshotJobKind}
				if err := s.queue.Enqueue(job); err != nil {
					s.logger.Warn("snapshot enqueue failed", zap.Error(err))
				}
			}
		}
	}()
}

// Stop drains the snapshot worker.
func (s *ExportService) Stop() {
	s.queue.Stop()
}

func (s *ExportService) handleJob(ctx context.Context, job jobs.Job) error {
	switch job.Kind {
	case snapshotJobKind:
		return s.writeSnapshot(ctx)
	default:
		s.logger.Warn("unknown export job", zap.String("kind", job.Kind))
		return nil
	}
}

func (s *ExportService) writeSnapshot(ctx context.Context) error {
	file, err := s.Leaderboard(ctx, FormatCSV)
	if err != nil {
		return err
	}
	name := fmt.Sprintf("snapshots/leaderboard-%s.csv", s.now().UTC().Format("20060102-150405"))
	if _, err := s.storage.Save(name, file.Data); err != nil {
		return err
	}
	s.logger.Info("leaderboard snapshot written", zap.String("file", name))

	if removed, err := s.storage.CleanupOlderThan(snapshotRetention); err != nil {
		s.logger.Warn("snapshot cleanup failed", zap.Error(err))
	} else if len(removed) > 0 {
		s.logger.Info("stale snapshots removed", zap.Int("count", len(removed)))
	}
	return nil
}

// Leaderboard renders the individual leaderboard in the requested format.
func (s *ExportService) Leaderboard(ctx context.Context, format ExportFormat) (*ExportFile, error) {
	ranked, _, err := s.rankings.Individual(ctx)
	if err != nil {
		return nil, err
	}

	table := export.Table{
		Title:   "Leaderboard",
		Columns: []string{"Rank", "Name", "Team", "Points", "Posts", "Level"},
	}
	for _, r := range ranked {
		table.Rows = append(table.Rows, []string{
			strconv.Itoa(r.Rank),
			r.Name,
			r.Team,
			strconv.Itoa(r.TotalPoints),
			strconv.Itoa(r.PostCount),
			strconv.Itoa(r.TreeLevel),
		})
	}
	return s.render(table, "leaderboard", format)
}

// PointHistory renders a student's ledger in the requested format.
func (s *ExportService) PointHistory(ctx context.Context, studentID string, format ExportFormat) (*ExportFile, error) {
	entries, _, err := s.points.List(ctx, models.PointLogFilter{StudentID: studentID, PageSize: 100})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load point history")
	}

	table := export.Table{
		Title:   "Point History",
		Columns: []string{"Date", "Type", "Reason", "Points"},
	}
	for _, e := range entries {
		table.Rows = append(table.Rows, []string{
			e.CreatedAt.Format("2006-01-02 15:04"),
			string(e.Type),
			e.Reason,
			strconv.Itoa(e.Points),
		})
	}
	return s.render(table, fmt.Sprintf("points-%s", studentID), format)
}

func (s *ExportService) render(table export.Table, base string, format ExportFormat) (*ExportFile, error) {
	stamp := s.now().UTC().Format("20060102")
	switch format {
	case FormatCSV:
		data, err := s.csv.Render(table)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return &ExportFile{
			Filename:    fmt.Sprintf("%s-%s.csv", base, stamp),
			ContentType: "text/csv",
			Data:        data,
		}, nil
	case FormatPDF:
		data, err := s.pdf.Render(table)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return &ExportFile{
			Filename:    fmt.Sprintf("%s-%s.pdf", base, stamp),
			ContentType: "application/pdf",
			Data:        data,
		}, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}
}
