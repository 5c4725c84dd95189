package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bmc-class/bmc-api/internal/models"
)

type mockExportPointRepo struct {
	entries []models.PointLog
}

func (m *mockExportPointRepo) List(ctx context.Context, filter models.PointLogFilter) ([]models.PointLog, int, error) {
	return m.entries, len(m.entries), nil
}

func exportRankingService(t *testing.T) *RankingService {
	t.Helper()
	repo := &mockSnapshotRepo{students: rankingFixture()}
	return NewRankingService(repo, nil, zap.NewNop(), RankingServiceConfig{})
}

func TestExportServiceLeaderboardCSV(t *testing.T) {
	svc := NewExportService(exportRankingService(t), &mockExportPointRepo{}, nil, 1, zap.NewNop())

	file, err := svc.Leaderboard(context.Background(), FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", file.ContentType)
	assert.True(t, strings.HasSuffix(file.Filename, ".csv"))

	content := string(file.Data)
	assert.Contains(t, content, "Rank,Name,Team,Points,Posts,Level")
	assert.Contains(t, content, "최댓글")
	// Top scorer first.
	lines := strings.Split(strings.TrimSpace(content), "\n")
	require.GreaterOrEqual(t, len(lines), 5)
	assert.True(t, strings.HasPrefix(lines[1], "1,최댓글"))
}

func TestExportServiceLeaderboardPDF(t *testing.T) {
	svc := NewExportService(exportRankingService(t), &mockExportPointRepo{}, nil, 1, zap.NewNop())

	file, err := svc.Leaderboard(context.Background(), FormatPDF)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", file.ContentType)
	assert.True(t, bytes.HasPrefix(file.Data, []byte("%PDF")))
}

func TestExportServicePointHistoryCSV(t *testing.T) {
	points := &mockExportPointRepo{entries: []models.PointLog{
		{StudentID: "s1", Points: 5, Reason: "출석 체크", Type: models.PointEventAttendance},
		{StudentID: "s1", Points: -10, Reason: "규정 위반", Type: models.PointEventAdminAdjust},
	}}
	svc := NewExportService(exportRankingService(t), points, nil, 1, zap.NewNop())

	file, err := svc.PointHistory(context.Background(), "s1", FormatCSV)
	require.NoError(t, err)

	content := string(file.Data)
	assert.Contains(t, content, "출석 체크")
	assert.Contains(t, content, "-10")
}

func TestExportServiceUnknownFormat(t *testing.T) {
	svc := NewExportService(exportRankingService(t), &mockExportPointRepo{}, nil, 1, zap.NewNop())

	_, err := svc.Leaderboard(context.Background(), ExportFormat("xlsx"))
	require.Error(t, err)
}
