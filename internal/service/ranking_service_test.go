package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bmc-class/bmc-api/internal/models"
	appErrors "github.com/bmc-class/bmc-api/pkg/errors"
)

type mockSnapshotRepo struct {
	students []models.Student
	err      error
	calls    int
}

func (m *mockSnapshotRepo) Snapshot(ctx context.Context) ([]models.Student, error) {
	m.calls++
	if m.err != nil {
		return nil, m.err
	}
	return m.students, nil
}

func teamOf(name string) *string {
	return &name
}

func rankingFixture() []models.Student {
	return []models.Student{
		{ID: "s1", Name: "김블로그", Team: teamOf("1조"), TotalPoints: 40},
		{ID: "s2", Name: "이수익", Team: teamOf("2조"), TotalPoints: 60},
		{ID: "s3", Name: "박포스팅", Team: teamOf("1조"), TotalPoints: 40},
		{ID: "s4", Name: "최댓글", TotalPoints: 100},
	}
}

func TestRankingServiceIndividual(t *testing.T) {
	repo := &mockSnapshotRepo{students: rankingFixture()}
	svc := NewRankingService(repo, nil, zap.NewNop(), RankingServiceConfig{})

	ranked, cached, err := svc.Individual(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	require.Len(t, ranked, 4)
	assert.Equal(t, "s4", ranked[0].StudentID)
	assert.Equal(t, 1, ranked[0].Rank)
	assert.Equal(t, "s2", ranked[1].StudentID)

	// Ties keep snapshot order.
	assert.Equal(t, "s1", ranked[2].StudentID)
	assert.Equal(t, 3, ranked[2].Rank)
	assert.Equal(t, "s3", ranked[3].StudentID)
	assert.Equal(t, 4, ranked[3].Rank)
}

func TestRankingServiceTeam(t *testing.T) {
	repo := &mockSnapshotRepo{students: rankingFixture()}
	svc := NewRankingService(repo, nil, zap.NewNop(), RankingServiceConfig{})

	standings, cached, err := svc.Team(context.Background())
	require.NoError(t, err)
	assert.False(t, cached)
	require.Len(t, standings, 2)

	// The teamless s4 is excluded from standings.
	assert.Equal(t, "1조", standings[0].Team)
	assert.Equal(t, 80, standings[0].TotalPoints)
	assert.Equal(t, 2, standings[0].MemberCount)
	assert.Equal(t, 40, standings[0].AvgPoints)
	assert.Equal(t, "2조", standings[1].Team)
	assert.Equal(t, 2, standings[1].Rank)
}

func TestRankingServiceRankOf(t *testing.T) {
	repo := &mockSnapshotRepo{students: rankingFixture()}
	svc := NewRankingService(repo, nil, zap.NewNop(), RankingServiceConfig{})

	row, err := svc.RankOf(context.Background(), "s2")
	require.NoError(t, err)
	assert.Equal(t, 2, row.Rank)

	_, err = svc.RankOf(context.Background(), "missing")
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestRankingServiceSnapshotError(t *testing.T) {
	repo := &mockSnapshotRepo{err: errors.New("db down")}
	svc := NewRankingService(repo, nil, zap.NewNop(), RankingServiceConfig{})

	_, _, err := svc.Individual(context.Background())
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInternal.Code, appErr.Code)
}
