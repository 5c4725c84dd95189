package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bmc-class/bmc-api/internal/models"
)

type mockDashboardAttendance struct{ count int }

func (m *mockDashboardAttendance) CountOnDate(ctx context.Context, date time.Time) (int, error) {
	return m.count, nil
}

type mockDashboardQnA struct{ open int }

func (m *mockDashboardQnA) CountOpen(ctx context.Context) (int, error) {
	return m.open, nil
}

type mockDashboardVOD struct{ pending int }

func (m *mockDashboardVOD) CountPendingFeedback(ctx context.Context) (int, error) {
	return m.pending, nil
}

type mockDashboardRevenue struct{ proofs []models.RevenueProof }

func (m *mockDashboardRevenue) List(ctx context.Context, studentID string, status models.RevenueProofStatus) ([]models.RevenueProof, error) {
	return m.proofs, nil
}

func TestDashboardServiceSummary(t *testing.T) {
	team1, team2 := "1조", "2조"
	students := &mockSnapshotRepo{students: []models.Student{
		{ID: "s1", Team: &team1, TotalPoints: 40},
		{ID: "s2", Team: &team1, TotalPoints: 20},
		{ID: "s3", Team: &team2, TotalPoints: 90},
		{ID: "s4", TotalPoints: 10},
	}}
	schedule := NewScheduleService(&mockScheduleRepo{entries: sixWeekSchedule()}, nil, zap.NewNop())
	schedule.now = func() time.Time { return kstDate(2026, 3, 11) }

	svc := NewDashboardService(
		students,
		&mockDashboardAttendance{count: 12},
		&mockDashboardQnA{open: 3},
		&mockDashboardVOD{pending: 5},
		&mockDashboardRevenue{proofs: []models.RevenueProof{{ID: "p1"}, {ID: "p2"}}},
		schedule,
		zap.NewNop(),
	)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 4, summary.TotalStudents)
	assert.Equal(t, 12, summary.CheckinsToday)
	assert.Equal(t, 3, summary.OpenQuestions)
	assert.Equal(t, 5, summary.PendingFeedback)
	assert.Equal(t, 2, summary.PendingProofs)
	assert.Equal(t, 2, summary.CurrentWeek)

	require.Len(t, summary.TopTeams, 2)
	assert.Equal(t, "2조", summary.TopTeams[0].Team)
	assert.Equal(t, 90, summary.TopTeams[0].TotalPoints)
}

func TestDashboardServiceSummaryCapsTopTeams(t *testing.T) {
	teams := []string{"1조", "2조", "3조", "4조", "5조"}
	snapshot := make([]models.Student, 0, len(teams))
	for i := range teams {
		snapshot = append(snapshot, models.Student{
			ID:          teams[i],
			Team:        &teams[i],
			TotalPoints: (i + 1) * 10,
		})
	}
	students := &mockSnapshotRepo{students: snapshot}

	svc := NewDashboardService(
		students,
		&mockDashboardAttendance{},
		&mockDashboardQnA{},
		&mockDashboardVOD{},
		&mockDashboardRevenue{},
		nil,
		zap.NewNop(),
	)

	summary, err := svc.Summary(context.Background())
	require.NoError(t, err)
	require.Len(t, summary.TopTeams, 3)
	assert.Equal(t, "5조", summary.TopTeams[0].Team)
}
