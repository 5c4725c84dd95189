package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bmc-class/bmc-api/internal/models"
	"github.com/bmc-class/bmc-api/internal/rules"
	appErrors "github.com/bmc-class/bmc-api/pkg/errors"
)

type mockPointRepo struct {
	entries   []models.PointLog
	total     int
	resetFrom int
	ledgerSum int
}

func (m *mockPointRepo) Award(ctx context.Context, entry *models.PointLog) (int, error) {
	m.entries = append(m.entries, *entry)
	m.total += entry.Points
	return m.total, nil
}

func (m *mockPointRepo) Reset(ctx context.Context, studentID, reason string) (int, error) {
	previous := m.total
	m.entries = append(m.entries, models.PointLog{
		StudentID: studentID,
		Points:    -previous,
		Reason:    reason,
		Type:      models.PointEventReset,
	})
	m.resetFrom = previous
	m.total = 0
	return previous, nil
}

func (m *mockPointRepo) List(ctx context.Context, filter models.PointLogFilter) ([]models.PointLog, int, error) {
	return m.entries, len(m.entries), nil
}

func (m *mockPointRepo) SumForStudent(ctx context.Context, studentID string) (int, error) {
	return m.ledgerSum, nil
}

type mockPointStudentRepo struct {
	students map[string]*models.Student
}

func (m *mockPointStudentRepo) FindByID(ctx context.Context, id string) (*models.Student, error) {
	if student, ok := m.students[id]; ok {
		cp := *student
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func TestPointServiceAwardUsesTableAmount(t *testing.T) {
	repo := &mockPointRepo{}
	students := &mockPointStudentRepo{students: map[string]*models.Student{"s1": {ID: "s1"}}}
	svc := NewPointService(repo, students, rules.AwardTable{Attendance: 5}, nil, zap.NewNop())

	result, err := svc.Award(context.Background(), "s1", models.PointEventAttendance, "출석 체크")
	require.NoError(t, err)
	assert.Equal(t, 5, result.Entry.Points)
	assert.Equal(t, 5, result.NewTotal)
	assert.Equal(t, models.PointEventAttendance, result.Entry.Type)
}

func TestPointServiceAwardUnknownStudent(t *testing.T) {
	svc := NewPointService(&mockPointRepo{}, &mockPointStudentRepo{}, rules.DefaultAwardTable(), nil, zap.NewNop())

	_, err := svc.Award(context.Background(), "missing", models.PointEventAttendance, "출석 체크")
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestPointServiceAdjustNegative(t *testing.T) {
	repo := &mockPointRepo{total: 30}
	students := &mockPointStudentRepo{students: map[string]*models.Student{"s1": {ID: "s1"}}}
	svc := NewPointService(repo, students, rules.DefaultAwardTable(), nil, zap.NewNop())

	result, err := svc.Adjust(context.Background(), "s1", AdjustPointsRequest{Points: -10, Reason: "규정 위반"})
	require.NoError(t, err)
	assert.Equal(t, -10, result.Entry.Points)
	assert.Equal(t, 20, result.NewTotal)
	assert.Equal(t, models.PointEventAdminAdjust, result.Entry.Type)
}

func TestPointServiceAdjustRequiresReason(t *testing.T) {
	students := &mockPointStudentRepo{students: map[string]*models.Student{"s1": {ID: "s1"}}}
	svc := NewPointService(&mockPointRepo{}, students, rules.DefaultAwardTable(), nil, zap.NewNop())

	_, err := svc.Adjust(context.Background(), "s1", AdjustPointsRequest{Points: 10})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestPointServiceResetAppendsBalancingEntry(t *testing.T) {
	repo := &mockPointRepo{total: 45}
	students := &mockPointStudentRepo{students: map[string]*models.Student{"s1": {ID: "s1"}}}
	svc := NewPointService(repo, students, rules.DefaultAwardTable(), nil, zap.NewNop())

	previous, err := svc.Reset(context.Background(), "s1", "")
	require.NoError(t, err)
	assert.Equal(t, 45, previous)
	assert.Equal(t, 0, repo.total)

	require.Len(t, repo.entries, 1)
	assert.Equal(t, -45, repo.entries[0].Points)
	assert.Equal(t, models.PointEventReset, repo.entries[0].Type)
	assert.Equal(t, "points reset", repo.entries[0].Reason)
}

func TestPointServiceAudit(t *testing.T) {
	repo := &mockPointRepo{ledgerSum: 25}
	students := &mockPointStudentRepo{students: map[string]*models.Student{
		"s1": {ID: "s1", TotalPoints: 25},
		"s2": {ID: "s2", TotalPoints: 30},
	}}
	svc := NewPointService(repo, students, rules.DefaultAwardTable(), nil, zap.NewNop())

	audit, err := svc.Audit(context.Background(), "s1")
	require.NoError(t, err)
	assert.True(t, audit.Consistent)

	audit, err = svc.Audit(context.Background(), "s2")
	require.NoError(t, err)
	assert.False(t, audit.Consistent)
	assert.Equal(t, 30, audit.TotalPoints)
	assert.Equal(t, 25, audit.LedgerSum)
}
