package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bmc-class/bmc-api/internal/models"
	"github.com/bmc-class/bmc-api/internal/rules"
	appErrors "github.com/bmc-class/bmc-api/pkg/errors"
)

type mockMissionRepo struct {
	items        map[string]*models.Mission
	logs         []models.MissionLog
	createLogErr error
	deleted      []string
}

func (m *mockMissionRepo) List(ctx context.Context, filter models.MissionFilter) ([]models.Mission, int, error) {
	out := make([]models.Mission, 0, len(m.items))
	for _, mission := range m.items {
		out = append(out, *mission)
	}
	return out, len(out), nil
}

func (m *mockMissionRepo) FindByID(ctx context.Context, id string) (*models.Mission, error) {
	if mission, ok := m.items[id]; ok {
		cp := *mission
		return &cp, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockMissionRepo) Create(ctx context.Context, mission *models.Mission) error {
	if m.items == nil {
		m.items = make(map[string]*models.Mission)
	}
	if mission.ID == "" {
		mission.ID = "generated"
	}
	cp := *mission
	m.items[mission.ID] = &cp
	return nil
}

func (m *mockMissionRepo) Update(ctx context.Context, mission *models.Mission) error {
	cp := *mission
	m.items[mission.ID] = &cp
	return nil
}

func (m *mockMissionRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	delete(m.items, id)
	return nil
}

func (m *mockMissionRepo) CreateLog(ctx context.Context, log *models.MissionLog) error {
	if m.createLogErr != nil {
		return m.createLogErr
	}
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockMissionRepo) ListLogsByStudent(ctx context.Context, studentID string) ([]models.MissionLog, error) {
	return m.logs, nil
}

type mockAmountAwarder struct {
	result  *AwardResult
	err     error
	amounts []int
	reasons []string
}

func (m *mockAmountAwarder) AwardAmount(ctx context.Context, studentID string, points int, event models.PointEventType, reason string) (*AwardResult, error) {
	m.amounts = append(m.amounts, points)
	m.reasons = append(m.reasons, reason)
	if m.err != nil {
		return nil, m.err
	}
	return m.result, nil
}

func activeMission(id string, points int, now time.Time) *models.Mission {
	return &models.Mission{
		ID:       id,
		Week:     1,
		Type:     models.MissionTypePost,
		Title:    "주간 포스팅",
		Points:   points,
		IsActive: true,
		StartsAt: now.Add(-time.Hour),
		EndsAt:   now.Add(time.Hour),
	}
}

func TestMissionServiceCreateDefaultsPoints(t *testing.T) {
	repo := &mockMissionRepo{}
	table := rules.AwardTable{Mission: 10, WeekMultipliers: []float64{1, 1.5}}
	svc := NewMissionService(repo, &mockAmountAwarder{}, nil, table, nil, zap.NewNop())

	now := time.Now()
	mission, err := svc.Create(context.Background(), CreateMissionRequest{
		Week:     2,
		Type:     models.MissionTypeComment,
		Title:    "이웃 댓글",
		StartsAt: now,
		EndsAt:   now.Add(24 * time.Hour),
	})
	require.NoError(t, err)
	assert.Equal(t, 15, mission.Points)
}

func TestMissionServiceCreateRejectsInvertedWindow(t *testing.T) {
	svc := NewMissionService(&mockMissionRepo{}, &mockAmountAwarder{}, nil, rules.DefaultAwardTable(), nil, zap.NewNop())

	now := time.Now()
	_, err := svc.Create(context.Background(), CreateMissionRequest{
		Week:     1,
		Type:     models.MissionTypePost,
		Title:    "포스팅",
		StartsAt: now,
		EndsAt:   now.Add(-time.Hour),
	})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestMissionServiceComplete(t *testing.T) {
	now := time.Now()
	repo := &mockMissionRepo{items: map[string]*models.Mission{
		"m1": activeMission("m1", 10, now),
	}}
	awarder := &mockAmountAwarder{result: &AwardResult{
		Entry:    models.PointLog{Points: 10, Type: models.PointEventMission},
		NewTotal: 25,
	}}

	svc := NewMissionService(repo, awarder, nil, rules.DefaultAwardTable(), nil, zap.NewNop())
	svc.now = func() time.Time { return now }

	result, err := svc.Complete(context.Background(), "s1", "m1")
	require.NoError(t, err)
	assert.Equal(t, 10, result.Points)
	assert.Equal(t, 25, result.NewTotal)
	assert.Equal(t, []int{10}, awarder.amounts)
	assert.Len(t, repo.logs, 1)
}

func TestMissionServiceCompleteTwice(t *testing.T) {
	now := time.Now()
	repo := &mockMissionRepo{
		items:        map[string]*models.Mission{"m1": activeMission("m1", 10, now)},
		createLogErr: &pq.Error{Code: "23505"},
	}
	awarder := &mockAmountAwarder{}

	svc := NewMissionService(repo, awarder, nil, rules.DefaultAwardTable(), nil, zap.NewNop())
	svc.now = func() time.Time { return now }

	_, err := svc.Complete(context.Background(), "s1", "m1")
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrAlreadyAwarded.Code, appErr.Code)
	assert.Empty(t, awarder.amounts)
}

func TestMissionServiceCompleteInactive(t *testing.T) {
	now := time.Now()
	mission := activeMission("m1", 10, now)
	mission.IsActive = false
	repo := &mockMissionRepo{items: map[string]*models.Mission{"m1": mission}}

	svc := NewMissionService(repo, &mockAmountAwarder{}, nil, rules.DefaultAwardTable(), nil, zap.NewNop())
	svc.now = func() time.Time { return now }

	_, err := svc.Complete(context.Background(), "s1", "m1")
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestMissionServiceCompleteOutsideWindow(t *testing.T) {
	now := time.Now()
	mission := activeMission("m1", 10, now)
	mission.StartsAt = now.Add(time.Hour)
	mission.EndsAt = now.Add(2 * time.Hour)
	repo := &mockMissionRepo{items: map[string]*models.Mission{"m1": mission}}

	svc := NewMissionService(repo, &mockAmountAwarder{}, nil, rules.DefaultAwardTable(), nil, zap.NewNop())
	svc.now = func() time.Time { return now }

	_, err := svc.Complete(context.Background(), "s1", "m1")
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestMissionServiceCompleteUnknownMission(t *testing.T) {
	svc := NewMissionService(&mockMissionRepo{}, &mockAmountAwarder{}, nil, rules.DefaultAwardTable(), nil, zap.NewNop())

	_, err := svc.Complete(context.Background(), "s1", "missing")
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestMissionServiceUpdate(t *testing.T) {
	now := time.Now()
	repo := &mockMissionRepo{items: map[string]*models.Mission{"m1": activeMission("m1", 10, now)}}
	svc := NewMissionService(repo, &mockAmountAwarder{}, nil, rules.DefaultAwardTable(), nil, zap.NewNop())

	points := 20
	active := false
	updated, err := svc.Update(context.Background(), "m1", UpdateMissionRequest{
		Points:   &points,
		IsActive: &active,
	})
	require.NoError(t, err)
	assert.Equal(t, 20, updated.Points)
	assert.False(t, updated.IsActive)
}
