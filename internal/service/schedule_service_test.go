package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bmc-class/bmc-api/internal/models"
	"github.com/bmc-class/bmc-api/internal/rules"
)

type mockScheduleRepo struct {
	entries []models.ScheduleEntry
}

func (m *mockScheduleRepo) List(ctx context.Context) ([]models.ScheduleEntry, error) {
	return m.entries, nil
}

func (m *mockScheduleRepo) FindByID(ctx context.Context, id string) (*models.ScheduleEntry, error) {
	for i := range m.entries {
		if m.entries[i].ID == id {
			cp := m.entries[i]
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *mockScheduleRepo) Create(ctx context.Context, entry *models.ScheduleEntry) error {
	if entry.ID == "" {
		entry.ID = "generated"
	}
	m.entries = append(m.entries, *entry)
	return nil
}

func (m *mockScheduleRepo) Update(ctx context.Context, entry *models.ScheduleEntry) error {
	for i := range m.entries {
		if m.entries[i].ID == entry.ID {
			m.entries[i] = *entry
			return nil
		}
	}
	return sql.ErrNoRows
}

func (m *mockScheduleRepo) Delete(ctx context.Context, id string) error {
	for i := range m.entries {
		if m.entries[i].ID == id {
			m.entries = append(m.entries[:i], m.entries[i+1:]...)
			return nil
		}
	}
	return sql.ErrNoRows
}

func kstDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 19, 0, 0, 0, rules.KST)
}

func sixWeekSchedule() []models.ScheduleEntry {
	entries := make([]models.ScheduleEntry, 0, 6)
	start := kstDate(2026, 3, 2)
	for week := 1; week <= 6; week++ {
		entries = append(entries, models.ScheduleEntry{
			ID:    string(rune('a' + week - 1)),
			Week:  week,
			Title: "정규 수업",
			Date:  start.AddDate(0, 0, (week-1)*7),
		})
	}
	return entries
}

func TestScheduleServiceOverviewMidCourse(t *testing.T) {
	repo := &mockScheduleRepo{entries: sixWeekSchedule()}
	svc := NewScheduleService(repo, nil, zap.NewNop())
	// Two days after the week-2 class, five days before week 3.
	svc.now = func() time.Time { return kstDate(2026, 3, 11) }

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, overview.CurrentWeek)
	require.NotNil(t, overview.NextClass)
	assert.Equal(t, 3, overview.NextClass.Week)
	assert.Equal(t, "D-5", overview.DDay)
}

func TestScheduleServiceOverviewOnClassDay(t *testing.T) {
	repo := &mockScheduleRepo{entries: sixWeekSchedule()}
	svc := NewScheduleService(repo, nil, zap.NewNop())
	svc.now = func() time.Time { return kstDate(2026, 3, 9) }

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, overview.CurrentWeek)
	require.NotNil(t, overview.NextClass)
	assert.Equal(t, 2, overview.NextClass.Week)
	assert.Equal(t, "D-Day", overview.DDay)
}

func TestScheduleServiceOverviewBeforeCourse(t *testing.T) {
	repo := &mockScheduleRepo{entries: sixWeekSchedule()}
	svc := NewScheduleService(repo, nil, zap.NewNop())
	svc.now = func() time.Time { return kstDate(2026, 2, 20) }

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, rules.WeekNotStarted, overview.CurrentWeek)
	require.NotNil(t, overview.NextClass)
	assert.Equal(t, 1, overview.NextClass.Week)
}

func TestScheduleServiceOverviewAfterCourse(t *testing.T) {
	repo := &mockScheduleRepo{entries: sixWeekSchedule()}
	svc := NewScheduleService(repo, nil, zap.NewNop())
	svc.now = func() time.Time { return kstDate(2026, 5, 1) }

	overview, err := svc.Overview(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 6, overview.CurrentWeek)
	assert.Nil(t, overview.NextClass)
	assert.Empty(t, overview.DDay)
}

func TestScheduleServiceUpdate(t *testing.T) {
	repo := &mockScheduleRepo{entries: sixWeekSchedule()}
	svc := NewScheduleService(repo, nil, zap.NewNop())

	title := "보강 수업"
	updated, err := svc.Update(context.Background(), "a", UpdateScheduleRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "보강 수업", updated.Title)
	assert.Equal(t, 1, updated.Week)
}
