package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bmc-class/bmc-api/internal/middleware"
	"github.com/bmc-class/bmc-api/internal/models"
	"github.com/bmc-class/bmc-api/internal/service"
)

type attendanceRepoStub struct {
	createErr error
	dates     []time.Time
	count     int
}

func (s *attendanceRepoStub) Create(ctx context.Context, record *models.Attendance) error {
	return s.createErr
}

func (s *attendanceRepoStub) ListDates(ctx context.Context, studentID string) ([]time.Time, error) {
	return s.dates, nil
}

func (s *attendanceRepoStub) CountByStudent(ctx context.Context, studentID string) (int, error) {
	return s.count, nil
}

type awarderStub struct{}

func (awarderStub) Award(ctx context.Context, studentID string, event models.PointEventType, reason string) (*service.AwardResult, error) {
	return &service.AwardResult{
		Entry:    models.PointLog{Points: 5, Type: event},
		NewTotal: 5,
	}, nil
}

func studentContext(w *httptest.ResponseRecorder, method, target string) *gin.Context {
	c, _ := gin.CreateTestContext(w)
	req := httptest.NewRequest(method, target, nil)
	c.Request = req
	c.Set(middleware.ContextUserKey, &models.JWTClaims{StudentID: "s1", Role: models.RoleStudent})
	return c
}

func TestAttendanceHandlerCheckIn(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &attendanceRepoStub{dates: []time.Time{time.Now()}}
	svc := service.NewAttendanceService(repo, awarderStub{}, nil, zap.NewNop())
	h := NewAttendanceHandler(svc, service.NewMetricsService())

	w := httptest.NewRecorder()
	c := studentContext(w, http.MethodPost, "/attendance/check-in")

	h.CheckIn(c)
	require.Equal(t, http.StatusCreated, w.Code)

	var body struct {
		Data struct {
			Points int `json:"points"`
			Streak int `json:"streak"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 5, body.Data.Points)
	assert.Equal(t, 1, body.Data.Streak)
}

func TestAttendanceHandlerCheckInDuplicate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &attendanceRepoStub{createErr: &pq.Error{Code: "23505"}}
	svc := service.NewAttendanceService(repo, awarderStub{}, nil, zap.NewNop())
	h := NewAttendanceHandler(svc, service.NewMetricsService())

	w := httptest.NewRecorder()
	c := studentContext(w, http.MethodPost, "/attendance/check-in")

	h.CheckIn(c)
	require.Equal(t, http.StatusConflict, w.Code)

	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "CONFLICT", body.Error.Code)
}

func TestAttendanceHandlerCheckInWithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := service.NewAttendanceService(&attendanceRepoStub{}, awarderStub{}, nil, zap.NewNop())
	h := NewAttendanceHandler(svc, service.NewMetricsService())

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/attendance/check-in", nil)

	h.CheckIn(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAttendanceHandlerSummary(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &attendanceRepoStub{count: 7}
	svc := service.NewAttendanceService(repo, awarderStub{}, nil, zap.NewNop())
	h := NewAttendanceHandler(svc, service.NewMetricsService())

	w := httptest.NewRecorder()
	c := studentContext(w, http.MethodGet, "/attendance/me")

	h.Summary(c)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			TotalCheckins int  `json:"total_checkins"`
			CheckedToday  bool `json:"checked_today"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 7, body.Data.TotalCheckins)
	assert.False(t, body.Data.CheckedToday)
}
