package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/bmc-class/bmc-api/internal/middleware"
	"github.com/bmc-class/bmc-api/internal/models"
	"github.com/bmc-class/bmc-api/internal/service"
)

type snapshotRepoStub struct {
	students []models.Student
}

func (s *snapshotRepoStub) Snapshot(ctx context.Context) ([]models.Student, error) {
	out := make([]models.Student, len(s.students))
	copy(out, s.students)
	return out, nil
}

func rankingTeam(name string) *string { return &name }

func newRankingHandler(repo *snapshotRepoStub) *RankingHandler {
	svc := service.NewRankingService(repo, nil, zap.NewNop(), service.RankingServiceConfig{})
	return NewRankingHandler(svc, service.NewMetricsService())
}

func TestRankingHandlerIndividual(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &snapshotRepoStub{students: []models.Student{
		{ID: "s1", Name: "김일등", Team: rankingTeam("1조"), TotalPoints: 90},
		{ID: "s2", Name: "박이등", Team: rankingTeam("2조"), TotalPoints: 40},
	}}
	h := newRankingHandler(repo)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/rankings/individual", nil)

	h.Individual(c)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []struct {
			Rank        int    `json:"rank"`
			Name        string `json:"name"`
			TotalPoints int    `json:"total_points"`
		} `json:"data"`
		Meta map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 2)
	assert.Equal(t, 1, body.Data[0].Rank)
	assert.Equal(t, "김일등", body.Data[0].Name)
	assert.Equal(t, 90, body.Data[0].TotalPoints)
	// Cache is disabled, so the meta flag must say so.
	assert.Equal(t, false, body.Meta["cached"])
}

func TestRankingHandlerTeam(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &snapshotRepoStub{students: []models.Student{
		{ID: "s1", Team: rankingTeam("1조"), TotalPoints: 60},
		{ID: "s2", Team: rankingTeam("1조"), TotalPoints: 40},
		{ID: "s3", TotalPoints: 500},
	}}
	h := newRankingHandler(repo)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/rankings/team", nil)

	h.Team(c)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []struct {
			Team        string `json:"team"`
			TotalPoints int    `json:"total_points"`
			MemberCount int    `json:"member_count"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, "1조", body.Data[0].Team)
	assert.Equal(t, 100, body.Data[0].TotalPoints)
	assert.Equal(t, 2, body.Data[0].MemberCount)
}

func TestRankingHandlerMine(t *testing.T) {
	gin.SetMode(gin.TestMode)
	repo := &snapshotRepoStub{students: []models.Student{
		{ID: "s1", Name: "김일등", TotalPoints: 90},
		{ID: "s2", Name: "박이등", TotalPoints: 40},
	}}
	h := newRankingHandler(repo)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/rankings/me", nil)
	c.Set(middleware.ContextUserKey, &models.JWTClaims{StudentID: "s2", Role: models.RoleStudent})

	h.Mine(c)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data struct {
			Rank int `json:"rank"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, 2, body.Data.Rank)
}

func TestRankingHandlerMineWithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := newRankingHandler(&snapshotRepoStub{})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/rankings/me", nil)

	h.Mine(c)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}
