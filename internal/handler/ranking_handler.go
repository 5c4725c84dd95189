package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/bmc-class/bmc-api/internal/service"
	appErrors "github.com/bmc-class/bmc-api/pkg/errors"
	"github.com/bmc-class/bmc-api/pkg/response"
)

// RankingHandler wires HTTP endpoints to the ranking service.
type RankingHandler struct {
	service *service.RankingService
	metrics *service.MetricsService
}

// NewRankingHandler creates a new handler.
func NewRankingHandler(svc *service.RankingService, metrics *service.MetricsService) *RankingHandler {
	return &RankingHandler{service: svc, metrics: metrics}
}

// Individual godoc
// @Summary Individual leaderboard
// @Description Students ranked by total points descending
// @Tags Rankings
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /rankings/individual [get]
func (h *RankingHandler) Individual(c *gin.Context) {
	ranked, cached, err := h.service.Individual(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordCacheLookup(cached)
	response.JSON(c, http.StatusOK, ranked, nil, map[string]interface{}{"cached": cached})
}

// Team godoc
// @Summary Team leaderboard
// @Description Teams ranked by summed points descending
// @Tags Rankings
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /rankings/team [get]
func (h *RankingHandler) Team(c *gin.Context) {
	standings, cached, err := h.service.Team(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	h.metrics.RecordCacheLookup(cached)
	response.JSON(c, http.StatusOK, standings, nil, map[string]interface{}{"cached": cached})
}

// Mine godoc
// @Summary My rank
// @Description The authenticated student's leaderboard row
// @Tags Rankings
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /rankings/me [get]
func (h *RankingHandler) Mine(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	rank, err := h.service.RankOf(c.Request.Context(), claims.StudentID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, rank, nil)
}
