package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/bmc-class/bmc-api/internal/models"
	"github.com/bmc-class/bmc-api/internal/rules"
	appErrors "github.com/bmc-class/bmc-api/pkg/errors"
)

type rankingStudentRepository interface {
	Snapshot(ctx context.Context) ([]models.Student, error)
}

const (
	individualRankingKey = "rankings:individual"
	teamRankingKey       = "rankings:team"
)

// RankingServiceConfig tunes leaderboard caching.
type RankingServiceConfig struct {
	CacheEnabled bool
	CacheTTL     time.Duration
}

// RankingService derives leaderboards from a student snapshot.
type RankingService struct {
	students rankingStudentRepository
	cache    *CacheService
	logger   *zap.Logger
	cfg      RankingServiceConfig
}

// NewRankingService constructs the ranking service.
func NewRankingService(students rankingStudentRepository, cache *CacheService, logger *zap.Logger, cfg RankingServiceConfig) *RankingService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	return &RankingService{students: students, cache: cache, logger: logger, cfg: cfg}
}

// Individual returns the individual leaderboard, indicating cache usage.
func (s *RankingService) Individual(ctx context.Context) ([]rules.RankedStudent, bool, error) {
	if s.cfg.CacheEnabled {
		var cached []rules.RankedStudent
		if hit, err := s.cache.GetJSON(ctx, individualRankingKey, &cached); err == nil && hit {
			return cached, true, nil
		}
	}

	snapshot, err := s.students.Snapshot(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student snapshot")
	}
	ranked := rules.IndividualRanking(snapshot)

	if s.cfg.CacheEnabled {
		if err := s.cache.SetJSON(ctx, individualRankingKey, ranked, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("failed to cache individual ranking", zap.Error(err))
		}
	}
	return ranked, false, nil
}

// Team returns the team leaderboard, indicating cache usage.
func (s *RankingService) Team(ctx context.Context) ([]rules.TeamStanding, bool, error) {
	if s.cfg.CacheEnabled {
		var cached []rules.TeamStanding
		if hit, err := s.cache.GetJSON(ctx, teamRankingKey, &cached); err == nil && hit {
			return cached, true, nil
		}
	}

	snapshot, err := s.students.Snapshot(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student snapshot")
	}
	standings := rules.TeamRanking(snapshot)

	if s.cfg.CacheEnabled {
		if err := s.cache.SetJSON(ctx, teamRankingKey, standings, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("failed to cache team ranking", zap.Error(err))
		}
	}
	return standings, false, nil
}

// RankOf finds one student's leaderboard row.
func (s *RankingService) RankOf(ctx context.Context, studentID string) (*rules.RankedStudent, error) {
	ranked, _, err := s.Individual(ctx)
	if err != nil {
		return nil, err
	}
	row, err := rules.RankOf(ranked, studentID)
	if err != nil {
		return nil, err
	}
	return &row, nil
}

// Invalidate drops cached leaderboards after point mutations.
func (s *RankingService) Invalidate(ctx context.Context) {
	if s.cfg.CacheEnabled {
		s.cache.Invalidate(ctx, individualRankingKey, teamRankingKey)
	}
}
