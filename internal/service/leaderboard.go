package service

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"quizia/internal/cache"
	"quizia/internal/config"
	"quizia/internal/domain"
	"quizia/internal/logger"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const (
	maxLeaderboardLimit    = 100
	leaderboardLoadTimeout = 10 * time.Second
)

var (
	// leaderboardCacheKey holds one field per requested limit.
	leaderboardCacheKey = cache.GenerateCacheKey("leaderboard", "top", "all")
	// leaderboardGenKey is bumped by every Invalidate. A fill that started
	// under an older generation must not survive in the cache.
	leaderboardGenKey = cache.GenerateCacheKey("leaderboard", "gen", "all")
)

// LeaderboardService serves the public points ranking.
type LeaderboardService interface {
	Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error)
	// Invalidate drops every cached ranking. Called after scores change.
	Invalidate(ctx context.Context) error
}

type leaderboardService struct {
	repo         domain.UserRepository
	cache        domain.Cache
	ttl          time.Duration
	defaultLimit int
	sf           singleflight.Group
}

// NewLeaderboardService reads through cache when it is non-nil. Cache
// failures fall back to the repository.
func NewLeaderboardService(repo domain.UserRepository, c domain.Cache, cfg config.QuizConfig) LeaderboardService {
	defaultLimit := cfg.LeaderboardLimit
	if defaultLimit <= 0 {
		defaultLimit = 10
	}
	return &leaderboardService{
		repo:         repo,
		cache:        c,
		ttl:          cfg.LeaderboardCacheTTL,
		defaultLimit: defaultLimit,
	}
}

func (s *leaderboardService) Top(ctx context.Context, limit int) ([]domain.LeaderboardEntry, error) {
	l := logger.Get()

	if limit <= 0 {
		limit = s.defaultLimit
	}
	if limit > maxLeaderboardLimit {
		limit = maxLeaderboardLimit
	}
	field := strconv.Itoa(limit)

	if s.cache != nil {
		cached, err := s.cache.HGet(ctx, leaderboardCacheKey, field)
		switch {
		case err == nil:
			var entries []domain.LeaderboardEntry
			errUnmarshal := json.Unmarshal([]byte(cached), &entries)
			if errUnmarshal == nil {
				return entries, nil
			}
			l.Warn("Discarding undecodable leaderboard cache entry", zap.String("field", field), zap.Error(errUnmarshal))
		case errors.Is(err, domain.ErrCacheMiss):
		default:
			l.Warn("Leaderboard cache read failed", zap.Error(err))
		}
	}

	// Collapsed callers share this load, so it must not die with the
	// first caller's request.
	v, err, _ := s.sf.Do(field, func() (interface{}, error) {
		loadCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), leaderboardLoadTimeout)
		defer cancel()

		gen, genOK := s.generation(loadCtx)
		entries, err := s.repo.ListTopUsers(loadCtx, limit)
		if err != nil {
			return nil, err
		}
		if genOK {
			s.store(loadCtx, gen, field, entries)
		}
		return entries, nil
	})
	if err != nil {
		return nil, domain.NewInternalError("Failed to load leaderboard", err)
	}
	return v.([]domain.LeaderboardEntry), nil
}

// generation reports false when the cache is unusable, in which case the
// fill is not cached at all.
func (s *leaderboardService) generation(ctx context.Context) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	gen, err := s.cache.Get(ctx, leaderboardGenKey)
	switch {
	case err == nil:
		return gen, true
	case errors.Is(err, domain.ErrCacheMiss):
		return "0", true
	default:
		logger.Get().Warn("Leaderboard generation read failed", zap.Error(err))
		return "", false
	}
}

// store writes entries loaded under gen. If an Invalidate ran since then the
// write is skipped, or undone when the generation moved during the write.
func (s *leaderboardService) store(ctx context.Context, gen, field string, entries []domain.LeaderboardEntry) {
	l := logger.Get()

	if current, ok := s.generation(ctx); !ok || current != gen {
		l.Debug("Skipping stale leaderboard fill", zap.String("field", field))
		return
	}

	data, err := json.Marshal(entries)
	if err != nil {
		l.Warn("Failed to encode leaderboard for cache", zap.Error(err))
		return
	}
	if err := s.cache.HSet(ctx, leaderboardCacheKey, field, string(data)); err != nil {
		l.Warn("Leaderboard cache write failed", zap.Error(err))
		return
	}
	if s.ttl > 0 {
		if err := s.cache.Expire(ctx, leaderboardCacheKey, s.ttl); err != nil {
			l.Warn("Failed to set leaderboard cache TTL", zap.Error(err))
		}
	}
	if current, ok := s.generation(ctx); !ok || current != gen {
		if err := s.cache.Delete(ctx, leaderboardCacheKey); err != nil {
			l.Warn("Failed to drop stale leaderboard fill", zap.Error(err))
		}
	}
}

func (s *leaderboardService) Invalidate(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	if _, err := s.cache.Incr(ctx, leaderboardGenKey); err != nil {
		return err
	}
	return s.cache.Delete(ctx, leaderboardCacheKey)
}
