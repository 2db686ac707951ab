package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"quizia/internal/adapter"
	"quizia/internal/config"
	"quizia/internal/domain"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var topUsers = []domain.LeaderboardEntry{{Name: "Ana", Points: 20}, {Name: "Luis", Points: 9}}

func newLeaderboardFixture(t *testing.T) (LeaderboardService, *MockUserRepository, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	repo := new(MockUserRepository)
	svc := NewLeaderboardService(repo, adapter.NewRedisCacheAdapter(client), config.QuizConfig{
		LeaderboardLimit:    10,
		LeaderboardCacheTTL: 30 * time.Second,
	})
	return svc, repo, mr
}

func TestLeaderboardService_ReadsThroughCache(t *testing.T) {
	svc, repo, mr := newLeaderboardFixture(t)
	repo.On("ListTopUsers", mock.Anything, 10).Return(topUsers, nil).Once()

	first, err := svc.Top(context.Background(), 0)
	require.NoError(t, err)
	second, err := svc.Top(context.Background(), 10)
	require.NoError(t, err)

	assert.Equal(t, topUsers, first)
	assert.Equal(t, topUsers, second)
	repo.AssertNumberOfCalls(t, "ListTopUsers", 1)
	assert.True(t, mr.Exists(leaderboardCacheKey))
	assert.Equal(t, 30*time.Second, mr.TTL(leaderboardCacheKey))
	assert.JSONEq(t, `[{"name":"Ana","points":20},{"name":"Luis","points":9}]`, mr.HGet(leaderboardCacheKey, "10"))
}

func TestLeaderboardService_InvalidateForcesReload(t *testing.T) {
	svc, repo, mr := newLeaderboardFixture(t)
	repo.On("ListTopUsers", mock.Anything, 5).Return(topUsers, nil).Twice()

	_, err := svc.Top(context.Background(), 5)
	require.NoError(t, err)
	require.NoError(t, svc.Invalidate(context.Background()))
	assert.False(t, mr.Exists(leaderboardCacheKey))
	_, err = svc.Top(context.Background(), 5)
	require.NoError(t, err)

	repo.AssertNumberOfCalls(t, "ListTopUsers", 2)
}

func TestLeaderboardService_ClampsLimit(t *testing.T) {
	svc, repo, _ := newLeaderboardFixture(t)
	repo.On("ListTopUsers", mock.Anything, maxLeaderboardLimit).Return([]domain.LeaderboardEntry{}, nil).Once()

	entries, err := svc.Top(context.Background(), 5000)

	require.NoError(t, err)
	assert.Empty(t, entries)
	repo.AssertExpectations(t)
}

func TestLeaderboardService_CorruptCacheEntryFallsBack(t *testing.T) {
	svc, repo, mr := newLeaderboardFixture(t)
	mr.HSet(leaderboardCacheKey, "10", "{not json")
	repo.On("ListTopUsers", mock.Anything, 10).Return(topUsers, nil).Once()

	entries, err := svc.Top(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, topUsers, entries)
}

func TestLeaderboardService_CacheDownFallsBackToRepository(t *testing.T) {
	svc, repo, mr := newLeaderboardFixture(t)
	mr.Close()
	repo.On("ListTopUsers", mock.Anything, 10).Return(topUsers, nil).Once()

	entries, err := svc.Top(context.Background(), 10)

	require.NoError(t, err)
	assert.Equal(t, topUsers, entries)
}

func TestLeaderboardService_RepositoryError(t *testing.T) {
	svc, repo, _ := newLeaderboardFixture(t)
	repo.On("ListTopUsers", mock.Anything, 10).Return(nil, errors.New("ORA-12541"))

	_, err := svc.Top(context.Background(), 10)

	var domainErr *domain.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, domain.CodeInternal, domainErr.Code)
}

func TestLeaderboardService_WithoutCache(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewLeaderboardService(repo, nil, config.QuizConfig{})
	repo.On("ListTopUsers", mock.Anything, 10).Return(topUsers, nil).Twice()

	_, err := svc.Top(context.Background(), 0)
	require.NoError(t, err)
	_, err = svc.Top(context.Background(), 0)
	require.NoError(t, err)

	assert.NoError(t, svc.Invalidate(context.Background()))
	repo.AssertNumberOfCalls(t, "ListTopUsers", 2)
}

func TestLeaderboardService_ConcurrentReads(t *testing.T) {
	svc, repo, _ := newLeaderboardFixture(t)
	repo.On("ListTopUsers", mock.Anything, 10).Return(topUsers, nil)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			entries, err := svc.Top(context.Background(), 10)
			assert.NoError(t, err)
			assert.Equal(t, topUsers, entries)
		}()
	}
	wg.Wait()

	assert.GreaterOrEqual(t, len(repo.Calls), 1)
}

func TestLeaderboardService_InvalidateDuringLoadDropsStaleFill(t *testing.T) {
	svc, repo, mr := newLeaderboardFixture(t)
	before := []domain.LeaderboardEntry{{Name: "Ana", Points: 1}}
	after := []domain.LeaderboardEntry{{Name: "Ana", Points: 2}}

	loading := make(chan struct{})
	release := make(chan struct{})
	repo.On("ListTopUsers", mock.Anything, 10).Run(func(mock.Arguments) {
		close(loading)
		<-release
	}).Return(before, nil).Once()
	repo.On("ListTopUsers", mock.Anything, 10).Return(after, nil).Once()

	done := make(chan []domain.LeaderboardEntry)
	go func() {
		entries, err := svc.Top(context.Background(), 10)
		assert.NoError(t, err)
		done <- entries
	}()

	<-loading
	require.NoError(t, svc.Invalidate(context.Background()))
	close(release)
	assert.Equal(t, before, <-done)

	assert.False(t, mr.Exists(leaderboardCacheKey))
	entries, err := svc.Top(context.Background(), 10)
	require.NoError(t, err)
	assert.Equal(t, after, entries)
	repo.AssertNumberOfCalls(t, "ListTopUsers", 2)
}

func TestLeaderboardService_LoadOutlivesCanceledCaller(t *testing.T) {
	repo := new(MockUserRepository)
	svc := NewLeaderboardService(repo, nil, config.QuizConfig{})
	repo.On("ListTopUsers", mock.MatchedBy(func(ctx context.Context) bool {
		return ctx.Err() == nil
	}), 10).Return(topUsers, nil).Once()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	entries, err := svc.Top(ctx, 10)

	require.NoError(t, err)
	assert.Equal(t, topUsers, entries)
	repo.AssertExpectations(t)
}
