package adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"quizia/internal/domain"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
)

const leaderboardKey = "quizia:leaderboard:top:all"

func TestRedisCacheAdapter_Get(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectGet(leaderboardKey).SetVal("cached")
		val, err := adapter.Get(ctx, leaderboardKey)
		assert.NoError(t, err)
		assert.Equal(t, "cached", val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CacheMiss", func(t *testing.T) {
		mock.ExpectGet(leaderboardKey).SetErr(redis.Nil)
		val, err := adapter.Get(ctx, leaderboardKey)
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
		assert.Empty(t, val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RedisError", func(t *testing.T) {
		redisErr := errors.New("some redis error")
		mock.ExpectGet(leaderboardKey).SetErr(redisErr)
		_, err := adapter.Get(ctx, leaderboardKey)
		assert.ErrorIs(t, err, redisErr)
		assert.NotErrorIs(t, err, domain.ErrCacheMiss)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisCacheAdapter_Set(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()
	expiration := time.Minute

	t.Run("Success", func(t *testing.T) {
		mock.ExpectSet(leaderboardKey, "v", expiration).SetVal("OK")
		assert.NoError(t, adapter.Set(ctx, leaderboardKey, "v", expiration))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RedisError", func(t *testing.T) {
		redisErr := errors.New("some redis error")
		mock.ExpectSet(leaderboardKey, "v", expiration).SetErr(redisErr)
		assert.ErrorIs(t, adapter.Set(ctx, leaderboardKey, "v", expiration), redisErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisCacheAdapter_Delete(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		mock.ExpectDel(leaderboardKey).SetVal(1)
		assert.NoError(t, adapter.Delete(ctx, leaderboardKey))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("SuccessKeyNotFound", func(t *testing.T) {
		mock.ExpectDel(leaderboardKey).SetVal(0)
		assert.NoError(t, adapter.Delete(ctx, leaderboardKey))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("RedisError", func(t *testing.T) {
		redisErr := errors.New("some redis error")
		mock.ExpectDel(leaderboardKey).SetErr(redisErr)
		assert.ErrorIs(t, adapter.Delete(ctx, leaderboardKey), redisErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisCacheAdapter_Hash(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()

	t.Run("HSet", func(t *testing.T) {
		mock.ExpectHSet(leaderboardKey, "10", "[]").SetVal(1)
		assert.NoError(t, adapter.HSet(ctx, leaderboardKey, "10", "[]"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("HGet", func(t *testing.T) {
		mock.ExpectHGet(leaderboardKey, "10").SetVal("[]")
		val, err := adapter.HGet(ctx, leaderboardKey, "10")
		assert.NoError(t, err)
		assert.Equal(t, "[]", val)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("HGetMiss", func(t *testing.T) {
		mock.ExpectHGet(leaderboardKey, "25").RedisNil()
		_, err := adapter.HGet(ctx, leaderboardKey, "25")
		assert.ErrorIs(t, err, domain.ErrCacheMiss)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Expire", func(t *testing.T) {
		mock.ExpectExpire(leaderboardKey, 30*time.Second).SetVal(true)
		assert.NoError(t, adapter.Expire(ctx, leaderboardKey, 30*time.Second))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestRedisCacheAdapter_Incr(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()
	genKey := leaderboardKey + ":gen"

	mock.ExpectIncr(genKey).SetVal(3)
	val, err := adapter.Incr(ctx, genKey)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), val)

	redisErr := errors.New("some redis error")
	mock.ExpectIncr(genKey).SetErr(redisErr)
	_, err = adapter.Incr(ctx, genKey)
	assert.ErrorIs(t, err, redisErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapter_Ping(t *testing.T) {
	db, mock := redismock.NewClientMock()
	adapter := NewRedisCacheAdapter(db)
	ctx := context.Background()

	mock.ExpectPing().SetVal("PONG")
	assert.NoError(t, adapter.Ping(ctx))

	redisErr := errors.New("some redis error")
	mock.ExpectPing().SetErr(redisErr)
	assert.ErrorIs(t, adapter.Ping(ctx), redisErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}
