package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"resolution-diagnostic/internal/common/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMiniRedis(t *testing.T) (*RedisClient, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)

	c, err := NewRedis(config.RedisConfig{Address: mr.Addr(), InsightTTL: 60, CacheTTL: 120})
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestNewRedis_EmptyAddress(t *testing.T) {
	_, err := NewRedis(config.RedisConfig{})
	assert.Error(t, err)
}

func TestConnectRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	c, err := ConnectRedis(ctx, config.RedisConfig{Address: mr.Addr()})
	require.NoError(t, err)
	require.NotNil(t, c)
	require.NoError(t, c.Close())

	addr := mr.Addr()
	mr.Close()

	c, err = ConnectRedis(ctx, config.RedisConfig{Address: addr})
	assert.Nil(t, c)
	assert.ErrorContains(t, err, "redis ping failed")

	_, err = ConnectRedis(ctx, config.RedisConfig{})
	assert.Error(t, err)
}

func TestNextInsightSequence(t *testing.T) {
	c, mr := newMiniRedis(t)
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := c.NextInsightSequence(ctx, "sess-1")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	assert.Equal(t, 60*time.Second, mr.TTL("diagnostic:insight:sess-1"))

	other, err := c.NextInsightSequence(ctx, "sess-2")
	require.NoError(t, err)
	assert.Equal(t, int64(1), other)

	mr.FastForward(61 * time.Second)
	again, err := c.NextInsightSequence(ctx, "sess-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), again)
}

func TestNextInsightSequence_NoSession(t *testing.T) {
	c, mr := newMiniRedis(t)

	n, err := c.NextInsightSequence(context.Background(), "")
	require.NoError(t, err)
	assert.Zero(t, n)
	assert.Empty(t, mr.Keys())
}

func TestEvaluationCache(t *testing.T) {
	c, mr := newMiniRedis(t)
	ctx := context.Background()
	key := EvaluationKey([]byte(`{"industry":"TECH"}`))

	_, ok, err := c.CachedEvaluation(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, c.StoreEvaluation(ctx, key, []byte(`{"institutionalState":"PROCESS_PARALYSIS"}`)))

	body, ok, err := c.CachedEvaluation(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"institutionalState":"PROCESS_PARALYSIS"}`, string(body))
	assert.Equal(t, 120*time.Second, mr.TTL("diagnostic:evaluation:"+key))
}

func TestEvaluationKey(t *testing.T) {
	a := EvaluationKey([]byte(`{"a":1}`))
	assert.Len(t, a, 64)
	assert.Equal(t, a, EvaluationKey([]byte(`{"a":1}`)))
	assert.NotEqual(t, a, EvaluationKey([]byte(`{"a":2}`)))
}

func TestRedisErrors_Mock(t *testing.T) {
	db, mock := redismock.NewClientMock()
	c := NewRedisFromClient(db, config.RedisConfig{InsightTTL: 30})
	ctx := context.Background()

	mock.ExpectIncr("diagnostic:insight:s").SetErr(errors.New("connection refused"))
	_, err := c.NextInsightSequence(ctx, "s")
	assert.ErrorContains(t, err, "connection refused")

	mock.ExpectIncr("diagnostic:insight:t").SetVal(1)
	mock.ExpectExpire("diagnostic:insight:t", 30*time.Second).SetErr(errors.New("readonly"))
	n, err := c.NextInsightSequence(ctx, "t")
	assert.Equal(t, int64(1), n)
	assert.ErrorContains(t, err, "readonly")

	mock.ExpectGet("diagnostic:evaluation:k").SetErr(errors.New("timeout"))
	_, ok, err := c.CachedEvaluation(ctx, "k")
	assert.False(t, ok)
	assert.Error(t, err)

	mock.ExpectPing().SetErr(errors.New("down"))
	assert.ErrorContains(t, c.Ping(ctx), "redis ping failed")

	assert.NoError(t, mock.ExpectationsWereMet())
}
