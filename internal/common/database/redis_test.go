package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"bizplan-workers/internal/common/config"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResponseCache_Miniredis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := NewRedis(config.RedisConfig{Address: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	require.NoError(t, client.Ping(ctx))

	cache := NewResponseCache(client, "bizplan:remote:", time.Minute)

	_, ok, err := cache.Get(ctx, "/cover-page")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, cache.Set(ctx, "/cover-page", []byte(`{"companyName":"Acme"}`)))
	assert.True(t, mr.Exists("bizplan:remote:/cover-page"))

	b, ok, err := cache.Get(ctx, "/cover-page")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.JSONEq(t, `{"companyName":"Acme"}`, string(b))

	mr.FastForward(2 * time.Minute)
	_, ok, err = cache.Get(ctx, "/cover-page")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestResponseCache_Invalidate(t *testing.T) {
	mr := miniredis.RunT(t)
	client := NewRedis(config.RedisConfig{Address: mr.Addr()})
	defer client.Close()

	ctx := context.Background()
	cache := NewResponseCache(client, "p:", time.Minute)
	require.NoError(t, cache.Set(ctx, "/grants", []byte(`{}`)))
	require.NoError(t, cache.Set(ctx, "/appendix", []byte(`{}`)))

	require.NoError(t, cache.Invalidate(ctx, "/grants", "/appendix"))
	assert.False(t, mr.Exists("p:/grants"))
	assert.False(t, mr.Exists("p:/appendix"))
	assert.NoError(t, cache.Invalidate(ctx))
}

func TestResponseCache_RedisErrors(t *testing.T) {
	db, mock := redismock.NewClientMock()
	cache := NewResponseCache(NewRedisFromCmdable(db), "p:", 30*time.Second)
	ctx := context.Background()

	mock.ExpectGet("p:/grants").SetErr(errors.New("connection refused"))
	_, ok, err := cache.Get(ctx, "/grants")
	assert.Error(t, err)
	assert.False(t, ok)

	mock.ExpectSet("p:/grants", []byte(`{}`), 30*time.Second).SetErr(errors.New("READONLY"))
	assert.Error(t, cache.Set(ctx, "/grants", []byte(`{}`)))

	mock.ExpectGet("p:/appendix").RedisNil()
	_, ok, err = cache.Get(ctx, "/appendix")
	assert.NoError(t, err)
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}
