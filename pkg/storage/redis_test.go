package storage_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-optionspage/pkg/storage"
)

func setupRedis(t *testing.T) (*storage.Redis, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	backend, err := storage.NewRedis(context.Background(), storage.RedisOptions{
		URL:    fmt.Sprintf("redis://%s", mr.Addr()),
		Prefix: "test:",
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = backend.Close()
	})
	return backend, mr
}

func TestRedisBackend(t *testing.T) {
	backend, _ := setupRedis(t)
	exerciseBackend(t, backend)
}

func TestRedisBackend_KeyLayout(t *testing.T) {
	backend, mr := setupRedis(t)
	ctx := context.Background()

	require.NoError(t, backend.Save(ctx, "general", map[string]string{"title": "Hi"}))

	assert.Equal(t, "Hi", mr.HGet("test:options:general", "title"))
	members, err := mr.Members("test:namespaces")
	require.NoError(t, err)
	assert.Equal(t, []string{"general"}, members)

	require.NoError(t, backend.Save(ctx, "general", map[string]string{}))
	assert.False(t, mr.Exists("test:options:general"))

	values, err := backend.Load(ctx, "general")
	require.NoError(t, err)
	assert.Empty(t, values)
}

func TestRedisBackend_ConnectFailure(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := storage.NewRedis(context.Background(), storage.RedisOptions{URL: fmt.Sprintf("redis://%s", addr)})
	assert.Error(t, err)
}
