//go:build integration

package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/fortuna/courtside/internal/logging"
)

func startRedis(t *testing.T) string {
	t.Helper()
	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForListeningPort("6379/tcp").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	testcontainers.CleanupContainer(t, container)
	require.NoError(t, err)

	endpoint, err := container.Endpoint(ctx, "")
	require.NoError(t, err)
	return fmt.Sprintf("redis://%s/0", endpoint)
}

func TestRedisCache(t *testing.T) {
	ctx := context.Background()
	rc, err := NewRedisCache(ctx, startRedis(t), logging.Nop())
	require.NoError(t, err)
	defer rc.Close()

	require.NoError(t, rc.HealthCheck(ctx))

	_, err = rc.Get(ctx, "directory:players:nba")
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, rc.Set(ctx, "directory:players:nba", `[{"id":"1","full_name":"A"}]`, time.Minute))
	val, err := rc.Get(ctx, "directory:players:nba")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1","full_name":"A"}]`, val)

	ttl, err := rc.Client().TTL(ctx, "directory:players:nba").Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	require.NoError(t, rc.Delete(ctx, "directory:players:nba"))
	_, err = rc.Get(ctx, "directory:players:nba")
	assert.ErrorIs(t, err, ErrMiss)
}

func TestNewRedisCacheBadURL(t *testing.T) {
	_, err := NewRedisCache(context.Background(), "not a url", logging.Nop())
	assert.Error(t, err)
}
