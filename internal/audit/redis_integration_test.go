package audit

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/Sahil-1827/task-management-system-backend/internal/entities"

	"github.com/go-redis/redis/v8"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()

	pool, err := dockertest.NewPool("")
	require.NoError(t, err)

	resource, err := pool.RunWithOptions(&dockertest.RunOptions{
		Repository: "redis",
		Tag:        "7-alpine",
	}, func(hc *docker.HostConfig) {
		hc.AutoRemove = true
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Purge(resource) })

	client := redis.NewClient(&redis.Options{Addr: "localhost:" + resource.GetPort("6379/tcp")})
	require.NoError(t, pool.Retry(func() error {
		return client.Ping(context.Background()).Err()
	}))
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisStoreIntegration(t *testing.T) {
	ctx := context.Background()
	store := NewRedisStore(setupRedis(t), "test")
	l := NewLog(zap.NewNop().Sugar(), store, &fixedReach{}, DefaultLimits())

	var wg sync.WaitGroup
	for i := 0; i < 60; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := l.Append(ctx, admin, entities.ActivityLogEntry{
				Action:   entities.ActionCreate,
				Entity:   entities.EntityTask,
				EntityID: fmt.Sprintf("task-%d", i),
			})
			require.NoError(t, err)
		}(i)
	}
	wg.Wait()

	got, err := l.Query(ctx, admin, 0)
	require.NoError(t, err)
	require.Len(t, got, DefaultMaxEntries)

	first, err := l.Append(ctx, admin, entities.ActivityLogEntry{Action: entities.ActionDelete, Entity: entities.EntityTeam, EntityID: "last"})
	require.NoError(t, err)
	got, err = l.Query(ctx, admin, 1)
	require.NoError(t, err)
	require.Equal(t, first.ID, got[0].ID)
}
