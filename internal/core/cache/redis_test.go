package cache_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"employee-portal/internal/core/cache"
)

func startRedis(t *testing.T, image string) string {
	t.Helper()
	ctx := t.Context()
	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        image,
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(30 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "failed to start redis container")
	t.Cleanup(func() {
		if err := redisC.Terminate(ctx); err != nil {
			t.Logf("failed to terminate redis container: %v", err)
		}
	})

	addr, err := redisC.Endpoint(ctx, "")
	require.NoError(t, err)
	return addr
}

// The counter must work on servers without EXPIRE NX (added in 7.0).
func TestCache_Hit(t *testing.T) {
	t.Parallel()
	if testing.Short() {
		t.Skip("skipping integration test in short mode.")
	}

	for _, image := range []string{"redis:6.2-alpine", "redis:7-alpine"} {
		t.Run(image, func(t *testing.T) {
			t.Parallel()
			ctx := t.Context()
			c := cache.New(startRedis(t, image), "", 0)
			t.Cleanup(func() { _ = c.Close() })
			require.NoError(t, c.Ping(ctx))

			for want := int64(1); want <= 3; want++ {
				n, err := c.Hit(ctx, "verify:10.0.0.1", time.Second)
				require.NoError(t, err)
				assert.Equal(t, want, n)
			}
			ttl, err := c.RDB.PTTL(ctx, "verify:10.0.0.1").Result()
			require.NoError(t, err)
			assert.Positive(t, ttl, "counter carries the window TTL")

			other, err := c.Hit(ctx, "verify:10.0.0.2", time.Second)
			require.NoError(t, err)
			assert.Equal(t, int64(1), other, "keys are counted independently")

			require.Eventually(t, func() bool {
				n, err := c.Hit(ctx, "verify:10.0.0.1", time.Second)
				return err == nil && n == 1
			}, 5*time.Second, 300*time.Millisecond, "window resets after expiry")
		})
	}
}

func TestCache_HitUnreachable(t *testing.T) {
	t.Parallel()

	c := cache.New("127.0.0.1:1", "", 0)
	t.Cleanup(func() { _ = c.Close() })

	_, err := c.Hit(t.Context(), "k", time.Second)
	require.Error(t, err)
}
