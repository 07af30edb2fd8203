package redis

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/osse101/EcoQuest_Go/internal/store"
)

func setupRedis(t *testing.T) *KV {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	ctx := context.Background()

	var container testcontainers.Container
	var err error
	func() {
		defer func() {
			if r := recover(); r != nil {
				t.Skipf("Skipping integration test due to panic (likely Docker issue): %v", r)
			}
		}()
		container, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: testcontainers.ContainerRequest{
				Image:        "redis:7-alpine",
				ExposedPorts: []string{"6379/tcp"},
				WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(10 * time.Second),
			},
			Started: true,
		})
	}()
	if err != nil || container == nil {
		t.Skipf("Skipping integration test: redis not available: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	kv, err := Connect(ctx, Options{Addr: fmt.Sprintf("%s:%s", host, port.Port()), Namespace: "test"})
	require.NoError(t, err)
	t.Cleanup(func() { kv.Close() })
	return kv
}

func TestKV_Integration(t *testing.T) {
	kv := setupRedis(t)
	ctx := context.Background()

	_, err := kv.GetItem(ctx, "missing")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, kv.SetItem(ctx, "cache_u1_stats", "a"))
	require.NoError(t, kv.SetItem(ctx, "cache_u1_recent", "b"))
	require.NoError(t, kv.SetItem(ctx, "cache_u2_stats", "c"))

	v, err := kv.GetItem(ctx, "cache_u1_stats")
	require.NoError(t, err)
	assert.Equal(t, "a", v)

	keys, err := kv.Keys(ctx, "cache_u1_")
	require.NoError(t, err)
	assert.Equal(t, []string{"cache_u1_recent", "cache_u1_stats"}, keys)

	require.NoError(t, kv.RemoveItem(ctx, "cache_u1_stats"))
	_, err = kv.GetItem(ctx, "cache_u1_stats")
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestConnect_Unreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := Connect(ctx, Options{Addr: "127.0.0.1:1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgFailedToConnect)
}

func TestEscapeGlob(t *testing.T) {
	assert.Equal(t, `a\*b\?c\[d\]`, escapeGlob("a*b?c[d]"))
}
