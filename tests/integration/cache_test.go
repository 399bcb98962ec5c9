//go:build integration

package integration

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/nrivas/portfolio-core/pkg/cache"
)

// setupRedis creates a Redis container for integration testing.
func setupRedis(t *testing.T) (*redis.Client, func()) {
	t.Helper()

	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForLog("Ready to accept connections"),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("Failed to start Redis container: %v", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("Failed to get container host: %v", err)
	}

	port, err := container.MappedPort(ctx, "6379")
	if err != nil {
		t.Fatalf("Failed to get container port: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr: host + ":" + port.Port(),
	})

	cleanup := func() {
		redisClient.Close()
		container.Terminate(ctx)
	}

	return redisClient, cleanup
}

func newManager(redisClient *redis.Client, namespace string) *cache.Manager {
	return cache.NewManager(cache.Config{
		Redis:          redisClient,
		Namespace:      namespace,
		DefaultTTL:     time.Minute,
		MaxMemoryItems: 100,
	})
}

// TestDualTierRoundTrip verifies that a write lands in both tiers and
// that a second manager sharing the same Redis sees the value through
// the primary tier.
func TestDualTierRoundTrip(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	ctx := context.Background()

	writer := newManager(redisClient, "it")
	defer writer.Close()

	set := writer.Set(ctx, "videos", map[string]string{"id": "vid1"})
	if !set.Success {
		t.Fatal("Set failed")
	}
	if set.Source != cache.SourcePrimary {
		t.Errorf("Set source = %s, want primary", set.Source)
	}

	// A fresh manager has an empty secondary tier, so a hit proves the
	// primary tier holds the value.
	reader := newManager(redisClient, "it")
	defer reader.Close()

	got := reader.Get(ctx, "videos")
	if !got.FromCache {
		t.Fatal("Get should hit the primary tier")
	}
	if got.Source != cache.SourcePrimary {
		t.Errorf("Get source = %s, want primary", got.Source)
	}

	var value map[string]string
	if err := got.Decode(&value); err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if value["id"] != "vid1" {
		t.Errorf("value = %+v", value)
	}
}

// TestPrimaryHitRepopulatesSecondary verifies that after a primary-tier
// hit, the same key is answered by the secondary tier once the primary
// becomes unreachable.
func TestPrimaryHitRepopulatesSecondary(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	ctx := context.Background()

	writer := newManager(redisClient, "it")
	defer writer.Close()
	writer.Set(ctx, "repos", []string{"a", "b"})

	reader := newManager(redisClient, "it")
	defer reader.Close()

	if got := reader.Get(ctx, "repos"); got.Source != cache.SourcePrimary {
		t.Fatalf("first Get source = %s, want primary", got.Source)
	}

	// Sever the primary tier. The repopulated secondary must answer.
	redisClient.Close()

	got := reader.Get(ctx, "repos")
	if !got.FromCache {
		t.Fatal("Get should fall back to the secondary tier")
	}
	if got.Source != cache.SourceSecondary {
		t.Errorf("fallback source = %s, want secondary", got.Source)
	}
}

// TestClearIsNamespaceScoped verifies that Clear removes only the
// manager's own namespace from the shared primary store.
func TestClearIsNamespaceScoped(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	ctx := context.Background()

	first := newManager(redisClient, "ns1")
	defer first.Close()
	second := newManager(redisClient, "ns2")
	defer second.Close()

	first.Set(ctx, "key", "first-value")
	second.Set(ctx, "key", "second-value")

	first.Clear(ctx)

	if got := first.Get(ctx, "key"); got.FromCache {
		t.Error("ns1 key should be gone after Clear")
	}
	if got := second.Get(ctx, "key"); !got.FromCache {
		t.Error("ns2 key should survive ns1's Clear")
	}
}

// TestDeleteRemovesBothTiers verifies cross-tier delete.
func TestDeleteRemovesBothTiers(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	ctx := context.Background()

	m := newManager(redisClient, "it")
	defer m.Close()

	m.Set(ctx, "posts", "payload")
	if got := m.Get(ctx, "posts"); !got.FromCache {
		t.Fatal("value should be cached before delete")
	}

	if del := m.Delete(ctx, "posts"); !del.Success {
		t.Fatal("Delete failed")
	}
	if got := m.Get(ctx, "posts"); got.FromCache {
		t.Error("value should be gone from both tiers")
	}

	// Idempotent: deleting again still succeeds.
	if del := m.Delete(ctx, "posts"); !del.Success {
		t.Error("repeated Delete should succeed")
	}
}

// TestHealthDegradesWhenPrimaryLost verifies the health classification
// when a configured primary tier becomes unreachable.
func TestHealthDegradesWhenPrimaryLost(t *testing.T) {
	redisClient, cleanup := setupRedis(t)
	defer cleanup()

	ctx := context.Background()

	m := newManager(redisClient, "it")
	defer m.Close()

	m.Set(ctx, "key", "value")
	if status := m.GetHealthStatus(); status.State != "healthy" {
		t.Fatalf("state = %s, want healthy with primary connected", status.State)
	}

	// Enough successful operations that the single failure below keeps
	// the error rate under the degraded threshold; the classification
	// must come from the lost primary, not the error rate.
	for i := 0; i < 30; i++ {
		m.Get(ctx, "key")
	}

	redisClient.Close()
	m.Set(ctx, "key2", "value2") // observes the lost connection

	if status := m.GetHealthStatus(); status.State != "degraded" {
		t.Errorf("state = %s, want degraded after losing primary", status.State)
	}
}
