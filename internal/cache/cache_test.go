// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxonomy/internal/models"
)

// testValkeyClient returns a Redis client for tests.
// Skips if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		client.Del(ctx, treeKey)
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func TestConnectValkey(t *testing.T) {
	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")

	client, err := ConnectValkey(context.Background(), host, port, os.Getenv("VALKEY_PASSWORD"))
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	assert.NoError(t, client.Ping(context.Background()).Err())
}

func TestConnectValkeyUnreachable(t *testing.T) {
	_, err := ConnectValkey(context.Background(), "127.0.0.1", "1", "")
	assert.Error(t, err)
}

func TestTreeCacheRoundTrip(t *testing.T) {
	client := testValkeyClient(t)
	tc := NewTreeCache(client, time.Minute)
	ctx := context.Background()
	require.NoError(t, tc.Invalidate(ctx))

	_, ok, err := tc.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	root := models.Category{ID: uuid.New(), Slug: "tech", NameEN: "Tech", PostCount: 3}
	child := models.Category{ID: uuid.New(), Slug: "go", ParentID: &root.ID, Depth: 1}
	root.Children = []models.Category{child}
	require.NoError(t, tc.Set(ctx, []models.Category{root}))

	got, ok, err := tc.Get(ctx)
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, got, 1)
	assert.Equal(t, "tech", got[0].Slug)
	assert.Equal(t, 3, got[0].PostCount)
	require.Len(t, got[0].Children, 1)
	assert.Equal(t, root.ID, *got[0].Children[0].ParentID)

	ttl := client.TTL(ctx, treeKey).Val()
	assert.True(t, ttl > 0 && ttl <= time.Minute, "ttl %s", ttl)

	require.NoError(t, tc.Invalidate(ctx))
	_, ok, err = tc.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestTreeCacheCorruptEntryIsMiss(t *testing.T) {
	client := testValkeyClient(t)
	tc := NewTreeCache(client, 0)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, treeKey, "{not json", time.Minute).Err())
	_, ok, err := tc.Get(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewTreeCacheDefaultTTL(t *testing.T) {
	tc := NewTreeCache(nil, 0)
	assert.Equal(t, DefaultTreeTTL, tc.ttl)
}
