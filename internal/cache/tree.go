// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"taxonomy/internal/models"
)

const (
	// treeKey is the Valkey key holding the assembled category forest.
	treeKey = "taxonomy:category-tree"

	// DefaultTreeTTL is how long an assembled tree stays cached.
	DefaultTreeTTL = 10 * time.Minute
)

// TreeCache stores the nested category forest as JSON in Valkey. Writes to
// categories or post classification invalidate it.
type TreeCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewTreeCache creates a tree cache backed by the given Valkey client.
func NewTreeCache(client redis.Cmdable, ttl time.Duration) *TreeCache {
	if ttl <= 0 {
		ttl = DefaultTreeTTL
	}
	return &TreeCache{client: client, ttl: ttl}
}

// Get returns the cached tree. The boolean is false on a miss.
func (tc *TreeCache) Get(ctx context.Context) ([]models.Category, bool, error) {
	val, err := tc.client.Get(ctx, treeKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("tree cache get: %w", err)
	}

	var tree []models.Category
	if err := json.Unmarshal(val, &tree); err != nil {
		// A corrupt entry is treated as a miss and overwritten on the next Set.
		log.Warn().Err(err).Msg("tree cache entry unreadable")
		return nil, false, nil
	}
	log.Debug().Msg("tree cache hit")
	return tree, true, nil
}

// Set stores the tree with the configured TTL.
func (tc *TreeCache) Set(ctx context.Context, tree []models.Category) error {
	data, err := json.Marshal(tree)
	if err != nil {
		return fmt.Errorf("tree cache encode: %w", err)
	}
	if err := tc.client.Set(ctx, treeKey, data, tc.ttl).Err(); err != nil {
		return fmt.Errorf("tree cache set: %w", err)
	}
	return nil
}

// Invalidate removes the cached tree.
func (tc *TreeCache) Invalidate(ctx context.Context) error {
	if err := tc.client.Del(ctx, treeKey).Err(); err != nil {
		return fmt.Errorf("tree cache invalidate: %w", err)
	}
	log.Debug().Msg("tree cache invalidated")
	return nil
}
