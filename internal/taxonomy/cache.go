// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"context"

	"github.com/rs/zerolog/log"

	"taxonomy/internal/models"
)

// TreeCache stores the assembled category forest between writes.
type TreeCache interface {
	Get(ctx context.Context) ([]models.Category, bool, error)
	Set(ctx context.Context, tree []models.Category) error
	Invalidate(ctx context.Context) error
}

type noopTreeCache struct{}

func (noopTreeCache) Get(context.Context) ([]models.Category, bool, error) { return nil, false, nil }
func (noopTreeCache) Set(context.Context, []models.Category) error        { return nil }
func (noopTreeCache) Invalidate(context.Context) error                    { return nil }

// invalidateTree drops the cached tree. Failures are logged and ignored;
// the entry expires on its own.
func invalidateTree(ctx context.Context, cache TreeCache) {
	if err := cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("tree cache invalidation failed")
	}
}
