// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// SeedCategorySlug is the slug of the default root category.
const SeedCategorySlug = "uncategorized"

// Seed populates an empty database with the default root category so the
// tree is never empty on a fresh install. Rows created here have the nil
// UUID as their creator.
func Seed(ctx context.Context, db *sqlx.DB) error {
	var count int
	if err := db.GetContext(ctx, &count, "SELECT COUNT(*) FROM categories"); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}

	if count > 0 {
		log.Debug().Msg("database already seeded, skipping")
		return nil
	}

	now := time.Now().UTC().Truncate(time.Microsecond)
	_, err := db.ExecContext(ctx, db.Rebind(`
		INSERT INTO categories (id, slug, name_vi, name_en, description, sort_order, parent_id,
		                        creator_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, NULL, 0, NULL, ?, ?, ?)
	`), uuid.New(), SeedCategorySlug, "Chưa phân loại", "Uncategorized", uuid.Nil, now, now)
	if err != nil {
		return fmt.Errorf("seed insert category: %w", err)
	}

	log.Info().Str("slug", SeedCategorySlug).Msg("database seeded with default category")
	return nil
}
