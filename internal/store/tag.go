// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"taxonomy/internal/models"
)

// TagStore manages tags and their post associations.
type TagStore struct {
	ex sqlx.ExtContext
	sb sq.StatementBuilderType
}

// NewTagStore returns a new TagStore.
func NewTagStore(ex sqlx.ExtContext) *TagStore {
	return &TagStore{ex: ex, sb: builder(ex)}
}

const tagColumns = `t.id, t.slug, t.name_vi, t.name_en, t.name_vi_key, t.name_en_key,
	t.creator_id, t.modifier_id, t.created_at, t.updated_at`

var tagSorts = sortColumns{
	"name_vi":    "t.name_vi",
	"name_en":    "t.name_en",
	"slug":       "t.slug",
	"created_at": "t.created_at",
	"updated_at": "t.updated_at",
}

// Search returns one page of tags, optionally filtered by keyword, and the
// total number of matches.
func (s *TagStore) Search(ctx context.Context, keyword string, opts ListOptions) ([]models.Tag, int, error) {
	where := sq.And{}
	if keyword != "" {
		where = append(where, keywordLike(keyword, "t.name_vi", "t.name_en", "t.slug"))
	}

	total, err := count(ctx, s.ex, s.sb.Select("COUNT(*)").From("tags t").Where(where))
	if err != nil {
		return nil, 0, fmt.Errorf("count tags: %w", err)
	}

	var items []models.Tag
	b := opts.apply(s.sb.Select(tagColumns).From("tags t").Where(where), tagSorts, "t.created_at", true, "t.id")
	if err := selectAll(ctx, s.ex, &items, b); err != nil {
		return nil, 0, fmt.Errorf("search tags: %w", err)
	}
	return items, total, nil
}

// FindByID retrieves a tag by ID. Returns nil if not found.
func (s *TagStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	return s.findOne(ctx, sq.Eq{"t.id": id.String()})
}

// FindBySlug retrieves a tag by slug. Returns nil if not found.
func (s *TagStore) FindBySlug(ctx context.Context, slug string) (*models.Tag, error) {
	return s.findOne(ctx, sq.Eq{"t.slug": slug})
}

// FindByNameKey returns the oldest tag whose Vietnamese or English lookup
// key equals key. Returns nil if none matches.
func (s *TagStore) FindByNameKey(ctx context.Context, key string) (*models.Tag, error) {
	var t models.Tag
	b := s.sb.Select(tagColumns).From("tags t").
		Where(sq.Or{sq.Eq{"t.name_vi_key": key}, sq.Eq{"t.name_en_key": key}}).
		OrderBy("t.created_at", "t.id").
		Limit(1)
	err := getOne(ctx, s.ex, &t, b)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tag by name: %w", err)
	}
	return &t, nil
}

func (s *TagStore) findOne(ctx context.Context, where sq.Sqlizer) (*models.Tag, error) {
	var t models.Tag
	err := getOne(ctx, s.ex, &t, s.sb.Select(tagColumns).From("tags t").Where(where))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find tag: %w", err)
	}
	return &t, nil
}

// SlugOwner reports which tag owns slug.
func (s *TagStore) SlugOwner(ctx context.Context, slug string) (uuid.UUID, bool, error) {
	return slugOwner(ctx, s.ex, "tags", slug)
}

// Create inserts a new tag. ID, timestamps, and lookup keys are assigned
// here.
func (s *TagStore) Create(ctx context.Context, t *models.Tag) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	t.SetNames(t.NameVI, t.NameEN)
	t.CreatedAt = now()
	t.UpdatedAt = t.CreatedAt

	_, err := exec(ctx, s.ex, s.sb.Insert("tags").SetMap(map[string]any{
		"id":          t.ID,
		"slug":        t.Slug,
		"name_vi":     t.NameVI,
		"name_en":     t.NameEN,
		"name_vi_key": t.NameVIKey,
		"name_en_key": t.NameENKey,
		"creator_id":  t.CreatorID,
		"modifier_id": t.ModifierID,
		"created_at":  t.CreatedAt,
		"updated_at":  t.UpdatedAt,
	}))
	if err != nil {
		return fmt.Errorf("create tag: %w", err)
	}
	return nil
}

// Update writes the names, slug, and modifier of an existing tag.
func (s *TagStore) Update(ctx context.Context, t *models.Tag) error {
	t.SetNames(t.NameVI, t.NameEN)
	t.UpdatedAt = now()

	n, err := exec(ctx, s.ex, s.sb.Update("tags").SetMap(map[string]any{
		"slug":        t.Slug,
		"name_vi":     t.NameVI,
		"name_en":     t.NameEN,
		"name_vi_key": t.NameVIKey,
		"name_en_key": t.NameENKey,
		"modifier_id": t.ModifierID,
		"updated_at":  t.UpdatedAt,
	}).Where(sq.Eq{"id": t.ID.String()}))
	if err != nil {
		return fmt.Errorf("update tag: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update tag %s: %w", t.ID, ErrNotFound)
	}
	return nil
}

// DeletePostLinks removes every post association of a tag.
func (s *TagStore) DeletePostLinks(ctx context.Context, tagID uuid.UUID) (int64, error) {
	n, err := exec(ctx, s.ex, s.sb.Delete("post_tags").Where(sq.Eq{"tag_id": tagID.String()}))
	if err != nil {
		return 0, fmt.Errorf("delete tag links: %w", err)
	}
	return n, nil
}

// Delete removes a tag by ID.
func (s *TagStore) Delete(ctx context.Context, id uuid.UUID) error {
	n, err := exec(ctx, s.ex, s.sb.Delete("tags").Where(sq.Eq{"id": id.String()}))
	if err != nil {
		return fmt.Errorf("delete tag: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete tag %s: %w", id, ErrNotFound)
	}
	return nil
}

// ListForPosts returns the tags of each given post keyed by post id, each
// list ordered by English name.
func (s *TagStore) ListForPosts(ctx context.Context, postIDs []uuid.UUID) (map[uuid.UUID][]models.Tag, error) {
	out := make(map[uuid.UUID][]models.Tag, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		PostID uuid.UUID `db:"post_id"`
		models.Tag
	}
	b := s.sb.Select("pt.post_id", tagColumns).
		From("post_tags pt").
		Join("tags t ON t.id = pt.tag_id").
		Where(inIDs("pt.post_id", postIDs)).
		OrderBy("t.name_en", "t.id")
	if err := selectAll(ctx, s.ex, &rows, b); err != nil {
		return nil, fmt.Errorf("list post tags: %w", err)
	}
	for _, r := range rows {
		out[r.PostID] = append(out[r.PostID], r.Tag)
	}
	return out, nil
}
