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

// CategoryStore manages categories in the database.
type CategoryStore struct {
	ex sqlx.ExtContext
	sb sq.StatementBuilderType
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(ex sqlx.ExtContext) *CategoryStore {
	return &CategoryStore{ex: ex, sb: builder(ex)}
}

const (
	categoryColumns = `c.id, c.slug, c.name_vi, c.name_en, c.description, c.sort_order,
		c.parent_id, c.creator_id, c.modifier_id, c.created_at, c.updated_at`
	categoryPostCount = `(SELECT COUNT(*) FROM posts p WHERE p.category_id = c.id) AS post_count`
)

var categorySorts = sortColumns{
	"order":      "c.sort_order",
	"name_vi":    "c.name_vi",
	"name_en":    "c.name_en",
	"slug":       "c.slug",
	"created_at": "c.created_at",
	"updated_at": "c.updated_at",
}

// CategoryFilter narrows Search results.
type CategoryFilter struct {
	ParentID *uuid.UUID
	RootOnly bool
	Keyword  string
}

func (s *CategoryStore) selectCategories() sq.SelectBuilder {
	return s.sb.Select(categoryColumns, categoryPostCount).From("categories c")
}

// List returns all categories ordered by sort_order, with post counts.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	var items []models.Category
	b := s.selectCategories().OrderBy("c.sort_order", "c.created_at", "c.id")
	if err := selectAll(ctx, s.ex, &items, b); err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	return items, nil
}

// Search returns one page of categories matching the filter and the total
// number of matches.
func (s *CategoryStore) Search(ctx context.Context, f CategoryFilter, opts ListOptions) ([]models.Category, int, error) {
	where := sq.And{}
	switch {
	case f.ParentID != nil:
		where = append(where, eqID("c.parent_id", f.ParentID))
	case f.RootOnly:
		where = append(where, eqID("c.parent_id", nil))
	}
	if f.Keyword != "" {
		where = append(where, keywordLike(f.Keyword, "c.name_vi", "c.name_en", "c.slug"))
	}

	total, err := count(ctx, s.ex, s.sb.Select("COUNT(*)").From("categories c").Where(where))
	if err != nil {
		return nil, 0, fmt.Errorf("count categories: %w", err)
	}

	var items []models.Category
	b := opts.apply(s.selectCategories().Where(where), categorySorts, "c.sort_order", false, "c.id")
	if err := selectAll(ctx, s.ex, &items, b); err != nil {
		return nil, 0, fmt.Errorf("search categories: %w", err)
	}
	return items, total, nil
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	return s.findOne(ctx, sq.Eq{"c.id": id.String()})
}

// FindBySlug retrieves a category by slug. Returns nil if not found.
func (s *CategoryStore) FindBySlug(ctx context.Context, slug string) (*models.Category, error) {
	return s.findOne(ctx, sq.Eq{"c.slug": slug})
}

func (s *CategoryStore) findOne(ctx context.Context, where sq.Sqlizer) (*models.Category, error) {
	var c models.Category
	err := getOne(ctx, s.ex, &c, s.selectCategories().Where(where))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	return &c, nil
}

// FindChildren returns the direct children of a category ordered by
// sort_order.
func (s *CategoryStore) FindChildren(ctx context.Context, parentID uuid.UUID) ([]models.Category, error) {
	var items []models.Category
	b := s.selectCategories().
		Where(eqID("c.parent_id", &parentID)).
		OrderBy("c.sort_order", "c.created_at", "c.id")
	if err := selectAll(ctx, s.ex, &items, b); err != nil {
		return nil, fmt.Errorf("find category children: %w", err)
	}
	return items, nil
}

// SlugOwner reports which category owns slug.
func (s *CategoryStore) SlugOwner(ctx context.Context, slug string) (uuid.UUID, bool, error) {
	return slugOwner(ctx, s.ex, "categories", slug)
}

// Exists reports whether a category with the given id exists.
func (s *CategoryStore) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	n, err := count(ctx, s.ex, s.sb.Select("COUNT(*)").From("categories").Where(sq.Eq{"id": id.String()}))
	if err != nil {
		return false, fmt.Errorf("category exists: %w", err)
	}
	return n > 0, nil
}

// NextSortOrder returns the next sort_order value for a given parent.
func (s *CategoryStore) NextSortOrder(ctx context.Context, parentID *uuid.UUID) (int, error) {
	var maxOrder sql.NullInt64
	err := getOne(ctx, s.ex, &maxOrder,
		s.sb.Select("MAX(sort_order)").From("categories").Where(eqID("parent_id", parentID)))
	if err != nil {
		return 0, fmt.Errorf("next sort order: %w", err)
	}
	if maxOrder.Valid {
		return int(maxOrder.Int64) + 1, nil
	}
	return 0, nil
}

// Create inserts a new category. ID and timestamps are assigned here when
// unset.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	c.CreatedAt = now()
	c.UpdatedAt = c.CreatedAt

	_, err := exec(ctx, s.ex, s.sb.Insert("categories").SetMap(map[string]any{
		"id":          c.ID,
		"slug":        c.Slug,
		"name_vi":     c.NameVI,
		"name_en":     c.NameEN,
		"description": c.Description,
		"sort_order":  c.SortOrder,
		"parent_id":   c.ParentID,
		"creator_id":  c.CreatorID,
		"modifier_id": c.ModifierID,
		"created_at":  c.CreatedAt,
		"updated_at":  c.UpdatedAt,
	}))
	if err != nil {
		return fmt.Errorf("create category: %w", err)
	}
	return nil
}

// Update writes every mutable column of an existing category.
func (s *CategoryStore) Update(ctx context.Context, c *models.Category) error {
	c.UpdatedAt = now()
	n, err := exec(ctx, s.ex, s.sb.Update("categories").SetMap(map[string]any{
		"slug":        c.Slug,
		"name_vi":     c.NameVI,
		"name_en":     c.NameEN,
		"description": c.Description,
		"sort_order":  c.SortOrder,
		"parent_id":   c.ParentID,
		"modifier_id": c.ModifierID,
		"updated_at":  c.UpdatedAt,
	}).Where(sq.Eq{"id": c.ID.String()}))
	if err != nil {
		return fmt.Errorf("update category: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update category %s: %w", c.ID, ErrNotFound)
	}
	return nil
}

// ChildIDs returns the ids of every category whose parent is in parentIDs,
// ordered by sort_order.
func (s *CategoryStore) ChildIDs(ctx context.Context, parentIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(parentIDs) == 0 {
		return nil, nil
	}
	var ids []uuid.UUID
	b := s.sb.Select("id").From("categories").
		Where(inIDs("parent_id", parentIDs)).
		OrderBy("sort_order", "created_at", "id")
	if err := selectAll(ctx, s.ex, &ids, b); err != nil {
		return nil, fmt.Errorf("list child ids: %w", err)
	}
	return ids, nil
}

// ParentMap returns the parent of every category keyed by id. Roots map to
// nil.
func (s *CategoryStore) ParentMap(ctx context.Context) (map[uuid.UUID]*uuid.UUID, error) {
	var rows []struct {
		ID       uuid.UUID  `db:"id"`
		ParentID *uuid.UUID `db:"parent_id"`
	}
	if err := selectAll(ctx, s.ex, &rows, s.sb.Select("id", "parent_id").From("categories")); err != nil {
		return nil, fmt.Errorf("load parent map: %w", err)
	}
	parents := make(map[uuid.UUID]*uuid.UUID, len(rows))
	for _, r := range rows {
		parents[r.ID] = r.ParentID
	}
	return parents, nil
}

// ReorderItem represents a single item in a reorder request.
type ReorderItem struct {
	ID       uuid.UUID  `json:"id"`
	ParentID *uuid.UUID `json:"parent_id"`
	Order    int        `json:"order"`
}

// Reorder updates sort_order and parent_id for each item and returns the
// number of rows written. It stops at the first item that does not exist
// (ErrNotFound) or names a missing parent (ErrForeignKey). Run it inside a
// transaction to make the batch atomic.
func (s *CategoryStore) Reorder(ctx context.Context, items []ReorderItem, modifierID uuid.UUID) (int, error) {
	ts := now()
	updated := 0
	for _, item := range items {
		n, err := exec(ctx, s.ex, s.sb.Update("categories").SetMap(map[string]any{
			"parent_id":   item.ParentID,
			"sort_order":  item.Order,
			"modifier_id": modifierID,
			"updated_at":  ts,
		}).Where(sq.Eq{"id": item.ID.String()}))
		if err != nil {
			return 0, fmt.Errorf("reorder category %s: %w", item.ID, err)
		}
		if n == 0 {
			return 0, fmt.Errorf("reorder category %s: %w", item.ID, ErrNotFound)
		}
		updated += int(n)
	}
	return updated, nil
}

// DeleteByIDs removes the given categories and returns how many rows were
// deleted. Callers delete children before parents.
func (s *CategoryStore) DeleteByIDs(ctx context.Context, ids []uuid.UUID) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	n, err := exec(ctx, s.ex, s.sb.Delete("categories").Where(inIDs("id", ids)))
	if err != nil {
		return 0, fmt.Errorf("delete categories: %w", err)
	}
	return n, nil
}
