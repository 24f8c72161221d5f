// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	"taxonomy/internal/apperr"
	"taxonomy/internal/models"
	"taxonomy/internal/slug"
	"taxonomy/internal/store"
)

// CategoryService manages the category tree.
type CategoryService struct {
	repos   Repos
	tx      TxRunner
	retries int
	cache   TreeCache
}

// CategoryInput holds the fields of a new category.
type CategoryInput struct {
	NameVI      string
	NameEN      string
	Description *string
	ParentID    *uuid.UUID
}

// OptionalID distinguishes "leave unchanged" (Set false) from "set to
// ID", where a nil ID clears the reference.
type OptionalID struct {
	Set bool
	ID  *uuid.UUID
}

// CategoryPatch holds the fields to change on a category. Nil pointers
// leave the field unchanged; an empty Description clears it.
type CategoryPatch struct {
	NameVI      *string
	NameEN      *string
	Description *string
	ParentID    OptionalID
	Order       *int
}

// CategoryFilter narrows List results. RootOnly is ignored when ParentID
// is set.
type CategoryFilter struct {
	ParentID *uuid.UUID
	RootOnly bool
	Keyword  string
}

// Create validates the input, computes the slug and sibling position, and
// stores a new category owned by actorID.
func (s *CategoryService) Create(ctx context.Context, in CategoryInput, actorID uuid.UUID) (_ *models.Category, err error) {
	ctx, span := startSpan(ctx, "CategoryService.Create")
	defer func() { endSpan(span, err) }()

	nameVI, nameEN := strings.TrimSpace(in.NameVI), strings.TrimSpace(in.NameEN)
	if nameVI == "" || nameEN == "" {
		return nil, apperr.Validation("name_vi and name_en are required")
	}

	if in.ParentID != nil {
		if err := s.requireCategory(ctx, *in.ParentID, "parent category"); err != nil {
			return nil, err
		}
	}

	order, err := s.repos.Categories.NextSortOrder(ctx, in.ParentID)
	if err != nil {
		return nil, translate(err, "create category")
	}

	c := &models.Category{
		ID:          uuid.New(),
		NameVI:      nameVI,
		NameEN:      nameEN,
		Description: normalizeDescription(in.Description),
		SortOrder:   order,
		ParentID:    in.ParentID,
		CreatorID:   actorID,
	}

	alloc := slug.NewAllocator(s.repos.Categories, categorySlugFallback)
	err = withSlugRetry(ctx, s.retries, func() error {
		sl, err := alloc.Allocate(ctx, nameEN, uuid.Nil)
		if err != nil {
			return err
		}
		c.Slug = sl
		return s.repos.Categories.Create(ctx, c)
	})
	if err != nil {
		return nil, translate(err, "create category")
	}

	invalidateTree(ctx, s.cache)
	log.Info().Str("category_id", c.ID.String()).Str("slug", c.Slug).Msg("category created")
	return c, nil
}

// List returns one page of categories with their post counts.
func (s *CategoryService) List(ctx context.Context, f CategoryFilter, page Page) (Paged[models.Category], error) {
	page, err := page.normalize()
	if err != nil {
		return Paged[models.Category]{}, err
	}

	items, total, err := s.repos.Categories.Search(ctx, store.CategoryFilter{
		ParentID: f.ParentID,
		RootOnly: f.RootOnly,
		Keyword:  strings.TrimSpace(f.Keyword),
	}, page.options())
	if err != nil {
		return Paged[models.Category]{}, translate(err, "list categories")
	}
	return newPaged(items, total, page), nil
}

// Tree returns the full category forest with nested children, served from
// the tree cache when possible.
func (s *CategoryService) Tree(ctx context.Context) ([]models.Category, error) {
	cached, ok, err := s.cache.Get(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("tree cache read failed")
	}
	if ok {
		return cached, nil
	}

	rows, err := s.repos.Categories.List(ctx)
	if err != nil {
		return nil, translate(err, "load category tree")
	}
	tree := ToCategories(BuildTree(rows))

	if err := s.cache.Set(ctx, tree); err != nil {
		log.Warn().Err(err).Msg("tree cache write failed")
	}
	return tree, nil
}

// Get returns a category with its direct children.
func (s *CategoryService) Get(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	c, err := s.repos.Categories.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "get category")
	}
	if c == nil {
		return nil, apperr.NotFound("category %s not found", id)
	}
	return s.withChildren(ctx, c)
}

// GetBySlug returns a category with its direct children.
func (s *CategoryService) GetBySlug(ctx context.Context, sl string) (*models.Category, error) {
	c, err := s.repos.Categories.FindBySlug(ctx, sl)
	if err != nil {
		return nil, translate(err, "get category")
	}
	if c == nil {
		return nil, apperr.NotFound("category %q not found", sl)
	}
	return s.withChildren(ctx, c)
}

func (s *CategoryService) withChildren(ctx context.Context, c *models.Category) (*models.Category, error) {
	children, err := s.repos.Categories.FindChildren(ctx, c.ID)
	if err != nil {
		return nil, translate(err, "get category children")
	}
	c.Children = children
	return c, nil
}

// Update applies patch to the category. The slug is regenerated only when
// the English name changes. Moving a category under itself or under one of
// its descendants is a Conflict.
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, patch CategoryPatch, actorID uuid.UUID) (_ *models.Category, err error) {
	ctx, span := startSpan(ctx, "CategoryService.Update", attribute.String("category.id", id.String()))
	defer func() { endSpan(span, err) }()

	c, err := s.repos.Categories.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "update category")
	}
	if c == nil {
		return nil, apperr.NotFound("category %s not found", id)
	}

	if patch.ParentID.Set {
		if err := s.checkParent(ctx, id, patch.ParentID.ID); err != nil {
			return nil, err
		}
		c.ParentID = patch.ParentID.ID
	}

	if patch.NameVI != nil {
		name := strings.TrimSpace(*patch.NameVI)
		if name == "" {
			return nil, apperr.Validation("name_vi must not be empty")
		}
		c.NameVI = name
	}

	renamed := false
	if patch.NameEN != nil {
		name := strings.TrimSpace(*patch.NameEN)
		if name == "" {
			return nil, apperr.Validation("name_en must not be empty")
		}
		renamed = name != c.NameEN
		c.NameEN = name
	}

	if patch.Description != nil {
		c.Description = normalizeDescription(patch.Description)
	}

	if patch.Order != nil {
		if *patch.Order < 0 {
			return nil, apperr.Validation("order must not be negative")
		}
		c.SortOrder = *patch.Order
	}

	c.ModifierID = &actorID
	alloc := slug.NewAllocator(s.repos.Categories, categorySlugFallback)
	err = withSlugRetry(ctx, s.retries, func() error {
		if renamed {
			sl, err := alloc.Allocate(ctx, c.NameEN, c.ID)
			if err != nil {
				return err
			}
			c.Slug = sl
		}
		return s.repos.Categories.Update(ctx, c)
	})
	if err != nil {
		return nil, translate(err, "update category")
	}

	invalidateTree(ctx, s.cache)
	log.Info().Str("category_id", c.ID.String()).Msg("category updated")
	return c, nil
}

// checkParent validates moving id under parentID.
func (s *CategoryService) checkParent(ctx context.Context, id uuid.UUID, parentID *uuid.UUID) error {
	if parentID == nil {
		return nil
	}
	if *parentID == id {
		return apperr.Conflict("category cannot be its own parent")
	}
	if err := s.requireCategory(ctx, *parentID, "parent category"); err != nil {
		return err
	}

	parents, err := s.repos.Categories.ParentMap(ctx)
	if err != nil {
		return translate(err, "update category")
	}
	next := applyParents(parents, []store.ReorderItem{{ID: id, ParentID: parentID}})
	if _, cyclic := findCycle(next, []uuid.UUID{id}); cyclic {
		return apperr.Conflict("category cannot be moved under its own descendant")
	}
	return nil
}

// Reorder applies a batch of (parent, order) changes atomically and returns
// the number of rows updated. A batch that is malformed, would create a
// cycle, or names a missing category or parent changes nothing.
func (s *CategoryService) Reorder(ctx context.Context, items []store.ReorderItem, actorID uuid.UUID) (_ int, err error) {
	ctx, span := startSpan(ctx, "CategoryService.Reorder", attribute.Int("reorder.items", len(items)))
	defer func() { endSpan(span, err) }()

	if err := validateReorder(items); err != nil {
		return 0, err
	}

	updated := 0
	err = s.tx.InTx(ctx, func(r Repos) error {
		parents, err := r.Categories.ParentMap(ctx)
		if err != nil {
			return translate(err, "reorder categories")
		}

		starts := make([]uuid.UUID, 0, len(items))
		for _, item := range items {
			if _, ok := parents[item.ID]; !ok {
				return apperr.NotFound("category %s not found", item.ID)
			}
			if item.ParentID != nil {
				if _, ok := parents[*item.ParentID]; !ok {
					return apperr.NotFound("parent category %s not found", *item.ParentID)
				}
			}
			starts = append(starts, item.ID)
		}

		if id, cyclic := findCycle(applyParents(parents, items), starts); cyclic {
			return apperr.Validation("reorder would make category %s its own ancestor", id)
		}

		n, err := r.Categories.Reorder(ctx, items, actorID)
		if err != nil {
			return translate(err, "reorder categories")
		}
		updated = n
		return nil
	})
	if err != nil {
		return 0, translate(err, "reorder categories")
	}

	invalidateTree(ctx, s.cache)
	log.Info().Int("updated", updated).Msg("categories reordered")
	return updated, nil
}

// Delete removes a category and its whole subtree in one transaction.
// Posts filed under any removed category become uncategorized.
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) (err error) {
	ctx, span := startSpan(ctx, "CategoryService.Delete", attribute.String("category.id", id.String()))
	defer func() { endSpan(span, err) }()

	var removed int64
	err = s.tx.InTx(ctx, func(r Repos) error {
		exists, err := r.Categories.Exists(ctx, id)
		if err != nil {
			return translate(err, "delete category")
		}
		if !exists {
			return apperr.NotFound("category %s not found", id)
		}

		levels, err := descendantLevels(ctx, r.Categories, id)
		if err != nil {
			return translate(err, "collect subtree")
		}

		var all []uuid.UUID
		for _, level := range levels {
			all = append(all, level...)
		}
		if _, err := r.Posts.DetachCategories(ctx, all); err != nil {
			return translate(err, "detach posts")
		}

		for i := len(levels) - 1; i >= 0; i-- {
			n, err := r.Categories.DeleteByIDs(ctx, levels[i])
			if err != nil {
				return translate(err, "delete category")
			}
			removed += n
		}
		return nil
	})
	if err != nil {
		return translate(err, "delete category")
	}

	invalidateTree(ctx, s.cache)
	log.Info().Str("category_id", id.String()).Int64("removed", removed).Msg("category subtree deleted")
	return nil
}

// ExpandFilter returns id plus the ids of all its descendants, for use as
// an inclusion filter on posts.
func (s *CategoryService) ExpandFilter(ctx context.Context, id uuid.UUID) ([]uuid.UUID, error) {
	if err := s.requireCategory(ctx, id, "category"); err != nil {
		return nil, err
	}
	ids, err := Descendants(ctx, s.repos.Categories, id)
	if err != nil {
		return nil, translate(err, "expand category filter")
	}
	return ids, nil
}

func (s *CategoryService) requireCategory(ctx context.Context, id uuid.UUID, what string) error {
	exists, err := s.repos.Categories.Exists(ctx, id)
	if err != nil {
		return translate(err, "check "+what)
	}
	if !exists {
		return apperr.NotFound("%s %s not found", what, id)
	}
	return nil
}

func normalizeDescription(d *string) *string {
	if d == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*d)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
