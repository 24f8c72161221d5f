// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"taxonomy/internal/models"
)

// PostStore manages posts and their tag associations.
type PostStore struct {
	ex sqlx.ExtContext
	sb sq.StatementBuilderType
}

// NewPostStore returns a new PostStore.
func NewPostStore(ex sqlx.ExtContext) *PostStore {
	return &PostStore{ex: ex, sb: builder(ex)}
}

const postColumns = `p.id, p.slug, p.title_vi, p.title_en, p.excerpt_vi, p.excerpt_en,
	p.content_vi, p.content_en, p.thumbnail, p.status, p.category_id, p.view_count,
	p.published_at, p.creator_id, p.modifier_id, p.created_at, p.updated_at`

var postSorts = sortColumns{
	"title_vi":     "p.title_vi",
	"title_en":     "p.title_en",
	"view_count":   "p.view_count",
	"published_at": "p.published_at",
	"created_at":   "p.created_at",
	"updated_at":   "p.updated_at",
}

// PostFilter narrows Search results. A non-nil, empty CategoryIDs matches
// nothing.
type PostFilter struct {
	Keyword       string
	Status        models.PostStatus
	CategoryIDs   []uuid.UUID
	TagID         *uuid.UUID
	PublishedOnly bool

	// ExcludeID drops one post from the results.
	ExcludeID *uuid.UUID
	// RelatedCategoryID and RelatedTagIDs are OR-ed: a post matches when it
	// is filed under the category or carries any of the tags.
	RelatedCategoryID *uuid.UUID
	RelatedTagIDs     []uuid.UUID
}

func (f PostFilter) where() sq.And {
	where := sq.And{}
	if f.Keyword != "" {
		where = append(where, keywordLike(f.Keyword, "p.title_vi", "p.title_en", "p.excerpt_vi", "p.excerpt_en"))
	}
	if f.PublishedOnly {
		where = append(where, sq.Eq{"p.status": string(models.PostStatusPublished)})
	} else if f.Status != "" {
		where = append(where, sq.Eq{"p.status": string(f.Status)})
	}
	if f.CategoryIDs != nil {
		where = append(where, inIDs("p.category_id", f.CategoryIDs))
	}
	if f.TagID != nil {
		where = append(where, sq.Expr(
			"EXISTS (SELECT 1 FROM post_tags pt WHERE pt.post_id = p.id AND pt.tag_id = ?)",
			f.TagID.String(),
		))
	}
	if f.ExcludeID != nil {
		where = append(where, sq.NotEq{"p.id": f.ExcludeID.String()})
	}
	if f.RelatedCategoryID != nil || len(f.RelatedTagIDs) > 0 {
		related := sq.Or{}
		if f.RelatedCategoryID != nil {
			related = append(related, sq.Eq{"p.category_id": f.RelatedCategoryID.String()})
		}
		if len(f.RelatedTagIDs) > 0 {
			related = append(related, hasAnyTag(f.RelatedTagIDs))
		}
		where = append(where, related)
	}
	return where
}

// hasAnyTag matches posts linked to at least one of tagIDs.
func hasAnyTag(tagIDs []uuid.UUID) sq.Sqlizer {
	vals := make([]any, len(tagIDs))
	marks := make([]string, len(tagIDs))
	for i, id := range tagIDs {
		vals[i] = id.String()
		marks[i] = "?"
	}
	return sq.Expr(
		"EXISTS (SELECT 1 FROM post_tags pt WHERE pt.post_id = p.id AND pt.tag_id IN ("+strings.Join(marks, ",")+"))",
		vals...,
	)
}

// Search returns one page of posts matching the filter and the total number
// of matches. Tags are not loaded.
func (s *PostStore) Search(ctx context.Context, f PostFilter, opts ListOptions) ([]models.Post, int, error) {
	where := f.where()

	total, err := count(ctx, s.ex, s.sb.Select("COUNT(*)").From("posts p").Where(where))
	if err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	var items []models.Post
	b := opts.apply(s.sb.Select(postColumns).From("posts p").Where(where), postSorts, "p.created_at", true, "p.id")
	if err := selectAll(ctx, s.ex, &items, b); err != nil {
		return nil, 0, fmt.Errorf("search posts: %w", err)
	}
	return items, total, nil
}

// FindByID retrieves a post by ID. Returns nil if not found.
func (s *PostStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	return s.findOne(ctx, sq.Eq{"p.id": id.String()})
}

// FindBySlug retrieves a post by slug. Returns nil if not found.
func (s *PostStore) FindBySlug(ctx context.Context, slug string) (*models.Post, error) {
	return s.findOne(ctx, sq.Eq{"p.slug": slug})
}

func (s *PostStore) findOne(ctx context.Context, where sq.Sqlizer) (*models.Post, error) {
	var p models.Post
	err := getOne(ctx, s.ex, &p, s.sb.Select(postColumns).From("posts p").Where(where))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post: %w", err)
	}
	return &p, nil
}

// SlugOwner reports which post owns slug.
func (s *PostStore) SlugOwner(ctx context.Context, slug string) (uuid.UUID, bool, error) {
	return slugOwner(ctx, s.ex, "posts", slug)
}

func postValues(p *models.Post) map[string]any {
	return map[string]any{
		"slug":         p.Slug,
		"title_vi":     p.TitleVI,
		"title_en":     p.TitleEN,
		"excerpt_vi":   p.ExcerptVI,
		"excerpt_en":   p.ExcerptEN,
		"content_vi":   p.ContentVI,
		"content_en":   p.ContentEN,
		"thumbnail":    p.Thumbnail,
		"status":       string(p.Status),
		"category_id":  p.CategoryID,
		"published_at": p.PublishedAt,
		"modifier_id":  p.ModifierID,
		"updated_at":   p.UpdatedAt,
	}
}

// Create inserts a new post. ID and timestamps are assigned here when
// unset. Tags are written separately with SetTags.
func (s *PostStore) Create(ctx context.Context, p *models.Post) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if p.Status == "" {
		p.Status = models.PostStatusDraft
	}
	p.CreatedAt = now()
	p.UpdatedAt = p.CreatedAt

	values := postValues(p)
	values["id"] = p.ID
	values["view_count"] = p.ViewCount
	values["creator_id"] = p.CreatorID
	values["created_at"] = p.CreatedAt

	if _, err := exec(ctx, s.ex, s.sb.Insert("posts").SetMap(values)); err != nil {
		return fmt.Errorf("create post: %w", err)
	}
	return nil
}

// Update writes every mutable column of an existing post.
func (s *PostStore) Update(ctx context.Context, p *models.Post) error {
	p.UpdatedAt = now()
	n, err := exec(ctx, s.ex, s.sb.Update("posts").SetMap(postValues(p)).Where(sq.Eq{"id": p.ID.String()}))
	if err != nil {
		return fmt.Errorf("update post: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("update post %s: %w", p.ID, ErrNotFound)
	}
	return nil
}

// Delete removes a post by ID. Tag links are removed by ON DELETE CASCADE.
func (s *PostStore) Delete(ctx context.Context, id uuid.UUID) error {
	// SQLite only cascades with foreign keys enabled, so links are removed
	// explicitly as well.
	if _, err := exec(ctx, s.ex, s.sb.Delete("post_tags").Where(sq.Eq{"post_id": id.String()})); err != nil {
		return fmt.Errorf("delete post links: %w", err)
	}
	n, err := exec(ctx, s.ex, s.sb.Delete("posts").Where(sq.Eq{"id": id.String()}))
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete post %s: %w", id, ErrNotFound)
	}
	return nil
}

// SetTags replaces the tag associations of a post. Duplicate ids are
// written once.
func (s *PostStore) SetTags(ctx context.Context, postID uuid.UUID, tagIDs []uuid.UUID) error {
	if _, err := exec(ctx, s.ex, s.sb.Delete("post_tags").Where(sq.Eq{"post_id": postID.String()})); err != nil {
		return fmt.Errorf("clear post tags: %w", err)
	}

	seen := make(map[uuid.UUID]bool, len(tagIDs))
	ins := s.sb.Insert("post_tags").Columns("post_id", "tag_id")
	rows := 0
	for _, id := range tagIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		ins = ins.Values(postID, id)
		rows++
	}
	if rows == 0 {
		return nil
	}
	if _, err := exec(ctx, s.ex, ins); err != nil {
		return fmt.Errorf("set post tags: %w", err)
	}
	return nil
}

// DetachCategories clears category_id on every post filed under one of the
// given categories and returns how many posts changed.
func (s *PostStore) DetachCategories(ctx context.Context, categoryIDs []uuid.UUID) (int64, error) {
	if len(categoryIDs) == 0 {
		return 0, nil
	}
	n, err := exec(ctx, s.ex, s.sb.Update("posts").
		Set("category_id", nil).
		Set("updated_at", now()).
		Where(inIDs("category_id", categoryIDs)))
	if err != nil {
		return 0, fmt.Errorf("detach posts: %w", err)
	}
	return n, nil
}

// IncrementViews adds one to a post's view counter.
func (s *PostStore) IncrementViews(ctx context.Context, id uuid.UUID) error {
	_, err := exec(ctx, s.ex, s.sb.Update("posts").
		Set("view_count", sq.Expr("view_count + 1")).
		Where(sq.Eq{"id": id.String()}))
	if err != nil {
		return fmt.Errorf("increment post views: %w", err)
	}
	return nil
}
