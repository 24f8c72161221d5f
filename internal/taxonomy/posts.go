// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/attribute"

	"taxonomy/internal/apperr"
	"taxonomy/internal/models"
	"taxonomy/internal/slug"
	"taxonomy/internal/store"
)

// PostService manages posts and their category and tag classification.
type PostService struct {
	repos      Repos
	tx         TxRunner
	retries    int
	cache      TreeCache
	categories *CategoryService
	tags       *TagService
}

// PostInput holds the fields of a new post. Tags are free-text names
// resolved through TagService.Resolve.
type PostInput struct {
	TitleVI    string
	TitleEN    string
	ExcerptVI  string
	ExcerptEN  string
	ContentVI  string
	ContentEN  string
	Thumbnail  *string
	Status     models.PostStatus
	CategoryID *uuid.UUID
	Tags       []string
}

// PostPatch holds the fields to change on a post. Nil leaves a field
// unchanged; a non-nil Tags replaces every association.
type PostPatch struct {
	TitleVI    *string
	TitleEN    *string
	ExcerptVI  *string
	ExcerptEN  *string
	ContentVI  *string
	ContentEN  *string
	Thumbnail  *string
	Status     *models.PostStatus
	CategoryID OptionalID
	Tags       *[]string
}

// PostFilter narrows List results. A category filter includes every
// subcategory. Slug filters are resolved to ids first.
type PostFilter struct {
	Keyword       string
	Status        models.PostStatus
	CategoryID    *uuid.UUID
	CategorySlug  string
	TagID         *uuid.UUID
	TagSlug       string
	PublishedOnly bool
}

// Create stores a new post with its tags. The slug is derived from the
// English title.
func (s *PostService) Create(ctx context.Context, in PostInput, actorID uuid.UUID) (_ *models.Post, err error) {
	ctx, span := startSpan(ctx, "PostService.Create")
	defer func() { endSpan(span, err) }()

	p := &models.Post{
		ID:         uuid.New(),
		TitleVI:    strings.TrimSpace(in.TitleVI),
		TitleEN:    strings.TrimSpace(in.TitleEN),
		ExcerptVI:  in.ExcerptVI,
		ExcerptEN:  in.ExcerptEN,
		ContentVI:  in.ContentVI,
		ContentEN:  in.ContentEN,
		Thumbnail:  in.Thumbnail,
		Status:     in.Status,
		CategoryID: in.CategoryID,
		CreatorID:  actorID,
	}
	if p.TitleVI == "" || p.TitleEN == "" {
		return nil, apperr.Validation("title_vi and title_en are required")
	}
	if p.Status == "" {
		p.Status = models.PostStatusDraft
	}
	if !p.Status.Valid() {
		return nil, apperr.Validation("unknown status %q", p.Status)
	}
	if p.IsPublished() {
		ts := time.Now().UTC().Truncate(time.Microsecond)
		p.PublishedAt = &ts
	}
	if p.CategoryID != nil {
		if err := s.categories.requireCategory(ctx, *p.CategoryID, "category"); err != nil {
			return nil, err
		}
	}

	tagIDs, err := s.tags.Resolve(ctx, in.Tags, actorID)
	if err != nil {
		return nil, err
	}

	err = withSlugRetry(ctx, s.retries, func() error {
		return s.tx.InTx(ctx, func(r Repos) error {
			sl, err := slug.NewAllocator(r.Posts, postSlugFallback).Allocate(ctx, p.TitleEN, uuid.Nil)
			if err != nil {
				return err
			}
			p.Slug = sl
			if err := r.Posts.Create(ctx, p); err != nil {
				return err
			}
			return r.Posts.SetTags(ctx, p.ID, tagIDs)
		})
	})
	if err != nil {
		return nil, translate(err, "create post")
	}

	if p.CategoryID != nil {
		invalidateTree(ctx, s.cache)
	}
	log.Info().Str("post_id", p.ID.String()).Str("slug", p.Slug).Int("tags", len(tagIDs)).Msg("post created")
	return s.withTags(ctx, p)
}

// List returns one page of posts with their tags.
func (s *PostService) List(ctx context.Context, f PostFilter, page Page) (_ Paged[models.Post], err error) {
	ctx, span := startSpan(ctx, "PostService.List")
	defer func() { endSpan(span, err) }()

	page, err = page.normalize()
	if err != nil {
		return Paged[models.Post]{}, err
	}

	sf := store.PostFilter{
		Keyword:       strings.TrimSpace(f.Keyword),
		Status:        f.Status,
		TagID:         f.TagID,
		PublishedOnly: f.PublishedOnly,
	}
	if sf.Status != "" && !sf.Status.Valid() {
		return Paged[models.Post]{}, apperr.Validation("unknown status %q", sf.Status)
	}

	categoryID := f.CategoryID
	if categoryID == nil && f.CategorySlug != "" {
		c, err := s.repos.Categories.FindBySlug(ctx, f.CategorySlug)
		if err != nil {
			return Paged[models.Post]{}, translate(err, "list posts")
		}
		if c == nil {
			return Paged[models.Post]{}, apperr.NotFound("category %q not found", f.CategorySlug)
		}
		categoryID = &c.ID
	}
	if categoryID != nil {
		ids, err := s.categories.ExpandFilter(ctx, *categoryID)
		if err != nil {
			return Paged[models.Post]{}, err
		}
		sf.CategoryIDs = ids
		span.SetAttributes(attribute.Int("category.closure", len(ids)))
	}

	if sf.TagID == nil && f.TagSlug != "" {
		t, err := s.repos.Tags.FindBySlug(ctx, f.TagSlug)
		if err != nil {
			return Paged[models.Post]{}, translate(err, "list posts")
		}
		if t == nil {
			return Paged[models.Post]{}, apperr.NotFound("tag %q not found", f.TagSlug)
		}
		sf.TagID = &t.ID
	}

	items, total, err := s.repos.Posts.Search(ctx, sf, page.options())
	if err != nil {
		return Paged[models.Post]{}, translate(err, "list posts")
	}
	if err := s.attachTags(ctx, items); err != nil {
		return Paged[models.Post]{}, err
	}
	return newPaged(items, total, page), nil
}

// Get returns a post with its tags.
func (s *PostService) Get(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	p, err := s.repos.Posts.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "get post")
	}
	if p == nil {
		return nil, apperr.NotFound("post %s not found", id)
	}
	return s.withTags(ctx, p)
}

// GetPublishedBySlug returns a published post and counts the view. A
// failure to count the view is logged and does not fail the read.
func (s *PostService) GetPublishedBySlug(ctx context.Context, sl string) (*models.Post, error) {
	p, err := s.repos.Posts.FindBySlug(ctx, sl)
	if err != nil {
		return nil, translate(err, "get post")
	}
	if p == nil || !p.IsPublished() {
		return nil, apperr.NotFound("post %q not found", sl)
	}

	if err := s.repos.Posts.IncrementViews(ctx, p.ID); err != nil {
		log.Warn().Err(err).Str("post_id", p.ID.String()).Msg("view count increment failed")
	} else {
		p.ViewCount++
	}
	return s.withTags(ctx, p)
}

// DefaultRelatedLimit is the number of related posts returned when the
// caller does not ask for a specific count.
const DefaultRelatedLimit = 12

// Related returns published posts that share the category or any tag of
// the published post sl, newest first. The post itself is excluded. An
// unknown or unpublished slug, or a post with neither category nor tags,
// yields an empty list.
func (s *PostService) Related(ctx context.Context, sl string, limit int) (_ []models.Post, err error) {
	ctx, span := startSpan(ctx, "PostService.Related", attribute.String("post.slug", sl))
	defer func() { endSpan(span, err) }()

	if limit == 0 {
		limit = DefaultRelatedLimit
	}
	if limit < 1 || limit > MaxLimit {
		return nil, apperr.Validation("limit must be between 1 and %d", MaxLimit)
	}

	p, err := s.repos.Posts.FindBySlug(ctx, sl)
	if err != nil {
		return nil, translate(err, "related posts")
	}
	if p == nil || !p.IsPublished() {
		return []models.Post{}, nil
	}

	byPost, err := s.repos.Tags.ListForPosts(ctx, []uuid.UUID{p.ID})
	if err != nil {
		return nil, translate(err, "related posts")
	}
	tagIDs := make([]uuid.UUID, 0, len(byPost[p.ID]))
	for _, t := range byPost[p.ID] {
		tagIDs = append(tagIDs, t.ID)
	}
	if p.CategoryID == nil && len(tagIDs) == 0 {
		return []models.Post{}, nil
	}

	items, _, err := s.repos.Posts.Search(ctx, store.PostFilter{
		PublishedOnly:     true,
		ExcludeID:         &p.ID,
		RelatedCategoryID: p.CategoryID,
		RelatedTagIDs:     tagIDs,
	}, store.ListOptions{Limit: limit, SortBy: "published_at", Desc: true})
	if err != nil {
		return nil, translate(err, "related posts")
	}
	if items == nil {
		items = []models.Post{}
	}
	if err := s.attachTags(ctx, items); err != nil {
		return nil, err
	}
	span.SetAttributes(attribute.Int("posts.related", len(items)))
	return items, nil
}

// Update applies patch to a post. The slug is regenerated only when the
// English title changes, and published_at is stamped the first time the
// post becomes PUBLISHED.
func (s *PostService) Update(ctx context.Context, id uuid.UUID, patch PostPatch, actorID uuid.UUID) (_ *models.Post, err error) {
	ctx, span := startSpan(ctx, "PostService.Update", attribute.String("post.id", id.String()))
	defer func() { endSpan(span, err) }()

	p, err := s.repos.Posts.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "update post")
	}
	if p == nil {
		return nil, apperr.NotFound("post %s not found", id)
	}
	oldCategory := p.CategoryID

	if patch.TitleVI != nil {
		if p.TitleVI = strings.TrimSpace(*patch.TitleVI); p.TitleVI == "" {
			return nil, apperr.Validation("title_vi must not be empty")
		}
	}
	renamed := false
	if patch.TitleEN != nil {
		title := strings.TrimSpace(*patch.TitleEN)
		if title == "" {
			return nil, apperr.Validation("title_en must not be empty")
		}
		renamed = title != p.TitleEN
		p.TitleEN = title
	}
	if patch.ExcerptVI != nil {
		p.ExcerptVI = *patch.ExcerptVI
	}
	if patch.ExcerptEN != nil {
		p.ExcerptEN = *patch.ExcerptEN
	}
	if patch.ContentVI != nil {
		p.ContentVI = *patch.ContentVI
	}
	if patch.ContentEN != nil {
		p.ContentEN = *patch.ContentEN
	}
	if patch.Thumbnail != nil {
		p.Thumbnail = patch.Thumbnail
	}
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return nil, apperr.Validation("unknown status %q", *patch.Status)
		}
		p.Status = *patch.Status
		if p.IsPublished() && p.PublishedAt == nil {
			ts := time.Now().UTC().Truncate(time.Microsecond)
			p.PublishedAt = &ts
		}
	}
	if patch.CategoryID.Set {
		if patch.CategoryID.ID != nil {
			if err := s.categories.requireCategory(ctx, *patch.CategoryID.ID, "category"); err != nil {
				return nil, err
			}
		}
		p.CategoryID = patch.CategoryID.ID
	}

	var tagIDs []uuid.UUID
	if patch.Tags != nil {
		if tagIDs, err = s.tags.Resolve(ctx, *patch.Tags, actorID); err != nil {
			return nil, err
		}
	}

	p.ModifierID = &actorID
	err = withSlugRetry(ctx, s.retries, func() error {
		return s.tx.InTx(ctx, func(r Repos) error {
			if renamed {
				sl, err := slug.NewAllocator(r.Posts, postSlugFallback).Allocate(ctx, p.TitleEN, p.ID)
				if err != nil {
					return err
				}
				p.Slug = sl
			}
			if err := r.Posts.Update(ctx, p); err != nil {
				return err
			}
			if patch.Tags != nil {
				return r.Posts.SetTags(ctx, p.ID, tagIDs)
			}
			return nil
		})
	})
	if err != nil {
		return nil, translate(err, "update post")
	}

	if !sameID(oldCategory, p.CategoryID) {
		invalidateTree(ctx, s.cache)
	}
	log.Info().Str("post_id", p.ID.String()).Msg("post updated")
	return s.withTags(ctx, p)
}

// Delete removes a post and its tag associations.
func (s *PostService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repos.Posts.Delete(ctx, id); err != nil {
		return translate(err, "delete post")
	}
	invalidateTree(ctx, s.cache)
	log.Info().Str("post_id", id.String()).Msg("post deleted")
	return nil
}

func (s *PostService) withTags(ctx context.Context, p *models.Post) (*models.Post, error) {
	posts := []models.Post{*p}
	if err := s.attachTags(ctx, posts); err != nil {
		return nil, err
	}
	return &posts[0], nil
}

func (s *PostService) attachTags(ctx context.Context, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]uuid.UUID, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}
	byPost, err := s.repos.Tags.ListForPosts(ctx, ids)
	if err != nil {
		return translate(err, "load post tags")
	}
	for i := range posts {
		posts[i].Tags = byPost[posts[i].ID]
		if posts[i].Tags == nil {
			posts[i].Tags = []models.Tag{}
		}
	}
	return nil
}

// sameID reports whether two optional ids are equal.
func sameID(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
