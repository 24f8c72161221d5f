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
)

// TagService manages flat tags.
type TagService struct {
	repos   Repos
	tx      TxRunner
	retries int
}

// TagInput holds the fields of a new tag.
type TagInput struct {
	NameVI string
	NameEN string
}

// TagPatch holds the fields to change on a tag. Nil leaves a field
// unchanged.
type TagPatch struct {
	NameVI *string
	NameEN *string
}

// Create stores a new tag owned by actorID. The slug is derived from the
// English name.
func (s *TagService) Create(ctx context.Context, in TagInput, actorID uuid.UUID) (*models.Tag, error) {
	nameVI, nameEN := strings.TrimSpace(in.NameVI), strings.TrimSpace(in.NameEN)
	if nameVI == "" || nameEN == "" {
		return nil, apperr.Validation("name_vi and name_en are required")
	}

	t, err := s.create(ctx, s.repos.Tags, nameVI, nameEN, actorID)
	if err != nil {
		return nil, translate(err, "create tag")
	}
	log.Info().Str("tag_id", t.ID.String()).Str("slug", t.Slug).Msg("tag created")
	return t, nil
}

func (s *TagService) create(ctx context.Context, repo TagRepository, nameVI, nameEN string, actorID uuid.UUID) (*models.Tag, error) {
	t := &models.Tag{ID: uuid.New(), CreatorID: actorID}
	t.SetNames(nameVI, nameEN)

	alloc := slug.NewAllocator(repo, tagSlugFallback)
	err := withSlugRetry(ctx, s.retries, func() error {
		sl, err := alloc.Allocate(ctx, nameEN, uuid.Nil)
		if err != nil {
			return err
		}
		t.Slug = sl
		return repo.Create(ctx, t)
	})
	if err != nil {
		return nil, err
	}
	return t, nil
}

// List returns one page of tags, optionally filtered by keyword.
func (s *TagService) List(ctx context.Context, keyword string, page Page) (Paged[models.Tag], error) {
	page, err := page.normalize()
	if err != nil {
		return Paged[models.Tag]{}, err
	}
	items, total, err := s.repos.Tags.Search(ctx, strings.TrimSpace(keyword), page.options())
	if err != nil {
		return Paged[models.Tag]{}, translate(err, "list tags")
	}
	return newPaged(items, total, page), nil
}

// Get returns a tag by id.
func (s *TagService) Get(ctx context.Context, id uuid.UUID) (*models.Tag, error) {
	t, err := s.repos.Tags.FindByID(ctx, id)
	if err != nil {
		return nil, translate(err, "get tag")
	}
	if t == nil {
		return nil, apperr.NotFound("tag %s not found", id)
	}
	return t, nil
}

// GetBySlug returns a tag by slug.
func (s *TagService) GetBySlug(ctx context.Context, sl string) (*models.Tag, error) {
	t, err := s.repos.Tags.FindBySlug(ctx, sl)
	if err != nil {
		return nil, translate(err, "get tag")
	}
	if t == nil {
		return nil, apperr.NotFound("tag %q not found", sl)
	}
	return t, nil
}

// Update renames a tag. The slug is regenerated only when the English name
// changes.
func (s *TagService) Update(ctx context.Context, id uuid.UUID, patch TagPatch, actorID uuid.UUID) (*models.Tag, error) {
	t, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	nameVI, nameEN := t.NameVI, t.NameEN
	if patch.NameVI != nil {
		nameVI = strings.TrimSpace(*patch.NameVI)
		if nameVI == "" {
			return nil, apperr.Validation("name_vi must not be empty")
		}
	}
	renamed := false
	if patch.NameEN != nil {
		name := strings.TrimSpace(*patch.NameEN)
		if name == "" {
			return nil, apperr.Validation("name_en must not be empty")
		}
		renamed = name != nameEN
		nameEN = name
	}

	t.SetNames(nameVI, nameEN)
	t.ModifierID = &actorID

	alloc := slug.NewAllocator(s.repos.Tags, tagSlugFallback)
	err = withSlugRetry(ctx, s.retries, func() error {
		if renamed {
			sl, err := alloc.Allocate(ctx, nameEN, t.ID)
			if err != nil {
				return err
			}
			t.Slug = sl
		}
		return s.repos.Tags.Update(ctx, t)
	})
	if err != nil {
		return nil, translate(err, "update tag")
	}

	log.Info().Str("tag_id", t.ID.String()).Msg("tag updated")
	return t, nil
}

// Delete removes a tag and its post associations in one transaction. Posts
// themselves are kept.
func (s *TagService) Delete(ctx context.Context, id uuid.UUID) error {
	var unlinked int64
	err := s.tx.InTx(ctx, func(r Repos) error {
		t, err := r.Tags.FindByID(ctx, id)
		if err != nil {
			return translate(err, "delete tag")
		}
		if t == nil {
			return apperr.NotFound("tag %s not found", id)
		}
		if unlinked, err = r.Tags.DeletePostLinks(ctx, id); err != nil {
			return translate(err, "delete tag links")
		}
		return r.Tags.Delete(ctx, id)
	})
	if err != nil {
		return translate(err, "delete tag")
	}

	log.Info().Str("tag_id", id.String()).Int64("unlinked_posts", unlinked).Msg("tag deleted")
	return nil
}

// Resolve maps free-text tag names to tag ids, creating missing tags owned
// by actorID. Names are trimmed and empty names skipped. Matching is
// case-insensitive against either display name. The result follows the
// input order and is not de-duplicated.
func (s *TagService) Resolve(ctx context.Context, names []string, actorID uuid.UUID) (_ []uuid.UUID, err error) {
	ctx, span := startSpan(ctx, "TagService.Resolve", attribute.Int("tags.names", len(names)))
	defer func() { endSpan(span, err) }()

	ids := make([]uuid.UUID, 0, len(names))
	for _, raw := range names {
		name := strings.TrimSpace(raw)
		if name == "" {
			continue
		}

		existing, err := s.repos.Tags.FindByNameKey(ctx, models.TagKey(name))
		if err != nil {
			return nil, translate(err, "resolve tag")
		}
		if existing != nil {
			ids = append(ids, existing.ID)
			continue
		}

		t, err := s.create(ctx, s.repos.Tags, name, name, actorID)
		if err != nil {
			return nil, translate(err, "resolve tag")
		}
		log.Info().Str("tag_id", t.ID.String()).Str("slug", t.Slug).Msg("tag created from post")
		ids = append(ids, t.ID)
	}
	return ids, nil
}
