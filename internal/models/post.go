// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// PostStatus represents the publishing state of a post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "DRAFT"
	PostStatusPublished PostStatus = "PUBLISHED"
	PostStatusArchived  PostStatus = "ARCHIVED"
)

// Valid reports whether s is one of the known statuses.
func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusDraft, PostStatusPublished, PostStatusArchived:
		return true
	}
	return false
}

// Post is a bilingual article. It belongs to at most one category and is
// linked to tags through the post_tags table.
type Post struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	Slug        string     `db:"slug" json:"slug"`
	TitleVI     string     `db:"title_vi" json:"title_vi"`
	TitleEN     string     `db:"title_en" json:"title_en"`
	ExcerptVI   string     `db:"excerpt_vi" json:"excerpt_vi"`
	ExcerptEN   string     `db:"excerpt_en" json:"excerpt_en"`
	ContentVI   string     `db:"content_vi" json:"content_vi"`
	ContentEN   string     `db:"content_en" json:"content_en"`
	Thumbnail   *string    `db:"thumbnail" json:"thumbnail,omitempty"`
	Status      PostStatus `db:"status" json:"status"`
	CategoryID  *uuid.UUID `db:"category_id" json:"category_id"`
	ViewCount   int        `db:"view_count" json:"view_count"`
	PublishedAt *time.Time `db:"published_at" json:"published_at,omitempty"`
	CreatorID   uuid.UUID  `db:"creator_id" json:"creator_id"`
	ModifierID  *uuid.UUID `db:"modifier_id" json:"modifier_id,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`

	Tags []Tag `db:"-" json:"tags"`
}

// IsPublished returns true if the post is in published status.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}
