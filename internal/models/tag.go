// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Tag is a flat label attached to posts.
type Tag struct {
	ID         uuid.UUID  `db:"id" json:"id"`
	Slug       string     `db:"slug" json:"slug"`
	NameVI     string     `db:"name_vi" json:"name_vi"`
	NameEN     string     `db:"name_en" json:"name_en"`
	NameVIKey  string     `db:"name_vi_key" json:"-"`
	NameENKey  string     `db:"name_en_key" json:"-"`
	CreatorID  uuid.UUID  `db:"creator_id" json:"creator_id"`
	ModifierID *uuid.UUID `db:"modifier_id" json:"modifier_id,omitempty"`
	CreatedAt  time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time  `db:"updated_at" json:"updated_at"`
}

// TagKey normalizes a tag name into its lookup key.
func TagKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// SetNames assigns both display names and refreshes their lookup keys.
func (t *Tag) SetNames(vi, en string) {
	t.NameVI, t.NameEN = vi, en
	t.NameVIKey, t.NameENKey = TagKey(vi), TagKey(en)
}
