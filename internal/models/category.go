// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// Category represents a hierarchical content category with Vietnamese and
// English display names. Posts can have at most one category assigned.
type Category struct {
	ID          uuid.UUID  `db:"id" json:"id"`
	Slug        string     `db:"slug" json:"slug"`
	NameVI      string     `db:"name_vi" json:"name_vi"`
	NameEN      string     `db:"name_en" json:"name_en"`
	Description *string    `db:"description" json:"description,omitempty"`
	SortOrder   int        `db:"sort_order" json:"order"`
	ParentID    *uuid.UUID `db:"parent_id" json:"parent_id"`
	CreatorID   uuid.UUID  `db:"creator_id" json:"creator_id"`
	ModifierID  *uuid.UUID `db:"modifier_id" json:"modifier_id,omitempty"`
	CreatedAt   time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updated_at"`

	// Virtual fields populated by store and tree methods.
	Children  []Category `db:"-" json:"children,omitempty"`
	Depth     int        `db:"-" json:"depth"`
	PostCount int        `db:"post_count" json:"post_count"`
}

// IsRoot reports whether the category has no parent.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}
