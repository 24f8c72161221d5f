// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"math"
	"strings"

	"taxonomy/internal/apperr"
	"taxonomy/internal/store"
)

// Paging defaults and bounds.
const (
	DefaultLimit = 20
	MaxLimit     = 100
)

// Page selects one page of a list. Zero values fall back to page 1 and
// DefaultLimit.
type Page struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string // "asc" or "desc"
}

func (p Page) normalize() (Page, error) {
	if p.Page == 0 {
		p.Page = 1
	}
	if p.Limit == 0 {
		p.Limit = DefaultLimit
	}
	if p.Page < 1 {
		return p, apperr.Validation("page must be at least 1")
	}
	if p.Limit < 1 || p.Limit > MaxLimit {
		return p, apperr.Validation("limit must be between 1 and %d", MaxLimit)
	}
	// The row offset must fit in an int.
	if p.Page-1 > math.MaxInt/p.Limit {
		return p, apperr.Validation("page is out of range")
	}
	switch strings.ToLower(p.SortOrder) {
	case "", "asc", "desc":
	default:
		return p, apperr.Validation("sort_order must be asc or desc")
	}
	return p, nil
}

func (p Page) options() store.ListOptions {
	return store.ListOptions{
		Limit:  p.Limit,
		Offset: (p.Page - 1) * p.Limit,
		SortBy: p.SortBy,
		Desc:   strings.EqualFold(p.SortOrder, "desc"),
	}
}

// Paged is one page of results plus the size of the full result set.
type Paged[T any] struct {
	Items      []T `json:"items"`
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"total_pages"`
}

func newPaged[T any](items []T, total int, p Page) Paged[T] {
	if items == nil {
		items = []T{}
	}
	pages := 0
	if total > 0 {
		pages = (total + p.Limit - 1) / p.Limit
	}
	return Paged[T]{Items: items, Total: total, Page: p.Page, Limit: p.Limit, TotalPages: pages}
}
