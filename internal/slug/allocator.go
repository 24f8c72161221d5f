// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package slug

import (
	"context"
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

// Prober reports which entity, if any, currently owns a slug within one
// namespace (categories, tags, or posts).
type Prober interface {
	SlugOwner(ctx context.Context, slug string) (uuid.UUID, bool, error)
}

// ProberFunc adapts a plain function to the Prober interface.
type ProberFunc func(ctx context.Context, slug string) (uuid.UUID, bool, error)

func (f ProberFunc) SlugOwner(ctx context.Context, slug string) (uuid.UUID, bool, error) {
	return f(ctx, slug)
}

// Allocator hands out slugs that are unique within a namespace.
type Allocator struct {
	prober   Prober
	fallback string
}

// NewAllocator creates an allocator probing the given namespace. The
// fallback word is used when a name produces an empty slug.
func NewAllocator(prober Prober, fallback string) *Allocator {
	return &Allocator{prober: prober, fallback: fallback}
}

// Allocate derives a slug from name and returns the first candidate that is
// either free or already owned by exclude. Candidates are tried in the
// order base, base-1, base-2, ... Pass uuid.Nil as exclude on create.
func (a *Allocator) Allocate(ctx context.Context, name string, exclude uuid.UUID) (string, error) {
	base := Generate(name)
	if base == "" {
		base = a.fallback
	}

	candidate := base
	for n := 1; ; n++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		owner, taken, err := a.prober.SlugOwner(ctx, candidate)
		if err != nil {
			return "", fmt.Errorf("probe slug %q: %w", candidate, err)
		}
		if !taken || (exclude != uuid.Nil && owner == exclude) {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(n)
	}
}
