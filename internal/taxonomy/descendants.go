// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"context"

	"github.com/google/uuid"
)

// ChildLister returns the direct children of a set of categories.
type ChildLister interface {
	ChildIDs(ctx context.Context, parentIDs []uuid.UUID) ([]uuid.UUID, error)
}

// Descendants returns rootID followed by every category transitively below
// it, in discovery order. It issues one ChildIDs call per tree level.
func Descendants(ctx context.Context, lister ChildLister, rootID uuid.UUID) ([]uuid.UUID, error) {
	levels, err := descendantLevels(ctx, lister, rootID)
	if err != nil {
		return nil, err
	}
	var ids []uuid.UUID
	for _, level := range levels {
		ids = append(ids, level...)
	}
	return ids, nil
}

// descendantLevels groups the closure of rootID by depth; levels[0] is
// {rootID}. Ids already collected are never expanded again, so a cyclic
// parent chain terminates.
func descendantLevels(ctx context.Context, lister ChildLister, rootID uuid.UUID) ([][]uuid.UUID, error) {
	visited := map[uuid.UUID]bool{rootID: true}
	levels := [][]uuid.UUID{{rootID}}
	frontier := levels[0]

	for len(frontier) > 0 {
		children, err := lister.ChildIDs(ctx, frontier)
		if err != nil {
			return nil, err
		}

		var next []uuid.UUID
		for _, id := range children {
			if visited[id] {
				continue
			}
			visited[id] = true
			next = append(next, id)
		}
		if len(next) > 0 {
			levels = append(levels, next)
		}
		frontier = next
	}
	return levels, nil
}
