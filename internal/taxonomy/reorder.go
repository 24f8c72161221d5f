// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"github.com/google/uuid"

	"taxonomy/internal/apperr"
	"taxonomy/internal/store"
)

// validateReorder rejects malformed batches before any store call.
func validateReorder(items []store.ReorderItem) error {
	if len(items) == 0 {
		return apperr.Validation("reorder batch is empty")
	}
	seen := make(map[uuid.UUID]bool, len(items))
	for i, item := range items {
		if item.ID == uuid.Nil {
			return apperr.Validation("item %d: id is required", i)
		}
		if item.Order < 0 {
			return apperr.Validation("item %d: order must not be negative", i)
		}
		if item.ParentID != nil && *item.ParentID == item.ID {
			return apperr.Validation("item %d: category cannot be its own parent", i)
		}
		if seen[item.ID] {
			return apperr.Validation("item %d: category %s appears more than once", i, item.ID)
		}
		seen[item.ID] = true
	}
	return nil
}

// applyParents overlays the batch onto the current parent map and returns
// the resulting map. The input map is not modified.
func applyParents(current map[uuid.UUID]*uuid.UUID, items []store.ReorderItem) map[uuid.UUID]*uuid.UUID {
	next := make(map[uuid.UUID]*uuid.UUID, len(current)+len(items))
	for id, parent := range current {
		next[id] = parent
	}
	for _, item := range items {
		next[item.ID] = item.ParentID
	}
	return next
}

// findCycle walks the ancestor chain of each start id in parents and
// returns the first id whose chain comes back to itself.
func findCycle(parents map[uuid.UUID]*uuid.UUID, starts []uuid.UUID) (uuid.UUID, bool) {
	for _, start := range starts {
		seen := map[uuid.UUID]bool{start: true}
		cur := parents[start]
		for cur != nil {
			if *cur == start {
				return start, true
			}
			if seen[*cur] {
				// A loop above start that does not include it; it is
				// reported when its own members are walked.
				break
			}
			seen[*cur] = true
			cur = parents[*cur]
		}
	}
	return uuid.Nil, false
}
