// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"github.com/google/uuid"

	"taxonomy/internal/models"
)

// Node is one category in an assembled tree.
type Node struct {
	Category models.Category
	Children []*Node
}

// BuildTree assembles a forest from a flat category list in two passes.
// A row whose parent is missing from rows becomes a root. Roots and every
// children list keep the order of rows, so callers pre-sort by sort_order.
func BuildTree(rows []models.Category) []*Node {
	index := make(map[uuid.UUID]*Node, len(rows))
	nodes := make([]*Node, len(rows))
	for i, row := range rows {
		row.Children = nil
		nodes[i] = &Node{Category: row}
		if _, dup := index[row.ID]; !dup {
			index[row.ID] = nodes[i]
		}
	}

	var roots []*Node
	for i, row := range rows {
		n := nodes[i]
		if row.ParentID != nil && *row.ParentID != row.ID {
			if parent, ok := index[*row.ParentID]; ok {
				parent.Children = append(parent.Children, n)
				continue
			}
		}
		roots = append(roots, n)
	}

	for _, r := range roots {
		setDepth(r, 0)
	}
	return roots
}

func setDepth(n *Node, depth int) {
	n.Category.Depth = depth
	for _, c := range n.Children {
		setDepth(c, depth+1)
	}
}

// Flatten walks a forest depth-first, parents before children.
func Flatten(roots []*Node) []models.Category {
	var result []models.Category
	var walk func(nodes []*Node)
	walk = func(nodes []*Node) {
		for _, n := range nodes {
			c := n.Category
			c.Children = nil
			result = append(result, c)
			walk(n.Children)
		}
	}
	walk(roots)
	return result
}

// ToCategories converts a forest into categories with nested Children.
func ToCategories(roots []*Node) []models.Category {
	if len(roots) == 0 {
		return []models.Category{}
	}
	out := make([]models.Category, len(roots))
	for i, n := range roots {
		c := n.Category
		c.Children = nil
		if len(n.Children) > 0 {
			c.Children = ToCategories(n.Children)
		}
		out[i] = c
	}
	return out
}
