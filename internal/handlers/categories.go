// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"taxonomy/internal/taxonomy"
)

// ListCategories returns one page of categories. ?parent_id= narrows to
// the children of one category and ?root=true to top-level categories.
func (a *API) ListCategories(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	parentID, err := queryID(r, "parent_id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	rootOnly, _ := strconv.ParseBool(r.URL.Query().Get("root"))

	result, err := a.engine.Categories.List(r.Context(), taxonomy.CategoryFilter{
		ParentID: parentID,
		RootOnly: rootOnly,
		Keyword:  r.URL.Query().Get("keyword"),
	}, page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// CategoryTree returns the whole category forest.
func (a *API) CategoryTree(w http.ResponseWriter, r *http.Request) {
	tree, err := a.engine.Categories.Tree(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

// CreateCategory creates a category; slug and order are assigned by the
// engine.
func (a *API) CreateCategory(w http.ResponseWriter, r *http.Request) {
	actorID, err := actor(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req createCategoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	c, err := a.engine.Categories.Create(r.Context(), req.input(), actorID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

// ReorderCategories applies a batch of parent and order changes atomically.
func (a *API) ReorderCategories(w http.ResponseWriter, r *http.Request) {
	actorID, err := actor(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req reorderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := a.engine.Categories.Reorder(r.Context(), req.items(), actorID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"updated": updated})
}

// GetCategory returns a category with its direct children.
func (a *API) GetCategory(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := a.engine.Categories.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// CategoryDescendants returns the category id followed by the ids of
// every category below it.
func (a *API) CategoryDescendants(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	ids, err := a.engine.Categories.ExpandFilter(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]uuid.UUID{"ids": ids})
}

// UpdateCategory applies a partial update. An explicit "parent_id": null
// moves the category to the root.
func (a *API) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	actorID, err := actor(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req updateCategoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	c, err := a.engine.Categories.Update(r.Context(), id, req.patch(), actorID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// DeleteCategory removes a category and its whole subtree.
func (a *API) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if _, err := actor(r); err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := a.engine.Categories.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
