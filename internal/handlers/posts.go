// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"taxonomy/internal/models"
	"taxonomy/internal/taxonomy"
)

// postFilterFromQuery reads the post list filters shared by the management
// and public listings.
func postFilterFromQuery(r *http.Request) (taxonomy.PostFilter, error) {
	q := r.URL.Query()
	f := taxonomy.PostFilter{
		Keyword:      q.Get("keyword"),
		Status:       models.PostStatus(q.Get("status")),
		CategorySlug: q.Get("category_slug"),
		TagSlug:      q.Get("tag_slug"),
	}
	var err error
	if f.CategoryID, err = queryID(r, "category_id"); err != nil {
		return f, err
	}
	if f.TagID, err = queryID(r, "tag_id"); err != nil {
		return f, err
	}
	return f, nil
}

// ListPosts returns one page of posts of any status. A category filter
// includes every subcategory.
func (a *API) ListPosts(w http.ResponseWriter, r *http.Request) {
	page, err := pageFromQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	f, err := postFilterFromQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	result, err := a.engine.Posts.List(r.Context(), f, page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// CreatePost creates a post; tag names are resolved or created.
func (a *API) CreatePost(w http.ResponseWriter, r *http.Request) {
	actorID, err := actor(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req createPostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	p, err := a.engine.Posts.Create(r.Context(), req.input(), actorID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// GetPost returns a post with its tags.
func (a *API) GetPost(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	p, err := a.engine.Posts.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// UpdatePost applies a partial update. A present "tags" array replaces
// every tag association.
func (a *API) UpdatePost(w http.ResponseWriter, r *http.Request) {
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
	var req updatePostRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	p, err := a.engine.Posts.Update(r.Context(), id, req.patch(), actorID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DeletePost removes a post and its tag associations.
func (a *API) DeletePost(w http.ResponseWriter, r *http.Request) {
	if _, err := actor(r); err != nil {
		writeError(w, r, err)
		return
	}
	id, err := pathID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := a.engine.Posts.Delete(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
