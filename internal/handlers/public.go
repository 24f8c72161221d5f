// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"taxonomy/internal/apperr"
	"taxonomy/internal/taxonomy"
)

// Public listings default to smaller pages than the management API.
const (
	publicDefaultLimit = 10
	publicMaxLimit     = 50
)

// Public groups the read-only handlers for the public site. Only published
// posts are visible.
type Public struct {
	engine *taxonomy.Engine
}

// NewPublic creates a new Public handler group.
func NewPublic(engine *taxonomy.Engine) *Public {
	return &Public{engine: engine}
}

func publicPage(r *http.Request) (taxonomy.Page, error) {
	page, err := pageFromQuery(r)
	if err != nil {
		return page, err
	}
	if page.Limit == 0 {
		page.Limit = publicDefaultLimit
	}
	if page.Limit > publicMaxLimit {
		return page, apperr.Validation("limit must be between 1 and %d", publicMaxLimit)
	}
	return page, nil
}

// Categories returns the category forest with post counts.
func (p *Public) Categories(w http.ResponseWriter, r *http.Request) {
	tree, err := p.engine.Categories.Tree(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tree)
}

// Category returns a category by slug with its direct children.
func (p *Public) Category(w http.ResponseWriter, r *http.Request) {
	c, err := p.engine.Categories.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// CategoryPosts lists published posts filed under a category or any of
// its subcategories.
func (p *Public) CategoryPosts(w http.ResponseWriter, r *http.Request) {
	p.listPosts(w, r, func(f *taxonomy.PostFilter) {
		f.CategoryID = nil
		f.CategorySlug = chi.URLParam(r, "slug")
	})
}

// Posts lists published posts. ?category_slug= includes subcategories.
func (p *Public) Posts(w http.ResponseWriter, r *http.Request) {
	p.listPosts(w, r, nil)
}

// TagPosts lists published posts carrying a tag.
func (p *Public) TagPosts(w http.ResponseWriter, r *http.Request) {
	p.listPosts(w, r, func(f *taxonomy.PostFilter) {
		f.TagID = nil
		f.TagSlug = chi.URLParam(r, "slug")
	})
}

func (p *Public) listPosts(w http.ResponseWriter, r *http.Request, scope func(*taxonomy.PostFilter)) {
	page, err := publicPage(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	f, err := postFilterFromQuery(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	f.Status = ""
	f.PublishedOnly = true
	if scope != nil {
		scope(&f)
	}

	result, err := p.engine.Posts.List(r.Context(), f, page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Post returns a published post by slug and counts the view.
func (p *Public) Post(w http.ResponseWriter, r *http.Request) {
	post, err := p.engine.Posts.GetPublishedBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// RelatedPosts returns published posts sharing the category or a tag of
// the post, newest first. ?limit= caps the list at publicMaxLimit.
func (p *Public) RelatedPosts(w http.ResponseWriter, r *http.Request) {
	limit, err := queryInt(r.URL.Query().Get("limit"), "limit")
	if err != nil {
		writeError(w, r, err)
		return
	}
	if limit > publicMaxLimit {
		writeError(w, r, apperr.Validation("limit must be between 1 and %d", publicMaxLimit))
		return
	}

	posts, err := p.engine.Posts.Related(r.Context(), chi.URLParam(r, "slug"), limit)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// Tags returns one page of tags.
func (p *Public) Tags(w http.ResponseWriter, r *http.Request) {
	page, err := publicPage(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	result, err := p.engine.Tags.List(r.Context(), r.URL.Query().Get("keyword"), page)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// Tag returns a tag by slug.
func (p *Public) Tag(w http.ResponseWriter, r *http.Request) {
	t, err := p.engine.Tags.GetBySlug(r.Context(), chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}
