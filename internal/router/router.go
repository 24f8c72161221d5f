// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains for the
// taxonomy service. It organizes routes into a management API group and a
// read-only public group.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"taxonomy/internal/handlers"
	"taxonomy/internal/middleware"
)

// requestTimeout bounds every request's context.
const requestTimeout = 30 * time.Second

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. limiter may be nil to disable write rate
// limiting.
func New(api *handlers.API, public *handlers.Public, limiter *middleware.RateLimiter) chi.Router {
	r := chi.NewRouter()

	// Global middleware applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(chimw.Timeout(requestTimeout))

	r.NotFound(notFoundHandler)
	r.MethodNotAllowed(methodNotAllowedHandler)

	// Health check: no actor, no rate limit.
	r.Get("/health", healthHandler)

	// Management API. Reads are open; writes need an actor.
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.Actor)

		r.Route("/categories", func(r chi.Router) {
			r.Get("/", api.ListCategories)
			r.Get("/tree", api.CategoryTree)
			r.Get("/{id}", api.GetCategory)
			r.Get("/{id}/descendants", api.CategoryDescendants)

			r.Group(func(r chi.Router) {
				writes(r, limiter)
				r.Post("/", api.CreateCategory)
				r.Put("/reorder", api.ReorderCategories)
				r.Patch("/{id}", api.UpdateCategory)
				r.Delete("/{id}", api.DeleteCategory)
			})
		})

		r.Route("/tags", func(r chi.Router) {
			r.Get("/", api.ListTags)
			r.Get("/{id}", api.GetTag)

			r.Group(func(r chi.Router) {
				writes(r, limiter)
				r.Post("/", api.CreateTag)
				r.Patch("/{id}", api.UpdateTag)
				r.Delete("/{id}", api.DeleteTag)
			})
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", api.ListPosts)
			r.Get("/{id}", api.GetPost)

			r.Group(func(r chi.Router) {
				writes(r, limiter)
				r.Post("/", api.CreatePost)
				r.Patch("/{id}", api.UpdatePost)
				r.Delete("/{id}", api.DeletePost)
			})
		})
	})

	// Public read-only routes.
	r.Route("/public", func(r chi.Router) {
		r.Get("/categories", public.Categories)
		r.Get("/categories/{slug}", public.Category)
		r.Get("/categories/{slug}/posts", public.CategoryPosts)
		r.Get("/posts", public.Posts)
		r.Get("/posts/{slug}", public.Post)
		r.Get("/posts/{slug}/related", public.RelatedPosts)
		r.Get("/tags", public.Tags)
		r.Get("/tags/{slug}", public.Tag)
		r.Get("/tags/{slug}/posts", public.TagPosts)
	})

	return r
}

// writes installs the middleware shared by every mutating route.
func writes(r chi.Router, limiter *middleware.RateLimiter) {
	r.Use(middleware.RequireActor)
	if limiter != nil {
		r.Use(limiter.Middleware)
	}
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}

func notFoundHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"error":{"kind":"NOT_FOUND","message":"route not found"}}`))
}

func methodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusMethodNotAllowed)
	w.Write([]byte(`{"error":{"kind":"VALIDATION_ERROR","message":"method not allowed"}}`))
}
