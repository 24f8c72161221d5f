// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router tests verify the HTTP routing configuration, middleware
// chains, and the health endpoint.
package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taxonomy/internal/database/dbtest"
	"taxonomy/internal/handlers"
	"taxonomy/internal/middleware"
	"taxonomy/internal/taxonomy"
)

func TestHealthHandler(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest("GET", "/health", nil)

	healthHandler(w, r)

	resp := w.Result()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

// newTestServer wires the full router over a fresh SQLite database.
func newTestServer(t *testing.T, limiter *middleware.RateLimiter) *httptest.Server {
	t.Helper()
	eng := taxonomy.NewFromDB(dbtest.New(t), taxonomy.Options{})
	srv := httptest.NewServer(New(handlers.NewAPI(eng), handlers.NewPublic(eng), limiter))
	t.Cleanup(srv.Close)
	return srv
}

func call(t *testing.T, srv *httptest.Server, method, path string, body any, actor string) *http.Response {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, srv.URL+path, &buf)
	require.NoError(t, err)
	if actor != "" {
		req.Header.Set(middleware.ActorHeader, actor)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func TestRoutes(t *testing.T) {
	srv := newTestServer(t, nil)
	actor := uuid.NewString()

	resp := call(t, srv, http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, resp.Header.Get("X-Content-Type-Options"))

	// Writes need an actor.
	resp = call(t, srv, http.MethodPost, "/api/categories", map[string]string{"name_vi": "a", "name_en": "Tech"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp = call(t, srv, http.MethodPost, "/api/categories", map[string]string{"name_vi": "a", "name_en": "Tech"}, "bogus")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = call(t, srv, http.MethodPost, "/api/categories", map[string]string{"name_vi": "a", "name_en": "Tech"}, actor)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var created struct {
		ID   uuid.UUID `json:"id"`
		Slug string    `json:"slug"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	assert.Equal(t, "tech", created.Slug)

	resp = call(t, srv, http.MethodPut, "/api/categories/reorder", map[string]any{
		"items": []map[string]any{{"id": created.ID, "parent_id": nil, "order": 3}},
	}, actor)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	checks := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/api/categories", http.StatusOK},
		{http.MethodGet, "/api/categories/tree", http.StatusOK},
		{http.MethodGet, "/api/categories/" + created.ID.String(), http.StatusOK},
		{http.MethodGet, "/api/categories/" + created.ID.String() + "/descendants", http.StatusOK},
		{http.MethodGet, "/api/categories/not-a-uuid", http.StatusBadRequest},
		{http.MethodGet, "/api/tags", http.StatusOK},
		{http.MethodGet, "/api/posts", http.StatusOK},
		{http.MethodGet, "/public/categories", http.StatusOK},
		{http.MethodGet, "/public/categories/tech", http.StatusOK},
		{http.MethodGet, "/public/categories/tech/posts", http.StatusOK},
		{http.MethodGet, "/public/posts", http.StatusOK},
		{http.MethodGet, "/public/posts/missing", http.StatusNotFound},
		{http.MethodGet, "/public/posts/missing/related", http.StatusOK},
		{http.MethodGet, "/public/tags", http.StatusOK},
		{http.MethodGet, "/public/tags/missing", http.StatusNotFound},
		{http.MethodGet, "/nowhere", http.StatusNotFound},
		{http.MethodPut, "/api/tags/" + created.ID.String(), http.StatusMethodNotAllowed},
	}
	for _, c := range checks {
		t.Run(c.method+" "+c.path, func(t *testing.T) {
			resp := call(t, srv, c.method, c.path, nil, "")
			assert.Equal(t, c.status, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))
		})
	}

	resp = call(t, srv, http.MethodDelete, "/api/categories/"+created.ID.String(), nil, actor)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestWriteRateLimit(t *testing.T) {
	limiter, err := middleware.NewRateLimiter("1-M")
	require.NoError(t, err)
	srv := newTestServer(t, limiter)
	actor := uuid.NewString()

	body := map[string]string{"name_vi": "a", "name_en": "b"}
	assert.Equal(t, http.StatusCreated, call(t, srv, http.MethodPost, "/api/tags", body, actor).StatusCode)
	assert.Equal(t, http.StatusTooManyRequests, call(t, srv, http.MethodPost, "/api/tags", body, actor).StatusCode)

	// Reads are not limited.
	assert.Equal(t, http.StatusOK, call(t, srv, http.MethodGet, "/api/tags", nil, "").StatusCode)
}
