// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared test infrastructure for handler tests.
// Every test gets its own migrated in-memory SQLite database.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"taxonomy/internal/database/dbtest"
	"taxonomy/internal/middleware"
	"taxonomy/internal/taxonomy"
)

var testActor = uuid.MustParse("33333333-3333-3333-3333-333333333333")

// testEnv holds all dependencies for handler tests.
type testEnv struct {
	DB     *sqlx.DB
	Engine *taxonomy.Engine
	API    *API
	Public *Public
}

// newTestEnv creates a complete test environment with all handler dependencies.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := dbtest.New(t)
	eng := taxonomy.NewFromDB(db, taxonomy.Options{})
	return &testEnv{
		DB:     db,
		Engine: eng,
		API:    NewAPI(eng),
		Public: NewPublic(eng),
	}
}

// request describes one handler invocation.
type request struct {
	method string
	target string
	body   any
	params map[string]string
	actor  bool
}

// serve runs h against the request and returns the recorded response.
func serve(t *testing.T, h http.HandlerFunc, req request) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := req.body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	r := httptest.NewRequest(req.method, req.target, &buf)
	ctx := r.Context()
	if len(req.params) > 0 {
		ctx = withChiURLParams(ctx, req.params)
	}
	if req.actor {
		ctx = middleware.WithActor(ctx, testActor)
	}

	rr := httptest.NewRecorder()
	h(rr, r.WithContext(ctx))
	return rr
}

// withChiURLParams adds chi URL parameters to a context.
func withChiURLParams(ctx context.Context, params map[string]string) context.Context {
	rctx := chi.NewRouteContext()
	for k, v := range params {
		rctx.URLParams.Add(k, v)
	}
	return context.WithValue(ctx, chi.RouteCtxKey, rctx)
}

// decode unmarshals a JSON response body.
func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), "body: %s", rr.Body.String())
	return v
}

// errorOf returns the kind and message of an error response.
func errorOf(t *testing.T, rr *httptest.ResponseRecorder) (string, string) {
	t.Helper()
	body := decode[errorBody](t, rr)
	return string(body.Error.Kind), body.Error.Message
}

func idParam(id uuid.UUID) map[string]string {
	return map[string]string{"id": id.String()}
}
