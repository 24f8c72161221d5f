// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers implements the JSON HTTP handlers for the taxonomy API.
// Handlers decode and validate requests, call the taxonomy engine, and
// render results or structured errors.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"taxonomy/internal/apperr"
	"taxonomy/internal/middleware"
	"taxonomy/internal/taxonomy"
)

// maxBodyBytes caps request bodies accepted by write endpoints.
const maxBodyBytes = 1 << 20

// API groups the management handlers for categories, tags, and posts.
type API struct {
	engine *taxonomy.Engine
}

// NewAPI creates the management API handler group.
func NewAPI(engine *taxonomy.Engine) *API {
	return &API{engine: engine}
}

// errorBody is the JSON envelope for every error response.
type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Kind    apperr.Kind `json:"kind"`
	Message string      `json:"message"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Warn().Err(err).Msg("encode response")
	}
}

// writeError renders err as the JSON error envelope. Internal errors are
// logged with their cause and shown to the client without it.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		log.Error().Err(err).Str("method", r.Method).Str("path", r.URL.Path).Msg("request failed")
	}
	writeJSON(w, status, errorBody{Error: errorDetail{
		Kind:    apperr.KindOf(err),
		Message: apperr.PublicMessage(err),
	}})
}

// decodeJSON reads a JSON request body into dst and validates it.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.Is(err, io.EOF):
			return apperr.Validation("request body is required")
		case errors.As(err, &maxErr):
			return apperr.Validation("request body exceeds %d bytes", maxErr.Limit)
		default:
			return apperr.Validation("malformed JSON: %v", err)
		}
	}
	if dec.More() {
		return apperr.Validation("request body must contain a single JSON object")
	}
	return validateStruct(dst)
}

// pathID parses the {id} URL parameter.
func pathID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperr.Validation("invalid id %q", raw)
	}
	return id, nil
}

// queryID parses an optional UUID query parameter.
func queryID(r *http.Request, key string) (*uuid.UUID, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return nil, nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return nil, apperr.Validation("%s must be a UUID", key)
	}
	return &id, nil
}

// pageFromQuery reads page, limit, sort_by, and sort_order. Range checks
// happen in the engine.
func pageFromQuery(r *http.Request) (taxonomy.Page, error) {
	q := r.URL.Query()
	p := taxonomy.Page{SortBy: q.Get("sort_by"), SortOrder: q.Get("sort_order")}

	var err error
	if p.Page, err = queryInt(q.Get("page"), "page"); err != nil {
		return p, err
	}
	if p.Limit, err = queryInt(q.Get("limit"), "limit"); err != nil {
		return p, err
	}
	return p, nil
}

func queryInt(raw, name string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperr.Validation("%s must be an integer", name)
	}
	if n < 1 {
		return 0, apperr.Validation("%s must be at least 1", name)
	}
	return n, nil
}

// actor returns the acting user set by middleware.Actor.
func actor(r *http.Request) (uuid.UUID, error) {
	id, ok := middleware.ActorFromCtx(r.Context())
	if !ok {
		return uuid.Nil, apperr.New(apperr.KindUnauthorized, fmt.Sprintf("%s header is required", middleware.ActorHeader))
	}
	return id, nil
}

// optionalID distinguishes an absent JSON field from an explicit null.
type optionalID struct {
	Set bool
	ID  *uuid.UUID
}

// UnmarshalJSON is only called when the field is present.
func (o *optionalID) UnmarshalJSON(data []byte) error {
	o.Set = true
	if string(data) == "null" {
		o.ID = nil
		return nil
	}
	var id uuid.UUID
	if err := json.Unmarshal(data, &id); err != nil {
		return err
	}
	o.ID = &id
	return nil
}

func (o optionalID) engine() taxonomy.OptionalID {
	return taxonomy.OptionalID{Set: o.Set, ID: o.ID}
}
