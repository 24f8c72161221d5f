// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"taxonomy/internal/apperr"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// ActorKey is the context key for the acting user's id.
	ActorKey contextKey = "actor"

	// ActorHeader carries the id of the user performing a write.
	ActorHeader = "X-Actor-ID"
)

// Actor parses the X-Actor-ID header and stores the id in the request
// context. Requests without the header pass through unchanged; a malformed
// id is rejected with 400.
func Actor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get(ActorHeader))
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		id, err := uuid.Parse(raw)
		if err != nil || id == uuid.Nil {
			writeError(w, http.StatusBadRequest, apperr.KindValidation, ActorHeader+" must be a UUID")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithActor(r.Context(), id)))
	})
}

// RequireActor returns 401 if no actor was identified.
// Must be applied after Actor.
func RequireActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ActorFromCtx(r.Context()); !ok {
			writeError(w, http.StatusUnauthorized, apperr.KindUnauthorized, ActorHeader+" header is required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithActor returns a copy of ctx carrying the actor id.
func WithActor(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, ActorKey, id)
}

// ActorFromCtx returns the actor id stored by Actor, if any.
func ActorFromCtx(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(ActorKey).(uuid.UUID)
	return id, ok
}
