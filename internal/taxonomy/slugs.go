// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"taxonomy/internal/apperr"
	"taxonomy/internal/store"
)

// Fallback slugs for names that transliterate to nothing.
const (
	categorySlugFallback = "category"
	tagSlugFallback      = "tag"
	postSlugFallback     = "post"
)

// withSlugRetry runs write up to attempts times. write is expected to
// allocate a fresh slug on every call; a unique-slug violation from the
// store means a concurrent writer won the race, so the whole allocation is
// repeated. Other errors are returned immediately.
func withSlugRetry(ctx context.Context, attempts int, write func() error) error {
	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		err = write()
		if !errors.Is(err, store.ErrSlugTaken) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		log.Debug().Int("attempt", attempt).Msg("slug taken by concurrent writer, retrying")
	}
	return apperr.Wrap(err, apperr.KindConflict, "could not allocate a unique slug")
}
