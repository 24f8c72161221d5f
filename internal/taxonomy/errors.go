// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package taxonomy

import (
	"errors"

	"taxonomy/internal/apperr"
	"taxonomy/internal/store"
)

// translate converts a store error into an apperr kind. Errors that already
// carry a kind pass through untouched.
func translate(err error, msg string) error {
	if err == nil {
		return nil
	}

	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return err
	}

	switch {
	case errors.Is(err, store.ErrNotFound):
		return apperr.Wrap(err, apperr.KindNotFound, msg+": not found")
	case errors.Is(err, store.ErrForeignKey):
		return apperr.Wrap(err, apperr.KindNotFound, msg+": referenced category does not exist")
	case errors.Is(err, store.ErrSlugTaken):
		return apperr.Wrap(err, apperr.KindConflict, msg+": slug already taken")
	default:
		return apperr.Internal(err, msg)
	}
}
