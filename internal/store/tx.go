// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"
)

// Tx groups the stores bound to one open transaction.
type Tx struct {
	Categories *CategoryStore
	Tags       *TagStore
	Posts      *PostStore
}

func newTx(ex sqlx.ExtContext) *Tx {
	return &Tx{
		Categories: NewCategoryStore(ex),
		Tags:       NewTagStore(ex),
		Posts:      NewPostStore(ex),
	}
}

// TxRunner runs callbacks inside a database transaction.
type TxRunner struct {
	db *sqlx.DB
}

// NewTxRunner returns a TxRunner over the given pool.
func NewTxRunner(db *sqlx.DB) *TxRunner {
	return &TxRunner{db: db}
}

// Run begins a transaction, passes the bound stores to fn, and commits if fn
// returns nil. Any error or panic rolls the transaction back.
func (r *TxRunner) Run(ctx context.Context, fn func(tx *Tx) error) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Warn().Err(rbErr).Msg("rollback failed")
		}
	}()

	if err := fn(newTx(tx)); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit tx: %w", classify(err))
	}
	committed = true
	return nil
}
