// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store implements the persistence layer for categories, tags, and
// posts on top of sqlx and squirrel. Every store accepts an
// sqlx.ExtContext so the same code runs against a pool or inside a
// transaction opened by TxRunner.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jmoiron/sqlx"
	"github.com/mattn/go-sqlite3"
)

var (
	// ErrNotFound is returned when a write targets a row that does not exist.
	ErrNotFound = errors.New("store: not found")
	// ErrSlugTaken is returned when an insert or update violates a unique slug index.
	ErrSlugTaken = errors.New("store: slug already taken")
	// ErrForeignKey is returned when a write references a missing row.
	ErrForeignKey = errors.New("store: foreign key violation")
)

// classify maps driver constraint errors onto the store sentinels. Other
// errors are returned unchanged.
func classify(err error) error {
	if err == nil {
		return nil
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case "23505":
			if strings.Contains(pgErr.ConstraintName, "slug") {
				return fmt.Errorf("%w: %w", ErrSlugTaken, err)
			}
		case "23503":
			return fmt.Errorf("%w: %w", ErrForeignKey, err)
		}
		return err
	}

	var liteErr sqlite3.Error
	if errors.As(err, &liteErr) {
		switch liteErr.ExtendedCode {
		case sqlite3.ErrConstraintUnique:
			if strings.Contains(liteErr.Error(), ".slug") {
				return fmt.Errorf("%w: %w", ErrSlugTaken, err)
			}
		case sqlite3.ErrConstraintForeignKey:
			return fmt.Errorf("%w: %w", ErrForeignKey, err)
		}
	}
	return err
}

// builder returns a squirrel statement builder using the placeholder
// format of the executor's driver.
func builder(ex sqlx.ExtContext) sq.StatementBuilderType {
	if sqlx.BindType(ex.DriverName()) == sqlx.DOLLAR {
		return sq.StatementBuilder.PlaceholderFormat(sq.Dollar)
	}
	return sq.StatementBuilder.PlaceholderFormat(sq.Question)
}

// now returns the current time truncated to the precision both supported
// databases can round-trip.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// eqID builds "col = ?" for a UUID, or "col IS NULL" when id is nil.
func eqID(col string, id *uuid.UUID) sq.Sqlizer {
	if id == nil {
		return sq.Eq{col: nil}
	}
	return sq.Eq{col: id.String()}
}

// inIDs builds "col IN (...)" for a set of UUIDs.
func inIDs(col string, ids []uuid.UUID) sq.Sqlizer {
	vals := make([]string, len(ids))
	for i, id := range ids {
		vals[i] = id.String()
	}
	return sq.Eq{col: vals}
}

// selectAll runs a built select and scans every row into dest.
func selectAll(ctx context.Context, ex sqlx.ExtContext, dest any, b sq.SelectBuilder) error {
	query, args, err := b.ToSql()
	if err != nil {
		return err
	}
	return sqlx.SelectContext(ctx, ex, dest, query, args...)
}

// getOne runs a built select and scans one row into dest. It returns
// sql.ErrNoRows unchanged when nothing matched.
func getOne(ctx context.Context, ex sqlx.ExtContext, dest any, b sq.SelectBuilder) error {
	query, args, err := b.ToSql()
	if err != nil {
		return err
	}
	return sqlx.GetContext(ctx, ex, dest, query, args...)
}

// exec runs a built statement and returns the number of affected rows.
func exec(ctx context.Context, ex sqlx.ExtContext, b sq.Sqlizer) (int64, error) {
	query, args, err := b.ToSql()
	if err != nil {
		return 0, err
	}
	res, err := ex.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, classify(err)
	}
	return res.RowsAffected()
}

// count runs SELECT COUNT(*) over the given base select's FROM and WHERE.
func count(ctx context.Context, ex sqlx.ExtContext, b sq.SelectBuilder) (int, error) {
	var n int
	if err := getOne(ctx, ex, &n, b); err != nil {
		return 0, err
	}
	return n, nil
}

// slugOwner looks up the id owning slug in table.
func slugOwner(ctx context.Context, ex sqlx.ExtContext, table, slug string) (uuid.UUID, bool, error) {
	var id uuid.UUID
	err := getOne(ctx, ex, &id, builder(ex).Select("id").From(table).Where(sq.Eq{"slug": slug}))
	if errors.Is(err, sql.ErrNoRows) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("%s slug owner: %w", table, err)
	}
	return id, true, nil
}

// ListOptions controls paging and ordering of list queries. SortBy is a
// public field name that each store maps onto a whitelisted column.
type ListOptions struct {
	Limit  int
	Offset int
	SortBy string
	Desc   bool
}

// sortColumns maps public sort names to SQL columns.
type sortColumns map[string]string

// apply adds ORDER BY, LIMIT and OFFSET to b. Unknown sort names fall back
// to def. The id column breaks ties so paging stays stable.
func (o ListOptions) apply(b sq.SelectBuilder, cols sortColumns, def string, defDesc bool, idCol string) sq.SelectBuilder {
	col, ok := cols[o.SortBy]
	desc := o.Desc
	if !ok {
		col, desc = def, defDesc
	}
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	b = b.OrderBy(col+" "+dir, idCol+" "+dir)
	if o.Limit > 0 {
		b = b.Limit(uint64(o.Limit))
	}
	if o.Offset > 0 {
		b = b.Offset(uint64(o.Offset))
	}
	return b
}

// keywordLike builds a case-insensitive substring match over columns.
func keywordLike(keyword string, cols ...string) sq.Sqlizer {
	pattern := "%" + strings.ToLower(keyword) + "%"
	or := make(sq.Or, len(cols))
	for i, c := range cols {
		or[i] = sq.Like{"LOWER(" + c + ")": pattern}
	}
	return or
}
