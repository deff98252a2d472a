// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package store holds the PostgreSQL repositories behind the renderer and
// the pipeline ingest API. Lookups return (nil, nil) when no row matches;
// writes that target a missing row return ErrNotFound.
package store

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned by writes whose target row does not exist.
var ErrNotFound = errors.New("not found")

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// isUniqueViolation reports whether err is a unique constraint failure on
// the named constraint (any constraint when name is empty).
func isUniqueViolation(err error, constraint string) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
		return false
	}
	return constraint == "" || pgErr.ConstraintName == constraint
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}
