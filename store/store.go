// Package store persists users and tasks through sqlx.
//
// Queries are written with "?" placeholders and rebound for the driver the
// connection was opened with.
package store

import "errors"

// ErrNotFound is returned when a lookup by key matches no row
var ErrNotFound = errors.New("record not found")
