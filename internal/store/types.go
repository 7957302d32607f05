// Package store keeps saved text field state in SQLite.
//
// Every row carries a BLAKE2b-256 checksum over the id and the value. A
// store opened with a key uses keyed BLAKE2b, so a row copied from another
// database, or edited by hand, fails verification.
package store

import (
	"errors"
	"time"

	"editcore/internal/text"
)

var (
	// ErrNotFound is returned when no row exists for an id.
	ErrNotFound = errors.New("field state not found")

	// ErrCorrupt is returned when a row does not match its checksum.
	ErrCorrupt = errors.New("field state corrupt")
)

// Record is one saved field.
type Record struct {
	ID        string
	Value     text.TextFieldValue
	UpdatedAt time.Time
}

// Stats summarizes the store.
type Stats struct {
	Fields      int64
	TotalChars  int64
	LastUpdated *time.Time
}
