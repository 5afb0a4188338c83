// Copyright (C) 2024-2026, Tommytrg. All rights reserved.
// See the file LICENSE for licensing terms.

package database

import (
	"errors"
	"io"
)

var (
	ErrClosed   = errors.New("closed")
	ErrNotFound = errors.New("not found")
)

// KeyValueReader is a read-only key-value store.
type KeyValueReader interface {
	// Has returns if the key is set in the database
	Has(key []byte) (bool, error)

	// Get returns the value the key maps to in the database
	Get(key []byte) ([]byte, error)
}

// KeyValueWriter is a write-only key-value store.
type KeyValueWriter interface {
	// Put sets the value of the provided key to the provided value
	Put(key []byte, value []byte) error
}

// KeyValueDeleter can delete keys from a key-value store.
type KeyValueDeleter interface {
	// Delete removes the key from the database
	Delete(key []byte) error
}

// Database is a persistent key-value store. Keys and values are assumed to
// not be modified after they are passed to the database.
type Database interface {
	KeyValueReader
	KeyValueWriter
	KeyValueDeleter
	io.Closer
}
