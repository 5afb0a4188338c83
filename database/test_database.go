// Copyright (C) 2024-2026, Tommytrg. All rights reserved.
// See the file LICENSE for licensing terms.

package database

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// Tests is a list of all database tests run against each database
// implementation.
var Tests = []func(t *testing.T, db Database){
	TestSimpleKeyValue,
	TestOverwrite,
	TestDelete,
	TestMissingKey,
}

func TestSimpleKeyValue(t *testing.T, db Database) {
	require := require.New(t)

	key := []byte("hello")
	value := []byte("world")

	has, err := db.Has(key)
	require.NoError(err)
	require.False(has)

	require.NoError(db.Put(key, value))

	has, err = db.Has(key)
	require.NoError(err)
	require.True(has)

	got, err := db.Get(key)
	require.NoError(err)
	require.Equal(value, got)
}

func TestOverwrite(t *testing.T, db Database) {
	require := require.New(t)

	key := []byte("hello")

	require.NoError(db.Put(key, []byte("world")))
	require.NoError(db.Put(key, []byte("there")))

	got, err := db.Get(key)
	require.NoError(err)
	require.Equal([]byte("there"), got)
}

func TestDelete(t *testing.T, db Database) {
	require := require.New(t)

	key := []byte("hello")

	require.NoError(db.Put(key, []byte("world")))
	require.NoError(db.Delete(key))

	has, err := db.Has(key)
	require.NoError(err)
	require.False(has)

	_, err = db.Get(key)
	require.ErrorIs(err, ErrNotFound)

	// Deleting a missing key must not error.
	require.NoError(db.Delete([]byte("missing")))
}

func TestMissingKey(t *testing.T, db Database) {
	require := require.New(t)

	_, err := db.Get([]byte("missing"))
	require.ErrorIs(err, ErrNotFound)
}

func TestClose(t *testing.T, db Database) {
	require := require.New(t)

	require.NoError(db.Put([]byte("hello"), []byte("world")))
	require.NoError(db.Close())

	err := db.Put([]byte("hello"), []byte("world"))
	require.ErrorIs(err, ErrClosed)

	_, err = db.Get([]byte("hello"))
	require.ErrorIs(err, ErrClosed)
}
