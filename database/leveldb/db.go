// Copyright (C) 2024-2026, Tommytrg. All rights reserved.
// See the file LICENSE for licensing terms.

package leveldb

import (
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/errors"
	"github.com/syndtr/goleveldb/leveldb/opt"

	"github.com/Tommytrg/randomness-registry/database"
)

const (
	// Name is the name of this database for database switches
	Name = "leveldb"

	blockCacheSize  = 12 * opt.MiB
	writeBufferSize = 12 * opt.MiB
	handleCap       = 64
)

var _ database.Database = (*Database)(nil)

// Database is a persistent key-value store backed by goleveldb. Keys and
// values may be modified freely by the caller after passing them to the
// database.
type Database struct {
	db *leveldb.DB
}

// New returns a wrapped LevelDB instance rooted at [path].
func New(path string) (*Database, error) {
	db, err := leveldb.OpenFile(path, &opt.Options{
		BlockCacheCapacity:     blockCacheSize,
		OpenFilesCacheCapacity: handleCap,
		WriteBuffer:            writeBufferSize / 2,
	})
	if err != nil {
		return nil, err
	}
	return &Database{db: db}, nil
}

func (db *Database) Has(key []byte) (bool, error) {
	has, err := db.db.Has(key, nil)
	return has, updateError(err)
}

func (db *Database) Get(key []byte) ([]byte, error) {
	value, err := db.db.Get(key, nil)
	return value, updateError(err)
}

func (db *Database) Put(key []byte, value []byte) error {
	return updateError(db.db.Put(key, value, nil))
}

func (db *Database) Delete(key []byte) error {
	return updateError(db.db.Delete(key, nil))
}

func (db *Database) Close() error {
	return updateError(db.db.Close())
}

// updateError casts leveldb-specific errors to errors that the interface
// callers are expecting.
func updateError(err error) error {
	switch err {
	case leveldb.ErrClosed:
		return database.ErrClosed
	case errors.ErrNotFound, leveldb.ErrNotFound:
		return database.ErrNotFound
	default:
		return err
	}
}
