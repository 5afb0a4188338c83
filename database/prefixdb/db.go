// Copyright (C) 2024-2026, Tommytrg. All rights reserved.
// See the file LICENSE for licensing terms.

package prefixdb

import (
	"github.com/Tommytrg/randomness-registry/database"
)

var _ database.Database = (*Database)(nil)

// Database partitions a database into a sub-database by prefixing all keys
// with a unique value.
type Database struct {
	prefix []byte
	db     database.Database
}

// New returns a new prefixed database
func New(prefix []byte, db database.Database) *Database {
	return &Database{
		prefix: prefix,
		db:     db,
	}
}

func (db *Database) Has(key []byte) (bool, error) {
	return db.db.Has(db.prefixKey(key))
}

func (db *Database) Get(key []byte) ([]byte, error) {
	return db.db.Get(db.prefixKey(key))
}

func (db *Database) Put(key, value []byte) error {
	return db.db.Put(db.prefixKey(key), value)
}

func (db *Database) Delete(key []byte) error {
	return db.db.Delete(db.prefixKey(key))
}

// Close doesn't close the underlying database: multiple prefixed databases
// may share it.
func (db *Database) Close() error {
	return nil
}

func (db *Database) prefixKey(key []byte) []byte {
	prefixed := make([]byte, len(db.prefix)+len(key))
	copy(prefixed, db.prefix)
	copy(prefixed[len(db.prefix):], key)
	return prefixed
}
