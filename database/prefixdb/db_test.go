// Copyright (C) 2024-2026, Tommytrg. All rights reserved.
// See the file LICENSE for licensing terms.

package prefixdb

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/Tommytrg/randomness-registry/database"
	"github.com/Tommytrg/randomness-registry/database/memdb"
)

func TestInterface(t *testing.T) {
	for _, test := range database.Tests {
		db := memdb.New()
		test(t, New([]byte("hello"), db))
		test(t, New([]byte("world"), db))
		test(t, New([]byte("wor"), New([]byte("ld"), db)))
		test(t, New([]byte("ld"), New([]byte("wor"), db)))
	}
}

func TestPrefixIsolation(t *testing.T) {
	require := require.New(t)

	base := memdb.New()
	a := New([]byte("a"), base)
	b := New([]byte("b"), base)

	require.NoError(a.Put([]byte("key"), []byte("va")))
	require.NoError(b.Put([]byte("key"), []byte("vb")))

	got, err := a.Get([]byte("key"))
	require.NoError(err)
	require.Equal([]byte("va"), got)

	got, err = b.Get([]byte("key"))
	require.NoError(err)
	require.Equal([]byte("vb"), got)
}
