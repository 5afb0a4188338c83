// Copyright (C) 2024-2026, Tommytrg. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/Tommytrg/randomness-registry/database/memdb"
)

func queryID(i byte) common.Hash {
	return crypto.Keccak256Hash([]byte{i})
}

func TestLedgerEmpty(t *testing.T) {
	require := require.New(t)

	ledger, err := NewLedger(memdb.New())
	require.NoError(err)

	require.Zero(ledger.Latest())
	require.Zero(ledger.Count())

	_, populated, err := ledger.Entry(5)
	require.NoError(err)
	require.False(populated)

	next, err := ledger.SearchForward(0)
	require.NoError(err)
	require.Zero(next)

	prev, err := ledger.SearchBackward(100)
	require.NoError(err)
	require.Zero(prev)
}

func TestLedgerInsertLinks(t *testing.T) {
	require := require.New(t)

	ledger, err := NewLedger(memdb.New())
	require.NoError(err)

	requester := common.HexToAddress("0x01")

	prevLatest, err := ledger.Insert(10, requester, queryID(10), big.NewInt(7))
	require.NoError(err)
	require.Zero(prevLatest)
	require.EqualValues(10, ledger.Latest())
	require.EqualValues(1, ledger.Count())

	prevLatest, err = ledger.Insert(15, requester, queryID(15), big.NewInt(7))
	require.NoError(err)
	require.EqualValues(10, prevLatest)

	prevLatest, err = ledger.Insert(20, requester, queryID(20), big.NewInt(7))
	require.NoError(err)
	require.EqualValues(15, prevLatest)
	require.EqualValues(20, ledger.Latest())
	require.EqualValues(3, ledger.Count())

	// The middle entry is linked both ways.
	entry, populated, err := ledger.Entry(15)
	require.NoError(err)
	require.True(populated)
	require.EqualValues(10, entry.Prev)
	require.EqualValues(20, entry.Next)
	require.Equal(queryID(15), entry.QueryID)
	require.Equal(requester, entry.Requester)
	require.Equal(big.NewInt(7), entry.Fee)

	// First entry has no Prev, last has no Next yet.
	entry, _, err = ledger.Entry(10)
	require.NoError(err)
	require.Zero(entry.Prev)
	require.EqualValues(15, entry.Next)

	entry, _, err = ledger.Entry(20)
	require.NoError(err)
	require.EqualValues(15, entry.Prev)
	require.Zero(entry.Next)
}

func TestLedgerSearch(t *testing.T) {
	ledger, err := NewLedger(memdb.New())
	require.NoError(t, err)

	requester := common.HexToAddress("0x01")
	for _, position := range []uint64{10, 15, 20} {
		_, err := ledger.Insert(position, requester, queryID(byte(position)), nil)
		require.NoError(t, err)
	}

	tests := []struct {
		name string
		call func(uint64) (uint64, error)
		from uint64
		want uint64
	}{
		{"forward from gap", ledger.SearchForward, 12, 15},
		{"forward from populated", ledger.SearchForward, 10, 15},
		{"forward from before first", ledger.SearchForward, 3, 10},
		{"forward from zero", ledger.SearchForward, 0, 10},
		{"forward past latest", ledger.SearchForward, 25, 0},
		{"forward from latest", ledger.SearchForward, 20, 0},
		{"backward from gap", ledger.SearchBackward, 18, 15},
		{"backward inclusive", ledger.SearchBackward, 15, 15},
		{"backward past latest", ledger.SearchBackward, 99, 20},
		{"backward before first", ledger.SearchBackward, 9, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require := require.New(t)

			got, err := tt.call(tt.from)
			require.NoError(err)
			require.Equal(tt.want, got)
		})
	}
}

func TestLedgerInsertGuards(t *testing.T) {
	require := require.New(t)

	ledger, err := NewLedger(memdb.New())
	require.NoError(err)

	requester := common.HexToAddress("0x01")

	_, err = ledger.Insert(0, requester, queryID(0), nil)
	require.ErrorIs(err, errZeroPosition)

	_, err = ledger.Insert(10, requester, queryID(10), nil)
	require.NoError(err)

	_, err = ledger.Insert(10, requester, queryID(11), nil)
	require.ErrorIs(err, ErrAlreadyPopulated)

	_, err = ledger.Insert(5, requester, queryID(5), nil)
	require.ErrorIs(err, errNonMonotonic)

	// Guard failures leave the chain untouched.
	require.EqualValues(10, ledger.Latest())
	require.EqualValues(1, ledger.Count())
	entry, populated, err := ledger.Entry(10)
	require.NoError(err)
	require.True(populated)
	require.Equal(queryID(10), entry.QueryID)
}

func TestLedgerCorruptChainBoundedWalk(t *testing.T) {
	require := require.New(t)

	ledger, err := NewLedger(memdb.New())
	require.NoError(err)

	requester := common.HexToAddress("0x01")
	_, err = ledger.Insert(10, requester, queryID(10), nil)
	require.NoError(err)

	// Plant a self-looping entry and point latest at it. Walks must give
	// up after visiting more entries than were ever inserted instead of
	// looping on the cycle.
	require.NoError(ledger.putEntry(20, RequestEntry{
		Requester: requester,
		Prev:      20,
		QueryID:   queryID(20),
		Fee:       new(big.Int),
	}))
	ledger.latest = 20

	_, err = ledger.SearchForward(1)
	require.ErrorIs(err, errCorruptChain)

	_, err = ledger.SearchBackward(15)
	require.ErrorIs(err, errCorruptChain)
}

func TestLedgerCorruptChainDanglingLink(t *testing.T) {
	require := require.New(t)

	ledger, err := NewLedger(memdb.New())
	require.NoError(err)

	// An entry whose prev link names a position that holds no entry.
	require.NoError(ledger.putEntry(20, RequestEntry{
		Requester: common.HexToAddress("0x01"),
		Prev:      12,
		QueryID:   queryID(20),
		Fee:       new(big.Int),
	}))
	ledger.latest = 20
	ledger.count = 2

	_, err = ledger.SearchForward(1)
	require.ErrorIs(err, errCorruptChain)

	_, err = ledger.SearchBackward(15)
	require.ErrorIs(err, errCorruptChain)
}

func TestLedgerInsertDanglingLatest(t *testing.T) {
	require := require.New(t)

	ledger, err := NewLedger(memdb.New())
	require.NoError(err)

	// latest claims a position that holds no entry; the back-patch must
	// fail instead of silently linking past it.
	ledger.latest = 25

	_, err = ledger.Insert(30, common.HexToAddress("0x01"), queryID(30), nil)
	require.ErrorIs(err, errCorruptChain)
}

func TestLedgerRecovery(t *testing.T) {
	require := require.New(t)

	db := memdb.New()
	ledger, err := NewLedger(db)
	require.NoError(err)

	requester := common.HexToAddress("0x01")
	for _, position := range []uint64{3, 8, 21} {
		_, err := ledger.Insert(position, requester, queryID(byte(position)), big.NewInt(int64(position)))
		require.NoError(err)
	}

	// A ledger reopened over the same database sees the same chain.
	reopened, err := NewLedger(db)
	require.NoError(err)
	require.EqualValues(21, reopened.Latest())
	require.EqualValues(3, reopened.Count())

	next, err := reopened.SearchForward(3)
	require.NoError(err)
	require.EqualValues(8, next)

	entry, populated, err := reopened.Entry(8)
	require.NoError(err)
	require.True(populated)
	require.Equal(big.NewInt(8), entry.Fee)
}
