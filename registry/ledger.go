// Copyright (C) 2024-2026, Tommytrg. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/rlp"

	"github.com/Tommytrg/randomness-registry/database"
	"github.com/Tommytrg/randomness-registry/database/prefixdb"
)

var (
	entryPrefix    = []byte("entry")
	metadataPrefix = []byte("metadata")

	latestKey = []byte("latest")
	countKey  = []byte("count")
)

// Ledger is the block-indexed request ledger: a sparse, append-only
// structure holding one RequestEntry per position at which a request was
// first posted. Populated positions form a strictly increasing chain that
// is singly linked backwards at insertion time and retroactively doubly
// linked by back-patching the predecessor's forward link. The chain is
// never rebuilt wholesale.
//
// The Ledger is exclusively owned by its Registry; nothing else mutates it.
type Ledger struct {
	entries  database.Database
	metadata database.Database

	// latest is the highest populated position. Advanced only by Insert,
	// never decreased.
	latest uint64

	// count is the number of populated positions, used to bound prev-link
	// walks against a malformed chain.
	count uint64
}

// NewLedger opens the ledger stored in [db], recovering the latest position
// and entry count left by a previous run.
func NewLedger(db database.Database) (*Ledger, error) {
	l := &Ledger{
		entries:  prefixdb.New(entryPrefix, db),
		metadata: prefixdb.New(metadataPrefix, db),
	}

	latest, err := database.GetUInt64(l.metadata, latestKey)
	switch {
	case err == nil:
		l.latest = latest
	case errors.Is(err, database.ErrNotFound):
	default:
		return nil, fmt.Errorf("couldn't load latest position: %w", err)
	}

	count, err := database.GetUInt64(l.metadata, countKey)
	switch {
	case err == nil:
		l.count = count
	case errors.Is(err, database.ErrNotFound):
	default:
		return nil, fmt.Errorf("couldn't load entry count: %w", err)
	}
	return l, nil
}

// Latest returns the highest populated position, 0 if the ledger is empty.
func (l *Ledger) Latest() uint64 {
	return l.latest
}

// Count returns the number of populated positions.
func (l *Ledger) Count() uint64 {
	return l.count
}

// Entry returns the entry at [position] and whether one exists.
func (l *Ledger) Entry(position uint64) (RequestEntry, bool, error) {
	bytes, err := l.entries.Get(database.PackUInt64(position))
	if errors.Is(err, database.ErrNotFound) {
		return RequestEntry{}, false, nil
	}
	if err != nil {
		return RequestEntry{}, false, err
	}

	entry := RequestEntry{}
	if err := rlp.DecodeBytes(bytes, &entry); err != nil {
		return RequestEntry{}, false, fmt.Errorf("couldn't decode entry at %d: %w", position, err)
	}
	return entry, true, nil
}

// Insert records the request posted by [requester] at [position] and links
// it into the chain: the new entry's Prev is the previous latest position,
// whose Next is back-patched to [position], and the latest position
// advances. Returns the previous latest position for audit purposes.
//
// Returns ErrAlreadyPopulated if an entry already exists at [position]; the
// caller is expected to have checked first and to treat a duplicate as an
// idempotent no-op rather than a failure.
func (l *Ledger) Insert(
	position uint64,
	requester common.Address,
	queryID common.Hash,
	fee *big.Int,
) (uint64, error) {
	switch {
	case position == 0:
		return 0, errZeroPosition
	case position < l.latest:
		return 0, fmt.Errorf("%w: %d < %d", errNonMonotonic, position, l.latest)
	}

	if _, populated, err := l.Entry(position); err != nil {
		return 0, err
	} else if populated {
		return 0, ErrAlreadyPopulated
	}

	prevLatest := l.latest
	if fee == nil {
		fee = new(big.Int)
	}
	if err := l.putEntry(position, RequestEntry{
		Requester: requester,
		Prev:      prevLatest,
		QueryID:   queryID,
		Fee:       fee,
	}); err != nil {
		return 0, err
	}

	if prevLatest != 0 {
		prev, populated, err := l.Entry(prevLatest)
		if err != nil {
			return 0, err
		}
		if !populated {
			return 0, fmt.Errorf("%w: latest position %d has no entry", errCorruptChain, prevLatest)
		}
		prev.Next = position
		if err := l.putEntry(prevLatest, prev); err != nil {
			return 0, err
		}
	}

	if err := database.PutUInt64(l.metadata, latestKey, position); err != nil {
		return 0, err
	}
	if err := database.PutUInt64(l.metadata, countKey, l.count+1); err != nil {
		return 0, err
	}
	l.latest = position
	l.count++
	return prevLatest, nil
}

// SearchForward returns the first populated position strictly greater than
// [from], or 0 if none exists. If [from] is itself populated its stored
// forward link answers in O(1); otherwise the chain is walked backwards
// from the latest position, visiting only populated positions above [from].
func (l *Ledger) SearchForward(from uint64) (uint64, error) {
	entry, populated, err := l.Entry(from)
	if err != nil {
		return 0, err
	}
	if populated {
		return entry.Next, nil
	}

	var (
		cursor    = l.latest
		candidate uint64
		steps     uint64
	)
	for cursor > from {
		candidate = cursor
		entry, populated, err := l.Entry(cursor)
		if err != nil {
			return 0, err
		}
		if !populated {
			return 0, fmt.Errorf("%w: dangling link to %d", errCorruptChain, cursor)
		}
		// Prev of the first entry is the 0 sentinel, which terminates the
		// walk on the next iteration.
		cursor = entry.Prev
		if steps++; steps > l.count {
			return 0, errCorruptChain
		}
	}
	return candidate, nil
}

// SearchBackward returns the highest populated position less than or equal
// to [from], or 0 if none exists. [from] must be nonzero: the sentinel is
// not a valid query target.
func (l *Ledger) SearchBackward(from uint64) (uint64, error) {
	if from == 0 {
		return 0, errZeroPosition
	}

	var (
		cursor = l.latest
		steps  uint64
	)
	for cursor > from {
		entry, populated, err := l.Entry(cursor)
		if err != nil {
			return 0, err
		}
		if !populated {
			return 0, fmt.Errorf("%w: dangling link to %d", errCorruptChain, cursor)
		}
		cursor = entry.Prev
		if steps++; steps > l.count {
			return 0, errCorruptChain
		}
	}
	if cursor == 0 {
		return 0, nil
	}
	// The walk lands on a prev link; in an intact chain every prev link is
	// populated or the 0 sentinel.
	if _, populated, err := l.Entry(cursor); err != nil {
		return 0, err
	} else if !populated {
		return 0, fmt.Errorf("%w: dangling link to %d", errCorruptChain, cursor)
	}
	return cursor, nil
}

func (l *Ledger) putEntry(position uint64, entry RequestEntry) error {
	bytes, err := rlp.EncodeToBytes(&entry)
	if err != nil {
		return fmt.Errorf("couldn't encode entry at %d: %w", position, err)
	}
	return l.entries.Put(database.PackUInt64(position), bytes)
}
