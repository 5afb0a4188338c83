// Copyright (C) 2024-2026, Tommytrg. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import "errors"

var (
	// ErrAlreadyPopulated is returned by Ledger.Insert when an entry already
	// exists at the position. The facade absorbs it into an idempotent
	// no-op; it is never surfaced to callers.
	ErrAlreadyPopulated = errors.New("position already populated")

	// ErrNotRandomized is returned when no resolved randomness exists at or
	// after the requested position. Callers retry later or pick an earlier
	// position.
	ErrNotRandomized = errors.New("randomness not available")

	// ErrOracleFailure is returned when the oracle resolved a query with an
	// error. Terminal for that position: no automatic retry is performed.
	ErrOracleFailure = errors.New("oracle failed to resolve query")

	// ErrNotInitialized is returned when operating on an instance whose
	// Initialize was never called.
	ErrNotInitialized = errors.New("instance not initialized")

	// ErrAlreadyInitialized is returned when Initialize is invoked a second
	// time on the same instance.
	ErrAlreadyInitialized = errors.New("instance already initialized")

	// ErrAddressCollision is returned when a deterministic clone would
	// occupy an address that is already taken.
	ErrAddressCollision = errors.New("instance address already in use")

	// errZeroPosition guards the reserved sentinel: position 0 can never
	// hold an entry and is not a valid query target for backward search.
	errZeroPosition = errors.New("position 0 is reserved")

	// errNonMonotonic guards the append-only invariant: insertions must
	// always advance the latest populated position.
	errNonMonotonic = errors.New("insertion behind latest position")

	// errCorruptChain is returned when a prev-link walk visits more entries
	// than were ever inserted, or dereferences a missing entry.
	errCorruptChain = errors.New("request chain is corrupt")
)
