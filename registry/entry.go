// Copyright (C) 2024-2026, Tommytrg. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// RequestEntry is the ledger record created the first time a randomize
// request is posted at a position. Entries are never deleted; after
// creation, Next is the only field that is ever rewritten (by a strictly
// later insertion back-patching its forward link).
type RequestEntry struct {
	// Requester issued the request. The zero address marks an unpopulated
	// position.
	Requester common.Address

	// Prev is the nearest lower populated position at insertion time, 0 if
	// none.
	Prev uint64

	// Next is the nearest higher populated position, 0 until a later
	// insertion back-patches it.
	Next uint64

	// QueryID is the oracle's handle for this request.
	QueryID common.Hash

	// Fee is the fee paid to the oracle when the query was posted.
	Fee *big.Int
}
