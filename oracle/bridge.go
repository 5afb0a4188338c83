// Copyright (C) 2024-2026, Tommytrg. All rights reserved.
// See the file LICENSE for licensing terms.

// Package oracle defines the boundary with the external oracle network that
// resolves randomness queries. The network is consumed as an opaque
// capability: queries are submitted synchronously, resolution is observed by
// polling. The registry never receives callbacks.
package oracle

import (
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

var (
	// ErrInsufficientValue is returned when the value attached to an
	// operation doesn't cover the fee the oracle requires.
	ErrInsufficientValue = errors.New("insufficient value attached")

	// ErrUnknownQuery is returned when a query ID was never issued by this
	// bridge.
	ErrUnknownQuery = errors.New("unknown query")

	// ErrUnresolvedQuery is returned when fetching the result of a query the
	// oracle hasn't resolved yet.
	ErrUnresolvedQuery = errors.New("query not yet resolved")
)

// Bridge submits query templates to the oracle network and reports on their
// resolution. Implementations own the full query lifecycle state keyed by
// query ID; callers only hold the opaque ID.
type Bridge interface {
	// Submit posts [template] as a new query, paying its fee out of
	// [value]. It returns the assigned query ID and the fee actually
	// charged. Returns ErrInsufficientValue, without posting, when [value]
	// doesn't cover the fee.
	Submit(template []byte, value *big.Int) (common.Hash, *big.Int, error)

	// IsResolved reports whether the oracle network has produced a result
	// for [queryID], successfully or not.
	IsResolved(queryID common.Hash) (bool, error)

	// FetchResult returns the result of a resolved query.
	FetchResult(queryID common.Hash) (Result, error)

	// EstimateFee returns the fee required to post a query at [gasPrice].
	EstimateFee(gasPrice *big.Int) (*big.Int, error)

	// TopUpFee pays, out of [value], whatever additional fee [queryID] owes
	// for its reward to match [gasPrice], given the highest price already
	// paid. It returns the amount actually owed, which may be zero.
	// Returns ErrInsufficientValue, charging nothing, when [value] doesn't
	// cover the amount owed.
	TopUpFee(queryID common.Hash, gasPrice *big.Int, value *big.Int) (*big.Int, error)
}
