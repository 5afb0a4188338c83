// Copyright (C) 2024-2026, Tommytrg. All rights reserved.
// See the file LICENSE for licensing terms.

package oracle

import "github.com/ethereum/go-ethereum/common"

// Result is the outcome of a resolved query: either 256 bits of entropy or
// the reason the oracle network failed to produce one. A failed result still
// counts as resolved.
type Result struct {
	Entropy common.Hash `json:"entropy"`
	Failure string      `json:"failure,omitempty"`
}

// Ok returns a successful result carrying [entropy].
func Ok(entropy common.Hash) Result {
	return Result{Entropy: entropy}
}

// Failed returns an errored result carrying the oracle's failure [reason].
func Failed(reason string) Result {
	return Result{Failure: reason}
}

// Succeeded reports whether the query resolved with usable entropy.
func (r Result) Succeeded() bool {
	return r.Failure == ""
}
