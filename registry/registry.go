// Copyright (C) 2024-2026, Tommytrg. All rights reserved.
// See the file LICENSE for licensing terms.

// Package registry implements the decentralized randomness registry:
// randomize requests are posted to an external oracle network and anchored
// to positions of an ordered, append-only host ledger; callers later
// retrieve the resolved entropy, or derive unbiased bounded integers from
// it, effective at-or-after the position they name.
package registry

import (
	"fmt"
	"math/big"
	"sync"

	"go.uber.org/zap"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/Tommytrg/randomness-registry/oracle"
	"github.com/Tommytrg/randomness-registry/utils/logging"
	"github.com/Tommytrg/randomness-registry/utils/sampler"
)

// Registry is one independently owned randomness registry instance. Every
// state-mutating operation executes atomically and in a total order
// (provided here by the instance lock, standing in for the host ledger's
// transaction ordering); failed operations leave no partial mutation
// observable.
type Registry struct {
	lock sync.RWMutex

	log       logging.Logger
	metrics   *metrics
	ledger    *Ledger
	bridge    oracle.Bridge
	positions PositionSource

	address common.Address

	// Set by Initialize, exactly once.
	initialized  bool
	owner        common.Address
	template     []byte
	templateHash common.Hash

	trail eventTrail
}

// Address returns the instance's own address.
func (r *Registry) Address() common.Address {
	return r.address
}

// Owner returns the identity that initialized the instance.
func (r *Registry) Owner() common.Address {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.owner
}

// Initialized reports whether Initialize has been called.
func (r *Registry) Initialized() bool {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.initialized
}

// TemplateHash returns the content hash of the instance's request template.
func (r *Registry) TemplateHash() common.Hash {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.templateHash
}

// Latest returns the highest populated ledger position.
func (r *Registry) Latest() uint64 {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.ledger.Latest()
}

// Initialize performs the one-time setup of a freshly cloned instance,
// binding [initData] as its request template and transferring ownership to
// [caller]. Creation and initialization are deliberately decoupled steps;
// a second call fails with ErrAlreadyInitialized.
func (r *Registry) Initialize(caller common.Address, initData []byte) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.initialized {
		return ErrAlreadyInitialized
	}

	r.initialized = true
	r.owner = caller
	r.template = append([]byte(nil), initData...)
	r.templateHash = crypto.Keccak256Hash(initData)

	r.log.Info("instance initialized",
		zap.Stringer("address", r.address),
		zap.Stringer("owner", caller),
		zap.Stringer("templateHash", r.templateHash),
	)
	return nil
}

// Randomize posts a randomness request anchored to the host ledger's
// current position, paying the oracle fee out of [value] and returning the
// unspent change. If a request already exists at the current position the
// call is an idempotent no-op: the existing query ID is returned and
// [value] is refunded in full, with no state mutated.
func (r *Registry) Randomize(caller common.Address, value *big.Int) (common.Hash, *big.Int, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if !r.initialized {
		return common.Hash{}, nil, ErrNotInitialized
	}
	if value == nil {
		value = new(big.Int)
	}

	position := r.positions.Current()
	if position == 0 {
		return common.Hash{}, nil, errZeroPosition
	}

	// The latest position only ever advances through insertion, so equality
	// means this exact position is already populated.
	if r.ledger.Latest() == position {
		entry, populated, err := r.ledger.Entry(position)
		if err != nil {
			return common.Hash{}, nil, err
		}
		if !populated {
			return common.Hash{}, nil, fmt.Errorf("%w: latest position %d has no entry", errCorruptChain, position)
		}
		r.metrics.numDuplicates.Inc()
		return entry.QueryID, new(big.Int).Set(value), nil
	}

	queryID, fee, err := r.bridge.Submit(r.template, value)
	if err != nil {
		return common.Hash{}, nil, err
	}

	prevLatest, err := r.ledger.Insert(position, caller, queryID, fee)
	if err != nil {
		return common.Hash{}, nil, err
	}

	event := RandomizeEvent{
		Requester:    caller,
		Position:     position,
		PrevPosition: prevLatest,
		QueryID:      queryID,
		TemplateHash: r.templateHash,
	}
	r.trail.append(event)
	r.metrics.numRandomized.Inc()
	r.metrics.latestPosition.Set(float64(position))
	r.log.Info("randomize request posted",
		zap.Stringer("requester", caller),
		zap.Uint64("position", position),
		zap.Uint64("prevPosition", prevLatest),
		zap.Stringer("queryId", queryID),
		zap.Stringer("templateHash", r.templateHash),
	)

	return queryID, new(big.Int).Sub(value, fee), nil
}

// GetRandomnessAfter returns the entropy resolved for [position] itself if
// populated, or for the first populated position after it. Resolution
// always moves forward, never backward: the answer is randomness effective
// at-or-after the named point.
func (r *Registry) GetRandomnessAfter(position uint64) (common.Hash, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.randomnessAfter(position)
}

func (r *Registry) randomnessAfter(position uint64) (common.Hash, error) {
	entry, populated, err := r.ledger.Entry(position)
	if err != nil {
		return common.Hash{}, err
	}
	if !populated {
		target, err := r.ledger.SearchForward(position)
		if err != nil {
			return common.Hash{}, err
		}
		if target == 0 {
			return common.Hash{}, fmt.Errorf("%w: no request at or after position %d", ErrNotRandomized, position)
		}
		if entry, populated, err = r.ledger.Entry(target); err != nil {
			return common.Hash{}, err
		} else if !populated {
			return common.Hash{}, fmt.Errorf("%w: dangling link to %d", errCorruptChain, target)
		}
	}

	resolved, err := r.bridge.IsResolved(entry.QueryID)
	if err != nil {
		return common.Hash{}, err
	}
	if !resolved {
		return common.Hash{}, fmt.Errorf("%w: query %s still pending", ErrNotRandomized, entry.QueryID)
	}

	result, err := r.bridge.FetchResult(entry.QueryID)
	if err != nil {
		return common.Hash{}, err
	}
	if !result.Succeeded() {
		return common.Hash{}, fmt.Errorf("%w: %s", ErrOracleFailure, result.Failure)
	}
	return result.Entropy, nil
}

// Random derives an unbiased integer in [0, rang) from the randomness
// effective at-or-after [position], bound to [caller]'s identity. The
// binding prevents other parties observing the raw entropy from
// precomputing this caller's draws. The pure, context-free overload is
// sampler.Random.
func (r *Registry) Random(rang uint32, nonce uint64, position uint64, caller common.Address) (uint32, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	entropy, err := r.randomnessAfter(position)
	if err != nil {
		return 0, err
	}
	seed := crypto.Keccak256Hash(caller.Bytes(), entropy.Bytes())
	return sampler.Random(rang, nonce, seed), nil
}

// IsRandomized reports whether a request exists at exactly [position] and
// the oracle has resolved it, successfully or not.
func (r *Registry) IsRandomized(position uint64) (bool, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	entry, populated, err := r.ledger.Entry(position)
	if err != nil || !populated {
		return false, err
	}
	return r.bridge.IsResolved(entry.QueryID)
}

// NextRequest returns the first populated position strictly after
// [position], or 0 if none exists.
func (r *Registry) NextRequest(position uint64) (uint64, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.ledger.SearchForward(position)
}

// PrevRequest returns the highest populated position at or before
// [position], or 0 if none exists.
func (r *Registry) PrevRequest(position uint64) (uint64, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.ledger.SearchBackward(position)
}

// GetRandomizeData returns the entry recorded at exactly [position] and
// whether one exists.
func (r *Registry) GetRandomizeData(position uint64) (RequestEntry, bool, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.ledger.Entry(position)
}

// EstimateRandomizeFee returns the fee a randomize request would owe the
// oracle at [gasPrice].
func (r *Registry) EstimateRandomizeFee(gasPrice *big.Int) (*big.Int, error) {
	return r.bridge.EstimateFee(gasPrice)
}

// UpgradeRandomizeFee pays, out of [value], whatever additional fee the
// request at [position] owes for its reward to match [gasPrice], and
// returns the unspent change. If no request exists at [position] the call
// silently does nothing and [value] is refunded in full.
func (r *Registry) UpgradeRandomizeFee(position uint64, gasPrice *big.Int, value *big.Int) (*big.Int, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if value == nil {
		value = new(big.Int)
	}

	entry, populated, err := r.ledger.Entry(position)
	if err != nil {
		return nil, err
	}
	if !populated {
		return new(big.Int).Set(value), nil
	}

	owed, err := r.bridge.TopUpFee(entry.QueryID, gasPrice, value)
	if err != nil {
		return nil, err
	}

	r.metrics.numFeeUpgrades.Inc()
	r.log.Debug("randomize fee upgraded",
		zap.Uint64("position", position),
		zap.Stringer("queryId", entry.QueryID),
		zap.String("owed", owed.String()),
	)
	return new(big.Int).Sub(value, owed), nil
}

// Events returns the in-memory audit trail of posted randomize requests,
// oldest first.
func (r *Registry) Events() []RandomizeEvent {
	r.lock.RLock()
	defer r.lock.RUnlock()
	return r.trail.list()
}
