// Copyright (C) 2024-2026, Tommytrg. All rights reserved.
// See the file LICENSE for licensing terms.

// Package oracletest provides a scriptable in-memory Bridge used in tests
// and in dev mode, where no oracle network is reachable. Tests drive
// resolution explicitly with Resolve.
package oracletest

import (
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/Tommytrg/randomness-registry/database"
	"github.com/Tommytrg/randomness-registry/oracle"
)

// QueryGas is the gas the fake oracle charges per query: the fee for a query
// posted at [gasPrice] is gasPrice * QueryGas.
const QueryGas = 100

var _ oracle.Bridge = (*Bridge)(nil)

type query struct {
	template    []byte
	maxGasPrice *big.Int
	resolved    bool
	result      oracle.Result
}

// Bridge is an in-memory oracle.Bridge whose queries resolve only when the
// test says so.
type Bridge struct {
	lock sync.Mutex

	// gasPrice is the network price applied to Submit calls.
	gasPrice *big.Int
	counter  uint64
	queries  map[common.Hash]*query
}

// New returns a bridge charging fees at a network gas price of 1.
func New() *Bridge {
	return &Bridge{
		gasPrice: big.NewInt(1),
		queries:  make(map[common.Hash]*query),
	}
}

// SetGasPrice changes the network gas price applied to future Submit calls.
func (b *Bridge) SetGasPrice(gasPrice *big.Int) {
	b.lock.Lock()
	defer b.lock.Unlock()

	b.gasPrice = new(big.Int).Set(gasPrice)
}

// Resolve scripts the outcome of [queryID]. It returns false if the query
// was never submitted.
func (b *Bridge) Resolve(queryID common.Hash, result oracle.Result) bool {
	b.lock.Lock()
	defer b.lock.Unlock()

	q, ok := b.queries[queryID]
	if !ok {
		return false
	}
	q.resolved = true
	q.result = result
	return true
}

// ResolveAll scripts every outstanding query to succeed with entropy derived
// from its query ID.
func (b *Bridge) ResolveAll() {
	b.lock.Lock()
	defer b.lock.Unlock()

	for queryID, q := range b.queries {
		if q.resolved {
			continue
		}
		q.resolved = true
		q.result = oracle.Ok(crypto.Keccak256Hash(queryID.Bytes()))
	}
}

// Template returns the template posted with [queryID].
func (b *Bridge) Template(queryID common.Hash) ([]byte, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	q, ok := b.queries[queryID]
	if !ok {
		return nil, oracle.ErrUnknownQuery
	}
	return q.template, nil
}

func (b *Bridge) Submit(template []byte, value *big.Int) (common.Hash, *big.Int, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	fee := feeAt(b.gasPrice)
	if value == nil || value.Cmp(fee) < 0 {
		return common.Hash{}, nil, oracle.ErrInsufficientValue
	}

	b.counter++
	queryID := crypto.Keccak256Hash(database.PackUInt64(b.counter), template)
	b.queries[queryID] = &query{
		template:    template,
		maxGasPrice: new(big.Int).Set(b.gasPrice),
	}
	return queryID, fee, nil
}

func (b *Bridge) IsResolved(queryID common.Hash) (bool, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	q, ok := b.queries[queryID]
	if !ok {
		return false, oracle.ErrUnknownQuery
	}
	return q.resolved, nil
}

func (b *Bridge) FetchResult(queryID common.Hash) (oracle.Result, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	q, ok := b.queries[queryID]
	if !ok {
		return oracle.Result{}, oracle.ErrUnknownQuery
	}
	if !q.resolved {
		return oracle.Result{}, oracle.ErrUnresolvedQuery
	}
	return q.result, nil
}

func (b *Bridge) EstimateFee(gasPrice *big.Int) (*big.Int, error) {
	return feeAt(gasPrice), nil
}

func (b *Bridge) TopUpFee(queryID common.Hash, gasPrice *big.Int, value *big.Int) (*big.Int, error) {
	b.lock.Lock()
	defer b.lock.Unlock()

	q, ok := b.queries[queryID]
	if !ok {
		return nil, oracle.ErrUnknownQuery
	}

	owed := new(big.Int).Sub(feeAt(gasPrice), feeAt(q.maxGasPrice))
	if owed.Sign() <= 0 {
		return big.NewInt(0), nil
	}
	if value == nil || value.Cmp(owed) < 0 {
		return nil, oracle.ErrInsufficientValue
	}
	q.maxGasPrice.Set(gasPrice)
	return owed, nil
}

func feeAt(gasPrice *big.Int) *big.Int {
	if gasPrice == nil {
		return big.NewInt(0)
	}
	return new(big.Int).Mul(gasPrice, big.NewInt(QueryGas))
}
