// Copyright (C) 2024-2026, Tommytrg. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/Tommytrg/randomness-registry/database"
	"github.com/Tommytrg/randomness-registry/database/prefixdb"
	"github.com/Tommytrg/randomness-registry/oracle"
	"github.com/Tommytrg/randomness-registry/utils/logging"
)

// instanceCode tags every instance this factory stamps out. Deterministic
// clone addresses commit to its hash, so two factories running the same
// release derive the same address for the same origin and salt.
var instanceCode = []byte("randomness-registry/instance/v1")

// Factory stamps out Registry instances, each with its own isolated key
// space inside the shared database. Instances must be initialized before
// use; the factory only creates them.
type Factory struct {
	lock sync.Mutex

	log       logging.Logger
	db        database.Database
	bridge    oracle.Bridge
	positions PositionSource
	metrics   *metrics

	origin common.Address
	nonce  uint64

	instances map[common.Address]*Registry
}

// NewFactory returns a factory deriving instance addresses from [origin].
func NewFactory(
	log logging.Logger,
	db database.Database,
	bridge oracle.Bridge,
	positions PositionSource,
	origin common.Address,
	namespace string,
	registerer prometheus.Registerer,
) (*Factory, error) {
	m, err := newMetrics(namespace, registerer)
	if err != nil {
		return nil, err
	}
	return &Factory{
		log:       log,
		db:        db,
		bridge:    bridge,
		positions: positions,
		metrics:   m,
		origin:    origin,
		instances: make(map[common.Address]*Registry),
	}, nil
}

// Clone creates an uninitialized instance at a fresh, nondeterministic
// address derived from the factory's origin and an internal counter.
// Successive calls never collide.
func (f *Factory) Clone() (*Registry, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	addr := crypto.CreateAddress(f.origin, f.nonce)
	f.nonce++
	return f.newInstance(addr)
}

// CloneDeterministic creates an uninitialized instance at an address
// derived solely from the factory's origin, [salt], and the instance code
// hash, so the address is predictable before creation. Reusing a salt
// fails with ErrAddressCollision.
func (f *Factory) CloneDeterministic(salt common.Hash) (*Registry, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	addr := crypto.CreateAddress2(f.origin, salt, crypto.Keccak256(instanceCode))
	if _, ok := f.instances[addr]; ok {
		return nil, ErrAddressCollision
	}
	return f.newInstance(addr)
}

// DeterministicAddress returns the address CloneDeterministic would assign
// to [salt], without creating anything.
func (f *Factory) DeterministicAddress(salt common.Hash) common.Address {
	return crypto.CreateAddress2(f.origin, salt, crypto.Keccak256(instanceCode))
}

// Instance returns the instance created at [addr], if any.
func (f *Factory) Instance(addr common.Address) (*Registry, bool) {
	f.lock.Lock()
	defer f.lock.Unlock()

	instance, ok := f.instances[addr]
	return instance, ok
}

// Instances returns the addresses of every instance this factory created.
func (f *Factory) Instances() []common.Address {
	f.lock.Lock()
	defer f.lock.Unlock()

	addrs := make([]common.Address, 0, len(f.instances))
	for addr := range f.instances {
		addrs = append(addrs, addr)
	}
	return addrs
}

func (f *Factory) newInstance(addr common.Address) (*Registry, error) {
	if _, ok := f.instances[addr]; ok {
		return nil, ErrAddressCollision
	}

	ledger, err := NewLedger(prefixdb.New(addr.Bytes(), f.db))
	if err != nil {
		return nil, err
	}

	instance := &Registry{
		log:       f.log,
		metrics:   f.metrics,
		ledger:    ledger,
		bridge:    f.bridge,
		positions: f.positions,
		address:   addr,
	}
	f.instances[addr] = instance
	f.metrics.numClones.Inc()
	f.log.Info("instance cloned",
		zap.Stringer("address", addr),
	)
	return instance, nil
}
