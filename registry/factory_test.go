// Copyright (C) 2024-2026, Tommytrg. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"math/big"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/Tommytrg/randomness-registry/database/memdb"
	"github.com/Tommytrg/randomness-registry/oracle/oracletest"
	"github.com/Tommytrg/randomness-registry/utils/logging"
)

func newTestFactory(t *testing.T) *Factory {
	require := require.New(t)

	factory, err := NewFactory(
		logging.NoLog{},
		memdb.New(),
		oracletest.New(),
		NewManualSource(1),
		common.HexToAddress("0x0f"),
		"test",
		prometheus.NewRegistry(),
	)
	require.NoError(err)
	return factory
}

func TestFactoryClone(t *testing.T) {
	require := require.New(t)

	factory := newTestFactory(t)

	a, err := factory.Clone()
	require.NoError(err)
	b, err := factory.Clone()
	require.NoError(err)

	require.NotEqual(a.Address(), b.Address())
	require.False(a.Initialized())
	require.False(b.Initialized())

	got, ok := factory.Instance(a.Address())
	require.True(ok)
	require.Equal(a, got)
	require.Len(factory.Instances(), 2)
}

func TestFactoryCloneDeterministic(t *testing.T) {
	require := require.New(t)

	factory := newTestFactory(t)

	salt := crypto.Keccak256Hash([]byte("salt"))
	want := factory.DeterministicAddress(salt)

	instance, err := factory.CloneDeterministic(salt)
	require.NoError(err)
	require.Equal(want, instance.Address())

	// Another factory with the same origin predicts the same address.
	other := newTestFactory(t)
	require.Equal(want, other.DeterministicAddress(salt))

	// Reusing a salt collides.
	_, err = factory.CloneDeterministic(salt)
	require.ErrorIs(err, ErrAddressCollision)
}

func TestFactoryInstancesIsolated(t *testing.T) {
	require := require.New(t)

	bridge := oracletest.New()
	positions := NewManualSource(10)
	factory, err := NewFactory(
		logging.NoLog{},
		memdb.New(),
		bridge,
		positions,
		common.HexToAddress("0x0f"),
		"test",
		prometheus.NewRegistry(),
	)
	require.NoError(err)

	a, err := factory.Clone()
	require.NoError(err)
	b, err := factory.Clone()
	require.NoError(err)
	require.NoError(a.Initialize(testOwner, testTemplate))
	require.NoError(b.Initialize(testOwner, testTemplate))

	// A request on one instance is invisible to its sibling, even though
	// both share the same backing database.
	_, _, err = a.Randomize(testRequester, big.NewInt(150))
	require.NoError(err)

	require.EqualValues(10, a.Latest())
	require.Zero(b.Latest())
	_, populated, err := b.GetRandomizeData(10)
	require.NoError(err)
	require.False(populated)
}
