// Copyright (C) 2024-2026, Tommytrg. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"context"
	"math/big"
	"net/http/httptest"
	"net/url"
	"testing"

	gorillarpc "github.com/gorilla/rpc/v2"
	"github.com/stretchr/testify/require"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/ethereum/go-ethereum/crypto"

	"github.com/Tommytrg/randomness-registry/utils/json"
	"github.com/Tommytrg/randomness-registry/utils/logging"
	"github.com/Tommytrg/randomness-registry/utils/rpc"
)

func TestServiceLifecycle(t *testing.T) {
	require := require.New(t)

	factory := newTestFactory(t)
	service := NewService(logging.NoLog{}, factory)

	var cloned CloneReply
	require.NoError(service.Clone(nil, nil, &cloned))

	var initialized InitializeReply
	require.NoError(service.Initialize(nil, &InitializeArgs{
		Address:  cloned.Address,
		Caller:   testOwner,
		InitData: testTemplate,
	}, &initialized))
	require.Equal(crypto.Keccak256Hash(testTemplate), initialized.TemplateHash)

	err := service.Initialize(nil, &InitializeArgs{
		Address: cloned.Address,
		Caller:  testOwner,
	}, &initialized)
	require.ErrorIs(err, ErrAlreadyInitialized)

	var instances InstancesReply
	require.NoError(service.Instances(nil, nil, &instances))
	require.Equal([]common.Address{cloned.Address}, instances.Instances)
}

func TestServiceUnknownInstance(t *testing.T) {
	require := require.New(t)

	service := NewService(logging.NoLog{}, newTestFactory(t))

	err := service.Randomize(nil, &RandomizeArgs{
		Address: common.HexToAddress("0xdead"),
		Caller:  testRequester,
	}, &RandomizeReply{})
	require.ErrorIs(err, errUnknownInstance)
}

func TestServiceRandomizeFlow(t *testing.T) {
	require := require.New(t)

	instance, bridge, positions := newTestRegistry(t)
	factory := newTestFactory(t)
	factory.instances[instance.Address()] = instance
	service := NewService(logging.NoLog{}, factory)

	positions.Set(10)

	var randomized RandomizeReply
	require.NoError(service.Randomize(nil, &RandomizeArgs{
		Address: instance.Address(),
		Caller:  testRequester,
		Value:   (*hexutil.Big)(big.NewInt(150)),
	}, &randomized))
	require.Equal(big.NewInt(50), (*big.Int)(randomized.Change))

	var data GetRandomizeDataReply
	require.NoError(service.GetRandomizeData(nil, &PositionArgs{
		Address:  instance.Address(),
		Position: 10,
	}, &data))
	require.True(data.Populated)
	require.Equal(randomized.QueryID, data.QueryID)
	require.Equal(testRequester, data.Requester)

	var resolved IsRandomizedReply
	require.NoError(service.IsRandomized(nil, &PositionArgs{
		Address:  instance.Address(),
		Position: 10,
	}, &resolved))
	require.False(resolved.IsRandomized)

	bridge.ResolveAll()

	var randomness GetRandomnessAfterReply
	require.NoError(service.GetRandomnessAfter(nil, &PositionArgs{
		Address:  instance.Address(),
		Position: 4,
	}, &randomness))
	require.NotEqual(common.Hash{}, randomness.Randomness)

	var draw RandomReply
	require.NoError(service.Random(nil, &RandomArgs{
		Address:  instance.Address(),
		Range:    100,
		Nonce:    0,
		Position: 10,
		Caller:   testRequester,
	}, &draw))
	require.Less(uint32(draw.Value), uint32(100))

	var events EventsReply
	require.NoError(service.Events(nil, &EventsArgs{Address: instance.Address()}, &events))
	require.Len(events.Events, 1)

	var next PositionReply
	require.NoError(service.NextRequest(nil, &PositionArgs{
		Address:  instance.Address(),
		Position: 3,
	}, &next))
	require.Equal(json.Uint64(10), next.Position)

	var prev PositionReply
	require.NoError(service.PrevRequest(nil, &PositionArgs{
		Address:  instance.Address(),
		Position: 99,
	}, &prev))
	require.Equal(json.Uint64(10), prev.Position)
}

// Methods are called with lowercase names on the wire.
func TestServiceLowercaseMethods(t *testing.T) {
	require := require.New(t)

	factory := newTestFactory(t)

	rpcServer := gorillarpc.NewServer()
	rpcServer.RegisterCodec(json.NewCodec(), "application/json")
	require.NoError(rpcServer.RegisterService(NewService(logging.NoLog{}, factory), "randreg"))

	httpServer := httptest.NewServer(rpcServer)
	defer httpServer.Close()

	uri, err := url.Parse(httpServer.URL)
	require.NoError(err)

	var cloned CloneReply
	require.NoError(rpc.SendJSONRequest(context.Background(), uri, "randreg.clone", &struct{}{}, &cloned))
	require.NotEqual(common.Address{}, cloned.Address)

	var initialized InitializeReply
	require.NoError(rpc.SendJSONRequest(context.Background(), uri, "randreg.initialize", &InitializeArgs{
		Address:  cloned.Address,
		Caller:   testOwner,
		InitData: testTemplate,
	}, &initialized))
	require.Equal(crypto.Keccak256Hash(testTemplate), initialized.TemplateHash)

	var fee EstimateRandomizeFeeReply
	require.NoError(rpc.SendJSONRequest(context.Background(), uri, "randreg.estimateRandomizeFee", &EstimateRandomizeFeeArgs{
		Address:  cloned.Address,
		GasPrice: (*hexutil.Big)(big.NewInt(2)),
	}, &fee))
	require.EqualValues(200, (*big.Int)(fee.Fee).Int64())
}
