// Copyright (C) 2024-2026, Tommytrg. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"errors"
	"fmt"
	"math/big"
	"net/http"

	"go.uber.org/zap"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/Tommytrg/randomness-registry/utils/json"
	"github.com/Tommytrg/randomness-registry/utils/logging"
)

var errUnknownInstance = errors.New("unknown instance")

// Service is the JSON-RPC API exposed over /ext/randomness. Every method
// addresses one instance by its address, except the factory methods that
// create instances.
type Service struct {
	log     logging.Logger
	factory *Factory
}

// NewService returns the RPC handler backed by [factory].
func NewService(log logging.Logger, factory *Factory) *Service {
	return &Service{
		log:     log,
		factory: factory,
	}
}

func (s *Service) instance(addr common.Address) (*Registry, error) {
	instance, ok := s.factory.Instance(addr)
	if !ok {
		return nil, fmt.Errorf("%w: %s", errUnknownInstance, addr)
	}
	return instance, nil
}

type CloneReply struct {
	Address common.Address `json:"address"`
}

// Clone creates an uninitialized instance at a fresh address.
func (s *Service) Clone(_ *http.Request, _ *struct{}, reply *CloneReply) error {
	s.log.Debug("API called",
		zap.String("service", "randreg"),
		zap.String("method", "clone"),
	)

	instance, err := s.factory.Clone()
	if err != nil {
		return err
	}
	reply.Address = instance.Address()
	return nil
}

type CloneDeterministicArgs struct {
	Salt common.Hash `json:"salt"`
}

// CloneDeterministic creates an uninitialized instance at the address
// derived from the factory origin and [args.Salt].
func (s *Service) CloneDeterministic(_ *http.Request, args *CloneDeterministicArgs, reply *CloneReply) error {
	s.log.Debug("API called",
		zap.String("service", "randreg"),
		zap.String("method", "cloneDeterministic"),
		zap.Stringer("salt", args.Salt),
	)

	instance, err := s.factory.CloneDeterministic(args.Salt)
	if err != nil {
		return err
	}
	reply.Address = instance.Address()
	return nil
}

type InitializeArgs struct {
	Address  common.Address `json:"address"`
	Caller   common.Address `json:"caller"`
	InitData hexutil.Bytes  `json:"initData"`
}

type InitializeReply struct {
	TemplateHash common.Hash `json:"templateHash"`
}

// Initialize performs the one-time setup of a cloned instance.
func (s *Service) Initialize(_ *http.Request, args *InitializeArgs, reply *InitializeReply) error {
	s.log.Debug("API called",
		zap.String("service", "randreg"),
		zap.String("method", "initialize"),
		zap.Stringer("address", args.Address),
	)

	instance, err := s.instance(args.Address)
	if err != nil {
		return err
	}
	if err := instance.Initialize(args.Caller, args.InitData); err != nil {
		return err
	}
	reply.TemplateHash = instance.TemplateHash()
	return nil
}

type RandomizeArgs struct {
	Address common.Address `json:"address"`
	Caller  common.Address `json:"caller"`
	Value   *hexutil.Big   `json:"value"`
}

type RandomizeReply struct {
	QueryID common.Hash  `json:"queryId"`
	Change  *hexutil.Big `json:"change"`
}

// Randomize posts a randomness request at the current ledger position.
func (s *Service) Randomize(_ *http.Request, args *RandomizeArgs, reply *RandomizeReply) error {
	s.log.Debug("API called",
		zap.String("service", "randreg"),
		zap.String("method", "randomize"),
		zap.Stringer("address", args.Address),
		zap.Stringer("caller", args.Caller),
	)

	instance, err := s.instance(args.Address)
	if err != nil {
		return err
	}
	queryID, change, err := instance.Randomize(args.Caller, (*big.Int)(args.Value))
	if err != nil {
		return err
	}
	reply.QueryID = queryID
	reply.Change = (*hexutil.Big)(change)
	return nil
}

type PositionArgs struct {
	Address  common.Address `json:"address"`
	Position json.Uint64    `json:"position"`
}

type GetRandomnessAfterReply struct {
	Randomness common.Hash `json:"randomness"`
}

// GetRandomnessAfter returns the entropy effective at-or-after a position.
func (s *Service) GetRandomnessAfter(_ *http.Request, args *PositionArgs, reply *GetRandomnessAfterReply) error {
	s.log.Debug("API called",
		zap.String("service", "randreg"),
		zap.String("method", "getRandomnessAfter"),
		zap.Stringer("address", args.Address),
		zap.Uint64("position", uint64(args.Position)),
	)

	instance, err := s.instance(args.Address)
	if err != nil {
		return err
	}
	randomness, err := instance.GetRandomnessAfter(uint64(args.Position))
	if err != nil {
		return err
	}
	reply.Randomness = randomness
	return nil
}

type RandomArgs struct {
	Address  common.Address `json:"address"`
	Range    json.Uint32    `json:"range"`
	Nonce    json.Uint64    `json:"nonce"`
	Position json.Uint64    `json:"position"`
	Caller   common.Address `json:"caller"`
}

type RandomReply struct {
	Value json.Uint32 `json:"value"`
}

// Random derives a caller-bound uniform integer in [0, range).
func (s *Service) Random(_ *http.Request, args *RandomArgs, reply *RandomReply) error {
	s.log.Debug("API called",
		zap.String("service", "randreg"),
		zap.String("method", "random"),
		zap.Stringer("address", args.Address),
		zap.Uint32("range", uint32(args.Range)),
	)

	instance, err := s.instance(args.Address)
	if err != nil {
		return err
	}
	value, err := instance.Random(uint32(args.Range), uint64(args.Nonce), uint64(args.Position), args.Caller)
	if err != nil {
		return err
	}
	reply.Value = json.Uint32(value)
	return nil
}

type IsRandomizedReply struct {
	IsRandomized bool `json:"isRandomized"`
}

// IsRandomized reports whether the request at a position has resolved.
func (s *Service) IsRandomized(_ *http.Request, args *PositionArgs, reply *IsRandomizedReply) error {
	s.log.Debug("API called",
		zap.String("service", "randreg"),
		zap.String("method", "isRandomized"),
		zap.Stringer("address", args.Address),
		zap.Uint64("position", uint64(args.Position)),
	)

	instance, err := s.instance(args.Address)
	if err != nil {
		return err
	}
	reply.IsRandomized, err = instance.IsRandomized(uint64(args.Position))
	return err
}

type GetRandomizeDataReply struct {
	Populated bool           `json:"populated"`
	Requester common.Address `json:"requester,omitempty"`
	Prev      json.Uint64    `json:"prev,omitempty"`
	Next      json.Uint64    `json:"next,omitempty"`
	QueryID   common.Hash    `json:"queryId,omitempty"`
	Fee       *hexutil.Big   `json:"fee,omitempty"`
}

// GetRandomizeData returns the request recorded at exactly a position.
func (s *Service) GetRandomizeData(_ *http.Request, args *PositionArgs, reply *GetRandomizeDataReply) error {
	s.log.Debug("API called",
		zap.String("service", "randreg"),
		zap.String("method", "getRandomizeData"),
		zap.Stringer("address", args.Address),
		zap.Uint64("position", uint64(args.Position)),
	)

	instance, err := s.instance(args.Address)
	if err != nil {
		return err
	}
	entry, populated, err := instance.GetRandomizeData(uint64(args.Position))
	if err != nil {
		return err
	}
	reply.Populated = populated
	if !populated {
		return nil
	}
	reply.Requester = entry.Requester
	reply.Prev = json.Uint64(entry.Prev)
	reply.Next = json.Uint64(entry.Next)
	reply.QueryID = entry.QueryID
	reply.Fee = (*hexutil.Big)(entry.Fee)
	return nil
}

type PositionReply struct {
	Position json.Uint64 `json:"position"`
}

// NextRequest returns the first populated position strictly after the one
// given, or 0 if none exists.
func (s *Service) NextRequest(_ *http.Request, args *PositionArgs, reply *PositionReply) error {
	s.log.Debug("API called",
		zap.String("service", "randreg"),
		zap.String("method", "nextRequest"),
		zap.Stringer("address", args.Address),
		zap.Uint64("position", uint64(args.Position)),
	)

	instance, err := s.instance(args.Address)
	if err != nil {
		return err
	}
	next, err := instance.NextRequest(uint64(args.Position))
	reply.Position = json.Uint64(next)
	return err
}

// PrevRequest returns the highest populated position at or before the one
// given, or 0 if none exists.
func (s *Service) PrevRequest(_ *http.Request, args *PositionArgs, reply *PositionReply) error {
	s.log.Debug("API called",
		zap.String("service", "randreg"),
		zap.String("method", "prevRequest"),
		zap.Stringer("address", args.Address),
		zap.Uint64("position", uint64(args.Position)),
	)

	instance, err := s.instance(args.Address)
	if err != nil {
		return err
	}
	prev, err := instance.PrevRequest(uint64(args.Position))
	reply.Position = json.Uint64(prev)
	return err
}

type EstimateRandomizeFeeArgs struct {
	Address  common.Address `json:"address"`
	GasPrice *hexutil.Big   `json:"gasPrice"`
}

type EstimateRandomizeFeeReply struct {
	Fee *hexutil.Big `json:"fee"`
}

// EstimateRandomizeFee quotes the oracle fee at a gas price.
func (s *Service) EstimateRandomizeFee(_ *http.Request, args *EstimateRandomizeFeeArgs, reply *EstimateRandomizeFeeReply) error {
	s.log.Debug("API called",
		zap.String("service", "randreg"),
		zap.String("method", "estimateRandomizeFee"),
		zap.Stringer("address", args.Address),
	)

	instance, err := s.instance(args.Address)
	if err != nil {
		return err
	}
	fee, err := instance.EstimateRandomizeFee((*big.Int)(args.GasPrice))
	if err != nil {
		return err
	}
	reply.Fee = (*hexutil.Big)(fee)
	return nil
}

type UpgradeRandomizeFeeArgs struct {
	Address  common.Address `json:"address"`
	Position json.Uint64    `json:"position"`
	GasPrice *hexutil.Big   `json:"gasPrice"`
	Value    *hexutil.Big   `json:"value"`
}

type UpgradeRandomizeFeeReply struct {
	Change *hexutil.Big `json:"change"`
}

// UpgradeRandomizeFee tops up the reward of the request at a position.
func (s *Service) UpgradeRandomizeFee(_ *http.Request, args *UpgradeRandomizeFeeArgs, reply *UpgradeRandomizeFeeReply) error {
	s.log.Debug("API called",
		zap.String("service", "randreg"),
		zap.String("method", "upgradeRandomizeFee"),
		zap.Stringer("address", args.Address),
		zap.Uint64("position", uint64(args.Position)),
	)

	instance, err := s.instance(args.Address)
	if err != nil {
		return err
	}
	change, err := instance.UpgradeRandomizeFee(
		uint64(args.Position),
		(*big.Int)(args.GasPrice),
		(*big.Int)(args.Value),
	)
	if err != nil {
		return err
	}
	reply.Change = (*hexutil.Big)(change)
	return nil
}

type InstancesReply struct {
	Instances []common.Address `json:"instances"`
}

// Instances lists the addresses of every created instance.
func (s *Service) Instances(_ *http.Request, _ *struct{}, reply *InstancesReply) error {
	s.log.Debug("API called",
		zap.String("service", "randreg"),
		zap.String("method", "instances"),
	)

	reply.Instances = s.factory.Instances()
	return nil
}

type EventsArgs struct {
	Address common.Address `json:"address"`
}

type EventsReply struct {
	Events []RandomizeEvent `json:"events"`
}

// Events returns the audit trail of randomize requests, oldest first.
func (s *Service) Events(_ *http.Request, args *EventsArgs, reply *EventsReply) error {
	s.log.Debug("API called",
		zap.String("service", "randreg"),
		zap.String("method", "events"),
		zap.Stringer("address", args.Address),
	)

	instance, err := s.instance(args.Address)
	if err != nil {
		return err
	}
	reply.Events = instance.Events()
	return nil
}
