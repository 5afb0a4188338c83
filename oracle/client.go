// Copyright (C) 2024-2026, Tommytrg. All rights reserved.
// See the file LICENSE for licensing terms.

package oracle

import (
	"context"
	"math/big"
	"net/url"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"github.com/Tommytrg/randomness-registry/utils/rpc"
)

const requestTimeout = 10 * time.Second

var _ Bridge = (*Client)(nil)

// Client implements Bridge against a remote oracle gateway speaking
// JSON-RPC 2.0 over HTTP.
type Client struct {
	uri *url.URL
}

// NewClient returns a Bridge talking to the gateway at [uri].
func NewClient(uri string) (*Client, error) {
	parsed, err := url.Parse(uri)
	if err != nil {
		return nil, err
	}
	return &Client{uri: parsed}, nil
}

type submitArgs struct {
	Template hexutil.Bytes `json:"template"`
	Value    *hexutil.Big  `json:"value"`
}

type submitReply struct {
	QueryID common.Hash  `json:"queryId"`
	Fee     *hexutil.Big `json:"fee"`
}

func (c *Client) Submit(template []byte, value *big.Int) (common.Hash, *big.Int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	reply := submitReply{}
	err := rpc.SendJSONRequest(ctx, c.uri, "oracle.submit", &submitArgs{
		Template: template,
		Value:    (*hexutil.Big)(value),
	}, &reply)
	if err != nil {
		return common.Hash{}, nil, remapError(err)
	}
	return reply.QueryID, (*big.Int)(reply.Fee), nil
}

type queryArgs struct {
	QueryID common.Hash `json:"queryId"`
}

type isResolvedReply struct {
	Resolved bool `json:"resolved"`
}

func (c *Client) IsResolved(queryID common.Hash) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	reply := isResolvedReply{}
	err := rpc.SendJSONRequest(ctx, c.uri, "oracle.isResolved", &queryArgs{QueryID: queryID}, &reply)
	return reply.Resolved, err
}

type fetchResultReply struct {
	Result Result `json:"result"`
}

func (c *Client) FetchResult(queryID common.Hash) (Result, error) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	reply := fetchResultReply{}
	err := rpc.SendJSONRequest(ctx, c.uri, "oracle.fetchResult", &queryArgs{QueryID: queryID}, &reply)
	return reply.Result, remapError(err)
}

type estimateFeeArgs struct {
	GasPrice *hexutil.Big `json:"gasPrice"`
}

type feeReply struct {
	Fee *hexutil.Big `json:"fee"`
}

func (c *Client) EstimateFee(gasPrice *big.Int) (*big.Int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	reply := feeReply{}
	err := rpc.SendJSONRequest(ctx, c.uri, "oracle.estimateFee", &estimateFeeArgs{
		GasPrice: (*hexutil.Big)(gasPrice),
	}, &reply)
	if err != nil {
		return nil, err
	}
	return (*big.Int)(reply.Fee), nil
}

type topUpFeeArgs struct {
	QueryID  common.Hash  `json:"queryId"`
	GasPrice *hexutil.Big `json:"gasPrice"`
	Value    *hexutil.Big `json:"value"`
}

type topUpFeeReply struct {
	Owed *hexutil.Big `json:"owed"`
}

func (c *Client) TopUpFee(queryID common.Hash, gasPrice *big.Int, value *big.Int) (*big.Int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	reply := topUpFeeReply{}
	err := rpc.SendJSONRequest(ctx, c.uri, "oracle.topUpFee", &topUpFeeArgs{
		QueryID:  queryID,
		GasPrice: (*hexutil.Big)(gasPrice),
		Value:    (*hexutil.Big)(value),
	}, &reply)
	if err != nil {
		return nil, remapError(err)
	}
	return (*big.Int)(reply.Owed), nil
}

// remapError recovers the sentinel errors this package exports from the
// flattened JSON-RPC error strings the gateway returns.
func remapError(err error) error {
	switch {
	case err == nil:
		return nil
	case strings.Contains(err.Error(), ErrInsufficientValue.Error()):
		return ErrInsufficientValue
	case strings.Contains(err.Error(), ErrUnknownQuery.Error()):
		return ErrUnknownQuery
	case strings.Contains(err.Error(), ErrUnresolvedQuery.Error()):
		return ErrUnresolvedQuery
	default:
		return err
	}
}
