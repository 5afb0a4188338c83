// Copyright (C) 2024-2026, Tommytrg. All rights reserved.
// See the file LICENSE for licensing terms.

package json

import (
	"net/http"
	"strings"

	"github.com/gorilla/rpc/v2"
	"github.com/gorilla/rpc/v2/json2"
)

// NewCodec returns a JSON-RPC 2.0 codec that uppercases the first character
// of the called function, so API methods are invoked with lowercase names
// ("randreg.randomize") while the Go methods stay exported.
func NewCodec() Codec {
	return Codec{Codec: json2.NewCodec()}
}

type Codec struct {
	*json2.Codec
}

func (c Codec) NewRequest(r *http.Request) rpc.CodecRequest {
	return &CodecRequest{CodecRequest: c.Codec.NewRequest(r)}
}

type CodecRequest struct {
	rpc.CodecRequest
}

// Method returns the requested method with the first character of the
// function name uppercased.
func (cr *CodecRequest) Method() (string, error) {
	method, err := cr.CodecRequest.Method()
	if err != nil {
		return method, err
	}
	class, function, ok := strings.Cut(method, ".")
	if !ok || function == "" {
		return method, nil
	}
	return class + "." + strings.ToUpper(function[:1]) + function[1:], nil
}
