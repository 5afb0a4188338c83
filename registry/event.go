// Copyright (C) 2024-2026, Tommytrg. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"github.com/ethereum/go-ethereum/common"
)

// maxEvents bounds the audit trail kept in memory per instance.
const maxEvents = 1024

// RandomizeEvent is the audit record emitted for every randomize request
// that actually posted a query.
type RandomizeEvent struct {
	Requester    common.Address `json:"requester"`
	Position     uint64         `json:"position"`
	PrevPosition uint64         `json:"prevPosition"`
	QueryID      common.Hash    `json:"queryId"`
	TemplateHash common.Hash    `json:"templateHash"`
}

// eventTrail is a bounded FIFO of the most recent audit records.
type eventTrail struct {
	events []RandomizeEvent
}

func (t *eventTrail) append(event RandomizeEvent) {
	if len(t.events) >= maxEvents {
		copy(t.events, t.events[1:])
		t.events = t.events[:len(t.events)-1]
	}
	t.events = append(t.events, event)
}

func (t *eventTrail) list() []RandomizeEvent {
	out := make([]RandomizeEvent, len(t.events))
	copy(out, t.events)
	return out
}
