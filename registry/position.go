// Copyright (C) 2024-2026, Tommytrg. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"errors"
	"sync/atomic"
	"time"
)

var errNonPositiveInterval = errors.New("position interval must be positive")

// PositionSource reports the host ledger's current position: an opaque,
// strictly monotonically increasing identifier for each unit of execution.
// Position 0 is reserved and never returned.
type PositionSource interface {
	Current() uint64
}

// ClockSource derives positions from wall-clock time, one position per
// interval since genesis. It stands in for a host ledger when randomness is
// served outside one.
type ClockSource struct {
	genesis  time.Time
	interval time.Duration
}

func NewClockSource(genesis time.Time, interval time.Duration) (*ClockSource, error) {
	if interval <= 0 {
		return nil, errNonPositiveInterval
	}
	return &ClockSource{
		genesis:  genesis,
		interval: interval,
	}, nil
}

func (c *ClockSource) Current() uint64 {
	elapsed := time.Since(c.genesis)
	if elapsed < 0 {
		return 1
	}
	// Positions start at 1; 0 is the reserved sentinel.
	return uint64(elapsed/c.interval) + 1
}

// ManualSource is a PositionSource advanced explicitly. Used in tests and
// by hosts that push their own position updates.
type ManualSource struct {
	position uint64
}

func NewManualSource(position uint64) *ManualSource {
	return &ManualSource{position: position}
}

func (m *ManualSource) Current() uint64 {
	return atomic.LoadUint64(&m.position)
}

// Set moves the source to [position]. Moving backwards is the caller's
// responsibility to avoid.
func (m *ManualSource) Set(position uint64) {
	atomic.StoreUint64(&m.position, position)
}
