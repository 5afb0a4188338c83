// Copyright (C) 2024-2026, Tommytrg. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNewClockSourceInterval(t *testing.T) {
	require := require.New(t)

	_, err := NewClockSource(time.Now(), 0)
	require.ErrorIs(err, errNonPositiveInterval)

	_, err = NewClockSource(time.Now(), -time.Second)
	require.ErrorIs(err, errNonPositiveInterval)
}

func TestClockSourceCurrent(t *testing.T) {
	require := require.New(t)

	// Ten intervals ago: positions 1..10 have passed, current is 11.
	source, err := NewClockSource(time.Now().Add(-10*time.Minute), time.Minute)
	require.NoError(err)
	require.EqualValues(11, source.Current())

	// A genesis in the future still yields a valid position.
	future, err := NewClockSource(time.Now().Add(time.Hour), time.Minute)
	require.NoError(err)
	require.EqualValues(1, future.Current())
}

func TestManualSource(t *testing.T) {
	require := require.New(t)

	source := NewManualSource(4)
	require.EqualValues(4, source.Current())

	source.Set(9)
	require.EqualValues(9, source.Current())
}
