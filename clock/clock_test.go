// Copyright (C) 2024-2026, The ledgerquorum Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package clock_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ledgerquorum/scp-core/clock"
)

func TestVirtualAdvanceFiresDueCallbacks(t *testing.T) {
	require := require.New(t)
	v := clock.NewVirtual(time.Unix(0, 0))

	var fired []string
	v.AfterFunc(2*time.Second, func() { fired = append(fired, "a") })
	v.AfterFunc(5*time.Second, func() { fired = append(fired, "b") })

	v.Advance(time.Second)
	require.Empty(fired)

	v.Advance(2 * time.Second)
	require.Equal([]string{"a"}, fired)

	v.Advance(3 * time.Second)
	require.Equal([]string{"a", "b"}, fired)
}

func TestVirtualAdvanceFiresInFireAtOrder(t *testing.T) {
	require := require.New(t)
	v := clock.NewVirtual(time.Unix(0, 0))

	var order []int
	v.AfterFunc(3*time.Second, func() { order = append(order, 3) })
	v.AfterFunc(1*time.Second, func() { order = append(order, 1) })
	v.AfterFunc(2*time.Second, func() { order = append(order, 2) })

	v.Advance(3 * time.Second)
	require.Equal([]int{1, 2, 3}, order)
}

func TestTimerStopPreventsLaterFire(t *testing.T) {
	require := require.New(t)
	v := clock.NewVirtual(time.Unix(0, 0))

	fired := false
	timer := v.AfterFunc(time.Second, func() { fired = true })
	ok := timer.Stop()
	require.True(ok)

	ok = timer.Stop()
	require.False(ok)

	v.Advance(2 * time.Second)
	require.False(fired)
}

func TestRealNowAdvances(t *testing.T) {
	require := require.New(t)
	var r clock.Real
	first := r.Now()
	time.Sleep(time.Millisecond)
	second := r.Now()
	require.True(second.After(first) || second.Equal(first))
}
