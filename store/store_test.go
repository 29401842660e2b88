// Copyright (C) 2024-2026, The ledgerquorum Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package store_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ledgerquorum/scp-core/scptypes"
	"github.com/ledgerquorum/scp-core/store"
)

func node(b byte) scptypes.NodeID {
	var id scptypes.NodeID
	id[0] = b
	return id
}

func value(b byte) scptypes.Value {
	v := scptypes.Value{CloseTime: time.Unix(100, 0)}
	v.TxSetHash[0] = b
	return v
}

func TestInsertMonotoneRule(t *testing.T) {
	require := require.New(t)

	s := store.New()
	from := node(1)
	v := value(0xAA)

	low := scptypes.Statement{From: from, Kind: scptypes.KindPrepare, Ballot: scptypes.Ballot{Counter: 1, Value: v}}
	high := scptypes.Statement{From: from, Kind: scptypes.KindPrepare, Ballot: scptypes.Ballot{Counter: 2, Value: v}}

	require.True(s.Insert(low))
	require.True(s.Insert(high))
	require.False(s.Insert(low), "a strictly-lesser ballot from the same (from, kind) must be dropped")

	got, ok := s.Get(from, scptypes.KindPrepare)
	require.True(ok)
	require.Equal(uint32(2), got.Ballot.Counter)
	require.Equal(1, s.Len(), "at most one statement per (from, kind)")
}

func TestInsertEquivocationAtSameCounterRequiresStrictlyGreater(t *testing.T) {
	require := require.New(t)

	s := store.New()
	from := node(1)

	first := scptypes.Statement{From: from, Kind: scptypes.KindPrepare, Ballot: scptypes.Ballot{Counter: 5, Value: value(0x01)}}
	equivocating := scptypes.Statement{From: from, Kind: scptypes.KindPrepare, Ballot: scptypes.Ballot{Counter: 5, Value: value(0x02)}}

	require.True(s.Insert(first))
	// Same counter, different (larger by hash, maybe) value hash: only
	// accepted if it compares strictly greater, never merely equal.
	accepted := s.Insert(equivocating)
	got, _ := s.Get(from, scptypes.KindPrepare)
	if accepted {
		require.Equal(equivocating.Ballot.Value.Hash(), got.Ballot.Value.Hash())
	} else {
		require.Equal(first.Ballot.Value.Hash(), got.Ballot.Value.Hash())
	}
}

func TestNodesThatPreparedIncludesLaterPhases(t *testing.T) {
	require := require.New(t)

	s := store.New()
	v := value(0xAA)
	target := scptypes.Ballot{Counter: 2, Value: v}

	a, b, c := node(1), node(2), node(3)
	require.True(s.Insert(scptypes.Statement{From: a, Kind: scptypes.KindPrepare, Ballot: scptypes.Ballot{Counter: 2, Value: v}}))
	require.True(s.Insert(scptypes.Statement{From: b, Kind: scptypes.KindConfirm, Ballot: scptypes.Ballot{Counter: 2, Value: v}, CommitLow: 1, CommitHigh: 2}))
	require.True(s.Insert(scptypes.Statement{From: c, Kind: scptypes.KindPrepare, Ballot: scptypes.Ballot{Counter: 1, Value: v}}))

	preparers := s.NodesThatPrepared(target)
	require.True(preparers.Contains(a))
	require.True(preparers.Contains(b), "a CONFIRM implies having prepared a compatible ballot")
	require.False(preparers.Contains(c), "c's prepared counter is below the target ballot")
}

func TestNodesCommittedOnlyExternalize(t *testing.T) {
	require := require.New(t)

	s := store.New()
	v := value(0xBB)
	target := scptypes.Ballot{Counter: 3, Value: v}

	a, b := node(1), node(2)
	require.True(s.Insert(scptypes.Statement{From: a, Kind: scptypes.KindExternalize, Ballot: scptypes.Ballot{Counter: 3, Value: v}}))
	require.True(s.Insert(scptypes.Statement{From: b, Kind: scptypes.KindConfirm, Ballot: scptypes.Ballot{Counter: 3, Value: v}, CommitLow: 1, CommitHigh: 3}))

	committed := s.NodesCommitted(target)
	require.True(committed.Contains(a))
	require.False(committed.Contains(b))
}
