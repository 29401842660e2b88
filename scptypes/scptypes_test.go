// Copyright (C) 2024-2026, The ledgerquorum Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package scptypes_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ledgerquorum/scp-core/scptypes"
)

func TestValueHashStableAndSensitiveToEveryField(t *testing.T) {
	require := require.New(t)
	base := scptypes.Value{CloseTime: time.Unix(100, 0)}
	base.TxSetHash[0] = 0x01

	same := base
	require.Equal(base.Hash(), same.Hash())
	require.True(base.Equal(same))

	diffTxSet := base
	diffTxSet.TxSetHash[0] = 0x02
	require.NotEqual(base.Hash(), diffTxSet.Hash())

	diffPrev := base
	diffPrev.PrevLedgerHash[0] = 0x03
	require.NotEqual(base.Hash(), diffPrev.Hash())

	diffTime := base
	diffTime.CloseTime = time.Unix(200, 0)
	require.NotEqual(base.Hash(), diffTime.Hash())
}

func TestValueIsZero(t *testing.T) {
	require := require.New(t)
	require.True(scptypes.Value{}.IsZero())

	v := scptypes.Value{CloseTime: time.Unix(1, 0)}
	require.False(v.IsZero())
}

func TestQuorumSetHashOrderSensitive(t *testing.T) {
	require := require.New(t)
	var a, b scptypes.NodeID
	a[0], b[0] = 1, 2

	ab := scptypes.QuorumSet{Threshold: 2, Members: []scptypes.Member{scptypes.NodeMember(a), scptypes.NodeMember(b)}}
	ba := scptypes.QuorumSet{Threshold: 2, Members: []scptypes.Member{scptypes.NodeMember(b), scptypes.NodeMember(a)}}

	require.NotEqual(ab.Hash(), ba.Hash(), "member order is part of a node's declared configuration")
}

func TestQuorumSetValid(t *testing.T) {
	require := require.New(t)
	var a scptypes.NodeID
	a[0] = 1

	require.True(scptypes.QuorumSet{Threshold: 1, Members: []scptypes.Member{scptypes.NodeMember(a)}}.Valid())
	require.False(scptypes.QuorumSet{Threshold: 0, Members: []scptypes.Member{scptypes.NodeMember(a)}}.Valid())
	require.False(scptypes.QuorumSet{Threshold: 2, Members: []scptypes.Member{scptypes.NodeMember(a)}}.Valid())
}

func TestStatementKeyAndCompatibleWith(t *testing.T) {
	require := require.New(t)
	var from scptypes.NodeID
	from[0] = 9

	v1 := scptypes.Value{CloseTime: time.Unix(1, 0)}
	v2 := scptypes.Value{CloseTime: time.Unix(2, 0)}

	s1 := scptypes.Statement{From: from, Kind: scptypes.KindPrepare, Ballot: scptypes.Ballot{Counter: 1, Value: v1}}
	s2 := scptypes.Statement{From: from, Kind: scptypes.KindPrepare, Ballot: scptypes.Ballot{Counter: 2, Value: v1}}
	s3 := scptypes.Statement{From: from, Kind: scptypes.KindConfirm, Ballot: scptypes.Ballot{Counter: 1, Value: v2}}

	require.Equal(s1.Key(), s2.Key(), "key is (from, kind), independent of ballot")
	require.NotEqual(s1.Key(), s3.Key())
	require.True(s1.CompatibleWith(s2))
	require.False(s1.CompatibleWith(s3))
}
