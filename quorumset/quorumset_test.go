// Copyright (C) 2024-2026, The ledgerquorum Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package quorumset_test

import (
	"testing"

	"github.com/luxfi/ids"
	"github.com/stretchr/testify/require"

	"github.com/ledgerquorum/scp-core/quorumset"
	"github.com/ledgerquorum/scp-core/scptypes"
	"github.com/ledgerquorum/scp-core/set"
)

func node(b byte) scptypes.NodeID {
	var id scptypes.NodeID
	id[0] = b
	return id
}

func TestIsQuorumSingleNode(t *testing.T) {
	require := require.New(t)

	a := node(1)
	qs := scptypes.QuorumSet{Threshold: 1, Members: []scptypes.Member{scptypes.NodeMember(a)}}

	require.True(quorumset.IsQuorum(qs, set.Of(a), a))
	require.False(quorumset.IsQuorum(qs, set.Of[scptypes.NodeID](), a))
}

func TestIsQuorumThreeNodes(t *testing.T) {
	require := require.New(t)

	a, b, c := node(1), node(2), node(3)
	qs := scptypes.QuorumSet{
		Threshold: 2,
		Members:   []scptypes.Member{scptypes.NodeMember(a), scptypes.NodeMember(b), scptypes.NodeMember(c)},
	}

	require.True(quorumset.IsQuorum(qs, set.Of(a, b), a))
	require.True(quorumset.IsQuorum(qs, set.Of(a, c), a))
	require.False(quorumset.IsQuorum(qs, set.Of(a), a))
	require.False(quorumset.IsQuorum(qs, set.Of(b, c), a), "a must be present for a quorum from a's perspective")
}

func TestIsQuorumNestedSet(t *testing.T) {
	require := require.New(t)

	a, b, c, d := node(1), node(2), node(3), node(4)
	inner := scptypes.QuorumSet{Threshold: 2, Members: []scptypes.Member{scptypes.NodeMember(c), scptypes.NodeMember(d)}}
	outer := scptypes.QuorumSet{
		Threshold: 2,
		Members:   []scptypes.Member{scptypes.NodeMember(a), scptypes.NodeMember(b), scptypes.NestedMember(inner)},
	}

	require.True(quorumset.IsQuorum(outer, set.Of(a, c, d), a), "a plus the fully-satisfied nested slice forms a quorum")
	require.False(quorumset.IsQuorum(outer, set.Of(a, c), a), "nested slice needs both c and d")
}

func TestIsVBlocking(t *testing.T) {
	require := require.New(t)

	a, b, c := node(1), node(2), node(3)
	qs := scptypes.QuorumSet{
		Threshold: 2,
		Members:   []scptypes.Member{scptypes.NodeMember(a), scptypes.NodeMember(b), scptypes.NodeMember(c)},
	}

	// k = 3 - 2 + 1 = 2: any two members block every slice.
	require.True(quorumset.IsVBlocking(qs, set.Of(b, c)))
	require.False(quorumset.IsVBlocking(qs, set.Of(b)))
}

func TestIsVBlockingUnresolvedNestedSetNeverSatisfies(t *testing.T) {
	require := require.New(t)

	a, b := node(1), node(2)
	qs := scptypes.QuorumSet{
		Threshold: 2,
		Members: []scptypes.Member{
			scptypes.NodeMember(a),
			scptypes.NodeMember(b),
			{IsNested: true, Nested: nil}, // unresolved qset reference
		},
	}

	// k = 3 - 2 + 1 = 2. The unresolved member can never count toward
	// blocking, so two concrete members are required.
	require.True(quorumset.IsVBlocking(qs, set.Of(a, b)))
	require.False(quorumset.IsVBlocking(qs, set.Of(a)))
}

func TestCacheAgreesWithPureFunctions(t *testing.T) {
	require := require.New(t)

	a, b, c := node(1), node(2), node(3)
	qs := scptypes.QuorumSet{
		Threshold: 2,
		Members:   []scptypes.Member{scptypes.NodeMember(a), scptypes.NodeMember(b), scptypes.NodeMember(c)},
	}
	hash := qs.Hash()
	cache := quorumset.NewCache(16)

	nodes := set.Of(a, b)
	require.Equal(quorumset.IsQuorum(qs, nodes, a), cache.IsQuorum(qs, hash, nodes, a))
	require.Equal(quorumset.IsVBlocking(qs, set.Of(b, c)), cache.IsVBlocking(qs, hash, set.Of(b, c)))

	// Second call hits the cache and must still agree.
	require.Equal(quorumset.IsQuorum(qs, nodes, a), cache.IsQuorum(qs, hash, nodes, a))
}

func TestEmptyNodeID(t *testing.T) {
	require.NotEqual(t, ids.Empty, node(1))
}
