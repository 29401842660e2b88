// Copyright (C) 2024-2026, The ledgerquorum Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package quorumset implements the quorum algebra (spec component C1):
// given a quorum-set tree, answer whether a candidate node set is a
// quorum containing a given perspective node, or whether it is
// v-blocking for that node. Both predicates are pure functions of the
// QuorumSet tree and the candidate set; missing nested sets (an
// unresolved qsetHash) are treated as "does not satisfy" for that branch.
package quorumset

import (
	"github.com/ledgerquorum/scp-core/scptypes"
	"github.com/ledgerquorum/scp-core/set"
)

// IsQuorum reports whether nodes is a quorum containing self, given
// self's quorum set qs: self must be a member of nodes, and qs's
// recursive threshold predicate must hold against nodes.
func IsQuorum(qs scptypes.QuorumSet, nodes set.Set[scptypes.NodeID], self scptypes.NodeID) bool {
	if !nodes.Contains(self) {
		return false
	}
	return satisfies(qs, nodes)
}

// satisfies reports whether at least qs.Threshold of qs.Members are each
// individually satisfied by nodes: a NodeID member is satisfied iff it is
// present in nodes; a nested member is satisfied iff nodes recursively
// satisfies it.
func satisfies(qs scptypes.QuorumSet, nodes set.Set[scptypes.NodeID]) bool {
	if qs.Threshold <= 0 {
		return false
	}
	count := 0
	for _, m := range qs.Members {
		if memberSatisfied(m, nodes) {
			count++
			if count >= qs.Threshold {
				return true
			}
		}
	}
	return false
}

func memberSatisfied(m scptypes.Member, nodes set.Set[scptypes.NodeID]) bool {
	if m.IsNested {
		if m.Nested == nil {
			return false
		}
		return satisfies(*m.Nested, nodes)
	}
	return nodes.Contains(m.Node)
}

// IsVBlocking reports whether nodes is v-blocking for a replica whose
// quorum set is qs: for every quorum slice of qs, at least one member is
// in nodes. Equivalently, with k = |members| - threshold + 1, at least k
// members are either in nodes or are themselves v-blocked by nodes.
func IsVBlocking(qs scptypes.QuorumSet, nodes set.Set[scptypes.NodeID]) bool {
	return vBlocks(qs, nodes)
}

func vBlocks(qs scptypes.QuorumSet, nodes set.Set[scptypes.NodeID]) bool {
	n := len(qs.Members)
	if n == 0 {
		return false
	}
	k := n - qs.Threshold + 1
	if k <= 0 {
		return true
	}
	count := 0
	for _, m := range qs.Members {
		if memberBlocked(m, nodes) {
			count++
			if count >= k {
				return true
			}
		}
	}
	return false
}

func memberBlocked(m scptypes.Member, nodes set.Set[scptypes.NodeID]) bool {
	if m.IsNested {
		if m.Nested == nil {
			return false
		}
		return vBlocks(*m.Nested, nodes)
	}
	return nodes.Contains(m.Node)
}
