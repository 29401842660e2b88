// Copyright (C) 2024-2026, The ledgerquorum Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package scptypes

// Ballot is a (counter, value) candidate within a slot. Counters only ever
// increase within a slot via bumps; a zero-counter ballot is the sentinel
// "no ballot chosen yet."
type Ballot struct {
	Counter uint32
	Value   Value
}

// IsZero reports whether b is the unset ballot.
func (b Ballot) IsZero() bool {
	return b.Counter == 0
}

// QuorumSet is a recursive threshold structure: a node satisfies a
// QuorumSet if at least Threshold of its Members are each individually
// satisfied (a NodeID member is satisfied iff it is present in the
// candidate set; a nested-set member is satisfied iff the candidate set
// recursively satisfies it).
type QuorumSet struct {
	Threshold int
	Members   []Member
}

// Member is a tagged union: exactly one of Node or Nested is set.
// A Member owns its nested QuorumSet by value — the tree has no cycles
// and no back-references; cross-node sharing of an identical QuorumSet is
// a lookup-table concern handled by the registry, not by this structure.
type Member struct {
	Node     NodeID
	IsNested bool
	Nested   *QuorumSet
}

// NodeMember builds a leaf member referencing a peer NodeID.
func NodeMember(id NodeID) Member {
	return Member{Node: id}
}

// NestedMember builds a member wrapping a nested QuorumSet.
func NestedMember(qs QuorumSet) Member {
	return Member{IsNested: true, Nested: &qs}
}

// Valid reports whether the quorum set satisfies the structural invariant
// 0 < threshold <= |members|, recursively, to a bounded nesting depth.
func (qs QuorumSet) Valid() bool {
	return qs.validAtDepth(0)
}

const maxQuorumSetDepth = 4

func (qs QuorumSet) validAtDepth(depth int) bool {
	if depth > maxQuorumSetDepth {
		return false
	}
	if qs.Threshold <= 0 || qs.Threshold > len(qs.Members) {
		return false
	}
	for _, m := range qs.Members {
		if m.IsNested {
			if m.Nested == nil || !m.Nested.validAtDepth(depth+1) {
				return false
			}
		}
	}
	return true
}
