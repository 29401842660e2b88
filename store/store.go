// Copyright (C) 2024-2026, The ledgerquorum Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package store implements the per-slot statement store (spec component
// C4): it holds the latest statement of each kind from each peer and
// answers the aggregation queries the slot state machine needs to decide
// whether a quorum or a v-blocking set has voted a particular way.
package store

import (
	"github.com/ledgerquorum/scp-core/ballot"
	"github.com/ledgerquorum/scp-core/scptypes"
	"github.com/ledgerquorum/scp-core/set"
)

// Store holds one slot's worth of statements. It is not safe for
// concurrent use; callers serialize access through the event loop, per
// the core's single-threaded concurrency model.
type Store struct {
	latest map[scptypes.Key]scptypes.Statement
}

// New returns an empty Store.
func New() *Store {
	return &Store{latest: make(map[scptypes.Key]scptypes.Statement)}
}

// Insert applies the monotone insert policy: s replaces any existing
// statement with the same (From, Kind) key only if s's ballot strictly
// exceeds the stored one. It reports whether s was accepted.
func (s *Store) Insert(stmt scptypes.Statement) bool {
	key := stmt.Key()
	existing, ok := s.latest[key]
	if ok && ballot.Compare(stmt.Ballot, existing.Ballot) <= 0 {
		return false
	}
	s.latest[key] = stmt
	return true
}

// Get returns the latest statement stored for (from, kind).
func (s *Store) Get(from scptypes.NodeID, kind scptypes.StatementKind) (scptypes.Statement, bool) {
	stmt, ok := s.latest[scptypes.Key{From: from, Kind: kind}]
	return stmt, ok
}

// Len returns the number of distinct (from, kind) entries stored.
func (s *Store) Len() int {
	return len(s.latest)
}

// All returns every stored statement. Order is non-deterministic.
func (s *Store) All() []scptypes.Statement {
	out := make([]scptypes.Statement, 0, len(s.latest))
	for _, stmt := range s.latest {
		out = append(out, stmt)
	}
	return out
}

// VotersFor returns the set of distinct senders with at least one stored
// statement (of any kind) matching predicate.
func (s *Store) VotersFor(predicate func(scptypes.Statement) bool) set.Set[scptypes.NodeID] {
	voters := set.Set[scptypes.NodeID]{}
	for _, stmt := range s.latest {
		if predicate(stmt) {
			voters.Add(stmt.From)
		}
	}
	return voters
}

// NodesThatPrepared returns the nodes that have voted to prepare a ballot
// compatible with and at least as high as b: either a stored PREPARE
// whose ballot qualifies, or a CONFIRM/EXTERNALIZE (which can only be
// reached after preparing a compatible ballot).
func (s *Store) NodesThatPrepared(b scptypes.Ballot) set.Set[scptypes.NodeID] {
	return s.VotersFor(func(stmt scptypes.Statement) bool {
		if !ballot.Compatible(stmt.Ballot, b) {
			return false
		}
		switch stmt.Kind {
		case scptypes.KindPrepare:
			return ballot.Compare(stmt.Ballot, b) >= 0
		case scptypes.KindConfirm, scptypes.KindExternalize:
			return true
		default:
			return false
		}
	})
}

// NodesThatConfirmed returns the nodes that have confirmed a ballot
// compatible with b: a stored CONFIRM whose commit range covers b's
// counter, or an EXTERNALIZE of a compatible value.
func (s *Store) NodesThatConfirmed(b scptypes.Ballot) set.Set[scptypes.NodeID] {
	return s.VotersFor(func(stmt scptypes.Statement) bool {
		if !ballot.Compatible(stmt.Ballot, b) {
			return false
		}
		switch stmt.Kind {
		case scptypes.KindConfirm:
			return stmt.CommitLow <= b.Counter && b.Counter <= stmt.CommitHigh
		case scptypes.KindExternalize:
			return true
		default:
			return false
		}
	})
}

// NodesCommitted returns the nodes that have externalized a value
// compatible with b.
func (s *Store) NodesCommitted(b scptypes.Ballot) set.Set[scptypes.NodeID] {
	return s.VotersFor(func(stmt scptypes.Statement) bool {
		return stmt.Kind == scptypes.KindExternalize && ballot.Compatible(stmt.Ballot, b)
	})
}
