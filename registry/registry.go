// Copyright (C) 2024-2026, The ledgerquorum Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package registry implements the node registry (spec component C3): it
// remembers every peer seen this round and the quorum set each advertises,
// and resolves quorum-set references by hash. Shape is grounded on the
// teacher's validators package (a manager keyed by ID, with a change-
// listener callback list) generalized from stake-weighted validator sets
// to quorum-set-bearing peer records.
package registry

import (
	"sync"

	"github.com/ledgerquorum/scp-core/scptypes"
)

// FetchState tracks whether a quorum-set hash is unknown, being fetched,
// or resolved. Distinguishing "fetching" from "unknown" lets callers
// avoid triggering duplicate overlay fetch requests for the same hash —
// recovered from original_source's FBAMaster quorum-set cache, which
// keeps the same three-state shape rather than collapsing pending and
// unknown into a single "don't have it" state.
type FetchState int

const (
	Unknown FetchState = iota
	Fetching
	Resolved
)

// Node is a participant as seen by this replica: its identity, the hash
// of the quorum set it advertises, and — once resolved — the quorum set
// itself.
type Node struct {
	ID       scptypes.NodeID
	QSetHash scptypes.Hash
	QSet     *scptypes.QuorumSet // nil until resolved
}

// ChangeListener is notified whenever a quorum-set hash transitions to
// Resolved. Component C5 (pending queues) registers itself here to
// release statements that were waiting on the hash.
type ChangeListener func(qsetHash scptypes.Hash, qs scptypes.QuorumSet)

// Registry maps NodeID to Node and resolves quorum-set hashes.
type Registry struct {
	mu        sync.RWMutex
	nodes     map[scptypes.NodeID]*Node
	qsets     map[scptypes.Hash]*scptypes.QuorumSet
	states    map[scptypes.Hash]FetchState
	listeners []ChangeListener
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{
		nodes:  make(map[scptypes.NodeID]*Node),
		qsets:  make(map[scptypes.Hash]*scptypes.QuorumSet),
		states: make(map[scptypes.Hash]FetchState),
	}
}

// OnQuorumSetResolved registers a listener invoked whenever BindQuorumSet
// resolves a new hash.
func (r *Registry) OnQuorumSetResolved(l ChangeListener) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.listeners = append(r.listeners, l)
}

// Observe inserts a Node for id if absent, recording the qsetHash it
// advertises. It returns the node and whether this is the hash's first
// sighting. If the hash is already resolved, Node.QSet is populated
// immediately.
func (r *Registry) Observe(id scptypes.NodeID, qsetHash scptypes.Hash) (*Node, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	firstSighting := false
	if _, ok := r.states[qsetHash]; !ok {
		r.states[qsetHash] = Unknown
		firstSighting = true
	}

	n, ok := r.nodes[id]
	if !ok {
		n = &Node{ID: id, QSetHash: qsetHash}
		r.nodes[id] = n
	} else if n.QSetHash != qsetHash {
		// Peer re-advertised a different quorum set; track the latest.
		n.QSetHash = qsetHash
		n.QSet = nil
	}
	if qs, ok := r.qsets[qsetHash]; ok {
		n.QSet = qs
	}
	return n, firstSighting
}

// MarkFetching records that an asynchronous fetch for qsetHash is in
// flight, so callers (the overlay shim) can avoid issuing a duplicate
// request. It is a no-op if the hash is already resolved.
func (r *Registry) MarkFetching(qsetHash scptypes.Hash) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.states[qsetHash] == Resolved {
		return
	}
	r.states[qsetHash] = Fetching
}

// State reports the current fetch state of qsetHash.
func (r *Registry) State(qsetHash scptypes.Hash) FetchState {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.states[qsetHash]
}

// BindQuorumSet stores the resolved tree for qsetHash and notifies every
// registered listener so pending statements keyed on it can be released.
// Binding the same hash twice is idempotent.
func (r *Registry) BindQuorumSet(qsetHash scptypes.Hash, qs scptypes.QuorumSet) error {
	if !qs.Valid() {
		return ErrInvalidQuorumSet
	}

	r.mu.Lock()
	if _, already := r.qsets[qsetHash]; already {
		r.mu.Unlock()
		return nil
	}
	stored := qs
	r.qsets[qsetHash] = &stored
	r.states[qsetHash] = Resolved
	for _, n := range r.nodes {
		if n.QSetHash == qsetHash {
			n.QSet = &stored
		}
	}
	listeners := append([]ChangeListener(nil), r.listeners...)
	r.mu.Unlock()

	for _, l := range listeners {
		l(qsetHash, stored)
	}
	return nil
}

// Resolve returns the quorum set bound to qsetHash, if any.
func (r *Registry) Resolve(qsetHash scptypes.Hash) (scptypes.QuorumSet, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	qs, ok := r.qsets[qsetHash]
	if !ok {
		return scptypes.QuorumSet{}, false
	}
	return *qs, true
}

// Get returns the Node record for id, if any.
func (r *Registry) Get(id scptypes.NodeID) (Node, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	n, ok := r.nodes[id]
	if !ok {
		return Node{}, false
	}
	return *n, true
}

// Len returns the number of distinct peers observed.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.nodes)
}
