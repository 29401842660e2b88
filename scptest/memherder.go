// Copyright (C) 2024-2026, The ledgerquorum Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package scptest provides in-memory test doubles for the C9 shims
// (herder, ledgerclose, overlay), grounded on the teacher's root-level
// TestNetwork harness pattern: a small set of in-process fakes wired
// directly to each other instead of a real transport, letting tests
// drive many replicas through a single goroutine and a shared virtual
// clock.
package scptest

import (
	"sync"

	"github.com/ledgerquorum/scp-core/scptypes"
)

// MemHerder is a Herder backed by an in-memory map of known transaction
// sets, with one value pre-registered as "the next proposal."
type MemHerder struct {
	mu      sync.Mutex
	known   map[scptypes.Hash]bool
	next    scptypes.Value
	hasNext bool
	ready   []func(scptypes.Hash)
}

// NewMemHerder returns a MemHerder with no known transaction sets and no
// proposal.
func NewMemHerder() *MemHerder {
	return &MemHerder{known: make(map[scptypes.Hash]bool)}
}

// Propose sets the value CurrentTxSet returns and marks its transaction
// set as known.
func (m *MemHerder) Propose(v scptypes.Value) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.next = v
	m.hasNext = true
	m.known[v.TxSetHash] = true
}

// Learn marks hash as locally available and fires any OnTxSetReady
// callbacks registered for it.
func (m *MemHerder) Learn(hash scptypes.Hash) {
	m.mu.Lock()
	m.known[hash] = true
	callbacks := append([]func(scptypes.Hash){}, m.ready...)
	m.mu.Unlock()
	for _, f := range callbacks {
		f(hash)
	}
}

// CurrentTxSet implements herder.Herder.
func (m *MemHerder) CurrentTxSet() (scptypes.Hash, scptypes.Value, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.hasNext {
		return scptypes.ZeroHash, scptypes.Value{}, false
	}
	return m.next.TxSetHash, m.next, true
}

// HasTxSet implements herder.Herder.
func (m *MemHerder) HasTxSet(hash scptypes.Hash) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.known[hash]
}

// OnTxSetReady implements herder.ReadyNotifier.
func (m *MemHerder) OnTxSetReady(f func(hash scptypes.Hash)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ready = append(m.ready, f)
}
