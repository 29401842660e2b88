// Copyright (C) 2024-2026, The ledgerquorum Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package scptest

import (
	"sync"

	"github.com/ledgerquorum/scp-core/scptypes"
)

// MemLedger is a ledgerclose.Engine backed by an in-memory map keyed by
// slot index, so Externalize is idempotent the way the real engine must
// be: redelivering the same slot's decision is a silent no-op.
type MemLedger struct {
	mu        sync.Mutex
	committed map[uint64]scptypes.Value
}

// NewMemLedger returns an empty MemLedger.
func NewMemLedger() *MemLedger {
	return &MemLedger{committed: make(map[uint64]scptypes.Value)}
}

// Externalize implements ledgerclose.Engine.
func (m *MemLedger) Externalize(slotIndex uint64, value scptypes.Value) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.committed[slotIndex]; ok {
		return nil
	}
	m.committed[slotIndex] = value
	return nil
}

// Get returns the value externalized for slotIndex, if any.
func (m *MemLedger) Get(slotIndex uint64) (scptypes.Value, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.committed[slotIndex]
	return v, ok
}

// Len returns the number of slots externalized so far.
func (m *MemLedger) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.committed)
}
