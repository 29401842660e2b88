// Copyright (C) 2024-2026, The ledgerquorum Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package pending implements the pending-statement queues (spec
// component C5): statements whose prerequisites — an unresolved
// quorum-set hash, an unknown transaction set, or a future slot index —
// are missing get parked here and are re-delivered exactly once when the
// prerequisite arrives.
//
// Statements live in a central arena keyed by a monotonically assigned
// id (spec §9's "pending-statement multimembership" design note); the
// three queues below hold only ids, so releasing a statement removes it
// from every queue it was filed under in one step.
package pending

import (
	"time"

	"github.com/ledgerquorum/scp-core/scptypes"
)

// Prereq names one missing prerequisite a parked statement is waiting
// on. A statement may carry more than one simultaneously.
type Prereq struct {
	AwaitingTxSet     bool
	TxSetHash         scptypes.Hash
	AwaitingQuorumSet bool
	QSetHash          scptypes.Hash
	AwaitingSlot      bool
	SlotIndex         uint64
}

// Any reports whether at least one prerequisite is set.
func (p Prereq) Any() bool {
	return p.AwaitingTxSet || p.AwaitingQuorumSet || p.AwaitingSlot
}

type entry struct {
	id       uint64
	stmt     scptypes.Statement
	prereq   Prereq
	parkedAt time.Time
}

// Limits bounds queue growth to defend against memory exhaustion from a
// peer flooding statements with unresolvable prerequisites.
type Limits struct {
	PerKeyCap int           // max entries queued under a single hash/slot key
	TotalCap  int           // max entries across all queues combined
	TTL       time.Duration // entries older than TTL are dropped on sweep
}

// DefaultLimits mirrors the reference values named in spec.md §6.
func DefaultLimits() Limits {
	return Limits{PerKeyCap: 64, TotalCap: 4096, TTL: 60 * time.Second}
}

// Queues holds the three keyed multimaps plus the shared arena.
type Queues struct {
	limits Limits
	nextID uint64

	arena map[uint64]*entry

	byTxSet      map[scptypes.Hash][]uint64
	byQuorumSet  map[scptypes.Hash][]uint64
	byFutureSlot map[uint64][]uint64

	// total is an ordered list of every live id, used for TTL sweeps and
	// oldest-first eviction on overflow.
	total []uint64
}

// New returns an empty Queues bounded by limits.
func New(limits Limits) *Queues {
	return &Queues{
		limits:       limits,
		arena:        make(map[uint64]*entry),
		byTxSet:      make(map[scptypes.Hash][]uint64),
		byQuorumSet:  make(map[scptypes.Hash][]uint64),
		byFutureSlot: make(map[uint64][]uint64),
	}
}

// Park files stmt under every prerequisite named in p, evicting the
// oldest global entry first if the queues are at capacity. It returns
// the arena id assigned.
func (q *Queues) Park(stmt scptypes.Statement, p Prereq, now time.Time) uint64 {
	q.sweepExpired(now)
	if len(q.total) >= q.limits.TotalCap && len(q.total) > 0 {
		q.evict(q.total[0])
	}

	q.nextID++
	id := q.nextID
	e := &entry{id: id, stmt: stmt, prereq: p, parkedAt: now}
	q.arena[id] = e
	q.total = append(q.total, id)

	if p.AwaitingTxSet {
		appendCapped(q, q.byTxSet, p.TxSetHash, id)
	}
	if p.AwaitingQuorumSet {
		appendCapped(q, q.byQuorumSet, p.QSetHash, id)
	}
	if p.AwaitingSlot {
		appendCapped(q, q.byFutureSlot, p.SlotIndex, id)
	}
	return id
}

// appendCapped appends id to m[key], evicting the oldest entry under key
// first if the per-key cap has been reached.
func appendCapped[K comparable](q *Queues, m map[K][]uint64, key K, id uint64) {
	list := m[key]
	if len(list) >= q.limits.PerKeyCap && len(list) > 0 {
		q.evict(list[0])
		list = m[key]
	}
	m[key] = append(list, id)
}

// evict removes id from the arena and every queue list it appears in.
func (q *Queues) evict(id uint64) {
	e, ok := q.arena[id]
	if !ok {
		return
	}
	delete(q.arena, id)
	q.total = removeID(q.total, id)
	if e.prereq.AwaitingTxSet {
		q.byTxSet[e.prereq.TxSetHash] = removeID(q.byTxSet[e.prereq.TxSetHash], id)
		if len(q.byTxSet[e.prereq.TxSetHash]) == 0 {
			delete(q.byTxSet, e.prereq.TxSetHash)
		}
	}
	if e.prereq.AwaitingQuorumSet {
		q.byQuorumSet[e.prereq.QSetHash] = removeID(q.byQuorumSet[e.prereq.QSetHash], id)
		if len(q.byQuorumSet[e.prereq.QSetHash]) == 0 {
			delete(q.byQuorumSet, e.prereq.QSetHash)
		}
	}
	if e.prereq.AwaitingSlot {
		q.byFutureSlot[e.prereq.SlotIndex] = removeID(q.byFutureSlot[e.prereq.SlotIndex], id)
		if len(q.byFutureSlot[e.prereq.SlotIndex]) == 0 {
			delete(q.byFutureSlot, e.prereq.SlotIndex)
		}
	}
}

func removeID(list []uint64, id uint64) []uint64 {
	for i, v := range list {
		if v == id {
			return append(list[:i], list[i+1:]...)
		}
	}
	return list
}

func (q *Queues) sweepExpired(now time.Time) {
	if q.limits.TTL <= 0 {
		return
	}
	cutoff := now.Add(-q.limits.TTL)
	for _, id := range append([]uint64(nil), q.total...) {
		e, ok := q.arena[id]
		if ok && e.parkedAt.Before(cutoff) {
			q.evict(id)
		}
	}
}

// ReleaseTxSet removes and returns every statement parked on txSetHash,
// so the caller can re-submit them to the orchestrator. Each statement is
// removed from every queue it was filed under, so a statement pending on
// multiple prerequisites is released once overall, on the first of them to
// be released, and cannot be double-delivered if the same hash is
// announced twice.
func (q *Queues) ReleaseTxSet(txSetHash scptypes.Hash) []scptypes.Statement {
	ids := append([]uint64(nil), q.byTxSet[txSetHash]...)
	return q.releaseIDs(ids)
}

// ReleaseQuorumSet removes and returns every statement parked on
// qsetHash.
func (q *Queues) ReleaseQuorumSet(qsetHash scptypes.Hash) []scptypes.Statement {
	ids := append([]uint64(nil), q.byQuorumSet[qsetHash]...)
	return q.releaseIDs(ids)
}

// ReleaseSlot removes and returns every statement parked awaiting
// slotIndex.
func (q *Queues) ReleaseSlot(slotIndex uint64) []scptypes.Statement {
	ids := append([]uint64(nil), q.byFutureSlot[slotIndex]...)
	return q.releaseIDs(ids)
}

func (q *Queues) releaseIDs(ids []uint64) []scptypes.Statement {
	out := make([]scptypes.Statement, 0, len(ids))
	for _, id := range ids {
		e, ok := q.arena[id]
		if !ok {
			continue // already released via another prerequisite
		}
		out = append(out, e.stmt)
		q.evict(id)
	}
	return out
}

// Len returns the total number of parked statements.
func (q *Queues) Len() int {
	return len(q.arena)
}
