// Copyright (C) 2024-2026, The ledgerquorum Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package quorumset

import (
	"crypto/sha256"
	"sort"
	"sync"

	"github.com/ledgerquorum/scp-core/scptypes"
	"github.com/ledgerquorum/scp-core/set"
)

// Cache memoizes IsQuorum/IsVBlocking results keyed on (qsetHash,
// frozenNodeSetHash) for hot paths — the slot state machine re-evaluates
// these predicates on every statement arrival, often against an unchanged
// node set. A qsetHash's tree never mutates in place (registry.Registry
// only ever binds a hash to a tree once), so the only invalidation needed
// is a cap on cache size.
type Cache struct {
	mu       sync.Mutex
	cap      int
	order    []cacheKey
	quorum   map[cacheKey]bool
	vblocked map[cacheKey]bool
}

type cacheKey struct {
	qsetHash scptypes.Hash
	nodesKey scptypes.Hash
}

// NewCache returns a Cache bounded to at most capacity entries per
// predicate. A capacity of zero disables memoization (every call
// recomputes).
func NewCache(capacity int) *Cache {
	return &Cache{
		cap:      capacity,
		quorum:   make(map[cacheKey]bool),
		vblocked: make(map[cacheKey]bool),
	}
}

func nodeSetKey(nodes set.Set[scptypes.NodeID]) scptypes.Hash {
	ids := nodes.List()
	sort.Slice(ids, func(i, j int) bool {
		return string(ids[i][:]) < string(ids[j][:])
	})
	h := sha256.New()
	for _, id := range ids {
		h.Write(id[:])
	}
	var out scptypes.Hash
	copy(out[:], h.Sum(nil))
	return out
}

// IsQuorum is IsQuorum with memoization on (qsetHash, nodes).
func (c *Cache) IsQuorum(qs scptypes.QuorumSet, qsetHash scptypes.Hash, nodes set.Set[scptypes.NodeID], self scptypes.NodeID) bool {
	if c == nil || c.cap == 0 {
		return IsQuorum(qs, nodes, self)
	}
	key := cacheKey{qsetHash: qsetHash, nodesKey: nodeSetKey(nodes)}
	c.mu.Lock()
	if v, ok := c.quorum[key]; ok {
		c.mu.Unlock()
		return v
	}
	c.mu.Unlock()

	result := IsQuorum(qs, nodes, self)

	c.mu.Lock()
	c.store(c.quorum, key, result)
	c.mu.Unlock()
	return result
}

// IsVBlocking is IsVBlocking with memoization on (qsetHash, nodes).
func (c *Cache) IsVBlocking(qs scptypes.QuorumSet, qsetHash scptypes.Hash, nodes set.Set[scptypes.NodeID]) bool {
	if c == nil || c.cap == 0 {
		return IsVBlocking(qs, nodes)
	}
	key := cacheKey{qsetHash: qsetHash, nodesKey: nodeSetKey(nodes)}
	c.mu.Lock()
	if v, ok := c.vblocked[key]; ok {
		c.mu.Unlock()
		return v
	}
	c.mu.Unlock()

	result := IsVBlocking(qs, nodes)

	c.mu.Lock()
	c.store(c.vblocked, key, result)
	c.mu.Unlock()
	return result
}

// store must be called with c.mu held.
func (c *Cache) store(m map[cacheKey]bool, key cacheKey, v bool) {
	if _, ok := m[key]; ok {
		m[key] = v
		return
	}
	if len(c.order) >= c.cap {
		oldest := c.order[0]
		c.order = c.order[1:]
		delete(c.quorum, oldest)
		delete(c.vblocked, oldest)
	}
	c.order = append(c.order, key)
	m[key] = v
}
