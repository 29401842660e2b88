// Copyright (C) 2024-2026, The ledgerquorum Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package scptest

import (
	"sync"

	"github.com/ledgerquorum/scp-core/overlay"
	"github.com/ledgerquorum/scp-core/scptypes"
)

// Network is a shared in-process broadcast medium for a fixed set of
// LoopbackOverlay peers, grounded on the teacher's root test_network.go
// pattern of wiring fake peers directly to each other rather than
// through a real socket.
type Network struct {
	mu      sync.Mutex
	peers   map[scptypes.NodeID]*LoopbackOverlay
	dropped map[scptypes.NodeID]bool // peers whose outbound/inbound traffic is cut, for partition scenarios
}

// NewNetwork returns an empty Network.
func NewNetwork() *Network {
	return &Network{peers: make(map[scptypes.NodeID]*LoopbackOverlay), dropped: make(map[scptypes.NodeID]bool)}
}

// Join registers id's overlay with the network and returns it.
func (n *Network) Join(id scptypes.NodeID) *LoopbackOverlay {
	n.mu.Lock()
	defer n.mu.Unlock()
	lo := &LoopbackOverlay{id: id, net: n}
	n.peers[id] = lo
	return lo
}

// Partition cuts id off from the rest of the network: its broadcasts are
// dropped and it receives nothing, until Heal is called.
func (n *Network) Partition(id scptypes.NodeID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.dropped[id] = true
}

// Heal reverses a prior Partition.
func (n *Network) Heal(id scptypes.NodeID) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.dropped, id)
}

func (n *Network) deliver(from scptypes.NodeID, signed overlay.SignedStatement) {
	n.mu.Lock()
	if n.dropped[from] {
		n.mu.Unlock()
		return
	}
	recipients := make([]*LoopbackOverlay, 0, len(n.peers))
	for id, peer := range n.peers {
		if id == from || n.dropped[id] {
			continue
		}
		recipients = append(recipients, peer)
	}
	n.mu.Unlock()

	for _, r := range recipients {
		r.inbound(signed)
	}
}

// LoopbackOverlay is an overlay.Overlay that delivers directly to every
// other peer joined on the same Network, synchronously.
type LoopbackOverlay struct {
	id      scptypes.NodeID
	net     *Network
	mu      sync.Mutex
	handler func(overlay.SignedStatement)
}

// Broadcast implements overlay.Overlay.
func (lo *LoopbackOverlay) Broadcast(signed overlay.SignedStatement) {
	lo.net.deliver(lo.id, signed)
}

// OnReceive implements overlay.Overlay.
func (lo *LoopbackOverlay) OnReceive(handler func(overlay.SignedStatement)) {
	lo.mu.Lock()
	defer lo.mu.Unlock()
	lo.handler = handler
}

func (lo *LoopbackOverlay) inbound(signed overlay.SignedStatement) {
	lo.mu.Lock()
	h := lo.handler
	lo.mu.Unlock()
	if h != nil {
		h(signed)
	}
}
