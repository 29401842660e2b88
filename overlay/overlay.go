// Copyright (C) 2024-2026, The ledgerquorum Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package overlay defines the network overlay shim (spec component C9)
// the orchestrator uses to broadcast signed statements and to receive
// them from peers. Peer discovery, flow control and transport framing
// are out of this module's scope (spec.md §1 Non-goals) — only the
// narrow send/receive contract lives here.
package overlay

import "github.com/ledgerquorum/scp-core/scptypes"

// SignedStatement pairs a statement with the raw signature over its
// canonical wire encoding, as produced by the wire package.
type SignedStatement struct {
	Statement scptypes.Statement
	Signature []byte
}

// Overlay broadcasts signed statements to every connected peer and
// delivers inbound ones to a registered handler.
type Overlay interface {
	Broadcast(stmt SignedStatement)
	OnReceive(handler func(stmt SignedStatement))
}
