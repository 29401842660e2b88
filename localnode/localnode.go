// Copyright (C) 2024-2026, The ledgerquorum Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package localnode implements the local signer (spec component C7): the
// single place a replica turns a ballot-level decision into a signed
// Statement ready for broadcast. It is the only component allowed to
// produce statements attributed to this replica's own NodeID.
package localnode

import (
	"crypto/ed25519"

	"github.com/ledgerquorum/scp-core/overlay"
	"github.com/ledgerquorum/scp-core/scptypes"
	"github.com/ledgerquorum/scp-core/wire"
)

// LocalNode holds this replica's identity and validating status.
//
// A non-validating node (Validating == false) still runs the slot state
// machine to watch the network reach consensus, but Emit is a no-op for
// it: per Invariant 5 of the federated voting protocol, a non-validating
// node must never assert its own vote onto the wire.
type LocalNode struct {
	ID                scptypes.NodeID
	PrivateKey        ed25519.PrivateKey
	QSet              scptypes.QuorumSet
	QSetHash          scptypes.Hash
	Validating        bool
	NetworkPassphrase string
}

// New returns a LocalNode that signs statements with key under
// networkPassphrase's domain separation.
func New(id scptypes.NodeID, key ed25519.PrivateKey, qset scptypes.QuorumSet, qsetHash scptypes.Hash, validating bool, networkPassphrase string) *LocalNode {
	return &LocalNode{ID: id, PrivateKey: key, QSet: qset, QSetHash: qsetHash, Validating: validating, NetworkPassphrase: networkPassphrase}
}

// Emit stamps stmt with this node's identity and quorum-set hash, signs
// it, and returns the signed statement ready for broadcast. ok is false
// when this node is not validating, in which case the caller must not
// broadcast or record anything.
func (n *LocalNode) Emit(stmt scptypes.Statement) (signed overlay.SignedStatement, ok bool) {
	if !n.Validating {
		return overlay.SignedStatement{}, false
	}
	stmt.From = n.ID
	stmt.QSetHash = n.QSetHash
	return wire.Sign(n.NetworkPassphrase, n.PrivateKey, stmt), true
}
