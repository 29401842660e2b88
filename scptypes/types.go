// Copyright (C) 2024-2026, The ledgerquorum Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package scptypes holds the data model shared by every component of the
// consensus core: node and value identifiers, quorum sets, ballots, and
// statements. Components higher in the dependency graph (quorumset,
// ballot, registry, store, pending, slot, scp) operate on these types but
// never redefine them, so the wire format and the in-memory model always
// agree on shape.
package scptypes

import (
	"crypto/sha256"
	"encoding/binary"
	"time"

	"github.com/luxfi/ids"
)

// NodeID identifies a participant by its 256-bit public key. Equality and
// ordering are byte-lexicographic, which ids.ID already provides as a
// comparable [32]byte array.
type NodeID = ids.ID

// Hash is a 32-byte digest, used both for quorum-set identity and value
// identity.
type Hash = ids.ID

// ZeroHash is the empty/unset hash.
var ZeroHash = ids.Empty

// Value is the content a slot decides: a reference to the previous ledger's
// hash, the hash of the transaction set to apply, and a scheduled close
// time. The core never inspects these fields beyond hashing and comparing
// them; ledger-close semantics belong to the ledgerclose/herder shims.
type Value struct {
	PrevLedgerHash Hash
	TxSetHash      Hash
	CloseTime      time.Time
}

// Hash returns the canonical digest of v, used as its stable identity for
// ballot comparison and signature purposes.
func (v Value) Hash() Hash {
	var buf [32 + 32 + 8]byte
	copy(buf[0:32], v.PrevLedgerHash[:])
	copy(buf[32:64], v.TxSetHash[:])
	binary.BigEndian.PutUint64(buf[64:72], uint64(v.CloseTime.Unix()))
	digest := sha256.Sum256(buf[:])
	var h Hash
	copy(h[:], digest[:])
	return h
}

// Equal reports whether v and other hash identically.
func (v Value) Equal(other Value) bool {
	return v.Hash() == other.Hash()
}

// IsZero reports whether v is the unset value.
func (v Value) IsZero() bool {
	return v.PrevLedgerHash == ZeroHash && v.TxSetHash == ZeroHash && v.CloseTime.IsZero()
}
