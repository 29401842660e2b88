// Copyright (C) 2024-2026, The ledgerquorum Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package scptypes

import (
	"crypto/sha256"
	"encoding/binary"
	"io"
)

// Hash returns the canonical digest of qs, used as its stable identity
// (the qsetHash carried on every statement). The encoding is a simple
// length-prefixed recursive serialization: it need not be minimal, only
// stable and order-sensitive, since member order is part of a node's
// declared configuration.
func (qs QuorumSet) Hash() Hash {
	h := sha256.New()
	writeQuorumSet(h, qs)
	var out Hash
	copy(out[:], h.Sum(nil))
	return out
}

func writeQuorumSet(h io.Writer, qs QuorumSet) {
	var hdr [8]byte
	binary.BigEndian.PutUint32(hdr[0:4], uint32(qs.Threshold))
	binary.BigEndian.PutUint32(hdr[4:8], uint32(len(qs.Members)))
	h.Write(hdr[:])
	for _, m := range qs.Members {
		if m.IsNested {
			h.Write([]byte{1})
			writeQuorumSet(h, *m.Nested)
		} else {
			h.Write([]byte{0})
			h.Write(m.Node[:])
		}
	}
}
