// Copyright (C) 2024-2026, The ledgerquorum Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package wire implements the canonical, bit-exact binary encoding of a
// Statement (spec §6). Every field is written in a fixed order and
// width so that two replicas computing a signature over the same
// statement always hash identical bytes — a JSON or map-based encoding
// cannot give that guarantee because field order and float/int
// formatting are not byte-stable across encoders. This is a deliberate
// divergence from the in-memory/debug codec style used elsewhere in the
// module: wire encoding exists solely to feed Ed25519 signing and
// verification, not for human-readable logs or config files.
package wire

import (
	"crypto/ed25519"
	"encoding/binary"
	"time"

	"github.com/ledgerquorum/scp-core/overlay"
	"github.com/ledgerquorum/scp-core/scptypes"
)

const (
	tagNoBallot byte = 0
	tagBallot   byte = 1
)

// EncodeStatement returns the canonical byte representation of stmt,
// with networkPassphrase mixed in as a domain separator so that a
// statement signed for one network can never verify on another.
func EncodeStatement(networkPassphrase string, stmt scptypes.Statement) []byte {
	buf := make([]byte, 0, 256)
	buf = appendUint32(buf, uint32(len(networkPassphrase)))
	buf = append(buf, networkPassphrase...)

	var slotBuf [8]byte
	binary.BigEndian.PutUint64(slotBuf[:], stmt.SlotIndex)
	buf = append(buf, slotBuf[:]...)

	buf = append(buf, stmt.From[:]...)
	buf = append(buf, stmt.QSetHash[:]...)
	buf = append(buf, byte(stmt.Kind))

	buf = appendBallot(buf, stmt.Ballot)
	buf = appendOptionalBallot(buf, stmt.Prepared)
	buf = appendOptionalBallot(buf, stmt.PreparedPrime)

	buf = appendUint32(buf, stmt.CommitLow)
	buf = appendUint32(buf, stmt.CommitHigh)
	return buf
}

func appendUint32(buf []byte, v uint32) []byte {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	return append(buf, b[:]...)
}

func appendValue(buf []byte, v scptypes.Value) []byte {
	buf = append(buf, v.PrevLedgerHash[:]...)
	buf = append(buf, v.TxSetHash[:]...)
	var t [8]byte
	binary.BigEndian.PutUint64(t[:], uint64(v.CloseTime.Unix()))
	return append(buf, t[:]...)
}

func appendBallot(buf []byte, b scptypes.Ballot) []byte {
	buf = appendUint32(buf, b.Counter)
	return appendValue(buf, b.Value)
}

func appendOptionalBallot(buf []byte, b *scptypes.Ballot) []byte {
	if b == nil {
		return append(buf, tagNoBallot)
	}
	buf = append(buf, tagBallot)
	return appendBallot(buf, *b)
}

// DecodeStatement parses bytes produced by EncodeStatement. It exists
// primarily for symmetry and tests; on the wire the orchestrator only
// ever needs to re-derive these bytes to verify a signature, since the
// Statement itself travels as a separate structured payload (spec §6
// leaves the outer transport envelope to the overlay shim).
func DecodeStatement(data []byte) (networkPassphrase string, stmt scptypes.Statement, err error) {
	r := &reader{data: data}
	plen := r.uint32()
	networkPassphrase = string(r.bytes(int(plen)))

	stmt.SlotIndex = r.uint64()
	copy(stmt.From[:], r.bytes(32))
	copy(stmt.QSetHash[:], r.bytes(32))
	stmt.Kind = scptypes.StatementKind(r.byte())

	stmt.Ballot = r.ballot()
	stmt.Prepared = r.optionalBallot()
	stmt.PreparedPrime = r.optionalBallot()
	stmt.CommitLow = r.uint32()
	stmt.CommitHigh = r.uint32()

	if r.err != nil {
		return "", scptypes.Statement{}, r.err
	}
	return networkPassphrase, stmt, nil
}

type reader struct {
	data []byte
	pos  int
	err  error
}

func (r *reader) need(n int) []byte {
	if r.err != nil || r.pos+n > len(r.data) {
		if r.err == nil {
			r.err = errTruncated
		}
		return make([]byte, n)
	}
	b := r.data[r.pos : r.pos+n]
	r.pos += n
	return b
}

func (r *reader) bytes(n int) []byte { return r.need(n) }
func (r *reader) byte() byte         { return r.need(1)[0] }
func (r *reader) uint32() uint32     { return binary.BigEndian.Uint32(r.need(4)) }
func (r *reader) uint64() uint64     { return binary.BigEndian.Uint64(r.need(8)) }

func (r *reader) ballot() scptypes.Ballot {
	var b scptypes.Ballot
	b.Counter = r.uint32()
	copy(b.Value.PrevLedgerHash[:], r.bytes(32))
	copy(b.Value.TxSetHash[:], r.bytes(32))
	b.Value.CloseTime = time.Unix(int64(r.uint64()), 0).UTC()
	return b
}

func (r *reader) optionalBallot() *scptypes.Ballot {
	tag := r.byte()
	if tag == tagNoBallot {
		return nil
	}
	b := r.ballot()
	return &b
}

var errTruncated = truncatedError{}

type truncatedError struct{}

func (truncatedError) Error() string { return "wire: truncated statement" }

// Sign returns a SignedStatement over stmt, domain-separated by
// networkPassphrase.
func Sign(networkPassphrase string, key ed25519.PrivateKey, stmt scptypes.Statement) overlay.SignedStatement {
	sig := ed25519.Sign(key, EncodeStatement(networkPassphrase, stmt))
	return overlay.SignedStatement{Statement: stmt, Signature: sig}
}

// Verify reports whether signed carries a valid signature from pub under
// networkPassphrase.
func Verify(networkPassphrase string, pub ed25519.PublicKey, signed overlay.SignedStatement) bool {
	return ed25519.Verify(pub, EncodeStatement(networkPassphrase, signed.Statement), signed.Signature)
}
