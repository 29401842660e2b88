// Copyright (C) 2024-2026, The ledgerquorum Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package slot_test

import (
	"crypto/ed25519"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ledgerquorum/scp-core/clock"
	"github.com/ledgerquorum/scp-core/localnode"
	"github.com/ledgerquorum/scp-core/overlay"
	"github.com/ledgerquorum/scp-core/quorumset"
	"github.com/ledgerquorum/scp-core/scptypes"
	"github.com/ledgerquorum/scp-core/slot"
	"github.com/ledgerquorum/scp-core/store"
)

type replica struct {
	id   scptypes.NodeID
	slot *slot.Slot
}

func newReplica(t *testing.T, idByte byte, qset scptypes.QuorumSet, qsetHash scptypes.Hash, clk clock.Clock, onEmit func(overlay.SignedStatement)) *replica {
	t.Helper()
	_, priv, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)

	var id scptypes.NodeID
	id[0] = idByte
	local := localnode.New(id, priv, qset, qsetHash, true, "test network")

	st := store.New()
	qcache := quorumset.NewCache(64)

	onExt := func(scptypes.Value) error { return nil }

	s := slot.New(1, st, qcache, clk, local, 100*time.Millisecond, onEmit, onExt)
	return &replica{id: id, slot: s}
}

func TestSingleNodeQuorumCommits(t *testing.T) {
	require := require.New(t)
	clk := clock.NewVirtual(time.Unix(0, 0))

	var self scptypes.NodeID
	self[0] = 1
	qset := scptypes.QuorumSet{Threshold: 1, Members: []scptypes.Member{scptypes.NodeMember(self)}}
	qsetHash := qset.Hash()

	var delivered []overlay.SignedStatement
	onEmit := func(s overlay.SignedStatement) { delivered = append(delivered, s) }

	r := newReplica(t, 1, qset, qsetHash, clk, onEmit)

	v := scptypes.Value{CloseTime: time.Unix(1, 0)}
	v.TxSetHash[0] = 0x01
	r.slot.Start(v)

	require.Equal(slot.PhaseCommitted, r.slot.Phase, "a single node whose own vote meets its own threshold must commit immediately")
	got, ok := r.slot.Externalized()
	require.True(ok)
	require.True(got.Equal(v))
}

// TestBumpAdoptsTiedVBlockingEvidenceByLeastHash exercises checkBump
// directly: two peers' PREPARE statements at a strictly higher counter
// than this replica's own ballot, tied on counter but disagreeing on
// value, together form a v-blocking set for a 2-of-3 quorum. The replica
// must bump to that counter and adopt whichever value sorts first by
// hash, rather than keeping its own value or refusing to move.
func TestBumpAdoptsTiedVBlockingEvidenceByLeastHash(t *testing.T) {
	require := require.New(t)
	clk := clock.NewVirtual(time.Unix(0, 0))

	var a, b, c scptypes.NodeID
	a[0], b[0], c[0] = 1, 2, 3
	qset := scptypes.QuorumSet{Threshold: 2, Members: []scptypes.Member{
		scptypes.NodeMember(a), scptypes.NodeMember(b), scptypes.NodeMember(c),
	}}
	qsetHash := qset.Hash()

	var emitted []scptypes.Statement
	onEmit := func(s overlay.SignedStatement) { emitted = append(emitted, s.Statement) }

	rc := newReplica(t, 3, qset, qsetHash, clk, onEmit)

	own := scptypes.Value{CloseTime: time.Unix(3, 0)}
	own.TxSetHash[0] = 0x03
	rc.slot.Start(own)
	emitted = nil

	va := scptypes.Value{CloseTime: time.Unix(11, 0)}
	va.TxSetHash[0] = 0x0a
	vb := scptypes.Value{CloseTime: time.Unix(22, 0)}
	vb.TxSetHash[0] = 0x0b

	winner := va
	if lessHash(vb, va) {
		winner = vb
	}

	rc.slot.ReceiveStatement(scptypes.Statement{
		SlotIndex: 1, From: a, QSetHash: qsetHash,
		Kind: scptypes.KindPrepare, Ballot: scptypes.Ballot{Counter: 2, Value: va},
	})
	rc.slot.ReceiveStatement(scptypes.Statement{
		SlotIndex: 1, From: b, QSetHash: qsetHash,
		Kind: scptypes.KindPrepare, Ballot: scptypes.Ballot{Counter: 2, Value: vb},
	})

	var rePrepare *scptypes.Statement
	for i := range emitted {
		if emitted[i].Kind == scptypes.KindPrepare {
			rePrepare = &emitted[i]
		}
	}
	require.NotNil(rePrepare, "the bump must re-emit a PREPARE for the adopted ballot")
	require.Equal(uint32(2), rePrepare.Ballot.Counter)
	require.True(rePrepare.Ballot.Value.Equal(winner), "must adopt whichever value sorts first by hash")
}

// lessHash reports whether a's value hash sorts strictly before b's,
// byte by byte — the same tie-break slot.checkBump applies.
func lessHash(a, b scptypes.Value) bool {
	ha, hb := a.Hash(), b.Hash()
	for i := range ha {
		if ha[i] != hb[i] {
			return ha[i] < hb[i]
		}
	}
	return false
}

func TestThreeNodesAllHonestReachAgreement(t *testing.T) {
	require := require.New(t)
	clk := clock.NewVirtual(time.Unix(0, 0))

	var a, b, c scptypes.NodeID
	a[0], b[0], c[0] = 1, 2, 3
	qset := scptypes.QuorumSet{Threshold: 2, Members: []scptypes.Member{
		scptypes.NodeMember(a), scptypes.NodeMember(b), scptypes.NodeMember(c),
	}}
	qsetHash := qset.Hash()

	replicas := map[scptypes.NodeID]*replica{}
	broadcast := func(signed overlay.SignedStatement) {
		for _, r := range replicas {
			if r.id != signed.Statement.From {
				r.slot.ReceiveStatement(signed.Statement)
			}
		}
	}

	ra := newReplica(t, 1, qset, qsetHash, clk, broadcast)
	rb := newReplica(t, 2, qset, qsetHash, clk, broadcast)
	rc := newReplica(t, 3, qset, qsetHash, clk, broadcast)
	replicas[ra.id] = ra
	replicas[rb.id] = rb
	replicas[rc.id] = rc

	v := scptypes.Value{CloseTime: time.Unix(2, 0)}
	v.TxSetHash[0] = 0x02

	ra.slot.Start(v)
	rb.slot.Start(v)
	rc.slot.Start(v)

	for _, r := range replicas {
		require.Equal(slot.PhaseCommitted, r.slot.Phase, "every node should reach COMMITTED once a 2-of-3 quorum agrees")
		got, ok := r.slot.Externalized()
		require.True(ok)
		require.True(got.Equal(v))
	}
}
