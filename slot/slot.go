// Copyright (C) 2024-2026, The ledgerquorum Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package slot implements the per-slot ballot state machine (spec
// component C6): the core of the consensus module. A Slot drives one
// instance of federated voting to a single externalized Value, moving
// through phases WAITING -> UNPREPARED -> PREPARED -> RATIFIED ->
// COMMITTED as quorum and v-blocking evidence accumulates in its
// Store.
//
// A Slot is not safe for concurrent use. Per the core's single-threaded
// concurrency model (SPEC_FULL.md §5), every method here is called from
// the one goroutine the orchestrator (package scp) runs its event loop
// on.
package slot

import (
	"time"

	"github.com/ledgerquorum/scp-core/ballot"
	"github.com/ledgerquorum/scp-core/clock"
	"github.com/ledgerquorum/scp-core/localnode"
	"github.com/ledgerquorum/scp-core/overlay"
	"github.com/ledgerquorum/scp-core/quorumset"
	"github.com/ledgerquorum/scp-core/scptypes"
	"github.com/ledgerquorum/scp-core/set"
	"github.com/ledgerquorum/scp-core/store"
)

// Phase is the slot's own state, distinct from the StatementKind a
// replica emits at any given moment (see scptypes.Statement's doc
// comment).
type Phase int

const (
	PhaseWaiting Phase = iota
	PhaseUnprepared
	PhasePrepared
	PhaseRatified
	PhaseCommitted
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "WAITING"
	case PhaseUnprepared:
		return "UNPREPARED"
	case PhasePrepared:
		return "PREPARED"
	case PhaseRatified:
		return "RATIFIED"
	case PhaseCommitted:
		return "COMMITTED"
	default:
		return "UNKNOWN"
	}
}

// Slot drives federated voting for a single slot index.
type Slot struct {
	Index uint64
	Phase Phase

	store  *store.Store
	qcache *quorumset.Cache
	clk    clock.Clock
	local  *localnode.LocalNode

	ballotNow     scptypes.Ballot
	prepared      *scptypes.Ballot
	preparedPrime *scptypes.Ballot
	commitLow     uint32
	commitHigh    uint32
	externalized  *scptypes.Value

	baseTimeout time.Duration
	timer       clock.Timer

	onEmit        func(overlay.SignedStatement)
	onExternalize func(scptypes.Value) error
}

// New returns a Slot in PhaseWaiting. onEmit is called with every
// statement this replica signs (wired to the overlay shim's Broadcast);
// onExternalize is called exactly once, when the slot first reaches
// PhaseCommitted (wired to the ledgerclose shim).
func New(
	index uint64,
	st *store.Store,
	qcache *quorumset.Cache,
	clk clock.Clock,
	local *localnode.LocalNode,
	baseTimeout time.Duration,
	onEmit func(overlay.SignedStatement),
	onExternalize func(scptypes.Value) error,
) *Slot {
	return &Slot{
		Index:         index,
		Phase:         PhaseWaiting,
		store:         st,
		qcache:        qcache,
		clk:           clk,
		local:         local,
		baseTimeout:   baseTimeout,
		onEmit:        onEmit,
		onExternalize: onExternalize,
	}
}

// Start opens the slot by nominating candidate as ballot 1's value and
// moves the phase to UNPREPARED. It is a no-op if the slot has already
// been started.
func (s *Slot) Start(candidate scptypes.Value) {
	if s.Phase != PhaseWaiting {
		return
	}
	s.ballotNow = scptypes.Ballot{Counter: 1, Value: candidate}
	s.Phase = PhaseUnprepared
	s.emitPrepare()
	s.armTimeout()
	// A lone validator's own vote can already meet its own threshold
	// (e.g. a 1-of-1 quorum set), so the freshly emitted statement must
	// be evaluated immediately rather than waiting for a peer's reply.
	s.evaluate()
}

// ReceiveStatement records stmt (subject to the store's monotone insert
// policy) and re-evaluates the slot's phase. It is safe to call after
// the slot has committed: once PhaseCommitted is reached the method is a
// no-op, which is what makes repeated delivery of the same EXTERNALIZE
// statement harmless.
func (s *Slot) ReceiveStatement(stmt scptypes.Statement) {
	if s.Phase == PhaseCommitted {
		return
	}
	if stmt.SlotIndex != s.Index {
		return
	}
	s.store.Insert(stmt)
	s.evaluate()
}

// Externalized returns the decided value and true once the slot has
// committed.
func (s *Slot) Externalized() (scptypes.Value, bool) {
	if s.externalized == nil {
		return scptypes.Value{}, false
	}
	return *s.externalized, true
}

// evaluate runs the three ascending checks of the federated voting
// protocol in order: bump on v-blocking higher-counter evidence, confirm
// prepared on quorum agreement, confirm committed on quorum agreement.
// Each check can only move the phase forward, never back, matching the
// monotone nature of the Store it reads from.
func (s *Slot) evaluate() {
	if s.Phase == PhaseWaiting || s.Phase == PhaseCommitted {
		return
	}

	s.checkBump()
	s.checkPrepared()
	s.checkRatified()
	s.checkCommitted()
}

// checkBump advances this replica's ballot when a v-blocking set of peers
// has already moved to a strictly higher counter, possibly with an
// incompatible value: a single honest-quorum-slice-worth of evidence that
// the network has moved on is enough to refuse waiting out a stale
// timeout. The adopted ballot is the highest-counter one the v-blocking
// set offers; when more than one peer's highest ballot shares that
// counter with a different value, ties break by lexicographically-least
// value hash so that every replica observing the same evidence adopts
// the same ballot.
func (s *Slot) checkBump() {
	if s.adoptHigherCounterEvidence() {
		return
	}
	s.adoptSameCounterEvidence()
}

// adoptHigherCounterEvidence implements the bump rule documented on
// checkBump: a v-blocking set at a strictly higher counter forces this
// replica to adopt its highest-counter ballot. Reports whether it
// adopted anything, so checkBump can skip the same-counter check this
// round (the ballot just changed, so same-counter evidence against the
// old ballot is stale).
func (s *Slot) adoptHigherCounterEvidence() bool {
	higher := s.store.VotersFor(func(stmt scptypes.Statement) bool {
		return stmt.SlotIndex == s.Index && stmt.Ballot.Counter > s.ballotNow.Counter
	})
	if higher.Len() == 0 {
		return false
	}
	if !s.isVBlocking(higher) {
		return false
	}

	var adopted scptypes.Ballot
	found := false
	for _, stmt := range s.store.All() {
		if stmt.SlotIndex != s.Index || !higher.Contains(stmt.From) {
			continue
		}
		if stmt.Ballot.Counter <= s.ballotNow.Counter {
			continue
		}
		switch {
		case !found:
			adopted, found = stmt.Ballot, true
		case stmt.Ballot.Counter > adopted.Counter:
			adopted = stmt.Ballot
		case stmt.Ballot.Counter == adopted.Counter && lessValueHash(stmt.Ballot.Value, adopted.Value):
			adopted = stmt.Ballot
		}
	}
	if !found {
		return false
	}

	s.ballotNow = adopted
	s.prepared = nil
	s.preparedPrime = nil
	s.emitPrepare()
	s.armTimeout()
	return true
}

// adoptSameCounterEvidence closes the liveness gap the higher-counter
// rule alone leaves open: once this replica's own ballot timeout has
// independently bumped its counter to match a quorum already
// converging on a different value, no peer will ever again report a
// strictly higher counter for it to react to, so the two sides would
// otherwise never reconcile (spec.md's S3 scenario requires all three
// replicas to commit the same value, not just the two that agreed
// from the start). A v-blocking set voting or accepting a conflicting
// value at this replica's own current counter is exactly the evidence
// SCP's "accept prepared" rule reacts to; adopting it here is safe
// only while this replica has not itself locally prepared a ballot yet
// (s.prepared == nil), since prepared is this replica's own record of
// having already gathered quorum-strength support for a value — a
// point past which it must not be overridden. Ties break the same way
// adoptHigherCounterEvidence's do, by least value hash, so every
// replica observing the same evidence converges on the same value.
func (s *Slot) adoptSameCounterEvidence() {
	if s.prepared != nil {
		return
	}
	tied := s.store.VotersFor(func(stmt scptypes.Statement) bool {
		return stmt.SlotIndex == s.Index &&
			stmt.Ballot.Counter == s.ballotNow.Counter &&
			!stmt.Ballot.Value.Equal(s.ballotNow.Value)
	})
	if tied.Len() == 0 {
		return
	}
	if !s.isVBlocking(tied) {
		return
	}

	var adopted scptypes.Ballot
	found := false
	for _, stmt := range s.store.All() {
		if stmt.SlotIndex != s.Index || !tied.Contains(stmt.From) {
			continue
		}
		if stmt.Ballot.Counter != s.ballotNow.Counter || stmt.Ballot.Value.Equal(s.ballotNow.Value) {
			continue
		}
		if !found || lessValueHash(stmt.Ballot.Value, adopted.Value) {
			adopted, found = stmt.Ballot, true
		}
	}
	if !found || !lessValueHash(adopted.Value, s.ballotNow.Value) {
		return
	}

	s.ballotNow = adopted
	s.emitPrepare()
	s.armTimeout()
}

// lessValueHash reports whether a's hash sorts strictly before b's hash,
// byte by byte. Used only to make ballot adoption deterministic across
// replicas when a v-blocking set's evidence ties on counter.
func lessValueHash(a, b scptypes.Value) bool {
	ha, hb := a.Hash(), b.Hash()
	for i := range ha {
		if ha[i] != hb[i] {
			return ha[i] < hb[i]
		}
	}
	return false
}

// checkPrepared looks for a quorum that has voted to prepare the current
// ballot and, if found, records it as the new "p" and announces CONFIRM.
func (s *Slot) checkPrepared() {
	if s.Phase == PhaseRatified {
		return
	}
	preparers := s.store.NodesThatPrepared(s.ballotNow)
	if !s.isQuorum(preparers) {
		return
	}
	if s.prepared != nil && ballot.Compare(s.ballotNow, *s.prepared) <= 0 {
		return
	}
	if s.prepared != nil && !ballot.Compatible(s.ballotNow, *s.prepared) {
		prev := *s.prepared
		s.preparedPrime = &prev
	}
	b := s.ballotNow
	s.prepared = &b
	// A freshly prepared ballot is this replica's first candidate commit
	// range: c = h = its own counter. checkRatified leaves the range as it
	// is and only advances the phase.
	s.commitLow = s.ballotNow.Counter
	s.commitHigh = s.ballotNow.Counter
	s.Phase = PhasePrepared
	s.emitConfirm()
}

// checkRatified looks for a quorum that has confirmed the current
// ballot's value; the commit range was already set when the ballot was
// first prepared, so reaching ratification only advances the phase.
func (s *Slot) checkRatified() {
	if s.Phase != PhasePrepared {
		return
	}
	confirmers := s.store.NodesThatConfirmed(s.ballotNow)
	if !s.isQuorum(confirmers) {
		return
	}
	s.Phase = PhaseRatified
}

// checkCommitted externalizes the ratified ballot's value exactly once.
// A quorum confirming the commit range (checkRatified's condition) is
// already sufficient per federated voting: a replica does not need to
// see EXTERNALIZE statements from a quorum before externalizing itself,
// only a quorum's worth of CONFIRM. EXTERNALIZE statements exist for
// late-joining or catching-up peers (spec §5), not as a second round of
// agreement this replica must itself wait on.
func (s *Slot) checkCommitted() {
	if s.Phase != PhaseRatified {
		return
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	v := s.ballotNow.Value
	s.externalized = &v
	s.Phase = PhaseCommitted
	s.emitExternalize()
	if s.onExternalize != nil {
		_ = s.onExternalize(v)
	}
}

func (s *Slot) isQuorum(nodes set.Set[scptypes.NodeID]) bool {
	if s.local == nil {
		return false
	}
	nodes = nodes.Clone()
	nodes.Add(s.local.ID)
	return s.qcache.IsQuorum(s.local.QSet, s.local.QSetHash, nodes, s.local.ID)
}

func (s *Slot) isVBlocking(nodes set.Set[scptypes.NodeID]) bool {
	if s.local == nil {
		return false
	}
	return s.qcache.IsVBlocking(s.local.QSet, s.local.QSetHash, nodes)
}

func (s *Slot) armTimeout() {
	if s.timer != nil {
		s.timer.Stop()
	}
	d := s.baseTimeout * time.Duration(s.ballotNow.Counter)
	s.timer = s.clk.AfterFunc(d, func() {
		s.ballotNow = scptypes.Ballot{Counter: s.ballotNow.Counter + 1, Value: s.ballotNow.Value}
		s.emitPrepare()
		s.armTimeout()
	})
}

func (s *Slot) emitPrepare() {
	stmt := scptypes.Statement{
		SlotIndex:     s.Index,
		Kind:          scptypes.KindPrepare,
		Ballot:        s.ballotNow,
		Prepared:      s.prepared,
		PreparedPrime: s.preparedPrime,
	}
	s.sign(stmt)
}

func (s *Slot) emitConfirm() {
	stmt := scptypes.Statement{
		SlotIndex:  s.Index,
		Kind:       scptypes.KindConfirm,
		Ballot:     s.ballotNow,
		CommitLow:  s.commitLow,
		CommitHigh: s.commitHigh,
	}
	s.sign(stmt)
}

func (s *Slot) emitExternalize() {
	stmt := scptypes.Statement{
		SlotIndex:  s.Index,
		Kind:       scptypes.KindExternalize,
		Ballot:     s.ballotNow,
		CommitLow:  s.commitLow,
		CommitHigh: s.commitHigh,
	}
	s.sign(stmt)
}

func (s *Slot) sign(stmt scptypes.Statement) {
	if s.local == nil {
		return
	}
	signed, ok := s.local.Emit(stmt)
	if !ok {
		return
	}
	s.store.Insert(signed.Statement)
	if s.onEmit != nil {
		s.onEmit(signed)
	}
}
