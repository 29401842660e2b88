// Copyright (C) 2024-2026, The ledgerquorum Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package scptypes

// StatementKind is the emitted phase of the three-phase federated vote.
// Do not confuse this with the slot's own phase (slot.Phase): the slot
// phase is {WAITING, UNPREPARED, PREPARED, RATIFIED, COMMITTED} while the
// statement kind is {PREPARE, CONFIRM, EXTERNALIZE}.
type StatementKind uint8

const (
	KindPrepare StatementKind = iota
	KindConfirm
	KindExternalize
)

func (k StatementKind) String() string {
	switch k {
	case KindPrepare:
		return "PREPARE"
	case KindConfirm:
		return "CONFIRM"
	case KindExternalize:
		return "EXTERNALIZE"
	default:
		return "UNKNOWN"
	}
}

// Statement is one replica's vote for a slot at a point in the federated
// voting protocol. Per (SlotIndex, From, Kind) the store holds at most one
// statement, the most recent by ballot order.
//
// Kind-specific fields:
//   - PREPARE:     Ballot is the candidate ballot ("b"); Prepared is the
//     highest ballot this node has confirmed prepared ("p");
//     PreparedPrime is the previous, now-aborted prepared
//     ballot ("p'"), or nil.
//   - CONFIRM:     Ballot is the ballot being confirmed; CommitLow/
//     CommitHigh bound the counters this node believes are
//     committed-compatible ("c"/"h").
//   - EXTERNALIZE: Ballot is the externalized commit ballot; CommitLow/
//     CommitHigh bound the accepted commit range.
type Statement struct {
	SlotIndex     uint64
	From          NodeID
	QSetHash      Hash
	Kind          StatementKind
	Ballot        Ballot
	Prepared      *Ballot
	PreparedPrime *Ballot
	CommitLow     uint32
	CommitHigh    uint32
}

// Key identifies the (from, kind) slot the statement store tracks at most
// one entry for.
type Key struct {
	From NodeID
	Kind StatementKind
}

// Key returns s's store key.
func (s Statement) Key() Key {
	return Key{From: s.From, Kind: s.Kind}
}

// CompatibleWith reports whether s and other vote for the same value,
// i.e. their ballots carry the same value hash.
func (s Statement) CompatibleWith(other Statement) bool {
	return s.Ballot.Value.Hash() == other.Ballot.Value.Hash()
}
