// Copyright (C) 2024-2026, The ledgerquorum Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ballot implements the ballot algebra (spec component C2):
// ordering and compatibility of (counter, value) pairs. Every function
// here is pure — no network, no clock, no mutation — so the slot state
// machine can call it freely from within a single receiveStatement pass.
package ballot

import (
	"bytes"

	"github.com/ledgerquorum/scp-core/scptypes"
)

// Compare orders ballots by counter ascending, then by value hash
// ascending. It returns a negative number if a < b, zero if equal, and a
// positive number if a > b.
func Compare(a, b scptypes.Ballot) int {
	if a.Counter != b.Counter {
		if a.Counter < b.Counter {
			return -1
		}
		return 1
	}
	ah := a.Value.Hash()
	bh := b.Value.Hash()
	return bytes.Compare(ah[:], bh[:])
}

// Less reports whether a orders strictly before b.
func Less(a, b scptypes.Ballot) bool {
	return Compare(a, b) < 0
}

// Compatible reports whether a and b carry the same value, i.e. are votes
// for the same candidate regardless of counter.
func Compatible(a, b scptypes.Ballot) bool {
	return a.Value.Hash() == b.Value.Hash()
}

// Successor returns the next ballot for value v at counter b.Counter+1.
func Successor(b scptypes.Ballot, v scptypes.Value) scptypes.Ballot {
	return scptypes.Ballot{Counter: b.Counter + 1, Value: v}
}

// Max returns the greater of a and b by Compare.
func Max(a, b scptypes.Ballot) scptypes.Ballot {
	if Compare(a, b) >= 0 {
		return a
	}
	return b
}
