// Copyright (C) 2024-2026, The ledgerquorum Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package ledgerclose defines the ledger-close shim (spec component C9)
// that the orchestrator hands a COMMITTED slot value to. Ledger
// application, bucket list hashing and history publication are out of
// this module's scope (spec.md §1 Non-goals) — only the narrow
// downstream contract lives here.
package ledgerclose

import "github.com/ledgerquorum/scp-core/scptypes"

// Engine externalizes a decided slot value onto the ledger. Externalize
// must be idempotent: redelivering the same (slotIndex, value) pair
// after a crash/restart or a duplicate COMMITTED notification must not
// double-apply it.
type Engine interface {
	Externalize(slotIndex uint64, value scptypes.Value) error
}
