// Copyright (C) 2024-2026, The ledgerquorum Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package herder defines the transaction-set herder shim (spec component
// C9). The herder proposes candidate transaction sets and resolves their
// hashes; transaction semantics and bucket storage are out of this
// module's scope (spec.md §1 Non-goals) — only the narrow interface the
// consensus core calls against lives here.
package herder

import "github.com/ledgerquorum/scp-core/scptypes"

// Herder proposes values for the local replica to nominate and reports
// whether a referenced transaction set is locally available.
type Herder interface {
	// CurrentTxSet returns the hash and candidate Value this replica
	// would propose if it opened a new slot right now.
	CurrentTxSet() (scptypes.Hash, scptypes.Value, bool)

	// HasTxSet reports whether the transaction set behind hash has been
	// delivered locally (independent of knowing the small Value struct
	// that merely references it).
	HasTxSet(hash scptypes.Hash) bool
}

// ReadyNotifier is implemented by a Herder that can tell callers when a
// previously-missing transaction set becomes available, so the
// orchestrator can drain pending.Queues.ReleaseTxSet for that hash.
type ReadyNotifier interface {
	OnTxSetReady(f func(hash scptypes.Hash))
}
