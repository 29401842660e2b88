// Copyright (C) 2024-2026, The ledgerquorum Authors. All rights reserved.
// See the file LICENSE for licensing terms.

/*
Package scpcore implements a federated Byzantine agreement core for a
payment ledger: each replica declares a quorum set of peers it trusts,
and a value is decided for a slot once enough of those quorum slices
agree on it — no fixed validator list or global stake weighting
required.

# Overview

The module is organized as one package per protocol component:

  - scptypes/    shared data model: NodeID, Hash, Value, Ballot, QuorumSet, Statement
  - quorumset/   quorum and v-blocking predicates over a QuorumSet tree, memoized
  - ballot/      ballot ordering, compatibility, and bumping
  - registry/    peer and quorum-set bookkeeping, with async resolution
  - store/       per-slot statement bookkeeping under a monotone insert rule
  - pending/     statements parked on a missing prerequisite, released exactly once
  - clock/       a real and a virtual clock, for deterministic replay
  - localnode/   this replica's signing identity
  - wire/        canonical binary statement encoding for Ed25519 signatures
  - slot/        the per-slot ballot state machine (WAITING -> ... -> COMMITTED)
  - scp/         the orchestrator tying every component to one event loop
  - herder/ledgerclose/overlay/  narrow shim interfaces to the rest of a node
  - config/log/metrics/  ambient stack: YAML config, structured logging, Prometheus

# Protocol

A slot moves through federated voting in three statement kinds:

	PREPARE     candidate ballot, plus the highest ballot known prepared
	CONFIRM     a ballot this replica has confirmed prepared, with a commit range
	EXTERNALIZE the final decision, once a quorum confirms commit

A replica bumps its ballot counter when a v-blocking set of peers has
already moved past it, and externalizes once a quorum of its own quorum
set confirms the same value. See slot.Slot for the state machine and
scp.Orchestrator for how statements flow into it.

# Concurrency

Every mutable component (slot.Slot, store.Store, pending.Queues,
registry.Registry) is single-threaded by convention: the orchestrator
drains one inbox channel on one goroutine, and every external call —
a received statement, a timer firing, a resolved quorum set — is
enqueued onto it rather than touching state directly. See
scp.Orchestrator.Enqueue.

# Non-goals

This module implements the agreement core only: it does not implement
transaction validation, ledger/bucket storage, peer discovery, or wire
transport framing. Those are the responsibility of the herder,
ledgerclose, and overlay interfaces, which a full node implements and
wires in.
*/
package scpcore
