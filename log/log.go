// Copyright (C) 2024-2026, The ledgerquorum Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package log wires the consensus core to github.com/luxfi/log, the
// same structured logger the teacher repo uses throughout. cmd/scpnode
// is its only caller; the consensus core packages themselves do not log.
package log

import (
	"github.com/luxfi/log"
)

// Logger is re-exported so callers only need to import this package.
type Logger = log.Logger

// Default is a no-op logger, used wherever a component is constructed
// without an explicit logger — tests in particular should never need to
// wire one up just to silence output.
func Default() Logger {
	return log.NewNoOpLogger()
}

// New returns a named structured logger, e.g. New("scp") for the
// orchestrator or New("slot") for a per-slot state machine.
func New(name string) Logger {
	return log.NewLogger(name)
}
