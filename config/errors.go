// Copyright (C) 2024-2026, The ledgerquorum Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import "errors"

var (
	ErrInvalidNodeSeed         = errors.New("config: nodeSeed must be exactly ed25519.SeedSize bytes for a validating node")
	ErrInvalidQuorumSet        = errors.New("config: quorumSet violates the threshold/member structural invariant")
	ErrEmptyNetworkPassphrase  = errors.New("config: networkPassphrase must not be empty")
	ErrInvalidMinCloseInterval = errors.New("config: minCloseInterval must be positive")
	ErrInvalidBallotTimeout    = errors.New("config: ballotTimeout must be positive")
	ErrInvalidPendingLimits    = errors.New("config: pendingPerKeyCap and pendingTotalCap must be positive")
)
