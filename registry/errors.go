// Copyright (C) 2024-2026, The ledgerquorum Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import "errors"

// ErrInvalidQuorumSet is returned by BindQuorumSet when the supplied tree
// violates the structural invariant 0 < threshold <= |members| at some
// depth, or exceeds the bounded nesting depth.
var ErrInvalidQuorumSet = errors.New("registry: invalid quorum set")
