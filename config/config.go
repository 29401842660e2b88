// Copyright (C) 2024-2026, The ledgerquorum Authors. All rights reserved.
// See the file LICENSE for licensing terms.

// Package config defines the node-level configuration surface (spec
// §6's recognized options), grounded on the teacher's config package:
// a plain struct plus named presets and a Validate method returning
// sentinel errors, loaded from YAML via gopkg.in/yaml.v3.
package config

import (
	"crypto/ed25519"
	"time"

	"github.com/ledgerquorum/scp-core/pending"
	"github.com/ledgerquorum/scp-core/scptypes"
)

// Config is the full set of parameters a replica needs to run the
// consensus core, corresponding 1:1 to spec.md §6's option list. It is
// the in-memory shape produced by Load; the YAML file format itself
// uses the friendlier fileConfig/yamlQSet representation in load.go.
type Config struct {
	NodeSeed          []byte
	Validator         bool
	QuorumSet         scptypes.QuorumSet
	ForceSCP          bool
	MinCloseInterval  time.Duration
	SlotWindow        uint64
	BallotTimeout     time.Duration
	NetworkPassphrase string

	PendingStatementTTL time.Duration
	PendingPerKeyCap    int
	PendingTotalCap     int
	QuorumCacheSize     int
}

// Default returns a Config suitable for a single isolated node: no
// network passphrase collision with a real network, generous pending
// limits, and SCP forced on regardless of a quorum set's size.
func Default() Config {
	return Config{
		Validator:           true,
		ForceSCP:            true,
		MinCloseInterval:    5 * time.Second,
		SlotWindow:          12,
		BallotTimeout:       1 * time.Second,
		NetworkPassphrase:   "ledgerquorum development network",
		PendingStatementTTL: pending.DefaultLimits().TTL,
		PendingPerKeyCap:    pending.DefaultLimits().PerKeyCap,
		PendingTotalCap:     pending.DefaultLimits().TotalCap,
		QuorumCacheSize:     1024,
	}
}

// Mainnet returns the preset used to join the production network: a
// longer close interval and a real, fixed network passphrase so
// statements signed here never verify against Testnet or a local
// network.
func Mainnet() Config {
	c := Default()
	c.MinCloseInterval = 5 * time.Second
	c.SlotWindow = 12
	c.NetworkPassphrase = "ledgerquorum mainnet ; 2026"
	return c
}

// Testnet returns the preset used to join the public test network: a
// faster close interval for quicker iteration.
func Testnet() Config {
	c := Default()
	c.MinCloseInterval = 1 * time.Second
	c.NetworkPassphrase = "ledgerquorum testnet ; 2026"
	return c
}

// PendingLimits converts the flattened YAML fields back into a
// pending.Limits value.
func (c Config) PendingLimits() pending.Limits {
	return pending.Limits{
		PerKeyCap: c.PendingPerKeyCap,
		TotalCap:  c.PendingTotalCap,
		TTL:       c.PendingStatementTTL,
	}
}

// PrivateKey derives this node's Ed25519 key pair from NodeSeed. The
// seed must be exactly ed25519.SeedSize bytes.
func (c Config) PrivateKey() ed25519.PrivateKey {
	return ed25519.NewKeyFromSeed(c.NodeSeed)
}

// Validate reports the first structural problem found in c, if any.
func (c Config) Validate() error {
	if c.Validator {
		if len(c.NodeSeed) != ed25519.SeedSize {
			return ErrInvalidNodeSeed
		}
		if !c.QuorumSet.Valid() {
			return ErrInvalidQuorumSet
		}
	}
	if c.NetworkPassphrase == "" {
		return ErrEmptyNetworkPassphrase
	}
	if c.MinCloseInterval <= 0 {
		return ErrInvalidMinCloseInterval
	}
	if c.BallotTimeout <= 0 {
		return ErrInvalidBallotTimeout
	}
	if c.PendingPerKeyCap <= 0 || c.PendingTotalCap <= 0 {
		return ErrInvalidPendingLimits
	}
	return nil
}
