// Copyright (C) 2024-2026, The ledgerquorum Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/ledgerquorum/scp-core/scptypes"
)

// fileConfig mirrors Config but with a YAML-friendly quorum-set
// representation: a NodeID is unwieldy as a raw 32-byte array in YAML,
// so the file format spells it as a hex string instead and Load
// converts between the two.
type fileConfig struct {
	NodeSeedHex         string        `yaml:"nodeSeed"`
	Validator           bool          `yaml:"validator"`
	QuorumSet           yamlQSet      `yaml:"quorumSet"`
	ForceSCP            bool          `yaml:"forceSCP"`
	MinCloseInterval    time.Duration `yaml:"minCloseInterval"`
	SlotWindow          uint64        `yaml:"slotWindow"`
	BallotTimeout       time.Duration `yaml:"ballotTimeout"`
	NetworkPassphrase   string        `yaml:"networkPassphrase"`
	PendingStatementTTL time.Duration `yaml:"pendingStatementTTL"`
	PendingPerKeyCap    int           `yaml:"pendingPerKeyCap"`
	PendingTotalCap     int           `yaml:"pendingTotalCap"`
	QuorumCacheSize     int           `yaml:"quorumCacheSize"`
}

type yamlQSet struct {
	Threshold int        `yaml:"threshold"`
	Nodes     []string   `yaml:"nodes,omitempty"`
	Nested    []yamlQSet `yaml:"nested,omitempty"`
}

func (y yamlQSet) toQuorumSet() (scptypes.QuorumSet, error) {
	qs := scptypes.QuorumSet{Threshold: y.Threshold}
	for _, hexID := range y.Nodes {
		raw, err := hex.DecodeString(hexID)
		if err != nil {
			return scptypes.QuorumSet{}, fmt.Errorf("config: bad node id %q: %w", hexID, err)
		}
		var id scptypes.NodeID
		if len(raw) != len(id) {
			return scptypes.QuorumSet{}, fmt.Errorf("config: node id %q must be %d bytes, got %d", hexID, len(id), len(raw))
		}
		copy(id[:], raw)
		qs.Members = append(qs.Members, scptypes.NodeMember(id))
	}
	for _, nested := range y.Nested {
		sub, err := nested.toQuorumSet()
		if err != nil {
			return scptypes.QuorumSet{}, err
		}
		qs.Members = append(qs.Members, scptypes.NestedMember(sub))
	}
	return qs, nil
}

// Load reads and validates a Config from a YAML file at path.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return Config{}, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	c := Config{
		Validator:           fc.Validator,
		ForceSCP:            fc.ForceSCP,
		MinCloseInterval:    fc.MinCloseInterval,
		SlotWindow:          fc.SlotWindow,
		BallotTimeout:       fc.BallotTimeout,
		NetworkPassphrase:   fc.NetworkPassphrase,
		PendingStatementTTL: fc.PendingStatementTTL,
		PendingPerKeyCap:    fc.PendingPerKeyCap,
		PendingTotalCap:     fc.PendingTotalCap,
		QuorumCacheSize:     fc.QuorumCacheSize,
	}

	if fc.NodeSeedHex != "" {
		seed, err := hex.DecodeString(fc.NodeSeedHex)
		if err != nil {
			return Config{}, fmt.Errorf("config: bad nodeSeed: %w", err)
		}
		c.NodeSeed = seed
	}

	qs, err := fc.QuorumSet.toQuorumSet()
	if err != nil {
		return Config{}, err
	}
	c.QuorumSet = qs

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}
