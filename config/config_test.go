// Copyright (C) 2024-2026, The ledgerquorum Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package config_test

import (
	"crypto/ed25519"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ledgerquorum/scp-core/config"
	"github.com/ledgerquorum/scp-core/scptypes"
)

func validQuorumSet() scptypes.QuorumSet {
	var id scptypes.NodeID
	id[0] = 1
	return scptypes.QuorumSet{Threshold: 1, Members: []scptypes.Member{scptypes.NodeMember(id)}}
}

func TestDefaultIsValidForNonValidator(t *testing.T) {
	require := require.New(t)
	c := config.Default()
	c.Validator = false
	require.NoError(c.Validate())
}

func TestValidatorRequiresSeedAndQuorumSet(t *testing.T) {
	require := require.New(t)
	c := config.Default()
	c.Validator = true
	require.ErrorIs(c.Validate(), config.ErrInvalidNodeSeed)

	c.NodeSeed = make([]byte, ed25519.SeedSize)
	require.ErrorIs(c.Validate(), config.ErrInvalidQuorumSet)

	c.QuorumSet = validQuorumSet()
	require.NoError(c.Validate())
}

func TestEmptyNetworkPassphraseRejected(t *testing.T) {
	require := require.New(t)
	c := config.Default()
	c.Validator = false
	c.NetworkPassphrase = ""
	require.ErrorIs(c.Validate(), config.ErrEmptyNetworkPassphrase)
}

func TestMainnetAndTestnetPresetsDiffer(t *testing.T) {
	require := require.New(t)
	require.NotEqual(config.Mainnet().NetworkPassphrase, config.Testnet().NetworkPassphrase)
}
