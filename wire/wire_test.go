// Copyright (C) 2024-2026, The ledgerquorum Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package wire_test

import (
	"crypto/ed25519"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ledgerquorum/scp-core/scptypes"
	"github.com/ledgerquorum/scp-core/wire"
)

func sampleStatement() scptypes.Statement {
	v := scptypes.Value{CloseTime: time.Unix(1700000000, 0).UTC()}
	v.TxSetHash[0] = 0xAB
	prepared := scptypes.Ballot{Counter: 3, Value: v}
	return scptypes.Statement{
		SlotIndex:  42,
		Kind:       scptypes.KindConfirm,
		Ballot:     scptypes.Ballot{Counter: 5, Value: v},
		Prepared:   &prepared,
		CommitLow:  1,
		CommitHigh: 5,
	}
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	require := require.New(t)
	stmt := sampleStatement()
	stmt.From[0] = 0x01
	stmt.QSetHash[0] = 0x02

	encoded := wire.EncodeStatement("test network", stmt)
	passphrase, decoded, err := wire.DecodeStatement(encoded)
	require.NoError(err)
	require.Equal("test network", passphrase)
	require.Equal(stmt.SlotIndex, decoded.SlotIndex)
	require.Equal(stmt.From, decoded.From)
	require.Equal(stmt.Kind, decoded.Kind)
	require.Equal(stmt.Ballot.Counter, decoded.Ballot.Counter)
	require.True(stmt.Ballot.Value.Equal(decoded.Ballot.Value))
	require.NotNil(decoded.Prepared)
	require.Equal(stmt.Prepared.Counter, decoded.Prepared.Counter)
	require.Nil(decoded.PreparedPrime)
}

func TestDifferentPassphraseProducesDifferentEncoding(t *testing.T) {
	require := require.New(t)
	stmt := sampleStatement()
	require.NotEqual(wire.EncodeStatement("network-a", stmt), wire.EncodeStatement("network-b", stmt))
}

func TestSignVerify(t *testing.T) {
	require := require.New(t)
	pub, priv, err := ed25519.GenerateKey(nil)
	require.NoError(err)

	stmt := sampleStatement()
	signed := wire.Sign("test network", priv, stmt)
	require.True(wire.Verify("test network", pub, signed))

	signed.Statement.SlotIndex++
	require.False(wire.Verify("test network", pub, signed), "tampering with the statement must invalidate the signature")
}

func TestDecodeTruncatedFails(t *testing.T) {
	require := require.New(t)
	stmt := sampleStatement()
	encoded := wire.EncodeStatement("p", stmt)
	_, _, err := wire.DecodeStatement(encoded[:len(encoded)-10])
	require.Error(err)
}
