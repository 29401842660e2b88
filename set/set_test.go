// Copyright (C) 2024-2026, The ledgerquorum Authors. All rights reserved.
// See the file LICENSE for licensing terms.

package set

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSetBasics(t *testing.T) {
	require := require.New(t)

	s := Of(1, 2, 3)
	require.Equal(3, s.Len())
	require.True(s.Contains(2))
	require.False(s.Contains(4))

	s.Add(4)
	require.True(s.Contains(4))

	s.Remove(1)
	require.False(s.Contains(1))
	require.Equal(3, s.Len())
}

func TestSetUnionIntersectionOverlaps(t *testing.T) {
	require := require.New(t)

	a := Of("x", "y", "z")
	b := Of("y", "z", "w")

	union := a.Union(b)
	require.Equal(4, union.Len())
	for _, e := range []string{"x", "y", "z", "w"} {
		require.True(union.Contains(e))
	}

	inter := a.Intersection(b)
	require.Equal(2, inter.Len())
	require.True(inter.Contains("y"))
	require.True(inter.Contains("z"))
	require.False(inter.Contains("x"))

	require.True(a.Overlaps(b))
	require.False(Of("p").Overlaps(Of("q")))
}

func TestSetCloneIsIndependent(t *testing.T) {
	require := require.New(t)

	a := Of(1, 2)
	b := a.Clone()
	b.Add(3)

	require.Equal(2, a.Len())
	require.Equal(3, b.Len())
}
