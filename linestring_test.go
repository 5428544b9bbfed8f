package geoarrow

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustFromOrb(t *testing.T, g orb.Geometry) Geometry {
	t.Helper()
	view, err := FromOrb(g)
	require.NoError(t, err)
	return view
}

func TestLineStringBuilder(t *testing.T) {
	b := NewLineStringBuilder[int32](Interleaved, XY)
	line := mustFromOrb(t, orb.LineString{{0, 0}, {1, 1}}).(LineStringGeometry)
	require.NoError(t, b.PushLineString(line))
	require.NoError(t, b.PushNull())

	a := b.Finish()
	require.Equal(t, 2, a.Len())
	assert.True(t, a.IsValid(0))
	assert.False(t, a.IsValid(1))

	// The null consumed zero coordinates: offsets read [0, 2, 2].
	assert.Equal(t, []int32{0, 2, 2}, a.GeomOffsets().Values())

	v := a.Value(0)
	require.Equal(t, 2, v.NumCoords())
	assert.Equal(t, XYCoord(0, 0), v.CoordAt(0))
	assert.Equal(t, XYCoord(1, 1), v.CoordAt(1))
}

func TestLineStringBuilder_PushGeometry(t *testing.T) {
	b := NewLineStringBuilder[int32](Interleaved, XY)

	// A length-1 multi-line-string is structurally a line string.
	single := mustFromOrb(t, orb.MultiLineString{{{0, 0}, {2, 2}}})
	require.NoError(t, b.PushGeometry(single))

	double := mustFromOrb(t, orb.MultiLineString{{{0, 0}, {1, 1}}, {{2, 2}, {3, 3}}})
	var mismatchErr *TypeMismatchError
	require.ErrorAs(t, b.PushGeometry(double), &mismatchErr)

	a := b.Finish()
	require.Equal(t, 1, a.Len())
	assert.Equal(t, XYCoord(2, 2), a.Value(0).CoordAt(1))
}

func TestLineStringArray_TryNew(t *testing.T) {
	coords := NewInterleavedCoords([]float64{0, 0, 1, 1, 2, 2}, XY)

	// The final offset must land exactly on the coordinate count.
	_, err := TryNewLineStringArray(coords, NewOffsets([]int32{0, 2}), nil, nil)
	assert.ErrorIs(t, err, ErrOffsetMismatch)

	_, err = TryNewLineStringArray(coords, NewOffsets([]int32{0, 2, 3}), BitmapFromBools([]bool{true}), nil)
	assert.ErrorIs(t, err, ErrValidityLength)

	a, err := TryNewLineStringArray(coords, NewOffsets([]int32{0, 2, 3}), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, a.Len())
}

func TestLineStringArray_Slice(t *testing.T) {
	b := NewLineStringBuilder[int32](Interleaved, XY)
	for i := 0; i < 4; i++ {
		f := float64(i)
		line := mustFromOrb(t, orb.LineString{{f, f}, {f + 1, f + 1}}).(LineStringGeometry)
		require.NoError(t, b.PushLineString(line))
	}
	a := b.Finish()

	s := a.Slice(1, 2)
	require.Equal(t, 2, s.Len())
	assert.Equal(t, XYCoord(1, 1), s.Value(0).CoordAt(0))
	assert.Equal(t, XYCoord(2, 2), s.Value(1).CoordAt(0))

	// Slicing composes, and only the offset window moves: the coordinate
	// buffer is shared untouched with the original.
	assert.True(t, a.Slice(1, 3).Slice(1, 2).Equal(a.Slice(2, 2)))
	assert.Same(t, &a.Coords().Interleaved()[0], &s.Coords().Interleaved()[0])
	assert.Same(t, &a.GeomOffsets().Values()[1], &s.GeomOffsets().Values()[0])
}

func TestLineStringArray_BufferLengths(t *testing.T) {
	b := NewLineStringBuilder[int64](Interleaved, XY)
	line := mustFromOrb(t, orb.LineString{{0, 0}, {1, 1}, {2, 2}}).(LineStringGeometry)
	require.NoError(t, b.PushLineString(line))
	require.NoError(t, b.PushNull())

	got := b.Finish().BufferLengths()
	assert.Equal(t, LineStringCapacity{Geoms: 2, Coords: 3}, got)
}
