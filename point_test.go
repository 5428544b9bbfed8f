package geoarrow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPointBuilder(t *testing.T) {
	b := NewPointBuilder(Interleaved, XY)
	require.NoError(t, b.PushCoord(XYCoord(1, 2)))
	b.PushEmpty()
	b.PushNull()

	a := b.Finish()
	require.Equal(t, 3, a.Len())
	assert.Equal(t, XY, a.Dim())
	assert.Equal(t, TypePoint, a.GeometryType())

	assert.True(t, a.IsValid(0))
	c, ok := a.Value(0).Coord()
	require.True(t, ok)
	assert.Equal(t, XYCoord(1, 2), c)

	// Empty point: valid, but no coordinate.
	assert.True(t, a.IsValid(1))
	_, ok = a.Value(1).Coord()
	assert.False(t, ok)

	assert.False(t, a.IsValid(2))
	assert.Equal(t, 1, a.Nulls().NullCount())
}

func TestPointBuilder_PushGeometry(t *testing.T) {
	b := NewPointBuilder(Interleaved, XY)

	require.NoError(t, b.PushGeometry(NewPoint(XYCoord(5, 6))))
	require.NoError(t, b.PushGeometry(nil))

	// A length-1 multi-point is structurally a point.
	mb := NewMultiPointBuilder[int32](Interleaved, XY)
	require.NoError(t, mb.PushPoint(NewPoint(XYCoord(7, 8))))
	mp := mb.Finish()
	require.NoError(t, b.PushGeometry(mp.Value(0)))

	// A longer multi-point is not.
	mb2 := NewMultiPointBuilder[int32](Interleaved, XY)
	require.NoError(t, mb2.PushPoint(NewPoint(XYCoord(0, 0))))
	require.NoError(t, mb2.PushPoint(NewPoint(XYCoord(1, 1))))
	err := b.PushGeometry(mb2.Finish().GeometryAt(0))
	var mismatchErr *TypeMismatchError
	require.ErrorAs(t, err, &mismatchErr)
	assert.Equal(t, TypePoint, mismatchErr.Expected)
	assert.Equal(t, TypeMultiPoint, mismatchErr.Actual)

	a := b.Finish()
	require.Equal(t, 3, a.Len())
	c, ok := a.Value(2).Coord()
	require.True(t, ok)
	assert.Equal(t, XYCoord(7, 8), c)
}

func TestPointArray_Slice(t *testing.T) {
	b := NewPointBuilder(Interleaved, XY)
	for i := 0; i < 5; i++ {
		require.NoError(t, b.PushCoord(XYCoord(float64(i), float64(i))))
	}
	a := b.Finish()

	s := a.Slice(1, 3)
	require.Equal(t, 3, s.Len())
	c, _ := s.Value(0).Coord()
	assert.Equal(t, XYCoord(1, 1), c)

	assert.True(t, a.Slice(1, 3).Slice(1, 2).Equal(a.Slice(2, 2)))

	// Slices share the coordinate storage.
	assert.Same(t, &a.Coords().Interleaved()[2], &s.Coords().Interleaved()[0])
}

func TestPointArray_Equal(t *testing.T) {
	build := func(layout CoordType) *PointArray {
		b := NewPointBuilder(layout, XY)
		_ = b.PushCoord(XYCoord(1, 2))
		b.PushEmpty()
		b.PushNull()
		return b.Finish()
	}

	// Layout is physical; equality is logical.
	assert.True(t, build(Interleaved).Equal(build(Separated)))

	other := NewPointBuilder(Interleaved, XY)
	_ = other.PushCoord(XYCoord(1, 2))
	other.PushNull()
	other.PushNull()
	assert.False(t, build(Interleaved).Equal(other.Finish()))
}

func TestPointArray_TryNew(t *testing.T) {
	coords := NewInterleavedCoords([]float64{0, 0, 1, 1}, XY)
	_, err := TryNewPointArray(coords, BitmapFromBools([]bool{true}), nil)
	assert.ErrorIs(t, err, ErrValidityLength)

	a, err := TryNewPointArray(coords, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 2, a.Len())
	assert.True(t, a.IsValid(1))
}
