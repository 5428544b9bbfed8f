package geoarrow

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMixedBuilder(t *testing.T) {
	b := NewMixedBuilder[int32](Interleaved, XY)

	require.NoError(t, b.PushGeometry(NewPoint(XYCoord(1, 1))))
	require.NoError(t, b.PushGeometry(mustFromOrb(t, orb.LineString{{0, 0}, {2, 2}})))
	require.NoError(t, b.PushGeometry(mustFromOrb(t, orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}})))
	require.NoError(t, b.PushNull())
	require.NoError(t, b.PushGeometry(NewPoint(XYCoord(3, 3))))

	a := b.Finish()
	require.Equal(t, 5, a.Len())
	assert.Equal(t, TypeMixed, a.GeometryType())

	assert.Equal(t, TypePoint, a.TypeAt(0))
	assert.Equal(t, TypeLineString, a.TypeAt(1))
	assert.Equal(t, TypePolygon, a.TypeAt(2))
	assert.Equal(t, TypePoint, a.TypeAt(4))

	assert.False(t, a.IsValid(3))
	assert.Equal(t, 1, a.Nulls().NullCount())

	// Values come back through the child the tag points at.
	p, ok := a.Value(0).(Point)
	require.True(t, ok)
	c, _ := p.Coord()
	assert.Equal(t, XYCoord(1, 1), c)

	l, ok := a.Value(1).(LineString)
	require.True(t, ok)
	assert.Equal(t, 2, l.NumCoords())
}

func TestMixedBuilder_PreferMulti(t *testing.T) {
	b := NewMixedBuilder[int32](Interleaved, XY)
	b.PreferMulti = true

	require.NoError(t, b.PushGeometry(NewPoint(XYCoord(0, 0))))
	require.NoError(t, b.PushGeometry(NewPoint(XYCoord(1, 1))))
	require.NoError(t, b.PushGeometry(mustFromOrb(t, orb.MultiPoint{{2, 2}, {3, 3}})))

	a := b.Finish()
	require.Equal(t, 3, a.Len())
	for i := 0; i < a.Len(); i++ {
		assert.Equal(t, TypeMultiPoint, a.TypeAt(i))
	}

	down, err := a.Downcast()
	require.NoError(t, err)
	mp, ok := down.(*MultiPointArray[int32])
	require.True(t, ok)
	require.Equal(t, 3, mp.Len())
	assert.Equal(t, 1, mp.Value(0).NumPoints())
	assert.Equal(t, 2, mp.Value(2).NumPoints())
}

func TestMixedArray_Downcast(t *testing.T) {
	b := NewMixedBuilder[int32](Interleaved, XY)
	require.NoError(t, b.PushGeometry(NewPoint(XYCoord(0, 0))))
	require.NoError(t, b.PushGeometry(mustFromOrb(t, orb.LineString{{0, 0}, {1, 1}})))
	a := b.Finish()

	_, ok := a.DowncastType()
	assert.False(t, ok)
	_, err := a.Downcast()
	assert.ErrorIs(t, err, ErrDowncast)

	// A single-kind slice downcasts even when the full array does not.
	s := a.Slice(0, 1)
	tp, ok := s.DowncastType()
	require.True(t, ok)
	assert.Equal(t, TypePoint, tp)
	down, err := s.Downcast()
	require.NoError(t, err)
	assert.Equal(t, 1, down.(*PointArray).Len())
}

func TestMixedBuilder_NestedCollection(t *testing.T) {
	b := NewMixedBuilder[int32](Interleaved, XY)

	multi := mustFromOrb(t, orb.Collection{
		orb.Point{0, 0},
		orb.LineString{{1, 1}, {2, 2}},
	})
	assert.ErrorIs(t, b.PushGeometry(multi), ErrNestedCollection)

	// A single-member collection unwraps to its member.
	single := mustFromOrb(t, orb.Collection{orb.Point{5, 5}})
	require.NoError(t, b.PushGeometry(single))

	a := b.Finish()
	require.Equal(t, 1, a.Len())
	assert.Equal(t, TypePoint, a.TypeAt(0))
}

func TestMixedArray_Slice(t *testing.T) {
	b := NewMixedBuilder[int32](Interleaved, XY)
	for i := 0; i < 4; i++ {
		require.NoError(t, b.PushGeometry(NewPoint(XYCoord(float64(i), 0))))
	}
	a := b.Finish()

	s := a.Slice(1, 2)
	require.Equal(t, 2, s.Len())
	c, _ := s.Value(0).(Point).Coord()
	assert.Equal(t, XYCoord(1, 0), c)
	assert.True(t, a.Slice(1, 3).Slice(1, 2).Equal(a.Slice(2, 2)))
}

func TestMixedArray_Equal(t *testing.T) {
	build := func() *MixedArray[int32] {
		b := NewMixedBuilder[int32](Interleaved, XY)
		_ = b.PushGeometry(NewPoint(XYCoord(1, 1)))
		_ = b.PushGeometry(mustFromOrb(t, orb.LineString{{0, 0}, {1, 1}}))
		_ = b.PushNull()
		return b.Finish()
	}
	assert.True(t, build().Equal(build()))

	other := NewMixedBuilder[int32](Interleaved, XY)
	_ = other.PushGeometry(mustFromOrb(t, orb.LineString{{0, 0}, {1, 1}}))
	_ = other.PushGeometry(NewPoint(XYCoord(1, 1)))
	_ = other.PushNull()
	assert.False(t, build().Equal(other.Finish()))
}
