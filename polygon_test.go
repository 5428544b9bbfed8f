package geoarrow

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolygonBuilder(t *testing.T) {
	b := NewPolygonBuilder[int32](Interleaved, XY)

	donut := mustFromOrb(t, orb.Polygon{
		{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}},
		{{2, 2}, {4, 2}, {4, 4}, {2, 4}, {2, 2}},
	}).(PolygonGeometry)
	require.NoError(t, b.PushPolygon(donut))
	require.NoError(t, b.PushNull())

	a := b.Finish()
	require.Equal(t, 2, a.Len())
	assert.Equal(t, []int32{0, 2, 2}, a.GeomOffsets().Values())
	assert.Equal(t, []int32{0, 5, 10}, a.RingOffsets().Values())

	v := a.Value(0)
	require.Equal(t, 2, v.NumRings())
	assert.Equal(t, 5, v.Ring(0).NumCoords())
	assert.Equal(t, XYCoord(2, 2), v.Ring(1).CoordAt(0))

	assert.False(t, a.IsValid(1))
}

func TestPolygonArray_TryNew(t *testing.T) {
	coords := NewInterleavedCoords([]float64{0, 0, 4, 0, 4, 4, 0, 4, 0, 0}, XY)
	rings := NewOffsets([]int32{0, 5})

	// The geometry offsets must close over the ring count, and the ring
	// offsets over the coordinate count.
	_, err := TryNewPolygonArray(coords, NewOffsets([]int32{0, 2}), rings, nil, nil)
	assert.ErrorIs(t, err, ErrOffsetMismatch)

	_, err = TryNewPolygonArray(coords, NewOffsets([]int32{0, 1}), NewOffsets([]int32{0, 4}), nil, nil)
	assert.ErrorIs(t, err, ErrOffsetMismatch)

	a, err := TryNewPolygonArray(coords, NewOffsets([]int32{0, 1}), rings, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, a.Len())
}

func TestMultiPolygonBuilder(t *testing.T) {
	b := NewMultiPolygonBuilder[int32](Interleaved, XY)

	mp := mustFromOrb(t, orb.MultiPolygon{
		{{{0, 0}, {4, 0}, {4, 4}, {0, 4}, {0, 0}}},
		{{{10, 10}, {12, 10}, {12, 12}, {10, 12}, {10, 10}}},
	}).(MultiPolygonGeometry)
	require.NoError(t, b.PushMultiPolygon(mp))

	// A bare polygon lands as a length-1 multi-polygon.
	poly := mustFromOrb(t, orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}}).(PolygonGeometry)
	require.NoError(t, b.PushPolygon(poly))

	a := b.Finish()
	require.Equal(t, 2, a.Len())
	assert.Equal(t, 2, a.Value(0).NumPolygons())
	assert.Equal(t, 1, a.Value(1).NumPolygons())
	assert.Equal(t, XYCoord(10, 10), a.Value(0).PolygonAt(1).Ring(0).CoordAt(0))
}

func TestMultiLineStringArray_Slice(t *testing.T) {
	b := NewMultiLineStringBuilder[int32](Interleaved, XY)
	for i := 0; i < 3; i++ {
		f := float64(i * 10)
		ml := mustFromOrb(t, orb.MultiLineString{
			{{f, f}, {f + 1, f + 1}},
			{{f + 2, f + 2}, {f + 3, f + 3}, {f + 4, f + 4}},
		}).(MultiLineStringGeometry)
		require.NoError(t, b.PushMultiLineString(ml))
	}
	a := b.Finish()

	s := a.Slice(1, 2)
	require.Equal(t, 2, s.Len())
	assert.Equal(t, 2, s.Value(0).NumLineStrings())
	assert.Equal(t, XYCoord(10, 10), s.Value(0).LineStringAt(0).CoordAt(0))
	assert.True(t, a.Slice(1, 2).Slice(1, 1).Equal(a.Slice(2, 1)))
}

func TestMultiPointBuilder(t *testing.T) {
	b := NewMultiPointBuilder[int32](Interleaved, XY)

	mp := mustFromOrb(t, orb.MultiPoint{{0, 0}, {1, 1}}).(MultiPointGeometry)
	require.NoError(t, b.PushMultiPoint(mp))
	require.NoError(t, b.PushPoint(NewPoint(XYCoord(9, 9))))
	require.NoError(t, b.PushNull())

	a := b.Finish()
	require.Equal(t, 3, a.Len())
	assert.Equal(t, []int32{0, 2, 3, 3}, a.GeomOffsets().Values())
	assert.Equal(t, 1, a.Value(1).NumPoints())
	assert.False(t, a.IsValid(2))
}
