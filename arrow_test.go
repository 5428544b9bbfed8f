package geoarrow

import (
	"testing"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// arrayEqual compares two geometry arrays element-wise across concrete
// types.
func arrayEqual(t *testing.T, a, b Array) {
	t.Helper()
	require.Equal(t, a.GeometryType(), b.GeometryType())
	require.Equal(t, a.Len(), b.Len())
	require.Equal(t, a.Dim(), b.Dim())
	for i := 0; i < a.Len(); i++ {
		require.Equal(t, a.IsValid(i), b.IsValid(i), "validity at %d", i)
		if !a.IsValid(i) {
			continue
		}
		assert.True(t, GeometryEqual(a.GeometryAt(i), b.GeometryAt(i)), "element %d", i)
	}
}

func arrowRoundTrip(t *testing.T, a Array) Array {
	t.Helper()
	field, err := ArrowField(a, "geometry")
	require.NoError(t, err)
	arr, err := ToArrow(a)
	require.NoError(t, err)
	back, err := FromArrow(arr, field)
	require.NoError(t, err)
	return back
}

func TestArrowRoundTrip_Point(t *testing.T) {
	for _, layout := range []CoordType{Interleaved, Separated} {
		b := NewPointBuilder(layout, XY)
		require.NoError(t, b.PushCoord(XYCoord(1, 2)))
		b.PushEmpty()
		b.PushNull()
		a := b.Finish()

		field, err := ArrowField(a, "geometry")
		require.NoError(t, err)
		assert.Equal(t, "geoarrow.point", field.Metadata.Values()[field.Metadata.FindKey(ExtensionNameKey)])

		if layout == Interleaved {
			fsl, ok := field.Type.(*arrow.FixedSizeListType)
			require.True(t, ok)
			assert.Equal(t, int32(2), fsl.Len())
			assert.Equal(t, "xy", fsl.ElemField().Name)
		} else {
			st, ok := field.Type.(*arrow.StructType)
			require.True(t, ok)
			require.Equal(t, 2, st.NumFields())
			assert.Equal(t, "x", st.Field(0).Name)
			assert.Equal(t, "y", st.Field(1).Name)
		}

		arrayEqual(t, a, arrowRoundTrip(t, a))
	}
}

func TestArrowRoundTrip_Nested(t *testing.T) {
	geoms := []orb.Geometry{
		orb.LineString{{0, 0}, {1, 1}, {2, 0}},
		nil,
		orb.LineString{{5, 5}, {6, 6}},
	}

	b := NewLineStringBuilder[int32](Interleaved, XY)
	for _, g := range geoms {
		require.NoError(t, b.PushGeometry(mustFromOrb(t, g)))
	}
	a := b.Finish()

	field, err := ArrowField(a, "geometry")
	require.NoError(t, err)
	lt, ok := field.Type.(*arrow.ListType)
	require.True(t, ok)
	assert.Equal(t, "vertices", lt.ElemField().Name)

	arrayEqual(t, a, arrowRoundTrip(t, a))
}

func TestArrowRoundTrip_LargeOffsets(t *testing.T) {
	b := NewPolygonBuilder[int64](Interleaved, XY)
	donut := mustFromOrb(t, orb.Polygon{
		{{0, 0}, {10, 0}, {10, 10}, {0, 0}},
		{{2, 2}, {4, 2}, {4, 4}, {2, 2}},
	}).(PolygonGeometry)
	require.NoError(t, b.PushPolygon(donut))
	a := b.Finish()

	field, err := ArrowField(a, "geometry")
	require.NoError(t, err)
	_, ok := field.Type.(*arrow.LargeListType)
	require.True(t, ok)

	back := arrowRoundTrip(t, a)
	_, ok = back.(*PolygonArray[int64])
	require.True(t, ok)
	arrayEqual(t, a, back)
}

func TestArrowRoundTrip_MultiPolygonXYZ(t *testing.T) {
	b := NewMultiPolygonBuilder[int32](Interleaved, XYZ)
	cb := NewCoordBufferBuilder(Interleaved, XYZ, 4)
	for _, v := range [][3]float64{{0, 0, 1}, {4, 0, 1}, {4, 4, 1}, {0, 0, 1}} {
		require.NoError(t, cb.PushCoord(Coord{Dim: XYZ, Vals: [4]float64{v[0], v[1], v[2]}}))
	}
	ring := LineString{coords: cb.Finish(), start: 0, end: 4}
	require.NoError(t, b.PushPolygon(polygonView{rings: []LineStringGeometry{ring}, dim: XYZ}))
	a := b.Finish()

	back := arrowRoundTrip(t, a)
	assert.Equal(t, XYZ, back.Dim())
	arrayEqual(t, a, back)
}

// polygonView is a minimal polygon view for dimensions orb cannot express.
type polygonView struct {
	rings []LineStringGeometry
	dim   Dimension
}

func (p polygonView) GeometryType() Type            { return TypePolygon }
func (p polygonView) Dim() Dimension                { return p.dim }
func (p polygonView) NumRings() int                 { return len(p.rings) }
func (p polygonView) Ring(i int) LineStringGeometry { return p.rings[i] }

func TestArrowRoundTrip_Mixed(t *testing.T) {
	b := NewMixedBuilder[int32](Interleaved, XY)
	require.NoError(t, b.PushGeometry(NewPoint(XYCoord(1, 1))))
	require.NoError(t, b.PushGeometry(mustFromOrb(t, orb.LineString{{0, 0}, {2, 2}})))
	require.NoError(t, b.PushGeometry(mustFromOrb(t, orb.MultiPoint{{3, 3}, {4, 4}})))
	require.NoError(t, b.PushNull())
	a := b.Finish()

	field, err := ArrowField(a, "geometry")
	require.NoError(t, err)
	ut, ok := field.Type.(*arrow.DenseUnionType)
	require.True(t, ok)
	assert.Len(t, ut.Fields(), 6)

	back := arrowRoundTrip(t, a)
	arrayEqual(t, a, back)
	m := back.(*MixedArray[int32])
	assert.Equal(t, TypePoint, m.TypeAt(0))
	assert.Equal(t, TypeLineString, m.TypeAt(1))
	assert.Equal(t, TypeMultiPoint, m.TypeAt(2))
	assert.False(t, m.IsValid(3))
}

func TestArrowRoundTrip_GeometryCollection(t *testing.T) {
	b := NewGeometryCollectionBuilder[int32](Interleaved, XY)
	coll := mustFromOrb(t, orb.Collection{
		orb.Point{1, 1},
		orb.LineString{{0, 0}, {2, 2}},
	}).(CollectionGeometry)
	require.NoError(t, b.PushGeometryCollection(coll))
	require.NoError(t, b.PushNull())
	a := b.Finish()

	arrayEqual(t, a, arrowRoundTrip(t, a))
}

func TestFromArrow_SlicedInput(t *testing.T) {
	b := NewLineStringBuilder[int32](Interleaved, XY)
	for i := 0; i < 4; i++ {
		f := float64(i)
		require.NoError(t, b.PushGeometry(mustFromOrb(t, orb.LineString{{f, f}, {f + 1, f + 1}})))
	}
	a := b.Finish()

	field, err := ArrowField(a, "geometry")
	require.NoError(t, err)
	arr, err := ToArrow(a)
	require.NoError(t, err)

	sliced := array.NewSlice(arr, 1, 3)
	back, err := FromArrow(sliced, field)
	require.NoError(t, err)
	arrayEqual(t, a.Slice(1, 2), back)
}

func TestArrow_SlicedGeoarrowInput(t *testing.T) {
	b := NewPointBuilder(Interleaved, XY)
	require.NoError(t, b.PushCoord(XYCoord(0, 0)))
	b.PushNull()
	require.NoError(t, b.PushCoord(XYCoord(2, 2)))
	a := b.Finish()

	// Exporting an already-sliced array repacks the validity bitmap so the
	// Arrow data needs no bit offset.
	s := a.Slice(1, 2)
	arrayEqual(t, s, arrowRoundTrip(t, s))
}

func TestFromArrow_MissingExtension(t *testing.T) {
	b := NewPointBuilder(Interleaved, XY)
	require.NoError(t, b.PushCoord(XYCoord(0, 0)))
	a := b.Finish()

	arr, err := ToArrow(a)
	require.NoError(t, err)

	_, err = FromArrow(arr, arrow.Field{Name: "geometry", Type: arr.DataType()})
	assert.Error(t, err)
}

func TestArrowField_Metadata(t *testing.T) {
	b := NewPointBuilder(Interleaved, XY)
	b.SetMetadata(&Metadata{Edges: EdgesSpherical})
	require.NoError(t, b.PushCoord(XYCoord(0, 0)))
	a := b.Finish()

	back := arrowRoundTrip(t, a)
	assert.Equal(t, EdgesSpherical, back.Metadata().Edges)
}
