package geoarrow

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTypeID(t *testing.T) {
	assert.Equal(t, int8(1), TypeID(TypePoint, XY))
	assert.Equal(t, int8(12), TypeID(TypeLineString, XYZ))
	assert.Equal(t, int8(23), TypeID(TypePolygon, XYM))
	assert.Equal(t, int8(36), TypeID(TypeMultiPolygon, XYZM))
}

func TestParseTypeID(t *testing.T) {
	for _, dim := range []Dimension{XY, XYZ, XYM, XYZM} {
		for kind := TypePoint; kind <= TypeMultiPolygon; kind++ {
			gotKind, gotDim, ok := ParseTypeID(TypeID(kind, dim))
			require.True(t, ok)
			assert.Equal(t, kind, gotKind)
			assert.Equal(t, dim, gotDim)
		}
	}

	for _, id := range []int8{0, 7, 10, 17, 40, -1} {
		_, _, ok := ParseTypeID(id)
		assert.False(t, ok, "id %d", id)
	}
}

func TestDimension(t *testing.T) {
	assert.Equal(t, 2, XY.Size())
	assert.Equal(t, 3, XYZ.Size())
	assert.Equal(t, 3, XYM.Size())
	assert.Equal(t, 4, XYZM.Size())

	assert.True(t, XYZ.HasZ())
	assert.False(t, XYZ.HasM())
	assert.True(t, XYM.HasM())
	assert.True(t, XYZM.HasZ())
	assert.True(t, XYZM.HasM())
}

func TestType_ExtensionName(t *testing.T) {
	assert.Equal(t, "geoarrow.point", TypePoint.ExtensionName())
	assert.Equal(t, "geoarrow.geometrycollection", TypeGeometryCollection.ExtensionName())
	assert.Equal(t, "geoarrow.geometry", TypeMixed.ExtensionName())
}
