package geoarrow

import "math"

// Coord is a single coordinate tuple of up to four channels. Channels beyond
// Dim.Size() are unused.
type Coord struct {
	Dim  Dimension
	Vals [4]float64
}

// XYCoord returns a two-dimensional coordinate.
func XYCoord(x, y float64) Coord {
	return Coord{Dim: XY, Vals: [4]float64{x, y}}
}

// NaNCoord returns the all-NaN coordinate of the given dimension, the
// canonical encoding of a valid but empty point.
func NaNCoord(dim Dimension) Coord {
	nan := math.NaN()
	return Coord{Dim: dim, Vals: [4]float64{nan, nan, nan, nan}}
}

// X returns the first channel.
func (c Coord) X() float64 { return c.Vals[0] }

// Y returns the second channel.
func (c Coord) Y() float64 { return c.Vals[1] }

// Z returns the Z channel, or NaN when the dimension has none.
func (c Coord) Z() float64 {
	if c.Dim.HasZ() {
		return c.Vals[2]
	}
	return math.NaN()
}

// M returns the M channel, or NaN when the dimension has none.
func (c Coord) M() float64 {
	switch c.Dim {
	case XYM:
		return c.Vals[2]
	case XYZM:
		return c.Vals[3]
	default:
		return math.NaN()
	}
}

// IsNaN reports whether every channel is NaN, the empty-point encoding.
func (c Coord) IsNaN() bool {
	for i := 0; i < c.Dim.Size(); i++ {
		if !math.IsNaN(c.Vals[i]) {
			return false
		}
	}
	return true
}

// Equal compares two coordinates channel by channel, treating the all-NaN
// (empty point) encoding as self-equal.
func (c Coord) Equal(other Coord) bool {
	if c.Dim != other.Dim {
		return false
	}
	if c.IsNaN() && other.IsNaN() {
		return true
	}
	for i := 0; i < c.Dim.Size(); i++ {
		if c.Vals[i] != other.Vals[i] {
			return false
		}
	}
	return true
}

// Geometry is a read-only view of a single geometry of any kind. It is the
// interface format readers implement to feed geometries into builders, and
// the interface array accessors return: the core never depends on any
// parser's own geometry model.
//
// A value's concrete capability is discovered by switching on GeometryType
// and asserting the corresponding kind interface.
type Geometry interface {
	GeometryType() Type
	Dim() Dimension
}

// PointGeometry is a view of a single point. Coord reports ok=false for the
// empty point.
type PointGeometry interface {
	Geometry
	Coord() (Coord, bool)
}

// LineStringGeometry is a view of a coordinate sequence. Ring views also
// satisfy it.
type LineStringGeometry interface {
	Geometry
	NumCoords() int
	CoordAt(i int) Coord
}

// PolygonGeometry is a view of a polygon: an exterior ring followed by any
// interior rings.
type PolygonGeometry interface {
	Geometry
	NumRings() int
	Ring(i int) LineStringGeometry
}

// MultiPointGeometry is a view of a collection of points.
type MultiPointGeometry interface {
	Geometry
	NumPoints() int
	PointAt(i int) PointGeometry
}

// MultiLineStringGeometry is a view of a collection of line strings.
type MultiLineStringGeometry interface {
	Geometry
	NumLineStrings() int
	LineStringAt(i int) LineStringGeometry
}

// MultiPolygonGeometry is a view of a collection of polygons.
type MultiPolygonGeometry interface {
	Geometry
	NumPolygons() int
	PolygonAt(i int) PolygonGeometry
}

// CollectionGeometry is a view of a heterogeneous geometry collection.
type CollectionGeometry interface {
	Geometry
	NumGeometries() int
	GeometryAt(i int) Geometry
}
