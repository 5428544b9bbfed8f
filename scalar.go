package geoarrow

// Scalar views returned by array accessors. Each view is lazily addressed: it
// borrows the parent array's backing buffers and resolves coordinates only
// when asked, so taking a value never materializes or copies geometry data.

// Point is a scalar view of one element of a PointArray.
type Point struct {
	coords CoordBuffer
	i      int
}

// NewPoint returns a standalone point view over a single coordinate. An
// all-NaN coordinate yields the empty point.
func NewPoint(c Coord) Point {
	b := NewCoordBufferBuilder(Interleaved, c.Dim, 1)
	b.pushVals(c.Vals)
	return Point{coords: b.Finish()}
}

func (p Point) GeometryType() Type { return TypePoint }

// Dim returns the coordinate dimension.
func (p Point) Dim() Dimension { return p.coords.Dim() }

// Coord returns the point's coordinate, reporting ok=false for the empty
// point (the all-NaN encoding).
func (p Point) Coord() (Coord, bool) {
	c := p.coords.Value(p.i)
	if c.IsNaN() {
		return c, false
	}
	return c, true
}

// LineString is a scalar view of one element of a LineStringArray, and also
// serves as a ring view within polygon values.
type LineString struct {
	coords     CoordBuffer
	start, end int
}

func (l LineString) GeometryType() Type { return TypeLineString }

func (l LineString) Dim() Dimension { return l.coords.Dim() }

// NumCoords returns the number of vertices.
func (l LineString) NumCoords() int { return l.end - l.start }

// CoordAt returns vertex i.
func (l LineString) CoordAt(i int) Coord { return l.coords.Value(l.start + i) }

// Polygon is a scalar view of one element of a PolygonArray.
type Polygon[O Offset] struct {
	coords      CoordBuffer
	ringOffsets Offsets[O]
	start, end  int
}

func (p Polygon[O]) GeometryType() Type { return TypePolygon }

func (p Polygon[O]) Dim() Dimension { return p.coords.Dim() }

// NumRings returns the ring count; the exterior ring is ring 0.
func (p Polygon[O]) NumRings() int { return p.end - p.start }

// Ring returns ring i as a coordinate-sequence view.
func (p Polygon[O]) Ring(i int) LineStringGeometry {
	start, end := p.ringOffsets.Range(p.start + i)
	return LineString{coords: p.coords, start: start, end: end}
}

// MultiPoint is a scalar view of one element of a MultiPointArray.
type MultiPoint struct {
	coords     CoordBuffer
	start, end int
}

func (m MultiPoint) GeometryType() Type { return TypeMultiPoint }

func (m MultiPoint) Dim() Dimension { return m.coords.Dim() }

// NumPoints returns the number of member points.
func (m MultiPoint) NumPoints() int { return m.end - m.start }

// PointAt returns member point i.
func (m MultiPoint) PointAt(i int) PointGeometry {
	return Point{coords: m.coords, i: m.start + i}
}

// MultiLineString is a scalar view of one element of a MultiLineStringArray.
type MultiLineString[O Offset] struct {
	coords      CoordBuffer
	ringOffsets Offsets[O]
	start, end  int
}

func (m MultiLineString[O]) GeometryType() Type { return TypeMultiLineString }

func (m MultiLineString[O]) Dim() Dimension { return m.coords.Dim() }

// NumLineStrings returns the number of member line strings.
func (m MultiLineString[O]) NumLineStrings() int { return m.end - m.start }

// LineStringAt returns member line string i.
func (m MultiLineString[O]) LineStringAt(i int) LineStringGeometry {
	start, end := m.ringOffsets.Range(m.start + i)
	return LineString{coords: m.coords, start: start, end: end}
}

// MultiPolygon is a scalar view of one element of a MultiPolygonArray.
type MultiPolygon[O Offset] struct {
	coords         CoordBuffer
	ringOffsets    Offsets[O]
	polygonOffsets Offsets[O]
	start, end     int
}

func (m MultiPolygon[O]) GeometryType() Type { return TypeMultiPolygon }

func (m MultiPolygon[O]) Dim() Dimension { return m.coords.Dim() }

// NumPolygons returns the number of member polygons.
func (m MultiPolygon[O]) NumPolygons() int { return m.end - m.start }

// PolygonAt returns member polygon i.
func (m MultiPolygon[O]) PolygonAt(i int) PolygonGeometry {
	start, end := m.polygonOffsets.Range(m.start + i)
	return Polygon[O]{coords: m.coords, ringOffsets: m.ringOffsets, start: start, end: end}
}

// Collection is a scalar view of one element of a GeometryCollectionArray.
type Collection[O Offset] struct {
	mixed      *MixedArray[O]
	start, end int
}

func (c Collection[O]) GeometryType() Type { return TypeGeometryCollection }

func (c Collection[O]) Dim() Dimension { return c.mixed.Dim() }

// NumGeometries returns the number of member geometries.
func (c Collection[O]) NumGeometries() int { return c.end - c.start }

// GeometryAt returns member geometry i.
func (c Collection[O]) GeometryAt(i int) Geometry {
	return c.mixed.Value(c.start + i)
}
