package flatgeobuf

import (
	"math"

	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	"github.com/flatgeobuf/flatgeobuf/src/go/writer"
	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/tingold/geoarrow"
)

// typeToFGB maps an array geometry kind to its FlatGeobuf GeometryType. The
// mixed pseudo-kind maps to Unknown, the format's heterogeneous marker.
func typeToFGB(t geoarrow.Type) flattypes.GeometryType {
	switch t {
	case geoarrow.TypePoint:
		return flattypes.GeometryTypePoint
	case geoarrow.TypeLineString:
		return flattypes.GeometryTypeLineString
	case geoarrow.TypePolygon:
		return flattypes.GeometryTypePolygon
	case geoarrow.TypeMultiPoint:
		return flattypes.GeometryTypeMultiPoint
	case geoarrow.TypeMultiLineString:
		return flattypes.GeometryTypeMultiLineString
	case geoarrow.TypeMultiPolygon:
		return flattypes.GeometryTypeMultiPolygon
	case geoarrow.TypeGeometryCollection:
		return flattypes.GeometryTypeGeometryCollection
	default:
		return flattypes.GeometryTypeUnknown
	}
}

// viewFromFGB wraps a decoded FlatGeobuf geometry as a lazy view suitable
// for pushing into an array builder. Coordinates stay in the flatbuffer until
// the builder reads them. Returns nil for nil or unsupported input.
func viewFromFGB(g *flattypes.Geometry) geoarrow.Geometry {
	if g == nil {
		return nil
	}
	switch g.Type() {
	case flattypes.GeometryTypePoint:
		return fgbPoint{g: g}
	case flattypes.GeometryTypeMultiPoint:
		return fgbMultiPoint{g: g}
	case flattypes.GeometryTypeLineString:
		return fgbLineSpan{g: g, start: 0, end: g.XyLength() / 2}
	case flattypes.GeometryTypeMultiLineString:
		return fgbMultiLineString{g: g, ends: partEnds(g)}
	case flattypes.GeometryTypePolygon:
		return fgbPolygon{g: g, ends: partEnds(g)}
	case flattypes.GeometryTypeMultiPolygon:
		return fgbMultiPolygon{g: g}
	case flattypes.GeometryTypeGeometryCollection:
		return fgbCollection{g: g}
	default:
		return nil
	}
}

// partEnds reads the ring/line boundaries of a geometry. A missing ends
// vector means a single run covering every coordinate.
func partEnds(g *flattypes.Geometry) []int {
	n := g.EndsLength()
	if n == 0 {
		if g.XyLength() >= 2 {
			return []int{g.XyLength() / 2}
		}
		return nil
	}
	ends := make([]int, n)
	for i := range ends {
		ends[i] = int(g.Ends(i))
	}
	return ends
}

func fgbCoordAt(g *flattypes.Geometry, i int) geoarrow.Coord {
	return geoarrow.XYCoord(g.Xy(2*i), g.Xy(2*i+1))
}

type fgbPoint struct {
	g *flattypes.Geometry
	// at selects a point inside a multi-point coordinate run.
	at int
}

func (p fgbPoint) GeometryType() geoarrow.Type { return geoarrow.TypePoint }
func (p fgbPoint) Dim() geoarrow.Dimension     { return geoarrow.XY }

func (p fgbPoint) Coord() (geoarrow.Coord, bool) {
	if p.g.XyLength() < 2*(p.at+1) {
		return geoarrow.NaNCoord(geoarrow.XY), false
	}
	c := fgbCoordAt(p.g, p.at)
	if c.IsNaN() {
		return c, false
	}
	return c, true
}

type fgbMultiPoint struct {
	g *flattypes.Geometry
}

func (m fgbMultiPoint) GeometryType() geoarrow.Type { return geoarrow.TypeMultiPoint }
func (m fgbMultiPoint) Dim() geoarrow.Dimension     { return geoarrow.XY }
func (m fgbMultiPoint) NumPoints() int              { return m.g.XyLength() / 2 }

func (m fgbMultiPoint) PointAt(i int) geoarrow.PointGeometry {
	return fgbPoint{g: m.g, at: i}
}

// fgbLineSpan is a run of coordinates [start, end): a whole line string or
// one ring of a polygon.
type fgbLineSpan struct {
	g          *flattypes.Geometry
	start, end int
}

func (l fgbLineSpan) GeometryType() geoarrow.Type { return geoarrow.TypeLineString }
func (l fgbLineSpan) Dim() geoarrow.Dimension     { return geoarrow.XY }
func (l fgbLineSpan) NumCoords() int              { return l.end - l.start }

func (l fgbLineSpan) CoordAt(i int) geoarrow.Coord {
	return fgbCoordAt(l.g, l.start+i)
}

type fgbPolygon struct {
	g    *flattypes.Geometry
	ends []int
}

func (p fgbPolygon) GeometryType() geoarrow.Type { return geoarrow.TypePolygon }
func (p fgbPolygon) Dim() geoarrow.Dimension     { return geoarrow.XY }
func (p fgbPolygon) NumRings() int               { return len(p.ends) }

func (p fgbPolygon) Ring(i int) geoarrow.LineStringGeometry {
	start := 0
	if i > 0 {
		start = p.ends[i-1]
	}
	return fgbLineSpan{g: p.g, start: start, end: p.ends[i]}
}

type fgbMultiLineString struct {
	g    *flattypes.Geometry
	ends []int
}

func (m fgbMultiLineString) GeometryType() geoarrow.Type { return geoarrow.TypeMultiLineString }
func (m fgbMultiLineString) Dim() geoarrow.Dimension     { return geoarrow.XY }
func (m fgbMultiLineString) NumLineStrings() int         { return len(m.ends) }

func (m fgbMultiLineString) LineStringAt(i int) geoarrow.LineStringGeometry {
	start := 0
	if i > 0 {
		start = m.ends[i-1]
	}
	return fgbLineSpan{g: m.g, start: start, end: m.ends[i]}
}

type fgbMultiPolygon struct {
	g *flattypes.Geometry
}

func (m fgbMultiPolygon) GeometryType() geoarrow.Type { return geoarrow.TypeMultiPolygon }
func (m fgbMultiPolygon) Dim() geoarrow.Dimension     { return geoarrow.XY }

func (m fgbMultiPolygon) NumPolygons() int {
	if n := m.g.PartsLength(); n > 0 {
		return n
	}
	// Single-polygon fallback for writers that flatten one-part multis.
	if m.g.XyLength() >= 2 {
		return 1
	}
	return 0
}

func (m fgbMultiPolygon) PolygonAt(i int) geoarrow.PolygonGeometry {
	if m.g.PartsLength() == 0 {
		return fgbPolygon{g: m.g, ends: partEnds(m.g)}
	}
	part := new(flattypes.Geometry)
	if !m.g.Parts(part, i) {
		return fgbPolygon{}
	}
	return fgbPolygon{g: part, ends: partEnds(part)}
}

type fgbCollection struct {
	g *flattypes.Geometry
}

func (c fgbCollection) GeometryType() geoarrow.Type { return geoarrow.TypeGeometryCollection }
func (c fgbCollection) Dim() geoarrow.Dimension     { return geoarrow.XY }
func (c fgbCollection) NumGeometries() int          { return c.g.PartsLength() }

func (c fgbCollection) GeometryAt(i int) geoarrow.Geometry {
	part := new(flattypes.Geometry)
	if !c.g.Parts(part, i) {
		return nil
	}
	return viewFromFGB(part)
}

// viewToFGB converts a geometry view to a FlatGeobuf writer geometry. The
// empty point serializes as a NaN coordinate pair, mirroring the array
// representation.
func viewToFGB(g geoarrow.Geometry, builder *flatbuffers.Builder) (*writer.Geometry, error) {
	if g == nil {
		return nil, nil
	}
	if g.Dim() != geoarrow.XY {
		return nil, ErrNotPlanar
	}

	out := writer.NewGeometry(builder)
	switch g.GeometryType() {
	case geoarrow.TypePoint:
		out.SetType(flattypes.GeometryTypePoint)
		c, ok := g.(geoarrow.PointGeometry).Coord()
		if !ok {
			nan := math.NaN()
			out.SetXY([]float64{nan, nan})
		} else {
			out.SetXY([]float64{c.X(), c.Y()})
		}

	case geoarrow.TypeMultiPoint:
		m := g.(geoarrow.MultiPointGeometry)
		out.SetType(flattypes.GeometryTypeMultiPoint)
		xy := make([]float64, 0, m.NumPoints()*2)
		for i := 0; i < m.NumPoints(); i++ {
			c, ok := m.PointAt(i).Coord()
			if !ok {
				c = geoarrow.NaNCoord(geoarrow.XY)
			}
			xy = append(xy, c.X(), c.Y())
		}
		out.SetXY(xy)

	case geoarrow.TypeLineString:
		out.SetType(flattypes.GeometryTypeLineString)
		out.SetXY(lineToXY(g.(geoarrow.LineStringGeometry)))

	case geoarrow.TypeMultiLineString:
		m := g.(geoarrow.MultiLineStringGeometry)
		out.SetType(flattypes.GeometryTypeMultiLineString)
		xy, ends := multiLineToXYEnds(m)
		out.SetXY(xy)
		out.SetEnds(ends)

	case geoarrow.TypePolygon:
		p := g.(geoarrow.PolygonGeometry)
		out.SetType(flattypes.GeometryTypePolygon)
		xy, ends := polygonToXYEnds(p)
		out.SetXY(xy)
		out.SetEnds(ends)

	case geoarrow.TypeMultiPolygon:
		m := g.(geoarrow.MultiPolygonGeometry)
		out.SetType(flattypes.GeometryTypeMultiPolygon)
		parts := make([]writer.Geometry, 0, m.NumPolygons())
		for i := 0; i < m.NumPolygons(); i++ {
			pg := writer.NewGeometry(builder)
			pg.SetType(flattypes.GeometryTypePolygon)
			xy, ends := polygonToXYEnds(m.PolygonAt(i))
			pg.SetXY(xy)
			pg.SetEnds(ends)
			parts = append(parts, *pg)
		}
		out.SetParts(parts)

	case geoarrow.TypeGeometryCollection:
		c := g.(geoarrow.CollectionGeometry)
		out.SetType(flattypes.GeometryTypeGeometryCollection)
		parts := make([]writer.Geometry, 0, c.NumGeometries())
		for i := 0; i < c.NumGeometries(); i++ {
			child, err := viewToFGB(c.GeometryAt(i), builder)
			if err != nil {
				return nil, err
			}
			if child != nil {
				parts = append(parts, *child)
			}
		}
		out.SetParts(parts)

	default:
		return nil, ErrUnsupportedType
	}

	return out, nil
}

func lineToXY(l geoarrow.LineStringGeometry) []float64 {
	xy := make([]float64, 0, l.NumCoords()*2)
	for i := 0; i < l.NumCoords(); i++ {
		c := l.CoordAt(i)
		xy = append(xy, c.X(), c.Y())
	}
	return xy
}

func multiLineToXYEnds(m geoarrow.MultiLineStringGeometry) ([]float64, []uint32) {
	totalCoords := 0
	for i := 0; i < m.NumLineStrings(); i++ {
		totalCoords += m.LineStringAt(i).NumCoords()
	}

	xy := make([]float64, 0, totalCoords*2)
	ends := make([]uint32, 0, m.NumLineStrings())

	cumulative := uint32(0)
	for i := 0; i < m.NumLineStrings(); i++ {
		l := m.LineStringAt(i)
		xy = append(xy, lineToXY(l)...)
		cumulative += uint32(l.NumCoords())
		ends = append(ends, cumulative)
	}

	return xy, ends
}

func polygonToXYEnds(p geoarrow.PolygonGeometry) ([]float64, []uint32) {
	totalCoords := 0
	for i := 0; i < p.NumRings(); i++ {
		totalCoords += p.Ring(i).NumCoords()
	}

	xy := make([]float64, 0, totalCoords*2)
	ends := make([]uint32, 0, p.NumRings())

	cumulative := uint32(0)
	for i := 0; i < p.NumRings(); i++ {
		ring := p.Ring(i)
		xy = append(xy, lineToXY(ring)...)
		cumulative += uint32(ring.NumCoords())
		ends = append(ends, cumulative)
	}

	return xy, ends
}
