package wkb

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/tingold/geoarrow"
)

const (
	ewkbZFlag    = 0x80000000
	ewkbMFlag    = 0x40000000
	ewkbSRIDFlag = 0x20000000
)

// Decode scans one WKB record and returns a lazy view over its bytes.
// Coordinates are not materialized; the views read doubles on demand.
// Trailing bytes after the record are rejected.
func Decode(buf []byte) (geoarrow.Geometry, error) {
	p := &parser{buf: buf}
	g, err := p.geometry()
	if err != nil {
		return nil, err
	}
	if p.pos != len(buf) {
		return nil, fmt.Errorf("wkb: %d trailing bytes after record", len(buf)-p.pos)
	}
	return g, nil
}

type parser struct {
	buf []byte
	pos int
}

func (p *parser) need(n int) error {
	if n < 0 || p.pos+n > len(p.buf) {
		return ErrTruncated
	}
	return nil
}

func (p *parser) byteOrder() (binary.ByteOrder, error) {
	if err := p.need(1); err != nil {
		return nil, err
	}
	marker := p.buf[p.pos]
	p.pos++
	switch marker {
	case 0:
		return binary.BigEndian, nil
	case 1:
		return binary.LittleEndian, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrByteOrder, marker)
	}
}

func (p *parser) count(order binary.ByteOrder) (int, error) {
	if err := p.need(4); err != nil {
		return 0, err
	}
	n := order.Uint32(p.buf[p.pos:])
	p.pos += 4
	return int(n), nil
}

// header reads the byte order marker and geometry code, resolving both the
// ISO plane-dimension offsets and the EWKB flag bits, and skipping an
// embedded SRID when flagged.
func (p *parser) header() (binary.ByteOrder, geoarrow.Type, geoarrow.Dimension, error) {
	order, err := p.byteOrder()
	if err != nil {
		return nil, 0, 0, err
	}
	if err := p.need(4); err != nil {
		return nil, 0, 0, err
	}
	code := order.Uint32(p.buf[p.pos:])
	p.pos += 4

	hasZ := code&ewkbZFlag != 0
	hasM := code&ewkbMFlag != 0
	hasSRID := code&ewkbSRIDFlag != 0
	code &^= ewkbZFlag | ewkbMFlag | ewkbSRIDFlag

	switch code / 1000 {
	case 0:
	case 1:
		hasZ = true
	case 2:
		hasM = true
	case 3:
		hasZ, hasM = true, true
	default:
		return nil, 0, 0, fmt.Errorf("%w: %d", ErrUnknownType, code)
	}
	kind := code % 1000
	if kind < 1 || kind > 7 {
		return nil, 0, 0, fmt.Errorf("%w: %d", ErrUnknownType, code)
	}

	var dim geoarrow.Dimension
	switch {
	case hasZ && hasM:
		dim = geoarrow.XYZM
	case hasZ:
		dim = geoarrow.XYZ
	case hasM:
		dim = geoarrow.XYM
	default:
		dim = geoarrow.XY
	}

	if hasSRID {
		if err := p.need(4); err != nil {
			return nil, 0, 0, err
		}
		p.pos += 4
	}
	return order, geoarrow.Type(kind), dim, nil
}

func (p *parser) geometry() (geoarrow.Geometry, error) {
	order, t, dim, err := p.header()
	if err != nil {
		return nil, err
	}
	switch t {
	case geoarrow.TypePoint:
		return p.point(order, dim)
	case geoarrow.TypeLineString:
		return p.lineString(order, dim)
	case geoarrow.TypePolygon:
		return p.polygon(order, dim)
	case geoarrow.TypeMultiPoint:
		return p.multiPoint(order, dim)
	case geoarrow.TypeMultiLineString:
		return p.multiLineString(order, dim)
	case geoarrow.TypeMultiPolygon:
		return p.multiPolygon(order, dim)
	default:
		return p.collection(order, dim)
	}
}

func (p *parser) point(order binary.ByteOrder, dim geoarrow.Dimension) (Point, error) {
	n := dim.Size() * 8
	if err := p.need(n); err != nil {
		return Point{}, err
	}
	v := Point{buf: p.buf, order: order, dim: dim, at: p.pos}
	p.pos += n
	return v, nil
}

// lineString reads a count-prefixed coordinate run. Polygon rings share this
// shape, minus the header the caller already consumed.
func (p *parser) lineString(order binary.ByteOrder, dim geoarrow.Dimension) (LineString, error) {
	n, err := p.count(order)
	if err != nil {
		return LineString{}, err
	}
	stride := dim.Size() * 8
	if n > (len(p.buf)-p.pos)/stride {
		return LineString{}, ErrTruncated
	}
	v := LineString{buf: p.buf, order: order, dim: dim, at: p.pos, n: n}
	p.pos += n * stride
	return v, nil
}

func (p *parser) polygon(order binary.ByteOrder, dim geoarrow.Dimension) (Polygon, error) {
	n, err := p.count(order)
	if err != nil {
		return Polygon{}, err
	}
	if n > (len(p.buf)-p.pos)/4 {
		return Polygon{}, ErrTruncated
	}
	rings := make([]LineString, n)
	for i := range rings {
		ring, err := p.lineString(order, dim)
		if err != nil {
			return Polygon{}, err
		}
		rings[i] = ring
	}
	return Polygon{dim: dim, rings: rings}, nil
}

// member reads one nested geometry, checking its kind and dimension against
// the enclosing record.
func (p *parser) member(want geoarrow.Type, dim geoarrow.Dimension) (geoarrow.Geometry, error) {
	order, t, d, err := p.header()
	if err != nil {
		return nil, err
	}
	if t != want {
		return nil, fmt.Errorf("%w: %s inside %s", ErrUnexpectedType, t, want)
	}
	if d != dim {
		return nil, fmt.Errorf("%w: %s member in %s record", ErrMixedDimensions, d, dim)
	}
	switch t {
	case geoarrow.TypePoint:
		return p.point(order, d)
	case geoarrow.TypeLineString:
		return p.lineString(order, d)
	default:
		return p.polygon(order, d)
	}
}

func (p *parser) multiPoint(order binary.ByteOrder, dim geoarrow.Dimension) (MultiPoint, error) {
	n, err := p.count(order)
	if err != nil {
		return MultiPoint{}, err
	}
	if n > (len(p.buf)-p.pos)/(5+dim.Size()*8) {
		return MultiPoint{}, ErrTruncated
	}
	points := make([]Point, n)
	for i := range points {
		g, err := p.member(geoarrow.TypePoint, dim)
		if err != nil {
			return MultiPoint{}, err
		}
		points[i] = g.(Point)
	}
	return MultiPoint{dim: dim, points: points}, nil
}

func (p *parser) multiLineString(order binary.ByteOrder, dim geoarrow.Dimension) (MultiLineString, error) {
	n, err := p.count(order)
	if err != nil {
		return MultiLineString{}, err
	}
	if n > (len(p.buf)-p.pos)/9 {
		return MultiLineString{}, ErrTruncated
	}
	lines := make([]LineString, n)
	for i := range lines {
		g, err := p.member(geoarrow.TypeLineString, dim)
		if err != nil {
			return MultiLineString{}, err
		}
		lines[i] = g.(LineString)
	}
	return MultiLineString{dim: dim, lines: lines}, nil
}

func (p *parser) multiPolygon(order binary.ByteOrder, dim geoarrow.Dimension) (MultiPolygon, error) {
	n, err := p.count(order)
	if err != nil {
		return MultiPolygon{}, err
	}
	if n > (len(p.buf)-p.pos)/9 {
		return MultiPolygon{}, ErrTruncated
	}
	polys := make([]Polygon, n)
	for i := range polys {
		g, err := p.member(geoarrow.TypePolygon, dim)
		if err != nil {
			return MultiPolygon{}, err
		}
		polys[i] = g.(Polygon)
	}
	return MultiPolygon{dim: dim, polys: polys}, nil
}

func (p *parser) collection(order binary.ByteOrder, dim geoarrow.Dimension) (GeometryCollection, error) {
	n, err := p.count(order)
	if err != nil {
		return GeometryCollection{}, err
	}
	if n > (len(p.buf)-p.pos)/5 {
		return GeometryCollection{}, ErrTruncated
	}
	members := make([]geoarrow.Geometry, n)
	for i := range members {
		g, err := p.geometry()
		if err != nil {
			return GeometryCollection{}, err
		}
		if g.Dim() != dim {
			return GeometryCollection{}, fmt.Errorf("%w: %s member in %s collection",
				ErrMixedDimensions, g.Dim(), dim)
		}
		members[i] = g
	}
	return GeometryCollection{dim: dim, members: members}, nil
}

// Point is a lazy view of a decoded point record.
type Point struct {
	buf   []byte
	order binary.ByteOrder
	dim   geoarrow.Dimension
	at    int
}

func (p Point) GeometryType() geoarrow.Type { return geoarrow.TypePoint }
func (p Point) Dim() geoarrow.Dimension     { return p.dim }

// Coord returns the point's coordinate, with ok=false for the all-NaN empty
// point.
func (p Point) Coord() (geoarrow.Coord, bool) {
	c := readCoord(p.buf, p.order, p.dim, p.at)
	if c.IsNaN() {
		return c, false
	}
	return c, true
}

// LineString is a lazy view of a decoded coordinate run: a line string or a
// polygon ring.
type LineString struct {
	buf   []byte
	order binary.ByteOrder
	dim   geoarrow.Dimension
	at    int
	n     int
}

func (l LineString) GeometryType() geoarrow.Type { return geoarrow.TypeLineString }
func (l LineString) Dim() geoarrow.Dimension     { return l.dim }
func (l LineString) NumCoords() int              { return l.n }

func (l LineString) CoordAt(i int) geoarrow.Coord {
	return readCoord(l.buf, l.order, l.dim, l.at+i*l.dim.Size()*8)
}

// Polygon is a decoded polygon view: ring descriptors are materialized at
// parse time, coordinates stay in the input buffer.
type Polygon struct {
	dim   geoarrow.Dimension
	rings []LineString
}

func (p Polygon) GeometryType() geoarrow.Type { return geoarrow.TypePolygon }
func (p Polygon) Dim() geoarrow.Dimension     { return p.dim }
func (p Polygon) NumRings() int               { return len(p.rings) }

func (p Polygon) Ring(i int) geoarrow.LineStringGeometry { return p.rings[i] }

// MultiPoint is a decoded multi-point view.
type MultiPoint struct {
	dim    geoarrow.Dimension
	points []Point
}

func (m MultiPoint) GeometryType() geoarrow.Type { return geoarrow.TypeMultiPoint }
func (m MultiPoint) Dim() geoarrow.Dimension     { return m.dim }
func (m MultiPoint) NumPoints() int              { return len(m.points) }

func (m MultiPoint) PointAt(i int) geoarrow.PointGeometry { return m.points[i] }

// MultiLineString is a decoded multi-line-string view.
type MultiLineString struct {
	dim   geoarrow.Dimension
	lines []LineString
}

func (m MultiLineString) GeometryType() geoarrow.Type { return geoarrow.TypeMultiLineString }
func (m MultiLineString) Dim() geoarrow.Dimension     { return m.dim }
func (m MultiLineString) NumLineStrings() int         { return len(m.lines) }

func (m MultiLineString) LineStringAt(i int) geoarrow.LineStringGeometry { return m.lines[i] }

// MultiPolygon is a decoded multi-polygon view.
type MultiPolygon struct {
	dim   geoarrow.Dimension
	polys []Polygon
}

func (m MultiPolygon) GeometryType() geoarrow.Type { return geoarrow.TypeMultiPolygon }
func (m MultiPolygon) Dim() geoarrow.Dimension     { return m.dim }
func (m MultiPolygon) NumPolygons() int            { return len(m.polys) }

func (m MultiPolygon) PolygonAt(i int) geoarrow.PolygonGeometry { return m.polys[i] }

// GeometryCollection is a decoded heterogeneous collection view.
type GeometryCollection struct {
	dim     geoarrow.Dimension
	members []geoarrow.Geometry
}

func (c GeometryCollection) GeometryType() geoarrow.Type { return geoarrow.TypeGeometryCollection }
func (c GeometryCollection) Dim() geoarrow.Dimension     { return c.dim }
func (c GeometryCollection) NumGeometries() int          { return len(c.members) }

func (c GeometryCollection) GeometryAt(i int) geoarrow.Geometry { return c.members[i] }

func readCoord(buf []byte, order binary.ByteOrder, dim geoarrow.Dimension, at int) geoarrow.Coord {
	c := geoarrow.Coord{Dim: dim}
	for i := 0; i < dim.Size(); i++ {
		c.Vals[i] = math.Float64frombits(order.Uint64(buf[at+i*8:]))
	}
	return c
}
