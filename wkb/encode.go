package wkb

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/tingold/geoarrow"
)

// Size returns the exact encoded length of a geometry in bytes, so callers
// can pre-size destination buffers.
func Size(g geoarrow.Geometry) int {
	const header = 1 + 4
	switch g.GeometryType() {
	case geoarrow.TypePoint:
		return header + g.Dim().Size()*8
	case geoarrow.TypeLineString:
		l := g.(geoarrow.LineStringGeometry)
		return header + 4 + l.NumCoords()*g.Dim().Size()*8
	case geoarrow.TypePolygon:
		p := g.(geoarrow.PolygonGeometry)
		n := header + 4
		for i := 0; i < p.NumRings(); i++ {
			n += 4 + p.Ring(i).NumCoords()*g.Dim().Size()*8
		}
		return n
	case geoarrow.TypeMultiPoint:
		m := g.(geoarrow.MultiPointGeometry)
		return header + 4 + m.NumPoints()*(header+g.Dim().Size()*8)
	case geoarrow.TypeMultiLineString:
		m := g.(geoarrow.MultiLineStringGeometry)
		n := header + 4
		for i := 0; i < m.NumLineStrings(); i++ {
			n += Size(m.LineStringAt(i))
		}
		return n
	case geoarrow.TypeMultiPolygon:
		m := g.(geoarrow.MultiPolygonGeometry)
		n := header + 4
		for i := 0; i < m.NumPolygons(); i++ {
			n += Size(m.PolygonAt(i))
		}
		return n
	case geoarrow.TypeGeometryCollection:
		c := g.(geoarrow.CollectionGeometry)
		n := header + 4
		for i := 0; i < c.NumGeometries(); i++ {
			n += Size(c.GeometryAt(i))
		}
		return n
	default:
		return 0
	}
}

// Encode serializes one geometry as little-endian ISO WKB. The empty point
// encodes as all-NaN coordinates. The result is allocated at its exact final
// size.
func Encode(g geoarrow.Geometry) ([]byte, error) {
	dst := make([]byte, 0, Size(g))
	return Append(dst, g)
}

// Append serializes g onto dst and returns the extended slice.
func Append(dst []byte, g geoarrow.Geometry) ([]byte, error) {
	t := g.GeometryType()
	if t == geoarrow.TypeMixed {
		return nil, fmt.Errorf("wkb: cannot encode a mixed pseudo-kind element")
	}
	dst = appendHeader(dst, t, g.Dim())
	switch t {
	case geoarrow.TypePoint:
		return appendPointBody(dst, g.(geoarrow.PointGeometry)), nil
	case geoarrow.TypeLineString:
		return appendLineBody(dst, g.(geoarrow.LineStringGeometry)), nil
	case geoarrow.TypePolygon:
		return appendPolygonBody(dst, g.(geoarrow.PolygonGeometry)), nil
	case geoarrow.TypeMultiPoint:
		m := g.(geoarrow.MultiPointGeometry)
		dst = appendCount(dst, m.NumPoints())
		for i := 0; i < m.NumPoints(); i++ {
			p := m.PointAt(i)
			dst = appendHeader(dst, geoarrow.TypePoint, g.Dim())
			dst = appendPointBody(dst, p)
		}
		return dst, nil
	case geoarrow.TypeMultiLineString:
		m := g.(geoarrow.MultiLineStringGeometry)
		dst = appendCount(dst, m.NumLineStrings())
		for i := 0; i < m.NumLineStrings(); i++ {
			dst = appendHeader(dst, geoarrow.TypeLineString, g.Dim())
			dst = appendLineBody(dst, m.LineStringAt(i))
		}
		return dst, nil
	case geoarrow.TypeMultiPolygon:
		m := g.(geoarrow.MultiPolygonGeometry)
		dst = appendCount(dst, m.NumPolygons())
		for i := 0; i < m.NumPolygons(); i++ {
			dst = appendHeader(dst, geoarrow.TypePolygon, g.Dim())
			dst = appendPolygonBody(dst, m.PolygonAt(i))
		}
		return dst, nil
	case geoarrow.TypeGeometryCollection:
		c := g.(geoarrow.CollectionGeometry)
		dst = appendCount(dst, c.NumGeometries())
		for i := 0; i < c.NumGeometries(); i++ {
			var err error
			dst, err = Append(dst, c.GeometryAt(i))
			if err != nil {
				return nil, err
			}
		}
		return dst, nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownType, t)
	}
}

func isoCode(t geoarrow.Type, dim geoarrow.Dimension) uint32 {
	code := uint32(t)
	switch dim {
	case geoarrow.XYZ:
		code += 1000
	case geoarrow.XYM:
		code += 2000
	case geoarrow.XYZM:
		code += 3000
	}
	return code
}

func appendHeader(dst []byte, t geoarrow.Type, dim geoarrow.Dimension) []byte {
	dst = append(dst, 1) // little-endian
	return binary.LittleEndian.AppendUint32(dst, isoCode(t, dim))
}

func appendCount(dst []byte, n int) []byte {
	return binary.LittleEndian.AppendUint32(dst, uint32(n))
}

func appendCoord(dst []byte, c geoarrow.Coord) []byte {
	for i := 0; i < c.Dim.Size(); i++ {
		dst = binary.LittleEndian.AppendUint64(dst, math.Float64bits(c.Vals[i]))
	}
	return dst
}

func appendPointBody(dst []byte, p geoarrow.PointGeometry) []byte {
	c, ok := p.Coord()
	if !ok {
		c = geoarrow.NaNCoord(p.Dim())
	}
	return appendCoord(dst, c)
}

func appendLineBody(dst []byte, l geoarrow.LineStringGeometry) []byte {
	dst = appendCount(dst, l.NumCoords())
	for i := 0; i < l.NumCoords(); i++ {
		dst = appendCoord(dst, l.CoordAt(i))
	}
	return dst
}

func appendPolygonBody(dst []byte, p geoarrow.PolygonGeometry) []byte {
	dst = appendCount(dst, p.NumRings())
	for i := 0; i < p.NumRings(); i++ {
		dst = appendLineBody(dst, p.Ring(i))
	}
	return dst
}
