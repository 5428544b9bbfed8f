package geoarrow

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
)

// Adapters between orb geometries and the view interfaces consumed by
// builders. orb models planar XY geometries only, so these adapters always
// carry Dimension XY; the empty point maps to the all-NaN orb.Point in both
// directions.

// FromOrb wraps an orb geometry as a view that can be pushed into any
// builder. A Ring or Bound wraps as a single-ring polygon, matching how
// those shapes serialize. Nil input returns nil (a null push).
func FromOrb(g orb.Geometry) (Geometry, error) {
	switch v := g.(type) {
	case nil:
		return nil, nil
	case orb.Point:
		return orbPoint{v}, nil
	case orb.MultiPoint:
		return orbMultiPoint{v}, nil
	case orb.LineString:
		return orbLineString{v}, nil
	case orb.MultiLineString:
		return orbMultiLineString{v}, nil
	case orb.Ring:
		return orbPolygon{orb.Polygon{v}}, nil
	case orb.Polygon:
		return orbPolygon{v}, nil
	case orb.MultiPolygon:
		return orbMultiPolygon{v}, nil
	case orb.Collection:
		return orbCollection{v}, nil
	case orb.Bound:
		return orbPolygon{v.ToPolygon()}, nil
	default:
		return nil, fmt.Errorf("geoarrow: unsupported orb geometry %T", g)
	}
}

// ToOrb materializes a geometry view as an orb geometry. It fails for
// non-XY views since orb carries no Z or M channels. Nil input returns nil.
func ToOrb(g Geometry) (orb.Geometry, error) {
	if g == nil {
		return nil, nil
	}
	if g.Dim() != XY {
		return nil, fmt.Errorf("%w: cannot express %s geometry in orb", ErrDimension, g.Dim())
	}
	switch g.GeometryType() {
	case TypePoint:
		p := g.(PointGeometry)
		c, ok := p.Coord()
		if !ok {
			return orb.Point{math.NaN(), math.NaN()}, nil
		}
		return orb.Point{c.X(), c.Y()}, nil
	case TypeLineString:
		return orbLineFromView(g.(LineStringGeometry)), nil
	case TypePolygon:
		return orbPolygonFromView(g.(PolygonGeometry)), nil
	case TypeMultiPoint:
		mp := g.(MultiPointGeometry)
		out := make(orb.MultiPoint, mp.NumPoints())
		for i := range out {
			c, ok := mp.PointAt(i).Coord()
			if !ok {
				out[i] = orb.Point{math.NaN(), math.NaN()}
				continue
			}
			out[i] = orb.Point{c.X(), c.Y()}
		}
		return out, nil
	case TypeMultiLineString:
		ml := g.(MultiLineStringGeometry)
		out := make(orb.MultiLineString, ml.NumLineStrings())
		for i := range out {
			out[i] = orbLineFromView(ml.LineStringAt(i))
		}
		return out, nil
	case TypeMultiPolygon:
		mp := g.(MultiPolygonGeometry)
		out := make(orb.MultiPolygon, mp.NumPolygons())
		for i := range out {
			out[i] = orbPolygonFromView(mp.PolygonAt(i))
		}
		return out, nil
	case TypeGeometryCollection:
		coll := g.(CollectionGeometry)
		out := make(orb.Collection, coll.NumGeometries())
		for i := range out {
			member, err := ToOrb(coll.GeometryAt(i))
			if err != nil {
				return nil, err
			}
			out[i] = member
		}
		return out, nil
	default:
		return nil, fmt.Errorf("geoarrow: unsupported geometry kind %s", g.GeometryType())
	}
}

func orbLineFromView(l LineStringGeometry) orb.LineString {
	out := make(orb.LineString, l.NumCoords())
	for i := range out {
		c := l.CoordAt(i)
		out[i] = orb.Point{c.X(), c.Y()}
	}
	return out
}

func orbPolygonFromView(p PolygonGeometry) orb.Polygon {
	out := make(orb.Polygon, p.NumRings())
	for i := range out {
		ring := p.Ring(i)
		r := make(orb.Ring, ring.NumCoords())
		for j := range r {
			c := ring.CoordAt(j)
			r[j] = orb.Point{c.X(), c.Y()}
		}
		out[i] = r
	}
	return out
}

type orbPoint struct{ p orb.Point }

func (o orbPoint) GeometryType() Type { return TypePoint }
func (o orbPoint) Dim() Dimension     { return XY }

func (o orbPoint) Coord() (Coord, bool) {
	c := XYCoord(o.p[0], o.p[1])
	if c.IsNaN() {
		return c, false
	}
	return c, true
}

type orbLineString struct{ l orb.LineString }

func (o orbLineString) GeometryType() Type { return TypeLineString }
func (o orbLineString) Dim() Dimension     { return XY }
func (o orbLineString) NumCoords() int     { return len(o.l) }

func (o orbLineString) CoordAt(i int) Coord { return XYCoord(o.l[i][0], o.l[i][1]) }

type orbRing struct{ r orb.Ring }

func (o orbRing) GeometryType() Type  { return TypeLineString }
func (o orbRing) Dim() Dimension      { return XY }
func (o orbRing) NumCoords() int      { return len(o.r) }
func (o orbRing) CoordAt(i int) Coord { return XYCoord(o.r[i][0], o.r[i][1]) }

type orbPolygon struct{ p orb.Polygon }

func (o orbPolygon) GeometryType() Type { return TypePolygon }
func (o orbPolygon) Dim() Dimension     { return XY }
func (o orbPolygon) NumRings() int      { return len(o.p) }

func (o orbPolygon) Ring(i int) LineStringGeometry { return orbRing{o.p[i]} }

type orbMultiPoint struct{ m orb.MultiPoint }

func (o orbMultiPoint) GeometryType() Type { return TypeMultiPoint }
func (o orbMultiPoint) Dim() Dimension     { return XY }
func (o orbMultiPoint) NumPoints() int     { return len(o.m) }

func (o orbMultiPoint) PointAt(i int) PointGeometry { return orbPoint{o.m[i]} }

type orbMultiLineString struct{ m orb.MultiLineString }

func (o orbMultiLineString) GeometryType() Type { return TypeMultiLineString }
func (o orbMultiLineString) Dim() Dimension     { return XY }
func (o orbMultiLineString) NumLineStrings() int { return len(o.m) }

func (o orbMultiLineString) LineStringAt(i int) LineStringGeometry { return orbLineString{o.m[i]} }

type orbMultiPolygon struct{ m orb.MultiPolygon }

func (o orbMultiPolygon) GeometryType() Type { return TypeMultiPolygon }
func (o orbMultiPolygon) Dim() Dimension     { return XY }
func (o orbMultiPolygon) NumPolygons() int   { return len(o.m) }

func (o orbMultiPolygon) PolygonAt(i int) PolygonGeometry { return orbPolygon{o.m[i]} }

type orbCollection struct{ c orb.Collection }

func (o orbCollection) GeometryType() Type { return TypeGeometryCollection }
func (o orbCollection) Dim() Dimension     { return XY }
func (o orbCollection) NumGeometries() int { return len(o.c) }

func (o orbCollection) GeometryAt(i int) Geometry {
	g, err := FromOrb(o.c[i])
	if err != nil {
		return nil
	}
	return g
}
