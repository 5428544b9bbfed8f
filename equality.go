package geoarrow

// GeometryEqual reports structural equality of two geometry views: same kind,
// same dimension, same shape, and channel-identical coordinates, with one
// exception: two empty points compare equal even though their NaN channels do
// not self-compare numerically, because emptiness is structural.
func GeometryEqual(a, b Geometry) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.GeometryType() != b.GeometryType() || a.Dim() != b.Dim() {
		return false
	}
	switch a.GeometryType() {
	case TypePoint:
		return pointEqual(a.(PointGeometry), b.(PointGeometry))
	case TypeLineString:
		return lineStringEqual(a.(LineStringGeometry), b.(LineStringGeometry))
	case TypePolygon:
		return polygonEqual(a.(PolygonGeometry), b.(PolygonGeometry))
	case TypeMultiPoint:
		am, bm := a.(MultiPointGeometry), b.(MultiPointGeometry)
		if am.NumPoints() != bm.NumPoints() {
			return false
		}
		for i := 0; i < am.NumPoints(); i++ {
			if !pointEqual(am.PointAt(i), bm.PointAt(i)) {
				return false
			}
		}
		return true
	case TypeMultiLineString:
		am, bm := a.(MultiLineStringGeometry), b.(MultiLineStringGeometry)
		if am.NumLineStrings() != bm.NumLineStrings() {
			return false
		}
		for i := 0; i < am.NumLineStrings(); i++ {
			if !lineStringEqual(am.LineStringAt(i), bm.LineStringAt(i)) {
				return false
			}
		}
		return true
	case TypeMultiPolygon:
		am, bm := a.(MultiPolygonGeometry), b.(MultiPolygonGeometry)
		if am.NumPolygons() != bm.NumPolygons() {
			return false
		}
		for i := 0; i < am.NumPolygons(); i++ {
			if !polygonEqual(am.PolygonAt(i), bm.PolygonAt(i)) {
				return false
			}
		}
		return true
	case TypeGeometryCollection:
		ac, bc := a.(CollectionGeometry), b.(CollectionGeometry)
		if ac.NumGeometries() != bc.NumGeometries() {
			return false
		}
		for i := 0; i < ac.NumGeometries(); i++ {
			if !GeometryEqual(ac.GeometryAt(i), bc.GeometryAt(i)) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

func pointEqual(a, b PointGeometry) bool {
	ac, aok := a.Coord()
	bc, bok := b.Coord()
	if aok != bok {
		return false
	}
	if !aok {
		return true
	}
	return ac.Equal(bc)
}

func lineStringEqual(a, b LineStringGeometry) bool {
	if a.NumCoords() != b.NumCoords() {
		return false
	}
	for i := 0; i < a.NumCoords(); i++ {
		if !a.CoordAt(i).Equal(b.CoordAt(i)) {
			return false
		}
	}
	return true
}

func polygonEqual(a, b PolygonGeometry) bool {
	if a.NumRings() != b.NumRings() {
		return false
	}
	for i := 0; i < a.NumRings(); i++ {
		if !lineStringEqual(a.Ring(i), b.Ring(i)) {
			return false
		}
	}
	return true
}
