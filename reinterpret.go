package geoarrow

// Cross-kind reinterpretation. The physical layouts of LineString/MultiPoint
// and Polygon/MultiLineString coincide exactly, so those conversions only
// re-tag the same buffers. Point→MultiPoint and Polygon→MultiPolygon
// additionally materialize one trivial offset buffer; the coordinate buffer
// is shared in every case, never copied.

// LineStringToMultiPoint reinterprets a line string array as a multi-point
// array. All backing buffers are shared.
func LineStringToMultiPoint[O Offset](a *LineStringArray[O]) *MultiPointArray[O] {
	return &MultiPointArray[O]{
		coords:      a.coords,
		geomOffsets: a.geomOffsets,
		nulls:       a.nulls,
		meta:        a.meta,
	}
}

// MultiPointToLineString reinterprets a multi-point array as a line string
// array. All backing buffers are shared.
func MultiPointToLineString[O Offset](a *MultiPointArray[O]) *LineStringArray[O] {
	return &LineStringArray[O]{
		coords:      a.coords,
		geomOffsets: a.geomOffsets,
		nulls:       a.nulls,
		meta:        a.meta,
	}
}

// PolygonToMultiLineString reinterprets a polygon array as a
// multi-line-string array: rings become member line strings. All backing
// buffers are shared.
func PolygonToMultiLineString[O Offset](a *PolygonArray[O]) *MultiLineStringArray[O] {
	return &MultiLineStringArray[O]{
		coords:      a.coords,
		ringOffsets: a.ringOffsets,
		geomOffsets: a.geomOffsets,
		nulls:       a.nulls,
		meta:        a.meta,
	}
}

// MultiLineStringToPolygon reinterprets a multi-line-string array as a
// polygon array: member line strings become rings. All backing buffers are
// shared.
func MultiLineStringToPolygon[O Offset](a *MultiLineStringArray[O]) *PolygonArray[O] {
	return &PolygonArray[O]{
		coords:      a.coords,
		ringOffsets: a.ringOffsets,
		geomOffsets: a.geomOffsets,
		nulls:       a.nulls,
		meta:        a.meta,
	}
}

// PointToMultiPoint converts a point array to a multi-point array of
// length-1 elements. The coordinate buffer is shared; only the unit offset
// buffer is materialized.
func PointToMultiPoint[O Offset](a *PointArray) *MultiPointArray[O] {
	return &MultiPointArray[O]{
		coords:      a.coords,
		geomOffsets: unitOffsets[O](a.Len()),
		nulls:       a.nulls,
		meta:        a.meta,
	}
}

// PolygonToMultiPolygon converts a polygon array to a multi-polygon array of
// length-1 elements. The coordinate and ring buffers are shared; the polygon
// level reuses the geometry offsets and only the unit geometry offset buffer
// is materialized.
func PolygonToMultiPolygon[O Offset](a *PolygonArray[O]) *MultiPolygonArray[O] {
	return &MultiPolygonArray[O]{
		coords:         a.coords,
		ringOffsets:    a.ringOffsets,
		polygonOffsets: a.geomOffsets,
		geomOffsets:    unitOffsets[O](a.geomOffsets.Len()),
		nulls:          a.nulls,
		meta:           a.meta,
	}
}

// unitOffsets builds the offset sequence 0,1,...,n.
func unitOffsets[O Offset](n int) Offsets[O] {
	buf := make([]O, n+1)
	for i := range buf {
		buf[i] = O(i)
	}
	return Offsets[O]{buf: buf}
}
