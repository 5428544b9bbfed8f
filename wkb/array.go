package wkb

import (
	"github.com/tingold/geoarrow"
)

// The Read* functions build a geometry array from a batch of WKB records in
// two passes: decode every record into a lazy view and tally exact
// capacities, then fill a builder allocated to those capacities. A nil
// record is a null element. The coordinate dimension is inferred from the
// first non-null record; mixing dimensions within a batch is an error.

// decodeAll is pass one: decode the batch and settle its dimension.
func decodeAll(records [][]byte) ([]geoarrow.Geometry, geoarrow.Dimension, error) {
	views := make([]geoarrow.Geometry, len(records))
	dim := geoarrow.XY
	dimSet := false
	for i, rec := range records {
		if rec == nil {
			continue
		}
		g, err := Decode(rec)
		if err != nil {
			return nil, 0, recordErr(i, err)
		}
		if dimSet && g.Dim() != dim {
			return nil, 0, recordErr(i, ErrMixedDimensions)
		}
		dim, dimSet = g.Dim(), true
		views[i] = g
	}
	return views, dim, nil
}

func wantKind(i int, g geoarrow.Geometry, want geoarrow.Type) error {
	if g.GeometryType() != want {
		return recordErr(i, &geoarrow.TypeMismatchError{Expected: want, Actual: g.GeometryType()})
	}
	return nil
}

// ReadPoints parses a batch of WKB point records into a point array.
func ReadPoints(records [][]byte, layout geoarrow.CoordType) (*geoarrow.PointArray, error) {
	views, dim, err := decodeAll(records)
	if err != nil {
		return nil, err
	}
	var capacity geoarrow.PointCapacity
	for i, v := range views {
		if v == nil {
			capacity.AddPoint(nil)
			continue
		}
		if err := wantKind(i, v, geoarrow.TypePoint); err != nil {
			return nil, err
		}
		capacity.AddPoint(v.(geoarrow.PointGeometry))
	}
	b := geoarrow.NewPointBuilderWithCapacity(layout, dim, capacity.Geoms)
	for i, v := range views {
		if err := b.PushGeometry(v); err != nil {
			return nil, recordErr(i, err)
		}
	}
	return b.Finish(), nil
}

// ReadLineStrings parses a batch of WKB line string records.
func ReadLineStrings[O geoarrow.Offset](records [][]byte, layout geoarrow.CoordType) (*geoarrow.LineStringArray[O], error) {
	views, dim, err := decodeAll(records)
	if err != nil {
		return nil, err
	}
	var capacity geoarrow.LineStringCapacity
	for i, v := range views {
		if v == nil {
			capacity.AddLineString(nil)
			continue
		}
		if err := wantKind(i, v, geoarrow.TypeLineString); err != nil {
			return nil, err
		}
		capacity.AddLineString(v.(geoarrow.LineStringGeometry))
	}
	b := geoarrow.NewLineStringBuilderWithCapacity[O](layout, dim, capacity)
	for i, v := range views {
		if err := b.PushGeometry(v); err != nil {
			return nil, recordErr(i, err)
		}
	}
	return b.Finish(), nil
}

// ReadPolygons parses a batch of WKB polygon records.
func ReadPolygons[O geoarrow.Offset](records [][]byte, layout geoarrow.CoordType) (*geoarrow.PolygonArray[O], error) {
	views, dim, err := decodeAll(records)
	if err != nil {
		return nil, err
	}
	var capacity geoarrow.PolygonCapacity
	for i, v := range views {
		if v == nil {
			capacity.AddPolygon(nil)
			continue
		}
		if err := wantKind(i, v, geoarrow.TypePolygon); err != nil {
			return nil, err
		}
		capacity.AddPolygon(v.(geoarrow.PolygonGeometry))
	}
	b := geoarrow.NewPolygonBuilderWithCapacity[O](layout, dim, capacity)
	for i, v := range views {
		if err := b.PushGeometry(v); err != nil {
			return nil, recordErr(i, err)
		}
	}
	return b.Finish(), nil
}

// ReadMultiPoints parses a batch of WKB multi-point records. Plain point
// records are accepted as single-part multi points.
func ReadMultiPoints[O geoarrow.Offset](records [][]byte, layout geoarrow.CoordType) (*geoarrow.MultiPointArray[O], error) {
	views, dim, err := decodeAll(records)
	if err != nil {
		return nil, err
	}
	var capacity geoarrow.MultiPointCapacity
	for i, v := range views {
		switch g := v.(type) {
		case nil:
			capacity.AddMultiPoint(nil)
		case geoarrow.MultiPointGeometry:
			capacity.AddMultiPoint(g)
		case geoarrow.PointGeometry:
			capacity.AddPoint(g)
		default:
			return nil, recordErr(i, &geoarrow.TypeMismatchError{
				Expected: geoarrow.TypeMultiPoint, Actual: v.GeometryType(),
			})
		}
	}
	b := geoarrow.NewMultiPointBuilderWithCapacity[O](layout, dim, capacity)
	for i, v := range views {
		if err := b.PushGeometry(v); err != nil {
			return nil, recordErr(i, err)
		}
	}
	return b.Finish(), nil
}

// ReadMultiLineStrings parses a batch of WKB multi-line-string records.
// Plain line string records are accepted as single-part multi line strings.
func ReadMultiLineStrings[O geoarrow.Offset](records [][]byte, layout geoarrow.CoordType) (*geoarrow.MultiLineStringArray[O], error) {
	views, dim, err := decodeAll(records)
	if err != nil {
		return nil, err
	}
	var capacity geoarrow.MultiLineStringCapacity
	for i, v := range views {
		switch g := v.(type) {
		case nil:
			capacity.AddMultiLineString(nil)
		case geoarrow.MultiLineStringGeometry:
			capacity.AddMultiLineString(g)
		case geoarrow.LineStringGeometry:
			capacity.AddLineString(g)
		default:
			return nil, recordErr(i, &geoarrow.TypeMismatchError{
				Expected: geoarrow.TypeMultiLineString, Actual: v.GeometryType(),
			})
		}
	}
	b := geoarrow.NewMultiLineStringBuilderWithCapacity[O](layout, dim, capacity)
	for i, v := range views {
		if err := b.PushGeometry(v); err != nil {
			return nil, recordErr(i, err)
		}
	}
	return b.Finish(), nil
}

// ReadMultiPolygons parses a batch of WKB multi-polygon records. Plain
// polygon records are accepted as single-part multi polygons.
func ReadMultiPolygons[O geoarrow.Offset](records [][]byte, layout geoarrow.CoordType) (*geoarrow.MultiPolygonArray[O], error) {
	views, dim, err := decodeAll(records)
	if err != nil {
		return nil, err
	}
	var capacity geoarrow.MultiPolygonCapacity
	for i, v := range views {
		switch g := v.(type) {
		case nil:
			capacity.AddMultiPolygon(nil)
		case geoarrow.MultiPolygonGeometry:
			capacity.AddMultiPolygon(g)
		case geoarrow.PolygonGeometry:
			capacity.AddPolygon(g)
		default:
			return nil, recordErr(i, &geoarrow.TypeMismatchError{
				Expected: geoarrow.TypeMultiPolygon, Actual: v.GeometryType(),
			})
		}
	}
	b := geoarrow.NewMultiPolygonBuilderWithCapacity[O](layout, dim, capacity)
	for i, v := range views {
		if err := b.PushGeometry(v); err != nil {
			return nil, recordErr(i, err)
		}
	}
	return b.Finish(), nil
}

// ReadMixed parses a batch of WKB records of arbitrary single-geometry kinds
// into a mixed array. With preferMulti set, single-part records are stored in
// the multi-part children so a homogeneous batch stays downcastable.
// Geometry collection records are only accepted when they hold exactly one
// member.
func ReadMixed[O geoarrow.Offset](records [][]byte, layout geoarrow.CoordType, preferMulti bool) (*geoarrow.MixedArray[O], error) {
	views, dim, err := decodeAll(records)
	if err != nil {
		return nil, err
	}
	var capacity geoarrow.MixedCapacity
	for i, v := range views {
		if err := capacity.AddGeometry(v, preferMulti); err != nil {
			return nil, recordErr(i, err)
		}
	}
	b := geoarrow.NewMixedBuilderWithCapacity[O](layout, dim, capacity)
	b.PreferMulti = preferMulti
	for i, v := range views {
		if err := b.PushGeometry(v); err != nil {
			return nil, recordErr(i, err)
		}
	}
	return b.Finish(), nil
}

// ReadGeometryCollections parses a batch of WKB records into a geometry
// collection array. Non-collection records become single-member collections.
func ReadGeometryCollections[O geoarrow.Offset](records [][]byte, layout geoarrow.CoordType, preferMulti bool) (*geoarrow.GeometryCollectionArray[O], error) {
	views, dim, err := decodeAll(records)
	if err != nil {
		return nil, err
	}
	var capacity geoarrow.GeometryCollectionCapacity
	for i, v := range views {
		if err := capacity.AddGeometry(v, preferMulti); err != nil {
			return nil, recordErr(i, err)
		}
	}
	b := geoarrow.NewGeometryCollectionBuilderWithCapacity[O](layout, dim, capacity)
	b.SetPreferMulti(preferMulti)
	for i, v := range views {
		if err := b.PushGeometry(v); err != nil {
			return nil, recordErr(i, err)
		}
	}
	return b.Finish(), nil
}

// EncodeArray serializes every element of an array as little-endian ISO WKB.
// Null elements yield nil records.
func EncodeArray(a geoarrow.Array) ([][]byte, error) {
	out := make([][]byte, a.Len())
	for i := range out {
		g := a.GeometryAt(i)
		if g == nil {
			continue
		}
		rec, err := Encode(g)
		if err != nil {
			return nil, recordErr(i, err)
		}
		out[i] = rec
	}
	return out, nil
}
