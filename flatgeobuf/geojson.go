package flatgeobuf

import (
	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	"github.com/paulmach/orb/geojson"
	"github.com/tingold/geoarrow"
)

// ToFeatureCollection converts a geometry array to a GeoJSON
// FeatureCollection. Null elements are skipped, matching Write. The array
// must be planar XY; GeoJSON has no Z/M slots here.
func ToFeatureCollection(a geoarrow.Array) (*geojson.FeatureCollection, error) {
	if a == nil {
		return geojson.NewFeatureCollection(), nil
	}
	if a.Dim() != geoarrow.XY {
		return nil, ErrNotPlanar
	}

	fc := geojson.NewFeatureCollection()
	for i := 0; i < a.Len(); i++ {
		view := a.GeometryAt(i)
		if view == nil {
			continue
		}
		g, err := geoarrow.ToOrb(view)
		if err != nil {
			return nil, err
		}
		fc.Append(geojson.NewFeature(g))
	}
	return fc, nil
}

// FromFeatureCollection builds a geometry array from a FeatureCollection.
// Features without geometry become null elements. The array kind follows the
// feature geometries the way ReadArray follows the file header: a single kind
// yields that kind's array, heterogeneous kinds a mixed array, collections a
// geometry collection array.
func FromFeatureCollection(fc *geojson.FeatureCollection, layout geoarrow.CoordType) (geoarrow.Array, error) {
	if fc == nil || len(fc.Features) == 0 {
		return nil, ErrNoGeometries
	}

	views := make([]geoarrow.Geometry, 0, len(fc.Features))
	geomType := flattypes.GeometryTypeUnknown
	first := true
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			views = append(views, nil)
			continue
		}
		v, err := geoarrow.FromOrb(f.Geometry)
		if err != nil {
			return nil, err
		}
		views = append(views, v)

		t := typeToFGB(v.GeometryType())
		if first {
			geomType = t
			first = false
		} else if t != geomType {
			geomType = flattypes.GeometryTypeUnknown
		}
	}

	return buildArray(views, geomType, layout)
}
