package flatgeobuf

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"github.com/tingold/geoarrow"
)

func TestFeatureCollection_RoundTrip(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(orb.Point{1, 2}))
	fc.Append(&geojson.Feature{}) // no geometry
	fc.Append(geojson.NewFeature(orb.Point{3, 4}))

	arr, err := FromFeatureCollection(fc, geoarrow.Interleaved)
	if err != nil {
		t.Fatalf("FromFeatureCollection failed: %v", err)
	}
	if _, ok := arr.(*geoarrow.PointArray); !ok {
		t.Fatalf("expected *geoarrow.PointArray, got %T", arr)
	}
	if arr.Len() != 3 {
		t.Fatalf("expected 3 elements, got %d", arr.Len())
	}
	if arr.IsValid(1) {
		t.Error("feature without geometry should become a null element")
	}

	out, err := ToFeatureCollection(arr)
	if err != nil {
		t.Fatalf("ToFeatureCollection failed: %v", err)
	}
	if len(out.Features) != 2 {
		t.Fatalf("expected 2 features (null skipped), got %d", len(out.Features))
	}
	if !orb.Equal(out.Features[0].Geometry, orb.Point{1, 2}) {
		t.Errorf("feature 0: got %v", out.Features[0].Geometry)
	}
	if !orb.Equal(out.Features[1].Geometry, orb.Point{3, 4}) {
		t.Errorf("feature 1: got %v", out.Features[1].Geometry)
	}
}

func TestFromFeatureCollection_MixedKinds(t *testing.T) {
	fc := geojson.NewFeatureCollection()
	fc.Append(geojson.NewFeature(orb.Point{1, 2}))
	fc.Append(geojson.NewFeature(orb.LineString{{0, 0}, {1, 1}}))

	arr, err := FromFeatureCollection(fc, geoarrow.Interleaved)
	if err != nil {
		t.Fatalf("FromFeatureCollection failed: %v", err)
	}
	if _, ok := arr.(*geoarrow.MixedArray[int32]); !ok {
		t.Fatalf("expected *geoarrow.MixedArray[int32], got %T", arr)
	}
	if arr.Len() != 2 {
		t.Fatalf("expected 2 elements, got %d", arr.Len())
	}
}

func TestFromFeatureCollection_Empty(t *testing.T) {
	if _, err := FromFeatureCollection(nil, geoarrow.Interleaved); err != ErrNoGeometries {
		t.Errorf("nil collection: expected ErrNoGeometries, got %v", err)
	}
	if _, err := FromFeatureCollection(geojson.NewFeatureCollection(), geoarrow.Interleaved); err != ErrNoGeometries {
		t.Errorf("empty collection: expected ErrNoGeometries, got %v", err)
	}
}

func TestToFeatureCollection_NotPlanar(t *testing.T) {
	b := geoarrow.NewPointBuilder(geoarrow.Interleaved, geoarrow.XYZ)
	if err := b.PushCoord(geoarrow.Coord{Dim: geoarrow.XYZ, Vals: [4]float64{1, 2, 3}}); err != nil {
		t.Fatalf("PushCoord failed: %v", err)
	}

	if _, err := ToFeatureCollection(b.Finish()); err != ErrNotPlanar {
		t.Errorf("expected ErrNotPlanar, got %v", err)
	}
}
