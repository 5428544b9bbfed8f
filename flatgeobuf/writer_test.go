package flatgeobuf

import (
	"bytes"
	"testing"

	"github.com/paulmach/orb"
	"github.com/tingold/geoarrow"
)

func pointArray(t *testing.T, points ...orb.Point) geoarrow.Array {
	t.Helper()
	b := geoarrow.NewPointBuilder(geoarrow.Interleaved, geoarrow.XY)
	for _, p := range points {
		if err := b.PushCoord(geoarrow.XYCoord(p[0], p[1])); err != nil {
			t.Fatalf("PushCoord failed: %v", err)
		}
	}
	return b.Finish()
}

func TestWrite_Points(t *testing.T) {
	arr := pointArray(t, orb.Point{1, 2}, orb.Point{3, 4}, orb.Point{5, 6})

	var buf bytes.Buffer
	err := Write(&buf, arr, nil)
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	// Check magic bytes
	data := buf.Bytes()
	if len(data) < 8 {
		t.Fatal("output too short")
	}

	expectedMagic := []byte{0x66, 0x67, 0x62, 0x03, 0x66, 0x67, 0x62, 0x00}
	for i, b := range expectedMagic {
		if data[i] != b {
			t.Errorf("magic byte %d: expected 0x%02x, got 0x%02x", i, b, data[i])
		}
	}
}

func TestWrite_Empty(t *testing.T) {
	b := geoarrow.NewPointBuilder(geoarrow.Interleaved, geoarrow.XY)

	var buf bytes.Buffer
	if err := Write(&buf, b.Finish(), nil); err != ErrNoGeometries {
		t.Errorf("expected ErrNoGeometries, got %v", err)
	}
	if err := Write(&buf, nil, nil); err != ErrNoGeometries {
		t.Errorf("expected ErrNoGeometries for nil array, got %v", err)
	}
}

func TestWrite_NotPlanar(t *testing.T) {
	b := geoarrow.NewPointBuilder(geoarrow.Interleaved, geoarrow.XYZ)
	err := b.PushCoord(geoarrow.Coord{Dim: geoarrow.XYZ, Vals: [4]float64{1, 2, 3}})
	if err != nil {
		t.Fatalf("PushCoord failed: %v", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, b.Finish(), nil); err != ErrNotPlanar {
		t.Errorf("expected ErrNotPlanar, got %v", err)
	}
}

func TestWriteGeometries_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteGeometries(&buf, nil, nil); err != ErrNoGeometries {
		t.Errorf("expected ErrNoGeometries, got %v", err)
	}
}

func TestWriteGeometries_MixedKinds(t *testing.T) {
	point, err := geoarrow.FromOrb(orb.Point{1, 2})
	if err != nil {
		t.Fatalf("FromOrb failed: %v", err)
	}
	line, err := geoarrow.FromOrb(orb.LineString{{0, 0}, {1, 1}})
	if err != nil {
		t.Fatalf("FromOrb failed: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteGeometries(&buf, []geoarrow.Geometry{point, line}, nil); err != nil {
		t.Fatalf("WriteGeometries failed: %v", err)
	}

	r, err := NewReaderFromData(buf.Bytes())
	if err != nil {
		t.Fatalf("NewReaderFromData failed: %v", err)
	}
	defer r.Close()

	if got := r.Header().GeometryType; got != "Unknown" {
		t.Errorf("expected Unknown geometry type for mixed input, got %q", got)
	}
}

func TestWrite_CRS(t *testing.T) {
	arr := pointArray(t, orb.Point{1, 2})

	opts := DefaultOptions()
	opts.Name = "cities"
	opts.CRS = WGS84()

	var buf bytes.Buffer
	if err := Write(&buf, arr, opts); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	r, err := NewReaderFromData(buf.Bytes())
	if err != nil {
		t.Fatalf("NewReaderFromData failed: %v", err)
	}
	defer r.Close()

	h := r.Header()
	if h.Name != "cities" {
		t.Errorf("expected name %q, got %q", "cities", h.Name)
	}
	if h.CRS == nil {
		t.Fatal("expected CRS in header")
	}
	if h.CRS.Code != 4326 {
		t.Errorf("expected CRS code 4326, got %d", h.CRS.Code)
	}
}

func TestWrite_SkipsNulls(t *testing.T) {
	b := geoarrow.NewPointBuilder(geoarrow.Interleaved, geoarrow.XY)
	if err := b.PushCoord(geoarrow.XYCoord(1, 2)); err != nil {
		t.Fatalf("PushCoord failed: %v", err)
	}
	b.PushNull()
	if err := b.PushCoord(geoarrow.XYCoord(3, 4)); err != nil {
		t.Fatalf("PushCoord failed: %v", err)
	}

	var buf bytes.Buffer
	if err := Write(&buf, b.Finish(), nil); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	r, err := NewReaderFromData(buf.Bytes())
	if err != nil {
		t.Fatalf("NewReaderFromData failed: %v", err)
	}
	defer r.Close()

	views, err := r.ReadGeometries()
	if err != nil {
		t.Fatalf("ReadGeometries failed: %v", err)
	}
	if len(views) != 2 {
		t.Errorf("expected 2 features after skipping null, got %d", len(views))
	}
}
