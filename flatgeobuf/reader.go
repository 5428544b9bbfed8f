package flatgeobuf

import (
	flatgeobuf "github.com/flatgeobuf/flatgeobuf/src/go"
	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	"github.com/paulmach/orb"
	"github.com/tingold/geoarrow"
)

// Reader provides read access to a FlatGeobuf file.
type Reader struct {
	fgb *flatgeobuf.FlatGeoBuf
}

// NewReader creates a reader from a file path.
// The file is memory-mapped for efficient access.
func NewReader(path string) (*Reader, error) {
	fgb, err := flatgeobuf.New(path)
	if err != nil {
		return nil, err
	}

	return &Reader{fgb: fgb}, nil
}

// NewReaderFromData creates a reader from byte data.
func NewReaderFromData(data []byte) (*Reader, error) {
	fgb, err := flatgeobuf.NewWithData(data)
	if err != nil {
		return nil, err
	}

	return &Reader{fgb: fgb}, nil
}

// Header returns metadata about the FlatGeobuf file.
func (r *Reader) Header() *Header {
	h := r.fgb.Header()
	if h == nil {
		return nil
	}

	header := &Header{
		Name:          string(h.Name()),
		Description:   string(h.Description()),
		FeaturesCount: h.FeaturesCount(),
		HasIndex:      h.IndexNodeSize() > 0,
	}

	header.GeometryType = flattypes.EnumNamesGeometryType[h.GeometryType()]

	envLen := h.EnvelopeLength()
	if envLen >= 4 {
		header.Envelope = [4]float64{
			h.Envelope(0),
			h.Envelope(1),
			h.Envelope(2),
			h.Envelope(3),
		}
	}

	var crs flattypes.Crs
	if h.Crs(&crs) != nil {
		header.CRS = &CRS{
			Code:        int(crs.Code()),
			Name:        string(crs.Name()),
			Description: string(crs.Description()),
		}
	}

	return header
}

// ReadArray reads every feature into a geometry array. The array kind
// follows the header's declared geometry type; a file declared Unknown
// produces a mixed array, or a geometry collection array when any feature is
// itself a collection.
func (r *Reader) ReadArray(layout geoarrow.CoordType) (geoarrow.Array, error) {
	views, err := r.readViews()
	if err != nil {
		return nil, err
	}
	return buildArray(views, r.fgb.Header().GeometryType(), layout)
}

// ReadGeometries reads all features as lazy geometry views without
// materializing an array. Features without geometry yield nil entries.
func (r *Reader) ReadGeometries() ([]geoarrow.Geometry, error) {
	return r.readViews()
}

// readViews fetches every feature via a full-extent index search. The
// upstream reader exposes no sequential feature iterator, so files without a
// spatial index read back empty.
func (r *Reader) readViews() ([]geoarrow.Geometry, error) {
	h := r.fgb.Header()
	if h.FeaturesCount() == 0 {
		return nil, nil
	}
	if h.IndexNodeSize() == 0 || h.EnvelopeLength() < 4 {
		return nil, nil
	}

	features, err := r.fgb.Search(h.Envelope(0), h.Envelope(1), h.Envelope(2), h.Envelope(3))
	if err != nil {
		return nil, err
	}

	views := make([]geoarrow.Geometry, 0, len(features))
	for _, f := range features {
		views = append(views, featureView(f))
	}
	return views, nil
}

// Search performs a spatial query using the built-in index, returning an
// array of the features whose bounding boxes intersect the query bounds.
func (r *Reader) Search(bounds orb.Bound, layout geoarrow.CoordType) (geoarrow.Array, error) {
	h := r.fgb.Header()

	if h.IndexNodeSize() == 0 {
		return nil, ErrNoIndex
	}

	features, err := r.fgb.Search(bounds.Min[0], bounds.Min[1], bounds.Max[0], bounds.Max[1])
	if err != nil {
		return nil, err
	}

	views := make([]geoarrow.Geometry, 0, len(features))
	for _, f := range features {
		views = append(views, featureView(f))
	}
	return buildArray(views, h.GeometryType(), layout)
}

// Close releases resources associated with the reader.
// This is important for memory-mapped files.
func (r *Reader) Close() error {
	// The FlatGeoBuf type doesn't expose a public Close method,
	// but the finalizer will clean up when garbage collected.
	// Setting to nil allows GC to collect it.
	r.fgb = nil
	return nil
}

// featureView wraps one feature's geometry as a lazy view, or nil when the
// feature carries none.
func featureView(f *flattypes.Feature) geoarrow.Geometry {
	if f == nil {
		return nil
	}
	geom := f.Geometry(new(flattypes.Geometry))
	if geom == nil {
		return nil
	}
	return viewFromFGB(geom)
}

// buildArray pushes views into the builder matching the file's declared
// geometry type.
func buildArray(views []geoarrow.Geometry, t flattypes.GeometryType, layout geoarrow.CoordType) (geoarrow.Array, error) {
	push := func(b interface {
		PushGeometry(geoarrow.Geometry) error
	}) error {
		for _, v := range views {
			if err := b.PushGeometry(v); err != nil {
				return err
			}
		}
		return nil
	}

	switch t {
	case flattypes.GeometryTypePoint:
		b := geoarrow.NewPointBuilder(layout, geoarrow.XY)
		if err := push(b); err != nil {
			return nil, err
		}
		return b.Finish(), nil
	case flattypes.GeometryTypeLineString:
		b := geoarrow.NewLineStringBuilder[int32](layout, geoarrow.XY)
		if err := push(b); err != nil {
			return nil, err
		}
		return b.Finish(), nil
	case flattypes.GeometryTypePolygon:
		b := geoarrow.NewPolygonBuilder[int32](layout, geoarrow.XY)
		if err := push(b); err != nil {
			return nil, err
		}
		return b.Finish(), nil
	case flattypes.GeometryTypeMultiPoint:
		b := geoarrow.NewMultiPointBuilder[int32](layout, geoarrow.XY)
		if err := push(b); err != nil {
			return nil, err
		}
		return b.Finish(), nil
	case flattypes.GeometryTypeMultiLineString:
		b := geoarrow.NewMultiLineStringBuilder[int32](layout, geoarrow.XY)
		if err := push(b); err != nil {
			return nil, err
		}
		return b.Finish(), nil
	case flattypes.GeometryTypeMultiPolygon:
		b := geoarrow.NewMultiPolygonBuilder[int32](layout, geoarrow.XY)
		if err := push(b); err != nil {
			return nil, err
		}
		return b.Finish(), nil
	case flattypes.GeometryTypeGeometryCollection:
		b := geoarrow.NewGeometryCollectionBuilder[int32](layout, geoarrow.XY)
		if err := push(b); err != nil {
			return nil, err
		}
		return b.Finish(), nil
	default:
		for _, v := range views {
			if v != nil && v.GeometryType() == geoarrow.TypeGeometryCollection {
				b := geoarrow.NewGeometryCollectionBuilder[int32](layout, geoarrow.XY)
				if err := push(b); err != nil {
					return nil, err
				}
				return b.Finish(), nil
			}
		}
		b := geoarrow.NewMixedBuilder[int32](layout, geoarrow.XY)
		if err := push(b); err != nil {
			return nil, err
		}
		return b.Finish(), nil
	}
}
