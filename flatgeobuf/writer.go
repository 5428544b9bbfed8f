package flatgeobuf

import (
	"io"

	"github.com/flatgeobuf/flatgeobuf/src/go/flattypes"
	"github.com/flatgeobuf/flatgeobuf/src/go/writer"
	flatbuffers "github.com/google/flatbuffers/go"
	"github.com/tingold/geoarrow"
)

// Write serializes a geometry array to FlatGeobuf format. Null elements are
// skipped; FlatGeobuf has no null feature slot. The array must be planar XY.
func Write(w io.Writer, a geoarrow.Array, opts *Options) error {
	if a == nil || a.Len() == 0 {
		return ErrNoGeometries
	}
	if a.Dim() != geoarrow.XY {
		return ErrNotPlanar
	}

	gen := &arrayFeatureGenerator{arr: a}
	return writeWithGenerator(w, gen, typeToFGB(a.GeometryType()), opts)
}

// WriteGeometries serializes a batch of geometry views to FlatGeobuf format.
// The header's geometry type is the common kind of the batch, or Unknown for
// heterogeneous input. Nil views are skipped.
func WriteGeometries(w io.Writer, geometries []geoarrow.Geometry, opts *Options) error {
	if len(geometries) == 0 {
		return ErrNoGeometries
	}

	geomType := flattypes.GeometryTypeUnknown
	for i, g := range geometries {
		if g == nil {
			continue
		}
		t := typeToFGB(g.GeometryType())
		if i == 0 {
			geomType = t
			continue
		}
		if t != geomType {
			geomType = flattypes.GeometryTypeUnknown
			break
		}
	}

	gen := &viewFeatureGenerator{geometries: geometries}
	return writeWithGenerator(w, gen, geomType, opts)
}

// writeWithGenerator handles the common writing logic.
func writeWithGenerator(
	w io.Writer,
	gen writer.FeatureGenerator,
	geomType flattypes.GeometryType,
	opts *Options,
) error {
	if opts == nil {
		opts = DefaultOptions()
	}

	builder := flatbuffers.NewBuilder(4096)

	header := writer.NewHeader(builder)
	header.SetGeometryType(geomType)

	if opts.Name != "" {
		header.SetName(opts.Name)
	}
	if opts.Description != "" {
		header.SetDescription(opts.Description)
	}

	if opts.CRS != nil {
		crs := writer.NewCrs(builder)
		crs.SetOrg("EPSG")
		if opts.CRS.Code > 0 {
			crs.SetCode(int32(opts.CRS.Code))
		}
		if opts.CRS.Name != "" {
			crs.SetName(opts.CRS.Name)
		}
		if opts.CRS.Description != "" {
			crs.SetDescription(opts.CRS.Description)
		}
		// WKT can be stored in description if needed
		if opts.CRS.WKT != "" && opts.CRS.Description == "" {
			crs.SetDescription(opts.CRS.WKT)
		}
		header.SetCrs(crs)
	}

	fgbWriter := writer.NewWriter(header, opts.IncludeIndex, gen, nil)

	_, err := fgbWriter.Write(w)
	return err
}

// arrayFeatureGenerator generates features from the elements of an array.
type arrayFeatureGenerator struct {
	arr   geoarrow.Array
	index int
}

func (g *arrayFeatureGenerator) Generate() *writer.Feature {
	for g.index < g.arr.Len() {
		view := g.arr.GeometryAt(g.index)
		g.index++
		if view == nil {
			continue // skip null elements
		}

		builder := flatbuffers.NewBuilder(1024)
		fgbGeom, err := viewToFGB(view, builder)
		if err != nil || fgbGeom == nil {
			continue
		}

		feature := writer.NewFeature(builder)
		feature.SetGeometry(fgbGeom)
		return feature
	}
	return nil
}

// viewFeatureGenerator generates features from raw geometry views.
type viewFeatureGenerator struct {
	geometries []geoarrow.Geometry
	index      int
}

func (g *viewFeatureGenerator) Generate() *writer.Feature {
	for g.index < len(g.geometries) {
		view := g.geometries[g.index]
		g.index++
		if view == nil {
			continue
		}

		builder := flatbuffers.NewBuilder(1024)
		fgbGeom, err := viewToFGB(view, builder)
		if err != nil || fgbGeom == nil {
			continue
		}

		feature := writer.NewFeature(builder)
		feature.SetGeometry(fgbGeom)
		return feature
	}
	return nil
}
