package geoarrow

// Array is the accessor interface shared by every geometry array kind. It is
// what geometric algorithms and format writers consume: element count,
// validity, lazily addressed value access, and capacity accounting.
type Array interface {
	// GeometryType returns the array's geometry kind tag. Mixed arrays
	// report TypeGeometryCollection only for GeometryCollectionArray; see
	// MixedArray.DowncastType for per-element kinds.
	GeometryType() Type

	// Dim returns the coordinate dimension.
	Dim() Dimension

	// Len returns the number of logical elements.
	Len() int

	// Nulls returns the validity bitmap, or nil when no element is null.
	Nulls() *Bitmap

	// IsValid reports whether element i is non-null.
	IsValid(i int) bool

	// GeometryAt returns element i as a lazily addressed view, or nil when
	// the element is null.
	GeometryAt(i int) Geometry

	// Metadata returns the array's side-channel metadata.
	Metadata() *Metadata

	// NumBytes returns the size of all backing buffers in bytes.
	NumBytes() int
}

func (a *PointArray) GeometryType() Type { return TypePoint }

func (a *PointArray) GeometryAt(i int) Geometry {
	if !a.IsValid(i) {
		return nil
	}
	return a.Value(i)
}

func (a *LineStringArray[O]) GeometryType() Type { return TypeLineString }

func (a *LineStringArray[O]) GeometryAt(i int) Geometry {
	if !a.IsValid(i) {
		return nil
	}
	return a.Value(i)
}

func (a *PolygonArray[O]) GeometryType() Type { return TypePolygon }

func (a *PolygonArray[O]) GeometryAt(i int) Geometry {
	if !a.IsValid(i) {
		return nil
	}
	return a.Value(i)
}

func (a *MultiPointArray[O]) GeometryType() Type { return TypeMultiPoint }

func (a *MultiPointArray[O]) GeometryAt(i int) Geometry {
	if !a.IsValid(i) {
		return nil
	}
	return a.Value(i)
}

func (a *MultiLineStringArray[O]) GeometryType() Type { return TypeMultiLineString }

func (a *MultiLineStringArray[O]) GeometryAt(i int) Geometry {
	if !a.IsValid(i) {
		return nil
	}
	return a.Value(i)
}

func (a *MultiPolygonArray[O]) GeometryType() Type { return TypeMultiPolygon }

func (a *MultiPolygonArray[O]) GeometryAt(i int) Geometry {
	if !a.IsValid(i) {
		return nil
	}
	return a.Value(i)
}

// GeometryType for a mixed array reports the whole-array TypeMixed tag; use
// TypeAt for individual elements.
func (a *MixedArray[O]) GeometryType() Type { return TypeMixed }

func (a *MixedArray[O]) GeometryAt(i int) Geometry {
	if !a.IsValid(i) {
		return nil
	}
	return a.Value(i)
}
