package geoarrow

import "fmt"

// LineStringArray is an immutable array of line strings: a coordinate buffer
// plus one offset buffer mapping each geometry to its coordinate range.
type LineStringArray[O Offset] struct {
	coords      CoordBuffer
	geomOffsets Offsets[O]
	nulls       *Bitmap
	meta        *Metadata
}

// NewLineStringArray creates a line string array from parts, panicking on
// invariant violation.
func NewLineStringArray[O Offset](coords CoordBuffer, geomOffsets Offsets[O], nulls *Bitmap, meta *Metadata) *LineStringArray[O] {
	a, err := TryNewLineStringArray(coords, geomOffsets, nulls, meta)
	if err != nil {
		panic(err)
	}
	return a
}

// TryNewLineStringArray creates a line string array from parts, reporting
// invariant violations as errors. The last geometry offset must equal the
// coordinate buffer length.
func TryNewLineStringArray[O Offset](coords CoordBuffer, geomOffsets Offsets[O], nulls *Bitmap, meta *Metadata) (*LineStringArray[O], error) {
	if err := checkValidity(nulls, geomOffsets.Len()); err != nil {
		return nil, err
	}
	if geomOffsets.Last() != coords.Len() {
		return nil, fmt.Errorf("%w: last geometry offset %d, coords length %d",
			ErrOffsetMismatch, geomOffsets.Last(), coords.Len())
	}
	return &LineStringArray[O]{coords: coords, geomOffsets: geomOffsets, nulls: nulls, meta: meta}, nil
}

// Len returns the number of logical elements.
func (a *LineStringArray[O]) Len() int { return a.geomOffsets.Len() }

// Nulls returns the validity bitmap, or nil when the array has no nulls.
func (a *LineStringArray[O]) Nulls() *Bitmap { return a.nulls }

// Dim returns the coordinate dimension.
func (a *LineStringArray[O]) Dim() Dimension { return a.coords.Dim() }

// CoordType returns the physical coordinate layout.
func (a *LineStringArray[O]) CoordType() CoordType { return a.coords.Layout() }

// Coords returns the backing coordinate buffer.
func (a *LineStringArray[O]) Coords() CoordBuffer { return a.coords }

// GeomOffsets returns the geometry offset buffer.
func (a *LineStringArray[O]) GeomOffsets() Offsets[O] { return a.geomOffsets }

// Metadata returns the array's side-channel metadata.
func (a *LineStringArray[O]) Metadata() *Metadata { return a.meta }

// IsValid reports whether element i is non-null.
func (a *LineStringArray[O]) IsValid(i int) bool { return isValid(a.nulls, i) }

// Value returns element i as a lazily addressed scalar view.
func (a *LineStringArray[O]) Value(i int) LineString {
	start, end := a.geomOffsets.Range(i)
	return LineString{coords: a.coords, start: start, end: end}
}

// Slice returns elements [offset, offset+length) in O(1). Only the outermost
// offset and validity views are narrowed; the coordinate buffer is shared
// untouched, so the last-offset invariant is intentionally not re-checked
// here.
func (a *LineStringArray[O]) Slice(offset, length int) *LineStringArray[O] {
	if offset+length > a.Len() {
		panic("geoarrow: line string array slice out of bounds")
	}
	return &LineStringArray[O]{
		coords:      a.coords,
		geomOffsets: a.geomOffsets.Slice(offset, length),
		nulls:       sliceValidity(a.nulls, offset, length),
		meta:        a.meta,
	}
}

// BufferLengths returns the per-buffer element counts used for capacity
// accounting.
func (a *LineStringArray[O]) BufferLengths() LineStringCapacity {
	return LineStringCapacity{Geoms: a.Len(), Coords: a.coords.Len()}
}

// NumBytes returns the size of all backing buffers in bytes.
func (a *LineStringArray[O]) NumBytes() int {
	n := a.coords.NumBytes() + len(a.geomOffsets.Values())*offsetBytes[O]()
	if a.nulls != nil {
		n += (a.nulls.Len() + 7) / 8
	}
	return n
}

// Equal reports structural equality over (validity, offsets, coordinates).
func (a *LineStringArray[O]) Equal(other *LineStringArray[O]) bool {
	if a.Len() != other.Len() || a.Dim() != other.Dim() {
		return false
	}
	if !validityEqual(a.nulls, other.nulls, a.Len()) {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		if !a.IsValid(i) {
			continue
		}
		if !lineStringEqual(a.Value(i), other.Value(i)) {
			return false
		}
	}
	return true
}

func offsetBytes[O Offset]() int {
	var z O
	if _, ok := any(z).(int32); ok {
		return 4
	}
	return 8
}

// LineStringBuilder incrementally constructs a LineStringArray.
type LineStringBuilder[O Offset] struct {
	coords      *CoordBufferBuilder
	geomOffsets *OffsetsBuilder[O]
	validity    *BitmapBuilder
	meta        *Metadata
}

// NewLineStringBuilder creates an empty builder.
func NewLineStringBuilder[O Offset](layout CoordType, dim Dimension) *LineStringBuilder[O] {
	return NewLineStringBuilderWithCapacity[O](layout, dim, LineStringCapacity{})
}

// NewLineStringBuilderWithCapacity creates a builder pre-sized from a
// capacity count.
func NewLineStringBuilderWithCapacity[O Offset](layout CoordType, dim Dimension, capacity LineStringCapacity) *LineStringBuilder[O] {
	return &LineStringBuilder[O]{
		coords:      NewCoordBufferBuilder(layout, dim, capacity.Coords),
		geomOffsets: NewOffsetsBuilder[O](capacity.Geoms),
		validity:    NewBitmapBuilder(capacity.Geoms),
	}
}

// SetMetadata attaches side-channel metadata to the finished array.
func (b *LineStringBuilder[O]) SetMetadata(meta *Metadata) { b.meta = meta }

// Len returns the number of elements pushed so far.
func (b *LineStringBuilder[O]) Len() int { return b.geomOffsets.Len() }

// Reserve ensures room for at least the given additional capacity.
func (b *LineStringBuilder[O]) Reserve(additional LineStringCapacity) {
	b.coords.Reserve(additional.Coords)
	b.geomOffsets.Reserve(additional.Geoms)
}

// PushLineString appends one line string view; nil appends a null.
func (b *LineStringBuilder[O]) PushLineString(g LineStringGeometry) error {
	if g == nil {
		return b.PushNull()
	}
	n := g.NumCoords()
	if err := b.geomOffsets.PushLength(n); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		if err := b.coords.PushCoord(g.CoordAt(i)); err != nil {
			return err
		}
	}
	b.validity.Append(true)
	return nil
}

// PushNull appends a null element.
func (b *LineStringBuilder[O]) PushNull() error {
	if err := b.geomOffsets.PushLength(0); err != nil {
		return err
	}
	b.validity.Append(false)
	return nil
}

// PushGeometry appends a geometry of any kind; nil appends a null. A
// length-1 multi-line-string is accepted as structurally equivalent to a
// line string; any other kind is a type mismatch.
func (b *LineStringBuilder[O]) PushGeometry(g Geometry) error {
	if g == nil {
		return b.PushNull()
	}
	switch g.GeometryType() {
	case TypeLineString:
		return b.PushLineString(g.(LineStringGeometry))
	case TypeMultiLineString:
		ml := g.(MultiLineStringGeometry)
		if ml.NumLineStrings() == 1 {
			return b.PushLineString(ml.LineStringAt(0))
		}
	}
	return mismatch(TypeLineString, g.GeometryType())
}

// Finish converts the builder into an immutable array in O(1). The builder
// must not be used afterwards.
func (b *LineStringBuilder[O]) Finish() *LineStringArray[O] {
	return &LineStringArray[O]{
		coords:      b.coords.Finish(),
		geomOffsets: b.geomOffsets.Finish(),
		nulls:       b.validity.Finish(),
		meta:        b.meta,
	}
}
