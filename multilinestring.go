package geoarrow

import "fmt"

// MultiLineStringArray is an immutable array of multi-line-strings. Its
// physical layout is identical to PolygonArray: the "ring" offsets here
// delimit member line strings.
type MultiLineStringArray[O Offset] struct {
	coords      CoordBuffer
	ringOffsets Offsets[O]
	geomOffsets Offsets[O]
	nulls       *Bitmap
	meta        *Metadata
}

// NewMultiLineStringArray creates a multi-line-string array from parts,
// panicking on invariant violation.
func NewMultiLineStringArray[O Offset](coords CoordBuffer, geomOffsets, ringOffsets Offsets[O], nulls *Bitmap, meta *Metadata) *MultiLineStringArray[O] {
	a, err := TryNewMultiLineStringArray(coords, geomOffsets, ringOffsets, nulls, meta)
	if err != nil {
		panic(err)
	}
	return a
}

// TryNewMultiLineStringArray creates a multi-line-string array from parts,
// reporting invariant violations as errors.
func TryNewMultiLineStringArray[O Offset](coords CoordBuffer, geomOffsets, ringOffsets Offsets[O], nulls *Bitmap, meta *Metadata) (*MultiLineStringArray[O], error) {
	if err := checkValidity(nulls, geomOffsets.Len()); err != nil {
		return nil, err
	}
	if ringOffsets.Last() != coords.Len() {
		return nil, fmt.Errorf("%w: last line string offset %d, coords length %d",
			ErrOffsetMismatch, ringOffsets.Last(), coords.Len())
	}
	if geomOffsets.Last() != ringOffsets.Len() {
		return nil, fmt.Errorf("%w: last geometry offset %d, line string count %d",
			ErrOffsetMismatch, geomOffsets.Last(), ringOffsets.Len())
	}
	return &MultiLineStringArray[O]{coords: coords, ringOffsets: ringOffsets, geomOffsets: geomOffsets, nulls: nulls, meta: meta}, nil
}

// Len returns the number of logical elements.
func (a *MultiLineStringArray[O]) Len() int { return a.geomOffsets.Len() }

// Nulls returns the validity bitmap, or nil when the array has no nulls.
func (a *MultiLineStringArray[O]) Nulls() *Bitmap { return a.nulls }

// Dim returns the coordinate dimension.
func (a *MultiLineStringArray[O]) Dim() Dimension { return a.coords.Dim() }

// CoordType returns the physical coordinate layout.
func (a *MultiLineStringArray[O]) CoordType() CoordType { return a.coords.Layout() }

// Coords returns the backing coordinate buffer.
func (a *MultiLineStringArray[O]) Coords() CoordBuffer { return a.coords }

// LineStringOffsets returns the offsets delimiting member line strings.
func (a *MultiLineStringArray[O]) LineStringOffsets() Offsets[O] { return a.ringOffsets }

// GeomOffsets returns the geometry offset buffer.
func (a *MultiLineStringArray[O]) GeomOffsets() Offsets[O] { return a.geomOffsets }

// Metadata returns the array's side-channel metadata.
func (a *MultiLineStringArray[O]) Metadata() *Metadata { return a.meta }

// IsValid reports whether element i is non-null.
func (a *MultiLineStringArray[O]) IsValid(i int) bool { return isValid(a.nulls, i) }

// Value returns element i as a lazily addressed scalar view.
func (a *MultiLineStringArray[O]) Value(i int) MultiLineString[O] {
	start, end := a.geomOffsets.Range(i)
	return MultiLineString[O]{coords: a.coords, ringOffsets: a.ringOffsets, start: start, end: end}
}

// Slice returns elements [offset, offset+length) in O(1). Only the outermost
// offset and validity views are narrowed; inner buffers are never re-sliced.
func (a *MultiLineStringArray[O]) Slice(offset, length int) *MultiLineStringArray[O] {
	if offset+length > a.Len() {
		panic("geoarrow: multi line string array slice out of bounds")
	}
	return &MultiLineStringArray[O]{
		coords:      a.coords,
		ringOffsets: a.ringOffsets,
		geomOffsets: a.geomOffsets.Slice(offset, length),
		nulls:       sliceValidity(a.nulls, offset, length),
		meta:        a.meta,
	}
}

// BufferLengths returns the per-buffer element counts used for capacity
// accounting.
func (a *MultiLineStringArray[O]) BufferLengths() MultiLineStringCapacity {
	return MultiLineStringCapacity{Geoms: a.Len(), LineStrings: a.ringOffsets.Len(), Coords: a.coords.Len()}
}

// NumBytes returns the size of all backing buffers in bytes.
func (a *MultiLineStringArray[O]) NumBytes() int {
	ob := offsetBytes[O]()
	n := a.coords.NumBytes() + len(a.ringOffsets.Values())*ob + len(a.geomOffsets.Values())*ob
	if a.nulls != nil {
		n += (a.nulls.Len() + 7) / 8
	}
	return n
}

// Equal reports structural equality over (validity, offsets, coordinates).
func (a *MultiLineStringArray[O]) Equal(other *MultiLineStringArray[O]) bool {
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
		av, bv := a.Value(i), other.Value(i)
		if av.NumLineStrings() != bv.NumLineStrings() {
			return false
		}
		for j := 0; j < av.NumLineStrings(); j++ {
			if !lineStringEqual(av.LineStringAt(j), bv.LineStringAt(j)) {
				return false
			}
		}
	}
	return true
}

// MultiLineStringBuilder incrementally constructs a MultiLineStringArray.
type MultiLineStringBuilder[O Offset] struct {
	coords      *CoordBufferBuilder
	ringOffsets *OffsetsBuilder[O]
	geomOffsets *OffsetsBuilder[O]
	validity    *BitmapBuilder
	meta        *Metadata
}

// NewMultiLineStringBuilder creates an empty builder.
func NewMultiLineStringBuilder[O Offset](layout CoordType, dim Dimension) *MultiLineStringBuilder[O] {
	return NewMultiLineStringBuilderWithCapacity[O](layout, dim, MultiLineStringCapacity{})
}

// NewMultiLineStringBuilderWithCapacity creates a builder pre-sized from a
// capacity count.
func NewMultiLineStringBuilderWithCapacity[O Offset](layout CoordType, dim Dimension, capacity MultiLineStringCapacity) *MultiLineStringBuilder[O] {
	return &MultiLineStringBuilder[O]{
		coords:      NewCoordBufferBuilder(layout, dim, capacity.Coords),
		ringOffsets: NewOffsetsBuilder[O](capacity.LineStrings),
		geomOffsets: NewOffsetsBuilder[O](capacity.Geoms),
		validity:    NewBitmapBuilder(capacity.Geoms),
	}
}

// SetMetadata attaches side-channel metadata to the finished array.
func (b *MultiLineStringBuilder[O]) SetMetadata(meta *Metadata) { b.meta = meta }

// Len returns the number of elements pushed so far.
func (b *MultiLineStringBuilder[O]) Len() int { return b.geomOffsets.Len() }

// Reserve ensures room for at least the given additional capacity.
func (b *MultiLineStringBuilder[O]) Reserve(additional MultiLineStringCapacity) {
	b.coords.Reserve(additional.Coords)
	b.ringOffsets.Reserve(additional.LineStrings)
	b.geomOffsets.Reserve(additional.Geoms)
}

// PushMultiLineString appends one multi-line-string view; nil appends a
// null.
func (b *MultiLineStringBuilder[O]) PushMultiLineString(g MultiLineStringGeometry) error {
	if g == nil {
		return b.PushNull()
	}
	if err := b.geomOffsets.PushLength(g.NumLineStrings()); err != nil {
		return err
	}
	for i := 0; i < g.NumLineStrings(); i++ {
		if err := b.pushMemberLine(g.LineStringAt(i)); err != nil {
			return err
		}
	}
	b.validity.Append(true)
	return nil
}

// PushLineString appends a single line string wrapped as a length-1
// multi-line-string; nil appends a null.
func (b *MultiLineStringBuilder[O]) PushLineString(g LineStringGeometry) error {
	if g == nil {
		return b.PushNull()
	}
	if err := b.geomOffsets.PushLength(1); err != nil {
		return err
	}
	if err := b.pushMemberLine(g); err != nil {
		return err
	}
	b.validity.Append(true)
	return nil
}

func (b *MultiLineStringBuilder[O]) pushMemberLine(g LineStringGeometry) error {
	if err := b.ringOffsets.PushLength(g.NumCoords()); err != nil {
		return err
	}
	for j := 0; j < g.NumCoords(); j++ {
		if err := b.coords.PushCoord(g.CoordAt(j)); err != nil {
			return err
		}
	}
	return nil
}

// PushNull appends a null element.
func (b *MultiLineStringBuilder[O]) PushNull() error {
	if err := b.geomOffsets.PushLength(0); err != nil {
		return err
	}
	b.validity.Append(false)
	return nil
}

// PushGeometry appends a geometry of any kind; nil appends a null. A line
// string is accepted as a length-1 multi-line-string; any other kind is a
// type mismatch.
func (b *MultiLineStringBuilder[O]) PushGeometry(g Geometry) error {
	if g == nil {
		return b.PushNull()
	}
	switch g.GeometryType() {
	case TypeMultiLineString:
		return b.PushMultiLineString(g.(MultiLineStringGeometry))
	case TypeLineString:
		return b.PushLineString(g.(LineStringGeometry))
	}
	return mismatch(TypeMultiLineString, g.GeometryType())
}

// Finish converts the builder into an immutable array in O(1). The builder
// must not be used afterwards.
func (b *MultiLineStringBuilder[O]) Finish() *MultiLineStringArray[O] {
	return &MultiLineStringArray[O]{
		coords:      b.coords.Finish(),
		ringOffsets: b.ringOffsets.Finish(),
		geomOffsets: b.geomOffsets.Finish(),
		nulls:       b.validity.Finish(),
		meta:        b.meta,
	}
}
