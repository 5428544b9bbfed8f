package geoarrow

import "fmt"

// MultiPointArray is an immutable array of multi-points. Its physical layout
// is identical to LineStringArray; only the semantic tag differs, which is
// why conversion between the two is a free reinterpretation.
type MultiPointArray[O Offset] struct {
	coords      CoordBuffer
	geomOffsets Offsets[O]
	nulls       *Bitmap
	meta        *Metadata
}

// NewMultiPointArray creates a multi-point array from parts, panicking on
// invariant violation.
func NewMultiPointArray[O Offset](coords CoordBuffer, geomOffsets Offsets[O], nulls *Bitmap, meta *Metadata) *MultiPointArray[O] {
	a, err := TryNewMultiPointArray(coords, geomOffsets, nulls, meta)
	if err != nil {
		panic(err)
	}
	return a
}

// TryNewMultiPointArray creates a multi-point array from parts, reporting
// invariant violations as errors.
func TryNewMultiPointArray[O Offset](coords CoordBuffer, geomOffsets Offsets[O], nulls *Bitmap, meta *Metadata) (*MultiPointArray[O], error) {
	if err := checkValidity(nulls, geomOffsets.Len()); err != nil {
		return nil, err
	}
	if geomOffsets.Last() != coords.Len() {
		return nil, fmt.Errorf("%w: last geometry offset %d, coords length %d",
			ErrOffsetMismatch, geomOffsets.Last(), coords.Len())
	}
	return &MultiPointArray[O]{coords: coords, geomOffsets: geomOffsets, nulls: nulls, meta: meta}, nil
}

// Len returns the number of logical elements.
func (a *MultiPointArray[O]) Len() int { return a.geomOffsets.Len() }

// Nulls returns the validity bitmap, or nil when the array has no nulls.
func (a *MultiPointArray[O]) Nulls() *Bitmap { return a.nulls }

// Dim returns the coordinate dimension.
func (a *MultiPointArray[O]) Dim() Dimension { return a.coords.Dim() }

// CoordType returns the physical coordinate layout.
func (a *MultiPointArray[O]) CoordType() CoordType { return a.coords.Layout() }

// Coords returns the backing coordinate buffer.
func (a *MultiPointArray[O]) Coords() CoordBuffer { return a.coords }

// GeomOffsets returns the geometry offset buffer.
func (a *MultiPointArray[O]) GeomOffsets() Offsets[O] { return a.geomOffsets }

// Metadata returns the array's side-channel metadata.
func (a *MultiPointArray[O]) Metadata() *Metadata { return a.meta }

// IsValid reports whether element i is non-null.
func (a *MultiPointArray[O]) IsValid(i int) bool { return isValid(a.nulls, i) }

// Value returns element i as a lazily addressed scalar view.
func (a *MultiPointArray[O]) Value(i int) MultiPoint {
	start, end := a.geomOffsets.Range(i)
	return MultiPoint{coords: a.coords, start: start, end: end}
}

// Slice returns elements [offset, offset+length) in O(1), sharing all
// backing buffers.
func (a *MultiPointArray[O]) Slice(offset, length int) *MultiPointArray[O] {
	if offset+length > a.Len() {
		panic("geoarrow: multi point array slice out of bounds")
	}
	return &MultiPointArray[O]{
		coords:      a.coords,
		geomOffsets: a.geomOffsets.Slice(offset, length),
		nulls:       sliceValidity(a.nulls, offset, length),
		meta:        a.meta,
	}
}

// BufferLengths returns the per-buffer element counts used for capacity
// accounting.
func (a *MultiPointArray[O]) BufferLengths() MultiPointCapacity {
	return MultiPointCapacity{Geoms: a.Len(), Coords: a.coords.Len()}
}

// NumBytes returns the size of all backing buffers in bytes.
func (a *MultiPointArray[O]) NumBytes() int {
	n := a.coords.NumBytes() + len(a.geomOffsets.Values())*offsetBytes[O]()
	if a.nulls != nil {
		n += (a.nulls.Len() + 7) / 8
	}
	return n
}

// Equal reports structural equality over (validity, offsets, coordinates).
func (a *MultiPointArray[O]) Equal(other *MultiPointArray[O]) bool {
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
		if av.NumPoints() != bv.NumPoints() {
			return false
		}
		for j := 0; j < av.NumPoints(); j++ {
			if !pointEqual(av.PointAt(j), bv.PointAt(j)) {
				return false
			}
		}
	}
	return true
}

// MultiPointBuilder incrementally constructs a MultiPointArray.
type MultiPointBuilder[O Offset] struct {
	coords      *CoordBufferBuilder
	geomOffsets *OffsetsBuilder[O]
	validity    *BitmapBuilder
	meta        *Metadata
}

// NewMultiPointBuilder creates an empty builder.
func NewMultiPointBuilder[O Offset](layout CoordType, dim Dimension) *MultiPointBuilder[O] {
	return NewMultiPointBuilderWithCapacity[O](layout, dim, MultiPointCapacity{})
}

// NewMultiPointBuilderWithCapacity creates a builder pre-sized from a
// capacity count.
func NewMultiPointBuilderWithCapacity[O Offset](layout CoordType, dim Dimension, capacity MultiPointCapacity) *MultiPointBuilder[O] {
	return &MultiPointBuilder[O]{
		coords:      NewCoordBufferBuilder(layout, dim, capacity.Coords),
		geomOffsets: NewOffsetsBuilder[O](capacity.Geoms),
		validity:    NewBitmapBuilder(capacity.Geoms),
	}
}

// SetMetadata attaches side-channel metadata to the finished array.
func (b *MultiPointBuilder[O]) SetMetadata(meta *Metadata) { b.meta = meta }

// Len returns the number of elements pushed so far.
func (b *MultiPointBuilder[O]) Len() int { return b.geomOffsets.Len() }

// Reserve ensures room for at least the given additional capacity.
func (b *MultiPointBuilder[O]) Reserve(additional MultiPointCapacity) {
	b.coords.Reserve(additional.Coords)
	b.geomOffsets.Reserve(additional.Geoms)
}

// PushMultiPoint appends one multi-point view; nil appends a null.
func (b *MultiPointBuilder[O]) PushMultiPoint(g MultiPointGeometry) error {
	if g == nil {
		return b.PushNull()
	}
	n := g.NumPoints()
	if err := b.geomOffsets.PushLength(n); err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		c, ok := g.PointAt(i).Coord()
		if !ok {
			// An empty member point keeps its slot as the NaN tuple.
			b.coords.PushNaN()
			continue
		}
		if err := b.coords.PushCoord(c); err != nil {
			return err
		}
	}
	b.validity.Append(true)
	return nil
}

// PushPoint appends a single point wrapped as a length-1 multi-point; nil
// appends a null.
func (b *MultiPointBuilder[O]) PushPoint(g PointGeometry) error {
	if g == nil {
		return b.PushNull()
	}
	if err := b.geomOffsets.PushLength(1); err != nil {
		return err
	}
	if c, ok := g.Coord(); ok {
		if err := b.coords.PushCoord(c); err != nil {
			return err
		}
	} else {
		// POINT EMPTY keeps its slot as the NaN tuple.
		b.coords.PushNaN()
	}
	b.validity.Append(true)
	return nil
}

// PushNull appends a null element.
func (b *MultiPointBuilder[O]) PushNull() error {
	if err := b.geomOffsets.PushLength(0); err != nil {
		return err
	}
	b.validity.Append(false)
	return nil
}

// PushGeometry appends a geometry of any kind; nil appends a null. A point
// is accepted as a length-1 multi-point; any other kind is a type mismatch.
func (b *MultiPointBuilder[O]) PushGeometry(g Geometry) error {
	if g == nil {
		return b.PushNull()
	}
	switch g.GeometryType() {
	case TypeMultiPoint:
		return b.PushMultiPoint(g.(MultiPointGeometry))
	case TypePoint:
		return b.PushPoint(g.(PointGeometry))
	}
	return mismatch(TypeMultiPoint, g.GeometryType())
}

// Finish converts the builder into an immutable array in O(1). The builder
// must not be used afterwards.
func (b *MultiPointBuilder[O]) Finish() *MultiPointArray[O] {
	return &MultiPointArray[O]{
		coords:      b.coords.Finish(),
		geomOffsets: b.geomOffsets.Finish(),
		nulls:       b.validity.Finish(),
		meta:        b.meta,
	}
}
