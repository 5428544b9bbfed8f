package geoarrow

// PointArray is an immutable array of points: one coordinate tuple per
// logical element, no offset buffer. A valid but empty point is stored as the
// all-NaN tuple with its validity bit set.
type PointArray struct {
	coords CoordBuffer
	nulls  *Bitmap
	meta   *Metadata
}

// NewPointArray creates a point array from parts, panicking on invariant
// violation.
func NewPointArray(coords CoordBuffer, nulls *Bitmap, meta *Metadata) *PointArray {
	a, err := TryNewPointArray(coords, nulls, meta)
	if err != nil {
		panic(err)
	}
	return a
}

// TryNewPointArray creates a point array from parts, reporting invariant
// violations as errors.
func TryNewPointArray(coords CoordBuffer, nulls *Bitmap, meta *Metadata) (*PointArray, error) {
	if err := checkValidity(nulls, coords.Len()); err != nil {
		return nil, err
	}
	return &PointArray{coords: coords, nulls: nulls, meta: meta}, nil
}

// Len returns the number of logical elements.
func (a *PointArray) Len() int { return a.coords.Len() }

// Nulls returns the validity bitmap, or nil when the array has no nulls.
func (a *PointArray) Nulls() *Bitmap { return a.nulls }

// Dim returns the coordinate dimension.
func (a *PointArray) Dim() Dimension { return a.coords.Dim() }

// CoordType returns the physical coordinate layout.
func (a *PointArray) CoordType() CoordType { return a.coords.Layout() }

// Coords returns the backing coordinate buffer.
func (a *PointArray) Coords() CoordBuffer { return a.coords }

// Metadata returns the array's side-channel metadata.
func (a *PointArray) Metadata() *Metadata { return a.meta }

// IsValid reports whether element i is non-null.
func (a *PointArray) IsValid(i int) bool { return isValid(a.nulls, i) }

// Value returns element i as a lazily addressed scalar view. The view of a
// null element is the empty point.
func (a *PointArray) Value(i int) Point {
	return Point{coords: a.coords, i: i}
}

// Slice returns elements [offset, offset+length) in O(1), sharing all
// backing buffers. It panics when the range exceeds the array length.
func (a *PointArray) Slice(offset, length int) *PointArray {
	if offset+length > a.Len() {
		panic("geoarrow: point array slice out of bounds")
	}
	return &PointArray{
		coords: a.coords.Slice(offset, length),
		nulls:  sliceValidity(a.nulls, offset, length),
		meta:   a.meta,
	}
}

// BufferLengths returns the per-buffer element counts used for capacity
// accounting.
func (a *PointArray) BufferLengths() PointCapacity {
	return PointCapacity{Geoms: a.Len()}
}

// NumBytes returns the size of all backing buffers in bytes.
func (a *PointArray) NumBytes() int {
	n := a.coords.NumBytes()
	if a.nulls != nil {
		n += (a.nulls.Len() + 7) / 8
	}
	return n
}

// Equal reports structural equality: same validity, and channel-identical
// coordinates for every valid element. Two empty points compare equal.
func (a *PointArray) Equal(other *PointArray) bool {
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
		if !pointEqual(a.Value(i), other.Value(i)) {
			return false
		}
	}
	return true
}

// PointBuilder incrementally constructs a PointArray.
type PointBuilder struct {
	coords   *CoordBufferBuilder
	validity *BitmapBuilder
	meta     *Metadata
}

// NewPointBuilder creates an empty builder.
func NewPointBuilder(layout CoordType, dim Dimension) *PointBuilder {
	return NewPointBuilderWithCapacity(layout, dim, 0)
}

// NewPointBuilderWithCapacity creates a builder pre-sized for capacity
// points.
func NewPointBuilderWithCapacity(layout CoordType, dim Dimension, capacity int) *PointBuilder {
	return &PointBuilder{
		coords:   NewCoordBufferBuilder(layout, dim, capacity),
		validity: NewBitmapBuilder(capacity),
	}
}

// SetMetadata attaches side-channel metadata to the finished array.
func (b *PointBuilder) SetMetadata(meta *Metadata) { b.meta = meta }

// Len returns the number of elements pushed so far.
func (b *PointBuilder) Len() int { return b.coords.Len() }

// Reserve ensures room for at least additional more points.
func (b *PointBuilder) Reserve(additional int) {
	b.coords.Reserve(additional)
}

// PushCoord appends one non-empty point from a raw coordinate.
func (b *PointBuilder) PushCoord(c Coord) error {
	if err := b.coords.PushCoord(c); err != nil {
		return err
	}
	b.validity.Append(true)
	return nil
}

// PushPoint appends one point view; nil appends a null.
func (b *PointBuilder) PushPoint(g PointGeometry) error {
	if g == nil {
		b.PushNull()
		return nil
	}
	c, ok := g.Coord()
	if !ok {
		if g.Dim() != b.coords.Dim() {
			return ErrDimension
		}
		b.PushEmpty()
		return nil
	}
	return b.PushCoord(c)
}

// PushEmpty appends a valid but empty point: the all-NaN tuple with validity
// true.
func (b *PointBuilder) PushEmpty() {
	b.coords.PushNaN()
	b.validity.Append(true)
}

// PushNull appends a null element.
func (b *PointBuilder) PushNull() {
	b.coords.PushNaN()
	b.validity.Append(false)
}

// PushGeometry appends a geometry of any kind; nil appends a null. A
// length-1 multi-point is accepted as structurally equivalent to a point;
// any other kind is a type mismatch.
func (b *PointBuilder) PushGeometry(g Geometry) error {
	if g == nil {
		b.PushNull()
		return nil
	}
	switch g.GeometryType() {
	case TypePoint:
		return b.PushPoint(g.(PointGeometry))
	case TypeMultiPoint:
		mp := g.(MultiPointGeometry)
		if mp.NumPoints() == 1 {
			return b.PushPoint(mp.PointAt(0))
		}
	}
	return mismatch(TypePoint, g.GeometryType())
}

// Finish converts the builder into an immutable array in O(1). The builder
// must not be used afterwards.
func (b *PointBuilder) Finish() *PointArray {
	return &PointArray{
		coords: b.coords.Finish(),
		nulls:  b.validity.Finish(),
		meta:   b.meta,
	}
}
