package geoarrow

import "fmt"

// PolygonArray is an immutable array of polygons: a coordinate buffer, ring
// offsets mapping rings to coordinate ranges, and geometry offsets mapping
// polygons to ring ranges.
type PolygonArray[O Offset] struct {
	coords      CoordBuffer
	ringOffsets Offsets[O]
	geomOffsets Offsets[O]
	nulls       *Bitmap
	meta        *Metadata
}

// NewPolygonArray creates a polygon array from parts, panicking on invariant
// violation.
func NewPolygonArray[O Offset](coords CoordBuffer, geomOffsets, ringOffsets Offsets[O], nulls *Bitmap, meta *Metadata) *PolygonArray[O] {
	a, err := TryNewPolygonArray(coords, geomOffsets, ringOffsets, nulls, meta)
	if err != nil {
		panic(err)
	}
	return a
}

// TryNewPolygonArray creates a polygon array from parts, reporting invariant
// violations as errors. The full chain is verified: the last ring offset
// must equal the coordinate length, and the last geometry offset must equal
// the ring count.
func TryNewPolygonArray[O Offset](coords CoordBuffer, geomOffsets, ringOffsets Offsets[O], nulls *Bitmap, meta *Metadata) (*PolygonArray[O], error) {
	if err := checkValidity(nulls, geomOffsets.Len()); err != nil {
		return nil, err
	}
	if ringOffsets.Last() != coords.Len() {
		return nil, fmt.Errorf("%w: last ring offset %d, coords length %d",
			ErrOffsetMismatch, ringOffsets.Last(), coords.Len())
	}
	if geomOffsets.Last() != ringOffsets.Len() {
		return nil, fmt.Errorf("%w: last geometry offset %d, ring count %d",
			ErrOffsetMismatch, geomOffsets.Last(), ringOffsets.Len())
	}
	return &PolygonArray[O]{coords: coords, ringOffsets: ringOffsets, geomOffsets: geomOffsets, nulls: nulls, meta: meta}, nil
}

// Len returns the number of logical elements.
func (a *PolygonArray[O]) Len() int { return a.geomOffsets.Len() }

// Nulls returns the validity bitmap, or nil when the array has no nulls.
func (a *PolygonArray[O]) Nulls() *Bitmap { return a.nulls }

// Dim returns the coordinate dimension.
func (a *PolygonArray[O]) Dim() Dimension { return a.coords.Dim() }

// CoordType returns the physical coordinate layout.
func (a *PolygonArray[O]) CoordType() CoordType { return a.coords.Layout() }

// Coords returns the backing coordinate buffer.
func (a *PolygonArray[O]) Coords() CoordBuffer { return a.coords }

// RingOffsets returns the ring offset buffer.
func (a *PolygonArray[O]) RingOffsets() Offsets[O] { return a.ringOffsets }

// GeomOffsets returns the geometry offset buffer.
func (a *PolygonArray[O]) GeomOffsets() Offsets[O] { return a.geomOffsets }

// Metadata returns the array's side-channel metadata.
func (a *PolygonArray[O]) Metadata() *Metadata { return a.meta }

// IsValid reports whether element i is non-null.
func (a *PolygonArray[O]) IsValid(i int) bool { return isValid(a.nulls, i) }

// Value returns element i as a lazily addressed scalar view.
func (a *PolygonArray[O]) Value(i int) Polygon[O] {
	start, end := a.geomOffsets.Range(i)
	return Polygon[O]{coords: a.coords, ringOffsets: a.ringOffsets, start: start, end: end}
}

// Slice returns elements [offset, offset+length) in O(1). Only the outermost
// offset and validity views are narrowed; inner buffers are never re-sliced.
func (a *PolygonArray[O]) Slice(offset, length int) *PolygonArray[O] {
	if offset+length > a.Len() {
		panic("geoarrow: polygon array slice out of bounds")
	}
	return &PolygonArray[O]{
		coords:      a.coords,
		ringOffsets: a.ringOffsets,
		geomOffsets: a.geomOffsets.Slice(offset, length),
		nulls:       sliceValidity(a.nulls, offset, length),
		meta:        a.meta,
	}
}

// BufferLengths returns the per-buffer element counts used for capacity
// accounting.
func (a *PolygonArray[O]) BufferLengths() PolygonCapacity {
	return PolygonCapacity{Geoms: a.Len(), Rings: a.ringOffsets.Len(), Coords: a.coords.Len()}
}

// NumBytes returns the size of all backing buffers in bytes.
func (a *PolygonArray[O]) NumBytes() int {
	ob := offsetBytes[O]()
	n := a.coords.NumBytes() + len(a.ringOffsets.Values())*ob + len(a.geomOffsets.Values())*ob
	if a.nulls != nil {
		n += (a.nulls.Len() + 7) / 8
	}
	return n
}

// Equal reports structural equality over (validity, offsets, coordinates).
func (a *PolygonArray[O]) Equal(other *PolygonArray[O]) bool {
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
		if !polygonEqual(a.Value(i), other.Value(i)) {
			return false
		}
	}
	return true
}

// PolygonBuilder incrementally constructs a PolygonArray.
type PolygonBuilder[O Offset] struct {
	coords      *CoordBufferBuilder
	ringOffsets *OffsetsBuilder[O]
	geomOffsets *OffsetsBuilder[O]
	validity    *BitmapBuilder
	meta        *Metadata
}

// NewPolygonBuilder creates an empty builder.
func NewPolygonBuilder[O Offset](layout CoordType, dim Dimension) *PolygonBuilder[O] {
	return NewPolygonBuilderWithCapacity[O](layout, dim, PolygonCapacity{})
}

// NewPolygonBuilderWithCapacity creates a builder pre-sized from a capacity
// count.
func NewPolygonBuilderWithCapacity[O Offset](layout CoordType, dim Dimension, capacity PolygonCapacity) *PolygonBuilder[O] {
	return &PolygonBuilder[O]{
		coords:      NewCoordBufferBuilder(layout, dim, capacity.Coords),
		ringOffsets: NewOffsetsBuilder[O](capacity.Rings),
		geomOffsets: NewOffsetsBuilder[O](capacity.Geoms),
		validity:    NewBitmapBuilder(capacity.Geoms),
	}
}

// SetMetadata attaches side-channel metadata to the finished array.
func (b *PolygonBuilder[O]) SetMetadata(meta *Metadata) { b.meta = meta }

// Len returns the number of elements pushed so far.
func (b *PolygonBuilder[O]) Len() int { return b.geomOffsets.Len() }

// Reserve ensures room for at least the given additional capacity.
func (b *PolygonBuilder[O]) Reserve(additional PolygonCapacity) {
	b.coords.Reserve(additional.Coords)
	b.ringOffsets.Reserve(additional.Rings)
	b.geomOffsets.Reserve(additional.Geoms)
}

// PushPolygon appends one polygon view; nil appends a null.
func (b *PolygonBuilder[O]) PushPolygon(g PolygonGeometry) error {
	if g == nil {
		return b.PushNull()
	}
	if err := b.geomOffsets.PushLength(g.NumRings()); err != nil {
		return err
	}
	return b.pushRings(g)
}

func (b *PolygonBuilder[O]) pushRings(g PolygonGeometry) error {
	for i := 0; i < g.NumRings(); i++ {
		ring := g.Ring(i)
		if err := b.ringOffsets.PushLength(ring.NumCoords()); err != nil {
			return err
		}
		for j := 0; j < ring.NumCoords(); j++ {
			if err := b.coords.PushCoord(ring.CoordAt(j)); err != nil {
				return err
			}
		}
	}
	b.validity.Append(true)
	return nil
}

// PushNull appends a null element.
func (b *PolygonBuilder[O]) PushNull() error {
	if err := b.geomOffsets.PushLength(0); err != nil {
		return err
	}
	b.validity.Append(false)
	return nil
}

// PushGeometry appends a geometry of any kind; nil appends a null. A
// length-1 multi-polygon is accepted as structurally equivalent to a
// polygon; any other kind is a type mismatch.
func (b *PolygonBuilder[O]) PushGeometry(g Geometry) error {
	if g == nil {
		return b.PushNull()
	}
	switch g.GeometryType() {
	case TypePolygon:
		return b.PushPolygon(g.(PolygonGeometry))
	case TypeMultiPolygon:
		mp := g.(MultiPolygonGeometry)
		if mp.NumPolygons() == 1 {
			return b.PushPolygon(mp.PolygonAt(0))
		}
	}
	return mismatch(TypePolygon, g.GeometryType())
}

// Finish converts the builder into an immutable array in O(1). The builder
// must not be used afterwards.
func (b *PolygonBuilder[O]) Finish() *PolygonArray[O] {
	return &PolygonArray[O]{
		coords:      b.coords.Finish(),
		ringOffsets: b.ringOffsets.Finish(),
		geomOffsets: b.geomOffsets.Finish(),
		nulls:       b.validity.Finish(),
		meta:        b.meta,
	}
}
