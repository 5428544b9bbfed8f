package geoarrow

import "fmt"

// MultiPolygonArray is an immutable array of multi-polygons: four nested
// buffer levels. Ring offsets delimit coordinates, polygon offsets delimit
// rings, geometry offsets delimit polygons.
type MultiPolygonArray[O Offset] struct {
	coords         CoordBuffer
	ringOffsets    Offsets[O]
	polygonOffsets Offsets[O]
	geomOffsets    Offsets[O]
	nulls          *Bitmap
	meta           *Metadata
}

// NewMultiPolygonArray creates a multi-polygon array from parts, panicking
// on invariant violation.
func NewMultiPolygonArray[O Offset](coords CoordBuffer, geomOffsets, polygonOffsets, ringOffsets Offsets[O], nulls *Bitmap, meta *Metadata) *MultiPolygonArray[O] {
	a, err := TryNewMultiPolygonArray(coords, geomOffsets, polygonOffsets, ringOffsets, nulls, meta)
	if err != nil {
		panic(err)
	}
	return a
}

// TryNewMultiPolygonArray creates a multi-polygon array from parts,
// reporting invariant violations as errors. The full chain is verified:
// rings against coordinates, polygons against rings, geometries against
// polygons.
func TryNewMultiPolygonArray[O Offset](coords CoordBuffer, geomOffsets, polygonOffsets, ringOffsets Offsets[O], nulls *Bitmap, meta *Metadata) (*MultiPolygonArray[O], error) {
	if err := checkValidity(nulls, geomOffsets.Len()); err != nil {
		return nil, err
	}
	if ringOffsets.Last() != coords.Len() {
		return nil, fmt.Errorf("%w: last ring offset %d, coords length %d",
			ErrOffsetMismatch, ringOffsets.Last(), coords.Len())
	}
	if polygonOffsets.Last() != ringOffsets.Len() {
		return nil, fmt.Errorf("%w: last polygon offset %d, ring count %d",
			ErrOffsetMismatch, polygonOffsets.Last(), ringOffsets.Len())
	}
	if geomOffsets.Last() != polygonOffsets.Len() {
		return nil, fmt.Errorf("%w: last geometry offset %d, polygon count %d",
			ErrOffsetMismatch, geomOffsets.Last(), polygonOffsets.Len())
	}
	return &MultiPolygonArray[O]{
		coords: coords, ringOffsets: ringOffsets, polygonOffsets: polygonOffsets,
		geomOffsets: geomOffsets, nulls: nulls, meta: meta,
	}, nil
}

// Len returns the number of logical elements.
func (a *MultiPolygonArray[O]) Len() int { return a.geomOffsets.Len() }

// Nulls returns the validity bitmap, or nil when the array has no nulls.
func (a *MultiPolygonArray[O]) Nulls() *Bitmap { return a.nulls }

// Dim returns the coordinate dimension.
func (a *MultiPolygonArray[O]) Dim() Dimension { return a.coords.Dim() }

// CoordType returns the physical coordinate layout.
func (a *MultiPolygonArray[O]) CoordType() CoordType { return a.coords.Layout() }

// Coords returns the backing coordinate buffer.
func (a *MultiPolygonArray[O]) Coords() CoordBuffer { return a.coords }

// RingOffsets returns the ring offset buffer.
func (a *MultiPolygonArray[O]) RingOffsets() Offsets[O] { return a.ringOffsets }

// PolygonOffsets returns the polygon offset buffer.
func (a *MultiPolygonArray[O]) PolygonOffsets() Offsets[O] { return a.polygonOffsets }

// GeomOffsets returns the geometry offset buffer.
func (a *MultiPolygonArray[O]) GeomOffsets() Offsets[O] { return a.geomOffsets }

// Metadata returns the array's side-channel metadata.
func (a *MultiPolygonArray[O]) Metadata() *Metadata { return a.meta }

// IsValid reports whether element i is non-null.
func (a *MultiPolygonArray[O]) IsValid(i int) bool { return isValid(a.nulls, i) }

// Value returns element i as a lazily addressed scalar view.
func (a *MultiPolygonArray[O]) Value(i int) MultiPolygon[O] {
	start, end := a.geomOffsets.Range(i)
	return MultiPolygon[O]{
		coords: a.coords, ringOffsets: a.ringOffsets, polygonOffsets: a.polygonOffsets,
		start: start, end: end,
	}
}

// Slice returns elements [offset, offset+length) in O(1). Only the outermost
// offset and validity views are narrowed; inner buffers are never re-sliced.
func (a *MultiPolygonArray[O]) Slice(offset, length int) *MultiPolygonArray[O] {
	if offset+length > a.Len() {
		panic("geoarrow: multi polygon array slice out of bounds")
	}
	return &MultiPolygonArray[O]{
		coords:         a.coords,
		ringOffsets:    a.ringOffsets,
		polygonOffsets: a.polygonOffsets,
		geomOffsets:    a.geomOffsets.Slice(offset, length),
		nulls:          sliceValidity(a.nulls, offset, length),
		meta:           a.meta,
	}
}

// BufferLengths returns the per-buffer element counts used for capacity
// accounting.
func (a *MultiPolygonArray[O]) BufferLengths() MultiPolygonCapacity {
	return MultiPolygonCapacity{
		Geoms:    a.Len(),
		Polygons: a.polygonOffsets.Len(),
		Rings:    a.ringOffsets.Len(),
		Coords:   a.coords.Len(),
	}
}

// NumBytes returns the size of all backing buffers in bytes.
func (a *MultiPolygonArray[O]) NumBytes() int {
	ob := offsetBytes[O]()
	n := a.coords.NumBytes() +
		len(a.ringOffsets.Values())*ob +
		len(a.polygonOffsets.Values())*ob +
		len(a.geomOffsets.Values())*ob
	if a.nulls != nil {
		n += (a.nulls.Len() + 7) / 8
	}
	return n
}

// Equal reports structural equality over (validity, offsets, coordinates).
func (a *MultiPolygonArray[O]) Equal(other *MultiPolygonArray[O]) bool {
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
		if av.NumPolygons() != bv.NumPolygons() {
			return false
		}
		for j := 0; j < av.NumPolygons(); j++ {
			if !polygonEqual(av.PolygonAt(j), bv.PolygonAt(j)) {
				return false
			}
		}
	}
	return true
}

// MultiPolygonBuilder incrementally constructs a MultiPolygonArray.
type MultiPolygonBuilder[O Offset] struct {
	coords         *CoordBufferBuilder
	ringOffsets    *OffsetsBuilder[O]
	polygonOffsets *OffsetsBuilder[O]
	geomOffsets    *OffsetsBuilder[O]
	validity       *BitmapBuilder
	meta           *Metadata
}

// NewMultiPolygonBuilder creates an empty builder.
func NewMultiPolygonBuilder[O Offset](layout CoordType, dim Dimension) *MultiPolygonBuilder[O] {
	return NewMultiPolygonBuilderWithCapacity[O](layout, dim, MultiPolygonCapacity{})
}

// NewMultiPolygonBuilderWithCapacity creates a builder pre-sized from a
// capacity count.
func NewMultiPolygonBuilderWithCapacity[O Offset](layout CoordType, dim Dimension, capacity MultiPolygonCapacity) *MultiPolygonBuilder[O] {
	return &MultiPolygonBuilder[O]{
		coords:         NewCoordBufferBuilder(layout, dim, capacity.Coords),
		ringOffsets:    NewOffsetsBuilder[O](capacity.Rings),
		polygonOffsets: NewOffsetsBuilder[O](capacity.Polygons),
		geomOffsets:    NewOffsetsBuilder[O](capacity.Geoms),
		validity:       NewBitmapBuilder(capacity.Geoms),
	}
}

// SetMetadata attaches side-channel metadata to the finished array.
func (b *MultiPolygonBuilder[O]) SetMetadata(meta *Metadata) { b.meta = meta }

// Len returns the number of elements pushed so far.
func (b *MultiPolygonBuilder[O]) Len() int { return b.geomOffsets.Len() }

// Reserve ensures room for at least the given additional capacity.
func (b *MultiPolygonBuilder[O]) Reserve(additional MultiPolygonCapacity) {
	b.coords.Reserve(additional.Coords)
	b.ringOffsets.Reserve(additional.Rings)
	b.polygonOffsets.Reserve(additional.Polygons)
	b.geomOffsets.Reserve(additional.Geoms)
}

// PushMultiPolygon appends one multi-polygon view; nil appends a null.
func (b *MultiPolygonBuilder[O]) PushMultiPolygon(g MultiPolygonGeometry) error {
	if g == nil {
		return b.PushNull()
	}
	if err := b.geomOffsets.PushLength(g.NumPolygons()); err != nil {
		return err
	}
	for i := 0; i < g.NumPolygons(); i++ {
		if err := b.pushMemberPolygon(g.PolygonAt(i)); err != nil {
			return err
		}
	}
	b.validity.Append(true)
	return nil
}

// PushPolygon appends a single polygon wrapped as a length-1 multi-polygon;
// nil appends a null.
func (b *MultiPolygonBuilder[O]) PushPolygon(g PolygonGeometry) error {
	if g == nil {
		return b.PushNull()
	}
	if err := b.geomOffsets.PushLength(1); err != nil {
		return err
	}
	if err := b.pushMemberPolygon(g); err != nil {
		return err
	}
	b.validity.Append(true)
	return nil
}

func (b *MultiPolygonBuilder[O]) pushMemberPolygon(g PolygonGeometry) error {
	if err := b.polygonOffsets.PushLength(g.NumRings()); err != nil {
		return err
	}
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
	return nil
}

// PushNull appends a null element.
func (b *MultiPolygonBuilder[O]) PushNull() error {
	if err := b.geomOffsets.PushLength(0); err != nil {
		return err
	}
	b.validity.Append(false)
	return nil
}

// PushGeometry appends a geometry of any kind; nil appends a null. A polygon
// is accepted as a length-1 multi-polygon; any other kind is a type
// mismatch.
func (b *MultiPolygonBuilder[O]) PushGeometry(g Geometry) error {
	if g == nil {
		return b.PushNull()
	}
	switch g.GeometryType() {
	case TypeMultiPolygon:
		return b.PushMultiPolygon(g.(MultiPolygonGeometry))
	case TypePolygon:
		return b.PushPolygon(g.(PolygonGeometry))
	}
	return mismatch(TypeMultiPolygon, g.GeometryType())
}

// Finish converts the builder into an immutable array in O(1). The builder
// must not be used afterwards.
func (b *MultiPolygonBuilder[O]) Finish() *MultiPolygonArray[O] {
	return &MultiPolygonArray[O]{
		coords:         b.coords.Finish(),
		ringOffsets:    b.ringOffsets.Finish(),
		polygonOffsets: b.polygonOffsets.Finish(),
		geomOffsets:    b.geomOffsets.Finish(),
		nulls:          b.validity.Finish(),
		meta:           b.meta,
	}
}
