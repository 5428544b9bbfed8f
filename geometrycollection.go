package geoarrow

import "fmt"

// GeometryCollectionArray is an immutable array of geometry collections: a
// mixed array of the constituent geometries plus an outer offset buffer
// mapping each collection to its member range, plus validity. An empty
// collection (offset delta 0, validity true) is distinct from a null
// collection (offset delta 0, validity false).
type GeometryCollectionArray[O Offset] struct {
	mixed       *MixedArray[O]
	geomOffsets Offsets[O]
	nulls       *Bitmap
	meta        *Metadata
}

// NewGeometryCollectionArray creates a geometry collection array from parts,
// panicking on invariant violation.
func NewGeometryCollectionArray[O Offset](mixed *MixedArray[O], geomOffsets Offsets[O], nulls *Bitmap, meta *Metadata) *GeometryCollectionArray[O] {
	a, err := TryNewGeometryCollectionArray(mixed, geomOffsets, nulls, meta)
	if err != nil {
		panic(err)
	}
	return a
}

// TryNewGeometryCollectionArray creates a geometry collection array from
// parts, reporting invariant violations as errors. The last outer offset
// must equal the mixed child's length.
func TryNewGeometryCollectionArray[O Offset](mixed *MixedArray[O], geomOffsets Offsets[O], nulls *Bitmap, meta *Metadata) (*GeometryCollectionArray[O], error) {
	if err := checkValidity(nulls, geomOffsets.Len()); err != nil {
		return nil, err
	}
	if geomOffsets.Last() != mixed.Len() {
		return nil, fmt.Errorf("%w: last collection offset %d, mixed child length %d",
			ErrOffsetMismatch, geomOffsets.Last(), mixed.Len())
	}
	return &GeometryCollectionArray[O]{mixed: mixed, geomOffsets: geomOffsets, nulls: nulls, meta: meta}, nil
}

// Len returns the number of logical elements.
func (a *GeometryCollectionArray[O]) Len() int { return a.geomOffsets.Len() }

// Nulls returns the validity bitmap, or nil when the array has no nulls.
func (a *GeometryCollectionArray[O]) Nulls() *Bitmap { return a.nulls }

// Dim returns the coordinate dimension.
func (a *GeometryCollectionArray[O]) Dim() Dimension { return a.mixed.Dim() }

// Mixed returns the inner mixed array of constituent geometries.
func (a *GeometryCollectionArray[O]) Mixed() *MixedArray[O] { return a.mixed }

// GeomOffsets returns the outer offset buffer.
func (a *GeometryCollectionArray[O]) GeomOffsets() Offsets[O] { return a.geomOffsets }

// Metadata returns the array's side-channel metadata.
func (a *GeometryCollectionArray[O]) Metadata() *Metadata { return a.meta }

// GeometryType returns TypeGeometryCollection.
func (a *GeometryCollectionArray[O]) GeometryType() Type { return TypeGeometryCollection }

// IsValid reports whether element i is non-null.
func (a *GeometryCollectionArray[O]) IsValid(i int) bool { return isValid(a.nulls, i) }

// Value returns element i as a lazily addressed scalar view.
func (a *GeometryCollectionArray[O]) Value(i int) Collection[O] {
	start, end := a.geomOffsets.Range(i)
	return Collection[O]{mixed: a.mixed, start: start, end: end}
}

// GeometryAt returns element i as a view, or nil when null.
func (a *GeometryCollectionArray[O]) GeometryAt(i int) Geometry {
	if !a.IsValid(i) {
		return nil
	}
	return a.Value(i)
}

// Slice returns elements [offset, offset+length) in O(1). Only the outer
// offset and validity views are narrowed; the mixed child is shared
// untouched.
func (a *GeometryCollectionArray[O]) Slice(offset, length int) *GeometryCollectionArray[O] {
	if offset+length > a.Len() {
		panic("geoarrow: geometry collection array slice out of bounds")
	}
	return &GeometryCollectionArray[O]{
		mixed:       a.mixed,
		geomOffsets: a.geomOffsets.Slice(offset, length),
		nulls:       sliceValidity(a.nulls, offset, length),
		meta:        a.meta,
	}
}

// BufferLengths returns the per-buffer element counts used for capacity
// accounting.
func (a *GeometryCollectionArray[O]) BufferLengths() GeometryCollectionCapacity {
	return GeometryCollectionCapacity{Geoms: a.Len(), Mixed: a.mixed.BufferLengths()}
}

// NumBytes returns the size of all backing buffers in bytes.
func (a *GeometryCollectionArray[O]) NumBytes() int {
	n := a.mixed.NumBytes() + len(a.geomOffsets.Values())*offsetBytes[O]()
	if a.nulls != nil {
		n += (a.nulls.Len() + 7) / 8
	}
	return n
}

// Equal reports structural equality over (validity, offsets, members).
func (a *GeometryCollectionArray[O]) Equal(other *GeometryCollectionArray[O]) bool {
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
		if !GeometryEqual(a.Value(i), other.Value(i)) {
			return false
		}
	}
	return true
}

// GeometryCollectionBuilder incrementally constructs a
// GeometryCollectionArray by layering an outer offset builder over a
// MixedBuilder.
type GeometryCollectionBuilder[O Offset] struct {
	mixed       *MixedBuilder[O]
	geomOffsets *OffsetsBuilder[O]
	validity    *BitmapBuilder
	meta        *Metadata
}

// NewGeometryCollectionBuilder creates an empty builder.
func NewGeometryCollectionBuilder[O Offset](layout CoordType, dim Dimension) *GeometryCollectionBuilder[O] {
	return NewGeometryCollectionBuilderWithCapacity[O](layout, dim, GeometryCollectionCapacity{})
}

// NewGeometryCollectionBuilderWithCapacity creates a builder pre-sized from
// a capacity count.
func NewGeometryCollectionBuilderWithCapacity[O Offset](layout CoordType, dim Dimension, capacity GeometryCollectionCapacity) *GeometryCollectionBuilder[O] {
	return &GeometryCollectionBuilder[O]{
		mixed:       NewMixedBuilderWithCapacity[O](layout, dim, capacity.Mixed),
		geomOffsets: NewOffsetsBuilder[O](capacity.Geoms),
		validity:    NewBitmapBuilder(capacity.Geoms),
	}
}

// SetMetadata attaches side-channel metadata to the finished array.
func (b *GeometryCollectionBuilder[O]) SetMetadata(meta *Metadata) { b.meta = meta }

// SetPreferMulti routes single-part members into multi-part children of the
// inner mixed builder.
func (b *GeometryCollectionBuilder[O]) SetPreferMulti(preferMulti bool) {
	b.mixed.PreferMulti = preferMulti
}

// Len returns the number of elements pushed so far.
func (b *GeometryCollectionBuilder[O]) Len() int { return b.geomOffsets.Len() }

// PushGeometryCollection appends one collection view, pushing each member
// into the inner mixed builder and then the member count as the new outer
// offset. Nil appends a null; an empty collection appends a valid element
// with zero members.
func (b *GeometryCollectionBuilder[O]) PushGeometryCollection(g CollectionGeometry) error {
	if g == nil {
		return b.PushNull()
	}
	n := g.NumGeometries()
	for i := 0; i < n; i++ {
		if err := b.mixed.PushGeometry(g.GeometryAt(i)); err != nil {
			return err
		}
	}
	if err := b.geomOffsets.PushLength(n); err != nil {
		return err
	}
	b.validity.Append(true)
	return nil
}

// PushGeometry appends a geometry of any kind; a non-collection geometry is
// stored as a length-1 collection. Nil appends a null.
func (b *GeometryCollectionBuilder[O]) PushGeometry(g Geometry) error {
	if g == nil {
		return b.PushNull()
	}
	if g.GeometryType() == TypeGeometryCollection {
		return b.PushGeometryCollection(g.(CollectionGeometry))
	}
	if err := b.mixed.PushGeometry(g); err != nil {
		return err
	}
	if err := b.geomOffsets.PushLength(1); err != nil {
		return err
	}
	b.validity.Append(true)
	return nil
}

// PushNull appends a null element.
func (b *GeometryCollectionBuilder[O]) PushNull() error {
	if err := b.geomOffsets.PushLength(0); err != nil {
		return err
	}
	b.validity.Append(false)
	return nil
}

// Finish converts the builder into an immutable array in O(1). The builder
// must not be used afterwards.
func (b *GeometryCollectionBuilder[O]) Finish() *GeometryCollectionArray[O] {
	return &GeometryCollectionArray[O]{
		mixed:       b.mixed.Finish(),
		geomOffsets: b.geomOffsets.Finish(),
		nulls:       b.validity.Finish(),
		meta:        b.meta,
	}
}
