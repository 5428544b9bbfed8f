package geoarrow

import (
	"fmt"
	"math"
)

// MixedArray is a heterogeneous geometry array: a tag per logical element
// naming one of the six primitive kinds, an offset per element into that
// kind's homogeneous child array, and the six child arrays. Child arrays
// hold only their own elements, so each may be shorter than the mixed
// array itself. Validity lives in the children; element i is null iff the
// child element it points at is null.
//
// All children share one dimension and one coordinate layout. Nested
// geometry collections are not representable here; they go through
// GeometryCollectionArray.
type MixedArray[O Offset] struct {
	dim     Dimension
	typeIDs []int8
	offsets []int32

	points           *PointArray
	lineStrings      *LineStringArray[O]
	polygons         *PolygonArray[O]
	multiPoints      *MultiPointArray[O]
	multiLineStrings *MultiLineStringArray[O]
	multiPolygons    *MultiPolygonArray[O]

	meta *Metadata
}

// NewMixedArray creates a mixed array from parts, panicking on invariant
// violation.
func NewMixedArray[O Offset](dim Dimension, typeIDs []int8, offsets []int32,
	points *PointArray, lineStrings *LineStringArray[O], polygons *PolygonArray[O],
	multiPoints *MultiPointArray[O], multiLineStrings *MultiLineStringArray[O],
	multiPolygons *MultiPolygonArray[O], meta *Metadata) *MixedArray[O] {
	a, err := TryNewMixedArray(dim, typeIDs, offsets, points, lineStrings, polygons,
		multiPoints, multiLineStrings, multiPolygons, meta)
	if err != nil {
		panic(err)
	}
	return a
}

// TryNewMixedArray creates a mixed array from parts, reporting invariant
// violations as errors: tag/offset length mismatch, unknown or
// wrong-dimension tags, and offsets past the end of the tagged child.
func TryNewMixedArray[O Offset](dim Dimension, typeIDs []int8, offsets []int32,
	points *PointArray, lineStrings *LineStringArray[O], polygons *PolygonArray[O],
	multiPoints *MultiPointArray[O], multiLineStrings *MultiLineStringArray[O],
	multiPolygons *MultiPolygonArray[O], meta *Metadata) (*MixedArray[O], error) {
	if len(typeIDs) != len(offsets) {
		return nil, fmt.Errorf("geoarrow: %d type ids but %d offsets", len(typeIDs), len(offsets))
	}
	a := &MixedArray[O]{
		dim: dim, typeIDs: typeIDs, offsets: offsets,
		points:      orEmptyPoints(points, dim),
		lineStrings: orEmptyLineStrings(lineStrings, dim),
		polygons:    orEmptyPolygons(polygons, dim),
		multiPoints: orEmptyMultiPoints(multiPoints, dim), multiLineStrings: orEmptyMultiLineStrings(multiLineStrings, dim),
		multiPolygons: orEmptyMultiPolygons(multiPolygons, dim),
		meta:          meta,
	}
	for i, id := range typeIDs {
		t, d, ok := ParseTypeID(id)
		if !ok || d != dim {
			return nil, fmt.Errorf("geoarrow: invalid type id %d at %d for dimension %s", id, i, dim)
		}
		n := a.childLen(t)
		if int(offsets[i]) >= n {
			return nil, fmt.Errorf("geoarrow: offset %d at %d exceeds %s child length %d",
				offsets[i], i, t, n)
		}
	}
	return a, nil
}

func orEmptyPoints(a *PointArray, dim Dimension) *PointArray {
	if a != nil {
		return a
	}
	return NewPointBuilder(Interleaved, dim).Finish()
}

func orEmptyLineStrings[O Offset](a *LineStringArray[O], dim Dimension) *LineStringArray[O] {
	if a != nil {
		return a
	}
	return NewLineStringBuilder[O](Interleaved, dim).Finish()
}

func orEmptyPolygons[O Offset](a *PolygonArray[O], dim Dimension) *PolygonArray[O] {
	if a != nil {
		return a
	}
	return NewPolygonBuilder[O](Interleaved, dim).Finish()
}

func orEmptyMultiPoints[O Offset](a *MultiPointArray[O], dim Dimension) *MultiPointArray[O] {
	if a != nil {
		return a
	}
	return NewMultiPointBuilder[O](Interleaved, dim).Finish()
}

func orEmptyMultiLineStrings[O Offset](a *MultiLineStringArray[O], dim Dimension) *MultiLineStringArray[O] {
	if a != nil {
		return a
	}
	return NewMultiLineStringBuilder[O](Interleaved, dim).Finish()
}

func orEmptyMultiPolygons[O Offset](a *MultiPolygonArray[O], dim Dimension) *MultiPolygonArray[O] {
	if a != nil {
		return a
	}
	return NewMultiPolygonBuilder[O](Interleaved, dim).Finish()
}

func (a *MixedArray[O]) childLen(t Type) int {
	switch t {
	case TypePoint:
		return a.points.Len()
	case TypeLineString:
		return a.lineStrings.Len()
	case TypePolygon:
		return a.polygons.Len()
	case TypeMultiPoint:
		return a.multiPoints.Len()
	case TypeMultiLineString:
		return a.multiLineStrings.Len()
	case TypeMultiPolygon:
		return a.multiPolygons.Len()
	default:
		return 0
	}
}

// Len returns the number of logical elements.
func (a *MixedArray[O]) Len() int { return len(a.typeIDs) }

// Dim returns the shared coordinate dimension.
func (a *MixedArray[O]) Dim() Dimension { return a.dim }

// Metadata returns the array's side-channel metadata.
func (a *MixedArray[O]) Metadata() *Metadata { return a.meta }

// TypeIDs returns the union tag buffer. It must not be mutated.
func (a *MixedArray[O]) TypeIDs() []int8 { return a.typeIDs }

// ChildOffsets returns the per-element child offsets. It must not be
// mutated.
func (a *MixedArray[O]) ChildOffsets() []int32 { return a.offsets }

// Points returns the point child array.
func (a *MixedArray[O]) Points() *PointArray { return a.points }

// LineStrings returns the line string child array.
func (a *MixedArray[O]) LineStrings() *LineStringArray[O] { return a.lineStrings }

// Polygons returns the polygon child array.
func (a *MixedArray[O]) Polygons() *PolygonArray[O] { return a.polygons }

// MultiPoints returns the multi-point child array.
func (a *MixedArray[O]) MultiPoints() *MultiPointArray[O] { return a.multiPoints }

// MultiLineStrings returns the multi-line-string child array.
func (a *MixedArray[O]) MultiLineStrings() *MultiLineStringArray[O] { return a.multiLineStrings }

// MultiPolygons returns the multi-polygon child array.
func (a *MixedArray[O]) MultiPolygons() *MultiPolygonArray[O] { return a.multiPolygons }

// TypeAt returns the geometry kind of element i.
func (a *MixedArray[O]) TypeAt(i int) Type {
	t, _, _ := ParseTypeID(a.typeIDs[i])
	return t
}

// IsValid reports whether element i is non-null, dereferencing the child
// array's validity.
func (a *MixedArray[O]) IsValid(i int) bool {
	off := int(a.offsets[i])
	switch a.TypeAt(i) {
	case TypePoint:
		return a.points.IsValid(off)
	case TypeLineString:
		return a.lineStrings.IsValid(off)
	case TypePolygon:
		return a.polygons.IsValid(off)
	case TypeMultiPoint:
		return a.multiPoints.IsValid(off)
	case TypeMultiLineString:
		return a.multiLineStrings.IsValid(off)
	case TypeMultiPolygon:
		return a.multiPolygons.IsValid(off)
	default:
		return false
	}
}

// Nulls materializes the logical validity bitmap by dereferencing every
// element's child. It returns nil when no element is null. Unlike the
// homogeneous arrays this is O(n), so callers accounting for nulls in a loop
// should prefer IsValid.
func (a *MixedArray[O]) Nulls() *Bitmap {
	valid := make([]bool, a.Len())
	any := false
	for i := range valid {
		valid[i] = a.IsValid(i)
		if !valid[i] {
			any = true
		}
	}
	if !any {
		return nil
	}
	return BitmapFromBools(valid)
}

// Value returns element i as a lazily addressed scalar view. The view of a
// null element is the corresponding child kind's empty shape.
func (a *MixedArray[O]) Value(i int) Geometry {
	off := int(a.offsets[i])
	switch a.TypeAt(i) {
	case TypePoint:
		return a.points.Value(off)
	case TypeLineString:
		return a.lineStrings.Value(off)
	case TypePolygon:
		return a.polygons.Value(off)
	case TypeMultiPoint:
		return a.multiPoints.Value(off)
	case TypeMultiLineString:
		return a.multiLineStrings.Value(off)
	case TypeMultiPolygon:
		return a.multiPolygons.Value(off)
	default:
		return nil
	}
}

// Slice returns elements [offset, offset+length) in O(1). Only the tag and
// offset views are narrowed; the child arrays are shared untouched.
func (a *MixedArray[O]) Slice(offset, length int) *MixedArray[O] {
	if offset+length > a.Len() {
		panic("geoarrow: mixed array slice out of bounds")
	}
	out := *a
	out.typeIDs = a.typeIDs[offset : offset+length]
	out.offsets = a.offsets[offset : offset+length]
	return &out
}

// BufferLengths returns the per-child capacity counts.
func (a *MixedArray[O]) BufferLengths() MixedCapacity {
	return MixedCapacity{
		Points:           a.points.BufferLengths(),
		LineStrings:      a.lineStrings.BufferLengths(),
		Polygons:         a.polygons.BufferLengths(),
		MultiPoints:      a.multiPoints.BufferLengths(),
		MultiLineStrings: a.multiLineStrings.BufferLengths(),
		MultiPolygons:    a.multiPolygons.BufferLengths(),
	}
}

// NumBytes returns the size of all backing buffers in bytes.
func (a *MixedArray[O]) NumBytes() int {
	return len(a.typeIDs) + len(a.offsets)*4 +
		a.points.NumBytes() + a.lineStrings.NumBytes() + a.polygons.NumBytes() +
		a.multiPoints.NumBytes() + a.multiLineStrings.NumBytes() + a.multiPolygons.NumBytes()
}

// Equal reports element-wise structural equality, including per-element
// validity. Two mixed arrays holding the same logical geometries compare
// equal even when their prefer-multi routing differs only in null slots.
func (a *MixedArray[O]) Equal(other *MixedArray[O]) bool {
	if a.Len() != other.Len() || a.dim != other.dim {
		return false
	}
	for i := 0; i < a.Len(); i++ {
		av, bv := a.IsValid(i), other.IsValid(i)
		if av != bv {
			return false
		}
		if !av {
			continue
		}
		if !GeometryEqual(a.Value(i), other.Value(i)) {
			return false
		}
	}
	return true
}

// DowncastType returns the single geometry kind this array holds, counting a
// single-part kind as its multi-part counterpart when every tag allows it.
// It reports ok=false when the array mixes incompatible kinds.
func (a *MixedArray[O]) DowncastType() (Type, bool) {
	var result Type
	for i := range a.typeIDs {
		t := a.TypeAt(i)
		if result == 0 {
			result = t
			continue
		}
		if t != result {
			return 0, false
		}
	}
	if result == 0 {
		return 0, false
	}
	return result, true
}

// Downcast converts a single-kind mixed array to the homogeneous array of
// that kind, sharing all backing buffers. It fails with ErrDowncast when the
// array holds more than one kind. Elements must be in child order, which is
// always true for arrays produced by MixedBuilder.
func (a *MixedArray[O]) Downcast() (Array, error) {
	t, ok := a.DowncastType()
	if !ok {
		return nil, ErrDowncast
	}
	// A slice of a mixed array addresses a contiguous run of its single
	// child.
	first, last := math.MaxInt32, -1
	for _, off := range a.offsets {
		if int(off) < first {
			first = int(off)
		}
		if int(off) > last {
			last = int(off)
		}
	}
	if last < 0 {
		return nil, ErrDowncast
	}
	length := last - first + 1
	switch t {
	case TypePoint:
		return a.points.Slice(first, length), nil
	case TypeLineString:
		return a.lineStrings.Slice(first, length), nil
	case TypePolygon:
		return a.polygons.Slice(first, length), nil
	case TypeMultiPoint:
		return a.multiPoints.Slice(first, length), nil
	case TypeMultiLineString:
		return a.multiLineStrings.Slice(first, length), nil
	case TypeMultiPolygon:
		return a.multiPolygons.Slice(first, length), nil
	default:
		return nil, ErrDowncast
	}
}

// MixedBuilder incrementally constructs a MixedArray. With PreferMulti set,
// single-part geometries are stored in their multi-part child wrapped as
// length-1 multi-geometries, which keeps the finished array downcastable to
// a single multi-* type when the input turns out to be homogeneous.
type MixedBuilder[O Offset] struct {
	dim     Dimension
	typeIDs []int8
	offsets []int32

	points           *PointBuilder
	lineStrings      *LineStringBuilder[O]
	polygons         *PolygonBuilder[O]
	multiPoints      *MultiPointBuilder[O]
	multiLineStrings *MultiLineStringBuilder[O]
	multiPolygons    *MultiPolygonBuilder[O]

	// PreferMulti routes single-part pushes into the multi-part children.
	PreferMulti bool

	meta *Metadata
}

// NewMixedBuilder creates an empty builder.
func NewMixedBuilder[O Offset](layout CoordType, dim Dimension) *MixedBuilder[O] {
	return NewMixedBuilderWithCapacity[O](layout, dim, MixedCapacity{})
}

// NewMixedBuilderWithCapacity creates a builder pre-sized from a capacity
// count.
func NewMixedBuilderWithCapacity[O Offset](layout CoordType, dim Dimension, capacity MixedCapacity) *MixedBuilder[O] {
	total := capacity.TotalGeoms()
	return &MixedBuilder[O]{
		dim:              dim,
		typeIDs:          make([]int8, 0, total),
		offsets:          make([]int32, 0, total),
		points:           NewPointBuilderWithCapacity(layout, dim, capacity.Points.Geoms),
		lineStrings:      NewLineStringBuilderWithCapacity[O](layout, dim, capacity.LineStrings),
		polygons:         NewPolygonBuilderWithCapacity[O](layout, dim, capacity.Polygons),
		multiPoints:      NewMultiPointBuilderWithCapacity[O](layout, dim, capacity.MultiPoints),
		multiLineStrings: NewMultiLineStringBuilderWithCapacity[O](layout, dim, capacity.MultiLineStrings),
		multiPolygons:    NewMultiPolygonBuilderWithCapacity[O](layout, dim, capacity.MultiPolygons),
	}
}

// SetMetadata attaches side-channel metadata to the finished array.
func (b *MixedBuilder[O]) SetMetadata(meta *Metadata) { b.meta = meta }

// Len returns the number of elements pushed so far.
func (b *MixedBuilder[O]) Len() int { return len(b.typeIDs) }

// Reserve ensures room for at least the given additional capacity.
func (b *MixedBuilder[O]) Reserve(additional MixedCapacity) {
	b.points.Reserve(additional.Points.Geoms)
	b.lineStrings.Reserve(additional.LineStrings)
	b.polygons.Reserve(additional.Polygons)
	b.multiPoints.Reserve(additional.MultiPoints)
	b.multiLineStrings.Reserve(additional.MultiLineStrings)
	b.multiPolygons.Reserve(additional.MultiPolygons)
}

// tag records that the next element lives in child t at the child's current
// length. It must be called before the child push.
func (b *MixedBuilder[O]) tag(t Type, childLen int) error {
	if childLen > math.MaxInt32 {
		return ErrOffsetOverflow
	}
	b.typeIDs = append(b.typeIDs, TypeID(t, b.dim))
	b.offsets = append(b.offsets, int32(childLen))
	return nil
}

// PushPoint appends one point, stored in the point child, or in the
// multi-point child when PreferMulti is set. Nil appends a null.
func (b *MixedBuilder[O]) PushPoint(g PointGeometry) error {
	if b.PreferMulti {
		if err := b.tag(TypeMultiPoint, b.multiPoints.Len()); err != nil {
			return err
		}
		if g == nil {
			return b.multiPoints.PushNull()
		}
		return b.multiPoints.PushPoint(g)
	}
	if err := b.tag(TypePoint, b.points.Len()); err != nil {
		return err
	}
	return b.points.PushPoint(g)
}

// PushLineString appends one line string, stored in the line string child,
// or in the multi-line-string child when PreferMulti is set. Nil appends a
// null.
func (b *MixedBuilder[O]) PushLineString(g LineStringGeometry) error {
	if b.PreferMulti {
		if err := b.tag(TypeMultiLineString, b.multiLineStrings.Len()); err != nil {
			return err
		}
		return b.multiLineStrings.PushLineString(g)
	}
	if err := b.tag(TypeLineString, b.lineStrings.Len()); err != nil {
		return err
	}
	return b.lineStrings.PushLineString(g)
}

// PushPolygon appends one polygon, stored in the polygon child, or in the
// multi-polygon child when PreferMulti is set. Nil appends a null.
func (b *MixedBuilder[O]) PushPolygon(g PolygonGeometry) error {
	if b.PreferMulti {
		if err := b.tag(TypeMultiPolygon, b.multiPolygons.Len()); err != nil {
			return err
		}
		return b.multiPolygons.PushPolygon(g)
	}
	if err := b.tag(TypePolygon, b.polygons.Len()); err != nil {
		return err
	}
	return b.polygons.PushPolygon(g)
}

// PushMultiPoint appends one multi-point. Nil appends a null.
func (b *MixedBuilder[O]) PushMultiPoint(g MultiPointGeometry) error {
	if err := b.tag(TypeMultiPoint, b.multiPoints.Len()); err != nil {
		return err
	}
	return b.multiPoints.PushMultiPoint(g)
}

// PushMultiLineString appends one multi-line-string. Nil appends a null.
func (b *MixedBuilder[O]) PushMultiLineString(g MultiLineStringGeometry) error {
	if err := b.tag(TypeMultiLineString, b.multiLineStrings.Len()); err != nil {
		return err
	}
	return b.multiLineStrings.PushMultiLineString(g)
}

// PushMultiPolygon appends one multi-polygon. Nil appends a null.
func (b *MixedBuilder[O]) PushMultiPolygon(g MultiPolygonGeometry) error {
	if err := b.tag(TypeMultiPolygon, b.multiPolygons.Len()); err != nil {
		return err
	}
	return b.multiPolygons.PushMultiPolygon(g)
}

// PushNull appends a null element, stored in the point child (multi-point
// child when PreferMulti is set) so that homogeneous input with nulls stays
// downcastable.
func (b *MixedBuilder[O]) PushNull() error {
	return b.PushPoint(nil)
}

// PushGeometry appends a geometry of any kind; nil appends a null. A
// geometry collection is only accepted when it has exactly one member, which
// is flattened; anything longer must go through a
// GeometryCollectionBuilder.
func (b *MixedBuilder[O]) PushGeometry(g Geometry) error {
	if g == nil {
		return b.PushNull()
	}
	switch g.GeometryType() {
	case TypePoint:
		return b.PushPoint(g.(PointGeometry))
	case TypeLineString:
		return b.PushLineString(g.(LineStringGeometry))
	case TypePolygon:
		return b.PushPolygon(g.(PolygonGeometry))
	case TypeMultiPoint:
		return b.PushMultiPoint(g.(MultiPointGeometry))
	case TypeMultiLineString:
		return b.PushMultiLineString(g.(MultiLineStringGeometry))
	case TypeMultiPolygon:
		return b.PushMultiPolygon(g.(MultiPolygonGeometry))
	case TypeGeometryCollection:
		coll := g.(CollectionGeometry)
		if coll.NumGeometries() != 1 {
			return ErrNestedCollection
		}
		return b.PushGeometry(coll.GeometryAt(0))
	default:
		return mismatch(TypePoint, g.GeometryType())
	}
}

// Finish converts the builder into an immutable array in O(1). The builder
// must not be used afterwards.
func (b *MixedBuilder[O]) Finish() *MixedArray[O] {
	return &MixedArray[O]{
		dim:              b.dim,
		typeIDs:          b.typeIDs,
		offsets:          b.offsets,
		points:           b.points.Finish(),
		lineStrings:      b.lineStrings.Finish(),
		polygons:         b.polygons.Finish(),
		multiPoints:      b.multiPoints.Finish(),
		multiLineStrings: b.multiLineStrings.Finish(),
		multiPolygons:    b.multiPolygons.Finish(),
		meta:             b.meta,
	}
}
