package geoarrow

import "math"

// Offset is the integer width of an offset buffer. Arrays using int32 offsets
// overflow once a child buffer reaches 2^31 elements; retrying with int64 is
// the caller's decision.
type Offset interface {
	int32 | int64
}

func maxOffset[O Offset]() int64 {
	var z O
	if _, ok := any(z).(int32); ok {
		return math.MaxInt32
	}
	return math.MaxInt64
}

// Offsets is an immutable, monotonically non-decreasing index sequence
// delimiting variable-length runs in a child buffer. It always holds one more
// value than the number of logical elements; offsets[i]..offsets[i+1] is the
// child range of element i. After slicing the first offset is generally not
// zero.
type Offsets[O Offset] struct {
	buf []O
}

// NewOffsets wraps a raw offset slice, which must hold at least one value.
// The slice is not copied; the caller must not mutate it afterwards.
func NewOffsets[O Offset](buf []O) Offsets[O] {
	if len(buf) == 0 {
		buf = []O{0}
	}
	return Offsets[O]{buf: buf}
}

// Len returns the number of logical elements.
func (o Offsets[O]) Len() int { return len(o.buf) - 1 }

// Start returns the child start index of element i.
func (o Offsets[O]) Start(i int) int { return int(o.buf[i]) }

// End returns the child end index of element i.
func (o Offsets[O]) End(i int) int { return int(o.buf[i+1]) }

// Range returns the child range of element i.
func (o Offsets[O]) Range(i int) (start, end int) {
	return int(o.buf[i]), int(o.buf[i+1])
}

// First returns the first offset.
func (o Offsets[O]) First() int { return int(o.buf[0]) }

// Last returns the last offset, which at full-array construction time must
// equal the child buffer's logical length.
func (o Offsets[O]) Last() int { return int(o.buf[len(o.buf)-1]) }

// Values returns the backing slice. It must not be mutated.
func (o Offsets[O]) Values() []O { return o.buf }

// Slice returns the offsets for elements [offset, offset+length) in O(1),
// sharing the backing storage.
func (o Offsets[O]) Slice(offset, length int) Offsets[O] {
	if offset+length > o.Len() {
		panic("geoarrow: offsets slice out of bounds")
	}
	return Offsets[O]{buf: o.buf[offset : offset+length+1]}
}

// Equal reports logical equality: the same number of elements with identical
// run lengths, regardless of the absolute offset values.
func (o Offsets[O]) Equal(other Offsets[O]) bool {
	if o.Len() != other.Len() {
		return false
	}
	for i := 0; i < o.Len(); i++ {
		if o.End(i)-o.Start(i) != other.End(i)-other.Start(i) {
			return false
		}
	}
	return true
}

// OffsetsBuilder incrementally accumulates an offset sequence. The zero value
// is not ready for use; create builders with NewOffsetsBuilder.
type OffsetsBuilder[O Offset] struct {
	buf []O
}

// NewOffsetsBuilder returns a builder seeded with the leading zero offset and
// room for capacity elements.
func NewOffsetsBuilder[O Offset](capacity int) *OffsetsBuilder[O] {
	buf := make([]O, 1, capacity+1)
	return &OffsetsBuilder[O]{buf: buf}
}

// Len returns the number of completed elements.
func (b *OffsetsBuilder[O]) Len() int { return len(b.buf) - 1 }

// Last returns the current final offset, i.e. the child length consumed so
// far.
func (b *OffsetsBuilder[O]) Last() int { return int(b.buf[len(b.buf)-1]) }

// PushLength appends previous_last+n as the new last offset. It fails with
// ErrOffsetOverflow when the result is not representable in O.
func (b *OffsetsBuilder[O]) PushLength(n int) error {
	next := int64(b.Last()) + int64(n)
	if next > maxOffset[O]() {
		return ErrOffsetOverflow
	}
	b.buf = append(b.buf, O(next))
	return nil
}

// Reserve ensures room for at least additional more elements.
func (b *OffsetsBuilder[O]) Reserve(additional int) {
	if need := len(b.buf) + additional; need > cap(b.buf) {
		grown := make([]O, len(b.buf), need)
		copy(grown, b.buf)
		b.buf = grown
	}
}

// Finish converts the builder into an immutable offset buffer in O(1). The
// builder must not be used afterwards.
func (b *OffsetsBuilder[O]) Finish() Offsets[O] {
	return Offsets[O]{buf: b.buf}
}
