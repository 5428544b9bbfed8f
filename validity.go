package geoarrow

import "github.com/apache/arrow-go/v18/arrow/bitutil"

// Bitmap is an immutable validity bitmap: one bit per logical element, unset
// meaning null. A nil *Bitmap means "no nulls". Slices share the backing
// bytes via a bit offset.
type Bitmap struct {
	buf    []byte
	offset int
	length int
}

// NewBitmap wraps a bit-packed buffer holding length bits starting at bit
// offset.
func NewBitmap(buf []byte, offset, length int) *Bitmap {
	return &Bitmap{buf: buf, offset: offset, length: length}
}

// BitmapFromBools packs a boolean slice into a bitmap.
func BitmapFromBools(valid []bool) *Bitmap {
	buf := make([]byte, bitutil.CeilByte(len(valid))/8)
	for i, v := range valid {
		if v {
			bitutil.SetBit(buf, i)
		}
	}
	return &Bitmap{buf: buf, length: len(valid)}
}

// Len returns the number of bits.
func (b *Bitmap) Len() int { return b.length }

// Get reports whether bit i is set (element i is valid).
func (b *Bitmap) Get(i int) bool {
	return bitutil.BitIsSet(b.buf, b.offset+i)
}

// NullCount returns the number of unset bits.
func (b *Bitmap) NullCount() int {
	return b.length - bitutil.CountSetBits(b.buf, b.offset, b.length)
}

// Slice returns bits [offset, offset+length) in O(1), sharing the backing
// bytes.
func (b *Bitmap) Slice(offset, length int) *Bitmap {
	if offset+length > b.length {
		panic("geoarrow: bitmap slice out of bounds")
	}
	return &Bitmap{buf: b.buf, offset: b.offset + offset, length: length}
}

// Bytes returns the backing buffer and the bit offset of the first logical
// bit within it.
func (b *Bitmap) Bytes() ([]byte, int) { return b.buf, b.offset }

// Equal compares two bitmaps bit by bit; nil compares equal to an all-set
// bitmap of the same length when lengths are supplied by the caller, so this
// method only handles the non-nil case.
func (b *Bitmap) Equal(other *Bitmap) bool {
	if b.length != other.length {
		return false
	}
	for i := 0; i < b.length; i++ {
		if b.Get(i) != other.Get(i) {
			return false
		}
	}
	return true
}

// validityEqual compares two optional bitmaps over n elements, treating a nil
// bitmap as all-valid.
func validityEqual(a, b *Bitmap, n int) bool {
	get := func(bm *Bitmap, i int) bool {
		if bm == nil {
			return true
		}
		return bm.Get(i)
	}
	for i := 0; i < n; i++ {
		if get(a, i) != get(b, i) {
			return false
		}
	}
	return true
}

// isValid is the nil-tolerant validity probe used by array accessors.
func isValid(b *Bitmap, i int) bool {
	return b == nil || b.Get(i)
}

// checkValidity verifies the bitmap length against the element count implied
// by the outermost offset (or coordinate) buffer.
func checkValidity(b *Bitmap, n int) error {
	if b != nil && b.Len() != n {
		return ErrValidityLength
	}
	return nil
}

// sliceValidity narrows an optional bitmap, preserving nil.
func sliceValidity(b *Bitmap, offset, length int) *Bitmap {
	if b == nil {
		return nil
	}
	return b.Slice(offset, length)
}

// BitmapBuilder incrementally accumulates a validity bitmap. It tracks
// whether any null was appended so Finish can elide the bitmap entirely for
// all-valid arrays.
type BitmapBuilder struct {
	buf      []byte
	length   int
	hasNulls bool
}

// NewBitmapBuilder returns a builder with room for capacity bits.
func NewBitmapBuilder(capacity int) *BitmapBuilder {
	return &BitmapBuilder{buf: make([]byte, 0, bitutil.CeilByte(capacity)/8)}
}

// Len returns the number of bits appended so far.
func (b *BitmapBuilder) Len() int { return b.length }

// Append adds one bit.
func (b *BitmapBuilder) Append(valid bool) {
	if byteLen := bitutil.CeilByte(b.length+1) / 8; byteLen > len(b.buf) {
		b.buf = append(b.buf, 0)
	}
	if valid {
		bitutil.SetBit(b.buf, b.length)
	} else {
		b.hasNulls = true
	}
	b.length++
}

// Finish converts the builder into an immutable bitmap, or nil if no null
// was ever appended. The builder must not be used afterwards.
func (b *BitmapBuilder) Finish() *Bitmap {
	if !b.hasNulls {
		return nil
	}
	return &Bitmap{buf: b.buf, length: b.length}
}
