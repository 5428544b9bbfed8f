package geoarrow

import "fmt"

// CoordBuffer is flat numeric storage for coordinate tuples in one of two
// physical layouts. It is immutable once constructed; slices share the
// backing storage and never copy.
type CoordBuffer struct {
	layout CoordType
	dim    Dimension

	// Interleaved layout: buf holds dim.Size() values per tuple.
	buf []float64

	// Separated layout: chans[0:dim.Size()] hold one channel each, all the
	// same length.
	chans [4][]float64
}

// NewInterleavedCoords wraps an interleaved coordinate buffer. It panics if
// the buffer length is not a multiple of the dimension size.
func NewInterleavedCoords(buf []float64, dim Dimension) CoordBuffer {
	cb, err := TryNewInterleavedCoords(buf, dim)
	if err != nil {
		panic(err)
	}
	return cb
}

// TryNewInterleavedCoords wraps an interleaved coordinate buffer, reporting a
// length that is not a multiple of the dimension size as an error.
func TryNewInterleavedCoords(buf []float64, dim Dimension) (CoordBuffer, error) {
	if len(buf)%dim.Size() != 0 {
		return CoordBuffer{}, fmt.Errorf("%w: interleaved buffer length %d is not a multiple of %d",
			ErrCoordLayout, len(buf), dim.Size())
	}
	return CoordBuffer{layout: Interleaved, dim: dim, buf: buf}, nil
}

// NewSeparatedCoords wraps per-channel coordinate buffers. It panics if the
// channel count does not match the dimension or the channels differ in
// length.
func NewSeparatedCoords(chans [][]float64, dim Dimension) CoordBuffer {
	cb, err := TryNewSeparatedCoords(chans, dim)
	if err != nil {
		panic(err)
	}
	return cb
}

// TryNewSeparatedCoords wraps per-channel coordinate buffers, reporting
// channel count or length mismatches as errors.
func TryNewSeparatedCoords(chans [][]float64, dim Dimension) (CoordBuffer, error) {
	if len(chans) != dim.Size() {
		return CoordBuffer{}, fmt.Errorf("%w: %d channel buffers for dimension %s",
			ErrCoordLayout, len(chans), dim)
	}
	var fixed [4][]float64
	for i, ch := range chans {
		if len(ch) != len(chans[0]) {
			return CoordBuffer{}, fmt.Errorf("%w: channel %d length %d != channel 0 length %d",
				ErrCoordLayout, i, len(ch), len(chans[0]))
		}
		fixed[i] = ch
	}
	return CoordBuffer{layout: Separated, dim: dim, chans: fixed}, nil
}

// Layout returns the physical layout tag.
func (c CoordBuffer) Layout() CoordType { return c.layout }

// Dim returns the coordinate dimension.
func (c CoordBuffer) Dim() Dimension { return c.dim }

// Len returns the number of coordinate tuples.
func (c CoordBuffer) Len() int {
	if c.layout == Interleaved {
		return len(c.buf) / c.dim.Size()
	}
	return len(c.chans[0])
}

// Value returns tuple i as a read-only coordinate.
func (c CoordBuffer) Value(i int) Coord {
	out := Coord{Dim: c.dim}
	size := c.dim.Size()
	if c.layout == Interleaved {
		copy(out.Vals[:size], c.buf[i*size:(i+1)*size])
		return out
	}
	for ch := 0; ch < size; ch++ {
		out.Vals[ch] = c.chans[ch][i]
	}
	return out
}

// Slice returns the tuples [offset, offset+length) in O(1), sharing the
// backing storage.
func (c CoordBuffer) Slice(offset, length int) CoordBuffer {
	if offset+length > c.Len() {
		panic("geoarrow: coord buffer slice out of bounds")
	}
	out := c
	if c.layout == Interleaved {
		size := c.dim.Size()
		out.buf = c.buf[offset*size : (offset+length)*size]
		return out
	}
	for ch := 0; ch < c.dim.Size(); ch++ {
		out.chans[ch] = c.chans[ch][offset : offset+length]
	}
	return out
}

// Interleaved returns the backing buffer of an interleaved coordinate
// buffer. It must not be mutated.
func (c CoordBuffer) Interleaved() []float64 { return c.buf }

// Channel returns one channel of a separated coordinate buffer. It must not
// be mutated.
func (c CoordBuffer) Channel(i int) []float64 { return c.chans[i] }

// IntoLayout converts the buffer to the requested layout. Converting to the
// buffer's own layout is free; the cross-layout conversion copies every
// value.
func (c CoordBuffer) IntoLayout(layout CoordType) CoordBuffer {
	if layout == c.layout {
		return c
	}
	size := c.dim.Size()
	n := c.Len()
	if layout == Interleaved {
		buf := make([]float64, n*size)
		for i := 0; i < n; i++ {
			for ch := 0; ch < size; ch++ {
				buf[i*size+ch] = c.chans[ch][i]
			}
		}
		return CoordBuffer{layout: Interleaved, dim: c.dim, buf: buf}
	}
	var chans [4][]float64
	for ch := 0; ch < size; ch++ {
		chans[ch] = make([]float64, n)
		for i := 0; i < n; i++ {
			chans[ch][i] = c.buf[i*size+ch]
		}
	}
	return CoordBuffer{layout: Separated, dim: c.dim, chans: chans}
}

// Equal compares two coordinate buffers value by value, treating all-NaN
// tuples (empty points) as self-equal. Buffers of different layouts holding
// the same values compare equal.
func (c CoordBuffer) Equal(other CoordBuffer) bool {
	if c.dim != other.dim || c.Len() != other.Len() {
		return false
	}
	for i := 0; i < c.Len(); i++ {
		if !c.Value(i).Equal(other.Value(i)) {
			return false
		}
	}
	return true
}

// NumBytes returns the size of the backing storage in bytes.
func (c CoordBuffer) NumBytes() int {
	if c.layout == Interleaved {
		return len(c.buf) * 8
	}
	return len(c.chans[0]) * c.dim.Size() * 8
}

// CoordBufferBuilder incrementally accumulates a coordinate buffer in either
// layout, expanding storage geometrically.
type CoordBufferBuilder struct {
	layout CoordType
	dim    Dimension
	buf    []float64
	chans  [4][]float64
}

// NewCoordBufferBuilder returns a builder with room for capacity tuples.
func NewCoordBufferBuilder(layout CoordType, dim Dimension, capacity int) *CoordBufferBuilder {
	b := &CoordBufferBuilder{layout: layout, dim: dim}
	if layout == Interleaved {
		b.buf = make([]float64, 0, capacity*dim.Size())
	} else {
		for ch := 0; ch < dim.Size(); ch++ {
			b.chans[ch] = make([]float64, 0, capacity)
		}
	}
	return b
}

// Len returns the number of tuples pushed so far.
func (b *CoordBufferBuilder) Len() int {
	if b.layout == Interleaved {
		return len(b.buf) / b.dim.Size()
	}
	return len(b.chans[0])
}

// Dim returns the builder's coordinate dimension.
func (b *CoordBufferBuilder) Dim() Dimension { return b.dim }

// Reserve ensures room for at least additional more tuples.
func (b *CoordBufferBuilder) Reserve(additional int) {
	if b.layout == Interleaved {
		need := len(b.buf) + additional*b.dim.Size()
		if need > cap(b.buf) {
			grown := make([]float64, len(b.buf), need)
			copy(grown, b.buf)
			b.buf = grown
		}
		return
	}
	for ch := 0; ch < b.dim.Size(); ch++ {
		if need := len(b.chans[ch]) + additional; need > cap(b.chans[ch]) {
			grown := make([]float64, len(b.chans[ch]), need)
			copy(grown, b.chans[ch])
			b.chans[ch] = grown
		}
	}
}

// PushCoord appends one tuple. It fails if the coordinate's dimension does
// not match the builder's.
func (b *CoordBufferBuilder) PushCoord(c Coord) error {
	if c.Dim != b.dim {
		return fmt.Errorf("%w: pushing %s coord into %s builder", ErrDimension, c.Dim, b.dim)
	}
	b.pushVals(c.Vals)
	return nil
}

// PushXY appends a two-dimensional tuple; the builder must be XY.
func (b *CoordBufferBuilder) PushXY(x, y float64) error {
	return b.PushCoord(XYCoord(x, y))
}

// PushNaN appends the all-NaN tuple, the empty-point encoding.
func (b *CoordBufferBuilder) PushNaN() {
	b.pushVals(NaNCoord(b.dim).Vals)
}

func (b *CoordBufferBuilder) pushVals(vals [4]float64) {
	size := b.dim.Size()
	if b.layout == Interleaved {
		b.buf = append(b.buf, vals[:size]...)
		return
	}
	for ch := 0; ch < size; ch++ {
		b.chans[ch] = append(b.chans[ch], vals[ch])
	}
}

// Finish converts the builder into an immutable coordinate buffer in O(1).
// The builder must not be used afterwards.
func (b *CoordBufferBuilder) Finish() CoordBuffer {
	return CoordBuffer{layout: b.layout, dim: b.dim, buf: b.buf, chans: b.chans}
}
