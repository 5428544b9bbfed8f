package geoarrow

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCoordBuffer_Interleaved(t *testing.T) {
	buf := []float64{0, 0, 1, 1, 2, 3}
	c, err := TryNewInterleavedCoords(buf, XY)
	require.NoError(t, err)

	assert.Equal(t, Interleaved, c.Layout())
	assert.Equal(t, XY, c.Dim())
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, XYCoord(1, 1), c.Value(1))
	assert.Equal(t, 48, c.NumBytes())

	_, err = TryNewInterleavedCoords([]float64{0, 0, 1}, XY)
	assert.ErrorIs(t, err, ErrCoordLayout)
}

func TestCoordBuffer_Separated(t *testing.T) {
	c, err := TryNewSeparatedCoords([][]float64{{0, 1, 2}, {0, 1, 3}}, XY)
	require.NoError(t, err)

	assert.Equal(t, Separated, c.Layout())
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, XYCoord(2, 3), c.Value(2))

	_, err = TryNewSeparatedCoords([][]float64{{0}, {0}}, XYZ)
	assert.ErrorIs(t, err, ErrCoordLayout)

	_, err = TryNewSeparatedCoords([][]float64{{0, 1}, {0}}, XY)
	assert.ErrorIs(t, err, ErrCoordLayout)
}

func TestCoordBuffer_Slice(t *testing.T) {
	base := []float64{0, 0, 1, 1, 2, 2, 3, 3}
	c := NewInterleavedCoords(base, XY)

	s := c.Slice(1, 2)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, XYCoord(1, 1), s.Value(0))

	// The slice shares storage with the original.
	assert.Same(t, &base[2], &s.Interleaved()[0])

	// Slicing a slice composes with slicing the original.
	assert.True(t, c.Slice(1, 3).Slice(1, 2).Equal(c.Slice(2, 2)))
}

func TestCoordBuffer_IntoLayout(t *testing.T) {
	inter := NewInterleavedCoords([]float64{0, 0, 1, 2}, XY)
	sep := inter.IntoLayout(Separated)

	assert.Equal(t, Separated, sep.Layout())
	assert.Equal(t, []float64{0, 1}, sep.Channel(0))
	assert.Equal(t, []float64{0, 2}, sep.Channel(1))

	// Conversion round-trips and cross-layout equality holds.
	assert.True(t, sep.IntoLayout(Interleaved).Equal(inter))
	assert.True(t, inter.Equal(sep))
}

func TestCoordBuffer_EqualNaN(t *testing.T) {
	nan := math.NaN()
	a := NewInterleavedCoords([]float64{nan, nan}, XY)
	b := NewInterleavedCoords([]float64{nan, nan}, XY)

	// The all-NaN tuple encodes an empty point and is self-equal.
	assert.True(t, a.Equal(b))
}

func TestCoordBufferBuilder(t *testing.T) {
	for _, layout := range []CoordType{Interleaved, Separated} {
		b := NewCoordBufferBuilder(layout, XYZ, 2)
		require.NoError(t, b.PushCoord(Coord{Dim: XYZ, Vals: [4]float64{1, 2, 3}}))
		b.PushNaN()

		assert.ErrorIs(t, b.PushCoord(XYCoord(0, 0)), ErrDimension)

		c := b.Finish()
		require.Equal(t, 2, c.Len())
		assert.Equal(t, 3.0, c.Value(0).Z())
		assert.True(t, c.Value(1).IsNaN())
	}
}
