package geoarrow

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOffsetsBuilder(t *testing.T) {
	b := NewOffsetsBuilder[int32](4)
	require.Equal(t, 0, b.Len())

	require.NoError(t, b.PushLength(2))
	require.NoError(t, b.PushLength(0))
	require.NoError(t, b.PushLength(3))

	o := b.Finish()
	assert.Equal(t, 3, o.Len())
	assert.Equal(t, []int32{0, 2, 2, 5}, o.Values())
	assert.Equal(t, 0, o.Start(0))
	assert.Equal(t, 2, o.End(0))
	start, end := o.Range(1)
	assert.Equal(t, 2, start)
	assert.Equal(t, 2, end)
	assert.Equal(t, 5, o.Last())
}

func TestOffsetsBuilder_Overflow(t *testing.T) {
	b := NewOffsetsBuilder[int32](2)
	require.NoError(t, b.PushLength(math.MaxInt32))
	assert.ErrorIs(t, b.PushLength(1), ErrOffsetOverflow)

	// int64 offsets take the same lengths without overflowing.
	b64 := NewOffsetsBuilder[int64](2)
	require.NoError(t, b64.PushLength(math.MaxInt32))
	assert.NoError(t, b64.PushLength(1))
}

func TestOffsets_Slice(t *testing.T) {
	o := NewOffsets([]int32{0, 2, 2, 5, 9})
	require.Equal(t, 4, o.Len())

	s := o.Slice(1, 2)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 2, s.Start(0))
	assert.Equal(t, 2, s.End(0))
	assert.Equal(t, 2, s.First())
	assert.Equal(t, 5, s.Last())

	// Slicing a slice composes with slicing the original.
	assert.True(t, o.Slice(1, 3).Slice(1, 2).Equal(o.Slice(2, 2)))
}

func TestOffsets_Equal(t *testing.T) {
	a := NewOffsets([]int32{0, 2, 2, 5})
	b := NewOffsets([]int32{0, 2, 2, 5})
	assert.True(t, a.Equal(b))

	// Equality is over run lengths, not raw values: a sliced buffer with
	// shifted offsets describes the same runs.
	shifted := NewOffsets([]int32{3, 5, 5, 8})
	assert.True(t, a.Equal(shifted))

	assert.False(t, a.Equal(NewOffsets([]int32{0, 2, 3, 5})))
	assert.False(t, a.Equal(NewOffsets([]int32{0, 2, 2})))
}
