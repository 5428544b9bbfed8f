package wkb

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tingold/geoarrow"
)

func encodeOrb(t *testing.T, g orb.Geometry) []byte {
	t.Helper()
	view, err := geoarrow.FromOrb(g)
	require.NoError(t, err)
	rec, err := Encode(view)
	require.NoError(t, err)
	return rec
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	cases := []orb.Geometry{
		orb.Point{1, 2},
		orb.MultiPoint{{0, 0}, {1, 1}},
		orb.LineString{{0, 0}, {1, 1}, {2, 0}},
		orb.MultiLineString{{{0, 0}, {1, 1}}, {{2, 2}, {3, 3}}},
		orb.Polygon{
			{{0, 0}, {10, 0}, {10, 10}, {0, 10}, {0, 0}},
			{{2, 2}, {4, 2}, {4, 4}, {2, 4}, {2, 2}},
		},
		orb.MultiPolygon{
			{{{0, 0}, {4, 0}, {4, 4}, {0, 0}}},
			{{{10, 10}, {12, 10}, {12, 12}, {10, 10}}},
		},
		orb.Collection{
			orb.Point{1, 1},
			orb.LineString{{0, 0}, {2, 2}},
			orb.Collection{orb.Point{7, 7}},
		},
	}
	for _, g := range cases {
		t.Run(g.GeoJSONType(), func(t *testing.T) {
			rec := encodeOrb(t, g)
			require.Equal(t, cap(rec), len(rec), "Size must be exact")

			view, err := Decode(rec)
			require.NoError(t, err)
			orig, err := geoarrow.FromOrb(g)
			require.NoError(t, err)
			assert.True(t, geoarrow.GeometryEqual(orig, view))

			// Re-encoding the decoded view is byte-identical.
			again, err := Encode(view)
			require.NoError(t, err)
			assert.Equal(t, rec, again)
		})
	}
}

func TestDecode_BigEndian(t *testing.T) {
	buf := []byte{0}
	buf = binary.BigEndian.AppendUint32(buf, 1)
	buf = binary.BigEndian.AppendUint64(buf, math.Float64bits(3))
	buf = binary.BigEndian.AppendUint64(buf, math.Float64bits(4))

	g, err := Decode(buf)
	require.NoError(t, err)
	p, ok := g.(Point)
	require.True(t, ok)
	c, ok := p.Coord()
	require.True(t, ok)
	assert.Equal(t, geoarrow.XYCoord(3, 4), c)

	// Output normalizes to little-endian.
	out, err := Encode(g)
	require.NoError(t, err)
	assert.Equal(t, byte(1), out[0])
	back, err := Decode(out)
	require.NoError(t, err)
	assert.True(t, geoarrow.GeometryEqual(g, back))
}

func TestDecode_ISODimensionCodes(t *testing.T) {
	point := func(code uint32, vals ...float64) []byte {
		buf := []byte{1}
		buf = binary.LittleEndian.AppendUint32(buf, code)
		for _, v := range vals {
			buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
		}
		return buf
	}

	cases := []struct {
		name string
		rec  []byte
		dim  geoarrow.Dimension
	}{
		{"xyz", point(1001, 1, 2, 3), geoarrow.XYZ},
		{"xym", point(2001, 1, 2, 4), geoarrow.XYM},
		{"xyzm", point(3001, 1, 2, 3, 4), geoarrow.XYZM},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			g, err := Decode(tc.rec)
			require.NoError(t, err)
			assert.Equal(t, tc.dim, g.Dim())

			out, err := Encode(g)
			require.NoError(t, err)
			assert.Equal(t, tc.rec, out)
		})
	}
}

func TestDecode_EWKB(t *testing.T) {
	// EWKB flags Z with the high bit instead of the +1000 code.
	buf := []byte{1}
	buf = binary.LittleEndian.AppendUint32(buf, 1|0x80000000)
	for _, v := range []float64{1, 2, 3} {
		buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(v))
	}

	g, err := Decode(buf)
	require.NoError(t, err)
	require.Equal(t, geoarrow.XYZ, g.Dim())
	c, ok := g.(Point).Coord()
	require.True(t, ok)
	assert.Equal(t, 3.0, c.Z())

	// The normalized output uses the ISO code.
	out, err := Encode(g)
	require.NoError(t, err)
	assert.Equal(t, uint32(1001), binary.LittleEndian.Uint32(out[1:]))
}

func TestDecode_EWKBSRID(t *testing.T) {
	buf := []byte{1}
	buf = binary.LittleEndian.AppendUint32(buf, 1|0x20000000)
	buf = binary.LittleEndian.AppendUint32(buf, 4326) // SRID, skipped
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(5))
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(6))

	g, err := Decode(buf)
	require.NoError(t, err)
	c, ok := g.(Point).Coord()
	require.True(t, ok)
	assert.Equal(t, geoarrow.XYCoord(5, 6), c)
}

func TestDecode_EmptyPoint(t *testing.T) {
	buf := []byte{1}
	buf = binary.LittleEndian.AppendUint32(buf, 1)
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(math.NaN()))
	buf = binary.LittleEndian.AppendUint64(buf, math.Float64bits(math.NaN()))

	g, err := Decode(buf)
	require.NoError(t, err)
	_, ok := g.(Point).Coord()
	assert.False(t, ok)

	// Empty point round-trips as all-NaN.
	out, err := Encode(g)
	require.NoError(t, err)
	back, err := Decode(out)
	require.NoError(t, err)
	_, ok = back.(Point).Coord()
	assert.False(t, ok)
}

func TestDecode_Errors(t *testing.T) {
	valid := encodeOrb(t, orb.Point{1, 2})

	t.Run("truncated point", func(t *testing.T) {
		_, err := Decode(valid[:len(valid)-1])
		assert.ErrorIs(t, err, ErrTruncated)
	})

	t.Run("truncated header", func(t *testing.T) {
		_, err := Decode([]byte{1, 0x01})
		assert.ErrorIs(t, err, ErrTruncated)
	})

	t.Run("bad byte order", func(t *testing.T) {
		bad := append([]byte{}, valid...)
		bad[0] = 2
		_, err := Decode(bad)
		assert.ErrorIs(t, err, ErrByteOrder)
	})

	t.Run("unknown kind", func(t *testing.T) {
		buf := []byte{1}
		buf = binary.LittleEndian.AppendUint32(buf, 8)
		_, err := Decode(buf)
		assert.ErrorIs(t, err, ErrUnknownType)
	})

	t.Run("unknown dimension code", func(t *testing.T) {
		buf := []byte{1}
		buf = binary.LittleEndian.AppendUint32(buf, 4001)
		_, err := Decode(buf)
		assert.ErrorIs(t, err, ErrUnknownType)
	})

	t.Run("trailing bytes", func(t *testing.T) {
		_, err := Decode(append(append([]byte{}, valid...), 0))
		assert.Error(t, err)
	})

	t.Run("oversized count", func(t *testing.T) {
		buf := []byte{1}
		buf = binary.LittleEndian.AppendUint32(buf, 2) // LineString
		buf = binary.LittleEndian.AppendUint32(buf, math.MaxUint32)
		_, err := Decode(buf)
		assert.ErrorIs(t, err, ErrTruncated)
	})

	t.Run("wrong nested kind", func(t *testing.T) {
		// A multi-point whose single member is a line string.
		buf := []byte{1}
		buf = binary.LittleEndian.AppendUint32(buf, 4)
		buf = binary.LittleEndian.AppendUint32(buf, 1)
		buf = append(buf, encodeOrb(t, orb.LineString{{0, 0}, {1, 1}})...)
		_, err := Decode(buf)
		assert.ErrorIs(t, err, ErrUnexpectedType)
	})

	t.Run("mixed member dimensions", func(t *testing.T) {
		// An XY collection holding an XYZ point.
		inner := []byte{1}
		inner = binary.LittleEndian.AppendUint32(inner, 1001)
		for _, v := range []float64{1, 2, 3} {
			inner = binary.LittleEndian.AppendUint64(inner, math.Float64bits(v))
		}
		buf := []byte{1}
		buf = binary.LittleEndian.AppendUint32(buf, 7)
		buf = binary.LittleEndian.AppendUint32(buf, 1)
		buf = append(buf, inner...)
		_, err := Decode(buf)
		assert.ErrorIs(t, err, ErrMixedDimensions)
	})
}

func TestSize(t *testing.T) {
	cases := []orb.Geometry{
		orb.Point{1, 2},
		orb.LineString{{0, 0}, {1, 1}},
		orb.Polygon{{{0, 0}, {1, 0}, {1, 1}, {0, 0}}},
		orb.MultiPoint{{0, 0}},
		orb.Collection{orb.Point{0, 0}},
	}
	for _, g := range cases {
		view, err := geoarrow.FromOrb(g)
		require.NoError(t, err)
		rec, err := Encode(view)
		require.NoError(t, err)
		assert.Equal(t, Size(view), len(rec))
	}
}
