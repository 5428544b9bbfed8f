package geoarrow

// Dimension identifies the coordinate channels carried by a geometry.
type Dimension int

const (
	XY Dimension = iota
	XYZ
	XYM
	XYZM
)

// Size returns the number of physical coordinate channels (2-4).
func (d Dimension) Size() int {
	switch d {
	case XY:
		return 2
	case XYZ, XYM:
		return 3
	case XYZM:
		return 4
	default:
		return 2
	}
}

// HasZ reports whether the dimension carries a Z channel.
func (d Dimension) HasZ() bool { return d == XYZ || d == XYZM }

// HasM reports whether the dimension carries an M channel.
func (d Dimension) HasM() bool { return d == XYM || d == XYZM }

// typeIDOffset is the per-dimension offset added to a geometry kind to form a
// mixed-array union tag: XY uses 1-6, XYZ 11-16, XYM 21-26, XYZM 31-36.
func (d Dimension) typeIDOffset() int8 {
	switch d {
	case XY:
		return 0
	case XYZ:
		return 10
	case XYM:
		return 20
	case XYZM:
		return 30
	default:
		return 0
	}
}

func (d Dimension) String() string {
	switch d {
	case XY:
		return "xy"
	case XYZ:
		return "xyz"
	case XYM:
		return "xym"
	case XYZM:
		return "xyzm"
	default:
		return "unknown"
	}
}

// CoordType identifies the physical layout of a coordinate buffer.
type CoordType int

const (
	// Interleaved stores tuple i channel c at i*dim+c in one buffer.
	Interleaved CoordType = iota
	// Separated stores each channel in its own buffer.
	Separated
)

func (c CoordType) String() string {
	switch c {
	case Interleaved:
		return "interleaved"
	case Separated:
		return "separated"
	default:
		return "unknown"
	}
}

// Type identifies a geometry kind.
type Type int

const (
	TypePoint Type = iota + 1
	TypeLineString
	TypePolygon
	TypeMultiPoint
	TypeMultiLineString
	TypeMultiPolygon
	TypeGeometryCollection

	// TypeMixed tags a runtime-mixed array as a whole; individual elements
	// always carry one of the six primitive kinds.
	TypeMixed
)

func (t Type) String() string {
	switch t {
	case TypePoint:
		return "Point"
	case TypeLineString:
		return "LineString"
	case TypePolygon:
		return "Polygon"
	case TypeMultiPoint:
		return "MultiPoint"
	case TypeMultiLineString:
		return "MultiLineString"
	case TypeMultiPolygon:
		return "MultiPolygon"
	case TypeGeometryCollection:
		return "GeometryCollection"
	case TypeMixed:
		return "Mixed"
	default:
		return "Unknown"
	}
}

// ExtensionName returns the Arrow extension type name for the kind.
func (t Type) ExtensionName() string {
	switch t {
	case TypePoint:
		return "geoarrow.point"
	case TypeLineString:
		return "geoarrow.linestring"
	case TypePolygon:
		return "geoarrow.polygon"
	case TypeMultiPoint:
		return "geoarrow.multipoint"
	case TypeMultiLineString:
		return "geoarrow.multilinestring"
	case TypeMultiPolygon:
		return "geoarrow.multipolygon"
	case TypeGeometryCollection:
		return "geoarrow.geometrycollection"
	case TypeMixed:
		return "geoarrow.geometry"
	default:
		return "geoarrow.unknown"
	}
}

// TypeID returns the mixed-array union tag for a kind/dimension pair.
// GeometryCollection has no tag; it is not representable inside a mixed array.
func TypeID(t Type, dim Dimension) int8 {
	return dim.typeIDOffset() + int8(t)
}

// ParseTypeID splits a mixed-array union tag back into kind and dimension.
func ParseTypeID(id int8) (Type, Dimension, bool) {
	var dim Dimension
	switch {
	case id >= 1 && id <= 6:
		dim = XY
	case id >= 11 && id <= 16:
		dim = XYZ
	case id >= 21 && id <= 26:
		dim = XYM
	case id >= 31 && id <= 36:
		dim = XYZM
	default:
		return 0, 0, false
	}
	return Type(id - dim.typeIDOffset()), dim, true
}
