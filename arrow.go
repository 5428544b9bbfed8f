package geoarrow

import (
	"fmt"
	"math"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/bitutil"
	"github.com/apache/arrow-go/v18/arrow/memory"
)

// Arrow interchange. ToArrow and FromArrow convert between geometry arrays
// and their Arrow physical representation without copying coordinate or
// offset buffers. The extension name and metadata ride on the Arrow field,
// not on the array, so ArrowField is the companion of ToArrow when a full
// schema is needed.

const (
	// ExtensionNameKey is the Arrow field metadata key holding the geometry
	// extension name, e.g. "geoarrow.point".
	ExtensionNameKey = "ARROW:extension:name"

	// ExtensionMetadataKey is the Arrow field metadata key holding the
	// serialized Metadata.
	ExtensionMetadataKey = "ARROW:extension:metadata"
)

// ArrowField returns an Arrow field describing the array: its physical
// data type plus the extension name and serialized metadata.
func ArrowField(a Array, name string) (arrow.Field, error) {
	data, err := arrowData(a)
	if err != nil {
		return arrow.Field{}, err
	}
	payload, err := a.Metadata().Serialize()
	if err != nil {
		return arrow.Field{}, err
	}
	md := arrow.NewMetadata(
		[]string{ExtensionNameKey, ExtensionMetadataKey},
		[]string{a.GeometryType().ExtensionName(), payload},
	)
	return arrow.Field{Name: name, Type: data.DataType(), Nullable: true, Metadata: md}, nil
}

// ToArrow converts a geometry array to an Arrow array sharing its buffers.
func ToArrow(a Array) (arrow.Array, error) {
	data, err := arrowData(a)
	if err != nil {
		return nil, err
	}
	return array.MakeFromData(data), nil
}

func arrowData(a Array) (arrow.ArrayData, error) {
	switch v := a.(type) {
	case *PointArray:
		return pointData(v), nil
	case *LineStringArray[int32]:
		return lineStringData(v), nil
	case *LineStringArray[int64]:
		return lineStringData(v), nil
	case *PolygonArray[int32]:
		return polygonData(v), nil
	case *PolygonArray[int64]:
		return polygonData(v), nil
	case *MultiPointArray[int32]:
		return multiPointData(v), nil
	case *MultiPointArray[int64]:
		return multiPointData(v), nil
	case *MultiLineStringArray[int32]:
		return multiLineStringData(v), nil
	case *MultiLineStringArray[int64]:
		return multiLineStringData(v), nil
	case *MultiPolygonArray[int32]:
		return multiPolygonData(v), nil
	case *MultiPolygonArray[int64]:
		return multiPolygonData(v), nil
	case *MixedArray[int32]:
		return mixedData(v), nil
	case *MixedArray[int64]:
		return mixedData(v), nil
	case *GeometryCollectionArray[int32]:
		return geometryCollectionData(v), nil
	case *GeometryCollectionArray[int64]:
		return geometryCollectionData(v), nil
	default:
		return nil, fmt.Errorf("geoarrow: unsupported array type %T", a)
	}
}

// interleavedName is the child field name of an interleaved coordinate
// buffer.
func interleavedName(d Dimension) string {
	switch d {
	case XYZ:
		return "xyz"
	case XYM:
		return "xym"
	case XYZM:
		return "xyzm"
	default:
		return "xy"
	}
}

// axisNames are the struct field names of a separated coordinate buffer, in
// channel order.
func axisNames(d Dimension) []string {
	switch d {
	case XYZ:
		return []string{"x", "y", "z"}
	case XYM:
		return []string{"x", "y", "m"}
	case XYZM:
		return []string{"x", "y", "z", "m"}
	default:
		return []string{"x", "y"}
	}
}

func float64Data(vals []float64) arrow.ArrayData {
	buf := memory.NewBufferBytes(arrow.Float64Traits.CastToBytes(vals))
	return array.NewData(arrow.PrimitiveTypes.Float64, len(vals),
		[]*memory.Buffer{nil, buf}, nil, 0, 0)
}

// coordsData renders a coordinate buffer as a fixed-size list (interleaved)
// or struct (separated) with an optional element validity bitmap.
func coordsData(c CoordBuffer, validity *memory.Buffer, nullN int) arrow.ArrayData {
	n := c.Len()
	size := c.Dim().Size()
	if c.Layout() == Interleaved {
		dt := arrow.FixedSizeListOfField(int32(size), arrow.Field{
			Name: interleavedName(c.Dim()),
			Type: arrow.PrimitiveTypes.Float64,
		})
		return array.NewData(dt, n, []*memory.Buffer{validity},
			[]arrow.ArrayData{float64Data(c.Interleaved())}, nullN, 0)
	}
	names := axisNames(c.Dim())
	fields := make([]arrow.Field, size)
	children := make([]arrow.ArrayData, size)
	for i := 0; i < size; i++ {
		fields[i] = arrow.Field{Name: names[i], Type: arrow.PrimitiveTypes.Float64}
		children[i] = float64Data(c.Channel(i))
	}
	return array.NewData(arrow.StructOf(fields...), n,
		[]*memory.Buffer{validity}, children, nullN, 0)
}

// validityBuffer packs an optional bitmap into a byte-aligned Arrow validity
// buffer, repacking when the bitmap carries a bit offset from slicing.
func validityBuffer(b *Bitmap, n int) (*memory.Buffer, int) {
	if b == nil {
		return nil, 0
	}
	nullN := b.NullCount()
	if nullN == 0 {
		return nil, 0
	}
	buf, off := b.Bytes()
	if off == 0 {
		return memory.NewBufferBytes(buf), nullN
	}
	packed := make([]byte, bitutil.CeilByte(n)/8)
	for i := 0; i < n; i++ {
		if b.Get(i) {
			bitutil.SetBit(packed, i)
		}
	}
	return memory.NewBufferBytes(packed), nullN
}

func isLargeOffset[O Offset]() bool { return maxOffset[O]() == math.MaxInt64 }

func offsetsBuffer[O Offset](o Offsets[O]) *memory.Buffer {
	switch v := any(o.Values()).(type) {
	case []int32:
		return memory.NewBufferBytes(arrow.Int32Traits.CastToBytes(v))
	case []int64:
		return memory.NewBufferBytes(arrow.Int64Traits.CastToBytes(v))
	default:
		panic("geoarrow: unsupported offset width")
	}
}

func listOf[O Offset](elem arrow.Field) arrow.DataType {
	if isLargeOffset[O]() {
		return arrow.LargeListOfField(elem)
	}
	return arrow.ListOfField(elem)
}

// listData assembles one list nesting level around child.
func listData[O Offset](name string, offsets Offsets[O], child arrow.ArrayData,
	validity *memory.Buffer, nullN int) arrow.ArrayData {
	dt := listOf[O](arrow.Field{Name: name, Type: child.DataType()})
	return array.NewData(dt, offsets.Len(),
		[]*memory.Buffer{validity, offsetsBuffer(offsets)},
		[]arrow.ArrayData{child}, nullN, 0)
}

func pointData(a *PointArray) arrow.ArrayData {
	validity, nullN := validityBuffer(a.nulls, a.Len())
	return coordsData(a.coords, validity, nullN)
}

func lineStringData[O Offset](a *LineStringArray[O]) arrow.ArrayData {
	validity, nullN := validityBuffer(a.nulls, a.Len())
	return listData("vertices", a.geomOffsets, coordsData(a.coords, nil, 0), validity, nullN)
}

func polygonData[O Offset](a *PolygonArray[O]) arrow.ArrayData {
	validity, nullN := validityBuffer(a.nulls, a.Len())
	rings := listData("vertices", a.ringOffsets, coordsData(a.coords, nil, 0), nil, 0)
	return listData("rings", a.geomOffsets, rings, validity, nullN)
}

func multiPointData[O Offset](a *MultiPointArray[O]) arrow.ArrayData {
	validity, nullN := validityBuffer(a.nulls, a.Len())
	return listData("points", a.geomOffsets, coordsData(a.coords, nil, 0), validity, nullN)
}

func multiLineStringData[O Offset](a *MultiLineStringArray[O]) arrow.ArrayData {
	validity, nullN := validityBuffer(a.nulls, a.Len())
	lines := listData("vertices", a.ringOffsets, coordsData(a.coords, nil, 0), nil, 0)
	return listData("linestrings", a.geomOffsets, lines, validity, nullN)
}

func multiPolygonData[O Offset](a *MultiPolygonArray[O]) arrow.ArrayData {
	validity, nullN := validityBuffer(a.nulls, a.Len())
	rings := listData("vertices", a.ringOffsets, coordsData(a.coords, nil, 0), nil, 0)
	polys := listData("rings", a.polygonOffsets, rings, nil, 0)
	return listData("polygons", a.geomOffsets, polys, validity, nullN)
}

// mixedChildKinds is the fixed child order of the dense union encoding.
var mixedChildKinds = [6]Type{
	TypePoint, TypeLineString, TypePolygon,
	TypeMultiPoint, TypeMultiLineString, TypeMultiPolygon,
}

func mixedData[O Offset](a *MixedArray[O]) arrow.ArrayData {
	children := []arrow.ArrayData{
		pointData(a.points),
		lineStringData(a.lineStrings),
		polygonData(a.polygons),
		multiPointData(a.multiPoints),
		multiLineStringData(a.multiLineStrings),
		multiPolygonData(a.multiPolygons),
	}
	fields := make([]arrow.Field, len(children))
	codes := make([]arrow.UnionTypeCode, len(children))
	for i, child := range children {
		fields[i] = arrow.Field{Name: mixedChildKinds[i].String(), Type: child.DataType()}
		codes[i] = arrow.UnionTypeCode(TypeID(mixedChildKinds[i], a.dim))
	}
	dt := arrow.DenseUnionOf(fields, codes)
	buffers := []*memory.Buffer{
		nil,
		memory.NewBufferBytes(arrow.Int8Traits.CastToBytes(a.typeIDs)),
		memory.NewBufferBytes(arrow.Int32Traits.CastToBytes(a.offsets)),
	}
	return array.NewData(dt, a.Len(), buffers, children, 0, 0)
}

func geometryCollectionData[O Offset](a *GeometryCollectionArray[O]) arrow.ArrayData {
	validity, nullN := validityBuffer(a.nulls, a.Len())
	return listData("geometries", a.geomOffsets, mixedData(a.mixed), validity, nullN)
}

// parseExtensionName maps an extension name back to a geometry kind.
func parseExtensionName(name string) (Type, bool) {
	switch name {
	case "geoarrow.point":
		return TypePoint, true
	case "geoarrow.linestring":
		return TypeLineString, true
	case "geoarrow.polygon":
		return TypePolygon, true
	case "geoarrow.multipoint":
		return TypeMultiPoint, true
	case "geoarrow.multilinestring":
		return TypeMultiLineString, true
	case "geoarrow.multipolygon":
		return TypeMultiPolygon, true
	case "geoarrow.geometrycollection":
		return TypeGeometryCollection, true
	case "geoarrow.geometry":
		return TypeMixed, true
	default:
		return 0, false
	}
}

// FromArrow reconstructs a geometry array from an Arrow array and its field.
// The field metadata must carry the geoarrow extension name; the physical
// type determines the coordinate layout, dimension, and offset width. Buffers
// are shared, not copied. Sliced Arrow input is supported.
func FromArrow(arr arrow.Array, field arrow.Field) (Array, error) {
	idx := field.Metadata.FindKey(ExtensionNameKey)
	if idx < 0 {
		return nil, fmt.Errorf("geoarrow: field %q carries no %s metadata", field.Name, ExtensionNameKey)
	}
	t, ok := parseExtensionName(field.Metadata.Values()[idx])
	if !ok {
		return nil, fmt.Errorf("geoarrow: unknown extension name %q", field.Metadata.Values()[idx])
	}
	meta := DefaultMetadata
	if mi := field.Metadata.FindKey(ExtensionMetadataKey); mi >= 0 {
		var err error
		meta, err = DeserializeMetadata(field.Metadata.Values()[mi])
		if err != nil {
			return nil, err
		}
	}
	return fromArrowData(arr.Data(), t, meta)
}

func fromArrowData(data arrow.ArrayData, t Type, meta *Metadata) (Array, error) {
	switch t {
	case TypePoint:
		return pointFromData(data, meta)
	case TypeLineString, TypeMultiPoint, TypePolygon, TypeMultiLineString,
		TypeMultiPolygon, TypeGeometryCollection:
		if isLargeList(data.DataType()) {
			return nestedFromData[int64](data, t, meta)
		}
		return nestedFromData[int32](data, t, meta)
	case TypeMixed:
		// The offset width of the nested children decides the variant.
		if mixedHasLargeChildren(data.DataType()) {
			return mixedFromData[int64](data, meta)
		}
		return mixedFromData[int32](data, meta)
	default:
		return nil, fmt.Errorf("geoarrow: unsupported kind %s", t)
	}
}

func isLargeList(dt arrow.DataType) bool {
	_, ok := dt.(*arrow.LargeListType)
	return ok
}

func mixedHasLargeChildren(dt arrow.DataType) bool {
	union, ok := dt.(*arrow.DenseUnionType)
	if !ok {
		return false
	}
	for _, f := range union.Fields() {
		if isLargeList(f.Type) {
			return true
		}
	}
	return false
}

func nestedFromData[O Offset](data arrow.ArrayData, t Type, meta *Metadata) (Array, error) {
	switch t {
	case TypeLineString:
		return lineStringFromData[O](data, meta)
	case TypeMultiPoint:
		return multiPointFromData[O](data, meta)
	case TypePolygon:
		return polygonFromData[O](data, meta)
	case TypeMultiLineString:
		return multiLineStringFromData[O](data, meta)
	case TypeMultiPolygon:
		return multiPolygonFromData[O](data, meta)
	default:
		return geometryCollectionFromData[O](data, meta)
	}
}

func float64FromData(data arrow.ArrayData) []float64 {
	vals := arrow.Float64Traits.CastFromBytes(data.Buffers()[1].Bytes())
	return vals[data.Offset():]
}

// coordsFromData decodes a coordinate array. For sliced parents the window
// [offset, offset+length) selects the visible coordinates.
func coordsFromData(data arrow.ArrayData, offset, length int) (CoordBuffer, error) {
	switch dt := data.DataType().(type) {
	case *arrow.FixedSizeListType:
		size := int(dt.Len())
		dim, err := dimFromInterleaved(size, dt.ElemField().Name)
		if err != nil {
			return CoordBuffer{}, err
		}
		vals := float64FromData(data.Children()[0])
		start := (data.Offset() + offset) * size
		return TryNewInterleavedCoords(vals[start:start+length*size], dim)
	case *arrow.StructType:
		dim, err := dimFromAxes(dt.Fields())
		if err != nil {
			return CoordBuffer{}, err
		}
		chans := make([][]float64, dim.Size())
		for i := range chans {
			vals := float64FromData(data.Children()[i])
			start := data.Offset() + offset
			chans[i] = vals[start : start+length]
		}
		return TryNewSeparatedCoords(chans, dim)
	default:
		return CoordBuffer{}, fmt.Errorf("%w: %s is not a coordinate type", ErrCoordLayout, dt)
	}
}

func dimFromInterleaved(size int, name string) (Dimension, error) {
	switch size {
	case 2:
		return XY, nil
	case 3:
		if name == "xym" {
			return XYM, nil
		}
		return XYZ, nil
	case 4:
		return XYZM, nil
	default:
		return 0, fmt.Errorf("%w: fixed size list of %d", ErrDimension, size)
	}
}

func dimFromAxes(fields []arrow.Field) (Dimension, error) {
	switch len(fields) {
	case 2:
		return XY, nil
	case 3:
		if fields[2].Name == "m" {
			return XYM, nil
		}
		return XYZ, nil
	case 4:
		return XYZM, nil
	default:
		return 0, fmt.Errorf("%w: struct of %d axes", ErrDimension, len(fields))
	}
}

func offsetsFromData[O Offset](data arrow.ArrayData) Offsets[O] {
	var vals []O
	switch any(vals).(type) {
	case []int32:
		vals = any(arrow.Int32Traits.CastFromBytes(data.Buffers()[1].Bytes())).([]O)
	case []int64:
		vals = any(arrow.Int64Traits.CastFromBytes(data.Buffers()[1].Bytes())).([]O)
	}
	return NewOffsets(vals[data.Offset() : data.Offset()+data.Len()+1])
}

func validityFromData(data arrow.ArrayData) *Bitmap {
	if data.NullN() == 0 || len(data.Buffers()) == 0 || data.Buffers()[0] == nil {
		return nil
	}
	return NewBitmap(data.Buffers()[0].Bytes(), data.Offset(), data.Len())
}

// The fromData constructors below admit sliced input, where the last visible
// offset legitimately falls short of the child length, so they bound-check
// with <= instead of requiring last offset == child length.

func pointFromData(data arrow.ArrayData, meta *Metadata) (*PointArray, error) {
	coords, err := coordsFromData(data, 0, data.Len())
	if err != nil {
		return nil, err
	}
	return &PointArray{coords: coords, nulls: validityFromData(data), meta: meta}, nil
}

func checkChildBound(last, childLen int) error {
	if last > childLen {
		return fmt.Errorf("%w: offset %d past child length %d", ErrOffsetMismatch, last, childLen)
	}
	return nil
}

func lineStringFromData[O Offset](data arrow.ArrayData, meta *Metadata) (*LineStringArray[O], error) {
	geomOffsets := offsetsFromData[O](data)
	child := data.Children()[0]
	coords, err := coordsFromData(child, 0, child.Len())
	if err != nil {
		return nil, err
	}
	if err := checkChildBound(geomOffsets.Last(), coords.Len()); err != nil {
		return nil, err
	}
	return &LineStringArray[O]{
		coords: coords, geomOffsets: geomOffsets,
		nulls: validityFromData(data), meta: meta,
	}, nil
}

func polygonFromData[O Offset](data arrow.ArrayData, meta *Metadata) (*PolygonArray[O], error) {
	geomOffsets := offsetsFromData[O](data)
	rings := data.Children()[0]
	ringOffsets := offsetsFromData[O](rings)
	inner := rings.Children()[0]
	coords, err := coordsFromData(inner, 0, inner.Len())
	if err != nil {
		return nil, err
	}
	if err := checkChildBound(geomOffsets.Last(), ringOffsets.Len()); err != nil {
		return nil, err
	}
	if err := checkChildBound(ringOffsets.Last(), coords.Len()); err != nil {
		return nil, err
	}
	return &PolygonArray[O]{
		coords: coords, ringOffsets: ringOffsets, geomOffsets: geomOffsets,
		nulls: validityFromData(data), meta: meta,
	}, nil
}

func multiPointFromData[O Offset](data arrow.ArrayData, meta *Metadata) (*MultiPointArray[O], error) {
	ls, err := lineStringFromData[O](data, meta)
	if err != nil {
		return nil, err
	}
	return &MultiPointArray[O]{
		coords: ls.coords, geomOffsets: ls.geomOffsets, nulls: ls.nulls, meta: meta,
	}, nil
}

func multiLineStringFromData[O Offset](data arrow.ArrayData, meta *Metadata) (*MultiLineStringArray[O], error) {
	p, err := polygonFromData[O](data, meta)
	if err != nil {
		return nil, err
	}
	return &MultiLineStringArray[O]{
		coords: p.coords, ringOffsets: p.ringOffsets, geomOffsets: p.geomOffsets,
		nulls: p.nulls, meta: meta,
	}, nil
}

func multiPolygonFromData[O Offset](data arrow.ArrayData, meta *Metadata) (*MultiPolygonArray[O], error) {
	geomOffsets := offsetsFromData[O](data)
	polys := data.Children()[0]
	polygonOffsets := offsetsFromData[O](polys)
	rings := polys.Children()[0]
	ringOffsets := offsetsFromData[O](rings)
	inner := rings.Children()[0]
	coords, err := coordsFromData(inner, 0, inner.Len())
	if err != nil {
		return nil, err
	}
	if err := checkChildBound(geomOffsets.Last(), polygonOffsets.Len()); err != nil {
		return nil, err
	}
	if err := checkChildBound(polygonOffsets.Last(), ringOffsets.Len()); err != nil {
		return nil, err
	}
	if err := checkChildBound(ringOffsets.Last(), coords.Len()); err != nil {
		return nil, err
	}
	return &MultiPolygonArray[O]{
		coords: coords, ringOffsets: ringOffsets, polygonOffsets: polygonOffsets,
		geomOffsets: geomOffsets, nulls: validityFromData(data), meta: meta,
	}, nil
}

func mixedFromData[O Offset](data arrow.ArrayData, meta *Metadata) (*MixedArray[O], error) {
	union, ok := data.DataType().(*arrow.DenseUnionType)
	if !ok {
		return nil, fmt.Errorf("geoarrow: mixed array is %s, not a dense union", data.DataType())
	}
	typeIDs := arrow.Int8Traits.CastFromBytes(data.Buffers()[1].Bytes())
	typeIDs = typeIDs[data.Offset() : data.Offset()+data.Len()]
	offsets := arrow.Int32Traits.CastFromBytes(data.Buffers()[2].Bytes())
	offsets = offsets[data.Offset() : data.Offset()+data.Len()]

	var (
		dim              Dimension
		dimSet           bool
		points           *PointArray
		lineStrings      *LineStringArray[O]
		polygons         *PolygonArray[O]
		multiPoints      *MultiPointArray[O]
		multiLineStrings *MultiLineStringArray[O]
		multiPolygons    *MultiPolygonArray[O]
	)
	for i, code := range union.TypeCodes() {
		kind, d, ok := ParseTypeID(int8(code))
		if !ok {
			return nil, fmt.Errorf("geoarrow: invalid union type code %d", code)
		}
		if dimSet && d != dim {
			return nil, fmt.Errorf("%w: union mixes %s and %s children", ErrDimension, dim, d)
		}
		dim, dimSet = d, true
		child := data.Children()[i]
		var err error
		switch kind {
		case TypePoint:
			points, err = pointFromData(child, meta)
		case TypeLineString:
			lineStrings, err = lineStringFromData[O](child, meta)
		case TypePolygon:
			polygons, err = polygonFromData[O](child, meta)
		case TypeMultiPoint:
			multiPoints, err = multiPointFromData[O](child, meta)
		case TypeMultiLineString:
			multiLineStrings, err = multiLineStringFromData[O](child, meta)
		case TypeMultiPolygon:
			multiPolygons, err = multiPolygonFromData[O](child, meta)
		default:
			err = fmt.Errorf("geoarrow: union child of kind %s", kind)
		}
		if err != nil {
			return nil, err
		}
	}
	if !dimSet {
		dim = XY
	}
	return TryNewMixedArray(dim, typeIDs, offsets,
		points, lineStrings, polygons, multiPoints, multiLineStrings, multiPolygons, meta)
}

func geometryCollectionFromData[O Offset](data arrow.ArrayData, meta *Metadata) (*GeometryCollectionArray[O], error) {
	geomOffsets := offsetsFromData[O](data)
	mixed, err := mixedFromData[O](data.Children()[0], meta)
	if err != nil {
		return nil, err
	}
	if err := checkChildBound(geomOffsets.Last(), mixed.Len()); err != nil {
		return nil, err
	}
	return &GeometryCollectionArray[O]{
		mixed: mixed, geomOffsets: geomOffsets,
		nulls: validityFromData(data), meta: meta,
	}, nil
}
