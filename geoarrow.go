// Package geoarrow provides a columnar, Arrow-compatible in-memory encoding for
// vector geometries: points, lines, polygons, their multi-part variants, mixed
// (heterogeneous) arrays, and geometry collections.
//
// Each geometry kind is stored as a flat coordinate buffer plus zero or more
// offset buffers delimiting the variable-length nesting levels (coordinates →
// rings → polygons → geometries → collections), with an optional validity
// bitmap for nulls. Finished arrays are immutable, cheap to slice, and safe to
// read from multiple goroutines; construction goes through a per-kind builder
// which can be pre-sized exactly from a capacity count.
//
// The geoarrow/wkb subpackage converts between these arrays and ISO
// Well-Known-Binary using a two-pass, allocation-exact parse.
package geoarrow

import (
	"errors"
	"fmt"
)

// Common errors returned by this package.
var (
	ErrValidityLength = errors.New("geoarrow: validity length must match the number of elements")
	ErrOffsetMismatch = errors.New("geoarrow: last offset must match child buffer length")
	ErrOffsetOverflow = errors.New("geoarrow: offset exceeds representable range")
	ErrDimension      = errors.New("geoarrow: dimension mismatch")
	ErrCoordLayout    = errors.New("geoarrow: coordinate buffer layout mismatch")
	ErrNestedCollection = errors.New("geoarrow: nested geometry collections are not representable in a mixed array")
	ErrDowncast       = errors.New("geoarrow: mixed array does not hold a single geometry type")
)

// TypeMismatchError reports a geometry pushed into a builder of an
// incompatible kind. A length-1 multi-geometry is accepted by single-geometry
// builders and never produces this error.
type TypeMismatchError struct {
	Expected Type
	Actual   Type
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("geoarrow: expected %s geometry, got %s", e.Expected, e.Actual)
}

func mismatch(expected, actual Type) error {
	return &TypeMismatchError{Expected: expected, Actual: actual}
}
