// Package wkb converts between ISO Well-Known Binary geometry records and
// columnar geometry arrays.
//
// Decoding is lazy: Decode performs a single structural scan of the record,
// producing a view tree that keeps byte offsets into the input buffer and
// reads coordinates on demand. Array construction is two-pass: pass one
// decodes every record and tallies exact buffer capacities, pass two fills a
// builder allocated to those capacities, so ingestion never grows a buffer.
//
// Both byte orders are accepted. Dimensionality may be expressed either
// ISO-style (geometry code + 1000/2000/3000) or EWKB-style (high bits
// 0x80000000 for Z and 0x40000000 for M); an embedded SRID (0x20000000) is
// recognized and skipped. Output is always little-endian ISO without SRID.
package wkb

import (
	"errors"
	"fmt"
)

var (
	// ErrTruncated reports a record shorter than its own structure claims.
	ErrTruncated = errors.New("wkb: truncated record")

	// ErrByteOrder reports a byte order marker other than 0 or 1.
	ErrByteOrder = errors.New("wkb: invalid byte order marker")

	// ErrUnknownType reports a geometry code outside the seven known kinds.
	ErrUnknownType = errors.New("wkb: unknown geometry type code")

	// ErrUnexpectedType reports a nested geometry of the wrong kind, such as
	// a line string inside a multi point.
	ErrUnexpectedType = errors.New("wkb: unexpected nested geometry type")

	// ErrMixedDimensions reports members of differing dimensionality inside
	// one record or one record batch.
	ErrMixedDimensions = errors.New("wkb: mixed coordinate dimensions")
)

// RecordError wraps a parse failure with the index of the offending record
// so batch callers can skip or abort.
type RecordError struct {
	Index int
	Err   error
}

func (e *RecordError) Error() string {
	return fmt.Sprintf("wkb: record %d: %v", e.Index, e.Err)
}

func (e *RecordError) Unwrap() error { return e.Err }

func recordErr(i int, err error) error {
	if err == nil {
		return nil
	}
	var re *RecordError
	if errors.As(err, &re) {
		return err
	}
	return &RecordError{Index: i, Err: err}
}
