// Package flatgeobuf reads and writes FlatGeobuf files against columnar
// geometry arrays. Decoded features are exposed as lazy geometry views and
// fed to the array builders through their push interface; arrays are written
// back out through the upstream flatgeobuf writer. FlatGeobuf is a planar XY
// format, so arrays of other dimensions are rejected on write.
package flatgeobuf

import (
	"errors"
)

// Common errors returned by this package.
var (
	ErrNoGeometries    = errors.New("flatgeobuf: no geometries to write")
	ErrUnsupportedType = errors.New("flatgeobuf: unsupported geometry type")
	ErrInvalidData     = errors.New("flatgeobuf: invalid data")
	ErrNoIndex         = errors.New("flatgeobuf: file has no spatial index")
	ErrNotPlanar       = errors.New("flatgeobuf: only XY geometries are supported")
)

// CRS represents a coordinate reference system.
type CRS struct {
	Code        int    // EPSG code (e.g., 4326 for WGS84)
	Name        string // CRS name
	Description string // CRS description
	WKT         string // Well-Known Text representation
}

// WGS84 returns the standard WGS84 CRS (EPSG:4326).
func WGS84() *CRS {
	return &CRS{
		Code: 4326,
		Name: "WGS 84",
	}
}

// Options configures FlatGeobuf writing.
type Options struct {
	Name         string // Layer name
	Description  string // Layer description
	IncludeIndex bool   // Include spatial index (default: true)
	CRS          *CRS   // Coordinate reference system (optional)
}

// DefaultOptions returns default options for writing FlatGeobuf files.
func DefaultOptions() *Options {
	return &Options{
		IncludeIndex: true,
	}
}

// Header contains metadata about a FlatGeobuf file.
type Header struct {
	Name          string     // Layer name
	Description   string     // Layer description
	GeometryType  string     // Geometry type ("Point", "Polygon", "Unknown", etc.)
	FeaturesCount uint64     // Number of features in the file
	Envelope      [4]float64 // Bounding box [minX, minY, maxX, maxY]
	CRS           *CRS       // Coordinate reference system
	HasIndex      bool       // Whether the file has a spatial index
}
