package geoarrow

import (
	"encoding/json"
	"fmt"
)

// Edges specifies how edges between vertices are interpreted.
type Edges string

const (
	EdgesPlanar    Edges = "planar"
	EdgesSpherical Edges = "spherical"
)

// Metadata is the opaque side-channel attached to every geometry array. It is
// shared by reference between an array and its slices and is serialized into
// the Arrow extension metadata field when exporting.
type Metadata struct {
	// CRS holds the coordinate reference system, typically PROJJSON.
	CRS json.RawMessage `json:"crs,omitempty"`

	// Edges is the edge interpretation; empty means planar.
	Edges Edges `json:"edges,omitempty"`
}

// DefaultMetadata is the metadata used when none is supplied: no CRS, planar
// edges.
var DefaultMetadata = &Metadata{}

// Equal reports whether two metadata values are semantically equal. A nil
// metadata equals the default.
func (m *Metadata) Equal(other *Metadata) bool {
	a, b := m, other
	if a == nil {
		a = DefaultMetadata
	}
	if b == nil {
		b = DefaultMetadata
	}
	if a.edgesOrPlanar() != b.edgesOrPlanar() {
		return false
	}
	return string(a.CRS) == string(b.CRS)
}

func (m *Metadata) edgesOrPlanar() Edges {
	if m.Edges == "" {
		return EdgesPlanar
	}
	return m.Edges
}

// Serialize renders the metadata as the JSON payload stored under the
// ARROW:extension:metadata key.
func (m *Metadata) Serialize() (string, error) {
	if m == nil {
		m = DefaultMetadata
	}
	if len(m.CRS) == 0 && m.Edges == "" {
		return "{}", nil
	}
	data, err := json.Marshal(m)
	if err != nil {
		return "", fmt.Errorf("geoarrow: serializing metadata: %w", err)
	}
	return string(data), nil
}

// DeserializeMetadata parses the JSON payload stored under the
// ARROW:extension:metadata key. Empty input yields the default metadata.
func DeserializeMetadata(data string) (*Metadata, error) {
	if data == "" || data == "{}" {
		return DefaultMetadata, nil
	}
	var m Metadata
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		return nil, fmt.Errorf("geoarrow: deserializing metadata: %w", err)
	}
	return &m, nil
}
