package geoarrow

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetadata_Serialize(t *testing.T) {
	out, err := (*Metadata)(nil).Serialize()
	require.NoError(t, err)
	assert.Equal(t, "{}", out)

	out, err = (&Metadata{Edges: EdgesSpherical}).Serialize()
	require.NoError(t, err)
	assert.JSONEq(t, `{"edges":"spherical"}`, out)

	crs := json.RawMessage(`{"id":{"authority":"EPSG","code":4326}}`)
	out, err = (&Metadata{CRS: crs}).Serialize()
	require.NoError(t, err)
	assert.JSONEq(t, `{"crs":{"id":{"authority":"EPSG","code":4326}}}`, out)
}

func TestDeserializeMetadata(t *testing.T) {
	m, err := DeserializeMetadata("")
	require.NoError(t, err)
	assert.True(t, m.Equal(DefaultMetadata))

	m, err = DeserializeMetadata(`{"edges":"spherical"}`)
	require.NoError(t, err)
	assert.Equal(t, EdgesSpherical, m.Edges)

	_, err = DeserializeMetadata(`{"edges":`)
	assert.Error(t, err)
}

func TestMetadata_Equal(t *testing.T) {
	// Nil, the default, and explicit planar edges are all the same thing.
	assert.True(t, (*Metadata)(nil).Equal(DefaultMetadata))
	assert.True(t, DefaultMetadata.Equal(&Metadata{Edges: EdgesPlanar}))

	assert.False(t, DefaultMetadata.Equal(&Metadata{Edges: EdgesSpherical}))
	assert.False(t, DefaultMetadata.Equal(&Metadata{CRS: json.RawMessage(`{}`)}))
}

func TestMetadata_SharedBySlices(t *testing.T) {
	meta := &Metadata{Edges: EdgesSpherical}
	b := NewPointBuilder(Interleaved, XY)
	b.SetMetadata(meta)
	require.NoError(t, b.PushCoord(XYCoord(0, 0)))
	require.NoError(t, b.PushCoord(XYCoord(1, 1)))
	a := b.Finish()

	assert.Same(t, meta, a.Metadata())
	assert.Same(t, meta, a.Slice(1, 1).Metadata())
}
