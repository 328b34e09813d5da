package pfb

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileHeaderRoundTrip(t *testing.T) {
	geom, err := NewGridGeometry(1.5, -2.25, 0, 4, 5, 6, 10, 10, 1, 2, 1, 3)
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeFileHeader(&buf, geom))
	assert.Equal(t, FileHeaderBytes, buf.Len())

	got, numSubgrids, err := readFileHeader(&buf)
	require.NoError(t, err)
	assert.Equal(t, geom.NumSubgrids(), numSubgrids)
	assert.Equal(t, geom.OriginX, got.OriginX)
	assert.Equal(t, geom.OriginY, got.OriginY)
	assert.Equal(t, geom.OriginZ, got.OriginZ)
	assert.Equal(t, geom.NX, got.NX)
	assert.Equal(t, geom.NY, got.NY)
	assert.Equal(t, geom.NZ, got.NZ)
	assert.Equal(t, geom.DX, got.DX)
	assert.Equal(t, geom.DY, got.DY)
	assert.Equal(t, geom.DZ, got.DZ)
	// Partition factors are not part of the wire format.
	assert.Equal(t, 0, got.P)
	assert.Equal(t, 0, got.Q)
	assert.Equal(t, 0, got.R)
}

func TestFileHeaderRejectsImplausibleExtents(t *testing.T) {
	var buf bytes.Buffer
	geom := GridGeometry{NX: 1, NY: 1, NZ: 1, DX: 1, DY: 1, DZ: 1}
	require.NoError(t, writeFileHeader(&buf, geom))

	raw := buf.Bytes()
	// Corrupt the NX field (24 bytes in, 4 bytes wide) to zero.
	for i := 24; i < 28; i++ {
		raw[i] = 0
	}
	_, _, err := readFileHeader(bytes.NewReader(raw))
	require.Error(t, err)
	var pfbErr *Error
	require.ErrorAs(t, err, &pfbErr)
	assert.Equal(t, KindFormat, pfbErr.Kind)
}

func TestSubgridHeaderRoundTrip(t *testing.T) {
	sg := Subgrid{IX: 3, IY: 4, IZ: 5, NX: 6, NY: 7, NZ: 8, RX: 1, RY: 1, RZ: 1}

	var buf bytes.Buffer
	require.NoError(t, writeSubgridHeader(&buf, sg))
	assert.Equal(t, SubgridHeaderBytes, buf.Len())

	got, err := readSubgridHeader(&buf)
	require.NoError(t, err)
	assert.Equal(t, sg.IX, got.IX)
	assert.Equal(t, sg.IY, got.IY)
	assert.Equal(t, sg.IZ, got.IZ)
	assert.Equal(t, sg.NX, got.NX)
	assert.Equal(t, sg.NY, got.NY)
	assert.Equal(t, sg.NZ, got.NZ)
	assert.Equal(t, sg.RX, got.RX)
	assert.Equal(t, sg.RY, got.RY)
	assert.Equal(t, sg.RZ, got.RZ)
}
