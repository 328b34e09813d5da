package pfb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestDistributeOffsetsPressInit reproduces the distFile(2,2,1) offset
// sequence for a 41x41x50 grid: sidecar offsets must begin 0, 176500,
// 344536, 512572, 672608.
func TestDistributeOffsetsPressInit(t *testing.T) {
	geom, err := NewGridGeometry(0, 0, 0, 41, 41, 50, 1, 1, 1, 2, 2, 1)
	require.NoError(t, err)

	table := BuildSubgridTable(geom)
	require.Len(t, table.Subgrids, 4)

	got := table.Offsets()
	want := []int64{0, 176500, 344536, 512572, 672608}
	assert.Equal(t, want, got)
}

func TestTilingInvariant(t *testing.T) {
	cases := []struct{ nx, ny, nz, p, q, r int }{
		{41, 41, 50, 2, 2, 1},
		{41, 41, 50, 4, 4, 1},
		{10, 10, 10, 3, 3, 3},
		{7, 1, 1, 3, 1, 1},
	}
	for _, c := range cases {
		geom, err := NewGridGeometry(0, 0, 0, c.nx, c.ny, c.nz, 1, 1, 1, c.p, c.q, c.r)
		require.NoError(t, err)
		table := BuildSubgridTable(geom)
		require.Len(t, table.Subgrids, c.p*c.q*c.r)

		total := 0
		for _, sg := range table.Subgrids {
			total += sg.CellCount()
		}
		assert.Equal(t, geom.NumCells(), total)
	}
}

func TestSubgridsTileWithoutOverlap(t *testing.T) {
	geom, err := NewGridGeometry(0, 0, 0, 10, 10, 10, 1, 1, 1, 3, 3, 3)
	require.NoError(t, err)
	table := BuildSubgridTable(geom)

	covered := make([]bool, geom.NumCells())
	for _, sg := range table.Subgrids {
		for z := sg.IZ; z < sg.IZ+sg.NZ; z++ {
			for y := sg.IY; y < sg.IY+sg.NY; y++ {
				for x := sg.IX; x < sg.IX+sg.NX; x++ {
					idx, err := geom.CellIndex(x, y, z)
					require.NoError(t, err)
					require.False(t, covered[idx], "cell (%d,%d,%d) covered twice", x, y, z)
					covered[idx] = true
				}
			}
		}
	}
	for _, c := range covered {
		assert.True(t, c)
	}
}

func TestDerivePartitionRoundTrips(t *testing.T) {
	geom, err := NewGridGeometry(0, 0, 0, 41, 41, 50, 1, 1, 1, 4, 2, 1)
	require.NoError(t, err)
	table := BuildSubgridTable(geom)

	p, q, r := derivePartition(table.Subgrids)
	assert.Equal(t, 4, p)
	assert.Equal(t, 2, q)
	assert.Equal(t, 1, r)
}
