package pfb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func diffGrid(t *testing.T) *Grid {
	t.Helper()
	data := []float64{0, 1, 2, 3, 4, 5, 6, 7}
	g, err := NewFromBuffer(data, 2, 2, 2)
	require.NoError(t, err)
	return g
}

func TestCompareIdenticalGridsReportsNone(t *testing.T) {
	a, b := diffGrid(t), diffGrid(t)
	assert.Equal(t, DiffResult{Kind: DiffNone}, Compare(a, b))
}

func TestCompareDetectsScalarMismatchesInOrder(t *testing.T) {
	base := diffGrid(t)

	cases := []struct {
		name   string
		mutate func(*Grid)
		want   DiffKind
	}{
		{"originX", func(g *Grid) { g.geometry.OriginX += 1 }, DiffOriginX},
		{"originY", func(g *Grid) { g.geometry.OriginY += 1 }, DiffOriginY},
		{"originZ", func(g *Grid) { g.geometry.OriginZ += 1 }, DiffOriginZ},
		{"dx", func(g *Grid) { g.geometry.DX += 1 }, DiffDX},
		{"dy", func(g *Grid) { g.geometry.DY += 1 }, DiffDY},
		{"dz", func(g *Grid) { g.geometry.DZ += 1 }, DiffDZ},
		{"nx", func(g *Grid) { g.geometry.NX += 1 }, DiffNX},
		{"ny", func(g *Grid) { g.geometry.NY += 1 }, DiffNY},
		{"nz", func(g *Grid) { g.geometry.NZ += 1 }, DiffNZ},
		{"p", func(g *Grid) { g.geometry.P += 1 }, DiffP},
		{"q", func(g *Grid) { g.geometry.Q += 1 }, DiffQ},
		{"r", func(g *Grid) { g.geometry.R += 1 }, DiffR},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			b := diffGrid(t)
			c.mutate(b)
			result := Compare(base, b)
			assert.Equal(t, c.want, result.Kind)
		})
	}
}

func TestCompareReportsFirstMismatchingCellInCanonicalOrder(t *testing.T) {
	a, b := diffGrid(t), diffGrid(t)
	// Canonical scan order is z outer, y middle, x inner; (x=1,y=0,z=0)
	// is linear index 1, the second cell visited.
	require.NoError(t, b.Set(1, 0, 0, 999))

	result := Compare(a, b)
	require.Equal(t, DiffData, result.Kind)
	assert.Equal(t, 1, result.X)
	assert.Equal(t, 0, result.Y)
	assert.Equal(t, 0, result.Z)
}

func TestCompareTreatsAbsentStorageAsNoneWhenGeometriesMatch(t *testing.T) {
	a := New()
	b := New()
	assert.Equal(t, DiffResult{Kind: DiffNone}, Compare(a, b))
}
