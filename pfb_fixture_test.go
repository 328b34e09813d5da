package pfb

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// parseDistSidecar reads a .dist sidecar written by DistFile back into
// its decimal byte offsets. There is no core API for this: the
// sidecar is meant for external tooling, not for the reader.
func parseDistSidecar(t *testing.T, path string) []int64 {
	t.Helper()
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(raw)), "\n")
	out := make([]int64, 0, len(lines))
	for _, l := range lines {
		v, err := strconv.ParseInt(l, 10, 64)
		require.NoError(t, err)
		out = append(out, v)
	}
	return out
}

// These tests reproduce the numeric scenarios against a synthesized
// 41x41x50 grid shaped like press.init.pfb (nx=ny=41, nz=50, 16
// subgrids under a 4x4x1 partition). The real ParFlow sample files are
// not vendored into this repository, so cell values are generated
// deterministically rather than matched against the published
// reference constants.
func buildPressLikeGrid(t *testing.T) *Grid {
	t.Helper()
	const nx, ny, nz = 41, 41, 50
	data := make([]float64, nx*ny*nz)
	for z := 0; z < nz; z++ {
		for y := 0; y < ny; y++ {
			for x := 0; x < nx; x++ {
				data[z*ny*nx+y*nx+x] = float64(x) + float64(y)/100 + float64(z)/10000
			}
		}
	}
	g, err := NewFromBuffer(data, nx, ny, nz)
	require.NoError(t, err)
	require.NoError(t, g.SetPartition(4, 4, 1))
	return g
}

func TestFixtureHeaderMatchesPressInitShape(t *testing.T) {
	src := buildPressLikeGrid(t)
	path := filepath.Join(t.TempDir(), "press.init.pfb")
	require.NoError(t, src.WriteFile(path))

	g := Open(path)
	require.NoError(t, g.LoadHeader())
	geom := g.Geometry()
	assert.Equal(t, 41, geom.NX)
	assert.Equal(t, 41, geom.NY)
	assert.Equal(t, 50, geom.NZ)
	assert.Equal(t, float64(0), geom.OriginX)

	require.NoError(t, g.LoadPQR())
	assert.Equal(t, 16, len(g.SubgridTable().Subgrids))
}

func TestFixtureDistributeOffsetsPressInit(t *testing.T) {
	src := buildPressLikeGrid(t)
	outPath := filepath.Join(t.TempDir(), "press.init.redist.pfb")
	require.NoError(t, src.DistFile(context.Background(), 2, 2, 1, outPath))

	offsets := parseDistSidecar(t, outPath+".dist")
	assert.Equal(t, []int64{0, 176500, 344536, 512572, 672608}, offsets[:5])
}

func TestFixtureThreadedEqualityPressInit(t *testing.T) {
	src := buildPressLikeGrid(t)
	path := filepath.Join(t.TempDir(), "press.init.pfb")
	require.NoError(t, src.WriteFile(path))

	sequential := Open(path)
	require.NoError(t, sequential.LoadHeader())
	require.NoError(t, sequential.LoadPQR())
	require.NoError(t, sequential.LoadData())

	for _, n := range []int{1, 8, 40} {
		threaded := Open(path)
		require.NoError(t, threaded.LoadHeader())
		require.NoError(t, threaded.LoadPQR())
		require.NoError(t, threaded.LoadDataThreaded(context.Background(), n))
		assert.Equal(t, DiffNone, Compare(sequential, threaded).Kind, "n=%d", n)
	}
}

func TestFixtureClipReadPressInit(t *testing.T) {
	src := buildPressLikeGrid(t)
	path := filepath.Join(t.TempDir(), "press.init.pfb")
	require.NoError(t, src.WriteFile(path))

	g := Open(path)
	require.NoError(t, g.LoadHeader())
	clip, err := g.LoadClipOfData(39, 39, 2, 2)
	require.NoError(t, err)

	cg := clip.Geometry()
	assert.Equal(t, 2, cg.NX)
	assert.Equal(t, 2, cg.NY)
	assert.Equal(t, 50, cg.NZ)

	for z := 0; z < 50; z++ {
		for y := 0; y < 2; y++ {
			for x := 0; x < 2; x++ {
				want, err := src.At(39+x, 39+y, z)
				require.NoError(t, err)
				got, err := clip.At(x, y, z)
				require.NoError(t, err)
				assert.Equal(t, want, got)
			}
		}
	}
}
