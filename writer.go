package pfb

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"golang.org/x/sync/errgroup"
)

// SetPartition rebuilds the Grid's geometry with new partition factors,
// validating them. It does not touch storage; the new factors take
// effect the next time WriteFile or DistFile builds a SubgridTable.
func (g *Grid) SetPartition(p, q, r int) error {
	geom, err := NewGridGeometry(
		g.geometry.OriginX, g.geometry.OriginY, g.geometry.OriginZ,
		g.geometry.NX, g.geometry.NY, g.geometry.NZ,
		g.geometry.DX, g.geometry.DY, g.geometry.DZ,
		p, q, r,
	)
	if err != nil {
		return err
	}
	g.geometry = geom
	return nil
}

// WriteFile serializes the Grid under its current SubgridTable (derived
// from Geometry().P/Q/R): a file header, then each subgrid's header and
// cell data in canonical order. It fails with KindInvalidState if the
// Grid's storage order is not zyx, since the wire format has no concept
// of the xyz view.
func (g *Grid) WriteFile(path string) error {
	if g.order != OrderZYX {
		return invalidStateErr("WriteFile", "storage order must be zyx, got %v", g.order)
	}
	if g.data == nil {
		return invalidStateErr("WriteFile", "grid has no storage")
	}
	table := BuildSubgridTable(g.geometry)
	return writeGridFile(path, g.geometry, table, g.data)
}

// writeGridFile encodes geom+table+data to path: the 64-byte file
// header, then for each subgrid its 36-byte header followed by its
// cell-major payload drawn from data at the subgrid's global origin.
func writeGridFile(path string, geom GridGeometry, table SubgridTable, data []float64) error {
	f, err := os.Create(path)
	if err != nil {
		return ioErr("writeGridFile", err)
	}
	defer f.Close()

	bw := bufio.NewWriter(f)
	if err := writeFileHeader(bw, geom); err != nil {
		return err
	}
	for _, sg := range table.Subgrids {
		if err := writeSubgridHeader(bw, sg); err != nil {
			return err
		}
		vals := extractSubgridCells(data, geom, sg)
		if err := writeF64s(bw, vals); err != nil {
			return ioErr("writeGridFile", err)
		}
	}
	if err := bw.Flush(); err != nil {
		return ioErr("writeGridFile", err)
	}
	return nil
}

// extractSubgridCells is the inverse of placeSubgridCells: it draws
// sg's cell-major (x-fastest) payload out of the global zyx-order
// buffer data.
func extractSubgridCells(data []float64, geom GridGeometry, sg Subgrid) []float64 {
	out := make([]float64, sg.CellCount())
	i := 0
	for z := 0; z < sg.NZ; z++ {
		gz := sg.IZ + z
		for y := 0; y < sg.NY; y++ {
			gy := sg.IY + y
			base := gz*geom.NY*geom.NX + gy*geom.NX + sg.IX
			for x := 0; x < sg.NX; x++ {
				out[i] = data[base+x]
				i++
			}
		}
	}
	return out
}

// DistFile reads the entire source Grid (LoadHeader+LoadData, if not
// already resident), rebuilds the SubgridTable for the requested
// (P,Q,R), and writes the result to outPath. In parallel — via
// errgroup.Group, the same worker-pool primitive LoadDataThreaded uses
// — it also emits outPath+".dist": a text sidecar with one integer per
// line giving the byte offset at which each subgrid begins (0 for the
// first) plus the end-of-file offset. Atomicity
// is not required; a crash mid-write may leave a partial output.
func (g *Grid) DistFile(ctx context.Context, p, q, r int, outPath string) error {
	if g.data == nil {
		if g.path == "" {
			return invalidStateErr("DistFile", "grid has neither storage nor a backing file")
		}
		if err := g.LoadHeader(); err != nil {
			return err
		}
		if err := g.LoadData(); err != nil {
			return err
		}
	}

	newGeom, err := NewGridGeometry(
		g.geometry.OriginX, g.geometry.OriginY, g.geometry.OriginZ,
		g.geometry.NX, g.geometry.NY, g.geometry.NZ,
		g.geometry.DX, g.geometry.DY, g.geometry.DZ,
		p, q, r,
	)
	if err != nil {
		return err
	}
	table := BuildSubgridTable(newGeom)
	data := g.data

	eg, _ := errgroup.WithContext(ctx)
	eg.Go(func() error { return writeGridFile(outPath, newGeom, table, data) })
	eg.Go(func() error { return writeDistSidecar(outPath+".dist", table) })
	return eg.Wait()
}

// writeDistSidecar writes table's byte offsets as UTF-8 decimal text,
// one per line, terminated by newline: P*Q*R subgrid starts (the first
// recorded as 0) plus the trailing end-of-file offset.
func writeDistSidecar(path string, table SubgridTable) error {
	var sb strings.Builder
	for _, off := range table.Offsets() {
		sb.WriteString(strconv.FormatInt(off, 10))
		sb.WriteByte('\n')
	}
	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return ioErr("writeDistSidecar", fmt.Errorf("%s: %w", path, err))
	}
	return nil
}
