package pfb

// FileHeaderBytes and SubgridHeaderBytes are the fixed on-disk sizes
// defined in §6: a 64-byte file header (origin, extents, spacing,
// subgrid count) and a 36-byte subgrid header (origin, extent,
// refinement) preceding each subgrid's cell data.
const (
	FileHeaderBytes    = 64
	SubgridHeaderBytes = 36
)

// Subgrid describes one rectangular tile of the global grid: its
// logical origin and extent, its reserved refinement levels (passed
// through verbatim, never interpreted), and the byte offset at which
// its header begins in the owning file.
type Subgrid struct {
	IX, IY, IZ int
	NX, NY, NZ int
	RX, RY, RZ int32
	ByteOffset int64
}

// CellCount returns the number of cells in this subgrid.
func (s Subgrid) CellCount() int { return s.NX * s.NY * s.NZ }

// DataBytes returns the number of f64 payload bytes following this
// subgrid's 36-byte header.
func (s Subgrid) DataBytes() int64 { return int64(s.CellCount()) * sizeF64 }

// SubgridTable is the partition plan for a GridGeometry: the P*Q*R
// subgrid descriptors in canonical (z-outer, y-middle, x-inner) order,
// each carrying the byte offset at which it begins.
type SubgridTable struct {
	Subgrids []Subgrid
}

// BuildSubgridTable computes the P*Q*R subgrid descriptors for g,
// assigning byte offsets as if the resulting layout begins right after
// a 64-byte file header. This is required before any write and before
// a threaded read; a plain sequential read does not need it up front
// because each subgrid carries its own header in the file.
func BuildSubgridTable(g GridGeometry) SubgridTable {
	xLens := partitionLengths(g.NX, g.P)
	yLens := partitionLengths(g.NY, g.Q)
	zLens := partitionLengths(g.NZ, g.R)
	xOrig := partitionOrigins(xLens)
	yOrig := partitionOrigins(yLens)
	zOrig := partitionOrigins(zLens)

	subgrids := make([]Subgrid, 0, g.NumSubgrids())
	offset := int64(FileHeaderBytes)
	for iz := 0; iz < g.R; iz++ {
		for iy := 0; iy < g.Q; iy++ {
			for ix := 0; ix < g.P; ix++ {
				sg := Subgrid{
					IX: xOrig[ix], IY: yOrig[iy], IZ: zOrig[iz],
					NX: xLens[ix], NY: yLens[iy], NZ: zLens[iz],
					ByteOffset: offset,
				}
				subgrids = append(subgrids, sg)
				offset += SubgridHeaderBytes + sg.DataBytes()
			}
		}
	}
	return SubgridTable{Subgrids: subgrids}
}

// EndOffset returns the byte offset one past the last subgrid's data,
// i.e. the total file length implied by this table.
func (t SubgridTable) EndOffset() int64 {
	if len(t.Subgrids) == 0 {
		return FileHeaderBytes
	}
	last := t.Subgrids[len(t.Subgrids)-1]
	return last.ByteOffset + SubgridHeaderBytes + last.DataBytes()
}

// Offsets returns the P*Q*R+1 byte offsets the .dist sidecar records:
// 0 for the first subgrid (whose block starts the file, file header
// included), each later subgrid's starting offset, and finally the
// end-of-file offset.
func (t SubgridTable) Offsets() []int64 {
	out := make([]int64, 0, len(t.Subgrids)+1)
	for i, sg := range t.Subgrids {
		if i == 0 {
			out = append(out, 0)
			continue
		}
		out = append(out, sg.ByteOffset)
	}
	out = append(out, t.EndOffset())
	return out
}

// derivePartition infers (P,Q,R) from a table read off disk by counting
// the distinct origins discovered along each axis. Subgrids tile the
// grid exactly, so the count of distinct ix (resp. iy, iz) origins
// equals P (resp. Q, R).
func derivePartition(subgrids []Subgrid) (p, q, r int) {
	xs, ys, zs := map[int]struct{}{}, map[int]struct{}{}, map[int]struct{}{}
	for _, sg := range subgrids {
		xs[sg.IX] = struct{}{}
		ys[sg.IY] = struct{}{}
		zs[sg.IZ] = struct{}{}
	}
	return len(xs), len(ys), len(zs)
}

// validateSubgridTiling rejects a subgrid table read off disk whose
// subgrids don't tile geom exactly: any subgrid reaching outside
// geom's extents, or per-axis extents (grouped by distinct origin, the
// same grouping derivePartition uses) summing to something other than
// geom's NX/NY/NZ. A file failing this can't tile the declared grid,
// so it must be rejected here — before any caller computes a buffer
// offset from these subgrids' untrusted origins and extents.
func validateSubgridTiling(op string, geom GridGeometry, subgrids []Subgrid) error {
	xExtent, yExtent, zExtent := map[int]int{}, map[int]int{}, map[int]int{}
	for _, sg := range subgrids {
		if sg.IX < 0 || sg.IY < 0 || sg.IZ < 0 ||
			sg.IX+sg.NX > geom.NX || sg.IY+sg.NY > geom.NY || sg.IZ+sg.NZ > geom.NZ {
			return formatErr(op, "subgrid origin+extent (%d,%d,%d)+(%d,%d,%d) exceeds declared extents (%d,%d,%d)",
				sg.IX, sg.IY, sg.IZ, sg.NX, sg.NY, sg.NZ, geom.NX, geom.NY, geom.NZ)
		}
		xExtent[sg.IX] = sg.NX
		yExtent[sg.IY] = sg.NY
		zExtent[sg.IZ] = sg.NZ
	}

	sumX, sumY, sumZ := 0, 0, 0
	for _, v := range xExtent {
		sumX += v
	}
	for _, v := range yExtent {
		sumY += v
	}
	for _, v := range zExtent {
		sumZ += v
	}
	if sumX != geom.NX || sumY != geom.NY || sumZ != geom.NZ {
		return formatErr(op, "subgrid extents sum to (%d,%d,%d) along (x,y,z), want (%d,%d,%d)",
			sumX, sumY, sumZ, geom.NX, geom.NY, geom.NZ)
	}
	return nil
}
