package pfb

import "math"

// DiffKind discriminates the result of Compare. The zero value,
// DiffNone, means the two Grids are identical in every respect Compare
// checks.
type DiffKind int

const (
	DiffNone DiffKind = iota
	DiffOriginX
	DiffOriginY
	DiffOriginZ
	DiffDX
	DiffDY
	DiffDZ
	DiffNX
	DiffNY
	DiffNZ
	DiffP
	DiffQ
	DiffR
	DiffData
)

func (k DiffKind) String() string {
	switch k {
	case DiffNone:
		return "none"
	case DiffOriginX:
		return "x"
	case DiffOriginY:
		return "y"
	case DiffOriginZ:
		return "z"
	case DiffDX:
		return "dx"
	case DiffDY:
		return "dy"
	case DiffDZ:
		return "dz"
	case DiffNX:
		return "nx"
	case DiffNY:
		return "ny"
	case DiffNZ:
		return "nz"
	case DiffP:
		return "p"
	case DiffQ:
		return "q"
	case DiffR:
		return "r"
	case DiffData:
		return "data"
	default:
		return "unknown"
	}
}

// DiffResult is the outcome of Compare. For DiffData, X, Y, Z hold the
// coordinates (in canonical z,y,x scan order) of the first mismatching
// cell; for every other Kind they are zero.
type DiffResult struct {
	Kind    DiffKind
	X, Y, Z int
}

// Compare performs a structural and cell-wise comparison of a and b. It
// never returns an error: mismatches are ordinary result values, not
// raised errors. Scalar geometry fields are checked first, in the
// order x, y, z, dx, dy, dz, nx, ny, nz, p, q, r, then cells are
// compared bitwise in canonical (z,y,x) scan order. Comparing Grids
// with absent storage is treated as a structural mismatch only if their
// geometries already differ; if geometries match but either side has
// no storage, Compare reports DiffNone without touching cells.
func Compare(a, b *Grid) DiffResult {
	ga, gb := a.geometry, b.geometry

	switch {
	case ga.OriginX != gb.OriginX:
		return DiffResult{Kind: DiffOriginX}
	case ga.OriginY != gb.OriginY:
		return DiffResult{Kind: DiffOriginY}
	case ga.OriginZ != gb.OriginZ:
		return DiffResult{Kind: DiffOriginZ}
	case ga.DX != gb.DX:
		return DiffResult{Kind: DiffDX}
	case ga.DY != gb.DY:
		return DiffResult{Kind: DiffDY}
	case ga.DZ != gb.DZ:
		return DiffResult{Kind: DiffDZ}
	case ga.NX != gb.NX:
		return DiffResult{Kind: DiffNX}
	case ga.NY != gb.NY:
		return DiffResult{Kind: DiffNY}
	case ga.NZ != gb.NZ:
		return DiffResult{Kind: DiffNZ}
	case ga.P != gb.P:
		return DiffResult{Kind: DiffP}
	case ga.Q != gb.Q:
		return DiffResult{Kind: DiffQ}
	case ga.R != gb.R:
		return DiffResult{Kind: DiffR}
	}

	if a.data == nil || b.data == nil {
		return DiffResult{Kind: DiffNone}
	}

	nx, ny, nz := ga.NX, ga.NY, ga.NZ
	for z := 0; z < nz; z++ {
		for y := 0; y < ny; y++ {
			for x := 0; x < nx; x++ {
				va, _ := a.At(x, y, z)
				vb, _ := b.At(x, y, z)
				if math.Float64bits(va) != math.Float64bits(vb) {
					return DiffResult{Kind: DiffData, X: x, Y: y, Z: z}
				}
			}
		}
	}
	return DiffResult{Kind: DiffNone}
}
