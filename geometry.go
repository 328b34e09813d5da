package pfb

// Order tags a Grid's in-memory storage layout. OrderZYX is canonical:
// element (x,y,z) lives at linear index z*ny*nx + y*nx + x, and is the
// only order WriteFile accepts. OrderXYZ is a read-only transposed view
// used by callers that want x-major iteration; Grids in this order
// reject WriteFile with a KindInvalidState error.
type Order int

const (
	OrderZYX Order = iota
	OrderXYZ
)

func (o Order) String() string {
	if o == OrderXYZ {
		return "xyz"
	}
	return "zyx"
}

// GridGeometry is the integer/real domain descriptor shared by every
// Grid: extents, origin, spacing, and the partition factors used to
// decompose the grid into subgrids. It is a pure value type; all
// mutation goes through constructors or explicit setters on Grid.
type GridGeometry struct {
	OriginX, OriginY, OriginZ float64
	NX, NY, NZ                int
	DX, DY, DZ                float64
	P, Q, R                   int
}

// NewGridGeometry validates and constructs a GridGeometry. Extents must
// be positive, spacing must be positive, and partition factors must be
// at least 1. Origins are not range-checked.
func NewGridGeometry(originX, originY, originZ float64, nx, ny, nz int, dx, dy, dz float64, p, q, r int) (GridGeometry, error) {
	g := GridGeometry{
		OriginX: originX, OriginY: originY, OriginZ: originZ,
		NX: nx, NY: ny, NZ: nz,
		DX: dx, DY: dy, DZ: dz,
		P: p, Q: q, R: r,
	}
	if err := g.validate(); err != nil {
		return GridGeometry{}, err
	}
	return g, nil
}

func (g GridGeometry) validate() error {
	if g.NX <= 0 || g.NY <= 0 || g.NZ <= 0 {
		return formatErr("NewGridGeometry", "extents must be positive, got (%d,%d,%d)", g.NX, g.NY, g.NZ)
	}
	if g.DX <= 0 || g.DY <= 0 || g.DZ <= 0 {
		return formatErr("NewGridGeometry", "spacing must be positive, got (%g,%g,%g)", g.DX, g.DY, g.DZ)
	}
	if g.P < 1 || g.Q < 1 || g.R < 1 {
		return unsupportedErr("NewGridGeometry", "partition factors must be >= 1, got (%d,%d,%d)", g.P, g.Q, g.R)
	}
	return nil
}

// NumCells returns nx*ny*nz.
func (g GridGeometry) NumCells() int { return g.NX * g.NY * g.NZ }

// NumSubgrids returns P*Q*R.
func (g GridGeometry) NumSubgrids() int { return g.P * g.Q * g.R }

// CellIndex returns the canonical zyx-order linear index for (x,y,z),
// or a KindOutOfBounds error if the coordinate lies outside the grid's
// extents.
func (g GridGeometry) CellIndex(x, y, z int) (int, error) {
	if x < 0 || x >= g.NX || y < 0 || y >= g.NY || z < 0 || z >= g.NZ {
		return 0, outOfBoundsErr("CellIndex", "(%d,%d,%d) outside extents (%d,%d,%d)", x, y, z, g.NX, g.NY, g.NZ)
	}
	return z*g.NY*g.NX + y*g.NX + x, nil
}

// Coord inverts CellIndex: it recovers (x,y,z) from a canonical
// zyx-order linear index.
func (g GridGeometry) Coord(linear int) (x, y, z int, err error) {
	if linear < 0 || linear >= g.NumCells() {
		return 0, 0, 0, outOfBoundsErr("Coord", "linear index %d outside [0,%d)", linear, g.NumCells())
	}
	plane := g.NY * g.NX
	z = linear / plane
	rem := linear % plane
	y = rem / g.NX
	x = rem % g.NX
	return x, y, z, nil
}

// partitionLengths splits extent n into f partitions per the PFB rule:
// base = n/f, rem = n mod f; the first rem partitions get base+1 cells,
// the rest get base. This must match byte-for-byte across producers and
// consumers or subgrid offsets diverge.
func partitionLengths(n, f int) []int {
	base := n / f
	rem := n % f
	lens := make([]int, f)
	for i := range lens {
		if i < rem {
			lens[i] = base + 1
		} else {
			lens[i] = base
		}
	}
	return lens
}

// partitionOrigins returns the prefix-sum origins for a set of
// partition lengths.
func partitionOrigins(lens []int) []int {
	origins := make([]int, len(lens))
	sum := 0
	for i, l := range lens {
		origins[i] = sum
		sum += l
	}
	return origins
}
