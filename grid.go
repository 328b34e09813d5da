package pfb

// Grid is an in-memory dense f64 grid: a (geometry, storage, order)
// triple. Storage is absent (nil) until one of the Load* methods is
// called, a buffer is supplied at construction, or a pending handoff
// (MoveDataArray) has not yet been reversed by a new load.
type Grid struct {
	geometry GridGeometry
	data     []float64
	order    Order

	path    string
	table   SubgridTable
	havePQR bool
}

// New returns an empty Grid with a default 1x1x1 geometry and no
// storage. Most callers instead use Open or NewFromBuffer.
func New() *Grid {
	g, _ := NewGridGeometry(0, 0, 0, 1, 1, 1, 1, 1, 1, 1, 1, 1)
	return &Grid{geometry: g, order: OrderZYX}
}

// NewFromBuffer wraps an existing zyx-order buffer as a Grid. The
// buffer is taken by reference, not copied; the caller must not
// continue to mutate it concurrently with the Grid.
func NewFromBuffer(data []float64, nx, ny, nz int) (*Grid, error) {
	geom, err := NewGridGeometry(0, 0, 0, nx, ny, nz, 1, 1, 1, 1, 1, 1)
	if err != nil {
		return nil, err
	}
	if len(data) != geom.NumCells() {
		return nil, formatErr("NewFromBuffer", "buffer has %d values, expected %d for (%d,%d,%d)", len(data), geom.NumCells(), nx, ny, nz)
	}
	return &Grid{geometry: geom, data: data, order: OrderZYX}, nil
}

// Open returns a Grid bound to path without reading anything yet.
// Callers call LoadHeader/LoadPQR/LoadData/LoadDataThreaded/
// LoadClipOfData to actually populate it.
func Open(path string) *Grid {
	return &Grid{path: path, order: OrderZYX}
}

// Geometry returns the Grid's current GridGeometry.
func (g *Grid) Geometry() GridGeometry { return g.geometry }

// Order reports the Grid's current storage order.
func (g *Grid) Order() Order { return g.order }

// Path returns the filesystem path this Grid was opened from, or ""
// for a Grid built from an in-memory buffer.
func (g *Grid) Path() string { return g.path }

// SubgridTable returns the Grid's partition plan as read by LoadPQR. It
// is empty until LoadPQR has populated it; WriteFile and DistFile build
// their own table from the geometry and do not store it here.
func (g *Grid) SubgridTable() SubgridTable { return g.table }

// At returns the value at logical coordinate (x,y,z), honoring the
// Grid's current storage order.
func (g *Grid) At(x, y, z int) (float64, error) {
	if g.data == nil {
		return 0, invalidStateErr("At", "grid has no storage")
	}
	idx, err := g.linearIndex(x, y, z)
	if err != nil {
		return 0, err
	}
	return g.data[idx], nil
}

// Set assigns the value at logical coordinate (x,y,z), honoring the
// Grid's current storage order.
func (g *Grid) Set(x, y, z int, v float64) error {
	if g.data == nil {
		return invalidStateErr("Set", "grid has no storage")
	}
	idx, err := g.linearIndex(x, y, z)
	if err != nil {
		return err
	}
	g.data[idx] = v
	return nil
}

func (g *Grid) linearIndex(x, y, z int) (int, error) {
	switch g.order {
	case OrderZYX:
		return g.geometry.CellIndex(x, y, z)
	case OrderXYZ:
		if x < 0 || x >= g.geometry.NX || y < 0 || y >= g.geometry.NY || z < 0 || z >= g.geometry.NZ {
			return 0, outOfBoundsErr("At", "(%d,%d,%d) outside extents (%d,%d,%d)", x, y, z, g.geometry.NX, g.geometry.NY, g.geometry.NZ)
		}
		return x*g.geometry.NY*g.geometry.NZ + y*g.geometry.NZ + z, nil
	default:
		return 0, invalidStateErr("At", "unknown storage order %v", g.order)
	}
}

// ToXYZView returns a new Grid sharing this Grid's geometry but with
// storage transposed into "xyz" order (x-major). The result is
// read-only: WriteFile on it fails with KindInvalidState. The source
// Grid is unmodified.
func (g *Grid) ToXYZView() (*Grid, error) {
	if g.data == nil {
		return nil, invalidStateErr("ToXYZView", "grid has no storage")
	}
	if g.order == OrderXYZ {
		cp := make([]float64, len(g.data))
		copy(cp, g.data)
		return &Grid{geometry: g.geometry, data: cp, order: OrderXYZ}, nil
	}
	nx, ny, nz := g.geometry.NX, g.geometry.NY, g.geometry.NZ
	out := make([]float64, len(g.data))
	for z := 0; z < nz; z++ {
		for y := 0; y < ny; y++ {
			zyx := z*ny*nx + y*nx
			for x := 0; x < nx; x++ {
				out[x*ny*nz+y*nz+z] = g.data[zyx+x]
			}
		}
	}
	return &Grid{geometry: g.geometry, data: out, order: OrderXYZ}, nil
}

// ViewDataArray borrows the Grid's storage without copying. It returns
// nil if storage is absent (e.g. after MoveDataArray).
func (g *Grid) ViewDataArray() []float64 { return g.data }

// CopyDataArray returns a fresh copy of the Grid's storage, or nil if
// storage is absent.
func (g *Grid) CopyDataArray() []float64 {
	if g.data == nil {
		return nil
	}
	out := make([]float64, len(g.data))
	copy(out, g.data)
	return out
}

// MoveDataArray transfers ownership of the Grid's storage to the
// caller, leaving the Grid's storage absent. Subsequent ViewDataArray
// calls return nil until a new Load* populates the Grid again.
func (g *Grid) MoveDataArray() []float64 {
	out := g.data
	g.data = nil
	return out
}

// Close releases the Grid's storage. It does not remove any
// file-backed data on disk.
func (g *Grid) Close() error {
	g.data = nil
	return nil
}
