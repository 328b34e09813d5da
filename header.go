package pfb

import "io"

// readFileHeader decodes the 64-byte PFB file header: origin (3 f64),
// extents (3 i32), spacing (3 f64), subgrid count (1 i32). Partition
// factors are not part of the on-disk header (see DESIGN.md); P, Q, R
// on the returned geometry are left at 0 and must be derived from the
// subgrid table by the caller.
func readFileHeader(r io.Reader) (GridGeometry, int, error) {
	ox, err := readF64(r)
	if err != nil {
		return GridGeometry{}, 0, ioErr("readFileHeader", err)
	}
	oy, err := readF64(r)
	if err != nil {
		return GridGeometry{}, 0, ioErr("readFileHeader", err)
	}
	oz, err := readF64(r)
	if err != nil {
		return GridGeometry{}, 0, ioErr("readFileHeader", err)
	}

	nx32, err := readI32(r)
	if err != nil {
		return GridGeometry{}, 0, ioErr("readFileHeader", err)
	}
	ny32, err := readI32(r)
	if err != nil {
		return GridGeometry{}, 0, ioErr("readFileHeader", err)
	}
	nz32, err := readI32(r)
	if err != nil {
		return GridGeometry{}, 0, ioErr("readFileHeader", err)
	}

	dx, err := readF64(r)
	if err != nil {
		return GridGeometry{}, 0, ioErr("readFileHeader", err)
	}
	dy, err := readF64(r)
	if err != nil {
		return GridGeometry{}, 0, ioErr("readFileHeader", err)
	}
	dz, err := readF64(r)
	if err != nil {
		return GridGeometry{}, 0, ioErr("readFileHeader", err)
	}

	numSubgrids, err := readI32(r)
	if err != nil {
		return GridGeometry{}, 0, ioErr("readFileHeader", err)
	}

	nx, ny, nz := int(nx32), int(ny32), int(nz32)
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return GridGeometry{}, 0, formatErr("readFileHeader", "implausible extents (%d,%d,%d)", nx, ny, nz)
	}
	if dx <= 0 || dy <= 0 || dz <= 0 {
		return GridGeometry{}, 0, formatErr("readFileHeader", "implausible spacing (%g,%g,%g)", dx, dy, dz)
	}
	if numSubgrids <= 0 {
		return GridGeometry{}, 0, formatErr("readFileHeader", "implausible subgrid count %d", numSubgrids)
	}

	return GridGeometry{
		OriginX: ox, OriginY: oy, OriginZ: oz,
		NX: nx, NY: ny, NZ: nz,
		DX: dx, DY: dy, DZ: dz,
	}, int(numSubgrids), nil
}

// writeFileHeader encodes g's 64-byte PFB file header. g.NumSubgrids()
// (P*Q*R) is written as the subgrid count; P, Q, R themselves are not
// separately serialized.
func writeFileHeader(w io.Writer, g GridGeometry) error {
	for _, v := range []float64{g.OriginX, g.OriginY, g.OriginZ} {
		if err := writeF64(w, v); err != nil {
			return ioErr("writeFileHeader", err)
		}
	}
	for _, v := range []int32{int32(g.NX), int32(g.NY), int32(g.NZ)} {
		if err := writeI32(w, v); err != nil {
			return ioErr("writeFileHeader", err)
		}
	}
	for _, v := range []float64{g.DX, g.DY, g.DZ} {
		if err := writeF64(w, v); err != nil {
			return ioErr("writeFileHeader", err)
		}
	}
	if err := writeI32(w, int32(g.NumSubgrids())); err != nil {
		return ioErr("writeFileHeader", err)
	}
	return nil
}

// readSubgridHeader decodes a 36-byte subgrid header: origin (3 i32),
// extent (3 i32), refinement (3 i32, preserved verbatim). ByteOffset is
// left unset; the caller fills it in from the stream position.
func readSubgridHeader(r io.Reader) (Subgrid, error) {
	var sg Subgrid
	ix, err := readI32(r)
	if err != nil {
		return Subgrid{}, ioErr("readSubgridHeader", err)
	}
	iy, err := readI32(r)
	if err != nil {
		return Subgrid{}, ioErr("readSubgridHeader", err)
	}
	iz, err := readI32(r)
	if err != nil {
		return Subgrid{}, ioErr("readSubgridHeader", err)
	}
	nx, err := readI32(r)
	if err != nil {
		return Subgrid{}, ioErr("readSubgridHeader", err)
	}
	ny, err := readI32(r)
	if err != nil {
		return Subgrid{}, ioErr("readSubgridHeader", err)
	}
	nz, err := readI32(r)
	if err != nil {
		return Subgrid{}, ioErr("readSubgridHeader", err)
	}
	rx, err := readI32(r)
	if err != nil {
		return Subgrid{}, ioErr("readSubgridHeader", err)
	}
	ry, err := readI32(r)
	if err != nil {
		return Subgrid{}, ioErr("readSubgridHeader", err)
	}
	rz, err := readI32(r)
	if err != nil {
		return Subgrid{}, ioErr("readSubgridHeader", err)
	}

	if nx <= 0 || ny <= 0 || nz <= 0 {
		return Subgrid{}, formatErr("readSubgridHeader", "implausible subgrid extents (%d,%d,%d)", nx, ny, nz)
	}

	sg.IX, sg.IY, sg.IZ = int(ix), int(iy), int(iz)
	sg.NX, sg.NY, sg.NZ = int(nx), int(ny), int(nz)
	sg.RX, sg.RY, sg.RZ = rx, ry, rz
	return sg, nil
}

// writeSubgridHeader encodes sg's 36-byte subgrid header.
func writeSubgridHeader(w io.Writer, sg Subgrid) error {
	ints := []int32{
		int32(sg.IX), int32(sg.IY), int32(sg.IZ),
		int32(sg.NX), int32(sg.NY), int32(sg.NZ),
		sg.RX, sg.RY, sg.RZ,
	}
	for _, v := range ints {
		if err := writeI32(w, v); err != nil {
			return ioErr("writeSubgridHeader", err)
		}
	}
	return nil
}
