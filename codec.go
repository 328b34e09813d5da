package pfb

import (
	"encoding/binary"
	"io"
	"math"
)

// sizeI32 and sizeF64 are the on-disk widths of the two scalar types PFB
// ever stores: signed 32-bit big-endian integers and IEEE-754 binary64
// big-endian reals.
const (
	sizeI32 = 4
	sizeF64 = 8
)

// readI32 reads one big-endian signed 32-bit integer from r.
func readI32(r io.Reader) (int32, error) {
	var buf [sizeI32]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return int32(binary.BigEndian.Uint32(buf[:])), nil
}

// writeI32 writes v as a big-endian signed 32-bit integer to w.
func writeI32(w io.Writer, v int32) error {
	var buf [sizeI32]byte
	binary.BigEndian.PutUint32(buf[:], uint32(v))
	_, err := w.Write(buf[:])
	return err
}

// readF64 reads one big-endian IEEE-754 binary64 value from r.
func readF64(r io.Reader) (float64, error) {
	var buf [sizeF64]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.BigEndian.Uint64(buf[:])), nil
}

// writeF64 writes v as a big-endian IEEE-754 binary64 value to w.
func writeF64(w io.Writer, v float64) error {
	var buf [sizeF64]byte
	binary.BigEndian.PutUint64(buf[:], math.Float64bits(v))
	_, err := w.Write(buf[:])
	return err
}

// readF64s bulk-decodes n contiguous big-endian f64 values from r. The
// on-disk layout is a straight big-endian stride with no interleaving,
// so the whole run is read into one buffer and decoded in place.
func readF64s(r io.Reader, n int) ([]float64, error) {
	if n == 0 {
		return nil, nil
	}
	raw := make([]byte, n*sizeF64)
	if _, err := io.ReadFull(r, raw); err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for i := range out {
		bits := binary.BigEndian.Uint64(raw[i*sizeF64 : i*sizeF64+sizeF64])
		out[i] = math.Float64frombits(bits)
	}
	return out, nil
}

// writeF64s bulk-encodes vals as contiguous big-endian f64 values to w.
func writeF64s(w io.Writer, vals []float64) error {
	if len(vals) == 0 {
		return nil
	}
	raw := make([]byte, len(vals)*sizeF64)
	for i, v := range vals {
		binary.BigEndian.PutUint64(raw[i*sizeF64:i*sizeF64+sizeF64], math.Float64bits(v))
	}
	_, err := w.Write(raw)
	return err
}
