package arch

import "encoding/binary"

// Binary codec for page-table entries. Entries are stored little-endian in
// physical memory, matching the hardware layout.
//
// Implementation: encoding/binary.LittleEndian. The standard library
// implementation is inlined and optimized by the compiler; unsafe pointer
// variants provide no measurable benefit here.

// PutEntry writes a raw 64-bit entry to the buffer at the specified offset.
func PutEntry(b []byte, off int, v uint64) {
	binary.LittleEndian.PutUint64(b[off:off+8], v)
}

// ReadEntry reads a raw 64-bit entry from the buffer at the specified offset.
func ReadEntry(b []byte, off int) uint64 {
	return binary.LittleEndian.Uint64(b[off : off+8])
}
