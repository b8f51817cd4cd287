package format

import "encoding/binary"

// Binary encoding utilities for header/footer words.
//
// Heap words are little-endian regardless of the host so that heap images
// written through a file-backed region can be inspected on any machine.
//
// Implementation: Uses encoding/binary.LittleEndian, which the compiler
// inlines into a single load or store on little-endian targets.

// PutU32 writes a uint32 value to the buffer at the specified offset in little-endian format.
func PutU32(b []byte, off int, v uint32) {
	binary.LittleEndian.PutUint32(b[off:off+4], v)
}

// ReadU32 reads a uint32 value from the buffer at the specified offset in little-endian format.
func ReadU32(b []byte, off int) uint32 {
	return binary.LittleEndian.Uint32(b[off : off+4])
}
