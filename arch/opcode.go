// Package arch defines the system's instruction set along with
// some related helper functions.
package arch

// Opcode is a raw 16-bit instruction word. Instructions are stored
// big-endian in memory: the high byte sits at the lower address.
type Opcode uint16

// Nibble returns the 4-bit field at the given index.
// Index 0 is the most significant nibble.
func (o Opcode) Nibble(index int) int {
	return int(o>>uint(12-index*4)) & 0xf
}

// X returns the first register selector field.
func (o Opcode) X() int {
	return o.Nibble(1)
}

// Y returns the second register selector field.
func (o Opcode) Y() int {
	return o.Nibble(2)
}

// N returns the low nibble, used as the sprite row count by DRW.
func (o Opcode) N() int {
	return o.Nibble(3)
}

// KK returns the low byte immediate.
func (o Opcode) KK() uint8 {
	return uint8(o)
}

// NNN returns the 12-bit address immediate.
func (o Opcode) NNN() uint16 {
	return uint16(o) & 0xfff
}
