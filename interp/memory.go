package interp

const (
	// MemorySize is the size of the addressable memory space.
	MemorySize = 4096

	// ProgramStart is the address programs are loaded at. Everything below
	// it is reserved for the interpreter.
	ProgramStart = 0x200

	// FontBase is the address of the built-in hexadecimal font table.
	FontBase = 0x050

	// FontHeight is the height in rows (= bytes) of one font glyph.
	FontHeight = 5
)

// Memory defines the system's memory bank.
type Memory []byte

// U8 returns the 8-bit value at the given address.
func (m Memory) U8(addr int) uint8 {
	return m[addr]
}

// SetU8 sets the 8-bit value at the given address.
func (m Memory) SetU8(addr int, value uint8) {
	m[addr] = value
}

// U16 returns the big-endian 16-bit value at the given address.
func (m Memory) U16(addr int) uint16 {
	return uint16(m[addr])<<8 | uint16(m[addr+1])
}

// SetU16 sets the big-endian 16-bit value at the given address.
func (m Memory) SetU16(addr int, value uint16) {
	m[addr] = byte(value >> 8)
	m[addr+1] = byte(value)
}

// Write writes len(p) bytes from p into memory, starting at the given address.
func (m Memory) Write(address int, p []byte) {
	copy(m[address:], p)
}

// fontSprites holds the glyphs for digits 0 through F, five rows each.
var fontSprites = [...]byte{
	0xf0, 0x90, 0x90, 0x90, 0xf0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xf0, 0x10, 0xf0, 0x80, 0xf0, // 2
	0xf0, 0x10, 0xf0, 0x10, 0xf0, // 3
	0x90, 0x90, 0xf0, 0x10, 0x10, // 4
	0xf0, 0x80, 0xf0, 0x10, 0xf0, // 5
	0xf0, 0x80, 0xf0, 0x90, 0xf0, // 6
	0xf0, 0x10, 0x20, 0x40, 0x40, // 7
	0xf0, 0x90, 0xf0, 0x90, 0xf0, // 8
	0xf0, 0x90, 0xf0, 0x10, 0xf0, // 9
	0xf0, 0x90, 0xf0, 0x90, 0x90, // A
	0xe0, 0x90, 0xe0, 0x90, 0xe0, // B
	0xf0, 0x80, 0x80, 0x80, 0xf0, // C
	0xe0, 0x90, 0x90, 0x90, 0xe0, // D
	0xf0, 0x80, 0xf0, 0x80, 0xf0, // E
	0xf0, 0x80, 0xf0, 0x80, 0x80, // F
}
