package arch

// Op identifies a decoded instruction.
type Op int

// Known instructions.
const (
	INVALID Op = iota

	CLS  // 00E0: clear the display.
	RET  // 00EE: return from subroutine.
	JP   // 1nnn: jump to nnn.
	CALL // 2nnn: call subroutine at nnn.
	SEC  // 3xkk: skip next instruction if Vx == kk.
	SNEC // 4xkk: skip next instruction if Vx != kk.
	SE   // 5xy0: skip next instruction if Vx == Vy.
	LDC  // 6xkk: Vx = kk.
	ADDC // 7xkk: Vx += kk, no carry flag.

	LD   // 8xy0: Vx = Vy.
	OR   // 8xy1: Vx |= Vy.
	AND  // 8xy2: Vx &= Vy.
	XOR  // 8xy3: Vx ^= Vy.
	ADD  // 8xy4: Vx += Vy, VF = carry.
	SUB  // 8xy5: Vx -= Vy, VF = no borrow.
	SHR  // 8xy6: Vx = source >> 1, VF = low bit of source.
	SUBN // 8xy7: Vx = Vy - Vx, VF = no borrow.
	SHL  // 8xyE: Vx = source << 1, VF = high bit of source.

	SNE  // 9xy0: skip next instruction if Vx != Vy.
	LDI  // Annn: I = nnn.
	JPV0 // Bnnn: jump to nnn + V0.
	RND  // Cxkk: Vx = random byte & kk.
	DRW  // Dxyn: draw n-row sprite from memory[I] at (Vx, Vy), VF = collision.

	SKP  // Ex9E: skip next instruction if key Vx is down.
	SKNP // ExA1: skip next instruction if key Vx is not down.

	LDDT    // Fx07: Vx = delay timer.
	LDK     // Fx0A: wait for a key press, store the key in Vx.
	SETDT   // Fx15: delay timer = Vx.
	SETST   // Fx18: sound timer = Vx.
	ADDI    // Fx1E: I += Vx.
	LDF     // Fx29: I = address of the font sprite for digit Vx.
	BCD     // Fx33: memory[I..I+3] = decimal digits of Vx.
	SAVE    // Fx55: memory[I..] = V0..Vx.
	RESTORE // Fx65: V0..Vx = memory[I..].
)

// Lookup identifies the instruction encoded by the given opcode.
// Returns INVALID if the word matches no known instruction.
func Lookup(o Opcode) Op {
	switch o.Nibble(0) {
	case 0x0:
		switch o.NNN() {
		case 0x0e0:
			return CLS
		case 0x0ee:
			return RET
		}
	case 0x1:
		return JP
	case 0x2:
		return CALL
	case 0x3:
		return SEC
	case 0x4:
		return SNEC
	case 0x5:
		if o.N() == 0 {
			return SE
		}
	case 0x6:
		return LDC
	case 0x7:
		return ADDC
	case 0x8:
		switch o.N() {
		case 0x0:
			return LD
		case 0x1:
			return OR
		case 0x2:
			return AND
		case 0x3:
			return XOR
		case 0x4:
			return ADD
		case 0x5:
			return SUB
		case 0x6:
			return SHR
		case 0x7:
			return SUBN
		case 0xe:
			return SHL
		}
	case 0x9:
		if o.N() == 0 {
			return SNE
		}
	case 0xa:
		return LDI
	case 0xb:
		return JPV0
	case 0xc:
		return RND
	case 0xd:
		return DRW
	case 0xe:
		switch o.KK() {
		case 0x9e:
			return SKP
		case 0xa1:
			return SKNP
		}
	case 0xf:
		switch o.KK() {
		case 0x07:
			return LDDT
		case 0x0a:
			return LDK
		case 0x15:
			return SETDT
		case 0x18:
			return SETST
		case 0x1e:
			return ADDI
		case 0x29:
			return LDF
		case 0x33:
			return BCD
		case 0x55:
			return SAVE
		case 0x65:
			return RESTORE
		}
	}
	return INVALID
}

// Name returns the mnemonic for the given instruction.
// Returns false if the instruction is not recognized.
func Name(op Op) (string, bool) {
	switch op {
	case CLS:
		return "CLS", true
	case RET:
		return "RET", true
	case JP:
		return "JP", true
	case CALL:
		return "CALL", true
	case SEC:
		return "SE", true
	case SNEC:
		return "SNE", true
	case SE:
		return "SE", true
	case LDC:
		return "LD", true
	case ADDC:
		return "ADD", true

	case LD:
		return "LD", true
	case OR:
		return "OR", true
	case AND:
		return "AND", true
	case XOR:
		return "XOR", true
	case ADD:
		return "ADD", true
	case SUB:
		return "SUB", true
	case SHR:
		return "SHR", true
	case SUBN:
		return "SUBN", true
	case SHL:
		return "SHL", true

	case SNE:
		return "SNE", true
	case LDI:
		return "LD", true
	case JPV0:
		return "JP", true
	case RND:
		return "RND", true
	case DRW:
		return "DRW", true

	case SKP:
		return "SKP", true
	case SKNP:
		return "SKNP", true

	case LDDT:
		return "LD", true
	case LDK:
		return "LD", true
	case SETDT:
		return "LD", true
	case SETST:
		return "LD", true
	case ADDI:
		return "ADD", true
	case LDF:
		return "LD", true
	case BCD:
		return "LD", true
	case SAVE:
		return "LD", true
	case RESTORE:
		return "LD", true
	}
	return "", false
}
