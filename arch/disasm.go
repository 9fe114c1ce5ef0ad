package arch

import "fmt"

// Disassemble formats the given instruction word as assembly text.
// Unrecognized words render as a raw .word directive.
func Disassemble(o Opcode) string {
	op := Lookup(o)
	name, ok := Name(op)
	if !ok {
		return fmt.Sprintf(".word %04x", uint16(o))
	}

	switch op {
	case CLS, RET:
		return name
	case JP, CALL, LDI:
		target := "%s %03x"
		if op == LDI {
			target = "%s I, %03x"
		}
		return fmt.Sprintf(target, name, o.NNN())
	case JPV0:
		return fmt.Sprintf("%s V0, %03x", name, o.NNN())
	case SEC, SNEC, LDC, ADDC, RND:
		return fmt.Sprintf("%s V%X, %02x", name, o.X(), o.KK())
	case SE, LD, OR, AND, XOR, ADD, SUB, SHR, SUBN, SHL, SNE:
		return fmt.Sprintf("%s V%X, V%X", name, o.X(), o.Y())
	case DRW:
		return fmt.Sprintf("%s V%X, V%X, %x", name, o.X(), o.Y(), o.N())
	case SKP, SKNP:
		return fmt.Sprintf("%s V%X", name, o.X())
	case LDDT:
		return fmt.Sprintf("%s V%X, DT", name, o.X())
	case LDK:
		return fmt.Sprintf("%s V%X, K", name, o.X())
	case SETDT:
		return fmt.Sprintf("%s DT, V%X", name, o.X())
	case SETST:
		return fmt.Sprintf("%s ST, V%X", name, o.X())
	case ADDI:
		return fmt.Sprintf("%s I, V%X", name, o.X())
	case LDF:
		return fmt.Sprintf("%s F, V%X", name, o.X())
	case BCD:
		return fmt.Sprintf("%s B, V%X", name, o.X())
	case SAVE:
		return fmt.Sprintf("%s [I], V%X", name, o.X())
	case RESTORE:
		return fmt.Sprintf("%s V%X, [I]", name, o.X())
	}
	return name
}
