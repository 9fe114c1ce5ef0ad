package interp

import (
	"github.com/hexaflex/chip8/arch"
)

// TraceFunc represents a callback handler for debug trace output.
type TraceFunc func(*Instruction)

// Instruction defines decoded instruction data.
type Instruction struct {
	PC   uint16      // Instruction address.
	Word arch.Opcode // Raw instruction word.
	Op   arch.Op     // Decoded instruction identity.
}

// Decode decodes the instruction at the given address from the given
// memory bank.
func (i *Instruction) Decode(m Memory, pc uint16) error {
	i.PC = pc
	i.Word = 0
	i.Op = arch.INVALID

	if int(pc)+1 >= MemorySize {
		return NewError(i, "instruction fetch at %04x exceeds memory", pc)
	}

	i.Word = arch.Opcode(m.U16(int(pc)))
	i.Op = arch.Lookup(i.Word)
	return nil
}
