// chip8-dasm disassembles CHIP-8 ROM images.
package main

import (
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/pkg/errors"

	"github.com/hexaflex/chip8/arch"
	"github.com/hexaflex/chip8/interp"
)

func main() {
	var cli struct {
		Dasm dasmCmd `cmd:"" default:"1" help:"disassemble a CHIP-8 ROM image"`
	}

	ctx := kong.Parse(&cli)
	err := ctx.Run(&kong.Context{})
	ctx.FatalIfErrorf(err)
}

type dasmCmd struct {
	ROM string `arg:"" name:"rom" type:"existingfile" help:"Path to the ROM image."`
}

func (d *dasmCmd) Run(ctx *kong.Context) error {
	p, err := os.ReadFile(d.ROM)
	if err != nil {
		return err
	}

	if len(p) > interp.MemorySize-interp.ProgramStart {
		return errors.Errorf("%s: %d bytes exceeds program memory (%d bytes)",
			d.ROM, len(p), interp.MemorySize-interp.ProgramStart)
	}

	for offset := 0; offset+1 < len(p); offset += 2 {
		word := arch.Opcode(p[offset])<<8 | arch.Opcode(p[offset+1])
		fmt.Printf("%04x %04x  %s\n", interp.ProgramStart+offset, uint16(word), arch.Disassemble(word))
	}

	if len(p)%2 != 0 {
		fmt.Printf("%04x %02x    .byte %02x\n", interp.ProgramStart+len(p)-1, p[len(p)-1], p[len(p)-1])
	}

	return nil
}
