// chip8 emulator.
package main

import (
	"runtime"

	"github.com/alecthomas/kong"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	var cli struct {
		Run runCmd `cmd:"" default:"1" help:"run a CHIP-8 program"`

		Version kong.VersionFlag `help:"Display version information."`
	}

	ctx := kong.Parse(&cli, kong.Vars{"version": Version()})
	err := ctx.Run(&kong.Context{})
	ctx.FatalIfErrorf(err)
}

type runCmd struct {
	ROM         string  `arg:"" name:"rom" type:"existingfile" help:"Path to the ROM image to load."`
	ScaleFactor int     `name:"scale-factor" default:"8" help:"Pixel scale factor for the display."`
	Fullscreen  bool    `help:"Run the display in fullscreen or windowed mode."`
	Rate        float64 `default:"600" help:"Instructions executed per second."`
	ShiftVx     bool    `name:"shift-vx" help:"SHR and SHL read their source register from Vx instead of Vy."`
	Trace       bool    `help:"Print instruction trace data."`
}

func (r *runCmd) Run(ctx *kong.Context) error {
	return NewApp(r).Run()
}
