package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-gl/gl/v4.2-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/pkg/errors"

	"github.com/hexaflex/chip8/arch"
	"github.com/hexaflex/chip8/interp"
)

// keymap translates the conventional host keyboard layout to keypad codes.
//
//	1 2 3 4        1 2 3 C
//	Q W E R   ->   4 5 6 D
//	A S D F        7 8 9 E
//	Z X C V        A 0 B F
var keymap = map[glfw.Key]int{
	glfw.Key1: 0x1, glfw.Key2: 0x2, glfw.Key3: 0x3, glfw.Key4: 0xc,
	glfw.KeyQ: 0x4, glfw.KeyW: 0x5, glfw.KeyE: 0x6, glfw.KeyR: 0xd,
	glfw.KeyA: 0x7, glfw.KeyS: 0x8, glfw.KeyD: 0x9, glfw.KeyF: 0xe,
	glfw.KeyZ: 0xa, glfw.KeyX: 0x0, glfw.KeyC: 0xb, glfw.KeyV: 0xf,
}

// App defines application context.
type App struct {
	config       *runCmd             // Application configuration.
	window       *glfw.Window        // OpenGL/GLFW context.
	machine      *interp.Interpreter // The virtual machine.
	screen       *Screen             // Framebuffer presentation.
	halted       bool                // Did the machine hit a fatal fault?
	lastRendered time.Time           // Last time a frame was rendered.
}

// NewApp creates a new application instance using the given configuration.
func NewApp(config *runCmd) *App {
	var a App
	a.config = config
	a.machine = interp.New(time.Now(), interp.Config{
		ShiftVx:        config.ShiftVx,
		TicksPerSecond: config.Rate,
	}, a.printTrace)
	return &a
}

// Run runs the application and does not return until it is finished
// or an error occured during initialization.
func (a *App) Run() error {
	if err := a.initGL(); err != nil {
		return err
	}

	defer a.dispose()

	log.Println(Version())

	if err := a.loadROM(); err != nil {
		return err
	}

	for !a.window.ShouldClose() {
		a.mainLoop()
	}

	return nil
}

// mainLoop performs all main loop operations.
func (a *App) mainLoop() {
	if !a.halted {
		if err := a.machine.Tick(time.Now()); err != nil {
			log.Println(err)
			a.halted = true
		}
	}

	// Periodically render display contents.
	if time.Since(a.lastRendered) >= time.Second/60 {
		a.lastRendered = time.Now()

		if a.machine.TakeDirty() {
			a.screen.Update(a.machine)
		}

		gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
		a.screen.Draw()
		a.window.SwapBuffers()
	}

	glfw.PollEvents()
}

// dispose ensures openGL/GLFW and other resources are cleaned up.
func (a *App) dispose() {
	if a.screen != nil {
		a.screen.Dispose()
		a.screen = nil
	}

	if a.window != nil {
		a.window.Destroy()
		a.window = nil
	}

	glfw.Terminate()
}

func (a *App) keyCallback(_ *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if code, ok := keymap[key]; ok {
		switch action {
		case glfw.Press:
			a.machine.Press(code)
		case glfw.Release:
			a.machine.Release(code)
		}
		return
	}

	if action != glfw.Press {
		return
	}

	switch key {
	case glfw.KeyEscape:
		a.window.SetShouldClose(true)
	case glfw.KeyF5:
		a.machine.Reset(time.Now())
		a.halted = false
		if err := a.loadROM(); err != nil {
			log.Println(err)
		}
	}
}

// initGL initializes GLFW and openGL.
func (a *App) initGL() error {
	err := glfw.Init()
	if err != nil {
		return errors.Wrapf(err, "glfw.Init failed")
	}

	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.Visible, glfw.True)
	glfw.WindowHint(glfw.Focused, glfw.True)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 2)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	var monitor *glfw.Monitor

	width := a.machine.Width() * a.config.ScaleFactor
	height := a.machine.Height() * a.config.ScaleFactor

	if a.config.Fullscreen {
		monitor = glfw.GetPrimaryMonitor()
		mode := monitor.GetVideoMode()

		width = mode.Width
		height = mode.Height

		glfw.WindowHint(glfw.Decorated, glfw.False)
		glfw.WindowHint(glfw.Maximized, glfw.True)
	} else {
		glfw.WindowHint(glfw.Decorated, glfw.True)
		glfw.WindowHint(glfw.Maximized, glfw.False)
	}

	title := fmt.Sprintf("%s %s", AppName, AppVersion)

	a.window, err = glfw.CreateWindow(width, height, title, monitor, nil)
	if err != nil {
		a.dispose()
		return errors.Wrapf(err, "glfw.CreateWindow failed")
	}

	a.window.MakeContextCurrent()
	a.window.SetKeyCallback(a.keyCallback)

	glfw.SwapInterval(0)

	err = gl.Init()
	if err != nil {
		a.dispose()
		return errors.Wrapf(err, "gl.Init failed")
	}

	gl.ClearColor(0, 0, 0, 1.0)

	a.screen, err = NewScreen(a.machine.Width(), a.machine.Height())
	if err != nil {
		a.dispose()
		return err
	}

	return nil
}

// loadROM loads the configured program image into the machine.
func (a *App) loadROM() error {
	log.Println("loading", a.config.ROM)

	p, err := os.ReadFile(a.config.ROM)
	if err != nil {
		return err
	}

	if len(p) > interp.MemorySize-interp.ProgramStart {
		return errors.Errorf("%s: %d bytes exceeds program memory (%d bytes)",
			a.config.ROM, len(p), interp.MemorySize-interp.ProgramStart)
	}

	a.machine.LoadROM(p)
	return nil
}

// printTrace prints instruction trace data. This can be toggled
// on and off through a.config.Trace.
func (a *App) printTrace(i *interp.Instruction) {
	if !a.config.Trace {
		return
	}
	fmt.Printf("%04x %04x  %s\n", i.PC, uint16(i.Word), arch.Disassemble(i.Word))
}
