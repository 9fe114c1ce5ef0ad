// Package interp implements the CHIP-8 virtual machine.
package interp

import (
	"log"
	"math/rand"
	"time"

	"github.com/hexaflex/chip8/arch"
	"github.com/hexaflex/chip8/display"
	"github.com/hexaflex/chip8/keypad"
	"github.com/hexaflex/chip8/timing"
)

// Display dimensions in pixels.
const (
	DisplayWidth  = 64
	DisplayHeight = 32
)

// StackDepth is the call stack capacity.
const StackDepth = 16

// DefaultTicksPerSecond is the instruction clock frequency used when the
// configuration does not specify one.
const DefaultTicksPerSecond = 600

// Config defines interpreter configuration.
type Config struct {
	// ShiftVx selects the instruction-set variant where SHR and SHL read
	// their source operand from Vx instead of Vy. The default (false)
	// shifts Vy, as the original COSMAC interpreter did.
	ShiftVx bool

	// TicksPerSecond is the instruction clock frequency.
	// Zero means DefaultTicksPerSecond.
	TicksPerSecond float64
}

// Interpreter holds the full machine state and advances it one instruction
// at a time under a caller-driven time base. It is not safe for concurrent
// use; all mutation happens inside calls made by one caller.
type Interpreter struct {
	config  Config
	trace   TraceFunc        // Handler for debug trace output.
	memory  Memory           // System memory.
	v       [16]uint8        // General purpose registers. v[0xf] doubles as the flag register.
	i       uint16           // Index register.
	pc      uint16           // Program counter.
	stack   [StackDepth]uint16
	sp      int
	display *display.Display
	keypad  *keypad.Keypad
	delay   timing.Timer
	sound   timing.Timer
	clock   timing.Accumulator // Instruction clock.
	instr   Instruction        // Decoded instruction data.
	rng     *rand.Rand
	waiting int  // Register awaiting a key press, or -1 while running.
	resync  bool // Instruction clock must drop elapsed time on the next Tick.
}

// New creates an interpreter with fresh, zeroed machine state, its clocks
// seeded with the given time. Optionally with the given debug trace handler.
func New(now time.Time, config Config, trace TraceFunc) *Interpreter {
	if trace == nil {
		trace = func(*Instruction) { /* nop */ }
	}
	if config.TicksPerSecond == 0 {
		config.TicksPerSecond = DefaultTicksPerSecond
	}

	m := &Interpreter{
		config:  config,
		trace:   trace,
		memory:  make(Memory, MemorySize),
		pc:      ProgramStart,
		display: display.New(DisplayWidth, DisplayHeight),
		keypad:  keypad.New(),
		delay:   timing.NewTimer(now),
		sound:   timing.NewTimer(now),
		clock:   timing.NewAccumulator(now, 0),
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		waiting: -1,
	}

	m.clock.SetRate(config.TicksPerSecond)
	m.memory.Write(FontBase, fontSprites[:])
	return m
}

// Reset discards the machine state wholesale and replaces it with a fresh
// one seeded with the given time. The configuration and trace handler are
// kept.
func (m *Interpreter) Reset(now time.Time) {
	*m = *New(now, m.config, m.trace)
}

// LoadROM copies the given program image into memory at the program start
// address. The caller guarantees the image fits within remaining memory.
func (m *Interpreter) LoadROM(p []byte) {
	m.memory.Write(ProgramStart, p)
}

// SetInstructionRate reconfigures the instruction clock frequency without
// resetting any machine state. Fractional progress towards the next
// instruction is preserved.
func (m *Interpreter) SetInstructionRate(hz float64) {
	m.clock.SetRate(hz)
}

// Tick advances both countdown timers and executes the number of
// instructions the instruction clock has accumulated since the last call.
// While the machine is awaiting a key press no instructions execute, but
// timers still advance.
func (m *Interpreter) Tick(now time.Time) error {
	if err := m.delay.Step(now); err != nil {
		return err
	}
	if err := m.sound.Step(now); err != nil {
		return err
	}

	// After a key press ends a wait, the time spent blocked must not turn
	// into a burst of catch-up instructions.
	if m.resync {
		if _, err := m.clock.Consume(now); err != nil {
			return err
		}
		m.resync = false
	}

	ticks, err := m.clock.Consume(now)
	if err != nil {
		return err
	}

	for n := 0; n < ticks && m.waiting < 0; n++ {
		if err := m.step(); err != nil {
			return err
		}
	}
	return nil
}

// Press injects a key-press event. If the machine is awaiting a key, the
// awaited register receives the key and execution resumes on the next Tick.
func (m *Interpreter) Press(key int) {
	m.keypad.Press(key)

	if m.waiting >= 0 {
		m.v[m.waiting] = uint8(key)
		m.waiting = -1
		m.resync = true
	}
}

// Release injects a key-release event.
func (m *Interpreter) Release(key int) {
	m.keypad.Release(key)
}

// Width returns the display width in pixels.
func (m *Interpreter) Width() int {
	return m.display.Width()
}

// Height returns the display height in pixels.
func (m *Interpreter) Height() int {
	return m.display.Height()
}

// Pixel returns the state of the display pixel at (x, y).
func (m *Interpreter) Pixel(x, y int) bool {
	return m.display.Pixel(x, y)
}

// TakeDirty returns whether the display changed since the last call and
// resets the flag.
func (m *Interpreter) TakeDirty() bool {
	return m.display.TakeDirty()
}

// step fetches, decodes and executes a single instruction.
func (m *Interpreter) step() error {
	instr := &m.instr
	if err := instr.Decode(m.memory, m.pc); err != nil {
		return err
	}
	m.pc += 2

	m.trace(instr)

	o := instr.Word
	v := &m.v

	switch instr.Op {
	case arch.CLS:
		m.display.Clear()
	case arch.RET:
		if m.sp == 0 {
			return NewError(instr, "return with empty call stack")
		}
		m.sp--
		m.pc = m.stack[m.sp]
	case arch.JP:
		m.pc = o.NNN()
	case arch.CALL:
		if m.sp == StackDepth {
			return NewError(instr, "call stack overflow")
		}
		m.stack[m.sp] = m.pc
		m.sp++
		m.pc = o.NNN()

	case arch.SEC:
		if v[o.X()] == o.KK() {
			m.pc += 2
		}
	case arch.SNEC:
		if v[o.X()] != o.KK() {
			m.pc += 2
		}
	case arch.SE:
		if v[o.X()] == v[o.Y()] {
			m.pc += 2
		}
	case arch.SNE:
		if v[o.X()] != v[o.Y()] {
			m.pc += 2
		}

	case arch.LDC:
		v[o.X()] = o.KK()
	case arch.ADDC:
		v[o.X()] += o.KK()
	case arch.LD:
		v[o.X()] = v[o.Y()]
	case arch.OR:
		v[o.X()] |= v[o.Y()]
	case arch.AND:
		v[o.X()] &= v[o.Y()]
	case arch.XOR:
		v[o.X()] ^= v[o.Y()]
	case arch.ADD:
		sum := uint16(v[o.X()]) + uint16(v[o.Y()])
		v[o.X()] = uint8(sum)
		v[0xf] = uint8(sum >> 8)
	case arch.SUB:
		noBorrow := v[o.X()] >= v[o.Y()]
		v[o.X()] -= v[o.Y()]
		v[0xf] = flag(noBorrow)
	case arch.SUBN:
		noBorrow := v[o.Y()] >= v[o.X()]
		v[o.X()] = v[o.Y()] - v[o.X()]
		v[0xf] = flag(noBorrow)
	case arch.SHR:
		src := m.shiftSource(o)
		v[0xf] = src & 1
		v[o.X()] = src >> 1
	case arch.SHL:
		src := m.shiftSource(o)
		v[0xf] = src >> 7
		v[o.X()] = src << 1

	case arch.LDI:
		m.i = o.NNN()
	case arch.JPV0:
		m.pc = o.NNN() + uint16(v[0])
	case arch.RND:
		v[o.X()] = uint8(m.rng.Intn(256)) & o.KK()
	case arch.DRW:
		return m.draw(instr)

	case arch.SKP:
		if m.keypad.IsDown(int(v[o.X()] & 0xf)) {
			m.pc += 2
		}
	case arch.SKNP:
		if !m.keypad.IsDown(int(v[o.X()] & 0xf)) {
			m.pc += 2
		}
	case arch.LDK:
		if key, ok := m.keypad.FirstDown(); ok {
			v[o.X()] = uint8(key)
		} else {
			m.waiting = o.X()
		}

	case arch.LDDT:
		v[o.X()] = m.delay.Value()
	case arch.SETDT:
		m.delay.SetValue(v[o.X()])
	case arch.SETST:
		m.sound.SetValue(v[o.X()])

	case arch.ADDI:
		m.i += uint16(v[o.X()])
	case arch.LDF:
		digit := v[o.X()]
		if digit > 0xf {
			return NewError(instr, "no font sprite for value %02x", digit)
		}
		m.i = FontBase + uint16(digit)*FontHeight
	case arch.BCD:
		if int(m.i)+3 > MemorySize {
			return NewError(instr, "BCD write at %04x exceeds memory", m.i)
		}
		val := v[o.X()]
		m.memory.SetU8(int(m.i), val/100)
		m.memory.SetU8(int(m.i)+1, val/10%10)
		m.memory.SetU8(int(m.i)+2, val%10)
	case arch.SAVE:
		x := o.X()
		if int(m.i)+x+1 > MemorySize {
			return NewError(instr, "register store at %04x exceeds memory", m.i)
		}
		copy(m.memory[m.i:], v[:x+1])
	case arch.RESTORE:
		x := o.X()
		if int(m.i)+x+1 > MemorySize {
			return NewError(instr, "register load at %04x exceeds memory", m.i)
		}
		copy(v[:x+1], m.memory[m.i:])

	case arch.INVALID:
		log.Printf("invalid instruction %04x at %04x", uint16(o), instr.PC)
	}

	return nil
}

// shiftSource returns the operand that SHR and SHL shift, depending on the
// configured instruction-set variant.
func (m *Interpreter) shiftSource(o arch.Opcode) uint8 {
	if m.config.ShiftVx {
		return m.v[o.X()]
	}
	return m.v[o.Y()]
}

// draw XOR-blits an n-row sprite read from memory[I] onto the display at
// (Vx, Vy). Coordinates wrap modulo the display dimensions. VF is set iff
// any toggle turned a lit pixel off.
func (m *Interpreter) draw(instr *Instruction) error {
	o := instr.Word
	n := o.N()
	if int(m.i)+n > MemorySize {
		return NewError(instr, "sprite read at %04x exceeds memory", m.i)
	}

	w := m.display.Width()
	h := m.display.Height()
	x := int(m.v[o.X()]) % w
	y := int(m.v[o.Y()]) % h

	m.v[0xf] = 0
	for dy := 0; dy < n; dy++ {
		row := m.memory.U8(int(m.i) + dy)
		for dx := 0; dx < 8; dx++ {
			if row>>uint(7-dx)&1 == 1 {
				if m.display.Toggle((x+dx)%w, (y+dy)%h) {
					m.v[0xf] = 1
				}
			}
		}
	}
	return nil
}

func flag(v bool) uint8 {
	if v {
		return 1
	}
	return 0
}
