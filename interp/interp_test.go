package interp

import (
	"math/rand"
	"testing"
	"time"

	"github.com/matryer/is"
	"github.com/pkg/errors"

	"github.com/hexaflex/chip8/timing"
)

var t0 = time.Unix(0, 0)

// instrInterval mirrors the clock interval for the default instruction rate.
var defaultHz float64 = DefaultTicksPerSecond
var instrInterval = time.Duration(float64(time.Second) / defaultHz)

func testMachine() *Interpreter {
	return New(t0, Config{}, nil)
}

// execErr writes the given instruction word at the current program counter
// and executes it.
func execErr(m *Interpreter, word uint16) error {
	m.memory.SetU16(int(m.pc), word)
	return m.step()
}

func exec(t *testing.T, m *Interpreter, word uint16) {
	t.Helper()
	if err := execErr(m, word); err != nil {
		t.Fatal(err)
	}
}

func TestLoadROM(t *testing.T) {
	is := is.New(t)

	m := testMachine()
	data := []byte{1, 5, 3, 5, 1, 255, 9}
	m.LoadROM(data)

	for i, want := range data {
		is.Equal(m.memory.U8(ProgramStart+i), want)
	}

	for i := 1; i <= 5; i++ {
		is.Equal(m.memory.U8(ProgramStart-i), uint8(0))
		is.Equal(m.memory.U8(ProgramStart+len(data)+i-1), uint8(0))
	}
}

func TestReset(t *testing.T) {
	is := is.New(t)

	m := New(t0, Config{ShiftVx: true}, nil)
	m.LoadROM([]byte{1, 5, 3, 5, 1, 255, 9})
	m.v[3] = 99
	m.i = 0x123
	m.pc = 0x456
	m.delay.SetValue(10)

	m.Reset(t0.Add(time.Second))

	is.Equal(m.memory.U8(ProgramStart), uint8(0))
	is.Equal(m.v[3], uint8(0))
	is.Equal(m.i, uint16(0))
	is.Equal(m.pc, uint16(ProgramStart))
	is.Equal(m.delay.Value(), uint8(0))
	is.True(m.config.ShiftVx)

	// The font survives a reset.
	is.Equal(m.memory.U8(FontBase), uint8(0xf0))
}

func TestFetch(t *testing.T) {
	is := is.New(t)

	m := testMachine()
	m.LoadROM([]byte{
		0xf1, 0x7d, 0x05, 0x00, 0x13, 0x5c, 0x1a, 0xc4,
		0x58, 0xdf, 0x00, 0x01, 0x00, 0x00, 0x1a, 0x43,
	})

	words := []uint16{0xf17d, 0x0500, 0x135c, 0x1ac4, 0x58df, 0x0001, 0x0000, 0x1a43}

	var instr Instruction
	for n, want := range words {
		is.NoErr(instr.Decode(m.memory, uint16(ProgramStart+n*2)))
		is.Equal(uint16(instr.Word), want)
	}
}

func TestFetchOutOfMemory(t *testing.T) {
	is := is.New(t)

	m := testMachine()
	m.pc = 0xfff
	is.True(m.step() != nil)
}

func TestCallRet(t *testing.T) {
	is := is.New(t)

	//   CALL 400
	//   ...
	//   RET
	m := testMachine()
	exec(t, m, 0x2400)
	is.Equal(m.pc, uint16(0x400))
	is.Equal(m.sp, 1)
	is.Equal(m.stack[0], uint16(0x202))

	exec(t, m, 0x00ee)
	is.Equal(m.pc, uint16(0x202))
	is.Equal(m.sp, 0)
}

func TestRetUnderflow(t *testing.T) {
	is := is.New(t)

	// A RET with no pending CALL indicates a malformed program.
	m := testMachine()
	err := execErr(m, 0x00ee)
	is.True(err != nil)

	_, ok := err.(*Error)
	is.True(ok)
}

func TestCallOverflow(t *testing.T) {
	is := is.New(t)

	m := testMachine()
	for i := 0; i < StackDepth; i++ {
		exec(t, m, 0x2000|uint16(ProgramStart+i*2+2))
	}

	is.True(execErr(m, 0x2400) != nil)
}

func TestJumps(t *testing.T) {
	is := is.New(t)

	m := testMachine()
	exec(t, m, 0x1abc)
	is.Equal(m.pc, uint16(0xabc))

	//   LD V0, 05
	//   JP V0, 100
	exec(t, m, 0x6005)
	exec(t, m, 0xb100)
	is.Equal(m.pc, uint16(0x105))

	exec(t, m, 0xa123)
	is.Equal(m.i, uint16(0x123))
}

func TestSkips(t *testing.T) {
	is := is.New(t)

	m := testMachine()
	m.v[0] = 5
	m.v[1] = 5
	m.v[2] = 6
	pc := m.pc

	exec(t, m, 0x3004) // SE V0, 04: no skip
	pc += 2
	is.Equal(m.pc, pc)

	exec(t, m, 0x3005) // SE V0, 05: skip
	pc += 4
	is.Equal(m.pc, pc)

	exec(t, m, 0x4005) // SNE V0, 05: no skip
	pc += 2
	is.Equal(m.pc, pc)

	exec(t, m, 0x4004) // SNE V0, 04: skip
	pc += 4
	is.Equal(m.pc, pc)

	exec(t, m, 0x5020) // SE V0, V2: no skip
	pc += 2
	is.Equal(m.pc, pc)

	exec(t, m, 0x5010) // SE V0, V1: skip
	pc += 4
	is.Equal(m.pc, pc)

	exec(t, m, 0x9010) // SNE V0, V1: no skip
	pc += 2
	is.Equal(m.pc, pc)

	exec(t, m, 0x9020) // SNE V0, V2: skip
	pc += 4
	is.Equal(m.pc, pc)
}

func TestKeySkips(t *testing.T) {
	is := is.New(t)

	m := testMachine()
	m.v[0] = 0xa
	m.v[1] = 0xb
	m.Press(0xa)
	pc := m.pc

	exec(t, m, 0xe19e) // SKP V1: key B not down, no skip
	pc += 2
	is.Equal(m.pc, pc)

	exec(t, m, 0xe09e) // SKP V0: key A down, skip
	pc += 4
	is.Equal(m.pc, pc)

	exec(t, m, 0xe0a1) // SKNP V0: key A down, no skip
	pc += 2
	is.Equal(m.pc, pc)

	exec(t, m, 0xe1a1) // SKNP V1: key B not down, skip
	pc += 4
	is.Equal(m.pc, pc)

	m.Release(0xa)
	exec(t, m, 0xe09e) // SKP V0: no longer down, no skip
	pc += 2
	is.Equal(m.pc, pc)
}

func TestALU(t *testing.T) {
	is := is.New(t)

	m := testMachine()

	exec(t, m, 0x600a) // LD V0, 0a
	is.Equal(m.v[0], uint8(10))

	exec(t, m, 0x7005) // ADD V0, 05
	is.Equal(m.v[0], uint8(15))

	exec(t, m, 0x6119) // LD V1, 19
	exec(t, m, 0x8010) // LD V0, V1
	is.Equal(m.v[0], uint8(25))

	exec(t, m, 0x600a)
	exec(t, m, 0x8011) // OR V0, V1
	is.Equal(m.v[0], uint8(10|25))

	exec(t, m, 0x600a)
	exec(t, m, 0x8012) // AND V0, V1
	is.Equal(m.v[0], uint8(10&25))

	exec(t, m, 0x600a)
	exec(t, m, 0x8013) // XOR V0, V1
	is.Equal(m.v[0], uint8(10^25))
}

func TestALUCarryBorrow(t *testing.T) {
	is := is.New(t)

	m := testMachine()
	m.v[0] = 254
	m.v[1] = 3

	exec(t, m, 0x8014) // ADD V0, V1: wraps, carry set
	is.Equal(m.v[0], uint8(1))
	is.Equal(m.v[0xf], uint8(1))

	exec(t, m, 0x8014) // ADD V0, V1: no carry
	is.Equal(m.v[0], uint8(4))
	is.Equal(m.v[0xf], uint8(0))

	exec(t, m, 0x8015) // SUB V0, V1: 4 >= 3, no borrow
	is.Equal(m.v[0], uint8(1))
	is.Equal(m.v[0xf], uint8(1))

	exec(t, m, 0x8015) // SUB V0, V1: 1 < 3, borrow
	is.Equal(m.v[0], uint8(254))
	is.Equal(m.v[0xf], uint8(0))

	//   SUBN V0, V1: V0 = V1 - V0
	m.v[0] = 10
	m.v[1] = 5
	exec(t, m, 0x8017)
	is.Equal(m.v[0], uint8(251))
	is.Equal(m.v[0xf], uint8(0))
}

func TestShifts(t *testing.T) {
	is := is.New(t)

	// The default variant shifts Vy.
	m := testMachine()
	m.v[1] = 0b10
	exec(t, m, 0x8016) // SHR V0, V1
	is.Equal(m.v[0], uint8(1))
	is.Equal(m.v[0xf], uint8(0))

	m.v[1] = 0b11
	exec(t, m, 0x8016)
	is.Equal(m.v[0], uint8(1))
	is.Equal(m.v[0xf], uint8(1))

	m.v[1] = 0x80
	exec(t, m, 0x801e) // SHL V0, V1
	is.Equal(m.v[0], uint8(0))
	is.Equal(m.v[0xf], uint8(1))

	m.v[1] = 0x41
	exec(t, m, 0x801e)
	is.Equal(m.v[0], uint8(0x82))
	is.Equal(m.v[0xf], uint8(0))
}

func TestShiftsVxVariant(t *testing.T) {
	is := is.New(t)

	m := New(t0, Config{ShiftVx: true}, nil)
	m.v[0] = 0x81
	m.v[1] = 0xff

	exec(t, m, 0x8016) // SHR V0, V1: reads V0 in this variant
	is.Equal(m.v[0], uint8(0x40))
	is.Equal(m.v[0xf], uint8(1))

	m.v[0] = 0x81
	exec(t, m, 0x801e) // SHL V0, V1
	is.Equal(m.v[0], uint8(0x02))
	is.Equal(m.v[0xf], uint8(1))
}

func TestRandomMasked(t *testing.T) {
	is := is.New(t)

	m := testMachine()
	m.rng = rand.New(rand.NewSource(1))

	for i := 0; i < 16; i++ {
		exec(t, m, 0xc00f) // RND V0, 0f
		is.Equal(m.v[0]&0xf0, uint8(0))
	}

	exec(t, m, 0xc100) // RND V1, 00
	is.Equal(m.v[1], uint8(0))
}

func TestDraw(t *testing.T) {
	is := is.New(t)

	m := testMachine()

	//   LD V0, 0a
	//   LD V1, 0a
	//   LD I, 005
	//   DRW V0, V1, 3
	m.LoadROM([]byte{0x60, 0x0a, 0x61, 0x0a, 0xa0, 0x05, 0xd0, 0x13})
	m.memory.Write(5, []byte{0xf0, 0x0f, 0xaa})

	is.True(m.TakeDirty())

	is.NoErr(m.Tick(t0.Add(4 * instrInterval)))

	is.True(m.TakeDirty())
	is.True(m.Pixel(10, 10))
	is.True(m.Pixel(11, 10))
	is.True(!m.Pixel(14, 10))
	is.True(m.Pixel(14, 11))
	is.True(!m.Pixel(13, 11))
	is.True(m.Pixel(10, 12))
	is.True(!m.Pixel(11, 12))
	is.Equal(m.v[0xf], uint8(0))

	// Drawing the same sprite again toggles every cell off and reports the
	// collision.
	m.pc = 0x206
	is.NoErr(m.step())

	is.Equal(m.v[0xf], uint8(1))
	is.True(!m.Pixel(10, 10))
	is.True(!m.Pixel(11, 10))
	is.True(!m.Pixel(14, 11))
	is.True(!m.Pixel(10, 12))
	is.True(m.TakeDirty())
}

func TestDrawWraps(t *testing.T) {
	is := is.New(t)

	m := testMachine()
	m.memory.SetU8(0, 0xff)
	m.v[0] = 62
	m.v[1] = 31

	exec(t, m, 0xd011) // DRW V0, V1, 1

	is.True(m.Pixel(62, 31))
	is.True(m.Pixel(63, 31))
	for x := 0; x < 6; x++ {
		is.True(m.Pixel(x, 31))
	}
	is.True(!m.Pixel(6, 31))

	// Row coordinates wrap too.
	m.v[0] = 0
	m.v[1] = 33
	exec(t, m, 0xd011)
	is.True(m.Pixel(0, 1))
}

func TestDrawOutOfMemory(t *testing.T) {
	is := is.New(t)

	m := testMachine()
	m.i = 0xfff
	is.True(execErr(m, 0xd013) != nil)
}

func TestTimerOps(t *testing.T) {
	is := is.New(t)

	m := testMachine()

	//   LD V0, 05
	//   LD DT, V0
	//   LD ST, V0
	exec(t, m, 0x6005)
	exec(t, m, 0xf015)
	exec(t, m, 0xf018)
	is.Equal(m.delay.Value(), uint8(5))
	is.Equal(m.sound.Value(), uint8(5))

	// Two and a half timer periods elapse.
	is.NoErr(m.delay.Step(t0.Add(time.Second / 60 * 5 / 2)))

	exec(t, m, 0xf107) // LD V1, DT
	is.Equal(m.v[1], uint8(3))
}

func TestWaitKeySuspends(t *testing.T) {
	is := is.New(t)

	m := testMachine()

	//   LD V3, K
	//   LD V1, 05
	m.LoadROM([]byte{0xf3, 0x0a, 0x61, 0x05})

	is.NoErr(m.Tick(t0.Add(1 * instrInterval)))
	is.Equal(m.pc, uint16(0x202))
	is.Equal(m.waiting, 3)

	// Awaiting a key: further ticks execute nothing.
	is.NoErr(m.Tick(t0.Add(3 * instrInterval)))
	is.Equal(m.pc, uint16(0x202))
	is.Equal(m.v[1], uint8(0))

	m.Press(7)
	is.Equal(m.v[3], uint8(7))
	is.Equal(m.waiting, -1)
	is.True(m.keypad.IsDown(7))

	// The time spent blocked does not burst into catch-up instructions.
	is.NoErr(m.Tick(t0.Add(4 * instrInterval)))
	is.Equal(m.v[1], uint8(0))

	is.NoErr(m.Tick(t0.Add(5 * instrInterval)))
	is.Equal(m.v[1], uint8(5))
	is.Equal(m.pc, uint16(0x204))
}

func TestWaitKeyResolvesImmediately(t *testing.T) {
	is := is.New(t)

	m := testMachine()
	m.Press(9)

	exec(t, m, 0xf30a) // LD V3, K: a key is already down
	is.Equal(m.v[3], uint8(9))
	is.Equal(m.waiting, -1)
}

func TestWaitKeyTimersStillAdvance(t *testing.T) {
	is := is.New(t)

	m := testMachine()
	m.delay.SetValue(10)

	m.LoadROM([]byte{0xf3, 0x0a})
	is.NoErr(m.Tick(t0.Add(1 * instrInterval)))
	is.Equal(m.waiting, 3)

	is.NoErr(m.Tick(t0.Add(time.Second / 60 * 3)))
	is.Equal(m.delay.Value(), uint8(7))
}

func TestBCD(t *testing.T) {
	is := is.New(t)

	m := testMachine()

	//   LD V7, ea
	//   LD I, 300
	//   LD B, V7
	exec(t, m, 0x67ea)
	exec(t, m, 0xa300)
	exec(t, m, 0xf733)

	is.Equal(m.memory.U8(0x300), uint8(2))
	is.Equal(m.memory.U8(0x301), uint8(3))
	is.Equal(m.memory.U8(0x302), uint8(4))
	is.Equal(m.i, uint16(0x300))
}

func TestBCDOutOfMemory(t *testing.T) {
	is := is.New(t)

	m := testMachine()
	m.i = 0xffe
	is.True(execErr(m, 0xf033) != nil)
}

func TestSaveRestore(t *testing.T) {
	is := is.New(t)

	m := testMachine()
	for i := 0; i <= 5; i++ {
		m.v[i] = uint8(i + 1)
	}
	m.i = 0x300

	exec(t, m, 0xf555) // LD [I], V5: inclusive range
	for i := 0; i <= 5; i++ {
		is.Equal(m.memory.U8(0x300+i), uint8(i+1))
	}
	is.Equal(m.memory.U8(0x306), uint8(0))
	is.Equal(m.i, uint16(0x300))

	m.v = [16]uint8{}
	m.v[6] = 99
	m.i = 0x300

	exec(t, m, 0xf565) // LD V5, [I]
	for i := 0; i <= 5; i++ {
		is.Equal(m.v[i], uint8(i+1))
	}
	is.Equal(m.v[6], uint8(99))
	is.Equal(m.i, uint16(0x300))
}

func TestSaveOutOfMemory(t *testing.T) {
	is := is.New(t)

	m := testMachine()
	m.i = 0xffc
	is.True(execErr(m, 0xf555) != nil)
	is.True(execErr(m, 0xf565) != nil)
}

func TestFontAddressing(t *testing.T) {
	is := is.New(t)

	m := testMachine()

	//   LD V0, 0a
	//   LD F, V0
	exec(t, m, 0x600a)
	exec(t, m, 0xf029)
	is.Equal(m.i, uint16(FontBase+0xa*FontHeight))

	// First row of the glyph for digit A.
	is.Equal(m.memory.U8(int(m.i)), uint8(0xf0))

	m.v[0] = 0x10
	is.True(execErr(m, 0xf029) != nil)
}

func TestAddI(t *testing.T) {
	is := is.New(t)

	m := testMachine()
	m.v[2] = 0x10

	exec(t, m, 0xa200)
	exec(t, m, 0xf21e) // ADD I, V2
	is.Equal(m.i, uint16(0x210))
}

func TestInvalidInstructionContinues(t *testing.T) {
	is := is.New(t)

	m := testMachine()
	pc := m.pc

	exec(t, m, 0x5ab1)
	is.Equal(m.pc, pc+2)

	exec(t, m, 0x6005) // execution continues normally
	is.Equal(m.v[0], uint8(5))
}

func TestTickPacing(t *testing.T) {
	is := is.New(t)

	m := New(t0, Config{TicksPerSecond: 100}, nil)

	// Ten counting instructions: ADD V0, 01.
	rom := make([]byte, 0, 20)
	for i := 0; i < 10; i++ {
		rom = append(rom, 0x70, 0x01)
	}
	m.LoadROM(rom)

	is.NoErr(m.Tick(t0.Add(55 * time.Millisecond)))
	is.Equal(m.v[0], uint8(5))

	// Raising the rate mid-stream keeps pending fractional progress.
	m.SetInstructionRate(200)

	is.NoErr(m.Tick(t0.Add(70 * time.Millisecond)))
	is.Equal(m.v[0], uint8(9))
}

func TestTickTimeReversed(t *testing.T) {
	is := is.New(t)

	m := testMachine()
	is.NoErr(m.Tick(t0.Add(time.Second)))

	err := m.Tick(t0)
	is.Equal(errors.Cause(err), timing.ErrTimeReversed)
}
