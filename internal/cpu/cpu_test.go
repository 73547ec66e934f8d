package cpu

import (
	"testing"

	"github.com/rookgb/dmgboy/internal/cartridge"
	"github.com/rookgb/dmgboy/internal/interrupts"
	"github.com/rookgb/dmgboy/internal/mmu"
	"github.com/rookgb/dmgboy/internal/ppu"
	"github.com/rookgb/dmgboy/internal/serial"
	"github.com/rookgb/dmgboy/internal/timer"
	"github.com/stretchr/testify/require"
)

// newTestCPU wires up a CPU against a real bus, the same way
// gameboy.New does, so instruction tests exercise the real tick
// accounting rather than a mocked one. Test programs are poked into
// work RAM (0xC000+), which is writable, rather than ROM.
func newTestCPU() *CPU {
	irq := interrupts.NewService()
	timerCtl := timer.NewController(irq)
	video := ppu.NewPPU(irq)
	serialCtl := serial.NewController(irq)

	bus := mmu.NewMMU(cartridge.NewEmptyCartridge(), nil)

	dma := ppu.NewDMA(video)
	dma.SetSource(bus.Read)
	bus.AttachVideo(video)
	bus.AttachDMA(dma)

	return NewCPU(bus, irq, dma, timerCtl, video, serialCtl)
}

// load pokes a test program into work RAM at 0xC000 and points PC at
// the start of it.
func load(c *CPU, program ...uint8) {
	for i, b := range program {
		c.mmu.Write(0xC000+uint16(i), b)
	}
	c.PC = 0xC000
}

func TestReset(t *testing.T) {
	c := newTestCPU()
	c.Reset()

	require.Equal(t, uint8(0x01), c.A)
	require.Equal(t, uint8(0xB0), c.F)
	require.Equal(t, uint16(0x0013), c.BC.Uint16())
	require.Equal(t, uint16(0x00D8), c.DE.Uint16())
	require.Equal(t, uint16(0x014D), c.HL.Uint16())
	require.Equal(t, uint16(0xFFFE), c.SP)
	require.Equal(t, uint16(0x0100), c.PC)
	require.False(t, c.IRQ.IME)
}

func TestLoadImmediate(t *testing.T) {
	c := newTestCPU()
	load(c, 0x06, 0x42) // LD B,0x42

	ticks := c.Step()

	require.Equal(t, uint8(0x42), c.B)
	require.Equal(t, uint8(8), ticks) // 2 M-cycles
}

func TestIncSetsZeroAndHalfCarry(t *testing.T) {
	c := newTestCPU()
	load(c, 0x3E, 0xFF, 0x3C) // LD A,0xFF ; INC A

	c.Step()
	c.Step()

	require.Equal(t, uint8(0x00), c.A)
	require.True(t, c.isFlagSet(FlagZero))
	require.True(t, c.isFlagSet(FlagHalfCarry))
	require.False(t, c.isFlagSet(FlagSubtract))
}

func TestAddSetsCarry(t *testing.T) {
	c := newTestCPU()
	// LD A,0xFF ; LD B,0x02 ; ADD A,B
	load(c, 0x3E, 0xFF, 0x06, 0x02, 0x80)

	c.Step()
	c.Step()
	c.Step()

	require.Equal(t, uint8(0x01), c.A)
	require.True(t, c.isFlagSet(FlagCarry))
	require.True(t, c.isFlagSet(FlagHalfCarry))
}

func TestUnconditionalRetTiming(t *testing.T) {
	c := newTestCPU()
	c.SP = 0xC010
	c.mmu.Write(c.SP, 0x34)   // low byte of return address
	c.mmu.Write(c.SP+1, 0x12) // high byte
	load(c, 0xC9)             // RET

	ticks := c.Step()

	require.Equal(t, uint16(0x1234), c.PC)
	require.Equal(t, uint16(0xC012), c.SP)
	require.Equal(t, uint8(16), ticks) // 4 M-cycles
}

func TestConditionalRetTiming(t *testing.T) {
	// RET NZ, not taken: Z set means the branch is not taken.
	c := newTestCPU()
	c.setFlag(FlagZero)
	load(c, 0xC0) // RET NZ
	startPC := c.PC

	ticks := c.Step()

	require.Equal(t, startPC+1, c.PC)
	require.Equal(t, uint8(8), ticks) // 2 M-cycles

	// RET NZ, taken.
	c = newTestCPU()
	c.clearFlag(FlagZero)
	c.SP = 0xC010
	c.mmu.Write(c.SP, 0x78)
	c.mmu.Write(c.SP+1, 0x56)
	load(c, 0xC0)

	ticks = c.Step()

	require.Equal(t, uint16(0x5678), c.PC)
	require.Equal(t, uint8(20), ticks) // 5 M-cycles
}

func TestHaltBugDuplicatesNextFetch(t *testing.T) {
	c := newTestCPU()
	c.IRQ.IME = false
	c.IRQ.Enable = interrupts.VBlankFlag
	c.IRQ.Flag = interrupts.VBlankFlag // a pending, disabled interrupt arms the bug
	load(c, 0x76, 0x3C)                // HALT ; INC A

	c.Step() // executes HALT, detects the bug, falls straight through
	require.Equal(t, ModeHaltBug, c.mode)

	c.Step() // INC A runs once...
	require.Equal(t, uint8(1), c.A)
	require.Equal(t, ModeNormal, c.mode)

	c.Step() // ...and PC didn't advance past it, so it runs again
	require.Equal(t, uint8(2), c.A)
}

func TestEIDelaysInterrupt(t *testing.T) {
	c := newTestCPU()
	load(c, 0xFB, 0x00, 0x00) // EI ; NOP ; NOP

	c.Step() // EI: IME becomes pending, not yet active
	require.False(t, c.IRQ.IME)

	c.Step() // the instruction right after EI still runs before IME takes effect
	require.True(t, c.IRQ.IME)
	require.Equal(t, uint16(0xC002), c.PC)
}

func TestHaltBugArmsWhenHaltFollowsEI(t *testing.T) {
	c := newTestCPU()
	c.IRQ.Enable = interrupts.VBlankFlag
	c.IRQ.Flag = interrupts.VBlankFlag // pending and enabled, so HALT would normally arm the bug
	load(c, 0xFB)                      // EI

	c.Step() // EI: mode becomes ModeEnableIME, IME still false
	require.Equal(t, ModeEnableIME, c.mode)
	require.False(t, c.IRQ.IME)

	// HALT is the instruction right after EI, so it must still see IME
	// false here. If IME had already been set true (the ordering this
	// case guards against), enterHalt would pick ModeHalt instead.
	c.enterHalt()
	require.Equal(t, ModeHaltBug, c.mode)
}
