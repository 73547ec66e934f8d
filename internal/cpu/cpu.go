package cpu

import (
	"fmt"

	"github.com/rookgb/dmgboy/internal/interrupts"
	"github.com/rookgb/dmgboy/internal/mmu"
	"github.com/rookgb/dmgboy/internal/ppu"
	"github.com/rookgb/dmgboy/internal/serial"
	"github.com/rookgb/dmgboy/internal/timer"
	"github.com/rookgb/dmgboy/internal/types"
)

const (
	// ClockSpeed is the clock speed of the CPU, in T-cycles per second.
	ClockSpeed = 4194304
)

type mode = uint8

const (
	// ModeNormal is the normal CPU mode: fetch, decode and execute.
	ModeNormal mode = iota
	// ModeHalt is entered by the HALT instruction. The CPU idles,
	// ticking components, until a pending interrupt wakes it.
	ModeHalt
	// ModeHaltBug reproduces the hardware bug where HALT executed
	// with IME disabled and a pending interrupt causes the byte
	// after HALT to be fetched twice.
	ModeHaltBug
	// ModeEnableIME is entered after EI, to delay IME becoming
	// active until after the instruction following EI has run.
	ModeEnableIME
)

// CPU represents the Gameboy CPU. It is responsible for executing instructions.
type CPU struct {
	// PC is the program counter, it points to the next instruction to be executed.
	PC uint16
	// SP is the stack pointer, it points to the top of the stack.
	SP uint16
	// Registers contains the 8-bit registers, as well as the 16-bit register pairs.
	Registers

	mmu *mmu.MMU
	IRQ *interrupts.Service

	Debug           bool
	DebugBreakpoint bool

	// components that need to be ticked once per T-cycle
	dma    *ppu.DMA
	timer  *timer.Controller
	ppu    *ppu.PPU
	serial *serial.Controller

	currentTick uint8
	mode        mode
	stopped     bool
}

// NewCPU creates a new CPU instance with the given MMU.
// The MMU is used to read and write to the memory.
func NewCPU(mmu *mmu.MMU, irq *interrupts.Service, dma *ppu.DMA, timer *timer.Controller, ppu *ppu.PPU, serial *serial.Controller) *CPU {
	c := &CPU{
		Registers: Registers{},
		mmu:       mmu,
		IRQ:       irq,
		dma:       dma,
		timer:     timer,
		ppu:       ppu,
		serial:    serial,
	}
	// create register pairs
	c.BC = &RegisterPair{&c.B, &c.C}
	c.DE = &RegisterPair{&c.D, &c.E}
	c.HL = &RegisterPair{&c.H, &c.L}
	c.AF = &RegisterPair{&c.A, &c.F}

	return c
}

// Reset sets the registers to the values a real DMG has right after
// its boot ROM hands control to the cartridge at 0x0100.
func (c *CPU) Reset() {
	c.A, c.F = 0x01, 0xB0
	c.B, c.C = 0x00, 0x13
	c.D, c.E = 0x00, 0xD8
	c.H, c.L = 0x01, 0x4D
	c.SP = 0xFFFE
	c.PC = 0x0100
	c.mode = ModeNormal
	c.stopped = false
	c.IRQ.IME = false
}

// registerIndex returns a Register pointer for the given index.
func (c *CPU) registerIndex(index uint8) *Register {
	switch index {
	case 0:
		return &c.B
	case 1:
		return &c.C
	case 2:
		return &c.D
	case 3:
		return &c.E
	case 4:
		return &c.H
	case 5:
		return &c.L
	case 7:
		return &c.A
	}
	panic(fmt.Sprintf("invalid register index: %d", index))
}

// registerName returns the name of a Register.
func (c *CPU) registerName(reg *Register) string {
	switch reg {
	case &c.A:
		return "A"
	case &c.B:
		return "B"
	case &c.C:
		return "C"
	case &c.D:
		return "D"
	case &c.E:
		return "E"
	case &c.H:
		return "H"
	case &c.L:
		return "L"
	}
	return ""
}

// Step executes a single instruction (or idles for one machine cycle
// while halted) and returns the number of T-cycles elapsed. STOP does
// not idle the CPU; it runs as a two-byte no-op.
func (c *CPU) Step() uint8 {
	// reset tick counter
	c.currentTick = 0

	reqInt := false
	switch c.mode {
	case ModeNormal:
		c.runInstruction(c.readInstruction())
		reqInt = c.IRQ.IME && c.hasInterrupts()
	case ModeHalt:
		// the CPU ticks, but does not fetch, while halted. IME is
		// ignored here so a pending-but-disabled interrupt can
		// still wake the CPU.
		c.tickCycle()
		if c.hasInterrupts() {
			c.mode = ModeNormal
			reqInt = c.IRQ.IME && c.hasInterrupts()
		}
	case ModeEnableIME:
		// the instruction right after EI still runs with IME off;
		// IME only takes effect once that instruction has completed.
		c.mode = ModeNormal
		c.runInstruction(c.readInstruction())
		c.IRQ.IME = true
		reqInt = c.IRQ.IME && c.hasInterrupts()
	case ModeHaltBug:
		instr := c.readInstruction()
		c.PC--
		c.mode = ModeNormal
		c.runInstruction(instr)
		reqInt = c.IRQ.IME && c.hasInterrupts()
	}

	if reqInt {
		c.executeInterrupt()
	}

	return c.currentTick
}

func (c *CPU) hasInterrupts() bool {
	return c.IRQ.Enable&c.IRQ.Flag != 0
}

// readInstruction reads the next instruction from memory.
func (c *CPU) readInstruction() uint8 {
	c.tickCycle()
	value := c.mmu.Read(c.PC)
	c.PC++
	return value
}

// readOperand reads the next operand from memory. The same as
// readInstruction, but will allow future optimizations.
func (c *CPU) readOperand() uint8 {
	c.tickCycle()
	value := c.mmu.Read(c.PC)
	c.PC++
	return value
}

func (c *CPU) skipOperand() {
	c.tickCycle()
	c.PC++
}

// readByte reads a byte from memory.
func (c *CPU) readByte(addr uint16) uint8 {
	c.tickCycle()
	return c.mmu.Read(addr)
}

// writeByte writes the given value to the given address.
func (c *CPU) writeByte(addr uint16, val uint8) {
	c.tickCycle()
	c.mmu.Write(addr, val)
}

func (c *CPU) runInstruction(opcode uint8) {
	if c.Debug && opcode == 0x40 { // LD B, B
		c.DebugBreakpoint = true
	}
	c.decode(opcode)
}

func (c *CPU) executeInterrupt() {
	if c.IRQ.IME {
		// save the high byte of the PC
		c.SP--
		c.writeByte(c.SP, uint8(c.PC>>8))

		vector := c.IRQ.Vector()

		// save the low byte of the PC
		c.SP--
		c.writeByte(c.SP, uint8(c.PC&0xFF))

		// jump to the interrupt vector and disable IME
		c.PC = vector
		c.IRQ.IME = false

		// dispatch takes 5 M-cycles total; 2 were spent on the pushes above
		c.tickCycle()
		c.tickCycle()
		c.tickCycle()
	}

	c.mode = ModeNormal
}

// tick the various components of the CPU by one T-cycle.
func (c *CPU) tick() {
	c.dma.Tick()
	c.timer.Tick()
	c.serial.Tick(c.timer.Div())
	c.ppu.Tick()
	c.currentTick++
}

// tickCycle ticks the components by one M-cycle (4 T-cycles).
func (c *CPU) tickCycle() {
	c.tick()
	c.tick()
	c.tick()
	c.tick()
}

// shouldZeroFlag sets FlagZero if the given value is 0.
func (c *CPU) shouldZeroFlag(value uint8) {
	if value == 0 {
		c.setFlag(FlagZero)
	} else {
		c.clearFlag(FlagZero)
	}
}

var _ types.Stater = (*CPU)(nil)

func (c *CPU) Load(s *types.State) {
	c.A = s.Read8()
	c.F = s.Read8()
	c.B = s.Read8()
	c.C = s.Read8()
	c.D = s.Read8()
	c.E = s.Read8()
	c.H = s.Read8()
	c.L = s.Read8()
	c.SP = s.Read16()
	c.PC = s.Read16()
	c.mode = s.Read8()
	c.stopped = s.ReadBool()
	c.IRQ.Load(s)
}

func (c *CPU) Save(s *types.State) {
	s.Write8(c.A)
	s.Write8(c.F)
	s.Write8(c.B)
	s.Write8(c.C)
	s.Write8(c.D)
	s.Write8(c.E)
	s.Write8(c.H)
	s.Write8(c.L)
	s.Write16(c.SP)
	s.Write16(c.PC)
	s.Write8(c.mode)
	s.WriteBool(c.stopped)
	c.IRQ.Save(s)
}
