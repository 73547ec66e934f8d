// Package gameboy wires the cartridge, CPU, MMU, PPU, timer, serial
// and joypad together into a complete Game Boy machine and exposes
// the load/run surface a host (a CLI, a test harness, a debugger)
// drives it through.
package gameboy

import (
	"fmt"

	"github.com/rookgb/dmgboy/internal/cartridge"
	"github.com/rookgb/dmgboy/internal/cpu"
	"github.com/rookgb/dmgboy/internal/interrupts"
	"github.com/rookgb/dmgboy/internal/joypad"
	"github.com/rookgb/dmgboy/internal/mmu"
	"github.com/rookgb/dmgboy/internal/ppu"
	"github.com/rookgb/dmgboy/internal/serial"
	"github.com/rookgb/dmgboy/internal/timer"
	"github.com/rookgb/dmgboy/internal/types"
	"github.com/rookgb/dmgboy/pkg/log"
)

// CyclesPerFrame is the number of T-cycles the PPU takes to produce a
// full 154-line frame: 70224 = 4194304 Hz / ~59.7 fps.
const CyclesPerFrame = 70224

// GameBoy is a complete, self-contained Game Boy machine. A zero
// GameBoy is not usable; construct one with New, then load a
// cartridge with LoadCartridge before stepping it.
type GameBoy struct {
	CPU        *cpu.CPU
	MMU        *mmu.MMU
	PPU        *ppu.PPU
	DMA        *ppu.DMA
	Joypad     *joypad.State
	Interrupts *interrupts.Service
	Timer      *timer.Controller
	Serial     *serial.Controller

	Log log.Logger
}

// Opt configures a GameBoy at construction time.
type Opt func(gb *GameBoy)

// WithDebug enables the CPU's LD B,B debug breakpoint.
func WithDebug() Opt {
	return func(gb *GameBoy) {
		gb.CPU.Debug = true
	}
}

// WithLogger overrides the default null logger.
func WithLogger(logger log.Logger) Opt {
	return func(gb *GameBoy) {
		gb.Log = logger
		gb.MMU.Log = logger
	}
}

// WithSerialObserver calls f with every byte written to the serial
// data register (SB), in write order. Test ROMs from the suites this
// core targets report their result this way, one character at a
// time, without needing a second Game Boy or any real link cable.
func WithSerialObserver(f func(byte)) Opt {
	return func(gb *GameBoy) {
		gb.Serial.SetWriteObserver(f)
	}
}

// New constructs a machine with no cartridge loaded; call
// LoadCartridge before stepping it.
func New(opts ...Opt) *GameBoy {
	irq := interrupts.NewService()
	pad := joypad.New(irq)
	serialCtl := serial.NewController(irq)
	timerCtl := timer.NewController(irq)
	video := ppu.NewPPU(irq)

	memBus := mmu.NewMMU(cartridge.NewEmptyCartridge(), nil)

	// the DMA unit registers FF46 on construction, so it must exist
	// before AttachVideo collects the hardware register table.
	dma := ppu.NewDMA(video)
	dma.SetSource(memBus.Read)
	memBus.AttachVideo(video)
	memBus.AttachDMA(dma)

	gb := &GameBoy{
		CPU:        cpu.NewCPU(memBus, irq, dma, timerCtl, video, serialCtl),
		MMU:        memBus,
		PPU:        video,
		DMA:        dma,
		Joypad:     pad,
		Interrupts: irq,
		Timer:      timerCtl,
		Serial:     serialCtl,
		Log:        log.NewNullLogger(),
	}

	for _, opt := range opts {
		opt(gb)
	}

	return gb
}

// LoadCartridge parses rom's header, selects the matching cartridge
// implementation, swaps it into the bus and resets every component to
// the register state a real DMG has immediately after its boot ROM
// hands control to the cartridge at 0x0100. Header parsing and mapper
// selection are fatal on rejection; that failure is reported here as
// an error rather than a panic, since it is a load-time concern, not
// a runtime one.
func (gb *GameBoy) LoadCartridge(rom []byte) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("gameboy: load cartridge: %v", r)
		}
	}()

	cart := cartridge.NewCartridge(rom)
	gb.MMU.SetCartridge(cart)
	gb.reset()

	return nil
}

// reset puts every register into the state a real DMG has right after
// the boot ROM jumps to 0x0100, per pandocs.
func (gb *GameBoy) reset() {
	gb.CPU.Reset()

	gb.MMU.Write(types.P1, 0xCF)
	gb.MMU.Write(types.SC, 0x7E)
	gb.MMU.Write(types.TAC, 0xF8)
	gb.MMU.Write(types.IF, 0xE1)
	gb.MMU.Write(types.LCDC, 0x91)
	gb.MMU.Write(types.STAT, 0x85)
	gb.MMU.Write(types.BGP, 0xFC)
	gb.MMU.Write(types.IE, 0x00)
}

// StepFrame advances the machine until the PPU enters VBlank for a
// new frame and returns that frame's framebuffer. Each pixel is the
// raw 2-bit post-palette color index described in the Game Boy's
// video RAM; callers that want to display it map 0..3 to colors
// themselves.
func (gb *GameBoy) StepFrame() *[ppu.ScreenHeight][ppu.ScreenWidth]uint8 {
	for !gb.PPU.HasFrame() {
		gb.CPU.Step()
	}
	return &gb.PPU.Frame
}

// SetButtons replaces the joypad state with an 8-bit mask, one bit
// per joypad.Button.
func (gb *GameBoy) SetButtons(mask uint8) {
	gb.Joypad.SetButtons(mask)
}

// Step advances the machine by a single CPU instruction (or a single
// idle tick, while halted) and returns the number of T-cycles spent.
// StepFrame is the usual entry point; Step exists for debuggers and
// tests that need single-instruction granularity.
func (gb *GameBoy) Step() uint8 {
	return gb.CPU.Step()
}

var _ types.Stater = (*GameBoy)(nil)

// Load restores a full machine snapshot, in the same order Save wrote
// it: cartridge, CPU (which itself restores interrupts), timer, PPU,
// DMA, serial and joypad.
func (gb *GameBoy) Load(s *types.State) {
	gb.MMU.Cart.Load(s)
	gb.CPU.Load(s)
	gb.Timer.Load(s)
	gb.PPU.Load(s)
	gb.DMA.Load(s)
	gb.Serial.Load(s)
	gb.Joypad.Load(s)
}

func (gb *GameBoy) Save(s *types.State) {
	gb.MMU.Cart.Save(s)
	gb.CPU.Save(s)
	gb.Timer.Save(s)
	gb.PPU.Save(s)
	gb.DMA.Save(s)
	gb.Serial.Save(s)
	gb.Joypad.Save(s)
}
