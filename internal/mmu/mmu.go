// Package mmu provides a memory management unit for the Game Boy. The
// MMU is unaware of the other components, and handles all the memory
// reads and writes via the IOBus interface.
package mmu

import (
	"github.com/rookgb/dmgboy/internal/cartridge"
	"github.com/rookgb/dmgboy/internal/ram"
	"github.com/rookgb/dmgboy/internal/types"
	"github.com/rookgb/dmgboy/pkg/log"
)

// IOBus is the interface that the MMU uses to communicate with the other
// components.
type IOBus interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)
}

// dmaStater reports whether an OAM DMA transfer is in progress,
// during which non-HRAM reads are blocked. It is a small,
// locally-defined interface rather than a direct import of ppu.DMA,
// so that mmu does not need to depend on ppu.
type dmaStater interface {
	IsTransferring() bool
}

// MMU is the memory management unit for the Game Boy. It handles all
// memory reads and writes to the Game Boy's 64kB of memory, and
// delegates to the other components through the IOBus interface.
type MMU struct {
	// 64kB address space
	raw [65536]*types.Address

	// 0x0000 - 0x7FFF - ROM (32kB)
	// 0xA000 - 0xBFFF - External RAM (8kB)
	Cart cartridge.Cartridge

	// 0x8000 - 0x9FFF - Video RAM (8kB)
	// 0xFE00 - 0xFE9F - Sprite Attribute Table (160B)
	Video IOBus

	// 0xC000 - 0xDFFF - Work RAM (8kB)
	// 0xE000 - 0xFDFF - Echo RAM (7.5kB)
	wRAM *WRAM

	// 0xFF00 - 0xFF7F - I/O Registers, 0xFFFF - interrupt enable
	registers types.HardwareRegisters

	// 0xFF80 - 0xFFFE - Zero Page RAM (127B)
	zRAM *ram.RAM

	Log log.Logger

	dma dmaStater
}

func (m *MMU) init() {
	addresses := []types.Address{
		{Read: m.Cart.Read, Write: m.Cart.Write},
		{Read: m.wRAM.Read, Write: m.wRAM.Write},
		{Read: readOffset(m.zRAM.Read, 0xFF80), Write: writeOffset(m.zRAM.Write, 0xFF80)},
		{Read: func(address uint16) uint8 {
			return 0xff
		}},
	}

	// 0x0000 - 0x7FFF - ROM (32kB)
	for i := 0x0000; i < 0x8000; i++ {
		m.raw[i] = &addresses[0]
	}

	// 0xA000 - 0xBFFF - external RAM (8kB)
	for i := 0xA000; i < 0xC000; i++ {
		m.raw[i] = &addresses[0]
	}

	// 0xC000 - 0xDFFF - internal RAM (8kB), mirrored at 0xE000-0xFDFF
	for i := 0xC000; i < 0xFE00; i++ {
		m.raw[i] = &addresses[1]
	}

	// 0xFEA0 - 0xFEFF - unusable memory (96B)
	for i := 0xFEA0; i < 0xFF00; i++ {
		m.raw[i] = &addresses[3]
	}

	// 0xFF80 - 0xFFFE - Zero Page RAM (127B)
	for i := 0xFF80; i < 0xFFFF; i++ {
		m.raw[i] = &addresses[2]
	}
}

func readOffset(read func(uint16) uint8, offset uint16) func(uint16) uint8 {
	return func(addr uint16) uint8 {
		return read(addr - offset)
	}
}

func writeOffset(write func(uint16, uint8), offset uint16) func(uint16, uint8) {
	return func(addr uint16, v uint8) {
		write(addr-offset, v)
	}
}

// NewMMU returns a new MMU.
func NewMMU(cart cartridge.Cartridge, logger log.Logger) *MMU {
	if logger == nil {
		logger = log.NewNullLogger()
	}
	m := &MMU{
		Cart: cart,
		wRAM: NewWRAM(),
		zRAM: ram.NewRAM(0x80), // 128 bytes
		Log:  logger,
	}

	m.init()

	// BDIS (0xFF50) disables the boot ROM overlay on real hardware.
	// This core never maps a boot ROM in the first place, so the
	// write has nothing to do; the register just needs to decode
	// without panicking, since some cartridges write to it out of
	// habit.
	types.RegisterHardware(types.BDIS,
		func(uint8) {},
		func() uint8 { return 0xFF },
	)

	return m
}

// AttachVideo attaches the video component to the MMU.
func (m *MMU) AttachVideo(video IOBus) {
	m.Video = video

	// collect hardware registers registered by the other components
	// (timer, interrupts, joypad, serial, lcd, dma) during their own
	// construction.
	m.registers = types.CollectHardwareRegisters()

	videoAddress := &types.Address{Read: m.Video.Read, Write: m.Video.Write}
	registerAddress := &types.Address{Read: m.registers.Read, Write: m.registers.Write}

	// 0xFF00 - 0xFF7F - I/O (128B)
	for i := 0xFF00; i < 0xFF80; i++ {
		m.raw[i] = registerAddress
	}
	// 0xFFFF - interrupt enable register
	m.raw[0xFFFF] = registerAddress

	// 0x8000 - 0x9FFF - VRAM (8kB)
	for i := 0x8000; i < 0xA000; i++ {
		m.raw[i] = videoAddress
	}

	// 0xFE00 - 0xFE9F - sprite attribute table (OAM) (160B)
	for i := 0xFE00; i < 0xFEA0; i++ {
		m.raw[i] = videoAddress
	}
}

// AttachDMA records the DMA unit so that reads can be blocked while
// an OAM DMA transfer is in progress.
func (m *MMU) AttachDMA(d dmaStater) {
	m.dma = d
}

// SetCartridge swaps in a new cartridge and rebuilds the ROM/RAM
// address ranges to dispatch to it. It must rebuild rather than just
// assign m.Cart, because the address table holds bound method values
// captured at init() time, not a reference to the Cart field itself.
func (m *MMU) SetCartridge(cart cartridge.Cartridge) {
	m.Cart = cart
	m.init()
}

// Read returns the value at the given address. While an OAM DMA
// transfer is active, only the high RAM range (0xFF80-0xFFFE) is
// accessible to the CPU; everything else reads back as 0xFF.
func (m *MMU) Read(address uint16) uint8 {
	if m.dma != nil && m.dma.IsTransferring() && address < 0xFF80 {
		return 0xFF
	}
	return m.raw[address].Read(address)
}

// Write sets the value at the given address. While an OAM DMA
// transfer is active, only the high RAM range (0xFF80-0xFFFE) is
// writable by the CPU; everything else is discarded, matching Read's
// garbage-value behavior for the same window.
func (m *MMU) Write(address uint16, value uint8) {
	if m.dma != nil && m.dma.IsTransferring() && address < 0xFF80 {
		return
	}
	m.raw[address].Write(address, value)
}
