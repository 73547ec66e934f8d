package cartridge

import (
	"github.com/rookgb/dmgboy/internal/types"
)

// MemoryBankedCartridge1 represents an MBC1 cartridge. This mapper
// has external RAM and supports switching between up to 125 ROM
// banks and 4 RAM banks, selected by a shared mode bit.
type MemoryBankedCartridge1 struct {
	rom     []byte
	romBank uint32

	ram        []byte
	ramBank    uint32
	ramEnabled bool

	romBanking bool

	header *Header
}

// NewMemoryBankedCartridge1 returns a new MemoryBankedCartridge1 cartridge.
func NewMemoryBankedCartridge1(rom []byte, header *Header) *MemoryBankedCartridge1 {
	return &MemoryBankedCartridge1{
		rom:        rom,
		romBank:    1,
		ram:        make([]byte, header.RAMSize),
		romBanking: true,
		header:     header,
	}
}

func (m *MemoryBankedCartridge1) Header() Header {
	return *m.header
}

func (m *MemoryBankedCartridge1) Title() string {
	return m.header.Title
}

// Read returns the value from the cartridge's ROM or RAM, depending
// on the bank currently selected.
func (m *MemoryBankedCartridge1) Read(address uint16) uint8 {
	switch {
	case address < 0x4000:
		return m.rom[address] // bank 0 is always fixed
	case address < 0x8000:
		offset := uint32(address-0x4000) + m.romBank*0x4000
		if int(offset) >= len(m.rom) {
			return 0xFF
		}
		return m.rom[offset]
	case address >= 0xA000 && address < 0xC000:
		if !m.ramEnabled || len(m.ram) == 0 {
			return 0xFF
		}
		offset := uint32(address-0xA000) + m.ramBank*0x2000
		if int(offset) >= len(m.ram) {
			return 0xFF
		}
		return m.ram[offset]
	}

	return 0xFF
}

// Write attempts to switch the ROM or RAM bank, or latch the RAM
// enable gate. Writes to addresses outside the mapper's registers
// and the RAM window are simply ignored, matching real MBC1
// hardware: a cartridge is never bricked by a stray write.
func (m *MemoryBankedCartridge1) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		// RAM enable/disable latch. The low nibble must equal 0xA;
		// any other value disables RAM access.
		m.ramEnabled = value&0x0F == 0x0A
	case address < 0x4000:
		// ROM bank number (lower 5 bits)
		m.romBank = (m.romBank & 0x60) | uint32(value&0x1F)
		m.updateRomBank()
	case address < 0x6000:
		if m.romBanking {
			m.romBank = (m.romBank & 0x1F) | (uint32(value&0x03) << 5)
			m.updateRomBank()
		} else {
			m.ramBank = uint32(value) & 0x03
			if len(m.ram) == 0 {
				m.ramBank = 0
			} else if m.ramBank*0x2000 >= uint32(len(m.ram)) {
				m.ramBank %= uint32(len(m.ram)) / 0x2000
			}
		}
	case address < 0x8000:
		// ROM/RAM banking mode select. 0 = ROM banking mode
		// (default), 1 = RAM banking mode.
		m.romBanking = value&0x1 == 0x00
	case address >= 0xA000 && address < 0xC000:
		if m.ramEnabled && len(m.ram) > 0 {
			offset := uint32(address-0xA000) + m.ramBank*0x2000
			if int(offset) < len(m.ram) {
				m.ram[offset] = value
			}
		}
	}
}

// updateRomBank clamps the selected ROM bank to the cartridge's
// actual size, and applies the bank-0-alias quirk: selecting bank
// 0x00, 0x20, 0x40 or 0x60 actually selects the following bank.
func (m *MemoryBankedCartridge1) updateRomBank() {
	banks := uint32(len(m.rom) / 0x4000)
	if banks > 0 {
		m.romBank %= banks
	}
	if m.romBank == 0x00 || m.romBank == 0x20 || m.romBank == 0x40 || m.romBank == 0x60 {
		m.romBank++
	}
}

var _ types.Stater = (*MemoryBankedCartridge1)(nil)

// Load restores the cartridge's bank selection and external RAM from
// a saved state, in the order Save wrote them.
func (m *MemoryBankedCartridge1) Load(s *types.State) {
	m.ramEnabled = s.ReadBool()
	m.romBank = s.Read32()
	m.ramBank = s.Read32()
	m.romBanking = s.ReadBool()
	s.ReadData(m.ram)
}

// Save persists the cartridge's bank selection and external RAM.
func (m *MemoryBankedCartridge1) Save(s *types.State) {
	s.WriteBool(m.ramEnabled)
	s.Write32(m.romBank)
	s.Write32(m.ramBank)
	s.WriteBool(m.romBanking)
	s.WriteData(m.ram)
}
