// Package cartridge provides a Cartridge interface for the DMG.
// The cartridge holds the game ROM and any external RAM, and is
// responsible for bank switching.
package cartridge

import (
	"fmt"

	"github.com/rookgb/dmgboy/internal/types"
)

// Cartridge represents a game cartridge. Implementations decode
// addresses in the ROM (0x0000-0x7FFF) and external RAM
// (0xA000-0xBFFF) windows according to the cartridge's mapper.
type Cartridge interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)

	Header() Header
	Title() string

	types.Stater
}

// baseCartridge is used for cartridges with no memory bank
// controller: a single fixed ROM and no external RAM.
type baseCartridge struct {
	rom    []byte
	header Header
}

func (c *baseCartridge) Header() Header {
	return c.header
}

// Title returns the cartridge title as stored in the header.
func (c *baseCartridge) Title() string {
	return c.header.Title
}

func (c *baseCartridge) Read(address uint16) uint8 {
	if int(address) >= len(c.rom) {
		return 0xFF
	}
	return c.rom[address]
}

func (c *baseCartridge) Write(address uint16, value uint8) {}

func (c *baseCartridge) Load(s *types.State) {}
func (c *baseCartridge) Save(s *types.State) {}

// NewCartridge parses the header at 0x0100-0x014F and returns the
// Cartridge implementation appropriate for the header's cartridge
// type. Only ROM-only and MBC1 cartridges (with or without RAM/
// battery) are supported; any other mapper panics naming the
// unsupported type byte.
func NewCartridge(rom []byte) Cartridge {
	if len(rom) < 0x150 {
		panic(fmt.Sprintf("cartridge: ROM too small to contain a header (%d bytes)", len(rom)))
	}

	header := parseHeader(rom[0x100:0x150])

	switch header.CartridgeType {
	case ROM:
		return &baseCartridge{
			rom:    rom,
			header: header,
		}
	case MBC1, MBC1RAM, MBC1RAMBATT:
		return NewMemoryBankedCartridge1(rom, &header)
	}

	panic(fmt.Sprintf("cartridge: unsupported cartridge type %#02x (%v)", uint8(header.CartridgeType), header.CartridgeType))
}

// NewEmptyCartridge returns an empty cartridge, useful for components
// that require a Cartridge but don't exercise cartridge behaviour.
func NewEmptyCartridge() Cartridge {
	return &baseCartridge{
		rom:    []byte{},
		header: Header{},
	}
}
