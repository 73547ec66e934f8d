package cartridge

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// mbc1ROM builds a minimal MBC1 ROM image of the given size (a
// multiple of 0x4000), with a distinct marker byte at the start of
// bank 0 and at the start of bank 1, so a test can tell which bank
// Read(0x4000) is actually dispatching to.
func mbc1ROM(size int) []byte {
	rom := make([]byte, size)
	rom[0x147] = byte(MBC1)
	rom[0x0000] = 0x11 // bank 0 marker, always fixed at 0x0000-0x3FFF
	rom[0x4000] = 0xAA // bank 1 marker
	return rom
}

func TestMBC1SelectingBankZeroAliasesToBankOne(t *testing.T) {
	cart := NewCartridge(mbc1ROM(0x10000)) // 4 banks

	cart.Write(0x2000, 0x00) // ROM bank number register, lower 5 bits

	require.Equal(t, uint8(0xAA), cart.Read(0x4000))
}

func TestMBC1Bank0RegionIsAlwaysFixed(t *testing.T) {
	cart := NewCartridge(mbc1ROM(0x10000))

	cart.Write(0x2000, 0x03) // select bank 3, well away from bank 0

	require.Equal(t, uint8(0x11), cart.Read(0x0000)) // 0x0000-0x3FFF never banks
}

func TestMBC1RAMDisabledByDefault(t *testing.T) {
	header := Header{RAMSize: 8 * 1024}
	cart := NewMemoryBankedCartridge1(mbc1ROM(0x8000), &header)

	require.Equal(t, uint8(0xFF), cart.Read(0xA000))

	cart.Write(0x0000, 0x0A) // RAM enable latch
	cart.Write(0xA000, 0x55)

	require.Equal(t, uint8(0x55), cart.Read(0xA000))
}
