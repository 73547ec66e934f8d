package gameboy

import (
	"testing"

	"github.com/rookgb/dmgboy/internal/cartridge"
	"github.com/rookgb/dmgboy/internal/joypad"
	"github.com/stretchr/testify/require"
)

// blankROM returns a minimal ROM-only cartridge image: just large
// enough to hold a header, with the cartridge type byte at 0x147
// set to ROM (no MBC) and every instruction byte left as 0x00 (NOP).
func blankROM(size int) []byte {
	rom := make([]byte, size)
	rom[0x147] = byte(cartridge.ROM)
	return rom
}

func TestLoadCartridgeResetsRegisters(t *testing.T) {
	gb := New()
	require.NoError(t, gb.LoadCartridge(blankROM(0x8000)))

	require.Equal(t, uint16(0x0100), gb.CPU.PC)
	require.Equal(t, uint16(0xFFFE), gb.CPU.SP)
	require.Equal(t, uint8(0x91), gb.MMU.Read(0xFF40)) // LCDC
}

func TestLoadCartridgeRejectsTooSmallROM(t *testing.T) {
	gb := New()
	err := gb.LoadCartridge([]byte{0x00, 0x01, 0x02})
	require.Error(t, err)
}

func TestStepFrameAdvancesPastVBlank(t *testing.T) {
	gb := New()
	require.NoError(t, gb.LoadCartridge(blankROM(0x8000)))

	frame := gb.StepFrame()
	require.NotNil(t, frame)
}

func TestSetButtonsRequestsJoypadInterrupt(t *testing.T) {
	gb := New()
	require.NoError(t, gb.LoadCartridge(blankROM(0x8000)))
	gb.Interrupts.Flag = 0

	gb.SetButtons(1 << joypad.ButtonA)

	require.NotZero(t, gb.Interrupts.Flag&0x10)
}

func TestSetCartridgeSwapsDispatch(t *testing.T) {
	gb := New()
	first := blankROM(0x8000)
	first[0x150] = 0xAA
	require.NoError(t, gb.LoadCartridge(first))
	require.Equal(t, uint8(0xAA), gb.MMU.Read(0x150))

	second := blankROM(0x8000)
	second[0x150] = 0xBB
	require.NoError(t, gb.LoadCartridge(second))
	require.Equal(t, uint8(0xBB), gb.MMU.Read(0x150))
}
