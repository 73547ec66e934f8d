package ppu

import (
	"testing"

	"github.com/rookgb/dmgboy/internal/interrupts"
	"github.com/rookgb/dmgboy/internal/ppu/lcd"
	"github.com/stretchr/testify/require"
)

func TestOAMBlockedDuringOAMAndVRAMModes(t *testing.T) {
	p := NewPPU(interrupts.NewService())
	p.STAT.SetMode(lcd.HBlank)
	p.Write(0xFE00, 0x11)
	require.Equal(t, uint8(0x11), p.Read(0xFE00))

	p.STAT.SetMode(lcd.OAM)
	require.Equal(t, uint8(0xFF), p.Read(0xFE00))
	p.Write(0xFE00, 0x99)

	p.STAT.SetMode(lcd.VRAM)
	require.Equal(t, uint8(0xFF), p.Read(0xFE00))
	p.Write(0xFE00, 0x77)

	p.STAT.SetMode(lcd.HBlank)
	require.Equal(t, uint8(0x11), p.Read(0xFE00)) // writes during OAM/VRAM modes were ignored
}

func TestVRAMBlockedDuringVRAMModeOnly(t *testing.T) {
	p := NewPPU(interrupts.NewService())
	p.STAT.SetMode(lcd.HBlank)
	p.Write(0x8000, 0x22)
	require.Equal(t, uint8(0x22), p.Read(0x8000))

	p.STAT.SetMode(lcd.OAM)
	require.Equal(t, uint8(0x22), p.Read(0x8000)) // VRAM is readable during mode 2

	p.STAT.SetMode(lcd.VRAM)
	require.Equal(t, uint8(0xFF), p.Read(0x8000))
	p.Write(0x8000, 0x88)

	p.STAT.SetMode(lcd.HBlank)
	require.Equal(t, uint8(0x22), p.Read(0x8000)) // write during mode 3 was ignored
}

func TestAccessNotBlockedWhenLCDOff(t *testing.T) {
	p := NewPPU(interrupts.NewService())
	p.LCDC.Enabled = false
	p.STAT.SetMode(lcd.VRAM)

	p.Write(0x8000, 0x42)
	require.Equal(t, uint8(0x42), p.Read(0x8000))
}

func TestLCDOffClearsFramebuffer(t *testing.T) {
	p := NewPPU(interrupts.NewService())
	p.Frame[0][0] = 3
	p.Frame[ScreenHeight-1][ScreenWidth-1] = 2

	p.LCDC.Enabled = false
	p.Tick()

	require.Equal(t, uint8(0), p.Frame[0][0])
	require.Equal(t, uint8(0), p.Frame[ScreenHeight-1][ScreenWidth-1])
}
