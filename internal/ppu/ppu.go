// Package ppu implements the Game Boy's picture processing unit: a
// scanline-at-a-time renderer driven one dot (T-cycle) at a time by
// the CPU, rather than a pixel-exact FIFO. This is accurate enough
// to satisfy the mode-timing and priority rules software actually
// depends on, without modelling the FIFO's internal fetcher states.
package ppu

import (
	"github.com/rookgb/dmgboy/internal/interrupts"
	"github.com/rookgb/dmgboy/internal/ppu/lcd"
	"github.com/rookgb/dmgboy/internal/types"
)

const (
	// ScreenWidth is the width of the Game Boy's screen, in pixels.
	ScreenWidth = 160
	// ScreenHeight is the height of the Game Boy's screen, in pixels.
	ScreenHeight = 144

	dotsPerLine  = 456
	linesPerFrame = 154

	oamScanDots = 80
	drawingDots = 172
	// hblankStartDot is the dot, within a visible line, at which mode 3
	// (drawing) ends and mode 0 (HBlank) begins.
	hblankStartDot = oamScanDots + drawingDots
)

// spriteEntry is a sprite selected for the current scanline during
// OAM scan, along with its OAM index (used to break X-coordinate
// ties in favour of the earlier entry, as on real hardware).
type spriteEntry struct {
	index       int
	x, y        uint8
	tile        uint8
	attr        uint8
}

// PPU renders the background, window and sprite layers into a
// framebuffer of raw, post-palette 2-bit colour indices (0-3); the
// mapping from those indices to a displayable colour is left to the
// host.
type PPU struct {
	LCDC *lcd.Controller
	STAT *lcd.Status

	SCY, SCX uint8
	LY, LYC  uint8
	BGP      uint8
	OBP0     uint8
	OBP1     uint8
	WY, WX   uint8

	vram [0x2000]uint8
	oam  [160]uint8

	dot uint16

	windowLine      uint8
	windowTriggered bool
	lcdEnabledPrev  bool

	statLine bool

	lineSprites []spriteEntry
	bgRaw       [ScreenWidth]uint8 // raw (pre-palette) bg/window colour numbers, for sprite priority

	Frame      [ScreenHeight][ScreenWidth]uint8
	frameReady bool

	irq *interrupts.Service
}

// NewPPU returns a new PPU.
func NewPPU(irq *interrupts.Service) *PPU {
	p := &PPU{
		LCDC:           lcd.NewController(),
		STAT:           lcd.NewStatus(),
		irq:            irq,
		lcdEnabledPrev: true,
	}
	p.lineSprites = make([]spriteEntry, 0, 10)

	types.RegisterHardware(types.LCDC, func(v uint8) { p.LCDC.Write(uint16(types.LCDC), v) }, func() uint8 { return p.LCDC.Read(uint16(types.LCDC)) })
	types.RegisterHardware(types.STAT, func(v uint8) { p.STAT.Write(uint16(types.STAT), v) }, func() uint8 { return p.STAT.Read(uint16(types.STAT)) })
	types.RegisterHardware(types.SCY, func(v uint8) { p.SCY = v }, func() uint8 { return p.SCY })
	types.RegisterHardware(types.SCX, func(v uint8) { p.SCX = v }, func() uint8 { return p.SCX })
	types.RegisterHardware(types.LY, types.NoWrite, func() uint8 { return p.LY })
	types.RegisterHardware(types.LYC, func(v uint8) { p.LYC = v }, func() uint8 { return p.LYC })
	types.RegisterHardware(types.BGP, func(v uint8) { p.BGP = v }, func() uint8 { return p.BGP })
	types.RegisterHardware(types.OBP0, func(v uint8) { p.OBP0 = v }, func() uint8 { return p.OBP0 })
	types.RegisterHardware(types.OBP1, func(v uint8) { p.OBP1 = v }, func() uint8 { return p.OBP1 })
	types.RegisterHardware(types.WY, func(v uint8) { p.WY = v }, func() uint8 { return p.WY })
	types.RegisterHardware(types.WX, func(v uint8) { p.WX = v }, func() uint8 { return p.WX })

	return p
}

// Read implements the IOBus interface expected by mmu.MMU.AttachVideo,
// covering both VRAM (0x8000-0x9FFF) and OAM (0xFE00-0xFE9F). While
// the LCD is on, OAM is inaccessible to the CPU during modes 2
// (OAM scan) and 3 (pixel transfer), and VRAM is inaccessible during
// mode 3, reading back as 0xFF either way.
func (p *PPU) Read(address uint16) uint8 {
	if address >= 0xFE00 {
		if p.oamBlocked() {
			return 0xFF
		}
		return p.oam[address&0xFF]
	}
	if p.vramBlocked() {
		return 0xFF
	}
	return p.vram[address&0x1FFF]
}

func (p *PPU) Write(address uint16, value uint8) {
	if address >= 0xFE00 {
		if p.oamBlocked() {
			return
		}
		p.oam[address&0xFF] = value
		return
	}
	if p.vramBlocked() {
		return
	}
	p.vram[address&0x1FFF] = value
}

func (p *PPU) oamBlocked() bool {
	return p.LCDC.Enabled && (p.STAT.Mode == lcd.OAM || p.STAT.Mode == lcd.VRAM)
}

func (p *PPU) vramBlocked() bool {
	return p.LCDC.Enabled && p.STAT.Mode == lcd.VRAM
}

// WriteOAM writes directly into OAM, bypassing any CPU-side access
// rules. Used by DMA transfers.
func (p *PPU) WriteOAM(offset uint16, value uint8) {
	p.oam[offset&0xFF] = value
}

// HasFrame reports whether a full frame has been rendered since the
// last call to Frame's consumption, and clears the flag.
func (p *PPU) HasFrame() bool {
	if p.frameReady {
		p.frameReady = false
		return true
	}
	return false
}

// Tick advances the PPU by one T-cycle (dot).
func (p *PPU) Tick() {
	if !p.LCDC.Enabled {
		if p.lcdEnabledPrev {
			p.Frame = [ScreenHeight][ScreenWidth]uint8{}
		}
		p.lcdEnabledPrev = false
		p.dot = 0
		p.LY = 0
		p.windowLine = 0
		p.windowTriggered = false
		p.STAT.SetMode(lcd.HBlank)
		p.STAT.Coincidence = p.LY == p.LYC
		p.updateStatLine()
		return
	}
	p.lcdEnabledPrev = true

	switch {
	case p.LY >= ScreenHeight:
		p.STAT.SetMode(lcd.VBlank)
	case p.dot < oamScanDots:
		if p.dot == 0 {
			p.scanOAM()
		}
		p.STAT.SetMode(lcd.OAM)
	case p.dot < hblankStartDot:
		p.STAT.SetMode(lcd.VRAM)
		if p.dot == hblankStartDot-1 {
			p.renderScanline()
		}
	default:
		p.STAT.SetMode(lcd.HBlank)
	}

	p.updateStatLine()

	p.dot++
	if p.dot == dotsPerLine {
		p.dot = 0
		p.LY++
		if p.LY == ScreenHeight {
			p.frameReady = true
			p.irq.Request(interrupts.VBlankFlag)
		}
		if p.LY == linesPerFrame {
			p.LY = 0
			p.windowLine = 0
			p.windowTriggered = false
		}
		p.STAT.Coincidence = p.LY == p.LYC
	}

	if p.LCDC.WindowEnabled && p.LY == p.WY {
		p.windowTriggered = true
	}
}

// updateStatLine recomputes the OR of the LCD STAT interrupt sources
// enabled in STAT, and requests an LCD interrupt only on its 0->1
// transition, reproducing the level-then-edge behaviour of the real
// STAT line.
func (p *PPU) updateStatLine() {
	level := (p.STAT.Mode == lcd.HBlank && p.STAT.HBlankInterrupt) ||
		(p.STAT.Mode == lcd.VBlank && p.STAT.VBlankInterrupt) ||
		(p.STAT.Mode == lcd.OAM && p.STAT.OAMInterrupt) ||
		(p.STAT.Coincidence && p.STAT.CoincidenceInterrupt)

	if level && !p.statLine {
		p.irq.Request(interrupts.LCDFlag)
	}
	p.statLine = level
}

// scanOAM selects up to 10 sprites that intersect the current line,
// in OAM order, matching the real hardware's linear scan.
func (p *PPU) scanOAM() {
	p.lineSprites = p.lineSprites[:0]
	height := uint8(8)
	if p.LCDC.SpriteSize == 16 {
		height = 16
	}
	for i := 0; i < 40 && len(p.lineSprites) < 10; i++ {
		y := p.oam[i*4]
		top := int(y) - 16
		if int(p.LY) < top || int(p.LY) >= top+int(height) {
			continue
		}
		p.lineSprites = append(p.lineSprites, spriteEntry{
			index: i,
			y:     y,
			x:     p.oam[i*4+1],
			tile:  p.oam[i*4+2],
			attr:  p.oam[i*4+3],
		})
	}
}

// renderScanline renders the background, window and sprite layers
// for the current LY into Frame.
func (p *PPU) renderScanline() {
	if p.LY >= ScreenHeight {
		return
	}

	p.renderBackground()

	if p.windowTriggered && p.LCDC.WindowEnabled {
		// only advance the window's own internal line counter on
		// lines where the window was actually visible.
		if p.renderWindow() {
			p.windowLine++
		}
	}

	p.renderSprites()
}

func (p *PPU) renderBackground() {
	line := &p.Frame[p.LY]
	for x := 0; x < ScreenWidth; x++ {
		if !p.LCDC.BackgroundEnabled {
			p.bgRaw[x] = 0
			line[x] = applyPalette(p.BGP, 0)
			continue
		}

		bgX := uint8(x) + p.SCX
		bgY := p.LY + p.SCY

		colorNum := p.tilePixel(p.LCDC.BackgroundTileMapAddress, bgX, bgY)
		p.bgRaw[x] = colorNum
		line[x] = applyPalette(p.BGP, colorNum)
	}
}

// renderWindow overlays the window layer, returning true if any
// window pixel was actually drawn on this line.
func (p *PPU) renderWindow() bool {
	if p.WX > 166 {
		return false
	}
	winStartX := 0
	if p.WX >= 7 {
		winStartX = int(p.WX) - 7
	}

	line := &p.Frame[p.LY]
	drawn := false
	for x := winStartX; x < ScreenWidth; x++ {
		winX := uint8(x - winStartX)
		colorNum := p.tilePixel(p.LCDC.WindowTileMapAddress, winX, p.windowLine)
		// with LCDC bit 0 clear the window is blanked along with the
		// background, leaving what renderBackground wrote.
		if p.LCDC.BackgroundEnabled {
			p.bgRaw[x] = colorNum
			line[x] = applyPalette(p.BGP, colorNum)
		}
		drawn = true
	}
	return drawn
}

// tilePixel returns the raw (pre-palette) colour number of the
// pixel at (x, y) within the given tile map, honouring the LCDC
// tile-data addressing mode.
func (p *PPU) tilePixel(tileMapBase uint16, x, y uint8) uint8 {
	tileCol := uint16(x / 8)
	tileRow := uint16(y / 8)
	mapOffset := tileMapBase - 0x8000 + tileRow*32 + tileCol
	tileIndex := p.vram[mapOffset&0x1FFF]

	var tileAddr uint16
	if p.LCDC.TileDataAddress == 0x8000 {
		tileAddr = 0x8000 + uint16(tileIndex)*16
	} else {
		tileAddr = uint16(int32(0x9000) + int32(int8(tileIndex))*16)
	}

	row := uint16(y % 8)
	lo := p.vram[(tileAddr-0x8000+row*2)&0x1FFF]
	hi := p.vram[(tileAddr-0x8000+row*2+1)&0x1FFF]

	bit := 7 - (x % 8)
	lowBit := (lo >> bit) & 1
	highBit := (hi >> bit) & 1
	return (highBit << 1) | lowBit
}

func (p *PPU) renderSprites() {
	if !p.LCDC.SpriteEnabled {
		return
	}

	// priority order: lowest X first, ties broken by lowest OAM index.
	ordered := make([]spriteEntry, len(p.lineSprites))
	copy(ordered, p.lineSprites)
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && spriteLess(ordered[j], ordered[j-1]); j-- {
			ordered[j], ordered[j-1] = ordered[j-1], ordered[j]
		}
	}

	height := uint8(8)
	if p.LCDC.SpriteSize == 16 {
		height = 16
	}

	var claimed [ScreenWidth]bool
	line := &p.Frame[p.LY]

	for _, sp := range ordered {
		flipX := sp.attr&0x20 != 0
		flipY := sp.attr&0x40 != 0
		behindBG := sp.attr&0x80 != 0
		palette := p.OBP0
		if sp.attr&0x10 != 0 {
			palette = p.OBP1
		}

		row := p.LY - (sp.y - 16)
		if flipY {
			row = height - 1 - row
		}
		tile := sp.tile
		if height == 16 {
			tile &^= 1
		}
		tileAddr := 0x8000 + uint16(tile)*16
		lo := p.vram[(tileAddr-0x8000+uint16(row)*2)&0x1FFF]
		hi := p.vram[(tileAddr-0x8000+uint16(row)*2+1)&0x1FFF]

		for col := 0; col < 8; col++ {
			screenX := int(sp.x) - 8 + col
			if screenX < 0 || screenX >= ScreenWidth {
				continue
			}
			if claimed[screenX] {
				continue
			}

			bit := col
			if !flipX {
				bit = 7 - col
			}
			lowBit := (lo >> uint(bit)) & 1
			highBit := (hi >> uint(bit)) & 1
			colorNum := (highBit << 1) | lowBit
			if colorNum == 0 {
				continue
			}

			claimed[screenX] = true
			if behindBG && p.bgRaw[screenX] != 0 {
				continue
			}
			line[screenX] = applyPalette(palette, colorNum)
		}
	}
}

func spriteLess(a, b spriteEntry) bool {
	if a.x != b.x {
		return a.x < b.x
	}
	return a.index < b.index
}

func applyPalette(reg, colorNum uint8) uint8 {
	return (reg >> (colorNum * 2)) & 0x03
}

var _ types.Stater = (*PPU)(nil)

func (p *PPU) Load(s *types.State) {
	s.ReadData(p.vram[:])
	s.ReadData(p.oam[:])
	p.SCY = s.Read8()
	p.SCX = s.Read8()
	p.LY = s.Read8()
	p.LYC = s.Read8()
	p.BGP = s.Read8()
	p.OBP0 = s.Read8()
	p.OBP1 = s.Read8()
	p.WY = s.Read8()
	p.WX = s.Read8()
	p.dot = s.Read16()
	p.windowLine = s.Read8()
	p.windowTriggered = s.ReadBool()
	p.statLine = s.ReadBool()
	lcdc := s.Read8()
	p.LCDC.Write(types.LCDC, lcdc)
	stat := s.Read8()
	p.STAT.Write(types.STAT, stat)
	p.STAT.SetMode(int(stat & 0x03))
}

func (p *PPU) Save(s *types.State) {
	s.WriteData(p.vram[:])
	s.WriteData(p.oam[:])
	s.Write8(p.SCY)
	s.Write8(p.SCX)
	s.Write8(p.LY)
	s.Write8(p.LYC)
	s.Write8(p.BGP)
	s.Write8(p.OBP0)
	s.Write8(p.OBP1)
	s.Write8(p.WY)
	s.Write8(p.WX)
	s.Write16(p.dot)
	s.Write8(p.windowLine)
	s.WriteBool(p.windowTriggered)
	s.WriteBool(p.statLine)
	s.Write8(p.LCDC.Read(types.LCDC))
	s.Write8(p.STAT.Read(types.STAT))
}
