package ppu

import "github.com/rookgb/dmgboy/internal/types"

// dmaTarget is the subset of PPU that DMA needs to write transferred
// bytes into, kept as an interface so DMA can be tested or reused
// independently of the concrete PPU type.
type dmaTarget interface {
	WriteOAM(offset uint16, value uint8)
}

// DMA implements OAM DMA: a write to FF46 copies 160 bytes from
// source*0x100 into OAM over 160 machine cycles (640 T-cycles), one
// byte every 4 T-cycles.
type DMA struct {
	source uint16
	offset uint16
	active bool

	// ticks counts T-cycles since the transfer started.
	ticks uint16

	target dmaTarget
	// read fetches a source byte from the wider address space. It is
	// set post-construction to avoid an import cycle between ppu and
	// mmu (mmu needs to know whether a DMA transfer is active, so it
	// cannot be imported by ppu).
	read func(address uint16) uint8
}

// NewDMA returns a new DMA unit writing into target.
func NewDMA(target dmaTarget) *DMA {
	d := &DMA{target: target}
	types.RegisterHardware(types.DMA,
		func(v uint8) {
			d.source = uint16(v) << 8
			d.offset = 0
			d.ticks = 0
			d.active = true
		},
		func() uint8 { return uint8(d.source >> 8) },
	)
	return d
}

// SetSource sets the callback used to read a byte from the wider
// address space during a transfer.
func (d *DMA) SetSource(read func(address uint16) uint8) {
	d.read = read
}

// IsTransferring reports whether a DMA transfer is currently in
// progress. During a transfer, the CPU's reads from anywhere but
// HRAM are blocked and return 0xFF.
func (d *DMA) IsTransferring() bool {
	return d.active
}

// Tick advances the DMA unit by one T-cycle.
func (d *DMA) Tick() {
	if !d.active {
		return
	}
	d.ticks++
	if d.ticks%4 != 0 {
		return
	}
	if d.read != nil {
		// the source read is the DMA unit's own bus traffic, so it
		// must not be caught by the CPU-side blocking IsTransferring
		// drives in the MMU.
		d.active = false
		v := d.read(d.source + d.offset)
		d.active = true
		d.target.WriteOAM(d.offset, v)
	}
	d.offset++
	if d.offset == 160 {
		d.active = false
	}
}

var _ types.Stater = (*DMA)(nil)

func (d *DMA) Load(s *types.State) {
	d.source = s.Read16()
	d.offset = s.Read16()
	d.ticks = s.Read16()
	d.active = s.ReadBool()
}

func (d *DMA) Save(s *types.State) {
	s.Write16(d.source)
	s.Write16(d.offset)
	s.Write16(d.ticks)
	s.WriteBool(d.active)
}
