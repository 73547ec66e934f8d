// Package timer provides an implementation of the Game Boy
// timer. It is used to generate interrupts at a specific
// frequency. The frequency can be configured using the
// TAC register (types.TAC).
package timer

import (
	"github.com/rookgb/dmgboy/internal/interrupts"
	"github.com/rookgb/dmgboy/internal/types"
)

// Controller is a timer controller. It owns the 16-bit internal
// divider that backs DIV, and the TIMA/TMA/TAC registers that
// derive their increment frequency from one of its bits. The
// frequency can be configured using the types.TAC register.
type Controller struct {
	currentBit  uint16
	internalDiv uint16

	tima               uint8
	ticksSinceOverflow uint8
	tma                uint8
	tac                uint8

	Enabled bool
	lastBit bool
	overflow bool

	irq *interrupts.Service
}

// NewController returns a new timer controller.
func NewController(irq *interrupts.Service) *Controller {
	c := &Controller{
		irq:        irq,
		currentBit: bits[0],
		tac:        0xF8,
	}
	// set up registers
	types.RegisterHardware(
		types.DIV,
		func(v uint8) {
			// any write resets the internal counter to 0, which can
			// itself cause a falling edge on the selected bit and
			// so increment TIMA.
			oldBit := c.internalDiv & c.currentBit
			c.internalDiv = 0
			if oldBit != 0 {
				c.incrementTIMA()
			}
			c.lastBit = false
		}, func() uint8 {
			return uint8(c.internalDiv >> 8)
		},
	)
	types.RegisterHardware(
		types.TIMA,
		func(v uint8) {
			// writes to TIMA are ignored if written the same tick it is
			// reloading
			if c.ticksSinceOverflow != 5 {
				c.tima = v
				c.overflow = false
				c.ticksSinceOverflow = 0
			}
		}, func() uint8 {
			return c.tima
		},
	)
	types.RegisterHardware(
		types.TMA,
		func(v uint8) {
			c.tma = v
			// if you write to TMA the same tick that TIMA is reloading,
			// TIMA will be set to the new value of TMA
			if c.ticksSinceOverflow == 5 {
				c.tima = v
			}
		}, func() uint8 {
			return c.tma
		},
	)
	types.RegisterHardware(
		types.TAC,
		func(v uint8) {
			wasEnabled := c.Enabled
			oldBit := c.currentBit
			// 00 = shift by 9 bits
			// 01 = shift by 3 bits
			// 10 = shift by 5 bits
			// 11 = shift by 7 bits

			c.tac = v
			c.currentBit = bits[v&0b11]
			c.Enabled = (v & 0x4) == 0x4

			c.timaGlitch(wasEnabled, oldBit)
		}, func() uint8 {
			return c.tac | 0b11111000
		},
	)

	return c
}

// Div returns the current value of the internal 16-bit divider,
// i.e. the counter that the DIV register exposes the high byte of.
func (c *Controller) Div() uint16 {
	return c.internalDiv
}

// incrementTIMA increments TIMA, if the timer is enabled, and
// schedules the delayed reload/interrupt sequence on overflow.
func (c *Controller) incrementTIMA() {
	if !c.Enabled {
		return
	}
	c.tima++
	if c.tima == 0 {
		c.overflow = true
		c.ticksSinceOverflow = 0
	}
}

// Tick advances the timer by a single T-cycle.
func (c *Controller) Tick() {
	c.internalDiv++

	newBit := (c.internalDiv & c.currentBit) != 0

	// detect a falling edge on the frequency-selected bit
	if !newBit && c.lastBit {
		c.incrementTIMA()
	}
	c.lastBit = newBit

	if c.overflow {
		c.ticksSinceOverflow++

		switch c.ticksSinceOverflow {
		case 4:
			c.irq.Request(interrupts.TimerFlag)
		case 5:
			c.tima = c.tma
		case 6:
			c.overflow = false
			c.ticksSinceOverflow = 0
		}
	}
}

// timaGlitch handles the glitch that occurs when the timer is enabled,
// or the frequency is changed, through a write to TAC.
func (c *Controller) timaGlitch(wasEnabled bool, oldBit uint16) {
	if !wasEnabled {
		return
	}

	if c.internalDiv&oldBit != 0 {
		if !c.Enabled || !(c.internalDiv&c.currentBit != 0) {
			c.tima++

			if c.tima == 0 {
				c.tima = c.tma
				c.irq.Request(interrupts.TimerFlag)
			}

			c.lastBit = false
		}
	}
}

var bits = [4]uint16{512, 8, 32, 128}

var _ types.Stater = (*Controller)(nil)

// Load loads the state of the controller.
func (c *Controller) Load(s *types.State) {
	c.internalDiv = s.Read16()
	c.tima = s.Read8()
	c.tma = s.Read8()
	c.tac = s.Read8()

	c.Enabled = s.ReadBool()
	c.currentBit = s.Read16()
	c.lastBit = s.ReadBool()
	c.overflow = s.ReadBool()
	c.ticksSinceOverflow = s.Read8()
}

// Save saves the state of the controller.
func (c *Controller) Save(s *types.State) {
	s.Write16(c.internalDiv)
	s.Write8(c.tima)
	s.Write8(c.tma)
	s.Write8(c.tac)

	s.WriteBool(c.Enabled)
	s.Write16(c.currentBit)
	s.WriteBool(c.lastBit)
	s.WriteBool(c.overflow)
	s.Write8(c.ticksSinceOverflow)
}
