// Package joypad provides an implementation of the Game Boy
// joypad. The joypad is used to read the state of the buttons
// and the direction keys.
package joypad

import (
	"github.com/rookgb/dmgboy/internal/interrupts"
	"github.com/rookgb/dmgboy/internal/types"
)

// Button represents a physical button on the Game Boy.
type Button = uint8

const (
	// ButtonA is the A button.
	ButtonA Button = iota
	// ButtonB is the B button.
	ButtonB
	// ButtonSelect is the Select button.
	ButtonSelect
	// ButtonStart is the Start button.
	ButtonStart
	// ButtonRight is the Right button.
	ButtonRight
	// ButtonLeft is the Left button.
	ButtonLeft
	// ButtonUp is the Up button.
	ButtonUp
	// ButtonDown is the Down button.
	ButtonDown
)

// State represents the state of the joypad. Select either
// action or direction buttons by writing to the register,
// and then read out bits 0-3 to get the state of the buttons.
//
//	Bit 7 - Not used
//	Bit 6 - Not used
//	Bit 5 - P15 Select Button Keys      (0=Select)
//	Bit 4 - P14 Select Direction Keys   (0=Select)
//	Bit 3 - P13 Input Down  or Start    (0=Pressed) (Read Only)
//	Bit 2 - P12 Input Up    or Select   (0=Pressed) (Read Only)
//	Bit 1 - P11 Input Left  or Button B (0=Pressed) (Read Only)
//	Bit 0 - P10 Input Right or Button A (0=Pressed) (Read Only)
type State struct {
	// State holds the state of the buttons, lower 4 bits for the
	// action buttons (A, B, Select, Start) and upper 4 bits for
	// the direction buttons (Right, Left, Up, Down). Unlike the
	// P1 register itself, a set bit here means the button IS
	// pressed; the register's active-low polarity is applied when
	// it is read.
	State Button

	// selected holds the last value written to the select bits
	// (P1 bits 4-5), so that reads reflect whichever group(s) of
	// buttons the game has currently selected.
	selected uint8

	irq *interrupts.Service
}

// New returns a new joypad state.
func New(irq *interrupts.Service) *State {
	s := &State{irq: irq}
	types.RegisterHardware(
		types.P1,
		func(v uint8) {
			s.selected = v & 0x30
		}, func() uint8 {
			d := uint8(0xC0) | s.selected
			if s.selected&types.Bit4 == 0 {
				d |= s.State >> 4 & 0xF
			}
			if s.selected&types.Bit5 == 0 {
				d |= s.State & 0xF
			}
			// bits 0-3 are active-low; bits not selected above
			// stay 0 here and read back high after the flip, as
			// an unselected group must always read as not-pressed.
			return d ^ 0x0F
		},
	)
	return s
}

// SetButtons replaces the whole button state with an 8-bit mask (one
// bit per Button, set meaning pressed) and requests a joypad
// interrupt for any button that newly became pressed in a group the
// game currently selects through P1.
func (s *State) SetButtons(mask uint8) {
	newlyPressed := mask &^ s.State
	s.State = mask
	if s.selected&types.Bit4 != 0 {
		newlyPressed &^= 0xF0 // direction group not selected
	}
	if s.selected&types.Bit5 != 0 {
		newlyPressed &^= 0x0F // action group not selected
	}
	if newlyPressed != 0 {
		s.irq.Request(interrupts.JoypadFlag)
	}
}

var _ types.Stater = (*State)(nil)

func (s *State) Load(st *types.State) {
	s.State = st.Read8()
	s.selected = st.Read8()
}

func (s *State) Save(st *types.State) {
	st.Write8(s.State)
	st.Write8(s.selected)
}
