package serial

import (
	"github.com/rookgb/dmgboy/internal/interrupts"
	"github.com/rookgb/dmgboy/internal/types"
)

// ticksPerBit is the number of T-cycles between successive bit
// shifts when this Controller is driving the clock: a bit is
// transferred every 128 M-cycles (8.192 kHz).
const ticksPerBit = 512

// Controller is the serial controller. It is responsible for sending
// and receiving data to and from devices.
//
// Before a transfer, data holds the next byte to be sent. AKA types.SB
// During a transfer, it has a mix of the incoming data and the outgoing data.
// each cycle, the leftmost bit of data is sent to the attached device, and
// shifted out of data, and the incoming bit is shifted into data.
//
// example:
//
//	Before : data = o7 o6 o5 o4 o3 o2 o1 o0
//	Cycle 1: data = o6 o5 o4 o3 o2 o1 o0 i0
//	Cycle 2: data = o5 o4 o3 o2 o1 o0 i0 i1
//	Cycle 3: data = o4 o3 o2 o1 o0 i0 i1 i2
//	Cycle 4: data = o3 o2 o1 o0 i0 i1 i2 i3
//	Cycle 5: data = o2 o1 o0 i0 i1 i2 i3 i4
//	Cycle 6: data = o1 o0 i0 i1 i2 i3 i4 i5
//	Cycle 7: data = o0 i0 i1 i2 i3 i4 i5 i6
//	Cycle 8: data = i0 i1 i2 i3 i4 i5 i6 i7
//
// Where o0-o7 are the outgoing bits, and i0-i7 are the incoming bits.
type Controller struct {
	data uint8 // types.SB

	count           uint8 // the number of bits that have been transferred.
	InternalClock   bool  // if true, this controller is the master.
	TransferRequest bool  // if true, a transfer has been requested.

	sinceEdge uint16 // T-cycles since the last bit shift, while transferring.

	AttachedDevice Device // the device that is attached to this controller.

	irq *interrupts.Service

	// onByteWritten, if set, is called with every value written to SB.
	// This exists purely for observability: test ROMs conventionally
	// report their pass/fail string one byte at a time through SB
	// immediately before requesting a transfer, and a host with no
	// cable attached has no other way to see it, since the byte is
	// gone from the data register by the time a transfer completes.
	onByteWritten func(uint8)
}

// Attach attaches a Device to the Controller.
func (c *Controller) Attach(d Device) {
	c.AttachedDevice = d
}

// SetWriteObserver registers a callback invoked with every byte
// written to SB, for hosts that want to observe serial output
// without attaching a real Device.
func (c *Controller) SetWriteObserver(f func(uint8)) {
	c.onByteWritten = f
}

// NewController creates a new Controller. A Controller is responsible for
// sending and receiving data to and from devices. It is also responsible for
// triggering serial interrupts.
//
// By default, the Controller is attached to a nullDevice, which acts as if
// there is no device attached. This is the same as if the device is not
// plugged in. If you want to attach a device, use the Controller.Attach method.
func NewController(irq *interrupts.Service) *Controller {
	c := &Controller{
		AttachedDevice: nullDevice{},
		irq:            irq,
	}
	types.RegisterHardware(
		types.SB,
		func(v uint8) {
			c.data = v
			if c.onByteWritten != nil {
				c.onByteWritten(v)
			}
		}, func() uint8 {
			return c.data
		},
	)
	types.RegisterHardware(
		types.SC,
		func(v uint8) {
			c.InternalClock = v&types.Bit0 == types.Bit0
			wasTransferring := c.TransferRequest
			c.TransferRequest = v&types.Bit7 == types.Bit7
			if c.TransferRequest && !wasTransferring {
				c.count = 0
				c.sinceEdge = 0
			}
		}, func() uint8 {
			flags := uint8(0)
			if c.InternalClock {
				flags |= types.Bit0
			}
			if c.TransferRequest {
				flags |= types.Bit7
			}
			return flags | 0x7E // bits 1-6 are always set
		},
	)
	return c
}

// Tick advances the transfer in progress, if any, by one T-cycle.
// div is the timer's internal divider; Tick does not read it, and
// instead counts its own T-cycles between bit shifts.
func (c *Controller) Tick(div uint16) {
	if !c.TransferRequest || !c.InternalClock {
		return
	}

	c.sinceEdge++
	if c.sinceEdge < ticksPerBit {
		return
	}
	c.sinceEdge = 0

	bit := c.AttachedDevice.Send()
	c.AttachedDevice.Receive(c.data&types.Bit7 == types.Bit7)

	c.data <<= 1
	if bit {
		c.data |= 1
	}

	c.count++
	if c.count == 8 {
		c.count = 0
		c.TransferRequest = false
		c.irq.Request(interrupts.SerialFlag)
	}
}

// Send returns the leftmost bit of the data register, unless
// the caller is the master, in which case it always returns true.
// This is because the master is driving the clock, and thus should
// not be trying to read from its own data register.
func (c *Controller) Send() bool {
	if c.InternalClock {
		return true
	}
	return c.data&types.Bit7 == types.Bit7
}

// Receive receives a bit from the attached device, and shifts it into
// the data register. If the caller is the master, it does nothing.
func (c *Controller) Receive(bit bool) {
	if !c.InternalClock {
		c.data <<= 1
		if bit {
			c.data |= 1
		}
		c.count++
		if c.count == 8 {
			c.count = 0
			c.TransferRequest = false
			c.irq.Request(interrupts.SerialFlag)
		}
	}
}

var _ types.Stater = (*Controller)(nil)

// Load implements the types.Stater interface.
func (c *Controller) Load(s *types.State) {
	c.data = s.Read8()
	c.TransferRequest = s.ReadBool()
	c.count = s.Read8()
	c.InternalClock = s.ReadBool()
	c.sinceEdge = s.Read16()
}

// Save implements the types.Stater interface.
func (c *Controller) Save(s *types.State) {
	s.Write8(c.data)
	s.WriteBool(c.TransferRequest)
	s.Write8(c.count)
	s.WriteBool(c.InternalClock)
	s.Write16(c.sinceEdge)
}
