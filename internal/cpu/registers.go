package cpu

// Register is a single 8-bit CPU register.
type Register = uint8

// RegisterPair points at two adjacent 8-bit registers and lets them be
// read or written as a single big-endian 16-bit value, mirroring how
// BC, DE, HL and AF are addressed by 16-bit instructions.
type RegisterPair struct {
	High *Register
	Low  *Register
}

// Uint16 returns the combined 16-bit value of the pair.
func (r *RegisterPair) Uint16() uint16 {
	return uint16(*r.High)<<8 | uint16(*r.Low)
}

// SetUint16 sets the pair from a combined 16-bit value.
func (r *RegisterPair) SetUint16(v uint16) {
	*r.High = uint8(v >> 8)
	*r.Low = uint8(v)
}

// Registers holds the CPU's 8-bit registers, addressable individually
// or, via the embedded pairs, as 16-bit BC/DE/HL/AF.
type Registers struct {
	A, F Register
	B, C Register
	D, E Register
	H, L Register

	BC *RegisterPair
	DE *RegisterPair
	HL *RegisterPair
	AF *RegisterPair
}
