package cpu

// decodeCB executes a CB-prefixed opcode. The CB table is regular
// throughout: bits 5-3 select the operation (or, for BIT/RES/SET, the
// bit position) and bits 2-0 select the operand register.
func (c *CPU) decodeCB(opcode uint8) {
	x := opcode >> 6
	y := (opcode >> 3) & 7
	z := opcode & 7

	n := c.readRegister(z)

	switch x {
	case 0:
		var result uint8
		switch y {
		case 0:
			result = c.rotateLeftCarry(n)
		case 1:
			result = c.rotateRightCarry(n)
		case 2:
			result = c.rotateLeft(n)
		case 3:
			result = c.rotateRight(n)
		case 4:
			result = c.shiftLeftArithmetic(n)
		case 5:
			result = c.shiftRightArithmetic(n)
		case 6:
			result = c.swap(n)
		case 7:
			result = c.shiftRightLogical(n)
		}
		c.writeRegister(z, result)
	case 1: // BIT y,r
		c.testBit(n, y)
	case 2: // RES y,r
		c.writeRegister(z, c.clearBit(n, y))
	case 3: // SET y,r
		c.writeRegister(z, c.setBit(n, y))
	}
}
