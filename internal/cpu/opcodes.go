package cpu

import "fmt"

// readRegister reads an 8-bit operand selected by a 3-bit instruction
// field. Index 6 means the operand lives at (HL) rather than in a
// named register.
func (c *CPU) readRegister(index uint8) uint8 {
	if index == 6 {
		return c.readByte(c.HL.Uint16())
	}
	return *c.registerIndex(index)
}

// writeRegister is the write-side counterpart of readRegister.
func (c *CPU) writeRegister(index uint8, value uint8) {
	if index == 6 {
		c.writeByte(c.HL.Uint16(), value)
		return
	}
	*c.registerIndex(index) = value
}

// readPair reads one of the four 16-bit register pairs addressed by
// most 16-bit instructions: BC, DE, HL and SP.
func (c *CPU) readPair(index uint8) uint16 {
	switch index {
	case 0:
		return c.BC.Uint16()
	case 1:
		return c.DE.Uint16()
	case 2:
		return c.HL.Uint16()
	case 3:
		return c.SP
	}
	panic(fmt.Sprintf("invalid register pair index: %d", index))
}

func (c *CPU) writePair(index uint8, value uint16) {
	switch index {
	case 0:
		c.BC.SetUint16(value)
	case 1:
		c.DE.SetUint16(value)
	case 2:
		c.HL.SetUint16(value)
	case 3:
		c.SP = value
	}
}

// readPairStack and writePairStack address the four register pairs as
// seen by PUSH and POP, which use AF where the other 16-bit
// instructions use SP.
func (c *CPU) readPairStack(index uint8) uint16 {
	if index == 3 {
		return c.AF.Uint16()
	}
	return c.readPair(index)
}

func (c *CPU) writePairStack(index uint8, value uint16) {
	if index == 3 {
		// the low nibble of F has no backing bits and always reads 0.
		c.AF.SetUint16(value & 0xFFF0)
		return
	}
	c.writePair(index, value)
}

// indirectAddress returns the address a LD A,(rr) / LD (rr),A
// instruction targets, applying HL's auto increment/decrement.
func (c *CPU) indirectAddress(index uint8) uint16 {
	switch index {
	case 0:
		return c.BC.Uint16()
	case 1:
		return c.DE.Uint16()
	case 2:
		addr := c.HL.Uint16()
		c.HL.SetUint16(addr + 1)
		return addr
	case 3:
		addr := c.HL.Uint16()
		c.HL.SetUint16(addr - 1)
		return addr
	}
	panic(fmt.Sprintf("invalid indirect address index: %d", index))
}

// flagCondition evaluates one of the four branch conditions: NZ, Z,
// NC, C.
func (c *CPU) flagCondition(index uint8) bool {
	switch index {
	case 0:
		return c.isFlagNotSet(FlagZero)
	case 1:
		return c.isFlagSet(FlagZero)
	case 2:
		return c.isFlagNotSet(FlagCarry)
	case 3:
		return c.isFlagSet(FlagCarry)
	}
	panic(fmt.Sprintf("invalid flag condition index: %d", index))
}

// alu dispatches one of the eight ALU operations against A.
func (c *CPU) alu(op uint8, n uint8) {
	switch op {
	case 0:
		c.add(n, false)
	case 1:
		c.add(n, true)
	case 2:
		c.sub(n, false)
	case 3:
		c.sub(n, true)
	case 4:
		c.and(n)
	case 5:
		c.xor(n)
	case 6:
		c.or(n)
	case 7:
		c.compare(n)
	}
}

// enterHalt implements the HALT instruction, including the hardware
// bug where HALT executed with IME disabled and an interrupt already
// pending causes the following byte to be fetched twice.
func (c *CPU) enterHalt() {
	if !c.IRQ.IME && c.hasInterrupts() {
		c.mode = ModeHaltBug
		return
	}
	c.mode = ModeHalt
}

// decode executes a single, already-fetched opcode. Most of the
// instruction set falls out of the op = xx yyy zzz bit pattern shared
// by every 8-bit CPU descended from the 8080; the instructions that
// don't fit the pattern cleanly are handled explicitly.
func (c *CPU) decode(opcode uint8) {
	switch opcode {
	case 0x00: // NOP
		return
	case 0x08: // LD (a16),SP
		low := c.readOperand()
		high := c.readOperand()
		addr := uint16(high)<<8 | uint16(low)
		c.writeByte(addr, uint8(c.SP))
		c.writeByte(addr+1, uint8(c.SP>>8))
		return
	case 0x10: // STOP
		c.skipOperand()
		c.stopped = true
		return
	case 0x18: // JR r8
		c.jumpRelative(true)
		return
	case 0x76: // HALT
		c.enterHalt()
		return
	case 0xC3: // JP a16
		c.jumpAbsolute(true)
		return
	case 0xC9: // RET
		c.retPlain()
		return
	case 0xCB: // CB prefix
		c.decodeCB(c.readOperand())
		return
	case 0xCD: // CALL a16
		low := c.readOperand()
		high := c.readOperand()
		c.call(true, uint16(high)<<8|uint16(low))
		return
	case 0xD9: // RETI
		c.retPlain()
		c.IRQ.IME = true
		return
	case 0xE0: // LDH (a8),A
		c.writeByte(0xFF00+uint16(c.readOperand()), c.A)
		return
	case 0xE2: // LD (C),A
		c.writeByte(0xFF00+uint16(c.C), c.A)
		return
	case 0xE8: // ADD SP,r8
		result := c.addSPSigned()
		c.tickCycle()
		c.tickCycle()
		c.SP = result
		return
	case 0xE9: // JP (HL)
		c.PC = c.HL.Uint16()
		return
	case 0xEA: // LD (a16),A
		low := c.readOperand()
		high := c.readOperand()
		c.writeByte(uint16(high)<<8|uint16(low), c.A)
		return
	case 0xF0: // LDH A,(a8)
		c.A = c.readByte(0xFF00 + uint16(c.readOperand()))
		return
	case 0xF2: // LD A,(C)
		c.A = c.readByte(0xFF00 + uint16(c.C))
		return
	case 0xF3: // DI
		c.IRQ.IME = false
		return
	case 0xF8: // LD HL,SP+r8
		result := c.addSPSigned()
		c.tickCycle()
		c.HL.SetUint16(result)
		return
	case 0xF9: // LD SP,HL
		c.tickCycle()
		c.SP = c.HL.Uint16()
		return
	case 0xFA: // LD A,(a16)
		low := c.readOperand()
		high := c.readOperand()
		c.A = c.readByte(uint16(high)<<8 | uint16(low))
		return
	case 0xFB: // EI
		c.mode = ModeEnableIME
		return
	case 0xD3, 0xDB, 0xDD, 0xE3, 0xE4, 0xEB, 0xEC, 0xED, 0xF4, 0xFC, 0xFD:
		panic(fmt.Sprintf("illegal opcode 0x%02X at 0x%04X", opcode, c.PC-1))
	}

	x := opcode >> 6
	y := (opcode >> 3) & 7
	z := opcode & 7
	p := y >> 1
	q := y&1 == 1

	switch x {
	case 0:
		switch z {
		case 0: // JR cc,r8 (y 0-3 above are NOP/LD(a16),SP/STOP/JR)
			c.jumpRelative(c.flagCondition(y - 4))
		case 1:
			if q {
				c.addHL16(c.readPair(p))
			} else {
				low := c.readOperand()
				high := c.readOperand()
				c.writePair(p, uint16(high)<<8|uint16(low))
			}
		case 2:
			addr := c.indirectAddress(p)
			if q {
				c.A = c.readByte(addr)
			} else {
				c.writeByte(addr, c.A)
			}
		case 3:
			c.tickCycle()
			if q {
				c.writePair(p, c.readPair(p)-1)
			} else {
				c.writePair(p, c.readPair(p)+1)
			}
		case 4:
			c.writeRegister(y, c.increment(c.readRegister(y)))
		case 5:
			c.writeRegister(y, c.decrement(c.readRegister(y)))
		case 6:
			c.writeRegister(y, c.readOperand())
		case 7:
			switch y {
			case 0:
				c.rotateLeftCarryAccumulator()
			case 1:
				c.rotateRightCarryAccumulator()
			case 2:
				c.rotateLeftAccumulatorThroughCarry()
			case 3:
				c.rotateRightAccumulatorThroughCarry()
			case 4:
				c.daa()
			case 5: // CPL
				c.A = ^c.A
				c.setFlag(FlagSubtract)
				c.setFlag(FlagHalfCarry)
			case 6: // SCF
				c.setFlag(FlagCarry)
				c.clearFlag(FlagSubtract)
				c.clearFlag(FlagHalfCarry)
			case 7: // CCF
				c.setFlagIf(FlagCarry, !c.isFlagSet(FlagCarry))
				c.clearFlag(FlagSubtract)
				c.clearFlag(FlagHalfCarry)
			}
		}
	case 1: // LD r,r' (0x76 HALT already handled above)
		c.writeRegister(y, c.readRegister(z))
	case 2: // ALU A,r
		c.alu(y, c.readRegister(z))
	case 3:
		switch z {
		case 0: // RET cc (y 4-7 above are LDH/ADD SP/LDH/LD HL,SP+r8)
			c.retCond(c.flagCondition(y))
		case 1: // POP rr (q=1 cases handled explicitly above)
			c.writePairStack(p, c.pop())
		case 2: // JP cc,a16 (y 4-7 above are LD (C),A / LD (a16),A / LD A,(C) / LD A,(a16))
			c.jumpAbsolute(c.flagCondition(y))
		case 4: // CALL cc,a16
			low := c.readOperand()
			high := c.readOperand()
			c.call(c.flagCondition(y), uint16(high)<<8|uint16(low))
		case 5: // PUSH rr (q=1 cases handled explicitly above)
			c.tickCycle()
			c.push(c.readPairStack(p))
		case 6: // ALU A,d8
			c.alu(y, c.readOperand())
		case 7: // RST
			c.rst(uint16(y) * 8)
		}
	}
}
