package chip8

import "fmt"

// Instruction is a decoded opcode word and its operand fields.
type Instruction struct {
	Opcode uint16
	NNN    uint16 // address
	NN     uint8  // immediate byte
	N      uint8  // nibble
	X      uint8  // register index, bits 8-11
	Y      uint8  // register index, bits 4-7
}

// Decode splits a big-endian opcode word into its fields.
func Decode(op uint16) Instruction {
	return Instruction{
		Opcode: op,
		NNN:    op & 0x0FFF,
		NN:     uint8(op & 0x00FF),
		N:      uint8(op & 0x000F),
		X:      uint8((op >> 8) & 0x0F),
		Y:      uint8((op >> 4) & 0x0F),
	}
}

// DecodeBytes decodes the two bytes of an instruction as stored in memory.
func DecodeBytes(hi, lo uint8) Instruction {
	return Decode(uint16(hi)<<8 | uint16(lo))
}

// Class returns the top nibble selecting the instruction group.
func (in Instruction) Class() uint8 {
	return uint8(in.Opcode >> 12)
}

// String returns the assembler mnemonic of the instruction.
func (in Instruction) String() string {
	x, y, nn, nnn := in.X, in.Y, in.NN, in.NNN

	switch in.Class() {
	case 0x0:
		switch in.Opcode {
		case 0x00E0:
			return "CLS"
		case 0x00EE:
			return "RET"
		}
		return fmt.Sprintf("SYS  #%03X", nnn)
	case 0x1:
		return fmt.Sprintf("JP   #%03X", nnn)
	case 0x2:
		return fmt.Sprintf("CALL #%03X", nnn)
	case 0x3:
		return fmt.Sprintf("SE   V%X,#%02X", x, nn)
	case 0x4:
		return fmt.Sprintf("SNE  V%X,#%02X", x, nn)
	case 0x5:
		return fmt.Sprintf("SE   V%X,V%X", x, y)
	case 0x6:
		return fmt.Sprintf("LD   V%X,#%02X", x, nn)
	case 0x7:
		return fmt.Sprintf("ADD  V%X,#%02X", x, nn)
	case 0x8:
		switch in.N {
		case 0x0:
			return fmt.Sprintf("LD   V%X,V%X", x, y)
		case 0x1:
			return fmt.Sprintf("OR   V%X,V%X", x, y)
		case 0x2:
			return fmt.Sprintf("AND  V%X,V%X", x, y)
		case 0x3:
			return fmt.Sprintf("XOR  V%X,V%X", x, y)
		case 0x4:
			return fmt.Sprintf("ADD  V%X,V%X", x, y)
		case 0x5:
			return fmt.Sprintf("SUB  V%X,V%X", x, y)
		case 0x6:
			return fmt.Sprintf("SHR  V%X", x)
		case 0x7:
			return fmt.Sprintf("SUBN V%X,V%X", x, y)
		case 0x8, 0xE:
			return fmt.Sprintf("SHL  V%X", x)
		}
	case 0x9:
		return fmt.Sprintf("SNE  V%X,V%X", x, y)
	case 0xA:
		return fmt.Sprintf("LD   I,#%03X", nnn)
	case 0xB:
		return fmt.Sprintf("JP   V0,#%03X", nnn)
	case 0xC:
		return fmt.Sprintf("RND  V%X,#%02X", x, nn)
	case 0xD:
		return fmt.Sprintf("DRW  V%X,V%X,%d", x, y, in.N)
	case 0xE:
		switch nn {
		case 0x9E:
			return fmt.Sprintf("SKP  V%X", x)
		case 0xA1:
			return fmt.Sprintf("SKNP V%X", x)
		}
	case 0xF:
		switch nn {
		case 0x07:
			return fmt.Sprintf("LD   V%X,DT", x)
		case 0x0A:
			return fmt.Sprintf("LD   V%X,K", x)
		case 0x15:
			return fmt.Sprintf("LD   DT,V%X", x)
		case 0x18:
			return fmt.Sprintf("LD   ST,V%X", x)
		case 0x1E:
			return fmt.Sprintf("ADD  I,V%X", x)
		case 0x29:
			return fmt.Sprintf("LD   F,V%X", x)
		case 0x33:
			return fmt.Sprintf("LD   B,V%X", x)
		case 0x55:
			return fmt.Sprintf("LD   [I],V%X", x)
		case 0x65:
			return fmt.Sprintf("LD   V%X,[I]", x)
		}
	}
	return fmt.Sprintf("DW   #%04X", in.Opcode)
}

// Disassemble renders a program image as one line per instruction word,
// addressed from the program offset. A trailing odd byte is emitted as DB.
func Disassemble(program []byte) []string {
	lines := make([]string, 0, len(program)/2+1)
	for off := 0; off+1 < len(program); off += 2 {
		in := DecodeBytes(program[off], program[off+1])
		lines = append(lines, fmt.Sprintf("%03X-%04X %s", ProgramOffset+off, in.Opcode, in))
	}
	if len(program)%2 == 1 {
		off := len(program) - 1
		lines = append(lines, fmt.Sprintf("%03X-%02X   DB   #%02X", ProgramOffset+off, program[off], program[off]))
	}
	return lines
}
