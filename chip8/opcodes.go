package chip8

import (
	"github.com/retroenv/retrogolib/log"
)

// handler executes one instruction class. Each handler leaves pc at the next
// instruction to fetch: it advances by 2, skips by 4, jumps, or holds pc
// while waiting for a key.
type handler func(c *Chip8, in Instruction) error

// handlers maps the top nibble of an opcode to its executor.
var handlers = [16]handler{
	0x0: (*Chip8).execSystem,
	0x1: (*Chip8).execJump,
	0x2: (*Chip8).execCall,
	0x3: (*Chip8).execSkipEqualImmediate,
	0x4: (*Chip8).execSkipNotEqualImmediate,
	0x5: (*Chip8).execSkipEqualRegister,
	0x6: (*Chip8).execLoadImmediate,
	0x7: (*Chip8).execAddImmediate,
	0x8: (*Chip8).execArithmetic,
	0x9: (*Chip8).execSkipNotEqualRegister,
	0xA: (*Chip8).execLoadIndex,
	0xB: (*Chip8).execJumpOffset,
	0xC: (*Chip8).execRandom,
	0xD: (*Chip8).execDraw,
	0xE: (*Chip8).execSkipKey,
	0xF: (*Chip8).execMisc,
}

func (c *Chip8) execOpcode(in Instruction) error {
	c.waitingKey = false
	return handlers[in.Class()](c, in)
}

func (c *Chip8) next() {
	c.pc += 2
}

func (c *Chip8) skipIf(cond bool) {
	c.pc += 2
	if cond {
		c.pc += 2
	}
}

func (c *Chip8) unknown(in Instruction) {
	c.logger.Info("Ignoring unknown opcode",
		log.Hex("pc", c.pc),
		log.Hex("opcode", in.Opcode))
	c.next()
}

// 00E0 clear display, 00EE return from subroutine, 0NNN machine code call.
func (c *Chip8) execSystem(in Instruction) error {
	switch in.Opcode {
	case 0x00E0:
		c.disp.clear()
		c.next()

	case 0x00EE:
		r, err := c.popStack()
		if err != nil {
			return err
		}
		c.pc = r + 2

	default:
		c.unknown(in)
	}
	return nil
}

// 1NNN goto NNN
func (c *Chip8) execJump(in Instruction) error {
	c.pc = in.NNN
	return nil
}

// 2NNN call NNN
func (c *Chip8) execCall(in Instruction) error {
	if err := c.pushStack(c.pc); err != nil {
		return err
	}
	c.pc = in.NNN
	return nil
}

// 3XNN if(Vx==NN)
func (c *Chip8) execSkipEqualImmediate(in Instruction) error {
	c.skipIf(c.v[in.X] == in.NN)
	return nil
}

// 4XNN if(Vx!=NN)
func (c *Chip8) execSkipNotEqualImmediate(in Instruction) error {
	c.skipIf(c.v[in.X] != in.NN)
	return nil
}

// 5XY0 if(Vx==Vy), the low nibble is not checked.
func (c *Chip8) execSkipEqualRegister(in Instruction) error {
	c.skipIf(c.v[in.X] == c.v[in.Y])
	return nil
}

// 6XNN Vx = NN
func (c *Chip8) execLoadImmediate(in Instruction) error {
	c.v[in.X] = in.NN
	c.next()
	return nil
}

// 7XNN Vx += NN, carry flag is not changed
func (c *Chip8) execAddImmediate(in Instruction) error {
	c.v[in.X] += in.NN
	c.next()
	return nil
}

// 8XYN register arithmetic. VF is written before the result, so when X is F
// the result replaces the flag, and operands read afterwards see the new flag.
func (c *Chip8) execArithmetic(in Instruction) error {
	x, y := in.X, in.Y

	switch in.N {
	case 0x0: // 8XY0 Vx=Vy
		c.v[x] = c.v[y]

	case 0x1: // 8XY1 Vx=Vx|Vy
		c.v[x] |= c.v[y]

	case 0x2: // 8XY2 Vx=Vx&Vy
		c.v[x] &= c.v[y]

	case 0x3: // 8XY3 Vx=Vx^Vy
		c.v[x] ^= c.v[y]

	case 0x4: // 8XY4 Vx += Vy
		c.setFlag(c.v[y] > 0xff-c.v[x])
		c.v[x] += c.v[y]

	case 0x5: // 8XY5 Vx -= Vy
		c.setFlag(c.v[y] > c.v[x])
		c.v[x] -= c.v[y]

	case 0x6: // 8XY6 Vx>>=1
		c.setFlag(c.v[x]&0x01 == 1)
		c.v[x] >>= 1

	case 0x7: // 8XY7 Vx=Vy-Vx
		c.setFlag(!(c.v[x] > c.v[y]))
		c.v[x] = c.v[y] - c.v[x]

	case 0x8: // 8XY8 Vx<<=1, nonstandard encoding
		if c.shiftVariant == ShiftNibbleFlag {
			c.setFlag(c.v[x]&0x0f != 0)
			c.v[x] <<= 1
			break
		}
		c.logger.Debug("Nonstandard shift encoding executed as SHL",
			log.Hex("pc", c.pc),
			log.Hex("opcode", in.Opcode))
		c.shiftLeft(x)

	case 0xE: // 8XYE Vx<<=1
		c.shiftLeft(x)

	default:
		c.unknown(in)
		return nil
	}

	c.next()
	return nil
}

func (c *Chip8) shiftLeft(x uint8) {
	c.setFlag(c.v[x]>>7 == 1)
	c.v[x] <<= 1
}

// 9XY0 if(Vx!=Vy), the low nibble is not checked.
func (c *Chip8) execSkipNotEqualRegister(in Instruction) error {
	c.skipIf(c.v[in.X] != c.v[in.Y])
	return nil
}

// ANNN I = NNN
func (c *Chip8) execLoadIndex(in Instruction) error {
	c.i = in.NNN
	c.next()
	return nil
}

// BNNN PC=V0+NNN
func (c *Chip8) execJumpOffset(in Instruction) error {
	c.pc = uint16(c.v[0]) + in.NNN
	return nil
}

// CXNN Vx=rand()&NN
func (c *Chip8) execRandom(in Instruction) error {
	c.v[in.X] = c.random() & in.NN
	c.next()
	return nil
}

// DXYN draw(Vx,Vy,N)
func (c *Chip8) execDraw(in Instruction) error {
	n := int(in.N)
	if err := checkRange(c.i, n); err != nil {
		return err
	}

	x, y := int(c.v[in.X]), int(c.v[in.Y])
	var sprite []uint8
	if n > 0 {
		sprite = c.mem[int(c.i) : int(c.i)+n]
	}

	c.v[0xf] = 0
	if c.disp.draw(x, y, sprite) {
		c.v[0xf] = 1
	}
	c.next()
	return nil
}

// EX9E if(key()==Vx), EXA1 if(key()!=Vx). Values above 0xF never match a key.
func (c *Chip8) execSkipKey(in Instruction) error {
	switch in.NN {
	case 0x9E:
		c.skipIf(c.keys.IsPressed(c.v[in.X]))

	case 0xA1:
		c.skipIf(!c.keys.IsPressed(c.v[in.X]))

	default:
		c.unknown(in)
	}
	return nil
}

func (c *Chip8) execMisc(in Instruction) error {
	x := in.X

	switch in.NN {
	case 0x07: // FX07 Vx = get_delay()
		c.v[x] = c.dt

	case 0x0A: // FX0A Vx = get_key()
		key, ok := c.keys.AnyPressed()
		if !ok {
			// not satisfied yet, the same instruction runs again next cycle
			c.waitingKey = true
			return nil
		}
		c.v[x] = key

	case 0x15: // FX15 delay_timer(Vx)
		c.dt = c.v[x]

	case 0x18: // FX18 sound_timer(Vx)
		c.st = c.v[x]

	case 0x1E: // FX1E I +=Vx
		c.i += uint16(c.v[x])

	case 0x29: // FX29 I=sprite_addr[Vx]
		c.i = GlyphAddress(c.v[x])

	case 0x33: // FX33 set_BCD(Vx)
		if err := checkRange(c.i, 3); err != nil {
			return err
		}
		c.mem[c.i+0] = c.v[x] / 100
		c.mem[c.i+1] = (c.v[x] / 10) % 10
		c.mem[c.i+2] = c.v[x] % 10

	case 0x55: // FX55 reg_dump(Vx,&I)
		if err := checkRange(c.i, int(x)+1); err != nil {
			return err
		}
		copy(c.mem[c.i:], c.v[:x+1])

	case 0x65: // FX65 reg_load(Vx,&I)
		if err := checkRange(c.i, int(x)+1); err != nil {
			return err
		}
		copy(c.v[:x+1], c.mem[c.i:])

	default:
		c.unknown(in)
		return nil
	}

	c.next()
	return nil
}
