// Package chip8 implements the CHIP-8 virtual machine: memory, registers,
// call stack, timers, framebuffer and keypad, plus the fetch-decode-execute
// cycle that mutates them. Rendering, input devices and pacing are left to
// the caller.
package chip8

import (
	"errors"
	"fmt"
	"math/rand/v2"

	"github.com/retroenv/retrogolib/log"
)

const (
	MemorySize             = 0x1000
	MaxAddress             = MemorySize - 1
	StackSize              = 16
	RegisterCount          = 16
	CharacterSpritesOffset = 0x000
	CharacterSpriteBytes   = 5
	ProgramOffset          = 0x200
	MaxProgramSize         = MemorySize - ProgramOffset
	OpHistoryNum           = 16
)

// Chip8 holds the complete machine state. It is not safe for concurrent use
// except for the keypad methods, which may be called from any goroutine.
type Chip8 struct {
	mem    [MemorySize]uint8    // memory
	pc     uint16               // program counter
	v      [RegisterCount]uint8 // registers, VF doubles as carry/borrow/collision flag
	i      uint16               // index register
	dt     uint8                // delay timer
	st     uint8                // sound timer
	sp     uint8                // stack depth
	stack  [StackSize]uint16    // return addresses
	keys   Keypad               // keyboard state
	disp   *Framebuffer         // graphics
	opcode uint16               // last fetched opcode

	waitingKey bool
	halted     error

	random       func() uint8
	shiftVariant ShiftVariant
	logger       *log.Logger

	ophistory      [OpHistoryNum]string
	ophistoryIndex int
	ophistoryCount int
}

// New creates a machine in its reset state.
func New(opts ...Option) *Chip8 {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt(&cfg)
	}

	c := &Chip8{
		disp:         NewFramebuffer(cfg.width, cfg.height),
		random:       cfg.random,
		shiftVariant: cfg.shiftVariant,
		logger:       cfg.logger,
	}
	c.Reset()
	return c
}

// Reset zero-fills the machine, points pc at the program offset and writes
// the font glyphs into low memory. The keypad is left untouched since it
// mirrors the physical device.
func (c *Chip8) Reset() {
	c.mem = [MemorySize]uint8{}
	c.v = [RegisterCount]uint8{}
	c.stack = [StackSize]uint16{}
	c.pc = ProgramOffset
	c.i = 0
	c.sp = 0
	c.dt = 0
	c.st = 0
	c.opcode = 0
	c.waitingKey = false
	c.halted = nil
	c.disp.clear()

	c.ophistory = [OpHistoryNum]string{}
	c.ophistoryIndex = 0
	c.ophistoryCount = 0

	loadFont(c.mem[:])
}

// LoadProgram copies a raw ROM image into memory at the program offset.
// Nothing is written if the image does not fit.
func (c *Chip8) LoadProgram(b []byte) error {
	if len(b) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, %d available", ErrProgramTooLarge, len(b), MaxProgramSize)
	}
	copy(c.mem[ProgramOffset:], b)
	return nil
}

// Step runs one instruction followed by one timer decrement.
func (c *Chip8) Step() error {
	if err := c.Execute(); err != nil {
		return err
	}
	c.TickTimers()
	return nil
}

// Execute fetches, decodes and runs exactly one instruction without touching
// the timers. A fatal fault halts the machine; every later call returns the
// same fault until Reset.
func (c *Chip8) Execute() error {
	if c.halted != nil {
		return fmt.Errorf("%w: %w", ErrHalted, c.halted)
	}

	pc := c.pc
	op, err := c.fetchOpcode()
	if err == nil {
		c.opcode = op
		in := Decode(op)
		err = c.execOpcode(in)
		c.record(pc, in)
	}
	if err != nil {
		execErr := &ExecError{PC: pc, Opcode: op, Err: err}
		c.halted = execErr
		c.logger.Error("Machine halted", log.Hex("pc", pc), log.Hex("opcode", op), log.Err(err))
		return execErr
	}
	return nil
}

// TickTimers decrements the delay and sound timers towards zero. Callers
// normally invoke it at 60 Hz.
func (c *Chip8) TickTimers() {
	if c.dt > 0 {
		c.dt--
	}
	if c.st > 0 {
		c.st--
	}
}

func (c *Chip8) fetchOpcode() (uint16, error) {
	if int(c.pc)+1 > MaxAddress {
		return 0, fmt.Errorf("%w: fetch at %#04x", ErrAddressOutOfRange, c.pc)
	}
	return uint16(c.mem[c.pc])<<8 | uint16(c.mem[c.pc+1]), nil
}

// checkRange fails when n bytes starting at addr would leave memory.
func checkRange(addr uint16, n int) error {
	if n > 0 && int(addr)+n-1 > MaxAddress {
		return fmt.Errorf("%w: %d bytes at %#04x", ErrAddressOutOfRange, n, addr)
	}
	return nil
}

func (c *Chip8) setFlag(b bool) {
	if b {
		c.v[0xf] = 1
	} else {
		c.v[0xf] = 0
	}
}

func (c *Chip8) pushStack(v uint16) error {
	if int(c.sp) >= StackSize {
		return ErrStackOverflow
	}
	c.stack[c.sp] = v
	c.sp++
	return nil
}

func (c *Chip8) popStack() (uint16, error) {
	if c.sp == 0 {
		return 0, ErrStackUnderflow
	}
	c.sp--
	return c.stack[c.sp], nil
}

func (c *Chip8) record(pc uint16, in Instruction) {
	c.ophistory[c.ophistoryIndex] = fmt.Sprintf("%03X-%04X %s", pc, in.Opcode, in)
	c.ophistoryIndex = (c.ophistoryIndex + 1) % OpHistoryNum
	if c.ophistoryCount < OpHistoryNum {
		c.ophistoryCount++
	}
}

// History returns the most recently executed instructions, oldest first.
func (c *Chip8) History() []string {
	out := make([]string, 0, c.ophistoryCount)
	start := (c.ophistoryIndex - c.ophistoryCount + OpHistoryNum) % OpHistoryNum
	for n := 0; n < c.ophistoryCount; n++ {
		out = append(out, c.ophistory[(start+n)%OpHistoryNum])
	}
	return out
}

// SetKeyDown marks a key as pressed.
func (c *Chip8) SetKeyDown(key uint8) { c.keys.Press(key) }

// SetKeyUp marks a key as released.
func (c *Chip8) SetKeyUp(key uint8) { c.keys.Release(key) }

// Keypad gives access to the input set shared with the event source.
func (c *Chip8) Keypad() *Keypad { return &c.keys }

// Framebuffer returns a read-only view of the screen.
func (c *Chip8) Framebuffer() *Framebuffer { return c.disp }

func (c *Chip8) ProgramCounter() uint16 { return c.pc }
func (c *Chip8) CurrentOpcode() uint16  { return c.opcode }
func (c *Chip8) Index() uint16          { return c.i }
func (c *Chip8) DelayTimer() uint8      { return c.dt }
func (c *Chip8) SoundTimer() uint8      { return c.st }
func (c *Chip8) StackDepth() int        { return int(c.sp) }

// Registers returns a copy of V0-VF.
func (c *Chip8) Registers() [RegisterCount]uint8 { return c.v }

// SoundActive reports whether the sound timer is still running. Its
// transition to false is the expiry signal.
func (c *Chip8) SoundActive() bool { return c.st > 0 }

// WaitingForKey reports whether the last executed instruction was an FX0A
// that found no key pressed.
func (c *Chip8) WaitingForKey() bool { return c.waitingKey }

// Halted returns the fault that stopped the machine, or nil.
func (c *Chip8) Halted() error { return c.halted }

// ReadMemory returns a copy of n bytes starting at addr, clipped to memory.
func (c *Chip8) ReadMemory(addr uint16, n int) []byte {
	if int(addr) >= MemorySize || n <= 0 {
		return nil
	}
	end := min(int(addr)+n, MemorySize)
	out := make([]byte, end-int(addr))
	copy(out, c.mem[addr:end])
	return out
}

func defaultRandom() uint8 {
	return uint8(rand.UintN(256))
}

// IsFatal reports whether err stopped the machine.
func IsFatal(err error) bool {
	var execErr *ExecError
	return errors.As(err, &execErr) || errors.Is(err, ErrHalted)
}
