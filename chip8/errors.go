package chip8

import (
	"errors"
	"fmt"
)

var (
	// ErrProgramTooLarge is returned when a ROM exceeds the program area.
	ErrProgramTooLarge = errors.New("program too large")
	// ErrStackOverflow is returned when a call would nest deeper than StackSize.
	ErrStackOverflow = errors.New("stack overflow")
	// ErrStackUnderflow is returned when a return executes with an empty stack.
	ErrStackUnderflow = errors.New("stack underflow")
	// ErrAddressOutOfRange is returned when a memory access leaves 0x000-0xFFF.
	ErrAddressOutOfRange = errors.New("address out of range")
	// ErrHalted is returned by every cycle after a fatal fault.
	ErrHalted = errors.New("machine halted")
)

// An ExecError describes a fatal fault raised while executing an instruction.
type ExecError struct {
	PC     uint16
	Opcode uint16
	Err    error
}

func (e *ExecError) Error() string {
	return fmt.Sprintf("%03X-%04X: %v", e.PC, e.Opcode, e.Err)
}

func (e *ExecError) Unwrap() error {
	return e.Err
}
