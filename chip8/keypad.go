package chip8

import (
	"math/bits"
	"sync/atomic"
)

// The computers which originally used CHIP-8 had a 16-key hexadecimal keypad:
//
//	+---+---+---+---+
//	| 1 | 2 | 3 | C |
//	+---+---+---+---+
//	| 4 | 5 | 6 | D |
//	+---+---+---+---+
//	| 7 | 8 | 9 | E |
//	+---+---+---+---+
//	| A | 0 | B | F |
//	+---+---+---+---+
const KeyCount = 16

// Keypad is the set of currently pressed keys, stored as a bitfield so that
// an event source on another goroutine can update it atomically.
type Keypad struct {
	state atomic.Uint32
}

// Press marks key as pressed. Codes above 0xF are ignored.
func (k *Keypad) Press(key uint8) {
	if key >= KeyCount {
		return
	}
	k.state.Or(1 << key)
}

// Release marks key as released. Codes above 0xF are ignored.
func (k *Keypad) Release(key uint8) {
	if key >= KeyCount {
		return
	}
	k.state.And(^uint32(1 << key))
}

// IsPressed reports whether key is held. Codes above 0xF are never held.
func (k *Keypad) IsPressed(key uint8) bool {
	if key >= KeyCount {
		return false
	}
	return k.state.Load()&(1<<key) != 0
}

// AnyPressed returns the lowest pressed key code.
func (k *Keypad) AnyPressed() (uint8, bool) {
	s := k.state.Load()
	if s == 0 {
		return 0, false
	}
	return uint8(bits.TrailingZeros32(s)), true
}

// Snapshot returns the pressed state of all keys as a bitfield, bit N for key N.
func (k *Keypad) Snapshot() uint16 {
	return uint16(k.state.Load())
}

// ReleaseAll clears every key.
func (k *Keypad) ReleaseAll() {
	k.state.Store(0)
}
