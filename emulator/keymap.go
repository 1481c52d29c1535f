package emulator

import "github.com/veandco/go-sdl2/sdl"

// scanCode2Key maps the 4x4 block starting at the 4 key onto the keypad.
var scanCode2Key = map[sdl.Scancode]uint8{
	sdl.SCANCODE_4: 0x1,
	sdl.SCANCODE_5: 0x2,
	sdl.SCANCODE_6: 0x3,
	sdl.SCANCODE_7: 0xc,
	sdl.SCANCODE_R: 0x4,
	sdl.SCANCODE_T: 0x5,
	sdl.SCANCODE_Y: 0x6,
	sdl.SCANCODE_U: 0xd,
	sdl.SCANCODE_F: 0x7,
	sdl.SCANCODE_G: 0x8,
	sdl.SCANCODE_H: 0x9,
	sdl.SCANCODE_J: 0xe,
	sdl.SCANCODE_V: 0xa,
	sdl.SCANCODE_B: 0x0,
	sdl.SCANCODE_N: 0xb,
	sdl.SCANCODE_M: 0xf,
}
