package chip8

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeypad(t *testing.T) {
	var k Keypad

	_, ok := k.AnyPressed()
	assert.False(t, ok)

	k.Press(0xA)
	k.Press(0xA)
	k.Press(0x3)
	assert.True(t, k.IsPressed(0xA))
	assert.True(t, k.IsPressed(0x3))
	assert.False(t, k.IsPressed(0x4))

	key, ok := k.AnyPressed()
	assert.True(t, ok)
	assert.Equal(t, uint8(0x3), key)

	k.Release(0x3)
	k.Release(0x3)
	key, ok = k.AnyPressed()
	assert.True(t, ok)
	assert.Equal(t, uint8(0xA), key)
	assert.Equal(t, uint16(1<<0xA), k.Snapshot())

	k.Press(0x10)
	k.Release(0xFF)
	assert.Equal(t, uint16(1<<0xA), k.Snapshot())

	k.ReleaseAll()
	assert.Equal(t, uint16(0), k.Snapshot())
}

func TestKeypadOutOfRangeNeverPressed(t *testing.T) {
	var k Keypad
	k.Press(0x2)
	assert.True(t, k.IsPressed(0x2))
	assert.False(t, k.IsPressed(0x12))
	assert.False(t, k.IsPressed(0xFF))
}
