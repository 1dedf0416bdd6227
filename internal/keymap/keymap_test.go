package keymap

import (
	"testing"

	evdev "github.com/holoplot/go-evdev"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKey(t *testing.T) {
	tests := []struct {
		name string
		want evdev.EvCode
		ok   bool
	}{
		{"W", evdev.KEY_W, true},
		{"w", evdev.KEY_W, true},
		{"KEY_W", evdev.KEY_W, true},
		{"key_w", evdev.KEY_W, true},
		{"LeftCtrl", evdev.KEY_LEFTCTRL, true},
		{"LEFTCTRL", evdev.KEY_LEFTCTRL, true},
		{"Enter", evdev.KEY_ENTER, true},
		{"KP1", evdev.KEY_KP1, true},
		{"Up", evdev.KEY_UP, true},
		{" Up ", evdev.KEY_UP, true},
		{"NotAKey", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := Key(tt.name)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, code)
			}
		})
	}
}

func TestLed(t *testing.T) {
	tests := []struct {
		name string
		want evdev.EvCode
		ok   bool
	}{
		{"numlock", evdev.LED_NUML, true},
		{"NumLock", evdev.LED_NUML, true},
		{"num_lock", evdev.LED_NUML, true},
		{"capslock", evdev.LED_CAPSL, true},
		{"scrolllock", evdev.LED_SCROLLL, true},
		{"LED_NUML", evdev.LED_NUML, true},
		{"numl", evdev.LED_NUML, true},
		{"bogus", 0, false},
		{"", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := Led(tt.name)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, code)
			}
		})
	}
}

func TestKeyName(t *testing.T) {
	assert.Equal(t, "KEY_W", KeyName(evdev.KEY_W))
	assert.Equal(t, "KEY_LEFTCTRL", KeyName(evdev.KEY_LEFTCTRL))
}

func TestLedName(t *testing.T) {
	assert.Equal(t, "LED_NUML", LedName(evdev.LED_NUML))
}

func TestLedForLockKey(t *testing.T) {
	led, ok := LedForLockKey(evdev.KEY_NUMLOCK)
	require.True(t, ok)
	assert.Equal(t, evdev.EvCode(evdev.LED_NUML), led)

	led, ok = LedForLockKey(evdev.KEY_CAPSLOCK)
	require.True(t, ok)
	assert.Equal(t, evdev.EvCode(evdev.LED_CAPSL), led)

	led, ok = LedForLockKey(evdev.KEY_SCROLLLOCK)
	require.True(t, ok)
	assert.Equal(t, evdev.EvCode(evdev.LED_SCROLLL), led)

	_, ok = LedForLockKey(evdev.KEY_A)
	assert.False(t, ok)
}
