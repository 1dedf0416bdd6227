// Package keymap resolves human-readable key and indicator names to Linux
// input event codes and back. It is a thin, stateless layer over the
// bidirectional tables shipped with go-evdev, so the accepted spelling is
// whatever the kernel headers call a key, with or without the conventional
// KEY_/LED_ prefix and in any case.
package keymap

import (
	"strings"

	evdev "github.com/holoplot/go-evdev"
)

// ledAliases accepts the names users actually write in config sections
// ("numlock_off") for indicators whose kernel names are abbreviated
// (LED_NUML, LED_CAPSL, LED_SCROLLL).
var ledAliases = map[string]string{
	"NUMLOCK":     "LED_NUML",
	"NUM_LOCK":    "LED_NUML",
	"CAPSLOCK":    "LED_CAPSL",
	"CAPS_LOCK":   "LED_CAPSL",
	"SCROLLLOCK":  "LED_SCROLLL",
	"SCROLL_LOCK": "LED_SCROLLL",
}

// lockKeyLeds maps the lock keys to the indicator they drive.
var lockKeyLeds = map[evdev.EvCode]evdev.EvCode{
	evdev.KEY_NUMLOCK:    evdev.LED_NUML,
	evdev.KEY_CAPSLOCK:   evdev.LED_CAPSL,
	evdev.KEY_SCROLLLOCK: evdev.LED_SCROLLL,
}

// Key resolves a key name such as "LeftCtrl", "kp1" or "KEY_W" to its event
// code. The second return value is false for unrecognized names.
func Key(name string) (evdev.EvCode, bool) {
	n := strings.ToUpper(strings.TrimSpace(name))
	if n == "" {
		return 0, false
	}
	if !strings.HasPrefix(n, "KEY_") {
		n = "KEY_" + n
	}
	code, ok := evdev.KEYFromString[n]
	return code, ok
}

// Led resolves an indicator name such as "numlock" or "LED_CAPSL" to its
// LED code. The second return value is false for unrecognized names.
func Led(name string) (evdev.EvCode, bool) {
	n := strings.ToUpper(strings.TrimSpace(name))
	if n == "" {
		return 0, false
	}
	if alias, ok := ledAliases[n]; ok {
		n = alias
	}
	if !strings.HasPrefix(n, "LED_") {
		n = "LED_" + n
	}
	code, ok := evdev.LEDFromString[n]
	return code, ok
}

// KeyName returns the kernel name for a key code, falling back to the
// generic code name for codes without one.
func KeyName(code evdev.EvCode) string {
	if name, ok := evdev.KEYToString[code]; ok {
		return name
	}
	return evdev.CodeName(evdev.EV_KEY, code)
}

// LedName returns the kernel name for an indicator code.
func LedName(code evdev.EvCode) string {
	if name, ok := evdev.LEDToString[code]; ok {
		return name
	}
	return evdev.CodeName(evdev.EV_LED, code)
}

// LedForLockKey returns the indicator driven by a lock key (Num Lock, Caps
// Lock, Scroll Lock). ok is false for every other key.
func LedForLockKey(code evdev.EvCode) (led evdev.EvCode, ok bool) {
	led, ok = lockKeyLeds[code]
	return led, ok
}
