package device

import (
	"fmt"

	evdev "github.com/holoplot/go-evdev"
)

// virtualName is what downstream consumers see as the device name.
const virtualName = "keymapd virtual keyboard"

// NewVirtualKeyboard creates a uinput device advertising the same
// capabilities as the template, so downstream software sees a keyboard
// indistinguishable from the physical one. Failure here is a privilege or
// configuration problem and aborts startup.
func NewVirtualKeyboard(template *evdev.InputDevice) (*evdev.InputDevice, error) {
	virt, err := evdev.CloneDevice(virtualName, template)
	if err != nil {
		return nil, fmt.Errorf("creating virtual keyboard: %w", err)
	}
	return virt, nil
}

// IndicatorState reads the template device's current lock-indicator state.
// It seeds the engine once at startup; afterwards the engine tracks lock
// keys in software. Devices without LED support report an empty state.
func IndicatorState(dev *evdev.InputDevice) map[evdev.EvCode]bool {
	state, err := dev.State(evdev.EV_LED)
	if err != nil {
		return map[evdev.EvCode]bool{}
	}
	leds := make(map[evdev.EvCode]bool, len(state))
	for code, on := range state {
		leds[code] = on
	}
	return leds
}
