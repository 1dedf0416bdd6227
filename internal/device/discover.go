// Package device finds and exclusively captures physical keyboards under
// /dev/input, and synthesizes the uinput virtual keyboard the remapped
// stream is emitted on.
package device

import (
	"fmt"

	evdev "github.com/holoplot/go-evdev"
	"github.com/rs/zerolog"
)

// Keyboard is an opened physical keyboard device.
type Keyboard struct {
	Dev  *evdev.InputDevice
	Path string
	Name string
}

// Enumeration and open are indirected so discovery can be exercised
// without real device nodes.
var (
	listDevicePaths = evdev.ListDevicePaths
	openDevice      = evdev.Open
)

// FindKeyboards enumerates the input device nodes and returns every device
// that classifies as a keyboard. Devices that fail to open are skipped.
// Zero keyboards is an error.
func FindKeyboards(logger *zerolog.Logger) ([]*Keyboard, error) {
	paths, err := listDevicePaths()
	if err != nil {
		return nil, fmt.Errorf("listing input devices: %w", err)
	}

	var keyboards []*Keyboard
	for _, p := range paths {
		dev, err := openDevice(p.Path)
		if err != nil {
			logger.Debug().Err(err).Str("path", p.Path).Msg("Skipping unopenable device")
			continue
		}

		if !isKeyboard(keySet(dev)) {
			dev.Close()
			continue
		}

		name, err := dev.Name()
		if err != nil {
			name = "unknown"
		}
		logger.Info().Str("path", p.Path).Str("name", name).Msg("Found keyboard")
		keyboards = append(keyboards, &Keyboard{Dev: dev, Path: p.Path, Name: name})
	}

	if len(keyboards) == 0 {
		return nil, fmt.Errorf("no keyboards found")
	}
	return keyboards, nil
}

func keySet(dev *evdev.InputDevice) map[evdev.EvCode]bool {
	codes := dev.CapableEvents(evdev.EV_KEY)
	set := make(map[evdev.EvCode]bool, len(codes))
	for _, c := range codes {
		set[c] = true
	}
	return set
}

// isKeyboard reports whether a device's key capabilities look like a plain
// keyboard: it can produce letters and is not a pointer. The mouse-button
// check excludes combo keyboard+trackpad devices whose pointer half would
// otherwise be captured too.
func isKeyboard(keys map[evdev.EvCode]bool) bool {
	return keys[evdev.KEY_A] && !keys[evdev.BTN_LEFT]
}

// GrabAll acquires exclusive access to every keyboard, or none: if any grab
// fails, grabs already taken are released before the error is returned.
// A partial grab would leak duplicate keystrokes downstream.
func GrabAll(keyboards []*Keyboard) error {
	for i, kb := range keyboards {
		if err := kb.Dev.Grab(); err != nil {
			for _, held := range keyboards[:i] {
				held.Dev.Ungrab()
			}
			return fmt.Errorf("grabbing %s (%s): %w", kb.Path, kb.Name, err)
		}
	}
	return nil
}

// ReleaseAll ungrabs and closes every keyboard.
func ReleaseAll(keyboards []*Keyboard) {
	for _, kb := range keyboards {
		kb.Dev.Ungrab()
		kb.Dev.Close()
	}
}
