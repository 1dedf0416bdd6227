// Package engine implements the stateful remapping core. One engine instance
// owns the activation flag, the held-key map, and the software-tracked
// lock-indicator state; it is driven by a single event loop, so none of its
// state needs locking.
package engine

import (
	evdev "github.com/holoplot/go-evdev"
	"github.com/rs/zerolog"

	"github.com/mvoss/keymapd/internal/keymap"
	"github.com/mvoss/keymapd/internal/rules"
)

// Key event values as delivered by the kernel.
const (
	KeyReleased = 0
	KeyPressed  = 1
	KeyRepeated = 2
)

// Writer is where the engine emits its output stream. *evdev.InputDevice
// satisfies it.
type Writer interface {
	WriteOne(ev *evdev.InputEvent) error
}

// Notifier receives the new activation state after every toggle. It is
// fire-and-forget: the engine neither blocks on it nor sees its outcome.
type Notifier interface {
	Toggled(enabled bool)
}

// Engine decides, per incoming event, whether to pass it through or
// substitute its key code, and drives toggle detection. It starts inactive.
type Engine struct {
	set  *rules.Set
	out  Writer
	sink Notifier
	log  *zerolog.Logger

	active bool
	held   map[evdev.EvCode]bool
	leds   map[evdev.EvCode]bool
}

// New creates an engine for the given rule set, emitting on out. sink may
// be nil.
func New(set *rules.Set, out Writer, sink Notifier, logger *zerolog.Logger) *Engine {
	return &Engine{
		set:  set,
		out:  out,
		sink: sink,
		log:  logger,
		held: make(map[evdev.EvCode]bool),
		leds: make(map[evdev.EvCode]bool),
	}
}

// SeedIndicators installs the indicator state read from the physical device
// at startup. After seeding, the engine trusts only the lock key presses it
// observes, never the hardware LEDs.
func (e *Engine) SeedIndicators(state map[evdev.EvCode]bool) {
	for led, on := range state {
		e.leds[led] = on
	}
}

// SetRules swaps in a freshly compiled rule set. Activation, held-key and
// indicator state are preserved. Must be called from the event loop, between
// events.
func (e *Engine) SetRules(set *rules.Set) {
	e.set = set
}

// Active reports whether remapping is currently enabled.
func (e *Engine) Active() bool {
	return e.active
}

// ProcessEvent feeds one event from a captured device through the engine,
// emitting zero or one event on the virtual device. Only a failed emission
// returns an error; it means the output channel is broken and is fatal to
// the caller.
func (e *Engine) ProcessEvent(ev *evdev.InputEvent) error {
	// Non-key events (sync markers etc.) are forwarded untouched, keeping
	// their order relative to the key events they frame.
	if ev.Type != evdev.EV_KEY {
		return e.out.WriteOne(ev)
	}

	if led, ok := keymap.LedForLockKey(ev.Code); ok && ev.Value == KeyPressed {
		e.leds[led] = !e.leds[led]
		e.log.Debug().Str("led", keymap.LedName(led)).Bool("on", e.leds[led]).
			Msg("Indicator toggled")
	}

	e.held[ev.Code] = ev.Value != KeyReleased

	if ev.Value == KeyPressed && ev.Code == e.set.Toggle.Trigger && e.modifiersHeld() {
		e.active = !e.active
		e.log.Info().Bool("active", e.active).Msg("Remapping toggled")
		if e.sink != nil {
			e.sink.Toggled(e.active)
		}
		// The toggle press is consumed, never leaked downstream.
		return nil
	}

	code := ev.Code
	if e.active {
		if target, ok := e.match(ev.Code); ok {
			code = target
		}
	}

	if code == ev.Code {
		return e.out.WriteOne(ev)
	}

	mapped := *ev
	mapped.Code = code
	return e.out.WriteOne(&mapped)
}

func (e *Engine) modifiersHeld() bool {
	for _, mod := range e.set.Toggle.Modifiers {
		if !e.held[mod] {
			return false
		}
	}
	return true
}

// match returns the target of the first rule (in compiled order) whose
// source matches and whose conditions all hold against the tracked
// indicator state.
func (e *Engine) match(code evdev.EvCode) (evdev.EvCode, bool) {
	for i := range e.set.Rules {
		r := &e.set.Rules[i]
		if r.Source != code {
			continue
		}
		if e.satisfied(r.Conditions) {
			return r.Target, true
		}
	}
	return 0, false
}

func (e *Engine) satisfied(conds []rules.Condition) bool {
	for _, c := range conds {
		if e.leds[c.Led] != c.On {
			return false
		}
	}
	return true
}
