// Package keymapd wires device capture, the remapping engine, and the
// virtual output device into the single-threaded event loop that is the
// daemon's whole runtime.
package keymapd

import (
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	evdev "github.com/holoplot/go-evdev"
	"golang.org/x/sys/unix"

	"github.com/mvoss/keymapd/internal/config"
	"github.com/mvoss/keymapd/internal/device"
	"github.com/mvoss/keymapd/internal/engine"
	"github.com/mvoss/keymapd/internal/notify"
	"github.com/mvoss/keymapd/internal/rules"
)

// pollInterval bounds CPU usage between poll rounds without noticeable
// input latency.
const pollInterval = 250 * time.Microsecond

// Options configures a daemon run.
type Options struct {
	ConfigPath string
	NoNotify   bool
}

// Run starts the daemon and blocks until a fatal error or a termination
// signal. Validation happens strictly before any device is grabbed, so a
// bad config never leaves keyboards captured.
func Run(opts Options) error {
	path := opts.ConfigPath
	if path == "" {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	set, err := rules.Compile(cfg.Toggle, cfg.Mappings, &configLogger)
	if err != nil {
		return err
	}
	appLogger.Info().Str("config", path).Int("rules", len(set.Rules)).
		Str("toggle", cfg.Toggle).Msg("Configuration loaded")

	keyboards, err := device.FindKeyboards(&deviceLogger)
	if err != nil {
		return err
	}
	defer device.ReleaseAll(keyboards)

	// The first keyboard is the capability template for the virtual device.
	virt, err := device.NewVirtualKeyboard(keyboards[0].Dev)
	if err != nil {
		return err
	}
	defer virt.Close()

	if err := device.GrabAll(keyboards); err != nil {
		return err
	}
	for _, kb := range keyboards {
		enableNonBlock(kb.Path, kb.Dev)
	}

	sink := notify.NewDesktop(&notifyLogger, opts.NoNotify)
	eng := engine.New(set, virt, sink, &engineLogger)
	eng.SeedIndicators(device.IndicatorState(keyboards[0].Dev))

	// Live reload: recompiled rule sets are handed to the poll loop through
	// a channel so engine state is only ever touched from the one thread.
	reload := make(chan *rules.Set, 1)
	watcher, err := config.Watch(path, &configLogger, func() {
		recompileInto(path, reload)
	})
	if err != nil {
		configLogger.Warn().Err(err).Msg("Config watching unavailable, live reload disabled")
	} else {
		defer watcher.Close()
	}

	appLogger.Info().Int("keyboards", len(keyboards)).
		Msgf("Running, press %s to toggle remapping", cfg.Toggle)

	return pollLoop(keyboards, eng, reload)
}

type nonBlocker interface {
	NonBlock() error
}

// enableNonBlock switches a grabbed device to non-blocking reads. A device
// stuck in blocking mode would stall the poll loop on its turn, so failures
// are reported but do not abort startup.
func enableNonBlock(path string, dev nonBlocker) {
	if err := dev.NonBlock(); err != nil {
		deviceLogger.Warn().Err(err).Str("path", path).Msg("Failed to set non-blocking read mode")
	}
}

// recompileInto loads and compiles the config file and queues the result
// for the poll loop. Errors keep the previous rule set.
func recompileInto(path string, reload chan *rules.Set) {
	cfg, err := config.Load(path)
	if err != nil {
		configLogger.Warn().Err(err).Msg("Config reload failed, keeping previous rules")
		return
	}
	set, err := rules.Compile(cfg.Toggle, cfg.Mappings, &configLogger)
	if err != nil {
		configLogger.Warn().Err(err).Msg("Config reload failed, keeping previous rules")
		return
	}

	select {
	case reload <- set:
	default:
		// A pending set is already queued; drop the older one.
		select {
		case <-reload:
		default:
		}
		reload <- set
	}
	configLogger.Info().Int("rules", len(set.Rules)).Msg("Configuration reloaded")
}

// pollLoop drains each round's pending events from every keyboard in a fixed
// order and feeds them to the engine one at a time. Read failures skip the
// device for the round; a failed emission is fatal.
func pollLoop(keyboards []*device.Keyboard, eng *engine.Engine, reload <-chan *rules.Set) error {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	for {
		select {
		case s := <-sig:
			appLogger.Info().Str("signal", s.String()).Msg("Shutting down")
			return nil
		case set := <-reload:
			eng.SetRules(set)
		default:
		}

		for _, kb := range keyboards {
			if err := drain(kb.Dev, eng); err != nil {
				return err
			}
		}

		time.Sleep(pollInterval)
	}
}

// drain reads all pending events from one device. Returns an error only
// when emitting on the virtual device fails.
func drain(dev *evdev.InputDevice, eng *engine.Engine) error {
	for {
		ev, err := dev.ReadOne()
		if err != nil {
			if !errors.Is(err, unix.EAGAIN) && !errors.Is(err, unix.EWOULDBLOCK) {
				deviceLogger.Warn().Err(err).Msg("Device read failed, skipping this round")
			}
			return nil
		}
		if err := eng.ProcessEvent(ev); err != nil {
			return fmt.Errorf("emitting to virtual device: %w", err)
		}
	}
}

// ListDevices prints every discovered keyboard without grabbing anything.
func ListDevices() error {
	keyboards, err := device.FindKeyboards(&deviceLogger)
	if err != nil {
		return err
	}
	defer device.ReleaseAll(keyboards)

	for _, kb := range keyboards {
		fmt.Printf("%s\t%s\n", kb.Path, kb.Name)
	}
	return nil
}
