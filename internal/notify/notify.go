// Package notify announces toggle state changes to the desktop user.
//
// keymapd normally runs as root (grabbing /dev/input requires it), so
// notify-send is bridged into the invoking user's session via SUDO_USER and
// the session D-Bus address, the same way the user launched us. When no
// desktop notification can be delivered the sink degrades to a console
// beep; it never reports failure back to the engine.
package notify

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

const notifyTimeoutMs = 1500

// KDMKTONE console ioctl (linux/kd.h), not wrapped by x/sys/unix.
const kdmktone = 0x4B30

// KDMKTONE tone argument: low 16 bits are the period in ticks
// (1193180/freq), high 16 bits the duration in ms.
const beepTone = (120 << 16) | (1193180 / 880)

// Desktop is a fire-and-forget Notifier for the remapping engine.
type Desktop struct {
	log      *zerolog.Logger
	disabled bool
}

// NewDesktop returns a sink. With disabled set, toggles are only logged.
func NewDesktop(logger *zerolog.Logger, disabled bool) *Desktop {
	return &Desktop{log: logger, disabled: disabled}
}

// Toggled implements engine.Notifier.
func (d *Desktop) Toggled(enabled bool) {
	if d.disabled {
		return
	}

	msg := "Remapping disabled"
	if enabled {
		msg = "Remapping enabled"
	}

	cmd := notifyCommand(msg)
	if err := cmd.Start(); err != nil {
		d.log.Debug().Err(err).Msg("notify-send unavailable, falling back to beep")
		d.beep(enabled)
		return
	}
	go cmd.Wait()
}

// notifyCommand builds the notify-send invocation. Under sudo the command is
// re-wrapped into the invoking user's session so the notification reaches
// their desktop.
func notifyCommand(msg string) *exec.Cmd {
	user := os.Getenv("SUDO_USER")
	uid := os.Getenv("SUDO_UID")
	if user != "" && uid != "" {
		shell := fmt.Sprintf(
			"DBUS_SESSION_BUS_ADDRESS=unix:path=/run/user/%s/bus notify-send -t %d keymapd '%s'",
			uid, notifyTimeoutMs, msg)
		return exec.Command("sudo", "-u", user, "sh", "-c", shell)
	}
	return exec.Command("notify-send", "-t", fmt.Sprint(notifyTimeoutMs), "keymapd", msg)
}

// beep sounds the console speaker: twice for enable, once for disable.
// Falls back to a BEL on stdout when the console is not writable.
func (d *Desktop) beep(enabled bool) {
	count := 1
	if enabled {
		count = 2
	}

	f, err := os.OpenFile("/dev/tty0", os.O_WRONLY, 0)
	if err != nil {
		for i := 0; i < count; i++ {
			os.Stdout.WriteString("\a")
		}
		return
	}
	defer f.Close()

	for i := 0; i < count; i++ {
		if err := unix.IoctlSetInt(int(f.Fd()), kdmktone, beepTone); err != nil {
			d.log.Debug().Err(err).Msg("Console beep failed")
			return
		}
	}
}
