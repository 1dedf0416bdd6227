package notify

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBeepNeverPanicsWithoutConsole(t *testing.T) {
	logger := zerolog.Nop()
	d := NewDesktop(&logger, false)

	// Exercises the KDMKTONE fallback path; without a writable console it
	// degrades to a BEL on stdout, and must never propagate an error.
	d.beep(true)
	d.beep(false)
}

func TestNotifyCommandDirect(t *testing.T) {
	t.Setenv("SUDO_USER", "")
	t.Setenv("SUDO_UID", "")

	cmd := notifyCommand("Remapping enabled")
	require.NotEmpty(t, cmd.Args)
	assert.Contains(t, cmd.Args[0], "notify-send")
	assert.Contains(t, cmd.Args, "Remapping enabled")
}

func TestNotifyCommandUnderSudo(t *testing.T) {
	t.Setenv("SUDO_USER", "alice")
	t.Setenv("SUDO_UID", "1000")

	cmd := notifyCommand("Remapping disabled")
	require.NotEmpty(t, cmd.Args)
	assert.Contains(t, cmd.Args[0], "sudo")
	assert.Contains(t, cmd.Args, "alice")

	shell := cmd.Args[len(cmd.Args)-1]
	assert.Contains(t, shell, "/run/user/1000/bus")
	assert.Contains(t, shell, "Remapping disabled")
}
