package keymapd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

var rootLogger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
	With().Timestamp().Logger()

var (
	appLogger    = subsystemLogger("app")
	configLogger = subsystemLogger("config")
	deviceLogger = subsystemLogger("device")
	engineLogger = subsystemLogger("engine")
	notifyLogger = subsystemLogger("notify")
)

func subsystemLogger(name string) zerolog.Logger {
	return rootLogger.With().Str("subsystem", name).Logger()
}

// SetLogLevel sets the process-wide log level from its string name.
func SetLogLevel(level string) error {
	l, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	zerolog.SetGlobalLevel(l)
	return nil
}
