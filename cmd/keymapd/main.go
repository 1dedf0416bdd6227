package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mvoss/keymapd"
)

var (
	version = "0.1.0"

	configPath string
	logLevel   string
	noNotify   bool
)

var rootCmd = &cobra.Command{
	Use:   "keymapd",
	Short: "Toggleable keyboard remapping daemon",
	Long: `keymapd exclusively grabs your physical keyboards, applies a
configurable key remapping, and re-emits the result through a virtual
keyboard, so applications only ever see the remapped stream.

Remapping starts disabled; press the configured toggle combo to enable it.
Mappings can be conditioned on lock indicators (Num/Caps/Scroll Lock).

Must run with permission to read /dev/input/event* and write /dev/uinput
(typically as root).`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := keymapd.SetLogLevel(logLevel); err != nil {
			return err
		}
		return keymapd.Run(keymapd.Options{
			ConfigPath: configPath,
			NoNotify:   noNotify,
		})
	},
}

var devicesCmd = &cobra.Command{
	Use:   "devices",
	Short: "List keyboards that would be captured",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := keymapd.SetLogLevel(logLevel); err != nil {
			return err
		}
		return keymapd.ListDevices()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default: /etc/keymapd/config.toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (trace, debug, info, warn, error)")
	rootCmd.Flags().BoolVar(&noNotify, "no-notify", false, "disable desktop notifications on toggle")
	rootCmd.AddCommand(devicesCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
