package main

import (
	"time"

	"github.com/mdlayher/brcmfmac/internal/config"
	"github.com/spf13/cobra"
)

const usageLong = `brcmiovar - Runtime iovar access via nl80211 vendor commands

Known btc_mode values:
  0 = disabled
  1 = default (basic coexistence)
  2 = serial (SECI-based)
  4 = full TDM (time-division multiplexing, recommended for A2DP)

Requires: root or CAP_NET_ADMIN
Driver:   brcmfmac (mainline kernel, no patches needed)`

const usageExample = `  brcmiovar wlan0 get_int btc_mode          Read BT coexistence mode
  brcmiovar wlan0 set_int btc_mode 4        Set BT coex to full TDM
  brcmiovar wlan0 get_int btc_params        Read BT coex parameters`

// flags holds the values of command line flags.
type flags struct {
	config       string
	debug        bool
	getBufferLen int
	timeout      time.Duration
}

// newRootCmd builds the brcmiovar command. newClient creates the iovar
// client once flags and configuration are known.
func newRootCmd(newClient clientFunc) *cobra.Command {
	var f flags

	cmd := &cobra.Command{
		Use:           "brcmiovar <interface> get_int <iovar> | <interface> set_int <iovar> <value>",
		Short:         "Runtime iovar access via nl80211 vendor commands.",
		Long:          usageLong,
		Example:       usageExample,
		Args:          cobra.ArbitraryArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runIovar(cmd, args, &f, newClient)
		},
	}

	cmd.Flags().StringVarP(&f.config, "config", "c", config.DefaultPath, "Configuration file")
	cmd.Flags().BoolVarP(&f.debug, "debug", "d", false, "Debug logging (trace)")
	cmd.Flags().IntVar(&f.getBufferLen, "get-buffer-len", 0, "Minimum buffer length requested for get_int (default from config, or 256)")
	cmd.Flags().DurationVarP(&f.timeout, "timeout", "t", 0, "Request timeout (0 waits forever)")

	// Flags precede the interface; a value such as -1 is an argument.
	cmd.Flags().SetInterspersed(false)

	return cmd
}
