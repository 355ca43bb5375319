// Command brcmiovar reads and writes brcmfmac firmware iovars at runtime
// through nl80211 vendor commands.
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCmd(newClient).Execute(); err != nil {
		if !reported(err) {
			fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		}
		os.Exit(1)
	}
}
