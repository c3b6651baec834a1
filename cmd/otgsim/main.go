// Command otgsim replays USB bus scenarios against a simulated OTG FS
// controller and decodes controller register values.
//
// Usage:
//
//	otgsim [--log-level level] [--log-format text|json] <command>
//
// Commands:
//
//	run [--step] <scenario.yaml>   replay a scenario, printing Device Core events
//	decode <register> <value>      print the fields of a GINTSTS, DAINT, GRXSTS or DSTS value
//
// A scenario lists one action per step:
//
//	speed: full
//	steps:
//	  - reset: true
//	  - setup: "80 06 00 01 00 00 40 00"
//	  - write: {endpoint: 0, data: "12 01 00 02"}
//	  - tx_empty: 0
//	  - in_complete: 0
package main

import (
	"os"

	"github.com/ardnew/otgfs/pkg"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		pkg.LogError(pkg.ComponentCLI, "command failed", "error", err)
		os.Exit(1)
	}
}
