// Command fdcdemo is a manual smoke-test CLI for the fdc core: it wires up
// an in-memory disk, drive, scheduler, DMA engine and interrupt sink, runs
// a scripted command sequence against the controller, and prints the
// resulting status. Grounded on retroio's cmd/amstrad_read.go and
// cmd/amstrad_cat.go pattern (open/build a value, run an operation, print a
// report), generalized from reading a real .dsk file to building a
// synthetic disk image, since a container file format is out of this
// core's scope.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fdcdemo",
	Short: "Exercise the fd1797 controller core with a scripted command sequence",
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
