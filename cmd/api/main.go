// ABOUTME: Main entry point for the arXiv search API
// ABOUTME: Runs the cobra command tree; serving is the default command

package main

import (
	"fmt"
	"os"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "1.0.0"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
