package main

import (
	"os"
)

// Set with -ldflags "-X main.version=..." at build time.
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
