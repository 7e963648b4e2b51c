package main

import (
	"os"

	"stampgo/internal/cmd"
)

// Version information set via ldflags during build
// Example: go build -ldflags="-X main.version=1.0.0 -X main.commit=abc123 -X main.buildDate=2026-10-18"
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func main() {
	cmd.SetVersionInfo(version, commit, buildDate)

	// cobra has already printed the error
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
