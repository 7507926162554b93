// cmd/ragdeck/main.go
package main

import (
	cmd "ragdeck/internal/cli"
)

// Build-time variables, injected via -ldflags "-X main.version=...".
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// main starts the ragdeck CLI application by delegating to the cobra
// root command. It does not take any arguments and does not return a
// value.
func main() {
	cmd.SetVersionInfo(version, commit, date)
	cmd.Execute()
}
