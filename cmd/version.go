// File: cmd/version.go
package cmd

// Version is set at build time via -ldflags "-X github.com/Svel26/VIO/cmd.Version=...".
var Version = "dev"
