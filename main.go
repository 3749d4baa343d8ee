// ./main.go
package main

import (
	"github.com/Svel26/VIO/cmd"
)

// main is the entry point for the vio binary.
func main() {
	cmd.Execute()
}
