// ./main.go
package main

import (
	"github.com/claudiorodrigues01/bycrr-ai/cmd"
)

// main is the entry point for the By-CRR AI agent CLI.
func main() {
	// Execute the root command defined in the cmd package.
	// It handles command-line parsing, configuration, and execution.
	cmd.Execute()
}
