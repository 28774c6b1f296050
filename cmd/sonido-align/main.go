// Package main provides the sonido-align CLI.
//
// Usage:
//
//	sonido-align [flags] <command> [args]
//
// Commands:
//
//	align    - align a recording against a transcript or a reference file
//	features - print the MFCC matrix of an audio file
//	engines  - list the available TTS engines
//	config   - print the effective configuration
package main

import (
	"fmt"
	"os"

	"github.com/RyanBlaney/sonido-align/cmd/sonido-align/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
