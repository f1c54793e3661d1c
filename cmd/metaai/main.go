// Package main is the entry point for the metaai CLI.
package main

import (
	"fmt"
	"os"

	"github.com/adaiasmagdiel/metaai-go/internal/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
