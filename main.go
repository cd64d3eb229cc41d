package main

import (
	"fmt"
	"os"

	"github.com/thenoetrevino/etapa/cmd"
	"github.com/thenoetrevino/etapa/internal/logging"
)

func main() {
	// Initialize logging to file before anything else
	if err := logging.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
