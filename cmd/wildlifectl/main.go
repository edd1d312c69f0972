// Command wildlifectl summarizes and filters observation files from the
// command line, using the same loader, filters and exporter as the server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// Optional; lets the CLI pick up DATA_PATH from the server's .env
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
