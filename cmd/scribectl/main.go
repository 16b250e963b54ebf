// Command scribectl is the operator CLI for a scribe database.
package main

import (
	"os"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()
	if err := NewRootCmd(openConfigured).Execute(); err != nil {
		os.Exit(1)
	}
}
