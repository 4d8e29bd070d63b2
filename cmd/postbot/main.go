// Package main is the entry point for the postbot application.
package main

import (
	"os"

	"github.com/Levilaell/script-post-ai/cmd/postbot/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
