// Package main is the entry point for the projclean CLI tool.
package main

import (
	"os"

	"github.com/projclean/projclean/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
