package main

import (
	"os"

	"github.com/mallhub-dev/mallhub/internal/cli"
)

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
