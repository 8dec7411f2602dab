package main

import (
	"os"

	"github.com/ideafoundry/toon/cmd/toon/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
