package main

import (
	"os"

	"github.com/matrixci/matrixci/src/cli/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
