package main

import (
	"os"

	"github.com/GriffinCanCode/calculator/cmd/calc/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
