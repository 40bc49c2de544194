package main

import (
	"os"

	"finboard/cmd/finboard/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
