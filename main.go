package main

import (
	"os"

	"github.com/hostpath/hostpath/pkg/cmd"
)

func main() {
	command := cmd.NewDefaultHostpathCommand()

	if err := command.Execute(); err != nil {
		os.Exit(1)
	}
}
