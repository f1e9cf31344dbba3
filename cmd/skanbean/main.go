package main

import (
	"os"

	"github.com/fatih/color"

	"github.com/skanbean-dev/skanbean/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
