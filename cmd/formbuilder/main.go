package main

import (
	"os"

	"github.com/goliatone/go-formbuilder/cmd/formbuilder/commands"
)

// Version is stamped at release time.
const Version = "v0.1.0"

func main() {
	commands.SetVersion(Version)

	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
