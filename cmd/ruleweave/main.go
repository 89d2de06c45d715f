package main

import (
	"os"

	"github.com/ruleweave/ruleweave/cmd/ruleweave/commands"
)

func main() {
	if err := commands.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
