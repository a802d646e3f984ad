package main

import (
	"os"

	"github.com/MehtiSini/HappyTools-sub000/cmd/happytools/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
