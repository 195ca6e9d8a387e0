package main

import (
	"os"

	"github.com/trueloving/deskfolio/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
